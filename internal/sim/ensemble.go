package sim

import (
	"context"
	"sync"

	"github.com/san-kum/worb/internal/world"
)

// WorldFactory builds an independent world for ensemble run i. Worlds
// are stateful, so each run must get its own.
type WorldFactory func(i int) (*world.World, error)

type Ensemble struct {
	factory WorldFactory
	metrics []func() Metric
	numRuns int
}

func NewEnsemble(factory WorldFactory, numRuns int) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns}
}

// AddMetric registers a metric constructor; each run gets a fresh
// instance so concurrent runs do not share observer state.
func (e *Ensemble) AddMetric(newMetric func() Metric) {
	e.metrics = append(e.metrics, newMetric)
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w, err := e.factory(idx)
			if err != nil {
				errs[idx] = err
				return
			}

			runner := New(w)
			for _, newMetric := range e.metrics {
				runner.AddMetric(newMetric())
			}

			results[idx], errs[idx] = runner.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
