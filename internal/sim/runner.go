package sim

import (
	"context"

	"github.com/san-kum/worb/internal/world"
)

type Runner struct {
	world     *world.World
	metrics   []Metric
	observers []Observer
}

func New(w *world.World) *Runner {
	return &Runner{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) World() *world.World { return r.world }

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Frames:  make([]Frame, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	r.world.Initialize()
	result.Frames = append(result.Frames, Snapshot(r.world))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := r.world.Step(cfg.Dt); err != nil {
			return result, err
		}

		for _, m := range r.metrics {
			m.Observe(r.world)
		}
		for _, obs := range r.observers {
			obs.OnStep(r.world)
		}

		result.Frames = append(result.Frames, Snapshot(r.world))
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps the world and hands each frame to the callback
// instead of collecting them. Returning false stops the run early.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	r.world.Initialize()

	for r.world.Time < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := r.world.Step(cfg.Dt); err != nil {
			return err
		}

		for _, m := range r.metrics {
			m.Observe(r.world)
		}

		if !callback(Snapshot(r.world)) {
			return nil
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return ErrInvalidDt
	}
	if cfg.Duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}
