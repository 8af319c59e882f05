package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/worb/internal/body"
	"github.com/san-kum/worb/internal/geometry"
	"github.com/san-kum/worb/internal/quat"
	"github.com/san-kum/worb/internal/sim"
	"github.com/san-kum/worb/internal/world"
)

// speedMetric reports the final speed of the first body; a damped drop
// ends slower, which gives the search something to minimize.
type speedMetric struct {
	speed float64
}

func (s *speedMetric) Name() string { return "final_speed" }
func (s *speedMetric) Observe(w *world.World) {
	s.speed = w.Bodies()[0].Velocity.ImNorm()
}
func (s *speedMetric) Value() float64 { return s.speed }
func (s *speedMetric) Reset()         { s.speed = 0 }

func TestGridSearch(t *testing.T) {
	build := func(params map[string]float64) (*sim.Runner, error) {
		cfg := world.DefaultConfig()
		cfg.Restitution = params["restitution"]
		w, err := world.New(cfg)
		if err != nil {
			return nil, err
		}

		b := body.New()
		b.SetState(quat.Vector(0, 2, 0), quat.Scalar(1), quat.Quaternion{}, quat.Quaternion{})
		s, err := geometry.NewSphere(b, 0.5)
		if err != nil {
			return nil, err
		}
		s.SetMass(1)
		b.Activate()
		if err := w.Add(s); err != nil {
			return nil, err
		}

		floor, err := geometry.NewHalfSpace(quat.Vector(0, 1, 0), 0)
		if err != nil {
			return nil, err
		}
		if err := w.Add(floor); err != nil {
			return nil, err
		}

		runner := sim.New(w)
		runner.AddMetric(&speedMetric{})
		return runner, nil
	}

	search := NewGridSearch(
		[]string{"restitution"},
		[][]float64{{0.0, 0.5, 1.0}},
	)

	best, value, err := search.Search(context.Background(), build,
		sim.Config{Dt: 0.005, Duration: 2}, "final_speed")
	if err != nil {
		t.Fatal(err)
	}

	if best == nil {
		t.Fatal("expected a best parameter assignment")
	}
	if best["restitution"] == 1.0 {
		t.Errorf("a dead drop should end slower than an elastic one, best %v", best)
	}
	if math.IsInf(value, 1) {
		t.Error("search should have evaluated at least one assignment")
	}
}
