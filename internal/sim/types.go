package sim

import (
	"errors"

	"github.com/san-kum/worb/internal/world"
)

var (
	ErrInvalidDt       = errors.New("sim: dt must be positive")
	ErrInvalidDuration = errors.New("sim: duration must be positive")
)

type BodyState struct {
	Position        [3]float64
	Orientation     [4]float64
	Velocity        [3]float64
	AngularVelocity [3]float64
	Active          bool
}

type Frame struct {
	Time            float64
	Bodies          []BodyState
	KineticEnergy   float64
	PotentialEnergy float64
	LinearMomentum  [3]float64
	AngularMomentum [3]float64
	Contacts        int
}

type Metric interface {
	Name() string
	Observe(w *world.World)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(w *world.World)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Frames  []Frame
	Metrics map[string]float64
}

func Snapshot(w *world.World) Frame {
	bodies := w.Bodies()
	frame := Frame{
		Time:            w.Time,
		Bodies:          make([]BodyState, len(bodies)),
		KineticEnergy:   w.TotalKineticEnergy,
		PotentialEnergy: w.TotalPotentialEnergy,
		LinearMomentum: [3]float64{
			w.TotalLinearMomentum.X, w.TotalLinearMomentum.Y, w.TotalLinearMomentum.Z,
		},
		AngularMomentum: [3]float64{
			w.TotalAngularMomentum.X, w.TotalAngularMomentum.Y, w.TotalAngularMomentum.Z,
		},
		Contacts: w.Contacts().Count(),
	}

	for i, b := range bodies {
		frame.Bodies[i] = BodyState{
			Position:    [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
			Orientation: [4]float64{b.Orientation.W, b.Orientation.X, b.Orientation.Y, b.Orientation.Z},
			Velocity:    [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
			AngularVelocity: [3]float64{
				b.AngularVelocity.X, b.AngularVelocity.Y, b.AngularVelocity.Z,
			},
			Active: b.Active,
		}
	}

	return frame
}
