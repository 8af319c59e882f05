// Package world ties the simulation together: it owns the shapes and
// their bodies, applies gravity, integrates the equations of motion and
// runs collision detection and response every step.
package world

import (
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/worb/internal/body"
	"github.com/san-kum/worb/internal/contact"
	"github.com/san-kum/worb/internal/geometry"
	"github.com/san-kum/worb/internal/quat"
)

var (
	ErrTooManyObjects  = errors.New("world: object capacity exceeded")
	ErrNilShape        = errors.New("world: nil shape")
	ErrInvalidTimeStep = errors.New("world: time-step must be positive")
	ErrInvalidConfig   = errors.New("world: invalid configuration")
)

// StandardGravity is the conventional value of g, in m/s^2.
const StandardGravity = 9.80665

// Config carries the world parameters. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Gravity is the uniform acceleration applied to every body.
	Gravity quat.Quaternion

	// Restitution and Friction apply to every contact.
	Restitution float64
	Friction    float64

	// Relaxation scales down position corrections to spread them over
	// several steps; 0 applies the full correction at once.
	Relaxation float64

	// MaxObjects and MaxContacts bound the object list and the contact
	// registry. Contacts past the bound are dropped for the step.
	MaxObjects  int
	MaxContacts int
}

// DefaultConfig returns standard gravity along -Y, perfectly elastic
// frictionless contacts and moderate position relaxation.
func DefaultConfig() Config {
	return Config{
		Gravity:     quat.Vector(0, -StandardGravity, 0),
		Restitution: 1.0,
		Friction:    0,
		Relaxation:  0.2,
		MaxObjects:  64,
		MaxContacts: 256,
	}
}

// World is a system of rigid bodies and scenery shapes.
type World struct {
	cfg     Config
	objects []geometry.Shape
	bodies  []*body.Body
	reg     *contact.Registry

	// Time is the simulation local time, derived as h times the step
	// count rather than accumulated, to avoid drift from rounding.
	Time      float64
	StepCount uint64

	// Aggregates over all bodies, refreshed every step.
	TotalKineticEnergy   float64
	TotalPotentialEnergy float64
	TotalLinearMomentum  quat.Quaternion
	TotalAngularMomentum quat.Quaternion
}

// New returns an empty world with the given configuration.
func New(cfg Config) (*World, error) {
	if cfg.MaxObjects <= 0 || cfg.MaxContacts <= 0 {
		return nil, fmt.Errorf("%w: capacities must be positive", ErrInvalidConfig)
	}
	if cfg.Restitution < 0 || cfg.Friction < 0 {
		return nil, fmt.Errorf("%w: coefficients must not be negative", ErrInvalidConfig)
	}
	if cfg.Relaxation < 0 || cfg.Relaxation > 1 {
		return nil, fmt.Errorf("%w: relaxation must be in [0,1]", ErrInvalidConfig)
	}

	reg := contact.NewRegistry(cfg.MaxContacts)
	reg.Restitution = cfg.Restitution
	reg.Friction = cfg.Friction
	reg.Relaxation = cfg.Relaxation

	return &World{
		cfg:     cfg,
		objects: make([]geometry.Shape, 0, cfg.MaxObjects),
		bodies:  make([]*body.Body, 0, cfg.MaxObjects),
		reg:     reg,
	}, nil
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config {
	return w.cfg
}

// Add registers a shape (and its body, if any) with the world.
func (w *World) Add(s geometry.Shape) error {
	if s == nil {
		return ErrNilShape
	}
	if len(w.objects) >= w.cfg.MaxObjects {
		return ErrTooManyObjects
	}
	w.objects = append(w.objects, s)
	if b := s.Body(); b != nil {
		w.bodies = append(w.bodies, b)
	}
	return nil
}

// Clear removes all objects and resets the clock.
func (w *World) Clear() {
	w.objects = w.objects[:0]
	w.bodies = w.bodies[:0]
	w.Time = 0
	w.StepCount = 0
	w.reg.Reset()
}

// Shapes returns the registered shapes, scenery included.
func (w *World) Shapes() []geometry.Shape {
	return w.objects
}

// Bodies returns the rigid bodies of the registered shapes, skipping
// scenery. The list is maintained on Add so Step does not allocate; the
// caller must not modify it.
func (w *World) Bodies() []*body.Body {
	return w.bodies
}

// Contacts returns the contact registry with the collisions found in
// the last step.
func (w *World) Contacts() *contact.Registry {
	return w.reg
}

// Initialize resets the clock and rebuilds every body's derived
// quantities and the aggregate totals. Call it after the initial states
// are set, before the first Step.
func (w *World) Initialize() {
	w.Time = 0
	w.StepCount = 0
	w.reg.Reset()

	for _, b := range w.bodies {
		b.RecomputeDerived(true)
		b.ClearAccumulators()
	}

	w.updateTotals()
}

// Step advances the system one time-step of length h: accumulate
// gravity, integrate all bodies, detect collisions between every object
// pair, then resolve them with impulse transfers and position
// projections.
func (w *World) Step(h float64) error {
	if h <= 0 {
		return ErrInvalidTimeStep
	}

	for _, b := range w.bodies {
		if !b.IsFiniteMass() {
			continue
		}
		fg := w.cfg.Gravity.Scale(b.Mass())
		ep := -fg.Dot(b.Position)
		b.AddExternalForce(fg, ep)
	}

	for _, b := range w.bodies {
		b.Integrate(h)
	}

	w.StepCount++
	w.Time = h * float64(w.StepCount)

	w.updateTotals()

	w.reg.Reset()
	for i := 0; i < len(w.objects); i++ {
		for j := i + 1; j < len(w.objects); j++ {
			geometry.Detect(w.reg, w.objects[i], w.objects[j])
		}
	}

	w.reg.UpdateDerived(h)
	w.reg.ResolveImpulses(h, 0, 0)
	w.reg.ResolvePositions(0, 0)

	for _, b := range w.bodies {
		b.ClearAccumulators()
	}

	return nil
}

func (w *World) updateTotals() {
	w.TotalKineticEnergy = 0
	w.TotalPotentialEnergy = 0
	w.TotalLinearMomentum = quat.Quaternion{}
	w.TotalAngularMomentum = quat.Quaternion{}

	for _, b := range w.bodies {
		w.TotalKineticEnergy += b.KineticEnergy
		w.TotalPotentialEnergy += b.PotentialEnergy
		w.TotalLinearMomentum = w.TotalLinearMomentum.Add(b.LinearMomentum)
		w.TotalAngularMomentum = w.TotalAngularMomentum.Add(b.TotalAngularMomentum)
	}
}

// TotalEnergy returns the total mechanical energy of the system.
func (w *World) TotalEnergy() float64 {
	return w.TotalKineticEnergy + w.TotalPotentialEnergy
}

// Dump writes a diagnostic snapshot of the world: the clock, the
// aggregates, one line per body and one line per contact.
func (w *World) Dump(out io.Writer) {
	fmt.Fprintf(out, "t=%.4f steps=%d E_k=%.6g E_p=%.6g P=(%.4g,%.4g,%.4g) L=(%.4g,%.4g,%.4g)\n",
		w.Time, w.StepCount,
		w.TotalKineticEnergy, w.TotalPotentialEnergy,
		w.TotalLinearMomentum.X, w.TotalLinearMomentum.Y, w.TotalLinearMomentum.Z,
		w.TotalAngularMomentum.X, w.TotalAngularMomentum.Y, w.TotalAngularMomentum.Z,
	)

	for i, s := range w.objects {
		b := s.Body()
		if b == nil {
			fmt.Fprintf(out, "object %d: %s (scenery)\n", i, s.Kind())
			continue
		}
		fmt.Fprintf(out, "object %d: %s m=%.4g X=(%.4g,%.4g,%.4g) V=(%.4g,%.4g,%.4g) active=%v\n",
			i, s.Kind(), b.Mass(),
			b.Position.X, b.Position.Y, b.Position.Z,
			b.Velocity.X, b.Velocity.Y, b.Velocity.Z,
			b.Active,
		)
	}

	w.reg.Dump(out, w.Time)
}
