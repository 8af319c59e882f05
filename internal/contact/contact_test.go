package contact

import (
	"math"
	"testing"

	"github.com/san-kum/worb/internal/body"
	"github.com/san-kum/worb/internal/quat"
)

func newSphereBody(mass float64, pos, vel quat.Quaternion) *body.Body {
	b := body.New()
	b.SetupMass(mass)
	// Unit sphere inertia, 2/5 m r^2.
	i := 0.4 * mass
	b.SetMomentOfInertia(quat.Diagonal(i, i, i))
	b.SetState(pos, quat.Scalar(1), vel, quat.Quaternion{})
	b.Activate()
	return b
}

func TestElasticHeadOnExchange(t *testing.T) {
	a := newSphereBody(1, quat.Vector(-0.5, 0, 0), quat.Vector(1, 0, 0))
	b := newSphereBody(1, quat.Vector(0.5, 0, 0), quat.Vector(-1, 0, 0))

	reg := NewRegistry(4)
	reg.Register(a, b, quat.Vector(0, 0, 0), quat.Vector(-1, 0, 0), 0)
	reg.UpdateDerived(0.01)
	reg.ResolveImpulses(0.01, 0, 0)

	if math.Abs(a.LinearMomentum.X+1) > 1e-9 {
		t.Errorf("body A should bounce back with momentum -1, got %g", a.LinearMomentum.X)
	}
	if math.Abs(b.LinearMomentum.X-1) > 1e-9 {
		t.Errorf("body B should bounce back with momentum 1, got %g", b.LinearMomentum.X)
	}
}

func TestSceneryBounce(t *testing.T) {
	a := newSphereBody(1, quat.Vector(0, 0.5, 0), quat.Vector(0, -1, 0))

	reg := NewRegistry(4)
	reg.Register(a, nil, quat.Vector(0, 0, 0), quat.Vector(0, 1, 0), 0)
	reg.UpdateDerived(0.01)
	reg.ResolveImpulses(0.01, 0, 0)

	if math.Abs(a.LinearMomentum.Y-1) > 1e-9 {
		t.Errorf("elastic floor bounce should reverse the momentum, got %g", a.LinearMomentum.Y)
	}
}

func TestRestitutionSuppressedAtLowSpeed(t *testing.T) {
	a := newSphereBody(1, quat.Vector(0, 0.5, 0), quat.Vector(0, -0.1, 0))

	reg := NewRegistry(4)
	reg.Register(a, nil, quat.Vector(0, 0, 0), quat.Vector(0, 1, 0), 0)
	reg.UpdateDerived(0.01)
	reg.ResolveImpulses(0.01, 0, 0)

	// Below the closing-speed cutoff the impulse only cancels the
	// approach, it must not add bounce.
	if a.LinearMomentum.Y > 1e-6 || a.LinearMomentum.Y < -1e-3 {
		t.Errorf("slow contact should come to rest, got momentum %g", a.LinearMomentum.Y)
	}
}

func TestMomentumConservedWithFriction(t *testing.T) {
	a := newSphereBody(1, quat.Vector(-0.5, 0, 0), quat.Vector(1, -0.5, 0.2))
	b := newSphereBody(2, quat.Vector(0.5, 0, 0), quat.Vector(-1, 0, 0))

	before := a.LinearMomentum.Add(b.LinearMomentum)

	reg := NewRegistry(4)
	reg.Friction = 0.5
	reg.Register(a, b, quat.Vector(0, 0, 0), quat.Vector(-1, 0, 0), 0)
	reg.UpdateDerived(0.01)
	reg.ResolveImpulses(0.01, 0, 0)

	after := a.LinearMomentum.Add(b.LinearMomentum)
	diff := after.Sub(before).ImNorm()
	if diff > 1e-9 {
		t.Errorf("friction impulse must conserve total momentum, drift %g", diff)
	}
}

func TestSwapGuard(t *testing.T) {
	b := newSphereBody(1, quat.Vector(0, 0.5, 0), quat.Vector(0, -1, 0))

	reg := NewRegistry(4)
	reg.Register(nil, b, quat.Vector(0, 0, 0), quat.Vector(0, -1, 0), 0)
	reg.UpdateDerived(0.01)

	c := reg.At(0)
	if c.A != b || c.B != nil {
		t.Fatal("movable body should be swapped into slot A")
	}
	if c.Normal.Y != 1 {
		t.Errorf("normal should flip with the swap, got %v", c.Normal)
	}
}

func TestSceneryContactDoesNotWake(t *testing.T) {
	a := newSphereBody(1, quat.Vector(0, 0.5, 0), quat.Quaternion{})
	a.Deactivate()

	reg := NewRegistry(4)
	reg.Register(a, nil, quat.Vector(0, 0, 0), quat.Vector(0, 1, 0), 0.05)
	reg.UpdateDerived(0.01)
	reg.ResolveImpulses(0.01, 0, 0)

	if a.Active {
		t.Error("a resting scenery contact must not wake the body")
	}
}

func TestPairContactWakesSleeper(t *testing.T) {
	a := newSphereBody(1, quat.Vector(-0.5, 0, 0), quat.Vector(1, 0, 0))
	b := newSphereBody(1, quat.Vector(0.5, 0, 0), quat.Quaternion{})
	b.Deactivate()

	reg := NewRegistry(4)
	reg.Register(a, b, quat.Vector(0, 0, 0), quat.Vector(-1, 0, 0), 0)
	reg.UpdateDerived(0.01)
	reg.ResolveImpulses(0.01, 0, 0)

	if !b.Active {
		t.Error("an awake body hitting a sleeper should wake it")
	}
}

func TestPositionProjectionScenery(t *testing.T) {
	a := newSphereBody(1, quat.Vector(0, 0.4, 0), quat.Quaternion{})

	reg := NewRegistry(4)
	reg.Relaxation = 0
	reg.Register(a, nil, quat.Vector(0, 0, 0), quat.Vector(0, 1, 0), 0.1)
	reg.UpdateDerived(0.01)
	reg.ResolvePositions(0, 0)

	if math.Abs(a.Position.Y-0.5) > 1e-9 {
		t.Errorf("projection should push the body fully out, got y=%g", a.Position.Y)
	}
	if reg.At(0).Penetration > 1e-9 {
		t.Errorf("penetration should be consumed, got %g", reg.At(0).Penetration)
	}
}

func TestPositionProjectionRelaxed(t *testing.T) {
	a := newSphereBody(1, quat.Vector(0, 0.4, 0), quat.Quaternion{})

	reg := NewRegistry(4)
	reg.Relaxation = 0.2
	reg.Register(a, nil, quat.Vector(0, 0, 0), quat.Vector(0, 1, 0), 0.1)
	reg.UpdateDerived(0.01)
	reg.ResolvePositions(0, 0)

	// Relaxation leaves a sliver of penetration per pass; the loop stops
	// once it is below the resolution threshold.
	if reg.At(0).Penetration > 0.01 {
		t.Errorf("residual penetration should be below threshold, got %g", reg.At(0).Penetration)
	}
	if a.Position.Y <= 0.4 || a.Position.Y > 0.5 {
		t.Errorf("relaxed projection overshot: y=%g", a.Position.Y)
	}
}

func TestPositionProjectionSplitsByMass(t *testing.T) {
	heavy := newSphereBody(10, quat.Vector(0, -0.5, 0), quat.Quaternion{})
	light := newSphereBody(1, quat.Vector(0, 0.5, 0), quat.Quaternion{})

	reg := NewRegistry(4)
	reg.Relaxation = 0
	reg.Register(light, heavy, quat.Vector(0, 0, 0), quat.Vector(0, 1, 0), 0.1)
	reg.UpdateDerived(0.01)
	reg.ResolvePositions(0, 0)

	lightMoved := light.Position.Y - 0.5
	heavyMoved := -0.5 - heavy.Position.Y

	if lightMoved <= heavyMoved {
		t.Errorf("the lighter body should take the larger share: light %g, heavy %g",
			lightMoved, heavyMoved)
	}
	if math.Abs(lightMoved+heavyMoved-0.1) > 1e-9 {
		t.Errorf("corrections should sum to the penetration, got %g", lightMoved+heavyMoved)
	}
}
