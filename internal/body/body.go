package body

import (
	"math"

	"github.com/san-kum/worb/internal/quat"
)

// InfiniteMass is the threshold above which a mass is treated as infinite
// (immovable). A declared mass of zero is normalized to the same case
// instead of producing a division error.
const InfiniteMass = 1e30

// Momentum damping constants for Integrate. Linear damping is disabled;
// angular damping bleeds off kinetic energy the semi-implicit Euler
// integrator adds through the gyroscopic term.
const (
	linearDamping  = 0
	angularDamping = 0.998
)

// Body is a rigid body: constant mass/inertia properties, pose and
// momentum state, and the derived quantities the solver reads every step.
// All vector quantities are in world frame unless noted otherwise.
type Body struct {
	// Properties and state variables.
	InverseMass        float64
	InverseInertiaBody quat.Tensor // inverse inertia tensor, body frame
	Position           quat.Quaternion
	Orientation        quat.Quaternion
	LinearMomentum     quat.Quaternion
	AngularMomentum    quat.Quaternion

	// Derived quantities, rebuilt by Integrate and RecomputeDerived.
	ToWorld              quat.Tensor // body-to-world pose transform
	InverseInertiaWorld  quat.Tensor
	Velocity             quat.Quaternion
	AngularVelocity      quat.Quaternion
	TotalAngularMomentum quat.Quaternion
	KineticEnergy        float64
	PotentialEnergy      float64

	// Sleep machinery. AverageKineticEnergy is an exponentially smoothed
	// estimate compared against SleepThreshold when CanSleep is set.
	AverageKineticEnergy float64
	SleepThreshold       float64
	Damping              bool

	// Active marks whether the body is integrated and affected by scenery
	// collisions. CanSleep allows the body to deactivate on its own.
	Active   bool
	CanSleep bool

	// Force and torque accumulators, cleared once per step.
	Force  quat.Quaternion
	Torque quat.Quaternion
}

// New returns an inactive body with an identity pose and infinite mass.
func New() *Body {
	return &Body{ToWorld: quat.Identity()}
}

// SetupMass sets the inverse mass from the given mass and derives the
// sleep-energy threshold proportional to it. Zero mass means infinite.
func (b *Body) SetupMass(mass float64) {
	if mass == 0 || mass >= InfiniteMass {
		b.InverseMass = 0
	} else {
		b.InverseMass = 1 / mass
	}
	b.SleepThreshold = 0.3 * mass
}

// Mass returns the mass of the body, InfiniteMass for immovable bodies.
func (b *Body) Mass() float64 {
	if b.InverseMass == 0 {
		return InfiniteMass
	}
	return 1 / b.InverseMass
}

// IsFiniteMass reports whether the body can be moved by forces.
func (b *Body) IsFiniteMass() bool {
	return b.InverseMass > 0
}

// SetMomentOfInertia stores the inverse of the given body-frame inertia
// tensor.
func (b *Body) SetMomentOfInertia(inertiaBody quat.Tensor) {
	b.InverseInertiaBody = inertiaBody.Inverse()
}

// SetState initializes pose and velocities and recomputes the derived
// quantities, deriving momenta from the given velocities.
func (b *Body) SetState(position, orientation, velocity, angularVelocity quat.Quaternion) {
	b.Position = position
	b.Orientation = orientation
	b.Velocity = velocity
	b.AngularVelocity = angularVelocity
	b.RecomputeDerived(false)
}

// Integrate advances the body one time-step of length h using
// semi-implicit Euler. Inactive bodies are left untouched.
func (b *Body) Integrate(h float64) {
	if !b.Active {
		return
	}

	b.LinearMomentum = b.LinearMomentum.Add(b.Force.Scale(h))
	b.AngularMomentum = b.AngularMomentum.Add(b.Torque.Scale(h))

	if b.Damping {
		b.dampMomentum(h)
	}

	// Derive velocities from momenta using the current world inertia,
	// then advance pose: q += 0.5*h*w*q for the orientation.
	b.Velocity = b.LinearMomentum.Scale(b.InverseMass)
	b.AngularVelocity = b.InverseInertiaWorld.Transform(b.AngularMomentum)

	orientationDot := b.AngularVelocity.Mul(b.Orientation).Scale(0.5)

	b.Position = b.Position.Add(b.Velocity.Scale(h))
	b.Orientation = b.Orientation.Add(orientationDot.Scale(h))

	b.RecomputeDerived(true)

	if b.CanSleep {
		// Exponential average with decay 0.5^h, clamped from above so a
		// long burst of motion cannot delay sleep indefinitely.
		alpha := math.Pow(0.5, h)
		b.AverageKineticEnergy = alpha*b.AverageKineticEnergy + (1-alpha)*b.KineticEnergy

		if b.AverageKineticEnergy < b.SleepThreshold {
			b.Deactivate()
		} else if b.AverageKineticEnergy > 10*b.SleepThreshold {
			b.AverageKineticEnergy = 10 * b.SleepThreshold
		}
	}
}

// RecomputeDerived renormalizes the orientation and rebuilds the world
// transform, the world inverse inertia tensor, velocities or momenta
// (depending on fromMomenta), the total angular momentum and the kinetic
// energy.
func (b *Body) RecomputeDerived(fromMomenta bool) {
	b.Orientation = b.Orientation.Unit()

	b.ToWorld = quat.FromPose(b.Orientation, b.Position)
	b.InverseInertiaWorld = b.ToWorld.Rotate(b.InverseInertiaBody)

	if fromMomenta {
		b.Velocity = b.LinearMomentum.Scale(b.InverseMass)
		b.AngularVelocity = b.InverseInertiaWorld.Transform(b.AngularMomentum)
	} else {
		b.LinearMomentum = b.Velocity.Scale(b.Mass())
		b.AngularMomentum = b.InverseInertiaWorld.Inverse().Transform(b.AngularVelocity)
	}

	b.TotalAngularMomentum = b.Position.Cross(b.LinearMomentum).Add(b.AngularMomentum)

	b.KineticEnergy = 0.5*b.Velocity.Dot(b.LinearMomentum) +
		0.5*b.AngularVelocity.Dot(b.AngularMomentum)
}

func (b *Body) dampMomentum(h float64) {
	if linearDamping > 0 {
		b.LinearMomentum = b.LinearMomentum.Scale(math.Pow(linearDamping, h))
	}
	if angularDamping > 0 {
		b.AngularMomentum = b.AngularMomentum.Scale(math.Pow(angularDamping, h))
	}
}

// Activate wakes the body. The smoothed energy estimate is seeded safely
// above the sleep threshold so a just-woken body is not re-slept on the
// next step.
func (b *Body) Activate() {
	if !b.Active {
		b.Active = true
		b.AverageKineticEnergy = 2 * 0.3 * b.Mass()
	}
}

// Deactivate puts the body to sleep, zeroing momenta, velocities, energy
// and pending forces.
func (b *Body) Deactivate() {
	b.Active = false
	b.LinearMomentum = quat.Quaternion{}
	b.AngularMomentum = quat.Quaternion{}
	b.TotalAngularMomentum = quat.Quaternion{}
	b.Velocity = quat.Quaternion{}
	b.AngularVelocity = quat.Quaternion{}
	b.KineticEnergy = 0
	b.Force = quat.Quaternion{}
	b.Torque = quat.Quaternion{}
}

// SetCanSleep controls whether the body may deactivate on its own. A body
// forbidden to sleep is woken immediately.
func (b *Body) SetCanSleep(canSleep bool) {
	b.CanSleep = canSleep
	if !canSleep && !b.Active {
		b.Activate()
	}
}

// ClearAccumulators resets the force/torque accumulators and the
// per-step potential energy.
func (b *Body) ClearAccumulators() {
	b.Force = quat.Quaternion{}
	b.Torque = quat.Quaternion{}
	b.PotentialEnergy = 0
}

// AddExternalForce accumulates a force acting on the whole body equally,
// such as a uniform gravity field. External forces never wake a sleeping
// body; otherwise nothing at rest could stay asleep.
func (b *Body) AddExternalForce(force quat.Quaternion, potentialEnergy float64) {
	b.Force = b.Force.Add(force)
	b.PotentialEnergy += potentialEnergy
}

// AddForce accumulates a force at the center of mass and wakes the body.
func (b *Body) AddForce(force quat.Quaternion) {
	b.Force = b.Force.Add(force)
	b.Active = true
}

// AddForceAtPoint accumulates a force applied at the given world-frame
// point, inducing torque about the center of mass, and wakes the body.
func (b *Body) AddForceAtPoint(worldPoint, force quat.Quaternion) {
	b.Force = b.Force.Add(force)
	b.Torque = b.Torque.Add(worldPoint.Sub(b.Position).Cross(force))
	b.Active = true
}

// AddForceAtBodyPoint is AddForceAtPoint with the point given in the
// body-fixed frame.
func (b *Body) AddForceAtBodyPoint(bodyPoint, force quat.Quaternion) {
	b.AddForceAtPoint(b.ToWorld.Transform(bodyPoint), force)
}

// AddTorque accumulates a torque and wakes the body.
func (b *Body) AddTorque(torque quat.Quaternion) {
	b.Torque = b.Torque.Add(torque)
	b.Active = true
}
