// Package contact holds the bounded contact registry and the two-phase
// collision response: sequential impulse transfers on velocities followed
// by iterative position projections on penetrations.
package contact

import (
	"math"

	"github.com/san-kum/worb/internal/body"
	"github.com/san-kum/worb/internal/quat"
)

// Contact describes a single touching or penetrating point between two
// bodies. B is nil when the contact is with immovable scenery.
type Contact struct {
	A *body.Body
	B *body.Body

	// Position and Normal are in world frame. The normal points from B
	// (or the scenery) towards A.
	Position    quat.Quaternion
	Normal      quat.Quaternion
	Penetration float64

	Restitution float64
	Friction    float64

	// Derived per-step quantities, rebuilt by updateDerived.
	toWorld  quat.Tensor     // contact frame basis, normal along X
	velocity quat.Quaternion // closing velocity of A relative to B, contact frame
	bounce   float64         // desired change in separating velocity
	relPos   [2]quat.Quaternion
}

// WithScenery reports whether the contact involves an immovable scenery
// object instead of a second body.
func (c *Contact) WithScenery() bool {
	return c.B == nil
}

// updateDerived rebuilds the contact frame, the relative positions and
// velocities and the desired bounce velocity. Must run before either
// resolution pass.
func (c *Contact) updateDerived(h float64) {
	if c.A == nil {
		// Keep the movable body first and the normal pointing at it.
		c.Normal = c.Normal.Neg()
		c.A, c.B = c.B, c.A
	}

	c.makeContactBasis()

	c.relPos[0] = c.Position.Sub(c.A.Position)
	c.velocity = c.relativeVelocity(c.A, c.relPos[0], h)

	if c.B != nil {
		c.relPos[1] = c.Position.Sub(c.B.Position)
		c.velocity = c.velocity.Sub(c.relativeVelocity(c.B, c.relPos[1], h))
	}

	c.bounce = c.bouncingVelocity(h)
}

// makeContactBasis builds an orthonormal basis with the contact normal as
// the X axis. The tangent construction branches on the larger normal
// component to avoid a degenerate cross product.
func (c *Contact) makeContactBasis() {
	var tangentY, tangentZ quat.Quaternion

	if math.Abs(c.Normal.X) > math.Abs(c.Normal.Y) {
		length := 1 / math.Sqrt(c.Normal.Z*c.Normal.Z+c.Normal.X*c.Normal.X)

		tangentY.X = c.Normal.Z * length
		tangentY.Z = -c.Normal.X * length

		tangentZ.X = c.Normal.Y * tangentY.X
		tangentZ.Y = c.Normal.Z*tangentY.X - c.Normal.X*tangentY.Z
		tangentZ.Z = -c.Normal.Y * tangentY.X
		tangentZ = tangentZ.Unit()
	} else {
		length := 1 / math.Sqrt(c.Normal.Z*c.Normal.Z+c.Normal.Y*c.Normal.Y)

		tangentY.Y = -c.Normal.Z * length
		tangentY.Z = c.Normal.Y * length

		tangentZ.X = c.Normal.Y*tangentY.Z - c.Normal.Z*tangentY.Y
		tangentZ.Y = -c.Normal.X * tangentY.Z
		tangentZ.Z = c.Normal.X * tangentY.Y
		tangentZ = tangentZ.Unit()
	}

	c.toWorld = quat.ColumnBasis(c.Normal, tangentY, tangentZ)
}

// relativeVelocity returns the contact-frame velocity of the contact
// point on the given body, including the tangential part of the velocity
// the accumulated force would induce this step. The normal part of that
// force-induced velocity is dropped so reaction forces do not add bounce.
func (c *Contact) relativeVelocity(b *body.Body, relPos quat.Quaternion, h float64) quat.Quaternion {
	vWorld := b.Velocity.Add(b.AngularVelocity.Cross(relPos))
	v := c.toWorld.TransformInverse(vWorld)

	dvWorld := b.Force.Scale(b.InverseMass * h)
	dv := c.toWorld.TransformInverse(dvWorld)
	dv.X = 0

	return v.Add(dv)
}

// bouncingVelocity returns the desired change in separating velocity,
// -(1+COR)*v.x corrected for the normal velocity the last step's forces
// induced. Restitution is suppressed below a small closing speed so
// resting contacts do not jitter.
func (c *Contact) bouncingVelocity(h float64) float64 {
	dvFromForce := 0.0
	if c.A.Active {
		lastDV := c.A.Force.Scale(c.A.InverseMass * h)
		dvFromForce += lastDV.Dot(c.Normal)
	}
	if c.B != nil && c.B.Active {
		lastDV := c.B.Force.Scale(c.B.InverseMass * h)
		dvFromForce -= lastDV.Dot(c.Normal)
	}

	cor := c.Restitution
	if math.Abs(c.velocity.X-dvFromForce) < 0.25 {
		cor = 0
	}

	return -(1+cor)*c.velocity.X + cor*dvFromForce
}

// activateInactiveBodies wakes the sleeping body of a sleeping/awake
// pair. Scenery contacts never wake anything; a resting body on the
// floor must be able to stay asleep.
func (c *Contact) activateInactiveBodies() {
	if c.B == nil || c.A.Active == c.B.Active {
		return
	}
	if c.A.Active {
		c.B.Activate()
	} else {
		c.A.Activate()
	}
}

// impulseTransfer applies the collision impulse to the momenta of both
// bodies and reports the resulting velocity and angular velocity jolts
// so the caller can propagate them to other contacts.
func (c *Contact) impulseTransfer(vJolt, wJolt *[2]quat.Quaternion) {
	var jContact quat.Quaternion
	if c.Friction == 0 {
		jContact = c.impulse()
	} else {
		jContact = c.impulseWithFriction()
	}

	j := c.toWorld.Transform(jContact)
	jTorque := c.relPos[0].Cross(j)

	c.A.LinearMomentum = c.A.LinearMomentum.Add(j)
	c.A.AngularMomentum = c.A.AngularMomentum.Add(jTorque)

	vJolt[0] = j.Scale(c.A.InverseMass)
	wJolt[0] = c.A.InverseInertiaWorld.Transform(jTorque)

	if c.B != nil {
		jTorque = c.relPos[1].Cross(j)

		c.B.LinearMomentum = c.B.LinearMomentum.Sub(j)
		c.B.AngularMomentum = c.B.AngularMomentum.Sub(jTorque)

		vJolt[1] = j.Scale(c.B.InverseMass).Neg()
		wJolt[1] = c.B.InverseInertiaWorld.Transform(jTorque).Neg()
	}
}

// impulse returns the frictionless collision impulse in the contact
// frame: the bounce velocity divided by the inverse reduced mass along
// the contact normal.
func (c *Contact) impulse() quat.Quaternion {
	invRedMass := c.A.InverseMass
	invRedMass += c.A.InverseInertiaWorld.
		Transform(c.relPos[0].Cross(c.Normal)).
		Cross(c.relPos[0]).
		Dot(c.Normal)

	if c.B != nil {
		invRedMass += c.B.InverseMass
		invRedMass += c.B.InverseInertiaWorld.
			Transform(c.relPos[1].Cross(c.Normal)).
			Cross(c.relPos[1]).
			Dot(c.Normal)
	}

	return quat.Vector(c.bounce/invRedMass, 0, 0)
}

// impulseWithFriction returns the collision impulse in the contact frame
// for a contact with friction. It solves the full 3x3 contact-frame
// system for the impulse removing both the closing and the tangential
// velocity, then clips to the Coulomb cone with a dynamic friction
// re-solve when the tangential impulse exceeds it.
func (c *Contact) impulseWithFriction() quat.Quaternion {
	crossR := quat.Skew(c.relPos[0])
	deltaVWorld := crossR.Mul(c.A.InverseInertiaWorld).Mul(crossR).Neg()

	if c.B != nil {
		crossR = quat.Skew(c.relPos[1])
		deltaVWorld = deltaVWorld.Add(crossR.Mul(c.B.InverseInertiaWorld).Mul(crossR).Neg())
	}

	deltaVContact := c.toWorld.RotateInverse(deltaVWorld)

	invReducedMass := c.A.InverseMass
	if c.B != nil {
		invReducedMass += c.B.InverseMass
	}
	deltaVContact.XX += invReducedMass
	deltaVContact.YY += invReducedMass
	deltaVContact.ZZ += invReducedMass

	targetV := quat.Vector(c.bounce, -c.velocity.Y, -c.velocity.Z)

	j := deltaVContact.Inverse().Transform(targetV)

	jTangential := math.Sqrt(j.Y*j.Y + j.Z*j.Z)
	if jTangential > j.X*c.Friction {
		j.Y /= jTangential
		j.Z /= jTangential

		invm := deltaVContact.XX +
			deltaVContact.XY*c.Friction*j.Y +
			deltaVContact.XZ*c.Friction*j.Z
		jNormal := c.bounce / invm

		j.X = jNormal
		j.Y *= c.Friction * jNormal
		j.Z *= c.Friction * jNormal
	}

	return j
}

// positionProjection moves and rotates both bodies out of penetration,
// splitting the correction between linear movement and rotation in
// proportion to their inverse inertias, and reports the applied jolts.
func (c *Contact) positionProjection(xJolt, qJolt *[2]quat.Quaternion, relaxation float64) {
	bodies := [2]*body.Body{c.A, c.B}

	var inverseTotalInertia float64
	var inverseAngInertia [2]float64

	for i, b := range bodies {
		if b == nil {
			continue
		}

		// angI = ((I_world^-1 * (r x N)) x r) . N
		inverseAngInertia[i] = b.InverseInertiaWorld.
			Transform(c.relPos[i].Cross(c.Normal)).
			Cross(c.relPos[i]).
			Dot(c.Normal)

		inverseTotalInertia += b.InverseMass + inverseAngInertia[i]
	}

	for i, b := range bodies {
		if b == nil {
			continue
		}

		penetration := c.Penetration
		if i == 1 {
			penetration = -penetration
		}
		if relaxation > 0 && relaxation <= 1 {
			penetration *= 1 - relaxation
		}
		deltaX := penetration * (b.InverseMass / inverseTotalInertia)
		deltaQ := penetration * (inverseAngInertia[i] / inverseTotalInertia)

		// Limit the angular part so a heavy body with a small inertia
		// tensor does not get an excessive rotation.
		angularProjection := c.relPos[i].Sub(c.Normal.Scale(c.relPos[i].Dot(c.Normal)))
		maxQ := 0.3 * angularProjection.ImNorm()
		if deltaQ < -maxQ {
			deltaX = deltaX + deltaQ + maxQ
			deltaQ = -maxQ
		} else if deltaQ > maxQ {
			deltaX = deltaX + deltaQ - maxQ
			deltaQ = maxQ
		}

		xJolt[i] = c.Normal.Scale(deltaX)
		b.Position = b.Position.Add(xJolt[i])

		if deltaQ == 0 {
			qJolt[i] = quat.Quaternion{}
			continue
		}

		qJolt[i] = b.InverseInertiaWorld.
			Transform(c.relPos[i].Cross(c.Normal)).
			Scale(deltaQ / inverseAngInertia[i])

		b.Orientation = b.Orientation.Add(qJolt[i].Mul(b.Orientation).Scale(0.5))
		b.RecomputeDerived(true)
	}
}
