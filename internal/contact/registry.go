package contact

import (
	"fmt"
	"io"

	"github.com/san-kum/worb/internal/body"
	"github.com/san-kum/worb/internal/quat"
)

// Registry collects the contacts found during a step into a fixed-size
// slab and resolves them. The coefficients apply to every contact
// registered through it.
type Registry struct {
	contacts []Contact
	count    int

	Restitution float64
	Relaxation  float64
	Friction    float64
}

// NewRegistry returns a registry with room for capacity contacts and the
// default coefficients: perfectly elastic, frictionless, relaxation 0.2.
func NewRegistry(capacity int) *Registry {
	return &Registry{
		contacts:    make([]Contact, capacity),
		Restitution: 1.0,
		Relaxation:  0.2,
		Friction:    0,
	}
}

// Reset empties the registry for the next step.
func (r *Registry) Reset() {
	r.count = 0
}

// Count returns the number of registered contacts.
func (r *Registry) Count() int {
	return r.count
}

// Capacity returns the maximum number of contacts the registry can hold.
func (r *Registry) Capacity() int {
	return len(r.contacts)
}

// HasSpace reports whether another contact can be registered.
func (r *Registry) HasSpace() bool {
	return r.count < len(r.contacts)
}

// At returns the contact with the given index.
func (r *Registry) At(i int) *Contact {
	return &r.contacts[i]
}

// Register adds a contact between a and b (b nil for scenery) and
// reports whether it fit. A full registry drops the contact silently;
// the resolver then works with the contacts it has.
func (r *Registry) Register(a, b *body.Body, position, normal quat.Quaternion, penetration float64) bool {
	if !r.HasSpace() {
		return false
	}

	r.contacts[r.count] = Contact{
		A:           a,
		B:           b,
		Position:    position,
		Normal:      normal,
		Penetration: penetration,
		Restitution: r.Restitution,
		Friction:    r.Friction,
	}
	r.count++
	return true
}

// UpdateDerived rebuilds the derived quantities of every registered
// contact. Must run before ResolveImpulses or ResolvePositions.
func (r *Registry) UpdateDerived(h float64) {
	for i := 0; i < r.count; i++ {
		r.contacts[i].updateDerived(h)
	}
}

// ResolveImpulses removes closing velocities with sequential impulse
// transfers, always resolving the contact with the largest outstanding
// bounce velocity first and propagating each velocity jolt to the other
// contacts of the affected bodies. Zero maxIterations defaults to eight
// per contact, zero eps to 0.01.
func (r *Registry) ResolveImpulses(h float64, maxIterations int, eps float64) {
	if r.count == 0 {
		return
	}
	if maxIterations == 0 {
		maxIterations = 8 * r.count
	}
	if eps == 0 {
		eps = 0.01
	}

	for iteration := 0; iteration < maxIterations; iteration++ {
		contact := r.largestBounce(eps)
		if contact == nil {
			break
		}

		contact.activateInactiveBodies()

		var vJolt, wJolt [2]quat.Quaternion
		contact.impulseTransfer(&vJolt, &wJolt)

		// The jolt changed the velocities of the two bodies, so the
		// closing velocity of every contact sharing a body is stale.
		resolved := [2]*body.Body{contact.A, contact.B}
		for i := 0; i < r.count; i++ {
			ci := &r.contacts[i]
			affected := [2]*body.Body{ci.A, ci.B}

			for a := 0; a < 2; a++ {
				if affected[a] == nil {
					continue
				}
				for b := 0; b < 2; b++ {
					if affected[a] != resolved[b] {
						continue
					}

					deltaV := vJolt[b].Add(wJolt[b].Cross(ci.relPos[a]))
					dvContact := ci.toWorld.TransformInverse(deltaV)
					if a == 1 {
						ci.velocity = ci.velocity.Sub(dvContact)
					} else {
						ci.velocity = ci.velocity.Add(dvContact)
					}

					ci.bounce = ci.bouncingVelocity(h)
				}
			}
		}
	}
}

// ResolvePositions removes penetrations with position projections,
// always correcting the deepest contact first and propagating each
// position jolt to the penetrations of contacts sharing a body. Zero
// maxIterations defaults to eight per contact, zero eps to 0.01.
func (r *Registry) ResolvePositions(maxIterations int, eps float64) {
	if r.count == 0 {
		return
	}
	if maxIterations == 0 {
		maxIterations = 8 * r.count
	}
	if eps == 0 {
		eps = 0.01
	}

	for iteration := 0; iteration < maxIterations; iteration++ {
		contact := r.largestPenetration(eps)
		if contact == nil {
			break
		}

		contact.activateInactiveBodies()

		var xJolt, qJolt [2]quat.Quaternion
		contact.positionProjection(&xJolt, &qJolt, r.Relaxation)

		resolved := [2]*body.Body{contact.A, contact.B}
		for i := 0; i < r.count; i++ {
			ci := &r.contacts[i]
			affected := [2]*body.Body{ci.A, ci.B}

			for a := 0; a < 2; a++ {
				for b := 0; b < 2; b++ {
					if affected[a] == nil || affected[a] != resolved[b] {
						continue
					}

					deltaPosition := xJolt[b].Add(qJolt[b].Cross(ci.relPos[a]))

					// The correction reduces the penetration of the first
					// body and increases it for the second.
					dpNormal := deltaPosition.Dot(ci.Normal)
					if a == 1 {
						ci.Penetration += dpNormal
					} else {
						ci.Penetration -= dpNormal
					}
				}
			}
		}
	}
}

// largestBounce returns the contact with the largest bounce velocity
// above eps, or nil when all contacts are resolved.
func (r *Registry) largestBounce(eps float64) *Contact {
	var contact *Contact
	for i := 0; i < r.count; i++ {
		if r.contacts[i].bounce > eps {
			eps = r.contacts[i].bounce
			contact = &r.contacts[i]
		}
	}
	return contact
}

// largestPenetration returns the deepest contact above eps, or nil when
// no notable penetration remains.
func (r *Registry) largestPenetration(eps float64) *Contact {
	var contact *Contact
	for i := 0; i < r.count; i++ {
		if r.contacts[i].Penetration > eps {
			eps = r.contacts[i].Penetration
			contact = &r.contacts[i]
		}
	}
	return contact
}

// Dump writes a one-line diagnostic per contact.
func (r *Registry) Dump(w io.Writer, currentTime float64) {
	for i := 0; i < r.count; i++ {
		c := &r.contacts[i]
		fmt.Fprintf(w,
			"t=%.4f contact %d: pos=(%.4g,%.4g,%.4g) n=(%.4g,%.4g,%.4g) pen=%.4g bounce=%.4g scenery=%v\n",
			currentTime, i,
			c.Position.X, c.Position.Y, c.Position.Z,
			c.Normal.X, c.Normal.Y, c.Normal.Z,
			c.Penetration, c.bounce, c.WithScenery(),
		)
	}
}
