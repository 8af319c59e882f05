// Package geometry implements the collision shapes and the pairwise
// narrow-phase detection that feeds contacts into the registry.
package geometry

import (
	"errors"
	"math"

	"github.com/san-kum/worb/internal/body"
	"github.com/san-kum/worb/internal/quat"
)

var (
	ErrNoBody           = errors.New("geometry: shape requires a rigid body")
	ErrNonPositiveSize  = errors.New("geometry: dimensions must be positive")
	ErrDegenerateNormal = errors.New("geometry: plane normal must be normalizable")
)

// Kind identifies the concrete shape class.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindHalfSpace
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindHalfSpace:
		return "halfspace"
	case KindPlane:
		return "plane"
	}
	return "unknown"
}

// Shape is a collision geometry. Body returns nil for scenery shapes
// (half-spaces and planes), which have no dynamics.
type Shape interface {
	Kind() Kind
	Body() *body.Body
}

// position returns the world position of a body-backed shape.
func position(b *body.Body) quat.Quaternion {
	c := b.ToWorld.Column(3)
	return quat.Vector(c.X, c.Y, c.Z)
}

// axis returns the world-frame unit base vector of a body-backed shape.
func axis(b *body.Body, i int) quat.Quaternion {
	c := b.ToWorld.Column(i)
	return quat.Vector(c.X, c.Y, c.Z)
}

// Sphere is a ball centered on its body's position.
type Sphere struct {
	body   *body.Body
	Radius float64
}

// NewSphere returns a sphere of the given radius attached to b.
func NewSphere(b *body.Body, radius float64) (*Sphere, error) {
	if b == nil {
		return nil, ErrNoBody
	}
	if radius <= 0 {
		return nil, ErrNonPositiveSize
	}
	return &Sphere{body: b, Radius: radius}, nil
}

func (s *Sphere) Kind() Kind       { return KindSphere }
func (s *Sphere) Body() *body.Body { return s.body }

// Position returns the world position of the center.
func (s *Sphere) Position() quat.Quaternion { return position(s.body) }

// Volume returns the volume of the sphere.
func (s *Sphere) Volume() float64 {
	return (4.0 / 3.0) * math.Pi * s.Radius * s.Radius * s.Radius
}

// SetMass sets the body mass and the principal moment of inertia of a
// solid sphere, 2/5 m r^2 on each axis.
func (s *Sphere) SetMass(mass float64) {
	s.body.SetupMass(mass)

	ixx := (2.0 / 5.0) * mass * s.Radius * s.Radius
	s.body.SetMomentOfInertia(quat.Diagonal(ixx, ixx, ixx))

	s.body.RecomputeDerived(false)
}

// Box is a cuboid described by its half-extent along each body axis.
type Box struct {
	body       *body.Body
	HalfExtent quat.Quaternion
}

// NewBox returns a box with the given half-extents attached to b.
func NewBox(b *body.Body, hx, hy, hz float64) (*Box, error) {
	if b == nil {
		return nil, ErrNoBody
	}
	if hx <= 0 || hy <= 0 || hz <= 0 {
		return nil, ErrNonPositiveSize
	}
	return &Box{body: b, HalfExtent: quat.Vector(hx, hy, hz)}, nil
}

func (b *Box) Kind() Kind       { return KindBox }
func (b *Box) Body() *body.Body { return b.body }

// Position returns the world position of the center.
func (b *Box) Position() quat.Quaternion { return position(b.body) }

// Axis returns the box's world-frame unit base vector with index i.
func (b *Box) Axis(i int) quat.Quaternion { return axis(b.body, i) }

// Volume returns the volume of the box.
func (b *Box) Volume() float64 {
	return 8 * b.HalfExtent.X * b.HalfExtent.Y * b.HalfExtent.Z
}

// SetMass sets the body mass and the principal moment of inertia of a
// solid cuboid, m (d_j^2 + d_k^2) / 12 per axis with d the full extents.
func (b *Box) SetMass(mass float64) {
	b.body.SetupMass(mass)

	extent := b.HalfExtent.Scale(2)
	sq := extent.ComponentWise(extent)

	b.body.SetMomentOfInertia(quat.Diagonal(
		mass*(sq.Y+sq.Z)/12,
		mass*(sq.X+sq.Z)/12,
		mass*(sq.X+sq.Y)/12,
	))

	b.body.RecomputeDerived(false)
}

// projectOn returns the projected radius of the box onto the given
// world-frame direction.
func (b *Box) projectOn(direction quat.Quaternion) float64 {
	return b.HalfExtent.X*math.Abs(direction.Dot(b.Axis(0))) +
		b.HalfExtent.Y*math.Abs(direction.Dot(b.Axis(1))) +
		b.HalfExtent.Z*math.Abs(direction.Dot(b.Axis(2)))
}

// HalfSpace is an immovable scenery region bounded by the plane
// Direction . x = Offset, with Direction pointing out of the solid.
type HalfSpace struct {
	Direction quat.Quaternion
	Offset    float64
}

// NewHalfSpace returns a half-space with the given boundary plane. The
// direction is normalized.
func NewHalfSpace(direction quat.Quaternion, offset float64) (*HalfSpace, error) {
	if direction.ImNorm() == 0 {
		return nil, ErrDegenerateNormal
	}
	return &HalfSpace{
		Direction: quat.Vector(direction.X, direction.Y, direction.Z).Unit(),
		Offset:    offset,
	}, nil
}

func (h *HalfSpace) Kind() Kind       { return KindHalfSpace }
func (h *HalfSpace) Body() *body.Body { return nil }

// Plane is an immovable two-sided scenery plane Direction . x = Offset.
type Plane struct {
	Direction quat.Quaternion
	Offset    float64
}

// NewPlane returns a two-sided plane. The direction is normalized.
func NewPlane(direction quat.Quaternion, offset float64) (*Plane, error) {
	if direction.ImNorm() == 0 {
		return nil, ErrDegenerateNormal
	}
	return &Plane{
		Direction: quat.Vector(direction.X, direction.Y, direction.Z).Unit(),
		Offset:    offset,
	}, nil
}

func (p *Plane) Kind() Kind       { return KindPlane }
func (p *Plane) Body() *body.Body { return nil }
