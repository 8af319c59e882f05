package geometry

import (
	"math"

	"github.com/san-kum/worb/internal/contact"
	"github.com/san-kum/worb/internal/quat"
)

// Axes closer to parallel than this are skipped in the separating-axis
// tests; their cross products are too degenerate to project on.
const parallelEps = 1e-4

// Detect runs the narrow-phase test for the shape pair, registers any
// contacts found and returns how many were added. Pairs with no detector
// (plane against box or scenery against scenery) are silently ignored.
func Detect(reg *contact.Registry, a, b Shape) int {
	if !reg.HasSpace() {
		return 0
	}
	before := reg.Count()

	switch sa := a.(type) {
	case *Sphere:
		switch sb := b.(type) {
		case *Sphere:
			sphereSphere(reg, sa, sb)
		case *Box:
			boxSphere(reg, sb, sa)
		case *HalfSpace:
			sphereHalfSpace(reg, sa, sb)
		case *Plane:
			spherePlane(reg, sa, sb)
		}

	case *Box:
		switch sb := b.(type) {
		case *Sphere:
			boxSphere(reg, sa, sb)
		case *Box:
			boxBox(reg, sa, sb)
		case *HalfSpace:
			boxHalfSpace(reg, sa, sb)
		}

	case *HalfSpace:
		switch sb := b.(type) {
		case *Sphere:
			sphereHalfSpace(reg, sb, sa)
		case *Box:
			boxHalfSpace(reg, sb, sa)
		}

	case *Plane:
		if sb, ok := b.(*Sphere); ok {
			spherePlane(reg, sb, sa)
		}
	}

	return reg.Count() - before
}

// IntersectsHalfSpace reports whether the sphere reaches into the
// half-space.
func (s *Sphere) IntersectsHalfSpace(p *HalfSpace) bool {
	distance := p.Direction.Dot(s.Position()) - s.Radius
	return distance <= p.Offset
}

// Intersects reports whether two spheres overlap.
func (s *Sphere) Intersects(b *Sphere) bool {
	displacement := s.Position().Sub(b.Position())
	sumRadius := s.Radius + b.Radius
	return displacement.ImSquaredNorm() < sumRadius*sumRadius
}

// IntersectsHalfSpace reports whether the box reaches into the
// half-space.
func (b *Box) IntersectsHalfSpace(p *HalfSpace) bool {
	projectedRadius := b.projectOn(p.Direction)
	distance := p.Direction.Dot(b.Position()) - projectedRadius
	return distance <= p.Offset
}

// Intersects reports whether two boxes overlap, testing the three face
// axes of each and the nine cross products.
func (b *Box) Intersects(o *Box) bool {
	displacement := o.Position().Sub(b.Position())

	overlap := func(direction quat.Quaternion) bool {
		if direction.ImSquaredNorm() < parallelEps {
			return true
		}
		return b.penetrationOnAxis(o, direction, displacement) > 0
	}

	for i := 0; i < 3; i++ {
		if !overlap(b.Axis(i)) || !overlap(o.Axis(i)) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !overlap(b.Axis(i).Cross(o.Axis(j))) {
				return false
			}
		}
	}
	return true
}

// penetrationOnAxis returns the overlap of the two boxes projected on
// the given axis; positive means penetration.
func (b *Box) penetrationOnAxis(o *Box, axis, displacement quat.Quaternion) float64 {
	direction := axis.Unit()

	projA := b.projectOn(direction)
	projB := o.projectOn(direction)
	distance := math.Abs(displacement.Dot(direction))

	return projA + projB - distance
}

func sphereSphere(reg *contact.Registry, a, b *Sphere) {
	positionA := a.Position()
	positionB := b.Position()

	displacement := positionA.Sub(positionB)
	distance := displacement.ImNorm()

	if distance >= a.Radius+b.Radius {
		return
	}

	// The contact normal is along the displacement, the position half-way
	// between the two centers.
	reg.Register(
		a.body, b.body,
		positionB.Add(displacement.Scale(0.5)),
		displacement.Scale(1/distance),
		a.Radius+b.Radius-distance,
	)
}

func sphereHalfSpace(reg *contact.Registry, s *Sphere, p *HalfSpace) {
	position := s.Position()

	distance := p.Direction.Dot(position) - s.Radius - p.Offset
	if distance >= 0 {
		return
	}

	reg.Register(
		s.body, nil,
		position.Sub(p.Direction.Scale(distance+s.Radius)),
		p.Direction,
		-distance,
	)
}

func spherePlane(reg *contact.Registry, s *Sphere, p *Plane) {
	position := s.Position()

	distance := p.Direction.Dot(position) - p.Offset
	if distance*distance > s.Radius*s.Radius {
		return
	}

	// A true plane pushes from whichever side the center is on.
	normal := p.Direction
	penetration := -distance
	if distance < 0 {
		normal = normal.Neg()
		penetration = -penetration
	}
	penetration += s.Radius

	reg.Register(
		s.body, nil,
		position.Sub(p.Direction.Scale(distance)),
		normal,
		penetration,
	)
}

func boxSphere(reg *contact.Registry, b *Box, s *Sphere) {
	// Work in the box's body-fixed frame.
	center := s.Position()
	relCenter := b.body.ToWorld.TransformInverse(center)

	if math.Abs(relCenter.X)-s.Radius > b.HalfExtent.X ||
		math.Abs(relCenter.Y)-s.Radius > b.HalfExtent.Y ||
		math.Abs(relCenter.Z)-s.Radius > b.HalfExtent.Z {
		return
	}

	closestPoint := quat.Vector(
		clamp(relCenter.X, b.HalfExtent.X),
		clamp(relCenter.Y, b.HalfExtent.Y),
		clamp(relCenter.Z, b.HalfExtent.Z),
	)

	distance := closestPoint.Sub(relCenter).ImSquaredNorm()
	if distance > s.Radius*s.Radius {
		return
	}
	distance = math.Sqrt(distance)

	closestPointWorld := b.body.ToWorld.Transform(closestPoint)

	reg.Register(
		b.body, s.body,
		closestPointWorld,
		closestPointWorld.Sub(center).Unit(),
		s.Radius-distance,
	)
}

func clamp(x, max float64) float64 {
	if x > max {
		return max
	}
	if x < -max {
		return -max
	}
	return x
}

// boxVertices enumerates the +/- half-extent combinations.
var boxVertices = [8][3]float64{
	{1, 1, 1}, {-1, 1, 1}, {1, -1, 1}, {-1, -1, 1},
	{1, 1, -1}, {-1, 1, -1}, {1, -1, -1}, {-1, -1, -1},
}

func boxHalfSpace(reg *contact.Registry, b *Box, p *HalfSpace) {
	if !reg.HasSpace() || !b.IntersectsHalfSpace(p) {
		return
	}

	// Look for box edges almost parallel to the plane. The contact point
	// starts at the box center, the mid-point of every edge.
	var contactPoint quat.Quaternion

	axisN := quat.Vector(
		b.Axis(0).Dot(p.Direction),
		b.Axis(1).Dot(p.Direction),
		b.Axis(2).Dot(p.Direction),
	)

	parallelCount := 0
	for i := 0; i < 3; i++ {
		if math.Abs(axisN.Component(i)) < parallelEps {
			parallelCount++
		} else if axisN.Component(i) < 0 {
			contactPoint.SetComponent(i, b.HalfExtent.Component(i))
		} else {
			contactPoint.SetComponent(i, -b.HalfExtent.Component(i))
		}
	}

	// With a parallel edge or face, a single mid-point contact suffices.
	if parallelCount > 0 {
		contactPoint = b.body.ToWorld.Transform(contactPoint)
		penetration := p.Offset - contactPoint.Dot(p.Direction)

		reg.Register(
			b.body, nil,
			contactPoint.Add(p.Direction.Scale(0.5*penetration)),
			p.Direction,
			penetration,
		)
		return
	}

	// Otherwise scan all eight vertices. A box resting on its face or an
	// edge is reported as four or two contact points.
	for i := 0; i < 8 && reg.HasSpace(); i++ {
		vertexPos := quat.Vector(boxVertices[i][0], boxVertices[i][1], boxVertices[i][2])
		vertexPos = vertexPos.ComponentWise(b.HalfExtent)
		vertexPos = b.body.ToWorld.Transform(vertexPos)

		penetration := p.Offset - vertexPos.Dot(p.Direction)
		if penetration < 0 {
			continue
		}

		// The point of contact is half-way between the vertex and the plane.
		reg.Register(
			b.body, nil,
			vertexPos.Add(p.Direction.Scale(0.5*penetration)),
			p.Direction,
			penetration,
		)
	}
}

// DetectPoint registers a contact between the box and a world-frame
// point, treated as scenery. Used for picking and poking at bodies.
func DetectPoint(reg *contact.Registry, b *Box, point quat.Quaternion) bool {
	pointInBody := b.body.ToWorld.TransformInverse(point)

	var normal quat.Quaternion
	minDepth := math.MaxFloat64

	// The contact normal is along the axis of least penetration.
	for i := 0; i < 3; i++ {
		depth := b.HalfExtent.Component(i) - math.Abs(pointInBody.Component(i))
		if depth < 0 {
			return false
		}
		if depth < minDepth {
			minDepth = depth
			if pointInBody.Component(i) < 0 {
				normal = b.Axis(i).Neg()
			} else {
				normal = b.Axis(i)
			}
		}
	}

	return reg.Register(b.body, nil, point, normal, minDepth)
}

func boxBox(reg *contact.Registry, a, b *Box) {
	displacement := b.Position().Sub(a.Position())

	penetration := math.MaxFloat64
	axisIndexA := -1
	axisIndexB := -1

	// Track the axis with the smallest penetration; bail out on the first
	// separating axis.
	checkOverlap := func(direction quat.Quaternion, tagA, tagB int) bool {
		if direction.ImSquaredNorm() < parallelEps {
			return true
		}
		p := a.penetrationOnAxis(b, direction, displacement)
		if p < 0 {
			return false
		}
		if p < penetration {
			penetration = p
			axisIndexA = tagA
			axisIndexB = tagB
		}
		return true
	}

	for i := 0; i < 3; i++ {
		if !checkOverlap(a.Axis(i), i, -1) {
			return
		}
	}
	for i := 0; i < 3; i++ {
		if !checkOverlap(b.Axis(i), -1, i) {
			return
		}
	}

	// Remember whether a face axis of A or of B won before the cross
	// products; it decides which box owns an ambiguous edge contact.
	useA := axisIndexB != -1

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !checkOverlap(a.Axis(i).Cross(b.Axis(j)), i, j) {
				return
			}
		}
	}

	switch {
	case axisIndexB == -1:
		// B's vertex against A's face.
		registerBoxContactOnAxis(reg, a, b, displacement, a.Axis(axisIndexA), penetration)
		return
	case axisIndexA == -1:
		// A's vertex against B's face.
		registerBoxContactOnAxis(reg, b, a, displacement.Neg(), b.Axis(axisIndexB), penetration)
		return
	}

	// Edge-edge collision along the cross product of the two axes.
	axisA := a.Axis(axisIndexA)
	axisB := b.Axis(axisIndexB)

	normal := axisA.Cross(axisB).Unit()
	if normal.Dot(displacement) > 0 {
		normal = normal.Neg()
	}

	// Find the point on each involved edge closest to the other. The
	// mid-point of the edge is the default for the colliding axis itself.
	var ptOnEdgeA, ptOnEdgeB quat.Quaternion
	for i := 0; i < 3; i++ {
		if i != axisIndexA {
			axisAn := a.Axis(i).Dot(normal)
			if math.Abs(axisAn) > parallelEps {
				if axisAn > 0 {
					ptOnEdgeA.SetComponent(i, -a.HalfExtent.Component(i))
				} else {
					ptOnEdgeA.SetComponent(i, a.HalfExtent.Component(i))
				}
			}
		}
		if i != axisIndexB {
			axisBn := b.Axis(i).Dot(normal)
			if math.Abs(axisBn) > parallelEps {
				if axisBn > 0 {
					ptOnEdgeB.SetComponent(i, b.HalfExtent.Component(i))
				} else {
					ptOnEdgeB.SetComponent(i, -b.HalfExtent.Component(i))
				}
			}
		}
	}

	contactPoint := findContactPointOnEdges(
		a.body.ToWorld.Transform(ptOnEdgeA), axisA, a.HalfExtent.Component(axisIndexA),
		b.body.ToWorld.Transform(ptOnEdgeB), axisB, b.HalfExtent.Component(axisIndexB),
		useA,
	)

	reg.Register(a.body, b.body, contactPoint, normal, penetration)
}

// registerBoxContactOnAxis registers a vertex-face contact: box b's
// closest vertex against box a's face on the given axis. For a b edge
// nearly orthogonal to the normal, the vertex coordinate degenerates to
// the mid-point of the projected overlap instead.
func registerBoxContactOnAxis(reg *contact.Registry, a, b *Box, displacement, axis quat.Quaternion, penetration float64) {
	normal := axis
	if normal.Dot(displacement) > 0 {
		normal = normal.Neg()
	}

	axisBn := quat.Vector(
		b.Axis(0).Dot(normal),
		b.Axis(1).Dot(normal),
		b.Axis(2).Dot(normal),
	)

	var contactPointOnB quat.Quaternion

	for i := 0; i < 3; i++ {
		if math.Abs(axisBn.Component(i)) < parallelEps {
			// The edge is almost orthogonal to the contact normal; take
			// the mid-point of the intersection of the two projections.
			distanceBA := -displacement.Dot(b.Axis(i))
			halfExtentA := a.projectOn(b.Axis(i))
			halfExtentB := b.HalfExtent.Component(i)

			vxL := math.Max(distanceBA-halfExtentA, -halfExtentB)
			vxR := math.Min(distanceBA+halfExtentA, halfExtentB)
			vxM := 0.5 * (vxL + vxR)
			if math.Abs(vxM) < parallelEps {
				vxM = 0
			}
			contactPointOnB.SetComponent(i, vxM)
		} else if axisBn.Component(i) > 0 {
			contactPointOnB.SetComponent(i, b.HalfExtent.Component(i))
		} else {
			contactPointOnB.SetComponent(i, -b.HalfExtent.Component(i))
		}
	}

	reg.Register(
		a.body, b.body,
		b.body.ToWorld.Transform(contactPointOnB),
		normal,
		penetration,
	)
}

// findContactPointOnEdges returns the closest approach of two edge
// segments, or the known edge point when the segments are parallel or
// the nearest points fall outside either edge (an edge-face contact).
func findContactPointOnEdges(
	ptOnA, axisA quat.Quaternion, edgeA float64,
	ptOnB, axisB quat.Quaternion, edgeB float64,
	useA bool,
) quat.Quaternion {
	sqNormA := axisA.ImSquaredNorm()
	sqNormB := axisB.ImSquaredNorm()
	axisAB := axisB.Dot(axisA)

	pAB := ptOnA.Sub(ptOnB)
	dpStaA := pAB.Dot(axisA)
	dpStaB := pAB.Dot(axisB)

	denominator := sqNormA*sqNormB - axisAB*axisAB
	if math.Abs(denominator) < parallelEps {
		if useA {
			return ptOnA
		}
		return ptOnB
	}

	muA := (axisAB*dpStaB - sqNormB*dpStaA) / denominator
	muB := (sqNormA*dpStaB - axisAB*dpStaA) / denominator

	if muA > edgeA || muA < -edgeA || muB > edgeB || muB < -edgeB {
		if useA {
			return ptOnA
		}
		return ptOnB
	}

	return ptOnA.Add(axisA.Scale(muA)).Scale(0.5).
		Add(ptOnB.Add(axisB.Scale(muB)).Scale(0.5))
}
