package quat

import "math"

// Quaternion is the single value type used for both orientations and
// spatial quantities. A pure vector (position, velocity, force, torque,
// momentum) is a quaternion with W == 0; an orientation is a unit versor.
type Quaternion struct {
	W, X, Y, Z float64
}

// Vector returns a pure (imaginary) quaternion with the given components.
func Vector(x, y, z float64) Quaternion {
	return Quaternion{X: x, Y: y, Z: z}
}

// Scalar returns a quaternion with only the real part set.
func Scalar(w float64) Quaternion {
	return Quaternion{W: w}
}

// FromAxisAngle builds a unit versor rotating by angle (radians) around the
// given axis. A zero axis yields the identity versor.
func FromAxisAngle(angle, vx, vy, vz float64) Quaternion {
	norm := math.Sqrt(vx*vx + vy*vy + vz*vz)
	if norm == 0 {
		return Scalar(1)
	}
	re := math.Cos(angle / 2)
	im := math.Sin(angle/2) / norm
	return Quaternion{W: re, X: im * vx, Y: im * vy, Z: im * vz}
}

// Component returns the component with the given index: 0..2 map to X, Y, Z
// and anything else maps to W.
func (q Quaternion) Component(i int) float64 {
	switch i {
	case 0:
		return q.X
	case 1:
		return q.Y
	case 2:
		return q.Z
	}
	return q.W
}

// SetComponent assigns the component with the given index: 0..2 map to
// X, Y, Z and anything else maps to W.
func (q *Quaternion) SetComponent(i int, v float64) {
	switch i {
	case 0:
		q.X = v
	case 1:
		q.Y = v
	case 2:
		q.Z = v
	default:
		q.W = v
	}
}

func (q Quaternion) Add(p Quaternion) Quaternion {
	return Quaternion{q.W + p.W, q.X + p.X, q.Y + p.Y, q.Z + p.Z}
}

func (q Quaternion) Sub(p Quaternion) Quaternion {
	return Quaternion{q.W - p.W, q.X - p.X, q.Y - p.Y, q.Z - p.Z}
}

func (q Quaternion) Neg() Quaternion {
	return Quaternion{-q.W, -q.X, -q.Y, -q.Z}
}

func (q Quaternion) Scale(s float64) Quaternion {
	return Quaternion{q.W * s, q.X * s, q.Y * s, q.Z * s}
}

// Mul returns the Hamilton product q*p.
func (q Quaternion) Mul(p Quaternion) Quaternion {
	return Quaternion{
		q.W*p.W - q.X*p.X - q.Y*p.Y - q.Z*p.Z,
		q.W*p.X + q.X*p.W + q.Y*p.Z - q.Z*p.Y,
		q.W*p.Y + q.Y*p.W + q.Z*p.X - q.X*p.Z,
		q.W*p.Z + q.Z*p.W + q.X*p.Y - q.Y*p.X,
	}
}

// ComponentWise returns the component-by-component product of q and p.
func (q Quaternion) ComponentWise(p Quaternion) Quaternion {
	return Quaternion{q.W * p.W, q.X * p.X, q.Y * p.Y, q.Z * p.Z}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

// SquaredNorm returns the squared magnitude over all four components.
func (q Quaternion) SquaredNorm() float64 {
	return q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z
}

func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.SquaredNorm())
}

// ImSquaredNorm returns the squared magnitude of the vector part only.
func (q Quaternion) ImSquaredNorm() float64 {
	return q.X*q.X + q.Y*q.Y + q.Z*q.Z
}

// ImNorm returns the magnitude of the vector part only.
func (q Quaternion) ImNorm() float64 {
	return math.Sqrt(q.ImSquaredNorm())
}

// Normalized returns q scaled to the given length. A zero quaternion
// normalizes to Scalar(length) instead of dividing by zero.
func (q Quaternion) Normalized(length float64) Quaternion {
	norm := q.Norm()
	if norm == 0 {
		return Scalar(length)
	}
	return q.Scale(length / norm)
}

// Unit returns the versor of q.
func (q Quaternion) Unit() Quaternion {
	return q.Normalized(1)
}

// Cross returns the vector product of the vector parts of q and p.
// The scalar parts are ignored and the result is a pure vector.
func (q Quaternion) Cross(p Quaternion) Quaternion {
	return Quaternion{
		X: q.Y*p.Z - q.Z*p.Y,
		Y: q.Z*p.X - q.X*p.Z,
		Z: q.X*p.Y - q.Y*p.X,
	}
}

// Dot returns the scalar product of the vector parts of q and p.
// The W components never contribute, even for full quaternions; every
// caller operates on pure vectors and depends on this.
func (q Quaternion) Dot(p Quaternion) float64 {
	return q.X*p.X + q.Y*p.Y + q.Z*p.Z
}

// IsValid reports whether all components are finite.
func (q Quaternion) IsValid() bool {
	for _, v := range [4]float64{q.W, q.X, q.Y, q.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
