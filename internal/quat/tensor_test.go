package quat

import (
	"math"
	"testing"
)

func tensorsAlmostEqual(a, b Tensor) bool {
	d := a.Sub(b)
	sum := 0.0
	for i := 0; i < 4; i++ {
		r := d.Row(i)
		sum += math.Abs(r.W) + math.Abs(r.X) + math.Abs(r.Y) + math.Abs(r.Z)
	}
	return sum < 1e-9
}

func TestIdentityTransform(t *testing.T) {
	v := Vector(1, -2, 3)
	if got := Identity().Transform(v); got != v {
		t.Errorf("identity transform changed the vector: %v", got)
	}
}

func TestSkewCross(t *testing.T) {
	a := Vector(1, 2, 3)
	b := Vector(-2, 0.5, 4)

	got := Skew(a).Transform(b)
	want := a.Cross(b)

	if !almostEqual(got.X, want.X) || !almostEqual(got.Y, want.Y) || !almostEqual(got.Z, want.Z) {
		t.Errorf("Skew(a)*b = %v, a x b = %v", got, want)
	}
}

func TestFromPoseRoundTrip(t *testing.T) {
	q := FromAxisAngle(0.8, 1, -2, 0.5)
	pose := FromPose(q, Vector(3, -1, 2))

	v := Vector(0.7, 1.1, -0.3)
	back := pose.TransformInverse(pose.Transform(v))

	if !almostEqual(back.X, v.X) || !almostEqual(back.Y, v.Y) || !almostEqual(back.Z, v.Z) {
		t.Errorf("TransformInverse did not undo Transform: %v vs %v", back, v)
	}
}

func TestFromPoseColumns(t *testing.T) {
	pos := Vector(4, 5, 6)
	pose := FromPose(FromAxisAngle(0.4, 0, 1, 0), pos)

	got := pose.Column(3)
	if !almostEqual(got.X, 4) || !almostEqual(got.Y, 5) || !almostEqual(got.Z, 6) {
		t.Errorf("column 3 should be the position, got %v", got)
	}

	for i := 0; i < 3; i++ {
		if !almostEqual(pose.Axis(i).ImNorm(), 1) {
			t.Errorf("axis %d should be unit length, got %f", i, pose.Axis(i).ImNorm())
		}
	}
}

func TestDeterminantRotation(t *testing.T) {
	pose := FromPose(FromAxisAngle(1.3, 2, 1, -1), Vector(1, 2, 3))
	if !almostEqual(pose.Determinant(), 1) {
		t.Errorf("rotation determinant should be 1, got %f", pose.Determinant())
	}
}

func TestInverseGeneral(t *testing.T) {
	// A non-orthonormal affine tensor: scaled rotation plus translation.
	m := FromPose(FromAxisAngle(0.6, 1, 1, 1), Vector(2, -3, 0.5))
	m = m.Mul(Diagonal(2, 0.5, 3))

	if !tensorsAlmostEqual(m.Mul(m.Inverse()), Identity()) {
		t.Errorf("m * m^-1 should be identity, got %+v", m.Mul(m.Inverse()))
	}

	v := Vector(1.5, -0.25, 2)
	back := m.Inverse().Transform(m.Transform(v))
	if !almostEqual(back.X, v.X) || !almostEqual(back.Y, v.Y) || !almostEqual(back.Z, v.Z) {
		t.Errorf("inverse transform round trip failed: %v vs %v", back, v)
	}
}

func TestInverseSingular(t *testing.T) {
	var m Tensor
	if m.Inverse() != (Tensor{}) {
		t.Error("singular tensor should invert to zero")
	}
}

func TestRotateMatchesExplicit(t *testing.T) {
	r := FromPose(FromAxisAngle(0.9, 1, 3, -2), Quaternion{})
	u := Diagonal(1, 2, 5)

	got := r.Rotate(u)
	want := r.Mul(u).Mul(r.Transpose())

	if !tensorsAlmostEqual(got, want) {
		t.Errorf("Rotate disagrees with R*u*Rt:\n%+v\n%+v", got, want)
	}

	back := r.RotateInverse(got)
	if !tensorsAlmostEqual(back, u) {
		t.Errorf("RotateInverse did not undo Rotate: %+v", back)
	}
}

func TestColumnBasis(t *testing.T) {
	b := ColumnBasis(Vector(1, 0, 0), Vector(0, 1, 0), Vector(0, 0, 1))
	if !tensorsAlmostEqual(b, Identity()) {
		t.Errorf("standard basis should give identity, got %+v", b)
	}
}

func TestTransposeInvolution(t *testing.T) {
	m := FromPose(FromAxisAngle(0.2, 5, 0, 1), Vector(1, 1, 1))
	if m.Transpose().Transpose() != m {
		t.Error("double transpose should be the original tensor")
	}
}
