package quat

// Tensor is a 4x4 affine transform / tensor. Field names follow row-column
// order: XY is the element in row x, column y. The fourth column (XW, YW,
// ZW) carries the translation; the fourth row is (0, 0, 0, 1) for affine
// transforms.
type Tensor struct {
	XX, XY, XZ, XW float64
	YX, YY, YZ, YW float64
	ZX, ZY, ZZ, ZW float64
	WX, WY, WZ, WW float64
}

// Identity returns the identity tensor.
func Identity() Tensor {
	return Tensor{XX: 1, YY: 1, ZZ: 1, WW: 1}
}

// Diagonal returns a tensor with the given values on the 3x3 main diagonal
// and WW set to 1. Used to build principal moment of inertia tensors.
func Diagonal(xx, yy, zz float64) Tensor {
	return Tensor{XX: xx, YY: yy, ZZ: zz, WW: 1}
}

// ColumnBasis returns a tensor whose first three columns are the vector
// parts of v1, v2 and v3, with no translation.
func ColumnBasis(v1, v2, v3 Quaternion) Tensor {
	return Tensor{
		XX: v1.X, XY: v2.X, XZ: v3.X,
		YX: v1.Y, YY: v2.Y, YZ: v3.Y,
		ZX: v1.Z, ZY: v2.Z, ZZ: v3.Z,
		WW: 1,
	}
}

// Skew returns the skew-symmetric cross-product matrix of v, so that
// Skew(v).Transform(u) == v.Cross(u) for pure vectors.
func Skew(v Quaternion) Tensor {
	return Tensor{
		XY: -v.Z, XZ: v.Y,
		YX: v.Z, YZ: -v.X,
		ZX: -v.Y, ZY: v.X,
	}
}

// FromPose builds the combined rotation/translation transform from a unit
// orientation and a translation. The rotation block is Shoemake's matrix,
// the doubled-quaternion product L(q)*R(q*), so no trigonometry is
// re-derived from the versor.
func FromPose(q, translate Quaternion) Tensor {
	return Tensor{
		XX: 1 - 2*(q.Y*q.Y+q.Z*q.Z),
		XY: 2 * (q.X*q.Y - q.W*q.Z),
		XZ: 2 * (q.X*q.Z + q.W*q.Y),
		XW: translate.X,

		YX: 2 * (q.X*q.Y + q.W*q.Z),
		YY: 1 - 2*(q.X*q.X+q.Z*q.Z),
		YZ: 2 * (q.Y*q.Z - q.W*q.X),
		YW: translate.Y,

		ZX: 2 * (q.X*q.Z - q.W*q.Y),
		ZY: 2 * (q.Y*q.Z + q.W*q.X),
		ZZ: 1 - 2*(q.X*q.X+q.Y*q.Y),
		ZW: translate.Z,

		WW: 1,
	}
}

// Row returns row i as a quaternion; the fourth-column element lands in W.
func (t Tensor) Row(i int) Quaternion {
	switch i {
	case 0:
		return Quaternion{W: t.XW, X: t.XX, Y: t.XY, Z: t.XZ}
	case 1:
		return Quaternion{W: t.YW, X: t.YX, Y: t.YY, Z: t.YZ}
	case 2:
		return Quaternion{W: t.ZW, X: t.ZX, Y: t.ZY, Z: t.ZZ}
	}
	return Quaternion{W: t.WW, X: t.WX, Y: t.WY, Z: t.WZ}
}

// Column returns column j as a quaternion; the fourth-row element lands
// in W. Columns 0-2 of a pose transform are the world-frame unit axes and
// column 3 is the world position.
func (t Tensor) Column(j int) Quaternion {
	switch j {
	case 0:
		return Quaternion{W: t.WX, X: t.XX, Y: t.YX, Z: t.ZX}
	case 1:
		return Quaternion{W: t.WY, X: t.XY, Y: t.YY, Z: t.ZY}
	case 2:
		return Quaternion{W: t.WZ, X: t.XZ, Y: t.YZ, Z: t.ZZ}
	}
	return Quaternion{W: t.WW, X: t.XW, Y: t.YW, Z: t.ZW}
}

// Axis returns the world-frame unit base vector with the given index;
// index 3 is the position column.
func (t Tensor) Axis(j int) Quaternion {
	return t.Column(j)
}

func (t Tensor) Add(u Tensor) Tensor {
	return Tensor{
		t.XX + u.XX, t.XY + u.XY, t.XZ + u.XZ, t.XW + u.XW,
		t.YX + u.YX, t.YY + u.YY, t.YZ + u.YZ, t.YW + u.YW,
		t.ZX + u.ZX, t.ZY + u.ZY, t.ZZ + u.ZZ, t.ZW + u.ZW,
		t.WX + u.WX, t.WY + u.WY, t.WZ + u.WZ, t.WW + u.WW,
	}
}

func (t Tensor) Sub(u Tensor) Tensor {
	return Tensor{
		t.XX - u.XX, t.XY - u.XY, t.XZ - u.XZ, t.XW - u.XW,
		t.YX - u.YX, t.YY - u.YY, t.YZ - u.YZ, t.YW - u.YW,
		t.ZX - u.ZX, t.ZY - u.ZY, t.ZZ - u.ZZ, t.ZW - u.ZW,
		t.WX - u.WX, t.WY - u.WY, t.WZ - u.WZ, t.WW - u.WW,
	}
}

func (t Tensor) Neg() Tensor {
	return Tensor{
		-t.XX, -t.XY, -t.XZ, -t.XW,
		-t.YX, -t.YY, -t.YZ, -t.YW,
		-t.ZX, -t.ZY, -t.ZZ, -t.ZW,
		-t.WX, -t.WY, -t.WZ, -t.WW,
	}
}

func (t Tensor) ScaleBy(s float64) Tensor {
	return Tensor{
		t.XX * s, t.XY * s, t.XZ * s, t.XW * s,
		t.YX * s, t.YY * s, t.YZ * s, t.YW * s,
		t.ZX * s, t.ZY * s, t.ZZ * s, t.ZW * s,
		t.WX * s, t.WY * s, t.WZ * s, t.WW * s,
	}
}

// Mul composes two affine transforms, t applied after u. The fourth row of
// the result is fixed to (0, 0, 0, 1).
func (t Tensor) Mul(u Tensor) Tensor {
	return Tensor{
		XX: t.XX*u.XX + t.XY*u.YX + t.XZ*u.ZX,
		XY: t.XX*u.XY + t.XY*u.YY + t.XZ*u.ZY,
		XZ: t.XX*u.XZ + t.XY*u.YZ + t.XZ*u.ZZ,
		XW: t.XX*u.XW + t.XY*u.YW + t.XZ*u.ZW + t.XW,

		YX: t.YX*u.XX + t.YY*u.YX + t.YZ*u.ZX,
		YY: t.YX*u.XY + t.YY*u.YY + t.YZ*u.ZY,
		YZ: t.YX*u.XZ + t.YY*u.YZ + t.YZ*u.ZZ,
		YW: t.YX*u.XW + t.YY*u.YW + t.YZ*u.ZW + t.YW,

		ZX: t.ZX*u.XX + t.ZY*u.YX + t.ZZ*u.ZX,
		ZY: t.ZX*u.XY + t.ZY*u.YY + t.ZZ*u.ZY,
		ZZ: t.ZX*u.XZ + t.ZY*u.YZ + t.ZZ*u.ZZ,
		ZW: t.ZX*u.XW + t.ZY*u.YW + t.ZZ*u.ZW + t.ZW,

		WW: 1,
	}
}

// Transform rotates and translates the vector part of q, returning a pure
// vector.
func (t Tensor) Transform(q Quaternion) Quaternion {
	return Quaternion{
		X: q.X*t.XX + q.Y*t.XY + q.Z*t.XZ + t.XW,
		Y: q.X*t.YX + q.Y*t.YY + q.Z*t.YZ + t.YW,
		Z: q.X*t.ZX + q.Y*t.ZY + q.Z*t.ZZ + t.ZW,
	}
}

// TransformInverse applies the inverse of an orthonormal pose transform:
// it subtracts the translation and multiplies by the transpose of the
// rotation block. Valid only when the 3x3 block is orthonormal.
func (t Tensor) TransformInverse(q Quaternion) Quaternion {
	d := q.Sub(Quaternion{X: t.XW, Y: t.YW, Z: t.ZW})
	return Quaternion{
		X: d.X*t.XX + d.Y*t.YX + d.Z*t.ZX,
		Y: d.X*t.XY + d.Y*t.YY + d.Z*t.ZY,
		Z: d.X*t.XZ + d.Y*t.YZ + d.Z*t.ZZ,
	}
}

// Transpose returns the transpose of t.
func (t Tensor) Transpose() Tensor {
	return Tensor{
		t.XX, t.YX, t.ZX, t.WX,
		t.XY, t.YY, t.ZY, t.WY,
		t.XZ, t.YZ, t.ZZ, t.WZ,
		t.XW, t.YW, t.ZW, t.WW,
	}
}

// Determinant returns the determinant of the 3x3 rotation block.
func (t Tensor) Determinant() float64 {
	return -t.ZX*t.YY*t.XZ +
		t.YX*t.ZY*t.XZ +
		t.ZX*t.XY*t.YZ -
		t.XX*t.ZY*t.YZ -
		t.YX*t.XY*t.ZZ +
		t.XX*t.YY*t.ZZ
}

// Inverse returns the general inverse of the affine tensor via the
// cofactor/adjugate method. The 3x3 block need not be orthonormal (inertia
// tensors in world frame are not). A singular tensor inverts to zero.
func (t Tensor) Inverse() Tensor {
	det := t.Determinant()
	if det == 0 {
		return Tensor{}
	}

	var r Tensor
	r.XX = -t.ZY*t.YZ + t.YY*t.ZZ
	r.YX = t.ZX*t.YZ - t.YX*t.ZZ
	r.ZX = -t.ZX*t.YY + t.YX*t.ZY

	r.XY = t.ZY*t.XZ - t.XY*t.ZZ
	r.YY = -t.ZX*t.XZ + t.XX*t.ZZ
	r.ZY = t.ZX*t.XY - t.XX*t.ZY

	r.XZ = -t.YY*t.XZ + t.XY*t.YZ
	r.YZ = t.YX*t.XZ - t.XX*t.YZ
	r.ZZ = -t.YX*t.XY + t.XX*t.YY

	r.XW = t.ZY*t.YZ*t.XW -
		t.YY*t.ZZ*t.XW -
		t.ZY*t.XZ*t.YW +
		t.XY*t.ZZ*t.YW +
		t.YY*t.XZ*t.ZW -
		t.XY*t.YZ*t.ZW

	r.YW = -t.ZX*t.YZ*t.XW +
		t.YX*t.ZZ*t.XW +
		t.ZX*t.XZ*t.YW -
		t.XX*t.ZZ*t.YW -
		t.YX*t.XZ*t.ZW +
		t.XX*t.YZ*t.ZW

	r.ZW = t.ZX*t.YY*t.XW -
		t.YX*t.ZY*t.XW -
		t.ZX*t.XY*t.YW +
		t.XX*t.ZY*t.YW +
		t.YX*t.XY*t.ZW -
		t.XX*t.YY*t.ZW

	r.WW = t.WW

	return r.ScaleBy(1 / det)
}

// Rotate transforms a tensor from the local frame of t into the frame t
// maps to: result = R * u * Rᵀ, where R is the rotation block of t. The
// translation of t does not participate.
func (t Tensor) Rotate(u Tensor) Tensor {
	txx := t.XX*u.XX + t.XY*u.YX + t.XZ*u.ZX
	txy := t.XX*u.XY + t.XY*u.YY + t.XZ*u.ZY
	txz := t.XX*u.XZ + t.XY*u.YZ + t.XZ*u.ZZ

	tyx := t.YX*u.XX + t.YY*u.YX + t.YZ*u.ZX
	tyy := t.YX*u.XY + t.YY*u.YY + t.YZ*u.ZY
	tyz := t.YX*u.XZ + t.YY*u.YZ + t.YZ*u.ZZ

	tzx := t.ZX*u.XX + t.ZY*u.YX + t.ZZ*u.ZX
	tzy := t.ZX*u.XY + t.ZY*u.YY + t.ZZ*u.ZY
	tzz := t.ZX*u.XZ + t.ZY*u.YZ + t.ZZ*u.ZZ

	return Tensor{
		XX: txx*t.XX + txy*t.XY + txz*t.XZ,
		XY: txx*t.YX + txy*t.YY + txz*t.YZ,
		XZ: txx*t.ZX + txy*t.ZY + txz*t.ZZ,

		YX: tyx*t.XX + tyy*t.XY + tyz*t.XZ,
		YY: tyx*t.YX + tyy*t.YY + tyz*t.YZ,
		YZ: tyx*t.ZX + tyy*t.ZY + tyz*t.ZZ,

		ZX: tzx*t.XX + tzy*t.XY + tzz*t.XZ,
		ZY: tzx*t.YX + tzy*t.YY + tzz*t.YZ,
		ZZ: tzx*t.ZX + tzy*t.ZY + tzz*t.ZZ,

		WW: 1,
	}
}

// RotateInverse transforms a tensor by the inverse rotation of t:
// result = Rᵀ * u * R. Valid only when the rotation block is orthonormal.
func (t Tensor) RotateInverse(u Tensor) Tensor {
	txx := t.XX*u.XX + t.YX*u.YX + t.ZX*u.ZX
	txy := t.XX*u.XY + t.YX*u.YY + t.ZX*u.ZY
	txz := t.XX*u.XZ + t.YX*u.YZ + t.ZX*u.ZZ

	tyx := t.XY*u.XX + t.YY*u.YX + t.ZY*u.ZX
	tyy := t.XY*u.XY + t.YY*u.YY + t.ZY*u.ZY
	tyz := t.XY*u.XZ + t.YY*u.YZ + t.ZY*u.ZZ

	tzx := t.XZ*u.XX + t.YZ*u.YX + t.ZZ*u.ZX
	tzy := t.XZ*u.XY + t.YZ*u.YY + t.ZZ*u.ZY
	tzz := t.XZ*u.XZ + t.YZ*u.YZ + t.ZZ*u.ZZ

	return Tensor{
		XX: txx*t.XX + txy*t.YX + txz*t.ZX,
		XY: txx*t.XY + txy*t.YY + txz*t.ZY,
		XZ: txx*t.XZ + txy*t.YZ + txz*t.ZZ,

		YX: tyx*t.XX + tyy*t.YX + tyz*t.ZX,
		YY: tyx*t.XY + tyy*t.YY + tyz*t.ZY,
		YZ: tyx*t.XZ + tyy*t.YZ + tyz*t.ZZ,

		ZX: tzx*t.XX + tzy*t.YX + tzz*t.ZX,
		ZY: tzx*t.XY + tzy*t.YY + tzz*t.ZY,
		ZZ: tzx*t.XZ + tzy*t.YZ + tzz*t.ZZ,

		WW: 1,
	}
}
