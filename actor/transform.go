package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform places a body in the world: a position and an orthonormal 3x3
// orientation matrix.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Mat3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.Ident3(),
	}
}

// EulerToMatrix converts angles in degrees to an orientation, rotating about
// X, then Y, then Z (R = Rx * Ry * Rz).
func EulerToMatrix(x, y, z float64) mgl64.Mat3 {
	rx := mgl64.Rotate3DX(mgl64.DegToRad(x))
	ry := mgl64.Rotate3DY(mgl64.DegToRad(y))
	rz := mgl64.Rotate3DZ(mgl64.DegToRad(z))
	return rx.Mul3(ry).Mul3(rz)
}

// Apply maps a body space point to world space.
func (t Transform) Apply(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Mul3x1(local).Add(t.Position)
}

// ModelMatrix is translate * rotation, ready for a renderer.
func (t Transform) ModelMatrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(t.Rotation.Mat4())
}

// NormalMatrix is the inverse transpose of the model matrix's linear part.
func (t Transform) NormalMatrix() mgl64.Mat3 {
	return t.Rotation.Inv().Transpose()
}

// Orthonormalize removes the drift accumulated by the linear rotation update
// (Gram-Schmidt on the columns).
func (t *Transform) Orthonormalize() {
	c0 := t.Rotation.Col(0).Normalize()
	c1 := t.Rotation.Col(1)
	c2 := c0.Cross(c1).Normalize()
	c1 = c2.Cross(c0).Normalize()

	t.Rotation = mgl64.Mat3FromCols(c0, c1, c2)
}
