package culling

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mat4 is a column-major 4x4 matrix: element (row r, column c) is m[c*4+r]. This is the
// layout OpenGL and raylib's Matrix use.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float64 {
	return m[c*4+r]
}

// Row returns row r as four values.
func (m Mat4) Row(r int) [4]float64 {
	return [4]float64{m[r], m[4+r], m[8+r], m[12+r]}
}

// Mul returns a*b.
func Mul(a, b Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = s
		}
	}
	return out
}

// TransformPoint returns m*(p,1) as homogeneous clip coordinates.
func (m Mat4) TransformPoint(p r3.Vec) [4]float64 {
	var out [4]float64
	for r := 0; r < 4; r++ {
		out[r] = m[r]*p.X + m[4+r]*p.Y + m[8+r]*p.Z + m[12+r]
	}
	return out
}

// Perspective returns a right-handed perspective projection with depth mapped to [-1,1].
// fovY is in radians.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovY/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}

// LookAt returns the view matrix for a camera at eye looking at target.
func LookAt(eye, target, up r3.Vec) Mat4 {
	z := r3.Sub(eye, target)
	if r3.Norm(z) == 0 {
		z = r3.Vec{Z: 1}
	}
	z = r3.Unit(z)
	x := r3.Cross(up, z)
	if r3.Norm(x) < 1e-9 {
		// Looking straight along up; pick any perpendicular.
		x = r3.Cross(r3.Vec{Z: 1}, z)
		if r3.Norm(x) < 1e-9 {
			x = r3.Cross(r3.Vec{X: 1}, z)
		}
	}
	x = r3.Unit(x)
	y := r3.Cross(z, x)

	return Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-r3.Dot(x, eye), -r3.Dot(y, eye), -r3.Dot(z, eye), 1,
	}
}
