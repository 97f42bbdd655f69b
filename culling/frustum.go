package culling

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/geom"
)

// Plane is n·p + D >= 0 on the inside, with unit normal N.
type Plane struct {
	N r3.Vec
	D float64
}

// Distance returns the signed distance of p from the plane.
func (pl Plane) Distance(p r3.Vec) float64 {
	return r3.Dot(pl.N, p) + pl.D
}

// Frustum is six inward-facing planes: left, right, bottom, top, near, far.
type Frustum [6]Plane

// FrustumFromMatrix extracts the view frustum from a projection*view matrix.
func FrustumFromMatrix(m Mat4) Frustum {
	x, y, z, w := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	add := func(a, b [4]float64) [4]float64 {
		return [4]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
	}
	sub := func(a, b [4]float64) [4]float64 {
		return [4]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
	}
	raw := [6][4]float64{
		add(w, x), // left
		sub(w, x), // right
		add(w, y), // bottom
		sub(w, y), // top
		add(w, z), // near
		sub(w, z), // far
	}
	var f Frustum
	for i, p := range raw {
		n := r3.Vec{X: p[0], Y: p[1], Z: p[2]}
		l := r3.Norm(n)
		if l == 0 {
			continue
		}
		f[i] = Plane{N: r3.Scale(1/l, n), D: p[3] / l}
	}
	return f
}

// ContainsPoint reports whether p is inside all six planes.
func (f *Frustum) ContainsPoint(p r3.Vec) bool {
	for i := range f {
		if f[i].Distance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether any part of the sphere is inside the frustum. It may
// report true for spheres just outside a frustum corner.
func (f *Frustum) IntersectsSphere(center r3.Vec, radius float64) bool {
	for i := range f {
		if f[i].Distance(center) < -radius {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether any part of the box is inside the frustum, testing the
// corner furthest along each plane normal.
func (f *Frustum) IntersectsBox(b geom.Box) bool {
	for i := range f {
		n := f[i].N
		p := b.Min
		if n.X >= 0 {
			p.X = b.Max.X
		}
		if n.Y >= 0 {
			p.Y = b.Max.Y
		}
		if n.Z >= 0 {
			p.Z = b.Max.Z
		}
		if f[i].Distance(p) < 0 {
			return false
		}
	}
	return true
}
