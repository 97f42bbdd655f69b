package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Ray is a half-line used for pointer picking. Dir need not be normalised.
type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Dir))
}

// IntersectSphere returns the nearest non-negative ray parameter at which the ray enters
// the sphere, or false if it misses. A ray starting inside the sphere hits at t=0.
func (r Ray) IntersectSphere(center r3.Vec, radius float64) (float64, bool) {
	a := r3.Dot(r.Dir, r.Dir)
	if a == 0 {
		return 0, false
	}
	oc := r3.Sub(r.Origin, center)
	b := r3.Dot(oc, r.Dir)
	c := r3.Dot(oc, oc) - radius*radius
	if c <= 0 {
		return 0, true
	}
	disc := b*b - a*c
	if disc < 0 || b > 0 {
		return 0, false
	}
	return (-b - math.Sqrt(disc)) / a, true
}
