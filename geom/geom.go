// Package geom provides the small set of vector, box and colour helpers shared by the
// scene subsystems. Vectors are gonum r3.Vec values.
package geom

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the world up axis.
var Up = r3.Vec{X: 0, Y: 1, Z: 0}

// Lerp linearly interpolates between a and b.
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r3.Vec) r3.Vec {
	return r3.Scale(0.5, r3.Add(a, b))
}

// Finite reports whether every component of v is a finite number.
func Finite(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Box is an axis-aligned bounding volume.
type Box struct {
	Min, Max r3.Vec
}

// NewBox returns a box spanning the two corners in any order.
func NewBox(a, b r3.Vec) Box {
	return Box{
		Min: r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// Contains reports whether p lies inside the box (inclusive).
func (b Box) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the box centre.
func (b Box) Center() r3.Vec {
	return Midpoint(b.Min, b.Max)
}

// Size returns the box extents.
func (b Box) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Intersect clips b to other. The result may be empty (Min > Max on some axis).
func (b Box) Intersect(other Box) Box {
	return Box{
		Min: r3.Vec{X: math.Max(b.Min.X, other.Min.X), Y: math.Max(b.Min.Y, other.Min.Y), Z: math.Max(b.Min.Z, other.Min.Z)},
		Max: r3.Vec{X: math.Min(b.Max.X, other.Max.X), Y: math.Min(b.Max.Y, other.Max.Y), Z: math.Min(b.Max.Z, other.Max.Z)},
	}
}

// Empty reports whether the box encloses no volume on some axis.
func (b Box) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// RandomPoint returns a uniformly distributed point inside the box.
func (b Box) RandomPoint(rng *rand.Rand) r3.Vec {
	return r3.Vec{
		X: b.Min.X + rng.Float64()*(b.Max.X-b.Min.X),
		Y: b.Min.Y + rng.Float64()*(b.Max.Y-b.Min.Y),
		Z: b.Min.Z + rng.Float64()*(b.Max.Z-b.Min.Z),
	}
}

// RandomVec returns a vector with each component drawn uniformly from [lo, hi].
func RandomVec(rng *rand.Rand, lo, hi r3.Vec) r3.Vec {
	return r3.Vec{
		X: lo.X + rng.Float64()*(hi.X-lo.X),
		Y: lo.Y + rng.Float64()*(hi.Y-lo.Y),
		Z: lo.Z + rng.Float64()*(hi.Z-lo.Z),
	}
}

// RandomRange returns a value drawn uniformly from [lo, hi].
func RandomRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
