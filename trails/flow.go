package trails

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// FlowParticle is a mote travelling along a trail. T is the curve parameter and Offset the
// accumulated lateral drift away from the curve.
type FlowParticle struct {
	T      float64
	Offset r3.Vec
}

// flow is the particle pool for one trail.
type flow struct {
	particles []FlowParticle
	seen      bool
}

// resize grows or shrinks the pool to n, spreading new particles evenly along the path.
func (f *flow) resize(n int) {
	if n <= len(f.particles) {
		f.particles = f.particles[:n]
		return
	}
	for i := len(f.particles); i < n; i++ {
		f.particles = append(f.particles, FlowParticle{T: float64(i) / float64(n)})
	}
}

// step advances every particle and respawns the ones that reached the end of the trail or
// drifted further than driftRadius from it. It returns the number recycled.
func (f *flow) step(dt, speed, jitter, driftRadius float64, rng *rand.Rand) int {
	recycled := 0
	for i := range f.particles {
		p := &f.particles[i]
		p.T += speed * dt
		if jitter > 0 {
			p.Offset = r3.Add(p.Offset, r3.Vec{
				X: (rng.Float64()*2 - 1) * jitter * dt,
				Y: (rng.Float64()*2 - 1) * jitter * dt,
				Z: (rng.Float64()*2 - 1) * jitter * dt,
			})
		}
		if p.T > 1 || r3.Norm(p.Offset) > driftRadius {
			p.T = 0
			p.Offset = r3.Vec{}
			recycled++
		}
	}
	return recycled
}

// positions appends the world position of each particle on curve c to dst.
func (f *flow) positions(dst []r3.Vec, c Curve) []r3.Vec {
	for _, p := range f.particles {
		dst = append(dst, r3.Add(c.Point(p.T), p.Offset))
	}
	return dst
}
