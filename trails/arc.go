package trails

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/geom"
)

// Curve is a quadratic Bézier from P0 to P2 with control point P1.
type Curve struct {
	P0, P1, P2 r3.Vec
}

// Arc returns the trail curve between two agents: the control point sits above the
// midpoint, lifted by arcHeight times the distance between them.
func Arc(start, end r3.Vec, arcHeight float64) Curve {
	lift := arcHeight * geom.Distance(start, end)
	return Curve{
		P0: start,
		P1: r3.Add(geom.Midpoint(start, end), r3.Scale(lift, geom.Up)),
		P2: end,
	}
}

// Point evaluates the curve at t in [0,1].
func (c Curve) Point(t float64) r3.Vec {
	u := 1 - t
	p := r3.Scale(u*u, c.P0)
	p = r3.Add(p, r3.Scale(2*u*t, c.P1))
	return r3.Add(p, r3.Scale(t*t, c.P2))
}

// Tangent returns the (unnormalised) derivative at t.
func (c Curve) Tangent(t float64) r3.Vec {
	a := r3.Scale(2*(1-t), r3.Sub(c.P1, c.P0))
	return r3.Add(a, r3.Scale(2*t, r3.Sub(c.P2, c.P1)))
}

// Tessellate samples the curve into segments+1 points, endpoints included.
func (c Curve) Tessellate(segments int) []r3.Vec {
	return c.AppendPoints(nil, segments)
}

// AppendPoints appends segments+1 samples of the curve to dst.
func (c Curve) AppendPoints(dst []r3.Vec, segments int) []r3.Vec {
	if segments < 1 {
		segments = 1
	}
	for i := 0; i <= segments; i++ {
		dst = append(dst, c.Point(float64(i)/float64(segments)))
	}
	return dst
}

// ArcLengths returns the cumulative distance along a polyline, starting at 0.
func ArcLengths(points []r3.Vec) []float64 {
	return appendArcLengths(make([]float64, 0, len(points)), points)
}
