package renderer

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/geom"
	"github.com/pthm-cable/spirittrails/transition"
)

// environment is the per-frame lighting state shared by every draw.
type environment struct {
	eye            r3.Vec
	ambient        geom.RGB
	fog            transition.Fog
	cameraDistance float64 // eye to look-at, used for objects drawn as a whole
	time           float32
}

func (e environment) fogAt(d float64) float64 {
	return e.fog.Factor(d)
}

// shade applies ambient and fog to a base colour at position p.
func (e environment) shade(c geom.RGB, p r3.Vec) geom.RGB {
	return fogged(c.Mul(e.ambient), e.fog.Color, e.fog.Factor(geom.Distance(e.eye, p)))
}
