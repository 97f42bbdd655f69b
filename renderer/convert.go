package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/geom"
)

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func rgba(c geom.RGB, alpha float64) rl.Color {
	r, g, b := c.Bytes()
	return rl.NewColor(r, g, b, uint8(geom.Clamp(alpha, 0, 1)*255))
}

// fogged blends c toward the fog colour by a fog factor in [0,1].
func fogged(c geom.RGB, fogColor geom.RGB, factor float64) geom.RGB {
	return geom.LerpRGB(c, fogColor, factor)
}
