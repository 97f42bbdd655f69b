package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/components"
	"github.com/pthm-cable/spirittrails/culling"
	"github.com/pthm-cable/spirittrails/geom"
	"github.com/pthm-cable/spirittrails/quality"
	"github.com/pthm-cable/spirittrails/systems"
)

var (
	birdColor   = geom.RGB{R: 0.2, G: 0.2, B: 0.25}
	grazerColor = geom.RGB{R: 0.55, G: 0.42, B: 0.3}
	trunkColor  = geom.RGB{R: 0.35, G: 0.25, B: 0.15}
	leafColors  = [...]geom.RGB{
		components.FloraPine:      {R: 0.12, G: 0.35, B: 0.2},
		components.FloraBroadleaf: {R: 0.25, G: 0.5, B: 0.2},
		components.FloraShrub:     {R: 0.3, G: 0.45, B: 0.25},
	}
	shadowColor = geom.RGB{}
)

// detailSlices picks mesh tessellation per level of detail.
var detailSlices = culling.LODGroup[int]{High: 10, Medium: 6, Low: 4}

// WildlifeRenderer draws creatures and flora with level-of-detail geometry.
type WildlifeRenderer struct {
	shadows quality.ShadowTechnique
}

// NewWildlifeRenderer creates a wildlife renderer.
func NewWildlifeRenderer() *WildlifeRenderer {
	return &WildlifeRenderer{}
}

// SetShadows sets the shadow technique from the quality tier.
func (r *WildlifeRenderer) SetShadows(s quality.ShadowTechnique) {
	r.shadows = s
}

// Draw renders every visible instance.
func (r *WildlifeRenderer) Draw(instances []systems.Instance, ground func(x, z float64) float64, env environment, c *counters) {
	for i := range instances {
		in := &instances[i]
		n := detailSlices.Pick(in.LOD)
		if r.shadows != quality.ShadowNone && ground != nil {
			r.drawShadow(in, ground, n, c)
		}
		if in.IsFlora {
			r.drawFlora(in, n, env, c)
			continue
		}
		r.drawCreature(in, n, env, c)
	}
}

func (r *WildlifeRenderer) drawFlora(in *systems.Instance, n int, env environment, c *counters) {
	base := vec3(in.Position)
	trunkH := float32(in.Height * 0.35)
	rl.DrawCylinder(base, float32(in.Size*0.15), float32(in.Size*0.2), trunkH, int32(n), rgba(env.shade(trunkColor, in.Position), 1))

	crown := base
	crown.Y += trunkH
	leaf := rgba(env.shade(leafColors[in.Flora], in.Position), 1)
	if in.Flora == components.FloraPine {
		rl.DrawCylinder(crown, 0, float32(in.Size), float32(in.Height)-trunkH, int32(n), leaf)
		c.add(2, 2*cylinderTriangles(n))
		return
	}
	crown.Y += float32(in.Size) * 0.6
	rl.DrawSphereEx(crown, float32(in.Size), int32(n), int32(n), leaf)
	c.add(2, cylinderTriangles(n)+sphereTriangles(n, n))
}

func (r *WildlifeRenderer) drawCreature(in *systems.Instance, n int, env environment, c *counters) {
	pos := vec3(in.Position)
	s := float32(in.Size)
	if in.Creature == components.KindBird {
		col := rgba(env.shade(birdColor, in.Position), 1)
		if in.LOD == culling.LODLow {
			rl.DrawPoint3D(pos, col)
			c.add(1, 0)
			return
		}
		// Two wings swept back from the body along the heading
		fx, fz := float32(math.Cos(in.Yaw)), float32(math.Sin(in.Yaw))
		nose := rl.NewVector3(pos.X+fx*s, pos.Y, pos.Z+fz*s)
		left := rl.NewVector3(pos.X-fx*s*0.5-fz*s*1.5, pos.Y, pos.Z-fz*s*0.5+fx*s*1.5)
		right := rl.NewVector3(pos.X-fx*s*0.5+fz*s*1.5, pos.Y, pos.Z-fz*s*0.5-fx*s*1.5)
		rl.DrawTriangle3D(nose, left, pos, col)
		rl.DrawTriangle3D(nose, pos, right, col)
		c.add(1, 2)
		return
	}
	body := pos
	body.Y += s * 0.5
	rl.DrawCube(body, s*1.6, s*0.8, s*0.8, rgba(env.shade(grazerColor, in.Position), 1))
	c.add(1, 12)
}

func (r *WildlifeRenderer) drawShadow(in *systems.Instance, ground func(x, z float64) float64, n int, c *counters) {
	radius := in.Size
	if in.IsFlora {
		radius = in.Size * 1.2
	}
	p := vec3(in.Position)
	p.Y = float32(ground(in.Position.X, in.Position.Z)) + 0.05
	if r.shadows == quality.ShadowBlob {
		rl.DrawCylinder(p, float32(radius), float32(radius), 0.02, int32(n), rgba(shadowColor, 0.35))
		c.add(1, cylinderTriangles(n))
		return
	}
	// Soft: stacked discs of falling opacity approximate a blurred edge
	for k := 0; k < 3; k++ {
		rr := float32(radius * (1 + 0.25*float64(k)))
		rl.DrawCylinder(p, rr, rr, 0.02, int32(n), rgba(shadowColor, 0.18))
	}
	c.add(3, 3*cylinderTriangles(n))
}
