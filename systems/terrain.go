package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
)

// Terrain is a noise heightfield centred on the origin.
type Terrain struct {
	cfg   config.TerrainConfig
	noise *Noise
	half  float64
	grids map[int]*HeightGrid
}

// NewTerrain creates terrain from config. Heights are evaluated lazily.
func NewTerrain(cfg config.TerrainConfig) *Terrain {
	return &Terrain{
		cfg:   cfg,
		noise: NewNoise(cfg.Seed),
		half:  cfg.Size / 2,
		grids: make(map[int]*HeightGrid),
	}
}

// Size returns the side length in world units.
func (t *Terrain) Size() float64 {
	return t.cfg.Size
}

// Bounds returns the horizontal extent with the full height range.
func (t *Terrain) Bounds() geom.Box {
	return geom.NewBox(
		r3.Vec{X: -t.half, Y: 0, Z: -t.half},
		r3.Vec{X: t.half, Y: t.cfg.Height, Z: t.half},
	)
}

// Contains reports whether (x, z) lies over the terrain.
func (t *Terrain) Contains(x, z float64) bool {
	return math.Abs(x) <= t.half && math.Abs(z) <= t.half
}

// HeightAt returns the ground height at (x, z). Positions off the edge are clamped to it.
func (t *Terrain) HeightAt(x, z float64) float64 {
	x = geom.Clamp(x, -t.half, t.half)
	z = geom.Clamp(z, -t.half, t.half)
	h := t.noise.Octaves(x, z, t.cfg.Octaves, t.cfg.Scale, t.cfg.Persistence)
	// Flatten the valleys so the plain reads as ground rather than rolling noise
	h = geom.SmoothStep(0.3, 1, h)
	return h * t.cfg.Height
}

// Normal returns the surface normal at (x, z) by central differences.
func (t *Terrain) Normal(x, z float64) r3.Vec {
	const e = 0.5
	dx := t.HeightAt(x+e, z) - t.HeightAt(x-e, z)
	dz := t.HeightAt(x, z+e) - t.HeightAt(x, z-e)
	return r3.Unit(r3.Vec{X: -dx, Y: 2 * e, Z: -dz})
}

// HeightGrid is a sampled heightfield of (Res+1)² vertices, row-major by z.
type HeightGrid struct {
	Res     int
	Step    float64
	Origin  float64 // world x and z of vertex 0
	Heights []float64
}

// At returns the height of vertex (i, j).
func (g *HeightGrid) At(i, j int) float64 {
	return g.Heights[j*(g.Res+1)+i]
}

// Vertex returns the world position of vertex (i, j).
func (g *HeightGrid) Vertex(i, j int) r3.Vec {
	return r3.Vec{
		X: g.Origin + float64(i)*g.Step,
		Y: g.At(i, j),
		Z: g.Origin + float64(j)*g.Step,
	}
}

// Grid returns the heightfield sampled at res cells per side. Grids are cached per
// resolution, so tier changes only pay for a resolution once.
func (t *Terrain) Grid(res int) *HeightGrid {
	if res < 1 {
		res = 1
	}
	if g, ok := t.grids[res]; ok {
		return g
	}
	g := &HeightGrid{
		Res:     res,
		Step:    t.cfg.Size / float64(res),
		Origin:  -t.half,
		Heights: make([]float64, (res+1)*(res+1)),
	}
	for j := 0; j <= res; j++ {
		for i := 0; i <= res; i++ {
			x := g.Origin + float64(i)*g.Step
			z := g.Origin + float64(j)*g.Step
			g.Heights[j*(res+1)+i] = t.HeightAt(x, z)
		}
	}
	t.grids[res] = g
	return g
}
