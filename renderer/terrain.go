package renderer

import (
	"image"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/geom"
	"github.com/pthm-cable/spirittrails/systems"
)

var groundColor = geom.RGB{R: 0.36, G: 0.48, B: 0.3}

// TerrainRenderer draws the heightfield as a mesh built from the scene's height grid. The
// mesh is rebuilt only when the grid changes, which happens on tier changes.
type TerrainRenderer struct {
	grid      *systems.HeightGrid
	model     rl.Model
	triangles int
	loaded    bool
}

// NewTerrainRenderer creates a terrain renderer.
func NewTerrainRenderer() *TerrainRenderer {
	return &TerrainRenderer{}
}

// heightImage encodes grid heights as grey levels scaled to peak.
func heightImage(g *systems.HeightGrid) (*image.Gray, float64) {
	peak := 0.0
	for _, h := range g.Heights {
		peak = math.Max(peak, h)
	}
	n := g.Res + 1
	img := image.NewGray(image.Rect(0, 0, n, n))
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v := 0.0
			if peak > 0 {
				v = g.At(i, j) / peak
			}
			img.SetGray(i, j, color.Gray{Y: uint8(math.Round(v * 255))})
		}
	}
	return img, peak
}

func (r *TerrainRenderer) build(g *systems.HeightGrid) {
	r.Unload()
	img, peak := heightImage(g)
	hm := rl.NewImageFromImage(img)
	side := float32(float64(g.Res) * g.Step)
	mesh := rl.GenMeshHeightmap(*hm, rl.NewVector3(side, float32(peak), side))
	rl.UnloadImage(hm)

	r.model = rl.LoadModelFromMesh(mesh)
	r.grid = g
	r.triangles = 2 * g.Res * g.Res
	r.loaded = true
}

// Draw renders the terrain tinted by ambient light and fog.
func (r *TerrainRenderer) Draw(g *systems.HeightGrid, env environment, c *counters) {
	if g == nil {
		return
	}
	if !r.loaded || r.grid != g {
		r.build(g)
	}
	tint := fogged(groundColor.Mul(env.ambient), env.fog.Color, env.fogAt(env.cameraDistance))
	origin := rl.NewVector3(float32(g.Origin), 0, float32(g.Origin))
	rl.DrawModel(r.model, origin, 1, rgba(tint, 1))
	c.add(1, r.triangles)
}

// Unload frees the mesh.
func (r *TerrainRenderer) Unload() {
	if !r.loaded {
		return
	}
	rl.UnloadModel(r.model)
	r.grid = nil
	r.loaded = false
}
