package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/spirittrails/config"
)

func TestTerrainHeightsInRange(t *testing.T) {
	cfg := config.Defaults().Terrain
	ter := NewTerrain(cfg)
	lo, hi := math.Inf(1), math.Inf(-1)
	for x := -cfg.Size / 2; x <= cfg.Size/2; x += 7 {
		for z := -cfg.Size / 2; z <= cfg.Size/2; z += 7 {
			h := ter.HeightAt(x, z)
			if h < 0 || h > cfg.Height {
				t.Fatalf("height %f at (%f,%f) outside [0,%f]", h, x, z, cfg.Height)
			}
			lo, hi = math.Min(lo, h), math.Max(hi, h)
		}
	}
	if hi-lo < 0.5 {
		t.Errorf("expected varied terrain, got range %f", hi-lo)
	}
}

func TestTerrainDeterministic(t *testing.T) {
	cfg := config.Defaults().Terrain
	a, b := NewTerrain(cfg), NewTerrain(cfg)
	if a.HeightAt(12.5, -40) != b.HeightAt(12.5, -40) {
		t.Error("expected same seed to give same heights")
	}
	// Off the edge clamps to the edge height
	if a.HeightAt(1e6, 0) != a.HeightAt(cfg.Size/2, 0) {
		t.Error("expected heights beyond the edge to clamp")
	}
}

func TestTerrainGrid(t *testing.T) {
	cfg := config.Defaults().Terrain
	ter := NewTerrain(cfg)
	g := ter.Grid(16)
	if len(g.Heights) != 17*17 {
		t.Fatalf("expected 289 vertices, got %d", len(g.Heights))
	}
	v := g.Vertex(16, 16)
	if math.Abs(v.X-cfg.Size/2) > 1e-9 || math.Abs(v.Z-cfg.Size/2) > 1e-9 {
		t.Errorf("expected last vertex at far corner, got %v", v)
	}
	mid := g.Vertex(8, 3)
	if mid.Y != ter.HeightAt(mid.X, mid.Z) {
		t.Errorf("expected grid height to match HeightAt, got %f vs %f", mid.Y, ter.HeightAt(mid.X, mid.Z))
	}
	if ter.Grid(16) != g {
		t.Error("expected grid cached per resolution")
	}
}

func TestTerrainNormalPointsUp(t *testing.T) {
	ter := NewTerrain(config.Defaults().Terrain)
	n := ter.Normal(10, 10)
	if n.Y <= 0 {
		t.Errorf("expected upward normal, got %v", n)
	}
	if math.Abs(math.Sqrt(n.X*n.X+n.Y*n.Y+n.Z*n.Z)-1) > 1e-9 {
		t.Errorf("expected unit normal, got %v", n)
	}
}
