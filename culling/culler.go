// Package culling decides what is worth drawing: frustum tests against the current camera
// and distance-based level of detail.
package culling

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/camera"
	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
)

// LOD is a level of detail.
type LOD uint8

const (
	LODHigh LOD = iota
	LODMedium
	LODLow
)

func (l LOD) String() string {
	switch l {
	case LODHigh:
		return "high"
	case LODMedium:
		return "medium"
	case LODLow:
		return "low"
	}
	return "unknown"
}

// Thresholds are the LOD switch distances.
type Thresholds struct {
	Near float64
	Far  float64
}

// SelectLOD picks a level for an object at distance d from the camera.
func SelectLOD(d float64, t Thresholds) LOD {
	switch {
	case d < t.Near:
		return LODHigh
	case d > t.Far:
		return LODLow
	default:
		return LODMedium
	}
}

// LODGroup holds one precomputed representation per level.
type LODGroup[T any] struct {
	High, Medium, Low T
}

// Pick returns the representation for level l.
func (g *LODGroup[T]) Pick(l LOD) T {
	switch l {
	case LODHigh:
		return g.High
	case LODMedium:
		return g.Medium
	default:
		return g.Low
	}
}

// Stats counts culling queries since the last Update.
type Stats struct {
	Tested int
	Culled int
}

// Culler holds the frustum for the current frame. Update must run once per frame after
// the camera moves and before anything queries visibility.
type Culler struct {
	cfg    config.CullingConfig
	camCfg config.CameraConfig

	view, proj Mat4
	frustum    Frustum
	eye        r3.Vec
	lodScale   float64
	stats      Stats
}

// NewCuller creates a culler from culling and camera projection config.
func NewCuller(cfg config.CullingConfig, camCfg config.CameraConfig) *Culler {
	return &Culler{cfg: cfg, camCfg: camCfg, lodScale: 1}
}

// SetConfig replaces the culling thresholds, e.g. after a config reload.
func (c *Culler) SetConfig(cfg config.CullingConfig) {
	c.cfg = cfg
}

// SetLODScale scales the LOD distances. Lower tiers use a smaller scale so detail drops
// closer to the camera.
func (c *Culler) SetLODScale(s float64) {
	if s > 0 {
		c.lodScale = s
	}
}

// Update rebuilds the frustum for the camera pose and viewport aspect ratio and resets the
// per-frame counters.
func (c *Culler) Update(p camera.Pose, aspect float64) {
	if aspect <= 0 {
		aspect = 1
	}
	c.eye = p.Position
	c.view = LookAt(p.Position, p.LookAt, geom.Up)
	c.proj = Perspective(c.camCfg.FovY*math.Pi/180, aspect, c.camCfg.Near, c.camCfg.Far)
	c.frustum = FrustumFromMatrix(Mul(c.proj, c.view))
	c.stats = Stats{}
}

// Frustum returns the current frustum.
func (c *Culler) Frustum() *Frustum {
	return &c.frustum
}

// ViewProjection returns proj*view for the current frame.
func (c *Culler) ViewProjection() Mat4 {
	return Mul(c.proj, c.view)
}

// Stats returns the counters since the last Update.
func (c *Culler) Stats() Stats {
	return c.stats
}

// PointVisible tests a point, padded by the configured margin.
func (c *Culler) PointVisible(p r3.Vec) bool {
	return c.count(c.frustum.IntersectsSphere(p, c.cfg.Margin))
}

// SphereVisible tests a bounding sphere.
func (c *Culler) SphereVisible(center r3.Vec, radius float64) bool {
	return c.count(c.frustum.IntersectsSphere(center, radius))
}

// BoxVisible tests an axis-aligned box.
func (c *Culler) BoxVisible(b geom.Box) bool {
	return c.count(c.frustum.IntersectsBox(b))
}

// Thresholds returns the LOD distances in effect, scaled for the active tier.
func (c *Culler) Thresholds() Thresholds {
	return Thresholds{Near: c.cfg.LODNear * c.lodScale, Far: c.cfg.LODFar * c.lodScale}
}

// LOD selects the level of detail for an object at p.
func (c *Culler) LOD(p r3.Vec) LOD {
	return SelectLOD(geom.Distance(c.eye, p), c.Thresholds())
}

func (c *Culler) count(visible bool) bool {
	c.stats.Tested++
	if !visible {
		c.stats.Culled++
	}
	return visible
}
