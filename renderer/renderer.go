// Package renderer draws a scene.View with raylib. Every component follows the same
// lifecycle: Init after the window exists, Unload before it closes, and Reload (Unload then
// Init) when the GL context has been recreated.
package renderer

import (
	"fmt"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
	"github.com/pthm-cable/spirittrails/quality"
	"github.com/pthm-cable/spirittrails/scene"
)

// Renderer draws the scene into an offscreen target sized by the tier's pixel ratio cap
// and scales it to the window. Tiers with antialiasing draw straight into the window's
// multisampled backbuffer instead, when the window was created with MSAA and the tier does
// not scale the resolution down.
type Renderer struct {
	camCfg config.CameraConfig
	logger *slog.Logger

	width, height int32   // window size in screen pixels
	pixelRatio    float64 // device pixels per screen pixel
	scale         float64 // target pixels per screen pixel
	antialias     bool
	multisample   bool // window backbuffer has MSAA
	direct        bool // draw into the backbuffer, skipping the target

	view    scene.View
	hasView bool

	target  rl.RenderTexture2D
	targetW int32
	targetH int32

	sky       *SkyRenderer
	terrain   *TerrainRenderer
	trails    *TrailRenderer
	beacons   *BeaconRenderer
	particles *ParticleRenderer
	wildlife  *WildlifeRenderer

	ground func(x, z float64) float64
	stats  counters
	loaded bool
}

// New creates a renderer for a window of the given size.
func New(camCfg config.CameraConfig, width, height int32, pixelRatio float64) *Renderer {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return &Renderer{
		camCfg:     camCfg,
		logger:     slog.Default(),
		width:      width,
		height:     height,
		pixelRatio: pixelRatio,
		scale:      1,
		antialias:  true,
		sky:        NewSkyRenderer(),
		terrain:    NewTerrainRenderer(),
		trails:     NewTrailRenderer(),
		beacons:    NewBeaconRenderer(),
		particles:  NewParticleRenderer(),
		wildlife:   NewWildlifeRenderer(),
	}
}

// SetLogger replaces the renderer logger.
func (r *Renderer) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// SetGround sets the terrain height lookup used to place shadows.
func (r *Renderer) SetGround(fn func(x, z float64) float64) {
	r.ground = fn
}

// SetMultisample records whether the window was created with rl.FlagMsaa4xHint.
func (r *Renderer) SetMultisample(on bool) {
	r.multisample = on
	r.resizeTarget()
}

// useBackbuffer reports whether a frame should draw straight into the multisampled
// window backbuffer. The offscreen target has no MSAA, so it only serves tiers without
// antialiasing or with a reduced resolution.
func useBackbuffer(antialias, multisample bool, scale float64) bool {
	return antialias && multisample && scale >= 1
}

// Init creates GPU resources (must be called after the raylib window is created).
func (r *Renderer) Init() error {
	if r.loaded {
		return nil
	}
	if err := r.sky.Init(); err != nil {
		return fmt.Errorf("sky: %w", err)
	}
	if err := r.trails.Init(); err != nil {
		return fmt.Errorf("trails: %w", err)
	}
	if err := r.beacons.Init(); err != nil {
		return fmt.Errorf("beacons: %w", err)
	}
	r.loaded = true
	r.resizeTarget()
	return nil
}

// targetSize returns the offscreen target size for the current scale.
func (r *Renderer) targetSize() (int32, int32) {
	w := int32(math.Max(1, math.Round(float64(r.width)*r.scale)))
	h := int32(math.Max(1, math.Round(float64(r.height)*r.scale)))
	return w, h
}

func (r *Renderer) resizeTarget() {
	if !r.loaded {
		return
	}
	r.direct = useBackbuffer(r.antialias, r.multisample, r.scale)
	if r.direct {
		if r.target.ID != 0 {
			rl.UnloadRenderTexture(r.target)
			r.target = rl.RenderTexture2D{}
		}
		r.targetW, r.targetH = 0, 0
		r.sky.Resize(r.width, r.height)
		r.logger.Debug("drawing to multisampled backbuffer", "width", r.width, "height", r.height)
		return
	}
	w, h := r.targetSize()
	if w == r.targetW && h == r.targetH && r.target.ID != 0 {
		r.applyFilter()
		return
	}
	if r.target.ID != 0 {
		rl.UnloadRenderTexture(r.target)
	}
	r.target = rl.LoadRenderTexture(w, h)
	r.targetW, r.targetH = w, h
	r.sky.Resize(w, h)
	r.applyFilter()
	r.logger.Debug("render target resized", "width", w, "height", h, "scale", r.scale)
}

// applyFilter smooths the upscale of a reduced target when antialiasing is requested.
func (r *Renderer) applyFilter() {
	if r.antialias {
		rl.SetTextureFilter(r.target.Texture, rl.FilterBilinear)
	} else {
		rl.SetTextureFilter(r.target.Texture, rl.FilterPoint)
	}
}

// renderScale maps a tier's pixel ratio cap onto this display.
func renderScale(pixelRatio, cap float64) float64 {
	if cap <= 0 || pixelRatio <= 0 {
		return 1
	}
	return math.Min(cap, pixelRatio) / pixelRatio
}

// ApplyQuality implements quality.Applier.
func (r *Renderer) ApplyQuality(t quality.Tier, s quality.Settings) {
	r.scale = renderScale(r.pixelRatio, s.PixelRatioCap)
	r.antialias = s.Antialias
	r.wildlife.SetShadows(s.Shadows)
	r.beacons.SetRings(s.BeaconRings)
	r.resizeTarget()
	r.logger.Info("renderer quality applied", "tier", t.String(), "scale", r.scale, "shadows", s.Shadows.String(), "antialias", s.Antialias)
}

// Resize updates the window size.
func (r *Renderer) Resize(width, height int32) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.resizeTarget()
}

// Counters implements quality.StatsSource.
func (r *Renderer) Counters() (int, int) {
	return r.stats.drawCalls, r.stats.triangles
}

// ResetCounters implements quality.StatsSource.
func (r *Renderer) ResetCounters() {
	r.stats = counters{}
}

// Camera converts a view pose to a raylib camera.
func (r *Renderer) Camera(v scene.View) rl.Camera3D {
	return rl.NewCamera3D(vec3(v.Camera.Position), vec3(v.Camera.LookAt), rl.NewVector3(0, 1, 0), float32(r.camCfg.FovY), rl.CameraPerspective)
}

// Draw renders the view into the offscreen target. The caller presents it with Present
// between BeginDrawing and EndDrawing. On the backbuffer path the view is kept and drawn
// by Present.
func (r *Renderer) Draw(v scene.View) {
	if !r.loaded {
		return
	}
	if r.direct {
		r.view, r.hasView = v, true
		return
	}
	rl.BeginTextureMode(r.target)
	r.drawScene(v)
	rl.EndTextureMode()
}

func (r *Renderer) drawScene(v scene.View) {
	env := environment{
		eye:            v.Camera.Position,
		ambient:        v.Ambient,
		fog:            v.Fog,
		cameraDistance: geom.Distance(v.Camera.Position, v.Camera.LookAt),
		time:           float32(v.Time),
	}

	rl.ClearBackground(rgba(v.Fog.Color, 1))
	r.sky.Draw(env, &r.stats)

	rl.BeginMode3D(r.Camera(v))
	r.terrain.Draw(v.Terrain, env, &r.stats)
	r.wildlife.Draw(v.Wildlife, r.ground, env, &r.stats)
	r.trails.Draw(v.Trails, &r.stats)
	r.beacons.Draw(v.Trails, env, &r.stats)
	r.particles.Draw(v.Emitters, env, &r.stats)
	rl.EndMode3D()
}

// Present puts the frame on the window: the scaled offscreen target, or the scene drawn
// directly on the backbuffer path.
func (r *Renderer) Present() {
	if !r.loaded {
		return
	}
	if r.direct {
		if r.hasView {
			r.drawScene(r.view)
			r.hasView = false
		}
		return
	}
	src := rl.NewRectangle(0, 0, float32(r.targetW), -float32(r.targetH))
	dst := rl.NewRectangle(0, 0, float32(r.width), float32(r.height))
	rl.DrawTexturePro(r.target.Texture, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	r.stats.add(1, 2)
}

// Reload rebuilds every GPU resource after the context was lost.
func (r *Renderer) Reload() error {
	r.logger.Warn("rebuilding GPU resources")
	r.Unload()
	return r.Init()
}

// Unload frees every GPU resource.
func (r *Renderer) Unload() {
	if !r.loaded {
		return
	}
	r.sky.Unload()
	r.terrain.Unload()
	r.trails.Unload()
	r.beacons.Unload()
	if r.target.ID != 0 {
		rl.UnloadRenderTexture(r.target)
		r.target = rl.RenderTexture2D{}
	}
	r.targetW, r.targetH = 0, 0
	r.loaded = false
}
