// Package game hosts the scene: it feeds it agents, events and weather, routes window
// input to it, and drives the renderer and debug overlay. In headless mode no raylib call
// is made.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/camera"
	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/feed"
	"github.com/pthm-cable/spirittrails/quality"
	"github.com/pthm-cable/spirittrails/renderer"
	"github.com/pthm-cable/spirittrails/scene"
	"github.com/pthm-cable/spirittrails/telemetry"
	"github.com/pthm-cable/spirittrails/ui"
)

// HeadlessDT is the fixed frame step used without a window.
const HeadlessDT = 1.0 / 60.0

// Options configures a game instance.
type Options struct {
	Seed      int64
	Headless  bool
	OutputDir string
	Hints     quality.DeviceHints
	Watcher   *config.Watcher
	Logger    *slog.Logger
	LogStats  bool

	// Multisample is set when the window was opened with an MSAA backbuffer.
	Multisample bool
}

// Game holds the host state around one scene.
type Game struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger

	scene    *scene.Scene
	feed     *feed.Feed
	renderer *renderer.Renderer
	overlay  *ui.DebugOverlay
	orbit    *camera.OrbitControls
	output   *telemetry.OutputManager

	frame         int
	dragging      bool
	dragStart     rl.Vector2
	weatherTimer  float64
	width, height int32

	interactions int
}

// NewGameWithOptions builds the scene and, unless headless, the renderer. The window must
// already be open in graphical mode.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	g := &Game{
		cfg:    cfg,
		opts:   opts,
		logger: opts.Logger,
		width:  int32(cfg.Screen.Width),
		height: int32(cfg.Screen.Height),
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		g.logger.Error("failed to write config snapshot", "error", err)
	}

	g.scene = scene.New(cfg, scene.Options{
		Seed:   opts.Seed,
		Hints:  opts.Hints,
		Aspect: float64(g.width) / float64(max(g.height, 1)),
		Logger: g.logger,
	})
	if err := g.scene.Init(); err != nil {
		g.output.Close()
		return nil, fmt.Errorf("scene init: %w", err)
	}
	g.scene.SetWatcher(opts.Watcher)
	g.setupTelemetry()

	g.feed = feed.New(cfg.Feed, rand.New(rand.NewSource(opts.Seed+1)), g.scene.Terrain().HeightAt)

	if !opts.Headless {
		pixelRatio := opts.Hints.PixelRatio
		if pixelRatio <= 0 {
			pixelRatio = 1
		}
		g.renderer = renderer.New(cfg.Camera, g.width, g.height, pixelRatio)
		g.renderer.SetLogger(g.logger)
		g.renderer.SetGround(g.scene.Terrain().HeightAt)
		g.renderer.SetMultisample(opts.Multisample)
		if err := g.renderer.Init(); err != nil {
			g.scene.Dispose()
			g.output.Close()
			return nil, fmt.Errorf("renderer init: %w", err)
		}
		g.scene.SetStatsSource(g.renderer)
		g.scene.AddApplier(g.renderer)

		g.overlay = ui.NewDebugOverlay(float32(cfg.Quality.TargetFPS*1.5), float32(cfg.Quality.TargetFPS*cfg.Quality.DropRatio))
		g.scene.SetDebugSink(g.overlay)
		g.orbit = camera.NewOrbitControls(cfg.Camera)
	}
	return g, nil
}

// Scene returns the hosted scene.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Frame returns the number of frames run.
func (g *Game) Frame() int {
	return g.frame
}

// Interactions returns the number of beacon interactions received.
func (g *Game) Interactions() int {
	return g.interactions
}

// step advances the feed and the scene by dt seconds.
func (g *Game) step(dt float64) error {
	g.feed.Update(dt)
	if err := g.scene.SetAgents(g.feed.Agents()); err != nil {
		return err
	}
	if err := g.scene.SetEvents(g.feed.Events()); err != nil {
		return err
	}

	if period := g.cfg.Feed.WeatherPeriod; period > 0 {
		g.weatherTimer += dt
		if g.weatherTimer >= period {
			g.weatherTimer -= period
			g.cycleWeather()
		}
	}

	if err := g.scene.Frame(dt); err != nil {
		return err
	}
	g.frame++
	return nil
}

// cycleWeather moves to the next weather in the feed schedule.
func (g *Game) cycleWeather() {
	w := g.feed.NextWeather()
	if err := g.scene.SetWeather(w.Type, w.Region); err != nil {
		g.logger.Error("weather change failed", "error", err)
	}
}

// UpdateHeadless runs one fixed-step frame without any window.
func (g *Game) UpdateHeadless() error {
	return g.step(HeadlessDT)
}

// Update processes input and runs one frame with the measured frame time.
func (g *Game) Update() error {
	g.handleInput()
	dt := float64(rl.GetFrameTime())
	if g.orbit != nil && !g.dragging {
		if g.scene.Camera().Mode() != camera.ModeUserControlled {
			g.orbit.Stop()
		} else if g.orbit.Update(dt) {
			g.scene.SyncCamera(g.orbit.Pose())
		}
	}
	return g.step(dt)
}

// Draw renders the scene and overlay to the window.
func (g *Game) Draw() {
	if g.renderer == nil {
		return
	}
	g.renderer.Draw(g.scene.View())

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.renderer.Present()
	g.overlay.Draw(g.width, g.scene.Controls())
	if !g.overlay.IsVisible() {
		rl.DrawText("F1 debug  W weather  1-9 presets  TAB section", 10, g.height-20, 12, rl.Fade(rl.RayWhite, 0.6))
	}
	rl.EndDrawing()
}

// Unload releases the scene, renderer and output files.
func (g *Game) Unload() {
	g.scene.Dispose()
	if g.renderer != nil {
		g.renderer.Unload()
	}
	if err := g.output.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
	g.logger.Info("game unloaded", "frames", g.frame, "interactions", g.interactions)
}
