// Package scene runs one frame of the spirit trails scene in a fixed order and is the
// single entry point for host inputs.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/spirittrails/camera"
	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/culling"
	"github.com/pthm-cable/spirittrails/proximity"
	"github.com/pthm-cable/spirittrails/quality"
	"github.com/pthm-cable/spirittrails/systems"
	"github.com/pthm-cable/spirittrails/telemetry"
	"github.com/pthm-cable/spirittrails/trails"
	"github.com/pthm-cable/spirittrails/transition"
)

var (
	// ErrDisposed is returned by calls made after Dispose.
	ErrDisposed = errors.New("scene: disposed")
	// ErrNotInitialized is returned by Frame before Init.
	ErrNotInitialized = errors.New("scene: not initialized")
)

// Options configures a scene beyond the loaded config.
type Options struct {
	Seed   int64
	Hints  quality.DeviceHints
	Aspect float64 // viewport width / height
	Logger *slog.Logger
}

// Scene owns every subsystem and advances them once per frame.
type Scene struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger
	rng    *rand.Rand

	cam         *camera.Controller
	transitions *transition.Manager
	graph       *proximity.Graph
	culler      *culling.Culler
	trails      *trails.Set
	wind        *systems.Wind
	particles   *systems.Simulator
	terrain     *systems.Terrain
	wildlife    *systems.Wildlife
	governor    *quality.Governor
	perf        *telemetry.PerfCollector

	settings quality.Settings
	stats    quality.StatsSource
	watcher  *config.Watcher

	now    time.Duration
	frames int
	aspect float64

	agents      []proximity.Agent
	events      []trails.Event
	connections []proximity.Connection
	trailFrame  *trails.Frame
	instances   []systems.Instance

	debug DebugSink

	onSectionComplete func(section string)
	onInteraction     func(trails.Interaction)

	initialized bool
	disposed    bool
}

// New creates a scene. Subsystems are built by Init.
func New(cfg *config.Config, opts Options) *Scene {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Aspect <= 0 {
		opts.Aspect = float64(cfg.Screen.Width) / float64(max(cfg.Screen.Height, 1))
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Scene{
		cfg:    cfg,
		opts:   opts,
		logger: opts.Logger,
		aspect: opts.Aspect,
		rng:    rand.New(rand.NewSource(opts.Seed)),
	}
}

// Init builds every subsystem, picks the starting tier and weather, and wires the
// governor to the components that follow the tier.
func (s *Scene) Init() error {
	if s.disposed {
		return ErrDisposed
	}
	if s.initialized {
		return nil
	}
	cfg := s.cfg

	tier := quality.InitialTier(s.opts.Hints)
	if cfg.Quality.InitialTier != "" {
		t, err := quality.ParseTier(cfg.Quality.InitialTier)
		if err != nil {
			return fmt.Errorf("initial tier: %w", err)
		}
		tier = t
	}
	table, err := quality.LoadSettings(cfg.Quality.Tiers)
	if err != nil {
		return fmt.Errorf("quality settings: %w", err)
	}
	weather, err := systems.ParseWeather(cfg.Weather.Type)
	if err != nil {
		return err
	}
	region, err := systems.ParseRegion(cfg.Weather.Region)
	if err != nil {
		return err
	}

	s.cam = camera.New(cfg.Camera, cfg.Derived.ResumeDelay, camera.PoseFromConfig(cfg.Camera.Initial))
	s.cam.SetLogger(s.logger)
	s.cam.OnModeChange(func(from, to camera.Mode) {
		s.logger.Debug("camera mode changed", "from", from.String(), "to", to.String())
	})

	s.transitions = transition.New(cfg.Transition, s.cam, s.rng)
	s.transitions.SetLogger(s.logger)
	s.transitions.OnComplete(func(section string) {
		if s.onSectionComplete != nil {
			s.onSectionComplete(section)
		}
	})

	s.graph = proximity.NewGraph(cfg.Proximity.MaxDistance, cfg.Proximity.MoveEpsilon)
	s.culler = culling.NewCuller(cfg.Culling, cfg.Camera)
	s.trails = trails.NewSet(cfg.Trails, cfg.Beacons, s.rng)

	particleSeed := cfg.Particles.Seed
	if particleSeed == 0 {
		particleSeed = s.rng.Int63()
	}
	s.wind = systems.NewWind(cfg.Particles.Wind, particleSeed)
	s.particles = systems.NewSimulator(cfg.Particles, s.wind, rand.New(rand.NewSource(particleSeed)))
	s.particles.SetWeather(weather, region)

	s.terrain = systems.NewTerrain(cfg.Terrain)
	s.wildlife = systems.NewWildlife(cfg.Wildlife, s.terrain, s.rng)

	s.perf = telemetry.NewPerfCollector(max(cfg.Screen.TargetFPS, 1))
	s.governor = quality.NewGovernor(cfg.Quality, table, cfg.Derived.SampleInterval, cfg.Derived.Debounce, tier)
	s.governor.SetLogger(s.logger)
	s.governor.AddApplier(s)

	s.initialized = true
	s.logger.Info("scene initialized",
		"tier", tier.String(),
		"section", s.transitions.Current(),
		"weather", string(weather),
		"region", string(region),
	)
	return nil
}

// ApplyQuality implements quality.Applier for the simulation side of a tier.
func (s *Scene) ApplyQuality(t quality.Tier, set quality.Settings) {
	s.settings = set
	s.particles.SetDensity(set.ParticleDensity)
	s.culler.SetLODScale(set.LODScale)
}

// AddApplier registers a further quality applier, typically the renderer.
func (s *Scene) AddApplier(a quality.Applier) {
	s.governor.AddApplier(a)
}

// SetStatsSource sets the GPU counter source sampled by the governor.
func (s *Scene) SetStatsSource(src quality.StatsSource) {
	s.stats = src
}

// SetWatcher sets a config watcher polled once per frame.
func (s *Scene) SetWatcher(w *config.Watcher) {
	s.watcher = w
}

// SetDebugSink sets the receiver of per-frame debug state. nil disables it.
func (s *Scene) SetDebugSink(d DebugSink) {
	s.debug = d
}

// SetAspect updates the viewport aspect ratio after a resize.
func (s *Scene) SetAspect(aspect float64) {
	if aspect > 0 {
		s.aspect = aspect
	}
}

// OnSectionTransitionComplete registers the section completion callback.
func (s *Scene) OnSectionTransitionComplete(fn func(section string)) {
	s.onSectionComplete = fn
}

// OnInteraction registers the beacon interaction callback.
func (s *Scene) OnInteraction(fn func(trails.Interaction)) {
	s.onInteraction = fn
}

// OnSample registers a callback for each governor sample.
func (s *Scene) OnSample(fn func(telemetry.Sample)) {
	s.governor.OnSample(fn)
}

// OnTierChange registers a callback for each applied tier change.
func (s *Scene) OnTierChange(fn func(telemetry.TierChange)) {
	s.governor.OnTierChange(fn)
}

// Frame advances the scene by dt seconds: governor sample, camera and transition,
// proximity graph, culler, wildlife, then trails and particles.
func (s *Scene) Frame(dt float64) error {
	if s.disposed {
		return ErrDisposed
	}
	if !s.initialized {
		return ErrNotInitialized
	}
	if dt < 0 {
		dt = 0
	}
	s.pollConfig()

	s.now += time.Duration(dt * float64(time.Second))
	s.frames++
	s.perf.StartFrame()

	s.perf.StartPhase(telemetry.PhaseGovernor)
	s.governor.Frame(s.now, s.stats)

	s.perf.StartPhase(telemetry.PhaseCamera)
	s.cam.Update(dt, s.now)
	s.transitions.Update(dt)

	s.perf.StartPhase(telemetry.PhaseGraph)
	conns, changed := s.graph.Update(s.agents)
	s.connections = conns
	if changed {
		s.logger.Debug("connections rebuilt", "agents", len(s.agents), "connections", len(conns), "skipped", s.graph.Skipped())
	}

	s.perf.StartPhase(telemetry.PhaseCulling)
	s.culler.Update(s.cam.Pose(), s.aspect)

	s.perf.StartPhase(telemetry.PhaseWildlife)
	s.wildlife.Update(dt)
	s.instances = s.wildlife.Cull(s.culler)

	s.perf.StartPhase(telemetry.PhaseTrails)
	s.trailFrame = s.trails.Update(dt, s.connections, s.events, s.culler, trails.Detail{
		Segments:      s.settings.TrailSegments,
		FlowParticles: s.settings.FlowParticles,
	})

	s.perf.StartPhase(telemetry.PhaseParticles)
	s.particles.Update(dt)

	s.perf.EndFrame()

	if s.debug != nil {
		s.debug.Debug(s.debugInfo())
	}
	return nil
}

// pollConfig applies a reloaded config's runtime tunables.
func (s *Scene) pollConfig() {
	cfg, ok := s.watcher.Reloaded()
	if !ok {
		return
	}
	s.Reload(cfg)
}

// Reload applies the tunables of cfg that can change while running: culling thresholds,
// trail and beacon look, proximity distance, wind, and governor-independent particle
// intensity. Structural settings such as sections and populations need a restart.
func (s *Scene) Reload(cfg *config.Config) {
	s.culler.SetConfig(cfg.Culling)
	s.culler.SetLODScale(s.settings.LODScale)
	s.trails.SetConfig(cfg.Trails, cfg.Beacons)
	s.graph.SetMaxDistance(cfg.Proximity.MaxDistance)
	s.wind.SetConfig(cfg.Particles.Wind)
	s.particles.SetIntensity(cfg.Particles.Intensity)

	s.cfg.Culling = cfg.Culling
	s.cfg.Trails = cfg.Trails
	s.cfg.Beacons = cfg.Beacons
	s.cfg.Proximity.MaxDistance = cfg.Proximity.MaxDistance
	s.cfg.Particles.Wind = cfg.Particles.Wind
	s.cfg.Particles.Intensity = cfg.Particles.Intensity
	s.logger.Info("config reloaded")
}

// Dispose stops the scene and clears every timer. Further calls return ErrDisposed.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if !s.initialized {
		return
	}
	s.transitions.Cancel()
	s.cam.Stop()
	s.governor.Reset()
	s.trails.ClearHover()
	s.agents = nil
	s.events = nil
	s.connections = nil
	s.onSectionComplete = nil
	s.onInteraction = nil
	s.debug = nil
	s.logger.Info("scene disposed", "frames", s.frames)
}

// Now returns the scene clock.
func (s *Scene) Now() time.Duration {
	return s.now
}

// Camera returns the camera controller.
func (s *Scene) Camera() *camera.Controller {
	return s.cam
}

// Governor returns the quality governor.
func (s *Scene) Governor() *quality.Governor {
	return s.governor
}

// Perf returns the frame phase timer.
func (s *Scene) Perf() *telemetry.PerfCollector {
	return s.perf
}

// Terrain returns the heightfield.
func (s *Scene) Terrain() *systems.Terrain {
	return s.terrain
}

// Connections returns the connections of the last frame.
func (s *Scene) Connections() []proximity.Connection {
	return s.connections
}
