// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/spirittrails/geom"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Device     DeviceConfig     `yaml:"device"`
	Camera     CameraConfig     `yaml:"camera"`
	Transition TransitionConfig `yaml:"transition"`
	Proximity  ProximityConfig  `yaml:"proximity"`
	Trails     TrailsConfig     `yaml:"trails"`
	Beacons    BeaconsConfig    `yaml:"beacons"`
	Particles  ParticlesConfig  `yaml:"particles"`
	Quality    QualityConfig    `yaml:"quality"`
	Culling    CullingConfig    `yaml:"culling"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Wildlife   WildlifeConfig   `yaml:"wildlife"`
	Weather    WeatherConfig    `yaml:"weather"`
	Feed       FeedConfig       `yaml:"feed"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// DeviceConfig holds capability hints used only to seed the initial quality tier.
// Zero values mean "detect at runtime".
type DeviceConfig struct {
	PixelRatio float64 `yaml:"pixel_ratio"`
	Cores      int     `yaml:"cores"`
}

// PoseConfig is a camera position and look-at point.
type PoseConfig struct {
	Position r3.Vec `yaml:"position"`
	LookAt   r3.Vec `yaml:"look_at"`
}

// PresetConfig is a named camera pose reachable by a preset jump.
type PresetConfig struct {
	Name       string `yaml:"name"`
	PoseConfig `yaml:",inline"`
}

// CameraConfig holds camera controller parameters.
type CameraConfig struct {
	FovY            float64        `yaml:"fov_y"`            // Vertical field of view in degrees
	Near            float64        `yaml:"near"`             // Near clip plane
	Far             float64        `yaml:"far"`              // Far clip plane
	ResumeDelay     float64        `yaml:"resume_delay"`     // Seconds after pointer-up before automation resumes
	LerpRate        float64        `yaml:"lerp_rate"`        // Exponential approach rate per second
	ArriveEpsilon   float64        `yaml:"arrive_epsilon"`   // Distance at which a transition counts as arrived
	ExternalEpsilon float64        `yaml:"external_epsilon"` // Pose delta that counts as an external move
	IdleSway        float64        `yaml:"idle_sway"`        // Amplitude of the automated look-at sway (0 = off)
	IdleSwayPeriod  float64        `yaml:"idle_sway_period"` // Seconds per sway cycle
	OrbitSpeed      float64        `yaml:"orbit_speed"`      // Radians per pixel of pointer drag
	ZoomSpeed       float64        `yaml:"zoom_speed"`       // Radius fraction per wheel step
	MinRadius       float64        `yaml:"min_radius"`
	MaxRadius       float64        `yaml:"max_radius"`
	Initial         PoseConfig     `yaml:"initial"`
	Presets         []PresetConfig `yaml:"presets"`
}

// FogConfig is an exponential-squared fog descriptor.
type FogConfig struct {
	Color   geom.RGB `yaml:"color"`
	Density float64  `yaml:"density"`
}

// SectionConfig maps a logical section to its environment.
type SectionConfig struct {
	Name       string     `yaml:"name"`
	PoseConfig `yaml:",inline"`
	Ambient    geom.RGB   `yaml:"ambient"`
	Fog        *FogConfig `yaml:"fog"` // nil = no fog
}

// TransitionConfig holds section transition parameters.
type TransitionConfig struct {
	Duration        float64         `yaml:"duration"`         // Seconds per transition
	JitterAmplitude float64         `yaml:"jitter_amplitude"` // World units of shake at progress 0
	JitterCutoff    float64         `yaml:"jitter_cutoff"`    // Progress after which jitter stops
	InitialSection  string          `yaml:"initial_section"`
	Sections        []SectionConfig `yaml:"sections"`
}

// ProximityConfig holds connection graph parameters.
type ProximityConfig struct {
	MaxDistance float64 `yaml:"max_distance"`
	MoveEpsilon float64 `yaml:"move_epsilon"` // Movement below this does not trigger a rebuild
}

// TrailsConfig holds spirit trail rendering parameters.
type TrailsConfig struct {
	ArcHeight       float64  `yaml:"arc_height"`        // Control point lift as a fraction of distance
	FadeDistance    float64  `yaml:"fade_distance"`     // Distance along the trail where alpha reaches zero
	PulseSpeed      float64  `yaml:"pulse_speed"`       // Radians per second of the alpha pulse
	PulseDepth      float64  `yaml:"pulse_depth"`       // 0 = steady, 1 = full on/off
	Opacity         float64  `yaml:"opacity"`
	Color           geom.RGB `yaml:"color"`
	FlowDriftRadius float64  `yaml:"flow_drift_radius"` // Flow particles beyond this from the path are recycled
	FlowSpeed       float64  `yaml:"flow_speed"`        // Path fraction per second
	FlowJitter      float64  `yaml:"flow_jitter"`       // Random lateral drift speed
}

// PulseConfig is a beacon pulse speed and intensity.
type PulseConfig struct {
	Speed     float64 `yaml:"speed"`
	Intensity float64 `yaml:"intensity"`
}

// BeaconsConfig holds event beacon parameters.
type BeaconsConfig struct {
	Radius       float64                 `yaml:"radius"`
	Height       float64                 `yaml:"height"` // Lift above the event position
	FresnelPower float64                 `yaml:"fresnel_power"`
	HoverBoost   float64                 `yaml:"hover_boost"`
	Pulse        map[string]PulseConfig  `yaml:"pulse"`  // keyed by priority
	Colors       map[string]geom.RGB     `yaml:"colors"` // keyed by category
}

// WindConfig holds wind parameters shared by all emitters.
type WindConfig struct {
	Direction r3.Vec  `yaml:"direction"`
	Strength  float64 `yaml:"strength"`
	GustScale float64 `yaml:"gust_scale"` // Fraction of strength modulated by noise
	GustSpeed float64 `yaml:"gust_speed"` // Noise frequency in cycles per second
}

// ParticlesConfig holds particle simulator parameters.
type ParticlesConfig struct {
	BoundsMin r3.Vec         `yaml:"bounds_min"`
	BoundsMax r3.Vec         `yaml:"bounds_max"`
	Intensity float64        `yaml:"intensity"`
	Wind      WindConfig     `yaml:"wind"`
	Counts    map[string]int `yaml:"counts"` // per emitter type override
	Seed      int64          `yaml:"seed"`   // 0 = time-based
}

// TierConfig holds the renderer configuration for one quality tier.
type TierConfig struct {
	PixelRatioCap     float64 `yaml:"pixel_ratio_cap"`
	Shadows           string  `yaml:"shadows"` // none, blob, soft
	Antialias         bool    `yaml:"antialias"`
	ParticleDensity   float64 `yaml:"particle_density"`
	TrailSegments     int     `yaml:"trail_segments"`
	FlowParticles     int     `yaml:"flow_particles"`
	LODScale          float64 `yaml:"lod_scale"`
	TerrainResolution int     `yaml:"terrain_resolution"`
	BeaconRings       int     `yaml:"beacon_rings"`
}

// QualityConfig holds performance governor parameters.
type QualityConfig struct {
	TargetFPS      float64               `yaml:"target_fps"`
	DropRatio      float64               `yaml:"drop_ratio"`
	RaiseRatio     float64               `yaml:"raise_ratio"`
	Debounce       float64               `yaml:"debounce"`        // Seconds a decision must persist
	SampleInterval float64               `yaml:"sample_interval"` // Seconds between samples
	HistorySize    int                   `yaml:"history_size"`
	Adaptive       bool                  `yaml:"adaptive"`
	InitialTier    string                `yaml:"initial_tier"` // empty = from device hints
	Tiers          map[string]TierConfig `yaml:"tiers"`
}

// CullingConfig holds frustum and LOD parameters.
type CullingConfig struct {
	LODNear float64 `yaml:"lod_near"` // Below this distance: high detail
	LODFar  float64 `yaml:"lod_far"`  // Above this distance: low detail
	Margin  float64 `yaml:"margin"`   // Radius added to point tests
}

// TerrainConfig holds heightfield generation parameters.
type TerrainConfig struct {
	Size        float64 `yaml:"size"`        // World units per side
	Height      float64 `yaml:"height"`      // Peak height
	Scale       float64 `yaml:"scale"`       // Base noise frequency
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Seed        int64   `yaml:"seed"`
}

// WildlifeConfig holds wildlife and flora population parameters.
type WildlifeConfig struct {
	Birds        int     `yaml:"birds"`
	Grazers      int     `yaml:"grazers"`
	Trees        int     `yaml:"trees"`
	WanderRadius float64 `yaml:"wander_radius"`
	BirdSpeed    float64 `yaml:"bird_speed"`
	GrazerSpeed  float64 `yaml:"grazer_speed"`
	BirdAltitude float64 `yaml:"bird_altitude"`
}

// WeatherConfig holds the initial weather.
type WeatherConfig struct {
	Type   string `yaml:"type"`
	Region string `yaml:"region"`
}

// FeedConfig holds the synthetic host feed parameters.
type FeedConfig struct {
	Agents        int     `yaml:"agents"`
	Events        int     `yaml:"events"`
	Spread        float64 `yaml:"spread"`
	Speed         float64 `yaml:"speed"`
	ActiveChance  float64 `yaml:"active_chance"`
	WeatherPeriod float64 `yaml:"weather_period"` // Seconds, 0 = manual only
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogSamples bool `yaml:"log_samples"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ResumeDelay    time.Duration
	TransitionTime time.Duration
	Debounce       time.Duration
	SampleInterval time.Duration
	SectionIndex   map[string]int // name -> index into Transition.Sections
	PresetIndex    map[string]int // name -> index into Camera.Presets
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the scene cannot run with.
func (c *Config) validate() error {
	if c.Quality.TargetFPS <= 0 {
		return fmt.Errorf("quality.target_fps must be positive, got %v", c.Quality.TargetFPS)
	}
	if c.Quality.DropRatio >= c.Quality.RaiseRatio {
		return fmt.Errorf("quality.drop_ratio (%v) must be below raise_ratio (%v)", c.Quality.DropRatio, c.Quality.RaiseRatio)
	}
	for _, name := range []string{"low", "medium", "high"} {
		if _, ok := c.Quality.Tiers[name]; !ok {
			return fmt.Errorf("quality.tiers.%s missing", name)
		}
	}
	if c.Culling.LODNear > c.Culling.LODFar {
		return fmt.Errorf("culling.lod_near (%v) must not exceed lod_far (%v)", c.Culling.LODNear, c.Culling.LODFar)
	}
	if c.Transition.Duration <= 0 {
		return fmt.Errorf("transition.duration must be positive, got %v", c.Transition.Duration)
	}
	seen := make(map[string]bool, len(c.Transition.Sections))
	for _, s := range c.Transition.Sections {
		if s.Name == "" {
			return fmt.Errorf("transition.sections: section without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("transition.sections: duplicate section %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ResumeDelay = seconds(c.Camera.ResumeDelay)
	c.Derived.TransitionTime = seconds(c.Transition.Duration)
	c.Derived.Debounce = seconds(c.Quality.Debounce)
	c.Derived.SampleInterval = seconds(c.Quality.SampleInterval)

	if c.Quality.HistorySize < 1 {
		c.Quality.HistorySize = 10
	}

	c.Derived.SectionIndex = make(map[string]int, len(c.Transition.Sections))
	for i, s := range c.Transition.Sections {
		c.Derived.SectionIndex[s.Name] = i
	}
	c.Derived.PresetIndex = make(map[string]int, len(c.Camera.Presets))
	for i, p := range c.Camera.Presets {
		c.Derived.PresetIndex[p.Name] = i
	}
}

// Section returns the named section config.
func (c *Config) Section(name string) (SectionConfig, bool) {
	i, ok := c.Derived.SectionIndex[name]
	if !ok {
		return SectionConfig{}, false
	}
	return c.Transition.Sections[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
