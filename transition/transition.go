// Package transition moves the scene between logical sections: an eased camera flight with
// a decaying shake, plus ambient light and fog blending.
package transition

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/camera"
	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
)

// ErrUnknownSection is returned by Begin for a section name that is not configured.
var ErrUnknownSection = errors.New("transition: unknown section")

// Fog is an exponential-squared fog state. Density 0 means no fog.
type Fog struct {
	Color   geom.RGB
	Density float64
}

// Factor returns the fog blend factor at distance d: 1 - exp(-(density*d)^2).
func (f Fog) Factor(d float64) float64 {
	if f.Density <= 0 {
		return 0
	}
	x := f.Density * d
	return 1 - math.Exp(-x*x)
}

// Apply blends c toward the fog colour for a surface at distance d.
func (f Fog) Apply(c geom.RGB, d float64) geom.RGB {
	return geom.LerpRGB(c, f.Color, f.Factor(d))
}

// Section is a resolved section environment.
type Section struct {
	Name    string
	Pose    camera.Pose
	Ambient geom.RGB
	Fog     Fog
}

func sectionFromConfig(s config.SectionConfig) Section {
	sec := Section{
		Name:    s.Name,
		Pose:    camera.PoseFromConfig(s.PoseConfig),
		Ambient: s.Ambient,
	}
	if s.Fog != nil {
		sec.Fog = Fog{Color: s.Fog.Color, Density: s.Fog.Density}
	}
	return sec
}

// Manager runs section transitions. It is the only code that calls the camera's
// DriveTransition and EndTransition.
type Manager struct {
	cfg      config.TransitionConfig
	duration float64
	sections map[string]Section
	cam      *camera.Controller
	rng      *rand.Rand

	current Section // last section reached or being approached
	target  Section
	start   camera.Pose
	fromAmb geom.RGB
	fromFog Fog

	ambient geom.RGB
	fog     Fog

	active  bool
	elapsed float64
	driving bool // still supplying the camera pose
	took    bool // the camera accepted at least one driven pose

	onComplete func(section string)
	logger     *slog.Logger
}

// New creates a manager. The scene starts in cfg.InitialSection (or the first section) with
// no transition running.
func New(cfg config.TransitionConfig, cam *camera.Controller, rng *rand.Rand) *Manager {
	m := &Manager{
		cfg:      cfg,
		duration: cfg.Duration,
		sections: make(map[string]Section, len(cfg.Sections)),
		cam:      cam,
		rng:      rng,
		logger:   slog.Default(),
	}
	for _, s := range cfg.Sections {
		m.sections[s.Name] = sectionFromConfig(s)
	}
	initial, ok := m.sections[cfg.InitialSection]
	if !ok && len(cfg.Sections) > 0 {
		initial = m.sections[cfg.Sections[0].Name]
	}
	m.current = initial
	m.target = initial
	m.ambient = initial.Ambient
	m.fog = initial.Fog
	return m
}

// SetLogger replaces the manager logger.
func (m *Manager) SetLogger(l *slog.Logger) {
	if l != nil {
		m.logger = l
	}
}

// OnComplete registers the completion callback.
func (m *Manager) OnComplete(fn func(section string)) {
	m.onComplete = fn
}

// Sections returns the configured section names in config order.
func (m *Manager) Sections() []string {
	names := make([]string, 0, len(m.cfg.Sections))
	for _, s := range m.cfg.Sections {
		names = append(names, s.Name)
	}
	return names
}

// Begin starts a transition to the named section from the camera's current pose. A
// transition already running is superseded and will not report completion.
func (m *Manager) Begin(name string) error {
	sec, ok := m.sections[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	if m.active {
		m.logger.Debug("transition superseded", "from", m.target.Name, "to", name)
	}
	m.start = m.cam.Pose()
	m.fromAmb = m.ambient
	m.fromFog = m.fog
	m.target = sec
	m.elapsed = 0
	m.active = true
	m.driving = true
	m.took = false
	return nil
}

// Update advances the running transition by dt seconds.
func (m *Manager) Update(dt float64) {
	if !m.active {
		return
	}
	m.elapsed += dt
	t := geom.Clamp(m.elapsed/m.duration, 0, 1)
	eased := geom.EaseInOutCubic(t)

	m.ambient = geom.LerpRGB(m.fromAmb, m.target.Ambient, eased)
	m.fog = lerpFog(m.fromFog, m.target.Fog, eased)

	if t >= 1 {
		m.finish()
		return
	}

	pose := camera.Pose{
		Position: geom.Lerp(m.start.Position, m.target.Pose.Position, eased),
		LookAt:   geom.Lerp(m.start.LookAt, m.target.Pose.LookAt, eased),
	}
	pose.Position = r3.Add(pose.Position, m.Jitter(t))

	if !m.driving {
		return
	}
	if m.took && !m.cam.Driven() {
		// The user grabbed the camera or a preset was requested; the final pose queues.
		m.driving = false
		return
	}
	if m.cam.DriveTransition(pose) {
		m.took = true
	} else {
		m.driving = false
	}
}

// Jitter returns a random shake offset for progress t. It is zero from the jitter cutoff on
// and its amplitude decays linearly with progress before that.
func (m *Manager) Jitter(t float64) r3.Vec {
	cutoff := m.cfg.JitterCutoff
	if cutoff <= 0 {
		cutoff = 0.8
	}
	amp := m.cfg.JitterAmplitude * (1 - t)
	if t >= cutoff || amp <= 0 || m.rng == nil {
		return r3.Vec{}
	}
	return r3.Vec{
		X: (m.rng.Float64()*2 - 1) * amp,
		Y: (m.rng.Float64()*2 - 1) * amp,
		Z: (m.rng.Float64()*2 - 1) * amp,
	}
}

func (m *Manager) finish() {
	m.active = false
	m.current = m.target
	m.ambient = m.target.Ambient
	m.fog = m.target.Fog

	final := m.target.Pose
	stillOurs := m.driving && (!m.took || m.cam.Driven())
	if stillOurs && m.cam.DriveTransition(final) {
		m.cam.EndTransition(final)
	} else {
		m.cam.RequestTarget(final)
	}
	m.driving = false

	m.logger.Info("section transition complete", "section", m.target.Name)
	if m.onComplete != nil {
		m.onComplete(m.target.Name)
	}
}

// Cancel abandons the running transition without completing it. The camera keeps its pose.
func (m *Manager) Cancel() {
	if !m.active {
		return
	}
	m.active = false
	if m.driving {
		m.cam.ReleaseTransition()
	}
	m.driving = false
}

// Active reports whether a transition is running.
func (m *Manager) Active() bool {
	return m.active
}

// Progress returns the linear progress of the running transition in [0,1].
func (m *Manager) Progress() float64 {
	if !m.active {
		return 1
	}
	return geom.Clamp(m.elapsed/m.duration, 0, 1)
}

// Section returns the section being approached, or the current one when idle.
func (m *Manager) Section() string {
	return m.target.Name
}

// Current returns the last section reached.
func (m *Manager) Current() string {
	return m.current.Name
}

// Ambient returns the current ambient light colour.
func (m *Manager) Ambient() geom.RGB {
	return m.ambient
}

// Fog returns the current fog state.
func (m *Manager) Fog() Fog {
	return m.fog
}

// lerpFog blends two fogs. A side without fog fades in with the other side's colour so the
// colour never flashes toward black.
func lerpFog(a, b Fog, t float64) Fog {
	ca, cb := a.Color, b.Color
	if a.Density <= 0 {
		ca = cb
	}
	if b.Density <= 0 {
		cb = ca
	}
	return Fog{
		Color:   geom.LerpRGB(ca, cb, t),
		Density: a.Density + (b.Density-a.Density)*t,
	}
}
