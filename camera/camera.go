// Package camera owns the scene camera pose and arbitrates between automated cinematic
// motion, section transitions and direct user control.
package camera

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
	"github.com/pthm-cable/spirittrails/timing"
)

// ErrUnknownPreset is returned when a preset name is not configured.
var ErrUnknownPreset = errors.New("camera: unknown preset")

// Mode is the controller state.
type Mode uint8

const (
	ModeAutomated Mode = iota
	ModeUserControlled
	ModeTransitioning
)

func (m Mode) String() string {
	switch m {
	case ModeAutomated:
		return "automated"
	case ModeUserControlled:
		return "user_controlled"
	case ModeTransitioning:
		return "transitioning"
	}
	return "unknown"
}

// Pose is a camera position and the point it looks at.
type Pose struct {
	Position r3.Vec
	LookAt   r3.Vec
}

// PoseFromConfig converts a config pose.
func PoseFromConfig(p config.PoseConfig) Pose {
	return Pose{Position: p.Position, LookAt: p.LookAt}
}

// State is the full controller state. It has exactly one writer, the Controller.
type State struct {
	Position       r3.Vec
	LookAt         r3.Vec
	TargetPosition r3.Vec
	TargetLookAt   r3.Vec
	Mode           Mode
}

// Pose returns the current pose.
func (s State) Pose() Pose {
	return Pose{Position: s.Position, LookAt: s.LookAt}
}

// Controller is the camera state machine.
//
// AUTOMATED is the initial mode. Pointer-down (or an external pose change) switches to
// USER_CONTROLLED; pointer-up arms a resume timer after which automation resumes from the
// current pose. Target requests made while the user is in control are queued and applied
// when control returns.
type Controller struct {
	cfg    config.CameraConfig
	state  State
	resume timing.Timeout

	resumeDelay time.Duration
	presets     map[string]Pose

	// lastWritten is the pose produced by the controller's last internal update. A pose
	// reported by the host that differs from it was moved by something else.
	lastWritten Pose

	// queued marks a target requested during user control.
	queued bool

	// driven is set while a section transition supplies the pose each frame.
	driven bool

	// swayTime drives the automated look-at sway; reset on entering AUTOMATED.
	swayTime float64

	onModeChange func(from, to Mode)
	logger       *slog.Logger
}

// New creates a controller at the given initial pose in AUTOMATED mode.
func New(cfg config.CameraConfig, resumeDelay time.Duration, initial Pose) *Controller {
	c := &Controller{
		cfg:         cfg,
		resumeDelay: resumeDelay,
		presets:     make(map[string]Pose, len(cfg.Presets)),
		logger:      slog.Default(),
		state: State{
			Position:       initial.Position,
			LookAt:         initial.LookAt,
			TargetPosition: initial.Position,
			TargetLookAt:   initial.LookAt,
			Mode:           ModeAutomated,
		},
		lastWritten: initial,
	}
	for _, p := range cfg.Presets {
		c.presets[p.Name] = PoseFromConfig(p.PoseConfig)
	}
	return c
}

// SetLogger replaces the controller logger.
func (c *Controller) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// OnModeChange registers a callback fired on every mode transition.
func (c *Controller) OnModeChange(fn func(from, to Mode)) {
	c.onModeChange = fn
}

// State returns a copy of the controller state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.state.Mode
}

// Pose returns the current pose.
func (c *Controller) Pose() Pose {
	return c.state.Pose()
}

// Driven reports whether a section transition currently supplies the pose.
func (c *Controller) Driven() bool {
	return c.driven
}

// ResumePending reports whether the resume-automation timer is armed.
func (c *Controller) ResumePending() bool {
	return c.resume.Pending()
}

// Presets returns the configured preset names.
func (c *Controller) Presets() []string {
	names := make([]string, 0, len(c.cfg.Presets))
	for _, p := range c.cfg.Presets {
		names = append(names, p.Name)
	}
	return names
}

// PointerDown hands control to the user and cancels any pending resume.
func (c *Controller) PointerDown(now time.Duration) {
	c.resume.Cancel()
	c.driven = false
	if c.state.Mode != ModeUserControlled {
		c.setMode(ModeUserControlled)
	}
}

// PointerUp starts the resume timer. It restarts if already pending.
func (c *Controller) PointerUp(now time.Duration) {
	if c.state.Mode != ModeUserControlled {
		return
	}
	c.resume.Start(now, c.resumeDelay)
}

// SyncExternal reconciles a pose reported by the host after third-party input controls
// have run. A pose that differs from the controller's last write is adopted and treated
// exactly like a pointer-down. It returns true if an external move was detected.
func (c *Controller) SyncExternal(p Pose, now time.Duration) bool {
	eps := c.cfg.ExternalEpsilon
	if geom.Distance(p.Position, c.lastWritten.Position) <= eps &&
		geom.Distance(p.LookAt, c.lastWritten.LookAt) <= eps {
		return false
	}
	if !geom.Finite(p.Position) || !geom.Finite(p.LookAt) {
		return false
	}

	wasControlled := c.state.Mode == ModeUserControlled
	pending := c.resume.Pending()
	c.PointerDown(now)
	// Orbit libraries keep moving the camera while damping after release; that must not
	// cancel a resume the pointer-up already armed.
	if wasControlled && pending {
		c.resume.Start(now, c.resumeDelay)
	}
	c.state.Position = p.Position
	c.state.LookAt = p.LookAt
	c.lastWritten = p
	return true
}

// RequestTarget sets a new automated target. Outside user control the camera eases toward
// it; during user control the request is queued until control returns.
func (c *Controller) RequestTarget(p Pose) {
	c.driven = false
	c.state.TargetPosition = p.Position
	c.state.TargetLookAt = p.LookAt

	switch c.state.Mode {
	case ModeUserControlled:
		c.queued = true
	case ModeAutomated:
		c.setMode(ModeTransitioning)
	}
}

// JumpToPreset requests the named preset pose.
func (c *Controller) JumpToPreset(name string) error {
	p, ok := c.presets[name]
	if !ok {
		return ErrUnknownPreset
	}
	c.RequestTarget(p)
	return nil
}

// DriveTransition applies a pose computed by a section transition. It is rejected during
// user control; a caller that sees false must stop driving and finish with EndTransition.
func (c *Controller) DriveTransition(p Pose) bool {
	if c.state.Mode == ModeUserControlled {
		return false
	}
	if c.state.Mode != ModeTransitioning {
		c.setMode(ModeTransitioning)
	}
	c.driven = true
	c.write(p)
	c.state.TargetPosition = p.Position
	c.state.TargetLookAt = p.LookAt
	return true
}

// EndTransition finishes a section transition at its final pose. If the transition was
// still driving the camera the pose is applied directly; otherwise it becomes the next
// automated target, queued if the user is in control.
func (c *Controller) EndTransition(p Pose) {
	if !c.driven {
		c.RequestTarget(p)
		return
	}
	c.driven = false
	c.state.TargetPosition = p.Position
	c.state.TargetLookAt = p.LookAt
	c.write(p)
	c.setMode(ModeAutomated)
}

// ReleaseTransition stops a section transition from driving the camera without moving it.
// The camera settles on its current target from here on.
func (c *Controller) ReleaseTransition() {
	c.driven = false
}

// Update advances the state machine by dt seconds at scene time now.
func (c *Controller) Update(dt float64, now time.Duration) {
	if c.resume.Fired(now) {
		c.resumeAutomation()
	}

	switch c.state.Mode {
	case ModeUserControlled:
		return
	case ModeTransitioning:
		if c.driven {
			return
		}
	case ModeAutomated:
		c.swayTime += dt
	}

	alpha := geom.ExpAlpha(c.cfg.LerpRate, dt)
	targetLook := c.state.TargetLookAt
	if c.state.Mode == ModeAutomated {
		targetLook = r3.Add(targetLook, c.sway())
	}

	c.write(Pose{
		Position: geom.Lerp(c.state.Position, c.state.TargetPosition, alpha),
		LookAt:   geom.Lerp(c.state.LookAt, targetLook, alpha),
	})

	if c.state.Mode == ModeTransitioning && c.arrived() {
		c.setMode(ModeAutomated)
	}
}

// Stop cancels the resume timer and drops any queued or transition-driven target. The
// controller keeps its current pose and mode.
func (c *Controller) Stop() {
	c.resume.Cancel()
	c.queued = false
	c.driven = false
}

// resumeAutomation returns control to the automated camera. A target queued during user
// control is eased toward; otherwise the current pose becomes the target so nothing jumps.
func (c *Controller) resumeAutomation() {
	if c.state.Mode != ModeUserControlled {
		return
	}
	if c.queued {
		c.queued = false
		c.setMode(ModeTransitioning)
		return
	}
	c.state.TargetPosition = c.state.Position
	c.state.TargetLookAt = c.state.LookAt
	c.setMode(ModeAutomated)
}

// sway is a slow figure-eight offset of the look-at point in automated mode. It starts at
// zero so entering automation never moves the target discontinuously.
func (c *Controller) sway() r3.Vec {
	if c.cfg.IdleSway <= 0 || c.cfg.IdleSwayPeriod <= 0 {
		return r3.Vec{}
	}
	phase := 2 * math.Pi * c.swayTime / c.cfg.IdleSwayPeriod
	return r3.Vec{
		X: c.cfg.IdleSway * math.Sin(phase),
		Y: c.cfg.IdleSway * 0.25 * math.Sin(2*phase),
	}
}

func (c *Controller) arrived() bool {
	eps := c.cfg.ArriveEpsilon
	return geom.Distance(c.state.Position, c.state.TargetPosition) <= eps &&
		geom.Distance(c.state.LookAt, c.state.TargetLookAt) <= eps
}

func (c *Controller) write(p Pose) {
	c.state.Position = p.Position
	c.state.LookAt = p.LookAt
	c.lastWritten = p
}

func (c *Controller) setMode(m Mode) {
	from := c.state.Mode
	if from == m {
		return
	}
	c.state.Mode = m
	if m == ModeAutomated {
		c.swayTime = 0
	}
	c.logger.Debug("camera mode", "from", from.String(), "to", m.String())
	if c.onModeChange != nil {
		c.onModeChange(from, m)
	}
}
