package scene

import (
	"github.com/pthm-cable/spirittrails/camera"
	"github.com/pthm-cable/spirittrails/culling"
	"github.com/pthm-cable/spirittrails/quality"
	"github.com/pthm-cable/spirittrails/systems"
	"github.com/pthm-cable/spirittrails/telemetry"
)

// DebugSink receives scene state once per frame. The host passes one in explicitly, so
// nothing is published globally.
type DebugSink interface {
	Debug(info DebugInfo)
}

// DebugSinkFunc adapts a function to DebugSink.
type DebugSinkFunc func(info DebugInfo)

// Debug calls f.
func (f DebugSinkFunc) Debug(info DebugInfo) { f(info) }

// DebugInfo is a snapshot of scene internals for overlays and logs.
type DebugInfo struct {
	Frame       int
	Tier        quality.Tier
	Adaptive    bool
	Pending     int
	Latest      telemetry.Sample
	MeanFPS     float64
	Samples     []telemetry.Sample
	Perf        telemetry.PerfStats
	CameraMode  camera.Mode
	Section     string
	Transition  float64 // progress of the running transition, 1 when idle
	Agents      int
	Connections int
	Skipped     int
	Trails      int
	Beacons     int
	Culled      culling.Stats
	Particles   int
	Wildlife    systems.WildlifeStats
}

func (s *Scene) debugInfo() DebugInfo {
	h := s.governor.History()
	latest, _ := h.Latest()
	info := DebugInfo{
		Frame:       s.frames,
		Tier:        s.governor.Tier(),
		Adaptive:    s.governor.Adaptive(),
		Pending:     s.governor.Pending(),
		Latest:      latest,
		MeanFPS:     h.MeanFPS(),
		Samples:     h.Samples(),
		Perf:        s.perf.Stats(),
		CameraMode:  s.cam.Mode(),
		Section:     s.transitions.Section(),
		Transition:  s.transitions.Progress(),
		Agents:      len(s.agents),
		Connections: len(s.connections),
		Skipped:     s.graph.Skipped(),
		Culled:      s.culler.Stats(),
		Particles:   s.particles.ActiveCount(),
		Wildlife:    s.wildlife.Stats(),
	}
	if s.trailFrame != nil {
		info.Trails = len(s.trailFrame.Trails)
		info.Beacons = len(s.trailFrame.Beacons)
	}
	return info
}

// DebugControls exposes the developer toggles without handing out the scene internals.
type DebugControls struct {
	s *Scene
}

// Controls returns the debug controls for this scene.
func (s *Scene) Controls() DebugControls {
	return DebugControls{s: s}
}

// ForceTier switches tier immediately.
func (d DebugControls) ForceTier(t quality.Tier) {
	if d.s.disposed {
		return
	}
	d.s.governor.Force(t, d.s.now)
}

// SetAdaptive enables or disables automatic tier changes.
func (d DebugControls) SetAdaptive(on bool) {
	if d.s.disposed {
		return
	}
	d.s.governor.SetAdaptive(on)
}

// Adaptive reports whether automatic tier changes are enabled.
func (d DebugControls) Adaptive() bool {
	return d.s.governor.Adaptive()
}

// Sections lists the section names.
func (d DebugControls) Sections() []string {
	return d.s.transitions.Sections()
}

// Presets lists the camera preset names.
func (d DebugControls) Presets() []string {
	return d.s.cam.Presets()
}

// SetSection starts a section transition.
func (d DebugControls) SetSection(name string) error {
	return d.s.SetSection(name)
}

// JumpToPreset eases the camera to a preset.
func (d DebugControls) JumpToPreset(name string) error {
	return d.s.JumpToPreset(name)
}

// SetWeather switches weather.
func (d DebugControls) SetWeather(weather, region string) error {
	return d.s.SetWeather(weather, region)
}
