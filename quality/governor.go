package quality

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/telemetry"
	"github.com/pthm-cable/spirittrails/timing"
)

// StatsSource supplies per-frame GPU work counters. The renderer implements it.
type StatsSource interface {
	// Counters returns draw calls and triangles submitted since the last reset.
	Counters() (drawCalls, triangles int)
	ResetCounters()
}

// Applier receives the settings of a newly applied tier.
type Applier interface {
	ApplyQuality(t Tier, s Settings)
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(t Tier, s Settings)

// ApplyQuality calls f.
func (f ApplierFunc) ApplyQuality(t Tier, s Settings) { f(t, s) }

// Governor samples frame rate once per interval and moves the tier one step at a time
// when the rate stays outside the hysteresis band for the debounce period.
type Governor struct {
	cfg      config.QualityConfig
	settings SettingsTable
	interval time.Duration
	debounce time.Duration

	tier     Tier
	adaptive bool

	frames      int
	windowStart time.Duration
	started     bool

	pending    timing.Timeout
	pendingDir int

	history  *telemetry.History
	appliers []Applier

	onSample     func(telemetry.Sample)
	onTierChange func(telemetry.TierChange)
	logger       *slog.Logger
}

// NewGovernor creates a governor starting at the given tier.
func NewGovernor(cfg config.QualityConfig, settings SettingsTable, interval, debounce time.Duration, initial Tier) *Governor {
	if interval <= 0 {
		interval = time.Second
	}
	return &Governor{
		cfg:      cfg,
		settings: settings,
		interval: interval,
		debounce: debounce,
		tier:     initial,
		adaptive: cfg.Adaptive,
		history:  telemetry.NewHistory(cfg.HistorySize),
		logger:   slog.Default(),
	}
}

// SetLogger replaces the governor logger.
func (g *Governor) SetLogger(l *slog.Logger) {
	if l != nil {
		g.logger = l
	}
}

// AddApplier registers a component to be told about tier changes. It is called
// immediately with the current tier.
func (g *Governor) AddApplier(a Applier) {
	g.appliers = append(g.appliers, a)
	a.ApplyQuality(g.tier, g.settings[g.tier])
}

// OnSample registers a callback for every recorded sample.
func (g *Governor) OnSample(fn func(telemetry.Sample)) {
	g.onSample = fn
}

// OnTierChange registers a callback for every applied tier change.
func (g *Governor) OnTierChange(fn func(telemetry.TierChange)) {
	g.onTierChange = fn
}

// Tier returns the active tier.
func (g *Governor) Tier() Tier {
	return g.tier
}

// Settings returns the active tier's settings.
func (g *Governor) Settings() Settings {
	return g.settings[g.tier]
}

// Adaptive reports whether automatic tier changes are enabled.
func (g *Governor) Adaptive() bool {
	return g.adaptive
}

// History returns the rolling sample history.
func (g *Governor) History() *telemetry.History {
	return g.history
}

// Pending returns the direction of a debounced change waiting to apply (-1, 0 or +1).
func (g *Governor) Pending() int {
	if !g.pending.Pending() {
		return 0
	}
	return g.pendingDir
}

// Frame counts one rendered frame at scene time now. Once per sample interval it records
// a sample, reading and resetting the stats counters (stats may be nil), and makes a
// tier decision. It returns true on frames that took a sample.
func (g *Governor) Frame(now time.Duration, stats StatsSource) bool {
	if !g.started {
		g.started = true
		g.windowStart = now
		return false
	}
	g.frames++

	sampled := false
	if elapsed := now - g.windowStart; elapsed >= g.interval {
		elapsedMs := float64(elapsed) / float64(time.Millisecond)
		fps := float64(g.frames) / elapsedMs * 1000
		s := telemetry.Sample{
			Time:        now,
			FPS:         fps,
			FrameTimeMs: elapsedMs / float64(g.frames),
			Tier:        g.tier.String(),
		}
		if stats != nil {
			s.DrawCalls, s.Triangles = stats.Counters()
			stats.ResetCounters()
		}
		g.history.Push(s)
		g.frames = 0
		g.windowStart = now
		sampled = true

		if g.onSample != nil {
			g.onSample(s)
		}
		g.decide(fps, now)
	}

	if g.pending.Fired(now) {
		last, _ := g.history.Latest()
		g.apply(g.tier.Step(g.pendingDir), last.FPS, false, now)
	}
	return sampled
}

// decide compares one sample against the hysteresis band. A decision has to be repeated
// until the debounce expires; a hold or reversed decision cancels it.
func (g *Governor) decide(fps float64, now time.Duration) {
	if !g.adaptive {
		return
	}
	dir := 0
	switch {
	case fps < g.cfg.TargetFPS*g.cfg.DropRatio && g.tier > Low:
		dir = -1
	case fps > g.cfg.TargetFPS*g.cfg.RaiseRatio && g.tier < High:
		dir = 1
	}

	if dir == 0 {
		if g.pending.Pending() {
			g.logger.Debug("quality change cancelled", "fps", fps, "tier", g.tier.String())
		}
		g.pending.Cancel()
		g.pendingDir = 0
		return
	}
	if g.pending.Pending() && dir == g.pendingDir {
		return
	}
	g.pendingDir = dir
	g.pending.Start(now, g.debounce)
}

func (g *Governor) apply(t Tier, fps float64, forced bool, now time.Duration) {
	g.pending.Cancel()
	g.pendingDir = 0
	if t == g.tier {
		return
	}
	from := g.tier
	g.tier = t
	g.logger.Info("quality tier changed", "from", from.String(), "to", t.String(), "fps", fps, "forced", forced)

	s := g.settings[t]
	for _, a := range g.appliers {
		a.ApplyQuality(t, s)
	}
	if g.onTierChange != nil {
		g.onTierChange(telemetry.TierChange{
			TimeSec: now.Seconds(),
			From:    from.String(),
			To:      t.String(),
			FPS:     fps,
			Forced:  forced,
		})
	}
}

// Force switches to a tier immediately, cancelling any pending change.
func (g *Governor) Force(t Tier, now time.Duration) {
	last, _ := g.history.Latest()
	g.apply(t, last.FPS, true, now)
}

// SetAdaptive enables or disables automatic tier changes. Disabling cancels any pending
// change.
func (g *Governor) SetAdaptive(on bool) {
	g.adaptive = on
	if !on {
		g.pending.Cancel()
		g.pendingDir = 0
	}
}

// Reset clears the sampling window and any pending change, e.g. after a pause.
func (g *Governor) Reset() {
	g.started = false
	g.frames = 0
	g.pending.Cancel()
	g.pendingDir = 0
}
