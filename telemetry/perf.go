package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the scene frame.
const (
	PhaseGovernor  = "governor"
	PhaseCamera    = "camera"
	PhaseGraph     = "graph"
	PhaseCulling   = "culling"
	PhaseWildlife  = "wildlife"
	PhaseTrails    = "trails"
	PhaseParticles = "particles"
)

// Phases lists the frame phases in execution order.
var Phases = []string{
	PhaseGovernor, PhaseCamera, PhaseGraph, PhaseCulling,
	PhaseWildlife, PhaseTrails, PhaseParticles,
}

// PerfSample holds timing data for a single frame update.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks CPU time spent in each frame phase over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame update.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration, len(Phases))
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated frame update timings.
type PerfStats struct {
	AvgFrame time.Duration
	MinFrame time.Duration
	MaxFrame time.Duration

	// Phase breakdown (average durations and share of the frame)
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total, lo, hi time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration
		if i == 0 || s.FrameDuration < lo {
			lo = s.FrameDuration
		}
		if s.FrameDuration > hi {
			hi = s.FrameDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	return PerfStats{
		AvgFrame: avg,
		MinFrame: lo,
		MaxFrame: hi,
		PhaseAvg: phaseAvg,
		PhasePct: phasePct,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of frame timings.
type PerfStatsCSV struct {
	TimeSec      float64 `csv:"time_s"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	GovernorPct  float64 `csv:"governor_pct"`
	CameraPct    float64 `csv:"camera_pct"`
	GraphPct     float64 `csv:"graph_pct"`
	CullingPct   float64 `csv:"culling_pct"`
	WildlifePct  float64 `csv:"wildlife_pct"`
	TrailsPct    float64 `csv:"trails_pct"`
	ParticlesPct float64 `csv:"particles_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(t time.Duration) PerfStatsCSV {
	return PerfStatsCSV{
		TimeSec:      t.Seconds(),
		AvgFrameUS:   s.AvgFrame.Microseconds(),
		MinFrameUS:   s.MinFrame.Microseconds(),
		MaxFrameUS:   s.MaxFrame.Microseconds(),
		GovernorPct:  s.PhasePct[PhaseGovernor],
		CameraPct:    s.PhasePct[PhaseCamera],
		GraphPct:     s.PhasePct[PhaseGraph],
		CullingPct:   s.PhasePct[PhaseCulling],
		WildlifePct:  s.PhasePct[PhaseWildlife],
		TrailsPct:    s.PhasePct[PhaseTrails],
		ParticlesPct: s.PhasePct[PhaseParticles],
	}
}
