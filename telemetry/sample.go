package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Sample is one performance measurement, taken once per sample interval.
type Sample struct {
	Time        time.Duration `csv:"-"`
	TimeSec     float64       `csv:"time_s"`
	FPS         float64       `csv:"fps"`
	FrameTimeMs float64       `csv:"frame_time_ms"`
	DrawCalls   int           `csv:"draw_calls"`
	Triangles   int           `csv:"triangles"`
	Tier        string        `csv:"tier"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s Sample) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("t", s.Time.Seconds()),
		slog.Float64("fps", s.FPS),
		slog.Float64("frame_ms", s.FrameTimeMs),
		slog.Int("draw_calls", s.DrawCalls),
		slog.Int("triangles", s.Triangles),
		slog.String("tier", s.Tier),
	)
}

// TierChange records a quality tier transition.
type TierChange struct {
	TimeSec float64 `csv:"time_s"`
	From    string  `csv:"from"`
	To      string  `csv:"to"`
	FPS     float64 `csv:"fps"`
	Forced  bool    `csv:"forced"`
}

// History is a fixed-size ring of recent samples used for smoothing and display.
type History struct {
	samples    []Sample
	writeIndex int
	count      int
	scratch    []float64
}

// NewHistory creates a history holding up to size samples.
func NewHistory(size int) *History {
	if size < 1 {
		size = 10
	}
	return &History{
		samples: make([]Sample, size),
		scratch: make([]float64, 0, size),
	}
}

// Push records a sample, evicting the oldest when full.
func (h *History) Push(s Sample) {
	h.samples[h.writeIndex] = s
	h.writeIndex = (h.writeIndex + 1) % len(h.samples)
	if h.count < len(h.samples) {
		h.count++
	}
}

// Len returns the number of samples held.
func (h *History) Len() int {
	return h.count
}

// Cap returns the history size.
func (h *History) Cap() int {
	return len(h.samples)
}

// Latest returns the most recent sample.
func (h *History) Latest() (Sample, bool) {
	if h.count == 0 {
		return Sample{}, false
	}
	i := (h.writeIndex - 1 + len(h.samples)) % len(h.samples)
	return h.samples[i], true
}

// Samples returns the held samples oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, 0, h.count)
	start := (h.writeIndex - h.count + len(h.samples)) % len(h.samples)
	for i := 0; i < h.count; i++ {
		out = append(out, h.samples[(start+i)%len(h.samples)])
	}
	return out
}

// MeanFPS returns the mean FPS over the history, or 0 when empty.
func (h *History) MeanFPS() float64 {
	if h.count == 0 {
		return 0
	}
	h.scratch = h.scratch[:0]
	for i := 0; i < h.count; i++ {
		h.scratch = append(h.scratch, h.samples[i].FPS)
	}
	return stat.Mean(h.scratch, nil)
}

// FPSRange returns the minimum and maximum FPS over the history.
func (h *History) FPSRange() (lo, hi float64) {
	for i := 0; i < h.count; i++ {
		f := h.samples[i].FPS
		if i == 0 || f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return lo, hi
}
