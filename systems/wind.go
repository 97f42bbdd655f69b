package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
)

// Wind is a prevailing wind whose strength gusts over time.
type Wind struct {
	cfg   config.WindConfig
	dir   r3.Vec
	noise *Noise
	t     float64
	gust  float64
}

// NewWind creates a wind source. A zero direction means still air.
func NewWind(cfg config.WindConfig, seed int64) *Wind {
	w := &Wind{cfg: cfg, noise: NewNoise(seed)}
	w.SetConfig(cfg)
	return w
}

// SetConfig replaces the wind parameters, keeping the gust phase.
func (w *Wind) SetConfig(cfg config.WindConfig) {
	w.cfg = cfg
	w.dir = r3.Vec{}
	if r3.Norm(cfg.Direction) > 0 {
		w.dir = r3.Unit(cfg.Direction)
	}
}

// Update advances the gust noise.
func (w *Wind) Update(dt float64) {
	w.t += dt
	w.gust = w.noise.Signed(w.t*w.cfg.GustSpeed, 0.5)
}

// Strength returns the current gusting strength, never negative.
func (w *Wind) Strength() float64 {
	s := w.cfg.Strength * (1 + w.cfg.GustScale*w.gust)
	if s < 0 {
		return 0
	}
	return s
}

// Vector returns the current wind velocity.
func (w *Wind) Vector() r3.Vec {
	return r3.Scale(w.Strength(), w.dir)
}
