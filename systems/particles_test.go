package systems

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
)

func testBounds() geom.Box {
	return geom.NewBox(r3.Vec{X: -50, Y: 0, Z: -50}, r3.Vec{X: 50, Y: 40, Z: 50})
}

func TestRainStaysInBounds(t *testing.T) {
	cfg := DefaultEmitter(EmitterRain, testBounds())
	cfg.Count = 100
	e := NewEmitter(cfg, rand.New(rand.NewSource(1)))
	wind := r3.Vec{X: 3, Z: 1}

	recycled := 0
	for frame := 0; frame < 1000; frame++ {
		e.Update(1.0/60, float64(frame)/60, wind, 1)
		recycled += e.Recycled()
		for i, p := range e.Particles() {
			if !cfg.Bounds.Contains(p.Position) {
				t.Fatalf("frame %d: particle %d escaped bounds at %v", frame, i, p.Position)
			}
			if p.Position.Y < 0 {
				t.Fatalf("frame %d: particle %d below ground at y=%f", frame, i, p.Position.Y)
			}
		}
	}
	if recycled == 0 {
		t.Error("expected rain to recycle particles")
	}
}

func TestRainFalls(t *testing.T) {
	cfg := DefaultEmitter(EmitterRain, testBounds())
	cfg.Count = 1
	e := NewEmitter(cfg, rand.New(rand.NewSource(2)))
	p := &e.Particles()[0]
	p.Position = r3.Vec{Y: 30}
	p.Velocity = r3.Vec{Y: -40}
	p.Lifetime = 10

	e.Update(0.1, 0.1, r3.Vec{}, 1)
	if math.Abs(p.Position.Y-26) > 1e-9 {
		t.Errorf("expected y=26 after 0.1s at -40, got %f", p.Position.Y)
	}
}

func TestWindAndIntensity(t *testing.T) {
	cfg := DefaultEmitter(EmitterPollen, testBounds())
	cfg.Count = 1
	cfg.WindFactor = 1
	e := NewEmitter(cfg, rand.New(rand.NewSource(3)))
	p := &e.Particles()[0]
	p.Position = r3.Vec{Y: 20}
	p.Velocity = r3.Vec{}
	p.Lifetime = 10

	e.Update(0.5, 0, r3.Vec{X: 2}, 2)
	// v += wind*intensity*dt = 2; p += v*dt*intensity = 2
	if math.Abs(p.Velocity.X-2) > 0.01 {
		t.Errorf("expected vx ~2, got %f", p.Velocity.X)
	}
	if math.Abs(p.Position.X-2) > 0.01 {
		t.Errorf("expected x ~2, got %f", p.Position.X)
	}
}

func TestExpiredParticleRespawns(t *testing.T) {
	cfg := DefaultEmitter(EmitterEmbers, testBounds())
	cfg.Count = 1
	e := NewEmitter(cfg, rand.New(rand.NewSource(4)))
	p := &e.Particles()[0]
	p.Lifetime = 0.001

	e.Update(0.01, 0, r3.Vec{}, 1)
	if e.Recycled() != 1 {
		t.Fatalf("expected one recycle, got %d", e.Recycled())
	}
	if p.Lifetime < cfg.Lifetime.Min || p.Lifetime > cfg.Lifetime.Max {
		t.Errorf("expected fresh lifetime in %v, got %f", cfg.Lifetime, p.Lifetime)
	}
	if !cfg.Spawn.Contains(p.Position) {
		t.Errorf("expected respawn inside spawn volume, got %v", p.Position)
	}
}

func TestDensityNeverExceedsCount(t *testing.T) {
	cfg := DefaultEmitter(EmitterSnow, testBounds())
	cfg.Count = 200
	e := NewEmitter(cfg, rand.New(rand.NewSource(5)))

	tests := []struct {
		density float64
		want    int
	}{
		{1, 200},
		{0.5, 100},
		{0.35, 70},
		{0, 0},
		{3, 200},
		{-1, 0},
	}
	for _, tt := range tests {
		e.SetDensity(tt.density)
		if e.Active() != tt.want {
			t.Errorf("density %v: expected %d active, got %d", tt.density, tt.want, e.Active())
		}
		if len(e.Particles()) != tt.want {
			t.Errorf("density %v: expected %d particles, got %d", tt.density, tt.want, len(e.Particles()))
		}
	}
}

func TestEmitterTypeNames(t *testing.T) {
	for i := range emitterNames {
		typ := EmitterType(i)
		got, err := ParseEmitterType(typ.String())
		if err != nil || got != typ {
			t.Errorf("expected %s to round trip, got %v %v", typ, got, err)
		}
	}
	if _, err := ParseEmitterType("hail"); err == nil {
		t.Error("expected error for unknown emitter type")
	}
}

func newTestSimulator() *Simulator {
	cfg := config.Defaults().Particles
	cfg.Counts = map[string]int{"rain": 100, "motes": 20, "dust": 50, "leaves": 40}
	wind := NewWind(cfg.Wind, 1)
	return NewSimulator(cfg, wind, rand.New(rand.NewSource(6)))
}

func TestSimulatorFollowsWeather(t *testing.T) {
	s := newTestSimulator()
	s.SetWeather(Rainy, Forest)
	if len(s.Emitters()) != 2 {
		t.Fatalf("expected rain plus motes, got %d emitters", len(s.Emitters()))
	}
	// rain at 0.6 of 100, motes at 0.3 of 20
	if s.ActiveCount() != 66 {
		t.Errorf("expected 66 active particles, got %d", s.ActiveCount())
	}

	s.SetDensity(0.5)
	if s.ActiveCount() != 33 {
		t.Errorf("expected 33 active at half density, got %d", s.ActiveCount())
	}

	rain := s.Emitters()[0]
	s.SetWeather(Windy, Outback)
	if s.Emitters()[0].Type() != EmitterDust {
		t.Errorf("expected dust in windy outback, got %s", s.Emitters()[0].Type())
	}
	s.SetWeather(Rainy, Forest)
	if s.Emitters()[0] != rain {
		t.Error("expected cached rain emitter to be reused")
	}

	for i := 0; i < 120; i++ {
		s.Update(1.0 / 60)
	}
	b := s.Bounds()
	for _, e := range s.Emitters() {
		for _, p := range e.Particles() {
			if !b.Contains(p.Position) {
				t.Fatalf("%s particle escaped to %v", e.Type(), p.Position)
			}
		}
	}
}

func TestWindGustsStayInRange(t *testing.T) {
	cfg := config.WindConfig{Direction: r3.Vec{X: 2}, Strength: 4, GustScale: 0.5, GustSpeed: 0.5}
	w := NewWind(cfg, 9)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < 2000; i++ {
		w.Update(0.05)
		s := w.Strength()
		lo, hi = math.Min(lo, s), math.Max(hi, s)
		v := w.Vector()
		if math.Abs(v.X-s) > 1e-9 || v.Y != 0 || v.Z != 0 {
			t.Fatalf("expected wind along +x with strength %f, got %v", s, v)
		}
	}
	if lo < 2-1e-9 || hi > 6+1e-9 {
		t.Errorf("expected strength within [2,6], got [%f,%f]", lo, hi)
	}
	if hi-lo < 0.5 {
		t.Errorf("expected gusts to vary strength, got range %f", hi-lo)
	}
}
