package feed

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/pthm-cable/spirittrails/config"
)

func TestFeedPopulation(t *testing.T) {
	cfg := config.Defaults().Feed
	f := New(cfg, rand.New(rand.NewSource(1)), nil)
	if len(f.Agents()) != cfg.Agents || len(f.Events()) != cfg.Events {
		t.Fatalf("expected %d agents and %d events, got %d and %d",
			cfg.Agents, cfg.Events, len(f.Agents()), len(f.Events()))
	}
	seen := make(map[string]bool)
	for _, a := range f.Agents() {
		if _, err := uuid.Parse(a.ID); err != nil {
			t.Errorf("expected uuid agent id, got %q", a.ID)
		}
		if seen[a.ID] {
			t.Errorf("duplicate id %s", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestFeedDeterministic(t *testing.T) {
	cfg := config.Defaults().Feed
	a := New(cfg, rand.New(rand.NewSource(7)), nil)
	b := New(cfg, rand.New(rand.NewSource(7)), nil)
	if a.Agents()[0].ID != b.Agents()[0].ID || a.Events()[0].ID != b.Events()[0].ID {
		t.Error("expected same seed to give same ids")
	}
}

func TestAgentsStayNearSpreadOnGround(t *testing.T) {
	cfg := config.Defaults().Feed
	ground := func(x, z float64) float64 { return 0.1 * x }
	f := New(cfg, rand.New(rand.NewSource(2)), ground)
	for i := 0; i < 3000; i++ {
		f.Update(1.0 / 30)
	}
	for _, a := range f.Agents() {
		if d := math.Hypot(a.Position.X, a.Position.Z); d > cfg.Spread+cfg.Speed {
			t.Errorf("agent %s wandered to %f", a.ID, d)
		}
		if a.Position.Y != ground(a.Position.X, a.Position.Z) {
			t.Errorf("expected agent on ground, got y=%f", a.Position.Y)
		}
	}
}

func TestEventsExpire(t *testing.T) {
	cfg := config.Defaults().Feed
	f := New(cfg, rand.New(rand.NewSource(3)), nil)
	first := f.Events()[0].ID
	for i := 0; i < 61*10; i++ {
		f.Update(0.1)
	}
	if f.Events()[0].ID == first {
		t.Error("expected event to be replaced after its lifetime")
	}
}

func TestWeatherSchedule(t *testing.T) {
	f := New(config.Defaults().Feed, rand.New(rand.NewSource(4)), nil)
	start := f.CurrentWeather()
	for i := 0; i < len(schedule); i++ {
		f.NextWeather()
	}
	if f.CurrentWeather() != start {
		t.Errorf("expected schedule to cycle back to %v, got %v", start, f.CurrentWeather())
	}
}
