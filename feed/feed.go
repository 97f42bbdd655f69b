// Package feed produces a synthetic stream of agents, events and weather for demo and
// headless runs, standing in for the host application's live data.
package feed

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/proximity"
	"github.com/pthm-cable/spirittrails/trails"
)

// GroundFunc returns the terrain height at (x, z).
type GroundFunc func(x, z float64) float64

// Weather is one step of the weather schedule.
type Weather struct {
	Type   string
	Region string
}

// schedule is cycled by NextWeather.
var schedule = []Weather{
	{"sunny", "forest"},
	{"windy", "grassland"},
	{"rainy", "forest"},
	{"stormy", "outback"},
	{"hot", "outback"},
	{"foggy", "coast"},
	{"snowy", "alpine"},
}

// Feed simulates agents walking across the landscape and events appearing and expiring.
type Feed struct {
	cfg    config.FeedConfig
	rng    *rand.Rand
	ground GroundFunc

	agents   []proximity.Agent
	headings []float64
	events   []trails.Event
	ttl      []float64

	toggle  float64
	weather int
}

// New creates a feed populated from cfg. ground may be nil for a flat world.
func New(cfg config.FeedConfig, rng *rand.Rand, ground GroundFunc) *Feed {
	if ground == nil {
		ground = func(x, z float64) float64 { return 0 }
	}
	f := &Feed{
		cfg:      cfg,
		rng:      rng,
		ground:   ground,
		agents:   make([]proximity.Agent, cfg.Agents),
		headings: make([]float64, cfg.Agents),
		events:   make([]trails.Event, cfg.Events),
		ttl:      make([]float64, cfg.Events),
	}
	for i := range f.agents {
		x, z := f.randomPoint()
		f.agents[i] = proximity.Agent{
			ID:       f.newID("agent"),
			Position: r3.Vec{X: x, Y: f.ground(x, z), Z: z},
			Active:   f.rng.Float64() < cfg.ActiveChance,
		}
		f.headings[i] = f.rng.Float64() * 2 * math.Pi
	}
	for i := range f.events {
		f.respawnEvent(i)
	}
	return f
}

// newID returns a UUID drawn from the feed's generator, so seeded runs repeat.
func (f *Feed) newID(kind string) string {
	id, err := uuid.NewRandomFromReader(f.rng)
	if err != nil {
		return fmt.Sprintf("%s-%d", kind, f.rng.Int63())
	}
	return id.String()
}

func (f *Feed) randomPoint() (float64, float64) {
	r := f.cfg.Spread * math.Sqrt(f.rng.Float64())
	a := f.rng.Float64() * 2 * math.Pi
	return r * math.Cos(a), r * math.Sin(a)
}

func (f *Feed) respawnEvent(i int) {
	x, z := f.randomPoint()
	f.events[i] = trails.Event{
		ID:       f.newID("event"),
		Position: r3.Vec{X: x, Y: f.ground(x, z), Z: z},
		Category: trails.Category(f.rng.Intn(4)),
		Priority: trails.Priority(f.rng.Intn(3)),
	}
	f.ttl[i] = 20 + f.rng.Float64()*40
}

// Update moves agents, toggles their activity about once a second and replaces expired
// events.
func (f *Feed) Update(dt float64) {
	for i := range f.agents {
		a := &f.agents[i]
		f.headings[i] += (f.rng.Float64()*2 - 1) * dt
		a.Position.X += math.Cos(f.headings[i]) * f.cfg.Speed * dt
		a.Position.Z += math.Sin(f.headings[i]) * f.cfg.Speed * dt
		// Turn back toward the centre at the edge of the spread
		if math.Hypot(a.Position.X, a.Position.Z) > f.cfg.Spread {
			f.headings[i] = math.Atan2(-a.Position.Z, -a.Position.X)
		}
		a.Position.Y = f.ground(a.Position.X, a.Position.Z)
	}

	f.toggle += dt
	if f.toggle >= 1 && len(f.agents) > 0 {
		f.toggle = 0
		i := f.rng.Intn(len(f.agents))
		f.agents[i].Active = f.rng.Float64() < f.cfg.ActiveChance
	}

	for i := range f.events {
		f.ttl[i] -= dt
		if f.ttl[i] <= 0 {
			f.respawnEvent(i)
		}
	}
}

// Agents returns the current agent snapshot. The slice is reused by Update.
func (f *Feed) Agents() []proximity.Agent {
	return f.agents
}

// Events returns the current event snapshot. The slice is reused by Update.
func (f *Feed) Events() []trails.Event {
	return f.events
}

// NextWeather advances the weather schedule.
func (f *Feed) NextWeather() Weather {
	f.weather = (f.weather + 1) % len(schedule)
	return schedule[f.weather]
}

// CurrentWeather returns the current schedule entry.
func (f *Feed) CurrentWeather() Weather {
	return schedule[f.weather]
}
