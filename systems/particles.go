package systems

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
)

// EmitterType identifies a weather particle effect.
type EmitterType uint8

const (
	EmitterRain EmitterType = iota
	EmitterDust
	EmitterLeaves
	EmitterEmbers
	EmitterPollen
	EmitterSnow
	EmitterMotes
)

var emitterNames = [...]string{"rain", "dust", "leaves", "embers", "pollen", "snow", "motes"}

func (t EmitterType) String() string {
	if int(t) < len(emitterNames) {
		return emitterNames[t]
	}
	return "unknown"
}

// ParseEmitterType parses an emitter type name.
func ParseEmitterType(s string) (EmitterType, error) {
	for i, n := range emitterNames {
		if n == s {
			return EmitterType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown emitter type %q", s)
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

func (r Range) sample(rng *rand.Rand) float64 {
	return geom.RandomRange(rng, r.Min, r.Max)
}

// EmitterConfig describes one particle effect.
type EmitterConfig struct {
	Type        EmitterType
	Count       int
	Bounds      geom.Box // particles leaving this box are recycled
	Spawn       geom.Box // respawn volume, inside Bounds
	VelocityMin r3.Vec
	VelocityMax r3.Vec
	Lifetime    Range
	Size        Range
	Color       geom.RGB
	ColorJitter float64 // per-particle brightness variation
	WindFactor  float64 // how strongly wind pushes this type
}

// Particle is one simulated particle.
type Particle struct {
	Position    r3.Vec
	Velocity    r3.Vec
	Lifetime    float64
	MaxLifetime float64
	Size        float64
	Color       geom.RGB
}

// Life returns remaining life as a fraction in [0,1].
func (p *Particle) Life() float64 {
	if p.MaxLifetime <= 0 {
		return 0
	}
	return geom.Clamp(p.Lifetime/p.MaxLifetime, 0, 1)
}

// defaultCounts are used when config does not name a count for a type.
var defaultCounts = [...]int{1500, 600, 300, 250, 250, 1200, 200}

// DefaultEmitter returns the catalogue configuration for a type within bounds.
func DefaultEmitter(t EmitterType, bounds geom.Box) EmitterConfig {
	size := bounds.Size()
	top := geom.Box{
		Min: r3.Vec{X: bounds.Min.X, Y: bounds.Max.Y - size.Y*0.1, Z: bounds.Min.Z},
		Max: bounds.Max,
	}
	low := geom.Box{
		Min: bounds.Min,
		Max: r3.Vec{X: bounds.Max.X, Y: bounds.Min.Y + size.Y*0.3, Z: bounds.Max.Z},
	}

	cfg := EmitterConfig{Type: t, Count: defaultCounts[t], Bounds: bounds, Spawn: bounds, WindFactor: 1}
	switch t {
	case EmitterRain:
		cfg.Spawn = top
		cfg.VelocityMin = r3.Vec{X: -0.5, Y: -45, Z: -0.5}
		cfg.VelocityMax = r3.Vec{X: 0.5, Y: -35, Z: 0.5}
		cfg.Lifetime = Range{2, 3}
		cfg.Size = Range{0.05, 0.08}
		cfg.Color = geom.RGB{R: 0.7, G: 0.78, B: 0.9}
		cfg.ColorJitter = 0.1
		cfg.WindFactor = 0.6
	case EmitterDust:
		cfg.Spawn = low
		cfg.VelocityMin = r3.Vec{X: 2, Y: -0.2, Z: -1}
		cfg.VelocityMax = r3.Vec{X: 6, Y: 0.6, Z: 1}
		cfg.Lifetime = Range{4, 8}
		cfg.Size = Range{0.2, 0.6}
		cfg.Color = geom.RGB{R: 0.76, G: 0.6, B: 0.42}
		cfg.ColorJitter = 0.15
		cfg.WindFactor = 1.5
	case EmitterLeaves:
		cfg.Spawn = top
		cfg.VelocityMin = r3.Vec{X: -1, Y: -3, Z: -1}
		cfg.VelocityMax = r3.Vec{X: 1, Y: -1.5, Z: 1}
		cfg.Lifetime = Range{8, 14}
		cfg.Size = Range{0.25, 0.45}
		cfg.Color = geom.RGB{R: 0.75, G: 0.45, B: 0.15}
		cfg.ColorJitter = 0.25
		cfg.WindFactor = 1.2
	case EmitterEmbers:
		cfg.Spawn = low
		cfg.VelocityMin = r3.Vec{X: -0.5, Y: 1, Z: -0.5}
		cfg.VelocityMax = r3.Vec{X: 0.5, Y: 3, Z: 0.5}
		cfg.Lifetime = Range{2, 5}
		cfg.Size = Range{0.1, 0.2}
		cfg.Color = geom.RGB{R: 1, G: 0.5, B: 0.15}
		cfg.ColorJitter = 0.2
		cfg.WindFactor = 0.4
	case EmitterPollen:
		cfg.Spawn = low
		cfg.VelocityMin = r3.Vec{X: -0.3, Y: -0.1, Z: -0.3}
		cfg.VelocityMax = r3.Vec{X: 0.3, Y: 0.3, Z: 0.3}
		cfg.Lifetime = Range{6, 12}
		cfg.Size = Range{0.08, 0.15}
		cfg.Color = geom.RGB{R: 1, G: 0.95, B: 0.55}
		cfg.ColorJitter = 0.1
		cfg.WindFactor = 0.5
	case EmitterSnow:
		cfg.Spawn = top
		cfg.VelocityMin = r3.Vec{X: -0.3, Y: -4, Z: -0.3}
		cfg.VelocityMax = r3.Vec{X: 0.3, Y: -2, Z: 0.3}
		cfg.Lifetime = Range{15, 25}
		cfg.Size = Range{0.1, 0.25}
		cfg.Color = geom.RGB{R: 0.95, G: 0.97, B: 1}
		cfg.ColorJitter = 0.05
		cfg.WindFactor = 0.7
	case EmitterMotes:
		cfg.VelocityMin = r3.Vec{X: -0.2, Y: -0.1, Z: -0.2}
		cfg.VelocityMax = r3.Vec{X: 0.2, Y: 0.1, Z: 0.2}
		cfg.Lifetime = Range{8, 16}
		cfg.Size = Range{0.05, 0.12}
		cfg.Color = geom.RGB{R: 0.9, G: 0.9, B: 0.8}
		cfg.ColorJitter = 0.1
		cfg.WindFactor = 0.2
	}
	return cfg
}

// Emitter owns a fixed pool of particles of one type. The pool is allocated once; dead or
// escaped particles are respawned in place.
type Emitter struct {
	cfg       EmitterConfig
	particles []Particle
	active    int
	scale     float64 // weather-driven density, applied before the tier density
	rng       *rand.Rand
	recycled  int
}

// NewEmitter creates an emitter with its whole pool spawned across the bounds.
func NewEmitter(cfg EmitterConfig, rng *rand.Rand) *Emitter {
	if cfg.Count < 0 {
		cfg.Count = 0
	}
	e := &Emitter{
		cfg:       cfg,
		particles: make([]Particle, cfg.Count),
		active:    cfg.Count,
		scale:     1,
		rng:       rng,
	}
	for i := range e.particles {
		e.spawn(&e.particles[i], true)
	}
	return e
}

// Config returns the emitter configuration.
func (e *Emitter) Config() EmitterConfig {
	return e.cfg
}

// Type returns the emitter type.
func (e *Emitter) Type() EmitterType {
	return e.cfg.Type
}

// SetDensity sets the active fraction of the pool. The active count never exceeds Count.
func (e *Emitter) SetDensity(d float64) {
	d = geom.Clamp(d*e.scale, 0, 1)
	e.active = int(math.Round(float64(e.cfg.Count) * d))
}

// Active returns the number of simulated particles.
func (e *Emitter) Active() int {
	return e.active
}

// Particles returns the active particles. The slice aliases the pool.
func (e *Emitter) Particles() []Particle {
	return e.particles[:e.active]
}

// Recycled returns how many particles were respawned by the last Update.
func (e *Emitter) Recycled() int {
	return e.recycled
}

// Update advances every active particle. elapsed is the total simulation time, used by
// the per-type motion modifiers.
func (e *Emitter) Update(dt, elapsed float64, wind r3.Vec, intensity float64) {
	e.recycled = 0
	push := r3.Scale(e.cfg.WindFactor*intensity*dt, wind)
	step := dt * intensity

	for i := 0; i < e.active; i++ {
		p := &e.particles[i]
		p.Velocity = r3.Add(p.Velocity, push)
		e.modify(p, i, dt, elapsed)
		p.Position = r3.Add(p.Position, r3.Scale(step, p.Velocity))
		p.Lifetime -= dt

		if p.Lifetime <= 0 || !e.cfg.Bounds.Contains(p.Position) {
			e.spawn(p, false)
			e.recycled++
		}
	}
}

// modify applies the per-type motion. phase offsets keep neighbours out of sync.
func (e *Emitter) modify(p *Particle, i int, dt, elapsed float64) {
	phase := float64(i) * 0.37
	switch e.cfg.Type {
	case EmitterLeaves:
		// Tumble: a rotating sideways push and a slow sink
		p.Velocity.X += math.Sin(elapsed*2.1+phase) * 1.5 * dt
		p.Velocity.Z += math.Cos(elapsed*1.7+phase) * 1.5 * dt
		p.Velocity.Y = math.Max(p.Velocity.Y-0.5*dt, -3)
	case EmitterEmbers:
		// Buoyant flicker
		p.Velocity.Y += (0.6 + 0.4*math.Sin(elapsed*9+phase)) * 1.2 * dt
		p.Velocity.Y = math.Min(p.Velocity.Y, 5)
	case EmitterPollen:
		p.Velocity.Y = 0.3 * math.Sin(elapsed*1.3+phase)
	case EmitterSnow:
		p.Velocity.X += math.Sin(elapsed*0.8+phase) * 0.6 * dt
	case EmitterMotes:
		// Drift: damp toward still air with a slow orbit
		damp := 1 - 0.5*dt
		p.Velocity.X = p.Velocity.X*damp + math.Sin(elapsed*0.3+phase)*0.05*dt
		p.Velocity.Z = p.Velocity.Z*damp + math.Cos(elapsed*0.3+phase)*0.05*dt
	}
}

// spawn resets a particle. The initial fill spreads particles over the whole bounds with
// random ages so effects start mid-flight.
func (e *Emitter) spawn(p *Particle, initial bool) {
	box := e.cfg.Spawn
	if initial {
		box = e.cfg.Bounds
	}
	p.Position = box.RandomPoint(e.rng)
	p.Velocity = geom.RandomVec(e.rng, e.cfg.VelocityMin, e.cfg.VelocityMax)
	p.MaxLifetime = e.cfg.Lifetime.sample(e.rng)
	p.Lifetime = p.MaxLifetime
	if initial {
		p.Lifetime *= e.rng.Float64()
	}
	p.Size = e.cfg.Size.sample(e.rng)
	p.Color = e.cfg.Color.Scale(1 + (e.rng.Float64()*2-1)*e.cfg.ColorJitter)
}

// Simulator runs the emitters for the current weather.
type Simulator struct {
	cfg     config.ParticlesConfig
	bounds  geom.Box
	rng     *rand.Rand
	wind    *Wind
	elapsed float64
	density float64

	weather Weather
	region  Region
	active  []*Emitter
	pool    map[EmitterSpec]*Emitter
}

// NewSimulator creates a simulator with no active weather.
func NewSimulator(cfg config.ParticlesConfig, wind *Wind, rng *rand.Rand) *Simulator {
	return &Simulator{
		cfg:     cfg,
		bounds:  geom.NewBox(cfg.BoundsMin, cfg.BoundsMax),
		rng:     rng,
		wind:    wind,
		density: 1,
		pool:    make(map[EmitterSpec]*Emitter),
	}
}

// SetWeather switches emitters to those for the weather and region. Emitters are cached
// per EmitterSpec, so switching back reuses the existing pools.
func (s *Simulator) SetWeather(w Weather, r Region) {
	s.weather, s.region = w, r
	s.active = s.active[:0]
	for _, spec := range EmittersFor(w, r) {
		e := s.pool[spec]
		if e == nil {
			cfg := DefaultEmitter(spec.Type, s.bounds)
			if n, ok := s.cfg.Counts[spec.Type.String()]; ok {
				cfg.Count = n
			}
			e = NewEmitter(cfg, s.rng)
			s.pool[spec] = e
		}
		e.scale = spec.Density
		e.SetDensity(s.density)
		s.active = append(s.active, e)
	}
}

// Weather returns the current weather and region.
func (s *Simulator) Weather() (Weather, Region) {
	return s.weather, s.region
}

// SetDensity applies the quality tier's particle density to all emitters.
func (s *Simulator) SetDensity(d float64) {
	s.density = d
	for _, e := range s.active {
		e.SetDensity(d)
	}
}

// SetIntensity scales wind response and motion speed for every emitter.
func (s *Simulator) SetIntensity(i float64) {
	s.cfg.Intensity = i
}

// Update advances wind and every active emitter.
func (s *Simulator) Update(dt float64) {
	s.elapsed += dt
	var wind r3.Vec
	if s.wind != nil {
		s.wind.Update(dt)
		wind = s.wind.Vector()
	}
	for _, e := range s.active {
		e.Update(dt, s.elapsed, wind, s.cfg.Intensity)
	}
}

// Emitters returns the active emitters.
func (s *Simulator) Emitters() []*Emitter {
	return s.active
}

// ActiveCount returns the number of simulated particles across emitters.
func (s *Simulator) ActiveCount() int {
	n := 0
	for _, e := range s.active {
		n += e.Active()
	}
	return n
}

// Bounds returns the simulation volume.
func (s *Simulator) Bounds() geom.Box {
	return s.bounds
}
