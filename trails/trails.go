// Package trails turns the proximity graph and the event list into drawable spirit trails
// and beacons: curve geometry, shader uniforms, flow particles and pointer picking.
package trails

import (
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
	"github.com/pthm-cable/spirittrails/proximity"
)

// Visibility answers frustum queries. The culler implements it.
type Visibility interface {
	PointVisible(p r3.Vec) bool
	SphereVisible(center r3.Vec, radius float64) bool
}

// Detail is the per-tier geometry budget.
type Detail struct {
	Segments      int
	FlowParticles int
}

// Trail is one drawable connection.
type Trail struct {
	A, B      string
	Curve     Curve
	Points    []r3.Vec
	Distances []float64 // arc length from the start at each point, for the fade
	Flow      []r3.Vec
}

// Beacon is one drawable event marker.
type Beacon struct {
	Event    Event
	Center   r3.Vec
	Radius   float64
	Color    geom.RGB
	Uniforms BeaconUniforms
	Hovered  bool
}

// Frame is everything the renderer needs to draw trails and beacons this frame.
type Frame struct {
	Line    LineUniforms
	Trails  []Trail
	Beacons []Beacon

	CulledTrails   int
	CulledBeacons  int
	SkippedBeacons int
	Recycled       int // flow particles respawned this frame
}

// InteractionKind names a pointer interaction with a beacon.
type InteractionKind string

const (
	BeaconHover InteractionKind = "beacon_hover"
	BeaconClick InteractionKind = "beacon_click"
)

// Interaction is reported to the host when the pointer hovers or clicks a beacon.
type Interaction struct {
	Kind  InteractionKind
	Event Event
}

// Set owns trail and beacon state across frames.
type Set struct {
	trailCfg  config.TrailsConfig
	beaconCfg config.BeaconsConfig
	rng       *rand.Rand
	time      float64

	flows   map[string]*flow
	hovered string
	frame   Frame

	logger *slog.Logger
}

// NewSet creates an empty trail set.
func NewSet(trailCfg config.TrailsConfig, beaconCfg config.BeaconsConfig, rng *rand.Rand) *Set {
	return &Set{
		trailCfg:  trailCfg,
		beaconCfg: beaconCfg,
		rng:       rng,
		flows:     make(map[string]*flow),
		logger:    slog.Default(),
	}
}

// SetConfig swaps tunables at runtime (config reload).
func (s *Set) SetConfig(trailCfg config.TrailsConfig, beaconCfg config.BeaconsConfig) {
	s.trailCfg = trailCfg
	s.beaconCfg = beaconCfg
}

// Time returns the accumulated scene time driving the shader animation.
func (s *Set) Time() float64 {
	return s.time
}

// Update advances animation by dt and builds the frame. Trails whose connection midpoint is
// not visible are left out, as are beacons outside the view or with non-finite positions.
// vis may be nil to disable culling.
func (s *Set) Update(dt float64, conns []proximity.Connection, events []Event, vis Visibility, d Detail) *Frame {
	s.time += dt
	f := &s.frame
	f.Line = NewLineUniforms(s.trailCfg, s.time)
	f.Trails = f.Trails[:0]
	f.Beacons = f.Beacons[:0]
	f.CulledTrails, f.CulledBeacons, f.SkippedBeacons, f.Recycled = 0, 0, 0, 0

	for _, fl := range s.flows {
		fl.seen = false
	}

	for i := range conns {
		c := &conns[i]
		key := c.A + "\x00" + c.B
		fl := s.flows[key]
		if fl == nil {
			fl = &flow{}
			s.flows[key] = fl
		}
		fl.seen = true

		if vis != nil && !vis.PointVisible(geom.Midpoint(c.Start, c.End)) {
			f.CulledTrails++
			continue
		}

		curve := Arc(c.Start, c.End, s.trailCfg.ArcHeight)
		fl.resize(d.FlowParticles)
		f.Recycled += fl.step(dt, s.trailCfg.FlowSpeed, s.trailCfg.FlowJitter, s.trailCfg.FlowDriftRadius, s.rng)

		// Reuse the previous frame's buffers for this slot when there is one.
		var t Trail
		if n := len(f.Trails); n < cap(f.Trails) {
			t = f.Trails[:n+1][n]
		}
		t.A, t.B, t.Curve = c.A, c.B, curve
		t.Points = curve.AppendPoints(t.Points[:0], d.Segments)
		t.Distances = appendArcLengths(t.Distances[:0], t.Points)
		t.Flow = fl.positions(t.Flow[:0], curve)
		f.Trails = append(f.Trails, t)
	}

	for key, fl := range s.flows {
		if !fl.seen {
			delete(s.flows, key)
		}
	}

	for _, ev := range events {
		if !geom.Finite(ev.Position) {
			f.SkippedBeacons++
			continue
		}
		b := s.beacon(ev)
		if vis != nil && !vis.SphereVisible(b.Center, b.Radius*(1+float64(b.Uniforms.PulseIntensity))) {
			f.CulledBeacons++
			continue
		}
		f.Beacons = append(f.Beacons, b)
	}
	if f.SkippedBeacons > 0 {
		s.logger.Debug("skipping events with non-finite positions", "count", f.SkippedBeacons)
	}
	return f
}

// Frame returns the last built frame.
func (s *Set) Frame() *Frame {
	return &s.frame
}

func (s *Set) beacon(ev Event) Beacon {
	pulse := s.beaconCfg.Pulse[ev.Priority.String()]
	color, ok := s.beaconCfg.Colors[ev.Category.String()]
	if !ok {
		color = geom.RGB{R: 1, G: 1, B: 1}
	}
	hovered := ev.ID != "" && ev.ID == s.hovered
	hover := float32(1)
	if hovered && s.beaconCfg.HoverBoost > 0 {
		hover = float32(s.beaconCfg.HoverBoost)
	}
	return Beacon{
		Event:   ev,
		Center:  r3.Add(ev.Position, r3.Scale(s.beaconCfg.Height, geom.Up)),
		Radius:  s.beaconCfg.Radius,
		Color:   color,
		Hovered: hovered,
		Uniforms: BeaconUniforms{
			Time:           float32(s.time),
			PulseSpeed:     float32(pulse.Speed),
			PulseIntensity: float32(pulse.Intensity),
			FresnelPower:   float32(s.beaconCfg.FresnelPower),
			Hover:          hover,
			Color:          color.Array32(),
		},
	}
}

// Pick returns the nearest beacon of the last frame hit by the ray.
func (s *Set) Pick(ray geom.Ray) (Beacon, bool) {
	var (
		best  Beacon
		bestT float64
		found bool
	)
	for _, b := range s.frame.Beacons {
		t, ok := ray.IntersectSphere(b.Center, b.Radius)
		if !ok {
			continue
		}
		if !found || t < bestT {
			best, bestT, found = b, t, true
		}
	}
	return best, found
}

// Hover updates the hovered beacon from a pointer ray. It reports an interaction only when
// the pointer moves onto a beacon it was not already over.
func (s *Set) Hover(ray geom.Ray) (Interaction, bool) {
	b, ok := s.Pick(ray)
	if !ok {
		s.hovered = ""
		return Interaction{}, false
	}
	if b.Event.ID == s.hovered {
		return Interaction{}, false
	}
	s.hovered = b.Event.ID
	return Interaction{Kind: BeaconHover, Event: b.Event}, true
}

// ClearHover forgets the hovered beacon, e.g. when the pointer leaves the window.
func (s *Set) ClearHover() {
	s.hovered = ""
}

// Hovered returns the ID of the hovered event, or "".
func (s *Set) Hovered() string {
	return s.hovered
}

// Click reports a click interaction if the ray hits a beacon.
func (s *Set) Click(ray geom.Ray) (Interaction, bool) {
	b, ok := s.Pick(ray)
	if !ok {
		return Interaction{}, false
	}
	return Interaction{Kind: BeaconClick, Event: b.Event}, true
}

// FlowCount returns the number of live flow pools, one per known connection.
func (s *Set) FlowCount() int {
	return len(s.flows)
}

func appendArcLengths(dst []float64, points []r3.Vec) []float64 {
	total := 0.0
	for i := range points {
		if i > 0 {
			total += geom.Distance(points[i-1], points[i])
		}
		dst = append(dst, total)
	}
	return dst
}
