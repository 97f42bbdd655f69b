package trails

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
	"github.com/pthm-cable/spirittrails/proximity"
)

func TestArcControlPoint(t *testing.T) {
	c := Arc(r3.Vec{}, r3.Vec{X: 10}, 0.2)
	want := r3.Vec{X: 5, Y: 2}
	if c.P1 != want {
		t.Errorf("expected control point %v, got %v", want, c.P1)
	}
	if c.Point(0) != c.P0 || c.Point(1) != c.P2 {
		t.Error("expected curve to pass through its endpoints")
	}
	// Quadratic Bézier peaks at half the control point lift
	if mid := c.Point(0.5); math.Abs(mid.Y-1) > 1e-12 {
		t.Errorf("expected apex height 1, got %v", mid.Y)
	}
}

func TestTessellate(t *testing.T) {
	c := Arc(r3.Vec{X: -3}, r3.Vec{X: 3, Z: 4}, 0.2)
	for _, segs := range []int{1, 8, 16, 32} {
		pts := c.Tessellate(segs)
		if len(pts) != segs+1 {
			t.Errorf("segments=%d: expected %d points, got %d", segs, segs+1, len(pts))
		}
		if pts[0] != c.P0 || pts[len(pts)-1] != c.P2 {
			t.Errorf("segments=%d: expected endpoints preserved", segs)
		}
	}
	if n := len(c.Tessellate(0)); n != 2 {
		t.Errorf("expected at least one segment, got %d points", n)
	}
}

func TestArcLengthsMonotonic(t *testing.T) {
	pts := Arc(r3.Vec{}, r3.Vec{X: 40}, 0.2).Tessellate(16)
	d := ArcLengths(pts)
	if d[0] != 0 {
		t.Errorf("expected 0 at start, got %v", d[0])
	}
	for i := 1; i < len(d); i++ {
		if d[i] <= d[i-1] {
			t.Fatalf("expected increasing arc length at %d", i)
		}
	}
	// The arc is longer than the chord
	if d[len(d)-1] <= 40 {
		t.Errorf("expected arc length above chord 40, got %v", d[len(d)-1])
	}
}

func TestTrailAlphaFadesWithDistance(t *testing.T) {
	u := LineUniforms{FadeDistance: 60, PulseDepth: 0, Opacity: 1}
	if a := TrailAlpha(u, 0); a != 1 {
		t.Errorf("expected full alpha at start, got %v", a)
	}
	if a := TrailAlpha(u, 30); math.Abs(float64(a)-0.5) > 1e-6 {
		t.Errorf("expected half alpha at mid fade, got %v", a)
	}
	if a := TrailAlpha(u, 60); a != 0 {
		t.Errorf("expected zero alpha at fade distance, got %v", a)
	}
	if a := TrailAlpha(u, 500); a != 0 {
		t.Errorf("expected zero alpha beyond fade distance, got %v", a)
	}
}

func TestTrailPulseRange(t *testing.T) {
	u := LineUniforms{FadeDistance: 60, PulseSpeed: 2, PulseDepth: 0.4, Opacity: 1}
	lo, hi := float32(2), float32(-1)
	for i := 0; i < 1000; i++ {
		u.Time = float32(i) * 0.01
		p := u.Pulse()
		lo = min(lo, p)
		hi = max(hi, p)
	}
	if lo < 0.6-1e-4 || hi > 1+1e-4 {
		t.Errorf("expected pulse in [0.6, 1], got [%v, %v]", lo, hi)
	}
	if hi-lo < 0.35 {
		t.Errorf("expected pulse to swing by ~depth, got %v", hi-lo)
	}
}

func TestBeaconUniforms(t *testing.T) {
	u := BeaconUniforms{PulseSpeed: 4, PulseIntensity: 0.25, FresnelPower: 2.5, Hover: 1}
	u.Time = float32(math.Pi / 8) // sin(time*speed) = 1
	if s := u.Scale(); math.Abs(float64(s)-1.25) > 1e-5 {
		t.Errorf("expected peak scale 1.25, got %v", s)
	}
	if r := u.Rim(1); r != 0 {
		t.Errorf("expected no rim facing the viewer, got %v", r)
	}
	if r := u.Rim(0); r != 1 {
		t.Errorf("expected full rim at silhouette, got %v", r)
	}
	u.Hover = 1.8
	if r := u.Rim(0); math.Abs(float64(r)-1.8) > 1e-6 {
		t.Errorf("expected hover-boosted rim 1.8, got %v", r)
	}
}

func TestPriorityDrivesPulse(t *testing.T) {
	cfg := config.Defaults()
	s := NewSet(cfg.Trails, cfg.Beacons, rand.New(rand.NewSource(1)))
	events := []Event{
		{ID: "a", Position: r3.Vec{}, Priority: PriorityLow},
		{ID: "b", Position: r3.Vec{X: 10}, Priority: PriorityHigh, Category: CategoryEmergency},
	}
	f := s.Update(1.0/60, nil, events, nil, Detail{Segments: 8})
	if len(f.Beacons) != 2 {
		t.Fatalf("expected 2 beacons, got %d", len(f.Beacons))
	}
	low, high := f.Beacons[0].Uniforms, f.Beacons[1].Uniforms
	if !(high.PulseSpeed > low.PulseSpeed && high.PulseIntensity > low.PulseIntensity) {
		t.Errorf("expected high priority to pulse faster and stronger: low=%+v high=%+v", low, high)
	}
	if f.Beacons[1].Color != cfg.Beacons.Colors["emergency"] {
		t.Errorf("expected emergency colour, got %v", f.Beacons[1].Color)
	}
}

// halfSpace marks everything with X >= 0 as visible.
type halfSpace struct{}

func (halfSpace) PointVisible(p r3.Vec) bool             { return p.X >= 0 }
func (halfSpace) SphereVisible(c r3.Vec, r float64) bool { return c.X+r >= 0 }

func TestFrameCullsByMidpoint(t *testing.T) {
	cfg := config.Defaults()
	s := NewSet(cfg.Trails, cfg.Beacons, rand.New(rand.NewSource(1)))
	conns := []proximity.Connection{
		{A: "a", B: "b", Start: r3.Vec{X: 10}, End: r3.Vec{X: 20}},
		{A: "c", B: "d", Start: r3.Vec{X: -30}, End: r3.Vec{X: -20}},
		// Endpoint outside but midpoint inside: drawn
		{A: "e", B: "f", Start: r3.Vec{X: -5}, End: r3.Vec{X: 15}},
	}
	events := []Event{
		{ID: "in", Position: r3.Vec{X: 5}},
		{ID: "out", Position: r3.Vec{X: -50}},
		{ID: "bad", Position: r3.Vec{X: math.NaN()}},
	}
	f := s.Update(1.0/60, conns, events, halfSpace{}, Detail{Segments: 16, FlowParticles: 4})

	if len(f.Trails) != 2 || f.CulledTrails != 1 {
		t.Errorf("expected 2 trails and 1 culled, got %d and %d", len(f.Trails), f.CulledTrails)
	}
	for _, tr := range f.Trails {
		if len(tr.Points) != 17 {
			t.Errorf("expected 17 points, got %d", len(tr.Points))
		}
		if len(tr.Flow) != 4 {
			t.Errorf("expected 4 flow particles, got %d", len(tr.Flow))
		}
	}
	if len(f.Beacons) != 1 || f.Beacons[0].Event.ID != "in" {
		t.Errorf("expected only beacon 'in', got %d beacons", len(f.Beacons))
	}
	if f.CulledBeacons != 1 || f.SkippedBeacons != 1 {
		t.Errorf("expected 1 culled and 1 skipped beacon, got %d and %d", f.CulledBeacons, f.SkippedBeacons)
	}
}

func TestFlowParticlesStayNearPath(t *testing.T) {
	cfg := config.Defaults()
	cfg.Trails.FlowJitter = 5 // drift quickly so recycling kicks in
	s := NewSet(cfg.Trails, cfg.Beacons, rand.New(rand.NewSource(3)))
	conns := []proximity.Connection{{A: "a", B: "b", Start: r3.Vec{}, End: r3.Vec{X: 30}}}

	recycled := 0
	for i := 0; i < 600; i++ {
		f := s.Update(1.0/60, conns, nil, nil, Detail{Segments: 8, FlowParticles: 10})
		recycled += f.Recycled
		for _, fl := range s.flows {
			for _, p := range fl.particles {
				if r3.Norm(p.Offset) > cfg.Trails.FlowDriftRadius {
					t.Fatalf("frame %d: particle drifted %v beyond radius", i, r3.Norm(p.Offset))
				}
				if p.T < 0 || p.T > 1 {
					t.Fatalf("frame %d: particle parameter %v out of range", i, p.T)
				}
			}
		}
	}
	if recycled == 0 {
		t.Error("expected particles to be recycled")
	}
}

func TestFlowPoolsFollowConnections(t *testing.T) {
	cfg := config.Defaults()
	s := NewSet(cfg.Trails, cfg.Beacons, rand.New(rand.NewSource(1)))
	conns := []proximity.Connection{
		{A: "a", B: "b", Start: r3.Vec{}, End: r3.Vec{X: 10}},
		{A: "b", B: "c", Start: r3.Vec{X: 10}, End: r3.Vec{X: 20}},
	}
	s.Update(0.01, conns, nil, nil, Detail{Segments: 4, FlowParticles: 2})
	if s.FlowCount() != 2 {
		t.Errorf("expected 2 flow pools, got %d", s.FlowCount())
	}
	s.Update(0.01, conns[:1], nil, nil, Detail{Segments: 4, FlowParticles: 2})
	if s.FlowCount() != 1 {
		t.Errorf("expected stale pool dropped, got %d", s.FlowCount())
	}
}

func TestHoverFiresOncePerBeacon(t *testing.T) {
	cfg := config.Defaults()
	s := NewSet(cfg.Trails, cfg.Beacons, rand.New(rand.NewSource(1)))
	events := []Event{{ID: "ev1", Position: r3.Vec{}}}
	s.Update(0.01, nil, events, nil, Detail{Segments: 4})

	center := r3.Vec{Y: cfg.Beacons.Height}
	onBeacon := geom.Ray{Origin: r3.Vec{Y: cfg.Beacons.Height, Z: 50}, Dir: r3.Vec{Z: -1}}
	offBeacon := geom.Ray{Origin: r3.Vec{X: 20, Z: 50}, Dir: r3.Vec{Z: -1}}

	in, ok := s.Hover(onBeacon)
	if !ok || in.Kind != BeaconHover || in.Event.ID != "ev1" {
		t.Fatalf("expected hover on ev1, got %+v ok=%v", in, ok)
	}
	if _, ok := s.Hover(onBeacon); ok {
		t.Error("expected no repeat hover while still over the beacon")
	}

	f := s.Update(0.01, nil, events, nil, Detail{Segments: 4})
	if !f.Beacons[0].Hovered || f.Beacons[0].Uniforms.Hover != float32(cfg.Beacons.HoverBoost) {
		t.Error("expected hovered beacon to be boosted")
	}

	if _, ok := s.Hover(offBeacon); ok {
		t.Error("expected no interaction when leaving")
	}
	if _, ok := s.Hover(onBeacon); !ok {
		t.Error("expected hover again after leaving and returning")
	}

	click, ok := s.Click(onBeacon)
	if !ok || click.Kind != BeaconClick {
		t.Errorf("expected click on beacon, got %+v", click)
	}
	if _, ok := onBeacon.IntersectSphere(center, cfg.Beacons.Radius); !ok {
		t.Error("expected ray to intersect beacon sphere")
	}
}

func TestParseNames(t *testing.T) {
	if c, err := ParseCategory("cultural"); err != nil || c != CategoryCultural {
		t.Errorf("expected cultural, got %v %v", c, err)
	}
	if _, err := ParseCategory("sports"); err == nil {
		t.Error("expected error for unknown category")
	}
	if p, err := ParsePriority("high"); err != nil || p != PriorityHigh {
		t.Errorf("expected high, got %v %v", p, err)
	}
}
