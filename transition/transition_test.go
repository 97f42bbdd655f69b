package transition

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/camera"
	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
)

const frameDT = 1.0 / 60.0

func setup(t *testing.T) (*config.Config, *camera.Controller, *Manager) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Camera.IdleSway = 0
	cam := camera.New(cfg.Camera, cfg.Derived.ResumeDelay, camera.PoseFromConfig(cfg.Camera.Initial))
	m := New(cfg.Transition, cam, rand.New(rand.NewSource(1)))
	return cfg, cam, m
}

// run steps the manager and camera together the way the scene does.
func run(cam *camera.Controller, m *Manager, now *time.Duration, frames int) {
	for i := 0; i < frames; i++ {
		dt := frameDT // non-constant so the fractional ns value converts to Duration
		*now += time.Duration(dt * float64(time.Second))
		cam.Update(frameDT, *now)
		m.Update(frameDT)
	}
}

func TestBeginUnknownSection(t *testing.T) {
	_, _, m := setup(t)
	if err := m.Begin("nowhere"); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("expected ErrUnknownSection, got %v", err)
	}
	if m.Active() {
		t.Error("failed Begin must not start a transition")
	}
}

func TestTransitionLandsOnTarget(t *testing.T) {
	cfg, cam, m := setup(t)
	var completed []string
	m.OnComplete(func(s string) { completed = append(completed, s) })

	if err := m.Begin("community"); err != nil {
		t.Fatal(err)
	}
	var now time.Duration
	run(cam, m, &now, 30)
	if cam.Mode() != camera.ModeTransitioning {
		t.Errorf("expected transitioning camera, got %s", cam.Mode())
	}

	run(cam, m, &now, 200)
	if m.Active() {
		t.Fatal("expected transition to finish after 2.5s")
	}
	want, _ := cfg.Section("community")
	if cam.Pose().Position != want.Position || cam.Pose().LookAt != want.LookAt {
		t.Errorf("expected exact target pose %v, got %+v", want.Position, cam.Pose())
	}
	if len(completed) != 1 || completed[0] != "community" {
		t.Errorf("expected one completion for community, got %v", completed)
	}
	if m.Fog().Density != want.Fog.Density {
		t.Errorf("expected fog density %v, got %v", want.Fog.Density, m.Fog().Density)
	}
	if m.Ambient() != want.Ambient {
		t.Errorf("expected ambient %v, got %v", want.Ambient, m.Ambient())
	}
}

func TestSupersededTransitionCompletesOnce(t *testing.T) {
	cfg, cam, m := setup(t)
	var completed []string
	m.OnComplete(func(s string) { completed = append(completed, s) })

	var now time.Duration
	m.Begin("agriculture")
	run(cam, m, &now, 60)
	m.Begin("business")
	run(cam, m, &now, 200)

	if len(completed) != 1 || completed[0] != "business" {
		t.Errorf("expected a single completion for business, got %v", completed)
	}
	want, _ := cfg.Section("business")
	if d := geom.Distance(cam.Pose().Position, want.Position); d != 0 {
		t.Errorf("expected to land exactly on business, %f away", d)
	}
	if m.Fog().Density != 0 {
		t.Errorf("business has no fog, got density %v", m.Fog().Density)
	}
}

func TestJitterDecaysAndStops(t *testing.T) {
	_, _, m := setup(t)
	amp := m.cfg.JitterAmplitude

	for _, tc := range []struct {
		t   float64
		max float64
	}{
		{0, amp},
		{0.5, amp * 0.5},
		{0.79, amp * 0.21},
	} {
		for i := 0; i < 50; i++ {
			j := m.Jitter(tc.t)
			if abs(j.X) > tc.max || abs(j.Y) > tc.max || abs(j.Z) > tc.max {
				t.Fatalf("t=%v: jitter %v exceeds %v", tc.t, j, tc.max)
			}
		}
	}
	for _, p := range []float64{0.8, 0.9, 1} {
		if j := m.Jitter(p); j != (r3.Vec{}) {
			t.Errorf("expected no jitter at t=%v, got %v", p, j)
		}
	}
}

func TestUserInterruptQueuesFinalPose(t *testing.T) {
	cfg, cam, m := setup(t)
	completed := 0
	m.OnComplete(func(string) { completed++ })

	var now time.Duration
	if err := m.Begin("wellbeing"); err != nil {
		t.Fatal(err)
	}
	run(cam, m, &now, 40)

	grabbed := cam.Pose()
	cam.PointerDown(now)
	run(cam, m, &now, 200)

	if completed != 1 {
		t.Errorf("expected completion to still fire once, got %d", completed)
	}
	if cam.Pose() != grabbed {
		t.Error("transition must not move a user-controlled camera")
	}

	cam.PointerUp(now)
	run(cam, m, &now, 600)
	want, _ := cfg.Section("wellbeing")
	if d := geom.Distance(cam.Pose().Position, want.Position); d > cfg.Camera.ArriveEpsilon {
		t.Errorf("expected camera to ease to queued section pose, %f away", d)
	}
	if cam.Mode() != camera.ModeAutomated {
		t.Errorf("expected automated after arrival, got %s", cam.Mode())
	}
}

func TestFogFadesInFromNone(t *testing.T) {
	a := Fog{}
	b := Fog{Color: geom.RGB{R: 1, G: 0.5}, Density: 0.01}
	mid := lerpFog(a, b, 0.5)
	if mid.Color != b.Color {
		t.Errorf("expected fog colour to hold at target colour, got %v", mid.Color)
	}
	if mid.Density != 0.005 {
		t.Errorf("expected half density, got %v", mid.Density)
	}
	if (Fog{}).Factor(100) != 0 {
		t.Error("expected no fog factor for zero density")
	}
	if f := b.Factor(100); f <= 0.6 || f >= 0.7 {
		t.Errorf("expected exp2 factor ~0.632 at d=100, got %v", f)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
