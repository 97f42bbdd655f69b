package camera

import (
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
)

const frameDT = 1.0 / 60.0

func testConfig() config.CameraConfig {
	return config.CameraConfig{
		LerpRate:        2.5,
		ArriveEpsilon:   0.05,
		ExternalEpsilon: 0.001,
		OrbitSpeed:      0.005,
		ZoomSpeed:       0.1,
		MinRadius:       2,
		MaxRadius:       500,
		Presets: []config.PresetConfig{
			{Name: "ridge", PoseConfig: config.PoseConfig{
				Position: r3.Vec{X: 90, Y: 45, Z: -40},
				LookAt:   r3.Vec{X: 30, Y: 10, Z: 10},
			}},
		},
	}
}

func initialPose() Pose {
	return Pose{Position: r3.Vec{Y: 60, Z: 140}, LookAt: r3.Vec{}}
}

// sim drives a controller with a fixed frame step and tracks the largest per-frame jump.
type sim struct {
	c       *Controller
	now     time.Duration
	maxJump float64
}

func (s *sim) step(frames int) {
	for i := 0; i < frames; i++ {
		before := s.c.Pose().Position
		dt := frameDT // non-constant so the fractional ns value converts to Duration
		s.now += time.Duration(dt * float64(time.Second))
		s.c.Update(frameDT, s.now)
		if d := geom.Distance(before, s.c.Pose().Position); d > s.maxJump {
			s.maxJump = d
		}
	}
}

func TestNewStartsAutomated(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())
	if c.Mode() != ModeAutomated {
		t.Errorf("expected automated, got %s", c.Mode())
	}
	if c.Pose() != initialPose() {
		t.Errorf("expected initial pose, got %+v", c.Pose())
	}
}

func TestPointerUpResumesAfterDelay(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())
	s := &sim{c: c}

	c.PointerDown(s.now)
	if c.Mode() != ModeUserControlled {
		t.Fatalf("expected user_controlled after pointer down, got %s", c.Mode())
	}

	// User drags the camera somewhere else via external controls
	moved := Pose{Position: r3.Vec{X: 30, Y: 40, Z: 100}, LookAt: r3.Vec{X: 2}}
	c.SyncExternal(moved, s.now)
	c.PointerUp(s.now)

	s.step(30) // 0.5s
	if c.Mode() != ModeUserControlled {
		t.Errorf("expected still user_controlled at 0.5s, got %s", c.Mode())
	}

	s.step(40) // past 1s
	if c.Mode() != ModeAutomated {
		t.Fatalf("expected automated after resume delay, got %s", c.Mode())
	}

	// Resuming captured the current pose, so the camera must not jump back.
	if d := geom.Distance(c.Pose().Position, moved.Position); d > 1e-6 {
		t.Errorf("camera moved %f after resume, expected to stay put", d)
	}
	if s.maxJump > 1e-6 {
		t.Errorf("expected no discontinuity, max per-frame jump %f", s.maxJump)
	}
}

func TestPointerDownCancelsResume(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())
	s := &sim{c: c}

	c.PointerDown(s.now)
	c.PointerUp(s.now)
	s.step(30)
	c.PointerDown(s.now)
	if c.ResumePending() {
		t.Error("pointer down should cancel pending resume")
	}
	s.step(120)
	if c.Mode() != ModeUserControlled {
		t.Errorf("expected user_controlled while held, got %s", c.Mode())
	}
}

func TestExternalMoveTreatedAsPointerDown(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())

	if c.SyncExternal(initialPose(), 0) {
		t.Error("unchanged pose should not count as external move")
	}
	if c.Mode() != ModeAutomated {
		t.Errorf("expected automated, got %s", c.Mode())
	}

	orbit := NewOrbitControls(testConfig())
	orbit.Attach(c.Pose())
	orbit.Rotate(40, 0)
	if !c.SyncExternal(orbit.Pose(), 0) {
		t.Error("expected external move to be detected")
	}
	if c.Mode() != ModeUserControlled {
		t.Errorf("expected user_controlled after external move, got %s", c.Mode())
	}
}

func TestInternalUpdatesNotSeenAsExternal(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())
	if err := c.JumpToPreset("ridge"); err != nil {
		t.Fatal(err)
	}
	s := &sim{c: c}
	for i := 0; i < 60; i++ {
		s.step(1)
		// The host reports back exactly what the controller produced
		if c.SyncExternal(c.Pose(), s.now) {
			t.Fatalf("frame %d: controller's own write flagged as external", i)
		}
	}
	if c.Mode() == ModeUserControlled {
		t.Error("controller should not have handed control to the user")
	}
}

func TestRequestQueuedDuringUserControl(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())
	s := &sim{c: c}

	c.PointerDown(s.now)
	if err := c.JumpToPreset("ridge"); err != nil {
		t.Fatal(err)
	}
	s.step(60)
	if c.Pose() != initialPose() {
		t.Error("preset must not be applied while user is in control")
	}

	c.PointerUp(s.now)
	s.step(70)
	if c.Mode() != ModeTransitioning {
		t.Fatalf("expected transitioning toward queued preset, got %s", c.Mode())
	}

	s.step(600)
	if c.Mode() != ModeAutomated {
		t.Errorf("expected automated after arrival, got %s", c.Mode())
	}
	want := r3.Vec{X: 90, Y: 45, Z: -40}
	if d := geom.Distance(c.Pose().Position, want); d > 0.05 {
		t.Errorf("expected to arrive at preset, %f away", d)
	}
	// Exponential approach at rate 2.5 from ~200 units away moves < 9 units per frame
	if s.maxJump > 9 {
		t.Errorf("per-frame jump %f too large for smooth approach", s.maxJump)
	}
}

func TestStopClearsResumeAndQueue(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())
	s := &sim{c: c}

	c.PointerDown(s.now)
	if err := c.JumpToPreset("ridge"); err != nil {
		t.Fatal(err)
	}
	c.PointerUp(s.now)
	c.Stop()
	if c.ResumePending() {
		t.Error("expected no pending resume after Stop")
	}

	s.step(120)
	if c.Mode() != ModeUserControlled {
		t.Errorf("expected mode to stay user controlled, got %s", c.Mode())
	}
	if c.Pose() != initialPose() {
		t.Error("expected pose unchanged after Stop")
	}
}

func TestLerpIsFrameRateIndependent(t *testing.T) {
	a := New(testConfig(), time.Second, initialPose())
	b := New(testConfig(), time.Second, initialPose())
	a.JumpToPreset("ridge")
	b.JumpToPreset("ridge")

	for i := 0; i < 60; i++ {
		a.Update(1.0/60.0, 0)
	}
	for i := 0; i < 30; i++ {
		b.Update(1.0/30.0, 0)
	}
	if d := geom.Distance(a.Pose().Position, b.Pose().Position); d > 1e-6 {
		t.Errorf("60fps and 30fps diverged by %f", d)
	}
}

func TestUnknownPreset(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())
	if err := c.JumpToPreset("nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestDriveTransitionRejectedDuringUserControl(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())
	final := Pose{Position: r3.Vec{X: 10, Y: 10, Z: 10}}

	if !c.DriveTransition(Pose{Position: r3.Vec{Y: 59, Z: 139}}) {
		t.Fatal("expected drive to be accepted in automated mode")
	}
	if c.Mode() != ModeTransitioning || !c.Driven() {
		t.Fatalf("expected driven transitioning, got %s driven=%v", c.Mode(), c.Driven())
	}

	c.PointerDown(0)
	if c.DriveTransition(final) {
		t.Error("drive must be rejected during user control")
	}
	c.EndTransition(final)
	if c.Pose().Position == final.Position {
		t.Error("end of transition must not move a user-controlled camera")
	}
	if st := c.State(); st.TargetPosition != final.Position {
		t.Errorf("expected final pose queued as target, got %v", st.TargetPosition)
	}
}

func TestEndTransitionLandsExactly(t *testing.T) {
	c := New(testConfig(), time.Second, initialPose())
	final := Pose{Position: r3.Vec{X: 10, Y: 10, Z: 10}, LookAt: r3.Vec{X: 1}}
	c.DriveTransition(Pose{Position: r3.Vec{X: 9, Y: 10, Z: 10}})
	c.Update(frameDT, 0) // driven transitions are not lerped by the controller
	c.EndTransition(final)
	if c.Pose() != final {
		t.Errorf("expected exact final pose, got %+v", c.Pose())
	}
	if c.Mode() != ModeAutomated {
		t.Errorf("expected automated, got %s", c.Mode())
	}
}

func TestIdleSwayStartsAtZero(t *testing.T) {
	cfg := testConfig()
	cfg.IdleSway = 2
	cfg.IdleSwayPeriod = 10
	c := New(cfg, time.Second, initialPose())

	c.Update(frameDT, 0)
	if d := geom.Distance(c.Pose().LookAt, r3.Vec{}); d > 0.01 {
		t.Errorf("look-at moved %f on first frame", d)
	}
	for i := 0; i < 150; i++ {
		c.Update(frameDT, 0)
	}
	if d := geom.Distance(c.Pose().LookAt, r3.Vec{}); d < 0.5 {
		t.Errorf("expected look-at to sway, moved only %f", d)
	}
}

func TestOrbitAttachRoundtrip(t *testing.T) {
	o := NewOrbitControls(testConfig())
	p := Pose{Position: r3.Vec{X: 30, Y: 40, Z: 100}, LookAt: r3.Vec{X: 5, Y: 1, Z: -2}}
	o.Attach(p)
	got := o.Pose()
	if d := geom.Distance(got.Position, p.Position); d > 1e-9 {
		t.Errorf("roundtrip position off by %f", d)
	}

	r0 := r3.Norm(r3.Sub(got.Position, got.LookAt))
	o.Zoom(1)
	r1 := r3.Norm(r3.Sub(o.Pose().Position, o.Pose().LookAt))
	if math.Abs(r1-r0*0.9) > 1e-9 {
		t.Errorf("expected radius %f after zoom, got %f", r0*0.9, r1)
	}
}

func TestOrbitDampingSettles(t *testing.T) {
	o := NewOrbitControls(testConfig())
	o.Attach(initialPose())
	o.Rotate(20, 5)
	moving := 0
	for i := 0; i < 600; i++ {
		if o.Update(frameDT) {
			moving++
		}
	}
	if moving == 0 {
		t.Error("expected residual motion after rotate")
	}
	if o.Update(frameDT) {
		t.Error("expected damping to settle within 10s")
	}
}
