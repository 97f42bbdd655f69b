package ui

import (
	"testing"
	"time"

	"github.com/pthm-cable/spirittrails/scene"
	"github.com/pthm-cable/spirittrails/telemetry"
)

func field(t *testing.T, p PanelDescriptor, id string) FieldDescriptor {
	t.Helper()
	for _, sd := range p.Sections {
		for _, fd := range sd.Fields {
			if fd.ID == id {
				return fd
			}
		}
	}
	t.Fatalf("field %q not found", id)
	return FieldDescriptor{}
}

func TestDebugPanelFormatsCounts(t *testing.T) {
	p := DebugPanel(120, 45)
	info := scene.DebugInfo{
		Latest:      telemetry.Sample{FPS: 59.5, DrawCalls: 1234},
		MeanFPS:     58,
		Agents:      3,
		Connections: 1,
		Particles:   25000,
	}

	if got := field(t, p, "draws").TextGetter(info); got != "1,234" {
		t.Errorf("expected 1,234, got %q", got)
	}
	if got := field(t, p, "particles").TextGetter(info); got != "25,000" {
		t.Errorf("expected 25,000, got %q", got)
	}
	if got := field(t, p, "agents").TextGetter(info); got != "3 (1 links)" {
		t.Errorf("expected agents text, got %q", got)
	}
	if got := field(t, p, "fps").TextGetter(info); got != "59.5 / mean 58.0" {
		t.Errorf("expected fps text, got %q", got)
	}
}

func TestDebugPanelVisibility(t *testing.T) {
	p := DebugPanel(120, 45)
	tr := field(t, p, "transition")
	if tr.Visible(scene.DebugInfo{Transition: 1}) {
		t.Error("expected transition bar hidden when idle")
	}
	if !tr.Visible(scene.DebugInfo{Transition: 0.4}) {
		t.Error("expected transition bar visible while running")
	}
	if field(t, p, "pending").Visible(scene.DebugInfo{}) {
		t.Error("expected pending hidden at zero")
	}
}

func TestFPSSeries(t *testing.T) {
	samples := []telemetry.Sample{{FPS: 30}, {FPS: 60}, {FPS: 45}}
	got := fpsSeries(samples)
	if len(got) != 3 || got[0] != 30 || got[2] != 45 {
		t.Errorf("expected oldest-first series, got %v", got)
	}
}

func TestTopPhases(t *testing.T) {
	p := telemetry.PerfStats{
		AvgFrame: time.Millisecond,
		PhasePct: map[string]float64{"trails": 40, "graph": 10, "camera": 50},
	}
	if got := topPhases(p, 2); got != "camera 50% trails 40%" {
		t.Errorf("expected two largest phases, got %q", got)
	}
}

func TestOverlayKeepsLatest(t *testing.T) {
	o := NewDebugOverlay(120, 45)
	o.Debug(scene.DebugInfo{Frame: 7})
	if o.Latest().Frame != 7 {
		t.Errorf("expected frame 7, got %d", o.Latest().Frame)
	}
	if o.IsVisible() {
		t.Error("expected overlay hidden by default")
	}
	if !o.Toggle() {
		t.Error("expected toggle to show overlay")
	}
}

func TestSectionHeightSkipsHiddenFields(t *testing.T) {
	r := NewRenderer()
	sd := SectionDescriptor{
		Title: "S",
		Fields: []FieldDescriptor{
			{Widget: WidgetText},
			{Widget: WidgetSparkline},
			{Widget: WidgetBar, Visible: func(any) bool { return false }},
		},
	}
	want := r.Theme.LineHeight + r.Theme.LineHeight + r.Theme.SparkHeight + 4 + sectionGap
	if got := r.SectionHeight(sd, nil); got != want {
		t.Errorf("expected %d, got %d", want, got)
	}

	sd.Visible = func(any) bool { return false }
	if got := r.SectionHeight(sd, nil); got != 0 {
		t.Errorf("expected hidden section to take no space, got %d", got)
	}
}
