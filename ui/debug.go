package ui

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/spirittrails/scene"
	"github.com/pthm-cable/spirittrails/telemetry"
)

func info(data any) scene.DebugInfo {
	d, _ := data.(scene.DebugInfo)
	return d
}

// fpsSeries returns the FPS of each retained sample, oldest first.
func fpsSeries(samples []telemetry.Sample) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s.FPS)
	}
	return out
}

// topPhases formats the n most expensive frame phases.
func topPhases(p telemetry.PerfStats, n int) string {
	names := make([]string, 0, len(p.PhasePct))
	for name := range p.PhasePct {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if p.PhasePct[names[i]] != p.PhasePct[names[j]] {
			return p.PhasePct[names[i]] > p.PhasePct[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	s := ""
	for i, name := range names {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s %.0f%%", name, p.PhasePct[name])
	}
	return s
}

// DebugPanel describes the scene debug readout. maxFPS sets the sparkline ceiling and
// lowerFPS marks the governor's lower threshold on it.
func DebugPanel(maxFPS, lowerFPS float32) PanelDescriptor {
	return PanelDescriptor{
		ID:    "debug",
		Title: "SCENE",
		Width: 280,
		Sections: []SectionDescriptor{
			{
				ID:    "quality",
				Title: "Quality",
				Fields: []FieldDescriptor{
					{ID: "tier", Label: "Tier", Widget: WidgetText, TextGetter: func(d any) string {
						i := info(d)
						mode := "auto"
						if !i.Adaptive {
							mode = "manual"
						}
						return fmt.Sprintf("%s (%s)", i.Tier, mode)
					}},
					{ID: "fps", Label: "FPS", Widget: WidgetText, TextGetter: func(d any) string {
						i := info(d)
						return fmt.Sprintf("%.1f / mean %.1f", i.Latest.FPS, i.MeanFPS)
					}},
					{ID: "history", Label: "History", Widget: WidgetSparkline,
						Range:        FieldRange{Min: 0, Max: maxFPS},
						Getter:       func(any) float32 { return lowerFPS },
						SeriesGetter: func(d any) []float32 { return fpsSeries(info(d).Samples) },
					},
					{ID: "pending", Label: "Pending", Widget: WidgetText, Format: "%.0f",
						Getter:  func(d any) float32 { return float32(info(d).Pending) },
						Visible: func(d any) bool { return info(d).Pending != 0 },
					},
					{ID: "draws", Label: "Draw calls", Widget: WidgetText, TextGetter: func(d any) string {
						return humanize.Comma(int64(info(d).Latest.DrawCalls))
					}},
					{ID: "tris", Label: "Triangles", Widget: WidgetText, TextGetter: func(d any) string {
						return humanize.SIWithDigits(float64(info(d).Latest.Triangles), 1, "")
					}},
				},
			},
			{
				ID:    "frame",
				Title: "Frame",
				Fields: []FieldDescriptor{
					{ID: "avg", Label: "CPU avg", Widget: WidgetText, TextGetter: func(d any) string {
						return info(d).Perf.AvgFrame.String()
					}},
					{ID: "phases", Label: "Top", Widget: WidgetText, TextGetter: func(d any) string {
						return topPhases(info(d).Perf, 2)
					}},
				},
			},
			{
				ID:    "camera",
				Title: "Camera",
				Fields: []FieldDescriptor{
					{ID: "mode", Label: "Mode", Widget: WidgetText, TextGetter: func(d any) string {
						return info(d).CameraMode.String()
					}},
					{ID: "section", Label: "Section", Widget: WidgetText, TextGetter: func(d any) string {
						return info(d).Section
					}},
					{ID: "transition", Label: "Transition", Widget: WidgetBar,
						Getter:  func(d any) float32 { return float32(info(d).Transition) },
						Visible: func(d any) bool { return info(d).Transition < 1 },
					},
				},
			},
			{
				ID:    "content",
				Title: "Content",
				Fields: []FieldDescriptor{
					{ID: "agents", Label: "Agents", Widget: WidgetText, TextGetter: func(d any) string {
						i := info(d)
						return fmt.Sprintf("%d (%d links)", i.Agents, i.Connections)
					}},
					{ID: "trails", Label: "Trails", Widget: WidgetText, TextGetter: func(d any) string {
						i := info(d)
						return fmt.Sprintf("%d / %d beacons", i.Trails, i.Beacons)
					}},
					{ID: "culled", Label: "Culled", Widget: WidgetText, TextGetter: func(d any) string {
						c := info(d).Culled
						return fmt.Sprintf("%d of %d", c.Culled, c.Tested)
					}},
					{ID: "particles", Label: "Particles", Widget: WidgetText, TextGetter: func(d any) string {
						return humanize.Comma(int64(info(d).Particles))
					}},
					{ID: "wildlife", Label: "Wildlife", Widget: WidgetText, TextGetter: func(d any) string {
						w := info(d).Wildlife
						return fmt.Sprintf("%d vis H%d M%d L%d", w.Visible, w.ByLOD[0], w.ByLOD[1], w.ByLOD[2])
					}},
				},
			},
		},
	}
}

// DebugOverlay keeps the latest scene snapshot and draws it with the toggle controls.
// It implements scene.DebugSink.
type DebugOverlay struct {
	renderer *Renderer
	panel    PanelDescriptor
	controls *ControlsPanel
	latest   scene.DebugInfo
	visible  bool
}

// NewDebugOverlay creates a hidden overlay.
func NewDebugOverlay(maxFPS, lowerFPS float32) *DebugOverlay {
	return &DebugOverlay{
		renderer: NewRenderer(),
		panel:    DebugPanel(maxFPS, lowerFPS),
		controls: NewControlsPanel(),
	}
}

// Debug implements scene.DebugSink.
func (o *DebugOverlay) Debug(i scene.DebugInfo) {
	o.latest = i
}

// Latest returns the last received snapshot.
func (o *DebugOverlay) Latest() scene.DebugInfo {
	return o.latest
}

// Toggle switches visibility.
func (o *DebugOverlay) Toggle() bool {
	o.visible = !o.visible
	return o.visible
}

// IsVisible reports whether the overlay is drawn.
func (o *DebugOverlay) IsVisible() bool {
	return o.visible
}

// Draw renders the readout panel in the top-right corner and the controls under it.
func (o *DebugOverlay) Draw(screenW int32, ctrl scene.DebugControls) {
	if !o.visible {
		return
	}
	r := o.renderer
	x := screenW - o.panel.Width - r.Theme.Padding
	y := r.Theme.Padding
	h := o.panelHeight()

	r.DrawPanel(x, y, o.panel.Width, h)
	cy := r.DrawSectionHeader(x+r.Theme.Padding, y+r.Theme.Padding, o.panel.Title)
	inner := o.panel.Width - 2*r.Theme.Padding
	for _, sd := range o.panel.Sections {
		cy = r.DrawSection(x+r.Theme.Padding, cy, sd, o.latest, inner)
	}

	o.controls.Draw(x, y+h+r.Theme.Padding, o.panel.Width, o.latest, ctrl)
}

// panelHeight sums the heights of the visible sections.
func (o *DebugOverlay) panelHeight() int32 {
	r := o.renderer
	h := 2*r.Theme.Padding + r.Theme.LineHeight
	for _, sd := range o.panel.Sections {
		h += r.SectionHeight(sd, o.latest)
	}
	return h
}
