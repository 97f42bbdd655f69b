package ui

import (
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/quality"
	"github.com/pthm-cable/spirittrails/scene"
)

// ControlsPanel draws the developer buttons: forced tier, adaptive toggle, sections and
// camera presets.
type ControlsPanel struct {
	renderer *Renderer
	buttonH  float32
	gap      float32
	err      string
}

// NewControlsPanel creates a controls panel.
func NewControlsPanel() *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		buttonH:  24,
		gap:      4,
	}
}

func toggleText(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}

// Draw renders the panel at (x, y) and applies any button press through ctrl.
func (c *ControlsPanel) Draw(x, y, width int32, latest scene.DebugInfo, ctrl scene.DebugControls) {
	r := c.renderer
	sections := ctrl.Sections()
	presets := ctrl.Presets()

	rows := 3 + len(sections) + len(presets)
	height := int32(float32(rows)*(c.buttonH+c.gap)) + 3*r.Theme.LineHeight + 2*r.Theme.Padding
	r.DrawPanel(x, y, width, height)

	px := float32(x + r.Theme.Padding)
	py := float32(y + r.Theme.Padding)
	inner := float32(width - 2*r.Theme.Padding)

	// Tier row: one button per tier, the current one marked
	bw := (inner - c.gap*float32(len(quality.Tiers)-1)) / float32(len(quality.Tiers))
	for i, t := range quality.Tiers {
		label := strings.ToUpper(t.String())
		if t == latest.Tier {
			label = "[" + label + "]"
		}
		if gui.Button(rl.Rectangle{X: px + float32(i)*(bw+c.gap), Y: py, Width: bw, Height: c.buttonH}, label) {
			ctrl.ForceTier(t)
		}
	}
	py += c.buttonH + c.gap

	if gui.Button(rl.Rectangle{X: px, Y: py, Width: inner, Height: c.buttonH}, toggleText(latest.Adaptive, "Adaptive: on", "Adaptive: off")) {
		ctrl.SetAdaptive(!latest.Adaptive)
	}
	py += c.buttonH + c.gap*2

	py = float32(r.DrawSectionHeader(int32(px), int32(py), "Sections"))
	for _, name := range sections {
		label := name
		if name == latest.Section {
			label = "> " + name
		}
		if gui.Button(rl.Rectangle{X: px, Y: py, Width: inner, Height: c.buttonH}, label) {
			c.report(ctrl.SetSection(name))
		}
		py += c.buttonH + c.gap
	}

	py = float32(r.DrawSectionHeader(int32(px), int32(py), "Presets"))
	for _, name := range presets {
		if gui.Button(rl.Rectangle{X: px, Y: py, Width: inner, Height: c.buttonH}, name) {
			c.report(ctrl.JumpToPreset(name))
		}
		py += c.buttonH + c.gap
	}

	if c.err != "" {
		rl.DrawText(c.err, int32(px), int32(py), r.Theme.FontSize, rl.Red)
	}
}

func (c *ControlsPanel) report(err error) {
	if err != nil {
		c.err = err.Error()
		return
	}
	c.err = ""
}
