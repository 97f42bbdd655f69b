package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	spacerHeight = 6
	sectionGap   = 4
)

// Renderer draws widgets with one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section title and returns the next Y.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

func (r *Renderer) drawLabel(x, y int32, label string) {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
}

// DrawLabelValue draws "label: value" on one line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	r.drawLabel(x, y, label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a [0, 1] fill bar with its value on the right.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	value = min(max(value, 0), 1)
	bx := x + r.Theme.LabelWidth
	bw := width - r.Theme.LabelWidth - 40

	r.drawLabel(x, y, label)
	rl.DrawRectangle(bx, y+2, bw, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(bx, y+2, int32(float32(bw)*value), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf("%3.0f%%", value*100), bx+bw+4, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight + 2
}

// DrawSparkline draws values as a polyline scaled to [lo, hi], with a reference line at
// mark when mark lies inside the range.
func (r *Renderer) DrawSparkline(x, y int32, label string, values []float32, lo, hi, mark float32, width int32) int32 {
	gx := x + r.Theme.LabelWidth
	gw := width - r.Theme.LabelWidth
	gh := r.Theme.SparkHeight
	next := y + gh + 4

	r.drawLabel(x, y, label)
	rl.DrawRectangle(gx, y, gw, gh, r.Theme.BarBg)
	if hi <= lo {
		return next
	}

	toY := func(v float32) float32 {
		t := min(max((v-lo)/(hi-lo), 0), 1)
		return float32(y+gh) - t*float32(gh)
	}
	if mark > lo && mark < hi {
		my := int32(toY(mark))
		rl.DrawLine(gx, my, gx+gw, my, r.Theme.TargetLine)
	}
	if len(values) > 1 {
		step := float32(gw) / float32(len(values)-1)
		prev := rl.NewVector2(float32(gx), toY(values[0]))
		for i := 1; i < len(values); i++ {
			cur := rl.NewVector2(float32(gx)+step*float32(i), toY(values[i]))
			rl.DrawLineV(prev, cur, r.Theme.SparkLine)
			prev = cur
		}
	}
	if n := len(values); n > 0 {
		rl.DrawText(fmt.Sprintf("%.0f", values[n-1]), gx+gw-24, y+2, r.Theme.FontSize, r.Theme.ValueColor)
	}
	return next
}

// FieldHeight returns the vertical space DrawField uses for fd.
func (r *Renderer) FieldHeight(fd FieldDescriptor) int32 {
	switch fd.Widget {
	case WidgetBar:
		return r.Theme.LineHeight + 2
	case WidgetSparkline:
		return r.Theme.SparkHeight + 4
	case WidgetSpacer:
		return spacerHeight
	}
	return r.Theme.LineHeight
}

// SectionHeight returns the vertical space DrawSection uses for sd with data.
func (r *Renderer) SectionHeight(sd SectionDescriptor, data any) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return 0
	}
	h := int32(sectionGap)
	if sd.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		if fd.Visible == nil || fd.Visible(data) {
			h += r.FieldHeight(fd)
		}
	}
	return h
}

// DrawField renders one field and returns the next Y.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		var text string
		switch {
		case fd.TextGetter != nil:
			text = fd.TextGetter(data)
		case fd.Getter != nil:
			text = fmt.Sprintf(fd.Format, fd.Getter(data))
		}
		return r.DrawLabelValue(x, y, fd.Label, text)

	case WidgetBar:
		var v float32
		if fd.Getter != nil {
			v = fd.Getter(data)
		}
		return r.DrawBar(x, y, fd.Label, v, width)

	case WidgetSparkline:
		var values []float32
		if fd.SeriesGetter != nil {
			values = fd.SeriesGetter(data)
		}
		var mark float32
		if fd.Getter != nil {
			mark = fd.Getter(data)
		}
		return r.DrawSparkline(x, y, fd.Label, values, fd.Range.Min, fd.Range.Max, mark, width)

	case WidgetSection:
		return r.DrawSectionHeader(x, y, fd.Label)

	case WidgetSpacer:
		return y + spacerHeight
	}
	return y
}

// DrawSection renders a titled group of fields, skipping hidden ones.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if sd.Visible != nil && !sd.Visible(data) {
		return y
	}
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		if fd.Visible != nil && !fd.Visible(data) {
			continue
		}
		y = r.DrawField(x, y, fd, data, width)
	}
	return y + sectionGap
}
