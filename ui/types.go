// Package ui provides a descriptor-driven developer overlay. Panels are described by
// metadata that reads values out of a data snapshot, so the layout can change alongside
// the scene without touching the drawing code.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText      WidgetType = iota // Plain text with format string
	WidgetBar                         // Progress bar [0, 1]
	WidgetSparkline                   // Recent values as a line graph
	WidgetSection                     // Section header
	WidgetSpacer                      // Vertical spacing
)

// FieldRange defines the value range for bars and sparklines.
type FieldRange struct {
	Min float32
	Max float32
}

// DefaultRange returns a [0, 1] range.
func DefaultRange() FieldRange {
	return FieldRange{Min: 0, Max: 1}
}

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	ID           string
	Label        string
	Widget       WidgetType
	Format       string // Printf format for numeric text
	Range        FieldRange
	Visible      func(any) bool      // nil = always visible
	Getter       func(any) float32   // numeric fields and bars
	TextGetter   func(any) string    // text fields
	SeriesGetter func(any) []float32 // sparklines, oldest first
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	ID      string
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// PanelDescriptor defines a complete panel layout.
type PanelDescriptor struct {
	ID       string
	Title    string
	Sections []SectionDescriptor
	Width    int32
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	SparkLine      rl.Color
	TargetLine     rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	SparkHeight    int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		SparkLine:      rl.Color{R: 120, G: 220, B: 160, A: 255},
		TargetLine:     rl.Color{R: 200, G: 120, B: 80, A: 180},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		SparkHeight:    36,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
