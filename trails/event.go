package trails

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Category classifies an event and selects its beacon colour.
type Category uint8

const (
	CategoryCommunity Category = iota
	CategoryEmergency
	CategoryCultural
	CategoryAgricultural
)

var categoryNames = [...]string{"community", "emergency", "cultural", "agricultural"}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// ParseCategory parses a category name.
func ParseCategory(s string) (Category, error) {
	for i, n := range categoryNames {
		if n == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event category %q", s)
}

// Priority selects a beacon's pulse speed and intensity.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = [...]string{"low", "medium", "high"}

func (p Priority) String() string {
	if int(p) < len(priorityNames) {
		return priorityNames[p]
	}
	return "unknown"
}

// ParsePriority parses a priority name.
func ParsePriority(s string) (Priority, error) {
	for i, n := range priorityNames {
		if n == s {
			return Priority(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event priority %q", s)
}

// Event is a world event shown as a pulsing beacon.
type Event struct {
	ID       string
	Position r3.Vec
	Category Category
	Priority Priority
}
