// Package components defines ECS components for scene wildlife.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Position represents an entity's world position.
type Position struct {
	r3.Vec
}

// Heading is the facing angle around the up axis, in radians.
type Heading struct {
	Yaw float64
}

// CreatureKind distinguishes moving wildlife.
type CreatureKind uint8

const (
	KindBird   CreatureKind = iota // circles above the terrain
	KindGrazer                     // walks on the ground
)

func (k CreatureKind) String() string {
	if k == KindBird {
		return "bird"
	}
	return "grazer"
}

// Wander holds the wander behaviour around a home point.
type Wander struct {
	Home     r3.Vec
	Radius   float64
	Speed    float64
	Altitude float64 // height above ground, 0 for walkers
	Phase    float64 // noise offset so neighbours turn differently
}

// Creature holds creature-specific data.
type Creature struct {
	Kind CreatureKind
	Size float64
}

// FloraKind distinguishes static vegetation.
type FloraKind uint8

const (
	FloraPine FloraKind = iota
	FloraBroadleaf
	FloraShrub
)

// Flora is a static plant.
type Flora struct {
	Kind   FloraKind
	Height float64
	Radius float64
}

// Visibility is rewritten each frame from the culler.
type Visibility struct {
	Visible bool
	Detail  uint8 // 0 high, 1 medium, 2 low
}
