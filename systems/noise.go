package systems

import "github.com/ojrac/opensimplex-go"

// Noise is a seeded coherent noise source with values in [0,1].
type Noise struct {
	src opensimplex.Noise
}

// NewNoise creates a normalized simplex noise source.
func NewNoise(seed int64) *Noise {
	return &Noise{src: opensimplex.NewNormalized(seed)}
}

// At returns noise at a 2D coordinate.
func (n *Noise) At(x, y float64) float64 {
	return n.src.Eval2(x, y)
}

// At3 returns noise at a 3D coordinate.
func (n *Noise) At3(x, y, z float64) float64 {
	return n.src.Eval3(x, y, z)
}

// Signed returns noise remapped to [-1,1].
func (n *Noise) Signed(x, y float64) float64 {
	return n.src.Eval2(x, y)*2 - 1
}

// Octaves sums octaves of noise, doubling frequency and scaling amplitude by persistence
// each octave. The result stays in [0,1].
func (n *Noise) Octaves(x, y float64, octaves int, frequency, persistence float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += n.src.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
