package geom

// RGB is a linear colour with components in [0, 1].
type RGB struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
}

// LerpRGB interpolates between two colours.
func LerpRGB(a, b RGB, t float64) RGB {
	return RGB{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// Scale multiplies every channel by f.
func (c RGB) Scale(f float64) RGB {
	return RGB{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Mul multiplies two colours channel-wise (used for ambient tinting).
func (c RGB) Mul(o RGB) RGB {
	return RGB{R: c.R * o.R, G: c.G * o.G, B: c.B * o.B}
}

// Bytes returns the colour as 8-bit channels, clamped.
func (c RGB) Bytes() (r, g, b uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

// Array32 returns the colour as a float32 triple for shader uniforms.
func (c RGB) Array32() [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

func toByte(v float64) uint8 {
	v = Clamp(v, 0, 1)
	return uint8(v*255 + 0.5)
}
