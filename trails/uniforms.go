package trails

import (
	"github.com/chewxy/math32"

	"github.com/pthm-cable/spirittrails/config"
)

// LineUniforms feeds the trail line shader. Field order matches the uniform declarations
// in the shader source; the renderer caches one location per field.
type LineUniforms struct {
	Time         float32
	FadeDistance float32
	PulseSpeed   float32
	PulseDepth   float32
	Opacity      float32
	Color        [3]float32
}

// NewLineUniforms builds line uniforms from trail config at scene time t.
func NewLineUniforms(cfg config.TrailsConfig, t float64) LineUniforms {
	return LineUniforms{
		Time:         float32(t),
		FadeDistance: float32(cfg.FadeDistance),
		PulseSpeed:   float32(cfg.PulseSpeed),
		PulseDepth:   float32(cfg.PulseDepth),
		Opacity:      float32(cfg.Opacity),
		Color:        cfg.Color.Array32(),
	}
}

// Pulse is the time-varying alpha multiplier, in [1-PulseDepth, 1].
func (u LineUniforms) Pulse() float32 {
	return 1 - u.PulseDepth*0.5*(1-math32.Sin(u.Time*u.PulseSpeed))
}

// TrailAlpha mirrors the line fragment shader: alpha fades out with distance from the
// trail start and pulses over time.
func TrailAlpha(u LineUniforms, distanceFromStart float32) float32 {
	fade := 1 - smoothstep32(0, u.FadeDistance, distanceFromStart)
	return fade * u.Pulse() * u.Opacity
}

// BeaconUniforms feeds the beacon shader for one beacon draw.
type BeaconUniforms struct {
	Time           float32
	PulseSpeed     float32
	PulseIntensity float32
	FresnelPower   float32
	Hover          float32 // 1 when idle, HoverBoost while hovered
	Color          [3]float32
}

// Scale mirrors the beacon vertex shader's radial pulse.
func (u BeaconUniforms) Scale() float32 {
	return 1 + u.PulseIntensity*math32.Sin(u.Time*u.PulseSpeed)
}

// Rim mirrors the beacon fragment shader's Fresnel term for a surface whose normal makes
// cosine nDotV with the view direction. Silhouettes (nDotV near 0) glow brightest.
func (u BeaconUniforms) Rim(nDotV float32) float32 {
	f := math32.Pow(1-math32.Abs(nDotV), u.FresnelPower)
	return f * u.Hover
}

func smoothstep32(edge0, edge1, x float32) float32 {
	if edge1 <= edge0 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	t = math32.Max(0, math32.Min(1, t))
	return t * t * (3 - 2*t)
}
