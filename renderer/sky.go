package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/geom"
)

// SkyRenderer renders a vertical gradient from the fog colour at the horizon to an
// ambient-tinted zenith.
type SkyRenderer struct {
	shader        rl.Shader
	resolutionLoc int32
	zenithLoc     int32
	horizonLoc    int32
	timeLoc       int32

	screenW, screenH float32
	initialized      bool
}

// NewSkyRenderer creates a new sky renderer.
func NewSkyRenderer() *SkyRenderer {
	return &SkyRenderer{}
}

// Init initializes the renderer (must be called after raylib window is created).
func (s *SkyRenderer) Init() error {
	if s.initialized {
		return nil
	}
	shader, err := loadShader("", "sky.fs")
	if err != nil {
		return err
	}
	s.shader = shader
	s.resolutionLoc = rl.GetShaderLocation(s.shader, "resolution")
	s.zenithLoc = rl.GetShaderLocation(s.shader, "zenith")
	s.horizonLoc = rl.GetShaderLocation(s.shader, "horizon")
	s.timeLoc = rl.GetShaderLocation(s.shader, "time")
	s.initialized = true
	return nil
}

// Resize updates the target dimensions.
func (s *SkyRenderer) Resize(w, h int32) {
	s.screenW, s.screenH = float32(w), float32(h)
}

// Draw renders the sky over the whole target.
func (s *SkyRenderer) Draw(env environment, c *counters) {
	if !s.initialized {
		return
	}
	zenith := geom.RGB{R: 0.25, G: 0.4, B: 0.65}.Mul(env.ambient)
	horizon := geom.LerpRGB(geom.RGB{R: 0.75, G: 0.8, B: 0.85}.Mul(env.ambient), env.fog.Color, geom.Clamp(env.fog.Density*100, 0, 1))

	rl.BeginShaderMode(s.shader)
	rl.SetShaderValue(s.shader, s.resolutionLoc, []float32{s.screenW, s.screenH}, rl.ShaderUniformVec2)
	setVec3(s.shader, s.zenithLoc, zenith.Array32())
	setVec3(s.shader, s.horizonLoc, horizon.Array32())
	setFloat(s.shader, s.timeLoc, env.time)
	rl.DrawRectangle(0, 0, int32(s.screenW), int32(s.screenH), rl.White)
	rl.EndShaderMode()
	c.add(1, 2)
}

// Unload frees resources.
func (s *SkyRenderer) Unload() {
	if s.initialized {
		rl.UnloadShader(s.shader)
		s.initialized = false
	}
}
