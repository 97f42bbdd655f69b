package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/trails"
)

type beaconLocs struct {
	center, time, pulseSpeed, pulseIntensity int32
	viewPos, color, fresnelPower, hover      int32
}

// BeaconRenderer draws event beacons as pulsing spheres with a Fresnel rim.
type BeaconRenderer struct {
	shader rl.Shader
	locs   beaconLocs
	rings  int
	loaded bool
}

// NewBeaconRenderer creates a beacon renderer.
func NewBeaconRenderer() *BeaconRenderer {
	return &BeaconRenderer{rings: 16}
}

// Init compiles the shader (must be called after the raylib window is created).
func (r *BeaconRenderer) Init() error {
	if r.loaded {
		return nil
	}
	shader, err := loadShader("beacon.vs", "beacon.fs")
	if err != nil {
		return err
	}
	r.shader = shader
	r.locs = beaconLocs{
		center:         rl.GetShaderLocation(shader, "center"),
		time:           rl.GetShaderLocation(shader, "time"),
		pulseSpeed:     rl.GetShaderLocation(shader, "pulseSpeed"),
		pulseIntensity: rl.GetShaderLocation(shader, "pulseIntensity"),
		viewPos:        rl.GetShaderLocation(shader, "viewPos"),
		color:          rl.GetShaderLocation(shader, "color"),
		fresnelPower:   rl.GetShaderLocation(shader, "fresnelPower"),
		hover:          rl.GetShaderLocation(shader, "hover"),
	}
	r.loaded = true
	return nil
}

// SetRings sets sphere tessellation from the quality tier.
func (r *BeaconRenderer) SetRings(n int) {
	if n >= 4 {
		r.rings = n
	}
}

func (r *BeaconRenderer) bind(b *trails.Beacon) {
	u := b.Uniforms
	setVec3(r.shader, r.locs.center, [3]float32{float32(b.Center.X), float32(b.Center.Y), float32(b.Center.Z)})
	setFloat(r.shader, r.locs.time, u.Time)
	setFloat(r.shader, r.locs.pulseSpeed, u.PulseSpeed)
	setFloat(r.shader, r.locs.pulseIntensity, u.PulseIntensity)
	setFloat(r.shader, r.locs.fresnelPower, u.FresnelPower)
	setFloat(r.shader, r.locs.hover, u.Hover)
	setVec3(r.shader, r.locs.color, u.Color)
}

// Draw renders every beacon in the frame. Uniforms change per beacon, so the batch is
// flushed after each one.
func (r *BeaconRenderer) Draw(f *trails.Frame, env environment, c *counters) {
	if f == nil || !r.loaded || len(f.Beacons) == 0 {
		return
	}
	rl.BeginBlendMode(rl.BlendAlpha)
	rl.BeginShaderMode(r.shader)
	setVec3(r.shader, r.locs.viewPos, [3]float32{float32(env.eye.X), float32(env.eye.Y), float32(env.eye.Z)})
	tris := sphereTriangles(r.rings, r.rings)
	for i := range f.Beacons {
		b := &f.Beacons[i]
		r.bind(b)
		rl.DrawSphereEx(vec3(b.Center), float32(b.Radius), int32(r.rings), int32(r.rings), rl.White)
		rl.DrawRenderBatchActive()
		c.add(1, tris)
	}
	rl.EndShaderMode()
	rl.EndBlendMode()
}

// Unload frees the shader.
func (r *BeaconRenderer) Unload() {
	if !r.loaded {
		return
	}
	rl.UnloadShader(r.shader)
	r.loaded = false
}
