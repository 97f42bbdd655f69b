package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/systems"
)

// cubeThreshold is the particle size above which a particle is drawn as a cube.
const cubeThreshold = 0.2

// ParticleRenderer renders weather particles.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders the active particles of every emitter. Particles fade in over their last
// quarter of life and small ones are drawn as points.
func (r *ParticleRenderer) Draw(emitters []*systems.Emitter, env environment, c *counters) {
	for _, e := range emitters {
		particles := e.Particles()
		if len(particles) == 0 {
			continue
		}
		rain := e.Type() == systems.EmitterRain
		tris := 0
		for i := range particles {
			p := &particles[i]

			alpha := 0.8
			if life := p.Life(); life < 0.25 {
				alpha *= life * 4
			}
			col := rgba(env.shade(p.Color, p.Position), alpha)
			pos := vec3(p.Position)

			switch {
			case rain:
				// Streak along the velocity
				tail := rl.Vector3Subtract(pos, rl.Vector3Scale(vec3(p.Velocity), 0.02))
				rl.DrawLine3D(pos, tail, col)
			case p.Size > cubeThreshold:
				s := float32(p.Size)
				rl.DrawCube(pos, s, s, s, col)
				tris += 12
			default:
				rl.DrawPoint3D(pos, col)
			}
		}
		c.add(1, tris)
	}
}
