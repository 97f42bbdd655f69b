package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/spirittrails/trails"
)

// lineUniformNames lists the trail program's uniforms in LineUniforms field order.
var lineUniformNames = [...]string{"time", "fadeDistance", "pulseSpeed", "pulseDepth", "opacity", "color"}

// lineLocs caches the trail program's uniform locations.
type lineLocs struct {
	time, fadeDistance, pulseSpeed, pulseDepth, opacity, color int32
}

// TrailRenderer draws trail arcs with the fade and pulse shader and flow particles as points.
type TrailRenderer struct {
	shader rl.Shader
	locs   lineLocs
	verts  []lineVertex
	loaded bool
}

// NewTrailRenderer creates a trail renderer.
func NewTrailRenderer() *TrailRenderer {
	return &TrailRenderer{}
}

// Init compiles the shader (must be called after the raylib window is created).
func (r *TrailRenderer) Init() error {
	if r.loaded {
		return nil
	}
	shader, err := loadShader("trail.vs", "trail.fs")
	if err != nil {
		return err
	}
	r.shader = shader
	var locs [len(lineUniformNames)]int32
	for i, name := range lineUniformNames {
		locs[i] = rl.GetShaderLocation(shader, name)
	}
	r.locs = lineLocs{
		time:         locs[0],
		fadeDistance: locs[1],
		pulseSpeed:   locs[2],
		pulseDepth:   locs[3],
		opacity:      locs[4],
		color:        locs[5],
	}
	r.loaded = true
	return nil
}

func (r *TrailRenderer) bind(u trails.LineUniforms) {
	setFloat(r.shader, r.locs.time, u.Time)
	setFloat(r.shader, r.locs.fadeDistance, u.FadeDistance)
	setFloat(r.shader, r.locs.pulseSpeed, u.PulseSpeed)
	setFloat(r.shader, r.locs.pulseDepth, u.PulseDepth)
	setFloat(r.shader, r.locs.opacity, u.Opacity)
	setVec3(r.shader, r.locs.color, u.Color)
}

// lineVertex is one end of a trail segment with its arc length from the trail start.
type lineVertex struct {
	pos      rl.Vector3
	distance float32
}

// lineVertices expands a trail into segment endpoint pairs. Each vertex keeps its own
// arc length so the shader fades per vertex.
func lineVertices(dst []lineVertex, t *trails.Trail) []lineVertex {
	for k := 0; k+1 < len(t.Points) && k+1 < len(t.Distances); k++ {
		dst = append(dst,
			lineVertex{pos: vec3(t.Points[k]), distance: float32(t.Distances[k])},
			lineVertex{pos: vec3(t.Points[k+1]), distance: float32(t.Distances[k+1])},
		)
	}
	return dst
}

// Draw renders every trail in the frame. Arc length goes to the shader in texcoord.x.
func (r *TrailRenderer) Draw(f *trails.Frame, c *counters) {
	if f == nil || !r.loaded || len(f.Trails) == 0 {
		return
	}
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.BeginShaderMode(r.shader)
	r.bind(f.Line)
	rl.Begin(rl.Lines)
	rl.Color4ub(255, 255, 255, 255)
	for i := range f.Trails {
		r.verts = lineVertices(r.verts[:0], &f.Trails[i])
		for _, v := range r.verts {
			rl.TexCoord2f(v.distance, 0)
			rl.Vertex3f(v.pos.X, v.pos.Y, v.pos.Z)
		}
	}
	rl.End()
	rl.EndShaderMode()

	// Flow particles ride the trail colour without the fade
	col := f.Line.Color
	flow := rl.NewColor(uint8(col[0]*255), uint8(col[1]*255), uint8(col[2]*255), 200)
	for i := range f.Trails {
		for _, p := range f.Trails[i].Flow {
			rl.DrawPoint3D(vec3(p), flow)
		}
	}
	rl.EndBlendMode()
	c.add(2, 0)
}

// Unload frees the shader.
func (r *TrailRenderer) Unload() {
	if !r.loaded {
		return
	}
	rl.UnloadShader(r.shader)
	r.loaded = false
}
