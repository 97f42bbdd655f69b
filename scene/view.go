package scene

import (
	"github.com/pthm-cable/spirittrails/camera"
	"github.com/pthm-cable/spirittrails/culling"
	"github.com/pthm-cable/spirittrails/geom"
	"github.com/pthm-cable/spirittrails/quality"
	"github.com/pthm-cable/spirittrails/systems"
	"github.com/pthm-cable/spirittrails/trails"
	"github.com/pthm-cable/spirittrails/transition"
)

// View is everything the renderer needs for one frame. Slices alias scene buffers and are
// valid until the next Frame.
type View struct {
	Camera         camera.Pose
	ViewProjection culling.Mat4
	Ambient        geom.RGB
	Fog            transition.Fog
	Trails         *trails.Frame
	Emitters       []*systems.Emitter
	Wildlife       []systems.Instance
	Terrain        *systems.HeightGrid
	Tier           quality.Tier
	Settings       quality.Settings
	Time           float64
}

// View returns the state of the last frame for drawing.
func (s *Scene) View() View {
	if !s.initialized || s.disposed {
		return View{}
	}
	return View{
		Camera:         s.cam.Pose(),
		ViewProjection: s.culler.ViewProjection(),
		Ambient:        s.transitions.Ambient(),
		Fog:            s.transitions.Fog(),
		Trails:         s.trailFrame,
		Emitters:       s.particles.Emitters(),
		Wildlife:       s.instances,
		Terrain:        s.terrain.Grid(s.settings.TerrainResolution),
		Tier:           s.governor.Tier(),
		Settings:       s.settings,
		Time:           s.now.Seconds(),
	}
}
