package scene

import (
	"github.com/pthm-cable/spirittrails/camera"
	"github.com/pthm-cable/spirittrails/geom"
	"github.com/pthm-cable/spirittrails/proximity"
	"github.com/pthm-cable/spirittrails/systems"
	"github.com/pthm-cable/spirittrails/trails"
)

// SetAgents replaces the agent snapshot read by the next frame. The slice is copied.
func (s *Scene) SetAgents(agents []proximity.Agent) error {
	if s.disposed {
		return ErrDisposed
	}
	s.agents = append(s.agents[:0], agents...)
	return nil
}

// SetEvents replaces the event snapshot read by the next frame. The slice is copied.
func (s *Scene) SetEvents(events []trails.Event) error {
	if s.disposed {
		return ErrDisposed
	}
	s.events = append(s.events[:0], events...)
	return nil
}

// SetWeather switches the particle emitters.
func (s *Scene) SetWeather(weather, region string) error {
	if s.disposed {
		return ErrDisposed
	}
	w, err := systems.ParseWeather(weather)
	if err != nil {
		return err
	}
	r, err := systems.ParseRegion(region)
	if err != nil {
		return err
	}
	if cw, cr := s.particles.Weather(); cw == w && cr == r {
		return nil
	}
	s.particles.SetWeather(w, r)
	s.particles.SetDensity(s.settings.ParticleDensity)
	s.logger.Info("weather changed", "weather", weather, "region", region, "particles", s.particles.ActiveCount())
	return nil
}

// SetSection starts a transition to the named section.
func (s *Scene) SetSection(name string) error {
	if s.disposed {
		return ErrDisposed
	}
	return s.transitions.Begin(name)
}

// JumpToPreset eases the camera to a named preset.
func (s *Scene) JumpToPreset(name string) error {
	if s.disposed {
		return ErrDisposed
	}
	if err := s.cam.JumpToPreset(name); err != nil {
		return err
	}
	s.transitions.Cancel()
	return nil
}

// PointerDown hands the camera to the user.
func (s *Scene) PointerDown() {
	if s.disposed {
		return
	}
	s.cam.PointerDown(s.now)
}

// PointerUp arms the camera's resume timer.
func (s *Scene) PointerUp() {
	if s.disposed {
		return
	}
	s.cam.PointerUp(s.now)
}

// SyncCamera reports the pose after host-side orbit controls ran. It returns true if the
// pose was an external move.
func (s *Scene) SyncCamera(p camera.Pose) bool {
	if s.disposed {
		return false
	}
	return s.cam.SyncExternal(p, s.now)
}

// Hover updates the hovered beacon and fires OnInteraction when a new beacon is entered.
func (s *Scene) Hover(ray geom.Ray) {
	if s.disposed {
		return
	}
	if in, ok := s.trails.Hover(ray); ok {
		s.emit(in)
	}
}

// ClearHover forgets the hovered beacon.
func (s *Scene) ClearHover() {
	if s.disposed {
		return
	}
	s.trails.ClearHover()
}

// Click fires OnInteraction if the ray hits a beacon.
func (s *Scene) Click(ray geom.Ray) {
	if s.disposed {
		return
	}
	if in, ok := s.trails.Click(ray); ok {
		s.emit(in)
	}
}

func (s *Scene) emit(in trails.Interaction) {
	s.logger.Debug("beacon interaction", "kind", string(in.Kind), "event", in.Event.ID)
	if s.onInteraction != nil {
		s.onInteraction(in)
	}
}
