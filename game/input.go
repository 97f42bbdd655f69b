package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/geom"
)

// clickSlop is how far in pixels the pointer may travel between press and release and
// still count as a click rather than a drag.
const clickSlop = 4

var presetKeys = []int32{
	rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive,
	rl.KeySix, rl.KeySeven, rl.KeyEight, rl.KeyNine,
}

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.overlay.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyW) {
		g.cycleWeather()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.nextSection()
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		if err := g.renderer.Reload(); err != nil {
			g.logger.Error("renderer reload failed", "error", err)
		}
	}

	presets := g.scene.Controls().Presets()
	for i, key := range presetKeys {
		if i < len(presets) && rl.IsKeyPressed(key) {
			if err := g.scene.JumpToPreset(presets[i]); err != nil {
				g.logger.Error("preset failed", "preset", presets[i], "error", err)
			}
		}
	}

	g.handlePointer()
}

// nextSection starts a transition to the section after the current one.
func (g *Game) nextSection() {
	ctrl := g.scene.Controls()
	sections := ctrl.Sections()
	if len(sections) == 0 {
		return
	}
	current := g.overlay.Latest().Section
	next := sections[0]
	for i, name := range sections {
		if name == current {
			next = sections[(i+1)%len(sections)]
			break
		}
	}
	if err := ctrl.SetSection(next); err != nil {
		g.logger.Error("section change failed", "section", next, "error", err)
	}
}

// overOverlay reports whether the pointer is over the debug panels.
func (g *Game) overOverlay(p rl.Vector2) bool {
	return g.overlay.IsVisible() && p.X > float32(g.width-300)
}

// handlePointer turns drags into orbit input, and hovers and clicks into beacon picks.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !g.overOverlay(mouse) {
		g.dragging = true
		g.dragStart = mouse
		g.scene.PointerDown()
		g.orbit.Attach(g.scene.Camera().Pose())
	}

	if g.dragging {
		d := rl.GetMouseDelta()
		if d.X != 0 || d.Y != 0 {
			g.orbit.Rotate(float64(d.X), float64(d.Y))
			g.scene.SyncCamera(g.orbit.Pose())
		}
		if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
			g.dragging = false
			g.scene.PointerUp()
			moved := math.Hypot(float64(mouse.X-g.dragStart.X), float64(mouse.Y-g.dragStart.Y))
			if moved <= clickSlop {
				g.orbit.Stop()
				g.scene.Click(g.pickRay(mouse))
			}
		}
		return
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !g.overOverlay(mouse) {
		g.scene.PointerDown()
		g.orbit.Attach(g.scene.Camera().Pose())
		g.orbit.Zoom(float64(wheel))
		g.scene.SyncCamera(g.orbit.Pose())
		g.scene.PointerUp()
	}

	if g.overOverlay(mouse) {
		g.scene.ClearHover()
		return
	}
	g.scene.Hover(g.pickRay(mouse))
}

// pickRay casts a ray from the camera through a screen point.
func (g *Game) pickRay(p rl.Vector2) geom.Ray {
	ray := rl.GetMouseRay(p, g.renderer.Camera(g.scene.View()))
	return geom.Ray{
		Origin: r3.Vec{X: float64(ray.Position.X), Y: float64(ray.Position.Y), Z: float64(ray.Position.Z)},
		Dir:    r3.Vec{X: float64(ray.Direction.X), Y: float64(ray.Direction.Y), Z: float64(ray.Direction.Z)},
	}
}

// handleResize propagates window size changes to the scene and renderer.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == g.width && h == g.height {
		return
	}
	g.width, g.height = w, h
	g.scene.SetAspect(float64(w) / float64(max(h, 1)))
	g.renderer.Resize(w, h)
}
