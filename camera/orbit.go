package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/spirittrails/config"
	"github.com/pthm-cable/spirittrails/geom"
)

// OrbitControls rotates and zooms a pose around its look-at point from pointer input.
// It stands in for a third-party orbit control library: it only ever mutates its own copy
// of the pose and knows nothing about the Controller. The host reports the result back
// with Controller.SyncExternal.
type OrbitControls struct {
	target r3.Vec

	// Spherical coordinates of the camera relative to target
	radius float64
	yaw    float64 // around +Y
	pitch  float64 // elevation from the XZ plane

	// Angular velocity that keeps the camera drifting after release
	yawVel, pitchVel float64
	damping          float64 // fraction of velocity kept per second

	orbitSpeed float64
	zoomSpeed  float64
	minRadius  float64
	maxRadius  float64
}

const maxPitch = math.Pi/2 - 0.05

// NewOrbitControls creates orbit controls from camera config.
func NewOrbitControls(cfg config.CameraConfig) *OrbitControls {
	o := &OrbitControls{
		damping:    0.05,
		orbitSpeed: cfg.OrbitSpeed,
		zoomSpeed:  cfg.ZoomSpeed,
		minRadius:  cfg.MinRadius,
		maxRadius:  cfg.MaxRadius,
	}
	if o.maxRadius <= 0 {
		o.maxRadius = math.MaxFloat64
	}
	return o
}

// Attach re-bases the controls on a pose, typically the controller's pose at the moment
// the user starts dragging.
func (o *OrbitControls) Attach(p Pose) {
	o.target = p.LookAt
	d := r3.Sub(p.Position, p.LookAt)
	o.radius = r3.Norm(d)
	if o.radius == 0 {
		o.radius = o.minRadius
		d = r3.Vec{Z: o.radius}
	}
	o.yaw = math.Atan2(d.X, d.Z)
	o.pitch = math.Asin(geom.Clamp(d.Y/o.radius, -1, 1))
	o.yawVel, o.pitchVel = 0, 0
}

// Rotate orbits by a pointer delta in pixels.
func (o *OrbitControls) Rotate(dx, dy float64) {
	o.yawVel = -dx * o.orbitSpeed * 60
	o.pitchVel = dy * o.orbitSpeed * 60
	o.yaw += -dx * o.orbitSpeed
	o.pitch = geom.Clamp(o.pitch+dy*o.orbitSpeed, -maxPitch, maxPitch)
}

// Zoom scales the orbit radius by wheel steps; positive zooms in.
func (o *OrbitControls) Zoom(steps float64) {
	o.radius = geom.Clamp(o.radius*(1-steps*o.zoomSpeed), o.minRadius, o.maxRadius)
}

// Update applies damped residual rotation. Returns whether the pose changed.
func (o *OrbitControls) Update(dt float64) bool {
	if math.Abs(o.yawVel) < 1e-4 && math.Abs(o.pitchVel) < 1e-4 {
		o.yawVel, o.pitchVel = 0, 0
		return false
	}
	keep := math.Pow(o.damping, dt)
	o.yawVel *= keep
	o.pitchVel *= keep
	o.yaw += o.yawVel * dt
	o.pitch = geom.Clamp(o.pitch+o.pitchVel*dt, -maxPitch, maxPitch)
	return true
}

// Stop cancels residual velocity.
func (o *OrbitControls) Stop() {
	o.yawVel, o.pitchVel = 0, 0
}

// Pose returns the pose produced by the controls.
func (o *OrbitControls) Pose() Pose {
	cp := math.Cos(o.pitch)
	offset := r3.Vec{
		X: o.radius * cp * math.Sin(o.yaw),
		Y: o.radius * math.Sin(o.pitch),
		Z: o.radius * cp * math.Cos(o.yaw),
	}
	return Pose{Position: r3.Add(o.target, offset), LookAt: o.target}
}
