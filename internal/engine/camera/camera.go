// Package camera provides the orbit camera used to view and paint terrain.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/terrain-painter/pkg/math"
)

// Lens holds the perspective projection parameters.
type Lens struct {
	FovY   float32 // Vertical field of view, radians
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultLens returns a 60 degree lens for a 16:9 viewport.
func DefaultLens() Lens {
	return Lens{FovY: math32.Pi / 3, Aspect: 16.0 / 9.0, Near: 0.1, Far: 2000}
}

// Projection returns the perspective matrix of the lens.
func (l Lens) Projection() math.Mat4 {
	return math.Perspective(l.FovY, l.Aspect, l.Near, l.Far)
}

// WithFar returns a copy of the lens with a different far plane.
func (l Lens) WithFar(far float32) Lens {
	l.Far = far
	return l
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	Lens Lens
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        200.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     5.0,
		MaxDistance:     5000.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Lens:            DefaultLens(),
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinX, cosX := math32.Sincos(c.RotationX)
	sinY, cosY := math32.Sincos(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cosX * sinY,
		Y: c.Distance * sinX,
		Z: c.Distance * cosX * cosY,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.UnitY)
}

// ViewProjection returns projection * view using the camera's lens.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.Lens.Projection().Mul(c.ViewMatrix())
}

// ViewProjectionWithFar returns projection * view with the far plane
// replaced, e.g. by a terrain draw distance for culling.
func (c *OrbitCamera) ViewProjectionWithFar(far float32) math.Mat4 {
	return c.Lens.WithFar(far).Projection().Mul(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	c.RotationX = min(max(c.RotationX, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	sinY, cosY := math32.Sincos(c.RotationY)

	// Negate forward so it moves "into" the scene
	c.Center.X += (-sinY*forward + cosY*right) * speed
	c.Center.Z += (-cosY*forward - sinY*right) * speed
	c.Center.Y += up * speed
}

// FitToBounds adjusts camera to view the given bounding box.
func (c *OrbitCamera) FitToBounds(box math.BoundingBox) {
	c.Center = box.Center()

	size := box.Size()
	c.Distance = max(size.X, size.Z) * 1.2
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)

	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0.0
}
