package scene

import (
	"math"

	"github.com/fizzl/facet/pkg/math3d"
)

// Camera holds the world-space viewpoint and projection parameters. The
// renderer only reads Position (for the backface test); the transform pass
// uses the cached view-projection matrix.
type Camera struct {
	Position math3d.Vec3

	// Orientation as Euler angles in radians.
	Pitch float64 // Around X (look up/down)
	Yaw   float64 // Around Y (look left/right)
	Roll  float64 // Around Z (tilt)

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / height
	Near        float64
	Far         float64

	viewProj math3d.Mat4
	dirty    bool
}

// NewCamera creates a camera with a 60 degree FOV at the origin.
func NewCamera() *Camera {
	return &Camera{
		FOV:         math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		dirty:       true,
	}
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.dirty = true
}

// SetRotation sets pitch, yaw and roll in radians.
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.Roll = roll
	c.dirty = true
}

// SetAspectRatio sets width/height.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.dirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.dirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.dirty = true
}

// LookAt orients the camera toward a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0
	c.dirty = true
}

// ViewProjection returns the combined view-projection matrix, recomputing it
// only when the camera changed.
func (c *Camera) ViewProjection() math3d.Mat4 {
	if c.dirty {
		rot := math3d.RotateZ(-c.Roll).Mul(
			math3d.RotateX(-c.Pitch)).Mul(
			math3d.RotateY(-c.Yaw))
		view := rot.Mul(math3d.Translate(c.Position.Negate()))
		proj := math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.viewProj = proj.Mul(view)
		c.dirty = false
	}
	return c.viewProj
}
