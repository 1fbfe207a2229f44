// Package camera provides the first-person camera used by the walkthrough.
package camera

import (
	gomath "math"

	"github.com/Faultbox/walkthrough/pkg/math"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// MaxPitch keeps the view from flipping over the poles (60 degrees).
const MaxPitch = gomath.Pi / 3

// Pose is a camera position plus heading, in radians.
type Pose struct {
	Position math.Vec3
	Yaw      float32
	Pitch    float32
}

// Config holds camera construction settings.
type Config struct {
	EyeHeight   float32
	Sensitivity float32 // Radians per pixel of pointer drag
	FOV         float32 // Vertical field of view, degrees
	Near, Far   float32
}

// Controller owns the camera pose. Every other subsystem reads it or asks it
// to change; nothing else writes the pose.
type Controller struct {
	pose Pose
	look math.Vec3

	EyeHeight   float32
	Sensitivity float32

	fovY      float32
	near, far float32
	aspect    float32
}

// New creates a controller at the origin looking down -Z.
func New(cfg Config) *Controller {
	c := &Controller{
		EyeHeight:   cfg.EyeHeight,
		Sensitivity: cfg.Sensitivity,
		fovY:        math.Radians(cfg.FOV),
		near:        cfg.Near,
		far:         cfg.Far,
		aspect:      1,
	}
	if c.EyeHeight == 0 {
		c.EyeHeight = space.DefaultEyeHeight
	}
	if c.Sensitivity == 0 {
		c.Sensitivity = space.DefaultPointerSensitivity
	}
	if c.fovY == 0 {
		c.fovY = math.Radians(70)
	}
	if c.near == 0 {
		c.near = 0.05
	}
	if c.far == 0 {
		c.far = 500
	}
	c.ApplyYawPitch(0, 0)
	return c
}

// Pose returns the current pose.
func (c *Controller) Pose() Pose {
	return c.pose
}

// Position returns the camera position in world space.
func (c *Controller) Position() math.Vec3 {
	return c.pose.Position
}

// SetPosition moves the camera without changing its heading.
func (c *Controller) SetPosition(p math.Vec3) {
	c.pose.Position = p
}

// SetPose moves and turns the camera in one step.
func (c *Controller) SetPose(p Pose) {
	c.pose.Position = p.Position
	c.ApplyYawPitch(p.Yaw, p.Pitch)
}

// ApplyYawPitch points the camera along the spherical angles, clamping pitch.
func (c *Controller) ApplyYawPitch(yaw, pitch float32) {
	c.pose.Yaw = yaw
	c.pose.Pitch = math.Clamp(pitch, -MaxPitch, MaxPitch)
	c.look = math.Direction(c.pose.Yaw, c.pose.Pitch)
}

// HandleDrag turns the camera by a pointer drag delta in pixels. Dragging
// right turns right, dragging down looks down.
func (c *Controller) HandleDrag(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	c.ApplyYawPitch(c.pose.Yaw-dx*c.Sensitivity, c.pose.Pitch-dy*c.Sensitivity)
}

// NodePose is the pose SetToNode would produce, without applying it.
func (c *Controller) NodePose(n *space.Node) Pose {
	p := Pose{Position: n.Position.Add(math.Vec3{Y: c.EyeHeight})}
	if o := n.Orientation; o != nil {
		p.Yaw = math.Radians(o.Yaw)
		p.Pitch = math.Clamp(math.Radians(o.Pitch), -MaxPitch, MaxPitch)
	}
	return p
}

// SetToNode hard-sets the camera onto a node viewpoint.
func (c *Controller) SetToNode(n *space.Node) {
	c.SetPose(c.NodePose(n))
}

// Look returns the unit view direction.
func (c *Controller) Look() math.Vec3 {
	return c.look
}

// Forward returns the horizontal heading, ignoring pitch.
func (c *Controller) Forward() math.Vec3 {
	return math.Direction(c.pose.Yaw, 0)
}

// Right returns the horizontal right vector.
func (c *Controller) Right() math.Vec3 {
	return c.Forward().Cross(math.Up).Normalize()
}

// SetAspect updates the projection aspect ratio from a surface size.
func (c *Controller) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
}

// Aspect returns the projection aspect ratio.
func (c *Controller) Aspect() float32 {
	return c.aspect
}

// ViewMatrix returns the view matrix for the current pose.
func (c *Controller) ViewMatrix() math.Mat4 {
	eye := c.pose.Position
	return math.LookAt(eye, eye.Add(c.look), math.Up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Controller) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.fovY, c.aspect, c.near, c.far)
}

// ViewProjection returns projection * view.
func (c *Controller) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}
