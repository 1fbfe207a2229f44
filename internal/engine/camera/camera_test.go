package camera

import (
	"testing"

	"github.com/Faultbox/walkthrough/pkg/math"
	"github.com/Faultbox/walkthrough/pkg/space"
)

func newTestCamera() *Controller {
	return New(Config{EyeHeight: 1.7, Sensitivity: 0.01, FOV: 60, Near: 0.1, Far: 100})
}

func TestSetToNode(t *testing.T) {
	c := newTestCamera()
	n := &space.Node{
		ID:          "hall",
		Position:    math.Vec3{X: 3, Y: 0.5, Z: -2},
		Orientation: &space.Orientation{Yaw: 90, Pitch: 10},
	}
	c.SetToNode(n)

	p := c.Pose()
	if p.Position != (math.Vec3{X: 3, Y: 2.2, Z: -2}) {
		t.Errorf("position = %v, want (3, 2.2, -2)", p.Position)
	}
	if abs(p.Yaw-math.Radians(90)) > 1e-6 || abs(p.Pitch-math.Radians(10)) > 1e-6 {
		t.Errorf("yaw/pitch = (%v, %v)", p.Yaw, p.Pitch)
	}
}

func TestSetToNodeDefaultsOrientation(t *testing.T) {
	c := newTestCamera()
	c.ApplyYawPitch(1, 0.5)
	c.SetToNode(&space.Node{ID: "a"})

	if p := c.Pose(); p.Yaw != 0 || p.Pitch != 0 {
		t.Errorf("absent orientation should reset to 0, got (%v, %v)", p.Yaw, p.Pitch)
	}
}

func TestPitchClamp(t *testing.T) {
	c := newTestCamera()
	c.ApplyYawPitch(0, 3)
	if c.Pose().Pitch != MaxPitch {
		t.Errorf("pitch = %v, want clamp to %v", c.Pose().Pitch, MaxPitch)
	}

	for i := 0; i < 100; i++ {
		c.HandleDrag(0, 50)
	}
	if c.Pose().Pitch != -MaxPitch {
		t.Errorf("dragging down should clamp at %v, got %v", -MaxPitch, c.Pose().Pitch)
	}
}

func TestHandleDragTurnsRight(t *testing.T) {
	c := newTestCamera()
	c.HandleDrag(20, 0)

	// Dragging right turns towards +X.
	if c.Look().X <= 0 {
		t.Errorf("look = %v, expected positive X after dragging right", c.Look())
	}
	if abs(c.Pose().Yaw+0.2) > 1e-6 {
		t.Errorf("yaw = %v, want -0.2", c.Pose().Yaw)
	}
}

func TestForwardIgnoresPitch(t *testing.T) {
	c := newTestCamera()
	c.ApplyYawPitch(0.3, 0.9)

	f := c.Forward()
	if f.Y != 0 {
		t.Errorf("forward should be horizontal, got %v", f)
	}
	if l := f.Length(); abs(l-1) > 1e-5 {
		t.Errorf("forward should be unit length, got %v", l)
	}
	if d := f.Dot(c.Right()); abs(d) > 1e-6 {
		t.Errorf("right should be perpendicular to forward, dot = %v", d)
	}
}

func TestViewProjectionCentersLookTarget(t *testing.T) {
	c := newTestCamera()
	c.SetAspect(1600, 900)
	c.SetPose(Pose{Position: math.Vec3{X: 1, Y: 1.7, Z: 1}, Yaw: 0.4})

	target := c.Position().Add(c.Look().Scale(5))
	ndc := c.ViewProjection().TransformPoint(target)
	if abs(ndc.X) > 1e-4 || abs(ndc.Y) > 1e-4 {
		t.Errorf("look target should project to screen center, got %v", ndc)
	}
	if abs(c.Aspect()-16.0/9.0) > 1e-6 {
		t.Errorf("aspect = %v", c.Aspect())
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
