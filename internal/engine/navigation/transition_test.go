package navigation

import (
	"testing"
	"time"

	"github.com/Faultbox/walkthrough/internal/engine/camera"
	"github.com/Faultbox/walkthrough/pkg/math"
	"github.com/Faultbox/walkthrough/pkg/space"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestSmoothstep(t *testing.T) {
	cases := []struct{ p, want float32 }{
		{0, 0},
		{0.25, 0.15625},
		{0.5, 0.5},
		{1, 1},
	}
	for _, c := range cases {
		if got := Smoothstep(c.p, 0, 1, 1); abs(got-c.want) > 1e-6 {
			t.Errorf("Smoothstep(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestEasingByName(t *testing.T) {
	for _, name := range EasingNames() {
		fn, ok := EasingByName(name)
		if !ok || fn == nil {
			t.Errorf("easing %q should resolve", name)
			continue
		}
		if end := fn(1, 0, 1, 1); abs(end-1) > 1e-5 {
			t.Errorf("easing %q should end at 1, got %v", name, end)
		}
	}
	if _, ok := EasingByName("bounce-forever"); ok {
		t.Error("unknown easing should not resolve")
	}
}

func TestDurationFor(t *testing.T) {
	s := NewScheduler(nil, time.Second)
	if d := s.DurationFor(&space.Node{}); d != time.Second {
		t.Errorf("default duration = %v", d)
	}
	if d := s.DurationFor(&space.Node{TransitionDurationMs: 250}); d != 250*time.Millisecond {
		t.Errorf("override duration = %v", d)
	}
}

func TestAdvanceInterpolatesAndLands(t *testing.T) {
	s := NewScheduler(nil, time.Second)
	target := &space.Node{ID: "b"}
	from := camera.Pose{Position: math.Vec3{X: 0, Y: 1.7, Z: 0}, Yaw: 0.3}
	to := camera.Pose{Position: math.Vec3{X: 10, Y: 1.7, Z: 0}}
	s.Begin(from, to, target, t0)

	step, ok := s.Advance(t0.Add(500 * time.Millisecond))
	if !ok || step.Done {
		t.Fatalf("expected a mid-flight step, got %+v ok=%v", step, ok)
	}
	if abs(step.Position.X-5) > 1e-4 {
		t.Errorf("smoothstep midpoint X = %v, want 5", step.Position.X)
	}
	if step.Orient {
		t.Error("target without orientation should not turn the camera")
	}

	step, _ = s.Advance(t0.Add(250 * time.Millisecond))
	if abs(step.Position.X-1.5625) > 1e-4 {
		t.Errorf("quarter-time X = %v, want 1.5625", step.Position.X)
	}

	step, ok = s.Advance(t0.Add(1200 * time.Millisecond))
	if !ok || !step.Done || step.Target != target {
		t.Fatalf("expected completion, got %+v", step)
	}
	if step.Position != to.Position {
		t.Errorf("final position = %v, want exactly %v", step.Position, to.Position)
	}
	if s.Active() {
		t.Error("scheduler should be idle after completion")
	}
	if _, ok := s.Advance(t0.Add(2 * time.Second)); ok {
		t.Error("idle scheduler should not produce steps")
	}
}

func TestAdvanceTurnsTowardsDeclaredOrientation(t *testing.T) {
	s := NewScheduler(Smoothstep, time.Second)
	target := &space.Node{ID: "b", Orientation: &space.Orientation{Yaw: 90}}
	to := camera.Pose{Yaw: math.Radians(90)}
	s.Begin(camera.Pose{}, to, target, t0)

	step, _ := s.Advance(t0.Add(500 * time.Millisecond))
	if !step.Orient {
		t.Fatal("expected orientation to be interpolated")
	}
	if abs(step.Yaw-math.Radians(45)) > 1e-3 {
		t.Errorf("midpoint yaw = %v, want %v", step.Yaw, math.Radians(45))
	}

	step, _ = s.Advance(t0.Add(time.Second))
	if !step.Done || step.Yaw != to.Yaw || step.Pitch != to.Pitch {
		t.Errorf("final heading = (%v, %v), want exactly (%v, %v)", step.Yaw, step.Pitch, to.Yaw, to.Pitch)
	}
}

func TestBeginReplacesInFlight(t *testing.T) {
	s := NewScheduler(nil, time.Second)
	a := &space.Node{ID: "a"}
	b := &space.Node{ID: "b"}
	s.Begin(camera.Pose{}, camera.Pose{Position: math.Vec3{X: 10}}, a, t0)

	mid, _ := s.Advance(t0.Add(500 * time.Millisecond))
	s.Begin(camera.Pose{Position: mid.Position}, camera.Pose{Position: math.Vec3{Z: 10}}, b, t0.Add(500*time.Millisecond))

	if s.Current().Target != b {
		t.Fatal("second Begin should replace the first transition")
	}
	if s.Current().From.Position != mid.Position {
		t.Errorf("replacement should start from the mid-flight pose, got %v", s.Current().From.Position)
	}

	end, _ := s.Advance(t0.Add(1500 * time.Millisecond))
	if !end.Done || end.Target != b {
		t.Errorf("expected completion at b, got %+v", end)
	}
}

func TestZeroDurationCompletesImmediately(t *testing.T) {
	s := NewScheduler(nil, 0)
	s.Begin(camera.Pose{}, camera.Pose{Position: math.Vec3{X: 1}}, &space.Node{ID: "x"}, t0)

	step, ok := s.Advance(t0)
	if !ok || !step.Done {
		t.Errorf("zero-length transition should complete on first advance, got %+v", step)
	}
}

func TestCancel(t *testing.T) {
	s := NewScheduler(nil, time.Second)
	s.Begin(camera.Pose{}, camera.Pose{}, &space.Node{ID: "x"}, t0)
	s.Cancel()
	if s.Active() {
		t.Error("Cancel should leave the scheduler idle")
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
