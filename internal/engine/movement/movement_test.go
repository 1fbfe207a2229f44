package movement

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/walkthrough/internal/engine/collision"
	"github.com/Faultbox/walkthrough/internal/engine/input"
	"github.com/Faultbox/walkthrough/pkg/math"
	"github.com/Faultbox/walkthrough/pkg/space"
)

func v3(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func held(keys ...input.Key) input.Keys {
	var k input.Keys
	for _, key := range keys {
		k[key] = true
	}
	return k
}

func TestStepForward(t *testing.T) {
	s := New(Config{Speed: 2}, nil)
	pos := v3(0, 1.7, 0)

	next, res := s.Step(pos, math.Direction(0, 0), v3(1, 0, 0), held(input.KeyForward), 0.5)
	if res != Moved {
		t.Fatalf("expected move, got %v", res)
	}
	if next.Sub(v3(0, 1.7, -1)).Length() > 1e-5 {
		t.Errorf("next = %v, want (0, 1.7, -1)", next)
	}
}

func TestStepDiagonalIsUnitSpeed(t *testing.T) {
	s := New(Config{Speed: 1}, nil)
	next, _ := s.Step(v3(0, 0, 0), v3(0, 0, -1), v3(1, 0, 0), held(input.KeyForward, input.KeyRight), 1)
	if l := next.Length(); abs(l-1) > 1e-5 {
		t.Errorf("diagonal step length = %v, want 1", l)
	}
}

func TestStepIdle(t *testing.T) {
	s := New(Config{}, nil)
	pos := v3(1, 2, 3)
	if next, res := s.Step(pos, v3(0, 0, -1), v3(1, 0, 0), input.Keys{}, 0.016); res != Idle || next != pos {
		t.Errorf("no keys should be idle, got %v %v", next, res)
	}
	if _, res := s.Step(pos, v3(0, 0, -1), v3(1, 0, 0), held(input.KeyBack), 0); res != Idle {
		t.Errorf("zero dt should be idle, got %v", res)
	}
}

func TestStepClampsToBounds(t *testing.T) {
	b := &space.Bounds{Min: v3(-1, 0, -1), Max: v3(1, 3, 1)}
	s := New(Config{Speed: 10, Bounds: b}, nil)

	next, res := s.Step(v3(0, 1.7, 0), v3(0, 0, -1), v3(1, 0, 0), held(input.KeyForward), 1)
	if res != Moved || next != v3(0, 1.7, -1) {
		t.Errorf("expected clamp to z=-1, got %v %v", next, res)
	}
}

func TestStepRejectsCollision(t *testing.T) {
	w := collision.NewWorld(1)
	w.Add(collision.Volume{Name: "wall", Bounds: collision.NewAABB(v3(-5, 0, -2.1), v3(5, 3, -2))})
	s := New(Config{Speed: 1, Radius: 0.3}, w)

	pos := v3(0, 1.7, -1.6)
	next, res := s.Step(pos, v3(0, 0, -1), v3(1, 0, 0), held(input.KeyForward), 0.2)
	if res != Blocked {
		t.Fatalf("expected blocked, got %v", res)
	}
	if next != pos {
		t.Errorf("blocked move must not change position, got %v", next)
	}

	// Moving away is fine.
	if _, res := s.Step(pos, v3(0, 0, -1), v3(1, 0, 0), held(input.KeyBack), 0.2); res != Moved {
		t.Errorf("moving away should succeed, got %v", res)
	}
}

func TestApproachNeverEntersRadius(t *testing.T) {
	wall := collision.NewAABB(v3(-5, 0, -3.1), v3(5, 3, -2.9))
	w := collision.NewWorld(1)
	w.Add(collision.Volume{Name: "wall", Bounds: wall})
	s := New(Config{Speed: 3, Radius: 0.3}, w)

	for deg := -80; deg <= 80; deg += 5 {
		yaw := math.Radians(float32(deg))
		forward := math.Direction(yaw, 0)
		right := forward.Cross(math.Up).Normalize()

		pos := v3(0, 1.7, 0)
		for frame := 0; frame < 400; frame++ {
			pos, _ = s.Step(pos, forward, right, held(input.KeyForward), 1.0/60)
			if d := wall.Distance(pos); d <= s.Radius() {
				t.Fatalf("approach at %d degrees reached distance %v (radius %v)", deg, d, s.Radius())
			}
		}
		// The camera should have got reasonably close before stopping.
		if d := wall.Distance(pos); d > s.Radius()+0.1 && gomath.Abs(float64(deg)) < 60 {
			t.Errorf("approach at %d degrees stalled at %v", deg, d)
		}
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
