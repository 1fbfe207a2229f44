package collision

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/walkthrough/pkg/math"
)

func v3(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

// wall is a 0.2m thick wall spanning x in [-5,5] at z = -3.
func wall() AABB {
	return NewAABB(v3(-5, 0, -3.1), v3(5, 3, -2.9))
}

func TestAABBIntersectsSphere(t *testing.T) {
	b := wall()
	if !b.IntersectsSphere(v3(0, 1.7, -2.8), 0.3) {
		t.Error("sphere 0.1 from wall should intersect")
	}
	if b.IntersectsSphere(v3(0, 1.7, -2.5), 0.3) {
		t.Error("sphere 0.4 from wall should not intersect")
	}
	if EmptyAABB().IntersectsSphere(v3(0, 0, 0), 100) {
		t.Error("empty box should never intersect")
	}
}

func TestAABBTransform(t *testing.T) {
	b := NewAABB(v3(-1, 0, -1), v3(1, 2, 1))
	m := math.Compose(v3(10, 0, 0), math.QuatFromAxisAngle(math.Up, gomath.Pi/4), v3(1, 1, 1))
	out := b.Transform(m)

	// A unit square rotated 45 degrees spans sqrt(2) on each side.
	if abs(out.Max.X-(10+float32(gomath.Sqrt2))) > 1e-4 {
		t.Errorf("transformed max X = %v", out.Max.X)
	}
	if out.Min.Y != 0 || abs(out.Max.Y-2) > 1e-5 {
		t.Errorf("transformed Y range = [%v, %v]", out.Min.Y, out.Max.Y)
	}
}

func TestRayIntersectAABB(t *testing.T) {
	r, _ := RayTowards(v3(0, 1, 0), v3(0, 1, -10))
	d, ok := r.IntersectAABB(wall())
	if !ok {
		t.Fatal("expected hit")
	}
	if abs(d-2.9) > 1e-4 {
		t.Errorf("hit distance = %v, want 2.9", d)
	}

	away, _ := RayTowards(v3(0, 1, 0), v3(0, 1, 10))
	if _, ok := away.IntersectAABB(wall()); ok {
		t.Error("ray pointing away should miss")
	}
}

func TestRayIntersectTriangle(t *testing.T) {
	tri := Triangle{v3(-1, 0, -2), v3(1, 0, -2), v3(0, 2, -2)}
	r, _ := RayTowards(v3(0, 0.5, 0), v3(0, 0.5, -5))
	d, ok := r.IntersectTriangle(tri)
	if !ok || abs(d-2) > 1e-5 {
		t.Errorf("IntersectTriangle = (%v, %v), want (2, true)", d, ok)
	}

	miss, _ := RayTowards(v3(5, 0.5, 0), v3(5, 0.5, -5))
	if _, ok := miss.IntersectTriangle(tri); ok {
		t.Error("offset ray should miss")
	}
}

func TestWorldEmptyNeverBlocks(t *testing.T) {
	w := NewWorld(0)
	if w.SphereBlocked(v3(0, 0, 0), 10) {
		t.Error("empty world should not block")
	}
	r, _ := RayTowards(v3(0, 0, 0), v3(0, 0, -1))
	if _, hit := w.Raycast(r, 100); hit {
		t.Error("empty world should not be hit")
	}

	var nilWorld *World
	if nilWorld.SphereBlocked(v3(0, 0, 0), 1) || nilWorld.Len() != 0 {
		t.Error("nil world should behave as empty")
	}
}

func TestWorldAddDerivesBounds(t *testing.T) {
	w := NewWorld(1)
	i := w.Add(Volume{Name: "panel", Triangles: []Triangle{{v3(0, 0, 0), v3(2, 0, 0), v3(0, 3, -1)}}})

	got := w.Volume(i).Bounds
	if got.Min != v3(0, 0, -1) || got.Max != v3(2, 3, 0) {
		t.Errorf("derived bounds = %+v", got)
	}
	if _, ok := w.Lookup("panel"); !ok {
		t.Error("lookup by name failed")
	}

	// Same name replaces rather than appends.
	w.Add(Volume{Name: "panel", Bounds: wall()})
	if w.Len() != 1 {
		t.Errorf("expected 1 volume after replace, got %d", w.Len())
	}
}

func TestWorldRaycastNearest(t *testing.T) {
	w := NewWorld(2)
	w.Add(Volume{Name: "far", Bounds: NewAABB(v3(-1, 0, -8), v3(1, 3, -7))})
	w.Add(Volume{Name: "near", Bounds: NewAABB(v3(-1, 0, -4), v3(1, 3, -3))})

	r, _ := RayTowards(v3(0, 1, 0), v3(0, 1, -10))
	d, hit := w.Raycast(r, 20)
	if !hit || abs(d-3) > 1e-4 {
		t.Errorf("Raycast = (%v, %v), want (3, true)", d, hit)
	}

	if _, hit := w.Raycast(r, 2); hit {
		t.Error("hit beyond maxDist should be ignored")
	}
}

func TestWorldRaycastFromInsideRoomBox(t *testing.T) {
	// A room shell registered with triangles: the camera stands inside its
	// bounds, so only real faces may occlude.
	floor := []Triangle{
		{v3(-5, 0, -5), v3(5, 0, -5), v3(5, 0, 5)},
		{v3(-5, 0, -5), v3(5, 0, 5), v3(-5, 0, 5)},
	}
	w := NewWorld(1)
	w.Add(Volume{Name: "room", Bounds: NewAABB(v3(-5, 0, -5), v3(5, 3, 5)), Triangles: floor})

	level, dist := RayTowards(v3(0, 1.7, 0), v3(3, 1.7, -3))
	if _, hit := w.Raycast(level, dist); hit {
		t.Error("level ray inside the room should not hit the floor")
	}

	down, dist := RayTowards(v3(0, 1.7, 0), v3(0, -1, 0))
	d, hit := w.Raycast(down, dist)
	if !hit || abs(d-1.7) > 1e-4 {
		t.Errorf("downward ray = (%v, %v), want (1.7, true)", d, hit)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
