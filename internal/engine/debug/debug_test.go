package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/walkthrough/internal/engine/collision"
	"github.com/Faultbox/walkthrough/pkg/math"
)

func TestBoxLines(t *testing.T) {
	b := collision.NewAABB(math.Vec3{}, math.Vec3{X: 1, Y: 2, Z: 3})
	v := BoxLines(b, 0.5)
	if len(v) != BoxVertexCount*3 {
		t.Fatalf("len = %d, want %d", len(v), BoxVertexCount*3)
	}
	for i := 0; i < len(v); i += 3 {
		x, y, z := v[i], v[i+1], v[i+2]
		if (x != -0.5 && x != 1.5) || (y != -0.5 && y != 2.5) || (z != -0.5 && z != 3.5) {
			t.Fatalf("vertex %d = (%v, %v, %v) is not a padded corner", i/3, x, y, z)
		}
	}
}

func TestCollisionLines(t *testing.T) {
	w := collision.NewWorld(2)
	w.Add(collision.Volume{Name: "a", Bounds: collision.NewAABB(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})})
	w.Add(collision.Volume{Name: "b", Bounds: collision.NewAABB(math.Vec3{X: 2}, math.Vec3{X: 3, Y: 1, Z: 1})})
	if got := len(CollisionLines(w, 0)); got != 2*BoxVertexCount*3 {
		t.Errorf("len = %d", got)
	}
}

func TestFlipRGBA(t *testing.T) {
	// 1x2: bottom row red, top row blue, as GL returns them.
	px := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	img, err := FlipRGBA(px, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("top = %v, want blue", got)
	}
	if _, err := FlipRGBA(px, 2, 2); err == nil {
		t.Error("expected size mismatch")
	}
}

func TestScreenshotsSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewScreenshots(dir, "walk")
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	name, err := s.Save(make([]byte, 4*4*4), 4, 4)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "walk_2026-03-01_12-00-00.000.png"); name != want {
		t.Errorf("name = %q, want %q", name, want)
	}
	f, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 4 || cfg.Height != 4 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
}
