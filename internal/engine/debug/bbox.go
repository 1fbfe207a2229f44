// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/walkthrough/internal/engine/collision"
)

// BoxVertexCount is the number of line vertices per box (12 edges x 2).
const BoxVertexCount = 24

// BoxLines returns line-list vertices, xyz per vertex, for the edges of b
// grown by padding on every side.
func BoxLines(b collision.AABB, padding float32) []float32 {
	return appendBox(make([]float32, 0, BoxVertexCount*3), b, padding)
}

// CollisionLines returns the bounds of every collision volume in w as one
// line list.
func CollisionLines(w *collision.World, padding float32) []float32 {
	n := w.Len()
	out := make([]float32, 0, n*BoxVertexCount*3)
	for i := 0; i < n; i++ {
		v := w.Volume(i)
		if v.Bounds.IsEmpty() {
			continue
		}
		out = appendBox(out, v.Bounds, padding)
	}
	return out
}

func appendBox(out []float32, b collision.AABB, padding float32) []float32 {
	x0, y0, z0 := b.Min.X-padding, b.Min.Y-padding, b.Min.Z-padding
	x1, y1, z1 := b.Max.X+padding, b.Max.Y+padding, b.Max.Z+padding
	return append(out,
		// Bottom
		x0, y0, z0, x1, y0, z0,
		x1, y0, z0, x1, y0, z1,
		x1, y0, z1, x0, y0, z1,
		x0, y0, z1, x0, y0, z0,
		// Top
		x0, y1, z0, x1, y1, z0,
		x1, y1, z0, x1, y1, z1,
		x1, y1, z1, x0, y1, z1,
		x0, y1, z1, x0, y1, z0,
		// Verticals
		x0, y0, z0, x0, y1, z0,
		x1, y0, z0, x1, y1, z0,
		x1, y0, z1, x1, y1, z1,
		x0, y0, z1, x0, y1, z1,
	)
}
