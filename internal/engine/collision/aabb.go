// Package collision holds the movement-blocking geometry of a space and answers
// the two queries the engine needs: does a sphere touch anything, and how far
// along a ray is the first surface.
package collision

import (
	gomath "math"

	"github.com/Faultbox/walkthrough/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	inf := float32(gomath.MaxFloat32)
	return AABB{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// NewAABB creates a box from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// IsEmpty reports whether the box has never been extended.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to include p.
func (b AABB) Extend(p math.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// ClosestPoint returns the point of the box nearest to p.
func (b AABB) ClosestPoint(p math.Vec3) math.Vec3 {
	return math.Vec3{
		X: math.Clamp(p.X, b.Min.X, b.Max.X),
		Y: math.Clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: math.Clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// Distance returns the distance from p to the box surface, 0 inside.
func (b AABB) Distance(p math.Vec3) float32 {
	return b.ClosestPoint(p).Distance(p)
}

// IntersectsSphere reports whether a sphere touches the box.
func (b AABB) IntersectsSphere(center math.Vec3, radius float32) bool {
	if b.IsEmpty() {
		return false
	}
	return b.ClosestPoint(center).Sub(center).LengthSquared() <= radius*radius
}

// Transform returns the world-space box enclosing all eight transformed corners.
func (b AABB) Transform(m math.Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	out := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := math.Vec3{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		out = out.Extend(m.TransformPoint(corner))
	}
	return out
}
