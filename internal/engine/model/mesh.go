// Package model packs loaded scene meshes into GPU-ready vertex and index
// buffers.
package model

import (
	"github.com/Faultbox/walkthrough/internal/engine/collision"
	"github.com/Faultbox/walkthrough/internal/engine/loader"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Stride is the number of floats per packed vertex: position then normal.
const Stride = 6

// Range locates one mesh inside a Batch.
type Range struct {
	Name  string
	First int // first index
	Count int // index count
}

// Batch is a set of meshes sharing one vertex and one index buffer.
type Batch struct {
	Vertices []float32
	Indices  []uint32
	Ranges   []Range
	Bounds   collision.AABB
}

// VertexCount returns the number of packed vertices.
func (b *Batch) VertexCount() int {
	return len(b.Vertices) / Stride
}

// Pack interleaves meshes into a single batch. Meshes without normals are
// unwelded and given face normals.
func Pack(meshes []*loader.Mesh) Batch {
	b := Batch{Bounds: collision.EmptyAABB()}
	for _, m := range meshes {
		pos, nrm, idx := m.Positions, m.Normals, m.Indices
		if len(nrm) != len(pos) {
			pos, nrm, idx = FlatNormals(pos, idx)
		}
		base := uint32(b.VertexCount())
		first := len(b.Indices)
		for i, p := range pos {
			n := nrm[i]
			b.Vertices = append(b.Vertices, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
			b.Bounds = b.Bounds.Extend(p)
		}
		for _, i := range idx {
			b.Indices = append(b.Indices, base+i)
		}
		b.Ranges = append(b.Ranges, Range{Name: m.Name, First: first, Count: len(idx)})
	}
	return b
}

// FlatNormals splits every triangle into its own three vertices and assigns
// each the triangle's face normal. A trailing partial triangle is dropped.
func FlatNormals(positions []math.Vec3, indices []uint32) ([]math.Vec3, []math.Vec3, []uint32) {
	tris := len(indices) / 3
	pos := make([]math.Vec3, 0, tris*3)
	nrm := make([]math.Vec3, 0, tris*3)
	idx := make([]uint32, 0, tris*3)
	for t := 0; t < tris; t++ {
		a := positions[indices[t*3]]
		b := positions[indices[t*3+1]]
		c := positions[indices[t*3+2]]
		n := FaceNormal(a, b, c)
		for _, p := range [3]math.Vec3{a, b, c} {
			idx = append(idx, uint32(len(pos)))
			pos = append(pos, p)
			nrm = append(nrm, n)
		}
	}
	return pos, nrm, idx
}

// FaceNormal returns the counter-clockwise normal of a triangle, or +Y for a
// degenerate one.
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.LengthSquared() < 1e-12 {
		return math.Vec3{Y: 1}
	}
	return n.Normalize()
}
