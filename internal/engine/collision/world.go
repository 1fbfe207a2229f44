package collision

import (
	gomath "math"

	"github.com/Faultbox/walkthrough/pkg/math"
)

// Volume is one collision sub-mesh: its world-space bounds and, when known,
// its triangles for precise ray tests.
type Volume struct {
	Name      string
	Bounds    AABB
	Triangles []Triangle
}

// World stores volumes densely. It is filled once while a space loads and is
// read-only afterwards, so queries never allocate or lock.
type World struct {
	volumes []Volume
	index   map[string]int
}

// NewWorld creates an empty world with room for capacity volumes.
func NewWorld(capacity int) *World {
	return &World{
		volumes: make([]Volume, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

// Add registers a volume and returns its dense index. Bounds are derived from
// the triangles when the caller leaves them empty. Re-adding a name replaces it.
func (w *World) Add(v Volume) int {
	if v.Bounds.IsEmpty() || v.Bounds == (AABB{}) {
		b := EmptyAABB()
		for _, tri := range v.Triangles {
			b = b.Extend(tri[0]).Extend(tri[1]).Extend(tri[2])
		}
		if !b.IsEmpty() {
			v.Bounds = b
		}
	}
	if i, ok := w.index[v.Name]; ok && v.Name != "" {
		w.volumes[i] = v
		return i
	}
	w.volumes = append(w.volumes, v)
	i := len(w.volumes) - 1
	if v.Name != "" {
		w.index[v.Name] = i
	}
	return i
}

// Len returns the number of registered volumes.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return len(w.volumes)
}

// Volume returns the volume at a dense index.
func (w *World) Volume(i int) *Volume {
	return &w.volumes[i]
}

// Lookup finds a volume by name.
func (w *World) Lookup(name string) (*Volume, bool) {
	i, ok := w.index[name]
	if !ok {
		return nil, false
	}
	return &w.volumes[i], true
}

// SphereBlocked reports whether a sphere touches any volume's bounds.
// An empty world never blocks.
func (w *World) SphereBlocked(center math.Vec3, radius float32) bool {
	if w == nil {
		return false
	}
	for i := range w.volumes {
		if w.volumes[i].Bounds.IntersectsSphere(center, radius) {
			return true
		}
	}
	return false
}

// Raycast returns the nearest surface hit within maxDist. Volumes with
// triangles are tested per triangle after a bounds check. Volumes without
// triangles count their bounds as solid when seen from outside.
func (w *World) Raycast(r Ray, maxDist float32) (dist float32, hit bool) {
	if w == nil {
		return 0, false
	}
	best := float32(gomath.MaxFloat32)
	for i := range w.volumes {
		v := &w.volumes[i]
		t, ok := r.IntersectAABB(v.Bounds)
		if !ok {
			continue
		}
		in := inside(v.Bounds, r.Origin)
		if len(v.Triangles) == 0 {
			if !in && t < best {
				best = t
			}
			continue
		}
		if !in && t > maxDist {
			continue
		}
		for _, tri := range v.Triangles {
			if tt, ok := r.IntersectTriangle(tri); ok && tt < best {
				best = tt
			}
		}
	}
	if best > maxDist {
		return 0, false
	}
	return best, true
}

func inside(b AABB, p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
