package loader

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/collision"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Mesh is one glTF primitive baked into world space.
type Mesh struct {
	Name      string
	Positions []math.Vec3
	Normals   []math.Vec3 // Empty when the primitive has none
	Indices   []uint32
	Bounds    collision.AABB
	Collision bool // Also registered as a movement-blocking volume
}

// Clip is a named animation with its length.
type Clip struct {
	Name     string
	Duration time.Duration
}

// Scene is a decoded spatial mesh.
type Scene struct {
	Source    string
	Meshes    []Mesh
	Clips     []Clip
	Collision *collision.World
	Bounds    collision.AABB
}

// LoadScene fetches and decodes a glTF or GLB mesh. Compressed meshes are
// passed through the configured decoder first.
func (l *Loader) LoadScene(ctx context.Context, src string) (*Scene, error) {
	doc, err := l.openDocument(ctx, src)
	if err != nil {
		return nil, err
	}

	if ext := compressionExtension(doc); ext != "" {
		if l.cfg.DecoderPath == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoDecoder, ext)
		}
		l.log.Info("decompressing mesh", zap.String("extension", ext), zap.String("decoder", l.cfg.DecoderPath))
		data, err := l.Fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		out, err := l.decompress(ctx, data)
		if err != nil {
			return nil, err
		}
		if doc, err = decodeDocument(out); err != nil {
			return nil, fmt.Errorf("decode decompressed mesh: %w", err)
		}
		if ext := compressionExtension(doc); ext != "" {
			return nil, fmt.Errorf("decoder output still requires %s", ext)
		}
	}

	sc, err := BuildScene(doc)
	if err != nil {
		return nil, err
	}
	sc.Source = src
	return sc, nil
}

func (l *Loader) openDocument(ctx context.Context, src string) (*gltf.Document, error) {
	if isRemote(src) {
		data, err := l.Fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		return decodeDocument(data)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Open resolves external buffers next to a .gltf file.
	doc, err := gltf.Open(l.localPath(src))
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	return doc, nil
}

func decodeDocument(data []byte) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode mesh: %w", err)
	}
	return doc, nil
}

// BuildScene bakes every mesh instance of the default scene into world space.
// Every drawn primitive also blocks movement and occludes hotspots unless a
// node or mesh sets extras.collision to false; nodes pass the setting down
// to their children.
func BuildScene(doc *gltf.Document) (*Scene, error) {
	sc := &Scene{
		Collision: collision.NewWorld(4),
		Bounds:    collision.EmptyAABB(),
	}

	for _, root := range sceneRoots(doc) {
		if err := sc.walk(doc, root, math.Identity(), true, 0); err != nil {
			return nil, err
		}
	}

	for _, anim := range doc.Animations {
		clip, err := readClip(doc, anim)
		if err != nil {
			return nil, err
		}
		sc.Clips = append(sc.Clips, clip)
	}
	return sc, nil
}

const maxNodeDepth = 64

func (sc *Scene) walk(doc *gltf.Document, idx int, parent math.Mat4, collides bool, depth int) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if depth > maxNodeDepth {
		return fmt.Errorf("node hierarchy deeper than %d", maxNodeDepth)
	}
	node := doc.Nodes[idx]
	world := parent.Mul(nodeMatrix(node))
	if v, ok := extrasBool(node.Extras, "collision"); ok {
		collides = v
	}

	if node.Mesh != nil {
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return fmt.Errorf("node %q: mesh index %d out of range", node.Name, *node.Mesh)
		}
		gm := doc.Meshes[*node.Mesh]
		meshCollides := collides
		if v, ok := extrasBool(gm.Extras, "collision"); ok {
			meshCollides = v
		}
		name := node.Name
		if name == "" {
			name = gm.Name
		}
		for pi, prim := range gm.Primitives {
			if !isTriangles(prim.Mode) {
				continue
			}
			m, err := readPrimitive(doc, prim, world)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", name, pi, err)
			}
			m.Name = name
			if len(gm.Primitives) > 1 {
				m.Name = fmt.Sprintf("%s.%d", name, pi)
			}
			m.Collision = meshCollides
			sc.add(m)
		}
	}

	for _, child := range node.Children {
		if err := sc.walk(doc, int(child), world, collides, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (sc *Scene) add(m Mesh) {
	if !m.Bounds.IsEmpty() {
		sc.Bounds = sc.Bounds.Extend(m.Bounds.Min).Extend(m.Bounds.Max)
	}
	if m.Collision {
		tris := make([]collision.Triangle, 0, len(m.Indices)/3)
		for i := 0; i+2 < len(m.Indices); i += 3 {
			tris = append(tris, collision.Triangle{
				m.Positions[m.Indices[i]],
				m.Positions[m.Indices[i+1]],
				m.Positions[m.Indices[i+2]],
			})
		}
		// Instances often share a name; each still needs its own volume.
		name := m.Name
		if _, dup := sc.Collision.Lookup(name); dup {
			name = fmt.Sprintf("%s#%d", m.Name, sc.Collision.Len())
		}
		sc.Collision.Add(collision.Volume{Name: name, Bounds: m.Bounds, Triangles: tris})
	}
	sc.Meshes = append(sc.Meshes, m)
}

// Drawable returns the meshes that are rendered: all of them.
func (sc *Scene) Drawable() []*Mesh {
	out := make([]*Mesh, len(sc.Meshes))
	for i := range sc.Meshes {
		out[i] = &sc.Meshes[i]
	}
	return out
}

// Clip finds a clip by name.
func (sc *Scene) Clip(name string) (Clip, bool) {
	for _, c := range sc.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return Clip{}, false
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive, world math.Mat4) (Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return Mesh{}, fmt.Errorf("no POSITION attribute")
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return Mesh{}, err
	}
	pos, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return Mesh{}, fmt.Errorf("read positions: %w", err)
	}

	m := Mesh{
		Positions: make([]math.Vec3, len(pos)),
		Bounds:    collision.EmptyAABB(),
	}
	for i, p := range pos {
		wp := world.TransformPoint(math.FromArray(p))
		m.Positions[i] = wp
		m.Bounds = m.Bounds.Extend(wp)
	}

	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acr, err := accessor(doc, nIdx)
		if err != nil {
			return Mesh{}, err
		}
		normals, err := modeler.ReadNormal(doc, acr, nil)
		if err != nil {
			return Mesh{}, fmt.Errorf("read normals: %w", err)
		}
		if len(normals) != len(pos) {
			return Mesh{}, fmt.Errorf("%d normals for %d positions", len(normals), len(pos))
		}
		m.Normals = make([]math.Vec3, len(normals))
		for i, n := range normals {
			m.Normals[i] = world.TransformNormal(math.FromArray(n)).Normalize()
		}
	}

	var idx []uint32
	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return Mesh{}, err
		}
		idx, err = modeler.ReadIndices(doc, acr, nil)
		if err != nil {
			return Mesh{}, fmt.Errorf("read indices: %w", err)
		}
		for _, i := range idx {
			if int(i) >= len(m.Positions) {
				return Mesh{}, fmt.Errorf("index %d out of range", i)
			}
		}
	} else {
		idx = make([]uint32, len(pos))
		for i := range idx {
			idx[i] = uint32(i)
		}
	}
	m.Indices = triangulate(prim.Mode, idx)
	return m, nil
}

func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", i)
	}
	return doc.Accessors[i], nil
}

func isTriangles(mode gltf.PrimitiveMode) bool {
	switch mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		return true
	}
	return false
}

// triangulate expands strips and fans into a triangle list. Strips keep a
// consistent winding by swapping every odd triangle.
func triangulate(mode gltf.PrimitiveMode, idx []uint32) []uint32 {
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		if len(idx) < 3 {
			return nil
		}
		out := make([]uint32, 0, (len(idx)-2)*3)
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				out = append(out, idx[i], idx[i+1], idx[i+2])
			} else {
				out = append(out, idx[i+1], idx[i], idx[i+2])
			}
		}
		return out
	case gltf.PrimitiveTriangleFan:
		if len(idx) < 3 {
			return nil
		}
		out := make([]uint32, 0, (len(idx)-2)*3)
		for i := 1; i+1 < len(idx); i++ {
			out = append(out, idx[0], idx[i], idx[i+1])
		}
		return out
	}
	return idx[:len(idx)/3*3]
}

func readClip(doc *gltf.Document, anim *gltf.Animation) (Clip, error) {
	var end float32
	for _, s := range anim.Samplers {
		acr, err := accessor(doc, s.Input)
		if err != nil {
			return Clip{}, fmt.Errorf("animation %q: %w", anim.Name, err)
		}
		data, err := modeler.ReadAccessor(doc, acr, nil)
		if err != nil {
			return Clip{}, fmt.Errorf("animation %q: %w", anim.Name, err)
		}
		times, ok := data.([]float32)
		if !ok {
			return Clip{}, fmt.Errorf("animation %q: sampler input is not float", anim.Name)
		}
		for _, t := range times {
			end = max(end, t)
		}
	}
	return Clip{Name: anim.Name, Duration: time.Duration(float64(end) * float64(time.Second))}, nil
}

// sceneRoots returns the root nodes of the default scene, or every parentless
// node when the document declares no scenes.
func sceneRoots(doc *gltf.Document) []int {
	var roots []int
	if len(doc.Scenes) > 0 {
		s := doc.Scenes[0]
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			s = doc.Scenes[*doc.Scene]
		}
		for _, n := range s.Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(child) {
				child[c] = true
			}
		}
	}
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeMatrix returns the node's local transform. An explicit non-identity
// matrix wins over TRS.
func nodeMatrix(n *gltf.Node) math.Mat4 {
	var m math.Mat4
	for i := range n.Matrix {
		m[i] = float32(n.Matrix[i])
	}
	if m != (math.Mat4{}) && m != math.Identity() {
		return m
	}

	t := math.Vec3{X: float32(n.Translation[0]), Y: float32(n.Translation[1]), Z: float32(n.Translation[2])}
	r := math.Quat{X: float32(n.Rotation[0]), Y: float32(n.Rotation[1]), Z: float32(n.Rotation[2]), W: float32(n.Rotation[3])}
	if r == (math.Quat{}) {
		r = math.QuatIdentity()
	}
	s := math.Vec3{X: float32(n.Scale[0]), Y: float32(n.Scale[1]), Z: float32(n.Scale[2])}
	if s == (math.Vec3{}) {
		s = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return math.Compose(t, r.Normalize(), s)
}

// extrasBool reads a boolean custom property exported into extras. ok is
// false when the property is absent or not boolean-like.
func extrasBool(extras any, key string) (value, ok bool) {
	m, isMap := extras.(map[string]any)
	if !isMap {
		return false, false
	}
	switch v := m[key].(type) {
	case bool:
		return v, true
	case float64:
		return v != 0, true
	case string:
		switch v {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}
