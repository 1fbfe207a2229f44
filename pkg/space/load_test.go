package space

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
name: Loft
default_node_id: entry
mesh_url: assets/loft.glb
environment_url: assets/studio.hdr
manual_walk_enabled: true
nodes:
  - id: entry
    position: {x: 0, y: 0, z: 0}
    connected_to: [kitchen]
    tags: [highlight]
  - id: kitchen
    position: {x: 4, y: 0, z: -2}
    orientation: {yaw: 90}
    transition_duration_ms: 800
    floor: 1
hotspots:
  - id: oven
    type: navigation
    title: Oven
    target_node_id: kitchen
    position: {x: 4, y: 1, z: -3}
bounds:
  min: {x: -5, y: 0, z: -5}
  max: {x: 5, y: 3, z: 5}
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(s.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(s.Nodes))
	}
	k := s.Nodes[1]
	if k.Position.X != 4 || k.Position.Z != -2 {
		t.Errorf("kitchen position = %v", k.Position)
	}
	if k.Orientation == nil || k.Orientation.Yaw != 90 {
		t.Errorf("kitchen orientation = %+v", k.Orientation)
	}
	if s.Nodes[0].Orientation != nil {
		t.Error("entry orientation should be absent")
	}
	if !s.Nodes[0].HasTag(HighlightTag) {
		t.Error("entry should carry the highlight tag")
	}
	if s.Hotspots[0].Type != HotspotNavigation || s.Hotspots[0].TargetNodeID != "kitchen" {
		t.Errorf("hotspot = %+v", s.Hotspots[0])
	}

	// Defaults
	if s.EyeHeight != DefaultEyeHeight {
		t.Errorf("expected eye height %v, got %v", DefaultEyeHeight, s.EyeHeight)
	}
	if s.AutoTour.DwellMs != DefaultDwellMs {
		t.Errorf("expected dwell %d, got %d", DefaultDwellMs, s.AutoTour.DwellMs)
	}
	if s.PointerSensitivity != DefaultPointerSensitivity {
		t.Errorf("expected sensitivity %v, got %v", DefaultPointerSensitivity, s.PointerSensitivity)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "space.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0644); err != nil {
		t.Fatalf("failed to write test space: %v", err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if s.Name != "Loft" {
		t.Errorf("expected name Loft, got %q", s.Name)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Space {
		return &Space{
			MeshURL:        "m.glb",
			EnvironmentURL: "e.hdr",
			Nodes:          []Node{{ID: "a"}, {ID: "b"}},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid space rejected: %v", err)
	}

	s := base()
	s.Nodes = nil
	if err := s.Validate(); !errors.Is(err, ErrNoNodes) {
		t.Errorf("expected ErrNoNodes, got %v", err)
	}

	s = base()
	s.Nodes = append(s.Nodes, Node{ID: "a"})
	if err := s.Validate(); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("expected ErrDuplicateNode, got %v", err)
	}

	s = base()
	s.Hotspots = []Hotspot{{ID: "h", Type: HotspotNavigation}}
	if err := s.Validate(); !errors.Is(err, ErrMissingTarget) {
		t.Errorf("expected ErrMissingTarget, got %v", err)
	}

	s = base()
	s.MeshURL = ""
	if err := s.Validate(); !errors.Is(err, ErrMissingAsset) {
		t.Errorf("expected ErrMissingAsset, got %v", err)
	}

	s = base()
	s.Bounds = &Bounds{}
	s.Bounds.Min.X = 1
	if err := s.Validate(); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds, got %v", err)
	}

	// A dangling default node is tolerated; the engine falls back.
	s = base()
	s.DefaultNodeID = "missing"
	if err := s.Validate(); err != nil {
		t.Errorf("dangling default node should validate, got %v", err)
	}
}

func TestBoundsClampXZ(t *testing.T) {
	b := &Bounds{}
	b.Min.X, b.Min.Z = -1, -1
	b.Max.X, b.Max.Z = 1, 1
	b.Max.Y = 3

	p := b.ClampXZ(vec(5, 10, -5))
	if p.X != 1 || p.Z != -1 || p.Y != 10 {
		t.Errorf("ClampXZ = %v, want (1, 10, -1)", p)
	}
}
