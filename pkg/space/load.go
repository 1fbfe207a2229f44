package space

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validation errors.
var (
	ErrNoNodes          = errors.New("space has no nodes")
	ErrDuplicateNode    = errors.New("duplicate node id")
	ErrDuplicateHotspot = errors.New("duplicate hotspot id")
	ErrMissingTarget    = errors.New("navigation hotspot without target node")
	ErrMissingAsset     = errors.New("missing asset url")
	ErrInvalidBounds    = errors.New("bounds min exceeds max")
)

// LoadFile reads a YAML space descriptor from disk.
func LoadFile(path string) (*Space, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading space %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing space %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML descriptor, applies defaults and validates it.
func Parse(data []byte) (*Space, error) {
	var s Space
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks structural consistency. Dangling connections and a missing
// default node are tolerated here; the engine treats them as no-ops and fallbacks.
func (s *Space) Validate() error {
	if len(s.Nodes) == 0 {
		return ErrNoNodes
	}
	if s.MeshURL == "" {
		return fmt.Errorf("%w: mesh_url", ErrMissingAsset)
	}
	if s.EnvironmentURL == "" {
		return fmt.Errorf("%w: environment_url", ErrMissingAsset)
	}

	seen := make(map[string]struct{}, len(s.Nodes))
	for _, n := range s.Nodes {
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	hs := make(map[string]struct{}, len(s.Hotspots))
	for _, h := range s.Hotspots {
		if _, dup := hs[h.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateHotspot, h.ID)
		}
		hs[h.ID] = struct{}{}
		if h.Type == HotspotNavigation && h.TargetNodeID == "" {
			return fmt.Errorf("%w: %q", ErrMissingTarget, h.ID)
		}
	}

	if b := s.Bounds; b != nil && (b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z) {
		return ErrInvalidBounds
	}
	return nil
}
