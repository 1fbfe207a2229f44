// Package space describes a walkthrough space: its viewpoint nodes, hotspots,
// asset URLs and tunables. A Space is immutable input to the engine.
package space

import "github.com/Faultbox/walkthrough/pkg/math"

// Defaults applied to fields left empty in a descriptor.
const (
	DefaultEyeHeight          = 1.7
	DefaultDwellMs            = 4200
	DefaultPointerSensitivity = 0.0025 // radians per pixel of drag
)

// HighlightTag marks nodes that make up the default auto-tour route.
const HighlightTag = "highlight"

// Orientation is a heading in degrees.
type Orientation struct {
	Yaw   float32 `yaml:"yaw"`
	Pitch float32 `yaml:"pitch"`
	Roll  float32 `yaml:"roll"`
}

// Node is a named fixed viewpoint. Position is on the ground; the camera sits
// EyeHeight above it.
type Node struct {
	ID                   string       `yaml:"id"`
	Position             math.Vec3    `yaml:"position"`
	Orientation          *Orientation `yaml:"orientation,omitempty"`
	ConnectedTo          []string     `yaml:"connected_to,omitempty"`
	Tags                 []string     `yaml:"tags,omitempty"`
	NavigationTags       []string     `yaml:"navigation_tags,omitempty"`
	Floor                int          `yaml:"floor"`
	RoomID               string       `yaml:"room_id,omitempty"`
	TransitionDurationMs int          `yaml:"transition_duration_ms,omitempty"`
}

// HasTag reports whether tag appears in Tags or NavigationTags.
func (n *Node) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	for _, t := range n.NavigationTags {
		if t == tag {
			return true
		}
	}
	return false
}

// HotspotType classifies what a hotspot does when activated.
type HotspotType string

const (
	HotspotInfo       HotspotType = "info"
	HotspotMedia      HotspotType = "media"
	HotspotLink       HotspotType = "link"
	HotspotNavigation HotspotType = "navigation"
)

// Hotspot is an interactive point of interest anchored in the space.
type Hotspot struct {
	ID           string            `yaml:"id"`
	Position     math.Vec3         `yaml:"position"`
	Orientation  *Orientation      `yaml:"orientation,omitempty"`
	Title        string            `yaml:"title"`
	Description  string            `yaml:"description,omitempty"`
	Type         HotspotType       `yaml:"type"`
	TargetNodeID string            `yaml:"target_node_id,omitempty"`
	MediaURL     string            `yaml:"media_url,omitempty"`
	Metadata     map[string]string `yaml:"metadata,omitempty"`
}

// AutoTour configures route selection for the automated tour.
type AutoTour struct {
	Order   []string `yaml:"order,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	DwellMs int      `yaml:"dwell_ms,omitempty"`
}

// Bounds is an axis-aligned box limiting manual movement.
type Bounds struct {
	Min math.Vec3 `yaml:"min"`
	Max math.Vec3 `yaml:"max"`
}

// ClampXZ clamps the horizontal components of p into the box.
func (b *Bounds) ClampXZ(p math.Vec3) math.Vec3 {
	p.X = math.Clamp(p.X, b.Min.X, b.Max.X)
	p.Z = math.Clamp(p.Z, b.Min.Z, b.Max.Z)
	return p
}

// Space is the aggregate descriptor handed to the engine.
type Space struct {
	Name               string    `yaml:"name,omitempty"`
	DefaultNodeID      string    `yaml:"default_node_id"`
	Nodes              []Node    `yaml:"nodes"`
	Hotspots           []Hotspot `yaml:"hotspots,omitempty"`
	MeshURL            string    `yaml:"mesh_url"`
	EnvironmentURL     string    `yaml:"environment_url"`
	ManualWalkEnabled  bool      `yaml:"manual_walk_enabled"`
	AutoTour           AutoTour  `yaml:"auto_tour,omitempty"`
	PointerSensitivity float32   `yaml:"pointer_sensitivity,omitempty"`
	EyeHeight          float32   `yaml:"eye_height,omitempty"`
	Bounds             *Bounds   `yaml:"bounds,omitempty"`
}

// ApplyDefaults fills unset tunables with their documented defaults.
func (s *Space) ApplyDefaults() {
	if s.EyeHeight == 0 {
		s.EyeHeight = DefaultEyeHeight
	}
	if s.PointerSensitivity == 0 {
		s.PointerSensitivity = DefaultPointerSensitivity
	}
	if s.AutoTour.DwellMs == 0 {
		s.AutoTour.DwellMs = DefaultDwellMs
	}
}
