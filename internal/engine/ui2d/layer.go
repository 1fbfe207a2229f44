// Package ui2d is the screen-space hotspot layer of the desktop viewer: it
// owns one square marker per hotspot, hit-tests clicks and hovers, and hands
// the GL renderer a flat list of quads to draw.
package ui2d

import (
	"github.com/Faultbox/walkthrough/internal/engine/overlay"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// DefaultMarkerSize is the marker edge length in pixels.
const DefaultMarkerSize = 18

// Marker is one hotspot element on the layer.
type Marker struct {
	layer    *Layer
	hotspot  space.Hotspot
	x, y     float32
	visible  bool
	removed  bool
	activate func()
}

var _ overlay.Element = (*Marker)(nil)

// SetPosition centers the marker on (x, y).
func (m *Marker) SetPosition(x, y float32) {
	m.x, m.y = x, y
}

// SetVisible shows or hides the marker.
func (m *Marker) SetVisible(visible bool) {
	m.visible = visible
}

// OnActivate registers the click callback.
func (m *Marker) OnActivate(fn func()) {
	m.activate = fn
}

// Remove detaches the marker from its layer.
func (m *Marker) Remove() {
	if m.removed {
		return
	}
	m.removed = true
	m.layer.dirty = true
}

// Hotspot returns the hotspot the marker stands for.
func (m *Marker) Hotspot() space.Hotspot {
	return m.hotspot
}

// Position returns the marker center.
func (m *Marker) Position() (x, y float32) {
	return m.x, m.y
}

// Visible reports whether the marker is shown.
func (m *Marker) Visible() bool {
	return m.visible && !m.removed
}

// Layer is an overlay.Surface that keeps markers in creation order. It is
// used from the render thread only.
type Layer struct {
	width, height int
	size          float32
	markers       []*Marker
	hover         *Marker
	dirty         bool
}

var _ overlay.Surface = (*Layer)(nil)

// NewLayer creates a layer covering a width x height pixel surface.
func NewLayer(width, height int) *Layer {
	return &Layer{width: width, height: height, size: DefaultMarkerSize}
}

// NewElement adds a hidden marker for h.
func (l *Layer) NewElement(h space.Hotspot) overlay.Element {
	l.compact()
	m := &Marker{layer: l, hotspot: h}
	l.markers = append(l.markers, m)
	return m
}

// Size returns the layer size in pixels.
func (l *Layer) Size() (int, int) {
	return l.width, l.height
}

// SetSize updates the layer size after a window resize.
func (l *Layer) SetSize(width, height int) {
	l.width, l.height = width, height
}

// SetMarkerSize changes the marker edge length.
func (l *Layer) SetMarkerSize(size float32) {
	if size > 0 {
		l.size = size
	}
}

// Markers returns the live markers, visible or not.
func (l *Layer) Markers() []*Marker {
	l.compact()
	return l.markers
}

// HitTest returns the topmost visible marker under (x, y).
func (l *Layer) HitTest(x, y float32) (*Marker, bool) {
	half := l.size / 2
	for i := len(l.markers) - 1; i >= 0; i-- {
		m := l.markers[i]
		if !m.Visible() {
			continue
		}
		if x >= m.x-half && x < m.x+half && y >= m.y-half && y < m.y+half {
			return m, true
		}
	}
	return nil, false
}

// Hover records the pointer position and returns the marker under it, if any.
func (l *Layer) Hover(x, y float32) (*Marker, bool) {
	m, ok := l.HitTest(x, y)
	l.hover = m
	return m, ok
}

// Hovered returns the marker under the pointer at the last Hover call.
func (l *Layer) Hovered() *Marker {
	if l.hover != nil && !l.hover.Visible() {
		return nil
	}
	return l.hover
}

// Activate fires the callback of the marker under (x, y).
func (l *Layer) Activate(x, y float32) bool {
	m, ok := l.HitTest(x, y)
	if !ok || m.activate == nil {
		return false
	}
	m.activate()
	return true
}

// Quad is one solid rectangle in screen pixels.
type Quad struct {
	X, Y, W, H float32
	Color      Color
}

// Quads appends the outline and fill of every visible marker to dst. The
// hovered marker is drawn larger and lighter.
func (l *Layer) Quads(dst []Quad) []Quad {
	l.compact()
	hover := l.Hovered()
	for _, m := range l.markers {
		if !m.Visible() {
			continue
		}
		size, fill := l.size, HotspotColor(m.hotspot.Type)
		if m == hover {
			size *= 1.25
			fill = fill.Lighten(0.3)
		}
		half := size / 2
		dst = append(dst,
			Quad{X: m.x - half - 1, Y: m.y - half - 1, W: size + 2, H: size + 2, Color: ColorOutline},
			Quad{X: m.x - half, Y: m.y - half, W: size, H: size, Color: fill},
		)
	}
	return dst
}

func (l *Layer) compact() {
	if !l.dirty {
		return
	}
	live := l.markers[:0]
	for _, m := range l.markers {
		if !m.removed {
			live = append(live, m)
		}
	}
	for i := len(live); i < len(l.markers); i++ {
		l.markers[i] = nil
	}
	l.markers = live
	if l.hover != nil && l.hover.removed {
		l.hover = nil
	}
	l.dirty = false
}
