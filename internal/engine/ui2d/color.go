package ui2d

import "github.com/Faultbox/walkthrough/pkg/space"

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Marker palette.
var (
	ColorWhite      = Color{1, 1, 1, 1}
	ColorInfo       = Color{0.2, 0.6, 0.9, 1}
	ColorMedia      = Color{0.9, 0.5, 0.2, 1}
	ColorLink       = Color{0.6, 0.4, 0.9, 1}
	ColorNavigation = Color{0.3, 0.8, 0.4, 1}
	ColorOutline    = Color{0.05, 0.05, 0.08, 0.9}
)

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Lighten returns a lighter version of the color.
func (c Color) Lighten(factor float32) Color {
	return Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
		A: c.A,
	}
}

// HotspotColor returns the marker fill for a hotspot type.
func HotspotColor(t space.HotspotType) Color {
	switch t {
	case space.HotspotMedia:
		return ColorMedia
	case space.HotspotLink:
		return ColorLink
	case space.HotspotNavigation:
		return ColorNavigation
	}
	return ColorInfo
}
