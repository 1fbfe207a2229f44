package environment

import (
	gomath "math"

	"github.com/Faultbox/walkthrough/pkg/math"
)

// Direction returns the unit direction for equirectangular texel (x, y),
// the inverse of Sample's mapping.
func (m *Map) Direction(x, y int) math.Vec3 {
	u := (float64(x) + 0.5) / float64(m.Width)
	v := (float64(y) + 0.5) / float64(m.Height)
	lon := (u - 0.5) * 2 * gomath.Pi
	lat := (0.5 - v) * gomath.Pi
	return math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(-gomath.Cos(lat) * gomath.Cos(lon)),
	}
}

// KeyLight estimates the dominant light in the map: the direction of the
// brightest texel and its color. Rows are weighted by solid angle so the
// stretched poles do not dominate.
func (m *Map) KeyLight() (dir math.Vec3, color math.Vec3) {
	best := -1.0
	bx, by := 0, 0
	for y := 0; y < m.Height; y++ {
		lat := (0.5 - (float64(y)+0.5)/float64(m.Height)) * gomath.Pi
		w := gomath.Cos(lat)
		for x := 0; x < m.Width; x++ {
			c := m.At(x, y)
			lum := (0.2126*float64(c.X) + 0.7152*float64(c.Y) + 0.0722*float64(c.Z)) * w
			if lum > best {
				best, bx, by = lum, x, y
			}
		}
	}
	return m.Direction(bx, by), m.At(bx, by)
}
