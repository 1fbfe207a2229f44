// Package environment decodes the equirectangular environment map that lights
// the scene and derives its ambient term.
package environment

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // LDR fallbacks
	_ "image/png"
	"io"
	gomath "math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/walkthrough/pkg/math"
)

// Map is a decoded environment in linear RGB, row-major from the top.
type Map struct {
	Width   int
	Height  int
	Pixels  []float32 // 3 floats per texel
	Ambient math.Vec3 // Mean radiance
	HDR     bool
}

// At returns the linear color of texel (x, y).
func (m *Map) At(x, y int) math.Vec3 {
	i := (y*m.Width + x) * 3
	return math.Vec3{X: m.Pixels[i], Y: m.Pixels[i+1], Z: m.Pixels[i+2]}
}

// Sample returns the color seen along a unit direction, using the
// equirectangular layout with -Z at the horizontal center.
func (m *Map) Sample(dir math.Vec3) math.Vec3 {
	u := 0.5 + float32(gomath.Atan2(float64(dir.X), float64(-dir.Z)))/(2*gomath.Pi)
	v := 0.5 - float32(gomath.Asin(float64(math.Clamp(dir.Y, -1, 1))))/gomath.Pi
	x := int(u * float32(m.Width))
	y := int(v * float32(m.Height))
	x = min(max(x, 0), m.Width-1)
	y = min(max(y, 0), m.Height-1)
	return m.At(x, y)
}

// ErrEmpty is returned for images with no texels.
var ErrEmpty = errors.New("environment: empty image")

// Decode reads a Radiance .hdr stream, any LDR format registered with image
// (png, jpeg, webp, tiff, bmp) or Targa.
func Decode(r io.Reader) (*Map, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil {
		return nil, fmt.Errorf("environment: read header: %w", err)
	}
	var m *Map
	if bytes.Equal(magic, []byte("#?")) {
		m, err = decodeRGBE(br)
	} else {
		m, err = decodeImage(br)
	}
	if err != nil {
		return nil, err
	}
	if m.Width == 0 || m.Height == 0 {
		return nil, ErrEmpty
	}
	m.Ambient = mean(m.Pixels)
	return m, nil
}

// decodeImage tries every registered image format, then Targa.
func decodeImage(r io.Reader) (*Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("environment: read image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		if m, tgaErr := decodeTGA(data); tgaErr == nil {
			return m, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("environment: decode image: %w", err)
	}
	return fromImage(img), nil
}

func fromImage(img image.Image) *Map {
	b := img.Bounds()
	m := &Map{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: make([]float32, b.Dx()*b.Dy()*3),
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			m.Pixels[i] = srgbToLinear(float32(cr) / 0xffff)
			m.Pixels[i+1] = srgbToLinear(float32(cg) / 0xffff)
			m.Pixels[i+2] = srgbToLinear(float32(cb) / 0xffff)
			i += 3
		}
	}
	return m
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(gomath.Pow(float64((c+0.055)/1.055), 2.4))
}

func mean(px []float32) math.Vec3 {
	n := len(px) / 3
	if n == 0 {
		return math.Vec3{}
	}
	var r, g, b float64
	for i := 0; i < len(px); i += 3 {
		r += float64(px[i])
		g += float64(px[i+1])
		b += float64(px[i+2])
	}
	return math.Vec3{X: float32(r / float64(n)), Y: float32(g / float64(n)), Z: float32(b / float64(n))}
}
