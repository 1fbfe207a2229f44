package environment

import (
	"errors"
	"fmt"
)

// Targa has no magic number, so it is tried after every registered format.

const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
	tgaHeaderSize   = 18
)

var errTGATruncated = errors.New("environment: tga data truncated")

// decodeTGA reads uncompressed or RLE true-color Targa data into linear RGB.
func decodeTGA(data []byte) (*Map, error) {
	if len(data) < tgaHeaderSize {
		return nil, errTGATruncated
	}
	idLength := int(data[0])
	if data[1] != 0 {
		return nil, fmt.Errorf("environment: color-mapped tga not supported")
	}
	kind := data[2]
	if kind != tgaTrueColor && kind != tgaTrueColorRLE {
		return nil, fmt.Errorf("environment: unsupported tga type %d", kind)
	}
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("environment: unsupported tga depth %d", bpp)
	}
	topDown := data[17]&0x20 != 0

	off := tgaHeaderSize + idLength
	if off > len(data) {
		return nil, errTGATruncated
	}
	src := data[off:]
	stride := bpp / 8
	count := width * height

	m := &Map{Width: width, Height: height, Pixels: make([]float32, count*3)}
	put := func(i int, px []byte) {
		x, y := i%width, i/width
		if !topDown {
			y = height - 1 - y
		}
		j := (y*width + x) * 3
		// Stored as BGR(A).
		m.Pixels[j] = srgbToLinear(float32(px[2]) / 255)
		m.Pixels[j+1] = srgbToLinear(float32(px[1]) / 255)
		m.Pixels[j+2] = srgbToLinear(float32(px[0]) / 255)
	}

	if kind == tgaTrueColor {
		if len(src) < count*stride {
			return nil, errTGATruncated
		}
		for i := 0; i < count; i++ {
			put(i, src[i*stride:])
		}
		return m, nil
	}

	i, p := 0, 0
	for i < count {
		if p >= len(src) {
			return nil, errTGATruncated
		}
		header := src[p]
		p++
		n := int(header&0x7f) + 1
		if i+n > count {
			n = count - i
		}
		if header&0x80 != 0 {
			if p+stride > len(src) {
				return nil, errTGATruncated
			}
			px := src[p : p+stride]
			p += stride
			for ; n > 0; n-- {
				put(i, px)
				i++
			}
			continue
		}
		if p+n*stride > len(src) {
			return nil, errTGATruncated
		}
		for ; n > 0; n-- {
			put(i, src[p:p+stride])
			p += stride
			i++
		}
	}
	return m, nil
}
