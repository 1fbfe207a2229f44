package environment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"strings"
)

var (
	ErrBadHeader     = errors.New("environment: bad radiance header")
	ErrUnsupported   = errors.New("environment: unsupported radiance layout")
	ErrBadScanline   = errors.New("environment: corrupt scanline")
	errHeaderTooLong = errors.New("environment: header too long")
)

const maxHeaderLines = 128

// decodeRGBE reads a Radiance picture: text header, blank line, resolution
// string, then flat or adaptive-RLE scanlines of RGBE quads.
func decodeRGBE(br *bufio.Reader) (*Map, error) {
	format := ""
	for i := 0; ; i++ {
		if i == maxHeaderLines {
			return nil, errHeaderTooLong
		}
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if i == 0 && !strings.HasPrefix(line, "#?") {
			return nil, ErrBadHeader
		}
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "FORMAT="); ok {
			format = v
		}
	}
	if format != "" && format != "32-bit_rle_rgbe" {
		return nil, fmt.Errorf("%w: format %q", ErrUnsupported, format)
	}

	res, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: resolution: %v", ErrBadHeader, err)
	}
	var width, height int
	if _, err := fmt.Sscanf(strings.TrimSpace(res), "-Y %d +X %d", &height, &width); err != nil {
		return nil, fmt.Errorf("%w: resolution %q", ErrUnsupported, strings.TrimSpace(res))
	}
	if width <= 0 || height <= 0 {
		return nil, ErrEmpty
	}

	m := &Map{Width: width, Height: height, HDR: true, Pixels: make([]float32, width*height*3)}
	scan := make([]byte, width*4)
	for y := 0; y < height; y++ {
		if err := readScanline(br, scan, width); err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		row := m.Pixels[y*width*3 : (y+1)*width*3]
		for x := 0; x < width; x++ {
			row[x*3], row[x*3+1], row[x*3+2] = rgbeToFloat(scan[x*4], scan[x*4+1], scan[x*4+2], scan[x*4+3])
		}
	}
	return m, nil
}

// readScanline fills dst with width RGBE quads.
func readScanline(br *bufio.Reader, dst []byte, width int) error {
	if width < 8 || width > 0x7fff {
		_, err := io.ReadFull(br, dst)
		return err
	}
	head, err := br.Peek(4)
	if err != nil {
		return err
	}
	if head[0] != 2 || head[1] != 2 || head[2]&0x80 != 0 {
		_, err := io.ReadFull(br, dst)
		return err
	}
	if int(head[2])<<8|int(head[3]) != width {
		return ErrBadScanline
	}
	if _, err := br.Discard(4); err != nil {
		return err
	}

	// Components are stored as four separate run-length encoded planes.
	for c := 0; c < 4; c++ {
		for x := 0; x < width; {
			n, err := br.ReadByte()
			if err != nil {
				return err
			}
			if n > 128 {
				count := int(n) - 128
				if x+count > width {
					return ErrBadScanline
				}
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				for ; count > 0; count-- {
					dst[x*4+c] = v
					x++
				}
				continue
			}
			count := int(n)
			if count == 0 || x+count > width {
				return ErrBadScanline
			}
			for ; count > 0; count-- {
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				dst[x*4+c] = v
				x++
			}
		}
	}
	return nil
}

func rgbeToFloat(r, g, b, e byte) (float32, float32, float32) {
	if e == 0 {
		return 0, 0, 0
	}
	f := float32(gomath.Ldexp(1, int(e)-(128+8)))
	return float32(r) * f, float32(g) * f, float32(b) * f
}
