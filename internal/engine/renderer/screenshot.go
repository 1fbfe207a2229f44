package renderer

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/walkthrough/internal/engine/debug"
)

// Screenshot reads back the current framebuffer and saves it through s.
func (r *Renderer) Screenshot(s *debug.Screenshots) (string, error) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return "", errors.New("screenshot: empty framebuffer")
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return s.Save(pixels, w, h)
}
