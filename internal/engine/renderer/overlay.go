package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/walkthrough/internal/engine/shader"
	"github.com/Faultbox/walkthrough/internal/engine/ui2d"
	"github.com/Faultbox/walkthrough/pkg/math"
)

const overlayVertex = `
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vColor = aColor;
}
`

const overlayFragment = `
in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

// overlayFloats is the vertex size: x, y, r, g, b, a.
const overlayFloats = 6

// overlayPass batches solid screen-space quads.
type overlayPass struct {
	program  *shader.Program
	vao      uint32
	vbo      uint32
	vertices []float32
	quads    []ui2d.Quad
}

func newOverlayPass() (*overlayPass, error) {
	p, err := shader.Compile("overlay", overlayVertex, overlayFragment)
	if err != nil {
		return nil, fmt.Errorf("create overlay shader: %w", err)
	}
	o := &overlayPass{program: p, vertices: make([]float32, 0, 1024)}

	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	stride := int32(overlayFloats * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return o, nil
}

// DrawOverlay draws the visible markers of layer on top of the frame. The
// layer is in window coordinates; scale converts them to framebuffer pixels.
func (r *Renderer) DrawOverlay(layer *ui2d.Layer, scale float32) {
	o := r.overlay
	o.quads = layer.Quads(o.quads[:0])
	if len(o.quads) == 0 {
		return
	}
	o.vertices = o.vertices[:0]
	for _, q := range o.quads {
		o.vertices = appendQuad(o.vertices, q, scale)
	}

	var prevBlend, prevDepth, prevCull bool
	gl.GetBooleanv(gl.BLEND, &prevBlend)
	gl.GetBooleanv(gl.DEPTH_TEST, &prevDepth)
	gl.GetBooleanv(gl.CULL_FACE, &prevCull)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	o.program.Use()
	o.program.SetMat4("uProjection", ortho(float32(r.config.Width), float32(r.config.Height)))
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(o.vertices)*4, gl.Ptr(o.vertices), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(o.vertices)/overlayFloats))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.UseProgram(0)

	if !prevBlend {
		gl.Disable(gl.BLEND)
	}
	if prevDepth {
		gl.Enable(gl.DEPTH_TEST)
	}
	if prevCull {
		gl.Enable(gl.CULL_FACE)
	}
}

func (o *overlayPass) close() {
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
		o.vao = 0
	}
	if o.vbo != 0 {
		gl.DeleteBuffers(1, &o.vbo)
		o.vbo = 0
	}
	o.program.Delete()
}

func appendQuad(dst []float32, q ui2d.Quad, scale float32) []float32 {
	x0, y0 := q.X*scale, q.Y*scale
	x1, y1 := (q.X+q.W)*scale, (q.Y+q.H)*scale
	c := q.Color
	return append(dst,
		x0, y0, c.R, c.G, c.B, c.A,
		x1, y0, c.R, c.G, c.B, c.A,
		x1, y1, c.R, c.G, c.B, c.A,
		x0, y0, c.R, c.G, c.B, c.A,
		x1, y1, c.R, c.G, c.B, c.A,
		x0, y1, c.R, c.G, c.B, c.A,
	)
}

// ortho maps pixel coordinates, origin top-left, to clip space.
func ortho(width, height float32) math.Mat4 {
	return math.Mat4{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}
