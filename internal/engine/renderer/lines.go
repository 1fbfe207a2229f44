package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/walkthrough/internal/engine/shader"
	"github.com/Faultbox/walkthrough/pkg/math"
)

const lineVertex = `
layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const lineFragment = `
out vec4 FragColor;

uniform vec3 uColor;

void main() {
	FragColor = vec4(uColor, 1.0);
}
`

// linePass draws debug line lists, xyz per vertex.
type linePass struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	count   int32
}

func newLinePass() (*linePass, error) {
	p, err := shader.Compile("lines", lineVertex, lineFragment)
	if err != nil {
		return nil, fmt.Errorf("create line shader: %w", err)
	}
	return &linePass{program: p}, nil
}

func (l *linePass) upload(vertices []float32) {
	l.release()
	if len(vertices) == 0 {
		return
	}
	gl.GenVertexArrays(1, &l.vao)
	gl.BindVertexArray(l.vao)
	gl.GenBuffers(1, &l.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, l.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	l.count = int32(len(vertices) / 3)
}

func (l *linePass) draw(viewProj math.Mat4, color math.Vec3) {
	if l.count == 0 {
		return
	}
	l.program.Use()
	l.program.SetMat4("uViewProj", viewProj)
	l.program.SetVec3("uColor", color)
	gl.BindVertexArray(l.vao)
	gl.DrawArrays(gl.LINES, 0, l.count)
	gl.BindVertexArray(0)
}

func (l *linePass) release() {
	if l.vao != 0 {
		gl.DeleteVertexArrays(1, &l.vao)
		l.vao = 0
	}
	if l.vbo != 0 {
		gl.DeleteBuffers(1, &l.vbo)
		l.vbo = 0
	}
	l.count = 0
}

func (l *linePass) close() {
	l.release()
	l.program.Delete()
}
