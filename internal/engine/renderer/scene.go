package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/walkthrough/internal/engine/model"
	"github.com/Faultbox/walkthrough/internal/engine/shader"
	"github.com/Faultbox/walkthrough/pkg/math"
)

const sceneVertex = `
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uViewProj;

out vec3 vNormal;

void main() {
	vNormal = aNormal;
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const sceneFragment = `
in vec3 vNormal;
out vec4 FragColor;

uniform vec3 uAmbient;
uniform vec3 uLightDir;
uniform vec3 uLightColor;
uniform vec3 uAlbedo;
uniform float uExposure;

void main() {
	vec3 n = normalize(vNormal);
	float ndl = max(dot(n, uLightDir), 0.0);
	// Key light is clamped so a sun texel cannot blow out every surface.
	vec3 light = uAmbient + min(uLightColor, vec3(4.0)) * ndl * 0.25;
	vec3 c = uAlbedo * light * uExposure;
	c = c / (c + vec3(1.0));
	FragColor = vec4(pow(c, vec3(1.0 / 2.2)), 1.0);
}
`

// scenePass draws the packed mesh batch.
type scenePass struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	ebo     uint32
	count   int32
}

func newScenePass() (*scenePass, error) {
	p, err := shader.Compile("scene", sceneVertex, sceneFragment)
	if err != nil {
		return nil, fmt.Errorf("create scene shader: %w", err)
	}
	return &scenePass{program: p}, nil
}

func (s *scenePass) upload(b model.Batch) error {
	s.release()
	if len(b.Indices) == 0 {
		return nil
	}

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(b.Vertices)*4, gl.Ptr(b.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &s.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(b.Indices)*4, gl.Ptr(b.Indices), gl.STATIC_DRAW)

	stride := int32(model.Stride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	s.count = int32(len(b.Indices))
	if code := gl.GetError(); code != gl.NO_ERROR {
		s.release()
		return fmt.Errorf("upload scene: gl error 0x%x", code)
	}
	return nil
}

func (s *scenePass) draw(viewProj math.Mat4, ambient, lightDir, lightColor, albedo math.Vec3, exposure float32) {
	if s.count == 0 {
		return
	}
	s.program.Use()
	s.program.SetMat4("uViewProj", viewProj)
	s.program.SetVec3("uAmbient", ambient)
	s.program.SetVec3("uLightDir", lightDir)
	s.program.SetVec3("uLightColor", lightColor)
	s.program.SetVec3("uAlbedo", albedo)
	s.program.SetFloat("uExposure", exposure)

	gl.BindVertexArray(s.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, s.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (s *scenePass) release() {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
		s.vbo = 0
	}
	if s.ebo != 0 {
		gl.DeleteBuffers(1, &s.ebo)
		s.ebo = 0
	}
	s.count = 0
}

func (s *scenePass) close() {
	s.release()
	s.program.Delete()
}
