package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/walkthrough/internal/engine/environment"
	"github.com/Faultbox/walkthrough/internal/engine/shader"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// The sky is a single fullscreen triangle at the far plane. Each fragment
// reconstructs its view ray from the projection and rotates it to world space.
const skyVertex = `
out vec2 vNDC;

void main() {
	vec2 p = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2) * 2.0 - 1.0;
	vNDC = p;
	gl_Position = vec4(p, 1.0, 1.0);
}
`

const skyFragment = `
in vec2 vNDC;
out vec4 FragColor;

uniform sampler2D uEnvironment;
uniform mat4 uView;
uniform mat4 uProjection;
uniform float uExposure;

const float PI = 3.14159265359;

void main() {
	vec3 viewDir = vec3(vNDC.x / uProjection[0][0], vNDC.y / uProjection[1][1], -1.0);
	vec3 dir = normalize(transpose(mat3(uView)) * viewDir);
	vec2 uv = vec2(0.5 + atan(dir.x, -dir.z) / (2.0 * PI), 0.5 - asin(clamp(dir.y, -1.0, 1.0)) / PI);
	vec3 c = texture(uEnvironment, uv).rgb * uExposure;
	c = c / (c + vec3(1.0));
	FragColor = vec4(pow(c, vec3(1.0 / 2.2)), 1.0);
}
`

// skyPass draws the environment map behind the scene.
type skyPass struct {
	program *shader.Program
	vao     uint32
	texture uint32
}

func newSkyPass() (*skyPass, error) {
	p, err := shader.Compile("sky", skyVertex, skyFragment)
	if err != nil {
		return nil, fmt.Errorf("create sky shader: %w", err)
	}
	s := &skyPass{program: p}
	// Core profile refuses to draw without a bound VAO, even an empty one.
	gl.GenVertexArrays(1, &s.vao)
	return s, nil
}

func (s *skyPass) upload(env *environment.Map) error {
	s.release()
	if env.Width == 0 || env.Height == 0 {
		return environment.ErrEmpty
	}
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	if int32(env.Width) > maxSize || int32(env.Height) > maxSize {
		return fmt.Errorf("environment %dx%d exceeds max texture size %d", env.Width, env.Height, maxSize)
	}

	gl.GenTextures(1, &s.texture)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB32F, int32(env.Width), int32(env.Height), 0, gl.RGB, gl.FLOAT, gl.Ptr(env.Pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		s.release()
		return fmt.Errorf("upload environment: gl error 0x%x", code)
	}
	return nil
}

func (s *skyPass) draw(view, projection math.Mat4, exposure float32) {
	if s.texture == 0 {
		return
	}
	var prevMask bool
	gl.GetBooleanv(gl.DEPTH_WRITEMASK, &prevMask)
	gl.DepthMask(false)

	s.program.Use()
	s.program.SetMat4("uView", view)
	s.program.SetMat4("uProjection", projection)
	s.program.SetFloat("uExposure", exposure)
	s.program.SetInt("uEnvironment", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.texture)
	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.DepthMask(prevMask)
}

func (s *skyPass) release() {
	if s.texture != 0 {
		gl.DeleteTextures(1, &s.texture)
		s.texture = 0
	}
}

func (s *skyPass) close() {
	s.release()
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		s.vao = 0
	}
	s.program.Delete()
}
