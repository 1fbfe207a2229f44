// Package renderer draws a walkthrough space with OpenGL 4.1: the environment
// as a sky, the spatial mesh lit by it, optional collision wireframes and the
// hotspot marker layer.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/debug"
	"github.com/Faultbox/walkthrough/internal/engine/environment"
	"github.com/Faultbox/walkthrough/internal/engine/loader"
	"github.com/Faultbox/walkthrough/internal/engine/model"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/internal/walkthrough"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	// Albedo tints every surface of the mesh.
	Albedo math.Vec3
	// Exposure scales scene radiance before tone mapping.
	Exposure float32
}

// Renderer implements walkthrough.Renderer. Must be created, used and closed
// on the thread that owns the GL context.
type Renderer struct {
	config Config
	log    *zap.Logger

	scene   *scenePass
	sky     *skyPass
	lines   *linePass
	overlay *overlayPass

	keyDir   math.Vec3
	keyColor math.Vec3

	wireframe bool
}

var _ walkthrough.Renderer = (*Renderer)(nil)

// New creates a renderer. The GL context must already be current.
func New(cfg Config) (*Renderer, error) {
	if cfg.Albedo == (math.Vec3{}) {
		cfg.Albedo = math.Vec3{X: 0.8, Y: 0.8, Z: 0.8}
	}
	if cfg.Exposure <= 0 {
		cfg.Exposure = 1
	}
	r := &Renderer{config: cfg, log: logger.Named("renderer")}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	if r.scene, err = newScenePass(); err != nil {
		r.Close()
		return nil, err
	}
	if r.sky, err = newSkyPass(); err != nil {
		r.Close()
		return nil, err
	}
	if r.lines, err = newLinePass(); err != nil {
		r.Close()
		return nil, err
	}
	if r.overlay, err = newOverlayPass(); err != nil {
		r.Close()
		return nil, err
	}

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// InstallEnvironment uploads env as the sky and derives the key light.
func (r *Renderer) InstallEnvironment(env *environment.Map) error {
	if err := r.sky.upload(env); err != nil {
		return err
	}
	r.keyDir, r.keyColor = env.KeyLight()
	r.log.Debug("environment installed",
		zap.Int("width", env.Width),
		zap.Int("height", env.Height),
		zap.Bool("hdr", env.HDR),
		zap.Any("keyDir", r.keyDir),
	)
	return nil
}

// LoadScene uploads the drawable meshes of sc and the collision wireframe.
func (r *Renderer) LoadScene(sc *loader.Scene) error {
	batch := model.Pack(sc.Drawable())
	if err := r.scene.upload(batch); err != nil {
		return err
	}
	r.lines.upload(debug.CollisionLines(sc.Collision, 0.01))
	r.log.Debug("scene uploaded",
		zap.Int("vertices", batch.VertexCount()),
		zap.Int("indices", len(batch.Indices)),
		zap.Int("ranges", len(batch.Ranges)),
	)
	return nil
}

// Resize sets the viewport to the framebuffer size in pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetWireframe toggles drawing collision volume bounds.
func (r *Renderer) SetWireframe(on bool) {
	r.wireframe = on
}

// Wireframe reports whether collision bounds are drawn.
func (r *Renderer) Wireframe() bool {
	return r.wireframe
}

// Clear clears the framebuffer, for frames with no space loaded.
func (r *Renderer) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders one frame of the space.
func (r *Renderer) Draw(f walkthrough.Frame) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	viewProj := f.Projection.Mul(f.View)
	r.scene.draw(viewProj, f.Ambient, r.keyDir, r.keyColor, r.config.Albedo, r.config.Exposure)
	r.sky.draw(f.View, f.Projection, r.config.Exposure)
	if r.wireframe {
		r.lines.draw(viewProj, math.Vec3{X: 1, Y: 0.2, Z: 0.2})
	}
}

// Release frees the GPU resources of the loaded space. The renderer can
// install another space afterwards.
func (r *Renderer) Release() {
	if r.scene != nil {
		r.scene.release()
	}
	if r.sky != nil {
		r.sky.release()
	}
	if r.lines != nil {
		r.lines.release()
	}
	r.log.Debug("space resources released")
}

// Close releases everything, programs included.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.Release()
	if r.scene != nil {
		r.scene.close()
	}
	if r.sky != nil {
		r.sky.close()
	}
	if r.lines != nil {
		r.lines.close()
	}
	if r.overlay != nil {
		r.overlay.close()
	}
}
