// Package walkthrough is the first-person walkthrough engine: it loads a
// space, owns the camera and drives transitions, the auto-tour, manual
// movement and hotspot projection once per frame.
package walkthrough

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/camera"
	"github.com/Faultbox/walkthrough/internal/engine/environment"
	"github.com/Faultbox/walkthrough/internal/engine/input"
	"github.com/Faultbox/walkthrough/internal/engine/loader"
	"github.com/Faultbox/walkthrough/internal/engine/movement"
	"github.com/Faultbox/walkthrough/internal/engine/navigation"
	"github.com/Faultbox/walkthrough/internal/engine/overlay"
	"github.com/Faultbox/walkthrough/internal/engine/tour"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// DefaultTransitionDuration is the hop duration for nodes without an override.
const DefaultTransitionDuration = 1200 * time.Millisecond

// maxFrameDelta caps dt after a stall so movement never teleports.
const maxFrameDelta = 100 * time.Millisecond

// Tuning holds engine constants. Zero fields take defaults.
type Tuning struct {
	FOV                float32 // Degrees
	Near, Far          float32
	MoveSpeed          float32 // Meters per second
	CollisionRadius    float32
	OcclusionEpsilon   float32
	TransitionDuration time.Duration
	Easing             string
}

// Options configures an Engine.
type Options struct {
	Renderer  Renderer
	Overlay   OverlaySurface
	Scheduler Scheduler
	Space     *space.Space
	OnEvent   func(Event)
	Clock     Clock
	Loader    AssetLoader
	Tuning    Tuning
}

// NavigateOptions modifies NavigateToNode.
type NavigateOptions struct {
	// Immediate hard-sets the camera instead of gliding.
	Immediate bool
}

type lifecycle uint8

const (
	stateConstructed lifecycle = iota
	stateInitializing
	stateRunning
	stateDisposed
)

func (s lifecycle) String() string {
	switch s {
	case stateConstructed:
		return "constructed"
	case stateInitializing:
		return "initializing"
	case stateRunning:
		return "running"
	}
	return "disposed"
}

// Engine is not safe for concurrent use, except for the input methods
// (PointerDown, PointerMove, PointerUp, KeyDown, KeyUp), which may be called
// from any goroutine.
type Engine struct {
	opts  Options
	log   *zap.Logger
	clock Clock
	space *space.Space

	graph       *navigation.Graph
	camera      *camera.Controller
	transitions *navigation.Scheduler
	tour        tour.Scheduler
	movement    *movement.System
	projector   *overlay.Projector

	staging *input.Staging
	input   input.State

	env   *environment.Map
	scene *loader.Scene
	clips []ClipState

	active    *space.Node
	freeMove  bool
	state     lifecycle
	installed bool

	ticking  bool
	handle   TickHandle
	lastTick time.Time
}

// New validates the options and builds an engine in the constructed state.
// A missing default node falls back to the first declared node.
func New(opts Options) (*Engine, error) {
	if opts.Renderer == nil || opts.Overlay == nil || opts.Scheduler == nil {
		return nil, fmt.Errorf("%w: renderer, overlay and scheduler are required", ErrMissingPort)
	}
	if opts.Space == nil || len(opts.Space.Nodes) == 0 {
		return nil, &InvalidReferenceError{Field: "nodes"}
	}
	if opts.Clock == nil {
		opts.Clock = wallClock{}
	}
	if opts.Loader == nil {
		opts.Loader = loader.New(loader.Config{})
	}
	if opts.Tuning.TransitionDuration <= 0 {
		opts.Tuning.TransitionDuration = DefaultTransitionDuration
	}
	if opts.Tuning.OcclusionEpsilon <= 0 {
		opts.Tuning.OcclusionEpsilon = overlay.DefaultEpsilon
	}

	sp := *opts.Space
	sp.ApplyDefaults()

	e := &Engine{
		opts:     opts,
		log:      logger.Named("walkthrough"),
		clock:    opts.Clock,
		space:    &sp,
		graph:    navigation.NewGraph(sp.Nodes),
		staging:  input.NewStaging(64),
		freeMove: sp.ManualWalkEnabled,
	}

	easing, ok := navigation.EasingByName(opts.Tuning.Easing)
	if !ok {
		e.log.Warn("unknown easing, using smoothstep", zap.String("easing", opts.Tuning.Easing))
	}
	e.transitions = navigation.NewScheduler(easing, opts.Tuning.TransitionDuration)

	e.camera = camera.New(camera.Config{
		EyeHeight:   sp.EyeHeight,
		Sensitivity: sp.PointerSensitivity,
		FOV:         opts.Tuning.FOV,
		Near:        opts.Tuning.Near,
		Far:         opts.Tuning.Far,
	})

	if n, ok := e.graph.Node(sp.DefaultNodeID); ok {
		e.active = n
	} else {
		err := &InvalidReferenceError{Field: "default_node_id", ID: sp.DefaultNodeID}
		e.active = e.graph.At(0)
		e.log.Warn("default node missing, falling back to first node",
			zap.Error(err), zap.String("fallback", e.active.ID))
	}
	return e, nil
}

// Initialize loads the space's assets, seeds the camera at the default node,
// builds the overlay elements, emits ready and starts the loop. On failure it
// returns *AssetLoadError and the engine stays constructed, so the host may
// retry.
func (e *Engine) Initialize(ctx context.Context) error {
	switch e.state {
	case stateDisposed:
		return ErrDisposed
	case stateConstructed:
	default:
		return ErrAlreadyInitialized
	}
	e.state = stateInitializing
	e.log.Info("initializing", zap.String("space", e.space.Name), zap.Int("nodes", e.graph.Len()))
	start := time.Now()

	res, err := e.opts.Loader.Load(ctx, e.space)
	if err != nil {
		e.state = stateConstructed
		return assetError(err)
	}
	if err := e.install(res); err != nil {
		e.state = stateConstructed
		return err
	}

	e.movement = movement.New(movement.Config{
		Speed:  e.opts.Tuning.MoveSpeed,
		Radius: e.opts.Tuning.CollisionRadius,
		Bounds: e.space.Bounds,
	}, e.scene.Collision)

	e.projector = overlay.NewProjector(e.scene.Collision, e.opts.Tuning.OcclusionEpsilon)
	e.projector.Attach(e.opts.Overlay, e.space.Hotspots, e.stageActivate)
	w, h := e.opts.Overlay.Size()
	e.camera.SetAspect(w, h)

	e.clips = make([]ClipState, len(e.scene.Clips))
	for i, c := range e.scene.Clips {
		e.clips[i] = ClipState{Name: c.Name, Duration: c.Duration}
	}

	e.state = stateRunning
	e.setCameraToNode(e.active)
	e.log.Info("ready",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("node", e.active.ID),
		zap.Int("hotspots", len(e.space.Hotspots)),
		zap.Int("collisionVolumes", e.scene.Collision.Len()))
	e.emit(EventReady{})
	e.Start()
	return nil
}

func (e *Engine) install(res *loader.Result) error {
	if err := e.opts.Renderer.InstallEnvironment(res.Environment); err != nil {
		return &AssetLoadError{Asset: loader.AssetEnvironment, URL: e.space.EnvironmentURL, Err: err}
	}
	e.installed = true
	if err := e.opts.Renderer.LoadScene(res.Scene); err != nil {
		e.opts.Renderer.Release()
		e.installed = false
		return &AssetLoadError{Asset: loader.AssetMesh, URL: e.space.MeshURL, Err: err}
	}
	e.env = res.Environment
	e.scene = res.Scene
	return nil
}

func assetError(err error) error {
	var le *loader.Error
	if errors.As(err, &le) {
		return &AssetLoadError{Asset: le.Asset, URL: le.URL, Err: le.Err}
	}
	return &AssetLoadError{Asset: "assets", Err: err}
}

// Dispose stops the loop, cancels transitions and the tour, removes overlay
// elements, detaches input and releases renderer resources. Safe to call
// more than once.
func (e *Engine) Dispose() {
	if e.state == stateDisposed {
		return
	}
	e.Stop()
	e.tour.Stop()
	e.transitions.Cancel()
	if e.projector != nil {
		e.projector.Detach()
	}
	e.staging.Close()
	e.input.Reset()
	if e.installed {
		e.opts.Renderer.Release()
		e.installed = false
	}
	e.env, e.scene = nil, nil
	e.state = stateDisposed
	e.log.Info("disposed")
}

// Start resumes ticking. It does nothing unless the engine is running.
func (e *Engine) Start() {
	if e.state != stateRunning || e.ticking {
		return
	}
	e.ticking = true
	e.lastTick = time.Time{}
	e.handle = e.opts.Scheduler.RequestTick(e.tick)
}

// Stop pauses ticking.
func (e *Engine) Stop() {
	if !e.ticking {
		return
	}
	e.ticking = false
	if e.handle != 0 {
		e.opts.Scheduler.CancelTick(e.handle)
		e.handle = 0
	}
}

// Running reports whether the loop is ticking.
func (e *Engine) Running() bool {
	return e.ticking
}

// Resize updates the projection aspect and the overlay rect.
func (e *Engine) Resize(width, height int) {
	if e.state == stateDisposed || width <= 0 || height <= 0 {
		return
	}
	e.camera.SetAspect(width, height)
	if e.projector != nil {
		e.projector.SetRect(overlay.Rect{W: float32(width), H: float32(height)})
	}
	e.opts.Renderer.Resize(width, height)
}

// ActiveNode returns the node the camera is at or travelling to, or nil
// before Initialize and after Dispose.
func (e *Engine) ActiveNode() *space.Node {
	if e.state != stateRunning {
		return nil
	}
	return e.active
}

// Nodes returns a copy of every node in declaration order.
func (e *Engine) Nodes() []space.Node {
	return e.graph.Nodes()
}

// Graph exposes the read-only navigation graph.
func (e *Engine) Graph() *navigation.Graph {
	return e.graph
}

// Camera exposes the camera controller for reading the pose.
func (e *Engine) Camera() *camera.Controller {
	return e.camera
}

// Space returns the descriptor the engine runs with, defaults applied.
func (e *Engine) Space() *space.Space {
	return e.space
}

// FreeMove reports whether manual walking is enabled.
func (e *Engine) FreeMove() bool {
	return e.freeMove
}

// AutoTourRunning reports whether an auto-tour is active.
func (e *Engine) AutoTourRunning() bool {
	return e.tour.Running()
}

func (e *Engine) emit(ev Event) {
	if e.opts.OnEvent != nil {
		e.opts.OnEvent(ev)
	}
}
