package walkthrough

import (
	"context"
	"testing"
	"time"

	"github.com/Faultbox/walkthrough/internal/engine/collision"
	"github.com/Faultbox/walkthrough/internal/engine/environment"
	"github.com/Faultbox/walkthrough/internal/engine/loader"
	"github.com/Faultbox/walkthrough/internal/engine/scheduler"
	"github.com/Faultbox/walkthrough/pkg/math"
	"github.com/Faultbox/walkthrough/pkg/space"
)

type fakeRenderer struct {
	envErr, sceneErr error
	sceneErrOnce     error
	env              *environment.Map
	scene            *loader.Scene
	draws            int
	released         int
	width, height    int
	last             Frame
	onDraw           func()
}

func (r *fakeRenderer) InstallEnvironment(env *environment.Map) error {
	if r.envErr != nil {
		return r.envErr
	}
	r.env = env
	return nil
}

func (r *fakeRenderer) LoadScene(sc *loader.Scene) error {
	if r.sceneErr != nil {
		return r.sceneErr
	}
	if err := r.sceneErrOnce; err != nil {
		r.sceneErrOnce = nil
		return err
	}
	r.scene = sc
	return nil
}

func (r *fakeRenderer) Resize(w, h int) { r.width, r.height = w, h }
func (r *fakeRenderer) Release()        { r.released++ }

func (r *fakeRenderer) Draw(f Frame) {
	r.draws++
	r.last = f
	if r.onDraw != nil {
		r.onDraw()
	}
}

type fakeElement struct {
	id       string
	x, y     float32
	visible  bool
	removed  bool
	activate func()
}

func (e *fakeElement) SetPosition(x, y float32) { e.x, e.y = x, y }
func (e *fakeElement) SetVisible(v bool)        { e.visible = v }
func (e *fakeElement) OnActivate(fn func())     { e.activate = fn }
func (e *fakeElement) Remove()                  { e.removed = true }

type fakeSurface struct {
	elements []*fakeElement
}

func (s *fakeSurface) NewElement(h space.Hotspot) OverlayElement {
	el := &fakeElement{id: h.ID}
	s.elements = append(s.elements, el)
	return el
}

func (s *fakeSurface) Size() (int, int) { return 800, 600 }

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeLoader struct {
	res   *loader.Result
	err   error
	calls int
}

func (l *fakeLoader) Load(context.Context, *space.Space) (*loader.Result, error) {
	l.calls++
	return l.res, l.err
}

type harness struct {
	t        *testing.T
	engine   *Engine
	clock    *fakeClock
	queue    *scheduler.Queue
	renderer *fakeRenderer
	surface  *fakeSurface
	loader   *fakeLoader
	events   []Event
}

func v3(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// newHarness builds an engine over fakes. world may be nil for a space
// without collision geometry.
func newHarness(t *testing.T, sp *space.Space, world *collision.World, tuning Tuning) *harness {
	t.Helper()
	if world == nil {
		world = collision.NewWorld(0)
	}
	h := &harness{
		t:        t,
		clock:    &fakeClock{now: time.Unix(1_700_000_000, 0)},
		queue:    scheduler.NewQueue(),
		renderer: &fakeRenderer{},
		surface:  &fakeSurface{},
		loader: &fakeLoader{res: &loader.Result{
			Environment: &environment.Map{Width: 1, Height: 1, Pixels: []float32{0.5, 0.5, 0.5}, Ambient: v3(0.5, 0.5, 0.5)},
			Scene:       &loader.Scene{Collision: world},
		}},
	}
	e, err := New(Options{
		Renderer:  h.renderer,
		Overlay:   h.surface,
		Scheduler: h.queue,
		Space:     sp,
		OnEvent:   func(ev Event) { h.events = append(h.events, ev) },
		Clock:     h.clock,
		Loader:    h.loader,
		Tuning:    tuning,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.engine = e
	return h
}

func (h *harness) init() {
	h.t.Helper()
	if err := h.engine.Initialize(context.Background()); err != nil {
		h.t.Fatalf("Initialize: %v", err)
	}
}

// step advances the clock by d and runs one frame.
func (h *harness) step(d time.Duration) {
	h.clock.now = h.clock.now.Add(d)
	h.queue.Flush(h.clock.now)
}

// run steps frame by frame for total.
func (h *harness) run(total, frame time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += frame {
		h.step(frame)
	}
}

func (h *harness) reset() {
	h.events = nil
}

func (h *harness) nodeChanges() []string {
	var ids []string
	for _, ev := range h.events {
		if nc, ok := ev.(EventNodeChange); ok {
			ids = append(ids, nc.Node.ID)
		}
	}
	return ids
}

func (h *harness) tourEvents() []EventAutoTour {
	var out []EventAutoTour
	for _, ev := range h.events {
		if at, ok := ev.(EventAutoTour); ok {
			out = append(out, at)
		}
	}
	return out
}

// corridor is three nodes along -Z, each connected to the next.
func corridor() *space.Space {
	return &space.Space{
		DefaultNodeID: "n0",
		Nodes: []space.Node{
			{ID: "n0", Position: v3(0, 0, 0), ConnectedTo: []string{"n1"}},
			{ID: "n1", Position: v3(0, 0, -4), ConnectedTo: []string{"n2", "n0"}},
			{ID: "n2", Position: v3(4, 0, -4), ConnectedTo: []string{"n1"}},
		},
		MeshURL:        "mem://mesh.glb",
		EnvironmentURL: "mem://env.hdr",
	}
}
