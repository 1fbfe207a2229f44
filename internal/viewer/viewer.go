// Package viewer is the desktop host for the walkthrough engine: an SDL
// window, the GL renderer, the hotspot marker layer and the frame loop that
// drives the engine's tick queue.
package viewer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/config"
	"github.com/Faultbox/walkthrough/internal/engine/audio"
	"github.com/Faultbox/walkthrough/internal/engine/debug"
	"github.com/Faultbox/walkthrough/internal/engine/loader"
	"github.com/Faultbox/walkthrough/internal/engine/renderer"
	"github.com/Faultbox/walkthrough/internal/engine/scheduler"
	"github.com/Faultbox/walkthrough/internal/engine/ui2d"
	"github.com/Faultbox/walkthrough/internal/engine/window"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/internal/walkthrough"
	"github.com/Faultbox/walkthrough/internal/watch"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// pausedFrame throttles the loop while the engine is stopped.
const pausedFrame = 16 * time.Millisecond

// App is the viewer instance.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	layer    *ui2d.Layer
	pointer  ui2d.Pointer
	queue    *scheduler.Queue
	loader   *loader.Loader
	shots    *debug.Screenshots
	audio    *audio.Player // nil when muted or no device
	ctx      context.Context

	space  *space.Space
	engine *walkthrough.Engine

	// Commands raised by engine events run after the tick that raised them.
	deferred []func()

	markerPress bool
	running     bool
}

// New opens the window and the space descriptor. Assets load in Run.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   logger.Named("viewer"),
		queue: scheduler.NewQueue(),
		shots: debug.NewScreenshots("screenshots", "walkthrough"),
	}

	sp, err := space.LoadFile(cfg.Space.Path)
	if err != nil {
		return nil, err
	}
	a.space = sp
	a.loader = loader.New(loader.Config{
		DecoderPath:  cfg.Engine.DecoderPath,
		FetchTimeout: cfg.Engine.FetchTimeout,
		BaseDir:      filepath.Dir(cfg.Space.Path),
	})

	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer must come after the window, which owns the GL context.
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: dw, Height: dh})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.layer = ui2d.NewLayer(a.window.GetSize())

	if cfg.Audio.Enabled {
		p := audio.New()
		if err := p.Init(); err != nil {
			a.log.Warn("audio disabled", zap.Error(err))
		} else {
			p.SetVolume(cfg.Audio.Volume)
			a.audio = p
		}
	}
	a.log.Info("viewer initialized", zap.String("space", sp.Name), zap.Int("nodes", len(sp.Nodes)))
	return a, nil
}

// Run loads the space and runs the frame loop until the window closes.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.ctx = ctx

	if err := a.open(ctx, a.space); err != nil {
		return err
	}

	var updates <-chan watch.Update
	if a.cfg.Space.Watch {
		w, err := watch.New(a.cfg.Space.Path, 0)
		if err != nil {
			a.log.Warn("descriptor watch disabled", zap.Error(err))
		} else {
			updates = w.Updates()
			go w.Run(ctx)
		}
	}

	a.running = true
	frames := 0
	fpsTimer := time.Now()
	a.log.Info("starting frame loop")

	for a.running {
		if ctx.Err() != nil {
			break
		}
		a.window.Poll(a)

		a.queue.Flush(time.Now())
		a.runDeferred()

		switch {
		case a.engine == nil:
			a.renderer.Clear()
			a.window.SwapBuffers()
		case a.engine.Running():
			a.renderer.DrawOverlay(a.layer, a.overlayScale())
			a.window.SwapBuffers()
		default:
			// Paused: keep presenting the last frame.
			time.Sleep(pausedFrame)
		}

		select {
		case u, ok := <-updates:
			if !ok {
				updates = nil
			} else if u.Err == nil {
				a.reload(ctx, u.Space)
			}
		default:
		}

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// Close disposes the engine and releases the window and GL resources.
func (a *App) Close() {
	a.log.Info("closing viewer")
	if a.engine != nil {
		a.engine.Dispose()
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// open builds and initializes an engine for sp, replacing the current one.
// A space that fails to load leaves the current engine running.
func (a *App) open(ctx context.Context, sp *space.Space) error {
	e, err := walkthrough.Replace(ctx, a.engine, walkthrough.Options{
		Renderer:  framebuffer{a.renderer, a.window},
		Overlay:   a.layer,
		Scheduler: a.queue,
		Space:     sp,
		OnEvent:   a.onEvent,
		Loader:    a.loader,
		Tuning:    Tuning(a.cfg.Engine),
	})
	swapped := e != a.engine
	if swapped {
		a.deferred = a.deferred[:0]
	}
	a.engine = e
	if swapped && e != nil {
		// Initialize announced the first node while the old engine was current.
		a.window.SetTitle(fmt.Sprintf("%s: %s", a.spaceName(), nodeLabel(e.ActiveNode())))
	}
	if err != nil {
		return err
	}
	a.space = sp

	if id := a.cfg.Space.StartNode; id != "" {
		e.NavigateToNode(id, walkthrough.NavigateOptions{Immediate: true})
	}
	if a.cfg.Space.FreeMove {
		e.EnableFreeMove(true)
	}
	if a.cfg.Space.AutoTour {
		e.SetAutoTour(true, 0)
	}
	return nil
}

// reload swaps in a changed descriptor.
func (a *App) reload(ctx context.Context, sp *space.Space) {
	a.log.Info("reloading space", zap.String("space", sp.Name))
	if err := a.open(ctx, sp); err != nil {
		a.log.Error("reload failed", zap.Error(err))
		if a.engine == nil {
			a.window.SetTitle(a.cfg.Window.Title + " (no space loaded)")
		}
	}
}

func (a *App) runDeferred() {
	for len(a.deferred) > 0 {
		fn := a.deferred[0]
		a.deferred = a.deferred[1:]
		fn()
	}
}

func (a *App) overlayScale() float32 {
	w, _ := a.window.GetSize()
	dw, _ := a.window.DrawableSize()
	if w == 0 {
		return 1
	}
	return float32(dw) / float32(w)
}

// Tuning converts engine settings into walkthrough tuning.
func Tuning(c config.EngineConfig) walkthrough.Tuning {
	return walkthrough.Tuning{
		FOV:                c.FOV,
		Near:               c.Near,
		Far:                c.Far,
		MoveSpeed:          c.MoveSpeed,
		CollisionRadius:    c.CollisionRadius,
		OcclusionEpsilon:   c.OcclusionEpsilon,
		TransitionDuration: time.Duration(c.TransitionMs) * time.Millisecond,
		Easing:             c.Easing,
	}
}

// framebuffer sizes the GL viewport in drawable pixels while the engine and
// the marker layer work in window coordinates.
type framebuffer struct {
	*renderer.Renderer
	win *window.Window
}

func (f framebuffer) Resize(int, int) {
	f.Renderer.Resize(f.win.DrawableSize())
}
