package viewer

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/audio"
	"github.com/Faultbox/walkthrough/internal/engine/input"
	"github.com/Faultbox/walkthrough/internal/engine/window"
	"github.com/Faultbox/walkthrough/internal/walkthrough"
	"github.com/Faultbox/walkthrough/pkg/space"
)

var _ window.Handler = (*App)(nil)

// OnQuit stops the frame loop.
func (a *App) OnQuit() {
	a.running = false
}

// OnResize resizes the marker layer and the engine.
func (a *App) OnResize(width, height int) {
	a.layer.SetSize(width, height)
	if a.engine != nil {
		a.engine.Resize(width, height)
	}
}

// OnKey handles movement keys and viewer shortcuts.
func (a *App) OnKey(scancode int, down, repeat bool) {
	if a.engine == nil {
		if down && scancode == int(sdl.SCANCODE_ESCAPE) {
			a.running = false
		}
		return
	}
	if k, ok := input.KeyForScancode(scancode); ok {
		if down {
			a.engine.KeyDown(k)
		} else {
			a.engine.KeyUp(k)
		}
		return
	}
	if !down || repeat {
		return
	}

	e := a.engine
	switch scancode {
	case int(sdl.SCANCODE_ESCAPE):
		a.running = false
	case int(sdl.SCANCODE_N):
		e.NavigateToNextNode()
	case int(sdl.SCANCODE_P):
		e.NavigateToPreviousNode()
	case int(sdl.SCANCODE_T):
		e.SetAutoTour(!e.AutoTourRunning(), 0)
	case int(sdl.SCANCODE_F):
		e.EnableFreeMove(!e.FreeMove())
	case int(sdl.SCANCODE_SPACE):
		if e.Running() {
			e.Stop()
		} else {
			e.Start()
		}
	case int(sdl.SCANCODE_F3):
		a.renderer.SetWireframe(!a.renderer.Wireframe())
	case int(sdl.SCANCODE_F12):
		name, err := a.renderer.Screenshot(a.shots)
		if err != nil {
			a.log.Error("screenshot failed", zap.Error(err))
			return
		}
		a.log.Info("screenshot saved", zap.String("path", name))
	default:
		// 1..9 jump straight to the nth node.
		if n := scancode - int(sdl.SCANCODE_1); n >= 0 && n < 9 {
			nodes := e.Nodes()
			if n < len(nodes) {
				e.NavigateToNode(nodes[n].ID, walkthrough.NavigateOptions{Immediate: true})
			}
		}
	}
}

// OnMouseButton starts or ends a look drag, or clicks a marker.
func (a *App) OnMouseButton(button int, down bool, x, y float32) {
	if button != window.ButtonLeft || a.engine == nil {
		return
	}
	if down {
		a.pointer.Press(x, y)
		_, a.markerPress = a.layer.HitTest(x, y)
		if !a.markerPress {
			a.engine.PointerDown()
		}
		return
	}

	click := a.pointer.Release(x, y)
	if a.markerPress {
		a.markerPress = false
		if click {
			a.layer.Activate(x, y)
		}
		return
	}
	a.engine.PointerUp()
}

// OnMouseMove turns the camera while dragging and tracks marker hover.
func (a *App) OnMouseMove(x, y float32) {
	dx, dy := a.pointer.Move(x, y)
	if a.engine != nil && a.pointer.Down && !a.markerPress {
		a.engine.PointerMove(dx, dy)
	}
	if m, ok := a.layer.Hover(x, y); ok {
		a.window.SetTitle(fmt.Sprintf("%s: %s", a.space.Name, m.Hotspot().Title))
	}
}

func (a *App) onEvent(ev walkthrough.Event) {
	switch ev := ev.(type) {
	case walkthrough.EventReady:
		a.log.Info("space ready", zap.String("space", a.spaceName()))
	case walkthrough.EventNodeChange:
		a.log.Info("node changed", zap.String("node", ev.Node.ID))
		a.window.SetTitle(fmt.Sprintf("%s: %s", a.spaceName(), nodeLabel(ev.Node)))
	case walkthrough.EventAutoTour:
		a.log.Info("auto-tour", zap.String("state", string(ev.State)), zap.String("node", ev.Node.ID))
	case walkthrough.EventHotspot:
		a.onHotspot(ev.Hotspot)
	}
}

func (a *App) onHotspot(h *space.Hotspot) {
	a.log.Info("hotspot activated",
		zap.String("id", h.ID),
		zap.String("type", string(h.Type)),
		zap.String("title", h.Title),
		zap.String("media", h.MediaURL))
	if h.Type == space.HotspotMedia {
		a.playMedia(h.MediaURL)
	}
	if h.Type == space.HotspotNavigation && h.TargetNodeID != "" {
		target := h.TargetNodeID
		a.deferred = append(a.deferred, func() {
			if a.engine != nil {
				a.engine.NavigateToNode(target, walkthrough.NavigateOptions{})
			}
		})
	}
}

// playMedia fetches and plays a narration clip off the render thread.
func (a *App) playMedia(url string) {
	if a.audio == nil || !audio.Supported(url) {
		return
	}
	if playing, ok := a.audio.Playing(); ok && playing == url {
		a.audio.Stop()
		return
	}
	go func() {
		data, err := a.loader.Fetch(a.ctx, url)
		if err != nil {
			a.log.Warn("media fetch failed", zap.String("url", url), zap.Error(err))
			return
		}
		if err := a.audio.Play(data, url); err != nil {
			a.log.Warn("media playback failed", zap.String("url", url), zap.Error(err))
		}
	}()
}

func (a *App) spaceName() string {
	if a.engine != nil {
		return a.engine.Space().Name
	}
	return a.space.Name
}

func nodeLabel(n *space.Node) string {
	if n.RoomID != "" {
		return fmt.Sprintf("%s (%s)", n.ID, n.RoomID)
	}
	return n.ID
}
