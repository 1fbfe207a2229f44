package walkthrough

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/input"
	"github.com/Faultbox/walkthrough/internal/engine/tour"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// NavigateToNode makes id the active node and glides (or jumps) to it. Any
// running auto-tour stops. An unknown id is a no-op.
func (e *Engine) NavigateToNode(id string, opts NavigateOptions) {
	if e.state != stateRunning {
		return
	}
	n, ok := e.graph.Node(id)
	if !ok {
		e.log.Debug("navigate to unknown node ignored", zap.String("node", id))
		return
	}
	e.stopTour()
	e.goTo(n, opts.Immediate, e.clock.Now())
}

// NavigateToNextNode follows the first connection of the active node.
func (e *Engine) NavigateToNextNode() {
	if e.state != stateRunning {
		return
	}
	if n, ok := e.graph.Next(e.active.ID); ok {
		e.NavigateToNode(n.ID, NavigateOptions{})
	}
}

// NavigateToPreviousNode follows the last connection of the active node.
func (e *Engine) NavigateToPreviousNode() {
	if e.state != stateRunning {
		return
	}
	if n, ok := e.graph.Previous(e.active.ID); ok {
		e.NavigateToNode(n.ID, NavigateOptions{})
	}
}

// EnableFreeMove toggles manual walking. Disabling it snaps the camera back
// onto the active node. Either way a running auto-tour stops.
func (e *Engine) EnableFreeMove(enabled bool) {
	if e.state == stateDisposed {
		return
	}
	e.stopTour()
	e.freeMove = enabled
	e.space.ManualWalkEnabled = enabled
	e.input.Keys = input.Keys{}
	if !enabled && e.state == stateRunning {
		e.transitions.Cancel()
		e.setCameraToNode(e.active)
	}
}

// SetAutoTour starts or stops the auto-tour. A non-positive dwell uses the
// space's configured dwell. Starting with an empty route does nothing.
func (e *Engine) SetAutoTour(enabled bool, dwell time.Duration) {
	if e.state != stateRunning {
		return
	}
	if !enabled {
		e.stopTour()
		return
	}
	if dwell <= 0 {
		dwell = time.Duration(e.space.AutoTour.DwellMs) * time.Millisecond
	}

	route := tour.BuildRoute(e.graph, e.space.AutoTour)
	now := e.clock.Now()
	e.tour.Stop()
	first, ok := e.tour.Start(route, dwell, now)
	if !ok {
		return
	}
	e.log.Info("auto-tour started", zap.Int("stops", len(route)), zap.Duration("dwell", dwell))
	e.emit(EventAutoTour{State: TourStart, Node: first})
	e.goTo(first, false, now)
}

func (e *Engine) stopTour() {
	if e.tour.Stop() == nil {
		return
	}
	e.log.Info("auto-tour stopped", zap.String("node", e.active.ID))
	e.emit(EventAutoTour{State: TourStop, Node: e.active})
}

// goTo switches the active node. The logical switch is immediate; the
// nodechange event fires when the camera arrives.
func (e *Engine) goTo(n *space.Node, immediate bool, now time.Time) {
	e.active = n
	if immediate {
		e.transitions.Cancel()
		e.setCameraToNode(n)
		return
	}
	e.transitions.Begin(e.camera.Pose(), e.camera.NodePose(n), n, now)
}

func (e *Engine) setCameraToNode(n *space.Node) {
	e.camera.SetToNode(n)
	e.emit(EventNodeChange{Node: n})
}

// PointerDown starts a look drag.
func (e *Engine) PointerDown() {
	e.staging.Push(input.Event{Kind: input.PointerDown})
}

// PointerMove adds a drag delta in pixels.
func (e *Engine) PointerMove(dx, dy float32) {
	e.staging.Push(input.Event{Kind: input.PointerMove, DX: dx, DY: dy})
}

// PointerUp ends a look drag.
func (e *Engine) PointerUp() {
	e.staging.Push(input.Event{Kind: input.PointerUp})
}

// KeyDown marks a movement key held.
func (e *Engine) KeyDown(k input.Key) {
	e.staging.Push(input.Event{Kind: input.KeyDown, Key: k})
}

// KeyUp releases a movement key.
func (e *Engine) KeyUp(k input.Key) {
	e.staging.Push(input.Event{Kind: input.KeyUp, Key: k})
}

func (e *Engine) stageActivate(index int) {
	e.staging.Push(input.Event{Kind: input.Activate, Index: index})
}
