package walkthrough

import (
	"time"

	"github.com/Faultbox/walkthrough/internal/engine/input"
	"github.com/Faultbox/walkthrough/internal/engine/movement"
)

// tick runs one frame. The order is fixed: staged input, transition,
// auto-tour, manual movement, hotspot projection, draw.
func (e *Engine) tick(now time.Time) {
	e.handle = 0
	if !e.ticking || e.state != stateRunning {
		return
	}

	var dt time.Duration
	if !e.lastTick.IsZero() {
		dt = min(max(now.Sub(e.lastTick), 0), maxFrameDelta)
	}
	e.lastTick = now

	e.drainInput()
	transitioning := e.advanceTransition(now)
	if next, ok := e.tour.Advance(now, transitioning); ok {
		e.goTo(next, false, now)
		transitioning = true
	}
	if !transitioning {
		e.advanceMovement(dt)
	}

	viewProj := e.camera.ViewProjection()
	e.projector.Update(e.camera.Position(), viewProj)
	e.advanceClips(dt)

	e.opts.Renderer.Draw(Frame{
		Time:       now,
		Delta:      dt,
		Eye:        e.camera.Position(),
		View:       e.camera.ViewMatrix(),
		Projection: e.camera.ProjectionMatrix(),
		Ambient:    e.env.Ambient,
		Clips:      e.clips,
	})

	// A callback may have stopped, disposed or restarted the engine; a
	// restart has already queued the next tick.
	if e.ticking && e.state == stateRunning && e.handle == 0 {
		e.handle = e.opts.Scheduler.RequestTick(e.tick)
	}
}

func (e *Engine) drainInput() {
	e.staging.Drain(func(ev input.Event) {
		if ev.Kind != input.Activate {
			e.input.Apply(ev)
			return
		}
		if ev.Index >= 0 && ev.Index < len(e.space.Hotspots) {
			e.emit(EventHotspot{Hotspot: &e.space.Hotspots[ev.Index]})
		}
	})
	if dx, dy := e.input.TakeDrag(); dx != 0 || dy != 0 {
		e.camera.HandleDrag(dx, dy)
	}
}

// advanceTransition moves the camera along the active transition and reports
// whether one was in flight this frame.
func (e *Engine) advanceTransition(now time.Time) bool {
	step, ok := e.transitions.Advance(now)
	if !ok {
		return false
	}
	pose := e.camera.Pose()
	pose.Position = step.Position
	if step.Orient {
		pose.Yaw, pose.Pitch = step.Yaw, step.Pitch
	}
	e.camera.SetPose(pose)

	if step.Done {
		e.tour.Arrived(now)
		e.emit(EventNodeChange{Node: step.Target})
	}
	return true
}

func (e *Engine) advanceMovement(dt time.Duration) {
	if !e.freeMove || !e.input.Keys.Any() {
		return
	}
	next, res := e.movement.Step(e.camera.Position(), e.camera.Forward(), e.camera.Right(), e.input.Keys, float32(dt.Seconds()))
	if res == movement.Moved {
		e.camera.SetPosition(next)
	}
}

func (e *Engine) advanceClips(dt time.Duration) {
	for i := range e.clips {
		c := &e.clips[i]
		if c.Duration <= 0 {
			continue
		}
		c.Playhead = (c.Playhead + dt) % c.Duration
	}
}
