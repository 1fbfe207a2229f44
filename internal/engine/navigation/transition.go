package navigation

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/walkthrough/internal/engine/camera"
	"github.com/Faultbox/walkthrough/pkg/math"
	"github.com/Faultbox/walkthrough/pkg/space"
)

var forward = math.Vec3{Z: -1}

// Transition is one in-flight glide towards a node.
type Transition struct {
	Target   *space.Node
	From     camera.Pose
	To       camera.Pose
	Start    time.Time
	Duration time.Duration
	Orient   bool // Turn towards To's heading as well as moving

	tween    *gween.Tween
	fromQuat math.Quat
	toQuat   math.Quat
}

// Step is the pose a transition asks for on one tick.
type Step struct {
	Position math.Vec3
	Yaw      float32
	Pitch    float32
	Orient   bool
	Done     bool
	Target   *space.Node
}

// Scheduler runs at most one transition. Starting another replaces it.
type Scheduler struct {
	active          *Transition
	easing          ease.TweenFunc
	DefaultDuration time.Duration
}

// NewScheduler creates an idle scheduler. A nil easing selects smoothstep.
func NewScheduler(easing ease.TweenFunc, defaultDuration time.Duration) *Scheduler {
	if easing == nil {
		easing = Smoothstep
	}
	return &Scheduler{easing: easing, DefaultDuration: defaultDuration}
}

// DurationFor returns the hop duration into node: its override, else the default.
func (s *Scheduler) DurationFor(n *space.Node) time.Duration {
	if n != nil && n.TransitionDurationMs > 0 {
		return time.Duration(n.TransitionDurationMs) * time.Millisecond
	}
	return s.DefaultDuration
}

// Begin starts a glide from the current pose, discarding any in-flight one.
// Orientation is interpolated only when the target node declares one.
func (s *Scheduler) Begin(from, to camera.Pose, target *space.Node, now time.Time) *Transition {
	d := s.DurationFor(target)
	tr := &Transition{
		Target:   target,
		From:     from,
		To:       to,
		Start:    now,
		Duration: d,
		Orient:   target != nil && target.Orientation != nil,
		tween:    gween.New(0, 1, float32(d.Seconds()), s.easing),
		fromQuat: math.QuatFromYawPitch(from.Yaw, from.Pitch),
		toQuat:   math.QuatFromYawPitch(to.Yaw, to.Pitch),
	}
	s.active = tr
	return tr
}

// Active reports whether a transition is in flight.
func (s *Scheduler) Active() bool {
	return s.active != nil
}

// Current returns the in-flight transition, or nil.
func (s *Scheduler) Current() *Transition {
	return s.active
}

// Cancel drops the in-flight transition, leaving the camera where it is.
func (s *Scheduler) Cancel() {
	s.active = nil
}

// Advance computes the pose for now. When progress reaches 1 the step lands
// exactly on the destination pose and the scheduler returns to idle.
func (s *Scheduler) Advance(now time.Time) (Step, bool) {
	tr := s.active
	if tr == nil {
		return Step{}, false
	}

	p, finished := tr.tween.Set(float32(now.Sub(tr.Start).Seconds()))
	if finished {
		s.active = nil
		return Step{
			Position: tr.To.Position,
			Yaw:      tr.To.Yaw,
			Pitch:    tr.To.Pitch,
			Orient:   tr.Orient,
			Done:     true,
			Target:   tr.Target,
		}, true
	}

	step := Step{
		Position: tr.From.Position.Lerp(tr.To.Position, p),
		Orient:   tr.Orient,
		Target:   tr.Target,
	}
	if tr.Orient {
		q := tr.fromQuat.Slerp(tr.toQuat, p)
		step.Yaw, step.Pitch = math.YawPitch(q.Rotate(forward))
	}
	return step, true
}
