// Package movement turns held movement keys into camera motion on the
// horizontal plane, refusing any step that would touch collision geometry.
package movement

import (
	"github.com/Faultbox/walkthrough/internal/engine/collision"
	"github.com/Faultbox/walkthrough/internal/engine/input"
	"github.com/Faultbox/walkthrough/pkg/math"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// Defaults for the walking model.
const (
	DefaultSpeed  = 2.5 // metres per second
	DefaultRadius = 0.3 // metres
)

// Result describes what a step did.
type Result uint8

const (
	Idle    Result = iota // no key held or zero frame time
	Moved                 // proposal accepted
	Blocked               // proposal touched collision geometry and was dropped
)

func (r Result) String() string {
	switch r {
	case Moved:
		return "moved"
	case Blocked:
		return "blocked"
	}
	return "idle"
}

// Config holds movement tunables.
type Config struct {
	Speed  float32
	Radius float32
	Bounds *space.Bounds
}

// System applies manual movement. A nil or empty world accepts every move
// subject to bounds.
type System struct {
	speed  float32
	radius float32
	bounds *space.Bounds
	world  *collision.World
}

// New creates a movement system over world.
func New(cfg Config, world *collision.World) *System {
	s := &System{
		speed:  cfg.Speed,
		radius: cfg.Radius,
		bounds: cfg.Bounds,
		world:  world,
	}
	if s.speed <= 0 {
		s.speed = DefaultSpeed
	}
	if s.radius <= 0 {
		s.radius = DefaultRadius
	}
	return s
}

// Radius returns the collision sphere radius.
func (s *System) Radius() float32 {
	return s.radius
}

// Propose computes the clamped target for one frame without testing collisions.
func (s *System) Propose(pos, forward, right math.Vec3, keys input.Keys, dt float32) (math.Vec3, bool) {
	f, r := keys.Axis()
	if (f == 0 && r == 0) || dt <= 0 {
		return pos, false
	}

	v := forward.Scale(f).Add(right.Scale(r))
	v.Y = 0
	v = v.Normalize()
	if v == (math.Vec3{}) {
		return pos, false
	}

	next := pos.Add(v.Scale(s.speed * dt))
	if s.bounds != nil {
		next = s.bounds.ClampXZ(next)
	}
	return next, true
}

// Step advances pos by one frame. A proposal that touches any collision
// volume is rejected whole; the camera stays put rather than sliding.
func (s *System) Step(pos, forward, right math.Vec3, keys input.Keys, dt float32) (math.Vec3, Result) {
	next, ok := s.Propose(pos, forward, right, keys, dt)
	if !ok {
		return pos, Idle
	}
	if s.world.SphereBlocked(next, s.radius) {
		return pos, Blocked
	}
	return next, Moved
}
