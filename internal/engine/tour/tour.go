// Package tour drives the automated walkthrough: an endless loop over a route
// of nodes with a dwell pause at each stop.
package tour

import (
	"time"

	"github.com/Faultbox/walkthrough/internal/engine/navigation"
	"github.com/Faultbox/walkthrough/pkg/space"
)

// BuildRoute picks the tour route: the configured order if any of it
// resolves, else nodes carrying the configured tags (or "highlight"), else
// every node in declaration order.
func BuildRoute(g *navigation.Graph, cfg space.AutoTour) []*space.Node {
	if len(cfg.Order) > 0 {
		if r := g.Resolve(cfg.Order); len(r) > 0 {
			return r
		}
	}

	tags := cfg.Tags
	if len(tags) == 0 {
		tags = []string{space.HighlightTag}
	}
	var tagged []*space.Node
	for i := 0; i < g.Len(); i++ {
		n := g.At(i)
		for _, tag := range tags {
			if n.HasTag(tag) {
				tagged = append(tagged, n)
				break
			}
		}
	}
	if len(tagged) > 0 {
		return tagged
	}

	all := make([]*space.Node, g.Len())
	for i := range all {
		all[i] = g.At(i)
	}
	return all
}

// State exists only while a tour runs; its route is never empty.
type State struct {
	Route  []*space.Node
	Index  int
	NextAt time.Time
	Dwell  time.Duration
}

// Current returns the stop the tour is heading to or resting at.
func (st *State) Current() *space.Node {
	return st.Route[st.Index]
}

// Scheduler owns the optional tour state.
type Scheduler struct {
	state *State
}

// Start begins a tour at route[0]. An empty route leaves the tour stopped.
func (s *Scheduler) Start(route []*space.Node, dwell time.Duration, now time.Time) (*space.Node, bool) {
	if len(route) == 0 {
		return nil, false
	}
	s.state = &State{
		Route:  route,
		NextAt: now.Add(dwell),
		Dwell:  dwell,
	}
	return route[0], true
}

// Stop ends the tour and returns the state it had, or nil if none ran.
func (s *Scheduler) Stop() *State {
	st := s.state
	s.state = nil
	return st
}

// Running reports whether a tour is active.
func (s *Scheduler) Running() bool {
	return s.state != nil
}

// State returns the running tour, or nil.
func (s *Scheduler) State() *State {
	return s.state
}

// Arrived restarts the dwell timer once the camera reaches a stop.
func (s *Scheduler) Arrived(now time.Time) {
	if s.state != nil {
		s.state.NextAt = now.Add(s.state.Dwell)
	}
}

// Advance moves to the next stop when idle and the dwell has elapsed.
// It returns the node to travel to.
func (s *Scheduler) Advance(now time.Time, transitioning bool) (*space.Node, bool) {
	st := s.state
	if st == nil || transitioning || now.Before(st.NextAt) {
		return nil, false
	}
	st.Index = (st.Index + 1) % len(st.Route)
	st.NextAt = now.Add(st.Dwell)
	return st.Route[st.Index], true
}
