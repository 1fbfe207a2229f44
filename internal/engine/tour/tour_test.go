package tour

import (
	"testing"
	"time"

	"github.com/Faultbox/walkthrough/internal/engine/navigation"
	"github.com/Faultbox/walkthrough/pkg/space"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func graph(nodes ...space.Node) *navigation.Graph {
	return navigation.NewGraph(nodes)
}

func routeIDs(r []*space.Node) []string {
	out := make([]string, len(r))
	for i, n := range r {
		out[i] = n.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildRoutePreference(t *testing.T) {
	g := graph(
		space.Node{ID: "a"},
		space.Node{ID: "b", Tags: []string{"highlight"}},
		space.Node{ID: "c", Tags: []string{"kitchen"}},
		space.Node{ID: "d", Tags: []string{"highlight"}},
	)

	if r := BuildRoute(g, space.AutoTour{Order: []string{"c", "missing", "a"}}); !equal(routeIDs(r), []string{"c", "a"}) {
		t.Errorf("explicit order route = %v", routeIDs(r))
	}
	if r := BuildRoute(g, space.AutoTour{}); !equal(routeIDs(r), []string{"b", "d"}) {
		t.Errorf("highlight route = %v", routeIDs(r))
	}
	if r := BuildRoute(g, space.AutoTour{Tags: []string{"kitchen"}}); !equal(routeIDs(r), []string{"c"}) {
		t.Errorf("configured tag route = %v", routeIDs(r))
	}
	if r := BuildRoute(g, space.AutoTour{Order: []string{"nope"}}); !equal(routeIDs(r), []string{"b", "d"}) {
		t.Errorf("unresolvable order should fall back to highlights, got %v", routeIDs(r))
	}
}

func TestBuildRouteAllNodes(t *testing.T) {
	g := graph(space.Node{ID: "a"}, space.Node{ID: "b"}, space.Node{ID: "c"})
	if r := BuildRoute(g, space.AutoTour{}); !equal(routeIDs(r), []string{"a", "b", "c"}) {
		t.Errorf("fallback route = %v", routeIDs(r))
	}
}

func TestStartEmptyRoute(t *testing.T) {
	var s Scheduler
	if _, ok := s.Start(nil, time.Second, t0); ok {
		t.Error("empty route should not start")
	}
	if s.Running() {
		t.Error("tour should remain stopped")
	}
}

func TestAdvanceLoops(t *testing.T) {
	g := graph(space.Node{ID: "a"}, space.Node{ID: "b"}, space.Node{ID: "c"})
	var s Scheduler
	first, ok := s.Start(BuildRoute(g, space.AutoTour{}), 100*time.Millisecond, t0)
	if !ok || first.ID != "a" {
		t.Fatalf("Start = %v, %v", first, ok)
	}

	visited := []string{first.ID}
	now := t0
	for i := 0; i < 6; i++ {
		if _, ok := s.Advance(now.Add(50*time.Millisecond), false); ok {
			t.Fatal("should not advance before the dwell elapses")
		}
		now = now.Add(100 * time.Millisecond)
		n, ok := s.Advance(now, false)
		if !ok {
			t.Fatalf("expected advance at step %d", i)
		}
		visited = append(visited, n.ID)
	}

	want := []string{"a", "b", "c", "a", "b", "c", "a"}
	if !equal(visited, want) {
		t.Errorf("visited %v, want %v", visited, want)
	}
}

func TestAdvanceWaitsForTransition(t *testing.T) {
	g := graph(space.Node{ID: "a"}, space.Node{ID: "b"})
	var s Scheduler
	s.Start(BuildRoute(g, space.AutoTour{}), 100*time.Millisecond, t0)

	if _, ok := s.Advance(t0.Add(time.Second), true); ok {
		t.Error("should not advance while a transition is active")
	}

	s.Arrived(t0.Add(time.Second))
	if _, ok := s.Advance(t0.Add(1050*time.Millisecond), false); ok {
		t.Error("dwell should restart on arrival")
	}
	if n, ok := s.Advance(t0.Add(1100*time.Millisecond), false); !ok || n.ID != "b" {
		t.Errorf("expected advance to b, got %v %v", n, ok)
	}
}

func TestStopReturnsState(t *testing.T) {
	g := graph(space.Node{ID: "a"})
	var s Scheduler
	s.Start(BuildRoute(g, space.AutoTour{}), time.Second, t0)

	st := s.Stop()
	if st == nil || st.Current().ID != "a" {
		t.Errorf("Stop() = %+v", st)
	}
	if s.Running() || s.Stop() != nil {
		t.Error("second Stop should report no tour")
	}
	if _, ok := s.Advance(t0.Add(time.Hour), false); ok {
		t.Error("stopped tour should not advance")
	}
}
