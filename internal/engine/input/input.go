// Package input stages user input for the walkthrough tick.
//
// Host callbacks may fire on any goroutine at any time; they only append to a
// Staging queue. The tick goroutine drains the queue once per frame into a
// State, which is the only input the simulation reads.
package input

import "sync"

// Key is a movement key the engine understands.
type Key uint8

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight

	keyCount
)

// String returns a short name for logging.
func (k Key) String() string {
	switch k {
	case KeyForward:
		return "forward"
	case KeyBack:
		return "back"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	}
	return "unknown"
}

// Keys is the held state of every movement key.
type Keys [keyCount]bool

// Axis folds held keys into forward and right components in {-1, 0, 1}.
func (k Keys) Axis() (forward, right float32) {
	if k[KeyForward] {
		forward++
	}
	if k[KeyBack] {
		forward--
	}
	if k[KeyRight] {
		right++
	}
	if k[KeyLeft] {
		right--
	}
	return forward, right
}

// Any reports whether any movement key is held.
func (k Keys) Any() bool {
	for _, held := range k {
		if held {
			return true
		}
	}
	return false
}

// Kind identifies a staged event.
type Kind uint8

const (
	PointerDown Kind = iota
	PointerMove
	PointerUp
	KeyDown
	KeyUp
	Activate // a hotspot overlay element was activated
)

// Event is one staged input.
type Event struct {
	Kind   Kind
	Key    Key
	DX, DY float32
	Index  int // hotspot index for Activate
}

// Staging is a goroutine-safe queue of events awaiting the next tick.
type Staging struct {
	mu      sync.Mutex
	pending []Event
	spare   []Event
	closed  bool
}

// NewStaging creates a queue with room for capacity events per frame.
func NewStaging(capacity int) *Staging {
	return &Staging{
		pending: make([]Event, 0, capacity),
		spare:   make([]Event, 0, capacity),
	}
}

// Push stages an event. Events pushed after Close are dropped.
func (s *Staging) Push(e Event) {
	s.mu.Lock()
	if !s.closed {
		s.pending = append(s.pending, e)
	}
	s.mu.Unlock()
}

// Drain hands every staged event to fn in arrival order. fn runs without the
// lock held, so it may push new events; those wait for the next Drain.
func (s *Staging) Drain(fn func(Event)) {
	s.mu.Lock()
	batch := s.pending
	s.pending = s.spare[:0]
	s.mu.Unlock()

	for _, e := range batch {
		fn(e)
	}

	s.mu.Lock()
	s.spare = batch[:0]
	s.mu.Unlock()
}

// Close discards pending events and rejects future ones.
func (s *Staging) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = s.pending[:0]
	s.mu.Unlock()
}

// State is the per-tick view of input, owned by the tick goroutine.
type State struct {
	Keys     Keys
	dragging bool
	dragX    float32
	dragY    float32
}

// Apply folds one staged event into the state. Activate events are left to
// the caller.
func (st *State) Apply(e Event) {
	switch e.Kind {
	case PointerDown:
		st.dragging = true
	case PointerUp:
		st.dragging = false
	case PointerMove:
		if st.dragging {
			st.dragX += e.DX
			st.dragY += e.DY
		}
	case KeyDown:
		if e.Key < keyCount {
			st.Keys[e.Key] = true
		}
	case KeyUp:
		if e.Key < keyCount {
			st.Keys[e.Key] = false
		}
	}
}

// TakeDrag returns and clears the drag accumulated since the last call.
func (st *State) TakeDrag() (dx, dy float32) {
	dx, dy = st.dragX, st.dragY
	st.dragX, st.dragY = 0, 0
	return dx, dy
}

// Reset releases every key and ends any drag.
func (st *State) Reset() {
	*st = State{}
}
