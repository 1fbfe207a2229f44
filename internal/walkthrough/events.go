package walkthrough

import "github.com/Faultbox/walkthrough/pkg/space"

// Event is pushed to Options.OnEvent on the tick goroutine (or the caller's,
// for synchronous commands).
type Event interface {
	isEvent()
}

// EventReady fires once Initialize has loaded assets and seeded the camera.
type EventReady struct{}

// EventNodeChange fires when the camera settles on a node.
type EventNodeChange struct {
	Node *space.Node
}

// EventHotspot fires when a hotspot overlay element is activated.
type EventHotspot struct {
	Hotspot *space.Hotspot
}

// TourState says whether an auto-tour started or stopped.
type TourState string

const (
	TourStart TourState = "start"
	TourStop  TourState = "stop"
)

// EventAutoTour fires when the auto-tour starts or stops. Node is the first
// stop on start and the active node on stop.
type EventAutoTour struct {
	State TourState
	Node  *space.Node
}

func (EventReady) isEvent()      {}
func (EventNodeChange) isEvent() {}
func (EventHotspot) isEvent()    {}
func (EventAutoTour) isEvent()   {}
