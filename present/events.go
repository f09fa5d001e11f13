package present

import "fmt"

type EventKind int

const (
	EventResize EventKind = iota
	EventClose
)

// Event is a platform notification consumed by the frame loop.
type Event struct {
	Kind EventKind

	// Width and Height are set for EventResize.
	Width  int
	Height int
}

func (e Event) String() string {
	switch e.Kind {
	case EventResize:
		return fmt.Sprintf("resize %dx%d", e.Width, e.Height)
	case EventClose:
		return "close"
	}
	return fmt.Sprintf("event(%d)", int(e.Kind))
}

// EventSource is polled once per loop iteration.
type EventSource interface {
	// PollEvents returns every event received since the previous call.
	PollEvents() []Event
}
