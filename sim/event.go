package sim

import (
	"fmt"

	"github.com/rs/xid"
)

// eventState tracks where an event is in its lifecycle. An event may be
// rescheduled after it fires or is canceled, but never while pending.
type eventState uint8

const (
	eventIdle eventState = iota // created or already fired/canceled and re-usable
	eventPending
	eventFired
	eventCanceled
)

// Event is a schedulable unit of work: a plain data record bound to the
// component that owns it. The kernel dispatches a fired event through
// Owner().Handle(ev); the Kind and Payload fields tell the owner what to do.
//
// Ordering metadata (time, priority, sequence number) is captured when the
// event is scheduled. Mutating Priority while an event is pending has no
// effect on its position in the queue.
type Event struct {
	id    string
	owner Component

	// Kind discriminates the event on dispatch, e.g. "tick" or "fill".
	Kind string
	// Payload carries optional event-specific data to the handler.
	Payload any
	// Priority breaks ties between events at the same tick; lower runs first.
	Priority int

	time  int64
	prio  int
	seq   uint64
	state eventState
}

// NewEvent creates an unscheduled event owned by the given component.
// The owner must not be nil: every event is dispatched through, and canceled
// via, its owning component.
func NewEvent(owner Component, kind string) *Event {
	if owner == nil {
		panic("sim: NewEvent requires a non-nil owner")
	}
	return &Event{
		id:    xid.New().String(),
		owner: owner,
		Kind:  kind,
	}
}

// ID returns the event's unique identifier, used in trace and error output.
func (e *Event) ID() string { return e.id }

// Owner returns the component the event is dispatched to when it fires.
func (e *Event) Owner() Component { return e.owner }

// Time returns the tick the event is (or was last) scheduled for.
func (e *Event) Time() int64 { return e.time }

// Seq returns the insertion sequence number assigned at schedule time.
func (e *Event) Seq() uint64 { return e.seq }

// Pending reports whether the event currently sits in the kernel's queue.
func (e *Event) Pending() bool { return e.state == eventPending }

// Fired reports whether the event's most recent scheduling has executed.
func (e *Event) Fired() bool { return e.state == eventFired }

// Canceled reports whether the event's most recent scheduling was canceled.
func (e *Event) Canceled() bool { return e.state == eventCanceled }

func (e *Event) String() string {
	return fmt.Sprintf("%s(%s)@%d on %s", e.Kind, e.id, e.time, e.owner.Name())
}

// eventLess is the total order of the pending-event collection:
// time, then priority, then insertion sequence. The sequence number is
// unique per kernel, so no two scheduled events ever compare equal.
func eventLess(a, b *Event) bool {
	if a.time != b.time {
		return a.time < b.time
	}
	if a.prio != b.prio {
		return a.prio < b.prio
	}
	return a.seq < b.seq
}
