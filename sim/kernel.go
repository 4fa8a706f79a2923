package sim

import (
	"errors"
	"fmt"

	"github.com/google/btree"
	"github.com/sirupsen/logrus"
)

// Scheduling errors. These are programming errors in a component, not
// recoverable runtime conditions; a callback that surfaces one terminates
// the run with a fault report.
var (
	// ErrSchedulePast is returned when an event is scheduled before the
	// current simulated time. Time cannot be un-advanced.
	ErrSchedulePast = errors.New("scheduled time is in the past")
	// ErrDoubleSchedule is returned when an event instance is scheduled
	// while it is still pending.
	ErrDoubleSchedule = errors.New("event is already pending")
	// ErrExitPast is returned when an exit is requested for a tick that
	// has already elapsed.
	ErrExitPast = errors.New("exit time is in the past")
)

// RunStatus describes how a run terminated.
type RunStatus string

const (
	// StatusExhausted means the queue emptied with no exit signal raised.
	StatusExhausted RunStatus = "exhausted"
	// StatusExited means an exit signal was honored.
	StatusExited RunStatus = "exited"
	// StatusFault means a callback returned an error; the run is not usable.
	StatusFault RunStatus = "fault"
)

// Report is the terminal result of a run.
type Report struct {
	FinalTime int64
	Cause     string
	Code      int
	Status    RunStatus
	Err       error // non-nil only when Status == StatusFault
}

// ExitSignal records one component's request to terminate the run.
type ExitSignal struct {
	Cause string
	Code  int
	Time  int64

	order uint64 // raise order, breaks ties between equal effective times
}

// Kernel owns global simulated time and the pending-event collection.
// It is the only piece of truly global mutable state in a simulation:
// all component state is mutated exclusively from within that component's
// own callbacks, on the kernel's single thread of control.
type Kernel struct {
	now     int64
	seq     uint64
	pending *btree.BTreeG[*Event]

	exit    *ExitSignal
	exitSeq uint64

	running bool
}

// NewKernel creates a kernel with the clock at tick 0 and an empty queue.
func NewKernel() *Kernel {
	return &Kernel{
		pending: btree.NewG(2, eventLess),
	}
}

// Now returns the current simulated time in ticks. It starts at 0 and is
// advanced only by the run loop, monotonically.
func (k *Kernel) Now() int64 { return k.now }

// PendingLen returns the number of events currently scheduled.
func (k *Kernel) PendingLen() int { return k.pending.Len() }

// Schedule inserts the event at the given tick. It fails if the tick lies
// in the past or if the same event instance is still pending. An event that
// has fired or been canceled may be scheduled again.
func (k *Kernel) Schedule(ev *Event, at int64) error {
	if ev.state == eventPending {
		return fmt.Errorf("schedule %s: %w", ev, ErrDoubleSchedule)
	}
	if at < k.now {
		return fmt.Errorf("schedule %s(%s) on %s at tick %d, now %d: %w",
			ev.Kind, ev.id, ev.owner.Name(), at, k.now, ErrSchedulePast)
	}
	k.seq++
	ev.time = at
	ev.prio = ev.Priority
	ev.seq = k.seq
	ev.state = eventPending
	k.pending.ReplaceOrInsert(ev)
	ev.owner.base().track(ev)
	return nil
}

// Cancel removes the event from the queue if it is still pending. Its
// callback will never run for that scheduling. Canceling an event that has
// already fired, was already canceled, or was never scheduled is a no-op:
// the kernel tolerates the race between cancellation intent and firing.
func (k *Kernel) Cancel(ev *Event) {
	if ev == nil || ev.state != eventPending {
		return
	}
	k.pending.Delete(ev)
	ev.state = eventCanceled
	ev.owner.base().untrack(ev)
}

// RaiseExit records a request to terminate the run at the given tick with
// the given cause and code. It only records intent: the caller's own
// callback, and every other event due at or before the effective tick,
// still runs. If several exits are raised before one is honored, the
// earliest effective time wins; between equal times, the first one raised.
func (k *Kernel) RaiseExit(cause string, code int, at int64) error {
	if at < k.now {
		return fmt.Errorf("exit %q at tick %d, now %d: %w", cause, at, k.now, ErrExitPast)
	}
	k.exitSeq++
	sig := &ExitSignal{Cause: cause, Code: code, Time: at, order: k.exitSeq}
	if k.exit == nil || sig.Time < k.exit.Time {
		logrus.Debugf("[tick %07d] exit armed: cause=%q code=%d effective=%d", k.now, cause, code, at)
		k.exit = sig
	} else {
		logrus.Debugf("[tick %07d] exit %q at %d loses to %q at %d", k.now, cause, at, k.exit.Cause, k.exit.Time)
	}
	return nil
}

// Exit returns the currently armed exit signal, or nil.
func (k *Kernel) Exit() *ExitSignal { return k.exit }

// Run executes pending events in (time, priority, sequence) order until the
// queue empties or an armed exit signal's effective tick is reached. Events
// scheduled exactly at the exit tick still run; events strictly after it
// never do. A callback error stops the run immediately with a fault report.
func (k *Kernel) Run() Report {
	if k.running {
		return Report{FinalTime: k.now, Status: StatusFault,
			Err: errors.New("kernel run loop re-entered")}
	}
	k.running = true
	defer func() { k.running = false }()

	for {
		ev, ok := k.pending.Min()
		if !ok {
			break
		}
		if k.exit != nil && ev.time > k.exit.Time {
			return k.exitReport()
		}
		k.pending.DeleteMin()
		k.now = ev.time
		ev.state = eventFired
		ev.owner.base().untrack(ev)
		logrus.Debugf("[tick %07d] firing %s", k.now, ev)
		if err := ev.owner.Handle(ev); err != nil {
			logrus.Errorf("[tick %07d] fatal: %s: %v", k.now, ev, err)
			return Report{FinalTime: k.now, Status: StatusFault,
				Err: fmt.Errorf("handling %s: %w", ev, err)}
		}
	}
	if k.exit != nil {
		return k.exitReport()
	}
	logrus.Infof("[tick %07d] event queue exhausted", k.now)
	return Report{FinalTime: k.now, Status: StatusExhausted}
}

// exitReport advances the clock to the exit tick if the queue ran dry
// before reaching it, then reports the armed exit.
func (k *Kernel) exitReport() Report {
	if k.exit.Time > k.now {
		k.now = k.exit.Time
	}
	logrus.Infof("[tick %07d] exiting: cause=%q code=%d", k.now, k.exit.Cause, k.exit.Code)
	return Report{
		FinalTime: k.now,
		Cause:     k.exit.Cause,
		Code:      k.exit.Code,
		Status:    StatusExited,
	}
}
