package sim

import (
	"fmt"

	"github.com/kernsim/kernsim/sim/trace"
)

// Component is the interface every simulated entity implements. Concrete
// components embed a *BaseComponent (which supplies everything except
// Handle) and implement Handle for the event kinds they schedule.
//
// The unexported base accessor means components outside this module must
// embed BaseComponent; the kernel relies on its bookkeeping.
type Component interface {
	// Name returns the stable hierarchical name, fixed at construction.
	Name() string
	// Handle executes a fired event. An error is fatal to the run.
	Handle(ev *Event) error
	// Startup runs exactly once after the whole tree is built, before the
	// run loop starts. It is the only place a component may unconditionally
	// assume all peers exist.
	Startup() error
	// Cleanup releases externally-owned resources at teardown. It is called
	// only after the component's pending events have fired or been canceled.
	Cleanup() error

	base() *BaseComponent
}

// BaseComponent carries component identity, tree membership, ports, and
// pending-event bookkeeping. Embed a pointer to it in every component.
type BaseComponent struct {
	name     string
	kernel   *Kernel
	record   *Record
	parent   Component
	children []Component

	ports     map[string]*Port
	portOrder []string

	pending map[*Event]struct{}
}

// NewBase creates the base for a component being constructed from a bound
// parameter record during a hierarchy build.
func NewBase(rec *Record) *BaseComponent {
	b := NewBaseComponent(rec.Name(), rec.kernel)
	b.record = rec
	return b
}

// NewBaseComponent creates a standalone base bound directly to a kernel,
// for components assembled programmatically rather than from a description.
func NewBaseComponent(name string, k *Kernel) *BaseComponent {
	if k == nil {
		panic("sim: NewBaseComponent requires a kernel")
	}
	return &BaseComponent{
		name:    name,
		kernel:  k,
		ports:   make(map[string]*Port),
		pending: make(map[*Event]struct{}),
	}
}

// Name returns the component's hierarchical name (e.g. "root.cpu.icache").
func (b *BaseComponent) Name() string { return b.name }

// Kernel returns the kernel driving this component.
func (b *BaseComponent) Kernel() *Kernel { return b.kernel }

// Record returns the parameter record the component was constructed from,
// or nil for standalone components.
func (b *BaseComponent) Record() *Record { return b.record }

// Parent returns the owning component, or nil for the root.
func (b *BaseComponent) Parent() Component { return b.parent }

// Children returns the owned sub-components in declaration order.
func (b *BaseComponent) Children() []Component { return b.children }

// Tick returns the current simulated time.
func (b *BaseComponent) Tick() int64 { return b.kernel.Now() }

// Startup is a no-op; components override it to schedule initial events.
func (b *BaseComponent) Startup() error { return nil }

// Cleanup is a no-op; components override it to release owned resources.
func (b *BaseComponent) Cleanup() error { return nil }

func (b *BaseComponent) base() *BaseComponent { return b }

// Schedule inserts the event at an absolute tick.
func (b *BaseComponent) Schedule(ev *Event, at int64) error {
	return b.kernel.Schedule(ev, at)
}

// ScheduleIn inserts the event delay ticks from now.
func (b *BaseComponent) ScheduleIn(ev *Event, delay int64) error {
	return b.kernel.Schedule(ev, b.kernel.Now()+delay)
}

// Cancel removes a pending event; a no-op if it already fired or was
// already canceled.
func (b *BaseComponent) Cancel(ev *Event) {
	b.kernel.Cancel(ev)
}

// CancelAll cancels every event this component still has pending.
func (b *BaseComponent) CancelAll() {
	for ev := range b.pending {
		b.kernel.Cancel(ev)
	}
}

// PendingEvents returns how many events the component has in the queue.
func (b *BaseComponent) PendingEvents() int { return len(b.pending) }

// RaiseExit asks the kernel to terminate the run at the given tick.
func (b *BaseComponent) RaiseExit(cause string, code int, at int64) error {
	return b.kernel.RaiseExit(cause, code, at)
}

// Tracef emits a category-tagged trace line stamped with the current tick.
func (b *BaseComponent) Tracef(category, format string, args ...any) {
	trace.Tracef(category, b.kernel.Now(), format, args...)
}

// AddPort declares a connection role on this component. Ports are declared
// at construction and bound by the hierarchy at build time.
func (b *BaseComponent) AddPort(self Component, role string, card Cardinality) *Port {
	if _, dup := b.ports[role]; dup {
		panic(fmt.Sprintf("sim: component %s declares port role %q twice", b.name, role))
	}
	p := &Port{owner: self, role: role, card: card}
	b.ports[role] = p
	b.portOrder = append(b.portOrder, role)
	return p
}

// Port returns the declared port for a role, or nil.
func (b *BaseComponent) Port(role string) *Port { return b.ports[role] }

// adopt attaches a constructed child. Ownership is strictly a tree: a
// component has exactly one parent for its whole lifetime.
func (b *BaseComponent) adopt(self, child Component) {
	cb := child.base()
	if cb.parent != nil {
		panic(fmt.Sprintf("sim: component %s already has a parent", cb.name))
	}
	cb.parent = self
	b.children = append(b.children, child)
}

func (b *BaseComponent) track(ev *Event)   { b.pending[ev] = struct{}{} }
func (b *BaseComponent) untrack(ev *Event) { delete(b.pending, ev) }
