// Package sim provides the core tick-accurate discrete-event simulation kernel.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - event.go: the Event record (owner, kind, time, priority, sequence number)
//   - kernel.go: the ordered pending-event collection, the run loop, and the exit protocol
//   - component.go: the Component interface and the embeddable BaseComponent
//
// # Architecture
//
// A simulation is a tree of components driven by a single Kernel. Components
// never block: anything that happens later is expressed by scheduling an
// Event at a future tick. The Kernel pops the earliest pending event,
// advances the clock to its time, and dispatches it to its owning component
// via Handle. Callbacks may schedule or cancel further events, or raise an
// exit signal; the Kernel alone decides when the run actually stops.
//
// The rest of the package is the composition layer around the kernel:
//   - params.go / units.go: schemas, typed parameter records, unit conversion
//   - registry.go: component type registration (sub-packages register via init())
//   - description.go: the declarative YAML hierarchy description
//   - hierarchy.go: two-pass build (bind+construct, then startup), wiring, teardown
//   - port.go: build-time connection roles with cardinality checking
//
// # Determinism
//
// Events are totally ordered by (time, priority, sequence number). Two runs
// built from the same description execute the same events in the same order
// and produce identical terminal reports. There is exactly one thread of
// control; simulated concurrency is interleaving, never parallelism.
package sim
