package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Hierarchy is the single top-level container owning the component tree and
// the kernel that drives it.
//
// Build is two-pass: pass 1 binds every parameter record and constructs
// components bottom-up (children before parents, in declaration order);
// pass 2 wires declared connections. Startup hooks then run exactly once,
// in pre-order, before the run loop -- that traversal order is part of the
// determinism contract.
type Hierarchy struct {
	kernel *Kernel
	root   Component
	index  map[string]Component

	started  bool
	tornDown bool
}

// Build constructs a hierarchy from a validated description. Any binding,
// construction, or wiring failure aborts the whole build: components
// already constructed are torn down so no resources leak, and the error
// names the offending component and field or role.
func Build(desc *Description) (*Hierarchy, error) {
	if desc == nil || desc.Root == nil {
		return nil, fmt.Errorf("build: nil description")
	}
	h := &Hierarchy{
		kernel: NewKernel(),
		index:  make(map[string]Component),
	}
	declared := desc.declaredPaths()

	root, err := h.construct(desc.Root, "", declared)
	if err != nil {
		h.teardownPartial()
		return nil, err
	}
	h.root = root

	for _, conn := range desc.Connections {
		if err := h.connectDesc(conn); err != nil {
			h.teardownPartial()
			return nil, err
		}
	}

	logrus.Debugf("built hierarchy rooted at %s (%d components)", root.Name(), len(h.index))
	return h, nil
}

// construct binds and builds one node and, before it, all of its children.
func (h *Hierarchy) construct(n *NodeDesc, prefix string, declared map[string]bool) (Component, error) {
	path := joinPath(prefix, n.Name)

	entry, ok := lookupType(n.Type)
	if !ok {
		return nil, fmt.Errorf("build %s: unknown component type %q", path, n.Type)
	}

	rec, err := Bind(n.Type, path, entry.schema, n.Params)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	for field, refPath := range rec.refPaths(entry.schema) {
		if !declared[refPath] {
			return nil, fmt.Errorf("build %s: %q -> %q: %w", path, field, refPath, ErrDanglingRef)
		}
	}
	rec.attach(h)

	children := make([]Component, 0, len(n.Children))
	for _, childDesc := range n.Children {
		child, err := h.construct(childDesc, path, declared)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	comp, err := entry.ctor(rec)
	if err != nil {
		return nil, fmt.Errorf("build %s (type %s): %w", path, n.Type, err)
	}
	for _, child := range children {
		comp.base().adopt(comp, child)
	}
	h.index[path] = comp
	return comp, nil
}

func (h *Hierarchy) connectDesc(conn ConnectionDesc) error {
	fromPath, fromRole, err := splitEndpoint(conn.From)
	if err != nil {
		return err
	}
	toPath, toRole, err := splitEndpoint(conn.To)
	if err != nil {
		return err
	}
	return h.Connect(fromPath, fromRole, toPath, toRole)
}

// Connect wires two components' roles by hierarchical path. Build-time
// only; cardinality violations fail before simulation starts.
func (h *Hierarchy) Connect(fromPath, fromRole, toPath, toRole string) error {
	from, ok := h.Lookup(fromPath)
	if !ok {
		return fmt.Errorf("connect: no component %q", fromPath)
	}
	to, ok := h.Lookup(toPath)
	if !ok {
		return fmt.Errorf("connect: no component %q", toPath)
	}
	return ConnectPorts(from, fromRole, to, toRole)
}

// Kernel returns the kernel driving this hierarchy.
func (h *Hierarchy) Kernel() *Kernel { return h.kernel }

// Root returns the top-level component.
func (h *Hierarchy) Root() Component { return h.root }

// Lookup returns the constructed component at a hierarchical path.
func (h *Hierarchy) Lookup(path string) (Component, bool) {
	c, ok := h.index[path]
	return c, ok
}

// Walk visits every component in pre-order, children in declaration order.
func (h *Hierarchy) Walk(visit func(Component)) {
	var walk func(c Component)
	walk = func(c Component) {
		visit(c)
		for _, child := range c.base().Children() {
			walk(child)
		}
	}
	if h.root != nil {
		walk(h.root)
	}
}

// Startup invokes every component's startup hook exactly once, in
// pre-order. It is the only place components may assume all peers exist.
func (h *Hierarchy) Startup() error {
	if h.started {
		return fmt.Errorf("startup: hierarchy already started")
	}
	h.started = true
	var firstErr error
	h.Walk(func(c Component) {
		if firstErr != nil {
			return
		}
		if err := c.Startup(); err != nil {
			firstErr = fmt.Errorf("startup %s: %w", c.Name(), err)
		}
	})
	return firstErr
}

// Run starts the tree up and drives the kernel until an exit signal is
// honored or the queue is exhausted, returning the terminal report.
func (h *Hierarchy) Run() Report {
	if err := h.Startup(); err != nil {
		return Report{FinalTime: h.kernel.Now(), Status: StatusFault, Err: err}
	}
	return h.kernel.Run()
}

// Teardown cancels all outstanding events and calls every component's
// Cleanup hook leaves-first, so a parent is destroyed only after its
// children. Safe to call more than once; later calls are no-ops.
func (h *Hierarchy) Teardown() error {
	if h.tornDown {
		return nil
	}
	h.tornDown = true
	return h.teardown()
}

// teardownPartial releases whatever a failed build managed to construct.
func (h *Hierarchy) teardownPartial() {
	if err := h.teardown(); err != nil {
		logrus.Errorf("teardown after failed build: %v", err)
	}
}

func (h *Hierarchy) teardown() error {
	// Deepest paths first; a parent's path is always a proper prefix of its
	// children's, so reverse-sorted order is leaves-first.
	paths := make([]string, 0, len(h.index))
	for path := range h.index {
		paths = append(paths, path)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	var firstErr error
	for _, path := range paths {
		c := h.index[path]
		c.base().CancelAll()
		if err := c.Cleanup(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cleanup %s: %w", path, err)
		}
	}
	return firstErr
}
