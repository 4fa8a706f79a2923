package sim

// probe is a minimal component for kernel-level tests. It records the kind
// of every event it handles, in firing order, and can run an extra callback
// per event.
type probe struct {
	*BaseComponent
	fired  []string
	onFire func(ev *Event) error
}

func newProbe(name string, k *Kernel) *probe {
	return &probe{BaseComponent: NewBaseComponent(name, k)}
}

func (p *probe) Handle(ev *Event) error {
	p.fired = append(p.fired, ev.Kind)
	if p.onFire != nil {
		return p.onFire(ev)
	}
	return nil
}
