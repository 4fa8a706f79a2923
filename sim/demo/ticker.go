package demo

import (
	"fmt"

	sim "github.com/kernsim/kernsim/sim"
)

// Notifiable is implemented by components that can be told a peer finished
// its work. The source is passed for diagnostics.
type Notifiable interface {
	Notify(from sim.Component) error
}

// TickerSchema declares the Ticker parameters.
var TickerSchema = sim.Schema{
	{Name: "interval", Kind: sim.KindTicks, Doc: "time between firings"},
	{Name: "fires", Kind: sim.KindInt, Default: int64(1), Doc: "number of times to fire"},
	{Name: "notify", Kind: sim.KindRef, Default: sim.NullRef,
		Doc: "component notified after the last firing (null tolerated: no notification)"},
}

// Ticker fires a periodic event a fixed number of times. After the last
// firing it notifies the optional notify reference and every peer bound to
// its "out" role; with neither bound it simply stops, leaving the queue to
// drain. Notification targets must implement Notifiable.
type Ticker struct {
	*sim.BaseComponent

	interval int64
	left     int64
	notify   *sim.Handle
	out      *sim.Port

	tick *sim.Event
}

func init() {
	sim.Register("Ticker", TickerSchema, NewTicker)
}

// NewTicker constructs a Ticker from its bound record.
func NewTicker(rec *sim.Record) (sim.Component, error) {
	t := &Ticker{
		BaseComponent: sim.NewBase(rec),
		interval:      rec.Ticks("interval"),
		left:          rec.Int("fires"),
		notify:        rec.Ref("notify"),
	}
	if t.interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", t.interval)
	}
	if t.left <= 0 {
		return nil, fmt.Errorf("fires must be positive, got %d", t.left)
	}
	t.out = t.AddPort(t, "out", sim.CardinalityMany)
	t.tick = sim.NewEvent(t, "tick")
	return t, nil
}

// Startup schedules the first firing one interval from tick 0.
func (t *Ticker) Startup() error {
	return t.ScheduleIn(t.tick, t.interval)
}

// Handle fires the periodic event.
func (t *Ticker) Handle(ev *sim.Event) error {
	if ev.Kind != "tick" {
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	t.left--
	t.Tracef("Ticker", "fired, %d left", t.left)
	if t.left > 0 {
		return t.ScheduleIn(t.tick, t.interval)
	}
	return t.notifyTargets()
}

func (t *Ticker) notifyTargets() error {
	targets := make([]sim.Component, 0, len(t.out.Peers())+1)
	if !t.notify.IsNil() {
		peer, err := t.notify.Resolve()
		if err != nil {
			return err
		}
		targets = append(targets, peer)
	}
	targets = append(targets, t.out.Peers()...)

	if len(targets) == 0 {
		t.Tracef("Ticker", "done firing, nothing to notify")
		return nil
	}
	for _, target := range targets {
		n, ok := target.(Notifiable)
		if !ok {
			return fmt.Errorf("notify target %s is not notifiable", target.Name())
		}
		if err := n.Notify(t); err != nil {
			return err
		}
	}
	return nil
}
