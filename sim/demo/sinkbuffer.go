package demo

import (
	"fmt"
	"math"

	sim "github.com/kernsim/kernsim/sim"
)

// SinkBufferSchema declares the SinkBuffer parameters.
var SinkBufferSchema = sim.Schema{
	{Name: "capacity", Kind: sim.KindBytes, Default: "1kB", Doc: "buffer size to fill"},
	{Name: "bandwidth", Kind: sim.KindBandwidth, Default: "100MB/s", Doc: "fill rate"},
	{Name: "cause", Kind: sim.KindString, Default: "done", Doc: "exit cause raised when full"},
	{Name: "code", Kind: sim.KindInt, Default: int64(0), Doc: "exit code raised when full"},
}

// SinkBuffer owns a byte buffer that it fills at a fixed bandwidth once
// triggered, one message per scheduled event. When the buffer is full it
// raises the run's exit signal with its configured cause and code. The
// buffer is released in Cleanup.
//
// It is triggered through Notify, either via a parameter reference or via
// its single-peer "trigger" role.
type SinkBuffer struct {
	*sim.BaseComponent

	ticksPerByte float64
	cause        string
	code         int64

	buffer  []byte
	used    int64
	message []byte

	fill *sim.Event
}

func init() {
	sim.Register("SinkBuffer", SinkBufferSchema, NewSinkBuffer)
}

// NewSinkBuffer constructs a SinkBuffer from its bound record. The buffer
// is allocated here and must be released by Cleanup.
func NewSinkBuffer(rec *sim.Record) (sim.Component, error) {
	capacity := rec.Bytes("capacity")
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	s := &SinkBuffer{
		BaseComponent: sim.NewBase(rec),
		ticksPerByte:  rec.Bandwidth("bandwidth"),
		cause:         rec.String("cause"),
		code:          rec.Int("code"),
		buffer:        make([]byte, capacity),
	}
	s.AddPort(s, "trigger", sim.CardinalityOne)
	s.fill = sim.NewEvent(s, "fill")
	return s, nil
}

// Notify starts filling the buffer. A second trigger while filling is
// ignored: the first writer owns the buffer until it is full.
func (s *SinkBuffer) Notify(from sim.Component) error {
	if s.fill.Pending() || s.used > 0 {
		s.Tracef("SinkBuffer", "already filling, ignoring trigger from %s", from.Name())
		return nil
	}
	s.message = fmt.Appendf(nil, "farewell from %s!! ", from.Name())
	s.Tracef("SinkBuffer", "triggered by %s, filling %d bytes", from.Name(), len(s.buffer))
	return s.ScheduleIn(s.fill, s.writeCost(s.nextChunk()))
}

// Handle writes one message copy into the buffer per firing.
func (s *SinkBuffer) Handle(ev *sim.Event) error {
	if ev.Kind != "fill" {
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	n := s.nextChunk()
	copy(s.buffer[s.used:], s.message[:n])
	s.used += n
	s.Tracef("SinkBuffer", "wrote %d bytes, %d/%d full", n, s.used, len(s.buffer))

	if s.used < int64(len(s.buffer)) {
		return s.ScheduleIn(s.fill, s.writeCost(s.nextChunk()))
	}
	s.Tracef("SinkBuffer", "buffer full, raising exit %q", s.cause)
	return s.RaiseExit(s.cause, int(s.code), s.Tick())
}

// Cleanup releases the buffer.
func (s *SinkBuffer) Cleanup() error {
	s.buffer = nil
	return nil
}

// nextChunk returns how many bytes the next fill event writes: one message
// copy, truncated at the end of the buffer.
func (s *SinkBuffer) nextChunk() int64 {
	remaining := int64(len(s.buffer)) - s.used
	if n := int64(len(s.message)); n < remaining {
		return n
	}
	return remaining
}

// writeCost returns the ticks consumed by writing n bytes at the
// configured bandwidth, at least one tick so progress is always made.
func (s *SinkBuffer) writeCost(n int64) int64 {
	cost := int64(math.Round(s.ticksPerByte * float64(n)))
	if cost < 1 {
		cost = 1
	}
	return cost
}
