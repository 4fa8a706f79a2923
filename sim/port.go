package sim

import (
	"errors"
	"fmt"
)

// ErrCardinality is returned when wiring would bind a second peer to a
// single-peer role. Wiring never silently overwrites an existing binding.
var ErrCardinality = errors.New("connection role already bound")

// Cardinality says how many peers a connection role accepts.
type Cardinality int

const (
	// CardinalityOne accepts at most one peer.
	CardinalityOne Cardinality = iota + 1
	// CardinalityMany accepts any number of peers.
	CardinalityMany
)

// Port is one endpoint of a build-time connection between two components.
// Ports are declared at construction via AddPort and bound by Connect;
// they are immutable once the simulation starts.
type Port struct {
	owner Component
	role  string
	card  Cardinality
	peers []Component
}

// Role returns the declared role name.
func (p *Port) Role() string { return p.role }

// Owner returns the component that declared the port.
func (p *Port) Owner() Component { return p.owner }

// Peers returns all components bound to this port.
func (p *Port) Peers() []Component { return p.peers }

// Peer returns the single bound peer, or nil if the port is unbound.
// Meaningful for CardinalityOne roles.
func (p *Port) Peer() Component {
	if len(p.peers) == 0 {
		return nil
	}
	return p.peers[0]
}

func (p *Port) checkBindable() error {
	if p.card == CardinalityOne && len(p.peers) > 0 {
		return fmt.Errorf("%s role %q already bound to %s: %w",
			p.owner.Name(), p.role, p.peers[0].Name(), ErrCardinality)
	}
	return nil
}

// ConnectPorts binds two components' roles to each other. Cardinality is
// checked on both ends before either is mutated: a failed connect leaves
// both ports untouched.
func ConnectPorts(a Component, roleA string, b Component, roleB string) error {
	pa := a.base().Port(roleA)
	if pa == nil {
		return fmt.Errorf("connect: %s declares no role %q", a.Name(), roleA)
	}
	pb := b.base().Port(roleB)
	if pb == nil {
		return fmt.Errorf("connect: %s declares no role %q", b.Name(), roleB)
	}
	if err := pa.checkBindable(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := pb.checkBindable(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	pa.peers = append(pa.peers, b)
	pb.peers = append(pb.peers, a)
	return nil
}
