// Package forwarding decides whether a node relays a packet that it received
// from one of its neighbors on the line.
package forwarding

import (
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/relay"
)

// Verdict is the outcome of a forwarding decision.
type Verdict int

// The possible verdicts.
const (
	// DropStale means the packet travels backward or was already relayed by
	// this node. It is not an error.
	DropStale Verdict = iota

	// RelayFirstHop relays a packet received directly from its origin.
	RelayFirstHop

	// RelayDownChain relays a packet moving toward lower sids.
	RelayDownChain

	// RelayUpChain relays a packet moving toward higher sids.
	RelayUpChain
)

func (v Verdict) String() string {
	switch v {
	case DropStale:
		return "DropStale"
	case RelayFirstHop:
		return "RelayFirstHop"
	case RelayDownChain:
		return "RelayDownChain"
	case RelayUpChain:
		return "RelayUpChain"
	default:
		return "Unknown"
	}
}

// Relays reports whether the verdict asks the node to relay the packet.
func (v Verdict) Relays() bool {
	return v != DropStale
}

// Context is what a node knows about its position on the line.
type Context struct {
	SID   uint16
	Left  link.Address
	Right link.Address
}

// Decide returns the verdict for a packet carrying header h that arrived
// from address from.
func Decide(h relay.Header, from link.Address, c Context) Verdict {
	if h.Kind == relay.KindOriginal {
		return RelayFirstHop
	}

	if !c.Right.IsZero() && from == c.Right && c.SID < h.OriginSID {
		return RelayDownChain
	}

	if !c.Left.IsZero() && from == c.Left && c.SID > h.OriginSID {
		return RelayUpChain
	}

	return DropStale
}
