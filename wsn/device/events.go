package device

import (
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/relay"
)

// sendEvent fires when the slot of an armed packet begins.
type sendEvent struct {
	*timing.EventBase
	job txJob
}

// txEndEvent fires when a packet has been serialized at the data rate.
type txEndEvent struct {
	*timing.EventBase
	job txJob
}

// cooldownEvent fires when the device may contend for the medium again.
type cooldownEvent struct {
	*timing.EventBase
}

// settleEvent clears the sending guard shortly after a transmission.
type settleEvent struct {
	*timing.EventBase
}

// retryEvent resubmits a packet that arrived while the device was busy
// without a pending cool-down.
type retryEvent struct {
	*timing.EventBase
	job txJob
}

// receiveEvent fires when a received frame has been processed.
type receiveEvent struct {
	*timing.EventBase
	pkt      relay.Packet
	protocol uint16
	to       link.Address
	from     link.Address
}
