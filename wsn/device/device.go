// Package device implements a sensor node of the line. A device queues
// packets, waits for the slot of its class, puts the packets on the medium,
// and relays the packets it receives toward the gateways at both ends.
package device

import (
	"log"

	"github.com/sarchlab/lwsn/sim/hooking"
	"github.com/sarchlab/lwsn/sim/queueing"
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/errormodel"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/medium"
	"github.com/sarchlab/lwsn/wsn/observe"
	"github.com/sarchlab/lwsn/wsn/relay"
)

const (
	// SettleTime is how long after a transmission the sending guard is
	// cleared.
	SettleTime = 0.9

	// RetryInterval is how long a submission waits when the device is busy
	// but has no pending cool-down.
	RetryInterval = 1.0
)

// HookPosStateChange marks a transition of the transmission state machine.
// The hook item is the new State and the detail is the previous one.
var HookPosStateChange = &hooking.HookPos{Name: "Device State Change"}

// State is the state of the transmission state machine.
type State int

// The transmission states.
const (
	// Idle means no packet is waiting for a slot and no cool-down is
	// running.
	Idle State = iota

	// Armed means one packet has been taken from the queue and waits for
	// its slot.
	Armed

	// Sending means the packet has been put on the medium and the
	// cool-down is running.
	Sending
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Armed:
		return "Armed"
	case Sending:
		return "Sending"
	default:
		return "Unknown"
	}
}

// Medium is the channel a device is attached to.
type Medium interface {
	Attach(ep medium.Endpoint)
	Detach(ep medium.Endpoint)
	Send(
		pkt relay.Packet,
		protocol uint16,
		to, from link.Address,
		sender medium.Endpoint,
	)
}

// ReceiveCallback is invoked for every frame addressed to the device, to a
// broadcast address, or to a multicast address.
type ReceiveCallback func(
	dev *Device,
	pkt relay.Packet,
	protocol uint16,
	from link.Address,
)

// PromiscReceiveCallback is invoked for every frame the device hears.
type PromiscReceiveCallback func(
	dev *Device,
	pkt relay.Packet,
	protocol uint16,
	from, to link.Address,
	packetType link.PacketType,
)

// Stats counts what happened to the packets a device handled.
type Stats struct {
	// Originated counts the packets created by Originate.
	Originated uint64

	// Stamped counts the upper-layer packets that SendFrom had to give a
	// new relay header.
	Stamped uint64

	Relayed      uint64
	Sent         uint64
	Frames       uint64
	Received     uint64
	DeliveredUp  uint64
	Terminated   uint64
	Stale        uint64
	Corrupted    uint64
	DecodeFailed uint64
	QueueDropped uint64
	Retried      uint64
}

// Device is a node of the line.
type Device struct {
	hooking.HookableBase

	name            string
	engine          timing.EventScheduler
	medium          Medium
	address         link.Address
	left            link.Address
	right           link.Address
	sid             uint16
	gid             uint16
	errorModel      errormodel.Model
	dataRate        float64
	processingDelay timing.VTimeInSec
	sink            observe.Sink
	queue           *txQueue

	state       State
	sending     bool
	nextLocalID uint32
	closed      bool

	pendingSend     *sendEvent
	pendingTxEnd    *txEndEvent
	pendingCooldown *cooldownEvent
	pendingSettle   *settleEvent
	pendingRetries  map[string]*retryEvent
	pendingReceives map[string]*receiveEvent

	rxCallback      ReceiveCallback
	promiscCallback PromiscReceiveCallback

	stats Stats
}

// Name returns the name of the device.
func (d *Device) Name() string {
	return d.name
}

// Address returns the link address of the device.
func (d *Device) Address() link.Address {
	return d.address
}

// SID returns the sequential id of the device.
func (d *Device) SID() uint16 {
	return d.sid
}

// GID returns the gateway id, 0 if the device is not a gateway.
func (d *Device) GID() uint16 {
	return d.gid
}

// IsGateway tells whether the device terminates packets.
func (d *Device) IsGateway() bool {
	return d.gid > 0
}

// Neighbors returns the addresses of the left and the right neighbors. A
// zero address means there is no neighbor on that side.
func (d *Device) Neighbors() (left, right link.Address) {
	return d.left, d.right
}

// SetNeighbors sets the addresses of the left and the right neighbors.
func (d *Device) SetNeighbors(left, right link.Address) {
	d.left = left
	d.right = right
}

// SetReceiveCallback registers the upper-layer receive callback.
func (d *Device) SetReceiveCallback(cb ReceiveCallback) {
	d.rxCallback = cb
}

// SetPromiscReceiveCallback registers the promiscuous receive callback.
func (d *Device) SetPromiscReceiveCallback(cb PromiscReceiveCallback) {
	d.promiscCallback = cb
}

// State returns the state of the transmission state machine.
func (d *Device) State() State {
	return d.state
}

// IsSending returns the sending guard.
func (d *Device) IsSending() bool {
	return d.sending
}

// CooldownPending tells whether a cool-down event is scheduled.
func (d *Device) CooldownPending() bool {
	return d.pendingCooldown != nil
}

// QueueLen returns the number of packets waiting in the transmit queue.
func (d *Device) QueueLen() int {
	return d.queue.Size()
}

// Buffers returns the buffers owned by the device.
func (d *Device) Buffers() []queueing.Buffer {
	return []queueing.Buffer{d.queue.buf}
}

// Stats returns a copy of the counters of the device.
func (d *Device) Stats() Stats {
	return d.stats
}

// Originate creates a new packet carrying the payload and submits it for
// transmission to both neighbors. It returns false if the packet is dropped.
func (d *Device) Originate(payload []byte) bool {
	if d.closed {
		return false
	}

	h := d.freshHeader()
	pkt := relay.NewPacket(payload).AddHeader(h)

	d.stats.Originated++

	return d.submit(d.relayJob(pkt))
}

// Submit queues a packet that already carries a relay header for
// transmission to both neighbors.
func (d *Device) Submit(pkt relay.Packet) bool {
	return d.submit(d.relayJob(pkt))
}

// Send queues a packet from the upper layer. See SendFrom.
func (d *Device) Send(
	pkt relay.Packet,
	dst link.Address,
	protocol uint16,
) bool {
	return d.SendFrom(pkt, d.address, dst, protocol)
}

// SendFrom queues a packet from the upper layer. If the packet starts with a
// valid relay header, the header is kept. Otherwise, a new original header
// is added and the packet is counted as Stamped.
//
// Like every other transmission, the frame goes to both neighbors from the
// address of the device, carrying the given protocol. The source and the
// destination addresses do not change where the frame goes.
func (d *Device) SendFrom(
	pkt relay.Packet,
	_, _ link.Address,
	protocol uint16,
) bool {
	if d.closed {
		return false
	}

	if _, err := pkt.PeekHeader(); err != nil {
		pkt = pkt.AddHeader(d.freshHeader())
		d.stats.Stamped++
	}

	return d.submit(txJob{
		pkt:      pkt,
		protocol: protocol,
	})
}

// Close cancels everything the device has scheduled and drops all the
// queued packets. A closed device ignores the frames it hears.
func (d *Device) Close() {
	if d.closed {
		return
	}

	if d.pendingSend != nil {
		d.engine.Cancel(d.pendingSend)
	}

	if d.pendingTxEnd != nil {
		d.engine.Cancel(d.pendingTxEnd)
	}

	if d.pendingCooldown != nil {
		d.engine.Cancel(d.pendingCooldown)
	}

	if d.pendingSettle != nil {
		d.engine.Cancel(d.pendingSettle)
	}

	for _, e := range d.pendingRetries {
		d.engine.Cancel(e)
	}

	for _, e := range d.pendingReceives {
		d.engine.Cancel(e)
	}

	d.pendingSend = nil
	d.pendingTxEnd = nil
	d.pendingCooldown = nil
	d.pendingSettle = nil
	d.pendingRetries = make(map[string]*retryEvent)
	d.pendingReceives = make(map[string]*receiveEvent)

	d.queue.Clear()
	d.sending = false
	d.setState(Idle)
	d.closed = true

	d.medium.Detach(d)
}

// Handle defines how the device handles events.
func (d *Device) Handle(e timing.Event) error {
	switch e := e.(type) {
	case *sendEvent:
		d.onSend(e)
	case *txEndEvent:
		d.onTxEnd(e)
	case *cooldownEvent:
		d.onCooldown(e)
	case *settleEvent:
		d.onSettle(e)
	case *retryEvent:
		d.onRetry(e)
	case *receiveEvent:
		d.onReceive(e)
	default:
		log.Panicf("device %s: cannot handle event of type %T", d.name, e)
	}

	return nil
}

func (d *Device) freshHeader() relay.Header {
	h := relay.Header{
		OriginSID: d.sid,
		PacketID:  d.nextLocalID,
		Kind:      relay.KindOriginal,
		StartTime: d.engine.Now(),
	}
	d.nextLocalID++

	return h
}

func (d *Device) relayJob(pkt relay.Packet) txJob {
	return txJob{
		pkt:      pkt,
		protocol: link.ProtocolRelay,
	}
}

func (d *Device) setState(s State) {
	if s == d.state {
		return
	}

	prev := d.state
	d.state = s

	if d.NumHooks() > 0 {
		d.InvokeHook(hooking.HookCtx{
			Domain: d,
			Pos:    HookPosStateChange,
			Item:   s,
			Detail: prev,
		})
	}
}

func (d *Device) recordDrop(pkt relay.Packet, reason observe.DropReason) {
	drop := observe.Drop{
		Node:   d.name,
		Reason: reason,
		Time:   d.engine.Now(),
	}

	if h, err := pkt.PeekHeader(); err == nil {
		drop.OriginSID = h.OriginSID
		drop.PacketID = h.PacketID
	}

	d.sink.RecordDrop(drop)
}
