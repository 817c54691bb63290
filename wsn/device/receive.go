package device

import (
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/forwarding"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/observe"
	"github.com/sarchlab/lwsn/wsn/relay"
)

// ReceiveStart is called by the medium when a frame arrives. The frame is
// processed after the processing delay of the device.
func (d *Device) ReceiveStart(
	pkt relay.Packet,
	protocol uint16,
	to, from link.Address,
) {
	if d.closed {
		return
	}

	d.stats.Received++

	evt := &receiveEvent{
		EventBase: timing.NewEventBase(d.engine.Now()+d.processingDelay, d),
		pkt:       pkt,
		protocol:  protocol,
		to:        to,
		from:      from,
	}
	d.pendingReceives[evt.ID()] = evt
	d.engine.Schedule(evt)
}

func (d *Device) onReceive(e *receiveEvent) {
	delete(d.pendingReceives, e.ID())

	if d.errorModel != nil && d.errorModel.IsCorrupt(e.pkt) {
		d.stats.Corrupted++
		d.recordDrop(e.pkt, observe.DropCorrupted)

		return
	}

	packetType := link.Classify(e.to, d.address)

	if packetType == link.PacketHost {
		if d.IsGateway() {
			d.terminate(e.pkt)
			return
		}

		d.forward(e.pkt, e.from)
	}

	if packetType != link.PacketOtherHost && d.rxCallback != nil {
		d.stats.DeliveredUp++
		d.rxCallback(d, e.pkt, e.protocol, e.from)
	}

	if d.promiscCallback != nil {
		d.promiscCallback(d, e.pkt, e.protocol, e.from, e.to, packetType)
	}
}

// terminate ends the journey of a packet at a gateway.
func (d *Device) terminate(pkt relay.Packet) {
	h, err := pkt.PeekHeader()
	if err != nil {
		d.stats.DecodeFailed++
		d.recordDrop(pkt, observe.DropDecodeFailure)

		return
	}

	now := d.engine.Now()

	d.stats.Terminated++
	d.sink.RecordDelivery(observe.Delivery{
		Node:      d.name,
		Gateway:   d.gid,
		OriginSID: h.OriginSID,
		PacketID:  h.PacketID,
		Elapsed:   now - h.StartTime,
		Time:      now,
	})
}

// forward relays the packet if it still travels away from its origin.
func (d *Device) forward(pkt relay.Packet, from link.Address) {
	h, payload, err := pkt.RemoveHeader()
	if err != nil {
		d.stats.DecodeFailed++
		d.recordDrop(pkt, observe.DropDecodeFailure)

		return
	}

	verdict := forwarding.Decide(h, from, forwarding.Context{
		SID:   d.sid,
		Left:  d.left,
		Right: d.right,
	})
	if !verdict.Relays() {
		d.stats.Stale++
		return
	}

	d.stats.Relayed++
	d.submit(d.relayJob(payload.AddHeader(h.Forwarded())))
}
