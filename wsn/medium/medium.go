// Package medium models the shared wireless channel that all devices of a
// line are attached to.
package medium

import (
	"log"

	"github.com/sarchlab/lwsn/sim/hooking"
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/relay"
)

// HookPosSend marks a frame entering the medium. The hook item is a
// Transmission.
var HookPosSend = &hooking.HookPos{Name: "Medium Send"}

// HookPosDeliver marks a frame reaching one endpoint. The hook item is a
// Transmission and the detail is the receiving Endpoint.
var HookPosDeliver = &hooking.HookPos{Name: "Medium Deliver"}

// An Endpoint is a device attached to the medium.
type Endpoint interface {
	Address() link.Address

	// ReceiveStart is called when a frame sent by another endpoint arrives.
	ReceiveStart(pkt relay.Packet, protocol uint16, to, from link.Address)
}

// Transmission is a frame on the medium.
type Transmission struct {
	Packet   relay.Packet
	Protocol uint16
	To       link.Address
	From     link.Address
	Time     timing.VTimeInSec
}

// Tag returns the link tag of the transmission.
func (t Transmission) Tag() link.Tag {
	return link.Tag{Src: t.From, Dst: t.To, Protocol: t.Protocol}
}

type deliverEvent struct {
	*timing.EventBase
	transmission Transmission
	endpoint     Endpoint
}

// Medium delivers every frame to all the attached endpoints except the
// sender.
type Medium struct {
	hooking.HookableBase

	name      string
	engine    timing.EventScheduler
	delay     timing.VTimeInSec
	endpoints []Endpoint

	numSent      uint64
	numDelivered uint64
}

// Name returns the name of the medium.
func (m *Medium) Name() string {
	return m.name
}

// Delay returns the propagation delay.
func (m *Medium) Delay() timing.VTimeInSec {
	return m.delay
}

// Attach connects an endpoint to the medium.
func (m *Medium) Attach(ep Endpoint) {
	for _, existing := range m.endpoints {
		if existing == ep {
			log.Panicf("medium %s: endpoint %s attached twice",
				m.name, ep.Address())
		}
	}

	m.endpoints = append(m.endpoints, ep)
}

// Detach disconnects an endpoint. Frames already in flight toward it are
// still delivered.
func (m *Medium) Detach(ep Endpoint) {
	for i, existing := range m.endpoints {
		if existing == ep {
			m.endpoints = append(m.endpoints[:i], m.endpoints[i+1:]...)
			return
		}
	}
}

// Endpoints returns the attached endpoints in attachment order.
func (m *Medium) Endpoints() []Endpoint {
	return append([]Endpoint(nil), m.endpoints...)
}

// NumSent returns the number of frames that entered the medium.
func (m *Medium) NumSent() uint64 {
	return m.numSent
}

// NumDelivered returns the number of frame copies handed to endpoints.
func (m *Medium) NumDelivered() uint64 {
	return m.numDelivered
}

// Send puts a frame on the medium. Every attached endpoint other than the
// sender receives a copy after the propagation delay.
func (m *Medium) Send(
	pkt relay.Packet,
	protocol uint16,
	to, from link.Address,
	sender Endpoint,
) {
	now := m.engine.Now()
	t := Transmission{
		Packet:   pkt,
		Protocol: protocol,
		To:       to,
		From:     from,
		Time:     now,
	}

	m.numSent++
	m.InvokeHook(hooking.HookCtx{
		Domain: m,
		Pos:    HookPosSend,
		Item:   t,
	})

	for _, ep := range m.endpoints {
		if ep == sender {
			continue
		}

		evt := &deliverEvent{
			EventBase:    timing.NewEventBase(now+m.delay, m),
			transmission: t,
			endpoint:     ep,
		}
		m.engine.Schedule(evt)
	}
}

// Handle delivers frames.
func (m *Medium) Handle(e timing.Event) error {
	switch e := e.(type) {
	case *deliverEvent:
		m.deliver(e)
	default:
		log.Panicf("medium %s: cannot handle event of type %T", m.name, e)
	}

	return nil
}

func (m *Medium) deliver(e *deliverEvent) {
	t := e.transmission

	m.numDelivered++
	m.InvokeHook(hooking.HookCtx{
		Domain: m,
		Pos:    HookPosDeliver,
		Item:   t,
		Detail: e.endpoint,
	})

	e.endpoint.ReceiveStart(t.Packet, t.Protocol, t.To, t.From)
}
