package relay

import (
	"github.com/google/gopacket"
)

// A Packet is an immutable sequence of bytes: a relay header followed by an
// opaque payload. Operations that change the header return new packets.
type Packet struct {
	data []byte
}

// NewPacket creates a packet holding a copy of the payload.
func NewPacket(payload []byte) Packet {
	data := make([]byte, len(payload))
	copy(data, payload)

	return Packet{data: data}
}

// NewPacketOfSize creates a packet with a zero-filled payload of n bytes.
func NewPacketOfSize(n int) Packet {
	return Packet{data: make([]byte, n)}
}

// Size returns the number of bytes in the packet.
func (p Packet) Size() int {
	return len(p.data)
}

// Bytes returns a copy of the packet contents.
func (p Packet) Bytes() []byte {
	data := make([]byte, len(p.data))
	copy(data, p.data)

	return data
}

// AddHeader returns a new packet with h in front of p.
func (p Packet) AddHeader(h Header) Packet {
	buf := gopacket.NewSerializeBuffer()

	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		&Layer{Header: h}, gopacket.Payload(p.data))
	if err != nil {
		panic(err)
	}

	return NewPacket(buf.Bytes())
}

// PeekHeader decodes the header at the front of the packet.
func (p Packet) PeekHeader() (Header, error) {
	return DecodeHeader(p.data)
}

// RemoveHeader decodes the header at the front of the packet and returns it
// together with the rest of the packet.
func (p Packet) RemoveHeader() (Header, Packet, error) {
	h, err := DecodeHeader(p.data)
	if err != nil {
		return Header{}, p, err
	}

	return h, Packet{data: p.data[HeaderSize:]}, nil
}

// Dissect decodes the packet with gopacket, starting from the relay layer.
func (p Packet) Dissect() gopacket.Packet {
	return gopacket.NewPacket(p.data, LayerTypeRelay, gopacket.Default)
}
