package link

import (
	"errors"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ProtocolRelay is the protocol number used for relay traffic. It is the IEEE
// local experimental EtherType.
const ProtocolRelay uint16 = 0x88b5

// TagSize is the size of an encoded Tag.
const TagSize = 14

// ErrShortTag is returned when decoding fewer than TagSize bytes.
var ErrShortTag = errors.New("link: tag too short")

// A Tag carries the source, the destination and the protocol of a frame. It
// travels next to the packet and is not part of the relay header.
type Tag struct {
	Src      Address
	Dst      Address
	Protocol uint16
}

// Ethernet returns the tag as an Ethernet II header.
func (t Tag) Ethernet() *layers.Ethernet {
	return &layers.Ethernet{
		SrcMAC:       t.Src.HardwareAddr(),
		DstMAC:       t.Dst.HardwareAddr(),
		EthernetType: layers.EthernetType(t.Protocol),
	}
}

// Frame serializes the tag in front of the payload. The result is a valid
// Ethernet frame.
func (t Tag) Frame(payload []byte) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()

	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		t.Ethernet(), gopacket.Payload(payload))
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DecodeTag reads a tag from the beginning of an Ethernet frame.
func DecodeTag(data []byte) (Tag, error) {
	if len(data) < TagSize {
		return Tag{}, ErrShortTag
	}

	eth := &layers.Ethernet{}
	if err := eth.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return Tag{}, err
	}

	return Tag{
		Src:      AddressFromHardware(eth.SrcMAC),
		Dst:      AddressFromHardware(eth.DstMAC),
		Protocol: uint16(eth.EthernetType),
	}, nil
}
