// Package relay defines the relay header carried by every data packet and the
// packet value type that moves between devices.
package relay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// Kind tells whether a packet is still on its first hop.
type Kind uint8

// The valid header kinds. Zero is deliberately not a valid kind.
const (
	KindOriginal  Kind = 1
	KindForwarded Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindOriginal:
		return "ORIGINAL"
	case KindForwarded:
		return "FORWARDED"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// HeaderSize is the encoded size of a Header in bytes.
//
//	0      2          6      7                 15
//	+------+----------+------+-----------------+
//	| osid | packetID | kind | startTime (f64) |
//	+------+----------+------+-----------------+
const HeaderSize = 15

// Decode errors.
var (
	ErrTruncated   = errors.New("relay: header truncated")
	ErrInvalidKind = errors.New("relay: invalid header kind")
)

// Header identifies a data packet: who produced it, its sequence number at
// the origin, whether it has been relayed and when it was first sent.
type Header struct {
	OriginSID uint16
	PacketID  uint32
	Kind      Kind
	StartTime float64
}

// Forwarded returns a copy of the header marked as FORWARDED. All other
// fields are preserved.
func (h Header) Forwarded() Header {
	h.Kind = KindForwarded
	return h
}

// Encode writes the header into a new HeaderSize-byte slice.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	h.put(buf)

	return buf
}

func (h Header) put(buf []byte) {
	binary.BigEndian.PutUint16(buf[0:2], h.OriginSID)
	binary.BigEndian.PutUint32(buf[2:6], h.PacketID)
	buf[6] = byte(h.Kind)
	binary.BigEndian.PutUint64(buf[7:15], math.Float64bits(h.StartTime))
}

// DecodeHeader reads a header from the beginning of data.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d of %d bytes",
			ErrTruncated, len(data), HeaderSize)
	}

	h := Header{
		OriginSID: binary.BigEndian.Uint16(data[0:2]),
		PacketID:  binary.BigEndian.Uint32(data[2:6]),
		Kind:      Kind(data[6]),
		StartTime: math.Float64frombits(binary.BigEndian.Uint64(data[7:15])),
	}

	if h.Kind != KindOriginal && h.Kind != KindForwarded {
		return Header{}, fmt.Errorf("%w: %d", ErrInvalidKind, data[6])
	}

	return h, nil
}

// LayerTypeRelay is the gopacket layer type of the relay header.
var LayerTypeRelay = gopacket.RegisterLayerType(1701, gopacket.LayerTypeMetadata{
	Name:    "LwsnRelay",
	Decoder: gopacket.DecodeFunc(decodeRelay),
})

// Layer is the relay header as a gopacket layer, so that captured frames can
// be dissected with the regular gopacket machinery.
type Layer struct {
	layers.BaseLayer
	Header
}

// LayerType returns LayerTypeRelay.
func (l *Layer) LayerType() gopacket.LayerType {
	return LayerTypeRelay
}

// CanDecode returns LayerTypeRelay.
func (l *Layer) CanDecode() gopacket.LayerClass {
	return LayerTypeRelay
}

// NextLayerType returns the payload layer type.
func (l *Layer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

// DecodeFromBytes decodes the header and splits the contents from the payload.
func (l *Layer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	h, err := DecodeHeader(data)
	if err != nil {
		if errors.Is(err, ErrTruncated) {
			df.SetTruncated()
		}

		return err
	}

	l.Header = h
	l.BaseLayer = layers.BaseLayer{
		Contents: data[:HeaderSize],
		Payload:  data[HeaderSize:],
	}

	return nil
}

// SerializeTo prepends the encoded header to the buffer.
func (l *Layer) SerializeTo(
	b gopacket.SerializeBuffer,
	_ gopacket.SerializeOptions,
) error {
	bytes, err := b.PrependBytes(HeaderSize)
	if err != nil {
		return err
	}

	l.Header.put(bytes)

	return nil
}

func decodeRelay(data []byte, p gopacket.PacketBuilder) error {
	l := &Layer{}

	err := l.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}

	p.AddLayer(l)

	return p.NextDecoder(l.NextLayerType())
}
