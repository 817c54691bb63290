// Package errormodel provides corruption predicates that a device applies to
// every packet it receives.
package errormodel

import (
	"log"
	"math/rand"

	"github.com/sarchlab/lwsn/wsn/relay"
)

// Model decides whether a received packet is corrupted.
type Model interface {
	IsCorrupt(pkt relay.Packet) bool
}

// Func adapts a function into a Model.
type Func func(pkt relay.Packet) bool

// IsCorrupt calls f(pkt).
func (f Func) IsCorrupt(pkt relay.Packet) bool {
	return f(pkt)
}

// RateModel corrupts each packet independently with a fixed probability.
type RateModel struct {
	rate    float64
	rng     *rand.Rand
	enabled bool
}

// NewRateModel creates a RateModel with the given corruption probability and
// random seed.
func NewRateModel(rate float64, seed int64) *RateModel {
	if rate < 0 || rate > 1 {
		log.Panicf("errormodel: rate %v out of [0, 1]", rate)
	}

	return &RateModel{
		rate:    rate,
		rng:     rand.New(rand.NewSource(seed)),
		enabled: true,
	}
}

// Enable turns the model on or off. A disabled model never corrupts.
func (m *RateModel) Enable(enabled bool) {
	m.enabled = enabled
}

// Rate returns the corruption probability.
func (m *RateModel) Rate() float64 {
	return m.rate
}

// IsCorrupt draws one random number per packet.
func (m *RateModel) IsCorrupt(_ relay.Packet) bool {
	if !m.enabled {
		return false
	}

	return m.rng.Float64() < m.rate
}

// Key identifies a packet across all the hops it travels.
type Key struct {
	OriginSID uint16
	PacketID  uint32
}

// ListModel corrupts the packets whose relay header matches one of the listed
// keys. Packets without a valid header are never corrupted.
type ListModel struct {
	keys map[Key]bool
}

// NewListModel creates a ListModel.
func NewListModel(keys ...Key) *ListModel {
	m := &ListModel{keys: make(map[Key]bool)}
	m.SetList(keys...)

	return m
}

// SetList replaces the list of corrupted packets.
func (m *ListModel) SetList(keys ...Key) {
	m.keys = make(map[Key]bool, len(keys))
	for _, k := range keys {
		m.keys[k] = true
	}
}

// IsCorrupt reports whether the packet is listed.
func (m *ListModel) IsCorrupt(pkt relay.Packet) bool {
	h, err := pkt.PeekHeader()
	if err != nil {
		return false
	}

	return m.keys[Key{OriginSID: h.OriginSID, PacketID: h.PacketID}]
}
