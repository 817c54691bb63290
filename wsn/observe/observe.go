// Package observe defines the records that devices report and the sinks that
// consume them.
package observe

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Delivery is reported by a gateway when a packet reaches the end of the line.
type Delivery struct {
	Node      string
	Gateway   uint16
	OriginSID uint16
	PacketID  uint32
	Elapsed   float64
	Time      float64
}

// DropReason tells why a packet was lost.
type DropReason int

// The reasons a packet can be dropped.
const (
	DropCorrupted DropReason = iota
	DropDecodeFailure
	DropQueueFull
)

func (r DropReason) String() string {
	switch r {
	case DropCorrupted:
		return "Corrupted"
	case DropDecodeFailure:
		return "DecodeFailure"
	case DropQueueFull:
		return "QueueFull"
	default:
		return fmt.Sprintf("DropReason(%d)", int(r))
	}
}

// Drop is reported when a device loses a packet.
type Drop struct {
	Node      string
	Reason    DropReason
	OriginSID uint16
	PacketID  uint32
	Time      float64
}

// Sink receives the records reported by devices.
type Sink interface {
	RecordDelivery(d Delivery)
	RecordDrop(d Drop)
}

// LogSink writes every record as one line to a logger.
type LogSink struct {
	Logger *log.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{Logger: logger}
}

// RecordDelivery logs the delivery.
func (s *LogSink) RecordDelivery(d Delivery) {
	s.Logger.Printf("%.10f, %s, delivered, gateway %d, origin %d, packet %d, elapsed %.6f",
		d.Time, d.Node, d.Gateway, d.OriginSID, d.PacketID, d.Elapsed)
}

// RecordDrop logs the drop.
func (s *LogSink) RecordDrop(d Drop) {
	s.Logger.Printf("%.10f, %s, dropped, %s, origin %d, packet %d",
		d.Time, d.Node, d.Reason, d.OriginSID, d.PacketID)
}

// Collector keeps all the records in memory. It is safe to read from another
// goroutine while the simulation runs.
type Collector struct {
	lock       sync.Mutex
	deliveries []Delivery
	drops      []Drop
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordDelivery appends the delivery.
func (c *Collector) RecordDelivery(d Delivery) {
	c.lock.Lock()
	c.deliveries = append(c.deliveries, d)
	c.lock.Unlock()
}

// RecordDrop appends the drop.
func (c *Collector) RecordDrop(d Drop) {
	c.lock.Lock()
	c.drops = append(c.drops, d)
	c.lock.Unlock()
}

// Deliveries returns a copy of the deliveries in reporting order.
func (c *Collector) Deliveries() []Delivery {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]Delivery(nil), c.deliveries...)
}

// Drops returns a copy of the drops in reporting order.
func (c *Collector) Drops() []Drop {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]Drop(nil), c.drops...)
}

// DeliveriesTo returns the deliveries reported by one gateway.
func (c *Collector) DeliveriesTo(gateway uint16) []Delivery {
	var list []Delivery

	for _, d := range c.Deliveries() {
		if d.Gateway == gateway {
			list = append(list, d)
		}
	}

	return list
}

// Gateways returns the ids of the gateways that reported at least one
// delivery, in ascending order.
func (c *Collector) Gateways() []uint16 {
	seen := make(map[uint16]bool)

	for _, d := range c.Deliveries() {
		seen[d.Gateway] = true
	}

	ids := make([]uint16, 0, len(seen))
	for gid := range seen {
		ids = append(ids, gid)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Reset removes all the records.
func (c *Collector) Reset() {
	c.lock.Lock()
	c.deliveries = nil
	c.drops = nil
	c.lock.Unlock()
}

// MultiSink forwards every record to all its sinks in order.
type MultiSink []Sink

// RecordDelivery forwards the delivery.
func (m MultiSink) RecordDelivery(d Delivery) {
	for _, s := range m {
		s.RecordDelivery(d)
	}
}

// RecordDrop forwards the drop.
func (m MultiSink) RecordDrop(d Drop) {
	for _, s := range m {
		s.RecordDrop(d)
	}
}

// Discard is a Sink that ignores all records.
var Discard Sink = discard{}

type discard struct{}

func (discard) RecordDelivery(Delivery) {}
func (discard) RecordDrop(Drop)         {}
