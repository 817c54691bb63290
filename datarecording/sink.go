package datarecording

import (
	"context"
	"fmt"

	"github.com/sarchlab/lwsn/wsn/observe"
)

// The tables that a Sink writes.
const (
	DeliveryTable = "delivery"
	DropTable     = "drop_event"
)

// DeliveryEntry is a row of the delivery table.
type DeliveryEntry struct {
	Node      string
	Gateway   uint16
	OriginSID uint16
	PacketID  uint32
	Elapsed   float64
	Time      float64
}

// DropEntry is a row of the drop table.
type DropEntry struct {
	Node      string
	Reason    string
	OriginSID uint16
	PacketID  uint32
	Time      float64
}

// Sink records deliveries and drops into a DataRecorder.
type Sink struct {
	recorder DataRecorder
}

// NewSink creates the delivery and the drop tables and returns a Sink that
// writes to them.
func NewSink(recorder DataRecorder) *Sink {
	recorder.CreateTable(DeliveryTable, DeliveryEntry{})
	recorder.CreateTable(DropTable, DropEntry{})

	return &Sink{recorder: recorder}
}

// RecordDelivery buffers a delivery row.
func (s *Sink) RecordDelivery(d observe.Delivery) {
	s.recorder.InsertData(DeliveryTable, DeliveryEntry{
		Node:      d.Node,
		Gateway:   d.Gateway,
		OriginSID: d.OriginSID,
		PacketID:  d.PacketID,
		Elapsed:   d.Elapsed,
		Time:      d.Time,
	})
}

// RecordDrop buffers a drop row.
func (s *Sink) RecordDrop(d observe.Drop) {
	s.recorder.InsertData(DropTable, DropEntry{
		Node:      d.Node,
		Reason:    d.Reason.String(),
		OriginSID: d.OriginSID,
		PacketID:  d.PacketID,
		Time:      d.Time,
	})
}

// LoadDeliveries reads all the deliveries recorded by a Sink, ordered by
// time.
func LoadDeliveries(
	ctx context.Context,
	reader DataReader,
) ([]observe.Delivery, error) {
	reader.MapTable(DeliveryTable, DeliveryEntry{})

	rows, _, err := reader.Query(ctx, DeliveryTable, QueryParams{
		OrderBy: "Time, Gateway",
	})
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}

	deliveries := make([]observe.Delivery, 0, len(rows))
	for _, row := range rows {
		e := row.(*DeliveryEntry)
		deliveries = append(deliveries, observe.Delivery{
			Node:      e.Node,
			Gateway:   e.Gateway,
			OriginSID: e.OriginSID,
			PacketID:  e.PacketID,
			Elapsed:   e.Elapsed,
			Time:      e.Time,
		})
	}

	return deliveries, nil
}

// CountDrops returns the number of drops per reason.
func CountDrops(ctx context.Context, reader DataReader) (map[string]int, error) {
	reader.MapTable(DropTable, DropEntry{})

	rows, _, err := reader.Query(ctx, DropTable, QueryParams{})
	if err != nil {
		return nil, fmt.Errorf("count drops: %w", err)
	}

	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.(*DropEntry).Reason]++
	}

	return counts, nil
}
