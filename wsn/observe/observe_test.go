package observe_test

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/lwsn/wsn/observe"
)

var _ = Describe("Collector", func() {
	var c *observe.Collector

	BeforeEach(func() {
		c = observe.NewCollector()
	})

	It("should keep records in order", func() {
		c.RecordDelivery(observe.Delivery{Gateway: 2, OriginSID: 3, PacketID: 1})
		c.RecordDelivery(observe.Delivery{Gateway: 1, OriginSID: 3, PacketID: 1})
		c.RecordDrop(observe.Drop{Reason: observe.DropCorrupted})

		Expect(c.Deliveries()).To(HaveLen(2))
		Expect(c.Deliveries()[0].Gateway).To(Equal(uint16(2)))
		Expect(c.Drops()).To(HaveLen(1))
		Expect(c.DeliveriesTo(1)).To(HaveLen(1))
		Expect(c.Gateways()).To(Equal([]uint16{1, 2}))
	})

	It("should reset", func() {
		c.RecordDelivery(observe.Delivery{Gateway: 2})
		c.Reset()

		Expect(c.Deliveries()).To(BeEmpty())
		Expect(c.Gateways()).To(BeEmpty())
	})
})

var _ = Describe("LogSink", func() {
	It("should write one line per record", func() {
		buf := new(bytes.Buffer)
		s := observe.NewLogSink(log.New(buf, "", 0))

		s.RecordDelivery(observe.Delivery{Node: "N7", Gateway: 2, OriginSID: 3, Elapsed: 6})
		s.RecordDrop(observe.Drop{Node: "N4", Reason: observe.DropQueueFull})

		Expect(buf.String()).To(ContainSubstring("N7, delivered, gateway 2, origin 3"))
		Expect(buf.String()).To(ContainSubstring("N4, dropped, QueueFull"))
	})
})

var _ = Describe("MultiSink", func() {
	var mockCtrl *gomock.Controller

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should forward to all sinks", func() {
		a := NewMockSink(mockCtrl)
		b := NewMockSink(mockCtrl)
		m := observe.MultiSink{a, b}

		d := observe.Delivery{Gateway: 1}
		drop := observe.Drop{Reason: observe.DropDecodeFailure}

		a.EXPECT().RecordDelivery(d)
		b.EXPECT().RecordDelivery(d)
		a.EXPECT().RecordDrop(drop)
		b.EXPECT().RecordDrop(drop)

		m.RecordDelivery(d)
		m.RecordDrop(drop)
	})

	It("should print reasons", func() {
		Expect(observe.DropCorrupted.String()).To(Equal("Corrupted"))
		Expect(observe.DropReason(9).String()).To(Equal("DropReason(9)"))
	})
})
