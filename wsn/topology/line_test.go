package topology_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/errormodel"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/observe"
	"github.com/sarchlab/lwsn/wsn/topology"
)

var _ = Describe("Line", func() {
	var (
		engine    *timing.SerialEngine
		collector *observe.Collector
	)

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		collector = observe.NewCollector()
	})

	It("should wire neighbors and gateways", func() {
		line := topology.MakeLineBuilder().
			WithEngine(engine).
			WithNumNodes(5).
			Build("Line")

		Expect(line.Devices).To(HaveLen(5))
		Expect(line.Sensors()).To(HaveLen(3))
		Expect(line.Medium.Endpoints()).To(HaveLen(5))

		left, right := line.Gateways()
		Expect(left.GID()).To(Equal(topology.LeftGatewayID))
		Expect(right.GID()).To(Equal(topology.RightGatewayID))
		Expect(line.Device(2).IsGateway()).To(BeFalse())
		Expect(line.Device(2).Name()).To(Equal("Line.Node[2]"))

		l, r := line.Device(2).Neighbors()
		Expect(l).To(Equal(line.Device(1).Address()))
		Expect(r).To(Equal(line.Device(3).Address()))

		l, _ = left.Neighbors()
		Expect(l.IsZero()).To(BeTrue())
		Expect(line.Device(0).Address()).
			To(Equal(link.MustParseAddress("00:00:00:00:00:01")))
	})

	It("should deliver a packet to both ends", func() {
		line := topology.MakeLineBuilder().
			WithEngine(engine).
			WithSink(collector).
			Build("Line")

		line.Device(3).Originate(make([]byte, 100))
		Expect(engine.Run()).To(Succeed())

		Expect(collector.Gateways()).To(Equal([]uint16{1, 2}))
		Expect(collector.DeliveriesTo(2)[0].Elapsed).
			To(BeNumerically("~", 6.0, 1e-9))
		Expect(collector.DeliveriesTo(1)[0].Elapsed).
			To(BeNumerically("~", 7.0, 1e-9))
	})

	It("should shift arrivals by the medium delay", func() {
		line := topology.MakeLineBuilder().
			WithEngine(engine).
			WithNumNodes(3).
			WithMediumDelay(0.05).
			WithSink(collector).
			Build("Line")

		line.Device(1).Originate(make([]byte, 10))
		Expect(engine.Run()).To(Succeed())

		for _, d := range collector.Deliveries() {
			Expect(d.Elapsed).To(BeNumerically("~", 1.05, 1e-9))
		}
		Expect(collector.Deliveries()).To(HaveLen(2))
	})

	It("should apply error models", func() {
		line := topology.MakeLineBuilder().
			WithEngine(engine).
			WithNumNodes(3).
			WithSink(collector).
			WithErrorModels(func(i int) errormodel.Model {
				if i == 0 {
					return errormodel.NewRateModel(1, 1)
				}

				return nil
			}).
			Build("Line")

		line.Device(1).Originate(make([]byte, 10))
		Expect(engine.Run()).To(Succeed())

		Expect(collector.DeliveriesTo(1)).To(BeEmpty())
		Expect(collector.DeliveriesTo(2)).To(HaveLen(1))
		// The gateway hears both frames of the send.
		Expect(collector.Drops()).To(HaveLen(2))
		for _, d := range collector.Drops() {
			Expect(d.Reason).To(Equal(observe.DropCorrupted))
			Expect(d.Node).To(Equal("Line.Node[0]"))
		}
	})

	It("should refuse lines that are too short", func() {
		Expect(func() {
			topology.MakeLineBuilder().WithEngine(engine).WithNumNodes(1).
				Build("Line")
		}).To(Panic())
	})
})
