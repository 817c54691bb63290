package device

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lwsn/sim/hooking"
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/medium"
	"github.com/sarchlab/lwsn/wsn/observe"
)

func buildLine(
	engine timing.EventScheduler,
	m *medium.Medium,
	sink observe.Sink,
	n int,
) []*Device {
	alloc := &link.Allocator{}
	addrs := make([]link.Address, n)

	for i := range addrs {
		addrs[i] = alloc.Allocate()
	}

	devices := make([]*Device, n)
	for i := range devices {
		var left, right link.Address
		if i > 0 {
			left = addrs[i-1]
		}

		if i < n-1 {
			right = addrs[i+1]
		}

		var gid uint16
		switch i {
		case 0:
			gid = 1
		case n - 1:
			gid = 2
		}

		devices[i] = MakeBuilder().
			WithEngine(engine).
			WithMedium(m).
			WithAddress(addrs[i]).
			WithNeighbors(left, right).
			WithSID(uint16(i)).
			WithGID(gid).
			WithSink(sink).
			Build(fmt.Sprintf("Node%d", i))
	}

	return devices
}

type callAt func()

func (f callAt) Handle(timing.Event) error {
	f()
	return nil
}

var _ = Describe("Line", func() {
	var (
		engine    *timing.SerialEngine
		m         *medium.Medium
		collector *observe.Collector
		devices   []*Device
		firstSend map[link.Address]timing.VTimeInSec
	)

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		m = medium.MakeBuilder().WithEngine(engine).Build("Medium")
		collector = observe.NewCollector()
		devices = buildLine(engine, m, collector, 8)
		firstSend = make(map[link.Address]timing.VTimeInSec)

		m.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos != medium.HookPosSend {
				return
			}

			t := ctx.Item.(medium.Transmission)
			if _, ok := firstSend[t.From]; !ok {
				firstSend[t.From] = t.Time
			}
		}))
	})

	It("should carry a packet to both gateways", func() {
		Expect(devices[3].Originate(make([]byte, 100))).To(BeTrue())
		Expect(engine.Run()).To(Succeed())

		expectedSends := map[int]float64{
			1: 6.1, 2: 4.1, 3: 2.1, 4: 3.1, 5: 4.1, 6: 5.1,
		}
		for i, at := range expectedSends {
			Expect(firstSend[devices[i].Address()]).
				To(BeNumerically("~", at, 1e-9), "node %d", i)
		}
		Expect(firstSend).NotTo(HaveKey(devices[0].Address()))
		Expect(firstSend).NotTo(HaveKey(devices[7].Address()))

		deliveries := collector.Deliveries()
		Expect(deliveries).To(HaveLen(2))

		Expect(deliveries[0].Gateway).To(Equal(uint16(2)))
		Expect(deliveries[0].OriginSID).To(Equal(uint16(3)))
		Expect(deliveries[0].PacketID).To(Equal(uint32(1)))
		Expect(deliveries[0].Elapsed).To(BeNumerically("~", 6.0, 1e-9))

		Expect(deliveries[1].Gateway).To(Equal(uint16(1)))
		Expect(deliveries[1].OriginSID).To(Equal(uint16(3)))
		Expect(deliveries[1].Elapsed).To(BeNumerically("~", 7.0, 1e-9))
	})

	It("should relay each packet once per node", func() {
		devices[3].Originate(make([]byte, 100))
		Expect(engine.Run()).To(Succeed())

		for i, d := range devices {
			switch i {
			case 0, 7:
				Expect(d.Stats().Terminated).To(Equal(uint64(1)))
			case 3:
				Expect(d.Stats().Relayed).To(Equal(uint64(0)))
				Expect(d.Stats().Stale).To(Equal(uint64(2)))
			case 1, 6:
				Expect(d.Stats().Relayed).To(Equal(uint64(1)), "node %d", i)
				Expect(d.Stats().Stale).To(Equal(uint64(0)), "node %d", i)
			default:
				Expect(d.Stats().Relayed).To(Equal(uint64(1)), "node %d", i)
				Expect(d.Stats().Stale).To(Equal(uint64(1)), "node %d", i)
			}

			Expect(d.State()).To(Equal(Idle))
		}
	})

	It("should not let classes share a slot", func() {
		devices[2].Originate(make([]byte, 10))
		devices[3].Originate(make([]byte, 10))
		devices[4].Originate(make([]byte, 10))
		Expect(engine.Run()).To(Succeed())

		a := firstSend[devices[2].Address()]
		b := firstSend[devices[3].Address()]
		c := firstSend[devices[4].Address()]
		Expect(a).To(BeNumerically("~", 1.1, 1e-9))
		Expect(b).To(BeNumerically("~", 2.1, 1e-9))
		Expect(c).To(BeNumerically("~", 0.1, 1e-9))
	})

	It("should hold a late origination until the next home slot", func() {
		engine.Schedule(timing.NewEventBase(0.95, callAt(func() {
			devices[1].Originate(make([]byte, 10))
		})))
		engine.Schedule(timing.NewEventBase(1.0, callAt(func() {
			devices[2].Originate(make([]byte, 10))
		})))
		Expect(engine.Run()).To(Succeed())

		Expect(firstSend[devices[2].Address()]).
			To(BeNumerically("~", 1.1, 1e-9))
		Expect(firstSend[devices[1].Address()]).
			To(BeNumerically("~", 3.1, 1e-9))
		Expect(collector.DeliveriesTo(1)).To(HaveLen(2))
		Expect(collector.DeliveriesTo(2)).To(HaveLen(2))
	})

	It("should stop at a closed node", func() {
		m2 := medium.MakeBuilder().WithEngine(engine).Build("Medium2")
		line := buildLine(engine, m2, collector, 4)

		line[2].Close()
		line[1].Originate(make([]byte, 10))
		Expect(engine.Run()).To(Succeed())

		Expect(collector.DeliveriesTo(1)).To(HaveLen(1))
		Expect(collector.DeliveriesTo(2)).To(BeEmpty())
	})
})
