package medium

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/lwsn/sim/hooking"
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/relay"
)

var _ = Describe("Medium", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *timing.SerialEngine
		m        *Medium
		a, b, c  *MockEndpoint
		addrA    link.Address
		addrB    link.Address
		pkt      relay.Packet
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		m = MakeBuilder().WithEngine(engine).WithDelay(0.5).Build("Medium")

		a = NewMockEndpoint(mockCtrl)
		b = NewMockEndpoint(mockCtrl)
		c = NewMockEndpoint(mockCtrl)
		m.Attach(a)
		m.Attach(b)
		m.Attach(c)

		addrA = link.MustParseAddress("00:00:00:00:00:01")
		addrB = link.MustParseAddress("00:00:00:00:00:02")
		pkt = relay.NewPacketOfSize(4)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should deliver to everyone but the sender after the delay", func() {
		var deliveredAt []timing.VTimeInSec

		record := func(relay.Packet, uint16, link.Address, link.Address) {
			deliveredAt = append(deliveredAt, engine.Now())
		}
		b.EXPECT().
			ReceiveStart(pkt, link.ProtocolRelay, addrB, addrA).
			Do(record)
		c.EXPECT().
			ReceiveStart(pkt, link.ProtocolRelay, addrB, addrA).
			Do(record)

		m.Send(pkt, link.ProtocolRelay, addrB, addrA, a)
		Expect(engine.Run()).To(Succeed())

		Expect(deliveredAt).To(Equal([]timing.VTimeInSec{0.5, 0.5}))
		Expect(m.NumSent()).To(Equal(uint64(1)))
		Expect(m.NumDelivered()).To(Equal(uint64(2)))
	})

	It("should invoke the send hook with the transmission", func() {
		var seen []Transmission

		m.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos == HookPosSend {
				seen = append(seen, ctx.Item.(Transmission))
			}
		}))
		b.EXPECT().ReceiveStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
		c.EXPECT().ReceiveStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		m.Send(pkt, link.ProtocolRelay, addrB, addrA, a)
		Expect(engine.Run()).To(Succeed())

		Expect(seen).To(HaveLen(1))
		Expect(seen[0].Tag()).To(Equal(link.Tag{
			Src: addrA, Dst: addrB, Protocol: link.ProtocolRelay,
		}))
	})

	It("should stop delivering to detached endpoints", func() {
		m.Detach(c)
		b.EXPECT().ReceiveStart(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		m.Send(pkt, link.ProtocolRelay, addrB, addrA, a)
		Expect(engine.Run()).To(Succeed())

		Expect(m.Endpoints()).To(HaveLen(2))
	})

	It("should panic when an endpoint is attached twice", func() {
		a.EXPECT().Address().Return(addrA).AnyTimes()

		Expect(func() { m.Attach(a) }).To(Panic())
	})
})
