package tracing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lwsn/sim/hooking"
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/device"
	"github.com/sarchlab/lwsn/wsn/topology"
	"github.com/sarchlab/lwsn/wsn/tracing"
)

type stubTimeTeller struct {
	now float64
}

func (t *stubTimeTeller) Now() float64 {
	return t.now
}

type fakeDevice struct {
	hooking.HookableBase
	name string
}

func (d *fakeDevice) Name() string {
	return d.name
}

func stateChange(d *fakeDevice, from, to device.State) hooking.HookCtx {
	return hooking.HookCtx{
		Domain: d,
		Pos:    device.HookPosStateChange,
		Item:   to,
		Detail: from,
	}
}

var _ = Describe("BusyTimeTracer", func() {
	var (
		timeTeller *stubTimeTeller
		t          *tracing.BusyTimeTracer
		a, b       *fakeDevice
	)

	BeforeEach(func() {
		timeTeller = &stubTimeTeller{}
		t = tracing.NewBusyTimeTracer(timeTeller)
		a = &fakeDevice{name: "A"}
		b = &fakeDevice{name: "B"}
	})

	It("should count from leaving idle to returning to idle", func() {
		timeTeller.now = 1
		t.Func(stateChange(a, device.Idle, device.Armed))

		timeTeller.now = 1.5
		t.Func(stateChange(a, device.Armed, device.Sending))

		timeTeller.now = 4.5
		t.Func(stateChange(a, device.Sending, device.Armed))

		timeTeller.now = 8
		t.Func(stateChange(a, device.Sending, device.Idle))

		Expect(t.BusyTime("A")).To(Equal(7.0))
	})

	It("should add separate busy periods", func() {
		timeTeller.now = 1
		t.Func(stateChange(a, device.Idle, device.Armed))
		timeTeller.now = 2
		t.Func(stateChange(a, device.Armed, device.Idle))

		timeTeller.now = 3
		t.Func(stateChange(a, device.Idle, device.Armed))
		timeTeller.now = 5
		t.Func(stateChange(a, device.Sending, device.Idle))

		Expect(t.BusyTime("A")).To(Equal(3.0))
	})

	It("should close open periods on terminate", func() {
		timeTeller.now = 1
		t.Func(stateChange(a, device.Idle, device.Armed))
		timeTeller.now = 2
		t.Func(stateChange(b, device.Idle, device.Armed))

		timeTeller.now = 6
		Expect(t.BusyTime("A")).To(Equal(0.0))

		t.TerminateAll()

		Expect(t.BusyTime("A")).To(Equal(5.0))
		Expect(t.BusyTime("B")).To(Equal(4.0))
		Expect(t.Names()).To(Equal([]string{"A", "B"}))

		name, busy, ok := t.Busiest()
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("A"))
		Expect(busy).To(Equal(5.0))
	})

	It("should ignore other hook positions", func() {
		t.Func(hooking.HookCtx{
			Domain: a,
			Pos:    timing.HookPosBeforeEvent,
		})

		_, _, ok := t.Busiest()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Tracing a line", func() {
	It("should measure busy time and count frames by kind", func() {
		engine := timing.NewSerialEngine()
		line := topology.MakeLineBuilder().
			WithEngine(engine).
			WithNumNodes(4).
			Build("Line")

		busy := tracing.NewBusyTimeTracer(engine)
		for _, d := range line.Devices {
			d.AcceptHook(busy)
		}

		frames := tracing.NewFrameCountTracer()
		line.Medium.AcceptHook(frames)

		line.Device(1).Originate(make([]byte, 10))
		Expect(engine.Run()).To(Succeed())

		Expect(frames.Kinds()).To(Equal([]string{"ORIGINAL", "FORWARDED"}))
		Expect(frames.Count("ORIGINAL")).To(Equal(uint64(2)))
		Expect(frames.Count("FORWARDED")).To(Equal(uint64(2)))
		Expect(frames.Count(tracing.Undecodable)).To(BeZero())

		Expect(busy.Names()).To(Equal([]string{"Line.Node[1]", "Line.Node[2]"}))
		Expect(busy.BusyTime("Line.Node[1]")).To(BeNumerically("~", 3.1, 1e-9))
		Expect(busy.BusyTime("Line.Node[2]")).To(BeNumerically("~", 3.1, 1e-9))
	})
})
