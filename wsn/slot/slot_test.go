package slot_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/lwsn/wsn/slot"
)

var _ = Describe("Slot", func() {
	It("should map classes to home phases", func() {
		Expect(slot.HomePhase(1)).To(Equal(int64(0)))
		Expect(slot.HomePhase(2)).To(Equal(int64(1)))
		Expect(slot.HomePhase(3)).To(Equal(int64(2)))
		Expect(slot.HomePhase(4)).To(Equal(int64(0)))
	})

	DescribeTable("delays",
		func(now int64, sid uint16, expected float64) {
			Expect(slot.Delay(now, sid)).To(BeNumerically("~", expected, 1e-9))
		},
		Entry("class 1 at phase 0", int64(0), uint16(1), 0.1),
		Entry("class 1 at phase 1", int64(1), uint16(1), 2.1),
		Entry("class 1 at phase 2", int64(2), uint16(1), 1.1),
		Entry("class 2 at phase 1", int64(4), uint16(5), 0.1),
		Entry("class 2 at phase 0", int64(3), uint16(5), 1.1),
		Entry("class 0 at phase 2", int64(5), uint16(6), 0.1),
		Entry("class 0 at phase 0", int64(6), uint16(3), 2.1),
	)

	It("should always land on the home phase", func() {
		for now := int64(0); now < 30; now++ {
			for sid := uint16(0); sid < 12; sid++ {
				sendAt := float64(now) + slot.Delay(now, sid)
				Expect(slot.Phase(int64(math.Floor(sendAt)))).
					To(Equal(slot.HomePhase(sid)))
			}
		}
	})

	It("should keep different classes at least one second apart", func() {
		for now := int64(0); now < 30; now++ {
			for a := uint16(0); a < 9; a++ {
				for b := uint16(0); b < 9; b++ {
					if a%3 == b%3 {
						continue
					}

					ta := float64(now) + slot.Delay(now, a)
					tb := float64(now) + slot.Delay(now, b)
					Expect(math.Abs(ta-tb)).To(BeNumerically(">=", 1-1e-9))
				}
			}
		}
	})

	It("should never return a negative delay", func() {
		for now := int64(0); now < 9; now++ {
			for sid := uint16(0); sid < 3; sid++ {
				Expect(slot.Delay(now, sid)).To(BeNumerically(">", 0))
			}
		}
	})

	DescribeTable("delays at fractional times",
		func(now float64, sid uint16, expected float64) {
			Expect(slot.DelayAt(now, sid)).To(BeNumerically("~", expected, 1e-9))
		},
		Entry("early in the home phase", 0.5, uint16(1), 0.1),
		Entry("late in the home phase", 0.95, uint16(1), 2.15),
		Entry("at the end of the home phase", 0.9, uint16(4), 2.2),
		Entry("late in the phase before home", 0.95, uint16(2), 0.15),
		Entry("in the middle of another phase", 2.4, uint16(1), 0.7),
		Entry("late in another phase", 2.95, uint16(2), 1.15),
	)

	It("should keep fractional sends inside the home sub-slot", func() {
		for i := 0; i < 180; i++ {
			now := float64(i) * 0.05
			for sid := uint16(0); sid < 6; sid++ {
				sendAt := now + slot.DelayAt(now, sid)
				sec := math.Floor(sendAt + 1e-9)

				Expect(sendAt).To(BeNumerically(">", now), "now %v sid %d", now, sid)
				Expect(slot.Phase(int64(sec))).
					To(Equal(slot.HomePhase(sid)), "now %v sid %d", now, sid)
				Expect(sendAt-sec).
					To(BeNumerically(">=", slot.Guard-1e-9), "now %v sid %d", now, sid)
			}
		}
	})

	It("should tolerate floating-point drift", func() {
		Expect(slot.WholeSeconds(2.9999999999)).To(Equal(int64(3)))
		Expect(slot.WholeSeconds(3.5)).To(Equal(int64(3)))
		Expect(slot.DelayAt(2.1+0.9, 1)).To(BeNumerically("~", 0.1, 1e-9))
	})

	It("should panic on invalid time", func() {
		Expect(func() { slot.Phase(-1) }).To(Panic())
		Expect(func() { slot.WholeSeconds(math.NaN()) }).To(Panic())
	})
})
