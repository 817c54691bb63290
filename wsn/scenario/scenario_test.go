package scenario

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/lwsn/sim/timing"
)

var _ = Describe("PlanRandom", func() {
	It("should stay in range", func() {
		plan := PlanRandom(rand.New(rand.NewSource(10)), 50, 1, 6, 0, 10)

		Expect(plan).To(HaveLen(50))
		for _, o := range plan {
			Expect(o.SID).To(BeNumerically(">=", 1))
			Expect(o.SID).To(BeNumerically("<=", 6))
			Expect(o.Time).To(BeNumerically(">=", 0))
			Expect(o.Time).To(BeNumerically("<=", 10))
			Expect(o.Time).To(Equal(float64(int(o.Time))))
		}
	})

	It("should be reproducible", func() {
		a := PlanRandom(rand.New(rand.NewSource(3)), 10, 1, 6, 0, 10)
		b := PlanRandom(rand.New(rand.NewSource(3)), 10, 1, 6, 0, 10)

		Expect(a).To(Equal(b))
	})

	It("should panic on an empty range", func() {
		Expect(func() {
			PlanRandom(rand.New(rand.NewSource(1)), 1, 6, 1, 0, 10)
		}).To(Panic())
	})
})

var _ = Describe("Driver", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *timing.SerialEngine
		devs     []*MockOriginator
		driver   *Driver
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		devs = []*MockOriginator{
			NewMockOriginator(mockCtrl),
			NewMockOriginator(mockCtrl),
		}
		driver = NewDriver(engine, []Originator{devs[0], devs[1]}, 100)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should originate at the planned times", func() {
		var times []timing.VTimeInSec

		devs[1].EXPECT().
			Originate(gomock.Len(100)).
			DoAndReturn(func([]byte) bool {
				times = append(times, engine.Now())
				return true
			}).
			Times(2)
		devs[0].EXPECT().Originate(gomock.Any()).Return(false)

		driver.Schedule([]Origination{
			{Time: 4, SID: 1},
			{Time: 2, SID: 1},
			{Time: 3, SID: 0},
		})
		Expect(engine.Run()).To(Succeed())

		Expect(times).To(Equal([]timing.VTimeInSec{2, 4}))
		Expect(driver.NumStarted()).To(Equal(3))
		Expect(driver.NumRejected()).To(Equal(1))
	})

	It("should panic on unknown devices", func() {
		Expect(func() {
			driver.Schedule([]Origination{{Time: 1, SID: 5}})
		}).To(Panic())
	})
})
