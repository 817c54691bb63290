// Package scenario injects original transmissions into a line.
package scenario

import (
	"log"
	"math/rand"

	"github.com/sarchlab/lwsn/sim/timing"
)

// An Originator can start a new packet.
type Originator interface {
	Originate(payload []byte) bool
}

// Origination is one planned original transmission.
type Origination struct {
	Time timing.VTimeInSec
	SID  int
}

// PlanRandom draws count originations. The sids are uniform in
// [minSID, maxSID] and the times are whole seconds uniform in
// [minTime, maxTime]. All the sids are drawn before all the times.
func PlanRandom(
	rng *rand.Rand,
	count int,
	minSID, maxSID int,
	minTime, maxTime int,
) []Origination {
	if count < 0 || minSID > maxSID || minTime > maxTime || minTime < 0 {
		log.Panicf("scenario: invalid plan, count %d, sid [%d, %d], time [%d, %d]",
			count, minSID, maxSID, minTime, maxTime)
	}

	plan := make([]Origination, count)

	for i := range plan {
		plan[i].SID = minSID + rng.Intn(maxSID-minSID+1)
	}

	for i := range plan {
		plan[i].Time = float64(minTime + rng.Intn(maxTime-minTime+1))
	}

	return plan
}

type originateEvent struct {
	*timing.EventBase
	origination Origination
}

// Driver schedules originations and starts them on time.
type Driver struct {
	engine      timing.EventScheduler
	originators []Originator
	payloadSize int

	numStarted  int
	numRejected int
}

// NewDriver creates a driver. Originator i is the device with sid i.
func NewDriver(
	engine timing.EventScheduler,
	originators []Originator,
	payloadSize int,
) *Driver {
	return &Driver{
		engine:      engine,
		originators: originators,
		payloadSize: payloadSize,
	}
}

// Schedule registers the originations with the engine.
func (d *Driver) Schedule(plan []Origination) {
	for _, o := range plan {
		if o.SID < 0 || o.SID >= len(d.originators) {
			log.Panicf("scenario: no device with sid %d", o.SID)
		}

		evt := &originateEvent{
			EventBase:   timing.NewEventBase(o.Time, d),
			origination: o,
		}
		d.engine.Schedule(evt)
	}
}

// Handle starts an origination.
func (d *Driver) Handle(e timing.Event) error {
	switch e := e.(type) {
	case *originateEvent:
		d.originate(e)
	default:
		log.Panicf("scenario: cannot handle event of type %T", e)
	}

	return nil
}

func (d *Driver) originate(e *originateEvent) {
	o := d.originators[e.origination.SID]

	d.numStarted++
	if !o.Originate(make([]byte, d.payloadSize)) {
		d.numRejected++
	}
}

// NumStarted returns the number of originations handed to devices.
func (d *Driver) NumStarted() int {
	return d.numStarted
}

// NumRejected returns the number of originations the devices refused.
func (d *Driver) NumRejected() int {
	return d.numRejected
}
