package medium

import (
	"log"

	"github.com/sarchlab/lwsn/sim/naming"
	"github.com/sarchlab/lwsn/sim/timing"
)

// Builder can build mediums.
type Builder struct {
	engine timing.EventScheduler
	delay  timing.VTimeInSec
}

// MakeBuilder creates a builder with no propagation delay.
func MakeBuilder() Builder {
	return Builder{}
}

// WithEngine sets the engine that schedules deliveries.
func (b Builder) WithEngine(engine timing.EventScheduler) Builder {
	b.engine = engine
	return b
}

// WithDelay sets the propagation delay.
func (b Builder) WithDelay(delay timing.VTimeInSec) Builder {
	b.delay = delay
	return b
}

// Build creates a medium.
func (b Builder) Build(name string) *Medium {
	naming.NameMustBeValid(name)

	if b.engine == nil {
		log.Panicf("medium %s: engine is not set", name)
	}

	if b.delay < 0 {
		log.Panicf("medium %s: negative delay %v", name, b.delay)
	}

	return &Medium{
		name:   name,
		engine: b.engine,
		delay:  b.delay,
	}
}
