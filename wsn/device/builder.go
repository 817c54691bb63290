package device

import (
	"log"

	"github.com/sarchlab/lwsn/sim/naming"
	"github.com/sarchlab/lwsn/sim/queueing"
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/errormodel"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/observe"
)

// DefaultProcessingDelay is the time between a frame arriving at a device
// and the device acting on it.
const DefaultProcessingDelay = 0.9

// Builder can build devices.
type Builder struct {
	engine          timing.EventScheduler
	medium          Medium
	address         link.Address
	left            link.Address
	right           link.Address
	sid             uint16
	gid             uint16
	errorModel      errormodel.Model
	dataRate        float64
	queueCapacity   int
	processingDelay timing.VTimeInSec
	sink            observe.Sink
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		queueCapacity:   100,
		processingDelay: DefaultProcessingDelay,
		sink:            observe.Discard,
	}
}

// WithEngine sets the engine that schedules the events of the device.
func (b Builder) WithEngine(engine timing.EventScheduler) Builder {
	b.engine = engine
	return b
}

// WithMedium sets the medium that the device attaches to.
func (b Builder) WithMedium(m Medium) Builder {
	b.medium = m
	return b
}

// WithAddress sets the link address of the device.
func (b Builder) WithAddress(addr link.Address) Builder {
	b.address = addr
	return b
}

// WithNeighbors sets the addresses of the left and the right neighbors.
func (b Builder) WithNeighbors(left, right link.Address) Builder {
	b.left = left
	b.right = right

	return b
}

// WithSID sets the sequential id of the device.
func (b Builder) WithSID(sid uint16) Builder {
	b.sid = sid
	return b
}

// WithGID makes the device a gateway if gid is larger than 0.
func (b Builder) WithGID(gid uint16) Builder {
	b.gid = gid
	return b
}

// WithErrorModel sets the corruption predicate applied to received frames.
func (b Builder) WithErrorModel(m errormodel.Model) Builder {
	b.errorModel = m
	return b
}

// WithDataRate sets the data rate in bits per second. Zero means frames are
// put on the medium instantly.
func (b Builder) WithDataRate(bps float64) Builder {
	b.dataRate = bps
	return b
}

// WithQueueCapacity sets the number of packets the transmit queue can hold.
func (b Builder) WithQueueCapacity(n int) Builder {
	b.queueCapacity = n
	return b
}

// WithProcessingDelay sets the time between a frame arriving and the device
// acting on it.
func (b Builder) WithProcessingDelay(delay timing.VTimeInSec) Builder {
	b.processingDelay = delay
	return b
}

// WithSink sets where deliveries and drops are reported.
func (b Builder) WithSink(sink observe.Sink) Builder {
	b.sink = sink
	return b
}

// Build creates a device and attaches it to the medium.
func (b Builder) Build(name string) *Device {
	b.mustBeValid(name)

	d := &Device{
		name:            name,
		engine:          b.engine,
		medium:          b.medium,
		address:         b.address,
		left:            b.left,
		right:           b.right,
		sid:             b.sid,
		gid:             b.gid,
		errorModel:      b.errorModel,
		dataRate:        b.dataRate,
		processingDelay: b.processingDelay,
		sink:            b.sink,
		nextLocalID:     1,
		pendingRetries:  make(map[string]*retryEvent),
		pendingReceives: make(map[string]*receiveEvent),
	}

	buf := queueing.MakeBufferBuilder().
		WithCapacity(b.queueCapacity).
		Build(naming.BuildName(name, "TxQueue"))
	d.queue = newTxQueue(buf)

	b.medium.Attach(d)

	return d
}

func (b Builder) mustBeValid(name string) {
	naming.NameMustBeValid(name)

	if b.engine == nil {
		log.Panicf("device %s: engine is not set", name)
	}

	if b.medium == nil {
		log.Panicf("device %s: medium is not set", name)
	}

	if b.address.IsZero() || b.address.IsGroup() {
		log.Panicf("device %s: invalid address %s", name, b.address)
	}

	if b.dataRate < 0 {
		log.Panicf("device %s: negative data rate %v", name, b.dataRate)
	}

	if b.processingDelay < 0 {
		log.Panicf("device %s: negative processing delay %v",
			name, b.processingDelay)
	}

	if b.sink == nil {
		log.Panicf("device %s: sink is not set", name)
	}
}
