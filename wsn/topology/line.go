// Package topology wires devices into a line with a gateway at each end.
package topology

import (
	"log"

	"github.com/sarchlab/lwsn/sim/naming"
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/device"
	"github.com/sarchlab/lwsn/wsn/errormodel"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/medium"
	"github.com/sarchlab/lwsn/wsn/observe"
)

// The gateway ids of the two ends of a line.
const (
	LeftGatewayID  uint16 = 1
	RightGatewayID uint16 = 2
)

// ErrorModelFactory returns the corruption predicate of the device at the
// given index, or nil for none.
type ErrorModelFactory func(index int) errormodel.Model

// Line is a set of devices sharing one medium. Device i has sid i. Devices
// 0 and N-1 are gateways.
type Line struct {
	Name    string
	Medium  *medium.Medium
	Devices []*device.Device
}

// Device returns the device with the given sid.
func (l *Line) Device(sid int) *device.Device {
	return l.Devices[sid]
}

// Gateways returns the left and the right gateways.
func (l *Line) Gateways() (left, right *device.Device) {
	return l.Devices[0], l.Devices[len(l.Devices)-1]
}

// Sensors returns the devices that are not gateways.
func (l *Line) Sensors() []*device.Device {
	return l.Devices[1 : len(l.Devices)-1]
}

// Close tears down all the devices.
func (l *Line) Close() {
	for _, d := range l.Devices {
		d.Close()
	}
}

// LineBuilder can build lines.
type LineBuilder struct {
	engine          timing.EventScheduler
	numNodes        int
	mediumDelay     timing.VTimeInSec
	processingDelay timing.VTimeInSec
	dataRate        float64
	queueCapacity   int
	sink            observe.Sink
	errorModels     ErrorModelFactory
}

// MakeLineBuilder creates a builder for a line of 8 devices.
func MakeLineBuilder() LineBuilder {
	return LineBuilder{
		numNodes:        8,
		processingDelay: device.DefaultProcessingDelay,
		queueCapacity:   100,
		sink:            observe.Discard,
	}
}

// WithEngine sets the engine.
func (b LineBuilder) WithEngine(engine timing.EventScheduler) LineBuilder {
	b.engine = engine
	return b
}

// WithNumNodes sets the number of devices, gateways included.
func (b LineBuilder) WithNumNodes(n int) LineBuilder {
	b.numNodes = n
	return b
}

// WithMediumDelay sets the propagation delay of the medium.
func (b LineBuilder) WithMediumDelay(delay timing.VTimeInSec) LineBuilder {
	b.mediumDelay = delay
	return b
}

// WithProcessingDelay sets the processing delay of every device.
func (b LineBuilder) WithProcessingDelay(
	delay timing.VTimeInSec,
) LineBuilder {
	b.processingDelay = delay
	return b
}

// WithDataRate sets the data rate of every device in bits per second.
func (b LineBuilder) WithDataRate(bps float64) LineBuilder {
	b.dataRate = bps
	return b
}

// WithQueueCapacity sets the transmit queue capacity of every device.
func (b LineBuilder) WithQueueCapacity(n int) LineBuilder {
	b.queueCapacity = n
	return b
}

// WithSink sets where all the devices report.
func (b LineBuilder) WithSink(sink observe.Sink) LineBuilder {
	b.sink = sink
	return b
}

// WithErrorModels sets the corruption predicates of the devices.
func (b LineBuilder) WithErrorModels(f ErrorModelFactory) LineBuilder {
	b.errorModels = f
	return b
}

// Build creates the medium and the devices.
func (b LineBuilder) Build(name string) *Line {
	if b.numNodes < 2 {
		log.Panicf("line %s: need at least 2 nodes, got %d", name, b.numNodes)
	}

	if b.numNodes > 1<<16 {
		log.Panicf("line %s: too many nodes %d", name, b.numNodes)
	}

	l := &Line{
		Name: name,
		Medium: medium.MakeBuilder().
			WithEngine(b.engine).
			WithDelay(b.mediumDelay).
			Build(naming.BuildName(name, "Medium")),
	}

	addrs := b.allocateAddresses()
	for i := 0; i < b.numNodes; i++ {
		left, right := neighbors(addrs, i)

		db := device.MakeBuilder().
			WithEngine(b.engine).
			WithMedium(l.Medium).
			WithAddress(addrs[i]).
			WithNeighbors(left, right).
			WithSID(uint16(i)).
			WithGID(b.gatewayID(i)).
			WithDataRate(b.dataRate).
			WithQueueCapacity(b.queueCapacity).
			WithProcessingDelay(b.processingDelay).
			WithSink(b.sink)

		if b.errorModels != nil {
			if m := b.errorModels(i); m != nil {
				db = db.WithErrorModel(m)
			}
		}

		d := db.Build(naming.BuildNameWithIndex(name, "Node", i))
		l.Devices = append(l.Devices, d)
	}

	return l
}

func (b LineBuilder) allocateAddresses() []link.Address {
	alloc := &link.Allocator{}
	addrs := make([]link.Address, b.numNodes)

	for i := range addrs {
		addrs[i] = alloc.Allocate()
	}

	return addrs
}

func (b LineBuilder) gatewayID(i int) uint16 {
	switch i {
	case 0:
		return LeftGatewayID
	case b.numNodes - 1:
		return RightGatewayID
	default:
		return 0
	}
}

func neighbors(addrs []link.Address, i int) (left, right link.Address) {
	if i > 0 {
		left = addrs[i-1]
	}

	if i < len(addrs)-1 {
		right = addrs[i+1]
	}

	return left, right
}
