// Package tracing provides hooks that measure how the nodes of a line use
// the medium.
package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/lwsn/sim/hooking"
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/device"
)

type named interface {
	Name() string
}

// BusyTimeTracer accumulates, per device, the time spent outside the Idle
// state. A device is busy from the moment it arms a packet until its last
// cool-down expires with an empty queue.
type BusyTimeTracer struct {
	timeTeller timing.TimeTeller
	lock       sync.Mutex
	busySince  map[string]float64
	busyTime   map[string]float64
}

// NewBusyTimeTracer creates a new BusyTimeTracer.
func NewBusyTimeTracer(timeTeller timing.TimeTeller) *BusyTimeTracer {
	return &BusyTimeTracer{
		timeTeller: timeTeller,
		busySince:  make(map[string]float64),
		busyTime:   make(map[string]float64),
	}
}

// Func records the state changes of devices.
func (t *BusyTimeTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != device.HookPosStateChange {
		return
	}

	domain, ok := ctx.Domain.(named)
	if !ok {
		return
	}

	to, _ := ctx.Item.(device.State)
	from, _ := ctx.Detail.(device.State)

	switch {
	case from == device.Idle && to != device.Idle:
		t.startBusy(domain.Name())
	case from != device.Idle && to == device.Idle:
		t.endBusy(domain.Name())
	}
}

func (t *BusyTimeTracer) startBusy(name string) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.busyTime[name]; !ok {
		t.busyTime[name] = 0
	}

	t.busySince[name] = t.timeTeller.Now()
}

func (t *BusyTimeTracer) endBusy(name string) {
	t.lock.Lock()
	defer t.lock.Unlock()

	since, ok := t.busySince[name]
	if !ok {
		return
	}

	t.busyTime[name] += t.timeTeller.Now() - since
	delete(t.busySince, name)
}

// TerminateAll ends the busy periods that are still open at the current
// time.
func (t *BusyTimeTracer) TerminateAll() {
	t.lock.Lock()
	defer t.lock.Unlock()

	now := t.timeTeller.Now()

	for name, since := range t.busySince {
		t.busyTime[name] += now - since
		delete(t.busySince, name)
	}
}

// BusyTime returns the completed busy time of a device.
func (t *BusyTimeTracer) BusyTime(name string) float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.busyTime[name]
}

// Names returns the devices that have been busy, sorted by name.
func (t *BusyTimeTracer) Names() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, 0, len(t.busyTime))
	for name := range t.busyTime {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Busiest returns the device with the longest busy time. It returns false
// if no device has been busy.
func (t *BusyTimeTracer) Busiest() (string, float64, bool) {
	names := t.Names()
	if len(names) == 0 {
		return "", 0, false
	}

	best := names[0]
	for _, name := range names[1:] {
		if t.BusyTime(name) > t.BusyTime(best) {
			best = name
		}
	}

	return best, t.BusyTime(best), true
}
