package device

import (
	"github.com/sarchlab/lwsn/sim/timing"
	"github.com/sarchlab/lwsn/wsn/link"
	"github.com/sarchlab/lwsn/wsn/observe"
	"github.com/sarchlab/lwsn/wsn/relay"
	"github.com/sarchlab/lwsn/wsn/slot"
)

func (d *Device) submit(j txJob) bool {
	if d.closed {
		return false
	}

	if d.sending {
		if d.pendingCooldown != nil {
			return d.enqueue(j)
		}

		d.scheduleRetry(j)

		return true
	}

	if !d.enqueue(j) {
		return false
	}

	if d.queue.Size() == 1 && d.pendingCooldown == nil {
		d.arm()
	}

	return true
}

func (d *Device) enqueue(j txJob) bool {
	if d.queue.Enqueue(j) {
		return true
	}

	d.stats.QueueDropped++
	d.recordDrop(j.pkt, observe.DropQueueFull)

	return false
}

func (d *Device) scheduleRetry(j txJob) {
	evt := &retryEvent{
		EventBase: timing.NewEventBase(d.engine.Now()+RetryInterval, d),
		job:       j,
	}
	d.pendingRetries[evt.ID()] = evt
	d.engine.Schedule(evt)
}

func (d *Device) onRetry(e *retryEvent) {
	delete(d.pendingRetries, e.ID())

	d.stats.Retried++
	d.submit(e.job)
}

// arm takes the first queued packet and schedules it for the next slot of
// the device, together with the cool-down that follows.
func (d *Device) arm() {
	j := d.queue.DequeueFront()
	now := d.engine.Now()
	delay := slot.DelayAt(now, d.sid)

	d.sending = true

	d.pendingSend = &sendEvent{
		EventBase: timing.NewEventBase(now+delay, d),
		job:       j,
	}
	d.engine.Schedule(d.pendingSend)

	cooldownAt := now + delay + d.txTime(j.pkt) + slot.Cooldown
	d.pendingCooldown = &cooldownEvent{
		EventBase: timing.NewEventBase(cooldownAt, d),
	}
	d.engine.Schedule(d.pendingCooldown)

	d.setState(Armed)
}

func (d *Device) txTime(pkt relay.Packet) timing.VTimeInSec {
	if d.dataRate <= 0 {
		return 0
	}

	return float64(pkt.Size()*8) / d.dataRate
}

func (d *Device) onSend(e *sendEvent) {
	d.pendingSend = nil
	d.setState(Sending)

	tx := d.txTime(e.job.pkt)
	if tx > 0 {
		d.pendingTxEnd = &txEndEvent{
			EventBase: timing.NewEventBase(d.engine.Now()+tx, d),
			job:       e.job,
		}
		d.engine.Schedule(d.pendingTxEnd)

		return
	}

	d.transmit(e.job)
}

func (d *Device) onTxEnd(e *txEndEvent) {
	d.pendingTxEnd = nil
	d.transmit(e.job)
}

// transmit puts the packet on the medium, to the right neighbor first and
// then to the left neighbor, always from the address of the device.
func (d *Device) transmit(j txJob) {
	d.stats.Sent++

	for _, to := range []link.Address{d.right, d.left} {
		if to.IsZero() {
			continue
		}

		d.medium.Send(j.pkt, j.protocol, to, d.address, d)
		d.stats.Frames++
	}

	d.pendingSettle = &settleEvent{
		EventBase: timing.NewEventBase(d.engine.Now()+SettleTime, d),
	}
	d.engine.Schedule(d.pendingSettle)
}

func (d *Device) onSettle(_ *settleEvent) {
	d.pendingSettle = nil
	d.sending = false
}

func (d *Device) onCooldown(_ *cooldownEvent) {
	d.pendingCooldown = nil

	if d.queue.Size() > 0 {
		d.arm()
		return
	}

	d.sending = false
	d.setState(Idle)
}
