package device

import (
	"log"

	"github.com/sarchlab/lwsn/sim/queueing"
	"github.com/sarchlab/lwsn/wsn/relay"
)

// txJob is a packet waiting for medium access, together with the protocol
// it is sent with.
type txJob struct {
	pkt      relay.Packet
	protocol uint16
}

// txQueue is a FIFO of txJobs backed by a bounded buffer.
type txQueue struct {
	buf queueing.Buffer
}

func newTxQueue(buf queueing.Buffer) *txQueue {
	return &txQueue{buf: buf}
}

// Enqueue appends the job. It returns false if the buffer is full.
func (q *txQueue) Enqueue(j txJob) bool {
	if !q.buf.CanPush() {
		return false
	}

	q.buf.Push(j)

	return true
}

// DequeueFront removes the oldest job. The queue must not be empty.
func (q *txQueue) DequeueFront() txJob {
	if q.buf.Size() == 0 {
		log.Panicf("%s: dequeue from empty queue", q.buf.Name())
	}

	return q.buf.Pop().(txJob)
}

func (q *txQueue) Size() int {
	return q.buf.Size()
}

func (q *txQueue) Capacity() int {
	return q.buf.Capacity()
}

func (q *txQueue) Clear() {
	q.buf.Clear()
}
