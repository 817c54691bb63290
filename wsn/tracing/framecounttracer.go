package tracing

import (
	"sync"

	"github.com/sarchlab/lwsn/sim/hooking"
	"github.com/sarchlab/lwsn/wsn/medium"
)

// Undecodable is the kind counted for frames without a valid relay header.
const Undecodable = "Undecodable"

// FrameCountTracer counts the frames put on the medium by relay kind.
type FrameCountTracer struct {
	lock      sync.Mutex
	kindNames []string
	count     map[string]uint64
}

// NewFrameCountTracer creates a new FrameCountTracer.
func NewFrameCountTracer() *FrameCountTracer {
	return &FrameCountTracer{
		count: make(map[string]uint64),
	}
}

// Func counts a medium send.
func (t *FrameCountTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != medium.HookPosSend {
		return
	}

	tx, ok := ctx.Item.(medium.Transmission)
	if !ok {
		return
	}

	kind := Undecodable
	if h, err := tx.Packet.PeekHeader(); err == nil {
		kind = h.Kind.String()
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.count[kind]; !ok {
		t.kindNames = append(t.kindNames, kind)
	}

	t.count[kind]++
}

// Kinds returns the kinds seen, in the order they first appeared.
func (t *FrameCountTracer) Kinds() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	return append([]string(nil), t.kindNames...)
}

// Count returns the number of frames of a kind.
func (t *FrameCountTracer) Count(kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.count[kind]
}
