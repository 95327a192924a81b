// Package wire provides the buffered, hook-instrumented FIFO that stands in
// for a physical wire between two components. It is the concrete substrate
// the valid/ready handshake in spec.md §4.1 is built on: a packet sitting in
// a Buffered's queue is "valid" to its consumer, and Ready reports
// "ready" to its producer.
package wire

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/Lutercio/SimpleNoC/packet"
)

// HookPosAccept marks the tick a packet is pushed into a Buffered (the
// producer's side observed "ready" and committed a send).
var HookPosAccept = &sim.HookPos{Name: "Wire Accept"}

// HookPosDrain marks the tick a packet is popped out of a Buffered (the
// consumer accepted it).
var HookPosDrain = &sim.HookPos{Name: "Wire Drain"}

// Buffered is a single named FIFO of capacity N, backed by akita's
// sim.Buffer the same way core/port.go backs defaultPort's incoming and
// outgoing queues. It carries no identity beyond the queue itself: which
// wire it represents (e.g. "Router[1][2].North.In") is baked into Name at
// construction.
type Buffered struct {
	sim.HookableBase

	name       string
	buf        sim.Buffer
	readyLatch bool
}

// NewBuffered creates a Buffered FIFO with the given capacity. A capacity
// of 0 creates a permanently-not-ready, permanently-empty stub — the
// mesh-boundary terminator spec.md §3/§4.4 describes.
func NewBuffered(name string, capacity int) *Buffered {
	return &Buffered{
		name: name,
		buf:  sim.NewBuffer(name, capacity),
	}
}

// Name returns the wire's name.
func (b *Buffered) Name() string { return b.name }

// Latch freezes this tick's ready signal from the buffer's current
// occupancy. spec.md §5 forbids any intra-tick cascade: every producer that
// consults a downstream wire's readiness during a tick must see the same
// value regardless of what component iteration order mutates that wire's
// contents later in the same tick. Fabric calls Latch on every Buffered
// exactly once, before any component runs, so Ready always answers "was
// there room as of the end of the previous tick" rather than a live read.
func (b *Buffered) Latch() {
	b.readyLatch = b.buf.CanPush()
}

// Ready reports the latched "room for one more packet" signal — the
// consumer-driven "ready" signal of the valid/ready contract, frozen for
// the duration of the current tick by the last call to Latch.
func (b *Buffered) Ready() bool {
	return b.readyLatch
}

// Push attempts to place pkt on the wire. It returns false without
// mutating anything if the FIFO is full right now; it checks the live
// occupancy, not the latched Ready signal.
func (b *Buffered) Push(pkt *packet.Packet) bool {
	if !b.buf.CanPush() {
		return false
	}

	b.buf.Push(pkt)
	b.InvokeHook(sim.HookCtx{Domain: b, Pos: HookPosAccept, Item: pkt})

	return true
}

// Peek returns the head-of-line packet without removing it, or nil if the
// wire currently carries no valid packet.
func (b *Buffered) Peek() *packet.Packet {
	item := b.buf.Peek()
	if item == nil {
		return nil
	}
	return item.(*packet.Packet)
}

// Pop removes and returns the head-of-line packet, or nil if empty.
func (b *Buffered) Pop() *packet.Packet {
	item := b.buf.Pop()
	if item == nil {
		return nil
	}

	pkt := item.(*packet.Packet)
	b.InvokeHook(sim.HookCtx{Domain: b, Pos: HookPosDrain, Item: pkt})

	return pkt
}

// Len reports the number of packets currently queued.
func (b *Buffered) Len() int { return b.buf.Size() }

// Cap reports the FIFO's capacity.
func (b *Buffered) Cap() int { return b.buf.Capacity() }

// Boundary is the stub a mesh-edge router port binds to when it has no
// neighbor: it never accepts a push (Ready() == false, same as a
// zero-capacity Buffered) and never yields a packet (Peek()/Pop() == nil),
// matching spec.md §3's "permanently not-ready and never assert valid".
func Boundary(name string) *Buffered {
	return NewBuffered(name, 0)
}
