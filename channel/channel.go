// Package channel implements the single-slot pipeline element that models
// link latency between two mesh components, per spec.md §4.3.
//
// In the smallest deployment (the one this repository wires by default),
// routers are connected to their peer routers directly and a Channel's
// delay defaults to 1 — but the type remains a pluggable delay element any
// two wire.Buffered endpoints can be spliced between, matching
// original_source/noc.h's unused-but-retained Channel member.
package channel

import (
	"github.com/Lutercio/SimpleNoC/packet"
	"github.com/Lutercio/SimpleNoC/wire"
)

// Channel holds at most one packet in flight. A packet accepted at tick t
// leaves no earlier than tick t+Delay, and only on a tick where the
// downstream consumer is ready.
type Channel struct {
	name  string
	delay int

	busy           bool
	delayRemaining int
	slot           *packet.Packet
}

// Builder constructs a Channel. Delay defaults to 1 if never set, matching
// spec.md's "D ≥ 1" invariant and original_source/channel.h's
// transmission_delay default argument.
type Builder struct {
	delay int
}

// WithDelay sets the channel's pipeline depth D.
func (b Builder) WithDelay(d int) Builder {
	b.delay = d
	return b
}

// Build creates a Channel with the given name.
func (b Builder) Build(name string) *Channel {
	delay := b.delay
	if delay < 1 {
		delay = 1
	}
	return &Channel{name: name, delay: delay}
}

// Name returns the channel's name.
func (c *Channel) Name() string { return c.name }

// Ready reports the channel's in_ready signal for this tick: it can accept
// a new packet only while its single slot is free.
func (c *Channel) Ready() bool {
	return !c.busy
}

// Accept captures pkt into the channel's slot. The caller must have
// checked Ready() first; Accept panics otherwise, since spec.md's
// contract requires the producer to honor in_ready.
func (c *Channel) Accept(pkt *packet.Packet) {
	if c.busy {
		panic("channel: Accept called while busy, producer did not honor in_ready")
	}

	c.slot = pkt
	c.busy = true
	c.delayRemaining = c.delay
}

// Step advances the channel by one tick, implementing the four-step state
// machine of spec.md §4.3. out is the downstream wire the channel presents
// its output packet to once the pipeline delay has elapsed; Step pushes
// into it only when out.Ready() holds, exactly mirroring the Router/Node
// contract of never assuming the consumer's same-tick readiness ahead of
// time.
func (c *Channel) Step(out *wire.Buffered) {
	if !c.busy {
		return
	}

	if c.delayRemaining > 0 {
		c.delayRemaining--
		return
	}

	if !out.Ready() {
		return
	}

	if out.Push(c.slot) {
		c.slot = nil
		c.busy = false
	}
}
