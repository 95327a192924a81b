// Package node implements the traffic-generator/sink pair attached to every
// router's LOCAL port: spec.md §4.5's Node, grounded on
// original_source/node.h's process_send/process_receive pair.
package node

import (
	"fmt"
	"math/rand"

	"github.com/Lutercio/SimpleNoC/packet"
	"github.com/Lutercio/SimpleNoC/wire"
)

// Node is a Bernoulli traffic generator paired with an always-ready sink,
// both sharing the node's own clock (cur_t) the way process_send and
// process_receive share current_time_ in the original.
type Node struct {
	name string
	id   packet.NodeID

	meshNodes int
	rate      int // injection chance, percent, 1..100
	simTime   int

	rng *rand.Rand

	out *wire.Buffered // pushes generated packets to the router's LOCAL in-port
	in  *wire.Buffered // router's LOCAL out-port; this node drains it

	curTime int
	sent    int

	received   int
	sumLatency int
	sumHops    int

	pendingSend *packet.Packet
	willSend    bool

	quiet bool // suppress per-packet stdout lines (used by tests)
}

// Builder constructs a Node.
type Builder struct {
	meshNodes int
	rate      int
	simTime   int
	seed      int64
	quiet     bool
}

// WithMeshNodes sets N*M, the total node count, used to pick a destination
// different from this node's own id.
func (b Builder) WithMeshNodes(n int) Builder {
	b.meshNodes = n
	return b
}

// WithInjectionRate sets the percent chance [1,100] of generating a packet
// on any tick the node is eligible to send.
func (b Builder) WithInjectionRate(pct int) Builder {
	b.rate = pct
	return b
}

// WithSimTime sets T_sim: no new packet is generated once cur_t >= T_sim,
// though the node keeps draining arrivals until the mesh drains.
func (b Builder) WithSimTime(t int) Builder {
	b.simTime = t
	return b
}

// WithSeed sets this node's private PRNG seed. spec.md §9 calls for one
// math/rand stream per node rather than a single shared generator, so a run
// with a fixed master seed is reproducible independent of node iteration
// order; callers derive each node's seed from a config-level master seed
// and the node's id.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithQuiet suppresses the per-send/per-receive stdout lines, used by
// tests that only want to assert on counters.
func (b Builder) WithQuiet(quiet bool) Builder {
	b.quiet = quiet
	return b
}

// Build constructs the Node. Its router-facing wires (out, in) are not
// wired here — a mesh Builder plugs them in with Connect once the
// co-located router exists.
func (b Builder) Build(name string, id packet.NodeID) *Node {
	return &Node{
		name:      name,
		id:        id,
		meshNodes: b.meshNodes,
		rate:      b.rate,
		simTime:   b.simTime,
		rng:       rand.New(rand.NewSource(b.seed)),
		quiet:     b.quiet,
	}
}

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// ID returns the node's mesh-wide identifier.
func (n *Node) ID() packet.NodeID { return n.id }

// Connect wires this node to its co-located router's LOCAL port: out is the
// router's LOCAL input FIFO (this node pushes into it), in is the wire the
// router's LOCAL output presents arrivals on (this node drains it).
func (n *Node) Connect(out, in *wire.Buffered) {
	n.out, n.in = out, in
}

// Sent reports how many packets this node has generated so far.
func (n *Node) Sent() int { return n.sent }

// Received reports how many packets this node has accepted so far.
func (n *Node) Received() int { return n.received }

// AverageLatency returns the mean cur_t-BirthTime across received packets,
// or 0 if none have arrived yet.
func (n *Node) AverageLatency() float64 {
	if n.received == 0 {
		return 0
	}
	return float64(n.sumLatency) / float64(n.received)
}

// AverageHops returns the mean hop count across received packets, or 0 if
// none have arrived yet.
func (n *Node) AverageHops() float64 {
	if n.received == 0 {
		return 0
	}
	return float64(n.sumHops) / float64(n.received)
}

// Arbitrate is the decide pass: advance cur_t, and — gated on the LOCAL
// port's latched out_ready signal, matching spec.md §9's "LOCAL-port ready
// polling" decision — possibly draw a Bernoulli trial and stage a packet
// to send. No pushes happen here; Deliver performs them once every
// component in the fabric has finished deciding.
func (n *Node) Arbitrate() {
	n.curTime++
	n.pendingSend = nil
	n.willSend = false

	if !n.out.Ready() {
		// Router's LOCAL buffer has no room; the Bernoulli trial is not
		// consumed, so the injection process doesn't drift when the mesh
		// is congested.
		return
	}

	if n.curTime >= n.simTime {
		return
	}

	if n.rng.Intn(100) >= n.rate {
		return
	}

	dst := n.randomDestination()
	pkt := &packet.Packet{
		Src:       n.id,
		Dst:       dst,
		Kind:      packet.DATA,
		Payload:   n.rng.Intn(1000),
		BirthTime: n.curTime,
	}

	n.pendingSend = pkt
	n.willSend = true
}

// randomDestination draws uniformly from every node id except this one,
// the rejection-sampling loop original_source/node.h's generate_destination
// uses.
func (n *Node) randomDestination() packet.NodeID {
	for {
		dst := packet.NodeID(n.rng.Intn(n.meshNodes))
		if dst != n.id {
			return dst
		}
	}
}

// Deliver is the commit pass: push the packet staged by Arbitrate (if any)
// onto the router's LOCAL input, and drain whatever the router's LOCAL
// output is presenting. The sink is always ready, so draining never needs
// a latched signal — it only ever reads this node's own inbound wire.
func (n *Node) Deliver() {
	if n.willSend {
		if !n.out.Push(n.pendingSend) {
			panic(fmt.Sprintf("%s: send staged past a full LOCAL buffer", n.name))
		}
		n.sent++

		if !n.quiet {
			fmt.Printf("Node %d sending packet to %d (payload: %d) at time %d\n",
				n.id, n.pendingSend.Dst, n.pendingSend.Payload, n.curTime)
		}
	}

	pkt := n.in.Pop()
	if pkt == nil {
		return
	}

	latency := n.curTime - pkt.BirthTime
	n.received++
	n.sumLatency += latency
	n.sumHops += pkt.Hops

	if !n.quiet {
		fmt.Printf("Node %d received %s at time %d (Latency: %d, Hops: %d)\n",
			n.id, pkt, n.curTime, latency, pkt.Hops)
	}
}
