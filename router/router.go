// Package router implements the 5-port input-buffered switch at the center
// of every mesh tile: spec.md §4.4's Router, split into an Arbitrate pass
// (decide, using only state as of the end of the previous tick) and a
// Deliver pass (commit, mutating the neighbors this router forwards into).
// The split exists for exactly one reason: spec.md §5 forbids any
// intra-tick cascade, and a single combined pass would let the iteration
// order over routers leak this tick's pushes into another router's
// same-tick arbitration. original_source/router.h's process_inputs /
// process_routing split is the direct model; router.go folds the "pop from
// my own input buffer" step into Arbitrate rather than keeping a separate
// intake phase, because nothing else in this tick can observe my own
// buffer's contents before I do.
package router

import (
	"fmt"
	"os"

	"github.com/Lutercio/SimpleNoC/packet"
	"github.com/Lutercio/SimpleNoC/routing"
	"github.com/Lutercio/SimpleNoC/wire"
)

// portCount is the number of ports every router carries: NORTH, EAST,
// SOUTH, WEST, LOCAL, indexed by packet.Direction.
const portCount = 5

// Router is a single mesh tile's switch. Its own per-port input buffers
// (In) are capacity-B FIFOs that neighbors and the co-located node push
// into; its output targets (out) are the neighbor (or node, or boundary
// stub) wires it forwards onto.
type Router struct {
	name   string
	id     packet.NodeID
	x, y   int
	meshX  int
	meshY  int
	bufCap int
	policy routing.Policy

	in  [portCount]*wire.Buffered
	out [portCount]*wire.Buffered

	reserved    [portCount]bool
	outPkt      [portCount]*packet.Packet
	willDeliver [portCount]bool

	onStuck func(r *Router, at packet.Direction, pkt *packet.Packet)
}

// Builder constructs a Router, matching config.DeviceBuilder's chained-With*
// shape. An unset buffer capacity (1) and policy (XY) are filled in at
// Build time; the mesh size has no default and must be set.
type Builder struct {
	x, y         int
	meshX, meshY int
	bufCap       int
	policy       routing.Policy
	onStuck      func(r *Router, at packet.Direction, pkt *packet.Packet)
}

// WithPosition sets the router's mesh coordinate.
func (b Builder) WithPosition(x, y int) Builder {
	b.x, b.y = x, y
	return b
}

// WithMeshSize sets the mesh dimensions, needed to translate a packet's
// destination NodeID into (x, y).
func (b Builder) WithMeshSize(meshX, meshY int) Builder {
	b.meshX, b.meshY = meshX, meshY
	return b
}

// WithBufferCapacity sets B, the per-port input FIFO depth.
func (b Builder) WithBufferCapacity(cap int) Builder {
	b.bufCap = cap
	return b
}

// WithPolicy sets the routing function consulted during arbitration.
func (b Builder) WithPolicy(policy routing.Policy) Builder {
	b.policy = policy
	return b
}

// WithStuckHandler overrides the routing-dead-end diagnostic. The default
// (set at Build time if this is never called) writes a warning to stderr,
// per spec.md §7's guidance that a dead-end is reported rather than the
// simulation aborting. Whatever handler is set, Arbitrate leaves the
// offending packet at the head of its input buffer.
func (b Builder) WithStuckHandler(f func(r *Router, at packet.Direction, pkt *packet.Packet)) Builder {
	b.onStuck = f
	return b
}

// Build constructs the Router and its five input FIFOs. Output targets
// (out) are not wired here — a mesh Builder plugs them in with ConnectOut
// once every router and node in the fabric exists, the same two-step
// "create, then connect" sequence config.go's createTiles/connectTiles
// uses.
func (b Builder) Build(name string) *Router {
	if b.bufCap < 1 {
		b.bufCap = 1
	}
	if b.policy == nil {
		b.policy = routing.XY
	}

	r := &Router{
		name:   name,
		id:     packet.FromXY(b.x, b.y, b.meshX),
		x:      b.x,
		y:      b.y,
		meshX:  b.meshX,
		meshY:  b.meshY,
		bufCap: b.bufCap,
		policy: b.policy,
	}

	if b.onStuck != nil {
		r.onStuck = b.onStuck
	} else {
		r.onStuck = DefaultStuckHandler
	}

	for i := 0; i < portCount; i++ {
		portName := fmt.Sprintf("%s.%s.In", name, packet.Direction(i))
		r.in[i] = wire.NewBuffered(portName, b.bufCap)
	}

	return r
}

// DefaultStuckHandler logs a routing dead-end to stderr and otherwise
// leaves the packet at the head of its input buffer — spec.md §7 treats
// an unroutable packet as a diagnosable condition, not a crash.
func DefaultStuckHandler(r *Router, at packet.Direction, pkt *packet.Packet) {
	fmt.Fprintf(os.Stderr,
		"warning: %s has no route for %s (arrived on %s)\n",
		r.name, pkt, at)
}

// Name returns the router's name.
func (r *Router) Name() string { return r.name }

// ID returns the router's (and co-located node's) mesh-wide identifier.
func (r *Router) ID() packet.NodeID { return r.id }

// In returns the per-port input wire for dir — the FIFO a neighbor (or the
// co-located node, for LOCAL) pushes into.
func (r *Router) In(dir packet.Direction) *wire.Buffered {
	return r.in[dir]
}

// ConnectOut wires dir's output to target, the downstream wire this router
// pushes onto when it grants that direction. Unconnected directions must
// be explicitly bound to wire.Boundary by the mesh Builder — an unwired
// nil target is a construction bug, not a runtime boundary condition.
func (r *Router) ConnectOut(dir packet.Direction, target *wire.Buffered) {
	r.out[dir] = target
}

// Arbitrate is the decide pass: it reads only state as of the end of the
// previous tick (this router's own buffer contents, which nothing else has
// touched yet this tick, and every output target's latched Ready signal)
// and produces this tick's delivery plan. It never mutates anything
// outside this Router.
func (r *Router) Arbitrate() {
	for o := 0; o < portCount; o++ {
		r.willDeliver[o] = false

		if !r.reserved[o] {
			continue
		}
		// A previously granted packet is still waiting on a busy output.
		// spec.md §4.4's correction: release (and deliver) on the first
		// tick the downstream's out_ready is observed true, not before.
		if r.out[o].Ready() {
			r.willDeliver[o] = true
		}
	}

	for i := 0; i < portCount; i++ {
		dir := packet.Direction(i)
		head := r.in[i].Peek()
		if head == nil {
			continue
		}

		dx, dy := head.Dst.XY(r.meshX)
		out := r.policy(r.x, r.y, dx, dy)
		if out == packet.NONE {
			r.onStuck(r, dir, head)
			continue
		}

		o := int(out)
		if r.reserved[o] || !r.out[o].Ready() {
			// Output already held by an earlier-granted packet this tick,
			// or downstream has no room; this head stays put and is
			// re-examined next tick.
			continue
		}

		pkt := r.in[i].Pop()
		pkt.Stamp(r.id)

		r.reserved[o] = true
		r.outPkt[o] = pkt
		r.willDeliver[o] = true
	}
}

// Deliver is the commit pass: it pushes every packet Arbitrate marked
// deliverable onto its output target. Fabric runs Deliver for every router
// in the mesh only after Arbitrate has run for every router in the mesh,
// so a push performed here can never be observed by another router's
// Arbitrate this same tick.
func (r *Router) Deliver() {
	for o := 0; o < portCount; o++ {
		if !r.willDeliver[o] {
			continue
		}

		pkt := r.outPkt[o]
		if !r.out[o].Push(pkt) {
			panic(fmt.Sprintf("%s: output %s was granted but target refused the push",
				r.name, packet.Direction(o)))
		}

		r.outPkt[o] = nil
		r.reserved[o] = false
		r.willDeliver[o] = false
	}
}
