// Package packet defines the message that flows through the mesh: a value
// type carrying payload plus the routing and traversal metadata the router
// and node layers need.
package packet

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes data traffic from control traffic. Only DATA is
// generated by the traffic generator today; CONTROL exists so router and
// statistics code never need to special-case a payload kind that the wire
// format cannot express.
type Kind int

const (
	DATA Kind = iota
	CONTROL
)

func (k Kind) String() string {
	if k == CONTROL {
		return "CONTROL"
	}
	return "DATA"
}

// Direction identifies a router port. LOCAL faces the attached node; NONE is
// a sentinel returned by a routing policy meaning "no valid route this
// tick" — it should never be returned for a reachable destination.
type Direction int

const (
	NORTH Direction = iota
	EAST
	SOUTH
	WEST
	LOCAL
	NONE
)

var directionNames = [...]string{"NORTH", "EAST", "SOUTH", "WEST", "LOCAL", "NONE"}

func (d Direction) String() string {
	if d >= NORTH && d <= NONE {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// NodeID identifies both a node and its co-located router by a single
// integer, row-major over the mesh: id = y*meshX + x.
type NodeID int

// XY returns the (x, y) coordinate of a node id in a mesh of the given
// width.
func (id NodeID) XY(meshX int) (x, y int) {
	return int(id) % meshX, int(id) / meshX
}

// FromXY is the inverse of XY.
func FromXY(x, y, meshX int) NodeID {
	return NodeID(y*meshX + x)
}

// Packet is the unit of traffic exchanged between nodes. It travels between
// buffers as a *Packet whose ownership moves with it; no two buffers hold
// the same packet at once, matching the arena/ownership model of the rest
// of the simulator.
type Packet struct {
	Src       NodeID
	Dst       NodeID
	Kind      Kind
	Payload   int
	BirthTime int
	Hops      int
	Path      []NodeID
}

// Stamp records a router visit: it appends the router's node id to Path and
// sets Hops to len(Path)-1, the number of links crossed so far rather than
// the number of routers visited — the first router a packet ever touches
// records zero hops, since no link has been crossed yet. Router.Arbitrate
// calls this exactly once per router, at the tick the packet is granted an
// output port and popped from its input buffer.
func (p *Packet) Stamp(at NodeID) {
	p.Path = append(p.Path, at)
	p.Hops = len(p.Path) - 1
}

// PathString renders the traversal path as "r0 -> r1 -> r2", the format the
// per-delivery log line uses.
func (p Packet) PathString() string {
	parts := make([]string, len(p.Path))
	for i, id := range p.Path {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, " -> ")
}

// String renders the packet the way the per-delivery stdout line embeds it:
// Packet[src->dst, Type: DATA, Payload: p, Hops: h, Path: r0 -> r1 -> ...]
func (p Packet) String() string {
	return fmt.Sprintf("Packet[%d->%d, Type: %s, Payload: %d, Hops: %d, Path: %s]",
		p.Src, p.Dst, p.Kind, p.Payload, p.Hops, p.PathString())
}
