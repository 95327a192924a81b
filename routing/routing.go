// Package routing provides the pure, side-effect-free routing functions a
// Router consults during Arbitrate: XY (dimension-ordered) and West-First
// (turn-model, oblivious/first-match as specified).
package routing

import (
	"fmt"

	"github.com/Lutercio/SimpleNoC/packet"
)

// Policy maps a router's position and a packet's destination to the output
// direction that packet should take this tick. A Policy never mutates
// anything and never depends on congestion state; the same (cx, cy, dx, dy)
// always yields the same Direction.
type Policy func(cx, cy, dx, dy int) packet.Direction

// XY is dimension-ordered routing: resolve the X dimension first, then Y.
// It is deadlock-free on a mesh because its channel-dependency graph is
// acyclic.
func XY(cx, cy, dx, dy int) packet.Direction {
	if cx == dx && cy == dy {
		return packet.LOCAL
	}
	if cx < dx {
		return packet.EAST
	}
	if cx > dx {
		return packet.WEST
	}
	if cy < dy {
		return packet.SOUTH
	}
	if cy > dy {
		return packet.NORTH
	}
	return packet.NONE
}

// WestFirst is the turn-model policy that forces a westward turn before any
// other move, then resolves among the remaining productive directions in a
// fixed tie-break order (EAST, SOUTH, NORTH). This is the oblivious,
// non-adaptive realization of West-First described in spec.md §4.2: a true
// adaptive implementation would pick among the productive set based on
// congestion, which is explicitly out of scope here.
func WestFirst(cx, cy, dx, dy int) packet.Direction {
	if cx == dx && cy == dy {
		return packet.LOCAL
	}
	if cx > dx {
		return packet.WEST
	}
	if cx < dx {
		return packet.EAST
	}
	if cy < dy {
		return packet.SOUTH
	}
	if cy > dy {
		return packet.NORTH
	}
	return packet.NONE
}

// Name is the canonical name a Policy is registered under, as accepted by
// the CLI's -routing flag, New and Valid.
type Name string

const (
	NameXY        Name = "XY"
	NameWestFirst Name = "WEST_FIRST"
)

// New resolves a routing policy by name. Unlike the CLI path (which
// rejects an unknown name before any simulation starts, per spec.md §6/§7),
// New falls back to XY with a warning for callers that bypass CLI
// validation — the same fallback original_source/routing_algorithms.h's
// createRoutingAlgorithm performs.
func New(name string) Policy {
	switch Name(name) {
	case NameWestFirst:
		return WestFirst
	case NameXY:
		return XY
	default:
		fmt.Printf("Warning: unknown routing algorithm %q, falling back to XY\n", name)
		return XY
	}
}

// Valid reports whether name is a supported routing policy name, used by
// config validation to reject bad -routing values before simulation starts.
func Valid(name string) bool {
	switch Name(name) {
	case NameXY, NameWestFirst:
		return true
	default:
		return false
	}
}
