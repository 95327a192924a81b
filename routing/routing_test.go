package routing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Lutercio/SimpleNoC/packet"
	"github.com/Lutercio/SimpleNoC/routing"
)

var _ = Describe("XY", func() {
	It("returns LOCAL when current and destination coincide", func() {
		Expect(routing.XY(1, 1, 1, 1)).To(Equal(packet.LOCAL))
	})

	It("resolves the X dimension before Y", func() {
		Expect(routing.XY(0, 0, 2, 3)).To(Equal(packet.EAST))
		Expect(routing.XY(2, 0, 0, 3)).To(Equal(packet.WEST))
	})

	It("resolves Y once X is aligned", func() {
		Expect(routing.XY(1, 0, 1, 3)).To(Equal(packet.SOUTH))
		Expect(routing.XY(1, 3, 1, 0)).To(Equal(packet.NORTH))
	})
})

var _ = Describe("WestFirst", func() {
	It("forces a westward move before anything else", func() {
		Expect(routing.WestFirst(3, 3, 0, 0)).To(Equal(packet.WEST))
	})

	It("picks EAST, then SOUTH, then NORTH when not moving west", func() {
		Expect(routing.WestFirst(0, 0, 3, 0)).To(Equal(packet.EAST))
		Expect(routing.WestFirst(0, 0, 0, 3)).To(Equal(packet.SOUTH))
		Expect(routing.WestFirst(0, 3, 0, 0)).To(Equal(packet.NORTH))
	})

	It("returns LOCAL at the destination", func() {
		Expect(routing.WestFirst(2, 2, 2, 2)).To(Equal(packet.LOCAL))
	})
})

var _ = Describe("New", func() {
	It("resolves known names", func() {
		Expect(routing.New("XY")(0, 0, 1, 1)).To(Equal(packet.EAST))
		Expect(routing.New("WEST_FIRST")(3, 0, 0, 0)).To(Equal(packet.WEST))
	})

	It("falls back to XY for an unknown name", func() {
		Expect(routing.New("BOGUS")(0, 0, 1, 0)).To(Equal(packet.EAST))
	})
})

var _ = Describe("Valid", func() {
	It("accepts only the supported names", func() {
		Expect(routing.Valid("XY")).To(BeTrue())
		Expect(routing.Valid("WEST_FIRST")).To(BeTrue())
		Expect(routing.Valid("DIAGONAL")).To(BeFalse())
	})
})

// walk repeatedly applies policy from (cx, cy) until it reaches (dx, dy),
// returning the number of moves taken — the hop count a packet would
// accumulate following this policy end to end.
func walk(policy routing.Policy, cx, cy, dx, dy int) int {
	x, y := cx, cy
	steps := 0
	for {
		dir := policy(x, y, dx, dy)
		switch dir {
		case packet.LOCAL:
			return steps
		case packet.NORTH:
			y--
		case packet.EAST:
			x++
		case packet.SOUTH:
			y++
		case packet.WEST:
			x--
		default:
			panic("walk: policy produced no route before reaching the destination")
		}
		steps++
	}
}

func manhattan(cx, cy, dx, dy int) int {
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	return abs(cx-dx) + abs(cy-dy)
}

var _ = Describe("Manhattan distance (testable property 3)", func() {
	cases := [][4]int{
		{0, 0, 3, 3}, {3, 3, 0, 0}, {0, 3, 3, 0}, {2, 1, 2, 1 + 2},
		{1, 1, 1, 1}, {0, 0, 0, 3}, {0, 0, 3, 0},
	}

	It("XY always takes exactly the Manhattan-distance number of hops", func() {
		for _, c := range cases {
			cx, cy, dx, dy := c[0], c[1], c[2], c[3]
			got := walk(routing.XY, cx, cy, dx, dy)
			want := manhattan(cx, cy, dx, dy)
			Expect(got).To(Equal(want), "XY from (%d,%d) to (%d,%d)", cx, cy, dx, dy)
		}
	})

	It("WestFirst never takes fewer hops than the Manhattan lower bound", func() {
		for _, c := range cases {
			cx, cy, dx, dy := c[0], c[1], c[2], c[3]
			got := walk(routing.WestFirst, cx, cy, dx, dy)
			Expect(got).To(BeNumerically(">=", manhattan(cx, cy, dx, dy)))
		}
	})
})
