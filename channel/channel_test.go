package channel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Lutercio/SimpleNoC/channel"
	"github.com/Lutercio/SimpleNoC/packet"
	"github.com/Lutercio/SimpleNoC/wire"
)

var _ = Describe("Channel", func() {
	It("defaults to a delay of 1 when never set", func() {
		c := channel.Builder{}.Build("c")
		Expect(c.Ready()).To(BeTrue())

		out := wire.NewBuffered("out", 1)
		out.Latch()

		c.Accept(&packet.Packet{})
		c.Step(out) // delayRemaining: 1 -> 0
		Expect(out.Len()).To(Equal(0))

		c.Step(out) // delay elapsed, pushes now
		Expect(out.Len()).To(Equal(1))
	})

	It("holds a packet for exactly Delay ticks before it becomes visible downstream", func() {
		c := channel.Builder{}.WithDelay(2).Build("c")
		out := wire.NewBuffered("out", 1)
		out.Latch()

		pkt := &packet.Packet{Payload: 7}
		c.Accept(pkt)
		Expect(c.Ready()).To(BeFalse())

		c.Step(out) // delayRemaining: 2 -> 1
		Expect(out.Len()).To(Equal(0))

		c.Step(out) // delayRemaining: 1 -> 0
		Expect(out.Len()).To(Equal(0))

		c.Step(out) // delay elapsed, pushes now
		Expect(out.Len()).To(Equal(1))
		Expect(c.Ready()).To(BeTrue())
	})

	It("does not release its slot until the downstream wire is ready", func() {
		c := channel.Builder{}.WithDelay(1).Build("c")
		out := wire.NewBuffered("out", 0) // never ready
		out.Latch()

		c.Accept(&packet.Packet{})
		c.Step(out)
		c.Step(out)

		Expect(c.Ready()).To(BeFalse(), "slot stays occupied while out refuses the push")
	})

	It("panics if Accept is called while busy", func() {
		c := channel.Builder{}.Build("c")
		c.Accept(&packet.Packet{})
		Expect(func() { c.Accept(&packet.Packet{}) }).To(Panic())
	})
})
