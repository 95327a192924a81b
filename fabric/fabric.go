// Package fabric assembles routers, nodes, and the wires between them into
// a complete mesh, and drives its synchronous clock. It is the one
// sim.TickingComponent in this simulator — see DESIGN.md's "Architectural
// decision: engine layer" for why every router and node is a plain Go
// value rather than its own akita component wired through generic
// Port/Connection machinery.
package fabric

import (
	"fmt"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/Lutercio/SimpleNoC/node"
	"github.com/Lutercio/SimpleNoC/packet"
	"github.com/Lutercio/SimpleNoC/router"
	"github.com/Lutercio/SimpleNoC/routing"
	"github.com/Lutercio/SimpleNoC/simconfig"
	"github.com/Lutercio/SimpleNoC/stats"
	"github.com/Lutercio/SimpleNoC/wire"
)

// Fabric is a complete S x S mesh: its own Tick advances every router and
// node by exactly one cycle, following spec.md §5's two-phase barrier —
// every component decides from last tick's committed state, then every
// decision commits, with no component ever observing another's
// same-tick write.
type Fabric struct {
	*sim.TickingComponent

	meshSize int
	ticks    int
	maxTicks int

	routers [][]*router.Router
	nodes   [][]*node.Node
	wires   []*wire.Buffered
}

// Builder constructs a Fabric: every router and node, the wires between
// them, and the boundary stubs at the mesh edge. Mirrors
// config.DeviceBuilder's create-then-connect two-step sequence.
type Builder struct {
	engine  sim.Engine
	freq    sim.Freq
	monitor *monitoring.Monitor
	cfg     simconfig.Config
}

// WithEngine sets the akita engine the fabric's TickingComponent registers
// with.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the fabric's nominal clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithMonitor sets the monitor Build registers the Fabric component with.
// Routers and nodes are not registered individually.
func (b Builder) WithMonitor(monitor *monitoring.Monitor) Builder {
	b.monitor = monitor
	return b
}

// WithConfig sets the validated simulation configuration.
func (b Builder) WithConfig(cfg simconfig.Config) Builder {
	b.cfg = cfg
	return b
}

// Build constructs the mesh.
func (b Builder) Build(name string) *Fabric {
	f := &Fabric{
		meshSize: b.cfg.MeshSize,
		maxTicks: b.cfg.TotalTicks(),
	}

	f.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, f)

	policy := routing.New(b.cfg.RoutingName)

	f.createRouters(name, b.cfg, policy)
	f.createNodes(name, b.cfg)
	f.connect(b.cfg)

	// Routers and nodes are plain values, not akita components (see
	// DESIGN.md's "Architectural decision: engine layer"), so only the
	// Fabric itself — the mesh's single TickingComponent — registers with
	// the monitor.
	if b.monitor != nil {
		b.monitor.RegisterComponent(f)
	}

	return f
}

func (f *Fabric) createRouters(name string, cfg simconfig.Config, policy routing.Policy) {
	f.routers = make([][]*router.Router, cfg.MeshSize)
	for y := 0; y < cfg.MeshSize; y++ {
		f.routers[y] = make([]*router.Router, cfg.MeshSize)
		for x := 0; x < cfg.MeshSize; x++ {
			rname := routerName(name, x, y)
			f.routers[y][x] = router.Builder{}.
				WithPosition(x, y).
				WithMeshSize(cfg.MeshSize, cfg.MeshSize).
				WithBufferCapacity(cfg.BufferDepth).
				WithPolicy(policy).
				Build(rname)
		}
	}
}

func (f *Fabric) createNodes(name string, cfg simconfig.Config) {
	f.nodes = make([][]*node.Node, cfg.MeshSize)
	for y := 0; y < cfg.MeshSize; y++ {
		f.nodes[y] = make([]*node.Node, cfg.MeshSize)
		for x := 0; x < cfg.MeshSize; x++ {
			id := packet.FromXY(x, y, cfg.MeshSize)
			nname := fmt.Sprintf("%s.Node[%d][%d]", name, y, x)
			f.nodes[y][x] = node.Builder{}.
				WithMeshNodes(cfg.NodeCount()).
				WithInjectionRate(cfg.InjectionPct).
				WithSimTime(cfg.SimTime).
				WithSeed(cfg.Seed + int64(id)).
				Build(nname, id)
		}
	}
}

// connect wires every router's five ports: NORTH/SOUTH/EAST/WEST to the
// neighbor (or a wire.Boundary stub at the mesh edge), LOCAL to the
// co-located node.
func (f *Fabric) connect(cfg simconfig.Config) {
	s := cfg.MeshSize

	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			r := f.routers[y][x]

			f.bind(r, x, y, s, packet.NORTH, 0, -1, packet.SOUTH)
			f.bind(r, x, y, s, packet.EAST, 1, 0, packet.WEST)
			f.bind(r, x, y, s, packet.SOUTH, 0, 1, packet.NORTH)
			f.bind(r, x, y, s, packet.WEST, -1, 0, packet.EAST)

			// LOCAL port: router <-> co-located node. The router's LOCAL
			// output target is its node's inbound wire; the node's
			// outbound target is this same router's own LOCAL input FIFO.
			n := f.nodes[y][x]
			nodeIn := wire.NewBuffered(routerName("node-in", x, y), 1)
			r.ConnectOut(packet.LOCAL, nodeIn)
			n.Connect(r.In(packet.LOCAL), nodeIn)
			f.wires = append(f.wires, nodeIn)
		}
	}
}

// bind wires router r's port dir to its neighbor at (x+dx, y+dy), or to a
// wire.Boundary stub if that neighbor falls outside the mesh.
func (f *Fabric) bind(r *router.Router, x, y, s int, dir packet.Direction, dx, dy int, neighborDir packet.Direction) {
	nx, ny := x+dx, y+dy
	if nx < 0 || nx >= s || ny < 0 || ny >= s {
		stub := wire.Boundary(routerName("boundary", nx, ny) + "." + dir.String())
		r.ConnectOut(dir, stub)
		f.wires = append(f.wires, stub)
		return
	}

	neighbor := f.routers[ny][nx]
	r.ConnectOut(dir, neighbor.In(neighborDir))
}

func routerName(name string, x, y int) string {
	return fmt.Sprintf("%s.Router[%d][%d]", name, y, x)
}

// Tick advances the whole mesh by one cycle: latch every wire's readiness,
// let every node and router decide, then let every node and router
// deliver. It returns false once the configured tick budget (sim_time +
// drain) has been exhausted.
func (f *Fabric) Tick(now sim.VTimeInSec) (madeProgress bool) {
	if f.ticks >= f.maxTicks {
		return false
	}

	for y := 0; y < f.meshSize; y++ {
		for x := 0; x < f.meshSize; x++ {
			f.routers[y][x].In(packet.NORTH).Latch()
			f.routers[y][x].In(packet.EAST).Latch()
			f.routers[y][x].In(packet.SOUTH).Latch()
			f.routers[y][x].In(packet.WEST).Latch()
			f.routers[y][x].In(packet.LOCAL).Latch()
		}
	}
	for _, w := range f.wires {
		w.Latch()
	}

	for y := 0; y < f.meshSize; y++ {
		for x := 0; x < f.meshSize; x++ {
			f.nodes[y][x].Arbitrate()
		}
	}
	for y := 0; y < f.meshSize; y++ {
		for x := 0; x < f.meshSize; x++ {
			f.routers[y][x].Arbitrate()
		}
	}

	for y := 0; y < f.meshSize; y++ {
		for x := 0; x < f.meshSize; x++ {
			f.nodes[y][x].Deliver()
		}
	}
	for y := 0; y < f.meshSize; y++ {
		for x := 0; x < f.meshSize; x++ {
			f.routers[y][x].Deliver()
		}
	}

	f.ticks++
	return f.ticks < f.maxTicks
}

// Run drives the fabric to completion. Unlike api.Driver.Run (which hands
// control to the akita engine's own event loop), the fabric's entire
// behavior per tick is already fully determined, so Run steps it directly
// — see DESIGN.md's "Architectural decision: engine layer".
func (f *Fabric) Run() {
	for tick := 0; ; tick++ {
		if !f.Tick(sim.VTimeInSec(tick)) {
			return
		}
	}
}

// NodeStats reports every node's counters at the current point in the run,
// in row-major (y, then x) order.
func (f *Fabric) NodeStats() []stats.NodeStats {
	out := make([]stats.NodeStats, 0, f.meshSize*f.meshSize)
	for y := 0; y < f.meshSize; y++ {
		for x := 0; x < f.meshSize; x++ {
			n := f.nodes[y][x]
			out = append(out, stats.NodeStats{
				ID:             int(n.ID()),
				Sent:           n.Sent(),
				Received:       n.Received(),
				AverageLatency: n.AverageLatency(),
				AverageHops:    n.AverageHops(),
			})
		}
	}
	return out
}
