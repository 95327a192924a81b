// Package simconfig defines and validates the parameters that drive a run,
// the parsed-config struct spec.md §6 says the CLI surface is a
// collaborator responsibility around: core only ever consumes this type.
package simconfig

import (
	"fmt"

	"github.com/Lutercio/SimpleNoC/routing"
)

// Drain is the number of extra ticks run after sim_time with injection
// disabled, giving in-flight packets a chance to reach their destination
// before the run ends. spec.md §7 notes anything still in flight past this
// point is silently unaccounted, surfacing only as sent > received.
const Drain = 100

// Config is the fully-validated set of parameters a run needs.
type Config struct {
	MeshSize     int
	RoutingName  string
	InjectionPct int
	SimTime      int
	Seed         int64
	BufferDepth  int
	ChannelDelay int
}

// Default returns the spec.md §6 default configuration.
func Default() Config {
	return Config{
		MeshSize:     4,
		RoutingName:  string(routing.NameXY),
		InjectionPct: 10,
		SimTime:      1000,
		Seed:         1,
		BufferDepth:  4,
		ChannelDelay: 1,
	}
}

// Validate enforces spec.md §6's constraint table, returning the first
// violation found, named after its offending flag/field.
func (c Config) Validate() error {
	if c.MeshSize < 2 || c.MeshSize > 16 {
		return fmt.Errorf("-size: mesh size must be in [2,16], got %d", c.MeshSize)
	}
	if !routing.Valid(c.RoutingName) {
		return fmt.Errorf("-routing: unknown routing algorithm %q, want XY or WEST_FIRST", c.RoutingName)
	}
	if c.InjectionPct < 1 || c.InjectionPct > 100 {
		return fmt.Errorf("-rate: injection rate must be in [1,100], got %d", c.InjectionPct)
	}
	if c.SimTime < 100 {
		return fmt.Errorf("-time: simulation time must be >= 100, got %d", c.SimTime)
	}
	if c.BufferDepth < 1 {
		return fmt.Errorf("buffer depth must be >= 1, got %d", c.BufferDepth)
	}
	if c.ChannelDelay < 1 {
		return fmt.Errorf("channel delay must be >= 1, got %d", c.ChannelDelay)
	}
	return nil
}

// TotalTicks is sim_time plus the fixed drain period.
func (c Config) TotalTicks() int {
	return c.SimTime + Drain
}

// NodeCount is the mesh's total node count, S*S.
func (c Config) NodeCount() int {
	return c.MeshSize * c.MeshSize
}
