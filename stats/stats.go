// Package stats rolls up per-node counters into the network-wide summary
// spec.md §4.7 describes, grounded on original_source/noc.h's
// print_statistics weighted-mean computation.
package stats

// NodeStats is a snapshot of one node's counters at the end of a run.
type NodeStats struct {
	ID             int
	Sent           int
	Received       int
	AverageLatency float64
	AverageHops    float64
}

// Network is the mesh-wide roll-up: total traffic plus the network mean
// latency and hop count, each weighted by the number of packets each node
// received (not a plain average of per-node averages, which would
// over-weight low-traffic nodes).
type Network struct {
	TotalSent      int
	TotalReceived  int
	AverageLatency float64
	AverageHops    float64
}

// Rollup aggregates per-node statistics into a Network summary. A mesh
// that delivered zero packets reports zero for both averages rather than
// dividing by zero, matching every AverageLatency/AverageHops method in
// this codebase.
func Rollup(nodes []NodeStats) Network {
	var net Network

	var latencySum, hopsSum float64
	for _, n := range nodes {
		net.TotalSent += n.Sent
		net.TotalReceived += n.Received
		latencySum += n.AverageLatency * float64(n.Received)
		hopsSum += n.AverageHops * float64(n.Received)
	}

	if net.TotalReceived > 0 {
		net.AverageLatency = latencySum / float64(net.TotalReceived)
		net.AverageHops = hopsSum / float64(net.TotalReceived)
	}

	return net
}
