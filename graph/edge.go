package graph

import "github.com/dshills/routesrv/internal/traffic"

// Edge is a directed connection between two nodes, identified by a dense id
// in [0, M). Self-loops are permitted but contribute nothing to shortest
// paths under non-negative weights.
//
// BaseLength and BaseSpeedLimit are immutable after AddEdge. The embedded
// traffic.State is mutated only by internal/traffic's Apply, and only while
// the dispatcher holds the graph's write lock — see Graph.ApplyObservation.
type Edge struct {
	From, To int

	BaseLength     float64
	BaseSpeedLimit float64

	traffic.State
}
