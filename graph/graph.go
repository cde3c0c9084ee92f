package graph

import (
	"math"
	"sync"

	"github.com/dshills/routesrv/internal/traffic"
)

// Graph owns every node, edge, and adjacency list for the process lifetime.
// It embeds a sync.RWMutex: the dispatcher takes RLock for routing tasks and
// Lock for traffic tasks, holding it for the task's entire execution so that
// every reader observes one consistent snapshot and no reader ever observes
// a half-applied traffic update. Graph itself never locks internally —
// callers are expected to hold the appropriate lock before calling any
// method below (see internal/dispatch).
type Graph struct {
	sync.RWMutex

	nodes []Node
	edges []Edge

	// offsets/edgeIDs form the CSR adjacency: node u's outbound edge ids are
	// edgeIDs[offsets[u]:offsets[u+1]]. Populated by Finalize; nil before.
	offsets []int32
	edgeIDs []int32

	// pending holds the append-only builder lists used before Finalize.
	pending [][]int32
	added   []bool // added[e] true once AddEdge(e, ...) has been called

	maxSpeed  float64
	finalized bool
}

// NewGraph allocates a graph with n nodes (zero coordinates, empty
// adjacency) and m edge slots left unset until AddEdge fills them.
func NewGraph(n, m int) *Graph {
	g := &Graph{
		nodes:   make([]Node, n),
		edges:   make([]Edge, m),
		pending: make([][]int32, n),
		added:   make([]bool, m),
	}
	return g
}

// NumNodes returns N.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns M.
func (g *Graph) NumEdges() int { return len(g.edges) }

// SetCoordinates is idempotent and order-independent.
func (g *Graph) SetCoordinates(id int, x, y float64) error {
	if id < 0 || id >= len(g.nodes) {
		return ErrInvalidNodeID
	}
	g.nodes[id].X = x
	g.nodes[id].Y = y
	return nil
}

// Coordinate returns node id's (x, y).
func (g *Graph) Coordinate(id int) (x, y float64) {
	n := g.nodes[id]
	return n.X, n.Y
}

// AddEdge fills edge slot id and appends it to from's adjacency builder.
// Each id may be added at most once; a second call returns ErrDuplicateEdge.
func (g *Graph) AddEdge(id, from, to int, length, speed float64) error {
	if g.finalized {
		return ErrAlreadyFinalized
	}
	if id < 0 || id >= len(g.edges) {
		return ErrInvalidEdgeID
	}
	if from < 0 || from >= len(g.nodes) || to < 0 || to >= len(g.nodes) {
		return ErrInvalidNodeID
	}
	if g.added[id] {
		return ErrDuplicateEdge
	}
	if length <= 0 {
		return ErrNonPositiveLength
	}
	if speed <= 0 {
		return ErrNonPositiveSpeed
	}

	travel := length / speed
	g.edges[id] = Edge{
		From:           from,
		To:             to,
		BaseLength:     length,
		BaseSpeedLimit: speed,
		State: traffic.State{
			EMATravelTime:     travel,
			CurrentTravelTime: travel,
		},
	}
	g.added[id] = true
	g.pending[from] = append(g.pending[from], int32(id))

	if speed > g.maxSpeed {
		g.maxSpeed = speed
	}
	return nil
}

// Finalize compacts the append-only adjacency builders into CSR offsets and
// a flat edge-id array, and fixes MaxSpeed once so Heuristic never
// recomputes it per call (spec.md §9, Open Question: "computing max_speed
// inside every call to heuristic... makes A* quadratic"). The graph must not
// be mutated (beyond ApplyObservation) after Finalize.
func (g *Graph) Finalize() error {
	if g.finalized {
		return ErrAlreadyFinalized
	}

	offsets := make([]int32, len(g.nodes)+1)
	for u := range g.nodes {
		offsets[u+1] = offsets[u] + int32(len(g.pending[u]))
	}
	edgeIDs := make([]int32, offsets[len(g.nodes)])
	for u := range g.nodes {
		copy(edgeIDs[offsets[u]:offsets[u+1]], g.pending[u])
	}

	g.offsets = offsets
	g.edgeIDs = edgeIDs
	g.pending = nil
	g.finalized = true
	return nil
}

// Neighbors returns the outbound edge ids of node u, in CSR (insertion)
// order. The slice is read-only and safe for concurrent readers once
// Finalize has run.
func (g *Graph) Neighbors(u int) []int32 {
	return g.edgeIDs[g.offsets[u]:g.offsets[u+1]]
}

// EdgeWeight returns edge id's current travel time.
func (g *Graph) EdgeWeight(id int32) float64 {
	return g.edges[id].CurrentTravelTime
}

// EdgeEndpoints returns edge id's (from, to) node ids.
func (g *Graph) EdgeEndpoints(id int32) (from, to int) {
	e := g.edges[id]
	return e.From, e.To
}

// MaxSpeed is the maximum BaseSpeedLimit over all edges, fixed at
// construction. It is 0 if the graph has no edges.
func (g *Graph) MaxSpeed() float64 { return g.maxSpeed }

// Heuristic is a time-based admissible lower bound on the remaining travel
// time from u to v: straight-line distance divided by MaxSpeed. It falls
// back to plain distance when the graph has no edges.
func (g *Graph) Heuristic(u, v int) float64 {
	ux, uy := g.nodes[u].X, g.nodes[u].Y
	vx, vy := g.nodes[v].X, g.nodes[v].Y
	dx, dy := ux-vx, uy-vy
	dist := math.Sqrt(dx*dx + dy*dy)
	if g.maxSpeed <= 0 {
		return dist
	}
	return dist / g.maxSpeed
}

// ValidNode reports whether id is a valid node id.
func (g *Graph) ValidNode(id int) bool { return id >= 0 && id < len(g.nodes) }

// ValidEdge reports whether id is a valid edge id.
func (g *Graph) ValidEdge(id int) bool { return id >= 0 && id < len(g.edges) }

// ApplyObservation fuses a speed observation into edge id's exponential
// moving average and publishes it as the active weight. It is the only
// mutating graph operation after construction; the caller must already hold
// the graph's write lock for the duration of the call (see
// internal/dispatch's traffic worker).
func (g *Graph) ApplyObservation(edgeID int, speed float64) (Reason, error) {
	if !g.ValidEdge(edgeID) {
		return ReasonBadEdge, nil
	}

	e := &g.edges[edgeID]
	if err := traffic.Apply(&e.State, e.BaseLength, speed); err != nil {
		return ReasonBadSpeed, nil
	}
	return ReasonOK, nil
}
