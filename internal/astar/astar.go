// Package astar is the shortest-time path engine: given a read-only view of
// the graph's current weights and a (source, target) pair, it returns the
// optimal cost and path under the A* algorithm with an admissible,
// time-based heuristic.
package astar

import (
	"errors"
	"math"

	"github.com/dshills/routesrv/internal/heapindex"
)

// GraphView is the read surface the A* engine needs from the graph store.
// graph.Graph satisfies it.
type GraphView interface {
	NumNodes() int
	ValidNode(id int) bool
	Neighbors(u int) []int32
	EdgeWeight(id int32) float64
	EdgeEndpoints(id int32) (from, to int)
	Heuristic(u, v int) float64
}

// ErrInvalidNode is returned when source or target is out of range.
var ErrInvalidNode = errors.New("astar: invalid source or target node")

// Result is the outcome of a Route call. Found is false when dst is
// unreachable; Cost, Nodes and Edges are set only when Found is true. When
// Route returns a non-nil error, the Result is the zero value.
type Result struct {
	Found bool
	Cost  float64
	Nodes []int
	Edges []int32
}

// Route finds the minimum-cost path from src to dst over view's current
// weights. Non-negative weights plus an admissible heuristic guarantee that
// the first extraction of dst yields the optimum, so no node is ever
// re-opened once closed.
func Route(view GraphView, src, dst int) (Result, error) {
	if !view.ValidNode(src) || !view.ValidNode(dst) {
		return Result{}, ErrInvalidNode
	}

	n := view.NumNodes()
	if src == dst {
		return Result{Found: true, Cost: 0, Nodes: []int{src}, Edges: []int32{}}, nil
	}

	inf := math.Inf(1)
	gScore := make([]float64, n)
	parent := make([]int, n)
	parentEdge := make([]int32, n)
	for i := range gScore {
		gScore[i] = inf
		parent[i] = -1
		parentEdge[i] = -1
	}

	h := heapindex.New(n, inf)
	gScore[src] = 0
	h.DecreaseKey(src, view.Heuristic(src, dst))

	found := false
	for !h.IsEmpty() {
		u, fu := h.ExtractMin()
		if math.IsInf(fu, 1) {
			break // every remaining node is unreachable
		}
		if u == dst {
			found = true
			break
		}

		for _, eid := range view.Neighbors(u) {
			_, v := view.EdgeEndpoints(eid)
			tentative := gScore[u] + view.EdgeWeight(eid)
			if tentative < gScore[v] {
				gScore[v] = tentative
				parent[v] = u
				parentEdge[v] = eid
				if h.Contains(v) {
					h.DecreaseKey(v, tentative+view.Heuristic(v, dst))
				}
			}
		}
	}

	if !found {
		return Result{Found: false}, nil
	}

	nodes, edges := reconstructPath(src, dst, parent, parentEdge)
	return Result{Found: true, Cost: gScore[dst], Nodes: nodes, Edges: edges}, nil
}

// reconstructPath walks the parent chain from dst back to src and reverses
// it in place — iterative, so no recursion depth scales with graph size.
func reconstructPath(src, dst int, parent []int, parentEdge []int32) ([]int, []int32) {
	var nodes []int
	var edges []int32
	for v := dst; v != src; v = parent[v] {
		nodes = append(nodes, v)
		edges = append(edges, parentEdge[v])
	}
	nodes = append(nodes, src)

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	if edges == nil {
		edges = []int32{}
	}
	return nodes, edges
}
