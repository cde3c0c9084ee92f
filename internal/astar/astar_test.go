package astar_test

import (
	"math"
	"testing"

	"github.com/dshills/routesrv/graph"
	"github.com/dshills/routesrv/internal/astar"
)

func newTriangle(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph(3, 3)
	_ = g.SetCoordinates(0, 0, 0)
	_ = g.SetCoordinates(1, 1, 0)
	_ = g.SetCoordinates(2, 1, 1)
	if err := g.AddEdge(0, 0, 1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(1, 1, 2, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(2, 0, 2, math.Sqrt2, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}
	return g
}

// S1 — triangle: direct edge is cheaper than the 2-hop path.
func TestRouteTriangleDirectEdgeWins(t *testing.T) {
	g := newTriangle(t)
	res, err := astar.Route(g, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("expected a route")
	}
	if math.Abs(res.Cost-math.Sqrt2) > 1e-9 {
		t.Errorf("cost = %v, want sqrt(2)", res.Cost)
	}
	if len(res.Nodes) != 2 || res.Nodes[0] != 0 || res.Nodes[1] != 2 {
		t.Errorf("nodes = %v, want [0 2]", res.Nodes)
	}
	if len(res.Edges) != 1 || res.Edges[0] != 2 {
		t.Errorf("edges = %v, want [2]", res.Edges)
	}
}

// S2 — after slowing the direct edge, the 2-hop path becomes cheaper.
func TestRouteAfterTrafficShift(t *testing.T) {
	g := newTriangle(t)
	g.Lock()
	reason, err := g.ApplyObservation(2, 0.5)
	g.Unlock()
	if err != nil || reason != graph.ReasonOK {
		t.Fatalf("ApplyObservation: reason=%v err=%v", reason, err)
	}

	res, err := astar.Route(g, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("expected a route")
	}
	if math.Abs(res.Cost-2.0) > 1e-9 {
		t.Errorf("cost = %v, want 2.0", res.Cost)
	}
	want := []int{0, 1, 2}
	if len(res.Nodes) != len(want) {
		t.Fatalf("nodes = %v, want %v", res.Nodes, want)
	}
	for i := range want {
		if res.Nodes[i] != want[i] {
			t.Fatalf("nodes = %v, want %v", res.Nodes, want)
		}
	}
}

// S3 — unreachable target yields Found == false.
func TestRouteUnreachable(t *testing.T) {
	g := graph.NewGraph(2, 1)
	_ = g.SetCoordinates(0, 0, 0)
	_ = g.SetCoordinates(1, 1, 0)
	if err := g.AddEdge(0, 0, 1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}

	res, err := astar.Route(g, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Found {
		t.Error("expected no path from 1 to 0")
	}
}

// S4 — identity: src == dst yields cost 0 and a single-node path.
func TestRouteIdentity(t *testing.T) {
	g := newTriangle(t)
	res, err := astar.Route(g, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Cost != 0 {
		t.Fatalf("identity route: found=%v cost=%v", res.Found, res.Cost)
	}
	if len(res.Nodes) != 1 || res.Nodes[0] != 1 {
		t.Errorf("nodes = %v, want [1]", res.Nodes)
	}
	if len(res.Edges) != 0 {
		t.Errorf("edges = %v, want []", res.Edges)
	}
}

func TestRouteInvalidNodes(t *testing.T) {
	g := newTriangle(t)
	if _, err := astar.Route(g, 99, 0); err != astar.ErrInvalidNode {
		t.Errorf("got %v, want ErrInvalidNode", err)
	}
}

// Property 2: A* with the graph's heuristic returns the Dijkstra optimum on
// a slightly larger graph with a mix of cheap and expensive edges; the
// expected cost is that optimum, worked out by hand below.
func TestRouteMatchesDijkstraCost(t *testing.T) {
	g := graph.NewGraph(5, 6)
	coords := [][2]float64{{0, 0}, {1, 0}, {2, 0}, {1, 1}, {2, 1}}
	for i, c := range coords {
		_ = g.SetCoordinates(i, c[0], c[1])
	}
	type e struct {
		id, from, to   int
		length, speed float64
	}
	edges := []e{
		{0, 0, 1, 1, 1},
		{1, 1, 2, 1, 1},
		{2, 0, 3, 5, 1},
		{3, 3, 4, 5, 1},
		{4, 4, 2, 0.1, 1},
		{5, 1, 3, 0.5, 1},
	}
	for _, e := range edges {
		if err := g.AddEdge(e.id, e.from, e.to, e.length, e.speed); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}

	res, err := astar.Route(g, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("expected a route")
	}
	// 0->1->2 costs 2; 0->1->3->4->2 costs 1+0.5+5+0.1=6.6; min is 2.
	if math.Abs(res.Cost-2.0) > 1e-9 {
		t.Errorf("cost = %v, want 2.0 (shortest of the two candidate paths)", res.Cost)
	}
}

// Sum of edge weights along the returned path equals the reported cost.
func TestRouteCostMatchesPathSum(t *testing.T) {
	g := newTriangle(t)
	g.Lock()
	_, _ = g.ApplyObservation(2, 0.5)
	g.Unlock()

	res, err := astar.Route(g, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, eid := range res.Edges {
		sum += g.EdgeWeight(eid)
	}
	if math.Abs(sum-res.Cost) > 1e-9 {
		t.Errorf("sum of edge weights = %v, reported cost = %v", sum, res.Cost)
	}
}
