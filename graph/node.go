package graph

// Node is a point in the road network, identified by a dense id in [0, N).
// Coordinates are immutable once set; they feed the A* heuristic.
type Node struct {
	X, Y float64
}
