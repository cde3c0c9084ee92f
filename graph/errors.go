// Package graph owns the road network: nodes, edges, CSR adjacency, and the
// per-edge mutable traffic state that the dispatcher serializes access to.
package graph

import "errors"

// Construction errors. These are returned by AddEdge/SetCoordinates/Finalize
// and are fatal to the loader — the graph must not be served once any of
// these has been returned. No method in this package returns
// ErrNotFinalized.
var (
	ErrInvalidNodeID     = errors.New("graph: node id out of range")
	ErrInvalidEdgeID     = errors.New("graph: edge id out of range")
	ErrDuplicateEdge     = errors.New("graph: edge id already added")
	ErrNonPositiveLength = errors.New("graph: base length must be positive")
	ErrNonPositiveSpeed  = errors.New("graph: base speed limit must be positive")
	ErrNotFinalized      = errors.New("graph: Finalize must be called before serving")
	ErrAlreadyFinalized  = errors.New("graph: already finalized")
)

// Reason is a machine-readable outcome code for a per-command operation. It
// maps directly onto the wire protocol's ERR <reason> / ACK vocabulary.
type Reason string

// Reason values from the wire protocol (spec.md §6).
const (
	ReasonOK         Reason = ""
	ReasonBadNodes   Reason = "BAD_NODES"
	ReasonBadEdge    Reason = "BAD_EDGE"
	ReasonBadSpeed   Reason = "BAD_SPEED"
	ReasonNoRoute    Reason = "NO_ROUTE"
	ReasonRouteFail  Reason = "ROUTE_FAIL"
	ReasonNoMem      Reason = "NO_MEM"
	ReasonUnknownCmd Reason = "UNKNOWN_CMD"
	ReasonEmpty      Reason = "EMPTY"
	ReasonInternal   Reason = "INTERNAL"
	ReasonBusy       Reason = "BUSY"
)
