package telemetry

import "time"

// Event is one completed dispatcher task: a REQ or UPD command along with
// its outcome and timing. Emitted exactly once per task, after the graph
// lock for that task has already been released.
type Event struct {
	// Kind is "route" or "update".
	Kind string

	// Reason is the wire-protocol reason code ("" on success).
	Reason string

	// Duration runs from just before the worker takes the graph lock until
	// it releases it, so it includes any wait for the lock.
	Duration time.Duration

	// Attrs carries command-specific fields (src/dst for route, edge_id/speed
	// for update).
	Attrs map[string]any
}
