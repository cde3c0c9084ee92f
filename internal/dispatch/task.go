// Package dispatch is the per-connection protocol loop and the two worker
// pools that execute REQ and UPD commands against a shared graph: a FIFO
// queue and fixed goroutine pool per command family.
package dispatch

import "github.com/dshills/routesrv/graph"

// Kind distinguishes the two command families, each bound to its own queue
// and worker pool.
type Kind int

const (
	KindRoute Kind = iota
	KindTraffic
)

// Task is one parsed client command in flight. A task is pushed onto
// exactly one queue, executed by exactly one worker, and completed exactly
// once — completion closes done, which the owning connection goroutine is
// blocked on, preserving strict per-connection ordering.
type Task struct {
	Kind Kind

	// REQ payload.
	Src, Dst int

	// UPD payload.
	EdgeID int
	Speed  float64

	Response string
	Reason   graph.Reason
	done     chan struct{}
}

func newTask(kind Kind) *Task {
	return &Task{Kind: kind, done: make(chan struct{})}
}

// Wait blocks until the task has been executed by a worker.
func (t *Task) Wait() {
	<-t.done
}

// complete publishes resp/reason and wakes the waiting connection goroutine.
// Called exactly once, by the worker that dequeued t.
func (t *Task) complete(resp string, reason graph.Reason) {
	t.Response = resp
	t.Reason = reason
	close(t.done)
}
