// Package telemetry turns completed dispatcher tasks into observability
// events, with a log backend and an OpenTelemetry span backend sharing
// one Emit/EmitBatch/Flush shape.
package telemetry

import "context"

// Emitter receives task-completion events. The dispatcher calls Emit
// synchronously on the worker that produced the event, after the graph lock
// is released and before the task's reply is handed back, so time spent in
// Emit delays that reply. LogEmitter and the audit emitter write
// synchronously, with no buffering of their own.
type Emitter interface {
	Emit(event Event)
	EmitBatch(ctx context.Context, events []Event) error
	Flush(ctx context.Context) error
}
