package telemetry

import "context"

// NullEmitter discards every event. It is the default when no telemetry
// backend is configured.
type NullEmitter struct{}

// Null returns a NullEmitter; safe for concurrent use, zero overhead.
func Null() *NullEmitter { return &NullEmitter{} }

func (NullEmitter) Emit(Event)                                {}
func (NullEmitter) EmitBatch(context.Context, []Event) error  { return nil }
func (NullEmitter) Flush(context.Context) error               { return nil }
