package audit

import (
	"context"
	"time"

	"github.com/dshills/routesrv/internal/telemetry"
)

// Emitter adapts a SQLiteSink into a telemetry.Emitter, so the dispatcher
// can fan events out to it without knowing SQLite exists. It only records
// successful "update" events; route queries and failed updates are not
// audited.
type Emitter struct {
	sink *SQLiteSink
}

// NewEmitter wraps sink as a telemetry.Emitter.
func NewEmitter(sink *SQLiteSink) *Emitter {
	return &Emitter{sink: sink}
}

func (e *Emitter) Emit(event telemetry.Event) {
	if event.Kind != "update" || event.Reason != "" {
		return
	}
	edgeID, _ := event.Attrs["edge_id"].(int)
	speed, _ := event.Attrs["speed"].(float64)
	ema, _ := event.Attrs["ema"].(float64)
	_ = e.sink.Record(context.Background(), edgeID, speed, ema, time.Now().UnixNano())
}

func (e *Emitter) EmitBatch(_ context.Context, events []telemetry.Event) error {
	for _, ev := range events {
		e.Emit(ev)
	}
	return nil
}

// Flush is a no-op: every Record call already commits synchronously.
func (e *Emitter) Flush(_ context.Context) error { return nil }
