package audit

import (
	"context"
	"testing"

	"github.com/dshills/routesrv/internal/telemetry"
)

func TestEmitterRecordsSuccessfulUpdatesOnly(t *testing.T) {
	sink, err := NewSQLiteSink(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	e := NewEmitter(sink)
	e.Emit(telemetry.Event{Kind: "update", Reason: "", Attrs: map[string]any{"edge_id": 2, "speed": 0.5, "ema": 2.828}})
	e.Emit(telemetry.Event{Kind: "update", Reason: "BAD_SPEED", Attrs: map[string]any{"edge_id": 0, "speed": -1.0}})
	e.Emit(telemetry.Event{Kind: "route", Reason: ""})

	n, err := sink.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1 (only the successful update recorded)", n)
	}
}
