package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LogEmitter writes one line per event to an io.Writer, either a
// human-readable key=value line or JSONL.
//
// Example text output:
//
//	[route] reason= duration_us=1200 src=3 dst=9
//	[update] reason=BAD_SPEED duration_us=15 edge_id=4 speed=-1 ema=0
//
// Attributes follow map iteration order, which is not fixed.
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter returns a LogEmitter writing to w (os.Stdout if nil).
func NewLogEmitter(w io.Writer, jsonMode bool) *LogEmitter {
	if w == nil {
		w = os.Stdout
	}
	return &LogEmitter{writer: w, jsonMode: jsonMode}
}

func (l *LogEmitter) Emit(event Event) {
	if l.jsonMode {
		l.emitJSON(event)
		return
	}
	l.emitText(event)
}

func (l *LogEmitter) emitJSON(event Event) {
	data, err := json.Marshal(struct {
		Kind       string         `json:"kind"`
		Reason     string         `json:"reason"`
		DurationUS int64          `json:"duration_us"`
		Attrs      map[string]any `json:"attrs,omitempty"`
	}{
		Kind:       event.Kind,
		Reason:     event.Reason,
		DurationUS: event.Duration.Microseconds(),
		Attrs:      event.Attrs,
	})
	if err != nil {
		fmt.Fprintf(l.writer, "{\"error\":\"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Fprintf(l.writer, "%s\n", data)
}

func (l *LogEmitter) emitText(event Event) {
	fmt.Fprintf(l.writer, "[%s] reason=%s duration_us=%d", event.Kind, event.Reason, event.Duration.Microseconds())
	for k, v := range event.Attrs {
		fmt.Fprintf(l.writer, " %s=%v", k, v)
	}
	fmt.Fprint(l.writer, "\n")
}

func (l *LogEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, e := range events {
		l.Emit(e)
	}
	return nil
}

// Flush is a no-op: LogEmitter writes synchronously with no internal
// buffer.
func (l *LogEmitter) Flush(_ context.Context) error { return nil }
