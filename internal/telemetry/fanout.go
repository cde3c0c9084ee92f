package telemetry

import "context"

// multiEmitter fans one event out to every backend in order, one after
// another, so a slow backend delays the ones after it. A failing backend
// does not stop the others — EmitBatch/Flush return the first error
// encountered but still drive every backend.
type multiEmitter struct {
	backends []Emitter
}

// Fanout combines emitters into one Emitter that forwards every event to
// each of them.
func Fanout(emitters ...Emitter) Emitter {
	return multiEmitter{backends: emitters}
}

func (m multiEmitter) Emit(event Event) {
	for _, e := range m.backends {
		e.Emit(event)
	}
}

func (m multiEmitter) EmitBatch(ctx context.Context, events []Event) error {
	var first error
	for _, e := range m.backends {
		if err := e.EmitBatch(ctx, events); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multiEmitter) Flush(ctx context.Context) error {
	var first error
	for _, e := range m.backends {
		if err := e.Flush(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
