package dispatch

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/dshills/routesrv/graph"
)

func newTriangle(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph(3, 3)
	_ = g.SetCoordinates(0, 0, 0)
	_ = g.SetCoordinates(1, 1, 0)
	_ = g.SetCoordinates(2, 1, 1)
	if err := g.AddEdge(0, 0, 1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(1, 1, 2, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(2, 0, 2, math.Sqrt2, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}
	return g
}

func newTestDispatcher(t *testing.T, g *graph.Graph) *Dispatcher {
	t.Helper()
	d := New(g, Options{RouteWorkers: 2, TrafficWorkers: 1})
	d.Start()
	t.Cleanup(d.Stop)
	return d
}

// S1 — triangle, direct edge wins.
func TestDispatcherS1Triangle(t *testing.T) {
	d := newTestDispatcher(t, newTriangle(t))
	resp, ok := d.SubmitRoute(0, 2)
	if !ok {
		t.Fatal("route rejected")
	}
	if resp != "ROUTE2 1.414 2 0 2 1 2" {
		t.Errorf("resp = %q, want %q", resp, "ROUTE2 1.414 2 0 2 1 2")
	}
}

// S2 — traffic shift makes the 2-hop path cheaper.
func TestDispatcherS2TrafficShift(t *testing.T) {
	d := newTestDispatcher(t, newTriangle(t))

	resp, ok := d.SubmitTraffic(2, 0.5)
	if !ok || resp != "ACK" {
		t.Fatalf("UPD resp = %q ok=%v, want ACK", resp, ok)
	}

	resp, ok = d.SubmitRoute(0, 2)
	if !ok {
		t.Fatal("route rejected")
	}
	want := "ROUTE2 2.000 3 0 1 2 2 0 1"
	if resp != want {
		t.Errorf("resp = %q, want %q", resp, want)
	}
}

// S3 — unreachable target.
func TestDispatcherS3Unreachable(t *testing.T) {
	g := graph.NewGraph(2, 1)
	_ = g.SetCoordinates(0, 0, 0)
	_ = g.SetCoordinates(1, 1, 0)
	if err := g.AddEdge(0, 0, 1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}
	d := newTestDispatcher(t, g)

	resp, ok := d.SubmitRoute(1, 0)
	if !ok {
		t.Fatal("route rejected")
	}
	if resp != "ERR NO_ROUTE" {
		t.Errorf("resp = %q, want ERR NO_ROUTE", resp)
	}
}

// S4 — identity route.
func TestDispatcherS4Identity(t *testing.T) {
	d := newTestDispatcher(t, newTriangle(t))
	resp, ok := d.SubmitRoute(1, 1)
	if !ok {
		t.Fatal("route rejected")
	}
	if resp != "ROUTE2 0.000 1 1 0" {
		t.Errorf("resp = %q, want %q", resp, "ROUTE2 0.000 1 1 0")
	}
}

// S5 — bad input across both queues; connection semantics live in conn.go,
// here we check the dispatcher-level reason codes it relies on.
func TestDispatcherS5BadInput(t *testing.T) {
	d := newTestDispatcher(t, newTriangle(t))

	if resp, ok := d.SubmitRoute(999, 0); !ok || resp != "ERR BAD_NODES" {
		t.Errorf("bad nodes: resp=%q ok=%v", resp, ok)
	}
	if resp, ok := d.SubmitTraffic(0, -1); !ok || resp != "ERR BAD_SPEED" {
		t.Errorf("bad speed: resp=%q ok=%v", resp, ok)
	}
}

// S6 — concurrent readers observe a consistent snapshot: while many
// routing queries run concurrently, an UPD must not corrupt any in-flight
// REQ's result; every REQ must report a cost consistent with *some* point
// in the interleaving (here, checked as "either the pre- or post-update
// cost", since the exact serialization point is scheduler-dependent).
func TestDispatcherS6ConcurrentReadersAndWriter(t *testing.T) {
	d := newTestDispatcher(t, newTriangle(t))

	const n = 50
	var wg sync.WaitGroup
	results := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, ok := d.SubmitRoute(0, 2)
			if !ok {
				t.Errorf("route %d rejected", i)
				return
			}
			results[i] = resp
		}(i)
	}

	time.Sleep(time.Millisecond)
	if resp, ok := d.SubmitTraffic(2, 0.5); !ok || resp != "ACK" {
		t.Errorf("UPD resp=%q ok=%v", resp, ok)
	}
	wg.Wait()

	before := "ROUTE2 1.414 2 0 2 1 2"
	after := "ROUTE2 2.000 3 0 1 2 2 0 1"
	for i, r := range results {
		if r != before && r != after {
			t.Errorf("result %d = %q, want either pre- or post-update snapshot", i, r)
		}
	}
}

// Property 4: repeating REQ with no intervening UPD is idempotent.
func TestDispatcherRepeatedRouteIsIdempotent(t *testing.T) {
	d := newTestDispatcher(t, newTriangle(t))
	first, _ := d.SubmitRoute(0, 2)
	second, _ := d.SubmitRoute(0, 2)
	if first != second {
		t.Errorf("responses differ: %q vs %q", first, second)
	}
}

func TestDispatcherQueueFullReturnsBusy(t *testing.T) {
	g := newTriangle(t)
	d := New(g, Options{RouteWorkers: 0, TrafficWorkers: 1, RouteQueueCap: 1})
	defer d.Stop()

	// Start is not called, so no routing worker drains the queue (a
	// RouteWorkers of 0 would fall back to the default pool size): the first
	// submission occupies the queue slot and a concurrent second submission
	// must be rejected.
	go d.SubmitRoute(0, 2)
	time.Sleep(10 * time.Millisecond)
	if _, ok := d.SubmitRoute(0, 2); ok {
		t.Error("expected the queue to be full and the submission rejected")
	}
}
