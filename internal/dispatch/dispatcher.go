package dispatch

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dshills/routesrv/graph"
	"github.com/dshills/routesrv/internal/astar"
	"github.com/dshills/routesrv/internal/telemetry"
)

// Metrics is the subset of internal/metrics that the dispatcher drives.
// Kept as an interface here so this package never imports a Prometheus
// type directly — metrics wiring is the caller's concern.
type Metrics interface {
	ObserveQueueDepth(routing, traffic int)
	ObserveActiveWorkers(routing, traffic int)
	ObserveRouteLatency(reason graph.Reason, d time.Duration)
	IncRequests(command string, reason graph.Reason)
	IncObservations()
}

type noopMetrics struct{}

func (noopMetrics) ObserveQueueDepth(int, int)                    {}
func (noopMetrics) ObserveActiveWorkers(int, int)                 {}
func (noopMetrics) ObserveRouteLatency(graph.Reason, time.Duration) {}
func (noopMetrics) IncRequests(string, graph.Reason)              {}
func (noopMetrics) IncObservations()                              {}

// Options configures worker pool sizes and queue capacities. Zero values
// fall back to the reference server's defaults.
type Options struct {
	RouteWorkers       int
	TrafficWorkers     int
	RouteQueueCap      int // 0 = unbounded
	TrafficQueueCap    int // 0 = unbounded
	Metrics            Metrics
	Emitter            telemetry.Emitter
}

const (
	defaultRouteWorkers   = 8
	defaultTrafficWorkers = 2
)

// Dispatcher owns the graph lock, the two FIFO queues, and their worker
// pools. One Dispatcher serves the lifetime of the process.
type Dispatcher struct {
	g *graph.Graph

	routingQ *taskQueue
	trafficQ *taskQueue

	routeWorkers   int
	trafficWorkers int

	metrics Metrics
	emitter telemetry.Emitter

	activeRouting atomicCounter
	activeTraffic atomicCounter

	wg sync.WaitGroup
}

// New constructs a Dispatcher bound to g. Start must be called before any
// task is submitted.
func New(g *graph.Graph, opts Options) *Dispatcher {
	rw := opts.RouteWorkers
	if rw <= 0 {
		rw = defaultRouteWorkers
	}
	tw := opts.TrafficWorkers
	if tw <= 0 {
		tw = defaultTrafficWorkers
	}
	m := opts.Metrics
	if m == nil {
		m = noopMetrics{}
	}
	e := opts.Emitter
	if e == nil {
		e = telemetry.Null()
	}
	return &Dispatcher{
		g:              g,
		routingQ:       newTaskQueue(opts.RouteQueueCap),
		trafficQ:       newTaskQueue(opts.TrafficQueueCap),
		routeWorkers:   rw,
		trafficWorkers: tw,
		metrics:        m,
		emitter:        e,
	}
}

// Start launches the fixed worker pools. It returns immediately; workers
// run until Stop closes their queues.
func (d *Dispatcher) Start() {
	for i := 0; i < d.routeWorkers; i++ {
		d.wg.Add(1)
		go d.routeWorker()
	}
	for i := 0; i < d.trafficWorkers; i++ {
		d.wg.Add(1)
		go d.trafficWorker()
	}
}

// Stop closes both queues (waking any blocked worker with a nil task) and
// waits for every worker goroutine to return.
func (d *Dispatcher) Stop() {
	d.routingQ.close()
	d.trafficQ.close()
	d.wg.Wait()
}

// SubmitRoute enqueues a REQ task and blocks until it is executed,
// returning the formatted response line (without trailing newline). ok is
// false when the routing queue is full (bounded-queue extension).
func (d *Dispatcher) SubmitRoute(src, dst int) (resp string, ok bool) {
	t := newTask(KindRoute)
	t.Src, t.Dst = src, dst
	if !d.routingQ.push(t) {
		return "", false
	}
	d.metrics.ObserveQueueDepth(d.routingQ.depth(), d.trafficQ.depth())
	t.Wait()
	return t.Response, true
}

// SubmitTraffic enqueues a UPD task and blocks until it is executed.
func (d *Dispatcher) SubmitTraffic(edgeID int, speed float64) (resp string, ok bool) {
	t := newTask(KindTraffic)
	t.EdgeID, t.Speed = edgeID, speed
	if !d.trafficQ.push(t) {
		return "", false
	}
	d.metrics.ObserveQueueDepth(d.routingQ.depth(), d.trafficQ.depth())
	t.Wait()
	return t.Response, true
}

func (d *Dispatcher) routeWorker() {
	defer d.wg.Done()
	for {
		t := d.routingQ.pop()
		if t == nil {
			return
		}
		d.activeRouting.add(1)
		d.metrics.ObserveActiveWorkers(d.activeRouting.get(), d.activeTraffic.get())

		start := time.Now()
		d.g.RLock()
		resp, reason := buildRouteResponse(d.g, t.Src, t.Dst)
		d.g.RUnlock()
		elapsed := time.Since(start)

		d.activeRouting.add(-1)
		d.metrics.ObserveRouteLatency(reason, elapsed)
		d.metrics.IncRequests("REQ", reason)
		d.emitter.Emit(telemetry.Event{
			Kind:     "route",
			Reason:   string(reason),
			Duration: elapsed,
			Attrs: map[string]any{
				"src": t.Src,
				"dst": t.Dst,
			},
		})
		t.complete(resp, reason)
	}
}

func (d *Dispatcher) trafficWorker() {
	defer d.wg.Done()
	for {
		t := d.trafficQ.pop()
		if t == nil {
			return
		}
		d.activeTraffic.add(1)
		d.metrics.ObserveActiveWorkers(d.activeRouting.get(), d.activeTraffic.get())

		start := time.Now()
		d.g.Lock()
		reason, err := d.g.ApplyObservation(t.EdgeID, t.Speed)
		var ema float64
		if reason == graph.ReasonOK {
			ema = d.g.EdgeWeight(int32(t.EdgeID))
		}
		d.g.Unlock()
		elapsed := time.Since(start)

		d.activeTraffic.add(-1)
		resp := "ACK"
		if err != nil {
			reason = graph.ReasonInternal
		}
		if reason != graph.ReasonOK {
			resp = "ERR " + string(reason)
		} else {
			d.metrics.IncObservations()
		}
		d.metrics.IncRequests("UPD", reason)
		d.emitter.Emit(telemetry.Event{
			Kind:     "update",
			Reason:   string(reason),
			Duration: elapsed,
			Attrs: map[string]any{
				"edge_id": t.EdgeID,
				"speed":   t.Speed,
				"ema":     ema,
			},
		})
		t.complete(resp, reason)
	}
}

// buildRouteResponse runs A* and formats the ROUTE2/ERR line. The caller
// must already hold at least a read lock on g.
func buildRouteResponse(g *graph.Graph, src, dst int) (string, graph.Reason) {
	if !g.ValidNode(src) || !g.ValidNode(dst) {
		return "ERR " + string(graph.ReasonBadNodes), graph.ReasonBadNodes
	}

	res, err := astar.Route(g, src, dst)
	if err != nil {
		return "ERR " + string(graph.ReasonRouteFail), graph.ReasonRouteFail
	}
	if !res.Found {
		return "ERR " + string(graph.ReasonNoRoute), graph.ReasonNoRoute
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ROUTE2 %.3f %d", res.Cost, len(res.Nodes))
	for _, n := range res.Nodes {
		fmt.Fprintf(&b, " %d", n)
	}
	fmt.Fprintf(&b, " %d", len(res.Edges))
	for _, e := range res.Edges {
		fmt.Fprintf(&b, " %d", e)
	}
	return b.String(), graph.ReasonOK
}
