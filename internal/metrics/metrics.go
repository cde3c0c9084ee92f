// Package metrics exposes Prometheus instrumentation for the dispatcher:
// queue depth and active-worker gauges, route-latency histograms, and
// request/observation counters, all under the "routesrv" namespace.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dshills/routesrv/graph"
)

// Metrics collects every gauge, histogram, and counter the dispatcher
// drives. It satisfies dispatch.Metrics.
type Metrics struct {
	routingQueueDepth prometheus.Gauge
	trafficQueueDepth prometheus.Gauge
	activeRouting     prometheus.Gauge
	activeTraffic     prometheus.Gauge

	routeLatency *prometheus.HistogramVec

	requests     *prometheus.CounterVec
	observations prometheus.Counter
}

// New registers every metric against registry (use prometheus.DefaultRegisterer
// for the process-global registry, or a fresh prometheus.NewRegistry() for
// test isolation).
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		routingQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "routesrv",
			Name:      "routing_queue_depth",
			Help:      "Number of REQ tasks waiting in the routing queue",
		}),
		trafficQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "routesrv",
			Name:      "traffic_queue_depth",
			Help:      "Number of UPD tasks waiting in the traffic queue",
		}),
		activeRouting: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "routesrv",
			Name:      "active_routing_workers",
			Help:      "Number of routing workers currently executing a task",
		}),
		activeTraffic: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "routesrv",
			Name:      "active_traffic_workers",
			Help:      "Number of traffic workers currently executing a task",
		}),
		routeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "routesrv",
			Name:      "route_latency_ms",
			Help:      "REQ execution duration in milliseconds, from dequeue to response",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"reason"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routesrv",
			Name:      "requests_total",
			Help:      "Total commands processed, labeled by command and outcome reason",
		}, []string{"command", "reason"}),
		observations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "routesrv",
			Name:      "observations_total",
			Help:      "Total traffic observations successfully fused into the graph",
		}),
	}
}

// ObserveQueueDepth reports the current depth of both queues.
func (m *Metrics) ObserveQueueDepth(routing, traffic int) {
	m.routingQueueDepth.Set(float64(routing))
	m.trafficQueueDepth.Set(float64(traffic))
}

// ObserveActiveWorkers reports how many workers in each pool are currently
// executing a task.
func (m *Metrics) ObserveActiveWorkers(routing, traffic int) {
	m.activeRouting.Set(float64(routing))
	m.activeTraffic.Set(float64(traffic))
}

// ObserveRouteLatency records a REQ's execution time, labeled by its
// outcome reason ("" on success).
func (m *Metrics) ObserveRouteLatency(reason graph.Reason, d time.Duration) {
	m.routeLatency.WithLabelValues(string(reason)).Observe(float64(d.Milliseconds()))
}

// IncRequests counts one processed command.
func (m *Metrics) IncRequests(command string, reason graph.Reason) {
	m.requests.WithLabelValues(command, string(reason)).Inc()
}

// IncObservations counts one successfully fused traffic observation.
func (m *Metrics) IncObservations() {
	m.observations.Inc()
}
