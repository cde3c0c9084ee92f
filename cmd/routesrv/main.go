// Command routesrv answers shortest-time path queries over a road graph
// whose edge weights evolve from live traffic observations submitted over
// a newline-delimited TCP protocol.
package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/dshills/routesrv/graph"
	"github.com/dshills/routesrv/internal/audit"
	"github.com/dshills/routesrv/internal/config"
	"github.com/dshills/routesrv/internal/dispatch"
	"github.com/dshills/routesrv/internal/loader"
	"github.com/dshills/routesrv/internal/metrics"
	"github.com/dshills/routesrv/internal/telemetry"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	g, err := loadGraph(cfg)
	if err != nil {
		log.Fatalf("failed to load graph: %v", err)
	}
	log.Printf("graph loaded: %d nodes, %d edges", g.NumNodes(), g.NumEdges())

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	metricsSrv := metrics.NewServer(cfg.MetricsAddr, registry)
	metricsErrs := make(chan error, 1)
	metricsSrv.Start(metricsErrs)
	log.Printf("metrics listening on %s", cfg.MetricsAddr)

	emitter := buildEmitter(cfg)

	d := dispatch.New(g, dispatch.Options{
		RouteWorkers:    cfg.RouteWorkers,
		TrafficWorkers:  cfg.TrafficWorkers,
		RouteQueueCap:   cfg.RouteQueueCap,
		TrafficQueueCap: cfg.TrafficQueueCap,
		Metrics:         m,
		Emitter:         emitter,
	})
	d.Start()
	defer d.Stop()

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatalf("failed to bind %s: %v", cfg.ListenAddr, err)
	}
	log.Printf("routesrv listening on %s", cfg.ListenAddr)

	conns := make(chan net.Conn)
	go acceptLoop(listener, conns)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case err := <-metricsErrs:
			log.Printf("metrics server error: %v", err)

		case conn := <-conns:
			go dispatch.ServeConn(conn, d)

		case <-sigCh:
			log.Println("shutting down")
			_ = listener.Close()
			ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			_ = metricsSrv.Shutdown(ctx)
			cancel()
			return
		}
	}
}

const shutdownGrace = 5 * time.Second

func acceptLoop(listener net.Listener, conns chan<- net.Conn) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		conns <- conn
	}
}

func loadGraph(cfg config.Config) (*graph.Graph, error) {
	if cfg.MySQLDSN != "" {
		return loader.FromMySQL(context.Background(), cfg.MySQLDSN)
	}
	return loader.FromFiles(cfg.MetaPath, cfg.NodesPath, cfg.EdgesPath)
}

func buildEmitter(cfg config.Config) telemetry.Emitter {
	logEmitter := telemetry.NewLogEmitter(os.Stdout, cfg.TraceJSON)
	otelEmitter := telemetry.NewOTelEmitter(otel.Tracer("routesrv"))
	return telemetry.Fanout(logEmitter, otelEmitter, auditEmitter(cfg))
}

// auditEmitter wraps the SQLite observation sink as a telemetry.Emitter so
// it can be fanned out to alongside the log/OTel emitters without the
// dispatcher knowing about SQLite at all. Returns a no-op when no audit
// path is configured.
func auditEmitter(cfg config.Config) telemetry.Emitter {
	if cfg.AuditDBPath == "" {
		return telemetry.Null()
	}
	sink, err := audit.NewSQLiteSink(cfg.AuditDBPath)
	if err != nil {
		log.Printf("audit log disabled: %v", err)
		return telemetry.Null()
	}
	return audit.NewEmitter(sink)
}
