// Package config parses server configuration from command-line flags
// using flag.NewFlagSet.
package config

import (
	"flag"
	"fmt"
)

// Config holds every knob the server needs before it starts listening.
type Config struct {
	ListenAddr  string
	MetricsAddr string

	RouteWorkers   int
	TrafficWorkers int
	RouteQueueCap  int
	TrafficQueueCap int

	MetaPath  string
	NodesPath string
	EdgesPath string
	MySQLDSN  string

	AuditDBPath string

	TraceJSON bool
}

// Load parses args (typically os.Args[1:]) into a Config. Graph source is
// either the three CSV/meta paths or a MySQL DSN — exactly one of the two
// forms must be supplied.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("routesrv", flag.ContinueOnError)

	listenAddr := fs.String("listen", ":8080", "TCP address to accept REQ/UPD connections on")
	metricsAddr := fs.String("metrics-addr", ":9090", "HTTP address to expose /metrics on")

	routeWorkers := fs.Int("route-workers", 8, "number of routing worker goroutines")
	trafficWorkers := fs.Int("traffic-workers", 2, "number of traffic worker goroutines")
	routeQueueCap := fs.Int("route-queue-cap", 0, "routing queue capacity (0 = unbounded)")
	trafficQueueCap := fs.Int("traffic-queue-cap", 0, "traffic queue capacity (0 = unbounded)")

	metaPath := fs.String("meta", "", "path to the graph meta file (num_nodes/num_edges)")
	nodesPath := fs.String("nodes", "", "path to nodes.csv")
	edgesPath := fs.String("edges", "", "path to edges.csv")
	mysqlDSN := fs.String("mysql-dsn", "", "MySQL DSN to load the graph from, instead of CSV files")

	auditDBPath := fs.String("audit-db", "", "path to the SQLite observation audit log (empty disables it)")
	traceJSON := fs.Bool("trace-json", false, "emit telemetry events as JSONL instead of text")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parse flags: %w", err)
	}

	cfg := Config{
		ListenAddr:      *listenAddr,
		MetricsAddr:     *metricsAddr,
		RouteWorkers:    *routeWorkers,
		TrafficWorkers:  *trafficWorkers,
		RouteQueueCap:   *routeQueueCap,
		TrafficQueueCap: *trafficQueueCap,
		MetaPath:        *metaPath,
		NodesPath:       *nodesPath,
		EdgesPath:       *edgesPath,
		MySQLDSN:        *mysqlDSN,
		AuditDBPath:     *auditDBPath,
		TraceJSON:       *traceJSON,
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	fromFiles := c.MetaPath != "" || c.NodesPath != "" || c.EdgesPath != ""
	fromMySQL := c.MySQLDSN != ""

	if fromFiles && fromMySQL {
		return fmt.Errorf("config: specify either -meta/-nodes/-edges or -mysql-dsn, not both")
	}
	if !fromFiles && !fromMySQL {
		return fmt.Errorf("config: a graph source is required: -meta/-nodes/-edges or -mysql-dsn")
	}
	if fromFiles && (c.MetaPath == "" || c.NodesPath == "" || c.EdgesPath == "") {
		return fmt.Errorf("config: -meta, -nodes, and -edges must all be set together")
	}
	return nil
}
