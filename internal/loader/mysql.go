package loader

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/dshills/routesrv/graph"
)

// FromMySQL loads a graph from a "nodes" table (node_id, x, y) and an
// "edges" table (edge_id, from_node, to_node, base_length,
// base_speed_limit) — the same column shapes as the CSV contract, for
// operators who keep their road network in a relational store instead of
// flat files.
func FromMySQL(ctx context.Context, dsn string) (*graph.Graph, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("loader: open mysql: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("loader: ping mysql: %w", err)
	}
	return LoadFromDB(ctx, db)
}

// LoadFromDB loads a graph from an already-open *sql.DB, for callers that
// manage their own connection pool.
func LoadFromDB(ctx context.Context, db *sql.DB) (*graph.Graph, error) {
	numNodes, numEdges, err := countRows(ctx, db)
	if err != nil {
		return nil, err
	}

	g := graph.NewGraph(numNodes, numEdges)

	if err := loadNodesFromDB(ctx, db, g); err != nil {
		return nil, err
	}
	loaded, err := loadEdgesFromDB(ctx, db, g)
	if err != nil {
		return nil, err
	}
	if loaded != numEdges {
		return nil, fmt.Errorf("loader: edges count mismatch (expected %d, got %d)", numEdges, loaded)
	}

	if err := g.Finalize(); err != nil {
		return nil, fmt.Errorf("loader: finalize: %w", err)
	}
	return g, nil
}

func countRows(ctx context.Context, db *sql.DB) (numNodes, numEdges int, err error) {
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&numNodes); err != nil {
		return 0, 0, fmt.Errorf("loader: count nodes: %w", err)
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM edges").Scan(&numEdges); err != nil {
		return 0, 0, fmt.Errorf("loader: count edges: %w", err)
	}
	return numNodes, numEdges, nil
}

func loadNodesFromDB(ctx context.Context, db *sql.DB, g *graph.Graph) error {
	rows, err := db.QueryContext(ctx, "SELECT node_id, x, y FROM nodes")
	if err != nil {
		return fmt.Errorf("loader: query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nodeID int
		var x, y float64
		if err := rows.Scan(&nodeID, &x, &y); err != nil {
			return fmt.Errorf("loader: scan node row: %w", err)
		}
		if err := g.SetCoordinates(nodeID, x, y); err != nil {
			return fmt.Errorf("loader: node_id out of range: %d", nodeID)
		}
	}
	return rows.Err()
}

func loadEdgesFromDB(ctx context.Context, db *sql.DB, g *graph.Graph) (int, error) {
	rows, err := db.QueryContext(ctx, "SELECT edge_id, from_node, to_node, base_length, base_speed_limit FROM edges")
	if err != nil {
		return 0, fmt.Errorf("loader: query edges: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var edgeID, from, to int
		var length, speed float64
		if err := rows.Scan(&edgeID, &from, &to, &length, &speed); err != nil {
			return 0, fmt.Errorf("loader: scan edge row: %w", err)
		}
		if err := g.AddEdge(edgeID, from, to, length, speed); err != nil {
			return 0, fmt.Errorf("loader: edge %d: %w", edgeID, err)
		}
		loaded++
	}
	return loaded, rows.Err()
}
