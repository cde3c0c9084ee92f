// Package loader builds a *graph.Graph from the CSV/meta construction
// contract or from a relational source, fully finalizing it before
// returning. The server only ever loads once, at startup; neither path
// here is re-invoked while serving.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/routesrv/graph"
)

// FromFiles reads metaPath/nodesPath/edgesPath per the contract grounded
// on the reference loader: meta is "key value" lines (unknown keys
// ignored, num_nodes/num_edges required), nodes.csv is
// "node_id,x,y" with a header row, edges.csv is
// "edge_id,from,to,base_length,base_speed_limit" with a header row.
func FromFiles(metaPath, nodesPath, edgesPath string) (*graph.Graph, error) {
	numNodes, numEdges, err := readMeta(metaPath)
	if err != nil {
		return nil, err
	}

	g := graph.NewGraph(numNodes, numEdges)

	if err := loadNodes(g, nodesPath); err != nil {
		return nil, err
	}
	loadedEdges, err := loadEdges(g, edgesPath)
	if err != nil {
		return nil, err
	}
	if loadedEdges != numEdges {
		return nil, fmt.Errorf("loader: edges count mismatch (expected %d, got %d)", numEdges, loadedEdges)
	}

	if err := g.Finalize(); err != nil {
		return nil, fmt.Errorf("loader: finalize: %w", err)
	}
	return g, nil
}

func readMeta(path string) (numNodes, numEdges int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("loader: open meta file %s: %w", path, err)
	}
	defer f.Close()

	numNodes, numEdges = -1, -1
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		val, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		switch fields[0] {
		case "num_nodes":
			numNodes = val
		case "num_edges":
			numEdges = val
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("loader: read meta file %s: %w", path, err)
	}
	if numNodes <= 0 || numEdges < 0 {
		return 0, 0, fmt.Errorf("loader: meta file missing/invalid counts (num_nodes=%d, num_edges=%d)", numNodes, numEdges)
	}
	return numNodes, numEdges, nil
}

func loadNodes(g *graph.Graph, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loader: open nodes file %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if _, err := readLine(r); err != nil { // skip header
		return fmt.Errorf("loader: nodes file %s is empty: %w", path, err)
	}

	for {
		line, err := readLine(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("loader: read nodes file %s: %w", path, err)
		}
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return fmt.Errorf("loader: bad nodes.csv line: %q", line)
		}
		nodeID, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		x, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		y, err3 := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return fmt.Errorf("loader: bad nodes.csv line: %q", line)
		}
		if err := g.SetCoordinates(nodeID, x, y); err != nil {
			return fmt.Errorf("loader: node_id out of range: %d", nodeID)
		}
	}
	return nil
}

func loadEdges(g *graph.Graph, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("loader: open edges file %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if _, err := readLine(r); err != nil { // skip header
		return 0, fmt.Errorf("loader: edges file %s is empty: %w", path, err)
	}

	loaded := 0
	for {
		line, err := readLine(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("loader: read edges file %s: %w", path, err)
		}
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != 5 {
			return 0, fmt.Errorf("loader: bad edges.csv line: %q", line)
		}
		edgeID, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		from, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		to, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		length, err4 := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		speed, err5 := strconv.ParseFloat(strings.TrimSpace(parts[4]), 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			return 0, fmt.Errorf("loader: bad edges.csv line: %q", line)
		}

		if err := g.AddEdge(edgeID, from, to, length, speed); err != nil {
			return 0, fmt.Errorf("loader: edge %d: %w", edgeID, err)
		}
		loaded++
	}
	return loaded, nil
}

// readLine reads one line with its trailing newline/carriage-return
// stripped. Returns io.EOF (with an empty string) when the stream is
// exhausted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return line, nil
}
