package dispatch

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
)

// ServeConn runs the protocol loop for one accepted connection: read a
// newline-delimited command, submit it to the dispatcher, block until the
// task completes, write the response, repeat. Strict per-connection
// ordering falls out of this being a single goroutine per connection that
// never reads the next line until the previous task's response has been
// written — exactly the reference server's one-thread-per-client shape.
func ServeConn(conn net.Conn, d *Dispatcher) {
	defer conn.Close()
	logger := log.Default()
	logger.Printf("client connected: %s", conn.RemoteAddr())

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				logger.Printf("read error from %s: %v", conn.RemoteAddr(), err)
			}
			break
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			writeLine(conn, "ERR EMPTY")
			continue
		}

		resp, ok := dispatchLine(d, line)
		if !ok {
			writeLine(conn, "ERR UNKNOWN_CMD")
			continue
		}
		writeLine(conn, resp)
	}

	logger.Printf("client disconnected: %s", conn.RemoteAddr())
}

// dispatchLine parses one command line and runs it through the dispatcher.
// The bool return is false only for a line that matches neither REQ nor
// UPD grammar.
func dispatchLine(d *Dispatcher, line string) (resp string, matched bool) {
	var src, dst, edgeID int
	var speed float64

	if n, _ := fmt.Sscanf(line, "REQ %d %d", &src, &dst); n == 2 {
		resp, ok := d.SubmitRoute(src, dst)
		if !ok {
			return "ERR BUSY", true
		}
		return resp, true
	}

	if n, _ := fmt.Sscanf(line, "UPD %d %f", &edgeID, &speed); n == 2 {
		resp, ok := d.SubmitTraffic(edgeID, speed)
		if !ok {
			return "ERR BUSY", true
		}
		return resp, true
	}

	return "", false
}

func writeLine(w io.Writer, line string) {
	fmt.Fprintf(w, "%s\n", line)
}
