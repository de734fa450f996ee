package wire

import (
	"bufio"
	"fmt"
	"net"
	"sync"
)

// Response is the server-side reply under construction for one accepted
// connection. Headers are an ordered slice, not a map, so insertion order is
// preserved byte-for-byte on the wire; setting the same key twice replaces
// the existing entry's value in place rather than appending a duplicate.
type Response struct {
	mu         sync.Mutex
	conn       net.Conn
	StatusCode int
	headers    []headerField
	body       []byte
	ended      bool
}

// NewResponse wraps conn for a fresh reply, defaulting to status 200.
func NewResponse(conn net.Conn) *Response {
	return &Response{conn: conn, StatusCode: 200}
}

// SetHeader inserts or replaces a header. A no-op once End has completed.
func (r *Response) SetHeader(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return
	}
	for i, h := range r.headers {
		if h.key == key {
			r.headers[i].value = value
			return
		}
	}
	r.headers = append(r.headers, headerField{key: key, value: value})
}

// End appends chunk (if any) to the body, serializes the status line,
// headers in insertion order, a blank line, then the body, and shuts down the
// connection's write side. A second call is a no-op: exactly one set of
// bytes ever reaches the wire.
func (r *Response) End(chunk []byte) error {
	r.mu.Lock()
	if r.ended {
		r.mu.Unlock()
		return nil
	}
	r.ended = true
	if len(chunk) > 0 {
		r.body = append(r.body, chunk...)
	}
	conn := r.conn
	status := r.StatusCode
	headers := r.headers
	body := r.body
	r.mu.Unlock()

	w := bufio.NewWriter(conn)
	// Reason phrase is literally "OK" regardless of status code.
	if _, err := fmt.Fprintf(w, "HTTP/1.1 %d OK\r\n", status); err != nil {
		return err
	}
	for _, h := range headers {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", h.key, h.value); err != nil {
			return err
		}
	}
	if _, err := w.WriteString("\r\n"); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if tc, ok := conn.(*net.TCPConn); ok {
		return tc.CloseWrite()
	}
	return conn.Close()
}

// Ended reports whether End has already run, for the finalizer that closes
// the connection on early drop.
func (r *Response) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}

// Close closes the underlying connection directly, used by the finalizer
// path when a Response becomes unreachable without End ever having run.
func (r *Response) Close() error {
	return r.conn.Close()
}
