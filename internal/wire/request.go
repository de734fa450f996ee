// Package wire implements the request/response data model and the
// incremental HTTP parsing and serialization the runtime needs.
// Request-head parsing delegates to fasthttp's incremental header reader.
// Response serialization is hand-rolled, because the wire format (literal
// "OK" reason phrase, byte-for-byte header insertion order) is deliberately
// non-standard and no library would produce it without fighting its own
// conventions.
package wire

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"strings"

	"github.com/valyala/fasthttp"
)

// Request is the parsed, script-facing view of an incoming HTTP request.
// Headers use case-insensitive lookup per HTTP semantics, via Header.
type Request struct {
	Method  string
	URL     string
	headers []headerField
	Body    []byte
}

type headerField struct {
	key   string
	value string
}

// Header returns the first value for key using case-insensitive matching, or
// "" if absent.
func (r *Request) Header(key string) string {
	for _, h := range r.headers {
		if strings.EqualFold(h.key, key) {
			return h.value
		}
	}
	return ""
}

// Headers returns every header pair in the order they appeared on the wire.
func (r *Request) Headers() []struct{ Key, Value string } {
	out := make([]struct{ Key, Value string }, len(r.headers))
	for i, h := range r.headers {
		out[i] = struct{ Key, Value string }{h.key, h.value}
	}
	return out
}

// ParseRequest reads one HTTP request head from br incrementally (fasthttp
// refills and retries internally on a partial head) and then reads exactly
// ContentLength body bytes if the header was present; no Content-Length
// means an empty body.
func ParseRequest(br *bufio.Reader) (*Request, error) {
	var h fasthttp.RequestHeader
	if err := h.Read(br); err != nil {
		return nil, err
	}

	req := &Request{
		Method: string(h.Method()),
		URL:    string(h.RequestURI()),
	}
	// VisitAll reports Host, Content-Length, Content-Type and User-Agent
	// ahead of the other headers, so the wire order is taken from the raw
	// header block instead.
	for _, line := range bytes.Split(h.RawHeaders(), []byte("\n")) {
		key, value, ok := bytes.Cut(bytes.TrimRight(line, "\r"), []byte(":"))
		if !ok {
			continue
		}
		req.headers = append(req.headers, headerField{key: string(bytes.TrimSpace(key)), value: string(bytes.TrimSpace(value))})
	}

	if n := h.ContentLength(); n > 0 {
		body := make([]byte, n)
		if _, err := io.ReadFull(br, body); err != nil {
			return nil, err
		}
		req.Body = body
	}

	return req, nil
}

// Conn is the bidirectional byte stream a Request arrived on, and the
// Response will reply over. It is just net.Conn; ownership transfer between
// the accept loop, the response object, and (on early drop) a finalizer is
// tracked by which goroutine currently holds the reference.
type Conn = net.Conn
