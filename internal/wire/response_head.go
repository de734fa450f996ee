package wire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
)

// ResponseHead is the parsed status line and headers of an inbound HTTP
// response on the client path (http.get/http.request). The body is not
// read here: StreamBody reads it incrementally, chunk by chunk, so the
// caller can emit one "data" event per read instead of buffering the whole
// response before the script sees any of it.
type ResponseHead struct {
	StatusCode int
	headers    []headerField
}

// Header returns the first value for key using case-insensitive matching, or
// "" if absent.
func (h *ResponseHead) Header(key string) string {
	for _, f := range h.headers {
		if strings.EqualFold(f.key, key) {
			return f.value
		}
	}
	return ""
}

// ParseResponseHead reads one HTTP response status line and header block
// from br, via fasthttp's incremental header reader — the same approach
// ParseRequest uses on the server side. It consumes exactly the header
// bytes; br is left positioned at the start of the body.
func ParseResponseHead(br *bufio.Reader) (*ResponseHead, error) {
	var h fasthttp.ResponseHeader
	if err := h.Read(br); err != nil {
		return nil, err
	}
	head := &ResponseHead{StatusCode: h.StatusCode()}
	h.VisitAll(func(key, value []byte) {
		head.headers = append(head.headers, headerField{key: string(key), value: string(value)})
	})
	return head, nil
}

func (h *ResponseHead) chunked() bool {
	return strings.EqualFold(h.Header("Transfer-Encoding"), "chunked")
}

// contentLength returns the parsed Content-Length header value, or -1 if the
// header is absent or not a valid non-negative integer.
func (h *ResponseHead) contentLength() int64 {
	raw := h.Header("Content-Length")
	if raw == "" {
		return -1
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

const streamBodyBufSize = 4096

// StreamBody reads the response body from br according to head's framing —
// chunked transfer encoding, a fixed Content-Length, or (lacking both)
// read-until-close identity encoding — invoking onChunk with each block of
// bytes read, in order. It returns nil once the body is fully consumed, or
// the first read/framing error encountered.
func StreamBody(br *bufio.Reader, head *ResponseHead, onChunk func([]byte) error) error {
	switch {
	case head.chunked():
		return streamChunkedBody(br, onChunk)
	case head.contentLength() >= 0:
		return streamFixedLengthBody(br, head.contentLength(), onChunk)
	default:
		return streamUntilClose(br, onChunk)
	}
}

func streamFixedLengthBody(br *bufio.Reader, length int64, onChunk func([]byte) error) error {
	buf := make([]byte, streamBodyBufSize)
	for remaining := length; remaining > 0; {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		read, err := br.Read(buf[:n])
		if read > 0 {
			if cbErr := onChunk(buf[:read]); cbErr != nil {
				return cbErr
			}
			remaining -= int64(read)
		}
		if err != nil {
			if err == io.EOF && remaining == 0 {
				return nil
			}
			return err
		}
	}
	return nil
}

func streamUntilClose(br *bufio.Reader, onChunk func([]byte) error) error {
	buf := make([]byte, streamBodyBufSize)
	for {
		n, err := br.Read(buf)
		if n > 0 {
			if cbErr := onChunk(buf[:n]); cbErr != nil {
				return cbErr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// streamChunkedBody implements RFC 7230 section 4.1's chunked transfer
// coding: a hex size line (chunk extensions, if any, are ignored), that many
// bytes of chunk data, a bare CRLF, repeated until a 0-size chunk, followed
// by any trailer headers up to the terminating blank line.
func streamChunkedBody(br *bufio.Reader, onChunk func([]byte) error) error {
	for {
		sizeLine, err := br.ReadString('\n')
		if err != nil {
			return err
		}
		sizeLine = strings.TrimRight(sizeLine, "\r\n")
		if i := strings.IndexByte(sizeLine, ';'); i >= 0 {
			sizeLine = sizeLine[:i]
		}
		size, err := strconv.ParseInt(sizeLine, 16, 64)
		if err != nil {
			return fmt.Errorf("invalid chunk size %q: %w", sizeLine, err)
		}
		if size == 0 {
			return skipTrailer(br)
		}

		chunk := make([]byte, size)
		if _, err := io.ReadFull(br, chunk); err != nil {
			return err
		}
		if err := onChunk(chunk); err != nil {
			return err
		}
		if _, err := br.ReadString('\n'); err != nil {
			return err
		}
	}
}

func skipTrailer(br *bufio.Reader) error {
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return err
		}
		if line == "\r\n" || line == "\n" {
			return nil
		}
	}
}
