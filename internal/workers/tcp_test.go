package workers

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/envelope"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestAcceptLoopEmitsAcceptForParsedRequest(t *testing.T) {
	pool := NewPool(discardLogger())
	ch := make(envelope.Chan, 1)
	stats := &Stats{}
	port := freePort(t)

	AcceptLoop(pool, ch, discardLogger(), stats, "127.0.0.1", port, engine.Callback{})

	var conn net.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial listener: %v", err)
	}
	defer conn.Close()

	fmt.Fprintf(conn, "GET /ping HTTP/1.1\r\nHost: localhost\r\n\r\n")

	select {
	case e := <-ch:
		acc, ok := e.(envelope.Accept)
		if !ok {
			t.Fatalf("unexpected envelope: %#v", e)
		}
		if acc.Request.Method != "GET" || acc.Request.URL != "/ping" {
			t.Fatalf("unexpected parsed request: %+v", acc.Request)
		}
		if acc.ConnID == "" {
			t.Fatal("expected a non-empty connection id")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Accept envelope")
	}

	if stats.ConnectionsAccepted.Load() != 1 {
		t.Fatalf("ConnectionsAccepted = %d, want 1", stats.ConnectionsAccepted.Load())
	}
}

func TestClientRequestStreamsResponseBody(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		br := bufio.NewReader(conn)
		// Drain the request head.
		for {
			line, err := br.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}
		io.WriteString(conn, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello")
	}()

	pool := NewPool(discardLogger())
	ch := make(envelope.Chan, 8)
	addr := ln.Addr().(*net.TCPAddr)
	url := fmt.Sprintf("http://127.0.0.1:%d/", addr.Port)

	ClientRequest(pool, ch, discardLogger(), "GET", url, nil, nil, engine.Callback{})

	ready, ok := (<-ch).(envelope.ClientResponseReady)
	if !ok {
		t.Fatal("expected ClientResponseReady first")
	}
	close(ready.Ack)

	var body []byte
	for {
		select {
		case e := <-ch:
			switch v := e.(type) {
			case envelope.StreamData:
				body = append(body, v.Chunk...)
			case envelope.StreamEnd:
				if string(body) != "hello" {
					t.Fatalf("body = %q, want hello", body)
				}
				return
			case envelope.StreamError:
				t.Fatalf("unexpected stream error: %s", v.Err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for stream completion")
		}
	}
}

func TestClientRequestStreamsChunkedResponseBody(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		br := bufio.NewReader(conn)
		for {
			line, err := br.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}
		io.WriteString(conn, "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n"+
			"3\r\nfoo\r\n3\r\nbar\r\n0\r\n\r\n")
	}()

	pool := NewPool(discardLogger())
	ch := make(envelope.Chan, 8)
	addr := ln.Addr().(*net.TCPAddr)
	url := fmt.Sprintf("http://127.0.0.1:%d/", addr.Port)

	ClientRequest(pool, ch, discardLogger(), "GET", url, nil, nil, engine.Callback{})

	ready, ok := (<-ch).(envelope.ClientResponseReady)
	if !ok {
		t.Fatal("expected ClientResponseReady first")
	}
	close(ready.Ack)

	var body []byte
	for {
		select {
		case e := <-ch:
			switch v := e.(type) {
			case envelope.StreamData:
				body = append(body, v.Chunk...)
			case envelope.StreamEnd:
				if string(body) != "foobar" {
					t.Fatalf("body = %q, want foobar", body)
				}
				return
			case envelope.StreamError:
				t.Fatalf("unexpected stream error: %s", v.Err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for stream completion")
		}
	}
}

func TestClientRequestBadURLYieldsStreamError(t *testing.T) {
	pool := NewPool(discardLogger())
	ch := make(envelope.Chan, 4)

	ClientRequest(pool, ch, discardLogger(), "GET", "http://%zz", nil, nil, engine.Callback{})

	ready, ok := (<-ch).(envelope.ClientResponseReady)
	if !ok {
		t.Fatal("expected ClientResponseReady first")
	}
	close(ready.Ack)

	switch e := (<-ch).(type) {
	case envelope.StreamError:
		if e.Err == "" {
			t.Fatal("expected a non-empty error message")
		}
	default:
		t.Fatalf("unexpected envelope: %#v", e)
	}
}
