package bindings

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/nodego-run/nodego/internal/envelope"
)

func freeTestPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestHTTPCreateServerListenAcceptsConnections(t *testing.T) {
	ctx := newTestContext()
	port := freeTestPort(t)
	ctx.RT.VM.Set("__port", port)

	_, err := ctx.RT.VM.RunString(`
		var server = http.createServer(function(req, res) {});
		server.listen(__port, "127.0.0.1");
	`)
	if err != nil {
		t.Fatalf("createServer/listen: %v", err)
	}

	var conn net.Conn
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.Write([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"))

	select {
	case e := <-ctx.Ch:
		if _, ok := e.(envelope.Accept); !ok {
			t.Fatalf("unexpected envelope: %#v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Accept")
	}
}

func TestHTTPCreateServerRejectsNonFunctionHandler(t *testing.T) {
	ctx := newTestContext()
	_, err := ctx.RT.VM.RunString(`http.createServer("not a function")`)
	if err == nil {
		t.Fatal("expected a TypeError for a non-function handler")
	}
}

func TestHTTPGetRejectsMissingCallback(t *testing.T) {
	ctx := newTestContext()
	_, err := ctx.RT.VM.RunString(`http.get("http://127.0.0.1:1")`)
	if err == nil {
		t.Fatal("expected a TypeError when the callback argument is missing")
	}
}

func TestHTTPRequestBuildsURLFromOptions(t *testing.T) {
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
		buf := make([]byte, 4096)
		conn.Read(buf)
		conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n"))
	}()

	ctx := newTestContext()
	addr := ln.Addr().(*net.TCPAddr)
	ctx.RT.VM.Set("__port", addr.Port)

	_, err = ctx.RT.VM.RunString(`
		var req = http.request({host: "127.0.0.1", port: __port, path: "/echo", method: "POST"}, function() {});
		req.end("payload");
	`)
	if err != nil {
		t.Fatalf("request/end: %v", err)
	}

	select {
	case e := <-ctx.Ch:
		if _, ok := e.(envelope.ClientResponseReady); !ok {
			t.Fatalf("unexpected envelope: %#v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ClientResponseReady")
	}
}
