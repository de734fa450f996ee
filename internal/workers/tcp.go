package workers

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/envelope"
	"github.com/nodego-run/nodego/internal/rtlog"
	"github.com/nodego-run/nodego/internal/stream"
	"github.com/nodego-run/nodego/internal/wire"
)

// AcceptLoop spawns the worker behind http.createServer(...).listen(port,
// host). It binds and, on failure, logs and returns without crashing the
// runtime; otherwise it accepts connections in a loop, reading incrementally
// until a full request head is parsed or the peer closes, and emits Accept
// for each successfully parsed head. A parse failure is logged and drops the
// connection; nothing about it reaches script.
func AcceptLoop(pool Pool, ch envelope.Chan, log *slog.Logger, stats *Stats, host string, port int, handler engine.Callback) {
	pool.Go(func() {
		addr := net.JoinHostPort(host, strconv.Itoa(port))
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			return
		}
		log.Info("listening", "addr", addr)

		for {
			conn, err := ln.Accept()
			if err != nil {
				log.Error("accept failed", "addr", addr, "error", err)
				return
			}
			stats.ConnectionsAccepted.Add(1)
			connID := uuid.NewString()
			pool.Go(func() {
				handleConn(ch, log.With(rtlog.Conn(connID)), conn, connID, handler)
			})
		}
	})
}

func handleConn(ch envelope.Chan, log *slog.Logger, conn net.Conn, connID string, handler engine.Callback) {
	br := bufio.NewReader(conn)
	req, err := wire.ParseRequest(br)
	if err != nil {
		log.Warn("dropping connection: parse failure", "error", err)
		_ = conn.Close()
		return
	}
	ch <- envelope.Accept{Request: req, Conn: conn, Handler: handler, ConnID: connID}
}

// ClientRequest spawns the worker behind http.get/http.request. It opens a
// TCP connection, writes the request head (and body, for .request().end()),
// then emits ClientResponseReady carrying a shared IncomingMessage, awaits
// the Driver's ack that the user callback has registered its listeners,
// parses the response status line and headers off the wire, and finally
// streams only the body as StreamData/StreamEnd/StreamError, following
// whatever framing (chunked, Content-Length, or read-until-close) the
// response head declares.
func ClientRequest(pool Pool, ch envelope.Chan, log *slog.Logger, method, rawURL string, headers map[string]string, body []byte, cb engine.Callback) {
	pool.Go(func() {
		u, err := url.Parse(rawURL)
		if err != nil {
			msg := stream.NewIncomingMessage()
			emitError(ch, msg, cb, err.Error())
			return
		}
		host := u.Hostname()
		port := u.Port()
		if port == "" {
			port = "80"
		}
		path := u.RequestURI()
		if path == "" {
			path = "/"
		}

		connID := uuid.NewString()
		clog := log.With(rtlog.Conn(connID))

		conn, err := net.Dial("tcp", net.JoinHostPort(host, port))
		if err != nil {
			msg := stream.NewIncomingMessage()
			emitError(ch, msg, cb, err.Error())
			return
		}

		var head strings.Builder
		fmt.Fprintf(&head, "%s %s HTTP/1.1\r\n", method, path)
		fmt.Fprintf(&head, "Host: %s\r\n", u.Host)
		for k, v := range headers {
			fmt.Fprintf(&head, "%s: %s\r\n", k, v)
		}
		head.WriteString("Connection: close\r\n\r\n")

		if _, err := conn.Write([]byte(head.String())); err != nil {
			clog.Warn("client request write failed", "error", err)
			msg := stream.NewIncomingMessage()
			emitError(ch, msg, cb, err.Error())
			_ = conn.Close()
			return
		}
		if len(body) > 0 {
			if _, err := conn.Write(body); err != nil {
				clog.Warn("client request body write failed", "error", err)
				msg := stream.NewIncomingMessage()
				emitError(ch, msg, cb, err.Error())
				_ = conn.Close()
				return
			}
		}

		msg := stream.NewIncomingMessage()
		ack := make(chan struct{})
		ch <- envelope.ClientResponseReady{Message: msg, Callback: cb, Ack: ack}
		<-ack

		defer conn.Close()
		br := bufio.NewReader(conn)

		respHead, err := wire.ParseResponseHead(br)
		if err != nil {
			ch <- envelope.StreamError{Message: msg, Err: err.Error()}
			return
		}

		err = wire.StreamBody(br, respHead, func(chunk []byte) error {
			cp := make([]byte, len(chunk))
			copy(cp, chunk)
			ch <- envelope.StreamData{Message: msg, Chunk: cp}
			return nil
		})
		if err != nil {
			ch <- envelope.StreamError{Message: msg, Err: err.Error()}
			return
		}
		ch <- envelope.StreamEnd{Message: msg}
	})
}

func emitError(ch envelope.Chan, msg *stream.IncomingMessage, cb engine.Callback, text string) {
	ack := make(chan struct{})
	ch <- envelope.ClientResponseReady{Message: msg, Callback: cb, Ack: ack}
	<-ack
	ch <- envelope.StreamError{Message: msg, Err: text}
}
