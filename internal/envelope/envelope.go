// Package envelope defines the tagged-union completion records that cross
// from async workers back to the event loop over the completion channel.
// Every variant carries exactly the payload the Driver needs to materialize
// script values and invoke the stored callback; none of them reference the
// goja runtime, so workers stay engine-agnostic and testable without one.
package envelope

import (
	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/stream"
	"github.com/nodego-run/nodego/internal/wire"
)

// Envelope is the sum type of every completion a worker may emit. The
// marker method is unexported so only this package can add variants.
type Envelope interface {
	envelope()
}

// Chan is the Completion Channel: a single multi-producer, single-consumer
// queue of envelopes. Every spawned async worker holds a copy of the send
// side; the sole receiver lives on the event loop. Channels are reference
// types in Go, so handing one to every spawned async task is just passing
// the Chan value.
type Chan = chan Envelope

// TimerFire reports that a setTimeout/setInterval worker's delay elapsed.
type TimerFire struct {
	Callback  engine.Callback
	Recurring bool
	Interval  int64 // milliseconds the worker slept before this fire; the worker re-arms itself
	TimerID   int64
}

func (TimerFire) envelope() {}

// ReadOk reports a successful fs.readFile.
type ReadOk struct {
	Callback engine.Callback
	Contents string
}

func (ReadOk) envelope() {}

// ReadErr reports a failed fs.readFile.
type ReadErr struct {
	Callback engine.Callback
	Message  string
}

func (ReadErr) envelope() {}

// WriteOk reports a successful fs.writeFile.
type WriteOk struct {
	Callback engine.Callback
}

func (WriteOk) envelope() {}

// WriteErr reports a failed fs.writeFile.
type WriteErr struct {
	Callback engine.Callback
	Message  string
}

func (WriteErr) envelope() {}

// Accept reports a parsed incoming HTTP request on a server's accept loop.
type Accept struct {
	Request *wire.Request
	Conn    wire.Conn
	Handler engine.Callback
	ConnID  string
}

func (Accept) envelope() {}

// ClientResponseReady reports that an outbound http.get/http.request
// connection is open and its response head is ready to be handed to script.
// Ack is signalled by the Driver once the user callback has registered its
// stream listeners, so the reader worker knows it is safe to start emitting.
type ClientResponseReady struct {
	Message  *stream.IncomingMessage
	Callback engine.Callback
	Ack      chan struct{}
}

func (ClientResponseReady) envelope() {}

// StreamData reports one chunk of a streaming incoming message.
type StreamData struct {
	Message *stream.IncomingMessage
	Chunk   []byte
}

func (StreamData) envelope() {}

// StreamEnd reports the clean end of a streaming incoming message. Always
// the last envelope for a given Message.
type StreamEnd struct {
	Message *stream.IncomingMessage
}

func (StreamEnd) envelope() {}

// StreamError reports an I/O failure on a streaming incoming message. Like
// StreamEnd, always terminal for its Message.
type StreamError struct {
	Message *stream.IncomingMessage
	Err     string
}

func (StreamError) envelope() {}
