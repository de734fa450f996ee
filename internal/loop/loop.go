// Package loop implements the event loop driver: the single goroutine
// pinned to the engine. It owns the sole receive end of the completion
// channel, the per-tag materialization table, and the termination rule
// (exit once the channel is closed and drained).
package loop

import (
	"log/slog"
	"time"

	"github.com/dop251/goja"
	"github.com/nodego-run/nodego/internal/bindings"
	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/envelope"
	"github.com/nodego-run/nodego/internal/stream"
	"github.com/nodego-run/nodego/internal/wire"
	"github.com/nodego-run/nodego/internal/workers"
)

// Driver is the event-loop goroutine's state. Every method that touches rt
// or invokes a Callback must only ever run from the goroutine that calls Run.
type Driver struct {
	rt   *engine.Runtime
	ch   envelope.Chan
	log  *slog.Logger
	pool workers.Pool
	ctx  *bindings.Context
}

// New returns a Driver reading completions from ch. pool and ctx back the
// natural-termination check: once the worker pool has no outstanding work
// and nothing is queued on ch, the Driver requests exit on ctx's behalf
// rather than waiting on a script-initiated process.exit() that may never
// come.
func New(rt *engine.Runtime, ch envelope.Chan, log *slog.Logger, pool workers.Pool, ctx *bindings.Context) *Driver {
	return &Driver{rt: rt, ch: ch, log: log, pool: pool, ctx: ctx}
}

// quiescencePoll bounds how long a script that has gone idle (no pending
// envelope, no worker in flight) can wait before the Driver notices and
// exits. A worker decrements Pool.Active() only after its final envelope
// send has already completed, so there is an unavoidable gap between "the
// last envelope was dispatched" and "Active() reports zero" during which no
// new envelope will ever arrive to drive the next checkQuiescence call; the
// ticker closes that gap instead of blocking Run forever on an empty
// channel.
const quiescencePoll = 2 * time.Millisecond

// Run performs the loop: await the next envelope, materialize arguments,
// invoke the stored callback, catch and log any exception, and continue. It
// returns when the completion channel is closed and drained. The channel is
// closed through Context.RequestExit, either by process.exit() or by
// checkQuiescence once no worker is outstanding and nothing is queued, so a
// script that never calls process.exit() still terminates.
func (d *Driver) Run() {
	d.checkQuiescence()

	ticker := time.NewTicker(quiescencePoll)
	defer ticker.Stop()

	for {
		select {
		case env, ok := <-d.ch:
			if !ok {
				return
			}
			d.dispatch(env)
			d.checkQuiescence()
		case <-ticker.C:
			d.checkQuiescence()
		}
	}
}

// checkQuiescence requests exit once no worker is in flight and nothing is
// queued on ch.
func (d *Driver) checkQuiescence() {
	if d.pool.Active() == 0 && len(d.ch) == 0 {
		d.ctx.RequestExit(0)
	}
}

func (d *Driver) dispatch(env envelope.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("uncaught script exception", "error", engine.DescribeException(r))
		}
	}()

	switch e := env.(type) {
	case envelope.TimerFire:
		d.call(e.Callback)

	case envelope.ReadOk:
		d.call(e.Callback, engine.Null(), d.rt.ToValue(e.Contents))
	case envelope.ReadErr:
		d.call(e.Callback, d.rt.ToValue(e.Message), engine.Undefined())

	case envelope.WriteOk:
		d.call(e.Callback, engine.Null())
	case envelope.WriteErr:
		d.call(e.Callback, d.rt.ToValue(e.Message))

	case envelope.Accept:
		d.dispatchAccept(e)

	case envelope.ClientResponseReady:
		d.dispatchClientResponseReady(e)

	case envelope.StreamData:
		d.emit(e.Message, "data", d.rt.ToValue(string(e.Chunk)))
	case envelope.StreamEnd:
		d.emit(e.Message, "end")
	case envelope.StreamError:
		d.emit(e.Message, "error", d.rt.ToValue(e.Err))
	}
}

// call invokes cb with args, logging (rather than propagating) any script
// exception.
func (d *Driver) call(cb engine.Callback, args ...goja.Value) {
	if !cb.Valid() {
		return
	}
	if _, err := cb.Call(args...); err != nil {
		d.log.Error("uncaught script exception", "error", err.Error())
	}
}

// dispatchAccept builds the script request/response objects and invokes the
// stored request handler with (request, response).
func (d *Driver) dispatchAccept(e envelope.Accept) {
	reqObj := bindings.BuildRequestObject(d.rt, e.Request)
	resObj := bindings.BuildResponseObject(d.rt, wire.NewResponse(e.Conn), d.log)
	d.call(e.Handler, reqObj, resObj)
}

// dispatchClientResponseReady builds the incoming-message script object,
// invokes the user's response callback with it so it can register "data"/
// "end"/"error" listeners, then signals the ack so the reader worker begins
// draining the socket.
func (d *Driver) dispatchClientResponseReady(e envelope.ClientResponseReady) {
	msgObj := bindings.BuildIncomingMessageObject(d.rt, e.Message)
	d.call(e.Callback, msgObj)
	close(e.Ack)
}

// emit fires every listener registered for event on msg's emitter, in
// registration order.
func (d *Driver) emit(msg *stream.IncomingMessage, event string, args ...goja.Value) {
	for _, cb := range msg.Emitter.Listeners(event) {
		d.call(cb, args...)
	}
}
