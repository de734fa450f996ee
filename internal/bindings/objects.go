package bindings

import (
	"math"
	"runtime"

	"github.com/dop251/goja"
	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/stream"
	"github.com/nodego-run/nodego/internal/wire"
)

// BuildRequestObject materializes the read-only script request object:
// method/url/headers getters backed by the parsed wire.Request, exposed as
// plain data properties since nothing ever mutates a request after parse.
func BuildRequestObject(rt *engine.Runtime, req *wire.Request) goja.Value {
	obj := rt.VM.NewObject()
	obj.Set("method", req.Method)
	obj.Set("url", req.URL)

	headers := rt.VM.NewObject()
	for _, h := range req.Headers() {
		headers.Set(h.Key, h.Value)
	}
	obj.Set("headers", headers)
	obj.Set("body", string(req.Body))
	return obj
}

// BuildResponseObject materializes the script response object: a settable
// statusCode, .setHeader(k,v), and .end(chunk?). .end() serializes and
// writes the reply to the connection on the calling goroutine; it does not
// hand the write to the worker pool. A runtime.SetFinalizer closes the
// underlying connection if the object becomes unreachable without .end()
// ever running.
func BuildResponseObject(rt *engine.Runtime, resp *wire.Response, log interface {
	Warn(msg string, args ...any)
}) goja.Value {
	obj := rt.VM.NewObject()

	getStatus := func(goja.FunctionCall) goja.Value { return rt.ToValue(resp.StatusCode) }
	setStatus := func(call goja.FunctionCall) goja.Value {
		v := call.Argument(0)
		if n := v.ToInteger(); isIntegerShaped(v) {
			resp.StatusCode = int(n)
		} else {
			resp.StatusCode = 400
		}
		return goja.Undefined()
	}
	if err := obj.DefineAccessorProperty("statusCode", rt.VM.ToValue(getStatus), rt.VM.ToValue(setStatus), goja.FLAG_TRUE, goja.FLAG_TRUE); err != nil {
		panic(err)
	}

	obj.Set("setHeader", func(call goja.FunctionCall) goja.Value {
		resp.SetHeader(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})

	obj.Set("end", func(call goja.FunctionCall) goja.Value {
		var chunk []byte
		if raw := call.Argument(0); !goja.IsUndefined(raw) {
			chunk = []byte(raw.String())
		}
		if err := resp.End(chunk); err != nil {
			log.Warn("response write failed", "error", err)
		}
		return goja.Undefined()
	})

	runtime.SetFinalizer(obj, func(*goja.Object) {
		if !resp.Ended() {
			_ = resp.Close()
		}
	})

	return obj
}

// isIntegerShaped reports whether v converts to an integral number (an
// integer or an integer-shaped string), per statusCode's coercion rule:
// accepts integers or integer-shaped strings, else 400.
func isIntegerShaped(v goja.Value) bool {
	f := v.ToFloat()
	return !math.IsNaN(f) && f == math.Trunc(f)
}

// BuildIncomingMessageObject materializes the event-emitter-backed script
// object for an incoming message: an .on(event, cb) method that records
// listeners on msg's emitter.
func BuildIncomingMessageObject(rt *engine.Runtime, msg *stream.IncomingMessage) goja.Value {
	obj := rt.VM.NewObject()
	obj.Set("on", func(call goja.FunctionCall) goja.Value {
		event := call.Argument(0).String()
		cb, ok := engine.NewCallback(rt.VM, call.Argument(1))
		if !ok {
			panic(rt.VM.NewTypeError("incoming message .on() requires a callback function"))
		}
		msg.Emitter.On(event, cb)
		return obj
	})
	return obj
}
