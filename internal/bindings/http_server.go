package bindings

import (
	"math"

	"github.com/dop251/goja"
	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/workers"
)

const (
	defaultListenPort = 8000
	defaultListenHost = "127.0.0.1"
)

// installHTTP registers http.createServer, http.get, and http.request.
func installHTTP(ctx *Context) {
	httpObj := ctx.RT.VM.NewObject()
	httpObj.Set("createServer", makeCreateServer(ctx))
	httpObj.Set("get", makeClientCall(ctx, "GET"))
	httpObj.Set("request", makeRequestCall(ctx))
	ctx.RT.VM.Set("http", httpObj)
}

// makeCreateServer stores requestHandler as a Callback on a fresh server
// object; the returned object exposes .listen(port, host?).
func makeCreateServer(ctx *Context) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		handler, ok := engine.NewCallback(ctx.RT.VM, call.Argument(0))
		if !ok {
			panic(ctx.RT.VM.NewTypeError("http.createServer requires a request handler function"))
		}

		server := ctx.RT.VM.NewObject()
		server.Set("listen", func(call goja.FunctionCall) goja.Value {
			port := defaultListenPort
			if raw := call.Argument(0); !goja.IsUndefined(raw) {
				if f := raw.ToFloat(); !math.IsNaN(f) {
					port = int(f)
				}
			}
			host := defaultListenHost
			if raw := call.Argument(1); !goja.IsUndefined(raw) {
				host = raw.String()
			}
			workers.AcceptLoop(ctx.Pool, ctx.Ch, ctx.Log, ctx.Stats, host, port, handler)
			return server
		})
		return server
	}
}
