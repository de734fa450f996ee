package bindings

import (
	"github.com/dop251/goja"
	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/workers"
)

// makeClientCall implements http.get(url, cb): parse the URL, spawn the
// connect-then-read worker with no extra headers or body.
func makeClientCall(ctx *Context, method string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		rawURL := call.Argument(0).String()
		cb, ok := engine.NewCallback(ctx.RT.VM, call.Argument(1))
		if !ok {
			panic(ctx.RT.VM.NewTypeError("http.get requires a callback function"))
		}
		workers.ClientRequest(ctx.Pool, ctx.Ch, ctx.Log, method, rawURL, nil, nil, cb)
		return goja.Undefined()
	}
}

// makeRequestCall implements http.request(options, cb): method, headers,
// and path come from an options object; returns a script request object
// whose .end(data?) flushes headers and body and then performs the same
// ack-then-drain behavior as http.get.
func makeRequestCall(ctx *Context) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		opts := call.Argument(0).ToObject(ctx.RT.VM)
		cb, ok := engine.NewCallback(ctx.RT.VM, call.Argument(1))
		if !ok {
			panic(ctx.RT.VM.NewTypeError("http.request requires a callback function"))
		}

		method := stringProp(opts, "method", "GET")
		url := buildRequestURL(opts)
		headers := map[string]string{}
		if h := opts.Get("headers"); h != nil && !goja.IsUndefined(h) {
			hObj := h.ToObject(ctx.RT.VM)
			for _, k := range hObj.Keys() {
				headers[k] = hObj.Get(k).String()
			}
		}

		reqObj := ctx.RT.VM.NewObject()
		reqObj.Set("end", func(call goja.FunctionCall) goja.Value {
			var body []byte
			if raw := call.Argument(0); !goja.IsUndefined(raw) {
				body = []byte(raw.String())
			}
			workers.ClientRequest(ctx.Pool, ctx.Ch, ctx.Log, method, url, headers, body, cb)
			return goja.Undefined()
		})
		return reqObj
	}
}

func stringProp(obj *goja.Object, name, def string) string {
	v := obj.Get(name)
	if v == nil || goja.IsUndefined(v) {
		return def
	}
	return v.String()
}

// buildRequestURL assembles a URL from an options object's host/port/path
// fields, the shape http.request(options, cb) accepts.
func buildRequestURL(opts *goja.Object) string {
	host := stringProp(opts, "host", "127.0.0.1")
	port := stringProp(opts, "port", "80")
	path := stringProp(opts, "path", "/")
	return "http://" + host + ":" + port + path
}
