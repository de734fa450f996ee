package bindings

import (
	"github.com/dop251/goja"
	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/workers"
)

// installFS registers fs.readFile/fs.writeFile.
func installFS(ctx *Context) {
	fs := ctx.RT.VM.NewObject()

	fs.Set("readFile", func(call goja.FunctionCall) goja.Value {
		path := call.Argument(0).String()
		cb, ok := engine.NewCallback(ctx.RT.VM, call.Argument(1))
		if !ok {
			panic(ctx.RT.VM.NewTypeError("fs.readFile requires a callback function"))
		}
		workers.ReadFile(ctx.Pool, ctx.Ch, path, cb)
		return goja.Undefined()
	})

	fs.Set("writeFile", func(call goja.FunctionCall) goja.Value {
		path := call.Argument(0).String()
		data := call.Argument(1).String()
		cb, ok := engine.NewCallback(ctx.RT.VM, call.Argument(2))
		if !ok {
			panic(ctx.RT.VM.NewTypeError("fs.writeFile requires a callback function"))
		}
		workers.WriteFile(ctx.Pool, ctx.Ch, path, data, cb)
		return goja.Undefined()
	})

	ctx.RT.VM.Set("fs", fs)
}
