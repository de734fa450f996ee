package bindings

import (
	"math"
	"time"

	"github.com/dop251/goja"
	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/workers"
)

// installTimers registers setTimeout/setInterval, plus the
// clearTimeout/clearInterval extension: both return the same numeric timer
// id, and either clear function marks that id cancelled in ctx.Timers.
func installTimers(ctx *Context) {
	ctx.RT.VM.Set("setTimeout", makeSetTimer(ctx, false))
	ctx.RT.VM.Set("setInterval", makeSetTimer(ctx, true))
	ctx.RT.VM.Set("clearTimeout", makeClearTimer(ctx))
	ctx.RT.VM.Set("clearInterval", makeClearTimer(ctx))
}

func makeSetTimer(ctx *Context, recurring bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		fnArg := call.Argument(0)
		cb, ok := engine.NewCallback(ctx.RT.VM, fnArg)
		if !ok {
			panic(ctx.RT.VM.NewTypeError("first argument to setTimeout/setInterval must be a function"))
		}

		delayMS := int64(0)
		if raw := call.Argument(1); !goja.IsUndefined(raw) {
			if f := raw.ToFloat(); !math.IsNaN(f) && f > 0 {
				delayMS = int64(f)
			}
		}

		id := ctx.Timers.Alloc()
		workers.Timer(ctx.Pool, ctx.Timers, ctx.Ch, id, cb, time.Duration(delayMS)*time.Millisecond, recurring)
		return ctx.RT.ToValue(id)
	}
}

func makeClearTimer(ctx *Context) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).ToInteger()
		ctx.Timers.Cancel(id)
		return goja.Undefined()
	}
}
