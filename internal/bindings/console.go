package bindings

import (
	"fmt"
	"os"

	"github.com/dop251/goja"
)

// installConsole registers console.log: coerce each argument to its string
// form via the engine, print one line to standard output, return undefined.
// No asynchronous work, so nothing is submitted to the pool.
func installConsole(ctx *Context) {
	console := ctx.RT.VM.NewObject()
	console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]any, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		fmt.Fprintln(os.Stdout, parts...)
		return goja.Undefined()
	})
	ctx.RT.VM.Set("console", console)
}
