package bindings

import (
	"os"
	"runtime"

	"github.com/dop251/goja"
)

// installOS registers os.homedir(): a synchronous binding with no async
// work, reading $HOME (or %USERPROFILE% on Windows) and returning it, or
// throwing if unset.
func installOS(ctx *Context) {
	osObj := ctx.RT.VM.NewObject()
	osObj.Set("homedir", func(call goja.FunctionCall) goja.Value {
		envVar := "HOME"
		if runtime.GOOS == "windows" {
			envVar = "USERPROFILE"
		}
		dir := os.Getenv(envVar)
		if dir == "" {
			panic(ctx.RT.VM.NewGoError(os.ErrNotExist))
		}
		return ctx.RT.ToValue(dir)
	})
	ctx.RT.VM.Set("os", osObj)
}

// installProcess registers process.exit(code?): it closes the completion
// channel and records the exit code, letting the Driver's normal
// drain-on-close path unwind instead of calling os.Exit from inside a
// callback invocation.
func installProcess(ctx *Context) {
	process := ctx.RT.VM.NewObject()
	process.Set("exit", func(call goja.FunctionCall) goja.Value {
		code := 0
		if raw := call.Argument(0); !goja.IsUndefined(raw) {
			code = int(raw.ToInteger())
		}
		ctx.RequestExit(code)
		return goja.Undefined()
	})
	ctx.RT.VM.Set("process", process)
}
