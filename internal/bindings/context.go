// Package bindings implements the host object bindings script code sees:
// console, timers, fs, and http, plus the request/response and
// incoming-message objects the event loop materializes on their behalf.
// Every binding here is synchronous and non-blocking: it validates its
// arguments, converts any function argument to an engine.Callback, and
// either throws a script exception for misuse or hands work to a
// workers.Pool and returns. The exception is the response object's
// .end(), which writes the reply to the connection on the calling
// goroutine. None of them invoke script callbacks directly — that is the
// Driver's job, over in internal/loop.
package bindings

import (
	"log/slog"
	"sync"

	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/envelope"
	"github.com/nodego-run/nodego/internal/workers"
)

// Context is the shared state every binding closes over: the runtime it
// installs globals onto, the pool it submits workers through, the send side
// of the completion channel, the cancellable timer table, and a logger.
type Context struct {
	RT     *engine.Runtime
	Pool   workers.Pool
	Ch     envelope.Chan
	Timers *workers.Timers
	Stats  *workers.Stats
	Log    *slog.Logger

	exitOnce sync.Once
	ExitCode int
}

// RequestExit closes the completion channel exactly once and records the
// exit code, so the Driver's normal drain-on-close path unwinds the loop
// instead of the binding calling os.Exit from inside a callback invocation.
// It backs process.exit(code?) and the Driver's own natural-termination
// check once the worker pool quiesces with nothing left queued.
func (ctx *Context) RequestExit(code int) {
	ctx.exitOnce.Do(func() {
		ctx.ExitCode = code
		close(ctx.Ch)
	})
}

// Install registers every host object and function onto ctx.RT's global
// object.
func Install(ctx *Context) {
	installConsole(ctx)
	installTimers(ctx)
	installFS(ctx)
	installHTTP(ctx)
	installOS(ctx)
	installProcess(ctx)
}
