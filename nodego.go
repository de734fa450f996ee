// Package nodego wires the embedded JavaScript engine, the host object
// bindings, the async worker pool, and the event loop driver into a single
// runnable unit.
package nodego

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nodego-run/nodego/internal/admin"
	"github.com/nodego-run/nodego/internal/bindings"
	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/envelope"
	"github.com/nodego-run/nodego/internal/loop"
	"github.com/nodego-run/nodego/internal/workers"
)

// Option configures a Runtime before Run starts it.
type Option func(*Runtime)

// WithLogger overrides the default stderr slog.Logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runtime) { r.log = log }
}

// WithAdminAddr starts the observability surface on addr once Run begins.
// Empty (the default) leaves it disabled.
func WithAdminAddr(addr string) Option {
	return func(r *Runtime) { r.adminAddr = addr }
}

// Runtime is one instance of the embedded JavaScript runtime: one goja
// engine, one completion channel, one worker pool, one event loop driver.
type Runtime struct {
	rt        *engine.Runtime
	ch        envelope.Chan
	pool      workers.Pool
	timers    *workers.Timers
	stats     *workers.Stats
	driver    *loop.Driver
	ctx       *bindings.Context
	log       *slog.Logger
	adminAddr string
}

// New constructs a Runtime with every host binding installed and ready to
// evaluate a script.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		rt:     engine.New(),
		ch:     make(envelope.Chan, 64),
		timers: workers.NewTimers(),
		stats:  &workers.Stats{},
		log:    slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pool = workers.NewPool(r.log)

	r.ctx = &bindings.Context{
		RT:     r.rt,
		Pool:   r.pool,
		Ch:     r.ch,
		Timers: r.timers,
		Stats:  r.stats,
		Log:    r.log,
	}
	bindings.Install(r.ctx)

	r.driver = loop.New(r.rt, r.ch, r.log, r.pool, r.ctx)

	return r
}

// Run compiles and evaluates source under name, then drives the event loop
// until the completion channel closes and drains. It returns the process
// exit code to use: 1 on startup failure, otherwise the code set via
// process.exit (default 0).
func (r *Runtime) Run(name, source string) int {
	if r.adminAddr != "" {
		srv := admin.New(r.adminAddr, r.statsSource())
		go func() {
			if err := srv.ListenAndServe(); err != nil {
				r.log.Error("admin surface stopped", "error", err)
			}
		}()
	}

	prog, err := r.rt.Compile(name, source)
	if err != nil {
		fmt.Fprintln(os.Stderr, "compile error:", err)
		return 1
	}

	if _, err := r.rt.Run(prog); err != nil {
		r.log.Error("uncaught script exception during evaluation", "error", err)
	}

	r.driver.Run()
	r.pool.Wait()

	return r.ctx.ExitCode
}

func (r *Runtime) statsSource() *runtimeStats {
	return &runtimeStats{r: r}
}

// runtimeStats adapts a Runtime to admin.Sources without handing the admin
// package a reference to internal engine/bindings state it has no business
// touching.
type runtimeStats struct{ r *Runtime }

func (s *runtimeStats) ActiveTimers() int          { return s.r.timers.ActiveCount() }
func (s *runtimeStats) ChannelDepth() int          { return len(s.r.ch) }
func (s *runtimeStats) ConnectionsAccepted() int64 { return s.r.stats.ConnectionsAccepted.Load() }
