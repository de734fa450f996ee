// Package workers implements the short-lived async tasks the runtime hands
// off the event loop: delay-then-signal, read-file, write-file,
// tcp-accept-loop, and tcp-connect-then-read. Each worker owns its side of
// an I/O resource, performs it off the event-loop goroutine, and emits
// exactly one terminal envelope (or a StreamEnd/StreamError for the
// streaming case) on every exit path.
package workers

import (
	"log/slog"
	"sync/atomic"

	"github.com/sourcegraph/conc"
)

// Pool is the submission interface workers are dispatched through:
// interchangeable goroutine pool backends behind one Go(func()) method, so
// the supervision strategy is swappable without touching binding code.
type Pool interface {
	// Go submits f to run concurrently. A panic inside f must not crash the
	// process; implementations are expected to recover and log it.
	Go(f func())
	// Wait blocks until every submitted f has returned. Used on shutdown so
	// in-flight workers get a chance to finish instead of being abandoned.
	Wait()
	// Active reports the number of submitted f's that have not yet returned.
	// The Driver polls this from its own goroutine to detect quiescence; it
	// only ever goes up from a Go() call made synchronously on that same
	// goroutine or from inside a worker that is itself still counted (the
	// accept loop's per-connection workers), so it cannot rise from zero
	// behind the Driver's back.
	Active() int64
}

// concPool is the default Pool, backed by sourcegraph/conc's WaitGroup. A
// panicking worker is recovered and logged instead of taking down the
// process.
type concPool struct {
	wg     conc.WaitGroup
	log    *slog.Logger
	active atomic.Int64
}

// NewPool returns the default conc-backed Pool.
func NewPool(log *slog.Logger) Pool {
	return &concPool{log: log}
}

func (p *concPool) Go(f func()) {
	p.active.Add(1)
	p.wg.Go(func() {
		defer func() {
			p.active.Add(-1)
			if r := recover(); r != nil {
				p.log.Error("worker panic recovered", "panic", r)
			}
		}()
		f()
	})
}

func (p *concPool) Wait() {
	p.wg.Wait()
}

func (p *concPool) Active() int64 {
	return p.active.Load()
}
