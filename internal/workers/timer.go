package workers

import (
	"sync"
	"time"

	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/envelope"
)

// Timers tracks the cancellable timer table backing clearTimeout/
// clearInterval: setTimeout/setInterval hand back a numeric id, and
// clearTimeout/clearInterval mark that id's entry cancelled. Cancellation is
// advisory only: a TimerFire envelope already sitting in the completion
// channel when the id is cleared still fires once.
type Timers struct {
	mu        sync.Mutex
	nextID    int64
	cancelled map[int64]bool
}

// NewTimers returns an empty timer table.
func NewTimers() *Timers {
	return &Timers{cancelled: make(map[int64]bool)}
}

// Alloc reserves and returns the next timer id.
func (t *Timers) Alloc() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	return t.nextID
}

// Cancel marks id cancelled. Safe to call for an id that already fired; an
// id that was never allocated is ignored.
func (t *Timers) Cancel(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id < 1 || id > t.nextID {
		return
	}
	t.cancelled[id] = true
}

// Cancelled reports whether id has been cancelled.
func (t *Timers) Cancelled(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled[id]
}

// ActiveCount returns the number of allocated timers not yet cancelled, for
// the admin surface's /debug/stats endpoint. This is an upper bound rather
// than an exact "still pending" count: a one-shot timer that already fired
// is not removed from the table, only cancellation shrinks it.
func (t *Timers) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.nextID) - len(t.cancelled)
}

// Timer spawns the delay-then-signal worker behind setTimeout/setInterval.
// It sleeps for the given duration, then (if not cancelled in the meantime)
// emits exactly one TimerFire; for a recurring timer it re-arms itself after
// every fire, checking the cancellation table again before each re-arm.
func Timer(pool Pool, timers *Timers, ch envelope.Chan, id int64, cb engine.Callback, delay time.Duration, recurring bool) {
	pool.Go(func() {
		for {
			time.Sleep(delay)
			if timers.Cancelled(id) {
				return
			}
			ch <- envelope.TimerFire{
				Callback:  cb,
				Recurring: recurring,
				Interval:  delay.Milliseconds(),
				TimerID:   id,
			}
			if !recurring {
				return
			}
		}
	})
}
