// Package stream implements the small in-script event emitter that bridges
// lazy byte streams (an HTTP client response body, in this core) into script
// callbacks: registration appends, emission walks a snapshot in insertion
// order, and listeners are never removed by firing.
package stream

import (
	"sync"

	"github.com/nodego-run/nodego/internal/engine"
)

// Emitter maps event names ("data"/"end"/"error") to an ordered list of
// Callback handles. Registration and emission both run on the event-loop
// goroutine today; the mutex keeps it safe if a future reader worker ever
// touches it directly.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]engine.Callback
}

// NewEmitter returns an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string][]engine.Callback)}
}

// On registers cb for event, appending to any existing listeners.
func (e *Emitter) On(event string, cb engine.Callback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], cb)
}

// Listeners returns a snapshot of the listeners currently registered for
// event, in registration order. Re-entrant registration during emission (a
// listener that registers another listener for the same event) only affects
// listeners returned by a later call to Listeners, never the in-progress one.
func (e *Emitter) Listeners(event string) []engine.Callback {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]engine.Callback, len(e.listeners[event]))
	copy(out, e.listeners[event])
	return out
}

// IncomingMessage is the script-visible object representing a response
// stream (client side, the only direction this core implements) or a request
// body stream (server side, reserved for a future extension). It is shared
// between the event loop, which registers listeners while running the user's
// callback, and a single reader worker, which sends StreamData/StreamEnd/
// StreamError envelopes for it as bytes arrive; the event loop fires the
// listeners.
type IncomingMessage struct {
	Emitter *Emitter
}

// NewIncomingMessage returns an incoming message backed by a fresh emitter.
func NewIncomingMessage() *IncomingMessage {
	return &IncomingMessage{Emitter: NewEmitter()}
}
