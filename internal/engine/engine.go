// Package engine wraps the embedded ECMAScript engine (github.com/dop251/goja)
// and the handful of primitives the rest of the runtime needs from it: a
// persistent handle to a script function (Callback), and a set of Script
// Value Materializer helpers that build goja values from plain Go payloads.
//
// Every exported function in this package that touches a *goja.Runtime or a
// Callback MUST be called only from the event-loop goroutine. goja does not
// enforce this itself; it is a discipline this package's callers must keep.
package engine

import (
	"fmt"

	"github.com/dop251/goja"
)

// Callback is a persistent handle to a script function, acquired the moment a
// binding receives a function argument. It remains valid for the lifetime of
// the Runtime it was captured from; goja keeps the underlying value alive, so
// there is nothing to release explicitly. The invariant this type cannot
// enforce on its own: Call must only run on the event-loop goroutine.
type Callback struct {
	fn goja.Callable
	rt *goja.Runtime
}

// NewCallback converts a script value into a Callback, or reports false if
// the value is not callable. Bindings use this to turn a raw goja.Value
// argument into a handle that survives past the binding call's return.
func NewCallback(rt *goja.Runtime, v goja.Value) (Callback, bool) {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return Callback{}, false
	}
	return Callback{fn: fn, rt: rt}, true
}

// Valid reports whether this handle was ever populated via NewCallback.
func (c Callback) Valid() bool { return c.fn != nil }

// Call invokes the stored function with the given arguments. Must only be
// called from the event-loop goroutine, inside a fresh execution scope.
func (c Callback) Call(args ...goja.Value) (goja.Value, error) {
	return c.fn(goja.Undefined(), args...)
}

// Runtime is the engine-owned state the Driver re-enters on every envelope:
// the goja runtime itself plus the globals a script reads during setup.
type Runtime struct {
	VM *goja.Runtime
}

// New constructs a fresh engine runtime with no host bindings installed yet;
// callers (internal/bindings) populate the globals afterward.
func New() *Runtime {
	return &Runtime{VM: goja.New()}
}

// Compile compiles source as a top-level script, not a module.
func (r *Runtime) Compile(name, source string) (*goja.Program, error) {
	return goja.Compile(name, source, false)
}

// Run evaluates a compiled program in the prepared global context.
func (r *Runtime) Run(prog *goja.Program) (goja.Value, error) {
	return r.VM.RunProgram(prog)
}

// ToValue lifts a Go value into a script value. Thin wrapper kept so call
// sites read "engine.ToValue" rather than reaching into goja directly.
func (r *Runtime) ToValue(v any) goja.Value {
	return r.VM.ToValue(v)
}

// Undefined and Null mirror the two script-visible absent values used for
// error-first callback arguments.
func Undefined() goja.Value { return goja.Undefined() }
func Null() goja.Value      { return goja.Null() }

// DescribeException renders a panic recovered from a script callback into the
// one-line message the Driver logs to standard error.
func DescribeException(r any) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", r)
}
