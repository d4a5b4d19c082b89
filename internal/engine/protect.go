package engine

import (
	"github.com/dop251/goja"
)

// Protect pins an object value until a matching Unprotect. Primitive values
// carry no engine storage and are ignored.
func (e *Engine) Protect(v goja.Value) {
	obj, ok := AsObject(v)
	if !ok {
		return
	}
	e.protected[obj]++
	if e.protectHook != nil {
		e.protectHook(1)
	}
}

// Unprotect releases one Protect of v
func (e *Engine) Unprotect(v goja.Value) {
	obj, ok := AsObject(v)
	if !ok {
		return
	}
	n, ok := e.protected[obj]
	if !ok {
		return
	}
	if n <= 1 {
		delete(e.protected, obj)
	} else {
		e.protected[obj] = n - 1
	}
	if e.protectHook != nil {
		e.protectHook(-1)
	}
}

// IsProtected reports whether v is currently pinned
func (e *Engine) IsProtected(v goja.Value) bool {
	obj, ok := AsObject(v)
	if !ok {
		return false
	}
	return e.protected[obj] > 0
}

// ProtectedCount returns the number of outstanding protections
func (e *Engine) ProtectedCount() int {
	total := 0
	for _, n := range e.protected {
		total += n
	}
	return total
}

// SetProtectHook registers a callback observing protection count changes
func (e *Engine) SetProtectHook(hook func(delta int)) {
	e.protectHook = hook
}
