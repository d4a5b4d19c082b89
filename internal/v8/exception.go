package v8

import (
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/v8goja/internal/engine"
	"github.com/GriffinCanCode/v8goja/internal/infrastructure/monitoring"
)

const (
	sourceScript   = monitoring.SourceScript
	sourceHost     = monitoring.SourceHost
	sourceCallback = monitoring.SourceCallback
)

// ErrCrossContext is raised (as a TypeError) when an object handle is used
// in a context other than the one that created it.
var ErrCrossContext = errors.New("v8: object belongs to another context")

// scope wraps one call into the engine. Opening it drops the stale pending
// exception; fail routes a new one.
type scope struct {
	ctx *Context
}

func (c *Context) begin() scope {
	c.iso.pending = nil
	return scope{ctx: c}
}

// fail converts err into a script exception and routes it. It reports
// whether err was non-nil; callers return Nothing when it is true.
func (s scope) fail(source string, err error) bool {
	if err == nil {
		return false
	}
	s.ctx.iso.metrics.RecordException(source)
	s.ctx.iso.route(s.ctx.exceptionValue(err))
	return true
}

// exceptionValue returns the script value carried by err, creating an
// error object for host-side failures
func (c *Context) exceptionValue(err error) *Value {
	var ex *engine.Exception
	if errors.As(err, &ex) && ex.Value != nil {
		return c.wrap(ex.Value)
	}
	if c.engine.Closed() {
		return NewString(c.iso, err.Error()).Value
	}
	if errors.Is(err, ErrCrossContext) || errors.Is(err, engine.ErrNotObject) {
		return c.wrap(c.engine.NewTypeError(err.Error()))
	}
	return c.wrap(c.engine.NewError(err.Error()))
}

// route delivers exc to the innermost open TryCatch, or to the pending slot
// when none is open. Either way it replaces what was there.
func (iso *Isolate) route(exc *Value) {
	if n := len(iso.tryCatches); n > 0 {
		iso.tryCatches[n-1].exception = exc
		iso.logger.Debug("exception caught", zap.String("type", exc.TypeOf()), zap.Int("depth", n))
		return
	}
	iso.pending = exc
	iso.logger.Debug("exception pending", zap.String("type", exc.TypeOf()))
}

// TryCatch captures exceptions raised while it is the innermost open one.
// TryCatches nest and must be closed in reverse order of creation.
type TryCatch struct {
	iso       *Isolate
	exception *Value
	rethrow   bool
	closed    bool
}

// NewTryCatch opens a TryCatch
func (iso *Isolate) NewTryCatch() *TryCatch {
	tc := &TryCatch{iso: iso}
	iso.tryCatches = append(iso.tryCatches, tc)
	return tc
}

func (t *TryCatch) HasCaught() bool {
	return t.exception != nil
}

// Exception returns the caught exception, or nil
func (t *TryCatch) Exception() *Value {
	return t.exception
}

// Message returns the string form of the caught exception
func (t *TryCatch) Message() string {
	if t.exception == nil {
		return ""
	}
	return t.exception.String()
}

// ReThrow passes the caught exception to the enclosing handler on Close
func (t *TryCatch) ReThrow() *Value {
	t.rethrow = true
	return Undefined(t.iso)
}

// Reset forgets the caught exception
func (t *TryCatch) Reset() {
	t.exception = nil
	t.rethrow = false
}

// Close removes the TryCatch from the isolate
func (t *TryCatch) Close() {
	if t.closed {
		return
	}
	t.closed = true

	stack := t.iso.tryCatches
	n := len(stack)
	switch {
	case n > 0 && stack[n-1] == t:
		t.iso.tryCatches = stack[:n-1]
	default:
		t.iso.logger.Warn("try/catch closed out of order")
		for i := n - 1; i >= 0; i-- {
			if stack[i] == t {
				t.iso.tryCatches = append(stack[:i], stack[i+1:]...)
				break
			}
		}
	}

	if t.rethrow && t.exception != nil {
		t.iso.route(t.exception)
	}
}

// typeError returns an engine exception carrying a TypeError of c
func (c *Context) typeError(msg string) error {
	return &engine.Exception{Value: c.engine.NewTypeError(msg)}
}

// NewError creates an Error object for ThrowException. On a disposed
// context the message is returned as a string.
func NewError(ctx *Context, message string) *Value {
	if ctx.check() != nil {
		return NewString(ctx.iso, message).Value
	}
	return ctx.wrap(ctx.engine.NewError(message))
}

// NewTypeError creates a TypeError object for ThrowException
func NewTypeError(ctx *Context, message string) *Value {
	if ctx.check() != nil {
		return NewString(ctx.iso, message).Value
	}
	return ctx.wrap(ctx.engine.NewTypeError(message))
}
