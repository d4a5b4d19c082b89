package v8

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/v8goja/internal/engine"
	"github.com/GriffinCanCode/v8goja/internal/logging"
	"github.com/GriffinCanCode/v8goja/internal/shared/id"
)

// Context is an execution environment backed by its own engine
type Context struct {
	iso      *Isolate
	id       id.ContextID
	engine   *engine.Engine
	logger   *zap.Logger
	disposed bool
}

// NewContext creates a context in iso
func NewContext(iso *Isolate) (*Context, error) {
	if iso.disposed {
		return nil, ErrDisposed
	}

	eng, err := engine.New(iso.config.Engine)
	if err != nil {
		return nil, fmt.Errorf("v8: create context: %w", err)
	}

	ctxID := id.NewContextID()
	c := &Context{
		iso:    iso,
		id:     ctxID,
		engine: eng,
		logger: iso.logger.With(logging.Context(ctxID)),
	}
	eng.SetProtectHook(iso.metrics.AddProtected)

	iso.contexts = append(iso.contexts, c)
	c.logger.Info("context created")
	return c, nil
}

func (c *Context) ID() id.ContextID    { return c.id }
func (c *Context) Isolate() *Isolate   { return c.iso }
func (c *Context) IsDisposed() bool    { return c.disposed }
func (c *Context) Logger() *zap.Logger { return c.logger }

// Enter makes c the isolate's current context until the matching Exit
func (c *Context) Enter() {
	c.iso.entered = append(c.iso.entered, c)
}

// Exit leaves c. Contexts must be exited in reverse order of entry.
func (c *Context) Exit() {
	entered := c.iso.entered
	n := len(entered)
	if n == 0 {
		c.logger.Warn("exit without matching enter")
		return
	}
	if entered[n-1] != c {
		c.logger.Warn("context exited out of order")
		for i := n - 1; i >= 0; i-- {
			if entered[i] == c {
				c.iso.entered = append(entered[:i], entered[i+1:]...)
				return
			}
		}
		return
	}
	c.iso.entered = entered[:n-1]
}

// Global returns the global object, or nil once disposed
func (c *Context) Global() *Object {
	if c.disposed {
		return nil
	}
	return &Object{c.wrap(c.engine.Runtime().GlobalObject())}
}

// RunScript compiles and runs source. goctx bounds the run together with
// the configured script timeout.
func (c *Context) RunScript(goctx context.Context, name, source string) Maybe[*Value] {
	s := c.begin()
	if s.fail(sourceHost, c.check()) {
		return Nothing[*Value]()
	}

	start := time.Now()
	val, err := c.engine.Run(goctx, name, source)
	c.iso.metrics.ObserveScript(time.Since(start))

	if s.fail(sourceScript, err) {
		return Nothing[*Value]()
	}
	return Just(c.wrap(val))
}

// Dispose releases the engine. Metadata attached to objects of this context
// is released and its references unprotected.
func (c *Context) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	if err := c.engine.Close(); err != nil {
		c.logger.Warn("engine close failed", zap.Error(err))
	}
	c.iso.removeContext(c)
	c.logger.Info("context disposed")
}

// check reports a disposed context or isolate as an error
func (c *Context) check() error {
	if c.disposed || c.iso.disposed {
		return ErrDisposed
	}
	return nil
}

// exec evaluates a snippet and counts it under op
func (c *Context) exec(op, body string, args ...goja.Value) (goja.Value, error) {
	c.iso.metrics.RecordSnippet(op)
	return c.engine.Exec(body, args...)
}

// natives resolves handles against c
func (c *Context) natives(handles ...*Value) ([]goja.Value, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	out := make([]goja.Value, len(handles))
	for i, h := range handles {
		v, err := h.native(c)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *Context) wrap(v goja.Value) *Value {
	if v == nil {
		v = goja.Undefined()
	}
	return &Value{iso: c.iso, ctx: c, ref: v}
}

func (c *Context) wrapObject(obj *goja.Object) *Object {
	if obj == nil {
		return nil
	}
	return &Object{c.wrap(obj)}
}

// receiver resolves an object handle together with its arguments
func (c *Context) receiver(o *Object, args ...*Value) (*goja.Object, []goja.Value, error) {
	if o == nil {
		return nil, nil, engine.ErrNotObject
	}
	refs, err := c.natives(append([]*Value{o.Value}, args...)...)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := refs[0].(*goja.Object)
	if !ok || obj == nil {
		return nil, nil, engine.ErrNotObject
	}
	return obj, refs[1:], nil
}
