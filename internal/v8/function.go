package v8

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/v8goja/internal/infrastructure/monitoring"
)

// functionRecord backs a host function; data stays protected until the
// function object is collected
type functionRecord struct {
	ctx      *Context
	callback FunctionCallback
	data     goja.Value
}

func (rec *functionRecord) call(call goja.FunctionCall) goja.Value {
	c := rec.ctx
	if c.check() != nil {
		return goja.Undefined()
	}

	args := make([]*Value, len(call.Arguments))
	for i, a := range call.Arguments {
		args[i] = c.wrap(a)
	}
	info := &FunctionCallbackInfo{
		iso:  c.iso,
		ctx:  c,
		this: c.receiverObject(call.This),
		args: args,
		data: c.wrap(rec.data),
		ret:  ReturnValue{iso: c.iso},
	}

	if exc := c.callback(monitoring.KindFunction, func() { rec.callback(info) }); exc != nil {
		c.throw(exc)
	}
	return c.result(&info.ret)
}

// NewFunction creates a script-callable function backed by callback
func NewFunction(ctx *Context, callback FunctionCallback, data *Value) Maybe[*Function] {
	s := ctx.begin()
	refs, err := ctx.natives(data)
	if s.fail(sourceHost, err) {
		return Nothing[*Function]()
	}
	if callback == nil {
		s.fail(sourceHost, ctx.typeError("function callback is required"))
		return Nothing[*Function]()
	}

	rec := &functionRecord{ctx: ctx, callback: callback, data: refs[0]}
	fn := ctx.engine.NewFunction(rec.call)
	ctx.metadataOrCreate(fn).function = rec
	ctx.engine.Protect(rec.data)

	return Just(&Function{ctx.wrapObject(fn)})
}

// Call invokes the function with recv as this
func (f *Function) Call(ctx *Context, recv *Value, args ...*Value) Maybe[*Value] {
	s := ctx.begin()
	if f == nil {
		s.fail(sourceHost, ctx.typeError("value is not a function"))
		return Nothing[*Value]()
	}
	fn, refs, err := ctx.receiver(f.Object, append([]*Value{recv}, args...)...)
	if s.fail(sourceHost, err) {
		return Nothing[*Value]()
	}
	ret, err := ctx.engine.Call(fn, refs[0], refs[1:]...)
	if s.fail(sourceScript, err) {
		return Nothing[*Value]()
	}
	return Just(ctx.wrap(ret))
}

// NewInstance calls the function as a constructor
func (f *Function) NewInstance(ctx *Context, args ...*Value) Maybe[*Object] {
	s := ctx.begin()
	if f == nil {
		s.fail(sourceHost, ctx.typeError("value is not a constructor"))
		return Nothing[*Object]()
	}
	fn, refs, err := ctx.receiver(f.Object, args...)
	if s.fail(sourceHost, err) {
		return Nothing[*Object]()
	}
	obj, err := ctx.engine.Construct(fn, refs...)
	if s.fail(sourceScript, err) {
		return Nothing[*Object]()
	}
	return Just(ctx.wrapObject(obj))
}

// GetName returns the function name
func (f *Function) GetName() *String {
	fn, ok := f.object()
	if !ok || f.ctx.check() != nil {
		return nil
	}
	name, err := f.ctx.engine.GetProperty(fn, "name")
	if err != nil {
		f.ctx.logger.Debug("function name lookup failed", zap.Error(err))
		return NewString(f.ctx.iso, "")
	}
	return NewString(f.ctx.iso, name.String())
}
