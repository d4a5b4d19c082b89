package v8

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/v8goja/internal/infrastructure/monitoring"
)

// accessorRecord backs one installed getter/setter pair. It is owned by the
// callable that closes over it; property and data stay protected until that
// callable is collected.
type accessorRecord struct {
	getter   AccessorNameGetterCallback
	setter   AccessorNameSetterCallback
	ctx      *Context
	property goja.Value
	data     goja.Value
}

// Installs _3/_4 as getter/setter of _1[_2]; either may be undefined.
// _5 is enumerability, _6 suppresses the pass-through setter.
const snippetDefineAccessor = `delete _1[_2];
var d = $i.create(null);
d.configurable = true;
d.enumerable = _5;
if (_3 && _4) {
	d.get = _3;
	d.set = _4;
} else if (_3) {
	d.get = _3;
	if (!_6) d.set = function (v) { $i.defineProperty(this, _2, { value: v, writable: true, enumerable: _5, configurable: true }); };
} else {
	var stored = $i.weakMap();
	d.get = function () { return stored.get(this); };
	d.set = function (v) { $i.call(_4, this, v); stored.set(this, v); };
}
$i.defineProperty(_1, _2, d);
return true`

// call is the engine entry point of the accessor. No arguments means a
// read, otherwise the first argument is the assigned value.
func (rec *accessorRecord) call(call goja.FunctionCall) goja.Value {
	c := rec.ctx
	if c.check() != nil {
		return goja.Undefined()
	}

	this := c.receiverObject(call.This)
	info := &PropertyCallbackInfo{
		iso:    c.iso,
		ctx:    c,
		this:   this,
		holder: this,
		data:   c.wrap(rec.data),
		ret:    ReturnValue{iso: c.iso},
	}
	name := &Name{c.wrap(rec.property)}

	if len(call.Arguments) == 0 {
		if rec.getter == nil {
			return goja.Undefined()
		}
		if exc := c.callback(monitoring.KindGetter, func() { rec.getter(name, info) }); exc != nil {
			c.throw(exc)
		}
		return c.result(&info.ret)
	}

	if rec.setter == nil {
		return goja.Undefined()
	}
	value := c.wrap(call.Arguments[0])
	if exc := c.callback(monitoring.KindSetter, func() { rec.setter(name, value, info) }); exc != nil {
		c.throw(exc)
	}
	return goja.Undefined()
}

// SetAccessor installs host callbacks as an accessor property of the
// object, replacing any own property of the same name. The property is
// always configurable; DontEnum hides it from enumeration and ReadOnly
// drops the pass-through setter of a getter-only accessor.
func (o *Object) SetAccessor(ctx *Context, name *Name, getter AccessorNameGetterCallback, setter AccessorNameSetterCallback, data *Value, attr PropertyAttribute) Maybe[bool] {
	if getter == nil && setter == nil {
		ctx.logger.Warn("accessor has neither getter nor setter")
		return Just(false)
	}

	s := ctx.begin()
	var key *Value
	if name != nil {
		key = name.Value
	}
	obj, args, err := ctx.receiver(o, key, data)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}

	rec := &accessorRecord{
		getter:   getter,
		setter:   setter,
		ctx:      ctx,
		property: args[0],
		data:     args[1],
	}
	fn := ctx.engine.NewFunction(rec.call)
	ctx.metadataOrCreate(fn).accessor = rec
	ctx.engine.Protect(rec.property)
	ctx.engine.Protect(rec.data)

	get, set := goja.Undefined(), goja.Undefined()
	if getter != nil {
		get = fn
	}
	if setter != nil {
		set = fn
	}
	if s.fail(sourceScript, ctx.defineAccessor(obj, rec.property, get, set, attr)) {
		return Nothing[bool]()
	}

	ctx.logger.Debug("accessor installed",
		zap.String("property", ctx.wrap(rec.property).String()),
		zap.Bool("getter", getter != nil),
		zap.Bool("setter", setter != nil),
	)
	return Just(true)
}

// SetNativeDataProperty installs host callbacks like SetAccessor
func (o *Object) SetNativeDataProperty(ctx *Context, name *Name, getter AccessorNameGetterCallback, setter AccessorNameSetterCallback, data *Value, attr PropertyAttribute) Maybe[bool] {
	return o.SetAccessor(ctx, name, getter, setter, data, attr)
}

// SetAccessorProperty installs script functions as getter and setter.
// Either may be nil.
func (o *Object) SetAccessorProperty(ctx *Context, name *Name, getter, setter *Function, attr PropertyAttribute) Maybe[bool] {
	s := ctx.begin()
	var key, get, set *Value
	if name != nil {
		key = name.Value
	}
	if getter != nil {
		get = getter.Value
	}
	if setter != nil {
		set = setter.Value
	}
	obj, args, err := ctx.receiver(o, key, get, set)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	if s.fail(sourceScript, ctx.defineAccessor(obj, args[0], args[1], args[2], attr)) {
		return Nothing[bool]()
	}
	return Just(true)
}

func (c *Context) defineAccessor(obj *goja.Object, key, get, set goja.Value, attr PropertyAttribute) error {
	vm := c.engine
	_, err := c.exec("define_accessor", snippetDefineAccessor,
		obj, key, get, set, vm.ToValue(!attr.Has(DontEnum)), vm.ToValue(attr.Has(ReadOnly)))
	return err
}
