package v8

import (
	"github.com/dop251/goja"
)

// ReturnValue is the result slot of a callback. It starts out as the hole,
// which reads as undefined.
type ReturnValue struct {
	iso   *Isolate
	value *Value
}

// Set stores v; a nil handle stores undefined
func (r *ReturnValue) Set(v *Value) {
	if v == nil {
		v = Undefined(r.iso)
	}
	r.value = v
}

func (r *ReturnValue) SetUndefined()        { r.value = Undefined(r.iso) }
func (r *ReturnValue) SetNull()             { r.value = Null(r.iso) }
func (r *ReturnValue) SetBool(b bool)       { r.value = NewBoolean(r.iso, b) }
func (r *ReturnValue) SetInt32(i int32)     { r.value = NewInteger(r.iso, int64(i)) }
func (r *ReturnValue) SetNumber(f float64)  { r.value = NewNumber(r.iso, f) }
func (r *ReturnValue) SetString(s string)   { r.value = NewString(r.iso, s).Value }
func (r *ReturnValue) IsHole() bool         { return r.value == nil }
func (r *ReturnValue) GetIsolate() *Isolate { return r.iso }

// Get returns the stored value, undefined for the hole
func (r *ReturnValue) Get() *Value {
	if r.value == nil {
		return Undefined(r.iso)
	}
	return r.value
}

// AccessorNameGetterCallback computes a property value into
// info.GetReturnValue()
type AccessorNameGetterCallback func(property *Name, info *PropertyCallbackInfo)

// AccessorNameSetterCallback receives an assigned property value
type AccessorNameSetterCallback func(property *Name, value *Value, info *PropertyCallbackInfo)

// PropertyCallbackInfo is passed to accessor callbacks
type PropertyCallbackInfo struct {
	iso    *Isolate
	ctx    *Context
	this   *Object
	holder *Object
	data   *Value
	ret    ReturnValue
}

func (i *PropertyCallbackInfo) GetIsolate() *Isolate         { return i.iso }
func (i *PropertyCallbackInfo) Context() *Context            { return i.ctx }
func (i *PropertyCallbackInfo) This() *Object                { return i.this }
func (i *PropertyCallbackInfo) Holder() *Object              { return i.holder }
func (i *PropertyCallbackInfo) Data() *Value                 { return i.data }
func (i *PropertyCallbackInfo) GetReturnValue() *ReturnValue { return &i.ret }
func (i *PropertyCallbackInfo) ShouldThrowOnError() bool     { return false }

// FunctionCallback implements a script-callable host function
type FunctionCallback func(info *FunctionCallbackInfo)

// FunctionCallbackInfo is passed to function callbacks
type FunctionCallbackInfo struct {
	iso  *Isolate
	ctx  *Context
	this *Object
	args []*Value
	data *Value
	ret  ReturnValue
}

func (i *FunctionCallbackInfo) GetIsolate() *Isolate         { return i.iso }
func (i *FunctionCallbackInfo) Context() *Context            { return i.ctx }
func (i *FunctionCallbackInfo) This() *Object                { return i.this }
func (i *FunctionCallbackInfo) Holder() *Object              { return i.this }
func (i *FunctionCallbackInfo) Data() *Value                 { return i.data }
func (i *FunctionCallbackInfo) Length() int                  { return len(i.args) }
func (i *FunctionCallbackInfo) GetReturnValue() *ReturnValue { return &i.ret }

// Arg returns argument n, undefined past the end
func (i *FunctionCallbackInfo) Arg(n int) *Value {
	if n < 0 || n >= len(i.args) {
		return Undefined(i.iso)
	}
	return i.args[n]
}

// Args returns all arguments
func (i *FunctionCallbackInfo) Args() []*Value {
	return i.args
}

// callback runs fn as a host callback with c entered and a TryCatch open.
// It returns the exception fn raised, preferring a caught one over a
// scheduled one, and leaves the scheduled slot empty.
func (c *Context) callback(kind string, fn func()) (exc *Value) {
	iso := c.iso
	iso.metrics.RecordAccessor(kind)

	iso.scheduled = nil
	iso.callbackDepth++
	c.Enter()
	tc := iso.NewTryCatch()
	defer func() {
		tc.Close()
		c.Exit()
		iso.callbackDepth--
	}()

	fn()

	switch {
	case tc.HasCaught():
		exc = tc.Exception()
	case iso.scheduled != nil:
		exc = iso.scheduled
	}
	iso.scheduled = nil
	if exc != nil {
		iso.metrics.RecordException(sourceCallback)
	}
	return exc
}

// throw raises exc into the running script. It never returns.
func (c *Context) throw(exc *Value) {
	v, err := exc.native(c)
	if err != nil {
		panic(c.engine.NewTypeError(err.Error()))
	}
	panic(v)
}

// result resolves a callback return value for the engine
func (c *Context) result(ret *ReturnValue) goja.Value {
	v, err := ret.Get().native(c)
	if err != nil {
		panic(c.engine.NewTypeError(err.Error()))
	}
	return v
}

// receiverObject converts a callback receiver into an object handle.
// Missing receivers become the global object.
func (c *Context) receiverObject(this goja.Value) *Object {
	if this == nil || goja.IsUndefined(this) || goja.IsNull(this) {
		return c.wrapObject(c.engine.Runtime().GlobalObject())
	}
	if obj, ok := this.(*goja.Object); ok {
		return c.wrapObject(obj)
	}
	return c.wrapObject(this.ToObject(c.engine.Runtime()))
}
