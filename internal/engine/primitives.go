package engine

import (
	"reflect"

	"github.com/dop251/goja"
)

var typeArrayBuffer = reflect.TypeOf(goja.ArrayBuffer{})

// ToValue converts a Go value into an engine value
func (e *Engine) ToValue(v any) goja.Value {
	return e.vm.ToValue(v)
}

// NewObject creates an empty object with Object.prototype as prototype
func (e *Engine) NewObject() *goja.Object {
	return e.vm.NewObject()
}

// NewBareObject creates an object with a null prototype
func (e *Engine) NewBareObject() *goja.Object {
	return e.vm.CreateObject(nil)
}

// NewArray creates an array holding items
func (e *Engine) NewArray(items ...any) *goja.Object {
	return e.vm.NewArray(items...)
}

// NewFunction creates a callable object backed by fn
func (e *Engine) NewFunction(fn func(goja.FunctionCall) goja.Value) *goja.Object {
	return e.vm.ToValue(fn).(*goja.Object)
}

// NewError creates an Error instance with the given message
func (e *Engine) NewError(msg string) goja.Value {
	if obj, err := e.vm.New(e.errorCtor, e.vm.ToValue(msg)); err == nil {
		return obj
	}
	return e.vm.NewGoError(errorString(msg))
}

// NewTypeError creates a TypeError instance with the given message
func (e *Engine) NewTypeError(msg string) goja.Value {
	return e.vm.NewTypeError(msg)
}

type errorString string

func (s errorString) Error() string { return string(s) }

// GetProperty reads a property, running getters
func (e *Engine) GetProperty(obj *goja.Object, key string) (ret goja.Value, err error) {
	e.DrainReclaimed()
	err = catch(func() {
		ret = obj.Get(key)
	})
	if err != nil {
		return nil, err
	}
	if ret == nil {
		ret = goja.Undefined()
	}
	return ret, nil
}

// SetProperty assigns a property; a rejected assignment raises an exception
func (e *Engine) SetProperty(obj *goja.Object, key string, value goja.Value) error {
	e.DrainReclaimed()
	var err error
	if cerr := catch(func() {
		err = obj.Set(key, value)
	}); cerr != nil {
		return cerr
	}
	return wrapError(err)
}

// HasProperty reports whether key is visible on obj or its prototype chain.
// goja exposes no has-property call, so this runs the in operator as a snippet.
func (e *Engine) HasProperty(obj *goja.Object, key string) (bool, error) {
	ret, err := e.Exec("return _2 in _1", obj, e.vm.ToValue(key))
	if err != nil {
		return false, err
	}
	return ret.ToBoolean(), nil
}

// DeleteProperty removes an own property; deleting a non-configurable
// property raises an exception
func (e *Engine) DeleteProperty(obj *goja.Object, key string) (bool, error) {
	e.DrainReclaimed()
	var err error
	if cerr := catch(func() {
		err = obj.Delete(key)
	}); cerr != nil {
		return false, cerr
	}
	if err != nil {
		return false, wrapError(err)
	}
	return true, nil
}

// GetPrototype returns the prototype of obj, nil for a null prototype
func (e *Engine) GetPrototype(obj *goja.Object) *goja.Object {
	return obj.Prototype()
}

// SetPrototype replaces the prototype of obj; nil sets a null prototype
func (e *Engine) SetPrototype(obj, proto *goja.Object) error {
	var err error
	if cerr := catch(func() {
		err = obj.SetPrototype(proto)
	}); cerr != nil {
		return cerr
	}
	return wrapError(err)
}

// IsArrayBuffer reports whether v is an ArrayBuffer
func (e *Engine) IsArrayBuffer(v goja.Value) bool {
	obj, ok := v.(*goja.Object)
	if !ok || obj == nil {
		return false
	}
	return obj.ExportType() == typeArrayBuffer
}

// IsArrayBufferView reports whether v is a typed array or DataView
func (e *Engine) IsArrayBufferView(v goja.Value) bool {
	if _, ok := v.(*goja.Object); !ok {
		return false
	}
	ret, err := e.isView(goja.Undefined(), v)
	return err == nil && ret.ToBoolean()
}

// IsFunction reports whether v is callable
func IsFunction(v goja.Value) bool {
	_, ok := goja.AssertFunction(v)
	return ok
}

// AsObject returns v as an object when it is one
func AsObject(v goja.Value) (*goja.Object, bool) {
	obj, ok := v.(*goja.Object)
	return obj, ok && obj != nil
}

// Stringify converts v to a string, running toString for objects
func (e *Engine) Stringify(v goja.Value) (s string, err error) {
	if v == nil {
		return "", nil
	}
	err = catch(func() {
		s = v.String()
	})
	return s, err
}

// GetOwnSymbol reads a symbol-keyed property; ok is false when it is absent
func (e *Engine) GetOwnSymbol(obj *goja.Object, sym *goja.Symbol) (ret goja.Value, ok bool, err error) {
	err = catch(func() {
		ret = obj.GetSymbol(sym)
	})
	return ret, err == nil && ret != nil, err
}

// SetSymbol assigns a symbol-keyed property
func (e *Engine) SetSymbol(obj *goja.Object, sym *goja.Symbol, value goja.Value) error {
	var err error
	if cerr := catch(func() {
		err = obj.SetSymbol(sym, value)
	}); cerr != nil {
		return cerr
	}
	return wrapError(err)
}

// DeleteSymbol removes a symbol-keyed property
func (e *Engine) DeleteSymbol(obj *goja.Object, sym *goja.Symbol) error {
	var err error
	if cerr := catch(func() {
		err = obj.DeleteSymbol(sym)
	}); cerr != nil {
		return cerr
	}
	return wrapError(err)
}

// Export converts v into a plain Go value, running getters as needed
func (e *Engine) Export(v goja.Value) (out any, err error) {
	if v == nil {
		return nil, nil
	}
	err = catch(func() {
		out = v.Export()
	})
	return out, err
}

// Call invokes fn with the given receiver
func (e *Engine) Call(fn goja.Value, this goja.Value, args ...goja.Value) (goja.Value, error) {
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, &Exception{Value: e.vm.NewTypeError("value is not a function")}
	}
	ret, err := callable(this, args...)
	if err != nil {
		return nil, wrapError(err)
	}
	if ret == nil {
		ret = goja.Undefined()
	}
	return ret, nil
}

// Construct applies new to ctor
func (e *Engine) Construct(ctor goja.Value, args ...goja.Value) (obj *goja.Object, err error) {
	if cerr := catch(func() {
		obj, err = e.vm.New(ctor, args...)
	}); cerr != nil {
		return nil, cerr
	}
	if err != nil {
		return nil, wrapError(err)
	}
	return obj, nil
}
