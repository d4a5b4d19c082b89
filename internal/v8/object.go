package v8

import (
	"github.com/dop251/goja"
)

// Snippets run as function(_1, ..., _n) in sloppy mode, so rejected writes
// and deletes report false instead of throwing. Built-ins are reached only
// through $i, never through replaceable globals.
const (
	snippetSet      = "_1[_2] = _3; return $i.is(_1[_2], _3)"
	snippetGet      = "return _1[_2]"
	snippetHas      = "return (_2 in _1)"
	snippetDelete   = "return delete _1[_2]"
	snippetOwnNames = "return $i.getOwnPropertyNames(_1)"
	snippetHasReal  = "return $i.getOwnPropertyDescriptor(_1, _2) !== undefined"
	snippetForIn    = "var keys = []; for (var k in _1) $i.append(keys, k); return keys"

	// _3, _4, _5 are ReadOnly, DontEnum, DontDelete. Accessor properties
	// have no own writable field and report ReadOnly.
	snippetAttributes = `var d = $i.getOwnPropertyDescriptor(_1, _2);
var attr = 0;
if (!d) return attr;
if (!($i.hasOwn(d, "writable") && d.writable)) attr |= _3;
if (!d.enumerable) attr |= _4;
if (!d.configurable) attr |= _5;
return attr`
)

// Set assigns value to key and reports whether the stored value equals the
// requested one. Frozen objects and transforming setters yield false.
func (o *Object) Set(ctx *Context, key, value *Value) Maybe[bool] {
	s := ctx.begin()
	obj, args, err := ctx.receiver(o, key, value)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	ret, err := ctx.exec("set", snippetSet, obj, args[0], args[1])
	if s.fail(sourceScript, err) {
		return Nothing[bool]()
	}
	return Just(ret.ToBoolean())
}

// SetIndex assigns value to the canonical key of index through the engine
// primitive, which throws when the write is rejected
func (o *Object) SetIndex(ctx *Context, index uint32, value *Value) Maybe[bool] {
	s := ctx.begin()
	obj, args, err := ctx.receiver(o, value)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	if s.fail(sourceScript, ctx.engine.SetProperty(obj, IndexKey(index), args[0])) {
		return Nothing[bool]()
	}
	return Just(true)
}

// Get reads key with full script semantics
func (o *Object) Get(ctx *Context, key *Value) Maybe[*Value] {
	s := ctx.begin()
	obj, args, err := ctx.receiver(o, key)
	if s.fail(sourceHost, err) {
		return Nothing[*Value]()
	}
	ret, err := ctx.exec("get", snippetGet, obj, args[0])
	if s.fail(sourceScript, err) {
		return Nothing[*Value]()
	}
	return Just(ctx.wrap(ret))
}

// GetIndex reads the canonical key of index
func (o *Object) GetIndex(ctx *Context, index uint32) Maybe[*Value] {
	s := ctx.begin()
	obj, _, err := ctx.receiver(o)
	if s.fail(sourceHost, err) {
		return Nothing[*Value]()
	}
	ret, err := ctx.engine.GetProperty(obj, IndexKey(index))
	if s.fail(sourceScript, err) {
		return Nothing[*Value]()
	}
	return Just(ctx.wrap(ret))
}

// Has applies the in operator, so inherited properties count
func (o *Object) Has(ctx *Context, key *Value) Maybe[bool] {
	s := ctx.begin()
	obj, args, err := ctx.receiver(o, key)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	ret, err := ctx.exec("has", snippetHas, obj, args[0])
	if s.fail(sourceScript, err) {
		return Nothing[bool]()
	}
	return Just(ret.ToBoolean())
}

// HasIndex reports whether the canonical key of index is visible
func (o *Object) HasIndex(ctx *Context, index uint32) Maybe[bool] {
	s := ctx.begin()
	obj, _, err := ctx.receiver(o)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	// goja has no side-effect free has-property call; HasProperty runs the
	// in operator as a snippet
	ok, err := ctx.engine.HasProperty(obj, IndexKey(index))
	if s.fail(sourceScript, err) {
		return Nothing[bool]()
	}
	return Just(ok)
}

// Delete applies the delete operator. Non-configurable properties yield
// false and persist.
func (o *Object) Delete(ctx *Context, key *Value) Maybe[bool] {
	s := ctx.begin()
	obj, args, err := ctx.receiver(o, key)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	ret, err := ctx.exec("delete", snippetDelete, obj, args[0])
	if s.fail(sourceScript, err) {
		return Nothing[bool]()
	}
	return Just(ret.ToBoolean())
}

// DeleteIndex removes the canonical key of index through the engine
// primitive. A rejected delete raises an exception.
func (o *Object) DeleteIndex(ctx *Context, index uint32) Maybe[bool] {
	s := ctx.begin()
	obj, _, err := ctx.receiver(o)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	ok, err := ctx.engine.DeleteProperty(obj, IndexKey(index))
	if s.fail(sourceScript, err) {
		return Nothing[bool]()
	}
	return Just(ok)
}

// GetPropertyAttributes derives attribute bits from the own property
// descriptor of key. A missing property yields None.
func (o *Object) GetPropertyAttributes(ctx *Context, key *Value) Maybe[PropertyAttribute] {
	s := ctx.begin()
	obj, args, err := ctx.receiver(o, key)
	if s.fail(sourceHost, err) {
		return Nothing[PropertyAttribute]()
	}
	vm := ctx.engine
	ret, err := ctx.exec("attributes", snippetAttributes, obj, args[0],
		vm.ToValue(int(ReadOnly)), vm.ToValue(int(DontEnum)), vm.ToValue(int(DontDelete)))
	if s.fail(sourceScript, err) {
		return Nothing[PropertyAttribute]()
	}
	return Just(PropertyAttribute(ret.ToInteger()))
}

// GetPropertyNames returns the enumerable keys a for-in loop visits,
// including inherited ones
func (o *Object) GetPropertyNames(ctx *Context) Maybe[*Array] {
	return o.names(ctx, "property_names", snippetForIn)
}

// GetOwnPropertyNames returns every own string key, enumerable or not
func (o *Object) GetOwnPropertyNames(ctx *Context) Maybe[*Array] {
	return o.names(ctx, "own_property_names", snippetOwnNames)
}

func (o *Object) names(ctx *Context, op, body string) Maybe[*Array] {
	s := ctx.begin()
	obj, _, err := ctx.receiver(o)
	if s.fail(sourceHost, err) {
		return Nothing[*Array]()
	}
	ret, err := ctx.exec(op, body, obj)
	if s.fail(sourceScript, err) {
		return Nothing[*Array]()
	}
	arr := ctx.wrap(ret).AsArray()
	if arr == nil {
		return Nothing[*Array]()
	}
	return Just(arr)
}

// HasRealNamedProperty reports whether key is an own property, bypassing
// interceptors
func (o *Object) HasRealNamedProperty(ctx *Context, key *Name) Maybe[bool] {
	if key == nil {
		return o.hasReal(ctx, nil)
	}
	return o.hasReal(ctx, key.Value)
}

// HasRealIndexedProperty reports whether the canonical key of index is an
// own property
func (o *Object) HasRealIndexedProperty(ctx *Context, index uint32) Maybe[bool] {
	return o.hasReal(ctx, NewString(ctx.iso, IndexKey(index)).Value)
}

func (o *Object) hasReal(ctx *Context, key *Value) Maybe[bool] {
	s := ctx.begin()
	obj, args, err := ctx.receiver(o, key)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	ret, err := ctx.exec("has_real", snippetHasReal, obj, args[0])
	if s.fail(sourceScript, err) {
		return Nothing[bool]()
	}
	return Just(ret.ToBoolean())
}

// GetConstructorName returns constructor.name, or nil when the object has
// no constructor object
func (o *Object) GetConstructorName() *String {
	ctx := o.ctx
	if ctx == nil {
		return nil
	}
	s := ctx.begin()
	obj, _, err := ctx.receiver(o)
	if s.fail(sourceHost, err) {
		return nil
	}
	ctor, err := ctx.engine.GetProperty(obj, "constructor")
	if s.fail(sourceScript, err) {
		return nil
	}
	ctorObj, ok := ctor.(*goja.Object)
	if !ok {
		return nil
	}
	name, err := ctx.engine.GetProperty(ctorObj, "name")
	if s.fail(sourceScript, err) {
		return nil
	}
	str, err := ctx.engine.Stringify(name)
	if s.fail(sourceScript, err) {
		return nil
	}
	return NewString(ctx.iso, str)
}

// GetPrototype returns the prototype, null for a null prototype
func (o *Object) GetPrototype() *Value {
	obj, ok := o.object()
	if !ok || o.ctx.check() != nil {
		return nil
	}
	proto := o.ctx.engine.GetPrototype(obj)
	if proto == nil {
		return Null(o.ctx.iso)
	}
	return o.ctx.wrap(proto)
}

// SetPrototype replaces the prototype with an object or null
func (o *Object) SetPrototype(ctx *Context, proto *Value) Maybe[bool] {
	s := ctx.begin()
	obj, args, err := ctx.receiver(o, proto)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	var p *goja.Object
	switch v := args[0].(type) {
	case *goja.Object:
		p = v
	default:
		if !goja.IsNull(v) {
			s.fail(sourceHost, ctx.typeError("Object prototype may only be an Object or null"))
			return Nothing[bool]()
		}
	}
	if s.fail(sourceScript, ctx.engine.SetPrototype(obj, p)) {
		return Nothing[bool]()
	}
	return Just(true)
}

// FindInstanceInPrototypeChain walks the prototype chain from the object
// and returns the first object created from tmpl or one of its
// descendants, or nil
func (o *Object) FindInstanceInPrototypeChain(tmpl *FunctionTemplate) *Object {
	obj, ok := o.object()
	if !ok || tmpl == nil || o.ctx.check() != nil {
		return nil
	}
	ctx := o.ctx
	for obj != nil {
		if md := ctx.metadata(obj); md != nil && md.template != nil {
			for t := md.template.constructor; t != nil; t = t.parent {
				if t == tmpl {
					return ctx.wrapObject(obj)
				}
			}
		}
		obj = ctx.engine.GetPrototype(obj)
	}
	return nil
}
