package v8

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// FunctionTemplate describes a constructor. Templates form a single
// inheritance chain through Inherit.
type FunctionTemplate struct {
	iso      *Isolate
	name     string
	parent   *FunctionTemplate
	instance *ObjectTemplate
}

// NewFunctionTemplate creates a function template
func NewFunctionTemplate(iso *Isolate, name string) *FunctionTemplate {
	return &FunctionTemplate{iso: iso, name: name}
}

func (t *FunctionTemplate) Name() string              { return t.name }
func (t *FunctionTemplate) Parent() *FunctionTemplate { return t.parent }

// Inherit makes parent the ancestor of t
func (t *FunctionTemplate) Inherit(parent *FunctionTemplate) {
	for p := parent; p != nil; p = p.parent {
		if p == t {
			t.iso.logger.Warn("template inheritance cycle ignored", zap.String("template", t.name))
			return
		}
	}
	t.parent = parent
}

// InstanceTemplate returns the template of objects constructed by t
func (t *FunctionTemplate) InstanceTemplate() *ObjectTemplate {
	if t.instance == nil {
		t.instance = &ObjectTemplate{iso: t.iso, constructor: t}
	}
	return t.instance
}

// HasInstance reports whether v or an object on its prototype chain was
// created from t or a descendant of t
func (t *FunctionTemplate) HasInstance(v *Value) bool {
	obj := v.AsObject()
	return obj != nil && obj.FindInstanceInPrototypeChain(t) != nil
}

type templateAccessor struct {
	name   string
	getter AccessorNameGetterCallback
	setter AccessorNameSetterCallback
	data   *Value
	attr   PropertyAttribute
}

// ObjectTemplate describes the shape of instances: their internal field
// count and the accessors installed on them
type ObjectTemplate struct {
	iso         *Isolate
	constructor *FunctionTemplate
	fieldCount  int
	accessors   []templateAccessor
}

// NewObjectTemplate creates a template with no constructor
func NewObjectTemplate(iso *Isolate) *ObjectTemplate {
	return &ObjectTemplate{iso: iso}
}

// Constructor returns the function template t belongs to, or nil
func (t *ObjectTemplate) Constructor() *FunctionTemplate {
	return t.constructor
}

func (t *ObjectTemplate) InternalFieldCount() int {
	return t.fieldCount
}

// SetInternalFieldCount sets the number of internal fields of instances
func (t *ObjectTemplate) SetInternalFieldCount(n int) {
	if n < 0 {
		n = 0
	}
	t.fieldCount = n
}

// SetAccessor records an accessor installed on every new instance
func (t *ObjectTemplate) SetAccessor(name string, getter AccessorNameGetterCallback, setter AccessorNameSetterCallback, data *Value, attr PropertyAttribute) {
	t.accessors = append(t.accessors, templateAccessor{
		name:   name,
		getter: getter,
		setter: setter,
		data:   data,
		attr:   attr,
	})
}

// NewInstance creates an object from the template
func (t *ObjectTemplate) NewInstance(ctx *Context) Maybe[*Object] {
	return t.NewInstanceWithPrototype(ctx, nil)
}

// NewInstanceWithPrototype creates an object from the template whose
// prototype is proto; a nil proto keeps Object.prototype
func (t *ObjectTemplate) NewInstanceWithPrototype(ctx *Context, proto *Object) Maybe[*Object] {
	s := ctx.begin()
	if s.fail(sourceHost, ctx.check()) {
		return Nothing[*Object]()
	}

	obj := ctx.engine.NewObject()
	if proto != nil {
		refs, err := ctx.natives(proto.Value)
		if s.fail(sourceHost, err) {
			return Nothing[*Object]()
		}
		if s.fail(sourceScript, ctx.engine.SetPrototype(obj, refs[0].ToObject(ctx.engine.Runtime()))) {
			return Nothing[*Object]()
		}
	}

	md := ctx.metadataOrCreate(obj)
	md.template = t
	md.fields = make([]goja.Value, t.fieldCount)

	instance := ctx.wrapObject(obj)
	for _, a := range t.accessors {
		name := NewString(ctx.iso, a.name).Name
		if instance.SetAccessor(ctx, name, a.getter, a.setter, a.data, a.attr).IsNothing() {
			return Nothing[*Object]()
		}
	}
	return Just(instance)
}
