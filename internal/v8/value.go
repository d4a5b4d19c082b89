package v8

import (
	"math"
	"reflect"
	"strconv"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/v8goja/internal/engine"
)

var (
	typeString  = reflect.TypeOf("")
	typeInt64   = reflect.TypeOf(int64(0))
	typeFloat64 = reflect.TypeOf(float64(0))
	typeBool    = reflect.TypeOf(false)
)

// Value is a handle to an engine value. Primitive values created from an
// isolate carry no context.
type Value struct {
	iso *Isolate
	ctx *Context
	ref goja.Value
}

// Object is a handle to a script object
type Object struct{ *Value }

// Function is a handle to a callable object
type Function struct{ *Object }

// Array is a handle to an array object
type Array struct{ *Object }

// Name is a property key: a string or a symbol
type Name struct{ *Value }

// String is a handle to a string primitive
type String struct{ *Name }

// Symbol is a handle to a symbol
type Symbol struct{ *Name }

// External is an object that carries an opaque Go value
type External struct{ *Value }

// Private is an isolate-wide key for private properties. Private keys are
// never visible to script.
type Private struct {
	name string
	sym  *goja.Symbol
}

// IndexKey formats an array index as a property key
func IndexKey(index uint32) string {
	return strconv.FormatUint(uint64(index), 10)
}

func Undefined(iso *Isolate) *Value {
	return &Value{iso: iso, ref: goja.Undefined()}
}

func Null(iso *Isolate) *Value {
	return &Value{iso: iso, ref: goja.Null()}
}

func True(iso *Isolate) *Value {
	return NewBoolean(iso, true)
}

func False(iso *Isolate) *Value {
	return NewBoolean(iso, false)
}

func NewBoolean(iso *Isolate, b bool) *Value {
	return &Value{iso: iso, ref: iso.primitives.ToValue(b)}
}

func NewString(iso *Isolate, s string) *String {
	return &String{&Name{&Value{iso: iso, ref: iso.primitives.ToValue(s)}}}
}

func NewNumber(iso *Isolate, f float64) *Value {
	return &Value{iso: iso, ref: iso.primitives.ToValue(f)}
}

func NewInteger(iso *Isolate, i int64) *Value {
	return &Value{iso: iso, ref: iso.primitives.ToValue(i)}
}

// NewSymbol creates a unique symbol
func NewSymbol(iso *Isolate, description string) *Symbol {
	return &Symbol{&Name{&Value{iso: iso, ref: goja.NewSymbol(description)}}}
}

// NewPrivate creates a private key
func NewPrivate(iso *Isolate, name string) *Private {
	return &Private{name: name, sym: goja.NewSymbol(name)}
}

// Name returns the name the key was created with
func (p *Private) Name() string {
	return p.name
}

// NewObject creates an empty object in ctx
func NewObject(ctx *Context) *Object {
	if ctx.check() != nil {
		return nil
	}
	return ctx.wrapObject(ctx.engine.NewObject())
}

// NewArray creates an array holding items
func NewArray(ctx *Context, items ...*Value) Maybe[*Array] {
	s := ctx.begin()
	refs, err := ctx.natives(items...)
	if s.fail(sourceHost, err) {
		return Nothing[*Array]()
	}
	elems := make([]any, len(refs))
	for i, r := range refs {
		elems[i] = r
	}
	return Just(&Array{ctx.wrapObject(ctx.engine.NewArray(elems...))})
}

// NewExternal wraps data in an object opaque to script
func NewExternal(ctx *Context, data any) *External {
	if ctx.check() != nil {
		return nil
	}
	obj := ctx.engine.NewBareObject()
	md := ctx.metadataOrCreate(obj)
	md.external = data
	md.isExternal = true
	return &External{ctx.wrap(obj)}
}

// Data returns the wrapped Go value
func (e *External) Data() any {
	obj, ok := e.ref.(*goja.Object)
	if !ok || e.ctx == nil {
		return nil
	}
	if md := e.ctx.metadata(obj); md != nil {
		return md.external
	}
	return nil
}

// native resolves the handle in ctx. A nil handle is undefined.
func (v *Value) native(ctx *Context) (goja.Value, error) {
	if v == nil || v.ref == nil {
		return goja.Undefined(), nil
	}
	if _, ok := v.ref.(*goja.Object); ok && v.ctx != ctx {
		return nil, ErrCrossContext
	}
	return v.ref, nil
}

func (v *Value) object() (*goja.Object, bool) {
	if v == nil {
		return nil, false
	}
	obj, ok := v.ref.(*goja.Object)
	return obj, ok && obj != nil
}

// Context returns the context an object handle belongs to; nil for
// context-free primitives
func (v *Value) Context() *Context {
	return v.ctx
}

// Isolate returns the owning isolate
func (v *Value) Isolate() *Isolate {
	return v.iso
}

func (v *Value) IsUndefined() bool {
	return v.ref == nil || goja.IsUndefined(v.ref)
}

func (v *Value) IsNull() bool {
	return goja.IsNull(v.ref)
}

func (v *Value) IsNullOrUndefined() bool {
	return v.IsUndefined() || v.IsNull()
}

func (v *Value) IsObject() bool {
	_, ok := v.object()
	return ok
}

func (v *Value) IsFunction() bool {
	_, ok := v.object()
	return ok && engine.IsFunction(v.ref)
}

func (v *Value) IsArray() bool {
	obj, ok := v.object()
	return ok && obj.ClassName() == "Array"
}

func (v *Value) IsSymbol() bool {
	_, ok := v.ref.(*goja.Symbol)
	return ok
}

func (v *Value) IsString() bool {
	return v.primitiveType() == typeString
}

func (v *Value) IsName() bool {
	return v.IsString() || v.IsSymbol()
}

func (v *Value) IsNumber() bool {
	t := v.primitiveType()
	return t == typeInt64 || t == typeFloat64
}

func (v *Value) IsInt32() bool {
	if !v.IsNumber() {
		return false
	}
	f := v.ref.ToFloat()
	return f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32 && !(f == 0 && math.Signbit(f))
}

func (v *Value) IsBoolean() bool {
	return v.primitiveType() == typeBool
}

func (v *Value) IsTrue() bool {
	return v.IsBoolean() && v.ref.ToBoolean()
}

func (v *Value) IsFalse() bool {
	return v.IsBoolean() && !v.ref.ToBoolean()
}

func (v *Value) IsArrayBuffer() bool {
	return v.IsObject() && v.ctx.check() == nil && v.ctx.engine.IsArrayBuffer(v.ref)
}

func (v *Value) IsArrayBufferView() bool {
	return v.IsObject() && v.ctx.check() == nil && v.ctx.engine.IsArrayBufferView(v.ref)
}

func (v *Value) IsExternal() bool {
	obj, ok := v.object()
	if !ok || v.ctx == nil {
		return false
	}
	md := v.ctx.metadata(obj)
	return md != nil && md.isExternal
}

func (v *Value) primitiveType() reflect.Type {
	if v.ref == nil {
		return nil
	}
	if _, ok := v.ref.(*goja.Object); ok {
		return nil
	}
	if _, ok := v.ref.(*goja.Symbol); ok {
		return nil
	}
	return v.ref.ExportType()
}

// TypeOf returns the result of the typeof operator
func (v *Value) TypeOf() string {
	switch {
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "object"
	case v.IsFunction():
		return "function"
	case v.IsObject():
		return "object"
	case v.IsSymbol():
		return "symbol"
	case v.IsString():
		return "string"
	case v.IsNumber():
		return "number"
	case v.IsBoolean():
		return "boolean"
	}
	return "undefined"
}

// BooleanValue applies ToBoolean
func (v *Value) BooleanValue() bool {
	return v.ref != nil && v.ref.ToBoolean()
}

// String renders the value for logs and messages. Objects are converted by
// their own toString; when that throws, a placeholder is returned.
func (v *Value) String() string {
	if v == nil || v.ref == nil {
		return "undefined"
	}
	obj, ok := v.object()
	if !ok {
		if sym, isSym := v.ref.(*goja.Symbol); isSym {
			return sym.String()
		}
		return v.ref.String()
	}
	if v.ctx == nil || v.ctx.check() != nil {
		return "[object " + obj.ClassName() + "]"
	}
	s, err := v.ctx.engine.Stringify(obj)
	if err != nil {
		return "[object " + obj.ClassName() + "]"
	}
	return s
}

// ToString converts the value with the script ToString operation
func (v *Value) ToString(ctx *Context) Maybe[*String] {
	s := ctx.begin()
	refs, err := ctx.natives(v)
	if s.fail(sourceHost, err) {
		return Nothing[*String]()
	}
	if _, isSym := refs[0].(*goja.Symbol); isSym {
		s.fail(sourceScript, ctx.typeError("Cannot convert a Symbol value to a string"))
		return Nothing[*String]()
	}
	str, err := ctx.engine.Stringify(refs[0])
	if s.fail(sourceScript, err) {
		return Nothing[*String]()
	}
	return Just(NewString(ctx.iso, str))
}

// StrictEquals applies the === operator
func (v *Value) StrictEquals(other *Value) bool {
	if v == nil || other == nil || v.ref == nil || other.ref == nil {
		return v.IsNullHandle() && other.IsNullHandle()
	}
	return v.ref.StrictEquals(other.ref)
}

// SameValue applies the SameValue algorithm (Object.is)
func (v *Value) SameValue(other *Value) bool {
	if v == nil || other == nil || v.ref == nil || other.ref == nil {
		return v.IsNullHandle() && other.IsNullHandle()
	}
	return v.ref.SameAs(other.ref)
}

// IsNullHandle reports whether the handle is empty
func (v *Value) IsNullHandle() bool {
	return v == nil || v.ref == nil
}

// Export converts the value into a plain Go value
func (v *Value) Export() (any, error) {
	if v.IsNullHandle() {
		return nil, nil
	}
	if _, ok := v.object(); !ok {
		return v.ref.Export(), nil
	}
	if err := v.ctx.check(); err != nil {
		return nil, err
	}
	return v.ctx.engine.Export(v.ref)
}

// AsObject returns the value as an object handle, or nil
func (v *Value) AsObject() *Object {
	if !v.IsObject() {
		return nil
	}
	return &Object{v}
}

// AsFunction returns the value as a function handle, or nil
func (v *Value) AsFunction() *Function {
	if !v.IsFunction() {
		return nil
	}
	return &Function{&Object{v}}
}

// AsArray returns the value as an array handle, or nil
func (v *Value) AsArray() *Array {
	if !v.IsArray() {
		return nil
	}
	return &Array{&Object{v}}
}

// AsName returns the value as a property key, or nil
func (v *Value) AsName() *Name {
	if !v.IsName() {
		return nil
	}
	return &Name{v}
}

// AsString returns the value as a string handle, or nil
func (v *Value) AsString() *String {
	if !v.IsString() {
		return nil
	}
	return &String{&Name{v}}
}

// AsSymbol returns the value as a symbol handle, or nil
func (v *Value) AsSymbol() *Symbol {
	if !v.IsSymbol() {
		return nil
	}
	return &Symbol{&Name{v}}
}

// AsExternal returns the value as an external handle, or nil
func (v *Value) AsExternal() *External {
	if !v.IsExternal() {
		return nil
	}
	return &External{v}
}

// Description returns the symbol description
func (s *Symbol) Description() string {
	sym := s.ref.(*goja.Symbol)
	desc := sym.String()
	// Symbol.prototype.toString form is "Symbol(desc)"
	if len(desc) >= 8 && desc[:7] == "Symbol(" && desc[len(desc)-1] == ')' {
		return desc[7 : len(desc)-1]
	}
	return desc
}

// Length returns the array length
func (a *Array) Length() uint32 {
	obj, ok := a.object()
	if !ok || a.ctx.check() != nil {
		return 0
	}
	n, err := a.ctx.engine.GetProperty(obj, "length")
	if err != nil {
		a.ctx.logger.Debug("array length lookup failed", zap.Error(err))
		return 0
	}
	return uint32(n.ToInteger())
}
