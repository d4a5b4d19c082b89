package v8

// Entry points below have no implementation on this engine. Each logs and
// panics with *NotSupportedError rather than guessing at semantics.

func (o *Object) CreateDataProperty(ctx *Context, key *Name, value *Value) Maybe[bool] {
	notSupported(ctx.iso, "Object.CreateDataProperty")
	return Nothing[bool]()
}

func (o *Object) DefineOwnProperty(ctx *Context, key *Name, value *Value, attr PropertyAttribute) Maybe[bool] {
	notSupported(ctx.iso, "Object.DefineOwnProperty")
	return Nothing[bool]()
}

func (o *Object) GetOwnPropertyDescriptor(ctx *Context, key *Name) Maybe[*Value] {
	notSupported(ctx.iso, "Object.GetOwnPropertyDescriptor")
	return Nothing[*Value]()
}

func (o *Object) HasOwnProperty(ctx *Context, key *Name) Maybe[bool] {
	notSupported(ctx.iso, "Object.HasOwnProperty")
	return Nothing[bool]()
}

func (o *Object) HasRealNamedCallbackProperty(ctx *Context, key *Name) Maybe[bool] {
	notSupported(ctx.iso, "Object.HasRealNamedCallbackProperty")
	return Nothing[bool]()
}

func (o *Object) GetRealNamedProperty(ctx *Context, key *Name) Maybe[*Value] {
	notSupported(ctx.iso, "Object.GetRealNamedProperty")
	return Nothing[*Value]()
}

func (o *Object) GetRealNamedPropertyAttributes(ctx *Context, key *Name) Maybe[PropertyAttribute] {
	notSupported(ctx.iso, "Object.GetRealNamedPropertyAttributes")
	return Nothing[PropertyAttribute]()
}

func (o *Object) GetRealNamedPropertyInPrototypeChain(ctx *Context, key *Name) Maybe[*Value] {
	notSupported(ctx.iso, "Object.GetRealNamedPropertyInPrototypeChain")
	return Nothing[*Value]()
}

func (o *Object) ObjectProtoToString(ctx *Context) Maybe[*String] {
	notSupported(ctx.iso, "Object.ObjectProtoToString")
	return Nothing[*String]()
}

// IntegrityLevel selects Object.freeze or Object.seal semantics
type IntegrityLevel int

const (
	IntegrityFrozen IntegrityLevel = iota
	IntegritySealed
)

func (o *Object) SetIntegrityLevel(ctx *Context, level IntegrityLevel) Maybe[bool] {
	notSupported(ctx.iso, "Object.SetIntegrityLevel")
	return Nothing[bool]()
}

func (o *Object) Clone() *Object {
	notSupported(o.iso, "Object.Clone")
	return nil
}

func (o *Object) CreationContext() *Context {
	notSupported(o.iso, "Object.CreationContext")
	return nil
}

func (o *Object) IsCallable() bool {
	notSupported(o.iso, "Object.IsCallable")
	return false
}

func (o *Object) IsConstructor() bool {
	notSupported(o.iso, "Object.IsConstructor")
	return false
}

func (o *Object) CallAsFunction(ctx *Context, recv *Value, args ...*Value) Maybe[*Value] {
	notSupported(ctx.iso, "Object.CallAsFunction")
	return Nothing[*Value]()
}

func (o *Object) CallAsConstructor(ctx *Context, args ...*Value) Maybe[*Value] {
	notSupported(ctx.iso, "Object.CallAsConstructor")
	return Nothing[*Value]()
}

func (o *Object) HasNamedLookupInterceptor() bool {
	notSupported(o.iso, "Object.HasNamedLookupInterceptor")
	return false
}

func (o *Object) HasIndexedLookupInterceptor() bool {
	notSupported(o.iso, "Object.HasIndexedLookupInterceptor")
	return false
}
