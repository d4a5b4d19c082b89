package v8

// Private properties live in a null-prototype bag object referenced from
// the instance metadata, so they are never inherited, enumerated or visible
// to script. An object without a bag reports every key as absent.

// HasPrivate reports whether key is set on the object
func (o *Object) HasPrivate(ctx *Context, key *Private) Maybe[bool] {
	s := ctx.begin()
	obj, _, err := ctx.receiver(o)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	md := ctx.metadata(obj)
	if md == nil || md.privateBag == nil {
		return Just(false)
	}
	_, ok, err := ctx.engine.GetOwnSymbol(md.privateBag, key.sym)
	if s.fail(sourceScript, err) {
		return Nothing[bool]()
	}
	return Just(ok)
}

// GetPrivate returns the value stored under key, undefined when absent
func (o *Object) GetPrivate(ctx *Context, key *Private) Maybe[*Value] {
	s := ctx.begin()
	obj, _, err := ctx.receiver(o)
	if s.fail(sourceHost, err) {
		return Nothing[*Value]()
	}
	md := ctx.metadata(obj)
	if md == nil || md.privateBag == nil {
		return Just(Undefined(ctx.iso))
	}
	val, ok, err := ctx.engine.GetOwnSymbol(md.privateBag, key.sym)
	if s.fail(sourceScript, err) {
		return Nothing[*Value]()
	}
	if !ok {
		return Just(Undefined(ctx.iso))
	}
	return Just(ctx.wrap(val))
}

// SetPrivate stores value under key, creating the bag on first use
func (o *Object) SetPrivate(ctx *Context, key *Private, value *Value) Maybe[bool] {
	s := ctx.begin()
	obj, args, err := ctx.receiver(o, value)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	md := ctx.metadataOrCreate(obj)
	if md.privateBag == nil {
		md.privateBag = ctx.engine.NewBareObject()
		ctx.engine.Protect(md.privateBag)
	}
	if s.fail(sourceScript, ctx.engine.SetSymbol(md.privateBag, key.sym, args[0])) {
		return Nothing[bool]()
	}
	return Just(true)
}

// DeletePrivate removes key. It reports false when the object never had
// private properties.
func (o *Object) DeletePrivate(ctx *Context, key *Private) Maybe[bool] {
	s := ctx.begin()
	obj, _, err := ctx.receiver(o)
	if s.fail(sourceHost, err) {
		return Nothing[bool]()
	}
	md := ctx.metadata(obj)
	if md == nil || md.privateBag == nil {
		return Just(false)
	}
	if s.fail(sourceScript, ctx.engine.DeleteSymbol(md.privateBag, key.sym)) {
		return Nothing[bool]()
	}
	return Just(true)
}
