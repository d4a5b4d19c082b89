package v8

import (
	"go.uber.org/zap"
)

// InternalFieldCount returns the number of internal fields of the object
func (o *Object) InternalFieldCount() int {
	obj, ok := o.object()
	if !ok || o.ctx.check() != nil {
		return 0
	}
	if md := o.ctx.metadata(obj); md != nil {
		return len(md.fields)
	}
	return o.ctx.builtinFieldCount(obj)
}

// SetInternalField stores value in field index. Out-of-range writes are
// ignored.
func (o *Object) SetInternalField(index int, value *Value) {
	obj, ok := o.object()
	if !ok || o.ctx.check() != nil {
		return
	}
	c := o.ctx

	md := c.metadata(obj)
	if md == nil && c.builtinFieldCount(obj) > 0 {
		md = c.metadataOrCreate(obj)
	}
	if md == nil || index < 0 || index >= len(md.fields) {
		count := 0
		if md != nil {
			count = len(md.fields)
		}
		c.logger.Warn("internal field index out of range", zap.Int("index", index), zap.Int("count", count))
		return
	}

	v, err := value.native(c)
	if err != nil {
		c.logger.Warn("internal field value rejected", zap.Int("index", index), zap.Error(err))
		return
	}

	if old := md.fields[index]; old != nil {
		c.engine.Unprotect(old)
	}
	md.fields[index] = v
	c.engine.Protect(v)
}

// GetInternalField returns field index: undefined when it was never set,
// nil when index is out of range
func (o *Object) GetInternalField(index int) *Value {
	obj, ok := o.object()
	if !ok || o.ctx.check() != nil {
		return nil
	}
	c := o.ctx

	md := c.metadata(obj)
	if md == nil {
		if index >= 0 && index < c.builtinFieldCount(obj) {
			return Undefined(c.iso)
		}
		return nil
	}
	if index < 0 || index >= len(md.fields) {
		return nil
	}
	if f := md.fields[index]; f != nil {
		return c.wrap(f)
	}
	return Undefined(c.iso)
}

// SetAlignedPointerInInternalField stores an opaque Go value in field index
func (o *Object) SetAlignedPointerInInternalField(index int, ptr any) {
	if o.ctx.check() != nil {
		return
	}
	o.SetInternalField(index, NewExternal(o.ctx, ptr).Value)
}

// SetAlignedPointerInInternalFields stores values[i] in field indices[i]
func (o *Object) SetAlignedPointerInInternalFields(indices []int, values []any) {
	n := min(len(indices), len(values))
	for i := 0; i < n; i++ {
		o.SetAlignedPointerInInternalField(indices[i], values[i])
	}
}

// GetAlignedPointerFromInternalField returns the Go value stored with
// SetAlignedPointerInInternalField, or nil
func (o *Object) GetAlignedPointerFromInternalField(index int) any {
	f := o.GetInternalField(index)
	if f == nil {
		return nil
	}
	if ext := f.AsExternal(); ext != nil {
		return ext.Data()
	}
	return nil
}

// GetIdentityHash returns a non-zero hash that is stable for the lifetime
// of the object. Distinct objects may share a hash.
func (o *Object) GetIdentityHash() int32 {
	obj, ok := o.object()
	if !ok || o.ctx.check() != nil {
		return 0
	}
	md := o.ctx.metadataOrCreate(obj)
	if md.hash == 0 {
		md.hash = o.ctx.iso.nextHash()
	}
	return md.hash
}
