package v8

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// instanceMetadata is the side-table record of one engine object. It is
// attached through the engine private-data slot, which holds the object
// weakly, and released when the object is collected or the context closes.
type instanceMetadata struct {
	hash       int32
	fields     []goja.Value // nil entries were never set
	privateBag *goja.Object
	template   *ObjectTemplate

	// set on accessor callables and host functions
	accessor *accessorRecord
	function *functionRecord

	// set on External objects
	external   any
	isExternal bool
}

// metadata returns the record attached to obj without creating one
func (c *Context) metadata(obj *goja.Object) *instanceMetadata {
	if c.disposed {
		return nil
	}
	data, ok := c.engine.Private(obj)
	if !ok {
		return nil
	}
	md, _ := data.(*instanceMetadata)
	return md
}

// metadataOrCreate returns the record attached to obj, creating a zeroed one
// on first use. Built-in buffers and views start with their default field
// layout.
func (c *Context) metadataOrCreate(obj *goja.Object) *instanceMetadata {
	if md := c.metadata(obj); md != nil {
		return md
	}

	md := &instanceMetadata{}
	if n := c.builtinFieldCount(obj); n > 0 {
		md.fields = make([]goja.Value, n)
	}
	c.engine.SetPrivate(obj, md, c.releaseMetadata)
	c.iso.metrics.MetadataCreated()
	c.logger.Debug("instance metadata created", zap.String("class", obj.ClassName()), zap.Int("fields", len(md.fields)))
	return md
}

// releaseMetadata drops the references a record holds. It runs on the
// isolate goroutine.
func (c *Context) releaseMetadata(data any) {
	md, ok := data.(*instanceMetadata)
	if !ok {
		return
	}
	for i, f := range md.fields {
		if f != nil {
			c.engine.Unprotect(f)
			md.fields[i] = nil
		}
	}
	if md.privateBag != nil {
		c.engine.Unprotect(md.privateBag)
		md.privateBag = nil
	}
	if rec := md.accessor; rec != nil {
		c.engine.Unprotect(rec.property)
		c.engine.Unprotect(rec.data)
		md.accessor = nil
	}
	if rec := md.function; rec != nil {
		c.engine.Unprotect(rec.data)
		md.function = nil
	}
	c.iso.metrics.MetadataReleased()
}

// builtinFieldCount returns the internal field count built-in objects
// expose without explicit initialization
func (c *Context) builtinFieldCount(obj *goja.Object) int {
	switch {
	case c.engine.IsArrayBufferView(obj):
		return c.iso.config.ViewFieldCount
	case c.engine.IsArrayBuffer(obj):
		return c.iso.config.ArrayBufferFieldCount
	}
	return 0
}

// MetadataCount returns the number of objects of the context that carry
// instance metadata
func (c *Context) MetadataCount() int {
	if c.disposed {
		return 0
	}
	c.engine.DrainReclaimed()
	return c.engine.PrivateCount()
}

// CollectGarbage releases metadata of objects the Go collector has already
// reclaimed and returns how many records were released
func (c *Context) CollectGarbage() int {
	if c.disposed {
		return 0
	}
	return c.engine.DrainReclaimed()
}
