package v8

import (
	"runtime"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/v8goja/internal/engine"
)

func newFieldObject(t *testing.T, ctx *Context, count int) *Object {
	t.Helper()
	tmpl := NewObjectTemplate(ctx.Isolate())
	tmpl.SetInternalFieldCount(count)
	return tmpl.NewInstance(ctx).FromJust()
}

func TestInternalFields(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := newFieldObject(t, ctx, 3)

	assert.Equal(t, 3, obj.InternalFieldCount())
	assert.True(t, obj.GetInternalField(1).IsUndefined(), "unset field reads as undefined")

	val := NewObject(ctx)
	obj.SetInternalField(1, val.Value)
	assert.True(t, obj.GetInternalField(1).StrictEquals(val.Value))

	obj.SetInternalField(0, NewInteger(iso, 9))
	assert.Equal(t, "9", obj.GetInternalField(0).String())

	tests := []struct {
		name  string
		index int
	}{
		{"negative", -1},
		{"at count", 3},
		{"past count", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj.SetInternalField(tt.index, val.Value)
			assert.Nil(t, obj.GetInternalField(tt.index))
			assert.Equal(t, 3, obj.InternalFieldCount())
		})
	}
}

func TestInternalFieldsOnPlainObject(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)

	assert.Equal(t, 0, obj.InternalFieldCount())
	obj.SetInternalField(0, NewInteger(iso, 1))
	assert.Nil(t, obj.GetInternalField(0))
	assert.Equal(t, 0, ctx.MetadataCount())
}

func TestInternalFieldsInvisibleToScript(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := newFieldObject(t, ctx, 1)
	obj.SetInternalField(0, str(iso, "secret"))

	assert.Empty(t, keys(t, obj.GetOwnPropertyNames(ctx)))
	require.True(t, ctx.Global().Set(ctx, str(iso, "o"), obj.Value).FromJust())
	assert.Equal(t, "0", run(t, ctx, "Reflect.ownKeys(o).length").String())
}

func TestInternalFieldProtection(t *testing.T) {
	_, ctx := newTestContext(t)
	obj := newFieldObject(t, ctx, 2)
	first := NewObject(ctx)
	second := NewObject(ctx)

	base := ctx.engine.ProtectedCount()

	obj.SetInternalField(0, first.Value)
	assert.True(t, ctx.engine.IsProtected(first.ref))
	assert.Equal(t, base+1, ctx.engine.ProtectedCount())

	obj.SetInternalField(0, second.Value)
	assert.False(t, ctx.engine.IsProtected(first.ref))
	assert.True(t, ctx.engine.IsProtected(second.ref))
	assert.Equal(t, base+1, ctx.engine.ProtectedCount())

	// the same value in two fields is protected twice
	obj.SetInternalField(1, second.Value)
	assert.Equal(t, base+2, ctx.engine.ProtectedCount())
}

func TestBuiltinFieldDefaults(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		source string
		want   int
	}{
		{"array buffer", DefaultConfig(), "new ArrayBuffer(8)", 2},
		{"typed array", DefaultConfig(), "new Uint8Array(4)", 2},
		{"data view", DefaultConfig(), "new DataView(new ArrayBuffer(4))", 2},
		{"configured buffer", Config{Engine: engine.DefaultConfig(), ArrayBufferFieldCount: 1, ViewFieldCount: 3}, "new ArrayBuffer(8)", 1},
		{"configured view", Config{Engine: engine.DefaultConfig(), ArrayBufferFieldCount: 1, ViewFieldCount: 3}, "new Float64Array(1)", 3},
		{"plain object", DefaultConfig(), "({})", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iso, _ := newTestIsolate(t, tt.cfg)
			ctx, err := NewContext(iso)
			require.NoError(t, err)

			obj := run(t, ctx, tt.source).AsObject()
			assert.Equal(t, tt.want, obj.InternalFieldCount())
			if tt.want == 0 {
				return
			}

			assert.True(t, obj.GetInternalField(0).IsUndefined())
			assert.Equal(t, 0, ctx.MetadataCount(), "reading does not create metadata")

			obj.SetInternalField(tt.want-1, str(iso, "tag"))
			assert.Equal(t, "tag", obj.GetInternalField(tt.want-1).String())
			assert.Nil(t, obj.GetInternalField(tt.want))
			assert.Equal(t, tt.want, obj.InternalFieldCount())
		})
	}
}

type payload struct {
	n int
}

func TestAlignedPointers(t *testing.T) {
	_, ctx := newTestContext(t)
	obj := newFieldObject(t, ctx, 3)

	p := &payload{n: 7}
	obj.SetAlignedPointerInInternalField(0, p)
	got, ok := obj.GetAlignedPointerFromInternalField(0).(*payload)
	require.True(t, ok)
	assert.Same(t, p, got)
	assert.True(t, obj.GetInternalField(0).IsExternal())

	a, b := &payload{n: 1}, &payload{n: 2}
	obj.SetAlignedPointerInInternalFields([]int{1, 2}, []any{a, b})
	assert.Same(t, a, obj.GetAlignedPointerFromInternalField(1))
	assert.Same(t, b, obj.GetAlignedPointerFromInternalField(2))

	obj.SetInternalField(1, NewInteger(ctx.Isolate(), 1))
	assert.Nil(t, obj.GetAlignedPointerFromInternalField(1))
	assert.Nil(t, obj.GetAlignedPointerFromInternalField(5))
}

func TestExternal(t *testing.T) {
	_, ctx := newTestContext(t)
	p := &payload{n: 3}

	ext := NewExternal(ctx, p)
	require.NotNil(t, ext)
	assert.Same(t, p, ext.Data())
	assert.True(t, ext.IsExternal())
	assert.True(t, ext.IsObject())
	assert.NotNil(t, ext.AsExternal())

	assert.False(t, NewObject(ctx).IsExternal())
	assert.Nil(t, NewObject(ctx).AsExternal())
}

func TestIdentityHash(t *testing.T) {
	_, ctx := newTestContext(t)
	obj := NewObject(ctx)

	h := obj.GetIdentityHash()
	assert.NotZero(t, h)
	for i := 0; i < 10; i++ {
		assert.Equal(t, h, obj.GetIdentityHash())
	}

	// another handle to the same object sees the same hash
	other := (&Value{iso: obj.iso, ctx: ctx, ref: obj.ref}).AsObject()
	assert.Equal(t, h, other.GetIdentityHash())
	assert.Equal(t, 1, ctx.MetadataCount())

	hashes := make(map[int32]bool)
	for i := 0; i < 100; i++ {
		hashes[NewObject(ctx).GetIdentityHash()] = true
	}
	assert.Greater(t, len(hashes), 90)
}

func TestMetadataReleasedOnDispose(t *testing.T) {
	iso, metrics := newTestIsolate(t, DefaultConfig())
	ctx, err := NewContext(iso)
	require.NoError(t, err)

	obj := newFieldObject(t, ctx, 1)
	obj.SetInternalField(0, NewObject(ctx).Value)
	NewObject(ctx).GetIdentityHash()

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.MetadataRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ProtectedRefs))

	ctx.Dispose()
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.MetadataRecords))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ProtectedRefs))
	assert.Equal(t, 0, ctx.MetadataCount())
	assert.Equal(t, 0, obj.InternalFieldCount())
	assert.Nil(t, obj.GetInternalField(0))
}

func TestMetadataReclaimedAfterCollection(t *testing.T) {
	_, ctx := newTestContext(t)

	func() {
		obj := newFieldObject(t, ctx, 1)
		obj.SetInternalField(0, NewObject(ctx).Value)
	}()
	require.Equal(t, 1, ctx.engine.ProtectedCount())

	released := 0
	require.Eventually(t, func() bool {
		runtime.GC()
		released += ctx.CollectGarbage()
		return released > 0
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, 0, ctx.engine.ProtectedCount())
	assert.Equal(t, 0, ctx.MetadataCount())
}
