package v8

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/v8goja/internal/infrastructure/monitoring"
)

// accessorSpy records accessor invocations
type accessorSpy struct {
	mock.Mock
	stored *Value
}

func (s *accessorSpy) get(property *Name, info *PropertyCallbackInfo) {
	s.Called(property.String())
	if s.stored != nil {
		info.GetReturnValue().Set(s.stored)
	}
}

func (s *accessorSpy) set(property *Name, value *Value, info *PropertyCallbackInfo) {
	s.Called(property.String(), value.String())
	s.stored = value
}

// install exposes obj to script as global o
func install(t *testing.T, ctx *Context, obj *Object) {
	t.Helper()
	require.True(t, ctx.Global().Set(ctx, str(ctx.Isolate(), "o"), obj.Value).FromJust())
}

func propName(iso *Isolate, s string) *Name {
	return NewString(iso, s).Name
}

func TestAccessorGetterConstant(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)

	getter := func(_ *Name, info *PropertyCallbackInfo) {
		info.GetReturnValue().SetInt32(42)
	}
	require.True(t, obj.SetAccessor(ctx, propName(iso, "answer"), getter, nil, nil, None).FromJust())
	install(t, ctx, obj)

	assert.Equal(t, "42", obj.Get(ctx, str(iso, "answer")).FromJust().String())
	assert.Equal(t, "42", run(t, ctx, "o.answer").String())
	assert.Equal(t, "number", run(t, ctx, "typeof o.answer").String())
}

func TestAccessorGetterAndSetter(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)
	spy := &accessorSpy{}
	spy.On("get", "p").Return()
	spy.On("set", "p", "5").Return()

	require.True(t, obj.SetAccessor(ctx, propName(iso, "p"), spy.get, spy.set, nil, None).FromJust())
	install(t, ctx, obj)

	assert.True(t, run(t, ctx, "o.p").IsUndefined(), "a getter that sets nothing returns undefined")
	assert.Equal(t, "5", run(t, ctx, "o.p = 5; o.p").String())

	spy.AssertExpectations(t)
	spy.AssertNumberOfCalls(t, "get", 2)
	spy.AssertNumberOfCalls(t, "set", 1)
}

func TestAccessorSetterOnly(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)
	spy := &accessorSpy{}
	spy.On("set", "q", mock.Anything).Return()

	require.True(t, obj.SetAccessor(ctx, propName(iso, "q"), nil, spy.set, nil, None).FromJust())
	install(t, ctx, obj)

	assert.True(t, run(t, ctx, "o.q").IsUndefined())
	assert.Equal(t, "7", run(t, ctx, "o.q = 7; o.q").String(), "reads return the last written value")
	assert.Equal(t, "7", obj.Get(ctx, str(iso, "q")).FromJust().String())
	spy.AssertCalled(t, "set", "q", "7")
	spy.AssertNotCalled(t, "get", mock.Anything)
}

func TestAccessorGetterOnlyAssignment(t *testing.T) {
	iso, ctx := newTestContext(t)

	tests := []struct {
		name string
		attr PropertyAttribute
		want string
	}{
		{"writable pass-through", None, "7"},
		{"read-only", ReadOnly, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewObject(ctx)
			getter := func(_ *Name, info *PropertyCallbackInfo) { info.GetReturnValue().SetInt32(1) }
			require.True(t, obj.SetAccessor(ctx, propName(iso, "r"), getter, nil, nil, tt.attr).FromJust())
			install(t, ctx, obj)

			assert.Equal(t, tt.want, run(t, ctx, "o.r = 7; o.r").String())
		})
	}
}

func TestAccessorAttributes(t *testing.T) {
	iso, ctx := newTestContext(t)
	getter := func(_ *Name, info *PropertyCallbackInfo) { info.GetReturnValue().SetBool(true) }

	tests := []struct {
		name       string
		attr       PropertyAttribute
		enumerable bool
	}{
		{"none", None, true},
		{"dont enum", DontEnum, false},
		{"dont delete is not honored", DontDelete, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewObject(ctx)
			require.True(t, obj.SetAccessor(ctx, propName(iso, "a"), getter, nil, nil, tt.attr).FromJust())

			names := keys(t, obj.GetPropertyNames(ctx))
			if tt.enumerable {
				assert.Contains(t, names, "a")
			} else {
				assert.NotContains(t, names, "a")
			}

			attr := obj.GetPropertyAttributes(ctx, str(iso, "a")).FromJust()
			assert.False(t, attr.Has(DontDelete), "accessors stay configurable")
			assert.True(t, obj.Delete(ctx, str(iso, "a")).FromJust())
		})
	}
}

func TestAccessorReplacesDataProperty(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)
	require.True(t, obj.Set(ctx, str(iso, "p"), NewInteger(iso, 1)).FromJust())

	getter := func(_ *Name, info *PropertyCallbackInfo) { info.GetReturnValue().SetString("computed") }
	require.True(t, obj.SetAccessor(ctx, propName(iso, "p"), getter, nil, nil, None).FromJust())
	assert.Equal(t, "computed", obj.Get(ctx, str(iso, "p")).FromJust().String())

	ok := obj.SetAccessor(ctx, propName(iso, "p"), nil, nil, nil, None)
	require.True(t, ok.IsJust())
	assert.False(t, ok.FromJust(), "no callbacks installs nothing")
	assert.Equal(t, "computed", obj.Get(ctx, str(iso, "p")).FromJust().String())
}

func TestAccessorCallbackInfo(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)
	data := NewObject(ctx)

	var seen *PropertyCallbackInfo
	getter := func(property *Name, info *PropertyCallbackInfo) {
		seen = info
		assert.Equal(t, "p", property.String())
		assert.True(t, info.GetReturnValue().IsHole())
		assert.False(t, info.ShouldThrowOnError())
		assert.Same(t, iso, info.GetIsolate())
		assert.Same(t, ctx, info.Context())
		info.GetReturnValue().Set(info.Data())
	}
	require.True(t, obj.SetAccessor(ctx, propName(iso, "p"), getter, nil, data.Value, None).FromJust())
	assert.True(t, ctx.engine.IsProtected(data.ref))

	got := obj.Get(ctx, str(iso, "p")).FromJust()
	assert.True(t, got.StrictEquals(data.Value))
	require.NotNil(t, seen)
	assert.True(t, seen.This().StrictEquals(obj.Value))
	assert.True(t, seen.Holder().StrictEquals(obj.Value))

	// inherited accessors see the receiver
	child := NewObject(ctx)
	require.True(t, child.SetPrototype(ctx, obj.Value).FromJust())
	child.Get(ctx, str(iso, "p"))
	assert.True(t, seen.This().StrictEquals(child.Value))
}

func TestAccessorSymbolName(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)
	sym := NewSymbol(iso, "tag")

	var got string
	getter := func(property *Name, info *PropertyCallbackInfo) {
		got = property.String()
		info.GetReturnValue().SetNull()
	}
	require.True(t, obj.SetAccessor(ctx, sym.Name, getter, nil, nil, None).FromJust())
	assert.True(t, obj.Get(ctx, sym.Value).FromJust().IsNull())
	assert.Equal(t, "Symbol(tag)", got)
}

func TestAccessorScheduledException(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)

	getter := func(_ *Name, info *PropertyCallbackInfo) {
		info.GetIsolate().ThrowException(str(iso, "bad"))
		info.GetReturnValue().SetInt32(1)
	}
	require.True(t, obj.SetAccessor(ctx, propName(iso, "p"), getter, nil, nil, None).FromJust())
	install(t, ctx, obj)

	assert.Equal(t, "bad", run(t, ctx, "var r; try { o.p } catch (e) { r = e }; r").String())

	assert.True(t, obj.Get(ctx, str(iso, "p")).IsNothing())
	require.True(t, iso.HasPendingException())
	assert.Equal(t, "bad", iso.PendingException().String())
	assert.Nil(t, iso.scheduled)
	assert.Zero(t, iso.callbackDepth)
}

func TestAccessorPropagatesCaughtException(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := run(t, ctx, "({ get boom() { throw new RangeError('inner') } })").AsObject()

	setter := func(_ *Name, value *Value, info *PropertyCallbackInfo) {
		// the failing read is captured by the callback scope
		ret := info.This().Get(info.Context(), str(iso, "boom"))
		assert.True(t, ret.IsNothing())
		assert.False(t, iso.HasPendingException())
	}
	require.True(t, obj.SetAccessor(ctx, propName(iso, "p"), nil, setter, nil, None).FromJust())

	assert.True(t, obj.Set(ctx, str(iso, "p"), NewInteger(iso, 1)).IsNothing())
	require.True(t, iso.HasPendingException())
	assert.Equal(t, "RangeError: inner", iso.PendingException().String())
}

func TestAccessorHandledExceptionIsNotRethrown(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := run(t, ctx, "({ get boom() { throw 1 } })").AsObject()

	getter := func(_ *Name, info *PropertyCallbackInfo) {
		tc := iso.NewTryCatch()
		defer tc.Close()
		info.This().Get(info.Context(), str(iso, "boom"))
		assert.True(t, tc.HasCaught())
		info.GetReturnValue().SetString("recovered")
	}
	require.True(t, obj.SetAccessor(ctx, propName(iso, "p"), getter, nil, nil, None).FromJust())

	assert.Equal(t, "recovered", obj.Get(ctx, str(iso, "p")).FromJust().String())
	assert.False(t, iso.HasPendingException())
}

func TestAccessorNested(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)

	inner := func(_ *Name, info *PropertyCallbackInfo) {
		info.GetIsolate().ThrowException(str(iso, "inner"))
	}
	outer := func(_ *Name, info *PropertyCallbackInfo) {
		assert.True(t, info.This().Get(info.Context(), str(iso, "inner")).IsNothing())
		// the inner exception was delivered to this callback's scope
		info.GetReturnValue().SetString("outer ok")
	}
	require.True(t, obj.SetAccessor(ctx, propName(iso, "inner"), inner, nil, nil, None).FromJust())
	require.True(t, obj.SetAccessor(ctx, propName(iso, "outer"), outer, nil, nil, None).FromJust())

	assert.True(t, obj.Get(ctx, str(iso, "outer")).IsNothing())
	assert.Equal(t, "inner", iso.PendingException().String())
}

func TestSetAccessorProperty(t *testing.T) {
	iso, ctx := newTestContext(t)
	obj := NewObject(ctx)
	getter := run(t, ctx, "(function () { return this._v * 10 })").AsFunction()
	setter := run(t, ctx, "(function (v) { this._v = v })").AsFunction()
	require.NotNil(t, getter)
	require.NotNil(t, setter)

	require.True(t, obj.SetAccessorProperty(ctx, propName(iso, "v"), getter, setter, DontEnum).FromJust())
	require.True(t, obj.Set(ctx, str(iso, "v"), NewInteger(iso, 4)).IsJust())
	assert.Equal(t, "40", obj.Get(ctx, str(iso, "v")).FromJust().String())
	assert.NotContains(t, keys(t, obj.GetPropertyNames(ctx)), "v")

	other, err := NewContext(iso)
	require.NoError(t, err)
	foreign := NewObject(other)
	assert.True(t, foreign.SetAccessorProperty(other, propName(iso, "v"), getter, nil, None).IsNothing())
}

func TestAccessorMetrics(t *testing.T) {
	iso, metrics := newTestIsolate(t, DefaultConfig())
	ctx, err := NewContext(iso)
	require.NoError(t, err)

	obj := NewObject(ctx)
	spy := &accessorSpy{}
	spy.On("get", "m").Return()
	spy.On("set", "m", "1").Return()
	require.True(t, obj.SetAccessor(ctx, propName(iso, "m"), spy.get, spy.set, nil, None).FromJust())

	obj.Set(ctx, str(iso, "m"), NewInteger(iso, 1))
	obj.Get(ctx, str(iso, "m"))

	// Set reads back through the getter
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AccessorInvocations.WithLabelValues(monitoring.KindGetter)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AccessorInvocations.WithLabelValues(monitoring.KindSetter)))
}
