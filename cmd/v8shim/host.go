package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	v8 "github.com/GriffinCanCode/v8goja/internal/v8"
)

const version = "0.1.0"

// console serializes script output of concurrently running isolates
type console struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
}

func newConsole(stdout, stderr io.Writer) *console {
	return &console{stdout: stdout, stderr: stderr}
}

func (c *console) print(w io.Writer, args []*v8.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(w, strings.Join(parts, " "))
}

// host holds the per-isolate state behind the host object
type host struct {
	iso *v8.Isolate
	box *v8.FunctionTemplate
	tag *v8.Private
}

// installHost defines console and host on the global object of ctx
func installHost(ctx *v8.Context, out *console) error {
	iso := ctx.Isolate()
	global := ctx.Global()
	h := &host{
		iso: iso,
		box: newBoxTemplate(iso),
		tag: v8.NewPrivate(iso, "host.tag"),
	}

	con := v8.NewObject(ctx)
	methods := []struct {
		name string
		w    io.Writer
	}{
		{"log", out.stdout},
		{"info", out.stdout},
		{"warn", out.stderr},
		{"error", out.stderr},
	}
	for _, m := range methods {
		w := m.w
		fn := func(info *v8.FunctionCallbackInfo) { out.print(w, info.Args()) }
		if err := setFunction(ctx, con, m.name, fn); err != nil {
			return err
		}
	}
	if err := setValue(ctx, global, "console", con.Value); err != nil {
		return err
	}

	obj := v8.NewObject(ctx)
	versionGetter := func(_ *v8.Name, info *v8.PropertyCallbackInfo) {
		info.GetReturnValue().SetString(version)
	}
	if !obj.SetAccessor(ctx, v8.NewString(iso, "version").Name, versionGetter, nil, nil, v8.ReadOnly).FromMaybe(false) {
		return fmt.Errorf("install host.version: %v", iso.PendingException())
	}
	isolateGetter := func(_ *v8.Name, info *v8.PropertyCallbackInfo) {
		info.GetReturnValue().Set(info.Data())
	}
	isoID := v8.NewString(iso, iso.ID().String()).Value
	if !obj.SetAccessor(ctx, v8.NewString(iso, "isolate").Name, isolateGetter, nil, isoID, v8.ReadOnly|v8.DontEnum).FromMaybe(false) {
		return fmt.Errorf("install host.isolate: %v", iso.PendingException())
	}

	funcs := map[string]v8.FunctionCallback{
		"hash":  h.hash,
		"tag":   h.setTag,
		"tagOf": h.tagOf,
		"box":   h.newBox,
		"isBox": h.isBox,
	}
	for name, fn := range funcs {
		if err := setFunction(ctx, obj, name, fn); err != nil {
			return err
		}
	}
	return setValue(ctx, global, "host", obj.Value)
}

func setValue(ctx *v8.Context, obj *v8.Object, name string, value *v8.Value) error {
	if !obj.Set(ctx, v8.NewString(ctx.Isolate(), name).Value, value).FromMaybe(false) {
		return fmt.Errorf("install %s: %v", name, ctx.Isolate().PendingException())
	}
	return nil
}

func setFunction(ctx *v8.Context, obj *v8.Object, name string, cb v8.FunctionCallback) error {
	fn := v8.NewFunction(ctx, cb, nil)
	if fn.IsNothing() {
		return fmt.Errorf("install %s: %v", name, ctx.Isolate().PendingException())
	}
	return setValue(ctx, obj, name, fn.FromJust().Value)
}

// objectArg returns argument n as an object or throws a TypeError
func objectArg(info *v8.FunctionCallbackInfo, n int, fn string) *v8.Object {
	obj := info.Arg(n).AsObject()
	if obj == nil {
		info.GetIsolate().ThrowException(v8.NewTypeError(info.Context(), fn+": argument must be an object"))
	}
	return obj
}

// hash(obj) returns the identity hash of obj
func (h *host) hash(info *v8.FunctionCallbackInfo) {
	if obj := objectArg(info, 0, "host.hash"); obj != nil {
		info.GetReturnValue().SetInt32(obj.GetIdentityHash())
	}
}

// tag(obj, value) stores value in a private property of obj
func (h *host) setTag(info *v8.FunctionCallbackInfo) {
	obj := objectArg(info, 0, "host.tag")
	if obj == nil {
		return
	}
	ok := obj.SetPrivate(info.Context(), h.tag, info.Arg(1))
	info.GetReturnValue().SetBool(ok.FromMaybe(false))
}

// tagOf(obj) reads the private tag of obj
func (h *host) tagOf(info *v8.FunctionCallbackInfo) {
	obj := objectArg(info, 0, "host.tagOf")
	if obj == nil {
		return
	}
	if v := obj.GetPrivate(info.Context(), h.tag); v.IsJust() {
		info.GetReturnValue().Set(v.FromJust())
	}
}

// box(value) wraps value in an object that keeps it in an internal field
// and exposes it through a value accessor
func (h *host) newBox(info *v8.FunctionCallbackInfo) {
	ctx := info.Context()
	inst := h.box.InstanceTemplate().NewInstance(ctx)
	if inst.IsNothing() {
		return
	}
	obj := inst.FromJust()
	obj.SetInternalField(0, info.Arg(0))
	info.GetReturnValue().Set(obj.Value)
}

// isBox(value) reports whether value was created by box
func (h *host) isBox(info *v8.FunctionCallbackInfo) {
	info.GetReturnValue().SetBool(h.box.HasInstance(info.Arg(0)))
}

func newBoxTemplate(iso *v8.Isolate) *v8.FunctionTemplate {
	tmpl := v8.NewFunctionTemplate(iso, "Box")
	inst := tmpl.InstanceTemplate()
	inst.SetInternalFieldCount(1)

	getter := func(_ *v8.Name, info *v8.PropertyCallbackInfo) {
		if f := info.Holder().GetInternalField(0); f != nil {
			info.GetReturnValue().Set(f)
		}
	}
	setter := func(_ *v8.Name, value *v8.Value, info *v8.PropertyCallbackInfo) {
		info.Holder().SetInternalField(0, value)
	}
	inst.SetAccessor("value", getter, setter, nil, v8.None)
	return tmpl
}
