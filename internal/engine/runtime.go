package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// Engine wraps a goja VM and exposes the primitives used by the embedding layer
type Engine struct {
	vm     *goja.Runtime
	config Config

	snippets map[snippetKey]goja.Callable

	// intrinsics captured before user code can replace them
	errorCtor  goja.Value
	isView     goja.Callable
	intrinsics goja.Value

	protected   map[*goja.Object]int
	protectHook func(delta int)

	slots *slotTable
}

type snippetKey struct {
	body  string
	arity int
}

// New creates a new engine
func New(config Config) (*Engine, error) {
	vm := goja.New()

	if config.MaxCallStackSize > 0 {
		vm.SetMaxCallStackSize(config.MaxCallStackSize)
	}

	e := &Engine{
		vm:        vm,
		config:    config,
		snippets:  make(map[snippetKey]goja.Callable),
		protected: make(map[*goja.Object]int),
		slots:     newSlotTable(),
	}

	if err := e.setupGlobals(); err != nil {
		return nil, err
	}

	return e, nil
}

// setupGlobals removes host escape hatches and captures intrinsics
func (e *Engine) setupGlobals() error {
	e.vm.Set("require", goja.Undefined())
	e.vm.Set("process", goja.Undefined())
	e.vm.Set("module", goja.Undefined())
	e.vm.Set("exports", goja.Undefined())

	e.errorCtor = e.vm.Get("Error")

	ab := e.vm.Get("ArrayBuffer")
	if ab == nil {
		return fmt.Errorf("engine: ArrayBuffer intrinsic missing")
	}
	isView, ok := goja.AssertFunction(ab.ToObject(e.vm).Get("isView"))
	if !ok {
		return fmt.Errorf("engine: ArrayBuffer.isView intrinsic missing")
	}
	e.isView = isView

	intrinsics, err := e.vm.RunString(intrinsicsSource)
	if err != nil {
		return fmt.Errorf("engine: capture intrinsics: %w", err)
	}
	e.intrinsics = intrinsics
	return nil
}

// intrinsicsSource builds the frozen, null-prototype $i object bound into
// every snippet. Its members keep working after script replaces the
// globals they were taken from. Descriptors are built without a prototype
// so inherited get/set/value keys cannot leak into them.
const intrinsicsSource = `(function () {
	var apply = Reflect.apply;
	var create = Object.create;
	var defineProperty = Object.defineProperty;
	var hasOwnProperty = Object.prototype.hasOwnProperty;
	var WM = WeakMap;
	var wmGet = WeakMap.prototype.get;
	var wmSet = WeakMap.prototype.set;

	function descriptor(fields) {
		var d = create(null);
		for (var k in fields) {
			if (apply(hasOwnProperty, fields, [k])) d[k] = fields[k];
		}
		return d;
	}

	var i = create(null);
	i.is = Object.is;
	i.getOwnPropertyDescriptor = Object.getOwnPropertyDescriptor;
	i.getOwnPropertyNames = Object.getOwnPropertyNames;
	i.create = create;
	i.descriptor = descriptor;
	i.defineProperty = function (o, k, fields) {
		return defineProperty(o, k, descriptor(fields));
	};
	i.hasOwn = function (o, k) {
		return apply(hasOwnProperty, o, [k]);
	};
	i.call = function (fn, self) {
		var args = [];
		for (var n = 2; n < arguments.length; n++) defineProperty(args, n - 2, descriptor({ value: arguments[n], writable: true, enumerable: true, configurable: true }));
		return apply(fn, self, args);
	};
	i.append = function (arr, v) {
		defineProperty(arr, arr.length, descriptor({ value: v, writable: true, enumerable: true, configurable: true }));
	};
	i.weakMap = function () {
		var m = new WM();
		var w = create(null);
		w.get = function (k) { return apply(wmGet, m, [k]); };
		w.set = function (k, v) { apply(wmSet, m, [k, v]); };
		return w;
	};
	return Object.freeze(i);
})()`

// Runtime exposes the underlying VM
func (e *Engine) Runtime() *goja.Runtime {
	return e.vm
}

// Run executes a script with timeout and cancellation
func (e *Engine) Run(ctx context.Context, name, source string) (goja.Value, error) {
	if e.vm == nil {
		return nil, ErrClosed
	}
	e.DrainReclaimed()

	var timeout <-chan time.Time
	if e.config.Timeout > 0 {
		timer := time.NewTimer(e.config.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-timeout:
			e.vm.Interrupt(ErrTimeout)
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunScript(name, source)

	close(done)
	wg.Wait()
	e.vm.ClearInterrupt()

	if err != nil {
		return nil, wrapError(err)
	}
	return val, nil
}

// Exec evaluates body as the body of function(_1, ..., _n) applied to args.
// The body may use $i, the intrinsics captured when the engine started.
func (e *Engine) Exec(body string, args ...goja.Value) (goja.Value, error) {
	if e.vm == nil {
		return nil, ErrClosed
	}
	fn, err := e.snippet(body, len(args))
	if err != nil {
		return nil, err
	}
	ret, err := fn(goja.Undefined(), args...)
	if err != nil {
		return nil, wrapError(err)
	}
	if ret == nil {
		ret = goja.Undefined()
	}
	return ret, nil
}

func (e *Engine) snippet(body string, arity int) (goja.Callable, error) {
	key := snippetKey{body: body, arity: arity}
	if fn, ok := e.snippets[key]; ok {
		return fn, nil
	}

	params := make([]string, arity)
	for i := range params {
		params[i] = "_" + strconv.Itoa(i+1)
	}
	src := "(function($i) {\nreturn function(" + strings.Join(params, ", ") + ") {\n" + body + "\n};\n})"

	val, err := e.vm.RunString(src)
	if err != nil {
		return nil, fmt.Errorf("engine: compile snippet: %w", wrapError(err))
	}
	bind, ok := goja.AssertFunction(val)
	if !ok {
		return nil, fmt.Errorf("engine: snippet did not evaluate to a function")
	}
	inner, err := bind(goja.Undefined(), e.intrinsics)
	if err != nil {
		return nil, fmt.Errorf("engine: bind snippet: %w", wrapError(err))
	}
	fn, ok := goja.AssertFunction(inner)
	if !ok {
		return nil, fmt.Errorf("engine: snippet did not evaluate to a function")
	}
	e.snippets[key] = fn
	return fn, nil
}

// Close releases the VM, running reclaim callbacks for every private slot
func (e *Engine) Close() error {
	if e.vm == nil {
		return nil
	}
	e.slots.closeAll()
	if n := e.ProtectedCount(); n > 0 && e.protectHook != nil {
		e.protectHook(-n)
	}
	e.protected = make(map[*goja.Object]int)
	e.snippets = nil
	e.vm = nil
	return nil
}

// Closed reports whether Close has been called
func (e *Engine) Closed() bool {
	return e.vm == nil
}
