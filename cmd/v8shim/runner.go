package main

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/v8goja/internal/scripts"
	v8 "github.com/GriffinCanCode/v8goja/internal/v8"
)

// result is the outcome of one script. Runs counts completed runs.
type result struct {
	File    string  `json:"file"`
	Value   any     `json:"value,omitempty"`
	Display string  `json:"display"`
	Error   string  `json:"error,omitempty"`
	Runs    int     `json:"runs"`
	Timing  *timing `json:"timing,omitempty"`
}

// scriptError is an uncaught exception raised by a script
type scriptError struct {
	message string
}

func (e *scriptError) Error() string {
	return "Uncaught " + e.message
}

type runner struct {
	pool    *v8.IsolatePool
	console *console
	limit   int
}

func newRunner(pool *v8.IsolatePool, out *console, limit int) *runner {
	if limit < 1 {
		limit = 1
	}
	return &runner{pool: pool, console: out, limit: limit}
}

// runAll runs sources concurrently, at most limit at a time, and returns
// results in source order
func (r *runner) runAll(ctx context.Context, sources []*scripts.Source, repeat int) []result {
	results := make([]result, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = r.run(gctx, src, repeat)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// run executes src repeat times, each in a fresh context
func (r *runner) run(ctx context.Context, src *scripts.Source, repeat int) result {
	res := result{File: src.Name}
	samples := make([]time.Duration, 0, repeat)

	for i := 0; i < repeat; i++ {
		if err := ctx.Err(); err != nil {
			res.Error = err.Error()
			break
		}
		last := i == repeat-1
		err := r.pool.Run(ctx, func(c *v8.Context) error {
			if err := installHost(c, r.console); err != nil {
				return err
			}

			start := time.Now()
			ret := c.RunScript(ctx, src.Name, src.Code)
			samples = append(samples, time.Since(start))

			if ret.IsNothing() {
				return &scriptError{message: c.Isolate().PendingException().String()}
			}
			if last {
				res.Value, res.Display = describe(c, ret.FromJust())
			}
			return nil
		})
		if err != nil {
			res.Error = err.Error()
			break
		}
		res.Runs++
	}

	if repeat > 1 {
		res.Timing = summarize(samples)
	}
	return res
}

// describe returns the JSON form of v, when it has one, and its display
// string. Objects display as JSON; functions and symbols by their string.
func describe(ctx *v8.Context, v *v8.Value) (any, string) {
	if v.IsUndefined() || v.IsFunction() || v.IsSymbol() {
		return nil, v.String()
	}

	text, ok := stringify(ctx, v)
	if !ok {
		return nil, v.String()
	}
	var out any
	if err := sonic.UnmarshalString(text, &out); err != nil {
		return nil, v.String()
	}
	if v.IsObject() {
		return out, text
	}
	return out, v.String()
}

// stringify applies the script JSON.stringify to v
func stringify(ctx *v8.Context, v *v8.Value) (string, bool) {
	iso := ctx.Isolate()
	tc := iso.NewTryCatch()
	defer tc.Close()

	json := ctx.Global().Get(ctx, v8.NewString(iso, "JSON").Value)
	if json.IsNothing() || !json.FromJust().IsObject() {
		return "", false
	}
	fn := json.FromJust().AsObject().Get(ctx, v8.NewString(iso, "stringify").Value)
	if fn.IsNothing() || !fn.FromJust().IsFunction() {
		return "", false
	}
	ret := fn.FromJust().AsFunction().Call(ctx, json.FromJust(), v)
	if ret.IsNothing() || !ret.FromJust().IsString() {
		return "", false
	}
	return ret.FromJust().String(), true
}
