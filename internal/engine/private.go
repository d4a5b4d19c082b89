package engine

import (
	"runtime"
	"sync"
	"weak"

	"github.com/dop251/goja"
)

type slot struct {
	data      any
	onReclaim func(any)
}

// slotTable maps objects to private data without keeping them alive.
// entries is owned by the engine goroutine; reclaimed is filled by runtime
// cleanups running on the GC goroutine.
type slotTable struct {
	entries map[weak.Pointer[goja.Object]]*slot

	mu        sync.Mutex
	reclaimed []weak.Pointer[goja.Object]
}

func newSlotTable() *slotTable {
	return &slotTable{
		entries: make(map[weak.Pointer[goja.Object]]*slot),
	}
}

func (t *slotTable) queue(key weak.Pointer[goja.Object]) {
	t.mu.Lock()
	t.reclaimed = append(t.reclaimed, key)
	t.mu.Unlock()
}

func (t *slotTable) drain() []*slot {
	t.mu.Lock()
	keys := t.reclaimed
	t.reclaimed = nil
	t.mu.Unlock()

	var out []*slot
	for _, key := range keys {
		if s, ok := t.entries[key]; ok {
			delete(t.entries, key)
			out = append(out, s)
		}
	}
	return out
}

func (t *slotTable) closeAll() {
	for key, s := range t.entries {
		delete(t.entries, key)
		if s.onReclaim != nil {
			s.onReclaim(s.data)
		}
	}
	t.mu.Lock()
	t.reclaimed = nil
	t.mu.Unlock()
}

// SetPrivate attaches data to obj. onReclaim runs once, on the engine
// goroutine, after obj has been collected or when the engine closes.
// Replacing the data of an existing slot does not run the old callback.
func (e *Engine) SetPrivate(obj *goja.Object, data any, onReclaim func(any)) {
	e.DrainReclaimed()

	key := weak.Make(obj)
	if s, ok := e.slots.entries[key]; ok {
		s.data = data
		s.onReclaim = onReclaim
		return
	}

	e.slots.entries[key] = &slot{data: data, onReclaim: onReclaim}
	runtime.AddCleanup(obj, e.slots.queue, key)
}

// Private returns the data attached to obj
func (e *Engine) Private(obj *goja.Object) (any, bool) {
	e.DrainReclaimed()

	s, ok := e.slots.entries[weak.Make(obj)]
	if !ok {
		return nil, false
	}
	return s.data, true
}

// PrivateCount returns the number of objects carrying private data
func (e *Engine) PrivateCount() int {
	return len(e.slots.entries)
}

// DrainReclaimed runs the reclaim callbacks of collected objects and returns
// how many ran
func (e *Engine) DrainReclaimed() int {
	slots := e.slots.drain()
	for _, s := range slots {
		if s.onReclaim != nil {
			s.onReclaim(s.data)
		}
	}
	return len(slots)
}
