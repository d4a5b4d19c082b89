package v8

import (
	"encoding/binary"
	"errors"

	"github.com/cespare/xxhash/v2"
	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/v8goja/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/v8goja/internal/logging"
	"github.com/GriffinCanCode/v8goja/internal/shared/id"
)

const hashMask = 0x3fffffff

// CreateParams configures a new isolate
type CreateParams struct {
	Config  Config
	Logger  *zap.Logger
	Metrics *monitoring.Metrics
}

// Isolate groups contexts and owns the exception state shared by them.
// It must be used from one goroutine at a time.
type Isolate struct {
	id      id.IsolateID
	config  Config
	logger  *zap.Logger
	metrics *monitoring.Metrics

	// primitives creates context-free values (strings, numbers)
	primitives *goja.Runtime

	contexts []*Context
	entered  []*Context

	tryCatches    []*TryCatch
	pending       *Value
	scheduled     *Value
	callbackDepth int

	hashSeed    uint64
	hashCounter uint64

	disposed bool
}

// NewIsolate creates an isolate. A zero Config selects DefaultConfig and a
// nil Logger discards output.
func NewIsolate(params CreateParams) (*Isolate, error) {
	cfg := params.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if cfg.ArrayBufferFieldCount < 0 || cfg.ViewFieldCount < 0 {
		return nil, errors.New("v8: internal field counts must not be negative")
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	isoID := id.NewIsolateID()
	iso := &Isolate{
		id:         isoID,
		config:     cfg,
		logger:     logger.With(logging.Isolate(isoID)),
		metrics:    params.Metrics,
		primitives: goja.New(),
		hashSeed:   xxhash.Sum64String(isoID.String()),
	}

	iso.logger.Info("isolate created",
		zap.Int("array_buffer_fields", cfg.ArrayBufferFieldCount),
		zap.Int("view_fields", cfg.ViewFieldCount),
	)
	return iso, nil
}

// ID returns the isolate identifier
func (iso *Isolate) ID() id.IsolateID {
	return iso.id
}

// Logger returns the isolate logger
func (iso *Isolate) Logger() *zap.Logger {
	return iso.logger
}

// Metrics returns the metrics sink, which may be nil
func (iso *Isolate) Metrics() *monitoring.Metrics {
	return iso.metrics
}

// IsDisposed reports whether Dispose has been called
func (iso *Isolate) IsDisposed() bool {
	return iso.disposed
}

// Dispose tears down every context of the isolate
func (iso *Isolate) Dispose() {
	if iso.disposed {
		return
	}
	iso.clear()
	iso.disposed = true
	iso.logger.Info("isolate disposed")
}

// Reset disposes all contexts and clears exception state so the isolate can
// be handed to another user
func (iso *Isolate) Reset() error {
	if iso.disposed {
		return ErrDisposed
	}
	iso.clear()
	iso.logger.Debug("isolate reset")
	return nil
}

func (iso *Isolate) clear() {
	contexts := append([]*Context(nil), iso.contexts...)
	for _, c := range contexts {
		c.Dispose()
	}
	iso.contexts = nil
	iso.entered = nil
	iso.tryCatches = nil
	iso.pending = nil
	iso.scheduled = nil
	iso.callbackDepth = 0
}

// GetCurrentContext returns the most recently entered context, or nil
func (iso *Isolate) GetCurrentContext() *Context {
	if n := len(iso.entered); n > 0 {
		return iso.entered[n-1]
	}
	return nil
}

// InContext reports whether a context is entered
func (iso *Isolate) InContext() bool {
	return len(iso.entered) > 0
}

// PendingException returns the exception raised by the last failed call
// made outside any TryCatch
func (iso *Isolate) PendingException() *Value {
	return iso.pending
}

func (iso *Isolate) HasPendingException() bool {
	return iso.pending != nil
}

func (iso *Isolate) ClearPendingException() {
	iso.pending = nil
}

// ThrowException raises exc. Inside a callback it is scheduled and thrown
// into script when the callback returns; otherwise it is delivered at once.
func (iso *Isolate) ThrowException(exc *Value) *Value {
	if exc == nil {
		exc = Undefined(iso)
	}
	if iso.callbackDepth > 0 {
		iso.scheduled = exc
		iso.logger.Debug("exception scheduled", zap.String("type", exc.TypeOf()))
	} else {
		iso.route(exc)
	}
	return Undefined(iso)
}

// nextHash returns a non-zero identity hash
func (iso *Isolate) nextHash() int32 {
	iso.hashCounter++

	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], iso.hashSeed)
	binary.LittleEndian.PutUint64(buf[8:], iso.hashCounter)

	h := int32(xxhash.Sum64(buf[:]) & hashMask)
	if h == 0 {
		h = 1
	}
	return h
}

func (iso *Isolate) removeContext(c *Context) {
	for i, x := range iso.contexts {
		if x == c {
			iso.contexts = append(iso.contexts[:i], iso.contexts[i+1:]...)
			break
		}
	}
	kept := iso.entered[:0]
	for _, x := range iso.entered {
		if x != c {
			kept = append(kept, x)
		}
	}
	iso.entered = kept
}
