package v8

import (
	"errors"

	"go.uber.org/zap"
)

var (
	ErrNotSupported = errors.New("v8: operation not supported")
	ErrDisposed     = errors.New("v8: isolate disposed")
	ErrPoolClosed   = errors.New("v8: isolate pool is closed")
	ErrPoolTimeout  = errors.New("v8: isolate acquisition timeout")
)

// NotSupportedError is the panic value of host API entry points that have
// no implementation on this engine.
type NotSupportedError struct {
	Op string
}

func (e *NotSupportedError) Error() string {
	return "v8: " + e.Op + " is not supported"
}

func (e *NotSupportedError) Unwrap() error {
	return ErrNotSupported
}

// notSupported logs and panics. It never returns.
func notSupported(iso *Isolate, op string) {
	err := &NotSupportedError{Op: op}
	if iso != nil {
		iso.logger.Error("unsupported operation", zap.String("op", op))
	}
	panic(err)
}
