package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

var (
	ErrClosed      = errors.New("engine is closed")
	ErrTimeout     = errors.New("script execution timeout exceeded")
	ErrInterrupted = errors.New("script execution interrupted")
	ErrNotObject   = errors.New("value is not an object")
)

// Config defines engine configuration
type Config struct {
	MaxCallStackSize int           // 0 keeps goja's default
	Timeout          time.Duration // Run timeout, 0 disables it
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{
		MaxCallStackSize: 1024,
		Timeout:          5 * time.Second,
	}
}

// Exception is a value thrown by script.
type Exception struct {
	Value goja.Value
	cause error
}

func (e *Exception) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	if e.Value == nil {
		return "exception"
	}
	return e.Value.String()
}

func (e *Exception) Unwrap() error {
	return e.cause
}

// wrapError normalizes the errors goja returns from Run*, Callable and
// Object methods.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var intr *goja.InterruptedError
	if errors.As(err, &intr) {
		if cause, ok := intr.Value().(error); ok {
			return fmt.Errorf("%w: %w", ErrInterrupted, cause)
		}
		return fmt.Errorf("%w: %v", ErrInterrupted, intr.Value())
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return &Exception{Value: ex.Value(), cause: ex}
	}
	return err
}

// catch runs fn and converts a script exception raised by goja as a panic
// into an error. Anything else keeps panicking.
func catch(fn func()) (err error) {
	defer func() {
		if x := recover(); x != nil {
			switch x := x.(type) {
			case *goja.InterruptedError:
				err = wrapError(x)
			case *goja.Exception:
				err = wrapError(x)
			case goja.Value:
				err = &Exception{Value: x}
			default:
				panic(x)
			}
		}
	}()

	fn()
	return nil
}
