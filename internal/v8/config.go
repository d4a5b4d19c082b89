package v8

import (
	"github.com/GriffinCanCode/v8goja/internal/engine"
)

// Config defines isolate configuration
type Config struct {
	Engine engine.Config

	// Internal field counts exposed by built-in objects that were never
	// given metadata explicitly.
	ArrayBufferFieldCount int
	ViewFieldCount        int
}

// DefaultConfig returns the default isolate configuration
func DefaultConfig() Config {
	return Config{
		Engine:                engine.DefaultConfig(),
		ArrayBufferFieldCount: 2,
		ViewFieldCount:        2,
	}
}
