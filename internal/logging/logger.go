package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GriffinCanCode/v8goja/internal/shared/id"
)

// Field keys shared by every isolate and context log line
const (
	KeyIsolate = "isolate"
	KeyContext = "context"
)

// Logger is the root logger of the CLI. Isolates receive Engine().
type Logger struct {
	*zap.Logger
}

// Config defines logger configuration.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
	OutputPaths []string
}

// DefaultConfig logs JSON at info level to stderr, leaving stdout to
// script results.
func DefaultConfig() Config {
	return Config{Level: "info", OutputPaths: []string{"stderr"}}
}

// DevelopmentConfig logs coloured console lines at debug level to stderr.
func DevelopmentConfig() Config {
	return Config{Level: "debug", Development: true, OutputPaths: []string{"stderr"}}
}

// FromSettings maps the configured level and mode. force selects
// DevelopmentConfig whatever was configured.
func FromSettings(level string, development, force bool) Config {
	if force {
		return DevelopmentConfig()
	}
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Development = development
	return cfg
}

// New builds the root logger, named "v8shim".
func New(cfg Config) (*Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          "json",
		EncoderConfig:     encoderConfig(cfg.Development),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: !cfg.Development,
	}
	if cfg.Development {
		zapCfg.Encoding = "console"
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger.Named("v8shim")}, nil
}

// Engine returns the logger handed to isolates through CreateParams
func (l *Logger) Engine() *zap.Logger {
	return l.Named("engine")
}

// Isolate tags a log line with an isolate ID
func Isolate(iso id.IsolateID) zap.Field {
	return zap.String(KeyIsolate, iso.String())
}

// Context tags a log line with a context ID
func Context(ctx id.ContextID) zap.Field {
	return zap.String(KeyContext, ctx.String())
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		return enc
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.NameKey = "component"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.MillisDurationEncoder
	return enc
}
