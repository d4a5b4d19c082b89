package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "V8SHIM"

var (
	ErrUnknownFormat = errors.New("unknown config file format")
	ErrInvalid       = errors.New("invalid configuration")
)

// Config holds all application configuration. Environment keys nest under
// EnvPrefix and the section name, e.g. V8SHIM_ENGINE_MAX_CALL_STACK or
// V8SHIM_LOG_LEVEL.
type Config struct {
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Isolate IsolateConfig `toml:"isolate" yaml:"isolate"`
	Pool    PoolConfig    `toml:"pool" yaml:"pool"`
	Scripts ScriptsConfig `toml:"scripts" yaml:"scripts"`
	Logging LogConfig     `envconfig:"LOG" toml:"logging" yaml:"logging"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// EngineConfig holds native engine settings.
type EngineConfig struct {
	MaxCallStack  int      `envconfig:"MAX_CALL_STACK" default:"1024" toml:"max_call_stack" yaml:"max_call_stack"`
	ScriptTimeout Duration `envconfig:"SCRIPT_TIMEOUT" default:"5s" toml:"script_timeout" yaml:"script_timeout"`
}

// IsolateConfig holds default internal field layouts for built-in types.
type IsolateConfig struct {
	ArrayBufferFields int `envconfig:"ARRAY_BUFFER_FIELDS" default:"2" toml:"array_buffer_fields" yaml:"array_buffer_fields"`
	ViewFields        int `envconfig:"VIEW_FIELDS" default:"2" toml:"view_fields" yaml:"view_fields"`
}

// PoolConfig holds isolate pool settings.
type PoolConfig struct {
	Size           int      `envconfig:"SIZE" default:"4" toml:"size" yaml:"size"`
	AcquireTimeout Duration `envconfig:"ACQUIRE_TIMEOUT" default:"5s" toml:"acquire_timeout" yaml:"acquire_timeout"`
}

// ScriptsConfig controls how the CLI finds and reads script files.
type ScriptsConfig struct {
	MaxSize    int64    `envconfig:"MAX_SIZE" default:"16777216" toml:"max_size" yaml:"max_size"`
	Extensions []string `envconfig:"EXTENSIONS" default:".js,.mjs,.cjs" toml:"extensions" yaml:"extensions"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LEVEL" default:"info" toml:"level" yaml:"level"`
	Development bool   `envconfig:"DEV" default:"false" toml:"development" yaml:"development"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool `envconfig:"ENABLED" default:"true" toml:"enabled" yaml:"enabled"`
}

// Duration is a time.Duration that decodes from strings such as "250ms"
// in the environment, TOML and YAML alike.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile loads configuration from the environment and then overlays the
// given TOML or YAML file. Keys absent from the file keep their env value.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects values the isolate layer cannot honour.
func (c *Config) Validate() error {
	switch {
	case c.Engine.MaxCallStack < 0:
		return fmt.Errorf("%w: max call stack %d", ErrInvalid, c.Engine.MaxCallStack)
	case c.Engine.ScriptTimeout < 0:
		return fmt.Errorf("%w: script timeout %s", ErrInvalid, c.Engine.ScriptTimeout.Std())
	case c.Isolate.ArrayBufferFields < 0, c.Isolate.ViewFields < 0:
		return fmt.Errorf("%w: negative internal field count", ErrInvalid)
	case c.Pool.Size < 1:
		return fmt.Errorf("%w: pool size %d", ErrInvalid, c.Pool.Size)
	case c.Scripts.MaxSize < 1:
		return fmt.Errorf("%w: script max size %d", ErrInvalid, c.Scripts.MaxSize)
	case len(c.Scripts.Extensions) == 0:
		return fmt.Errorf("%w: no script extensions", ErrInvalid)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxCallStack:  1024,
			ScriptTimeout: Duration(5 * time.Second),
		},
		Isolate: IsolateConfig{
			ArrayBufferFields: 2,
			ViewFields:        2,
		},
		Pool: PoolConfig{
			Size:           4,
			AcquireTimeout: Duration(5 * time.Second),
		},
		Scripts: ScriptsConfig{
			MaxSize:    16 << 20,
			Extensions: []string{".js", ".mjs", ".cjs"},
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}
