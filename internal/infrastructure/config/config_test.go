package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1024, cfg.Engine.MaxCallStack)
	assert.Equal(t, 5*time.Second, cfg.Engine.ScriptTimeout.Std())
	assert.Equal(t, 2, cfg.Isolate.ArrayBufferFields)
	assert.Equal(t, 2, cfg.Isolate.ViewFields)
	assert.Equal(t, 4, cfg.Pool.Size)
	assert.Equal(t, int64(16<<20), cfg.Scripts.MaxSize)
	assert.Equal(t, []string{".js", ".mjs", ".cjs"}, cfg.Scripts.Extensions)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.True(t, cfg.Metrics.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"V8SHIM_ENGINE_MAX_CALL_STACK":       "256",
		"V8SHIM_ENGINE_SCRIPT_TIMEOUT":       "250ms",
		"V8SHIM_ISOLATE_ARRAY_BUFFER_FIELDS": "3",
		"V8SHIM_ISOLATE_VIEW_FIELDS":         "1",
		"V8SHIM_POOL_SIZE":                   "8",
		"V8SHIM_SCRIPTS_MAX_SIZE":            "1024",
		"V8SHIM_SCRIPTS_EXTENSIONS":          ".js,.es",
		"V8SHIM_LOG_LEVEL":                   "debug",
		"V8SHIM_LOG_DEV":                     "true",
		"V8SHIM_METRICS_ENABLED":             "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Engine.MaxCallStack)
	assert.Equal(t, 250*time.Millisecond, cfg.Engine.ScriptTimeout.Std())
	assert.Equal(t, 3, cfg.Isolate.ArrayBufferFields)
	assert.Equal(t, 1, cfg.Isolate.ViewFields)
	assert.Equal(t, 8, cfg.Pool.Size)
	assert.Equal(t, int64(1024), cfg.Scripts.MaxSize)
	assert.Equal(t, []string{".js", ".es"}, cfg.Scripts.Extensions)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("V8SHIM_POOL_SIZE", "0")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	cfg := LoadOrDefault()
	assert.Equal(t, 4, cfg.Pool.Size)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "v8shim.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[engine]
max_call_stack = 64
script_timeout = "2s"

[isolate]
view_fields = 4

[scripts]
extensions = [".js"]
`), 0o600))

	yamlPath := filepath.Join(dir, "v8shim.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
pool:
  size: 2
logging:
  level: warn
`), 0o600))

	t.Run("toml", func(t *testing.T) {
		cfg, err := LoadFile(tomlPath)
		require.NoError(t, err)
		assert.Equal(t, 64, cfg.Engine.MaxCallStack)
		assert.Equal(t, 2*time.Second, cfg.Engine.ScriptTimeout.Std())
		assert.Equal(t, 4, cfg.Isolate.ViewFields)
		assert.Equal(t, 2, cfg.Isolate.ArrayBufferFields)
		assert.Equal(t, []string{".js"}, cfg.Scripts.Extensions)
	})

	t.Run("yaml", func(t *testing.T) {
		cfg, err := LoadFile(yamlPath)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Pool.Size)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, 1024, cfg.Engine.MaxCallStack)
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := filepath.Join(dir, "v8shim.ini")
		require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o600))
		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "absent.toml"))
		assert.Error(t, err)
	})
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
