package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	if dir := ConfigDir(); dir != "" {
		assert.Equal(t, AppName, filepath.Base(dir))
	}
}

func TestHistoryFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".v8shim_history"), HistoryFile())
}

func TestFindConfig(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	t.Setenv("HOME", base)

	dir := ConfigDir()
	if dir == "" {
		t.Skip("no user config dir on this platform")
	}

	_, ok := FindConfig()
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config.toml"), 0o755))
	_, ok = FindConfig()
	assert.False(t, ok, "directories are not config files")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("pool:\n  size: 1\n"), 0o644))
	path, ok := FindConfig()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), path)
}
