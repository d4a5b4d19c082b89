package scripts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (relative path -> content) under a temp dir
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestResolverMatch(t *testing.T) {
	r := NewResolver([]string{".js", "mjs", " "})

	tests := []struct {
		path string
		want bool
	}{
		{"app.js", true},
		{"lib/mod.mjs", true},
		{"APP.JS", true},
		{"bundle.js.gz", true},
		{"bundle.js.zst", true},
		{"notes.txt", false},
		{"archive.gz", false},
		{"js", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Match(tt.path))
		})
	}
}

func TestResolve(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.js":               "1",
		"b.txt":              "2",
		"lib/c.js":           "3",
		"lib/deep/d.mjs":     "4",
		"lib/deep/e.js.gz":   "5",
		".hidden/skip.js":    "6",
		"lib/.cache/skip.js": "7",
	})
	r := NewResolver([]string{".js", ".mjs"})
	at := func(rel string) string { return filepath.Join(root, rel) }

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "file",
			args: []string{at("b.txt")},
			want: []string{at("b.txt")},
		},
		{
			name: "directory",
			args: []string{root},
			want: []string{at("a.js"), at("lib/c.js"), at("lib/deep/d.mjs"), at("lib/deep/e.js.gz")},
		},
		{
			name: "glob",
			args: []string{filepath.Join(root, "lib", "**", "*.mjs")},
			want: []string{at("lib/deep/d.mjs")},
		},
		{
			name: "duplicates dropped",
			args: []string{at("a.js"), root + string(filepath.Separator), at("a.js")},
			want: []string{at("a.js"), at("lib/c.js"), at("lib/deep/d.mjs"), at("lib/deep/e.js.gz")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	root := writeTree(t, map[string]string{"a.js": "1"})
	r := NewResolver([]string{".js"})

	_, err := r.Resolve(context.Background(), []string{filepath.Join(root, "missing.js")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = r.Resolve(context.Background(), []string{filepath.Join(root, "*.mjs")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Resolve(ctx, []string{root})
	assert.ErrorIs(t, err, context.Canceled)
}
