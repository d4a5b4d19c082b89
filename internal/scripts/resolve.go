package scripts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// compressed suffixes accepted after a script extension
var compressedSuffixes = []string{".gz", ".zst"}

// Resolver expands command line arguments into script paths
type Resolver struct {
	extensions []string
}

// NewResolver creates a resolver matching the given extensions, e.g. ".js"
func NewResolver(extensions []string) *Resolver {
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return &Resolver{extensions: exts}
}

// Match reports whether path has a script extension, optionally followed by
// a compression suffix
func (r *Resolver) Match(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, c := range compressedSuffixes {
		if strings.HasSuffix(name, c) {
			name = strings.TrimSuffix(name, c)
			break
		}
	}
	for _, e := range r.extensions {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

// Resolve expands args in order. Duplicates are dropped; matches of one
// glob or directory are sorted.
func (r *Resolver) Resolve(ctx context.Context, args []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(paths ...string) {
		for _, p := range paths {
			clean := filepath.Clean(p)
			if !seen[clean] {
				seen[clean] = true
				out = append(out, clean)
			}
		}
	}

	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if hasMeta(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("glob %q: %w", arg, os.ErrNotExist)
			}
			sort.Strings(matches)
			add(matches...)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		files, err := r.walk(ctx, arg)
		if err != nil {
			return nil, err
		}
		add(files...)
	}
	return out, nil
}

// walk collects script files below dir
func (r *Resolver) walk(ctx context.Context, dir string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)
	dir = filepath.Clean(dir)
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if filepath.Clean(p) != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if r.Match(p) {
			mu.Lock()
			files = append(files, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
