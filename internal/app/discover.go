// Package app runs the docstring checker over files on disk: it discovers
// Python modules, checks them in parallel with ordered output, and re-checks
// them as they change.
package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// DefaultIgnoreDirs are directory name patterns never descended into.
var DefaultIgnoreDirs = []string{
	".git", ".hg", ".svn",
	".tox", ".nox", ".venv", "venv",
	"__pycache__", "node_modules",
	"build", "dist",
	".mypy_cache", ".pytest_cache",
	"*.egg-info",
}

// shebangProbe bounds how much of a file is read looking for a shebang.
const shebangProbe = 256

// ExtensionMatcher decides by file extension which files hold Python source.
// ports.Parser satisfies it.
type ExtensionMatcher interface {
	SupportsExtension(ext string) bool
}

// DiscoverOptions is the traversal configuration. It is passed explicitly to
// every walk; nothing about discovery lives in package state.
type DiscoverOptions struct {
	// Sources recognises Python files by extension. Files it rejects, or
	// every file when nil, are still modules if their shebang names python.
	Sources ExtensionMatcher
	// IgnoreDirs replaces DefaultIgnoreDirs when non-nil.
	IgnoreDirs []string
	// Ignore holds extra glob patterns, matched against base names, that
	// exclude both directories and files.
	Ignore []string
}

func (o DiscoverOptions) dirPatterns() []string {
	if o.IgnoreDirs != nil {
		return o.IgnoreDirs
	}
	return DefaultIgnoreDirs
}

// ignored reports whether base matches an ignore pattern.
func (o DiscoverOptions) ignored(base string, isDir bool) bool {
	if isDir && matchAny(o.dirPatterns(), base) {
		return true
	}
	return matchAny(o.Ignore, base)
}

// Skip reports whether the watcher should leave path alone. Directories are
// skipped by name; files when ignored or not Python.
func (o DiscoverOptions) Skip(path string, isDir bool) bool {
	if isDir {
		return o.ignored(filepath.Base(path), true)
	}
	return o.ignored(filepath.Base(path), false) || !IsPython(path, o.Sources)
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Discover expands paths into the Python modules to check. Files named
// explicitly are always included. Directories are walked in lexical order
// without following symlinked directories. The result holds each module
// once, in the order first found.
func Discover(paths []string, opts DiscoverOptions) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		key := filepath.Clean(p)
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if !seen[key] {
			seen[key] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				return nil // unreadable subdirectory
			}
			if d.IsDir() {
				if path != root && opts.ignored(d.Name(), true) {
					return filepath.SkipDir
				}
				return nil
			}
			if opts.ignored(d.Name(), false) {
				return nil
			}
			if d.Type()&fs.ModeSymlink != 0 {
				if target, err := os.Stat(path); err != nil || target.IsDir() {
					return nil
				}
			} else if !d.Type().IsRegular() {
				return nil
			}
			if IsPython(path, opts.Sources) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}
		slices.Sort(found)
		for _, p := range found {
			add(p)
		}
	}
	return files, nil
}

// IsPython reports whether path names a Python module: a file whose
// extension sources supports, or any file whose first line is a shebang that
// mentions python.
func IsPython(path string, sources ExtensionMatcher) bool {
	if sources != nil && sources.SupportsExtension(filepath.Ext(path)) {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	line, err := bufio.NewReaderSize(f, shebangProbe).Peek(shebangProbe)
	if err != nil && len(line) == 0 {
		return false
	}
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	return bytes.HasPrefix(line, []byte("#!")) && bytes.Contains(line, []byte("python"))
}
