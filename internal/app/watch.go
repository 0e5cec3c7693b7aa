package app

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/corey/doccheck/internal/ports"
)

// Watch runs a full check of paths, then re-checks each Python module that
// changes under them until ctx is done. It always ends with ErrInterrupted
// unless setup fails.
func (r *Runner) Watch(ctx context.Context, w ports.Watcher, paths []string) error {
	log := r.logger()

	if _, err := r.Run(ctx, paths); err != nil {
		return err
	}

	scope, err := newWatchScope(paths)
	if err != nil {
		return err
	}

	changes := make(chan string, 64)
	roots := scope.roots()
	err = w.Watch(roots, func(path string) {
		select {
		case changes <- path:
		case <-ctx.Done():
		}
	})
	defer w.Stop()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	log.Info("watching", "roots", roots)

	for {
		select {
		case <-ctx.Done():
			return ErrInterrupted
		case path := <-changes:
			if !scope.contains(path) {
				continue
			}
			r.recheck(path)
		}
	}
}

// recheck checks one changed module and prints its diagnostics.
func (r *Runner) recheck(path string) {
	log := r.logger()
	name := displayPath(path)

	if _, err := os.Stat(path); err != nil {
		log.Info("module removed", "file", name)
		return
	}
	out, ok := r.checkFile(path, name)
	if _, err := r.Out.Write(out); err != nil {
		log.Error("write diagnostics", "error", err)
	}
	verdict := "passed"
	if !ok {
		verdict = "failed"
	}
	log.Info("rechecked module", "file", name, "verdict", verdict)
}

// displayPath shortens an absolute path to one relative to the working
// directory when it lies below it.
func displayPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// watchScope is the set of locations a watch run reports on: whole
// directory trees, and single files named on the command line.
type watchScope struct {
	dirs  []string
	files map[string]bool
}

func newWatchScope(paths []string) (*watchScope, error) {
	s := &watchScope{files: make(map[string]bool)}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		if info.IsDir() {
			s.dirs = append(s.dirs, abs)
		} else {
			s.files[abs] = true
		}
	}
	return s, nil
}

// roots lists the directories to hand to the watcher, each once.
func (s *watchScope) roots() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			out = append(out, dir)
		}
	}
	for _, d := range s.dirs {
		add(d)
	}
	for _, f := range slices.Sorted(maps.Keys(s.files)) {
		add(filepath.Dir(f))
	}
	return out
}

func (s *watchScope) contains(path string) bool {
	if s.files[path] {
		return true
	}
	for _, d := range s.dirs {
		if path == d || strings.HasPrefix(path, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
