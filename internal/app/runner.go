package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/corey/doccheck/internal/domain/docstring"
	"github.com/corey/doccheck/internal/ports"
)

// ErrInterrupted is returned when a run is cancelled before it finishes.
var ErrInterrupted = errors.New("interrupted")

// Runner checks Python modules found on disk.
type Runner struct {
	Parser ports.Parser
	Config docstring.Config
	// Discover configures the walk. Its Sources defaults to Parser.
	Discover DiscoverOptions
	// Jobs caps concurrent module checks; 0 means one per CPU.
	Jobs int
	// Out receives diagnostics, one module's block at a time.
	Out io.Writer
	Log *slog.Logger
}

// result is the outcome of checking one module.
type result struct {
	out  []byte
	ok   bool
	done chan struct{}
}

func (r *Runner) logger() *slog.Logger {
	if r.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Log
}

func (r *Runner) discoverOptions() DiscoverOptions {
	opts := r.Discover
	if opts.Sources == nil && r.Parser != nil {
		opts.Sources = r.Parser
	}
	return opts
}

// Skip reports whether a watcher should ignore path, using the same rules
// as discovery.
func (r *Runner) Skip(path string, isDir bool) bool {
	return r.discoverOptions().Skip(path, isDir)
}

func (r *Runner) jobs() int {
	if r.Jobs > 0 {
		return r.Jobs
	}
	return runtime.NumCPU()
}

// Run checks every module under paths and reports whether all passed.
// Modules are checked concurrently, but each module's diagnostics are
// written to Out in discovery order, so the output matches a sequential
// run. A cancelled ctx stops the run with ErrInterrupted.
func (r *Runner) Run(ctx context.Context, paths []string) (bool, error) {
	log := r.logger()

	files, err := Discover(paths, r.discoverOptions())
	if err != nil {
		return false, err
	}
	log.Info("discovered modules", "count", len(files))

	results := make([]*result, len(files))
	for i := range results {
		results[i] = &result{done: make(chan struct{})}
	}

	g := new(errgroup.Group)
	g.SetLimit(r.jobs())
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, path := range files {
			res := results[i]
			g.Go(func() error {
				defer close(res.done)
				if ctx.Err() != nil {
					return nil
				}
				res.out, res.ok = r.checkFile(path, path)
				return nil
			})
		}
	}()

	ok := true
	for _, res := range results {
		<-res.done
		if ctx.Err() != nil {
			break
		}
		if _, err := r.Out.Write(res.out); err != nil {
			return false, fmt.Errorf("write diagnostics: %w", err)
		}
		ok = res.ok && ok
	}
	<-launched
	_ = g.Wait()

	if ctx.Err() != nil {
		return false, ErrInterrupted
	}
	log.Info("run finished", "modules", len(files), "ok", ok)
	return ok, nil
}

// checkFile checks one module and returns its diagnostic block. Unparsable
// modules are skipped and pass; unreadable ones fail.
func (r *Runner) checkFile(path, displayName string) ([]byte, bool) {
	log := r.logger()

	source, err := os.ReadFile(path)
	if err != nil {
		log.Error("cannot read module", "file", displayName, "error", err)
		return nil, false
	}

	log.Info("checking module", "file", displayName)
	m, err := r.Parser.Parse(path, source)
	if errors.Is(err, ports.ErrUnparsable) {
		log.Info("skipping unparsable module", "file", displayName, "error", err)
		return nil, true
	}
	if err != nil {
		log.Error("cannot parse module", "file", displayName, "error", err)
		return nil, false
	}

	var buf bytes.Buffer
	ok := docstring.CheckModule(r.Config, docstring.NewReporter(&buf), displayName, m)
	return buf.Bytes(), ok
}
