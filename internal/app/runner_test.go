package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/doccheck/internal/domain/docstring"
	"github.com/corey/doccheck/internal/domain/syntax"
	"github.com/corey/doccheck/internal/ports"
)

// lineParser is a stand-in for the tree-sitter parser. Each source line
// "def NAME" declares an undocumented function, "doc" gives the module a
// docstring, "sleep" delays the parse and "broken" makes the module
// unparsable.
type lineParser struct{}

func (lineParser) SupportsExtension(ext string) bool { return ext == ".py" }

func (lineParser) Parse(path string, source []byte) (*syntax.Module, error) {
	m := &syntax.Module{Path: path}
	for i, line := range strings.Split(string(source), "\n") {
		switch {
		case line == "broken":
			return nil, fmt.Errorf("%w: %s", ports.ErrUnparsable, path)
		case line == "fail":
			return nil, errors.New("parser crashed")
		case line == "doc":
			m.Docstring = syntax.Str("Module.")
		case line == "sleep":
			time.Sleep(30 * time.Millisecond)
		case strings.HasPrefix(line, "def "):
			m.Body = append(m.Body, &syntax.FunctionDef{Name: strings.TrimPrefix(line, "def "), Line: i + 1})
		}
	}
	return m, nil
}

func newRunner(out *bytes.Buffer, logs *bytes.Buffer) *Runner {
	r := &Runner{Parser: lineParser{}, Out: out, Jobs: 4}
	if logs != nil {
		r.Log = slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return r
}

func TestRunner_AllDocumented(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"a.py": "doc", "pkg/b.py": "doc"})

	var out bytes.Buffer
	ok, err := newRunner(&out, nil).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out.String())
}

func TestRunner_ReportsInDiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{
		"a.py": "sleep\ndoc\ndef slow",
		"b.py": "doc\ndef quick",
		"c.py": "sleep\nsleep",
	})

	var out bytes.Buffer
	ok, err := newRunner(&out, nil).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.False(t, ok)

	a, b, c := filepath.Join(root, "a.py"), filepath.Join(root, "b.py"), filepath.Join(root, "c.py")
	assert.Equal(t,
		a+": Missing doc string: slow (3)\n"+
			b+": Missing doc string: quick (2)\n"+
			c+": Missing doc string: "+c+" (0)\n",
		out.String())
}

func TestRunner_SameOutputAnyJobs(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := range 20 {
		files[fmt.Sprintf("m%02d.py", i)] = fmt.Sprintf("def f%d", i)
	}
	tree(t, root, files)

	var seq, par bytes.Buffer
	r := newRunner(&seq, nil)
	r.Jobs = 1
	_, err := r.Run(context.Background(), []string{root})
	require.NoError(t, err)

	r = newRunner(&par, nil)
	r.Jobs = 8
	_, err = r.Run(context.Background(), []string{root})
	require.NoError(t, err)

	assert.Equal(t, seq.String(), par.String())
	assert.Equal(t, 40, strings.Count(par.String(), "\n"))
}

func TestRunner_UnparsableIsSkipped(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"bad.py": "broken", "good.py": "doc"})

	var out, logs bytes.Buffer
	ok, err := newRunner(&out, &logs).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.True(t, ok, "a syntax error never fails the run")
	assert.Empty(t, out.String())
	assert.Contains(t, logs.String(), "skipping unparsable module")
}

func TestRunner_UnparsableDoesNotHideSiblingFailure(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"bad.py": "broken", "undoc.py": ""})

	var out bytes.Buffer
	ok, err := newRunner(&out, nil).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotContains(t, out.String(), "bad.py")
}

func TestRunner_ParserFailureFails(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"x.py": "fail"})

	var out, logs bytes.Buffer
	ok, err := newRunner(&out, &logs).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "cannot parse module")
}

func TestRunner_UnreadableFileFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "vanished.py")

	var out, logs bytes.Buffer
	diags, ok := newRunner(&out, &logs).checkFile(missing, "vanished.py")
	assert.False(t, ok)
	assert.Empty(t, diags)
	assert.Contains(t, logs.String(), "cannot read module")
}

func TestRunner_MissingPathIsAnError(t *testing.T) {
	var out bytes.Buffer
	ok, err := newRunner(&out, nil).Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRunner_DanglingLinksAreNotModules(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"a.py": "doc"})
	if err := os.Symlink(filepath.Join(root, "missing.py"), filepath.Join(root, "gone.py")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	var out bytes.Buffer
	ok, err := newRunner(&out, nil).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunner_Interrupted(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"a.py": "doc", "b.py": "def f"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	ok, err := newRunner(&out, nil).Run(ctx, []string{root})
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.False(t, ok)
	assert.Empty(t, out.String())
}

func TestRunner_UsesCheckerConfig(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"a.py": "def f"})

	var out bytes.Buffer
	r := newRunner(&out, nil)
	r.Config = docstring.Config{Disabled: map[string]bool{docstring.RuleMissing: true}}
	ok, err := r.Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out.String())
}

func TestRunner_DiscoversWhatTheParserSupports(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"a.py": "def f", "b.pyw": "def g"})

	var out bytes.Buffer
	ok, err := newRunner(&out, nil).Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "a.py")
	assert.NotContains(t, out.String(), "b.pyw", "lineParser only supports .py")

	r := newRunner(&out, nil)
	assert.False(t, r.Skip(filepath.Join(root, "a.py"), false))
	assert.True(t, r.Skip(filepath.Join(root, "b.pyw"), false))
	assert.True(t, r.Skip(filepath.Join(root, ".venv"), true))
}

func TestRunner_ExplicitSourcesOverrideParser(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"a.py": "def f", "b.pyw": "def g"})

	var out bytes.Buffer
	r := newRunner(&out, nil)
	r.Discover.Sources = extSet{".pyw": true}
	ok, err := r.Run(context.Background(), []string{root})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "b.pyw")
	assert.NotContains(t, out.String(), "a.py")
}
