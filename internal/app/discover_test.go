package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// extSet recognises Python files by extension, case-insensitively.
type extSet map[string]bool

func (s extSet) SupportsExtension(ext string) bool { return s[strings.ToLower(ext)] }

var pySources = extSet{".py": true, ".pyw": true}

// tree creates files under root; a trailing slash makes a directory.
func tree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestDiscover_WalksPythonFiles(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{
		"b.py":                        "",
		"a.py":                        "",
		"gui.pyw":                     "",
		"stubs.pyi":                   "",
		"README.md":                   "",
		"pkg/__init__.py":             "",
		"pkg/sub/mod.py":              "",
		"scripts/tool":                "#!/usr/bin/env python3\nprint()\n",
		"scripts/run.sh":              "#!/bin/sh\n",
		"scripts/empty":               "",
		".git/hooks/x.py":             "",
		".venv/lib/site.py":           "",
		"__pycache__/a.py":            "",
		"mypkg.egg-info/setup.py":     "",
		"node_modules/pkg/x.py":       "",
		"build/lib/a.py":              "",
		"docs/conf.py":                "",
		"pkg/sub/__pycache__/mod.pyc": "",
	})

	files, err := Discover([]string{root}, DiscoverOptions{Sources: pySources})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"a.py", "b.py", "docs/conf.py", "gui.pyw",
		"pkg/__init__.py", "pkg/sub/mod.py", "scripts/tool",
	}, rel(t, root, files))
}

func TestDiscover_IgnoreGlobs(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{
		"a.py":            "",
		"test_a.py":       "",
		"tests/helper.py": "",
		"pkg/b.py":        "",
	})

	files, err := Discover([]string{root}, DiscoverOptions{Sources: pySources, Ignore: []string{"test_*.py", "tests"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "pkg/b.py"}, rel(t, root, files))
}

func TestDiscover_CustomIgnoreDirsReplaceDefaults(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"build/a.py": "", "gen/b.py": ""})

	files, err := Discover([]string{root}, DiscoverOptions{Sources: pySources, IgnoreDirs: []string{"gen"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"build/a.py"}, rel(t, root, files))
}

func TestDiscover_ExplicitFilesAlwaysIncluded(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"notes.txt": "", "build/gen.py": "", "a.py": ""})

	explicit := []string{filepath.Join(root, "notes.txt"), filepath.Join(root, "build", "gen.py")}
	files, err := Discover(explicit, DiscoverOptions{Sources: pySources})
	require.NoError(t, err)
	assert.Equal(t, explicit, files)
}

func TestDiscover_Deduplicates(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{"a.py": "", "b.py": ""})

	a := filepath.Join(root, "a.py")
	files, err := Discover([]string{a, root}, DiscoverOptions{Sources: pySources})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "b.py"}, rel(t, root, files))
}

func TestDiscover_DoesNotFollowSymlinkedDirs(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	tree(t, root, map[string]string{"a.py": ""})
	tree(t, outside, map[string]string{"far.py": ""})
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "far.py"), filepath.Join(root, "near.py")))

	files, err := Discover([]string{root}, DiscoverOptions{Sources: pySources})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "near.py"}, rel(t, root, files))
}

func TestDiscover_MissingPath(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "missing")}, DiscoverOptions{Sources: pySources})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsPython(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{
		"upper.PY":  "",
		"shebang":   "#!/usr/bin/python -u\n",
		"crlf":      "#!/usr/bin/env python\r\nx = 1\r\n",
		"later":     "# not a shebang\n#!/usr/bin/python\n",
		"other.txt": "#!/bin/bash\n",
	})

	assert.True(t, IsPython(filepath.Join(root, "upper.PY"), pySources))
	assert.True(t, IsPython(filepath.Join(root, "shebang"), pySources))
	assert.True(t, IsPython(filepath.Join(root, "crlf"), pySources))
	assert.False(t, IsPython(filepath.Join(root, "later"), pySources))
	assert.False(t, IsPython(filepath.Join(root, "other.txt"), pySources))
	assert.False(t, IsPython(filepath.Join(root, "missing"), pySources))
}

func TestDiscoverOptions_Skip(t *testing.T) {
	opts := DiscoverOptions{Sources: pySources, Ignore: []string{"gen_*"}}
	assert.True(t, opts.Skip("/p/.venv", true))
	assert.True(t, opts.Skip("/p/x.egg-info", true))
	assert.True(t, opts.Skip("/p/gen_out", true))
	assert.False(t, opts.Skip("/p/pkg", true))

	assert.True(t, opts.Skip("/p/gen_a.py", false))
	assert.True(t, opts.Skip("/p/readme.md", false))
	assert.False(t, opts.Skip("/p/mod.py", false))
}

func TestDiscover_SourcesDecideExtensions(t *testing.T) {
	root := t.TempDir()
	tree(t, root, map[string]string{
		"a.py":  "",
		"b.pyx": "",
		"tool":  "#!/usr/bin/env python3\n",
		"c.pyw": "",
	})

	files, err := Discover([]string{root}, DiscoverOptions{Sources: extSet{".pyx": true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.pyx", "tool"}, rel(t, root, files))

	files, err = Discover([]string{root}, DiscoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"tool"}, rel(t, root, files), "without sources only shebangs count")
}
