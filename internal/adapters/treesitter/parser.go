//go:build cgo

// Package treesitter implements ports.Parser with the tree-sitter Python
// grammar. It turns a concrete syntax tree into the statement model in
// internal/domain/syntax: definitions with their docstrings, parameters and
// decorators, and the statement nesting needed to find returns and yields.
//
// The grammar compiles in via CGo.
package treesitter

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	ts_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/corey/doccheck/internal/domain/syntax"
	"github.com/corey/doccheck/internal/ports"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Parser parses Python source files.
// Safe for concurrent use: each Parse call creates its own tree-sitter parser.
type Parser struct {
	language  *tree_sitter.Language
	extToLang map[string]string
}

// NewParser creates a parser with the Python grammar registered.
func NewParser() *Parser {
	p := &Parser{
		language:  tree_sitter.NewLanguage(ts_python.Language()),
		extToLang: make(map[string]string),
	}
	p.addExt("python", ".py", ".pyw")
	return p
}

// addExt maps file extensions to a language name.
func (p *Parser) addExt(lang string, exts ...string) {
	for _, ext := range exts {
		p.extToLang[ext] = lang
	}
}

// SupportsExtension returns true if the parser recognizes this file extension.
func (p *Parser) SupportsExtension(ext string) bool {
	_, ok := p.extToLang[strings.ToLower(ext)]
	return ok
}

// Parse converts source into a syntax.Module. Source that is not valid UTF-8,
// that contains syntax errors, or that the grammar accepts but Python 3 does
// not (print and exec statements, the <> operator, misaligned blocks) yields
// an error wrapping ports.ErrUnparsable.
func (p *Parser) Parse(filePath string, source []byte) (*syntax.Module, error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: %s: content is not valid UTF-8", ports.ErrUnparsable, filePath)
	}
	source = bytes.TrimPrefix(source, utf8BOM)

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("set python grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s: parser returned no tree", ports.ErrUnparsable, filePath)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s: syntax error near line %d",
			ports.ErrUnparsable, filePath, firstErrorLine(root))
	}
	if bad, reason := rejected(root); bad != nil {
		return nil, fmt.Errorf("%w: %s: %s at line %d",
			ports.ErrUnparsable, filePath, reason, lineOf(bad))
	}

	c := &converter{source: source}
	m := c.module(root)
	m.Path = filepath.ToSlash(filePath)
	return m, nil
}

// firstErrorLine returns the 1-based line of the first ERROR or MISSING node.
func firstErrorLine(n *tree_sitter.Node) int {
	if n.IsError() || n.IsMissing() {
		return lineOf(n)
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.HasError() {
			return firstErrorLine(c)
		}
	}
	return lineOf(n)
}

// nodeText returns the source text for a node.
func nodeText(n *tree_sitter.Node, source []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if int(start) > len(source) || int(end) > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

// lineOf returns the 1-based start line of a node.
func lineOf(n *tree_sitter.Node) int {
	return int(n.StartPosition().Row) + 1
}

// namedChildren returns the named children of n, without comments and line
// continuations.
func namedChildren(n *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c == nil || isExtra(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isExtra(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "comment", "line_continuation":
		return true
	}
	return false
}

// hasChildKind reports whether n has a direct (named or anonymous) child of
// the given kind.
func hasChildKind(n *tree_sitter.Node, kind string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil && c.Kind() == kind {
			return true
		}
	}
	return false
}
