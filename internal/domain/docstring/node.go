// Package docstring checks Python docstrings for presence, termination and,
// when extra checks are enabled, for agreement between Sphinx-style field
// directives (:param:, :type:, :returns:, ...) and the documented code.
//
// The package works on the syntax model in internal/domain/syntax and has no
// knowledge of files, parsing or the command line.
package docstring

import (
	"iter"

	"github.com/corey/doccheck/internal/domain/syntax"
)

// Kind is the kind of a documentable node.
type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindFunction
	KindAsyncFunction
)

// String returns the lower-case label for a kind.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindAsyncFunction:
		return "async function"
	default:
		return "unknown"
	}
}

// Node is one entity that can carry a docstring. Params, Decorators and Body
// are only set for functions.
type Node struct {
	Kind       Kind
	Name       string
	Line       int // 0 for the module
	Docstring  *string
	Params     []string
	Decorators []syntax.Decorator
	Body       []syntax.Stmt
}

// IsFunction reports whether n is a def or async def.
func (n Node) IsFunction() bool {
	return n.Kind == KindFunction || n.Kind == KindAsyncFunction
}

// Documentables yields the module itself followed by every class, function
// and async function in m, in document order, descending into nested bodies
// of any depth. The module is named displayName.
func Documentables(displayName string, m *syntax.Module) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		mod := Node{
			Kind:      KindModule,
			Name:      displayName,
			Line:      0,
			Docstring: m.Docstring,
		}
		if !yield(mod) {
			return
		}
		walkDefs(m.Body, yield)
	}
}

// walkDefs visits stmts in pre-order. It returns false once yield asks to
// stop.
func walkDefs(stmts []syntax.Stmt, yield func(Node) bool) bool {
	for _, st := range stmts {
		switch s := st.(type) {
		case *syntax.FunctionDef:
			kind := KindFunction
			if s.Async {
				kind = KindAsyncFunction
			}
			n := Node{
				Kind:       kind,
				Name:       s.Name,
				Line:       s.Line,
				Docstring:  s.Docstring,
				Params:     s.Params,
				Decorators: s.Decorators,
				Body:       s.Body,
			}
			if !yield(n) || !walkDefs(s.Body, yield) {
				return false
			}
		case *syntax.ClassDef:
			n := Node{
				Kind:      KindClass,
				Name:      s.Name,
				Line:      s.Line,
				Docstring: s.Docstring,
			}
			if !yield(n) || !walkDefs(s.Body, yield) {
				return false
			}
		case *syntax.Compound:
			if !walkDefs(s.Body, yield) {
				return false
			}
		}
	}
	return true
}
