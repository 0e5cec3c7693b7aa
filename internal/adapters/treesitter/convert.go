//go:build cgo

package treesitter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/doccheck/internal/domain/syntax"
)

// compoundKinds are statements whose clauses own nested blocks.
var compoundKinds = map[string]bool{
	"if_statement":    true,
	"for_statement":   true,
	"while_statement": true,
	"try_statement":   true,
	"with_statement":  true,
	"match_statement": true,
}

// converter builds the syntax model from a tree-sitter tree.
type converter struct {
	source []byte
}

func (c *converter) module(root *tree_sitter.Node) *syntax.Module {
	stmts := namedChildren(root)
	return &syntax.Module{
		Docstring: c.docstring(stmts),
		Body:      c.stmts(stmts),
	}
}

func (c *converter) stmts(nodes []*tree_sitter.Node) []syntax.Stmt {
	out := make([]syntax.Stmt, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, c.stmt(n))
	}
	return out
}

func (c *converter) stmt(n *tree_sitter.Node) syntax.Stmt {
	kind := n.Kind()
	switch kind {
	case "function_definition":
		return c.function(n, nil)
	case "class_definition":
		return c.class(n, nil)
	case "decorated_definition":
		return c.decorated(n)
	case "return_statement":
		return &syntax.Return{Line: lineOf(n), HasValue: len(namedChildren(n)) > 0}
	case "expression_statement":
		return &syntax.ExprStmt{Line: lineOf(n), Yield: yieldKind(n)}
	}
	if compoundKinds[kind] {
		return &syntax.Compound{Kind: kind, Line: lineOf(n), Body: c.clauseBody(n)}
	}
	return &syntax.Simple{Kind: kind, Line: lineOf(n)}
}

// clauseBody collects the statements of every block a compound statement
// owns, in source order: the main body, elif/else/except/finally clauses and
// match cases.
func (c *converter) clauseBody(n *tree_sitter.Node) []syntax.Stmt {
	var out []syntax.Stmt
	for _, ch := range namedChildren(n) {
		switch {
		case ch.Kind() == "block":
			for _, s := range namedChildren(ch) {
				if s.Kind() == "case_clause" {
					out = append(out, c.clauseBody(s)...)
					continue
				}
				out = append(out, c.stmt(s))
			}
		case strings.HasSuffix(ch.Kind(), "_clause"):
			out = append(out, c.clauseBody(ch)...)
		}
	}
	return out
}

// body returns the statements of a definition's block.
func (c *converter) body(def *tree_sitter.Node) []*tree_sitter.Node {
	b := def.ChildByFieldName("body")
	if b == nil {
		return nil
	}
	return namedChildren(b)
}

func (c *converter) function(n *tree_sitter.Node, decorators []syntax.Decorator) *syntax.FunctionDef {
	stmts := c.body(n)
	return &syntax.FunctionDef{
		Name:       c.name(n),
		Line:       lineOf(n),
		Async:      hasChildKind(n, "async"),
		Params:     c.params(n.ChildByFieldName("parameters")),
		Decorators: decorators,
		Docstring:  c.docstring(stmts),
		Body:       c.stmts(stmts),
	}
}

func (c *converter) class(n *tree_sitter.Node, decorators []syntax.Decorator) *syntax.ClassDef {
	stmts := c.body(n)
	return &syntax.ClassDef{
		Name:       c.name(n),
		Line:       lineOf(n),
		Decorators: decorators,
		Docstring:  c.docstring(stmts),
		Body:       c.stmts(stmts),
	}
}

func (c *converter) decorated(n *tree_sitter.Node) syntax.Stmt {
	var decorators []syntax.Decorator
	for _, ch := range namedChildren(n) {
		if ch.Kind() == "decorator" {
			decorators = append(decorators, c.decorator(ch))
		}
	}
	def := n.ChildByFieldName("definition")
	if def == nil {
		return &syntax.Simple{Kind: n.Kind(), Line: lineOf(n)}
	}
	switch def.Kind() {
	case "function_definition":
		return c.function(def, decorators)
	case "class_definition":
		return c.class(def, decorators)
	}
	return &syntax.Simple{Kind: def.Kind(), Line: lineOf(def)}
}

// decorator classifies "@expr". Only a bare identifier is a name decorator.
func (c *converter) decorator(n *tree_sitter.Node) syntax.Decorator {
	children := namedChildren(n)
	if len(children) == 0 {
		return syntax.OtherDecorator("")
	}
	expr := children[0]
	text := nodeText(expr, c.source)
	if expr.Kind() == "identifier" {
		return syntax.NameDecorator(text)
	}
	return syntax.OtherDecorator(text)
}

func (c *converter) name(n *tree_sitter.Node) string {
	if id := n.ChildByFieldName("name"); id != nil {
		return nodeText(id, c.source)
	}
	return ""
}

// params lists parameter names in declaration order, stars removed.
func (c *converter) params(n *tree_sitter.Node) []string {
	if n == nil {
		return nil
	}
	var names []string
	for _, p := range namedChildren(n) {
		if name := c.paramName(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (c *converter) paramName(p *tree_sitter.Node) string {
	switch p.Kind() {
	case "identifier":
		return nodeText(p, c.source)
	case "default_parameter", "typed_default_parameter":
		if name := p.ChildByFieldName("name"); name != nil {
			return c.paramName(name)
		}
	case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
		if inner := namedChildren(p); len(inner) > 0 {
			return c.paramName(inner[0])
		}
	}
	// keyword_separator (*), positional_separator (/) and anything else
	return ""
}

// docstring returns the docstring carried by the first statement of a body.
func (c *converter) docstring(stmts []*tree_sitter.Node) *string {
	if len(stmts) == 0 || stmts[0].Kind() != "expression_statement" {
		return nil
	}
	exprs := namedChildren(stmts[0])
	if len(exprs) != 1 {
		return nil
	}
	value, ok := c.literal(exprs[0])
	if !ok {
		return nil
	}
	return &value
}

// literal evaluates a plain string literal, or an implicit concatenation of
// them, looking through parentheses. Bytes and f-strings are not docstrings.
func (c *converter) literal(n *tree_sitter.Node) (string, bool) {
	switch n.Kind() {
	case "parenthesized_expression":
		inner := namedChildren(n)
		if len(inner) != 1 {
			return "", false
		}
		return c.literal(inner[0])
	case "string":
		return evalString(nodeText(n, c.source))
	case "concatenated_string":
		var sb strings.Builder
		for _, part := range namedChildren(n) {
			v, ok := c.literal(part)
			if !ok {
				return "", false
			}
			sb.WriteString(v)
		}
		return sb.String(), true
	}
	return "", false
}

// yieldKind reports whether an expression statement is a bare yield or
// yield-from expression, looking through parentheses.
func yieldKind(n *tree_sitter.Node) syntax.YieldKind {
	exprs := namedChildren(n)
	if len(exprs) != 1 {
		return syntax.YieldNone
	}
	e := exprs[0]
	for e.Kind() == "parenthesized_expression" {
		inner := namedChildren(e)
		if len(inner) != 1 {
			return syntax.YieldNone
		}
		e = inner[0]
	}
	if e.Kind() != "yield" {
		return syntax.YieldNone
	}
	if hasChildKind(e, "from") {
		return syntax.YieldFrom
	}
	return syntax.YieldValue
}
