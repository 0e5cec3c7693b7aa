package docstring

import "github.com/corey/doccheck/internal/domain/syntax"

// scanner searches a function body for a statement matching hit. Nested
// function definitions are scope boundaries: their bodies belong to the
// nested function and are never searched from the outside. Classes and
// compound statements are transparent.
type scanner struct {
	hit func(syntax.Stmt) bool
}

var (
	returnScan = scanner{hit: func(st syntax.Stmt) bool {
		r, ok := st.(*syntax.Return)
		return ok && r.HasValue
	}}
	yieldScan = scanner{hit: func(st syntax.Stmt) bool {
		e, ok := st.(*syntax.ExprStmt)
		return ok && (e.Yield == syntax.YieldValue || e.Yield == syntax.YieldFrom)
	}}
)

func (s scanner) body(stmts []syntax.Stmt) bool {
	for _, st := range stmts {
		if s.stmt(st) {
			return true
		}
	}
	return false
}

func (s scanner) stmt(st syntax.Stmt) bool {
	if s.hit(st) {
		return true
	}
	switch n := st.(type) {
	case *syntax.FunctionDef:
		return false
	case *syntax.ClassDef:
		return s.body(n.Body)
	case *syntax.Compound:
		return s.body(n.Body)
	}
	return false
}
