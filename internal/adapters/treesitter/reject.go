//go:build cgo

package treesitter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// legacyKinds are Python 2 statements the grammar still accepts.
var legacyKinds = map[string]string{
	"print_statement": "print statement",
	"exec_statement":  "exec statement",
}

// rejected finds the first construct the grammar accepts but the Python 3
// compiler refuses, and returns it with a short reason. It returns nil when
// the tree is clean.
func rejected(n *tree_sitter.Node) (*tree_sitter.Node, string) {
	if reason, ok := legacyKinds[n.Kind()]; ok {
		return n, reason
	}
	switch n.Kind() {
	case "module":
		if bad := misaligned(n, 0); bad != nil {
			return bad, "inconsistent indentation"
		}
	case "block":
		if bad := misaligned(n, -1); bad != nil {
			return bad, "inconsistent indentation"
		}
	case "comparison_operator":
		if hasChildKind(n, "<>") {
			return n, "<> operator"
		}
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c != nil {
			if bad, reason := rejected(c); bad != nil {
				return bad, reason
			}
		}
	}
	return nil, ""
}

// misaligned returns the first statement of a block that starts a line at
// a column other than want. A negative want takes the column of the first
// statement. Statements after a semicolon share their line and are not
// compared.
func misaligned(block *tree_sitter.Node, want int) *tree_sitter.Node {
	prevEnd := -1
	for _, s := range namedChildren(block) {
		start := s.StartPosition()
		row, col := int(start.Row), int(start.Column)
		onNewLine := row != prevEnd
		prevEnd = int(s.EndPosition().Row)
		if !onNewLine {
			continue
		}
		if want < 0 {
			want = col
			continue
		}
		if col != want {
			return s
		}
	}
	return nil
}
