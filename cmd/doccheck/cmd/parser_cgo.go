//go:build cgo

package cmd

import (
	"github.com/corey/doccheck/internal/adapters/treesitter"
	"github.com/corey/doccheck/internal/ports"
)

// newParser returns the tree-sitter Python parser.
func newParser() (ports.Parser, error) {
	return treesitter.NewParser(), nil
}
