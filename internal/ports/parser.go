// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain and app code
// depend only on these interfaces, never on concrete implementations.
package ports

import (
	"errors"

	"github.com/corey/doccheck/internal/domain/syntax"
)

// ErrUnparsable marks source that could not be turned into a syntax tree.
// A module that fails this way is skipped, not failed.
var ErrUnparsable = errors.New("unparsable source")

// Parser turns Python source into the syntax model checked by the docstring
// engine. The concrete implementation (tree-sitter) lives in
// internal/adapters/treesitter. When nil, nothing can be checked.
type Parser interface {
	// Parse converts source into a module. Syntax errors and undecodable
	// input return an error wrapping ErrUnparsable.
	Parse(path string, source []byte) (*syntax.Module, error)

	// SupportsExtension returns true if the parser can handle files with this
	// extension (e.g., ".py"). Extension includes the leading dot.
	SupportsExtension(ext string) bool
}
