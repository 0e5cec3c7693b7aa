//go:build !cgo

package cmd

import (
	"errors"

	"github.com/corey/doccheck/internal/ports"
)

// newParser fails in a pure Go build: the Python grammar is compiled C.
func newParser() (ports.Parser, error) {
	return nil, errors.New("built without cgo: the Python grammar is unavailable; rebuild with CGO_ENABLED=1")
}
