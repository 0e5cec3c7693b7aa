package cmd

import (
	"errors"

	"github.com/corey/doccheck/internal/app"
)

// errViolations is returned when a check run found problems. The
// diagnostics have already been printed, so it carries no message of its own.
var errViolations = errors.New("docstring violations found")

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitError  = 2
)

// ExitCode maps the error returned by Execute to the process exit code:
// 0 when every module passed, 1 for violations or an interrupted run, and
// 2 for usage, configuration and I/O errors.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errViolations), errors.Is(err, app.ErrInterrupted):
		return ExitFailed
	default:
		return ExitError
	}
}
