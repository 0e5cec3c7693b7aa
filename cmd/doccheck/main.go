// doccheck checks that Python modules, classes and functions carry
// docstrings, and optionally that those docstrings document parameters,
// return values and properties with reST field directives.
package main

import (
	"os"

	"github.com/corey/doccheck/cmd/doccheck/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
