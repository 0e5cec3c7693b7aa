package cmd

import (
	"github.com/spf13/cobra"

	"github.com/corey/doccheck/internal/app"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check docstrings once and exit",
		Long: `Checks every Python module under the given paths (default ".") and prints one
line per violation:

  <file>: <message>: <name> (<line>)

Modules with syntax errors are skipped. Exit status is 0 when every module
passes, 1 when any violation was found or the run was interrupted, and 2 on
usage or configuration errors.`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	r, err := newRunner(cmd)
	if err != nil {
		return err
	}
	ok, err := r.Run(cmd.Context(), pathsOrCwd(args))
	if err != nil {
		return err
	}
	if !ok {
		return errViolations
	}
	return nil
}

// newRunner builds a runner from the loaded configuration.
func newRunner(cmd *cobra.Command) (*app.Runner, error) {
	parser, err := newParser()
	if err != nil {
		return nil, err
	}
	cfg := getConfig(cmd.Context())
	return &app.Runner{
		Parser:   parser,
		Config:   cfg.Checker(),
		Discover: app.DiscoverOptions{Ignore: cfg.Ignore},
		Jobs:     cfg.Jobs,
		Out:      cmd.OutOrStdout(),
		Log:      getLogger(cmd.Context()),
	}, nil
}

func pathsOrCwd(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
