package cmd

import (
	"github.com/spf13/cobra"

	fsw "github.com/corey/doccheck/internal/adapters/fsnotify"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Check docstrings, then re-check modules as they change",
		Long: `Runs a full check, then watches the given paths and re-checks each Python
module when it is saved. Stop with Ctrl-C. Use -v to see a verdict for every
re-checked module.`,
		Args: cobra.ArbitraryArgs,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	r, err := newRunner(cmd)
	if err != nil {
		return err
	}
	w, err := fsw.NewWatcher(fsw.WithSkip(r.Skip), fsw.WithLogger(r.Log))
	if err != nil {
		return err
	}
	return r.Watch(cmd.Context(), w, pathsOrCwd(args))
}
