package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/doccheck/internal/app"
	"github.com/corey/doccheck/internal/config"
)

// Version is set at build time.
var Version = "dev"

// configKey is used to store the loaded config in the command context.
type configKey struct{}

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// NewRootCmd creates the root command. Invoked without a subcommand it
// behaves like "check".
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "doccheck [paths...]",
		Short: "Check Python docstrings",
		Long: `doccheck reports Python modules, classes and functions that lack a docstring
or whose docstring ends badly. With --extra-checks it also verifies reST field
directives: :param:/:type:, :ivar:/:vartype:, :returns:/:rtype:, bare :raises:
and :type: on properties.

Paths default to the current directory. Directories are searched recursively
for Python files.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.File != "" {
				log.Info("using config file", "path", cfg.File)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, log)
			cmd.SetContext(ctx)
			return nil
		},
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: doccheck.yaml or .doccheck.yaml, searched upward)")
	flags.BoolP("extra-checks", "e", false, "check :param:, :ivar:, :returns:, :rtype:, :raises: and property :type: directives")
	flags.BoolP("verbose", "v", false, "log progress to stderr")
	flags.IntP("jobs", "j", 0, "modules checked in parallel (0 = one per CPU)")
	flags.StringSlice("ignore", nil, "glob matched against file and directory names to skip (repeatable)")
	flags.StringSlice("disable", nil, "rule IDs to turn off (repeatable; see 'doccheck rules')")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the root command until it finishes or the process receives
// SIGINT or SIGTERM, and prints any error to stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	switch {
	case err == nil, errors.Is(err, errViolations):
	case errors.Is(err, app.ErrInterrupted):
		fmt.Fprintln(os.Stderr, "Interrupted")
	default:
		fmt.Fprintf(os.Stderr, "doccheck: %v\n", err)
	}
	return err
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// getConfig retrieves the config from the command context.
func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{}
}

// getLogger retrieves the logger from the command context.
func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
