package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Shows the configuration after merging defaults, the config file, DOCCHECK_*
environment variables and command-line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())

			file := cfg.File
			if file == "" {
				file = "(none)"
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Key", "Value"})
			t.AppendRow(table.Row{"config file", file})
			t.AppendSeparator()
			for _, e := range cfg.Entries() {
				t.AppendRow(table.Row{e.Key, e.Value})
			}
			t.Render()
			return nil
		},
	}
}
