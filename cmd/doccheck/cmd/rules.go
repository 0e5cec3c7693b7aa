package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/corey/doccheck/internal/domain/docstring"
)

func newRulesCmd() *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the docstring rules",
		Long:  "Lists every rule with its ID (for --disable), message, and whether it needs --extra-checks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context()).Checker()

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Extra", "Active", "Message", "Description"})
			for _, r := range docstring.Rules() {
				t.AppendRow(table.Row{r.ID, yesNo(r.Extra), yesNo(cfg.Enabled(r.ID)), r.Message, r.Description})
			}
			if markdown {
				t.RenderMarkdown()
			} else {
				t.Render()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render as a Markdown table")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
