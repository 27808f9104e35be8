package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/egoavara/plughub/internal/i18n"
	"github.com/egoavara/plughub/internal/project"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the plugins configured in the current project",
	Long: `List the plugins configured in the project's plughub.yml, grouped by
plugin type in declaration order.

Example:
  plughub list
  plughub list --project-root ./analytics`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	plugins := proj.Plugins()

	fmt.Fprintf(out, "%s (%s)\n", i18n.T("list.header", nil), proj.Root)
	if len(plugins) == 0 {
		fmt.Fprintln(out, i18n.T("list.empty", nil))
		return nil
	}

	renderPluginTable(cmd, plugins)
	return nil
}

func renderPluginTable(cmd *cobra.Command, plugins []project.InstalledPlugin) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Type", "Name", "Variant", "Command"})
	for _, p := range plugins {
		command := p.Command
		if command == "" {
			command = p.ExecutableName()
		}
		t.AppendRow(table.Row{p.Type.String(), p.Name, p.Variant, command})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
}
