package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/egoavara/plughub/internal/catalog"
	"github.com/egoavara/plughub/internal/config"
	"github.com/egoavara/plughub/internal/discovery"
	"github.com/egoavara/plughub/internal/i18n"
	"github.com/egoavara/plughub/internal/plugintype"
	"github.com/egoavara/plughub/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search for plugins across the hub catalog",
	Long: `Search for plugins using fuzzy matching across every discoverable plugin type.

The search looks through plugin names and variant names.

Example:
  plughub search postgres
  plughub search tap-git`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := args[0]

	fetcher, err := newFetcher()
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	styles := discovery.NewStyles(out, errOut)

	var indexes []*catalog.Index
	outcomes := discovery.Collect(cmd.Context(), fetcher, plugintype.Discoverable(), config.Get().Discover.Parallel)
	for _, o := range outcomes {
		if !o.OK() {
			fmt.Fprintln(errOut, styles.Warning(i18n.T("discover.fetchFailed", map[string]any{"Type": o.Type.Plural()})))
			continue
		}
		indexes = append(indexes, o.Index)
	}

	results := search.Search(indexes, keyword)
	if len(results) == 0 {
		fmt.Fprintln(out, i18n.T("search.noResults", map[string]any{"Keyword": keyword}))
		return nil
	}

	fmt.Fprintln(out, i18n.T("search.results", map[string]any{"Count": len(results)}, len(results)))
	fmt.Fprintln(out)

	for _, r := range results {
		fmt.Fprintf(out, "  %s\n", r.Descriptor.ID())
		if len(r.Descriptor.Variants) > 1 {
			fmt.Fprintf(out, "    variants: %s\n", strings.Join(r.Descriptor.VariantLabels(), ", "))
		}
	}

	return nil
}
