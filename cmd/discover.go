package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egoavara/plughub/internal/catalog"
	"github.com/egoavara/plughub/internal/config"
	"github.com/egoavara/plughub/internal/discovery"
	"github.com/egoavara/plughub/internal/i18n"
	"github.com/egoavara/plughub/internal/logging"
	"github.com/egoavara/plughub/internal/plugintype"
	"github.com/egoavara/plughub/internal/tui"
)

var (
	discoverParallel    int
	discoverInteractive bool

	// browse is replaced in tests
	browse = func(items []tui.Item) (tui.Result, error) { return tui.Browse(items) }
)

var discoverCmd = &cobra.Command{
	Use:   "discover [plugin_type|all]",
	Short: "List the plugins available on the hub",
	Long: `List the plugins the hub offers for one plugin type, or for every
discoverable type when no type (or "all") is given.

Types whose catalog can not be retrieved are reported as warnings and the
remaining types are still listed.

Example:
  plughub discover
  plughub discover extractors
  plughub discover -i`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: plugintype.Tokens(),
	RunE:      runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&discoverParallel, "parallel", 0, "number of plugin types fetched concurrently (default from config, 1 = sequential)")
	discoverCmd.Flags().BoolVarP(&discoverInteractive, "interactive", "i", false, "browse the results interactively")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	token := plugintype.All
	if len(args) == 1 {
		token = args[0]
	}
	scope, err := plugintype.ParseScope(token)
	if err != nil {
		return err
	}

	parallel := discoverParallel
	if parallel <= 0 {
		parallel = config.Get().Discover.Parallel
	}

	fetcher, err := newFetcher()
	if err != nil {
		return err
	}

	if discoverInteractive {
		return discoverInteractively(cmd, fetcher, scope, parallel)
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	report, err := discovery.Run(cmd.Context(), fetcher, scope, out, errOut, discovery.Options{
		Parallelism: parallel,
		Styles:      discovery.NewStyles(out, errOut),
	})
	if err != nil {
		return err
	}

	if failed := report.Err(); failed != nil {
		logging.L().Debug("discovery finished with unavailable types", "listed", report.Succeeded(), "error", failed)
	}
	return nil
}

func discoverInteractively(cmd *cobra.Command, fetcher discovery.Fetcher, scope plugintype.Scope, parallel int) error {
	errOut := cmd.ErrOrStderr()
	styles := discovery.NewStyles(cmd.OutOrStdout(), errOut)

	var indexes []*catalog.Index
	for _, o := range discovery.Collect(cmd.Context(), fetcher, scope.Types(), parallel) {
		if !o.OK() {
			fmt.Fprintln(errOut, styles.Warning(i18n.T("discover.fetchFailed", map[string]any{"Type": o.Type.Plural()})))
			continue
		}
		indexes = append(indexes, o.Index)
	}

	items := tui.Items(indexes)
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("discover.noResults", nil))
		return nil
	}

	result, err := browse(items)
	if err != nil {
		return err
	}
	if result.Cancelled {
		fmt.Fprintln(errOut, i18n.T("discover.interactiveCancelled", nil))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("discover.interactiveSelected", map[string]any{
		"Plugin":  result.Descriptor.ID(),
		"Variant": result.Variant,
	}))
	return nil
}
