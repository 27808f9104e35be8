package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egoavara/plughub/internal/config"
	"github.com/egoavara/plughub/internal/i18n"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage plughub configuration",
	Long: `Manage plughub configuration settings.

Example:
  plughub config show
  plughub config set hub.retries 5`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  locale              - Language setting
                        Values: auto, en-US, ko-KR, etc.
  logLevel            - trace, debug, info, warn, error, off
  hub.url             - Plugin hub API base URL
  hub.retries         - Retries for failed hub requests
  hub.timeoutSeconds  - Timeout of one hub request
  discover.parallel   - Plugin types fetched concurrently by discover

Example:
  plughub config set locale ko-KR
  plughub config set discover.parallel 4`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys(),
	RunE:      runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintln(out, "----------------------------------------")
	fmt.Fprintf(out, "  locale: %s\n", cfg.Locale)
	fmt.Fprintf(out, "  logLevel: %s\n", cfg.LogLevel)
	fmt.Fprintf(out, "  hub.url: %s\n", cfg.Hub.URL)
	fmt.Fprintf(out, "  hub.retries: %d\n", cfg.Hub.Retries)
	fmt.Fprintf(out, "  hub.timeoutSeconds: %d\n", cfg.Hub.TimeoutSeconds)
	fmt.Fprintf(out, "  discover.parallel: %d\n", cfg.Discover.Parallel)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  File: %s\n", config.ConfigPath())

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Locale:")
	if cfg.Locale == "auto" {
		fmt.Fprintln(out, "  auto: System locale is auto-detected")
	} else {
		fmt.Fprintf(out, "  %s: Using fixed locale\n", cfg.Locale)
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("config.saved", map[string]any{"Key": key, "Value": value}))
	return nil
}
