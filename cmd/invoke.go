package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/egoavara/plughub/internal/i18n"
	"github.com/egoavara/plughub/internal/logging"
	"github.com/egoavara/plughub/internal/project"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke <plugin_name> [-- plugin_args...]",
	Short: "Run a configured plugin",
	Long: `Run a plugin configured in the current project. Every argument after the
plugin name is passed to the plugin untouched; a "--" right after the name
is dropped. -h before the name shows this help and runs nothing.

The plugin runs in the project root and plughub exits with its exit code.
A name configured under several plugin types must be qualified as
<type>/<name>.

Example:
  plughub invoke tap-github --discover
  plughub invoke target-jsonl -- --help
  plughub invoke loader/target-postgres --version`,
	DisableFlagParsing: true,
	RunE:               runInvoke,
}

// splitInvokeArgs parses the global flags given before the plugin name and
// returns the plugin name and its arguments verbatim
func splitInvokeArgs(args []string) (name string, pluginArgs []string, help bool, err error) {
	flags := pflag.NewFlagSet("invoke", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.SetOutput(io.Discard)
	flags.AddFlagSet(rootCmd.PersistentFlags())
	flags.BoolVarP(&help, "help", "h", false, "help for invoke")

	if err := flags.Parse(args); err != nil {
		return "", nil, false, err
	}

	rest := flags.Args()
	if len(rest) == 0 {
		return "", nil, help, nil
	}

	name, pluginArgs = rest[0], rest[1:]
	if len(pluginArgs) > 0 && pluginArgs[0] == "--" {
		pluginArgs = pluginArgs[1:]
	}
	return name, pluginArgs, help, nil
}

func runInvoke(cmd *cobra.Command, args []string) error {
	name, pluginArgs, help, err := splitInvokeArgs(args)
	if err != nil {
		return err
	}
	// -h before the name is plughub's; after it, the plugin's
	if help {
		return cmd.Help()
	}
	if name == "" {
		return fmt.Errorf("requires a plugin name\n\nUsage:\n  %s", cmd.UseLine())
	}

	// global flags may only have been seen now
	if err := setupLogging(cmd, nil); err != nil {
		return err
	}
	errOut := cmd.ErrOrStderr()

	proj, err := openProject()
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			fmt.Fprintln(errOut, i18n.T("invoke.noProject", nil))
			logging.L().Debug("project lookup failed", "error", err)
			return &ExitError{Code: 1}
		}
		return err
	}

	plugin, err := proj.Registry().Resolve(name)
	if err != nil {
		var ambiguous *project.AmbiguousPluginError
		switch {
		case errors.As(err, &ambiguous):
			fmt.Fprintln(errOut, i18n.T("invoke.ambiguous", map[string]any{
				"Name":  name,
				"Types": strings.Join(ambiguous.TypeNames(), ", "),
			}))
		case errors.Is(err, project.ErrPluginNotFound):
			fmt.Fprintln(errOut, i18n.T("invoke.notFound", map[string]any{"Name": name}))
		default:
			return err
		}
		return &ExitError{Code: 1}
	}

	outcome, err := newRunner(proj).Invoke(cmd.Context(), plugin, pluginArgs)
	if err != nil {
		fmt.Fprintln(errOut, i18n.T("invoke.launchFailed", map[string]any{"Name": name, "Error": err}))
		return &ExitError{Code: 1}
	}
	if !outcome.Success() {
		return &ExitError{Code: outcome.ExitCode}
	}
	return nil
}
