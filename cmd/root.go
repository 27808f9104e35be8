package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/egoavara/plughub/internal/config"
	"github.com/egoavara/plughub/internal/logging"
)

var (
	logLevel    string
	projectRoot string
	hubURL      string

	rootCmd = &cobra.Command{
		Use:           "plughub",
		Short:         "Discover hub plugins and run the plugins of a project",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: `plughub lists the plugins published on a plugin hub and runs the
plugins configured in a project's plughub.yml.

Commands:
  discover  List hub plugins by type
  invoke    Run a configured plugin with arguments passed through
  search    Fuzzy search the hub catalog
  list      Show the plugins configured in the current project
  config    Manage plughub configuration
  auth      Manage the hub access token`,
		PersistentPreRunE: setupLogging,
	}
)

// ExitError ends the process with Code without printing anything more
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := logging.ResolveLevel(logLevel, config.Get().LogLevel)
	logger, err := logging.New(logging.Options{Level: level, Output: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	logging.Set(logger)
	return nil
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit code, printing it unless
// it is an *ExitError
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "project-root", "", "project directory containing plughub.yml (default: search upwards)")
	rootCmd.PersistentFlags().StringVar(&hubURL, "hub-url", "", "plugin hub API base URL")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(versionCmd)
}
