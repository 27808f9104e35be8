package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egoavara/plughub/internal/credentials"
	"github.com/egoavara/plughub/internal/i18n"
)

var authToken string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the hub access token",
	Long: `Manage the token sent to the plugin hub. The token is kept in the
system keyring; PLUGHUB_HUB_TOKEN takes precedence when set.

Example:
  plughub auth login --token <token>
  plughub auth status
  plughub auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a hub token in the system keyring",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored hub token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a hub token is configured",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().StringVar(&authToken, "token", "", "hub access token")
	_ = authLoginCmd.MarkFlagRequired("token")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	store, err := openCredentials()
	if err != nil {
		return err
	}
	if err := store.SetToken(authToken); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("auth.saved", nil))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	store, err := openCredentials()
	if err != nil {
		return err
	}
	if err := store.DeleteToken(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("auth.removed", nil))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	_, source, err := openTokenStore().Token()
	switch {
	case errors.Is(err, credentials.ErrNoToken):
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("auth.statusNone", nil))
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("auth.statusSet", map[string]any{"Source": string(source)}))
	return nil
}
