package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newKeysCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys in the OS keyring",
	}
	cmd.AddCommand(
		newKeysSetCommand(app),
		newKeysListCommand(app),
		newKeysDeleteCommand(app),
	)
	return cmd
}

func newKeysSetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key, read from stdin",
		Long: `Set reads an API key from standard input and stores it in the OS
keyring under the given provider (gemini, openai or claude). Reading
from stdin keeps the key out of shell history:

  echo "$MY_KEY" | bookforge keys set gemini`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]

			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading API key from stdin: %w", err)
			}
			key := strings.TrimSpace(line)
			if key == "" {
				return fmt.Errorf("no API key provided on stdin")
			}

			if err := app.Services.Keyring.StoreApiKey(provider, []byte(key)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s API key for %s\n", successStyle.Render("stored"), provider)
			return nil
		},
	}
}

func newKeysListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers with a stored key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := app.Services.Keyring.ListApiKeys()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(keys) == 0 {
				fmt.Fprintln(out, dimStyle.Render("No API keys stored."))
				return nil
			}
			for _, entry := range keys {
				fmt.Fprintln(out, successStyle.Render("•"), entry["provider"])
			}
			return nil
		},
	}
}

func newKeysDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Services.Keyring.DeleteApiKey(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s API key for %s\n", warnStyle.Render("deleted"), args[0])
			return nil
		},
	}
}
