package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the stored generation defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Services.Settings.Get()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  %-12s %s\n", "audience", settings.DefaultAudience)
			fmt.Fprintf(out, "  %-12s %s\n", "tone", settings.DefaultTone)
			fmt.Fprintf(out, "  %-12s %s\n", "format", settings.DefaultFormat)
			fmt.Fprintf(out, "  %-12s %s\n", "provider", orUnset(settings.Provider))
			fmt.Fprintf(out, "  %-12s %s\n", "model", orUnset(settings.Model))
			fmt.Fprintf(out, "  %-12s %s\n", "output-dir", orUnset(settings.OutputDir))
			return nil
		},
	}

	cmd.AddCommand(newSettingsSetCommand(app))
	return cmd
}

func newSettingsSetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Change a stored default",
		Long: `Set changes one stored generation default. Names: audience, tone,
format, provider, model, output-dir. Stored defaults sit between
command-line flags and the config file when a run resolves its
parameters.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Services.Settings.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", successStyle.Render("set"), args[0], args[1])
			return nil
		},
	}
}

func orUnset(v string) string {
	if v == "" {
		return dimStyle.Render("(unset)")
	}
	return v
}
