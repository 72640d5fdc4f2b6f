package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the model catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := app.Services.ModelConfigs.ListModelGroups()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, group := range groups {
				fmt.Fprintln(out, titleStyle.Render(group.ProviderName), dimStyle.Render("("+group.ProviderID+")"))
				for _, mdl := range group.Models {
					state := successStyle.Render("enabled ")
					if !mdl.Enabled {
						state = dimStyle.Render("disabled")
					}
					fmt.Fprintf(out, "  %s  %-30s %s\n", state, mdl.APIName, dimStyle.Render(mdl.DisplayName))
				}
			}
			return nil
		},
	}

	cmd.AddCommand(
		newModelsToggleCommand(app, "enable", true),
		newModelsToggleCommand(app, "disable", false),
	)
	return cmd
}

func newModelsToggleCommand(app *App, verb string, enabled bool) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   verb + " [model-key]",
		Short: verb + " a model, or a whole provider with --provider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if provider != "" {
				updated, err := app.Services.ModelConfigs.SetProviderEnabled(provider, enabled)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %d models for %s\n", verb+"d", len(updated), provider)
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("a model key or --provider is required")
			}
			mdl, err := app.Services.ModelConfigs.SetModelEnabled(args[0], enabled)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", verb+"d", mdl.APIName)
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "apply to every model of this provider")
	return cmd
}
