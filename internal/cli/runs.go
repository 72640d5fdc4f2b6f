package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookforge/internal/models"
)

func newRunsCommand(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent generation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.Services.Runs.ListRecent(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, dimStyle.Render("No runs recorded yet."))
				return nil
			}
			for _, run := range runs {
				fmt.Fprintf(out, "%s  %s  %s\n", statusBadge(run.Status), run.Key, runLabel(run))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")

	cmd.AddCommand(newRunsShowCommand(app))
	return cmd
}

func newRunsShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-key>",
		Short: "Show one run with its chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := app.Services.Runs.Get(args[0])
			if err != nil {
				return err
			}
			if run == nil {
				fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("run not found"))
				return NewExitError(1)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, statusBadge(run.Status), titleStyle.Render(runLabel(*run)))
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  topic    %s", run.Topic)))
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  model    %s/%s", run.Provider, run.Model)))
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  format   %s", run.Format)))
			if run.OutputPath != "" {
				fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  output   %s", run.OutputPath)))
			}
			if run.ErrorMessage != "" {
				fmt.Fprintln(out, errorStyle.Render("  error    "+run.ErrorMessage))
			}
			for _, ch := range run.Chapters {
				note := ""
				if ch.RevisionCount > 0 {
					note = dimStyle.Render(fmt.Sprintf(" (%d revisions)", ch.RevisionCount))
				}
				if ch.Forced {
					note += warnStyle.Render(" [forced]")
				}
				fmt.Fprintf(out, "  %2d. %s%s\n", ch.Number, ch.Title, note)
			}
			return nil
		},
	}
}

func runLabel(run models.BookRun) string {
	if run.Title != "" {
		return run.Title
	}
	return run.Topic
}

func statusBadge(status string) string {
	switch status {
	case models.RunStatusCompleted:
		return successStyle.Render("done   ")
	case models.RunStatusFailed:
		return errorStyle.Render("failed ")
	default:
		return stepStyle.Render("running")
	}
}
