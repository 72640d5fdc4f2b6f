package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bookforge/internal/events"
	"bookforge/internal/models"
	"bookforge/internal/services"
	"bookforge/internal/workflow"
)

func newGenerateCommand(app *App) *cobra.Command {
	var (
		audience     string
		tone         string
		format       string
		requirements string
		provider     string
		model        string
		outputDir    string
		stream       bool
	)

	cmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "Generate a complete e-book on a topic",
		Long: `Generate runs the full editorial workflow for one book: outline,
rubric review, chapter drafting with revision loops, compilation and
export. Progress is printed as the workflow advances. Without a topic
argument the command asks for one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			topic := ""
			if len(args) > 0 {
				topic = args[0]
			}
			if strings.TrimSpace(topic) == "" {
				var err error
				if topic, err = promptTopic(cmd); err != nil {
					return err
				}
			}

			events.SetCustomEmitter(func(_ context.Context, channel string, evt events.ProgressEvent) {
				if channel != events.RunProgress {
					return
				}
				fmt.Fprintln(out, renderEvent(evt))
			})
			defer events.SetCustomEmitter(nil)

			run, err := app.Services.Runs.Execute(cmd.Context(), services.RunOptions{
				Topic:        topic,
				Audience:     audience,
				Tone:         tone,
				Format:       format,
				Requirements: requirements,
				Provider:     provider,
				Model:        model,
				OutputDir:    outputDir,
				Streaming:    stream,
			})
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render("Generation failed:"), err.Error())
				fmt.Fprintln(out, dimStyle.Render(adviceFor(err)))
				return NewExitError(1)
			}

			printRunSummary(cmd, app, run)
			return nil
		},
	}

	cmd.Flags().StringVar(&audience, "audience", "", "target audience for the book")
	cmd.Flags().StringVar(&tone, "tone", "", "writing tone")
	cmd.Flags().StringVar(&format, "format", "", "output format: markdown, doc or pdf")
	cmd.Flags().StringVar(&requirements, "requirements", "", "additional instructions threaded into every prompt")
	cmd.Flags().StringVar(&provider, "provider", "", "model backend: gemini, openai or claude")
	cmd.Flags().StringVar(&model, "model", "", "model API name; defaults to the provider's catalog default")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory the exported book is written to")
	cmd.Flags().BoolVar(&stream, "stream", false, "request streamed token delivery from the provider")
	return cmd
}

// promptTopic asks for the book topic on stdin, matching the interactive
// console flow.
func promptTopic(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Topic: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading topic: %w", err)
	}
	topic := strings.TrimSpace(line)
	if topic == "" {
		return "", fmt.Errorf("a topic is required")
	}
	return topic, nil
}

// adviceFor maps a run failure to a one-line hint the user can act on.
func adviceFor(err error) string {
	switch workflow.Categorize(err) {
	case workflow.CategoryCredential:
		return "Check the provider API key: 'bookforge keys set <provider>' stores one in the OS keyring."
	case workflow.CategoryParsing:
		return "The model returned output that could not be parsed. Rerunning usually resolves this; a larger model helps with stubborn topics."
	default:
		return "Rerun with BOOKFORGE_LOG_LEVEL=debug for the full workflow trace."
	}
}

func printRunSummary(cmd *cobra.Command, app *App, run *models.BookRun) {
	out := cmd.OutOrStdout()

	// Reload to pick up the persisted chapter rows.
	if full, err := app.Services.Runs.Get(run.Key); err == nil && full != nil {
		run = full
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, successStyle.Render("Book complete:"), titleStyle.Render(run.Title))
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  model    %s/%s", run.Provider, run.Model)))
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  output   %s", run.OutputPath)))
	if run.FinishedAt != nil {
		elapsed := run.FinishedAt.Sub(run.StartedAt).Round(time.Second)
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  elapsed  %s", elapsed)))
	}

	if len(run.Chapters) > 0 {
		revisions := 0
		var forcedTitles []string
		for _, ch := range run.Chapters {
			revisions += ch.RevisionCount
			if ch.Forced {
				forcedTitles = append(forcedTitles, ch.Title)
			}
		}
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  chapters %d (%d revision passes)", len(run.Chapters), revisions)))
		if len(forcedTitles) > 0 {
			fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("  accepted after revision cap: %s", strings.Join(forcedTitles, ", "))))
		}
	}
	if run.ForcedOutline {
		fmt.Fprintln(out, warnStyle.Render("  outline accepted after revision cap"))
	}
}
