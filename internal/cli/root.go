// Package cli implements the bookforge command tree. Each command file
// holds one newXCommand constructor; NewRootCommand assembles them around
// a shared [App].
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bookforge/internal/config"
	"bookforge/internal/services"
)

// App bundles the collaborators every command needs. The caller wires it up
// once at startup and hands it to [NewRootCommand].
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Services *services.Services
}

// NewRootCommand builds the bookforge command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "bookforge",
		Short: "Generate complete e-books with LLM drafting and review loops",
		Long: `Bookforge drives a language model through an editorial workflow:
it drafts a chapter outline, scores it against a rubric, writes each
chapter with continuity context from the previous ones, reviews and
revises drafts until they pass, then compiles and exports the book as
Markdown, DOCX or PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newGenerateCommand(app),
		newServeCommand(app),
		newRunsCommand(app),
		newModelsCommand(app),
		newKeysCommand(app),
		newSettingsCommand(app),
	)
	return root
}
