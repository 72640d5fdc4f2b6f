package cli

import (
	"github.com/spf13/cobra"

	"bookforge/internal/server"
)

func newServeCommand(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the run dashboard API",
		Long: `Serve starts an HTTP server exposing the generation workflow:
POST /api/runs launches a book generation in the background, GET
/api/runs/{key}/events streams its progress as server-sent events, and
the remaining endpoints inspect runs, models and settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				app.Config.Server.Addr = addr
			}

			srv := server.New(app.Config, app.Services, app.Logger)
			if err := srv.Run(cmd.Context()); err != nil {
				app.Logger.Error().Err(err).Msg("server stopped")
				return NewExitError(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
