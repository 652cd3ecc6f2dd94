package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/ticketboard/internal/api"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Long: `Serve the board's JSON API until interrupted.

Routes:
  GET    /api/board
  POST   /api/lists/:listID/tickets
  PUT    /api/lists/:listID/order
  PATCH  /api/tickets/:id
  DELETE /api/tickets/:id
  POST   /api/moves
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withBoard(cmd, func(s *session, f *OutputFormatter) error {
				if addr == "" {
					addr = s.cfg.Server.Addr
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				s.logger.Info("serving", "addr", addr, "driver", s.cfg.Store.Driver)
				if err := api.Serve(ctx, api.NewServer(s.board, s.logger), addr); err != nil {
					return WrapExitError(ExitCommandError, "server failed", err)
				}
				s.logger.Info("server stopped")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
