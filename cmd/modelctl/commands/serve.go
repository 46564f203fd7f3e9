package commands

import (
	"os"
	"os/signal"
	"syscall"

	"aimarket/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

// serve runs the same HTTP API as cmd/api; storage is opened by the API itself.
func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API in the foreground",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.HTTPPort = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.NewAPI(ctx, cfg, bootstrap.NewLogger(cfg, "modelctl-serve"))
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "override HTTP_PORT")
	return cmd
}
