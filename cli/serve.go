package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/compozy/standup-digest/engine/infra/monitoring"
	"github.com/compozy/standup-digest/engine/infra/server"
	"github.com/compozy/standup-digest/pkg/config"
	"github.com/compozy/standup-digest/pkg/logger"
)

// ServeCmd runs the HTTP API until interrupted.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the report generation API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			mon, err := monitoring.NewService(ctx, &cfg.Monitoring)
			if err != nil {
				return err
			}
			orc, err := buildOrchestrator(ctx, cfg, mon)
			if err != nil {
				return err
			}
			srv, err := server.NewServer(cfg, orc, mon)
			if err != nil {
				return err
			}
			logger.FromContext(ctx).Info("starting standup-digest server", "port", cfg.Server.Port)
			return srv.Run(ctx)
		},
	}
}
