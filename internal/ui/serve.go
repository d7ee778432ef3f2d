package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jborjas31/my-scheduler/internal/server"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Start the HTTP API on the configured address. Prometheus metrics are
exposed on /metrics. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := a.ensurePlanner(ctx)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}

			srv := server.New(p, server.Options{
				Addr:       addr,
				RateLimit:  a.config.Server.RateLimit,
				Burst:      a.config.Server.Burst,
				Upcoming:   a.config.Dashboard.UpcomingLimit,
				Log:        a.log,
				Clock:      a.clock,
				CacheStats: a.cacheStats(),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
