package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/naka-gawa/github-skills/internal/api"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the HTTP API",
	Long: `Runs the HTTP API on the configured address (addr, default 127.0.0.1:8080).

The API has no authentication and PUT /api/v1/users/{username} stores access
tokens, so only bind it to a non-loopback address behind an authenticating proxy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := api.NewServer(api.Deps{
			Users:        a.store,
			Sync:         a.sync,
			Skills:       a.skills,
			Aggregator:   a.aggregator,
			Portfolio:    a.portfolio,
			Health:       a.store,
			Metrics:      a.metrics,
			Logger:       a.logger,
			CORSOrigins:  a.cfg.Origins(),
			RateLimitRPM: a.cfg.RateLimitRPM,
		})
		httpServer := &http.Server{
			Addr:              a.cfg.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info().Str("addr", a.cfg.Addr).Msg("listening")
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
