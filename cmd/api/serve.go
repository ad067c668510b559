package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/PratikDhanave/edge-event-service/internal/httpserver"
	"github.com/PratikDhanave/edge-event-service/internal/store"
	"github.com/PratikDhanave/edge-event-service/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		tcfg := telemetry.Config{
			ServiceVersion:   version,
			DBDriver:         cfg.DBDriver,
			RequireSessionID: cfg.RequireSessionID,
		}
		if cfg.TraceStdout {
			tcfg.Stdout = os.Stdout
		}
		shutdownTracing, err := telemetry.Init(ctx, tcfg)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(sctx)
		}()

		// Connect to durable storage using a connection pool.
		st, err := store.Open(ctx, cfg.DBDriver, cfg.DSN())
		if err != nil {
			return err
		}
		defer st.Close()

		// Ensure required tables/indexes exist before accepting traffic.
		if err := st.EnsureSchema(ctx); err != nil {
			return err
		}

		router := httpserver.NewRouter(st, cfg.ValidationRules(), logger)
		srv := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           otelhttp.NewHandler(router, "edge-events"),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server started",
				"addr", cfg.Addr(),
				"db_driver", cfg.DBDriver,
				"require_session_id", cfg.RequireSessionID,
				"version", version,
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	},
}
