package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/muhasabah"
	"github.com/MrEthical07/muhasabah/internal/api"
	"github.com/MrEthical07/muhasabah/internal/database"
	"github.com/MrEthical07/muhasabah/internal/store"
	otelexport "github.com/MrEthical07/muhasabah/metrics/export/otel"
	promexport "github.com/MrEthical07/muhasabah/metrics/export/prometheus"
	"github.com/MrEthical07/muhasabah/todo"
)

var trustedProxies []string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringSliceVar(&trustedProxies, "trusted-proxy", nil, "proxy address or CIDR allowed to set X-Forwarded-For (repeatable)")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Warn("database close failed")
		}
	}()

	engine, cleanup, err := buildEngine(ctx, db)
	if err != nil {
		return err
	}
	defer cleanup()

	log.WithFields(logrus.Fields(engine.SecurityReport().LogFields())).Info("auth engine ready")

	opts := api.Options{
		Engine:         engine,
		Todos:          todo.NewService(store.NewTodoRepository(db)),
		Logger:         log.WithField("component", "http"),
		Health:         func(ctx context.Context) error { return database.Ping(ctx, db) },
		TrustedProxies: trustedProxies,
	}
	if cfg.Auth.Metrics.Enabled {
		opts.Metrics = promexport.Handler(engine)
	}

	if cfg.OTLPEndpoint != "" {
		shutdown, err := startOTLP(ctx, engine)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	router, err := api.NewRouter(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// startOTLP pushes engine metrics to the configured OTLP collector.
func startOTLP(ctx context.Context, engine *muhasabah.Engine) (func(), error) {
	provider, err := otelexport.NewMeterProvider(ctx, otelexport.ProviderConfig{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    "muhasabah",
		ServiceVersion: version,
		Insecure:       !cfg.Production(),
	})
	if err != nil {
		return nil, err
	}
	exporter, err := otelexport.NewExporter(provider.Meter("github.com/MrEthical07/muhasabah"), engine)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	log.WithField("endpoint", cfg.OTLPEndpoint).Info("otlp metrics export enabled")

	return func() {
		if err := exporter.Close(); err != nil {
			log.WithError(err).Warn("otel exporter close failed")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("otel provider shutdown failed")
		}
	}, nil
}
