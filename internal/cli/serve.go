package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the storefront HTTP API.

The storage backend is chosen with STORAGE (memory, file, postgres or mongo).
Postgres and Mongo catalogs are seeded on start when empty.

Example:
  storefront serve
  STORAGE=postgres DATABASE_DSN=postgres://... storefront serve --port 8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := rootOpts.load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, rootOpts.Version)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")

	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger zerolog.Logger, version string) error {
	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			logger.Error().Err(err).Msg("release backends")
		}
	}()

	if cfg.Storage == config.StoragePostgres || cfg.Storage == config.StorageMongo {
		if err := a.seedIfEmpty(ctx); err != nil {
			return err
		}
	}

	started := time.Now()
	handler := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger,
		CORSAllowOrigins: cfg.AllowOrigins(),
		Products:         httpapi.NewProductHandler(a.products, cfg.RequestTimeout),
		Cart:             httpapi.NewCartHandler(a.carts, cfg.RequestTimeout),
		Health: httpapi.NewHealthHandler(httpapi.ServiceInfo{
			Name:        logging.ServiceName,
			Version:     version,
			Environment: cfg.Environment,
			Storage:     cfg.Storage,
		}, started, a.checks...),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("storefront listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
