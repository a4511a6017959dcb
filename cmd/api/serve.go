package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	app "devdash-backend/application/ideamap"
	"devdash-backend/infrastructure/config"
	"devdash-backend/infrastructure/di"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize container: %w", err)
	}
	defer cleanup()
	logger := container.Logger

	// a memory store starts empty on every boot
	if cfg.Store.Bootstrap || cfg.Store.Driver == config.DriverMemory {
		bootCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
		_, _, err := app.Bootstrap(bootCtx, container.IdeaMap, logger.Logger)
		cancel()
		if err != nil {
			return fmt.Errorf("bootstrap idea map: %w", err)
		}
	}

	watcher, err := config.NewWatcher(cfg, logger.Logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()
	watcher.OnChange(func(next *config.Config) {
		if logger.SetLevel(next.Logging.Level) {
			logger.Info("log level changed", zap.String("level", next.Logging.Level))
		}
		container.Origins.Set(next.CORS.AllowedOrigins)
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      container.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.Server.Address),
			zap.String("environment", string(cfg.Environment)),
			zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
	return nil
}
