package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperjump/dishhub/internal/seed"
	"github.com/hyperjump/dishhub/internal/server"
	"github.com/hyperjump/dishhub/internal/storage"
	"github.com/hyperjump/dishhub/internal/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recipe service and import fixtures from the seed directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
	}
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger
	logger.Info("config loaded", zap.String("config_path", a.resolvedPath), zap.Bool("debug", cfg.Debug || a.debug))

	unlock, err := storage.LockDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer unlock()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	watchCtx, watchCancel := context.WithCancel(ctx)
	defer watchCancel()

	importer := seed.NewImporter(store, logger)
	watchSvc := watcher.New(
		cfg.Seed.Directories,
		cfg.Seed.Extensions,
		cfg.Seed.RecursiveOrDefault(),
		importer.Notifier(watchCtx),
		watcher.WithLogger(logger),
	)
	if err := watchSvc.Start(watchCtx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watchSvc.Stop()
	watchSvc.ImportExisting()

	srv := server.NewServer(store, cfg, a.resolvedPath, watchSvc, logger)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("Shutting down...")
	watchCancel()
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(stopCtx)
}
