package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rfagundes/quality-control/internal/audit"
	"github.com/rfagundes/quality-control/internal/auth"
	"github.com/rfagundes/quality-control/internal/config"
	"github.com/rfagundes/quality-control/internal/logger"
	"github.com/rfagundes/quality-control/internal/server"
	"github.com/rfagundes/quality-control/internal/service"
	"github.com/rfagundes/quality-control/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Parse()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Debug)
	defer log.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	settings := storage.NewSettingsStore(filepath.Join(cfg.DataDir, "config.json"), log)

	store, err := storage.NewFileStorage(cfg.DataDir, settings, log)
	if err != nil {
		log.Fatal("storage init", zap.Error(err))
	}

	trail := audit.NewTrail(filepath.Join(cfg.DataDir, "auditoria.json"), audit.DefaultLimit, log)

	authSvc, err := auth.NewService(filepath.Join(cfg.DataDir, "usuarios.json"), cfg.AdminUser, cfg.AdminPassword, trail, log)
	if err != nil {
		log.Fatal("auth init", zap.Error(err))
	}

	svc := service.New(store, settings, authSvc, trail, log)

	auditManager := audit.NewManager(trail, 2, 5, 500*time.Millisecond, log)

	srv := server.New(svc, auditManager, log)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gCtx, cfg.Addr)
	})

	backupInterval := time.Duration(settings.Get().BackupIntervalHours) * time.Hour
	scheduler := storage.NewBackupScheduler(store, backupInterval, log)
	g.Go(func() error {
		scheduler.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		scheduler.Stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("service stopped", zap.Error(err))
	}
	log.Info("stopped cleanly")
}
