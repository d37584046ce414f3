package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rfagundes/quality-control/internal/metrics"
)

// BackupScheduler runs periodic ledger backups independently of the
// mutation-driven ones. Each cycle acquires the storage mutex through
// FileStorage.Backup, so it never copies a torn write.
type BackupScheduler struct {
	storage  *FileStorage
	interval time.Duration
	log      *zap.Logger

	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
}

func NewBackupScheduler(storage *FileStorage, interval time.Duration, log *zap.Logger) *BackupScheduler {
	return &BackupScheduler{
		storage:        storage,
		interval:       interval,
		log:            log,
		shutdownSignal: make(chan struct{}),
	}
}

// Run blocks until the context is cancelled or Stop is called. A
// non-positive interval means scheduled backups are off; Run returns
// immediately without starting a ticker.
func (s *BackupScheduler) Run(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	if s.interval <= 0 {
		s.log.Info("backup scheduler disabled", zap.Duration("interval", s.interval))
		return
	}

	s.log.Info("backup scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runCycle()
		case <-ctx.Done():
			s.log.Info("backup scheduler stopping", zap.Error(ctx.Err()))
			return
		case <-s.shutdownSignal:
			s.log.Info("backup scheduler stopping")
			return
		}
	}
}

func (s *BackupScheduler) runCycle() {
	// Backup disabled is a silent skip, not an error.
	if err := s.storage.Backup(); err != nil {
		s.log.Warn("scheduled backup failed", zap.Error(err))
		return
	}
	metrics.BackupRunsTotal.Inc()
}

// Stop signals the scheduler and waits for the current cycle to finish.
func (s *BackupScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.shutdownSignal)
	})
	s.wg.Wait()
}
