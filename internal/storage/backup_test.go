package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rfagundes/quality-control/internal/quality"
)

func TestSchedulerRunsCycles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fs := newTestStorage(t, dir)

	_, err := fs.Record(goodPart("B1"), quality.DefaultCriteria(), 10)
	require.NoError(t, err)

	scheduler := NewBackupScheduler(fs, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go scheduler.Run(ctx)

	require.Eventually(t, func() bool {
		entries, err := os.ReadDir(filepath.Join(dir, "backups"))
		return err == nil && len(entries) > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	scheduler.Stop()
}

func TestSchedulerToleratesZeroInterval(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// An administrator can persist backup_interval_hours: 0; the
	// scheduler must treat it as "off", not crash.
	settings := NewSettingsStore(filepath.Join(dir, "config.json"), zap.NewNop())
	zeroed := settings.Get()
	zeroed.BackupIntervalHours = 0
	require.NoError(t, settings.Update(zeroed))

	fs, err := NewFileStorage(dir, settings, zap.NewNop())
	require.NoError(t, err)

	interval := time.Duration(settings.Get().BackupIntervalHours) * time.Hour
	scheduler := NewBackupScheduler(fs, interval, zap.NewNop())

	done := make(chan struct{})
	go func() {
		scheduler.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not return for a zero interval")
	}
	scheduler.Stop()

	entries, err := os.ReadDir(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
