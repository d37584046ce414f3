package audit

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManagerFlushesOnShutdown(t *testing.T) {
	t.Parallel()

	trail := NewTrail(filepath.Join(t.TempDir(), "auditoria.json"), DefaultLimit, zap.NewNop())
	manager := NewManager(trail, 2, 5, 50*time.Millisecond, zap.NewNop())

	ctx := context.Background()
	manager.Start(ctx)

	for i := 0; i < 12; i++ {
		manager.Log(ctx, Entry{Username: "op", Action: "HTTP_REQUEST", Detail: fmt.Sprintf("req %d", i)})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	manager.Shutdown(shutdownCtx)

	// Shutdown drains the queue and waits for the workers, so every
	// entry is on disk by now, batched or not.
	assert.Equal(t, 12, trail.Len())
}

func TestManagerFallsBackToSyncWriteWhenCancelled(t *testing.T) {
	t.Parallel()

	trail := NewTrail(filepath.Join(t.TempDir(), "auditoria.json"), DefaultLimit, zap.NewNop())
	manager := NewManager(trail, 1, 5, 50*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nothing drains the input channel; fill it so the queue branch
	// can never win the select.
	for i := 0; i < cap(manager.inputChan); i++ {
		manager.inputChan <- Entry{}
	}

	manager.Log(ctx, Entry{Username: "op", Action: "HTTP_REQUEST", Detail: "after cancel"})

	entries := trail.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "after cancel", entries[0].Detail)
}

func TestManagerBatchTimeout(t *testing.T) {
	t.Parallel()

	trail := NewTrail(filepath.Join(t.TempDir(), "auditoria.json"), DefaultLimit, zap.NewNop())
	manager := NewManager(trail, 1, 100, 20*time.Millisecond, zap.NewNop())

	ctx := context.Background()
	manager.Start(ctx)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		manager.Shutdown(shutdownCtx)
	}()

	// A single entry never fills the batch; the timeout must flush it.
	manager.Log(ctx, Entry{Username: "op", Action: "HTTP_REQUEST", Detail: "lonely"})

	require.Eventually(t, func() bool {
		return trail.Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
