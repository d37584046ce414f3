package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rfagundes/quality-control/internal/quality"
)

func TestSettingsStoreDefaults(t *testing.T) {
	t.Parallel()

	store := NewSettingsStore(filepath.Join(t.TempDir(), "config.json"), zap.NewNop())
	got := store.Get()

	assert.Equal(t, DefaultSettings(), got)
	assert.Equal(t, 10, got.ContainerCapacity)
	assert.Equal(t, 500, got.Goals.Daily)
}

func TestSettingsStoreUpdatePersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	store := NewSettingsStore(path, zap.NewNop())

	updated := store.Get()
	updated.ContainerCapacity = 5
	updated.Criteria.WeightMax = 110
	require.NoError(t, store.Update(updated))

	reloaded := NewSettingsStore(path, zap.NewNop())
	got := reloaded.Get()
	assert.Equal(t, 5, got.ContainerCapacity)
	assert.Equal(t, 110.0, got.Criteria.WeightMax)
}

func TestSettingsStoreRejectsInvalid(t *testing.T) {
	t.Parallel()

	store := NewSettingsStore(filepath.Join(t.TempDir(), "config.json"), zap.NewNop())

	bad := store.Get()
	bad.ContainerCapacity = 0
	assert.ErrorIs(t, store.Update(bad), ErrInvalidCapacity)

	inverted := store.Get()
	inverted.Criteria.WeightMin = 200
	assert.ErrorIs(t, store.Update(inverted), quality.ErrInvalidWeightRange)

	// The stored value is untouched after failed updates.
	assert.Equal(t, 10, store.Get().ContainerCapacity)
}

func TestSettingsStoreCorruptFileUsesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("][Nonsense"), 0o644))

	store := NewSettingsStore(path, zap.NewNop())
	assert.Equal(t, DefaultSettings(), store.Get())
}

func TestSettingsStoreGetReturnsCopy(t *testing.T) {
	t.Parallel()

	store := NewSettingsStore(filepath.Join(t.TempDir(), "config.json"), zap.NewNop())

	got := store.Get()
	got.Criteria.AcceptedColors[0] = "roxo"

	assert.Equal(t, "azul", store.Get().Criteria.AcceptedColors[0])
}
