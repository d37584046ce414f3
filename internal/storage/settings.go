package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/rfagundes/quality-control/internal/quality"
)

var ErrInvalidCapacity = errors.New("container capacity must be at least 1")

// Settings is the administrator-owned configuration document: quality
// criteria plus the structural parameters of the packing line. Field
// names match the legacy config file.
type Settings struct {
	Criteria            quality.Criteria `json:"criterios_qualidade"`
	ContainerCapacity   int              `json:"capacidade_caixa"`
	AutoBackup          bool             `json:"auto_backup"`
	BackupIntervalHours int              `json:"backup_interval_hours"`
	Goals               Goals            `json:"metas"`
}

// Goals holds production targets used by the reporting engine.
type Goals struct {
	Daily int `json:"diaria"`
}

// DefaultSettings returns the configuration the system ships with.
func DefaultSettings() Settings {
	return Settings{
		Criteria:            quality.DefaultCriteria(),
		ContainerCapacity:   10,
		AutoBackup:          true,
		BackupIntervalHours: 24,
		Goals:               Goals{Daily: 500},
	}
}

// Validate checks the structural invariants of the settings document.
func (s Settings) Validate() error {
	if err := s.Criteria.Validate(); err != nil {
		return err
	}
	if s.ContainerCapacity < 1 {
		return ErrInvalidCapacity
	}
	return nil
}

// SettingsStore persists the settings document. Reads are frequent
// (every validation consults the criteria); writes happen only through
// an explicit administrator update.
type SettingsStore struct {
	path     string
	mu       sync.RWMutex
	settings Settings
	log      *zap.Logger
}

// NewSettingsStore loads the settings document, falling back to the
// defaults when the file is missing or unreadable.
func NewSettingsStore(path string, log *zap.Logger) *SettingsStore {
	store := &SettingsStore{
		path:     path,
		settings: DefaultSettings(),
		log:      log,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("settings document unreadable, using defaults",
				zap.String("path", path), zap.Error(err))
		}
		return store
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warn("settings document corrupt, using defaults",
			zap.String("path", path), zap.Error(err))
		return store
	}
	if err := loaded.Validate(); err != nil {
		log.Warn("settings document invalid, using defaults",
			zap.String("path", path), zap.Error(err))
		return store
	}

	store.settings = loaded
	return store
}

// Get returns a copy of the current settings.
func (st *SettingsStore) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := st.settings
	out.Criteria.AcceptedColors = append([]string(nil), st.settings.Criteria.AcceptedColors...)
	return out
}

// Update replaces the settings document after validating it and
// persists the result. The previous value is kept on write failure.
func (st *SettingsStore) Update(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	previous := st.settings
	st.settings = settings

	if err := writeJSONAtomic(st.path, settings); err != nil {
		st.settings = previous
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}
