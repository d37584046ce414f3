package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rfagundes/quality-control/internal/quality"
)

var (
	ErrDuplicateID  = errors.New("part ID already exists")
	ErrPartNotFound = errors.New("part not found")
)

const (
	partsFile      = "pecas.json"
	containersFile = "caixas.json"
	backupDirName  = "backups"
)

// InspectionOutcome is what a Record or Update call produced: the
// validated part and, when approved, where it was packed.
type InspectionOutcome struct {
	Part            quality.Part
	Approved        bool
	Reasons         []string
	ContainerNumber int
	SlotsRemaining  int
	ContainerClosed bool
}

// FileStorage is the durable ledger: approved and rejected parts,
// closed containers and the single open container, persisted as two
// JSON documents. All mutations are serialized by one mutex and follow
// backup-then-atomic-write; a failed write rolls the in-memory state
// back to the last persisted snapshot.
type FileStorage struct {
	partsPath      string
	containersPath string
	backupDir      string

	mu    sync.Mutex
	state ledgerState

	settings *SettingsStore
	log      *zap.Logger
	now      func() time.Time
}

// NewFileStorage loads the ledger from dataDir, creating the directory
// layout on first run. Missing documents yield empty state; a corrupt
// document is skipped with a logged anomaly while the readable one is
// kept.
func NewFileStorage(dataDir string, settings *SettingsStore, log *zap.Logger) (*FileStorage, error) {
	backupDir := filepath.Join(dataDir, backupDirName)
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	fs := &FileStorage{
		partsPath:      filepath.Join(dataDir, partsFile),
		containersPath: filepath.Join(dataDir, containersFile),
		backupDir:      backupDir,
		settings:       settings,
		log:            log,
		now:            time.Now,
	}
	fs.load()
	return fs, nil
}

func (fs *FileStorage) load() {
	var parts partsDocument
	if ok := fs.loadDocument(fs.partsPath, &parts); ok {
		fs.state.Approved = parts.Approved
		fs.state.Rejected = parts.Rejected
	}

	var containers containersDocument
	if ok := fs.loadDocument(fs.containersPath, &containers); ok && containers.Current.Number > 0 {
		fs.state.Closed = containers.Closed
		fs.state.Current = containers.Current
	} else {
		fs.state.Current = newContainer(len(fs.state.Closed)+1, fs.settings.Get().ContainerCapacity, fs.now())
	}

	fs.log.Info("ledger loaded",
		zap.Int("approved", len(fs.state.Approved)),
		zap.Int("rejected", len(fs.state.Rejected)),
		zap.Int("closed_containers", len(fs.state.Closed)),
		zap.Int("current_container", fs.state.Current.Number))
}

func (fs *FileStorage) loadDocument(path string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fs.log.Warn("ledger document unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		fs.log.Warn("ledger document corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// Record runs a part through the quality gate and appends it to the
// matching collection. Approved parts are packed into the current
// container. Duplicate IDs are refused before validation runs.
func (fs *FileStorage) Record(part quality.Part, criteria quality.Criteria, capacity int) (*InspectionOutcome, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.findLocked(part.ID) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, part.ID)
	}

	part.Approved, part.RejectionReasons = quality.Validate(part, criteria)

	snapshot := fs.state.clone()
	outcome := &InspectionOutcome{
		Part:     part,
		Approved: part.Approved,
		Reasons:  part.RejectionReasons,
	}

	if part.Approved {
		fs.state.Approved = append(fs.state.Approved, part)
		packed := fs.state.pack(part, capacity, fs.now())
		outcome.ContainerNumber = packed.ContainerNumber
		outcome.SlotsRemaining = packed.SlotsRemaining
		outcome.ContainerClosed = packed.ContainerClosed
	} else {
		fs.state.Rejected = append(fs.state.Rejected, part)
	}

	if err := fs.persistLocked(); err != nil {
		fs.state = snapshot
		return nil, err
	}
	return outcome, nil
}

// Remove deletes a part by ID. An approved part is also pulled from the
// current container when still there; closed containers are immutable
// and keep their parts. Not-found performs no write.
func (fs *FileStorage) Remove(id string) (quality.Part, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	id = quality.NormalizeID(id)
	snapshot := fs.state.clone()

	for i, p := range fs.state.Approved {
		if p.ID == id {
			fs.state.Approved = append(fs.state.Approved[:i], fs.state.Approved[i+1:]...)
			fs.state.unpack(id)
			if err := fs.persistLocked(); err != nil {
				fs.state = snapshot
				return quality.Part{}, err
			}
			return p, nil
		}
	}

	for i, p := range fs.state.Rejected {
		if p.ID == id {
			fs.state.Rejected = append(fs.state.Rejected[:i], fs.state.Rejected[i+1:]...)
			if err := fs.persistLocked(); err != nil {
				fs.state = snapshot
				return quality.Part{}, err
			}
			return p, nil
		}
	}

	return quality.Part{}, fmt.Errorf("%w: %s", ErrPartNotFound, id)
}

// Update changes a part's measured fields and re-runs validation,
// moving it between collections when the verdict flips. A demoted part
// leaves the current container; a promoted one gets packed.
func (fs *FileStorage) Update(id string, weight float64, color string, length float64, criteria quality.Criteria, capacity int) (*InspectionOutcome, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	id = quality.NormalizeID(id)
	part := fs.findLocked(id)
	if part == nil {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, id)
	}

	snapshot := fs.state.clone()

	updated := *part
	updated.Weight = weight
	updated.Color = quality.NormalizeColor(color)
	updated.Length = length
	wasApproved := updated.Approved
	updated.Approved, updated.RejectionReasons = quality.Validate(updated, criteria)

	outcome := &InspectionOutcome{
		Part:     updated,
		Approved: updated.Approved,
		Reasons:  updated.RejectionReasons,
	}

	switch {
	case wasApproved && !updated.Approved:
		fs.removeFromListLocked(&fs.state.Approved, id)
		fs.state.unpack(id)
		fs.state.Rejected = append(fs.state.Rejected, updated)
	case !wasApproved && updated.Approved:
		fs.removeFromListLocked(&fs.state.Rejected, id)
		fs.state.Approved = append(fs.state.Approved, updated)
		packed := fs.state.pack(updated, capacity, fs.now())
		outcome.ContainerNumber = packed.ContainerNumber
		outcome.SlotsRemaining = packed.SlotsRemaining
		outcome.ContainerClosed = packed.ContainerClosed
	case wasApproved:
		fs.replaceInListLocked(fs.state.Approved, updated)
		fs.replaceInListLocked(fs.state.Current.Parts, updated)
	default:
		fs.replaceInListLocked(fs.state.Rejected, updated)
	}

	if err := fs.persistLocked(); err != nil {
		fs.state = snapshot
		return nil, err
	}
	return outcome, nil
}

// Snapshot returns a deep copy of the ledger for reporting and listing.
func (fs *FileStorage) Snapshot() LedgerSnapshot {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	state := fs.state.clone()
	return LedgerSnapshot{
		Approved: state.Approved,
		Rejected: state.Rejected,
		Closed:   state.Closed,
		Current:  state.Current,
	}
}

// Backup copies the current on-disk documents into the backup
// directory. It takes the storage mutex so a concurrent mutation can
// never produce a torn copy. A no-op when backups are disabled.
func (fs *FileStorage) Backup() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.backupLocked()
}

func (fs *FileStorage) backupLocked() error {
	if !fs.settings.Get().AutoBackup {
		return nil
	}

	stamp := fs.now().Format("20060102_150405")
	for _, src := range []struct{ path, prefix string }{
		{fs.partsPath, "pecas"},
		{fs.containersPath, "caixas"},
	} {
		if _, err := os.Stat(src.path); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(fs.backupDir, fmt.Sprintf("%s_backup_%s.json", src.prefix, stamp))
		if err := copyFile(src.path, dst); err != nil {
			return fmt.Errorf("backup %s: %w", src.prefix, err)
		}
	}
	return nil
}

func (fs *FileStorage) persistLocked() error {
	// Best effort: a failed backup must not block the write itself.
	if err := fs.backupLocked(); err != nil {
		fs.log.Warn("ledger backup failed", zap.Error(err))
	}

	now := fs.now()
	parts := partsDocument{
		Approved:  fs.state.Approved,
		Rejected:  fs.state.Rejected,
		UpdatedAt: now,
	}
	if err := writeJSONAtomic(fs.partsPath, parts); err != nil {
		return fmt.Errorf("persist parts document: %w", err)
	}

	containers := containersDocument{
		Closed:    fs.state.Closed,
		Current:   fs.state.Current,
		UpdatedAt: now,
	}
	if err := writeJSONAtomic(fs.containersPath, containers); err != nil {
		return fmt.Errorf("persist containers document: %w", err)
	}
	return nil
}

func (fs *FileStorage) findLocked(id string) *quality.Part {
	for i := range fs.state.Approved {
		if fs.state.Approved[i].ID == id {
			return &fs.state.Approved[i]
		}
	}
	for i := range fs.state.Rejected {
		if fs.state.Rejected[i].ID == id {
			return &fs.state.Rejected[i]
		}
	}
	return nil
}

func (fs *FileStorage) removeFromListLocked(list *[]quality.Part, id string) {
	for i, p := range *list {
		if p.ID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func (fs *FileStorage) replaceInListLocked(list []quality.Part, part quality.Part) {
	for i := range list {
		if list[i].ID == part.ID {
			list[i] = part
			return
		}
	}
}

// writeJSONAtomic writes v to path via a temp file and rename, so a
// crash mid-write never corrupts the previous document.
func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
