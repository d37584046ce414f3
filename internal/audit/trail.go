package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLimit is how many entries the trail retains.
const DefaultLimit = 1000

// Entry is one immutable audit record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"usuario"`
	Action    string    `json:"acao"`
	Detail    string    `json:"detalhes"`
}

// Trail is the bounded, append-only audit log. Appends trim the oldest
// entries once the bound is exceeded (trim-after-append, not a ring of
// fixed slots) and persist the whole document.
type Trail struct {
	path  string
	limit int
	log   *zap.Logger

	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewTrail loads the audit document from path. Missing or corrupt
// documents start an empty trail; the anomaly is logged.
func NewTrail(path string, limit int, log *zap.Logger) *Trail {
	if limit <= 0 {
		limit = DefaultLimit
	}
	t := &Trail{
		path:  path,
		limit: limit,
		log:   log,
		now:   time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("audit document unreadable, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return t
	}
	if err := json.Unmarshal(data, &t.entries); err != nil {
		log.Warn("audit document corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		t.entries = nil
	}
	if len(t.entries) > t.limit {
		t.entries = append([]Entry(nil), t.entries[len(t.entries)-t.limit:]...)
	}
	return t
}

// Record appends an audit entry for an action performed by username.
func (t *Trail) Record(username, action, detail string) {
	t.Append(Entry{
		Username: username,
		Action:   action,
		Detail:   detail,
	})
}

// Append adds a prepared entry, filling in ID and timestamp when
// missing. Persistence is best effort: a failed write keeps the entry
// in memory and logs the fault.
func (t *Trail) Append(entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = t.now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, entry)
	if len(t.entries) > t.limit {
		t.entries = t.entries[len(t.entries)-t.limit:]
	}

	if err := t.saveLocked(); err != nil {
		t.log.Warn("audit write failed", zap.Error(err))
	}
}

func (t *Trail) saveLocked() error {
	data, err := json.MarshalIndent(t.entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(t.path), "audit.tmp-*")
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
	return os.Rename(tmpName, t.path)
}

// Entries returns a copy of the retained entries, oldest first.
func (t *Trail) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Len returns the number of retained entries.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
