package storage

import (
	"time"

	"github.com/rfagundes/quality-control/internal/quality"
)

// Container is a fixed-capacity batch of approved parts. Once ClosedAt
// is set the container is immutable and lives in the closed list.
type Container struct {
	Number    int            `json:"numero"`
	Capacity  int            `json:"capacidade"`
	Parts     []quality.Part `json:"pecas"`
	CreatedAt time.Time      `json:"criada_em"`
	ClosedAt  *time.Time     `json:"data_fechamento"`
	ClosedBy  string         `json:"usuario_fechamento"`
}

func newContainer(number, capacity int, now time.Time) Container {
	return Container{
		Number:    number,
		Capacity:  capacity,
		CreatedAt: now,
	}
}

// IsClosed reports whether the container has been sealed.
func (c Container) IsClosed() bool {
	return c.ClosedAt != nil
}

// IsFull reports whether the container has no free slots left.
func (c Container) IsFull() bool {
	return len(c.Parts) >= c.Capacity
}

// SlotsFree returns the number of remaining slots.
func (c Container) SlotsFree() int {
	if free := c.Capacity - len(c.Parts); free > 0 {
		return free
	}
	return 0
}

func (c Container) clone() Container {
	out := c
	out.Parts = clonePartList(c.Parts)
	if c.ClosedAt != nil {
		closedAt := *c.ClosedAt
		out.ClosedAt = &closedAt
	}
	return out
}

// ledgerState is the complete in-memory ledger. Mutations always go
// through FileStorage, which snapshots it for rollback before writing.
type ledgerState struct {
	Approved []quality.Part
	Rejected []quality.Part
	Closed   []Container
	Current  Container
}

func (s ledgerState) clone() ledgerState {
	out := ledgerState{
		Approved: clonePartList(s.Approved),
		Rejected: clonePartList(s.Rejected),
		Closed:   make([]Container, len(s.Closed)),
		Current:  s.Current.clone(),
	}
	for i, c := range s.Closed {
		out.Closed[i] = c.clone()
	}
	return out
}

func clonePartList(parts []quality.Part) []quality.Part {
	if parts == nil {
		return nil
	}
	out := make([]quality.Part, len(parts))
	for i, p := range parts {
		out[i] = p
		if p.RejectionReasons != nil {
			out[i].RejectionReasons = append([]string(nil), p.RejectionReasons...)
		}
	}
	return out
}

// LedgerSnapshot is a deep, read-only copy of the ledger handed to the
// reporting engine and to HTTP handlers.
type LedgerSnapshot struct {
	Approved []quality.Part
	Rejected []quality.Part
	Closed   []Container
	Current  Container
}

// partsDocument is the on-disk parts collection. The field names keep
// the legacy document layout so existing data files load unchanged.
type partsDocument struct {
	Approved  []quality.Part `json:"aprovadas"`
	Rejected  []quality.Part `json:"reprovadas"`
	UpdatedAt time.Time      `json:"ultima_atualizacao"`
}

// containersDocument is the on-disk containers collection.
type containersDocument struct {
	Closed    []Container `json:"fechadas"`
	Current   Container   `json:"atual"`
	UpdatedAt time.Time   `json:"ultima_atualizacao"`
}
