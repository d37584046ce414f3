package storage

import (
	"time"

	"github.com/rfagundes/quality-control/internal/quality"
)

// PackResult describes where an approved part ended up.
type PackResult struct {
	ContainerNumber int
	SlotsRemaining  int
	ContainerClosed bool
}

// pack assigns an approved part to the current container, closing it
// and rolling over to a fresh one when the last slot is taken. A
// container closes exactly when its capacity-th part lands, never
// before or after. newCapacity applies only to containers created from
// here on; the current container keeps the capacity it was born with.
func (s *ledgerState) pack(part quality.Part, newCapacity int, now time.Time) PackResult {
	if s.Current.IsClosed() || s.Current.IsFull() {
		// Filled on the preceding insert without rolling over (e.g.
		// state loaded from an older data file). Archive and retry on
		// a fresh container; capacity is at least 1, so the retry
		// cannot fail.
		s.archiveCurrent(part.Operator, now)
		s.openNext(newCapacity, now)
	}

	s.Current.Parts = append(s.Current.Parts, part)
	result := PackResult{
		ContainerNumber: s.Current.Number,
		SlotsRemaining:  s.Current.SlotsFree(),
	}

	if s.Current.IsFull() {
		s.archiveCurrent(part.Operator, now)
		s.openNext(newCapacity, now)
		result.ContainerClosed = true
	}

	return result
}

// unpack removes a part from the current container, if present. Closed
// containers are immutable; parts inside them stay where they are.
func (s *ledgerState) unpack(id string) bool {
	for i, p := range s.Current.Parts {
		if p.ID == id {
			s.Current.Parts = append(s.Current.Parts[:i], s.Current.Parts[i+1:]...)
			return true
		}
	}
	return false
}

func (s *ledgerState) archiveCurrent(closedBy string, now time.Time) {
	if !s.Current.IsClosed() {
		closedAt := now
		s.Current.ClosedAt = &closedAt
		s.Current.ClosedBy = closedBy
	}
	s.Closed = append(s.Closed, s.Current)
}

func (s *ledgerState) openNext(capacity int, now time.Time) {
	if capacity < 1 {
		capacity = 1
	}
	s.Current = newContainer(len(s.Closed)+1, capacity, now)
}
