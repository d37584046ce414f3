package quality

import (
	"strings"
	"time"
)

// Shift is the time-of-day bucket a part was inspected in.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

// ShiftForTime derives the shift from an inspection timestamp.
// Morning runs 06:00-14:00, afternoon 14:00-22:00, the rest is night.
func ShiftForTime(t time.Time) Shift {
	switch hour := t.Hour(); {
	case hour >= 6 && hour < 14:
		return ShiftMorning
	case hour >= 14 && hour < 22:
		return ShiftAfternoon
	default:
		return ShiftNight
	}
}

// Part is a single inspected manufactured item. The verdict fields
// (Approved, RejectionReasons) are set exactly once by the validator;
// edits re-run validation through the ledger.
type Part struct {
	ID               string    `json:"id"`
	Weight           float64   `json:"peso"`
	Color            string    `json:"cor"`
	Length           float64   `json:"comprimento"`
	Operator         string    `json:"usuario"`
	CreatedAt        time.Time `json:"criada_em"`
	Shift            Shift     `json:"turno"`
	Approved         bool      `json:"aprovada"`
	RejectionReasons []string  `json:"motivos_reprovacao"`
}

// NewPart builds a part with normalized identity fields: IDs are
// upper-cased, colors lower-cased, both trimmed.
func NewPart(id string, weight float64, color string, length float64, operator string, now time.Time) Part {
	return Part{
		ID:        NormalizeID(id),
		Weight:    weight,
		Color:     NormalizeColor(color),
		Length:    length,
		Operator:  operator,
		CreatedAt: now,
		Shift:     ShiftForTime(now),
	}
}

// NormalizeID returns the canonical form of a part identifier.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// NormalizeColor returns the canonical form of a color name.
func NormalizeColor(color string) string {
	return strings.ToLower(strings.TrimSpace(color))
}
