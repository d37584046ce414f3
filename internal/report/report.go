// Package report aggregates ledger snapshots into production
// statistics. It holds no state: every call computes fresh numbers.
package report

import (
	"strings"
	"time"

	"github.com/rfagundes/quality-control/internal/quality"
	"github.com/rfagundes/quality-control/internal/storage"
)

// Reason categories, keyed by the field a rejection reason names.
const (
	CategoryWeight = "weight"
	CategoryColor  = "color"
	CategoryLength = "length"
)

// Options narrow the snapshot before aggregation.
type Options struct {
	From     *time.Time
	To       *time.Time
	Operator string
}

// ShiftStats is the per-shift breakdown.
type ShiftStats struct {
	Approved     int     `json:"approved"`
	Rejected     int     `json:"rejected"`
	Total        int     `json:"total"`
	ApprovalRate float64 `json:"approval_rate"`
}

// ReasonStats counts rejection reasons falling into one category.
type ReasonStats struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// ContainerStatus summarizes the open container.
type ContainerStatus struct {
	Number      int     `json:"number"`
	Used        int     `json:"used"`
	SlotsFree   int     `json:"slots_free"`
	Capacity    int     `json:"capacity"`
	PercentFull float64 `json:"percent_full"`
}

// Report is the full aggregate produced over one snapshot.
type Report struct {
	GeneratedAt      time.Time                    `json:"generated_at"`
	From             *time.Time                   `json:"from,omitempty"`
	To               *time.Time                   `json:"to,omitempty"`
	Operator         string                       `json:"operator,omitempty"`
	TotalApproved    int                          `json:"total_approved"`
	TotalRejected    int                          `json:"total_rejected"`
	TotalInspected   int                          `json:"total_inspected"`
	ApprovalRate     float64                      `json:"approval_rate"`
	ClosedContainers int                          `json:"closed_containers"`
	CurrentContainer ContainerStatus              `json:"current_container"`
	ShiftStats       map[quality.Shift]ShiftStats `json:"shift_stats"`
	RejectionReasons map[string]ReasonStats       `json:"rejection_reasons"`
	DailyGoal        int                          `json:"daily_goal"`
	GoalProgress     float64                      `json:"goal_progress"`
}

// Build computes a report over the snapshot. dailyGoal <= 0 reports
// progress as 0 rather than an error; so does an empty snapshot for
// the approval rate.
func Build(snapshot storage.LedgerSnapshot, opts Options, dailyGoal int, now time.Time) Report {
	approved := filter(snapshot.Approved, opts)
	rejected := filter(snapshot.Rejected, opts)

	total := len(approved) + len(rejected)
	r := Report{
		GeneratedAt:      now,
		From:             opts.From,
		To:               opts.To,
		Operator:         opts.Operator,
		TotalApproved:    len(approved),
		TotalRejected:    len(rejected),
		TotalInspected:   total,
		ApprovalRate:     rate(len(approved), total),
		ClosedContainers: len(snapshot.Closed),
		CurrentContainer: ContainerStatus{
			Number:      snapshot.Current.Number,
			Used:        len(snapshot.Current.Parts),
			SlotsFree:   snapshot.Current.SlotsFree(),
			Capacity:    snapshot.Current.Capacity,
			PercentFull: rate(len(snapshot.Current.Parts), snapshot.Current.Capacity),
		},
		ShiftStats:       shiftStats(approved, rejected),
		RejectionReasons: reasonHistogram(rejected),
		DailyGoal:        dailyGoal,
	}

	if dailyGoal > 0 {
		r.GoalProgress = float64(len(approved)) / float64(dailyGoal) * 100
	}
	return r
}

func filter(parts []quality.Part, opts Options) []quality.Part {
	if opts.From == nil && opts.To == nil && opts.Operator == "" {
		return parts
	}

	var out []quality.Part
	for _, p := range parts {
		if opts.From != nil && p.CreatedAt.Before(*opts.From) {
			continue
		}
		if opts.To != nil && p.CreatedAt.After(*opts.To) {
			continue
		}
		if opts.Operator != "" && p.Operator != opts.Operator {
			continue
		}
		out = append(out, p)
	}
	return out
}

func shiftStats(approved, rejected []quality.Part) map[quality.Shift]ShiftStats {
	stats := make(map[quality.Shift]ShiftStats)

	for _, p := range approved {
		s := stats[p.Shift]
		s.Approved++
		s.Total++
		stats[p.Shift] = s
	}
	for _, p := range rejected {
		s := stats[p.Shift]
		s.Rejected++
		s.Total++
		stats[p.Shift] = s
	}

	for shift, s := range stats {
		s.ApprovalRate = rate(s.Approved, s.Total)
		stats[shift] = s
	}
	return stats
}

func reasonHistogram(rejected []quality.Part) map[string]ReasonStats {
	histogram := make(map[string]ReasonStats)

	for _, p := range rejected {
		for _, reason := range p.RejectionReasons {
			if category := Classify(reason); category != "" {
				s := histogram[category]
				s.Count++
				histogram[category] = s
			}
		}
	}

	for category, s := range histogram {
		s.Percent = rate(s.Count, len(rejected))
		histogram[category] = s
	}
	return histogram
}

// Classify maps a rejection reason to the single category of the field
// it names, or "" when it matches none.
func Classify(reason string) string {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, CategoryWeight):
		return CategoryWeight
	case strings.Contains(lower, CategoryColor):
		return CategoryColor
	case strings.Contains(lower, CategoryLength):
		return CategoryLength
	default:
		return ""
	}
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
