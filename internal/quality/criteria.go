package quality

import (
	"errors"
	"strings"
)

var (
	ErrInvalidWeightRange = errors.New("weight range is invalid")
	ErrInvalidLengthRange = errors.New("length range is invalid")
	ErrNoAcceptedColors   = errors.New("accepted colors list is empty")
)

// Criteria holds the acceptance thresholds used to inspect parts.
// It is owned by the criteria store and passed explicitly into every
// validation so tests can vary it per case.
type Criteria struct {
	WeightMin      float64  `json:"peso_min"`
	WeightMax      float64  `json:"peso_max"`
	LengthMin      float64  `json:"comprimento_min"`
	LengthMax      float64  `json:"comprimento_max"`
	AcceptedColors []string `json:"cores_aceitas"`
}

// DefaultCriteria returns the thresholds the system ships with.
func DefaultCriteria() Criteria {
	return Criteria{
		WeightMin:      95,
		WeightMax:      105,
		LengthMin:      10,
		LengthMax:      20,
		AcceptedColors: []string{"azul", "verde"},
	}
}

// Validate checks the structural invariants: min <= max for both ranges
// and a non-empty color set.
func (c Criteria) Validate() error {
	if c.WeightMin > c.WeightMax {
		return ErrInvalidWeightRange
	}
	if c.LengthMin > c.LengthMax {
		return ErrInvalidLengthRange
	}
	if len(c.AcceptedColors) == 0 {
		return ErrNoAcceptedColors
	}
	return nil
}

// AcceptsColor reports whether the color is in the accepted set,
// case-insensitively.
func (c Criteria) AcceptsColor(color string) bool {
	color = strings.ToLower(strings.TrimSpace(color))
	for _, accepted := range c.AcceptedColors {
		if strings.ToLower(accepted) == color {
			return true
		}
	}
	return false
}
