package quality

import "fmt"

// Validate inspects a part against the criteria and returns the verdict
// together with one reason per violated check. Checks run in a fixed
// order (weight, color, length) and never short-circuit, so the reasons
// list is always complete. Boundary values pass.
func Validate(part Part, criteria Criteria) (bool, []string) {
	var reasons []string

	if part.Weight < criteria.WeightMin || part.Weight > criteria.WeightMax {
		reasons = append(reasons, fmt.Sprintf(
			"weight out of range: %.4gg (expected %.4g-%.4gg)",
			part.Weight, criteria.WeightMin, criteria.WeightMax))
	}

	if !criteria.AcceptsColor(part.Color) {
		reasons = append(reasons, fmt.Sprintf(
			"color not accepted: %s (expected one of %v)",
			part.Color, criteria.AcceptedColors))
	}

	if part.Length < criteria.LengthMin || part.Length > criteria.LengthMax {
		reasons = append(reasons, fmt.Sprintf(
			"length out of range: %.4gcm (expected %.4g-%.4gcm)",
			part.Length, criteria.LengthMin, criteria.LengthMax))
	}

	return len(reasons) == 0, reasons
}
