package domain

import "time"

// PolicyParams holds the late-policy parameters of one homework
type PolicyParams struct {
	Policy        LatePolicy
	DecayPerDay   float64 // fraction deducted per late day (0.10 = 10%/day)
	PenaltyPerDay float64 // points deducted per late day
	MaxScore      float64
}

// LateDays returns the number of chargeable late days for a submission.
// Partial days are floored: only whole elapsed 24h periods past the due
// date count, so 1.5 days late charges 1 day.
func LateDays(submittedAt, dueAt time.Time) int {
	if !submittedAt.After(dueAt) {
		return 0
	}
	return int(submittedAt.Sub(dueAt) / (24 * time.Hour))
}

// ApplyLatePolicy maps a raw score and lateness to the adjusted score.
// The result is always clamped to [0, MaxScore]; this function never fails.
func ApplyLatePolicy(rawScore float64, lateDays int, p PolicyParams) float64 {
	if lateDays < 0 {
		lateDays = 0
	}

	adjusted := rawScore
	switch p.Policy {
	case LatePolicyPercentageDecay:
		factor := 1 - p.DecayPerDay*float64(lateDays)
		if factor < 0 {
			factor = 0
		}
		adjusted = rawScore * factor
	case LatePolicyFixedPenalty:
		adjusted = rawScore - p.PenaltyPerDay*float64(lateDays)
	}

	if adjusted < 0 {
		adjusted = 0
	}
	if p.MaxScore > 0 && adjusted > p.MaxScore {
		adjusted = p.MaxScore
	}
	return adjusted
}
