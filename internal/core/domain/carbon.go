package domain

import (
	"fmt"
	"math"
)

// DefaultMaxFootprint is the meter's full scale when none is configured.
const DefaultMaxFootprint = 1000.0

// CarbonTier buckets a footprint percentage. Lower is better.
type CarbonTier string

const (
	CarbonExcellent CarbonTier = "excellent"
	CarbonGood      CarbonTier = "good"
	CarbonWarning   CarbonTier = "warning"
	CarbonDanger    CarbonTier = "danger"
)

// CarbonStatus is the evaluated state of a footprint against its maximum.
type CarbonStatus struct {
	Current    float64    `json:"current"`
	Max        float64    `json:"max"`
	Percentage float64    `json:"percentage"`
	Tier       CarbonTier `json:"tier"`
	Label      string     `json:"label"`
	Advisory   string     `json:"advisory"`
}

type carbonBand struct {
	upTo     float64
	tier     CarbonTier
	label    string
	advisory string
}

// carbonBands are ordered by inclusive upper bound of the percentage.
var carbonBands = []carbonBand{
	{25, CarbonExcellent, "EXCELLENT!", "Amazing! You're a true eco-warrior!"},
	{50, CarbonGood, "GOOD", "Great job! Keep up the good work!"},
	{75, CarbonWarning, "WARNING", "Answer quiz questions correctly to reduce your footprint!"},
	{100, CarbonDanger, "DANGER!", "Critical! Focus on environmental learning to save the planet!"},
}

// EvaluateCarbon computes clamp(current/max*100, 0, 100) and maps it to a tier.
// Both inputs must be finite and max positive; a footprint above max clamps
// to 100%.
func EvaluateCarbon(current, max float64) (CarbonStatus, error) {
	if math.IsNaN(max) || math.IsInf(max, 0) || max <= 0 {
		return CarbonStatus{}, fmt.Errorf("%w: max footprint must be a finite number > 0, got %v", ErrInvalidArgument, max)
	}
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return CarbonStatus{}, fmt.Errorf("%w: footprint must be a finite number, got %v", ErrInvalidArgument, current)
	}

	pct := math.Max(0, math.Min(100, current*100/max))

	band := carbonBands[len(carbonBands)-1]
	for _, b := range carbonBands {
		if pct <= b.upTo {
			band = b
			break
		}
	}

	return CarbonStatus{
		Current:    current,
		Max:        max,
		Percentage: pct,
		Tier:       band.tier,
		Label:      band.label,
		Advisory:   band.advisory,
	}, nil
}
