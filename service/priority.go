package service

import (
	"github.com/jigisha06/Roadfix-Connect/config"
	"github.com/jigisha06/Roadfix-Connect/models"
)

// minMediumSignal is the total signal at which a report leaves the Low tier.
// A lone report always has signal 1 (itself), so Low means "no corroboration".
const minMediumSignal = 2

// PriorityScorer derives a priority tier and crowd-verified flag from
// community signal strength. It is a pure function of its inputs: recomputing
// from stored counts must always reproduce the stored priority, so it is safe
// to call redundantly at any point in a report's life.
type PriorityScorer struct {
	highSignal int
}

// NewPriorityScorer creates a scorer with the given High-tier cutover.
// Values below 1 fall back to the shipped default.
func NewPriorityScorer(highSignal int) *PriorityScorer {
	if highSignal < 1 {
		highSignal = config.DefaultHighPrioritySignal
	}
	return &PriorityScorer{highSignal: highSignal}
}

// Score computes (priority, crowdVerified) from the cached nearby-report
// count and the confirmation count. Total signal is nearby + 1 (the report
// itself) + confirmations; exact boundaries tie-break toward the higher tier.
func (s *PriorityScorer) Score(nearbyCount, confirmationCount int) (models.Priority, bool) {
	crowdVerified := nearbyCount >= 1
	signal := nearbyCount + 1 + confirmationCount

	switch {
	case signal >= s.highSignal:
		return models.PriorityHigh, crowdVerified
	case signal >= minMediumSignal:
		return models.PriorityMedium, crowdVerified
	default:
		return models.PriorityLow, crowdVerified
	}
}
