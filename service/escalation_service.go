package service

import (
	"log"
	"time"

	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/repository"
)

// EscalationService flags reports stuck in Pending past the age threshold
type EscalationService struct {
	reportRepo    *repository.ReportRepository
	thresholdDays int
}

// NewEscalationService creates a new escalation service
func NewEscalationService(reportRepo *repository.ReportRepository, thresholdDays int) *EscalationService {
	if thresholdDays < 1 {
		thresholdDays = 7
	}
	return &EscalationService{
		reportRepo:    reportRepo,
		thresholdDays: thresholdDays,
	}
}

// Sweep escalates every report still Pending and not yet escalated whose
// age at now meets the threshold. thresholdDays <= 0 uses the configured
// default. The sweep is a single conditional update, so concurrent or
// repeated sweeps over the same window escalate each report exactly once.
func (s *EscalationService) Sweep(now time.Time, thresholdDays int) (int64, error) {
	days := thresholdDays
	if days <= 0 {
		days = s.thresholdDays
	}
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	count, err := s.reportRepo.SweepEscalations(now, cutoff)
	if err != nil {
		return 0, models.NewStorageError("escalationSweep", err)
	}
	if count > 0 {
		log.Printf("[escalation] escalated %d report(s) pending since before %s", count, cutoff.Format(time.RFC3339))
	}
	return count, nil
}
