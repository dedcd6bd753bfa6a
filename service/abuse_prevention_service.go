package service

import (
	"fmt"
	"time"

	"github.com/jigisha06/Roadfix-Connect/repository"
)

// AbusePreventionService handles abuse prevention checks for report submission
type AbusePreventionService struct {
	abuseRepo        *repository.AbusePreventionRepository
	maxReportsPerDay int
	resubmitGuard    time.Duration
}

// NewAbusePreventionService creates a new abuse prevention service
func NewAbusePreventionService(abuseRepo *repository.AbusePreventionRepository, maxReportsPerDay int, resubmitGuardMinutes int) *AbusePreventionService {
	if maxReportsPerDay < 1 {
		maxReportsPerDay = 3
	}
	if resubmitGuardMinutes < 1 {
		resubmitGuardMinutes = 30
	}
	return &AbusePreventionService{
		abuseRepo:        abuseRepo,
		maxReportsPerDay: maxReportsPerDay,
		resubmitGuard:    time.Duration(resubmitGuardMinutes) * time.Minute,
	}
}

// AbuseCheckResult represents the result of abuse prevention checks
type AbuseCheckResult struct {
	Allowed   bool
	Reason    string
	ErrorCode string // For internal tracking (not exposed to user)
}

// CheckRateLimit verifies the user hasn't exceeded the daily submission limit
func (s *AbusePreventionService) CheckRateLimit(userID string) (*AbuseCheckResult, error) {
	count, err := s.abuseRepo.CountReportsByOwnerInLast24Hours(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count >= s.maxReportsPerDay {
		return &AbuseCheckResult{
			Allowed:   false,
			Reason:    "You have reached the maximum number of reports allowed per day. Please try again tomorrow.",
			ErrorCode: "RATE_LIMIT_EXCEEDED",
		}, nil
	}

	return &AbuseCheckResult{
		Allowed: true,
	}, nil
}

// CheckResubmission rejects a report when the same user filed the same issue
// type near the same spot within the guard window
func (s *AbusePreventionService) CheckResubmission(userID, issueType string, lat, lon float64) (*AbuseCheckResult, error) {
	exists, err := s.abuseRepo.HasRecentSimilarReport(userID, issueType, lat, lon, s.resubmitGuard)
	if err != nil {
		return nil, fmt.Errorf("failed to check resubmission: %w", err)
	}

	if exists {
		return &AbuseCheckResult{
			Allowed:   false,
			Reason:    "A similar report was recently submitted. Please wait before submitting again.",
			ErrorCode: "DUPLICATE_SUBMISSION",
		}, nil
	}

	return &AbuseCheckResult{
		Allowed: true,
	}, nil
}

// ValidateSubmission runs both checks in order; anonymous submissions skip
// them since there is no owner to attribute the history to
func (s *AbusePreventionService) ValidateSubmission(userID *string, issueType string, lat, lon float64) (*AbuseCheckResult, error) {
	if userID == nil {
		return &AbuseCheckResult{Allowed: true}, nil
	}

	result, err := s.CheckRateLimit(*userID)
	if err != nil {
		return nil, err
	}
	if !result.Allowed {
		return result, nil
	}

	return s.CheckResubmission(*userID, issueType, lat, lon)
}
