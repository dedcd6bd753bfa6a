package service

import (
	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/repository"
)

// QueryService serves the read side: staff queue, community feed, owner
// lists, user stats and aggregate metrics. It never mutates state.
type QueryService struct {
	db               repository.DBTX
	reportRepo       *repository.ReportRepository
	confirmationRepo *repository.ConfirmationRepository
	statsRepo        *repository.UserStatsRepository
	feedLimit        int
	badgeThreshold   int
}

// NewQueryService creates a new query service
func NewQueryService(
	db repository.DBTX,
	reportRepo *repository.ReportRepository,
	confirmationRepo *repository.ConfirmationRepository,
	statsRepo *repository.UserStatsRepository,
	feedLimit int,
	badgeThreshold int,
) *QueryService {
	if feedLimit < 1 {
		feedLimit = 50
	}
	if badgeThreshold < 1 {
		badgeThreshold = 5
	}
	return &QueryService{
		db:               db,
		reportRepo:       reportRepo,
		confirmationRepo: confirmationRepo,
		statsRepo:        statsRepo,
		feedLimit:        feedLimit,
		badgeThreshold:   badgeThreshold,
	}
}

// ListQueue returns the staff triage queue, optionally filtered by status:
// escalated reports first, then by priority High to Low, newest first within
// a tier. Each item carries a one-line insight.
func (s *QueryService) ListQueue(statusFilter string) ([]models.ReportResponse, error) {
	if statusFilter != "" && !models.IsValidStatus(models.ReportStatus(statusFilter)) {
		return nil, models.NewValidationError("status", "must be one of Pending, In Progress, Resolved")
	}

	reports, err := s.reportRepo.ListQueue(statusFilter)
	if err != nil {
		return nil, models.NewStorageError("listQueue", err)
	}
	return toResponsesWithInsight(reports), nil
}

// ListOwned returns all of one user's reports, newest first
func (s *QueryService) ListOwned(userID string) ([]models.ReportResponse, error) {
	reports, err := s.reportRepo.ListByOwner(userID)
	if err != nil {
		return nil, models.NewStorageError("listOwned", err)
	}
	return toResponses(reports), nil
}

// ListFeed returns the community feed: the most recent reports, capped at
// the configured limit, with insights attached.
func (s *QueryService) ListFeed() ([]models.ReportResponse, error) {
	reports, err := s.reportRepo.ListFeed(s.feedLimit)
	if err != nil {
		return nil, models.NewStorageError("listFeed", err)
	}
	return toResponsesWithInsight(reports), nil
}

// GetUserStats returns one user's points, verified-report count and badges;
// (nil, nil) when the user has no ledger row yet. The Contributor flag is
// derived from the verified-report count at read time, never stored.
func (s *QueryService) GetUserStats(userID string) (*models.UserStatsResponse, error) {
	stats, err := s.statsRepo.GetByUserID(s.db, userID)
	if err != nil {
		return nil, models.NewStorageError("getUserStats", err)
	}
	if stats == nil {
		return nil, nil
	}

	return &models.UserStatsResponse{
		UserID:               stats.UserID,
		Points:               stats.Points,
		VerifiedReportsCount: stats.VerifiedReportsCount,
		ConfirmationsGiven:   stats.ConfirmationsGiven,
		Badges:               stats.Badges,
		Contributor:          stats.VerifiedReportsCount >= s.badgeThreshold,
	}, nil
}

// ListConfirmedReportIDs returns the IDs of reports the user has confirmed
func (s *QueryService) ListConfirmedReportIDs(userID string) ([]int64, error) {
	ids, err := s.confirmationRepo.ListReportIDsByUser(userID)
	if err != nil {
		return nil, models.NewStorageError("listConfirmed", err)
	}
	return ids, nil
}

// Metrics returns the staff dashboard aggregates
func (s *QueryService) Metrics() (*models.MetricsResponse, error) {
	metrics, err := s.reportRepo.Metrics()
	if err != nil {
		return nil, models.NewStorageError("metrics", err)
	}
	return metrics, nil
}

func toResponses(reports []models.Report) []models.ReportResponse {
	responses := make([]models.ReportResponse, 0, len(reports))
	for i := range reports {
		responses = append(responses, models.ToReportResponse(&reports[i]))
	}
	return responses
}

func toResponsesWithInsight(reports []models.Report) []models.ReportResponse {
	responses := make([]models.ReportResponse, 0, len(reports))
	for i := range reports {
		resp := models.ToReportResponse(&reports[i])
		resp.Insight = Insight(&reports[i])
		responses = append(responses, resp)
	}
	return responses
}
