package service

import (
	"database/sql"
	"log"
	"time"

	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/repository"
)

// ConfirmationService handles "I see this too" endorsements and the points
// they award
type ConfirmationService struct {
	db               *sql.DB
	reportRepo       *repository.ReportRepository
	confirmationRepo *repository.ConfirmationRepository
	statsRepo        *repository.UserStatsRepository
	scorer           *PriorityScorer
	points           int
}

// NewConfirmationService creates a new confirmation service
func NewConfirmationService(
	db *sql.DB,
	reportRepo *repository.ReportRepository,
	confirmationRepo *repository.ConfirmationRepository,
	statsRepo *repository.UserStatsRepository,
	scorer *PriorityScorer,
	points int,
) *ConfirmationService {
	if points < 0 {
		points = 0
	}
	return &ConfirmationService{
		db:               db,
		reportRepo:       reportRepo,
		confirmationRepo: confirmationRepo,
		statsRepo:        statsRepo,
		scorer:           scorer,
		points:           points,
	}
}

// ConfirmReport records userID's confirmation of a report. Rejections
// (missing report, own report, repeat confirmation) are ordinary results,
// not errors, and leave every counter untouched. An accepted confirmation
// bumps the report's confirmation count, recomputes its priority and awards
// points to the confirmer, all in one transaction.
//
// Duplicate detection rides on the store's unique (report, user) key, so two
// racing confirmations by the same user cannot both be accepted.
func (s *ConfirmationService) ConfirmReport(reportID int64, userID string, now time.Time) (*models.ConfirmReportResponse, error) {
	if userID == "" {
		return nil, models.NewValidationError("user_id", "a signed-in user is required to confirm a report")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, models.NewStorageError("confirmReport", err)
	}
	defer tx.Rollback()

	report, err := s.reportRepo.GetReportForUpdate(tx, reportID)
	if err != nil {
		return nil, models.NewStorageError("confirmReport", err)
	}
	if report == nil {
		return &models.ConfirmReportResponse{Accepted: false, Reason: models.ConfirmRejectNotFound}, nil
	}
	if report.OwnedBy(userID) {
		return &models.ConfirmReportResponse{Accepted: false, Reason: models.ConfirmRejectOwnReport}, nil
	}

	inserted, err := s.confirmationRepo.InsertConfirmation(tx, reportID, userID, now)
	if err != nil {
		return nil, models.NewStorageError("confirmReport", err)
	}
	if !inserted {
		return &models.ConfirmReportResponse{Accepted: false, Reason: models.ConfirmRejectAlreadyConfirmed}, nil
	}

	newCount := report.ConfirmationCount + 1
	priority, _ := s.scorer.Score(report.NearbyReportsCount, newCount)

	if err := s.reportRepo.IncrementConfirmation(tx, reportID, priority); err != nil {
		return nil, models.NewStorageError("confirmReport", err)
	}
	if err := s.statsRepo.AwardConfirmationPoints(tx, userID, s.points); err != nil {
		return nil, models.NewStorageError("confirmReport", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, models.NewStorageError("confirmReport", err)
	}

	log.Printf("[confirmation] user %s confirmed report %d (count=%d priority=%s)", userID, reportID, newCount, priority)
	return &models.ConfirmReportResponse{
		Accepted:          true,
		PointsAwarded:     s.points,
		ConfirmationCount: newCount,
		Priority:          string(priority),
	}, nil
}
