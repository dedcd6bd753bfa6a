package service

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/repository"
)

// ReportService owns the report lifecycle: creation, status transitions and
// the append-only status-history ledger. No other component writes reports
// or history rows.
type ReportService struct {
	db         *sql.DB
	reportRepo *repository.ReportRepository
	statsRepo  *repository.UserStatsRepository
	detector   *DuplicateDetector
	scorer     *PriorityScorer
}

// NewReportService creates a new report service
func NewReportService(
	db *sql.DB,
	reportRepo *repository.ReportRepository,
	statsRepo *repository.UserStatsRepository,
	detector *DuplicateDetector,
	scorer *PriorityScorer,
) *ReportService {
	return &ReportService{
		db:         db,
		reportRepo: reportRepo,
		statsRepo:  statsRepo,
		detector:   detector,
		scorer:     scorer,
	}
}

// CreateReport validates and persists a new report in one transaction:
// duplicate detection, priority scoring, the report row, the recompute of
// every nearby report's cached cluster fields, and the creation history
// entry all commit together or not at all.
//
// ownerID is nil for anonymous submissions.
func (s *ReportService) CreateReport(req *models.CreateReportRequest, ownerID *string) (*models.Report, error) {
	issueType, err := validateCreateRequest(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &models.Report{
		ReportNumber: s.reportRepo.GenerateReportNumber(now),
		IssueType:    issueType,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		Status:       models.StatusPending,
		CreatedAt:    now,
	}
	if ownerID != nil {
		report.UserID = sql.NullString{String: *ownerID, Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, models.NewStorageError("createReport", err)
	}
	defer tx.Rollback()

	nearby, err := s.detector.FindNearby(tx, report.Latitude, report.Longitude, 0)
	if err != nil {
		return nil, models.NewStorageError("createReport", err)
	}

	priority, crowdVerified := s.scorer.Score(len(nearby), 0)
	report.NearbyReportsCount = len(nearby)
	report.CrowdVerified = crowdVerified
	report.Priority = priority

	if err := s.reportRepo.CreateReport(tx, report); err != nil {
		return nil, models.NewStorageError("createReport", err)
	}

	// The new report changes every neighbor's cluster too: bump their cached
	// nearby count, flip crowd_verified, and recompute their priority from
	// their own confirmation count.
	for i := range nearby {
		neighbor := &nearby[i].Report
		newNearbyCount := neighbor.NearbyReportsCount + 1
		newPriority, _ := s.scorer.Score(newNearbyCount, neighbor.ConfirmationCount)

		if err := s.reportRepo.UpdateNearbyStats(tx, neighbor.ReportID, newNearbyCount, true, newPriority); err != nil {
			return nil, models.NewStorageError("createReport", err)
		}

		// First verification of the neighbor by either route credits its
		// owner's contributor counter exactly once.
		if !neighbor.CrowdVerified && !neighbor.AIVerified && neighbor.UserID.Valid {
			if err := s.statsRepo.IncrementVerifiedReports(tx, neighbor.UserID.String); err != nil {
				return nil, models.NewStorageError("createReport", err)
			}
		}
	}

	if report.CrowdVerified && ownerID != nil {
		if err := s.statsRepo.IncrementVerifiedReports(tx, *ownerID); err != nil {
			return nil, models.NewStorageError("createReport", err)
		}
	}

	changedBy := models.SystemActor
	if ownerID != nil {
		changedBy = *ownerID
	}
	entry := &models.StatusHistoryEntry{
		ReportID:  report.ReportID,
		OldStatus: sql.NullString{Valid: false}, // no old status for creation
		NewStatus: models.StatusPending,
		ChangedBy: changedBy,
		ChangedAt: now,
	}
	if err := s.reportRepo.CreateStatusHistory(tx, entry); err != nil {
		return nil, models.NewStorageError("createReport", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, models.NewStorageError("createReport", err)
	}

	log.Printf("[report] created %s (id=%d) priority=%s nearby=%d crowd_verified=%v",
		report.ReportNumber, report.ReportID, report.Priority, report.NearbyReportsCount, report.CrowdVerified)
	return report, nil
}

// UpdateStatus transitions a report to newStatus and appends a history entry
// capturing the prior status. A redundant transition (newStatus equals the
// current status) is still logged: audit completeness outranks storage
// economy. Regressions like In Progress -> Pending are permitted and
// recorded; the ledger, not a transition table, is the source of truth.
func (s *ReportService) UpdateStatus(reportID int64, newStatus models.ReportStatus, actor string) (*models.Report, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, models.NewValidationError("new_status", "must be one of Pending, In Progress, Resolved")
	}
	if actor == "" {
		actor = models.SystemActor
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, models.NewStorageError("updateStatus", err)
	}
	defer tx.Rollback()

	report, err := s.reportRepo.GetReportForUpdate(tx, reportID)
	if err != nil {
		return nil, models.NewStorageError("updateStatus", err)
	}
	if report == nil {
		return nil, models.NewNotFoundError("report", reportID)
	}

	oldStatus := report.Status
	if err := s.reportRepo.UpdateStatus(tx, reportID, newStatus); err != nil {
		return nil, models.NewStorageError("updateStatus", err)
	}

	entry := &models.StatusHistoryEntry{
		ReportID:  reportID,
		OldStatus: sql.NullString{String: string(oldStatus), Valid: true},
		NewStatus: newStatus,
		ChangedBy: actor,
		ChangedAt: time.Now().UTC(),
	}
	if err := s.reportRepo.CreateStatusHistory(tx, entry); err != nil {
		return nil, models.NewStorageError("updateStatus", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, models.NewStorageError("updateStatus", err)
	}

	log.Printf("[report] status of id=%d changed %s -> %s by %s", reportID, oldStatus, newStatus, actor)
	report.Status = newStatus
	return report, nil
}

// GetReport retrieves one report
func (s *ReportService) GetReport(reportID int64) (*models.Report, error) {
	report, err := s.reportRepo.GetReportByID(s.db, reportID)
	if err != nil {
		return nil, models.NewStorageError("getReport", err)
	}
	if report == nil {
		return nil, models.NewNotFoundError("report", reportID)
	}
	return report, nil
}

// GetHistory returns a report's full audit trail, newest first
func (s *ReportService) GetHistory(reportID int64) ([]models.StatusHistoryEntry, error) {
	report, err := s.reportRepo.GetReportByID(s.db, reportID)
	if err != nil {
		return nil, models.NewStorageError("getHistory", err)
	}
	if report == nil {
		return nil, models.NewNotFoundError("report", reportID)
	}

	history, err := s.reportRepo.GetStatusHistory(s.db, reportID)
	if err != nil {
		return nil, models.NewStorageError("getHistory", err)
	}
	return history, nil
}

// AIVerify marks a report as verified by the external AI reviewer. Status,
// priority and history are untouched; the contributor counter rule applies
// on the first verification only. Idempotent.
func (s *ReportService) AIVerify(reportID int64) (*models.Report, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, models.NewStorageError("aiVerify", err)
	}
	defer tx.Rollback()

	report, err := s.reportRepo.GetReportForUpdate(tx, reportID)
	if err != nil {
		return nil, models.NewStorageError("aiVerify", err)
	}
	if report == nil {
		return nil, models.NewNotFoundError("report", reportID)
	}

	changed, err := s.reportRepo.SetAIVerified(tx, reportID)
	if err != nil {
		return nil, models.NewStorageError("aiVerify", err)
	}

	if changed && !report.CrowdVerified && report.UserID.Valid {
		if err := s.statsRepo.IncrementVerifiedReports(tx, report.UserID.String); err != nil {
			return nil, models.NewStorageError("aiVerify", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, models.NewStorageError("aiVerify", err)
	}

	report.AIVerified = true
	return report, nil
}

// validateCreateRequest checks required fields and coordinate ranges,
// returning the final issue type ("Other" is replaced by the custom text)
func validateCreateRequest(req *models.CreateReportRequest) (string, error) {
	if req.IssueType == "" {
		return "", models.NewValidationError("issue_type", "issue type is required")
	}
	if !models.IsKnownIssueCategory(req.IssueType) {
		return "", models.NewValidationError("issue_type", "unknown issue category")
	}

	issueType := req.IssueType
	if req.IssueType == models.IssueTypeOther {
		if req.CustomIssueType == nil || strings.TrimSpace(*req.CustomIssueType) == "" {
			return "", models.NewValidationError("custom_issue_type", "custom issue type is required when issue type is Other")
		}
		issueType = strings.TrimSpace(*req.CustomIssueType)
	}

	if strings.TrimSpace(req.Description) == "" {
		return "", models.NewValidationError("description", "description is required")
	}
	if req.ImageURL == "" {
		return "", models.NewValidationError("image_url", "image reference is required")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return "", models.NewValidationError("location", "latitude and longitude are required")
	}
	if *req.Latitude < -90 || *req.Latitude > 90 {
		return "", models.NewValidationError("latitude", "latitude must be between -90 and 90")
	}
	if *req.Longitude < -180 || *req.Longitude > 180 {
		return "", models.NewValidationError("longitude", "longitude must be between -180 and 180")
	}

	return issueType, nil
}
