package repository

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jigisha06/Roadfix-Connect/models"
)

// reportColumns is the canonical select list for report scans
const reportColumns = `
	report_id, report_number, issue_type, description, image_url,
	latitude, longitude, status, priority, crowd_verified,
	nearby_reports_count, confirmation_count, ai_verified,
	escalated, escalated_at, user_id, created_at, updated_at`

// ReportRepository handles database operations for reports and their
// status-history ledger
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// DB returns the underlying handle for callers that open transactions
func (r *ReportRepository) DB() *sql.DB {
	return r.db
}

// GenerateReportNumber generates a unique shareable report number.
// Format: RF-YYYYMMDD-{8 hex chars}
func (r *ReportRepository) GenerateReportNumber(now time.Time) string {
	datePrefix := now.UTC().Format("20060102")
	uniqueID := uuid.New().String()[:8]
	return fmt.Sprintf("RF-%s-%s", datePrefix, uniqueID)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner, report *models.Report) error {
	return row.Scan(
		&report.ReportID,
		&report.ReportNumber,
		&report.IssueType,
		&report.Description,
		&report.ImageURL,
		&report.Latitude,
		&report.Longitude,
		&report.Status,
		&report.Priority,
		&report.CrowdVerified,
		&report.NearbyReportsCount,
		&report.ConfirmationCount,
		&report.AIVerified,
		&report.Escalated,
		&report.EscalatedAt,
		&report.UserID,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
}

// CreateReport inserts a new report row and fills in its assigned id
func (r *ReportRepository) CreateReport(q DBTX, report *models.Report) error {
	query := `
		INSERT INTO reports (
			report_number, issue_type, description, image_url,
			latitude, longitude, status, priority, crowd_verified,
			nearby_reports_count, confirmation_count, ai_verified,
			escalated, user_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := q.Exec(
		query,
		report.ReportNumber,
		report.IssueType,
		report.Description,
		report.ImageURL,
		report.Latitude,
		report.Longitude,
		report.Status,
		report.Priority,
		report.CrowdVerified,
		report.NearbyReportsCount,
		report.ConfirmationCount,
		report.AIVerified,
		report.Escalated,
		report.UserID,
		report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	reportID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get report ID: %w", err)
	}

	report.ReportID = reportID
	return nil
}

// GetReportByID retrieves a report by id. Returns (nil, nil) when absent.
func (r *ReportRepository) GetReportByID(q DBTX, reportID int64) (*models.Report, error) {
	query := `SELECT` + reportColumns + ` FROM reports WHERE report_id = ?`

	var report models.Report
	err := scanReport(q.QueryRow(query, reportID), &report)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// GetReportForUpdate retrieves a report inside a transaction with a row lock,
// serializing concurrent count/priority recomputations on the same report.
// Returns (nil, nil) when absent.
func (r *ReportRepository) GetReportForUpdate(tx DBTX, reportID int64) (*models.Report, error) {
	query := `SELECT` + reportColumns + ` FROM reports WHERE report_id = ? FOR UPDATE`

	var report models.Report
	err := scanReport(tx.QueryRow(query, reportID), &report)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock report: %w", err)
	}
	return &report, nil
}

// FindNearby returns all reports within radiusMeters of (lat, lon), paired
// with their great-circle distance, regardless of status. Resolved duplicates
// still count: they mark a recurring problem location. Candidates are
// prefiltered with a bounding box in SQL, then measured exactly with the
// haversine formula. Pass excludeID = 0 to exclude nothing.
func (r *ReportRepository) FindNearby(q DBTX, lat, lon, radiusMeters float64, excludeID int64) ([]models.NearbyReport, error) {
	// One degree of latitude is ~111.32 km everywhere; longitude shrinks by
	// cos(lat). Clamp the divisor so polar coordinates don't blow up the box.
	const metersPerDegree = 111320.0
	deltaLat := radiusMeters / metersPerDegree
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	deltaLon := radiusMeters / (metersPerDegree * cosLat)

	query := `SELECT` + reportColumns + `
		FROM reports
		WHERE report_id != ?
			AND latitude BETWEEN ? AND ?
			AND longitude BETWEEN ? AND ?
	`

	rows, err := q.Query(query, excludeID, lat-deltaLat, lat+deltaLat, lon-deltaLon, lon+deltaLon)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby reports: %w", err)
	}
	defer rows.Close()

	var nearby []models.NearbyReport
	for rows.Next() {
		var report models.Report
		if err := scanReport(rows, &report); err != nil {
			return nil, fmt.Errorf("failed to scan nearby report: %w", err)
		}

		distance := calculateDistanceMeters(lat, lon, report.Latitude, report.Longitude)
		if distance <= radiusMeters {
			nearby = append(nearby, models.NearbyReport{Report: report, DistanceMeters: distance})
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nearby reports: %w", err)
	}

	return nearby, nil
}

// UpdateNearbyStats rewrites a report's cached duplicate-cluster fields and
// its recomputed priority
func (r *ReportRepository) UpdateNearbyStats(q DBTX, reportID int64, nearbyCount int, crowdVerified bool, priority models.Priority) error {
	query := `
		UPDATE reports
		SET nearby_reports_count = ?,
			crowd_verified = ?,
			priority = ?,
			updated_at = NOW()
		WHERE report_id = ?
	`

	_, err := q.Exec(query, nearbyCount, crowdVerified, priority, reportID)
	if err != nil {
		return fmt.Errorf("failed to update nearby stats: %w", err)
	}
	return nil
}

// UpdateStatus sets a report's status. Escalation and priority are untouched.
func (r *ReportRepository) UpdateStatus(q DBTX, reportID int64, newStatus models.ReportStatus) error {
	query := `UPDATE reports SET status = ?, updated_at = NOW() WHERE report_id = ?`

	_, err := q.Exec(query, newStatus, reportID)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	return nil
}

// IncrementConfirmation bumps the confirmation count and stores the priority
// recomputed from the new count. Runs inside the confirmation transaction so
// the count and priority never disagree.
func (r *ReportRepository) IncrementConfirmation(q DBTX, reportID int64, priority models.Priority) error {
	query := `
		UPDATE reports
		SET confirmation_count = confirmation_count + 1,
			priority = ?,
			updated_at = NOW()
		WHERE report_id = ?
	`

	_, err := q.Exec(query, priority, reportID)
	if err != nil {
		return fmt.Errorf("failed to increment confirmation count: %w", err)
	}
	return nil
}

// SetAIVerified marks a report AI-verified. Returns whether the row changed,
// so repeated calls stay idempotent and the caller can apply the
// verified-reports-count rule exactly once.
func (r *ReportRepository) SetAIVerified(q DBTX, reportID int64) (bool, error) {
	query := `
		UPDATE reports
		SET ai_verified = TRUE, updated_at = NOW()
		WHERE report_id = ? AND ai_verified = FALSE
	`

	result, err := q.Exec(query, reportID)
	if err != nil {
		return false, fmt.Errorf("failed to set ai_verified: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// SweepEscalations flags every pending, not-yet-escalated report created at
// or before cutoff. The conditional WHERE keyed on escalated = FALSE makes
// the sweep idempotent and keeps it from clobbering a concurrent status
// transition: only the escalation columns are written.
func (r *ReportRepository) SweepEscalations(now, cutoff time.Time) (int64, error) {
	query := `
		UPDATE reports
		SET escalated = TRUE, escalated_at = ?
		WHERE status = ? AND escalated = FALSE AND created_at <= ?
	`

	result, err := r.db.Exec(query, now, models.StatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep escalations: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read escalated count: %w", err)
	}
	return count, nil
}

// CreateStatusHistory appends an immutable status-history entry
func (r *ReportRepository) CreateStatusHistory(q DBTX, entry *models.StatusHistoryEntry) error {
	query := `
		INSERT INTO status_history (report_id, old_status, new_status, changed_by, changed_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := q.Exec(
		query,
		entry.ReportID,
		entry.OldStatus,
		entry.NewStatus,
		entry.ChangedBy,
		entry.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}

	historyID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get history ID: %w", err)
	}

	entry.HistoryID = historyID
	return nil
}

// GetStatusHistory retrieves a report's audit trail, newest first
func (r *ReportRepository) GetStatusHistory(q DBTX, reportID int64) ([]models.StatusHistoryEntry, error) {
	query := `
		SELECT history_id, report_id, old_status, new_status, changed_by, changed_at
		FROM status_history
		WHERE report_id = ?
		ORDER BY changed_at DESC, history_id DESC
	`

	rows, err := q.Query(query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var history []models.StatusHistoryEntry
	for rows.Next() {
		var h models.StatusHistoryEntry
		err := rows.Scan(&h.HistoryID, &h.ReportID, &h.OldStatus, &h.NewStatus, &h.ChangedBy, &h.ChangedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		history = append(history, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status history: %w", err)
	}

	return history, nil
}

// ListByOwner retrieves a user's reports, newest first
func (r *ReportRepository) ListByOwner(userID string) ([]models.Report, error) {
	query := `SELECT` + reportColumns + `
		FROM reports
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	return r.listReports(query, userID)
}

// ListFeed retrieves the most recent reports for the community feed
func (r *ReportRepository) ListFeed(limit int) ([]models.Report, error) {
	query := `SELECT` + reportColumns + `
		FROM reports
		ORDER BY created_at DESC
		LIMIT ?
	`
	return r.listReports(query, limit)
}

// ListQueue retrieves the staff triage queue: escalated reports first
// regardless of priority, then High before Medium before Low, then newest
// first within a tier. Ordering is reproducible from stored fields alone.
// statusFilter narrows to one status when non-empty.
func (r *ReportRepository) ListQueue(statusFilter string) ([]models.Report, error) {
	query := `SELECT` + reportColumns + `
		FROM reports
	`
	var args []interface{}
	if statusFilter != "" {
		query += ` WHERE status = ?`
		args = append(args, statusFilter)
	}
	query += ` ORDER BY escalated DESC, FIELD(priority, 'High', 'Medium', 'Low'), created_at DESC`

	return r.listReports(query, args...)
}

func (r *ReportRepository) listReports(query string, args ...interface{}) ([]models.Report, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		if err := scanReport(rows, &report); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

// Metrics aggregates dashboard counters in a single pass over the reports
// table plus one aggregation over the history ledger. The average resolution
// time is (last 'Resolved' history entry - first history entry) over resolved
// reports with at least two entries; reports with fewer entries are excluded
// from the average, not counted as zero.
func (r *ReportRepository) Metrics() (*models.MetricsResponse, error) {
	var m models.MetricsResponse

	countsQuery := `
		SELECT
			COUNT(*),
			COALESCE(SUM(status = 'Pending'), 0),
			COALESCE(SUM(status = 'In Progress'), 0),
			COALESCE(SUM(status = 'Resolved'), 0),
			COALESCE(SUM(priority = 'High'), 0),
			COALESCE(SUM(crowd_verified), 0)
		FROM reports
	`
	err := r.db.QueryRow(countsQuery).Scan(
		&m.Total, &m.Pending, &m.InProgress, &m.Resolved, &m.HighPriority, &m.CrowdVerified,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate report counts: %w", err)
	}

	resolutionQuery := `
		SELECT COALESCE(AVG(TIMESTAMPDIFF(SECOND, h.first_at, h.resolved_at)), 0)
		FROM (
			SELECT report_id,
				MIN(changed_at) AS first_at,
				MAX(CASE WHEN new_status = 'Resolved' THEN changed_at END) AS resolved_at,
				COUNT(*) AS entry_count
			FROM status_history
			GROUP BY report_id
		) h
		JOIN reports r ON r.report_id = h.report_id
		WHERE r.status = 'Resolved'
			AND h.entry_count >= 2
			AND h.resolved_at IS NOT NULL
	`
	var avgSeconds float64
	if err := r.db.QueryRow(resolutionQuery).Scan(&avgSeconds); err != nil {
		return nil, fmt.Errorf("failed to aggregate resolution time: %w", err)
	}
	m.AvgResolutionHours = avgSeconds / 3600

	return &m, nil
}

// calculateDistanceMeters computes the great-circle distance between two
// coordinates using the haversine formula
func calculateDistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusMeters = 6371000

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
