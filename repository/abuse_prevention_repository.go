package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// AbusePreventionRepository handles database operations for submission
// abuse checks
type AbusePreventionRepository struct {
	db *sql.DB
}

// NewAbusePreventionRepository creates a new abuse prevention repository
func NewAbusePreventionRepository(db *sql.DB) *AbusePreventionRepository {
	return &AbusePreventionRepository{db: db}
}

// CountReportsByOwnerInLast24Hours counts a user's submissions in the rolling
// 24-hour window
func (r *AbusePreventionRepository) CountReportsByOwnerInLast24Hours(userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reports
		WHERE user_id = ? AND created_at >= ?
	`

	var count int
	windowStart := time.Now().UTC().Add(-24 * time.Hour)
	if err := r.db.QueryRow(query, userID, windowStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recent reports: %w", err)
	}
	return count, nil
}

// HasRecentSimilarReport checks whether the same user filed the same issue
// type at roughly the same spot within the window. The coordinate tolerance
// (~55 m per 0.0005 degrees) is a coarse resubmission guard, not the
// duplicate detector: exact distance is not needed here.
func (r *AbusePreventionRepository) HasRecentSimilarReport(userID, issueType string, lat, lon float64, window time.Duration) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM reports
		WHERE user_id = ?
			AND issue_type = ?
			AND ABS(latitude - ?) < 0.0005
			AND ABS(longitude - ?) < 0.0005
			AND created_at >= ?
	`

	var count int
	windowStart := time.Now().UTC().Add(-window)
	err := r.db.QueryRow(query, userID, issueType, lat, lon, windowStart).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check similar reports: %w", err)
	}
	return count > 0, nil
}
