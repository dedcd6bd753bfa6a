package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jigisha06/Roadfix-Connect/models"
)

// UserStatsRepository handles database operations for per-user reputation
// records. Rows are created lazily on a user's first reward event.
type UserStatsRepository struct {
	db *sql.DB
}

// NewUserStatsRepository creates a new user stats repository
func NewUserStatsRepository(db *sql.DB) *UserStatsRepository {
	return &UserStatsRepository{db: db}
}

// GetByUserID retrieves a user's stats. Returns (nil, nil) when the user has
// no activity yet.
func (r *UserStatsRepository) GetByUserID(q DBTX, userID string) (*models.UserStats, error) {
	query := `
		SELECT user_id, points, verified_reports_count, confirmations_given,
			badges, created_at, updated_at
		FROM user_stats
		WHERE user_id = ?
	`

	var stats models.UserStats
	var badgesJSON []byte
	err := q.QueryRow(query, userID).Scan(
		&stats.UserID,
		&stats.Points,
		&stats.VerifiedReportsCount,
		&stats.ConfirmationsGiven,
		&badgesJSON,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	stats.Badges = []string{}
	if len(badgesJSON) > 0 {
		if err := json.Unmarshal(badgesJSON, &stats.Badges); err != nil {
			return nil, fmt.Errorf("failed to decode badges: %w", err)
		}
	}

	return &stats, nil
}

// AwardConfirmationPoints credits a user for an accepted confirmation,
// creating the stats row on first activity. The upsert is a single statement
// so two concurrent awards both land.
func (r *UserStatsRepository) AwardConfirmationPoints(q DBTX, userID string, points int) error {
	query := `
		INSERT INTO user_stats (user_id, points, verified_reports_count, confirmations_given, badges)
		VALUES (?, ?, 0, 1, '[]')
		ON DUPLICATE KEY UPDATE
			points = points + ?,
			confirmations_given = confirmations_given + 1,
			updated_at = NOW()
	`

	_, err := q.Exec(query, userID, points, points)
	if err != nil {
		return fmt.Errorf("failed to award confirmation points: %w", err)
	}
	return nil
}

// IncrementVerifiedReports bumps the counter backing the contributor badge,
// creating the stats row on first activity. Called exactly once per report,
// the first time it becomes verified by either route.
func (r *UserStatsRepository) IncrementVerifiedReports(q DBTX, userID string) error {
	query := `
		INSERT INTO user_stats (user_id, points, verified_reports_count, confirmations_given, badges)
		VALUES (?, 0, 1, 0, '[]')
		ON DUPLICATE KEY UPDATE
			verified_reports_count = verified_reports_count + 1,
			updated_at = NOW()
	`

	_, err := q.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("failed to increment verified reports: %w", err)
	}
	return nil
}
