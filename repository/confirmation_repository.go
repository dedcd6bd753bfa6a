package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the server error number for a unique-key violation
const mysqlDuplicateEntry = 1062

// ConfirmationRepository handles database operations for report confirmations
type ConfirmationRepository struct {
	db *sql.DB
}

// NewConfirmationRepository creates a new confirmation repository
func NewConfirmationRepository(db *sql.DB) *ConfirmationRepository {
	return &ConfirmationRepository{db: db}
}

// InsertConfirmation records one user's endorsement of one report. The
// (report_id, user_id) pair is unique at the store level; a duplicate-key
// rejection returns (false, nil) so two concurrent attempts by the same user
// resolve to exactly one row without a check-then-insert race.
func (r *ConfirmationRepository) InsertConfirmation(q DBTX, reportID int64, userID string, confirmedAt time.Time) (bool, error) {
	query := `
		INSERT INTO report_confirmations (report_id, user_id, confirmed_at)
		VALUES (?, ?, ?)
	`

	_, err := q.Exec(query, reportID, userID, confirmedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert confirmation: %w", err)
	}
	return true, nil
}

// ListReportIDsByUser returns the ids of every report userID has confirmed,
// so the client can render already-confirmed state without probing per report
func (r *ConfirmationRepository) ListReportIDsByUser(userID string) ([]int64, error) {
	query := `
		SELECT report_id
		FROM report_confirmations
		WHERE user_id = ?
		ORDER BY confirmed_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmations: %w", err)
	}
	defer rows.Close()

	var reportIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		reportIDs = append(reportIDs, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating confirmations: %w", err)
	}

	return reportIDs, nil
}
