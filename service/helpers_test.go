package service

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// newMockDB returns a sqlmock-backed *sql.DB with regexp query matching, so
// expectations can name just the statement's distinctive fragment
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var reportTestColumns = []string{
	"report_id", "report_number", "issue_type", "description", "image_url",
	"latitude", "longitude", "status", "priority", "crowd_verified",
	"nearby_reports_count", "confirmation_count", "ai_verified",
	"escalated", "escalated_at", "user_id", "created_at", "updated_at",
}

// testReportRow carries the fields tests vary; everything else defaults
type testReportRow struct {
	id            int64
	issueType     string
	lat, lon      float64
	status        string
	priority      string
	crowdVerified bool
	nearbyCount   int
	confirmations int
	aiVerified    bool
	escalated     bool
	userID        interface{} // string or nil for anonymous
}

func reportRows(rows ...testReportRow) *sqlmock.Rows {
	out := sqlmock.NewRows(reportTestColumns)
	for _, r := range rows {
		status := r.status
		if status == "" {
			status = "Pending"
		}
		priority := r.priority
		if priority == "" {
			priority = "Low"
		}
		out.AddRow(
			r.id, "RF-20260801-0000000a", r.issueType, "test description", "https://img.example/1.jpg",
			r.lat, r.lon, status, priority, r.crowdVerified,
			r.nearbyCount, r.confirmations, r.aiVerified,
			r.escalated, nil, r.userID, time.Now().UTC(), nil,
		)
	}
	return out
}

func expectationsWereMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}
