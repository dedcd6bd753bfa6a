package service

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/repository"
)

func newReportService(db *sql.DB) *ReportService {
	reportRepo := repository.NewReportRepository(db)
	statsRepo := repository.NewUserStatsRepository(db)
	return NewReportService(
		db,
		reportRepo,
		statsRepo,
		NewDuplicateDetector(reportRepo, 50),
		NewPriorityScorer(5),
	)
}

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func validCreateRequest() *models.CreateReportRequest {
	return &models.CreateReportRequest{
		IssueType:   "Pothole",
		Description: "Deep pothole near the bus stop",
		ImageURL:    "https://img.example/pothole.jpg",
		Latitude:    floatPtr(28.6139),
		Longitude:   floatPtr(77.2090),
	}
}

func TestCreateReportValidation(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newReportService(db)

	tests := []struct {
		name      string
		mutate    func(*models.CreateReportRequest)
		wantField string
	}{
		{"missing issue type", func(r *models.CreateReportRequest) { r.IssueType = "" }, "issue_type"},
		{"unknown issue type", func(r *models.CreateReportRequest) { r.IssueType = "Sinkhole" }, "issue_type"},
		{"other without custom text", func(r *models.CreateReportRequest) { r.IssueType = "Other" }, "custom_issue_type"},
		{"other with blank custom text", func(r *models.CreateReportRequest) {
			r.IssueType = "Other"
			r.CustomIssueType = strPtr("   ")
		}, "custom_issue_type"},
		{"missing description", func(r *models.CreateReportRequest) { r.Description = " " }, "description"},
		{"missing image", func(r *models.CreateReportRequest) { r.ImageURL = "" }, "image_url"},
		{"missing coordinates", func(r *models.CreateReportRequest) { r.Latitude = nil }, "location"},
		{"latitude out of range", func(r *models.CreateReportRequest) { r.Latitude = floatPtr(91) }, "latitude"},
		{"longitude out of range", func(r *models.CreateReportRequest) { r.Longitude = floatPtr(-181) }, "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.CreateReport(req, nil)

			var validationErr *models.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("got %v, want *models.ValidationError", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("validation field = %q, want %q", validationErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateCreateRequestAcceptsEveryCategory(t *testing.T) {
	// Every stored category value must pass validation as submitted
	for _, category := range models.IssueCategories {
		t.Run(category, func(t *testing.T) {
			req := validCreateRequest()
			req.IssueType = category
			if category == models.IssueTypeOther {
				req.CustomIssueType = strPtr("Broken guardrail")
			}

			issueType, err := validateCreateRequest(req)
			if err != nil {
				t.Fatalf("category %q rejected: %v", category, err)
			}

			want := category
			if category == models.IssueTypeOther {
				want = "Broken guardrail"
			}
			if issueType != want {
				t.Errorf("issue type = %q, want %q", issueType, want)
			}
		})
	}
}

func TestCreateReportLoneSubmission(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reports`).WillReturnRows(reportRows())
	mock.ExpectExec(`INSERT INTO reports`).WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`INSERT INTO status_history`).
		WithArgs(int64(42), nil, "Pending", "system", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	report, err := svc.CreateReport(validCreateRequest(), nil)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if report.ReportID != 42 {
		t.Errorf("report ID = %d, want 42", report.ReportID)
	}
	if report.Status != models.StatusPending {
		t.Errorf("status = %s, want Pending", report.Status)
	}
	if report.Priority != models.PriorityLow {
		t.Errorf("priority = %s, want Low", report.Priority)
	}
	if report.CrowdVerified {
		t.Error("lone report must not be crowd verified")
	}
	if !strings.HasPrefix(report.ReportNumber, "RF-") {
		t.Errorf("report number %q missing RF- prefix", report.ReportNumber)
	}
	if report.UserID.Valid {
		t.Error("anonymous report must have no owner")
	}

	expectationsWereMet(t, mock)
}

func TestCreateReportWithNeighborRecomputesCluster(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	// The existing neighbor was a lone report owned by bob. The new arrival
	// flips it to crowd verified, bumps its cached counts and priority, and
	// credits bob's verified-reports counter.
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reports`).WillReturnRows(reportRows(
		testReportRow{id: 7, issueType: "Pothole", lat: 28.6140, lon: 77.2091, userID: "bob"},
	))
	mock.ExpectExec(`INSERT INTO reports`).WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectExec(`UPDATE reports`).
		WithArgs(1, true, "Medium", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_stats`).
		WithArgs("bob").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_stats`).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO status_history`).
		WithArgs(int64(43), nil, "Pending", "alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	owner := "alice"
	report, err := svc.CreateReport(validCreateRequest(), &owner)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if !report.CrowdVerified {
		t.Error("report with a neighbor must be crowd verified")
	}
	if report.Priority != models.PriorityMedium {
		t.Errorf("priority = %s, want Medium", report.Priority)
	}
	if report.NearbyReportsCount != 1 {
		t.Errorf("nearby count = %d, want 1", report.NearbyReportsCount)
	}

	expectationsWereMet(t, mock)
}

func TestCreateReportNeighborAlreadyVerifiedNotRecredited(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	// Neighbor is already crowd verified: its cluster fields are refreshed
	// but its owner's verified-reports counter stays put.
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reports`).WillReturnRows(reportRows(
		testReportRow{
			id: 7, issueType: "Pothole", lat: 28.6140, lon: 77.2091,
			crowdVerified: true, nearbyCount: 1, priority: "Medium", userID: "bob",
		},
	))
	mock.ExpectExec(`INSERT INTO reports`).WillReturnResult(sqlmock.NewResult(44, 1))
	mock.ExpectExec(`UPDATE reports`).
		WithArgs(2, true, "Medium", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// no user_stats exec for bob, only the new report's owner
	mock.ExpectExec(`INSERT INTO user_stats`).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO status_history`).WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	owner := "alice"
	if _, err := svc.CreateReport(validCreateRequest(), &owner); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	expectationsWereMet(t, mock)
}

func TestUpdateStatusAppendsHistory(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(reportRows(
		testReportRow{id: 5, issueType: "Pothole", lat: 28.6139, lon: 77.2090, status: "Pending"},
	))
	mock.ExpectExec(`UPDATE reports SET status`).
		WithArgs("In Progress", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO status_history`).
		WithArgs(int64(5), "Pending", "In Progress", "staff", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	report, err := svc.UpdateStatus(5, models.StatusInProgress, "staff")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if report.Status != models.StatusInProgress {
		t.Errorf("status = %s, want In Progress", report.Status)
	}

	expectationsWereMet(t, mock)
}

func TestUpdateStatusSameStatusStillLogged(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	// A redundant Pending -> Pending transition still writes a ledger entry
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(reportRows(
		testReportRow{id: 5, issueType: "Pothole", lat: 28.6139, lon: 77.2090, status: "Pending"},
	))
	mock.ExpectExec(`UPDATE reports SET status`).
		WithArgs("Pending", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO status_history`).
		WithArgs(int64(5), "Pending", "Pending", "staff", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	if _, err := svc.UpdateStatus(5, models.StatusPending, "staff"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	expectationsWereMet(t, mock)
}

func TestUpdateStatusInvalid(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newReportService(db)

	_, err := svc.UpdateStatus(5, models.ReportStatus("Closed"), "staff")

	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("got %v, want *models.ValidationError", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(999, models.StatusResolved, "staff")

	var notFoundErr *models.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("got %v, want *models.NotFoundError", err)
	}

	expectationsWereMet(t, mock)
}

func TestGetHistoryNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	mock.ExpectQuery(`FROM reports`).WillReturnError(sql.ErrNoRows)

	_, err := svc.GetHistory(999)

	var notFoundErr *models.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("got %v, want *models.NotFoundError", err)
	}
}

func TestAIVerifyFirstVerificationCreditsOwner(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(reportRows(
		testReportRow{id: 6, issueType: "Road Damage", lat: 28.6139, lon: 77.2090, userID: "carol"},
	))
	mock.ExpectExec(`UPDATE reports`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_stats`).
		WithArgs("carol").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	report, err := svc.AIVerify(6)
	if err != nil {
		t.Fatalf("AIVerify: %v", err)
	}
	if !report.AIVerified {
		t.Error("report not marked AI verified")
	}

	expectationsWereMet(t, mock)
}

func TestAIVerifyRepeatIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	// Second call matches zero rows, so no counter credit
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(reportRows(
		testReportRow{id: 6, issueType: "Road Damage", lat: 28.6139, lon: 77.2090, aiVerified: true, userID: "carol"},
	))
	mock.ExpectExec(`UPDATE reports`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if _, err := svc.AIVerify(6); err != nil {
		t.Fatalf("AIVerify: %v", err)
	}

	expectationsWereMet(t, mock)
}

func TestAIVerifyCrowdVerifiedOwnerNotDoubleCounted(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	// Already crowd verified: the AI flag is set but the owner was credited
	// when the crowd verification happened.
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnRows(reportRows(
		testReportRow{
			id: 6, issueType: "Road Damage", lat: 28.6139, lon: 77.2090,
			crowdVerified: true, nearbyCount: 1, userID: "carol",
		},
	))
	mock.ExpectExec(`UPDATE reports`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := svc.AIVerify(6); err != nil {
		t.Fatalf("AIVerify: %v", err)
	}

	expectationsWereMet(t, mock)
}
