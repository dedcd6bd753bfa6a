package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/repository"
	"github.com/jigisha06/Roadfix-Connect/service"
)

func newTestHandler(t *testing.T) (*ReportHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	reportRepo := repository.NewReportRepository(db)
	confirmationRepo := repository.NewConfirmationRepository(db)
	statsRepo := repository.NewUserStatsRepository(db)
	scorer := service.NewPriorityScorer(5)
	detector := service.NewDuplicateDetector(reportRepo, 50)

	reportService := service.NewReportService(db, reportRepo, statsRepo, detector, scorer)
	confirmationService := service.NewConfirmationService(db, reportRepo, confirmationRepo, statsRepo, scorer, 5)
	queryService := service.NewQueryService(db, reportRepo, confirmationRepo, statsRepo, 50, 5)

	return NewReportHandler(reportService, confirmationService, queryService, nil), mock
}

func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "user_id", userID))
}

func emptyReportRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"report_id", "report_number", "issue_type", "description", "image_url",
		"latitude", "longitude", "status", "priority", "crowd_verified",
		"nearby_reports_count", "confirmation_count", "ai_verified",
		"escalated", "escalated_at", "user_id", "created_at", "updated_at",
	})
}

func TestCreateReportMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/v1/reports", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.CreateReport(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateReportValidationErrorMapsTo400(t *testing.T) {
	h, _ := newTestHandler(t)

	body := `{"issue_type":"Sinkhole","description":"d","image_url":"u","latitude":1,"longitude":2}`
	req := httptest.NewRequest("POST", "/api/v1/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateReport(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var errResp models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errResp.Error != "Validation error" {
		t.Errorf("error type = %q, want Validation error", errResp.Error)
	}
}

func TestCreateReportAnonymousSuccess(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reports`).WillReturnRows(emptyReportRows())
	mock.ExpectExec(`INSERT INTO reports`).WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`INSERT INTO status_history`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	body := `{
		"issue_type": "Pothole",
		"description": "Deep pothole near the bus stop",
		"image_url": "https://img.example/pothole.jpg",
		"latitude": 28.6139,
		"longitude": 77.2090
	}`
	req := httptest.NewRequest("POST", "/api/v1/reports", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateReport(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp models.ReportResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ReportID != 42 {
		t.Errorf("report_id = %d, want 42", resp.ReportID)
	}
	if resp.Status != "Pending" {
		t.Errorf("status = %q, want Pending", resp.Status)
	}
	if resp.Priority != "Low" {
		t.Errorf("priority = %q, want Low", resp.Priority)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestGetHistoryInvalidID(t *testing.T) {
	h, _ := newTestHandler(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reports/{id}/history", h.GetHistory)

	req := httptest.NewRequest("GET", "/api/v1/reports/abc/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetHistoryMissingReportMapsTo404(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`FROM reports`).WillReturnError(sql.ErrNoRows)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reports/{id}/history", h.GetHistory)

	req := httptest.NewRequest("GET", "/api/v1/reports/999/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestConfirmReportRequiresUser(t *testing.T) {
	h, _ := newTestHandler(t)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reports/{id}/confirm", h.ConfirmReport)

	req := httptest.NewRequest("POST", "/api/v1/reports/10/confirm", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestConfirmReportSoftRejectionIs200(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reports/{id}/confirm", h.ConfirmReport)

	req := withUser(httptest.NewRequest("POST", "/api/v1/reports/999/confirm", nil), "alice")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp models.ConfirmReportResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Accepted {
		t.Error("missing report must come back accepted=false")
	}
	if resp.Reason != models.ConfirmRejectNotFound {
		t.Errorf("reason = %q, want %q", resp.Reason, models.ConfirmRejectNotFound)
	}
}

func TestListMyReportsRequiresUser(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/v1/reports", nil)
	rec := httptest.NewRecorder()

	h.ListMyReports(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
