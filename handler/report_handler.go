package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/service"
)

// ReportHandler handles HTTP requests for reports
type ReportHandler struct {
	reportService          *service.ReportService
	confirmationService    *service.ConfirmationService
	queryService           *service.QueryService
	abusePreventionService *service.AbusePreventionService
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	reportService *service.ReportService,
	confirmationService *service.ConfirmationService,
	queryService *service.QueryService,
	abusePreventionService *service.AbusePreventionService,
) *ReportHandler {
	return &ReportHandler{
		reportService:          reportService,
		confirmationService:    confirmationService,
		queryService:           queryService,
		abusePreventionService: abusePreventionService,
	}
}

// CreateReport handles POST /api/v1/reports
// Anonymous submissions are accepted; a signed-in owner goes through the
// abuse prevention checks first.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ownerID := optionalUserIDFromContext(r)

	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	if h.abusePreventionService != nil && req.Latitude != nil && req.Longitude != nil {
		abuseCheck, err := h.abusePreventionService.ValidateSubmission(ownerID, req.IssueType, *req.Latitude, *req.Longitude)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to validate submission")
			return
		}
		if !abuseCheck.Allowed {
			respondWithError(w, http.StatusTooManyRequests, "Submission rejected", abuseCheck.Reason)
			return
		}
	}

	report, err := h.reportService.CreateReport(&req, ownerID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, models.ToReportResponse(report))
}

// ListMyReports handles GET /api/v1/reports
func (h *ReportHandler) ListMyReports(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "User ID not found in context")
		return
	}

	reports, err := h.queryService.ListOwned(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

// GetHistory handles GET /api/v1/reports/{id}/history
func (h *ReportHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	reportID, err := reportIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid report ID")
		return
	}

	history, err := h.reportService.GetHistory(reportID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	entries := make([]models.StatusHistoryEntryResponse, 0, len(history))
	for i := range history {
		entries = append(entries, models.ToStatusHistoryEntryResponse(&history[i]))
	}
	respondWithJSON(w, http.StatusOK, entries)
}

// ConfirmReport handles POST /api/v1/reports/{id}/confirm
// Rejections (own report, repeat, missing report) come back as a normal 200
// with accepted=false so clients can show the reason without error handling.
func (h *ReportHandler) ConfirmReport(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "User ID not found in context")
		return
	}

	reportID, err := reportIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid report ID")
		return
	}

	result, err := h.confirmationService.ConfirmReport(reportID, userID, time.Now().UTC())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// reportIDFromPath parses the {id} path variable
func reportIDFromPath(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["id"], 10, 64)
}
