package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/service"
)

// staffActor is recorded in the history ledger when a status change request
// carries no explicit actor
const staffActor = "staff"

// StaffHandler handles the staff triage endpoints
type StaffHandler struct {
	reportService *service.ReportService
	queryService  *service.QueryService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(reportService *service.ReportService, queryService *service.QueryService) *StaffHandler {
	return &StaffHandler{
		reportService: reportService,
		queryService:  queryService,
	}
}

// ListQueue handles GET /api/v1/staff/reports?status=
func (h *StaffHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")

	reports, err := h.queryService.ListQueue(statusFilter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

// Metrics handles GET /api/v1/staff/metrics
func (h *StaffHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.queryService.Metrics()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, metrics)
}

// UpdateStatus handles POST /api/v1/staff/reports/{id}/status
func (h *StaffHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	reportID, err := reportIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid report ID")
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	actor := staffActor
	if req.Actor != nil && *req.Actor != "" {
		actor = *req.Actor
	}

	report, err := h.reportService.UpdateStatus(reportID, models.ReportStatus(req.NewStatus), actor)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.ToReportResponse(report))
}

// AIVerify handles POST /api/v1/reports/{id}/ai-verify
func (h *StaffHandler) AIVerify(w http.ResponseWriter, r *http.Request) {
	reportID, err := reportIDFromPath(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid report ID")
		return
	}

	report, err := h.reportService.AIVerify(reportID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.ToReportResponse(report))
}
