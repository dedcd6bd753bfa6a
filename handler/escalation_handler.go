package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jigisha06/Roadfix-Connect/models"
	"github.com/jigisha06/Roadfix-Connect/service"
)

// EscalationHandler exposes the escalation sweep as a staff endpoint in
// addition to the background worker
type EscalationHandler struct {
	escalationService *service.EscalationService
}

// NewEscalationHandler creates a new escalation handler
func NewEscalationHandler(escalationService *service.EscalationService) *EscalationHandler {
	return &EscalationHandler{escalationService: escalationService}
}

// Sweep handles POST /api/v1/escalations/sweep
// An empty body runs the sweep with the configured threshold; threshold_days
// overrides it for one run.
func (h *EscalationHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	var req models.SweepRequest
	if r.Body != nil {
		// Body is optional; a decode failure on an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	days := 0
	if req.ThresholdDays != nil {
		if *req.ThresholdDays < 1 {
			respondWithError(w, http.StatusBadRequest, "Validation error", "threshold_days must be at least 1")
			return
		}
		days = *req.ThresholdDays
	}

	count, err := h.escalationService.Sweep(time.Now().UTC(), days)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.SweepResponse{EscalatedCount: count})
}
