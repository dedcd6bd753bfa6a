package handler

import (
	"net/http"

	"github.com/jigisha06/Roadfix-Connect/service"
)

// UserHandler serves per-user reputation and activity reads
type UserHandler struct {
	queryService *service.QueryService
}

// NewUserHandler creates a new user handler
func NewUserHandler(queryService *service.QueryService) *UserHandler {
	return &UserHandler{queryService: queryService}
}

// GetMyStats handles GET /api/v1/users/me/stats
func (h *UserHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "User ID not found in context")
		return
	}

	stats, err := h.queryService.GetUserStats(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if stats == nil {
		respondWithError(w, http.StatusNotFound, "Not found", "No activity recorded for this user yet")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GetMyConfirmations handles GET /api/v1/users/me/confirmations
func (h *UserHandler) GetMyConfirmations(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserIDFromContext(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "User ID not found in context")
		return
	}

	ids, err := h.queryService.ListConfirmedReportIDs(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string][]int64{"report_ids": ids})
}
