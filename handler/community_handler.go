package handler

import (
	"net/http"

	"github.com/jigisha06/Roadfix-Connect/service"
)

// CommunityHandler serves the public community feed
type CommunityHandler struct {
	queryService *service.QueryService
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(queryService *service.QueryService) *CommunityHandler {
	return &CommunityHandler{queryService: queryService}
}

// ListFeed handles GET /api/v1/community/reports
func (h *CommunityHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	reports, err := h.queryService.ListFeed()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}
