package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jigisha06/Roadfix-Connect/models"
)

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	response := models.ErrorResponse{
		Error:   errorType,
		Message: message,
		Code:    statusCode,
	}
	respondWithJSON(w, statusCode, response)
}

// respondWithServiceError maps service-layer error types onto HTTP statuses
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		respondWithError(w, http.StatusBadRequest, "Validation error", validationErr.Message)
		return
	}

	var notFoundErr *models.NotFoundError
	if errors.As(err, &notFoundErr) {
		respondWithError(w, http.StatusNotFound, "Not found", notFoundErr.Error())
		return
	}

	respondWithError(w, http.StatusInternalServerError, "Internal error", "An internal error occurred")
}

// getUserIDFromContext extracts the user_id set by the auth middleware
func getUserIDFromContext(r *http.Request) (string, error) {
	userIDVal := r.Context().Value("user_id")
	if userIDVal == nil {
		return "", fmt.Errorf("user ID not found in context - authentication required")
	}

	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid user ID in context")
	}

	return userID, nil
}

// optionalUserIDFromContext returns the signed-in user's ID or nil for
// anonymous requests
func optionalUserIDFromContext(r *http.Request) *string {
	userIDVal := r.Context().Value("user_id")
	if userIDVal == nil {
		return nil
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return nil
	}
	return &userID
}
