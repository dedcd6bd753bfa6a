package models

import "time"

// CreateReportRequest is the submission payload for a new report
type CreateReportRequest struct {
	IssueType       string   `json:"issue_type"`
	CustomIssueType *string  `json:"custom_issue_type,omitempty"` // required when issue_type is "Other"
	Description     string   `json:"description"`
	ImageURL        string   `json:"image_url"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// UpdateStatusRequest is the staff payload for a status transition
type UpdateStatusRequest struct {
	NewStatus string  `json:"new_status"`
	Actor     *string `json:"actor,omitempty"` // defaults to "staff"
}

// ReportResponse is the JSON view of a report
type ReportResponse struct {
	ReportID           int64      `json:"report_id"`
	ReportNumber       string     `json:"report_number"`
	IssueType          string     `json:"issue_type"`
	Description        string     `json:"description"`
	ImageURL           string     `json:"image_url"`
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	CrowdVerified      bool       `json:"crowd_verified"`
	NearbyReportsCount int        `json:"nearby_reports_count"`
	ConfirmationCount  int        `json:"confirmation_count"`
	AIVerified         bool       `json:"ai_verified"`
	Escalated          bool       `json:"escalated"`
	EscalatedAt        *time.Time `json:"escalated_at,omitempty"`
	UserID             *string    `json:"user_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	Insight            string     `json:"insight,omitempty"`
}

// ToReportResponse converts a Report entity to its JSON view
func ToReportResponse(r *Report) ReportResponse {
	resp := ReportResponse{
		ReportID:           r.ReportID,
		ReportNumber:       r.ReportNumber,
		IssueType:          r.IssueType,
		Description:        r.Description,
		ImageURL:           r.ImageURL,
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		Status:             string(r.Status),
		Priority:           string(r.Priority),
		CrowdVerified:      r.CrowdVerified,
		NearbyReportsCount: r.NearbyReportsCount,
		ConfirmationCount:  r.ConfirmationCount,
		AIVerified:         r.AIVerified,
		Escalated:          r.Escalated,
		CreatedAt:          r.CreatedAt,
	}
	if r.EscalatedAt.Valid {
		t := r.EscalatedAt.Time
		resp.EscalatedAt = &t
	}
	if r.UserID.Valid {
		uid := r.UserID.String
		resp.UserID = &uid
	}
	return resp
}

// StatusHistoryEntryResponse is the JSON view of one audit entry
type StatusHistoryEntryResponse struct {
	HistoryID int64     `json:"history_id"`
	ReportID  int64     `json:"report_id"`
	OldStatus *string   `json:"old_status"` // null for the creation entry
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// ToStatusHistoryEntryResponse converts a StatusHistoryEntry to its JSON view
func ToStatusHistoryEntryResponse(h *StatusHistoryEntry) StatusHistoryEntryResponse {
	resp := StatusHistoryEntryResponse{
		HistoryID: h.HistoryID,
		ReportID:  h.ReportID,
		NewStatus: string(h.NewStatus),
		ChangedBy: h.ChangedBy,
		ChangedAt: h.ChangedAt,
	}
	if h.OldStatus.Valid {
		s := h.OldStatus.String
		resp.OldStatus = &s
	}
	return resp
}

// ConfirmReportResponse is the outcome of a confirmation attempt. Rejections
// are a normal negative result, not an error: the client branches on Accepted
// and explains Reason to the user.
type ConfirmReportResponse struct {
	Accepted          bool   `json:"accepted"`
	Reason            string `json:"reason,omitempty"` // set only when Accepted is false
	PointsAwarded     int    `json:"points_awarded,omitempty"`
	ConfirmationCount int    `json:"confirmation_count,omitempty"`
	Priority          string `json:"priority,omitempty"`
}

// Confirmation rejection reasons
const (
	ConfirmRejectNotFound         = "report_not_found"
	ConfirmRejectOwnReport        = "own_report"
	ConfirmRejectAlreadyConfirmed = "already_confirmed"
)

// SweepRequest optionally overrides the configured escalation threshold
type SweepRequest struct {
	ThresholdDays *int `json:"threshold_days,omitempty"`
}

// SweepResponse reports how many pending reports were escalated
type SweepResponse struct {
	EscalatedCount int64 `json:"escalated_count"`
}

// UserStatsResponse is the JSON view of a reputation record. Contributor is
// derived from the stored counter at read time, never persisted.
type UserStatsResponse struct {
	UserID               string   `json:"user_id"`
	Points               int      `json:"points"`
	VerifiedReportsCount int      `json:"verified_reports_count"`
	ConfirmationsGiven   int      `json:"confirmations_given"`
	Badges               []string `json:"badges"`
	Contributor          bool     `json:"contributor"`
}

// ErrorResponse is the uniform error envelope for HTTP handlers
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// MetricsResponse is the staff dashboard aggregation, computed at read time
// from the persisted store
type MetricsResponse struct {
	Total              int     `json:"total"`
	Pending            int     `json:"pending"`
	InProgress         int     `json:"in_progress"`
	Resolved           int     `json:"resolved"`
	HighPriority       int     `json:"high_priority"`
	CrowdVerified      int     `json:"crowd_verified"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}
