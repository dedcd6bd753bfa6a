package models

import (
	"database/sql"
	"time"
)

// ReportStatus represents the lifecycle state of a report
type ReportStatus string

const (
	StatusPending    ReportStatus = "Pending"
	StatusInProgress ReportStatus = "In Progress"
	StatusResolved   ReportStatus = "Resolved"
)

// KnownStatuses is the full set of valid report statuses.
// The lifecycle is a directed graph, not a one-way pipeline: any transition
// between known statuses is permitted and recorded in status_history,
// including administrative regressions like In Progress -> Pending.
var KnownStatuses = []ReportStatus{StatusPending, StatusInProgress, StatusResolved}

// IsValidStatus reports whether s is one of the known report statuses
func IsValidStatus(s ReportStatus) bool {
	for _, known := range KnownStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Priority represents report priority tiers derived from community signal
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// IssueTypeOther requires a free-text custom type which replaces it at
// submission time.
const IssueTypeOther = "Other"

// IssueCategories is the fixed category list for report submission. These
// are the stored values; display labels are the client's concern.
var IssueCategories = []string{
	"Pothole",
	"Waterlogging",
	"Faulty Signal",
	"Wrong Parking",
	"Street Light",
	"Road Damage",
	IssueTypeOther,
}

// IsKnownIssueCategory reports whether t is one of the fixed categories
func IsKnownIssueCategory(t string) bool {
	for _, c := range IssueCategories {
		if t == c {
			return true
		}
	}
	return false
}

// SystemActor is recorded as changed_by when no user identity is available
// (anonymous submissions, automated transitions).
const SystemActor = "system"

// Report represents a citizen-submitted road issue
type Report struct {
	ReportID           int64          `db:"report_id" json:"report_id"`
	ReportNumber       string         `db:"report_number" json:"report_number"`
	IssueType          string         `db:"issue_type" json:"issue_type"`
	Description        string         `db:"description" json:"description"`
	ImageURL           string         `db:"image_url" json:"image_url"`
	Latitude           float64        `db:"latitude" json:"latitude"`
	Longitude          float64        `db:"longitude" json:"longitude"`
	Status             ReportStatus   `db:"status" json:"status"`
	Priority           Priority       `db:"priority" json:"priority"`
	CrowdVerified      bool           `db:"crowd_verified" json:"crowd_verified"`
	NearbyReportsCount int            `db:"nearby_reports_count" json:"nearby_reports_count"`
	ConfirmationCount  int            `db:"confirmation_count" json:"confirmation_count"`
	AIVerified         bool           `db:"ai_verified" json:"ai_verified"`
	Escalated          bool           `db:"escalated" json:"escalated"`
	EscalatedAt        sql.NullTime   `db:"escalated_at" json:"escalated_at"`
	UserID             sql.NullString `db:"user_id" json:"user_id"` // NULL for anonymous
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          sql.NullTime   `db:"updated_at" json:"updated_at"`
}

// OwnedBy reports whether the report belongs to userID. Anonymous reports
// belong to no one.
func (r *Report) OwnedBy(userID string) bool {
	return r.UserID.Valid && r.UserID.String == userID
}

// NearbyReport pairs a report with its distance from a query point
type NearbyReport struct {
	Report         Report
	DistanceMeters float64
}

// StatusHistoryEntry is an append-only audit record of one status change.
// The earliest entry for a report has OldStatus = NULL; entries are never
// mutated or deleted.
type StatusHistoryEntry struct {
	HistoryID int64          `db:"history_id" json:"history_id"`
	ReportID  int64          `db:"report_id" json:"report_id"`
	OldStatus sql.NullString `db:"old_status" json:"old_status"`
	NewStatus ReportStatus   `db:"new_status" json:"new_status"`
	ChangedBy string         `db:"changed_by" json:"changed_by"`
	ChangedAt time.Time      `db:"changed_at" json:"changed_at"`
}

// UserStats is the per-user reputation record. Points only increase through
// defined reward events; there is no spend operation.
type UserStats struct {
	UserID               string    `db:"user_id" json:"user_id"`
	Points               int       `db:"points" json:"points"`
	VerifiedReportsCount int       `db:"verified_reports_count" json:"verified_reports_count"`
	ConfirmationsGiven   int       `db:"confirmations_given" json:"confirmations_given"`
	Badges               []string  `db:"badges" json:"badges"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// ReportConfirmation is one user's endorsement of one report. The pair
// (report_id, user_id) is unique, enforced by the store.
type ReportConfirmation struct {
	ConfirmationID int64     `db:"confirmation_id" json:"confirmation_id"`
	ReportID       int64     `db:"report_id" json:"report_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	ConfirmedAt    time.Time `db:"confirmed_at" json:"confirmed_at"`
}
