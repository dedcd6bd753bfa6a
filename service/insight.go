package service

import "github.com/jigisha06/Roadfix-Connect/models"

// Confirmation-volume thresholds for insight selection
const (
	insightHighRiskConfirmations  = 5
	insightRecurringConfirmations = 3
)

// Insight derives a one-line triage note from a report's stored fields.
// Purely a display fact computed at read time; nothing is persisted. The
// first matching rule wins.
func Insight(r *models.Report) string {
	if r.ConfirmationCount >= insightHighRiskConfirmations {
		return "High-risk area due to multiple reports"
	}
	if r.ConfirmationCount >= insightRecurringConfirmations {
		return "Recurring issue pattern detected"
	}

	switch {
	case r.IssueType == "Pothole" && r.Priority == models.PriorityHigh:
		return "Critical road safety hazard"
	case r.IssueType == "Waterlogging":
		return "Likely water drainage issue"
	case r.IssueType == "Street Light":
		return "Public safety concern - immediate attention needed"
	case r.IssueType == "Road Damage":
		return "Infrastructure maintenance required"
	}

	if r.Escalated {
		return "Escalated to higher authorities"
	}
	if r.AIVerified && r.Priority == models.PriorityHigh {
		return "AI-verified critical issue"
	}

	return "Standard maintenance request"
}
