// Package domain holds the lead state machine types and rules.
package domain

import "time"

// LeadType distinguishes privately routed leads from public marketplace leads.
type LeadType string

const (
	// LeadTypeDirect is a lead routed exclusively to one professional.
	LeadTypeDirect LeadType = "direct"
	// LeadTypeIndirect is a public marketplace lead open to claims.
	LeadTypeIndirect LeadType = "indirect"
)

// DirectLeadStatus tracks the exclusive-window state of a direct lead.
type DirectLeadStatus string

const (
	DirectLeadPending  DirectLeadStatus = "pending"
	DirectLeadAccepted DirectLeadStatus = "accepted"
	DirectLeadDeclined DirectLeadStatus = "declined"
	// DirectLeadExpired is terminal. The lead is converted to the public
	// marketplace in the same update that sets it.
	DirectLeadExpired DirectLeadStatus = "expired"
)

// Status is the overall lead progress, independent of the direct-lead window.
type Status string

const (
	StatusOpen      Status = "open"
	StatusQuoted    Status = "quoted"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// DirectLeadWindow is the default exclusive acceptance window for a direct
// lead. Overridable through configuration.
const DirectLeadWindow = 24 * time.Hour

// Reminder stages for the pending-lead nudge emails.
const (
	ReminderStageFirst  = 1
	ReminderStageSecond = 2
)

// CanTransition reports whether a direct lead may move between window
// states. Pending is the only state with outgoing edges; the repository's
// guarded updates encode the same rule as SQL predicates.
func CanTransition(from, to DirectLeadStatus) bool {
	if from != DirectLeadPending {
		return false
	}
	switch to {
	case DirectLeadAccepted, DirectLeadDeclined, DirectLeadExpired:
		return true
	}
	return false
}
