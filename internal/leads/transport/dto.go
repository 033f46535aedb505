package transport

import (
	"time"

	"homezy_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// SubmitLeadRequest is the request body for a lead submission. Guests submit
// with contact details only; authenticated homeowners are linked by token.
// Setting targetProfessionalId routes the lead directly to one professional
// with an exclusive acceptance window.
type SubmitLeadRequest struct {
	PropertyID           *uuid.UUID `json:"propertyId"`
	ContactName          string     `json:"contactName" validate:"required,min=1,max=200"`
	ContactEmail         string     `json:"contactEmail" validate:"required,email"`
	ContactPhone         string     `json:"contactPhone" validate:"required,min=5,max=30"`
	Category             string     `json:"category" validate:"required"`
	Title                string     `json:"title" validate:"required,min=1,max=200"`
	Description          string     `json:"description" validate:"max=5000"`
	TargetProfessionalID *uuid.UUID `json:"targetProfessionalId"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// LeadResponse is the API representation of a lead.
type LeadResponse struct {
	ID                   uuid.UUID  `json:"id"`
	HomeownerID          *uuid.UUID `json:"homeownerId,omitempty"`
	PropertyID           *uuid.UUID `json:"propertyId,omitempty"`
	ContactName          string     `json:"contactName"`
	ContactEmail         string     `json:"contactEmail"`
	ContactPhone         string     `json:"contactPhone"`
	Category             string     `json:"category"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	LeadType             string     `json:"leadType"`
	Status               string     `json:"status"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	TargetProfessionalID *uuid.UUID `json:"targetProfessionalId,omitempty"`
	DirectLeadExpiresAt  *time.Time `json:"directLeadExpiresAt,omitempty"`
	DirectLeadStatus     *string    `json:"directLeadStatus,omitempty"`
	ClaimCount           int        `json:"claimCount"`
	MaxClaims            int        `json:"maxClaims"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// ToLeadResponse maps a stored lead to its API shape.
func ToLeadResponse(lead repository.Lead) LeadResponse {
	var directStatus *string
	if lead.DirectLeadStatus != nil {
		status := string(*lead.DirectLeadStatus)
		directStatus = &status
	}

	return LeadResponse{
		ID:                   lead.ID,
		HomeownerID:          lead.HomeownerID,
		PropertyID:           lead.PropertyID,
		ContactName:          lead.ContactName,
		ContactEmail:         lead.ContactEmail,
		ContactPhone:         lead.ContactPhone,
		Category:             string(lead.Category),
		Title:                lead.Title,
		Description:          lead.Description,
		LeadType:             string(lead.LeadType),
		Status:               string(lead.Status),
		CompletedAt:          lead.CompletedAt,
		TargetProfessionalID: lead.TargetProfessionalID,
		DirectLeadExpiresAt:  lead.DirectLeadExpiresAt,
		DirectLeadStatus:     directStatus,
		ClaimCount:           lead.ClaimCount,
		MaxClaims:            lead.MaxClaims,
		CreatedAt:            lead.CreatedAt,
	}
}

// ToLeadListResponse maps a slice of stored leads.
func ToLeadListResponse(items []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToLeadResponse(item))
	}
	return out
}
