package transport

import (
	"time"

	"homezy_backend/internal/reminders/domain"
	"homezy_backend/internal/reminders/repository"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateReminderRequest is the request body for creating a custom reminder.
type CreateReminderRequest struct {
	PropertyID         *uuid.UUID `json:"propertyId"`
	Category           string     `json:"category" validate:"required"`
	Title              string     `json:"title" validate:"required,min=1,max=200"`
	Description        string     `json:"description" validate:"max=2000"`
	Frequency          string     `json:"frequency" validate:"required,oneof=monthly quarterly biannual annual custom"`
	CustomIntervalDays *int       `json:"customIntervalDays" validate:"omitempty,min=1,max=3650"`
	LastServiceDate    *time.Time `json:"lastServiceDate"`
	NextDueDate        *time.Time `json:"nextDueDate"`
	ReminderLeadDays   []int      `json:"reminderLeadDays" validate:"omitempty,dive,min=0,max=365"`
}

// UpdateReminderRequest is the request body for updating a reminder.
type UpdateReminderRequest struct {
	PropertyID         *uuid.UUID `json:"propertyId"`
	Title              *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description        *string    `json:"description" validate:"omitempty,max=2000"`
	Frequency          *string    `json:"frequency" validate:"omitempty,oneof=monthly quarterly biannual annual custom"`
	CustomIntervalDays *int       `json:"customIntervalDays" validate:"omitempty,min=1,max=3650"`
	NextDueDate        *time.Time `json:"nextDueDate"`
	ReminderLeadDays   []int      `json:"reminderLeadDays" validate:"omitempty,dive,min=0,max=365"`
}

// SnoozeReminderRequest is the request body for snoozing a reminder.
type SnoozeReminderRequest struct {
	Days int `json:"days" validate:"required,min=1,max=365"`
}

// CompleteReminderRequest marks a service as done and starts the next cycle.
type CompleteReminderRequest struct {
	ServicedAt *time.Time `json:"servicedAt"`
}

// ListRemindersRequest defines the query parameters for listing reminders.
type ListRemindersRequest struct {
	PropertyID string `form:"propertyId" validate:"omitempty,uuid"`
	Category   string `form:"category"`
	Status     string `form:"status" validate:"omitempty,oneof=active snoozed paused converted_to_quote"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// SentRecordResponse is one delivered notification for a reminder.
type SentRecordResponse struct {
	SentAt        time.Time `json:"sentAt"`
	Channel       string    `json:"channel"`
	DaysBeforeDue int       `json:"daysBeforeDue"`
}

// ReminderResponse is the API representation of a service reminder.
type ReminderResponse struct {
	ID                 uuid.UUID            `json:"id"`
	PropertyID         *uuid.UUID           `json:"propertyId,omitempty"`
	Category           string               `json:"category"`
	Title              string               `json:"title"`
	Description        string               `json:"description,omitempty"`
	TriggerType        string               `json:"triggerType"`
	Frequency          string               `json:"frequency"`
	CustomIntervalDays *int                 `json:"customIntervalDays,omitempty"`
	LastServiceDate    *time.Time           `json:"lastServiceDate,omitempty"`
	NextDueDate        time.Time            `json:"nextDueDate"`
	ReminderLeadDays   []int                `json:"reminderLeadDays"`
	RemindersSent      []SentRecordResponse `json:"remindersSent"`
	Status             string               `json:"status"`
	SnoozeUntil        *time.Time           `json:"snoozeUntil,omitempty"`
	ConvertedLeadID    *uuid.UUID           `json:"convertedLeadId,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// SyncResultResponse reports the outcome of a pattern sync run.
type SyncResultResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ToReminderResponse maps a stored reminder to its API shape.
func ToReminderResponse(r repository.Reminder) ReminderResponse {
	sent := make([]SentRecordResponse, 0, len(r.RemindersSent))
	for _, s := range r.RemindersSent {
		sent = append(sent, SentRecordResponse{
			SentAt:        s.SentAt,
			Channel:       s.Channel,
			DaysBeforeDue: s.DaysBeforeDue,
		})
	}

	leadDays := r.ReminderLeadDays
	if leadDays == nil {
		leadDays = append([]int(nil), domain.DefaultLeadDays...)
	}

	return ReminderResponse{
		ID:                 r.ID,
		PropertyID:         r.PropertyID,
		Category:           string(r.Category),
		Title:              r.Title,
		Description:        r.Description,
		TriggerType:        string(r.TriggerType),
		Frequency:          string(r.Frequency),
		CustomIntervalDays: r.CustomIntervalDays,
		LastServiceDate:    r.LastServiceDate,
		NextDueDate:        r.NextDueDate,
		ReminderLeadDays:   leadDays,
		RemindersSent:      sent,
		Status:             string(r.Status),
		SnoozeUntil:        r.SnoozeUntil,
		ConvertedLeadID:    r.ConvertedLeadID,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// ToReminderListResponse maps a slice of stored reminders.
func ToReminderListResponse(items []repository.Reminder) []ReminderResponse {
	out := make([]ReminderResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToReminderResponse(item))
	}
	return out
}
