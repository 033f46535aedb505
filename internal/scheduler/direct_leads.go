package scheduler

import (
	"context"

	leadservice "homezy_backend/internal/leads/service"
)

// DirectLeadExpiryJob is the authoritative sweep behind the exact-time expiry
// tasks: any direct lead the asynq path missed gets converted here.
type DirectLeadExpiryJob struct {
	leads *leadservice.Service
}

func NewDirectLeadExpiryJob(leads *leadservice.Service) *DirectLeadExpiryJob {
	return &DirectLeadExpiryJob{leads: leads}
}

func (j *DirectLeadExpiryJob) Name() string { return "direct-lead-expiry" }

func (j *DirectLeadExpiryJob) Run(ctx context.Context) (int, int, error) {
	result, err := j.leads.ExpireDueLeads(ctx)
	if err != nil {
		return 0, 0, err
	}
	return result.Converted, result.Errors, nil
}

// DirectLeadRemindersJob nudges professionals sitting on pending direct leads
// as the acceptance window runs down.
type DirectLeadRemindersJob struct {
	leads *leadservice.Service
}

func NewDirectLeadRemindersJob(leads *leadservice.Service) *DirectLeadRemindersJob {
	return &DirectLeadRemindersJob{leads: leads}
}

func (j *DirectLeadRemindersJob) Name() string { return "direct-lead-reminders" }

func (j *DirectLeadRemindersJob) Run(ctx context.Context) (int, int, error) {
	result, err := j.leads.EmitDirectLeadReminders(ctx)
	if err != nil {
		return 0, 0, err
	}
	return result.Reminders, result.Errors, nil
}
