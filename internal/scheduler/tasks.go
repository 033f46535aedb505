// Package scheduler runs the periodic sweeps and the exact-time task queue.
// The cron sweeps are authoritative; asynq tasks fire at the precise moment a
// direct lead's window or reminder threshold passes, so homeowners and
// professionals are not kept waiting for the next tick.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDirectLeadExpire = "leads.direct.expire"

const TaskDirectLeadReminder = "leads.direct.reminder"

type DirectLeadExpirePayload struct {
	LeadID string `json:"leadId"`
}

type DirectLeadReminderPayload struct {
	LeadID string `json:"leadId"`
	Stage  int    `json:"stage"`
}

func NewDirectLeadExpireTask(payload DirectLeadExpirePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDirectLeadExpire, data), nil
}

func ParseDirectLeadExpirePayload(task *asynq.Task) (DirectLeadExpirePayload, error) {
	var payload DirectLeadExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DirectLeadExpirePayload{}, err
	}
	return payload, nil
}

func NewDirectLeadReminderTask(payload DirectLeadReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDirectLeadReminder, data), nil
}

func ParseDirectLeadReminderPayload(task *asynq.Task) (DirectLeadReminderPayload, error) {
	var payload DirectLeadReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DirectLeadReminderPayload{}, err
	}
	return payload, nil
}
