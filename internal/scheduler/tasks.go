package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskStatusChangedEmail = "email.status_changed"

const TaskWelcomeEmail = "email.welcome"

type StatusChangedEmailPayload struct {
	ToEmail        string `json:"toEmail"`
	ReportTitle    string `json:"reportTitle"`
	NewStatus      string `json:"newStatus"`
	ResolutionNote string `json:"resolutionNote,omitempty"`
}

type WelcomeEmailPayload struct {
	ToEmail   string `json:"toEmail"`
	FirstName string `json:"firstName"`
}

func NewStatusChangedEmailTask(payload StatusChangedEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatusChangedEmail, data), nil
}

func ParseStatusChangedEmailPayload(task *asynq.Task) (StatusChangedEmailPayload, error) {
	var payload StatusChangedEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return StatusChangedEmailPayload{}, err
	}
	return payload, nil
}

func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWelcomeEmail, data), nil
}

func ParseWelcomeEmailPayload(task *asynq.Task) (WelcomeEmailPayload, error) {
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WelcomeEmailPayload{}, err
	}
	return payload, nil
}
