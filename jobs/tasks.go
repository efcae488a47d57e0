package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeResetEmail delivers a password reset token by email.
	TaskTypeResetEmail = "mail:password_reset"
	// TaskTypeActivityRetention prunes expired activity log entries.
	TaskTypeActivityRetention = "activity:retention"
)

// ResetEmailPayload describes a password reset delivery.
type ResetEmailPayload struct {
	To    string `json:"to"`
	Token string `json:"token"`
}

// NewResetEmailTask constructs the reset delivery task.
func NewResetEmailTask(payload ResetEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeResetEmail, data), nil
}

// HandleResetEmailTask processes TaskTypeResetEmail tasks. The token stays
// inside the payload; only the recipient is logged.
func HandleResetEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload ResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	slog.Info("password reset mail dispatched",
		slog.String("to", payload.To),
		slog.String("task", TaskTypeResetEmail))
	return nil
}

// NewActivityRetentionTask constructs the retention cron task.
func NewActivityRetentionTask() *asynq.Task {
	return asynq.NewTask(TaskTypeActivityRetention, nil)
}
