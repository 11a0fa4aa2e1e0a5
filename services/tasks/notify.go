package tasks

import (
	"encoding/json"

	"airmax/models"

	"github.com/hibiken/asynq"
)

const TypeSlackNotify = "notify:slack"

// NewSlackNotifyTask wraps an operator notification into an asynq task.
func NewSlackNotifyTask(payload models.NotificationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSlackNotify, b)
	opts := []asynq.Option{asynq.MaxRetry(3)}

	return task, opts, nil
}
