package notification

import (
	"context"

	"airmax/models"
	"airmax/services/tasks"
	"airmax/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsyncNotifier enqueues notifications onto the asynq queue instead of
// delivering them inline, keeping Slack latency off the webhook path.
// When the queue is unavailable it falls back to direct delivery.
type AsyncNotifier struct {
	Client   *asynq.Client
	Fallback Notifier
}

func NewAsyncNotifier(client *asynq.Client, fallback Notifier) *AsyncNotifier {
	return &AsyncNotifier{Client: client, Fallback: fallback}
}

func (n *AsyncNotifier) Notify(ctx context.Context, payload models.NotificationPayload) {
	logger := utils.GetLogger()

	task, opts, err := tasks.NewSlackNotifyTask(payload)
	if err != nil {
		logger.Error("Failed to build notification task", zap.Error(err))
		return
	}

	if _, err := n.Client.EnqueueContext(ctx, task, opts...); err != nil {
		logger.Warn("Failed to enqueue notification, delivering inline", zap.Error(err))
		if n.Fallback != nil {
			n.Fallback.Notify(ctx, payload)
		}
	}
}
