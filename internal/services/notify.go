package services

import (
	"context"
	"encoding/json"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskstream/backend/domain"
	"github.com/taskstream/backend/usecase"
)

// alarmMessage is the payload fanned out to notification subscribers.
type alarmMessage struct {
	TaskID  string     `json:"task_id"`
	Title   string     `json:"title"`
	DueAt   *time.Time `json:"due_at,omitempty"`
	FiredAt time.Time  `json:"fired_at"`
}

// RedisNotifier publishes due-task alarms on a pub/sub channel. Delivery is
// best-effort: with nobody subscribed the message is simply dropped, and a
// publish failure never blocks the alarm pass.
type RedisNotifier struct {
	client  *redislib.Client
	channel string
	logger  *zap.Logger
}

// NewRedisNotifier creates a notifier on the given channel.
func NewRedisNotifier(client *redislib.Client, channel string, logger *zap.Logger) *RedisNotifier {
	if channel == "" {
		channel = "notifications:alarms"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (n *RedisNotifier) NotifyDue(ctx context.Context, task domain.Task) error {
	payload, err := json.Marshal(alarmMessage{
		TaskID:  task.ID,
		Title:   task.Title,
		DueAt:   task.DueAt,
		FiredAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return err
	}
	n.logger.Debug("alarm published", zap.String("task_id", task.ID))
	return nil
}

var _ usecase.Notifier = (*RedisNotifier)(nil)
