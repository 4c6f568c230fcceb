package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
)

// Queue is a Redis list of usage events. Push and Pop together give FIFO order.
type Queue struct {
	client    *redis.Client
	queueName string
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

func (q *Queue) Name() string {
	return q.queueName
}

// Publish is Push under the name service.UsageSink expects.
func (q *Queue) Publish(ctx context.Context, event *model.UsageEvent) error {
	return q.Push(ctx, event)
}

func (q *Queue) Push(ctx context.Context, event *model.UsageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal usage event: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop blocks up to timeout. It returns nil, nil when nothing arrived.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*model.UsageEvent, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var event model.UsageEvent
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal usage event: %w", err)
	}

	return &event, nil
}

func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
