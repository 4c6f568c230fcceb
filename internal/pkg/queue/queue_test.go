package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func newEvent(total int64) *model.UsageEvent {
	remaining := int64(20) - total
	return &model.UsageEvent{
		EventID:           uuid.New(),
		AccountID:         uuid.New(),
		ToolID:            entitlement.ToolSEOAudit,
		Plan:              entitlement.PlanTrial,
		PeriodGenerations: total,
		TotalGenerations:  total,
		Remaining:         &remaining,
		OccurredAt:        time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestNewQueue(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_queue")

	assert.NotNil(t, q)
	assert.Equal(t, "test_queue", q.Name())
}

func TestQueue_Push(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_queue")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Push(ctx, newEvent(int64(i))))
	}

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), length)
}

func TestQueue_Pop(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		q := NewQueue(client, "test_pop_queue")
		original := newEvent(7)

		require.NoError(t, q.Push(ctx, original))

		result, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, original.EventID, result.EventID)
		assert.Equal(t, original.AccountID, result.AccountID)
		assert.Equal(t, original.ToolID, result.ToolID)
		assert.Equal(t, original.Plan, result.Plan)
		assert.Equal(t, original.TotalGenerations, result.TotalGenerations)
		require.NotNil(t, result.Remaining)
		assert.Equal(t, int64(13), *result.Remaining)
		assert.True(t, original.OccurredAt.Equal(result.OccurredAt))
	})

	t.Run("FIFO order", func(t *testing.T) {
		q := NewQueue(client, "test_fifo_queue")

		for i := 1; i <= 3; i++ {
			require.NoError(t, q.Push(ctx, newEvent(int64(i))))
		}

		for i := 1; i <= 3; i++ {
			result, err := q.Pop(ctx, time.Second)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, int64(i), result.TotalGenerations)
		}
	})

	t.Run("empty queue times out", func(t *testing.T) {
		q := NewQueue(client, "test_empty_queue")

		result, err := q.Pop(ctx, 10*time.Millisecond)

		// miniredis timeouts are coarse, accept either outcome but never a value.
		if err == nil {
			assert.Nil(t, result)
		}
	})
}

func TestQueue_Publish(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	q := NewQueue(client, "usage")

	require.NoError(t, q.Publish(ctx, newEvent(1)))

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)
}

func TestQueue_MultipleQueues(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	q1 := NewQueue(client, "queue_1")
	q2 := NewQueue(client, "queue_2")

	require.NoError(t, q1.Push(ctx, newEvent(1)))
	require.NoError(t, q2.Push(ctx, newEvent(2)))

	len1, _ := q1.Length(ctx)
	len2, _ := q2.Length(ctx)
	assert.Equal(t, int64(1), len1)
	assert.Equal(t, int64(1), len2)

	result1, _ := q1.Pop(ctx, time.Second)
	result2, _ := q2.Pop(ctx, time.Second)

	assert.Equal(t, int64(1), result1.TotalGenerations)
	assert.Equal(t, int64(2), result2.TotalGenerations)
}
