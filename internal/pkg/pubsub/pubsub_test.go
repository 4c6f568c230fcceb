package pubsub

import (
	"context"
	"encoding/json"
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

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
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

	return client, mr, cleanup
}

func TestMessage_JSON(t *testing.T) {
	msg := &Message{
		Type: TypeUsageRecorded,
		Event: &model.UsageEvent{
			EventID:   uuid.New(),
			AccountID: uuid.New(),
			ToolID:    entitlement.ToolAdCopy,
		},
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, TypeUsageRecorded, raw["type"])

	event, ok := raw["event"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, event, "account_id")
	assert.Contains(t, event, "tool_id")
	assert.NotContains(t, event, "ID")
}

func TestPublisherSubscriber(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewPublisher(client, "test_usage")
	subscriber := NewSubscriber(client, "test_usage")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, func(m *Message) {
			received <- m
		})
	}()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub("test_usage")["test_usage"] == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Garbage on the channel is skipped.
	mr.Publish("test_usage", "not json")

	event := &model.UsageEvent{
		EventID:          uuid.New(),
		AccountID:        uuid.New(),
		ToolID:           entitlement.ToolSEOAudit,
		Plan:             entitlement.PlanTrial,
		TotalGenerations: 3,
	}
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case m := <-received:
		assert.Equal(t, TypeUsageRecorded, m.Type)
		assert.Equal(t, event.EventID, m.Event.EventID)
		assert.Equal(t, event.AccountID, m.Event.AccountID)
		assert.Equal(t, int64(3), m.Event.TotalGenerations)
	case <-ctx.Done():
		t.Fatal("Timeout waiting for message")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe did not return after cancel")
	}
}

func TestDefaultChannel(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.Equal(t, DefaultChannel, NewPublisher(client, "").channel)
	assert.Equal(t, DefaultChannel, NewSubscriber(client, "").channel)
}
