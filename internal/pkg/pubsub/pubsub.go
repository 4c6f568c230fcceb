// Package pubsub fans usage events out over a Redis channel so every API
// instance can push them to its websocket clients.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
)

const (
	DefaultChannel = "usage_events"

	TypeUsageRecorded = "usage_recorded"
)

// Message is what travels on the channel and what websocket clients receive.
type Message struct {
	Type  string            `json:"type"`
	Event *model.UsageEvent `json:"event"`
}

type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{client: client, channel: channel}
}

// Publish satisfies service.UsageSink.
func (p *Publisher) Publish(ctx context.Context, event *model.UsageEvent) error {
	data, err := json.Marshal(&Message{Type: TypeUsageRecorded, Event: event})
	if err != nil {
		return fmt.Errorf("failed to marshal usage message: %w", err)
	}

	return p.client.Publish(ctx, p.channel, data).Err()
}

type Subscriber struct {
	client  *redis.Client
	channel string
}

func NewSubscriber(client *redis.Client, channel string) *Subscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Subscriber{client: client, channel: channel}
}

// Subscribe calls handler for each message until ctx is done. Malformed
// payloads are skipped.
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*Message)) error {
	ps := s.client.Subscribe(ctx, s.channel)
	defer ps.Close()

	// Wait for the subscription to be confirmed.
	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	ch := ps.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var m Message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil || m.Event == nil {
				continue
			}

			handler(&m)
		}
	}
}
