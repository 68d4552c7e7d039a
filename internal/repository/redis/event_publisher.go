package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// EventPublisher broadcasts domain events on a Redis pub/sub channel.
type EventPublisher struct {
	client  *redis.Client
	channel string
}

func NewEventPublisher(client *redis.Client, channel string) *EventPublisher {
	return &EventPublisher{client: client, channel: channel}
}

func (p *EventPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to Redis: %w", err)
	}

	return nil
}

func (p *EventPublisher) Close() error {
	return nil
}

type EventSubscriber struct {
	client  *redis.Client
	channel string
}

func NewEventSubscriber(client *redis.Client, channel string) *EventSubscriber {
	return &EventSubscriber{client: client, channel: channel}
}

// Subscribe calls handle for every event on the channel until ctx is done.
func (s *EventSubscriber) Subscribe(ctx context.Context, handle func(domain.Event)) error {
	sub := s.client.Subscribe(ctx, s.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}
	logger.Info("Subscribed to Redis channel", "channel", s.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("Skipping unreadable event", err, "payload", msg.Payload)
				continue
			}
			handle(event)
		}
	}
}
