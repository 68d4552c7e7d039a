package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

// EventPublisher broadcasts domain events through a fanout exchange named
// after the event channel.
type EventPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
}

func declare(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"fanout", // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return conn, ch, nil
}

func NewEventPublisher(url, exchange string) (*EventPublisher, error) {
	conn, ch, err := declare(url, exchange)
	if err != nil {
		return nil, err
	}
	return &EventPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *EventPublisher) Publish(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(
		p.exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Type:        event.Event,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (p *EventPublisher) Close() error {
	p.ch.Close()
	return p.conn.Close()
}

type EventSubscriber struct {
	url      string
	exchange string
}

func NewEventSubscriber(url, exchange string) *EventSubscriber {
	return &EventSubscriber{url: url, exchange: exchange}
}

// Subscribe binds a private queue to the exchange and calls handle for every
// event until ctx is done.
func (s *EventSubscriber) Subscribe(ctx context.Context, handle func(domain.Event)) error {
	conn, ch, err := declare(s.url, s.exchange)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", s.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	logger.Info("Subscribed to RabbitMQ exchange", "exchange", s.exchange)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			var event domain.Event
			if err := json.Unmarshal(d.Body, &event); err != nil {
				logger.Warn("Skipping unreadable event", err)
				continue
			}
			handle(event)
		}
	}
}
