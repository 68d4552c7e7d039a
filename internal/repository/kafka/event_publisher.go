package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const (
	flushTimeoutMs  = 5000
	deliveryTimeout = 2 * time.Second
)

// EventPublisher writes domain events to a Kafka topic and waits at most
// deliveryTimeout for the delivery report.
type EventPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewEventPublisher(servers []string, topic string) (*EventPublisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  strings.Join(servers, ","),
		"acks":               "all",
		"message.timeout.ms": int(deliveryTimeout / time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return &EventPublisher{producer: producer, topic: topic}, nil
}

func (p *EventPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	delivery := make(chan kafka.Event, 1)
	err = p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.Event),
		Value:          body,
	}, delivery)
	if err != nil {
		return fmt.Errorf("failed to produce event: %w", err)
	}

	return awaitDelivery(ctx, delivery, deliveryTimeout)
}

func awaitDelivery(ctx context.Context, delivery <-chan kafka.Event, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-ctx.Done():
		return fmt.Errorf("event delivery not confirmed: %w", ctx.Err())
	case e := <-delivery:
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("event delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	}
}

func (p *EventPublisher) Close() error {
	p.producer.Flush(flushTimeoutMs)
	p.producer.Close()
	return nil
}

type EventSubscriber struct {
	consumer *kafka.Consumer
	topic    string
}

func NewEventSubscriber(servers []string, groupID, topic string) (*EventSubscriber, error) {
	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": strings.Join(servers, ","),
		"group.id":          groupID,
		"auto.offset.reset": "latest",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	if err := consumer.SubscribeTopics([]string{topic}, nil); err != nil {
		consumer.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	logger.Info("Subscribed to Kafka topic", "topic", topic)

	return &EventSubscriber{consumer: consumer, topic: topic}, nil
}

// Subscribe polls the topic and calls handle for every event until ctx is
// done or the consumer hits a fatal error.
func (s *EventSubscriber) Subscribe(ctx context.Context, handle func(domain.Event)) error {
	defer s.consumer.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			ev := s.consumer.Poll(100)
			if ev == nil {
				continue
			}

			switch e := ev.(type) {
			case *kafka.Message:
				var event domain.Event
				if err := json.Unmarshal(e.Value, &event); err != nil {
					logger.Warn("Skipping unreadable event", err)
					continue
				}
				handle(event)
			case kafka.Error:
				logger.Error("Kafka error", e)
				if e.IsFatal() {
					return e
				}
			}
		}
	}
}
