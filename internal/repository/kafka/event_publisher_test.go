//go:build !integration

package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

func TestAwaitDeliveryGivesUpWithoutReport(t *testing.T) {
	delivery := make(chan kafka.Event)

	start := time.Now()
	err := awaitDelivery(context.Background(), delivery, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("waited %v for a missing delivery report", elapsed)
	}
}

func TestAwaitDeliveryReport(t *testing.T) {
	topic := "crm-events"

	ok := make(chan kafka.Event, 1)
	ok <- &kafka.Message{TopicPartition: kafka.TopicPartition{Topic: &topic}}
	if err := awaitDelivery(context.Background(), ok, time.Second); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	failed := make(chan kafka.Event, 1)
	failed <- &kafka.Message{TopicPartition: kafka.TopicPartition{Topic: &topic, Error: errors.New("broker down")}}
	if err := awaitDelivery(context.Background(), failed, time.Second); err == nil {
		t.Error("expected delivery error")
	}
}
