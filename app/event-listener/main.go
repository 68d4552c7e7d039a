package main

import (
	"context"
	"errors"
	"log"
	"marketingCRM/domain"
	amqpRepo "marketingCRM/internal/repository/amqp"
	kafkaRepo "marketingCRM/internal/repository/kafka"
	redisRepo "marketingCRM/internal/repository/redis"
	"marketingCRM/pkg/config"
	"marketingCRM/pkg/database/redis"
	"marketingCRM/pkg/logger"
	"os"
	"os/signal"
	"syscall"
)

type subscriber interface {
	Subscribe(ctx context.Context, handle func(domain.Event)) error
}

func logEvent(event domain.Event) {
	logger.Info("Received event", "event", event.Event, "timestamp", event.Timestamp, "data", event.Data)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	var sub subscriber
	switch cfg.Events.Broker {
	case "redis":
		client, err := redis.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer redis.CloseRedisClient(client)
		sub = redisRepo.NewEventSubscriber(client, cfg.Events.Channel)
	case "amqp":
		sub = amqpRepo.NewEventSubscriber(cfg.Events.AMQPURL, cfg.Events.Channel)
	case "kafka":
		sub, err = kafkaRepo.NewEventSubscriber(cfg.Events.KafkaServers, cfg.Events.KafkaGroupID, cfg.Events.Channel)
		if err != nil {
			logger.Fatal("Failed to connect to Kafka", err)
		}
	default:
		logger.Info("Event broker disabled, nothing to listen to", "broker", cfg.Events.Broker)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Listening for CRM events", "broker", cfg.Events.Broker, "channel", cfg.Events.Channel)

	if err := sub.Subscribe(ctx, logEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Event subscription failed", err)
	}

	logger.Info("Event listener stopped")
}
