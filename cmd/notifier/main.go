package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"wayfare/internal/notifications"
	"wayfare/pkg/config"
	"wayfare/pkg/kafka"
	kafkaconfig "wayfare/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Notifier service")

	mailer := notifications.NewLogMailer(cfg.Log)
	worker := notifications.NewWorker(mailer, cfg.Log)

	kafkaCfg := kafkaconfig.Load()
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.NotificationsTopic,
		cfg.NotifierGroupID,
		cfg.NotificationsDLQTopic,
		worker.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Notification consumer running",
		"topic", cfg.NotificationsTopic,
		"group_id", cfg.NotifierGroupID,
	)

	// Start blocks until the context is cancelled; cancellation is the
	// normal way out, not a failure.
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Notification consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}
