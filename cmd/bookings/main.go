package main

import (
	"wayfare/internal/bookings/handler"
	"wayfare/internal/bookings/repository"
	"wayfare/internal/bookings/service"
	"wayfare/internal/bookings/validator"
	"wayfare/internal/notifications"
	"wayfare/pkg/app"
	"wayfare/pkg/config"
	"wayfare/pkg/kafka"
	kafkaconfig "wayfare/pkg/kafka/config"
	"wayfare/pkg/payment"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	dispatcher := notifications.NewKafkaDispatcher(producer, notifications.DispatcherConfig{
		QueueSize:   cfg.DispatchQueueSize,
		MaxAttempts: cfg.DispatchMaxAttempts,
		Backoff:     cfg.DispatchBackoff,
		Source:      ServiceName,
	}, cfg.Log)

	bookingService := initServices(cfg, dispatcher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.OnShutdown(dispatcher.Stop)
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafkaconfig.Load()
	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationsTopic, cfg.NotificationsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	return producer
}

func initServices(cfg *config.Config, dispatcher notifications.Dispatcher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	agencies := notifications.NewMongoAgencyDirectory(cfg)
	verifier := payment.NewVerifier(cfg.GatewaySigningSecret)

	bookingService := service.NewBookingService(
		bookingRepo,
		bookingValidator,
		verifier,
		dispatcher,
		agencies,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
