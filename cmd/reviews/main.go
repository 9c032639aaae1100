package main

import (
	"wayfare/internal/notifications"
	"wayfare/internal/reviews/cache"
	"wayfare/internal/reviews/handler"
	"wayfare/internal/reviews/repository"
	"wayfare/internal/reviews/service"
	"wayfare/internal/reviews/validator"
	"wayfare/pkg/app"
	"wayfare/pkg/config"
	"wayfare/pkg/kafka"
	kafkaconfig "wayfare/pkg/kafka/config"
)

const ServiceName = "reviews"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reviews service")

	producer := initProducer(cfg)
	dispatcher := notifications.NewKafkaDispatcher(producer, notifications.DispatcherConfig{
		QueueSize:   cfg.DispatchQueueSize,
		MaxAttempts: cfg.DispatchMaxAttempts,
		Backoff:     cfg.DispatchBackoff,
		Source:      ServiceName,
	}, cfg.Log)

	reviewService := initServices(cfg, dispatcher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewReviewHandler(reviewService, cfg.Log))
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

func initServices(cfg *config.Config, dispatcher notifications.Dispatcher) service.ReviewService {
	reviewValidator := validator.NewReviewValidator(cfg.Log)
	reviewRepo := repository.NewMongoReviewRepository(cfg)
	packageRepo := repository.NewMongoPackageRepository(cfg)
	agencies := notifications.NewMongoAgencyDirectory(cfg)
	statsCache := cache.NewStatsCache(cfg.Client.Redis, cfg.StatsCacheTTL, cfg.Log)

	reviewService := service.NewReviewService(
		reviewRepo,
		packageRepo,
		reviewValidator,
		statsCache,
		dispatcher,
		agencies,
		cfg,
	)

	cfg.Log.Info("Review service initialized", "database", cfg.MongoDatabaseName)
	return reviewService
}
