package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "wayfare"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr     = "localhost:6379"
	DefaultStatsCacheTTL = 5 * time.Minute

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultNotificationsTopic    = "wayfare.notifications"
	DefaultNotificationsDLQTopic = "wayfare.notifications.dlq"
	DefaultNotifierGroupID       = "wayfare-notifier"
	DefaultDispatchQueueSize     = 256
	DefaultDispatchMaxAttempts   = 3
	DefaultDispatchBackoff       = 500 * time.Millisecond

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
