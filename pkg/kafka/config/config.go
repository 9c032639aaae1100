package kafkaconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvBrokers              = "KAFKA_BROKERS"
	EnvProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"
	EnvProducerRequireAcks  = "KAFKA_PRODUCER_REQUIRE_ACKS"
	EnvProducerCompression  = "KAFKA_PRODUCER_COMPRESSION"
	EnvConsumerStartOffset  = "KAFKA_CONSUMER_START_OFFSET"
	EnvConsumerMinBytes     = "KAFKA_CONSUMER_MIN_BYTES"
	EnvConsumerMaxBytes     = "KAFKA_CONSUMER_MAX_BYTES"
	EnvConsumerMaxWait      = "KAFKA_CONSUMER_MAX_WAIT"
	EnvConsumerMaxRetries   = "KAFKA_CONSUMER_MAX_RETRIES"
	EnvConsumerRetryBackoff = "KAFKA_CONSUMER_RETRY_BACKOFF"
)

const (
	DefaultBrokers              = "localhost:9092"
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 100 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultConsumerStartOffset  = int64(-2) // oldest
	DefaultConsumerMinBytes     = 1
	DefaultConsumerMaxBytes     = 10 * 1024 * 1024
	DefaultConsumerMaxWait      = 500 * time.Millisecond
	DefaultConsumerMaxRetries   = 3
	DefaultConsumerRetryBackoff = 500 * time.Millisecond
)

type Config struct {
	Brokers []string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 = all, 0 = none, 1 = leader only
	ProducerCompression  string // "gzip", "snappy", "lz4", "zstd"

	ConsumerStartOffset  int64 // -1 = newest, -2 = oldest
	ConsumerMinBytes     int
	ConsumerMaxBytes     int
	ConsumerMaxWait      time.Duration
	ConsumerMaxRetries   int
	ConsumerRetryBackoff time.Duration
}

func Load() *Config {
	brokers := strings.Split(getEnvStr(EnvBrokers, DefaultBrokers), ",")
	for i, broker := range brokers {
		brokers[i] = strings.TrimSpace(broker)
	}

	cfg := &Config{
		Brokers: brokers,

		ProducerMaxAttempts:  getEnvInt(EnvProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: getEnvDuration(EnvProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:  getEnvInt(EnvProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  getEnvStr(EnvProducerCompression, DefaultProducerCompression),

		ConsumerStartOffset:  getEnvInt64(EnvConsumerStartOffset, DefaultConsumerStartOffset),
		ConsumerMinBytes:     getEnvInt(EnvConsumerMinBytes, DefaultConsumerMinBytes),
		ConsumerMaxBytes:     getEnvInt(EnvConsumerMaxBytes, DefaultConsumerMaxBytes),
		ConsumerMaxWait:      getEnvDuration(EnvConsumerMaxWait, DefaultConsumerMaxWait),
		ConsumerMaxRetries:   getEnvInt(EnvConsumerMaxRetries, DefaultConsumerMaxRetries),
		ConsumerRetryBackoff: getEnvDuration(EnvConsumerRetryBackoff, DefaultConsumerRetryBackoff),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Kafka configuration validation failed: %v", err))
	}

	return cfg
}

func (cfg *Config) Validate() error {
	if len(cfg.Brokers) == 0 || cfg.Brokers[0] == "" {
		return fmt.Errorf("at least one Kafka broker is required")
	}
	if cfg.ProducerMaxAttempts <= 0 {
		return fmt.Errorf("ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts)
	}
	if cfg.ConsumerMaxBytes < cfg.ConsumerMinBytes {
		return fmt.Errorf("ConsumerMaxBytes (%d) must be >= ConsumerMinBytes (%d)", cfg.ConsumerMaxBytes, cfg.ConsumerMinBytes)
	}
	if cfg.ConsumerMaxRetries < 0 {
		return fmt.Errorf("ConsumerMaxRetries cannot be negative, got: %d", cfg.ConsumerMaxRetries)
	}
	if cfg.ConsumerRetryBackoff < 0 {
		return fmt.Errorf("ConsumerRetryBackoff cannot be negative, got: %s", cfg.ConsumerRetryBackoff)
	}
	return nil
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
