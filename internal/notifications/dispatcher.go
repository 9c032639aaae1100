package notifications

import (
	"context"
	"sync"
	"time"

	"wayfare/pkg/kafka"
	"wayfare/pkg/logger"
)

// Publisher is the slice of the Kafka producer the dispatcher needs
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Dispatcher accepts notification events without blocking the caller.
// Delivery is best-effort: a booking confirmation must not fail because
// the notification pipeline is down.
type Dispatcher interface {
	Enqueue(event Event)
	Stop()
}

type kafkaDispatcher struct {
	producer    Publisher
	log         *logger.Logger
	queue       chan Event
	maxAttempts int
	backoff     time.Duration
	source      string
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

type DispatcherConfig struct {
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
	Source      string
}

func NewKafkaDispatcher(producer Publisher, cfg DispatcherConfig, log *logger.Logger) Dispatcher {
	d := &kafkaDispatcher{
		producer:    producer,
		log:         log,
		queue:       make(chan Event, cfg.QueueSize),
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		source:      cfg.Source,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Enqueue hands the event to the background worker. When the queue is
// full the event is dropped and logged rather than blocking the request.
func (d *kafkaDispatcher) Enqueue(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	select {
	case d.queue <- event:
	default:
		d.log.Warn("Notification queue full, dropping event",
			"type", event.Type,
			"recipient", event.Recipient,
			"booking_id", event.BookingID,
		)
	}
}

func (d *kafkaDispatcher) run() {
	defer d.wg.Done()

	for event := range d.queue {
		d.publish(event)
	}
}

func (d *kafkaDispatcher) publish(event Event) {
	msg := kafka.NewMessage().
		WithKey(event.key()).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(d.source).
		Build()

	var err error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = d.producer.Publish(ctx, msg)
		cancel()

		if err == nil {
			d.log.Debug("Notification event published",
				"type", event.Type,
				"recipient", event.Recipient,
			)
			return
		}

		if attempt < d.maxAttempts {
			time.Sleep(d.backoff * time.Duration(attempt))
		}
	}

	d.log.Error("Failed to publish notification event",
		"type", event.Type,
		"recipient", event.Recipient,
		"attempts", d.maxAttempts,
		"error", err,
	)
}

// Stop drains the queue and waits for the worker to exit
func (d *kafkaDispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}
