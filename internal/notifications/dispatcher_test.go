package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wayfare/pkg/kafka"
	"wayfare/pkg/logger"
)

type mockPublisher struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	failures int
}

func (m *mockPublisher) Publish(_ context.Context, msg kafka.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return m.err
	}
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockPublisher) published() []kafka.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]kafka.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

func testLog() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", Service: "test"})
}

func testDispatcher(producer Publisher, queueSize int) Dispatcher {
	return NewKafkaDispatcher(producer, DispatcherConfig{
		QueueSize:   queueSize,
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		Source:      "test",
	}, testLog())
}

func TestDispatcherPublishesEvent(t *testing.T) {
	producer := &mockPublisher{}
	d := testDispatcher(producer, 8)

	d.Enqueue(Event{
		Type:      EventBookingConfirmed,
		Recipient: "asha@example.com",
		BookingID: "BK-1",
	})
	d.Stop()

	msgs := producer.published()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(msgs))
	}

	msg := msgs[0]
	if msg.Key != "BK-1" {
		t.Errorf("expected partition key BK-1, got %q", msg.Key)
	}
	if msg.GetEventType() != EventBookingConfirmed {
		t.Errorf("expected event type %q, got %q", EventBookingConfirmed, msg.GetEventType())
	}

	var decoded Event
	if err := msg.DecodeValue(&decoded); err != nil {
		t.Fatalf("failed to decode published event: %v", err)
	}
	if decoded.Recipient != "asha@example.com" {
		t.Errorf("expected recipient preserved, got %q", decoded.Recipient)
	}
	if decoded.OccurredAt.IsZero() {
		t.Error("expected OccurredAt to be stamped")
	}
}

func TestDispatcherRetriesTransientFailure(t *testing.T) {
	producer := &mockPublisher{err: errors.New("connection refused"), failures: 2}
	d := testDispatcher(producer, 8)

	d.Enqueue(Event{Type: EventBookingConfirmed, Recipient: "asha@example.com", BookingID: "BK-1"})
	d.Stop()

	if got := len(producer.published()); got != 1 {
		t.Fatalf("expected publish to succeed after retries, got %d messages", got)
	}
}

func TestDispatcherGivesUpAfterMaxAttempts(t *testing.T) {
	producer := &mockPublisher{err: errors.New("connection refused"), failures: 100}
	d := testDispatcher(producer, 8)

	d.Enqueue(Event{Type: EventBookingConfirmed, Recipient: "asha@example.com", BookingID: "BK-1"})
	d.Stop()

	if got := len(producer.published()); got != 0 {
		t.Fatalf("expected no published messages, got %d", got)
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	producer := &mockPublisher{}
	d := &kafkaDispatcher{
		producer:    producer,
		log:         testLog(),
		queue:       make(chan Event, 1),
		maxAttempts: 1,
		backoff:     time.Millisecond,
		source:      "test",
	}
	// No worker running: the second enqueue finds the queue full

	d.Enqueue(Event{Type: EventBookingConfirmed, Recipient: "a@example.com"})
	d.Enqueue(Event{Type: EventBookingConfirmed, Recipient: "b@example.com"})

	if len(d.queue) != 1 {
		t.Fatalf("expected exactly 1 queued event, got %d", len(d.queue))
	}
}

func TestEventPartitionKey(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"booking id wins", Event{BookingID: "BK-1", PackageID: "pkg-1", Recipient: "a@b.c"}, "BK-1"},
		{"package id next", Event{PackageID: "pkg-1", Recipient: "a@b.c"}, "pkg-1"},
		{"recipient fallback", Event{Recipient: "a@b.c"}, "a@b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.key(); got != tt.want {
				t.Errorf("key() = %q, want %q", got, tt.want)
			}
		})
	}
}
