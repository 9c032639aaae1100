package kafka

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStartReturnsWhenContextCancelled(t *testing.T) {
	c := &Consumer{
		handler: func(ctx context.Context, msg Message) error { return nil },
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Start() = %v, want context.Canceled", err)
	}
}

func TestProcessMessageBacksOffBetweenRetries(t *testing.T) {
	backoff := 10 * time.Millisecond
	calls := 0

	c := &Consumer{
		maxRetries:   3,
		retryBackoff: backoff,
		handler: func(ctx context.Context, msg Message) error {
			calls++
			if calls < 3 {
				return NewTransientError("smtp relay unavailable", nil)
			}
			return nil
		},
	}

	msg := Message{Key: "BK-1", Value: []byte(`{}`), Headers: map[string]string{}}

	start := time.Now()
	if err := c.processMessage(context.Background(), msg); err != nil {
		t.Fatalf("processMessage() = %v, want nil", err)
	}
	elapsed := time.Since(start)

	if calls != 3 {
		t.Errorf("handler calls = %d, want 3", calls)
	}
	// Two retries with linear backoff: 1*backoff + 2*backoff.
	if want := 3 * backoff; elapsed < want {
		t.Errorf("elapsed = %s, want at least %s between retries", elapsed, want)
	}
}

func TestProcessMessageExhaustsRetriesToCaller(t *testing.T) {
	calls := 0
	c := &Consumer{
		maxRetries:   2,
		retryBackoff: time.Millisecond,
		handler: func(ctx context.Context, msg Message) error {
			calls++
			return NewTransientError("connection refused", nil)
		},
	}

	msg := Message{Key: "BK-2", Value: []byte(`{}`), Headers: map[string]string{}}

	err := c.processMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("processMessage() = nil, want error after retries exhausted")
	}
	if calls != 3 {
		t.Errorf("handler calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestProcessMessagePermanentErrorNotRetried(t *testing.T) {
	calls := 0
	c := &Consumer{
		maxRetries:   3,
		retryBackoff: time.Millisecond,
		handler: func(ctx context.Context, msg Message) error {
			calls++
			return NewPermanentError("malformed event payload", nil)
		},
	}

	msg := Message{Key: "BK-3", Value: []byte(`not json`), Headers: map[string]string{}}

	if err := c.processMessage(context.Background(), msg); err == nil {
		t.Fatal("processMessage() = nil, want error")
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestProcessMessageCancellationWinsOverBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	c := &Consumer{
		maxRetries:   5,
		retryBackoff: time.Hour,
		handler: func(ctx context.Context, msg Message) error {
			calls++
			cancel()
			return NewTransientError("i/o timeout", nil)
		},
	}

	msg := Message{Key: "BK-4", Value: []byte(`{}`), Headers: map[string]string{}}

	done := make(chan error, 1)
	go func() { done <- c.processMessage(ctx, msg) }()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("processMessage() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("processMessage did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}
