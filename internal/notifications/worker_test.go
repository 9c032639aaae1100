package notifications

import (
	"context"
	"errors"
	"testing"

	"wayfare/pkg/kafka"
)

type mockMailer struct {
	sent []string
	err  error
}

func (m *mockMailer) Send(_ context.Context, recipient, template string, _ map[string]any) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, recipient+":"+template)
	return nil
}

func eventMessage(t *testing.T, event Event) kafka.Message {
	t.Helper()
	return kafka.NewMessage().
		WithKey("BK-1").
		WithValue(event).
		WithEventType(event.Type).
		Build()
}

func TestWorkerHandle(t *testing.T) {
	t.Run("delivers known event", func(t *testing.T) {
		mailer := &mockMailer{}
		w := NewWorker(mailer, testLog())

		msg := eventMessage(t, Event{
			Type:      EventBookingConfirmed,
			Recipient: "asha@example.com",
			BookingID: "BK-1",
		})

		if err := w.Handle(context.Background(), msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(mailer.sent) != 1 || mailer.sent[0] != "asha@example.com:"+TemplateBookingConfirmed {
			t.Errorf("unexpected deliveries: %v", mailer.sent)
		}
	})

	t.Run("undecodable payload is permanent", func(t *testing.T) {
		w := NewWorker(&mockMailer{}, testLog())
		msg := kafka.NewMessage().WithKey("k").WithRawValue([]byte("{not json")).Build()

		err := w.Handle(context.Background(), msg)
		if err == nil {
			t.Fatal("expected error")
		}
		if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
			t.Errorf("expected permanent classification, got %v", kafka.ClassifyError(err))
		}
	})

	t.Run("unknown event type is skipped", func(t *testing.T) {
		mailer := &mockMailer{}
		w := NewWorker(mailer, testLog())
		msg := eventMessage(t, Event{Type: "booking.archived", Recipient: "asha@example.com"})

		if err := w.Handle(context.Background(), msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(mailer.sent) != 0 {
			t.Errorf("expected no deliveries, got %v", mailer.sent)
		}
	})

	t.Run("missing recipient is permanent", func(t *testing.T) {
		w := NewWorker(&mockMailer{}, testLog())
		msg := eventMessage(t, Event{Type: EventBookingConfirmed})

		err := w.Handle(context.Background(), msg)
		if err == nil {
			t.Fatal("expected error")
		}
		if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
			t.Errorf("expected permanent classification, got %v", kafka.ClassifyError(err))
		}
	})

	t.Run("mail failure is transient", func(t *testing.T) {
		w := NewWorker(&mockMailer{err: errors.New("smtp down")}, testLog())
		msg := eventMessage(t, Event{Type: EventBookingConfirmed, Recipient: "asha@example.com"})

		err := w.Handle(context.Background(), msg)
		if err == nil {
			t.Fatal("expected error")
		}
		if kafka.ClassifyError(err) != kafka.ErrorTypeTransient {
			t.Errorf("expected transient classification, got %v", kafka.ClassifyError(err))
		}
	})
}
