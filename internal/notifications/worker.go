package notifications

import (
	"context"

	"wayfare/pkg/kafka"
	"wayfare/pkg/logger"
)

// Worker consumes notification events and hands them to the mailer.
// Decode and template failures are permanent (straight to DLQ); mail
// delivery failures are transient and retried by the consumer.
type Worker struct {
	mailer Mailer
	log    *logger.Logger
}

func NewWorker(mailer Mailer, log *logger.Logger) *Worker {
	return &Worker{
		mailer: mailer,
		log:    log,
	}
}

// Handle is the kafka.MessageHandler for the notifications topic
func (w *Worker) Handle(ctx context.Context, msg kafka.Message) error {
	var event Event
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode notification event", err)
	}

	template, ok := templateFor(event.Type)
	if !ok {
		w.log.Warn("Unknown notification event type, skipping",
			"type", event.Type,
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	if event.Recipient == "" {
		return kafka.NewPermanentError("notification event has no recipient", nil)
	}

	data := map[string]any{
		"bookingId":    event.BookingID,
		"packageId":    event.PackageID,
		"packageTitle": event.PackageTitle,
		"destination":  event.Destination,
		"userName":     event.UserName,
		"amount":       event.Amount,
		"rating":       event.Rating,
		"occurredAt":   event.OccurredAt,
	}

	if err := w.mailer.Send(ctx, event.Recipient, template, data); err != nil {
		return kafka.NewTransientError("failed to deliver notification mail", err)
	}

	w.log.Info("Notification delivered",
		"type", event.Type,
		"recipient", event.Recipient,
		"event_id", msg.GetEventID(),
	)

	return nil
}
