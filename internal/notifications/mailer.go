package notifications

import (
	"context"
	"fmt"

	"wayfare/pkg/logger"
)

// Mail templates rendered by the notifier
const (
	TemplateBookingConfirmed = "booking_confirmed"
	TemplateBookingCancelled = "booking_cancelled"
	TemplateAgencyNewBooking = "agency_new_booking"
	TemplateReviewReceived   = "review_received"
)

// Mailer delivers a rendered notification to a recipient
type Mailer interface {
	Send(ctx context.Context, recipient, template string, data map[string]any) error
}

// logMailer writes mail to the log instead of an SMTP relay. Used in
// development and as the fallback when mail credentials are absent.
type logMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) Mailer {
	return &logMailer{log: log}
}

func (m *logMailer) Send(_ context.Context, recipient, template string, data map[string]any) error {
	if recipient == "" {
		return fmt.Errorf("mail recipient cannot be empty")
	}
	m.log.Info("Mail delivered",
		"recipient", recipient,
		"template", template,
		"data", data,
	)
	return nil
}

// templateFor maps an event type to its mail template
func templateFor(eventType string) (string, bool) {
	switch eventType {
	case EventBookingConfirmed:
		return TemplateBookingConfirmed, true
	case EventBookingCancelled:
		return TemplateBookingCancelled, true
	case EventAgencyNewBooking:
		return TemplateAgencyNewBooking, true
	case EventReviewReceived:
		return TemplateReviewReceived, true
	default:
		return "", false
	}
}
