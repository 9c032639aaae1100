package notifications

import "time"

// Event types carried on the notifications topic
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventAgencyNewBooking = "agency.new_booking"
	EventReviewReceived   = "review.received"
)

// Event is the payload published for every notification. Recipient is an
// email address; the remaining fields feed the mail template.
type Event struct {
	Type         string    `json:"type"`
	Recipient    string    `json:"recipient"`
	BookingID    string    `json:"bookingId,omitempty"`
	PackageID    string    `json:"packageId,omitempty"`
	PackageTitle string    `json:"packageTitle,omitempty"`
	Destination  string    `json:"destination,omitempty"`
	UserID       string    `json:"userId,omitempty"`
	UserName     string    `json:"userName,omitempty"`
	AgencyID     string    `json:"agencyId,omitempty"`
	Amount       float64   `json:"amount,omitempty"`
	Rating       int       `json:"rating,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// key returns the partition key so all events for one booking or package
// stay ordered on a single partition
func (e Event) key() string {
	if e.BookingID != "" {
		return e.BookingID
	}
	if e.PackageID != "" {
		return e.PackageID
	}
	return e.Recipient
}
