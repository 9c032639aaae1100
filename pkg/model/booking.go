package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BookingStatus is the single source of truth for a booking's lifecycle state
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type Booking struct {
	BookingID          string        `json:"bookingId" bson:"_id" validate:"required,min=1,max=120"`
	FullName           string        `json:"fullName" bson:"full_name" validate:"required,min=2,max=100"`
	Email              string        `json:"email" bson:"email" validate:"required,email"`
	PhoneNumber        string        `json:"phoneNumber" bson:"phone_number" validate:"required"`
	Destination        string        `json:"destination" bson:"destination" validate:"required,min=2,max=120"`
	PackageTitle       string        `json:"packageTitle" bson:"package_title" validate:"required,min=2,max=200"`
	NumberOfTravelers  int           `json:"numberOfTravelers" bson:"number_of_travelers" validate:"required,min=1,max=100"`
	StartDate          time.Time     `json:"startDate" bson:"start_date" validate:"required"`
	EndDate            time.Time     `json:"endDate" bson:"end_date" validate:"required"`
	Accommodation      string        `json:"accommodation,omitempty" bson:"accommodation,omitempty" validate:"omitempty,max=200"`
	Transportation     string        `json:"transportation,omitempty" bson:"transportation,omitempty" validate:"omitempty,max=200"`
	SpecialRequests    string        `json:"specialRequests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=1000"`
	Status             BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Cancelled          bool          `json:"cancelled" bson:"-"`
	UserID             string        `json:"userId" bson:"user_id" validate:"required"`
	PackageID          string        `json:"packageId" bson:"package_id" validate:"required"`
	AgencyID           string        `json:"agencyId" bson:"agency_id" validate:"required"`
	PaymentID          string        `json:"paymentId" bson:"payment_id" validate:"required"`
	OrderID            string        `json:"orderId" bson:"order_id" validate:"required"`
	Amount             float64       `json:"amount" bson:"amount" validate:"required,gt=0"`
	CreatedAt          time.Time     `json:"createdAt" bson:"created_at" validate:"omitempty"`
}

// DeriveFields computes the presentation-only fields that are not stored:
// a booking past its end date reads as completed, and the cancelled flag
// mirrors the status so callers never see the two disagree.
func (b *Booking) DeriveFields(now time.Time) {
	if b.Status == BookingStatusConfirmed {
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if b.EndDate.Before(startOfDay) {
			b.Status = BookingStatusCompleted
		}
	}
	b.Cancelled = b.Status == BookingStatusCancelled
}

// StringInt accepts a JSON number or a numeric string. Gateway callbacks
// serialize traveler counts inconsistently across client versions.
type StringInt string

func (s *StringInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	raw = strings.Trim(raw, `"`)
	*s = StringInt(raw)
	return nil
}

func (s StringInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// Int parses the value as a base-10 integer
func (s StringInt) Int() (int, error) {
	n, err := strconv.Atoi(string(s))
	if err != nil {
		return 0, fmt.Errorf("not a valid integer: %q", string(s))
	}
	return n, nil
}

// BookingDetails is the nested booking payload of a confirmation request
type BookingDetails struct {
	BookingID         string    `json:"bookingId"`
	FullName          string    `json:"fullName"`
	Email             string    `json:"email"`
	PhoneNumber       string    `json:"phoneNumber"`
	NumberOfTravelers StringInt `json:"numberOfTravelers"`
	StartDate         string    `json:"startDate"`
	EndDate           string    `json:"endDate"`
	Accommodation     string    `json:"accommodation,omitempty"`
	Transportation    string    `json:"transportation,omitempty"`
	SpecialRequests   string    `json:"specialRequests,omitempty"`
}

// ConfirmBookingRequest is the payment gateway callback payload
type ConfirmBookingRequest struct {
	OrderID           string         `json:"orderId"`
	RazorpayPaymentID string         `json:"razorpayPaymentId"`
	RazorpayOrderID   string         `json:"razorpayOrderId"`
	RazorpaySignature string         `json:"razorpaySignature"`
	UserID            string         `json:"userId"`
	PackageID         string         `json:"packageId"`
	AgencyID          string         `json:"agencyId"`
	Amount            float64        `json:"amount"`
	Destination       string         `json:"destination"`
	PackageTitle      string         `json:"packageTitle"`
	Booking           BookingDetails `json:"booking"`
}

// ConfirmBookingResponse is returned once the booking is materialized
type ConfirmBookingResponse struct {
	Msg       string   `json:"msg"`
	OrderID   string   `json:"orderId"`
	PaymentID string   `json:"paymentId"`
	Booking   *Booking `json:"bookingData"`
}
