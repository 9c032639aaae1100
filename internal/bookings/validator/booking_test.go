package validator

import (
	"testing"
	"time"

	"wayfare/pkg/logger"
	"wayfare/pkg/model"
)

func testValidator(t *testing.T) *BookingValidator {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: "json", Service: "test"})
	return NewBookingValidator(log)
}

func validConfirmRequest() *model.ConfirmBookingRequest {
	return &model.ConfirmBookingRequest{
		OrderID:           "order_1",
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig",
		UserID:            "user-1",
		PackageID:         "pkg-1",
		AgencyID:          "agency-1",
		Amount:            4999.0,
		Destination:       "Bali",
		PackageTitle:      "Bali Escape",
		Booking: model.BookingDetails{
			BookingID:         "BK-1",
			FullName:          "Asha Rao",
			Email:             "asha@example.com",
			PhoneNumber:       "+919876543210",
			NumberOfTravelers: "2",
			StartDate:         "2026-10-01",
			EndDate:           "2026-10-08",
		},
	}
}

func TestValidateConfirm(t *testing.T) {
	v := testValidator(t)

	t.Run("valid request with string travelers", func(t *testing.T) {
		input, err := v.ValidateConfirm(validConfirmRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if input.Travelers != 2 {
			t.Errorf("expected 2 travelers, got %d", input.Travelers)
		}
		want := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		if !input.StartDate.Equal(want) {
			t.Errorf("expected start date %v, got %v", want, input.StartDate)
		}
	})

	t.Run("malformed travelers rejected", func(t *testing.T) {
		req := validConfirmRequest()
		req.Booking.NumberOfTravelers = "two"
		if _, err := v.ValidateConfirm(req); err == nil {
			t.Fatal("expected error for non-numeric travelers")
		}
	})

	t.Run("zero travelers rejected", func(t *testing.T) {
		req := validConfirmRequest()
		req.Booking.NumberOfTravelers = "0"
		if _, err := v.ValidateConfirm(req); err == nil {
			t.Fatal("expected error for zero travelers")
		}
	})

	t.Run("negative travelers rejected", func(t *testing.T) {
		req := validConfirmRequest()
		req.Booking.NumberOfTravelers = "-3"
		if _, err := v.ValidateConfirm(req); err == nil {
			t.Fatal("expected error for negative travelers")
		}
	})

	t.Run("missing booking id rejected", func(t *testing.T) {
		req := validConfirmRequest()
		req.Booking.BookingID = ""
		if _, err := v.ValidateConfirm(req); err == nil {
			t.Fatal("expected error for missing booking id")
		}
	})

	t.Run("end before start rejected", func(t *testing.T) {
		req := validConfirmRequest()
		req.Booking.StartDate = "2026-10-08"
		req.Booking.EndDate = "2026-10-01"
		if _, err := v.ValidateConfirm(req); err == nil {
			t.Fatal("expected error for end date before start date")
		}
	})

	t.Run("bad date format rejected", func(t *testing.T) {
		req := validConfirmRequest()
		req.Booking.StartDate = "01/10/2026"
		if _, err := v.ValidateConfirm(req); err == nil {
			t.Fatal("expected error for bad date format")
		}
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		req := validConfirmRequest()
		req.Amount = 0
		if _, err := v.ValidateConfirm(req); err == nil {
			t.Fatal("expected error for zero amount")
		}
	})

	t.Run("multiple errors reported together", func(t *testing.T) {
		req := validConfirmRequest()
		req.UserID = ""
		req.PackageID = ""
		_, err := v.ValidateConfirm(req)
		verrs, ok := err.(ValidationErrors)
		if !ok {
			t.Fatalf("expected ValidationErrors, got %T", err)
		}
		if len(verrs) != 2 {
			t.Errorf("expected 2 errors, got %d: %v", len(verrs), verrs)
		}
	})
}

func TestValidateBooking(t *testing.T) {
	v := testValidator(t)

	booking := &model.Booking{
		BookingID:         "BK-1",
		FullName:          "Asha Rao",
		Email:             "asha@example.com",
		PhoneNumber:       "+919876543210",
		Destination:       "Bali",
		PackageTitle:      "Bali Escape",
		NumberOfTravelers: 2,
		StartDate:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC),
		Status:            model.BookingStatusConfirmed,
		UserID:            "user-1",
		PackageID:         "pkg-1",
		AgencyID:          "agency-1",
		PaymentID:         "pay_1",
		OrderID:           "order_1",
		Amount:            4999.0,
	}

	if err := v.Validate(booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("bad email", func(t *testing.T) {
		b := *booking
		b.Email = "not-an-email"
		if err := v.Validate(&b); err == nil {
			t.Fatal("expected error for bad email")
		}
	})

	t.Run("bad status", func(t *testing.T) {
		b := *booking
		b.Status = "paused"
		if err := v.Validate(&b); err == nil {
			t.Fatal("expected error for unknown status")
		}
	})

	t.Run("end before start", func(t *testing.T) {
		b := *booking
		b.EndDate = b.StartDate.AddDate(0, 0, -1)
		if err := v.Validate(&b); err == nil {
			t.Fatal("expected error for end date before start date")
		}
	})
}
