package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "wayfare/internal/bookings/errors"
	"wayfare/internal/bookings/repository"
	"wayfare/internal/bookings/validator"
	"wayfare/internal/notifications"
	"wayfare/pkg/config"
	apperrors "wayfare/pkg/errors"
	"wayfare/pkg/model"
	"wayfare/pkg/payment"
	"wayfare/pkg/sanitizer"
)

type BookingService interface {
	Confirm(ctx context.Context, req *model.ConfirmBookingRequest) (*model.ConfirmBookingResponse, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, userID, packageID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) error
}

type bookingService struct {
	repo       repository.BookingRepository
	validator  *validator.BookingValidator
	verifier   *payment.Verifier
	dispatcher notifications.Dispatcher
	agencies   notifications.AgencyDirectory
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	verifier *payment.Verifier,
	dispatcher notifications.Dispatcher,
	agencies notifications.AgencyDirectory,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		validator:  validator,
		verifier:   verifier,
		dispatcher: dispatcher,
		agencies:   agencies,
		cfg:        cfg,
	}
}

// Confirm verifies the payment callback signature and materializes the
// booking. The write is an upsert keyed by the client-supplied booking id,
// so gateway retries of the same callback converge on one document.
func (s *bookingService) Confirm(ctx context.Context, req *model.ConfirmBookingRequest) (*model.ConfirmBookingResponse, error) {
	input, err := s.validator.ValidateConfirm(req)
	if err != nil {
		s.cfg.Log.Warn("Booking confirmation validation failed", "error", err)
		return nil, apperrors.Validation("Invalid confirmation payload", map[string]any{"error": err.Error()})
	}

	authentic, err := s.verifier.Verify(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		if errors.Is(err, payment.ErrSecretNotConfigured) {
			s.cfg.Log.Error("Payment secret not configured, rejecting confirmation")
			return nil, apperrors.Configuration("Payment verification is not configured", err)
		}
		return nil, apperrors.InvalidInput("orderId, paymentId and signature are required")
	}
	if !authentic {
		s.cfg.Log.Warn("Payment signature verification failed",
			"order_id", req.OrderID,
			"booking_id", req.Booking.BookingID,
		)
		return nil, apperrors.Unauthorized("payment signature verification failed")
	}

	booking := s.buildBooking(req, input)
	s.sanitize(booking)
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "booking_id", booking.BookingID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	stored, err := s.repo.Upsert(ctx, booking)
	if err != nil {
		s.cfg.Log.Error("Failed to persist booking", "booking_id", booking.BookingID, "error", err)
		return nil, apperrors.Internal("Failed to persist booking", err)
	}

	s.notifyConfirmed(ctx, stored)

	stored.DeriveFields(time.Now())
	s.cfg.Log.Info("Booking confirmed",
		"booking_id", stored.BookingID,
		"package_id", stored.PackageID,
		"order_id", stored.OrderID,
	)

	return &model.ConfirmBookingResponse{
		Msg:       "success",
		OrderID:   stored.OrderID,
		PaymentID: stored.PaymentID,
		Booking:   stored,
	}, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	booking.DeriveFields(time.Now())
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	now := time.Now()
	for _, b := range bookings {
		b.DeriveFields(now)
	}

	return bookings, count, nil
}

func (s *bookingService) Search(ctx context.Context, userID, packageID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" && packageID == "" {
		return nil, 0, apperrors.InvalidInput("userId or packageId is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUserAndPackage(ctx, userID, packageID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by search",
				"user_id", userID,
				"package_id", packageID,
				"error", errCount,
			)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByUserAndPackage(ctx, userID, packageID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search bookings",
				"user_id", userID,
				"package_id", packageID,
				"error", errFind,
			)
			errFind = apperrors.Internal("Failed to search bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	now := time.Now()
	for _, b := range bookings {
		b.DeriveFields(now)
	}

	return bookings, count, nil
}

// Cancel transitions a confirmed booking to cancelled. Only confirmed
// bookings may be cancelled; the conditional update makes concurrent
// cancels idempotent at the storage layer.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	err := s.repo.UpdateStatus(ctx, id, model.BookingStatusConfirmed, model.BookingStatusCancelled)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidStatus) {
			return apperrors.Conflict("Only confirmed bookings can be cancelled")
		}
		return apperrors.Internal("Failed to cancel booking", err)
	}

	booking, findErr := s.repo.FindByID(ctx, id)
	if findErr == nil {
		s.dispatcher.Enqueue(notifications.Event{
			Type:         notifications.EventBookingCancelled,
			Recipient:    booking.Email,
			BookingID:    booking.BookingID,
			PackageID:    booking.PackageID,
			PackageTitle: booking.PackageTitle,
			Destination:  booking.Destination,
			UserID:       booking.UserID,
			UserName:     booking.FullName,
		})
	}

	s.cfg.Log.Info("Booking cancelled", "booking_id", id)
	return nil
}

// --- Helpers ---

func (s *bookingService) buildBooking(req *model.ConfirmBookingRequest, input *validator.ConfirmInput) *model.Booking {
	return &model.Booking{
		BookingID:         req.Booking.BookingID,
		FullName:          req.Booking.FullName,
		Email:             req.Booking.Email,
		PhoneNumber:       req.Booking.PhoneNumber,
		Destination:       req.Destination,
		PackageTitle:      req.PackageTitle,
		NumberOfTravelers: input.Travelers,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		Accommodation:     req.Booking.Accommodation,
		Transportation:    req.Booking.Transportation,
		SpecialRequests:   req.Booking.SpecialRequests,
		Status:            model.BookingStatusConfirmed,
		UserID:            req.UserID,
		PackageID:         req.PackageID,
		AgencyID:          req.AgencyID,
		PaymentID:         req.RazorpayPaymentID,
		OrderID:           req.OrderID,
		Amount:            req.Amount,
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.FullName = sanitizer.NormalizeName(b.FullName)
	b.Destination = sanitizer.TrimAndNormalize(b.Destination)
	b.PackageTitle = sanitizer.TrimAndNormalize(b.PackageTitle)
	b.Accommodation = sanitizer.TrimAndNormalize(b.Accommodation)
	b.Transportation = sanitizer.TrimAndNormalize(b.Transportation)
	b.SpecialRequests = sanitizer.NormalizeFreeText(b.SpecialRequests)

	if normalized := sanitizer.SanitizePhone(b.PhoneNumber); normalized != "" {
		b.PhoneNumber = normalized
	}
}

// notifyConfirmed fans out the customer and agency notifications. Both are
// fire-and-forget: failures are logged by the dispatcher, never surfaced
// to the confirmation response.
func (s *bookingService) notifyConfirmed(ctx context.Context, booking *model.Booking) {
	s.dispatcher.Enqueue(notifications.Event{
		Type:         notifications.EventBookingConfirmed,
		Recipient:    booking.Email,
		BookingID:    booking.BookingID,
		PackageID:    booking.PackageID,
		PackageTitle: booking.PackageTitle,
		Destination:  booking.Destination,
		UserID:       booking.UserID,
		UserName:     booking.FullName,
		AgencyID:     booking.AgencyID,
		Amount:       booking.Amount,
	})

	agencyEmail, err := s.agencies.ContactEmail(ctx, booking.AgencyID)
	if err != nil {
		s.cfg.Log.Warn("Could not resolve agency contact, skipping agency notification",
			"agency_id", booking.AgencyID,
			"booking_id", booking.BookingID,
			"error", err,
		)
		return
	}

	s.dispatcher.Enqueue(notifications.Event{
		Type:         notifications.EventAgencyNewBooking,
		Recipient:    agencyEmail,
		BookingID:    booking.BookingID,
		PackageID:    booking.PackageID,
		PackageTitle: booking.PackageTitle,
		Destination:  booking.Destination,
		UserName:     booking.FullName,
		AgencyID:     booking.AgencyID,
		Amount:       booking.Amount,
	})
}
