package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wayfare/internal/bookings/service"
	apperrors "wayfare/pkg/errors"
	"wayfare/pkg/logger"
	"wayfare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	confirmFn func(ctx context.Context, req *model.ConfirmBookingRequest) (*model.ConfirmBookingResponse, error)
	getByIDFn func(ctx context.Context, id string) (*model.Booking, error)
	getAllFn  func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	searchFn  func(ctx context.Context, userID, packageID string, limit int, offset int64) ([]*model.Booking, int64, error)
	cancelFn  func(ctx context.Context, id string) error
}

func (m *mockBookingService) Confirm(ctx context.Context, req *model.ConfirmBookingRequest) (*model.ConfirmBookingResponse, error) {
	return m.confirmFn(ctx, req)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.getAllFn(ctx, limit, offset)
}

func (m *mockBookingService) Search(ctx context.Context, userID, packageID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.searchFn(ctx, userID, packageID, limit, offset)
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) error {
	return m.cancelFn(ctx, id)
}

var _ service.BookingService = (*mockBookingService)(nil)

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Format: "json", Service: "test"})
	h := NewBookingHandler(svc, log)
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestConfirmHandler(t *testing.T) {
	t.Run("returns gateway response shape", func(t *testing.T) {
		svc := &mockBookingService{
			confirmFn: func(_ context.Context, req *model.ConfirmBookingRequest) (*model.ConfirmBookingResponse, error) {
				return &model.ConfirmBookingResponse{
					Msg:       "success",
					OrderID:   req.OrderID,
					PaymentID: req.RazorpayPaymentID,
					Booking:   &model.Booking{BookingID: req.Booking.BookingID, Status: model.BookingStatusConfirmed},
				}, nil
			},
		}
		router := newTestRouter(svc)

		body, _ := json.Marshal(model.ConfirmBookingRequest{
			OrderID:           "order_1",
			RazorpayPaymentID: "pay_1",
			Booking:           model.BookingDetails{BookingID: "BK-1"},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["msg"] != "success" {
			t.Errorf("expected msg success, got %v", resp["msg"])
		}
		if resp["orderId"] != "order_1" || resp["paymentId"] != "pay_1" {
			t.Errorf("unexpected ids in response: %v", resp)
		}
		if _, ok := resp["bookingData"]; !ok {
			t.Error("expected bookingData field in response")
		}
	})

	t.Run("forged signature maps to 401", func(t *testing.T) {
		svc := &mockBookingService{
			confirmFn: func(_ context.Context, _ *model.ConfirmBookingRequest) (*model.ConfirmBookingResponse, error) {
				return nil, apperrors.Unauthorized("payment signature verification failed")
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}

		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["code"] != apperrors.CodeUnauthorized {
			t.Errorf("expected code %s, got %v", apperrors.CodeUnauthorized, resp["code"])
		}
	})

	t.Run("missing secret maps to opaque 500", func(t *testing.T) {
		svc := &mockBookingService{
			confirmFn: func(_ context.Context, _ *model.ConfirmBookingRequest) (*model.ConfirmBookingResponse, error) {
				return nil, apperrors.Configuration("Payment verification is not configured", nil)
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}

		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["error"] != "Internal server error" {
			t.Errorf("expected masked error message, got %v", resp["error"])
		}
	})

	t.Run("invalid body returns 400", func(t *testing.T) {
		router := newTestRouter(&mockBookingService{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/confirm", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGetByIDHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockBookingService{
			getByIDFn: func(_ context.Context, id string) (*model.Booking, error) {
				return &model.Booking{BookingID: id, Status: model.BookingStatusConfirmed}, nil
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/BK-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockBookingService{
			getByIDFn: func(_ context.Context, id string) (*model.Booking, error) {
				return nil, apperrors.NotFoundWithID("Booking", id)
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/BK-404", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestListHandler(t *testing.T) {
	t.Run("no filters lists all", func(t *testing.T) {
		svc := &mockBookingService{
			getAllFn: func(_ context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
				return []*model.Booking{{BookingID: "BK-1"}}, 1, nil
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["total_count"] != float64(1) {
			t.Errorf("expected total_count 1, got %v", resp["total_count"])
		}
	})

	t.Run("user filter routes to search", func(t *testing.T) {
		searched := false
		svc := &mockBookingService{
			searchFn: func(_ context.Context, userID, packageID string, _ int, _ int64) ([]*model.Booking, int64, error) {
				searched = true
				if userID != "user-1" {
					t.Errorf("expected userId user-1, got %q", userID)
				}
				return nil, 0, nil
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?userId=user-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if !searched {
			t.Fatal("expected search path to be taken")
		}
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		router := newTestRouter(&mockBookingService{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?limit=abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCancelHandler(t *testing.T) {
	t.Run("success returns 204", func(t *testing.T) {
		svc := &mockBookingService{
			cancelFn: func(_ context.Context, id string) error { return nil },
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/BK-1/cancel", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("non-confirmed returns 409", func(t *testing.T) {
		svc := &mockBookingService{
			cancelFn: func(_ context.Context, _ string) error {
				return apperrors.Conflict("Only confirmed bookings can be cancelled")
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/BK-1/cancel", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}
