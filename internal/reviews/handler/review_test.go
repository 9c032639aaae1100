package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wayfare/internal/reviews/service"
	apperrors "wayfare/pkg/errors"
	"wayfare/pkg/logger"
	"wayfare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockReviewService struct {
	submitFn    func(ctx context.Context, req *model.SubmitReviewRequest) (*model.Review, error)
	getByPkgFn  func(ctx context.Context, packageID string, limit int, offset int64) ([]*model.Review, *model.ReviewStats, error)
	recomputeFn func(ctx context.Context, packageID string) (*model.RatingAggregate, error)
}

func (m *mockReviewService) Submit(ctx context.Context, req *model.SubmitReviewRequest) (*model.Review, error) {
	return m.submitFn(ctx, req)
}

func (m *mockReviewService) GetByPackage(ctx context.Context, packageID string, limit int, offset int64) ([]*model.Review, *model.ReviewStats, error) {
	return m.getByPkgFn(ctx, packageID, limit, offset)
}

func (m *mockReviewService) RecomputeRating(ctx context.Context, packageID string) (*model.RatingAggregate, error) {
	return m.recomputeFn(ctx, packageID)
}

var _ service.ReviewService = (*mockReviewService)(nil)

func newTestRouter(svc *mockReviewService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Format: "json", Service: "test"})
	h := NewReviewHandler(svc, log)
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestSubmitHandler(t *testing.T) {
	t.Run("accepted review returns 201", func(t *testing.T) {
		svc := &mockReviewService{
			submitFn: func(_ context.Context, req *model.SubmitReviewRequest) (*model.Review, error) {
				return &model.Review{
					ReviewID:  "r1",
					PackageID: req.PackageID,
					UserID:    req.UserID,
					Rating:    req.Rating,
					Verified:  true,
				}, nil
			},
		}
		router := newTestRouter(svc)

		body, _ := json.Marshal(model.SubmitReviewRequest{
			PackageID: "pkg-1",
			UserID:    "user-1",
			UserName:  "Asha Rao",
			Rating:    5,
			Comment:   "Great trip",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}

		var resp SubmitReviewResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.Success || resp.Review.ReviewID != "r1" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("duplicate maps to 409", func(t *testing.T) {
		svc := &mockReviewService{
			submitFn: func(_ context.Context, _ *model.SubmitReviewRequest) (*model.Review, error) {
				return nil, apperrors.Conflict("You have already reviewed this package")
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("validation failure maps to 422", func(t *testing.T) {
		svc := &mockReviewService{
			submitFn: func(_ context.Context, _ *model.SubmitReviewRequest) (*model.Review, error) {
				return nil, apperrors.Validation("Invalid review payload", nil)
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("invalid body returns 400", func(t *testing.T) {
		router := newTestRouter(&mockReviewService{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestListByPackageHandler(t *testing.T) {
	t.Run("returns reviews and stats", func(t *testing.T) {
		svc := &mockReviewService{
			getByPkgFn: func(_ context.Context, packageID string, _ int, _ int64) ([]*model.Review, *model.ReviewStats, error) {
				return []*model.Review{{ReviewID: "r1", PackageID: packageID, Rating: 4}},
					&model.ReviewStats{
						TotalReviews:  1,
						AverageRating: 4.0,
						Distribution:  map[int]int64{1: 0, 2: 0, 3: 0, 4: 1, 5: 0},
					}, nil
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews?packageId=pkg-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp ReviewListResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Reviews) != 1 {
			t.Errorf("expected 1 review, got %d", len(resp.Reviews))
		}
		if resp.Stats == nil || resp.Stats.AverageRating != 4.0 {
			t.Errorf("unexpected stats: %+v", resp.Stats)
		}
	})

	t.Run("missing packageId rejected", func(t *testing.T) {
		router := newTestRouter(&mockReviewService{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		svc := &mockReviewService{
			getByPkgFn: func(_ context.Context, _ string, _ int, _ int64) ([]*model.Review, *model.ReviewStats, error) {
				return nil, &model.ReviewStats{Distribution: map[int]int64{}}, nil
			},
		}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews?packageId=pkg-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["reviews"] == nil {
			t.Error("expected reviews to encode as [] not null")
		}
	})
}

func TestRecomputeHandler(t *testing.T) {
	svc := &mockReviewService{
		recomputeFn: func(_ context.Context, packageID string) (*model.RatingAggregate, error) {
			return &model.RatingAggregate{AverageRating: 4.3, ReviewCount: 3}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/packages/pkg-1/recompute", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
