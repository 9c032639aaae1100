package validator

import (
	"testing"

	"wayfare/pkg/logger"
	"wayfare/pkg/model"
)

func testValidator() *ReviewValidator {
	log := logger.New(logger.Config{Level: "error", Format: "json", Service: "test"})
	return NewReviewValidator(log)
}

func validSubmitRequest() *model.SubmitReviewRequest {
	return &model.SubmitReviewRequest{
		PackageID: "pkg-1",
		UserID:    "user-1",
		UserName:  "Asha Rao",
		Rating:    4,
		Title:     "Great trip",
		Comment:   "Would book again.",
	}
}

func TestValidateSubmit(t *testing.T) {
	v := testValidator()

	if err := v.ValidateSubmit(validSubmitRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.SubmitReviewRequest)
	}{
		{"missing package id", func(r *model.SubmitReviewRequest) { r.PackageID = "" }},
		{"missing user id", func(r *model.SubmitReviewRequest) { r.UserID = "" }},
		{"missing user name", func(r *model.SubmitReviewRequest) { r.UserName = "" }},
		{"missing comment", func(r *model.SubmitReviewRequest) { r.Comment = "" }},
		{"whitespace comment", func(r *model.SubmitReviewRequest) { r.Comment = "   " }},
		{"missing rating", func(r *model.SubmitReviewRequest) { r.Rating = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmitRequest()
			tt.mutate(req)
			if err := v.ValidateSubmit(req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	t.Run("out-of-range ratings pass through for clamping", func(t *testing.T) {
		for _, rating := range []int{-1, 1, 5, 6} {
			req := validSubmitRequest()
			req.Rating = rating
			if err := v.ValidateSubmit(req); err != nil {
				t.Errorf("rating %d rejected: %v", rating, err)
			}
		}
	})

	t.Run("optional fields may be empty", func(t *testing.T) {
		req := validSubmitRequest()
		req.Title = ""
		req.UserPhoto = ""
		req.BookingID = ""
		if err := v.ValidateSubmit(req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
