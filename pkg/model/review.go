package model

import (
	"math"
	"time"
)

type Review struct {
	ReviewID  string    `json:"id" bson:"_id,omitempty"`
	PackageID string    `json:"packageId" bson:"package_id" validate:"required"`
	UserID    string    `json:"userId" bson:"user_id" validate:"required"`
	UserName  string    `json:"userName" bson:"user_name" validate:"required,min=1,max=100"`
	UserPhoto string    `json:"userPhoto,omitempty" bson:"user_photo,omitempty" validate:"omitempty,max=500"`
	Rating    int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,max=200"`
	Comment   string    `json:"comment" bson:"comment" validate:"required,min=1,max=2000"`
	BookingID string    `json:"bookingId,omitempty" bson:"booking_id,omitempty"`
	Verified  bool      `json:"verified" bson:"verified"`
	Helpful   int64     `json:"helpful" bson:"helpful"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// SubmitReviewRequest is the inbound review submission payload
type SubmitReviewRequest struct {
	PackageID string `json:"packageId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto,omitempty"`
	Rating    int    `json:"rating"`
	Title     string `json:"title,omitempty"`
	Comment   string `json:"comment"`
	BookingID string `json:"bookingId,omitempty"`
}

// RatingAggregate is the recomputed rating state for a package
type RatingAggregate struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

// RoundRating rounds a mean rating to one decimal, the precision stored
// on packages and reported in review stats.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// ReviewStats summarizes a package's reviews for listing responses
type ReviewStats struct {
	TotalReviews  int64         `json:"totalReviews"`
	AverageRating float64       `json:"averageRating"`
	Distribution  map[int]int64 `json:"distribution"`
}
