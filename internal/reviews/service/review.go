package service

import (
	"context"
	"errors"
	"sync"

	"wayfare/internal/notifications"
	reviewscache "wayfare/internal/reviews/cache"
	reviewserrors "wayfare/internal/reviews/errors"
	"wayfare/internal/reviews/repository"
	"wayfare/internal/reviews/validator"
	"wayfare/pkg/config"
	apperrors "wayfare/pkg/errors"
	"wayfare/pkg/model"
	"wayfare/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewService interface {
	Submit(ctx context.Context, req *model.SubmitReviewRequest) (*model.Review, error)
	GetByPackage(ctx context.Context, packageID string, limit int, offset int64) ([]*model.Review, *model.ReviewStats, error)
	RecomputeRating(ctx context.Context, packageID string) (*model.RatingAggregate, error)
}

type reviewService struct {
	repo       repository.ReviewRepository
	packages   repository.PackageRepository
	validator  *validator.ReviewValidator
	statsCache *reviewscache.StatsCache
	dispatcher notifications.Dispatcher
	agencies   notifications.AgencyDirectory
	cfg        *config.Config
}

func NewReviewService(
	repo repository.ReviewRepository,
	packages repository.PackageRepository,
	validator *validator.ReviewValidator,
	statsCache *reviewscache.StatsCache,
	dispatcher notifications.Dispatcher,
	agencies notifications.AgencyDirectory,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		repo:       repo,
		packages:   packages,
		validator:  validator,
		statsCache: statsCache,
		dispatcher: dispatcher,
		agencies:   agencies,
		cfg:        cfg,
	}
}

// Submit persists a review and recomputes the package aggregate. The
// duplicate check, insert, recompute and package update all run in one
// transaction: concurrent submissions for the same package serialize on
// write conflicts, so the stored aggregate always reflects every review.
// The unique (package_id, user_id) index backstops the duplicate check.
func (s *reviewService) Submit(ctx context.Context, req *model.SubmitReviewRequest) (*model.Review, error) {
	if err := s.validator.ValidateSubmit(req); err != nil {
		s.cfg.Log.Warn("Review submission validation failed", "error", err)
		return nil, apperrors.Validation("Invalid review payload", map[string]any{"error": err.Error()})
	}

	review := s.buildReview(req)
	s.sanitize(review)
	if err := s.validator.Validate(review); err != nil {
		s.cfg.Log.Warn("Review validation failed", "package_id", review.PackageID, "error", err)
		return nil, apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	verified, err := s.repo.HasEligibleBooking(ctx, review.PackageID, review.UserID)
	if err != nil {
		// Advisory badge only: a lookup failure must not block the review
		s.cfg.Log.Warn("Booking eligibility check failed, review will be unverified",
			"package_id", review.PackageID,
			"user_id", review.UserID,
			"error", err,
		)
		verified = false
	}
	review.Verified = verified

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		exists, err := s.repo.ExistsForUser(sessCtx, review.PackageID, review.UserID)
		if err != nil {
			return apperrors.Internal("Failed to check for existing review", err)
		}
		if exists {
			return apperrors.Conflict("You have already reviewed this package")
		}

		if err := s.repo.Insert(sessCtx, review); err != nil {
			if errors.Is(err, reviewserrors.ErrDuplicate) {
				return apperrors.Conflict("You have already reviewed this package")
			}
			return apperrors.Internal("Failed to persist review", err)
		}

		if _, err := s.recomputeLocked(sessCtx, review.PackageID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Review submission failed",
			"package_id", review.PackageID,
			"user_id", review.UserID,
			"error", err,
		)
		return nil, err
	}

	s.statsCache.Invalidate(ctx, review.PackageID)
	s.notifyReviewReceived(ctx, review)

	s.cfg.Log.Info("Review submitted",
		"review_id", review.ReviewID,
		"package_id", review.PackageID,
		"rating", review.Rating,
		"verified", review.Verified,
	)

	return review, nil
}

func (s *reviewService) GetByPackage(ctx context.Context, packageID string, limit int, offset int64) ([]*model.Review, *model.ReviewStats, error) {
	if packageID == "" {
		return nil, nil, apperrors.InvalidInput("packageId is required")
	}

	var reviews []*model.Review
	var stats *model.ReviewStats
	var errFind, errStats error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		reviews, errFind = s.repo.FindByPackage(ctx, packageID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reviews", "package_id", packageID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reviews", errFind)
		}
	}()

	go func() {
		defer wg.Done()
		stats, errStats = s.loadStats(ctx, packageID)
	}()

	wg.Wait()
	if errFind != nil {
		return nil, nil, errFind
	}
	if errStats != nil {
		return nil, nil, errStats
	}

	return reviews, stats, nil
}

// RecomputeRating rebuilds a package's aggregate from scratch. Exposed
// for backfills and consistency checks; the submit path recomputes
// inside its own transaction.
func (s *reviewService) RecomputeRating(ctx context.Context, packageID string) (*model.RatingAggregate, error) {
	if packageID == "" {
		return nil, apperrors.InvalidInput("packageId is required")
	}

	var aggregate *model.RatingAggregate
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		aggregate, err = s.recomputeLocked(sessCtx, packageID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.statsCache.Invalidate(ctx, packageID)
	return aggregate, nil
}

// recomputeLocked reads every rating and writes the aggregate. Full
// recompute, no running sums: drift cannot accumulate across writes.
func (s *reviewService) recomputeLocked(ctx context.Context, packageID string) (*model.RatingAggregate, error) {
	ratings, err := s.repo.RatingsByPackage(ctx, packageID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load ratings for aggregation", err)
	}

	aggregate := computeAggregate(ratings)

	matched, err := s.packages.UpdateRating(ctx, packageID, aggregate)
	if err != nil {
		return nil, apperrors.Internal("Failed to update package rating", err)
	}
	if !matched {
		// Package missing is a logged no-op, never a submission failure
		s.cfg.Log.Warn("No package matched during rating update",
			"package_id", packageID,
			"review_count", aggregate.ReviewCount,
		)
	}

	return &aggregate, nil
}

// --- Helpers ---

func (s *reviewService) buildReview(req *model.SubmitReviewRequest) *model.Review {
	return &model.Review{
		PackageID: req.PackageID,
		UserID:    req.UserID,
		UserName:  req.UserName,
		UserPhoto: req.UserPhoto,
		Rating:    sanitizer.ClampInt(req.Rating, 1, 5),
		Title:     req.Title,
		Comment:   req.Comment,
		BookingID: req.BookingID,
	}
}

func (s *reviewService) sanitize(review *model.Review) {
	review.UserName = sanitizer.NormalizeName(review.UserName)
	review.Title = sanitizer.TrimAndNormalize(review.Title)
	review.Comment = sanitizer.NormalizeFreeText(review.Comment)
}

func (s *reviewService) loadStats(ctx context.Context, packageID string) (*model.ReviewStats, error) {
	if cached, ok := s.statsCache.Get(ctx, packageID); ok {
		return cached, nil
	}

	stats, err := s.repo.StatsByPackage(ctx, packageID)
	if err != nil {
		s.cfg.Log.Error("Failed to aggregate review stats", "package_id", packageID, "error", err)
		return nil, apperrors.Internal("Failed to compute review stats", err)
	}

	s.statsCache.Set(ctx, packageID, stats)
	return stats, nil
}

func (s *reviewService) notifyReviewReceived(ctx context.Context, review *model.Review) {
	pkg, err := s.packages.FindByID(ctx, review.PackageID)
	if err != nil {
		s.cfg.Log.Warn("Could not load package for review notification",
			"package_id", review.PackageID,
			"error", err,
		)
		return
	}

	agencyEmail, err := s.agencies.ContactEmail(ctx, pkg.AgencyID)
	if err != nil {
		s.cfg.Log.Warn("Could not resolve agency contact, skipping review notification",
			"agency_id", pkg.AgencyID,
			"package_id", review.PackageID,
			"error", err,
		)
		return
	}

	s.dispatcher.Enqueue(notifications.Event{
		Type:         notifications.EventReviewReceived,
		Recipient:    agencyEmail,
		PackageID:    review.PackageID,
		PackageTitle: pkg.Title,
		UserName:     review.UserName,
		AgencyID:     pkg.AgencyID,
		Rating:       review.Rating,
	})
}

func computeAggregate(ratings []int) model.RatingAggregate {
	if len(ratings) == 0 {
		return model.RatingAggregate{}
	}

	var sum int
	for _, rating := range ratings {
		sum += rating
	}

	mean := float64(sum) / float64(len(ratings))
	return model.RatingAggregate{
		AverageRating: model.RoundRating(mean),
		ReviewCount:   int64(len(ratings)),
	}
}
