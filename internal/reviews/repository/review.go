package repository

import (
	"context"
	"fmt"
	"time"

	reviewserrors "wayfare/internal/reviews/errors"
	"wayfare/pkg/config"
	mongotx "wayfare/pkg/db/mongo"
	"wayfare/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName        = "Reviews"
	bookingCollectionName = "Bookings"
)

type mongoReviewRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	bookings   *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ReviewRepository interface {
	Insert(ctx context.Context, review *model.Review) error
	FindByPackage(ctx context.Context, packageID string, limit int, offset int64) ([]*model.Review, error)
	CountByPackage(ctx context.Context, packageID string) (int64, error)
	ExistsForUser(ctx context.Context, packageID, userID string) (bool, error)
	RatingsByPackage(ctx context.Context, packageID string) ([]int, error)
	StatsByPackage(ctx context.Context, packageID string) (*model.ReviewStats, error)
	HasEligibleBooking(ctx context.Context, packageID, userID string) (bool, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoReviewRepository(cfg *config.Config) ReviewRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReviewRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		bookings:   db.Collection(bookingCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoReviewRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// Insert writes the review. The unique (package_id, user_id) index is the
// storage-level backstop for one-review-per-user; a duplicate key surfaces
// as ErrDuplicate.
func (r *mongoReviewRepository) Insert(ctx context.Context, review *model.Review) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if review.ReviewID == "" {
		review.ReviewID = uuid.New().String()
	}
	review.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reviewserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

func (r *mongoReviewRepository) FindByPackage(ctx context.Context, packageID string, limit int, offset int64) ([]*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"package_id": packageID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*model.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

func (r *mongoReviewRepository) CountByPackage(ctx context.Context, packageID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"package_id": packageID})
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

func (r *mongoReviewRepository) ExistsForUser(ctx context.Context, packageID, userID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"package_id": packageID,
		"user_id":    userID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}

	return count > 0, nil
}

// RatingsByPackage loads every rating for the package. The aggregate is a
// full recompute, not an incremental update, so drift can never accumulate.
func (r *mongoReviewRepository) RatingsByPackage(ctx context.Context, packageID string) ([]int, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"rating": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"package_id": packageID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Rating int `bson:"rating"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}

	ratings := make([]int, 0, len(docs))
	for _, doc := range docs {
		ratings = append(ratings, doc.Rating)
	}

	return ratings, nil
}

// StatsByPackage groups reviews by rating server-side
func (r *mongoReviewRepository) StatsByPackage(ctx context.Context, packageID string) (*model.ReviewStats, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"package_id": packageID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$rating",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate review stats: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []struct {
		Rating int   `bson:"_id"`
		Count  int64 `bson:"count"`
	}
	if err = cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode review stats: %w", err)
	}

	stats := &model.ReviewStats{
		Distribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	var sum int64
	for _, bucket := range buckets {
		stats.Distribution[bucket.Rating] = bucket.Count
		stats.TotalReviews += bucket.Count
		sum += int64(bucket.Rating) * bucket.Count
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = model.RoundRating(float64(sum) / float64(stats.TotalReviews))
	}

	return stats, nil
}

// HasEligibleBooking reports whether the user holds a confirmed or
// completed booking for the package. Cancelled bookings never qualify.
func (r *mongoReviewRepository) HasEligibleBooking(ctx context.Context, packageID, userID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.bookings.CountDocuments(ctx, bson.M{
		"package_id": packageID,
		"user_id":    userID,
		"status":     bson.M{"$in": []string{string(model.BookingStatusConfirmed), string(model.BookingStatusCompleted)}},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check booking eligibility: %w", err)
	}

	return count > 0, nil
}

func (r *mongoReviewRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
