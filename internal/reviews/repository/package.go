package repository

import (
	"context"
	"fmt"
	"time"

	"wayfare/pkg/config"
	"wayfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const PackageCollectionName = "Packages"

type mongoPackageRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type PackageRepository interface {
	UpdateRating(ctx context.Context, packageID string, aggregate model.RatingAggregate) (bool, error)
	FindByID(ctx context.Context, packageID string) (*model.TravelPackage, error)
}

func NewMongoPackageRepository(cfg *config.Config) PackageRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPackageRepository{
		cfg:        cfg,
		collection: db.Collection(PackageCollectionName),
	}
}

func (r *mongoPackageRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// UpdateRating stores the recomputed aggregate on the package document.
// Returns false when no package matched, which the service logs as a
// no-op rather than failing the review.
func (r *mongoPackageRepository) UpdateRating(ctx context.Context, packageID string, aggregate model.RatingAggregate) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"package_id": packageID}
	update := bson.M{
		"$set": bson.M{
			"rating":       aggregate.AverageRating,
			"review_count": aggregate.ReviewCount,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update package rating: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *mongoPackageRepository) FindByID(ctx context.Context, packageID string) (*model.TravelPackage, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var pkg model.TravelPackage
	err := r.collection.FindOne(ctx, bson.M{"package_id": packageID}).Decode(&pkg)
	if err != nil {
		return nil, fmt.Errorf("failed to find package: %w", err)
	}

	return &pkg, nil
}
