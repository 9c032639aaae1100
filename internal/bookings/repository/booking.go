package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "wayfare/internal/bookings/errors"
	"wayfare/pkg/config"
	mongotx "wayfare/pkg/db/mongo"
	"wayfare/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Upsert(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	FindByUserAndPackage(ctx context.Context, userID, packageID string, limit int, offset int64) ([]*model.Booking, error)
	CountByUserAndPackage(ctx context.Context, userID, packageID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// Upsert writes the booking keyed by its client-supplied id. Repeated
// confirmations with the same id converge on a single document; created_at
// is only set on first insert so retries do not move the creation time.
func (r *mongoBookingRepository) Upsert(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": booking.BookingID}
	update := bson.M{
		"$set": bson.M{
			"full_name":           booking.FullName,
			"email":               booking.Email,
			"phone_number":        booking.PhoneNumber,
			"destination":         booking.Destination,
			"package_title":       booking.PackageTitle,
			"number_of_travelers": booking.NumberOfTravelers,
			"start_date":          booking.StartDate,
			"end_date":            booking.EndDate,
			"accommodation":       booking.Accommodation,
			"transportation":      booking.Transportation,
			"special_requests":    booking.SpecialRequests,
			"status":              booking.Status,
			"user_id":             booking.UserID,
			"package_id":          booking.PackageID,
			"agency_id":           booking.AgencyID,
			"payment_id":          booking.PaymentID,
			"order_id":            booking.OrderID,
			"amount":              booking.Amount,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return nil, fmt.Errorf("failed to upsert booking: %w", err)
	}

	var stored model.Booking
	if err := r.collection.FindOne(ctx, filter).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to read back booking: %w", err)
	}

	return &stored, nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if id == "" {
		return nil, bookingserrors.ErrInvalidID
	}

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindByUserAndPackage(ctx context.Context, userID, packageID string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := r.buildSearchFilter(userID, packageID)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByUserAndPackage(ctx context.Context, userID, packageID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, r.buildSearchFilter(userID, packageID))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings by search: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) buildSearchFilter(userID, packageID string) bson.M {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}
	if packageID != "" {
		filter["package_id"] = packageID
	}
	return filter
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

// UpdateStatus transitions a booking from one status to another. The filter
// includes the expected current status so concurrent transitions cannot
// double-apply; a miss is reported as ErrInvalidStatus when the booking
// exists and ErrNotFound when it does not.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return fmt.Errorf("failed to check booking existence: %w", countErr)
		}
		if count == 0 {
			return bookingserrors.ErrNotFound
		}
		return bookingserrors.ErrInvalidStatus
	}

	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
