package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wayfare/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const agencyCollectionName = "Agencies"

// ErrAgencyNotFound indicates no agency document exists for the id
var ErrAgencyNotFound = errors.New("agency not found")

type Agency struct {
	AgencyID     string `bson:"_id"`
	Name         string `bson:"name"`
	ContactEmail string `bson:"contact_email"`
}

// AgencyDirectory resolves agency contact addresses for notification fan-out
type AgencyDirectory interface {
	ContactEmail(ctx context.Context, agencyID string) (string, error)
}

type mongoAgencyDirectory struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAgencyDirectory(cfg *config.Config) AgencyDirectory {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAgencyDirectory{
		cfg:        cfg,
		collection: db.Collection(agencyCollectionName),
	}
}

func (d *mongoAgencyDirectory) ContactEmail(ctx context.Context, agencyID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var agency Agency
	err := d.collection.FindOne(ctx, bson.M{"_id": agencyID}).Decode(&agency)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrAgencyNotFound
		}
		return "", fmt.Errorf("failed to look up agency: %w", err)
	}

	if agency.ContactEmail == "" {
		return "", fmt.Errorf("agency %s has no contact email", agencyID)
	}

	return agency.ContactEmail, nil
}
