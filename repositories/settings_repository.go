package repositories

import (
	"context"
	"errors"

	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStaleVersion is returned when the settings changed since they were read
var ErrStaleVersion = errors.New("commission settings version changed")

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection(config.CommissionSettingsCollection),
	}
}

// Get returns the singleton settings document or ErrNotFound
func (r *SettingsRepository) Get(ctx context.Context) (*models.CommissionSettings, error) {
	var settings models.CommissionSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": models.GlobalSettingsID}).Decode(&settings)
	if err != nil {
		return nil, translate(err)
	}
	return &settings, nil
}

// Save writes settings if the stored version still equals expectedVersion,
// creating the document on first write, and bumps the version.
func (r *SettingsRepository) Save(ctx context.Context, settings models.CommissionSettings, expectedVersion int64) (*models.CommissionSettings, error) {
	filter := bson.M{"_id": models.GlobalSettingsID, "version": expectedVersion}
	if expectedVersion == 0 {
		filter = bson.M{
			"_id": models.GlobalSettingsID,
			"$or": bson.A{
				bson.M{"version": 0},
				bson.M{"version": bson.M{"$exists": false}},
			},
		}
	}
	update := bson.M{
		"$set": bson.M{
			"commissionType":     settings.CommissionType,
			"commissionValue":    settings.CommissionValue,
			"gstPercentage":      settings.GSTPercentage,
			"excludeGSTFromBase": settings.ExcludeGSTFromBase,
			"updatedAt":          settings.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": settings.UpdatedAt},
		"$inc":         bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.CommissionSettings
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved)
	if err != nil {
		// the upsert collides on _id when another writer got there first
		if err = translate(err); errors.Is(err, ErrDuplicate) || errors.Is(err, ErrNotFound) {
			return nil, ErrStaleVersion
		}
		return nil, err
	}
	return &saved, nil
}
