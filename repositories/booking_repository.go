package repositories

import (
	"context"
	"time"

	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingChanges are the optional fields written alongside a status change
type BookingChanges struct {
	AdminNotes    *string
	ServiceAmount *float64
	UpdatedAt     time.Time
}

func (c BookingChanges) set() bson.M {
	set := bson.M{"updatedAt": c.UpdatedAt}
	if c.AdminNotes != nil {
		set["adminNotes"] = *c.AdminNotes
	}
	if c.ServiceAmount != nil {
		set["serviceAmount"] = *c.ServiceAmount
	}
	return set
}

type BookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		collection: db.Collection(config.BookingsCollection),
	}
}

func (r *BookingRepository) Insert(ctx context.Context, booking *models.Booking) error {
	_, err := r.collection.InsertOne(ctx, booking)
	return translate(err)
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

// List returns bookings newest first, narrowed by the non-empty filter fields
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	query := bson.M{}
	if filter.ServiceType != "" {
		query["serviceType"] = filter.ServiceType
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		dateRange := bson.M{}
		if filter.StartDate != nil {
			dateRange["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			dateRange["$lte"] = *filter.EndDate
		}
		query["preferredDate"] = dateRange
	}
	return r.find(ctx, query)
}

func (r *BookingRepository) ListByReferrer(ctx context.Context, referrerID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"referrerId": referrerID})
}

func (r *BookingRepository) find(ctx context.Context, query bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// TransitionStatus writes the new status only if the booking still holds
// from. ErrNotFound means either no such booking or the status moved.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id, from, to string, changes BookingChanges) (*models.Booking, error) {
	set := changes.set()
	set["status"] = to
	return r.findOneAndUpdate(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
}

// UpdateFields changes notes or amount without touching the status
func (r *BookingRepository) UpdateFields(ctx context.Context, id string, changes BookingChanges) (*models.Booking, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": changes.set()})
}

// ClaimAttribution sets the attribution marker on a confirmed booking that
// has none. ErrNotFound means another caller already claimed it.
func (r *BookingRepository) ClaimAttribution(ctx context.Context, id string, at time.Time) (*models.Booking, error) {
	filter := bson.M{
		"_id":         id,
		"status":      models.BookingStatusConfirmed,
		"attribution": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"attribution": models.Attribution{State: models.AttributionClaimed, ClaimedAt: at},
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *BookingRepository) CompleteAttribution(ctx context.Context, id, transactionID string, at time.Time) error {
	return r.finishAttribution(ctx, id, bson.M{
		"attribution.state":         models.AttributionDone,
		"attribution.transactionId": transactionID,
		"attribution.completedAt":   at,
	})
}

func (r *BookingRepository) FailAttribution(ctx context.Context, id, reason string, at time.Time) error {
	return r.finishAttribution(ctx, id, bson.M{
		"attribution.state":       models.AttributionFailed,
		"attribution.error":       reason,
		"attribution.completedAt": at,
	})
}

func (r *BookingRepository) finishAttribution(ctx context.Context, id string, set bson.M) error {
	filter := bson.M{"_id": id, "attribution.state": models.AttributionClaimed}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats counts bookings in total, per status and per service type
func (r *BookingRepository) Stats(ctx context.Context) (*models.BookingStats, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	byStatus, err := r.countBy(ctx, "$status")
	if err != nil {
		return nil, err
	}
	byService, err := r.countBy(ctx, "$serviceType")
	if err != nil {
		return nil, err
	}
	return &models.BookingStats{Total: total, ByStatus: byStatus, ByService: byService}, nil
}

func (r *BookingRepository) countBy(ctx context.Context, field string) ([]models.CountBucket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	buckets := []models.CountBucket{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *BookingRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking); err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}
