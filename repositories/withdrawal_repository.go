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

type WithdrawalRepository struct {
	collection *mongo.Collection
}

func NewWithdrawalRepository(db *mongo.Database) *WithdrawalRepository {
	return &WithdrawalRepository{
		collection: db.Collection(config.WithdrawalRequestsCollection),
	}
}

func (r *WithdrawalRepository) Insert(ctx context.Context, req *models.WithdrawalRequest) error {
	_, err := r.collection.InsertOne(ctx, req)
	return translate(err)
}

func (r *WithdrawalRepository) FindByID(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

// ListByBA returns one page of the BA's withdrawals, newest first, and the total count
func (r *WithdrawalRepository) ListByBA(ctx context.Context, baID string, limit, offset int64) ([]models.WithdrawalRequest, int64, error) {
	filter := bson.M{"baId": baID}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)
	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status string) ([]models.WithdrawalRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"status": status}, opts)
}

func (r *WithdrawalRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

// SumAmount totals withdrawals in a status; an empty baID sums across all BAs
func (r *WithdrawalRepository) SumAmount(ctx context.Context, baID, status string) (float64, error) {
	match := bson.M{"status": status}
	if baID != "" {
		match["baId"] = baID
	}
	return sumField(ctx, r.collection, match, "$amount")
}

// Decide moves a withdrawal out of PENDING. ErrNotFound means it was
// missing or already decided.
func (r *WithdrawalRepository) Decide(ctx context.Context, id, status, notes string, at time.Time) (*models.WithdrawalRequest, error) {
	set := bson.M{"status": status, "updatedAt": at}
	if notes != "" {
		set["adminNotes"] = notes
	}
	if status == models.WithdrawalApproved {
		set["approvedAt"] = at
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var req models.WithdrawalRequest
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.WithdrawalPending},
		bson.M{"$set": set},
		opts,
	).Decode(&req)
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *WithdrawalRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.WithdrawalRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.WithdrawalRequest{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
