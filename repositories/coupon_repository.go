package repositories

import (
	"context"
	"time"

	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CouponRepository covers coupon codes and their BA assignments
type CouponRepository struct {
	coupons     *mongo.Collection
	assignments *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{
		coupons:     db.Collection(config.CouponCodesCollection),
		assignments: db.Collection(config.CouponAssignmentsCollection),
	}
}

func (r *CouponRepository) InsertCoupon(ctx context.Context, coupon *models.CouponCode) error {
	_, err := r.coupons.InsertOne(ctx, coupon)
	return translate(err)
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*models.CouponCode, error) {
	return r.findCoupon(ctx, bson.M{"code": code})
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (*models.CouponCode, error) {
	return r.findCoupon(ctx, bson.M{"_id": id})
}

func (r *CouponRepository) findCoupon(ctx context.Context, filter bson.M) (*models.CouponCode, error) {
	var coupon models.CouponCode
	if err := r.coupons.FindOne(ctx, filter).Decode(&coupon); err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

// Redeem counts one use of the coupon, provided it is still active,
// unexpired and under its global limit. ErrNotFound means it is not.
func (r *CouponRepository) Redeem(ctx context.Context, code string, now time.Time) error {
	filter := bson.M{
		"code":     code,
		"isActive": true,
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"expiryDate": bson.M{"$exists": false}},
				bson.M{"expiryDate": nil},
				bson.M{"expiryDate": bson.M{"$gte": now}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"globalUsageLimit": bson.M{"$exists": false}},
				bson.M{"globalUsageLimit": 0},
				bson.M{"$expr": bson.M{"$lt": bson.A{"$globalUsageCount", "$globalUsageLimit"}}},
			}},
		},
	}
	update := bson.M{"$inc": bson.M{"globalUsageCount": 1}, "$set": bson.M{"updatedAt": now}}
	result, err := r.coupons.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertAssignment returns ErrDuplicate when the BA already holds the coupon
func (r *CouponRepository) InsertAssignment(ctx context.Context, assignment *models.CouponAssignment) error {
	_, err := r.assignments.InsertOne(ctx, assignment)
	return translate(err)
}

// ListAssigned joins each of the BA's assignments with its coupon
func (r *CouponRepository) ListAssigned(ctx context.Context, baID string) ([]models.AssignedCoupon, error) {
	return r.assigned(ctx, bson.M{"baId": baID})
}

func (r *CouponRepository) FindAssigned(ctx context.Context, baID, couponID string) (*models.AssignedCoupon, error) {
	rows, err := r.assigned(ctx, bson.M{"baId": baID, "couponId": couponID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *CouponRepository) assigned(ctx context.Context, match bson.M) ([]models.AssignedCoupon, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         config.CouponCodesCollection,
			"localField":   "couponId",
			"foreignField": "_id",
			"as":           "coupon",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$coupon", "preserveNullAndEmptyArrays": true}}},
	}
	cursor, err := r.assignments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := []models.AssignedCoupon{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
