package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BAProfileRepository struct {
	collection *mongo.Collection
}

func NewBAProfileRepository(db *mongo.Database) *BAProfileRepository {
	return &BAProfileRepository{
		collection: db.Collection(config.BAProfilesCollection),
	}
}

func (r *BAProfileRepository) Insert(ctx context.Context, profile *models.BAProfile) error {
	_, err := r.collection.InsertOne(ctx, profile)
	return translate(err)
}

func (r *BAProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.BAProfile, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

func (r *BAProfileRepository) FindByReferralCode(ctx context.Context, code string) (*models.BAProfile, error) {
	return r.findOne(ctx, bson.M{"referralCode": code})
}

// FindByUsername matches case-insensitively
func (r *BAProfileRepository) FindByUsername(ctx context.Context, username string) (*models.BAProfile, error) {
	pattern := "^" + regexp.QuoteMeta(username) + "$"
	return r.findOne(ctx, bson.M{"username": primitive.Regex{Pattern: pattern, Options: "i"}})
}

func (r *BAProfileRepository) findOne(ctx context.Context, filter bson.M) (*models.BAProfile, error) {
	var profile models.BAProfile
	if err := r.collection.FindOne(ctx, filter).Decode(&profile); err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

// UpdateDetails applies the non-nil fields of req
func (r *BAProfileRepository) UpdateDetails(ctx context.Context, userID string, req models.UpdateBAProfileRequest, at time.Time) (*models.BAProfile, error) {
	set := bson.M{"updatedAt": at}
	fields := map[string]*string{
		"phone":                         req.Phone,
		"expertise":                     req.Expertise,
		"bio":                           req.Bio,
		"companyName":                   req.CompanyName,
		"gstNumber":                     req.GSTNumber,
		"bankDetails.bankName":          req.BankName,
		"bankDetails.accountNumber":     req.AccountNumber,
		"bankDetails.ifscCode":          req.IFSCCode,
		"bankDetails.accountHolderName": req.AccountHolderName,
	}
	for key, value := range fields {
		if value != nil {
			set[key] = *value
		}
	}
	return r.findOneAndUpdate(ctx, bson.M{"userId": userID}, bson.M{"$set": set})
}

// SetKYCStatus records an admin decision on a BA
func (r *BAProfileRepository) SetKYCStatus(ctx context.Context, userID, status, reason string, at time.Time) (*models.BAProfile, error) {
	set := bson.M{"kycStatus": status, "updatedAt": at}
	update := bson.M{"$set": set}
	switch status {
	case models.KYCApproved:
		set["kycApprovedAt"] = at
		update["$unset"] = bson.M{"rejectionReason": ""}
	case models.KYCRejected:
		set["rejectionReason"] = reason
		update["$unset"] = bson.M{"kycApprovedAt": ""}
	}
	return r.findOneAndUpdate(ctx, bson.M{"userId": userID}, update)
}

// CreditEarnings adds a commission to the BA's total and approved earnings
func (r *BAProfileRepository) CreditEarnings(ctx context.Context, userID string, amount float64) error {
	return r.inc(ctx, bson.M{"userId": userID}, bson.M{"totalEarnings": amount, "approvedEarnings": amount})
}

func (r *BAProfileRepository) AddWithdrawn(ctx context.Context, userID string, amount float64) error {
	return r.inc(ctx, bson.M{"userId": userID}, bson.M{"withdrawnEarnings": amount})
}

func (r *BAProfileRepository) IncrementReferredCount(ctx context.Context, userID string) error {
	return r.inc(ctx, bson.M{"userId": userID}, bson.M{"referredCount": 1})
}

func (r *BAProfileRepository) inc(ctx context.Context, filter, fields bson.M) error {
	update := bson.M{"$inc": fields, "$currentDate": bson.M{"updatedAt": true}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BAProfileRepository) ListReferredBy(ctx context.Context, userID string) ([]models.BAProfile, error) {
	return r.find(ctx, bson.M{"referredBy": userID})
}

func (r *BAProfileRepository) ListByKYCStatus(ctx context.Context, status string) ([]models.BAProfile, error) {
	return r.find(ctx, bson.M{"kycStatus": status})
}

func (r *BAProfileRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *BAProfileRepository) CountByKYCStatus(ctx context.Context, status string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"kycStatus": status})
}

func (r *BAProfileRepository) find(ctx context.Context, filter bson.M) ([]models.BAProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	profiles := []models.BAProfile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *BAProfileRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.BAProfile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var profile models.BAProfile
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile); err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}
