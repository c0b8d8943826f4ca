package repositories

import (
	"context"

	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReferralRepository covers referral codes and the commission ledger
type ReferralRepository struct {
	codes        *mongo.Collection
	transactions *mongo.Collection
}

func NewReferralRepository(db *mongo.Database) *ReferralRepository {
	return &ReferralRepository{
		codes:        db.Collection(config.ReferralCodesCollection),
		transactions: db.Collection(config.ReferralTransactionsCollection),
	}
}

func (r *ReferralRepository) InsertCode(ctx context.Context, code *models.ReferralCode) error {
	_, err := r.codes.InsertOne(ctx, code)
	return translate(err)
}

func (r *ReferralRepository) FindCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	return r.findCode(ctx, bson.M{"code": code})
}

func (r *ReferralRepository) FindCodeByUser(ctx context.Context, userID string) (*models.ReferralCode, error) {
	return r.findCode(ctx, bson.M{"userId": userID})
}

func (r *ReferralRepository) findCode(ctx context.Context, filter bson.M) (*models.ReferralCode, error) {
	var code models.ReferralCode
	if err := r.codes.FindOne(ctx, filter).Decode(&code); err != nil {
		return nil, translate(err)
	}
	return &code, nil
}

// IncrementReferrals counts a booking made with the code
func (r *ReferralRepository) IncrementReferrals(ctx context.Context, code string) error {
	return r.incrementCode(ctx, code, "totalReferrals")
}

// IncrementConversions counts a confirmed, attributed booking
func (r *ReferralRepository) IncrementConversions(ctx context.Context, code string) error {
	return r.incrementCode(ctx, code, "successfulConversions")
}

func (r *ReferralRepository) incrementCode(ctx context.Context, code, field string) error {
	result, err := r.codes.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$inc": bson.M{field: 1}, "$currentDate": bson.M{"updatedAt": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertTransaction appends to the ledger. ErrDuplicate means the booking
// already has a transaction.
func (r *ReferralRepository) InsertTransaction(ctx context.Context, tx *models.ReferralTransaction) error {
	_, err := r.transactions.InsertOne(ctx, tx)
	return translate(err)
}

func (r *ReferralRepository) FindTransactionByBooking(ctx context.Context, bookingID string) (*models.ReferralTransaction, error) {
	var tx models.ReferralTransaction
	if err := r.transactions.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&tx); err != nil {
		return nil, translate(err)
	}
	return &tx, nil
}

// MarkTransactionStep sets a step flag on a ledger row and reports whether
// this call changed it.
func (r *ReferralRepository) MarkTransactionStep(ctx context.Context, txID, step string, done bool) (bool, error) {
	result, err := r.transactions.UpdateOne(ctx,
		bson.M{"_id": txID, step: bson.M{"$ne": done}},
		bson.M{"$set": bson.M{step: done}, "$currentDate": bson.M{"updatedAt": true}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *ReferralRepository) ListTransactionsByReferrer(ctx context.Context, referrerID string) ([]models.ReferralTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.transactions.Find(ctx, bson.M{"referrerId": referrerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	txs := []models.ReferralTransaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// SumBaseCommission totals the commission credited to BAs across the ledger
func (r *ReferralRepository) SumBaseCommission(ctx context.Context) (float64, error) {
	return sumField(ctx, r.transactions, bson.M{"status": models.ReferralTransactionCompleted}, "$baseCommission")
}

// sumField runs a single-group $sum aggregation; an empty match sums to zero
func sumField(ctx context.Context, coll *mongo.Collection, match bson.M, field string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": field}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
