package services

import (
	"context"
	"time"

	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/repositories"
)

// The store interfaces below are satisfied by the Mongo repositories.
// Implementations report missing documents and failed preconditions with
// repositories.ErrNotFound and unique-index violations with
// repositories.ErrDuplicate.

type SettingsStore interface {
	Get(ctx context.Context) (*models.CommissionSettings, error)
	Save(ctx context.Context, settings models.CommissionSettings, expectedVersion int64) (*models.CommissionSettings, error)
}

type BookingStore interface {
	Insert(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	ListByReferrer(ctx context.Context, referrerID string) ([]models.Booking, error)
	TransitionStatus(ctx context.Context, id, from, to string, changes repositories.BookingChanges) (*models.Booking, error)
	UpdateFields(ctx context.Context, id string, changes repositories.BookingChanges) (*models.Booking, error)
	ClaimAttribution(ctx context.Context, id string, at time.Time) (*models.Booking, error)
	CompleteAttribution(ctx context.Context, id, transactionID string, at time.Time) error
	FailAttribution(ctx context.Context, id, reason string, at time.Time) error
	Stats(ctx context.Context) (*models.BookingStats, error)
}

type ReferralStore interface {
	InsertCode(ctx context.Context, code *models.ReferralCode) error
	FindCode(ctx context.Context, code string) (*models.ReferralCode, error)
	FindCodeByUser(ctx context.Context, userID string) (*models.ReferralCode, error)
	IncrementReferrals(ctx context.Context, code string) error
	IncrementConversions(ctx context.Context, code string) error
	InsertTransaction(ctx context.Context, tx *models.ReferralTransaction) error
	FindTransactionByBooking(ctx context.Context, bookingID string) (*models.ReferralTransaction, error)
	MarkTransactionStep(ctx context.Context, txID, step string, done bool) (bool, error)
	ListTransactionsByReferrer(ctx context.Context, referrerID string) ([]models.ReferralTransaction, error)
	SumBaseCommission(ctx context.Context) (float64, error)
}

type BAProfileStore interface {
	Insert(ctx context.Context, profile *models.BAProfile) error
	FindByUserID(ctx context.Context, userID string) (*models.BAProfile, error)
	FindByReferralCode(ctx context.Context, code string) (*models.BAProfile, error)
	FindByUsername(ctx context.Context, username string) (*models.BAProfile, error)
	UpdateDetails(ctx context.Context, userID string, req models.UpdateBAProfileRequest, at time.Time) (*models.BAProfile, error)
	SetKYCStatus(ctx context.Context, userID, status, reason string, at time.Time) (*models.BAProfile, error)
	CreditEarnings(ctx context.Context, userID string, amount float64) error
	AddWithdrawn(ctx context.Context, userID string, amount float64) error
	IncrementReferredCount(ctx context.Context, userID string) error
	ListReferredBy(ctx context.Context, userID string) ([]models.BAProfile, error)
	ListByKYCStatus(ctx context.Context, status string) ([]models.BAProfile, error)
	Count(ctx context.Context) (int64, error)
	CountByKYCStatus(ctx context.Context, status string) (int64, error)
}

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

type CouponStore interface {
	InsertCoupon(ctx context.Context, coupon *models.CouponCode) error
	FindByCode(ctx context.Context, code string) (*models.CouponCode, error)
	FindByID(ctx context.Context, id string) (*models.CouponCode, error)
	Redeem(ctx context.Context, code string, now time.Time) error
	InsertAssignment(ctx context.Context, assignment *models.CouponAssignment) error
	ListAssigned(ctx context.Context, baID string) ([]models.AssignedCoupon, error)
	FindAssigned(ctx context.Context, baID, couponID string) (*models.AssignedCoupon, error)
}

type WithdrawalStore interface {
	Insert(ctx context.Context, req *models.WithdrawalRequest) error
	FindByID(ctx context.Context, id string) (*models.WithdrawalRequest, error)
	ListByBA(ctx context.Context, baID string, limit, offset int64) ([]models.WithdrawalRequest, int64, error)
	ListByStatus(ctx context.Context, status string) ([]models.WithdrawalRequest, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	SumAmount(ctx context.Context, baID, status string) (float64, error)
	Decide(ctx context.Context, id, status, notes string, at time.Time) (*models.WithdrawalRequest, error)
}

// Stores bundles every store the services need
type Stores struct {
	Settings    SettingsStore
	Bookings    BookingStore
	Referrals   ReferralStore
	Profiles    BAProfileStore
	Users       UserStore
	Coupons     CouponStore
	Withdrawals WithdrawalStore
}
