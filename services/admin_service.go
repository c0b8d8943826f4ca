package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/repositories"
)

// AdminService covers BA vetting, coupons, payouts and the dashboard
type AdminService struct {
	profiles    BAProfileStore
	users       UserStore
	referrals   ReferralStore
	withdrawals WithdrawalStore
	coupons     CouponStore
	now         func() time.Time
}

func NewAdminService(stores Stores) *AdminService {
	return &AdminService{
		profiles:    stores.Profiles,
		users:       stores.Users,
		referrals:   stores.Referrals,
		withdrawals: stores.Withdrawals,
		coupons:     stores.Coupons,
		now:         time.Now,
	}
}

// PendingBAs lists BAs awaiting KYC review
func (s *AdminService) PendingBAs(ctx context.Context) ([]models.BAWithProfile, error) {
	profiles, err := s.profiles.ListByKYCStatus(ctx, models.KYCPending)
	if err != nil {
		return nil, InternalError("Failed to fetch pending BAs", err)
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, InternalError("Failed to fetch pending BAs", err)
	}

	result := make([]models.BAWithProfile, 0, len(profiles))
	for _, p := range profiles {
		entry := models.BAWithProfile{Profile: p}
		if u, ok := users[p.UserID]; ok {
			entry.User = *u.Summary()
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *AdminService) ApproveBA(ctx context.Context, baID string) (*models.BAProfile, error) {
	return s.setKYC(ctx, baID, models.KYCApproved, "")
}

func (s *AdminService) RejectBA(ctx context.Context, baID, reason string) (*models.BAProfile, error) {
	return s.setKYC(ctx, baID, models.KYCRejected, strings.TrimSpace(reason))
}

func (s *AdminService) setKYC(ctx context.Context, baID, status, reason string) (*models.BAProfile, error) {
	profile, err := s.profiles.SetKYCStatus(ctx, baID, status, reason, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundErrorf("BA profile not found")
	}
	if err != nil {
		config.LogError(config.GetLogger(), "AdminService", "setKYC", "updating KYC status", baID, err)
		return nil, InternalError("Failed to update BA status", err)
	}
	return profile, nil
}

// DashboardStats gathers the admin overview counters
func (s *AdminService) DashboardStats(ctx context.Context) (*models.AdminDashboardStats, error) {
	var stats models.AdminDashboardStats
	var err error

	if stats.TotalBAs, err = s.users.CountByRole(ctx, models.RoleBA); err != nil {
		return nil, InternalError("Failed to fetch dashboard stats", err)
	}
	if stats.PendingKYC, err = s.profiles.CountByKYCStatus(ctx, models.KYCPending); err != nil {
		return nil, InternalError("Failed to fetch dashboard stats", err)
	}
	if stats.PendingWithdrawals, err = s.withdrawals.CountByStatus(ctx, models.WithdrawalPending); err != nil {
		return nil, InternalError("Failed to fetch dashboard stats", err)
	}
	if stats.TotalPayoutProcessed, err = s.withdrawals.SumAmount(ctx, "", models.WithdrawalApproved); err != nil {
		return nil, InternalError("Failed to fetch dashboard stats", err)
	}
	if stats.TotalCommissionPaid, err = s.referrals.SumBaseCommission(ctx); err != nil {
		return nil, InternalError("Failed to fetch dashboard stats", err)
	}
	return &stats, nil
}

func (s *AdminService) CreateCoupon(ctx context.Context, req models.CreateCouponRequest) (*models.CouponCode, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, ValidationErrorf("Coupon code is required")
	}
	if req.DiscountPercentage <= 0 && req.DiscountAmount <= 0 {
		return nil, ValidationErrorf("A coupon needs a discount percentage or a discount amount")
	}
	if req.DiscountPercentage > 100 {
		return nil, ValidationErrorf("Discount percentage cannot exceed 100")
	}
	now := s.now()
	if req.ExpiryDate != nil && !req.ExpiryDate.After(now) {
		return nil, ValidationErrorf("Expiry date must be in the future")
	}

	if _, err := s.coupons.FindByCode(ctx, code); err == nil {
		return nil, ConflictErrorf("Coupon code already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, InternalError("Failed to create coupon", err)
	}

	coupon := &models.CouponCode{
		ID:                 uuid.New().String(),
		Code:               code,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		GlobalUsageLimit:   req.GlobalUsageLimit,
		ExpiryDate:         req.ExpiryDate,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.coupons.InsertCoupon(ctx, coupon); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ConflictErrorf("Coupon code already exists")
		}
		return nil, InternalError("Failed to create coupon", err)
	}
	return coupon, nil
}

func (s *AdminService) AssignCoupon(ctx context.Context, req models.AssignCouponRequest) (*models.CouponAssignment, error) {
	if _, err := s.coupons.FindByID(ctx, req.CouponID); errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundErrorf("Coupon not found")
	} else if err != nil {
		return nil, InternalError("Failed to assign coupon", err)
	}
	if _, err := s.profiles.FindByUserID(ctx, req.BAID); errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundErrorf("BA profile not found")
	} else if err != nil {
		return nil, InternalError("Failed to assign coupon", err)
	}

	now := s.now()
	assignment := &models.CouponAssignment{
		ID:                uuid.New().String(),
		CouponID:          req.CouponID,
		BAID:              req.BAID,
		PerUserUsageLimit: req.PerUserUsageLimit,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.coupons.InsertAssignment(ctx, assignment); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ConflictErrorf("Coupon already assigned to this BA")
		}
		return nil, InternalError("Failed to assign coupon", err)
	}
	return assignment, nil
}

// PendingWithdrawals lists open payout requests with their requesters
func (s *AdminService) PendingWithdrawals(ctx context.Context) ([]models.WithdrawalWithBA, error) {
	pending, err := s.withdrawals.ListByStatus(ctx, models.WithdrawalPending)
	if err != nil {
		return nil, InternalError("Failed to fetch pending withdrawals", err)
	}

	ids := make([]string, 0, len(pending))
	for _, w := range pending {
		ids = append(ids, w.BAID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, InternalError("Failed to fetch pending withdrawals", err)
	}

	result := make([]models.WithdrawalWithBA, 0, len(pending))
	for _, w := range pending {
		entry := models.WithdrawalWithBA{WithdrawalRequest: w}
		if u, ok := users[w.BAID]; ok {
			entry.BA = u.Summary()
		}
		result = append(result, entry)
	}
	return result, nil
}

// ApproveWithdrawal pays out a pending request and records it against the BA
func (s *AdminService) ApproveWithdrawal(ctx context.Context, id, notes string) (*models.WithdrawalRequest, error) {
	req, err := s.decide(ctx, id, models.WithdrawalApproved, notes)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.AddWithdrawn(ctx, req.BAID, req.Amount); err != nil {
		config.LogError(config.GetLogger(), "AdminService", "ApproveWithdrawal", "recording withdrawn earnings", req, err)
		return nil, InternalError("Withdrawal approved but BA balance could not be updated", err)
	}
	return req, nil
}

func (s *AdminService) RejectWithdrawal(ctx context.Context, id, notes string) (*models.WithdrawalRequest, error) {
	return s.decide(ctx, id, models.WithdrawalRejected, notes)
}

func (s *AdminService) decide(ctx context.Context, id, status, notes string) (*models.WithdrawalRequest, error) {
	req, err := s.withdrawals.Decide(ctx, id, status, strings.TrimSpace(notes), s.now())
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, InternalError("Failed to update withdrawal", err)
	}

	existing, findErr := s.withdrawals.FindByID(ctx, id)
	if errors.Is(findErr, repositories.ErrNotFound) {
		return nil, NotFoundErrorf("Withdrawal request not found")
	}
	if findErr != nil {
		return nil, InternalError("Failed to update withdrawal", findErr)
	}
	return nil, ConflictErrorf("Withdrawal request is already %s", strings.ToLower(existing.Status))
}
