package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/repositories"
	"github.com/vastuconnect/booking_backend/utils"
)

const (
	defaultPageLimit int64 = 10
	maxPageLimit     int64 = 100
)

// BAService serves a business associate's own profile, referrals, payouts and coupons
type BAService struct {
	profiles    BAProfileStore
	users       UserStore
	referrals   ReferralStore
	withdrawals WithdrawalStore
	coupons     CouponStore
	events      EventPublisher
	frontendURL string
	now         func() time.Time
}

func NewBAService(stores Stores, events EventPublisher, frontendURL string) *BAService {
	if events == nil {
		events = nopPublisher{}
	}
	return &BAService{
		profiles:    stores.Profiles,
		users:       stores.Users,
		referrals:   stores.Referrals,
		withdrawals: stores.Withdrawals,
		coupons:     stores.Coupons,
		events:      events,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// CreateProfile submits the BA profile for KYC review and issues the BA's referral code
func (s *BAService) CreateProfile(ctx context.Context, userID string, req models.CreateBAProfileRequest) (*models.BAWithProfile, error) {
	if _, err := s.profiles.FindByUserID(ctx, userID); err == nil {
		return nil, ValidationErrorf("You have already submitted a BA profile. Please wait for admin approval or contact support.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, InternalError("Failed to create BA profile", err)
	}

	if req.Experience == nil || strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Expertise) == "" || strings.TrimSpace(req.Bio) == "" {
		return nil, ValidationErrorf("All profile fields are required. Please fill in all information.")
	}
	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return nil, ValidationErrorf("Please enter a valid phone number.")
	}

	username := strings.TrimSpace(req.Username)
	if req.LoginType == "username" && username == "" {
		return nil, ValidationErrorf("Username is required when selecting username as login method.")
	}
	if username != "" {
		if !utils.ValidUsername(username) {
			return nil, ValidationErrorf("Username must be 3-30 letters, digits, dots or underscores.")
		}
		if _, err := s.profiles.FindByUsername(ctx, username); err == nil {
			return nil, ValidationErrorf("This username is already taken. Please choose a different username.")
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, InternalError("Failed to create BA profile", err)
		}
	}

	var referredBy string
	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		referrer, err := s.profiles.FindByReferralCode(ctx, code)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ValidationErrorf("Invalid referral code. Please check and try again.")
		}
		if err != nil {
			return nil, InternalError("Failed to create BA profile", err)
		}
		if referrer.KYCStatus == models.KYCRejected {
			return nil, ValidationErrorf("This referral code is no longer active. Please use a valid referral code.")
		}
		if referrer.UserID == userID {
			return nil, ValidationErrorf("You cannot use your own referral code.")
		}
		referredBy = referrer.UserID
	}

	now := s.now()
	code, err := utils.GenerateReferralCode(now)
	if err != nil {
		return nil, InternalError("Failed to create BA profile", err)
	}

	profile := &models.BAProfile{
		ID:           uuid.New().String(),
		UserID:       userID,
		Phone:        phone,
		Expertise:    strings.TrimSpace(req.Expertise),
		Experience:   *req.Experience,
		Bio:          utils.SanitizeInput(req.Bio),
		LoginType:    req.LoginType,
		Username:     username,
		KYCStatus:    models.KYCPending,
		ReferralCode: code,
		ReferredBy:   referredBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.profiles.Insert(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ConflictErrorf("A BA profile with this user or username already exists.")
		}
		config.LogError(config.GetLogger(), "BAService", "CreateProfile", "inserting profile", userID, err)
		return nil, InternalError("Failed to create BA profile. Please try again with different information.", err)
	}

	referralCode := &models.ReferralCode{
		ID:           uuid.New().String(),
		Code:         code,
		UserID:       userID,
		ReferralLink: utils.ReferralLink(s.frontendURL, code),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.referrals.InsertCode(ctx, referralCode); err != nil {
		config.LogError(config.GetLogger(), "BAService", "CreateProfile", "inserting referral code", code, err)
	}
	if referredBy != "" {
		if err := s.profiles.IncrementReferredCount(ctx, referredBy); err != nil {
			config.LogError(config.GetLogger(), "BAService", "CreateProfile", "counting referred BA", referredBy, err)
		}
	}

	s.events.Publish(newEvent(models.EventBAProfileCreated, profile, now))
	return s.withUser(ctx, profile)
}

func (s *BAService) GetProfile(ctx context.Context, userID string) (*models.BAWithProfile, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withUser(ctx, profile)
}

func (s *BAService) UpdateProfile(ctx context.Context, userID string, req models.UpdateBAProfileRequest) (*models.BAWithProfile, error) {
	if req.Phone != nil {
		phone, err := utils.SanitizePhone(*req.Phone)
		if err != nil {
			return nil, ValidationErrorf("Please enter a valid phone number.")
		}
		req.Phone = &phone
	}
	if req.Bio != nil {
		bio := utils.SanitizeInput(*req.Bio)
		req.Bio = &bio
	}

	profile, err := s.profiles.UpdateDetails(ctx, userID, req, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundErrorf("BA profile not found")
	}
	if err != nil {
		return nil, InternalError("Failed to update BA profile", err)
	}
	return s.withUser(ctx, profile)
}

// ReferralInfo lists the BAs that signed up with this BA's code
func (s *BAService) ReferralInfo(ctx context.Context, userID string) (*models.ReferralInfo, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	referred, err := s.profiles.ListReferredBy(ctx, userID)
	if err != nil {
		return nil, InternalError("Failed to fetch referral info", err)
	}
	ids := make([]string, 0, len(referred))
	for _, p := range referred {
		ids = append(ids, p.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, InternalError("Failed to fetch referral info", err)
	}

	referredBAs := make([]models.ReferredBA, 0, len(referred))
	for _, p := range referred {
		entry := models.ReferredBA{ID: p.ID, UserID: p.UserID, KYCStatus: p.KYCStatus, CreatedAt: p.CreatedAt}
		if u, ok := users[p.UserID]; ok {
			entry.Name = u.FullName()
			entry.Email = u.Email
		}
		referredBAs = append(referredBAs, entry)
	}

	link := utils.ReferralLink(s.frontendURL, profile.ReferralCode)
	qrCode, err := utils.ReferralQRCodeDataURI(link)
	if err != nil {
		config.LogError(config.GetLogger(), "BAService", "ReferralInfo", "rendering QR code", userID, err)
	}

	return &models.ReferralInfo{
		ReferralCode:   profile.ReferralCode,
		ReferralLink:   link,
		QRCode:         qrCode,
		TotalReferrals: profile.ReferredCount,
		ReferredBAs:    referredBAs,
	}, nil
}

// ReferralStats summarizes the BA's booking referrals and ledger
func (s *BAService) ReferralStats(ctx context.Context, userID string) (*models.ReferralStats, error) {
	code, err := s.referrals.FindCodeByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundErrorf("Referral code not found")
	}
	if err != nil {
		return nil, InternalError("Failed to fetch referral stats", err)
	}

	txs, err := s.referrals.ListTransactionsByReferrer(ctx, userID)
	if err != nil {
		return nil, InternalError("Failed to fetch referral stats", err)
	}

	stats := &models.ReferralStats{
		ReferralCode:          code.Code,
		ReferralLink:          code.ReferralLink,
		TotalReferrals:        code.TotalReferrals,
		SuccessfulConversions: code.SuccessfulConversions,
	}
	total := decimal.Zero
	for _, tx := range txs {
		switch tx.Status {
		case models.ReferralTransactionCompleted:
			stats.CompletedTransactions++
			total = total.Add(decimal.NewFromFloat(tx.BaseCommission))
		case models.ReferralTransactionPending:
			stats.PendingTransactions++
		}
	}
	stats.TotalEarnings = total.InexactFloat64()
	return stats, nil
}

// ReferralQRCode renders the BA's referral link as a PNG
func (s *BAService) ReferralQRCode(ctx context.Context, userID string) ([]byte, string, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	img, err := utils.ReferralQRCodePNG(utils.ReferralLink(s.frontendURL, profile.ReferralCode))
	if err != nil {
		return nil, "", InternalError("Failed to generate QR code", err)
	}
	return img, profile.ReferralCode, nil
}

// WithdrawalHistory pages through the BA's withdrawal requests
func (s *BAService) WithdrawalHistory(ctx context.Context, userID string, limit, offset int64) (*models.WithdrawalHistory, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.withdrawals.ListByBA(ctx, userID, limit, offset)
	if err != nil {
		return nil, InternalError("Failed to fetch withdrawal history", err)
	}
	return &models.WithdrawalHistory{Withdrawals: items, Total: total, Limit: limit, Offset: offset}, nil
}

// RequestWithdrawal asks for a payout. The amount may not exceed approved
// earnings minus what was already withdrawn or is awaiting approval.
func (s *BAService) RequestWithdrawal(ctx context.Context, userID string, amount float64) (*models.WithdrawalRequest, error) {
	if amount <= 0 {
		return nil, ValidationErrorf("Withdrawal amount must be greater than zero.")
	}

	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.KYCStatus != models.KYCApproved {
		return nil, ForbiddenErrorf("Withdrawals are available once your KYC is approved.")
	}

	pending, err := s.withdrawals.SumAmount(ctx, userID, models.WithdrawalPending)
	if err != nil {
		return nil, InternalError("Failed to request withdrawal", err)
	}
	available := decimal.NewFromFloat(profile.ApprovedEarnings).
		Sub(decimal.NewFromFloat(profile.WithdrawnEarnings)).
		Sub(decimal.NewFromFloat(pending))
	if decimal.NewFromFloat(amount).GreaterThan(available) {
		return nil, ValidationErrorf("Insufficient approved earnings for withdrawal")
	}

	now := s.now()
	req := &models.WithdrawalRequest{
		ID:        uuid.New().String(),
		BAID:      userID,
		Amount:    amount,
		Status:    models.WithdrawalPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.withdrawals.Insert(ctx, req); err != nil {
		config.LogError(config.GetLogger(), "BAService", "RequestWithdrawal", "inserting withdrawal", userID, err)
		return nil, InternalError("Failed to request withdrawal", err)
	}
	s.events.Publish(newEvent(models.EventWithdrawalRequested, req, now))
	return req, nil
}

func (s *BAService) AssignedCoupons(ctx context.Context, userID string) ([]models.AssignedCoupon, error) {
	coupons, err := s.coupons.ListAssigned(ctx, userID)
	if err != nil {
		return nil, InternalError("Failed to fetch coupons", err)
	}
	return coupons, nil
}

func (s *BAService) CouponDetails(ctx context.Context, userID, couponID string) (*models.AssignedCoupon, error) {
	coupon, err := s.coupons.FindAssigned(ctx, userID, couponID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundErrorf("Coupon not assigned to this BA")
	}
	if err != nil {
		return nil, InternalError("Failed to fetch coupon", err)
	}
	return coupon, nil
}

func (s *BAService) profile(ctx context.Context, userID string) (*models.BAProfile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundErrorf("BA profile not found")
	}
	if err != nil {
		return nil, InternalError("Failed to fetch BA profile", err)
	}
	return profile, nil
}

func (s *BAService) withUser(ctx context.Context, profile *models.BAProfile) (*models.BAWithProfile, error) {
	out := &models.BAWithProfile{Profile: *profile}
	user, err := s.users.FindByID(ctx, profile.UserID)
	switch {
	case err == nil:
		out.User = *user.Summary()
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, InternalError("Failed to fetch BA profile", err)
	}
	return out, nil
}
