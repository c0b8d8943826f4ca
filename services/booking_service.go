package services

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/metrics"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/repositories"
	"github.com/vastuconnect/booking_backend/utils"
)

var preferredTimePattern = regexp.MustCompile(`^\d{2}:\d{2}\s(AM|PM)$`)

// bookingTransitions lists the statuses each status may move to
var bookingTransitions = map[string][]string{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCompleted, models.BookingStatusCancelled},
	models.BookingStatusCompleted: nil,
	models.BookingStatusCancelled: nil,
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to string) bool {
	return slices.Contains(bookingTransitions[from], to)
}

type BookingService struct {
	bookings   BookingStore
	referrals  ReferralStore
	profiles   BAProfileStore
	coupons    CouponStore
	attributor *ReferralAttributor
	notifier   Notifier
	events     EventPublisher
	now        func() time.Time
}

func NewBookingService(stores Stores, attributor *ReferralAttributor, notifier Notifier, events EventPublisher) *BookingService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if events == nil {
		events = nopPublisher{}
	}
	return &BookingService{
		bookings:   stores.Bookings,
		referrals:  stores.Referrals,
		profiles:   stores.Profiles,
		coupons:    stores.Coupons,
		attributor: attributor,
		notifier:   notifier,
		events:     events,
		now:        time.Now,
	}
}

// CreateBooking validates and stores a new PENDING booking
func (s *BookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	now := s.now()

	if !slices.Contains(models.ServiceTypes, req.ServiceType) {
		return nil, ValidationErrorf("Please select a valid service type.")
	}
	if !req.PreferredDate.Time.After(now) {
		return nil, ValidationErrorf("Please select a date in the future.")
	}
	if !preferredTimePattern.MatchString(req.PreferredTime) {
		return nil, ValidationErrorf("Please enter time in HH:MM AM/PM format (e.g., 02:30 PM).")
	}

	referralCode := strings.TrimSpace(req.ReferralCode)
	couponCode := strings.TrimSpace(req.CouponCode)

	var referrerID string
	if referralCode != "" {
		id, err := s.resolveReferrer(ctx, referralCode)
		if err != nil {
			return nil, err
		}
		referrerID = id
	}

	var discount float64
	if couponCode != "" {
		coupon, err := s.coupons.FindByCode(ctx, couponCode)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ValidationErrorf("The coupon code you entered is not found. Please check and try again.")
		}
		if err != nil {
			return nil, InternalError("Failed to create booking", err)
		}
		if err := couponUnusable(coupon, now); err != nil {
			return nil, err
		}
		discount = coupon.Discount()
	}

	booking := &models.Booking{
		ID:              uuid.New().String(),
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientEmail:     strings.ToLower(strings.TrimSpace(req.ClientEmail)),
		ClientPhone:     strings.TrimSpace(req.ClientPhone),
		ServiceType:     req.ServiceType,
		Description:     utils.SanitizeInput(req.Description),
		PreferredDate:   req.PreferredDate.Time,
		PreferredTime:   req.PreferredTime,
		Status:          models.BookingStatusPending,
		ReferralCode:    referralCode,
		ReferrerID:      referrerID,
		CouponCode:      couponCode,
		DiscountApplied: discount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.bookings.Insert(ctx, booking); err != nil {
		config.LogError(config.GetLogger(), "BookingService", "CreateBooking", "inserting booking", booking.ID, err)
		return nil, InternalError("Failed to create booking", err)
	}

	// Redeemed after the insert so a failed insert never spends a use.
	// The conditional increment keeps the usage limit under load.
	if couponCode != "" {
		if err := s.redeemCoupon(ctx, booking, now); err != nil {
			return nil, err
		}
	}

	if referralCode != "" {
		if err := s.referrals.IncrementReferrals(ctx, referralCode); err != nil {
			config.LogError(config.GetLogger(), "BookingService", "CreateBooking", "counting referral", referralCode, err)
		}
	}

	metrics.BookingsCreated.WithLabelValues(booking.ServiceType).Inc()
	s.notifier.BookingReceived(booking)
	s.events.Publish(newEvent(models.EventBookingCreated, booking, now))
	return booking, nil
}

// redeemCoupon counts one use of the booking's coupon. When the coupon can
// no longer be redeemed the booking is removed again.
func (s *BookingService) redeemCoupon(ctx context.Context, booking *models.Booking, now time.Time) error {
	err := s.coupons.Redeem(ctx, booking.CouponCode, now)
	if err == nil {
		return nil
	}
	if delErr := s.bookings.Delete(ctx, booking.ID); delErr != nil {
		config.LogError(config.GetLogger(), "BookingService", "redeemCoupon", "removing unredeemed booking", booking.ID, delErr)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return InternalError("Failed to create booking", err)
	}

	// lost a race for the last use, or the coupon changed since it was read
	coupon, findErr := s.coupons.FindByCode(ctx, booking.CouponCode)
	if findErr == nil {
		if reason := couponUnusable(coupon, now); reason != nil {
			return reason
		}
	}
	return ValidationErrorf("This coupon code has reached its usage limit. Please try another coupon.")
}

func couponUnusable(coupon *models.CouponCode, now time.Time) error {
	switch {
	case !coupon.IsActive:
		return ValidationErrorf("This coupon code is currently inactive. Please try another coupon.")
	case coupon.Expired(now):
		return ValidationErrorf("This coupon code has expired. Please use a valid coupon.")
	case coupon.LimitReached():
		return ValidationErrorf("This coupon code has reached its usage limit. Please try another coupon.")
	}
	return nil
}

// resolveReferrer maps a referral code to the BA user that owns it. The
// code must be active and its owner must not have been rejected.
func (s *BookingService) resolveReferrer(ctx context.Context, code string) (string, error) {
	invalid := ValidationErrorf("The referral code you entered is invalid or inactive. Please check and try again.")

	referral, err := s.referrals.FindCode(ctx, code)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", invalid
	}
	if err != nil {
		return "", InternalError("Failed to create booking", err)
	}
	if !referral.IsActive {
		return "", invalid
	}

	profile, err := s.profiles.FindByUserID(ctx, referral.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", invalid
	}
	if err != nil {
		return "", InternalError("Failed to create booking", err)
	}
	if profile.KYCStatus == models.KYCRejected {
		return "", invalid
	}
	return referral.UserID, nil
}

// UpdateBooking applies an admin update. A change to CONFIRMED on a
// referred booking triggers referral attribution; attribution problems
// never fail the update.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, req models.UpdateBookingRequest) (*models.Booking, error) {
	if req.ServiceAmount != nil && *req.ServiceAmount < 0 {
		return nil, ValidationErrorf("Service amount cannot be negative.")
	}

	current, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := repositories.BookingChanges{
		AdminNotes:    req.AdminNotes,
		ServiceAmount: req.ServiceAmount,
		UpdatedAt:     s.now(),
	}

	if req.Status == "" || req.Status == current.Status {
		updated, err := s.bookings.UpdateFields(ctx, id, changes)
		if err != nil {
			return nil, s.storeError(err, "Failed to update booking")
		}
		return updated, nil
	}

	if _, known := bookingTransitions[req.Status]; !known {
		return nil, ValidationErrorf("Invalid booking status %q.", req.Status)
	}
	if !CanTransition(current.Status, req.Status) {
		return nil, ValidationErrorf("Cannot change booking status from %s to %s.", current.Status, req.Status)
	}

	updated, err := s.bookings.TransitionStatus(ctx, id, current.Status, req.Status, changes)
	if errors.Is(err, repositories.ErrNotFound) {
		// someone else moved the booking between our read and write
		latest, getErr := s.GetBooking(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if latest.Status == req.Status {
			return latest, nil
		}
		return nil, ConflictErrorf("Booking status changed to %s while updating, please retry.", latest.Status)
	}
	if err != nil {
		config.LogError(config.GetLogger(), "BookingService", "UpdateBooking", "transitioning status", id, err)
		return nil, InternalError("Failed to update booking", err)
	}

	metrics.StatusTransitions.WithLabelValues(current.Status, req.Status).Inc()
	s.events.Publish(newEvent(models.EventBookingStatusChanged, updated, s.now()))

	if updated.Status == models.BookingStatusConfirmed {
		s.notifier.BookingConfirmed(updated)
		if updated.HasReferrer() && s.attributor != nil {
			_, _ = s.attributor.Attribute(ctx, updated.ID)
			if refreshed, err := s.bookings.FindByID(ctx, updated.ID); err == nil {
				updated = refreshed
			}
		}
	}
	return updated, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "Failed to fetch booking")
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, InternalError("Failed to fetch bookings", err)
	}
	return bookings, nil
}

// ListBABookings returns the bookings a BA referred
func (s *BookingService) ListBABookings(ctx context.Context, baID string) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByReferrer(ctx, baID)
	if err != nil {
		return nil, InternalError("Failed to fetch BA bookings", err)
	}
	return bookings, nil
}

func (s *BookingService) BookingStats(ctx context.Context) (*models.BookingStats, error) {
	stats, err := s.bookings.Stats(ctx)
	if err != nil {
		return nil, InternalError("Failed to fetch booking statistics", err)
	}
	return stats, nil
}

func (s *BookingService) storeError(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return NotFoundErrorf("Booking not found")
	}
	return InternalError(message, err)
}
