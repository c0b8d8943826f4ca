package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/metrics"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/repositories"
)

// DefaultBaseAmount is the booking value assumed when no service amount was recorded
const DefaultBaseAmount = 1000.0

const (
	attributionLockTTL = 30 * time.Second
	attributionTimeout = 10 * time.Second
)

// ReferralAttributor credits the referring BA when a booking is confirmed.
// A booking is attributed at most once: the claim marker on the booking
// document gates the whole run, and the unique bookingId index on the
// ledger rejects any second transaction.
type ReferralAttributor struct {
	bookings   BookingStore
	referrals  ReferralStore
	profiles   BAProfileStore
	commission *CommissionService
	locker     Locker
	events     EventPublisher
	logger     *logrus.Logger
	now        func() time.Time
}

func NewReferralAttributor(stores Stores, commission *CommissionService, locker Locker, events EventPublisher) *ReferralAttributor {
	if events == nil {
		events = nopPublisher{}
	}
	return &ReferralAttributor{
		bookings:   stores.Bookings,
		referrals:  stores.Referrals,
		profiles:   stores.Profiles,
		commission: commission,
		locker:     locker,
		events:     events,
		logger:     config.GetLogger(),
		now:        time.Now,
	}
}

// Attribute runs the attribution workflow for a confirmed booking. It
// returns the ledger entry it wrote, or nil when there was nothing to do.
// Callers treat errors as informational; they are already logged.
func (a *ReferralAttributor) Attribute(ctx context.Context, bookingID string) (*models.ReferralTransaction, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), attributionTimeout)
	defer cancel()

	log := a.logger.WithField("bookingId", bookingID)

	if a.locker != nil {
		release, err := a.locker.Obtain(ctx, "attribution:"+bookingID, attributionLockTTL)
		if err != nil {
			log.WithError(err).Warn("attribution lock unavailable, relying on claim marker")
		} else {
			defer release()
		}
	}

	booking, err := a.bookings.ClaimAttribution(ctx, bookingID, a.now())
	if errors.Is(err, repositories.ErrNotFound) {
		log.Debug("attribution already claimed or booking not confirmed")
		metrics.Attributions.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil, nil
	}
	if err != nil {
		config.LogError(a.logger, "ReferralAttributor", "Attribute", "claiming booking", bookingID, err)
		metrics.Attributions.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}
	if !booking.HasReferrer() {
		a.complete(ctx, booking.ID, "")
		metrics.Attributions.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil, nil
	}

	tx, err := a.record(ctx, booking)
	if err != nil {
		a.fail(ctx, booking.ID, err)
		return nil, err
	}
	if tx == nil {
		metrics.Attributions.WithLabelValues(metrics.OutcomeSkipped).Inc()
		return nil, nil
	}

	a.complete(ctx, booking.ID, tx.ID)
	metrics.Attributions.WithLabelValues(metrics.OutcomeCredited).Inc()
	metrics.CommissionCredited.Add(tx.BaseCommission)
	a.events.Publish(newEvent(models.EventReferralAttributed, tx, a.now()))
	log.WithFields(logrus.Fields{
		"referrerId":     tx.ReferrerID,
		"baseCommission": tx.BaseCommission,
		"transactionId":  tx.ID,
	}).Info("referral commission credited")
	return tx, nil
}

// record writes the ledger entry and credits the BA. A nil transaction
// with a nil error means the booking was already in the ledger.
func (a *ReferralAttributor) record(ctx context.Context, booking *models.Booking) (*models.ReferralTransaction, error) {
	settings, err := a.commission.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	baseAmount := booking.ServiceAmount
	if baseAmount <= 0 {
		baseAmount = DefaultBaseAmount
	}
	breakdown := CalculateCommission(baseAmount, settings)

	now := a.now()
	tx := &models.ReferralTransaction{
		ID:                    uuid.New().String(),
		BookingID:             booking.ID,
		ReferrerID:            booking.ReferrerID,
		ReferralCode:          booking.ReferralCode,
		CustomerEmail:         booking.ClientEmail,
		BaseAmount:            baseAmount,
		BaseCommission:        breakdown.BaseCommission,
		GSTAmount:             breakdown.GST,
		TotalCommissionAmount: breakdown.TotalCommission,
		CommissionType:        settings.CommissionType,
		CommissionValue:       settings.CommissionValue,
		GSTPercentage:         settings.GSTPercentage,
		ExcludeGSTFromBase:    settings.ExcludeGSTFromBase,
		SettingsVersion:       settings.Version,
		Status:                models.ReferralTransactionCompleted,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err = a.referrals.InsertTransaction(ctx, tx)
	if errors.Is(err, repositories.ErrDuplicate) {
		// an earlier run wrote the row; finish whatever steps it left undone
		existing, findErr := a.referrals.FindTransactionByBooking(ctx, booking.ID)
		if findErr != nil {
			return nil, fmt.Errorf("load existing transaction: %w", findErr)
		}
		if err := a.settle(ctx, existing); err != nil {
			return nil, err
		}
		a.complete(ctx, booking.ID, existing.ID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insert referral transaction: %w", err)
	}

	if err := a.settle(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// settle applies the side effects of a ledger row that have not been
// applied yet. GST is never paid out to the BA.
func (a *ReferralAttributor) settle(ctx context.Context, tx *models.ReferralTransaction) error {
	err := a.runStep(ctx, tx.ID, models.TxStepEarningsCredited, func() error {
		return a.profiles.CreditEarnings(ctx, tx.ReferrerID, tx.BaseCommission)
	})
	if err != nil {
		return fmt.Errorf("credit earnings to %s: %w", tx.ReferrerID, err)
	}
	if tx.ReferralCode == "" {
		return nil
	}
	err = a.runStep(ctx, tx.ID, models.TxStepConversionCounted, func() error {
		return a.referrals.IncrementConversions(ctx, tx.ReferralCode)
	})
	if err != nil {
		return fmt.Errorf("count conversion for %s: %w", tx.ReferralCode, err)
	}
	return nil
}

// runStep flags a step on the ledger row and applies it only if this call
// set the flag. The flag is cleared again when apply fails.
func (a *ReferralAttributor) runStep(ctx context.Context, txID, step string, apply func() error) error {
	marked, err := a.referrals.MarkTransactionStep(ctx, txID, step, true)
	if err != nil {
		return err
	}
	if !marked {
		return nil
	}
	if err := apply(); err != nil {
		if _, undoErr := a.referrals.MarkTransactionStep(ctx, txID, step, false); undoErr != nil {
			config.LogError(a.logger, "ReferralAttributor", "runStep", "clearing "+step, txID, undoErr)
		}
		return err
	}
	return nil
}

func (a *ReferralAttributor) complete(ctx context.Context, bookingID, transactionID string) {
	if err := a.bookings.CompleteAttribution(ctx, bookingID, transactionID, a.now()); err != nil {
		config.LogError(a.logger, "ReferralAttributor", "complete", "marking attribution done", bookingID, err)
	}
}

func (a *ReferralAttributor) fail(ctx context.Context, bookingID string, cause error) {
	config.LogError(a.logger, "ReferralAttributor", "Attribute", "attribution failed", bookingID, cause)
	metrics.Attributions.WithLabelValues(metrics.OutcomeFailed).Inc()
	if err := a.bookings.FailAttribution(ctx, bookingID, cause.Error(), a.now()); err != nil {
		config.LogError(a.logger, "ReferralAttributor", "fail", "marking attribution failed", bookingID, err)
	}
}
