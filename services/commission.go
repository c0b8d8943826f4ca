package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/repositories"
)

var hundred = decimal.NewFromInt(100)

// CalculateCommission computes a BA's commission on a booking worth
// baseAmount under the given settings. GST is added on top of the base
// commission unless excluded. No rounding is applied.
func CalculateCommission(baseAmount float64, settings models.CommissionSettings) models.CommissionBreakdown {
	value := decimal.NewFromFloat(settings.CommissionValue)

	base := value
	if settings.CommissionType == models.CommissionTypePercentage {
		base = decimal.NewFromFloat(baseAmount).Mul(value).Div(hundred)
	}

	gst := decimal.Zero
	if !settings.ExcludeGSTFromBase {
		gst = base.Mul(decimal.NewFromFloat(settings.GSTPercentage)).Div(hundred)
	}

	// total is summed after conversion so it equals base + gst exactly
	baseCommission, gstAmount := base.InexactFloat64(), gst.InexactFloat64()
	return models.CommissionBreakdown{
		BaseCommission:  baseCommission,
		GST:             gstAmount,
		TotalCommission: baseCommission + gstAmount,
		CommissionType:  settings.CommissionType,
		CommissionValue: settings.CommissionValue,
		GSTPercentage:   settings.GSTPercentage,
	}
}

// CommissionService owns the commission settings singleton
type CommissionService struct {
	store SettingsStore
	now   func() time.Time
}

func NewCommissionService(store SettingsStore) *CommissionService {
	return &CommissionService{store: store, now: time.Now}
}

// GetSettings returns the stored settings, or the defaults when none were saved
func (s *CommissionService) GetSettings(ctx context.Context) (models.CommissionSettings, error) {
	settings, err := s.store.Get(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.DefaultCommissionSettings(), nil
	}
	if err != nil {
		return models.CommissionSettings{}, InternalError("failed to load commission settings", err)
	}
	return *settings, nil
}

// UpdateSettings merges the provided fields into the current settings and
// saves them. The merged result is validated before anything is written.
func (s *CommissionService) UpdateSettings(ctx context.Context, req models.UpdateCommissionSettingsRequest) (models.CommissionSettings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return models.CommissionSettings{}, err
	}

	merged := current
	if req.CommissionType != nil {
		merged.CommissionType = *req.CommissionType
	}
	if req.CommissionValue != nil {
		merged.CommissionValue = *req.CommissionValue
	}
	if req.GSTPercentage != nil {
		merged.GSTPercentage = *req.GSTPercentage
	}
	if req.ExcludeGSTFromBase != nil {
		merged.ExcludeGSTFromBase = *req.ExcludeGSTFromBase
	}
	if err := ValidateSettings(merged); err != nil {
		return models.CommissionSettings{}, err
	}
	merged.UpdatedAt = s.now()

	saved, err := s.store.Save(ctx, merged, current.Version)
	if errors.Is(err, repositories.ErrStaleVersion) {
		return models.CommissionSettings{}, ConflictErrorf("commission settings were changed concurrently, please retry")
	}
	if err != nil {
		config.LogError(config.GetLogger(), "CommissionService", "UpdateSettings", "saving settings", merged, err)
		return models.CommissionSettings{}, InternalError("failed to update commission settings", err)
	}
	return *saved, nil
}

// ValidateSettings checks a complete settings value
func ValidateSettings(settings models.CommissionSettings) error {
	switch settings.CommissionType {
	case models.CommissionTypePercentage, models.CommissionTypeFixed:
	default:
		return ValidationErrorf("invalid commission type, must be PERCENTAGE or FIXED")
	}
	if settings.CommissionValue < 0 {
		return ValidationErrorf("commission value cannot be negative")
	}
	if settings.CommissionType == models.CommissionTypePercentage && settings.CommissionValue > 100 {
		return ValidationErrorf("commission percentage cannot exceed 100%%")
	}
	if settings.GSTPercentage < 0 || settings.GSTPercentage > 100 {
		return ValidationErrorf("GST percentage must be between 0 and 100")
	}
	return nil
}

// GetCommissionInfo describes the current commission structure for BAs
func (s *CommissionService) GetCommissionInfo(ctx context.Context) (models.CommissionInfo, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return models.CommissionInfo{}, err
	}

	var description string
	if settings.CommissionType == models.CommissionTypePercentage {
		description = fmt.Sprintf("%s%% of booking value", strconv.FormatFloat(settings.CommissionValue, 'f', -1, 64))
	} else {
		description = fmt.Sprintf("₹%s per successful referral", FormatINR(settings.CommissionValue))
	}

	return models.CommissionInfo{
		CommissionType:     settings.CommissionType,
		CommissionValue:    settings.CommissionValue,
		Description:        description,
		GSTPercentage:      settings.GSTPercentage,
		ExcludeGSTFromBase: settings.ExcludeGSTFromBase,
	}, nil
}

// FormatINR groups digits the Indian way: 2500000 -> "25,00,000"
func FormatINR(amount float64) string {
	text := strconv.FormatFloat(amount, 'f', -1, 64)
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	whole, frac, hasFrac := strings.Cut(text, ".")

	if len(whole) > 3 {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
		whole = strings.Join(groups, ",") + "," + tail
	}
	if hasFrac {
		return sign + whole + "." + frac
	}
	return sign + whole
}
