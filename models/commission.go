package models

import "time"

// Commission types
const (
	CommissionTypePercentage = "PERCENTAGE"
	CommissionTypeFixed      = "FIXED"
)

// GlobalSettingsID is the _id of the singleton commission settings document
const GlobalSettingsID = "global"

// CommissionSettings is the single active commission configuration.
// Version is bumped on every write and copied into each referral transaction.
type CommissionSettings struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" toml:"-"`
	CommissionType     string    `json:"commissionType" bson:"commissionType" toml:"commission_type"`
	CommissionValue    float64   `json:"commissionValue" bson:"commissionValue" toml:"commission_value"`
	GSTPercentage      float64   `json:"gstPercentage" bson:"gstPercentage" toml:"gst_percentage"`
	ExcludeGSTFromBase bool      `json:"excludeGSTFromBase" bson:"excludeGSTFromBase" toml:"exclude_gst_from_base"`
	Version            int64     `json:"version" bson:"version" toml:"-"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt" toml:"-"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt" toml:"-"`
}

// DefaultCommissionSettings is used whenever no settings document exists
func DefaultCommissionSettings() CommissionSettings {
	return CommissionSettings{
		ID:                 GlobalSettingsID,
		CommissionType:     CommissionTypeFixed,
		CommissionValue:    25000,
		GSTPercentage:      18,
		ExcludeGSTFromBase: true,
	}
}

// UpdateCommissionSettingsRequest is a partial update; nil fields are left untouched
type UpdateCommissionSettingsRequest struct {
	CommissionType     *string  `json:"commissionType,omitempty" validate:"omitempty,oneof=PERCENTAGE FIXED"`
	CommissionValue    *float64 `json:"commissionValue,omitempty"`
	GSTPercentage      *float64 `json:"gstPercentage,omitempty"`
	ExcludeGSTFromBase *bool    `json:"excludeGSTFromBase,omitempty"`
}

// CommissionBreakdown is the result of a commission calculation
type CommissionBreakdown struct {
	BaseCommission  float64 `json:"baseCommission"`
	GST             float64 `json:"gst"`
	TotalCommission float64 `json:"totalCommission"`
	CommissionType  string  `json:"commissionType"`
	CommissionValue float64 `json:"commissionValue"`
	GSTPercentage   float64 `json:"gstPercentage"`
}

// CommissionInfo is the public description of the current commission structure
type CommissionInfo struct {
	CommissionType     string  `json:"commissionType"`
	CommissionValue    float64 `json:"commissionValue"`
	Description        string  `json:"description"`
	GSTPercentage      float64 `json:"gstPercentage"`
	ExcludeGSTFromBase bool    `json:"excludeGSTFromBase"`
}
