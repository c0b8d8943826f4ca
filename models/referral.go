package models

import "time"

// Referral transaction statuses
const (
	ReferralTransactionCompleted = "COMPLETED"
	ReferralTransactionPending   = "PENDING"
)

// Ledger step flags, set once the matching side effect has been applied
const (
	TxStepEarningsCredited  = "earningsCredited"
	TxStepConversionCounted = "conversionCounted"
)

// ReferralCode attributes bookings to the BA that owns it
type ReferralCode struct {
	ID                    string    `json:"id" bson:"_id"`
	Code                  string    `json:"code" bson:"code"`
	UserID                string    `json:"userId" bson:"userId"`
	ReferralLink          string    `json:"referralLink" bson:"referralLink"`
	IsActive              bool      `json:"isActive" bson:"isActive"`
	TotalReferrals        int64     `json:"totalReferrals" bson:"totalReferrals"`
	SuccessfulConversions int64     `json:"successfulConversions" bson:"successfulConversions"`
	CreatedAt             time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ReferralTransaction is a ledger row, one per attributed booking. The
// amounts and settings snapshot never change after insert; only the step
// flags do.
type ReferralTransaction struct {
	ID                    string    `json:"id" bson:"_id"`
	BookingID             string    `json:"bookingId" bson:"bookingId"`
	ReferrerID            string    `json:"referrerId" bson:"referrerId"`
	ReferralCode          string    `json:"referralCode" bson:"referralCode"`
	CustomerEmail         string    `json:"customerEmail" bson:"customerEmail"`
	BaseAmount            float64   `json:"baseAmount" bson:"baseAmount"`
	BaseCommission        float64   `json:"baseCommission" bson:"baseCommission"`
	GSTAmount             float64   `json:"gstAmount" bson:"gstAmount"`
	TotalCommissionAmount float64   `json:"totalCommissionAmount" bson:"totalCommissionAmount"`
	CommissionType        string    `json:"commissionType" bson:"commissionType"`
	CommissionValue       float64   `json:"commissionValue" bson:"commissionValue"`
	GSTPercentage         float64   `json:"gstPercentage" bson:"gstPercentage"`
	ExcludeGSTFromBase    bool      `json:"excludeGSTFromBase" bson:"excludeGSTFromBase"`
	SettingsVersion       int64     `json:"settingsVersion" bson:"settingsVersion"`
	Status                string    `json:"status" bson:"status"`
	EarningsCredited      bool      `json:"earningsCredited" bson:"earningsCredited"`
	ConversionCounted     bool      `json:"conversionCounted" bson:"conversionCounted"`
	CreatedAt             time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ReferralStats summarizes a BA's referral code performance
type ReferralStats struct {
	ReferralCode          string  `json:"referralCode"`
	ReferralLink          string  `json:"referralLink"`
	TotalReferrals        int64   `json:"totalReferrals"`
	SuccessfulConversions int64   `json:"successfulConversions"`
	TotalEarnings         float64 `json:"totalEarnings"`
	CompletedTransactions int     `json:"completedTransactions"`
	PendingTransactions   int     `json:"pendingTransactions"`
}

// ReferredBA is a BA that signed up with another BA's code
type ReferredBA struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	KYCStatus string    `json:"kycStatus"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReferralInfo is what a BA sees about their own referral network
type ReferralInfo struct {
	ReferralCode   string       `json:"referralCode"`
	ReferralLink   string       `json:"referralLink"`
	QRCode         string       `json:"qrCode,omitempty"`
	TotalReferrals int64        `json:"totalReferrals"`
	ReferredBAs    []ReferredBA `json:"referredBAs"`
}
