package models

import "time"

// KYC statuses
const (
	KYCPending  = "PENDING"
	KYCApproved = "APPROVED"
	KYCRejected = "REJECTED"
)

// BAProfile is the business associate profile, one per BA user.
// ReferredBy is a weak reference to another BA's user id.
type BAProfile struct {
	ID                string       `json:"id" bson:"_id"`
	UserID            string       `json:"userId" bson:"userId"`
	Phone             string       `json:"phone" bson:"phone"`
	Expertise         string       `json:"expertise" bson:"expertise"`
	Experience        int          `json:"experience" bson:"experience"`
	Bio               string       `json:"bio" bson:"bio"`
	LoginType         string       `json:"loginType" bson:"loginType"` // "email" or "username"
	Username          string       `json:"username,omitempty" bson:"username,omitempty"`
	KYCStatus         string       `json:"kycStatus" bson:"kycStatus"`
	KYCApprovedAt     *time.Time   `json:"kycApprovedAt,omitempty" bson:"kycApprovedAt,omitempty"`
	RejectionReason   string       `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	ReferralCode      string       `json:"referralCode" bson:"referralCode"`
	ReferredBy        string       `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	ReferredCount     int64        `json:"referredCount" bson:"referredCount"`
	TotalEarnings     float64      `json:"totalEarnings" bson:"totalEarnings"`
	ApprovedEarnings  float64      `json:"approvedEarnings" bson:"approvedEarnings"`
	PendingEarnings   float64      `json:"pendingEarnings" bson:"pendingEarnings"`
	WithdrawnEarnings float64      `json:"withdrawnEarnings" bson:"withdrawnEarnings"`
	CompanyName       string       `json:"companyName,omitempty" bson:"companyName,omitempty"`
	GSTNumber         string       `json:"gstNumber,omitempty" bson:"gstNumber,omitempty"`
	BankDetails       *BankDetails `json:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	CreatedAt         time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// BankDetails for BA payouts
type BankDetails struct {
	BankName          string `json:"bankName,omitempty" bson:"bankName,omitempty"`
	AccountNumber     string `json:"accountNumber,omitempty" bson:"accountNumber,omitempty"`
	IFSCCode          string `json:"ifscCode,omitempty" bson:"ifscCode,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty" bson:"accountHolderName,omitempty"`
}

// CreateBAProfileRequest is submitted by a freshly registered BA
type CreateBAProfileRequest struct {
	Phone        string `json:"phone" validate:"required"`
	Expertise    string `json:"expertise" validate:"required"`
	Experience   *int   `json:"experience" validate:"required,gte=0"`
	Bio          string `json:"bio" validate:"required"`
	LoginType    string `json:"loginType" validate:"required,oneof=email username"`
	Username     string `json:"username,omitempty"`
	ReferralCode string `json:"referralCode,omitempty"`
}

// UpdateBAProfileRequest carries the editable profile fields
type UpdateBAProfileRequest struct {
	Phone             *string `json:"phone,omitempty"`
	Expertise         *string `json:"expertise,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	CompanyName       *string `json:"companyName,omitempty"`
	GSTNumber         *string `json:"gstNumber,omitempty"`
	BankName          *string `json:"bankName,omitempty"`
	AccountNumber     *string `json:"accountNumber,omitempty"`
	IFSCCode          *string `json:"ifscCode,omitempty"`
	AccountHolderName *string `json:"accountHolderName,omitempty"`
}

// BAWithProfile pairs a BA user with their profile for admin listings
type BAWithProfile struct {
	User    UserSummary `json:"user"`
	Profile BAProfile   `json:"baProfile"`
}
