package models

import "time"

// Withdrawal statuses
const (
	WithdrawalPending  = "PENDING"
	WithdrawalApproved = "APPROVED"
	WithdrawalRejected = "REJECTED"
)

// WithdrawalRequest is a BA payout request
type WithdrawalRequest struct {
	ID         string     `bson:"_id" json:"id"`
	BAID       string     `bson:"baId" json:"baId"`
	Amount     float64    `bson:"amount" json:"amount"`
	Status     string     `bson:"status" json:"status"`
	AdminNotes string     `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	ApprovedAt *time.Time `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// WithdrawalWithBA joins a pending withdrawal with its requester
type WithdrawalWithBA struct {
	WithdrawalRequest
	BA *UserSummary `json:"ba"`
}

// WithdrawalHistory is a page of a BA's withdrawals
type WithdrawalHistory struct {
	Withdrawals []WithdrawalRequest `json:"withdrawals"`
	Total       int64               `json:"total"`
	Limit       int64               `json:"limit"`
	Offset      int64               `json:"offset"`
}

// WithdrawalRequestBody is what a BA submits
type WithdrawalRequestBody struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// WithdrawalDecision carries admin notes on approve/reject
type WithdrawalDecision struct {
	AdminNotes string `json:"adminNotes,omitempty"`
}
