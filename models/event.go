package models

import "time"

// Event types pushed to admin websocket clients
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventReferralAttributed   = "referral.attributed"
	EventBAProfileCreated     = "ba.profile_created"
	EventWithdrawalRequested  = "withdrawal.requested"
)

// Event is a live notification for the admin dashboard
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
