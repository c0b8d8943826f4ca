package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Booking statuses
const (
	BookingStatusPending   = "PENDING"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
)

// Service types offered for booking
const (
	ServiceBusinessVastu    = "BUSINESS_VASTU"
	ServiceResidentialVastu = "RESIDENTIAL_VASTU"
	ServiceHealingSession   = "HEALING_SESSION"
	ServiceLandEnergy       = "LAND_ENERGY"
)

// Attribution states stored on the booking
const (
	AttributionClaimed = "CLAIMED"
	AttributionDone    = "DONE"
	AttributionFailed  = "FAILED"
)

// ServiceTypes lists every bookable service
var ServiceTypes = []string{ServiceBusinessVastu, ServiceResidentialVastu, ServiceHealingSession, ServiceLandEnergy}

// Booking model
type Booking struct {
	ID              string       `json:"id" bson:"_id"`
	ClientName      string       `json:"clientName" bson:"clientName"`
	ClientEmail     string       `json:"clientEmail" bson:"clientEmail"`
	ClientPhone     string       `json:"clientPhone" bson:"clientPhone"`
	ServiceType     string       `json:"serviceType" bson:"serviceType"`
	Description     string       `json:"description,omitempty" bson:"description,omitempty"`
	PreferredDate   time.Time    `json:"preferredDate" bson:"preferredDate"`
	PreferredTime   string       `json:"preferredTime" bson:"preferredTime"` // "HH:MM AM" or "HH:MM PM"
	Status          string       `json:"status" bson:"status"`
	ReferralCode    string       `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	ReferrerID      string       `json:"referrerId,omitempty" bson:"referrerId,omitempty"`
	CouponCode      string       `json:"couponCode,omitempty" bson:"couponCode,omitempty"`
	DiscountApplied float64      `json:"discountApplied" bson:"discountApplied"`
	ServiceAmount   float64      `json:"serviceAmount,omitempty" bson:"serviceAmount,omitempty"`
	AdminNotes      string       `json:"adminNotes,omitempty" bson:"adminNotes,omitempty"`
	Attribution     *Attribution `json:"attribution,omitempty" bson:"attribution,omitempty"`
	CreatedAt       time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// Attribution is the per-booking marker that makes referral attribution run once
type Attribution struct {
	State         string     `json:"state" bson:"state"`
	TransactionID string     `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Error         string     `json:"error,omitempty" bson:"error,omitempty"`
	ClaimedAt     time.Time  `json:"claimedAt" bson:"claimedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// HasReferrer reports whether the booking is attributed to a BA
func (b *Booking) HasReferrer() bool {
	return b.ReferrerID != ""
}

// CreateBookingRequest is the public booking request body
type CreateBookingRequest struct {
	ClientName    string       `json:"clientName" validate:"required"`
	ClientEmail   string       `json:"clientEmail" validate:"required,email"`
	ClientPhone   string       `json:"clientPhone" validate:"required"`
	ServiceType   string       `json:"serviceType" validate:"required"`
	Description   string       `json:"description,omitempty"`
	PreferredDate FlexibleDate `json:"preferredDate"`
	PreferredTime string       `json:"preferredTime" validate:"required"`
	ReferralCode  string       `json:"referralCode,omitempty"`
	CouponCode    string       `json:"couponCode,omitempty"`
}

// dateLayouts are the accepted preferredDate encodings, most specific first
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// FlexibleDate accepts a full timestamp or a plain calendar date
type FlexibleDate struct {
	time.Time
}

// ParseFlexibleDate parses s with the first matching layout
func ParseFlexibleDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func (d *FlexibleDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseFlexibleDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d FlexibleDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

// UpdateBookingRequest is the admin update body
type UpdateBookingRequest struct {
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	AdminNotes    *string  `json:"adminNotes,omitempty"`
	ServiceAmount *float64 `json:"serviceAmount,omitempty" validate:"omitempty,gte=0"`
}

// BookingFilter narrows admin booking listings
type BookingFilter struct {
	ServiceType string     `query:"serviceType"`
	Status      string     `query:"status"`
	StartDate   *time.Time `query:"-"`
	EndDate     *time.Time `query:"-"`
}

// CountBucket is one row of a $group count aggregation
type CountBucket struct {
	Key   string `json:"key" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// BookingStats summarizes bookings for the admin dashboard
type BookingStats struct {
	Total     int64         `json:"total"`
	ByStatus  []CountBucket `json:"byStatus"`
	ByService []CountBucket `json:"byService"`
}

// BookingResponse model
type BookingResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Data    *Booking `json:"data,omitempty"`
}

// BookingsResponse model for multiple bookings
type BookingsResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    []Booking `json:"data,omitempty"`
}
