package models

import "time"

// CouponCode is a discount code clients can apply at booking time
type CouponCode struct {
	ID                 string     `json:"id" bson:"_id"`
	Code               string     `json:"code" bson:"code"`
	DiscountPercentage float64    `json:"discountPercentage" bson:"discountPercentage"`
	DiscountAmount     float64    `json:"discountAmount,omitempty" bson:"discountAmount,omitempty"`
	GlobalUsageLimit   int64      `json:"globalUsageLimit,omitempty" bson:"globalUsageLimit,omitempty"` // 0 means unlimited
	GlobalUsageCount   int64      `json:"globalUsageCount" bson:"globalUsageCount"`
	ExpiryDate         *time.Time `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	IsActive           bool       `json:"isActive" bson:"isActive"`
	CreatedAt          time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Usable reports whether the coupon can be applied at the given time
func (c *CouponCode) Usable(now time.Time) bool {
	return c.IsActive && !c.Expired(now) && !c.LimitReached()
}

func (c *CouponCode) Expired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

// LimitReached reports whether every allowed use has been redeemed.
// A zero limit means unlimited.
func (c *CouponCode) LimitReached() bool {
	return c.GlobalUsageLimit > 0 && c.GlobalUsageCount >= c.GlobalUsageLimit
}

// Discount is the value recorded on a booking that uses this coupon
func (c *CouponCode) Discount() float64 {
	if c.DiscountPercentage > 0 {
		return c.DiscountPercentage
	}
	return c.DiscountAmount
}

// CouponAssignment grants a coupon to a BA for distribution
type CouponAssignment struct {
	ID                string    `json:"id" bson:"_id"`
	CouponID          string    `json:"couponId" bson:"couponId"`
	BAID              string    `json:"baId" bson:"baId"`
	PerUserUsageLimit int64     `json:"perUserUsageLimit,omitempty" bson:"perUserUsageLimit,omitempty"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updatedAt"`
}

// AssignedCoupon is an assignment joined with its coupon
type AssignedCoupon struct {
	CouponAssignment `bson:",inline"`
	Coupon           *CouponCode `json:"coupon" bson:"coupon,omitempty"`
}

// CreateCouponRequest represents the request body for creating coupons
type CreateCouponRequest struct {
	Code               string     `json:"code" validate:"required"`
	DiscountPercentage float64    `json:"discountPercentage" validate:"gte=0,lte=100"`
	DiscountAmount     float64    `json:"discountAmount,omitempty" validate:"gte=0"`
	GlobalUsageLimit   int64      `json:"globalUsageLimit,omitempty" validate:"omitempty,min=1"`
	ExpiryDate         *time.Time `json:"expiryDate,omitempty"`
}

// AssignCouponRequest assigns an existing coupon to a BA
type AssignCouponRequest struct {
	CouponID          string `json:"couponId" validate:"required"`
	BAID              string `json:"baId" validate:"required"`
	PerUserUsageLimit int64  `json:"perUserUsageLimit,omitempty" validate:"omitempty,min=1"`
}
