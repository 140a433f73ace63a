package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

type Coupon struct {
	ID                    uint             `json:"id" gorm:"primaryKey"`
	Code                  string           `json:"code" gorm:"uniqueIndex;not null"`
	Description           string           `json:"description"`
	DiscountType          DiscountType     `json:"discount_type" gorm:"not null"`
	DiscountValue         decimal.Decimal  `json:"discount_value" gorm:"type:decimal(10,2);not null"`
	MinimumOrderAmount    *decimal.Decimal `json:"minimum_order_amount" gorm:"type:decimal(10,2)"`
	MaximumDiscountAmount *decimal.Decimal `json:"maximum_discount_amount" gorm:"type:decimal(10,2)"`
	UsageLimit            *int             `json:"usage_limit"`
	UsageCount            int              `json:"usage_count" gorm:"default:0"`
	ValidFrom             time.Time        `json:"valid_from" gorm:"not null"`
	ValidUntil            time.Time        `json:"valid_until" gorm:"not null"`
	IsActive              bool             `json:"is_active" gorm:"default:true"`
	CreatedAt             time.Time        `json:"created_at"`
}

// IsValid checks the coupon against its validity window and usage limit
// at the given instant. The window is [ValidFrom, ValidUntil).
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.ValidFrom) || !now.Before(c.ValidUntil) {
		return false
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return false
	}
	return true
}

// CalculateDiscount computes the discount for an order amount. Invalid
// coupons and orders below the minimum yield zero. The raw discount is
// capped by MaximumDiscountAmount and never exceeds the order amount.
func (c *Coupon) CalculateDiscount(orderAmount decimal.Decimal, now time.Time) decimal.Decimal {
	if !c.IsValid(now) {
		return decimal.Zero
	}
	if c.MinimumOrderAmount != nil && orderAmount.LessThan(*c.MinimumOrderAmount) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	if c.DiscountType == DiscountPercentage {
		discount = orderAmount.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
	} else {
		discount = c.DiscountValue
	}

	if c.MaximumDiscountAmount != nil && discount.GreaterThan(*c.MaximumDiscountAmount) {
		discount = *c.MaximumDiscountAmount
	}
	// A fixed discount larger than the order would leave a negative payable.
	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	return discount
}
