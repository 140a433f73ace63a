package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(n int) *int { return &n }

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// save10 mirrors a typical percentage coupon with a minimum and a cap.
func save10() *Coupon {
	return &Coupon{
		Code:                  "SAVE10",
		DiscountType:          DiscountPercentage,
		DiscountValue:         dec("10"),
		MinimumOrderAmount:    decPtr("20.00"),
		MaximumDiscountAmount: decPtr("5.00"),
		UsageLimit:            intPtr(100),
		UsageCount:            0,
		ValidFrom:             testNow.Add(-24 * time.Hour),
		ValidUntil:            testNow.Add(24 * time.Hour),
		IsActive:              true,
	}
}

func TestCalculateDiscountCappedPercentage(t *testing.T) {
	c := save10()
	got := c.CalculateDiscount(dec("100.00"), testNow)
	if !got.Equal(dec("5.00")) {
		t.Fatalf("discount = %s, want 5.00 (10%% of 100 capped at 5)", got)
	}
}

func TestCalculateDiscountBelowMinimum(t *testing.T) {
	c := save10()
	got := c.CalculateDiscount(dec("15.00"), testNow)
	if !got.IsZero() {
		t.Fatalf("discount = %s, want 0 for order below minimum", got)
	}
}

func TestCalculateDiscountUncappedPercentage(t *testing.T) {
	c := save10()
	c.MaximumDiscountAmount = nil
	got := c.CalculateDiscount(dec("80.00"), testNow)
	if !got.Equal(dec("8")) {
		t.Fatalf("discount = %s, want 8 (10%% of 80)", got)
	}
}

func TestCalculateDiscountInvalidCoupon(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Coupon)
	}{
		{"inactive", func(c *Coupon) { c.IsActive = false }},
		{"not yet valid", func(c *Coupon) { c.ValidFrom = testNow.Add(time.Hour) }},
		{"expired", func(c *Coupon) { c.ValidUntil = testNow.Add(-time.Hour) }},
		{"usage exhausted", func(c *Coupon) { c.UsageCount = 100 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := save10()
			tc.mutate(c)
			if got := c.CalculateDiscount(dec("100.00"), testNow); !got.IsZero() {
				t.Fatalf("discount = %s, want 0", got)
			}
		})
	}
}

func TestValidityWindowBounds(t *testing.T) {
	c := save10()
	// [ValidFrom, ValidUntil): the end instant is excluded
	if c.IsValid(c.ValidUntil) {
		t.Fatal("coupon must be invalid exactly at ValidUntil")
	}
	if !c.IsValid(c.ValidUntil.Add(-time.Second)) {
		t.Fatal("coupon must be valid just before ValidUntil")
	}
	if c.IsValid(c.ValidFrom.Add(-time.Second)) {
		t.Fatal("coupon must be invalid before ValidFrom")
	}
}

func TestNoUsageLimitNeverExhausts(t *testing.T) {
	c := save10()
	c.UsageLimit = nil
	c.UsageCount = 1_000_000
	if !c.IsValid(testNow) {
		t.Fatal("coupon without usage limit must stay valid regardless of count")
	}
}

func TestFixedDiscountClampedToOrderAmount(t *testing.T) {
	c := &Coupon{
		Code:          "FLAT50",
		DiscountType:  DiscountFixedAmount,
		DiscountValue: dec("50.00"),
		ValidFrom:     testNow.Add(-time.Hour),
		ValidUntil:    testNow.Add(time.Hour),
		IsActive:      true,
	}
	got := c.CalculateDiscount(dec("30.00"), testNow)
	if !got.Equal(dec("30.00")) {
		t.Fatalf("discount = %s, want 30.00 (clamped to order amount)", got)
	}
}

func TestFixedDiscountWithinOrderAmount(t *testing.T) {
	c := &Coupon{
		Code:          "FLAT5",
		DiscountType:  DiscountFixedAmount,
		DiscountValue: dec("5.00"),
		ValidFrom:     testNow.Add(-time.Hour),
		ValidUntil:    testNow.Add(time.Hour),
		IsActive:      true,
	}
	got := c.CalculateDiscount(dec("30.00"), testNow)
	if !got.Equal(dec("5.00")) {
		t.Fatalf("discount = %s, want 5.00", got)
	}
}

func TestDiscountNeverNegative(t *testing.T) {
	c := save10()
	amounts := []string{"0.00", "20.00", "19.99", "100.00", "0.01"}
	for _, a := range amounts {
		if got := c.CalculateDiscount(dec(a), testNow); got.IsNegative() {
			t.Fatalf("discount for amount %s is negative: %s", a, got)
		}
	}
}
