package handlers

import (
	"net/http"
	"strings"
	"time"

	"cozy-corner-api/config"
	"cozy-corner-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateCouponRequest struct {
	Code                  string              `json:"code" binding:"required"`
	Description           string              `json:"description"`
	DiscountType          models.DiscountType `json:"discount_type" binding:"required"`
	DiscountValue         decimal.Decimal     `json:"discount_value" binding:"required"`
	MinimumOrderAmount    *decimal.Decimal    `json:"minimum_order_amount"`
	MaximumDiscountAmount *decimal.Decimal    `json:"maximum_discount_amount"`
	UsageLimit            *int                `json:"usage_limit"`
	ValidFrom             time.Time           `json:"valid_from" binding:"required"`
	ValidUntil            time.Time           `json:"valid_until" binding:"required"`
}

// CreateCoupon registers a new coupon (admin only)
func CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DiscountType != models.DiscountPercentage && req.DiscountType != models.DiscountFixedAmount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount_type must be PERCENTAGE or FIXED_AMOUNT"})
		return
	}
	if req.DiscountValue.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "discount_value must not be negative"})
		return
	}
	if !req.ValidUntil.After(req.ValidFrom) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid_until must be after valid_from"})
		return
	}

	coupon := models.Coupon{
		Code:                  strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:           req.Description,
		DiscountType:          req.DiscountType,
		DiscountValue:         req.DiscountValue,
		MinimumOrderAmount:    req.MinimumOrderAmount,
		MaximumDiscountAmount: req.MaximumDiscountAmount,
		UsageLimit:            req.UsageLimit,
		ValidFrom:             req.ValidFrom,
		ValidUntil:            req.ValidUntil,
		IsActive:              true,
	}
	if coupon.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code is required"})
		return
	}
	if err := config.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Coupon created", "coupon": coupon})
}

// ListCoupons returns all coupons (admin only)
func ListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	query := config.DB
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}
	query.Order("created_at desc").Find(&coupons)
	c.JSON(http.StatusOK, gin.H{"count": len(coupons), "coupons": coupons})
}

// DeactivateCoupon turns a coupon off without deleting it
func DeactivateCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := config.DB.First(&coupon, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		return
	}
	config.DB.Model(&coupon).Update("is_active", false)
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deactivated", "coupon_id": coupon.ID})
}

type ValidateCouponRequest struct {
	Code        string          `json:"code" binding:"required"`
	OrderAmount decimal.Decimal `json:"order_amount" binding:"required"`
}

// ValidateCoupon previews the discount a coupon would apply to an order
// amount, without redeeming anything.
func ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var coupon models.Coupon
	if err := config.DB.Where("code = ?", strings.ToUpper(req.Code)).First(&coupon).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown coupon code"})
		return
	}
	now := time.Now()
	discount := coupon.CalculateDiscount(req.OrderAmount, now)
	c.JSON(http.StatusOK, gin.H{
		"code":       coupon.Code,
		"valid":      coupon.IsValid(now) && !discount.IsZero(),
		"discount":   discount,
		"final_cost": req.OrderAmount.Sub(discount),
	})
}
