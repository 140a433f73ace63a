package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"cozy-corner-api/config"
	"cozy-corner-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompletePaymentRequest struct {
	TransactionID string `json:"transaction_id"`
	Gateway       string `json:"gateway"`
}

// CompletePayment records a successful gateway result. If the order was
// placed with a coupon, its usage is redeemed here with a guarded
// increment so the usage limit holds under concurrent redemptions; an
// exhausted coupon rejects the completion and leaves the payment PENDING.
func CompletePayment(c *gin.Context) {
	var payment models.Payment
	if err := config.DB.First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	var order models.Order
	if err := config.DB.First(&order, payment.OrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found for payment"})
		return
	}

	// Body is optional: cash payments carry no gateway reference
	var req CompletePaymentRequest
	_ = c.ShouldBindJSON(&req)

	wasPending := payment.Status == models.PaymentPending

	if err := payment.SetStatus(models.PaymentCompleted, "", time.Now()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if req.TransactionID != "" {
		payment.TransactionID = req.TransactionID
	} else if payment.TransactionID == "" {
		payment.TransactionID = uuid.NewString()
	}
	if req.Gateway != "" {
		payment.Gateway = req.Gateway
	}
	updates := map[string]interface{}{
		"status":         payment.Status,
		"completed_at":   payment.CompletedAt,
		"transaction_id": payment.TransactionID,
		"gateway":        payment.Gateway,
	}

	if !wasPending {
		// Retried callback on an already-completed payment: record the
		// gateway reference, never redeem or credit again
		config.DB.Model(&payment).Updates(updates)
		c.JSON(http.StatusOK, gin.H{"message": "Payment completed", "payment": payment})
		return
	}

	// The PENDING -> COMPLETED flip, the coupon redemption and the
	// loyalty credit commit together. The status guard on the UPDATE
	// means exactly one of two concurrent completions wins.
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: payment %d was completed concurrently", models.ErrConflict, payment.ID)
		}
		if order.CouponCode != "" {
			if err := RedeemCoupon(tx, order.CouponCode); err != nil {
				return err
			}
		}
		awardLoyaltyPoints(tx, &order, &payment)
		return nil
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Payment completed", "payment": payment})
	case errors.Is(err, models.ErrCouponExhausted):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Coupon usage limit was reached by a concurrent order; re-price the order",
			"coupon": order.CouponCode,
		})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Payment was updated by someone else, retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete payment"})
	}
}

type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FailPayment records a declined or errored gateway result
func FailPayment(c *gin.Context) {
	var payment models.Payment
	if err := config.DB.First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	var req FailPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := payment.SetStatus(models.PaymentFailed, req.Reason, time.Now()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(&payment).Updates(map[string]interface{}{
		"status":         payment.Status,
		"failure_reason": payment.FailureReason,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Payment marked failed", "payment": payment})
}

// RefundPayment moves a completed payment to REFUNDED
func RefundPayment(c *gin.Context) {
	var payment models.Payment
	if err := config.DB.First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	if err := payment.SetStatus(models.PaymentRefunded, "", time.Now()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(&payment).Update("status", payment.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Payment refunded", "payment": payment})
}

// RedeemCoupon counts one usage against the coupon. The increment and
// the limit check happen in a single UPDATE so two concurrent
// redemptions near the limit cannot both succeed.
func RedeemCoupon(db *gorm.DB, code string) error {
	res := db.Model(&models.Coupon{}).
		Where("code = ? AND is_active = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", code, true).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrCouponExhausted
	}
	return nil
}

// awardLoyaltyPoints credits the customer one point per whole currency
// unit paid.
func awardLoyaltyPoints(db *gorm.DB, order *models.Order, payment *models.Payment) {
	points := payment.Amount.IntPart()
	if points <= 0 {
		return
	}
	db.Model(&models.User{}).
		Where("id = ? AND role = ?", order.CustomerID, models.RoleCustomer).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", points))
}
