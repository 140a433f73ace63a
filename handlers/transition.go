package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"cozy-corner-api/models"
	"cozy-corner-api/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransitionOrder drives the order lifecycle: it validates the move for
// the acting role, creates the Delivery record when a DELIVERY order
// reaches the kitchen pass, stamps the delivered time, and persists the
// status change under an optimistic version check. A zero-row update
// means someone else moved the order first and the caller must re-read.
// The delivery creation, the status update, and the history row commit
// together; a losing transition leaves no trace.
func TransitionOrder(db *gorm.DB, order *models.Order, target models.OrderStatus, actor models.UserRole, actorID uint, note string, now time.Time) error {
	if err := statemachine.CanTransition(order.Status, target, actor); err != nil {
		return err
	}

	// READY -> DELIVERED is the counter handover, pickup orders only
	if order.Status == models.StatusReady && target == models.StatusDelivered && order.OrderType != models.TypePickup {
		return fmt.Errorf("%w: a DELIVERY order must go out for delivery before it can be delivered", models.ErrInvalidTransition)
	}

	updates := map[string]interface{}{
		"status":  target,
		"version": order.Version + 1,
	}
	switch target {
	case models.StatusConfirmed:
		est := now.Add(estimatedPrepDuration(db, order))
		updates["estimated_delivery_time"] = est
	case models.StatusDelivered:
		if order.ActualDeliveryTime == nil {
			updates["actual_delivery_time"] = now
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// A DELIVERY order gets its Delivery record when it reaches
		// READY; the OUT_FOR_DELIVERY check is a safety net for orders
		// that were forced into READY without one.
		if order.OrderType == models.TypeDelivery &&
			(target == models.StatusReady || target == models.StatusOutForDelivery) {
			if err := ensureDelivery(tx, order); err != nil {
				return err
			}
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d was modified concurrently", models.ErrConflict, order.ID)
		}

		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   target,
			ChangedBy:  actorID,
			Note:       note,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return err
	}

	order.Status = target
	order.Version++
	if t, ok := updates["actual_delivery_time"].(time.Time); ok {
		order.ActualDeliveryTime = &t
	}
	if t, ok := updates["estimated_delivery_time"].(time.Time); ok {
		order.EstimatedDeliveryTime = &t
	}
	return nil
}

// ensureDelivery creates the PENDING Delivery for an order that does
// not have one yet. Runs before the order status changes.
func ensureDelivery(db *gorm.DB, order *models.Order) error {
	var count int64
	if err := db.Model(&models.Delivery{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	delivery := models.Delivery{
		OrderID:               order.ID,
		Status:                models.DeliveryPending,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
	}
	return db.Create(&delivery).Error
}

// estimatedPrepDuration derives an ETA from the slowest item plus a
// fixed delivery allowance.
func estimatedPrepDuration(db *gorm.DB, order *models.Order) time.Duration {
	items := order.Items
	if len(items) == 0 {
		db.Where("order_id = ?", order.ID).Find(&items)
	}
	maxPrep := 0
	for _, item := range items {
		var menuItem models.MenuItem
		if err := db.First(&menuItem, item.MenuItemID).Error; err == nil {
			if menuItem.PreparationTime > maxPrep {
				maxPrep = menuItem.PreparationTime
			}
		}
	}
	if maxPrep == 0 {
		maxPrep = 20
	}
	return time.Duration(maxPrep+30) * time.Minute
}

// GetStateMachineInfo returns the full transition table for informational
// purposes
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
	})
}

// respondTransitionError maps lifecycle errors onto HTTP status codes.
func respondTransitionError(c *gin.Context, order *models.Order, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Order was updated by someone else, retry",
			"reason": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
	}
}
