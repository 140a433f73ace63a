package handlers

import (
	"net/http"
	"strconv"
	"time"

	"cozy-corner-api/config"
	"cozy-corner-api/middleware"
	"cozy-corner-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminGetAllOrders returns all orders with full detail. Filters:
// status, customer_id, from/to (RFC3339 date range, inclusive/exclusive),
// today=true, queue=pending|ready_for_delivery|ready_for_pickup.
func AdminGetAllOrders(c *gin.Context) {
	query := config.DB.Preload("Items").
		Preload("Customer").Preload("Payment").Preload("Delivery").Preload("StatusHistory")

	sortAsc := false
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			query = query.Where("created_at < ?", t)
		}
	}
	if c.Query("today") == "true" {
		start := startOfToday()
		query = query.Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1))
	}
	switch c.Query("queue") {
	case "pending":
		// orders that still need kitchen attention, oldest first
		query = query.Where("status IN ?", []models.OrderStatus{
			models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		})
		sortAsc = true
	case "ready_for_delivery":
		query = query.Where("status = ? AND order_type = ?", models.StatusReady, models.TypeDelivery)
		sortAsc = true
	case "ready_for_pickup":
		query = query.Where("status = ? AND order_type = ?", models.StatusReady, models.TypePickup)
		sortAsc = true
	}

	if sortAsc {
		query = query.Order("created_at asc")
	} else {
		query = query.Order("created_at desc")
	}

	var orders []models.Order
	query.Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// AdminUpdateOrderStatus advances an order through the lifecycle as staff
func AdminUpdateOrderStatus(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prevStatus := order.Status
	if err := TransitionOrder(config.DB, &order, req.Status,
		models.RoleAdmin, adminID, req.Note, time.Now()); err != nil {
		respondTransitionError(c, &order, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"current_status":  order.Status,
	})
}

// AdminForceOrderStatus lets admin override any non-terminal order state
// (emergency use). Bypasses the transition table but never resurrects a
// terminal order, and still records history and bumps the version.
func AdminForceOrderStatus(c *gin.Context) {
	adminID := middleware.GetUserID(c)

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Reason string             `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status: " + string(req.Status)})
		return
	}
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.IsTerminal() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Terminal orders cannot be moved",
			"current_status": order.Status,
		})
		return
	}

	prevStatus := order.Status
	res := config.DB.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{"status": req.Status, "version": order.Version + 1})
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Order was updated by someone else, retry"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  adminID,
		Note:       "[ADMIN OVERRIDE] " + req.Reason,
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated by admin",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}

// AdminGetAnalytics reports completed-order counts and revenue, for
// today by default or for an explicit from/to range.
func AdminGetAnalytics(c *gin.Context) {
	start := startOfToday()
	end := start.AddDate(0, 0, 1)
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			start = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			end = t
		}
	}

	var delivered []models.Order
	config.DB.Where("status = ? AND created_at >= ? AND created_at < ?",
		models.StatusDelivered, start, end).Find(&delivered)

	revenue := decimal.Zero
	for _, o := range delivered {
		revenue = revenue.Add(o.TotalPrice)
	}

	var cancelled int64
	config.DB.Model(&models.Order{}).
		Where("status = ? AND created_at >= ? AND created_at < ?", models.StatusCancelled, start, end).
		Count(&cancelled)

	c.JSON(http.StatusOK, gin.H{
		"from":             start,
		"to":               end,
		"completed_orders": len(delivered),
		"cancelled_orders": cancelled,
		"revenue":          revenue,
	})
}

// AdminGetAllUsers returns users with optional filters: role,
// active_drivers=true, min_loyalty_points.
func AdminGetAllUsers(c *gin.Context) {
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if c.Query("active_drivers") == "true" {
		query = query.Where("role = ? AND is_active = ?", models.RoleDriver, true)
	}
	if minPoints := c.Query("min_loyalty_points"); minPoints != "" {
		if n, err := strconv.Atoi(minPoints); err == nil {
			query = query.Where("role = ? AND loyalty_points >= ?", models.RoleCustomer, n)
		}
	}
	var users []models.User
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminDeactivateUser disables an account. Users are never deleted.
func AdminDeactivateUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	config.DB.Model(&user).Update("is_active", false)
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated", "user_id": user.ID})
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
