package handlers

import (
	"net/http"
	"time"

	"cozy-corner-api/config"
	"cozy-corner-api/middleware"
	"cozy-corner-api/models"

	"github.com/gin-gonic/gin"
)

// GetAvailableDeliveries shows unassigned deliveries whose orders are
// ready to leave the kitchen
func GetAvailableDeliveries(c *gin.Context) {
	var deliveries []models.Delivery
	config.DB.
		Where("status = ? AND driver_id IS NULL", models.DeliveryPending).
		Order("created_at asc").
		Find(&deliveries)
	c.JSON(http.StatusOK, gin.H{"count": len(deliveries), "deliveries": deliveries})
}

// GetMyDeliveries returns all deliveries assigned to the logged-in driver
func GetMyDeliveries(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	var deliveries []models.Delivery
	config.DB.
		Where("driver_id = ?", driverID).
		Order("updated_at desc").
		Find(&deliveries)
	c.JSON(http.StatusOK, gin.H{"count": len(deliveries), "deliveries": deliveries})
}

// AcceptDelivery assigns a pending delivery to the calling driver
func AcceptDelivery(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	var delivery models.Delivery
	if err := config.DB.First(&delivery, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
		return
	}
	if delivery.DriverID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Delivery has already been accepted by another driver"})
		return
	}

	var driver models.User
	if err := config.DB.First(&driver, driverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}
	if err := delivery.AssignDriver(&driver); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(&delivery).Updates(map[string]interface{}{
		"driver_id": delivery.DriverID,
		"status":    delivery.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Delivery accepted",
		"delivery": delivery,
	})
}

// PickupDelivery marks the bag collected and moves the order out for
// delivery.
func PickupDelivery(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	delivery, order, ok := loadAssignedDelivery(c, driverID)
	if !ok {
		return
	}

	now := time.Now()
	if err := delivery.MarkPickedUp(now); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if order.Status == models.StatusReady {
		if err := TransitionOrder(config.DB, order, models.StatusOutForDelivery,
			models.RoleDriver, driverID, "Driver picked up the order", now); err != nil {
			respondTransitionError(c, order, err)
			return
		}
	}
	config.DB.Model(delivery).Updates(map[string]interface{}{
		"status":      delivery.Status,
		"pickup_time": delivery.PickupTime,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Pickup recorded", "delivery": delivery})
}

// StartDeliveryRoute marks the driver en route to the customer
func StartDeliveryRoute(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	delivery, _, ok := loadAssignedDelivery(c, driverID)
	if !ok {
		return
	}
	if err := delivery.MarkOnTheWay(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(delivery).Update("status", delivery.Status)
	c.JSON(http.StatusOK, gin.H{"message": "On the way", "delivery": delivery})
}

// CompleteDelivery marks the delivery done and the order DELIVERED
func CompleteDelivery(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	delivery, order, ok := loadAssignedDelivery(c, driverID)
	if !ok {
		return
	}

	now := time.Now()
	if err := delivery.MarkDelivered(now); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := TransitionOrder(config.DB, order, models.StatusDelivered,
		models.RoleDriver, driverID, "Order delivered to customer", now); err != nil {
		respondTransitionError(c, order, err)
		return
	}
	config.DB.Model(delivery).Updates(map[string]interface{}{
		"status":        delivery.Status,
		"delivery_time": delivery.DeliveryTime,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Delivery completed",
		"delivery": delivery,
		"order_id": order.ID,
	})
}

type FailDeliveryRequest struct {
	Note string `json:"note" binding:"required"`
}

// FailDelivery records an unsuccessful delivery attempt
func FailDelivery(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	delivery, _, ok := loadAssignedDelivery(c, driverID)
	if !ok {
		return
	}
	var req FailDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := delivery.MarkFailed(req.Note); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(delivery).Updates(map[string]interface{}{
		"status": delivery.Status,
		"notes":  delivery.Notes,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Delivery marked failed", "delivery": delivery})
}

type LocationUpdateRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// UpdateDeliveryLocation records the driver's live GPS position.
// Rejected unless the delivery is in transit.
func UpdateDeliveryLocation(c *gin.Context) {
	driverID := middleware.GetUserID(c)

	delivery, _, ok := loadAssignedDelivery(c, driverID)
	if !ok {
		return
	}
	var req LocationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := delivery.UpdateLocation(req.Latitude, req.Longitude); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(delivery).Updates(map[string]interface{}{
		"current_latitude":  delivery.CurrentLatitude,
		"current_longitude": delivery.CurrentLongitude,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Location updated", "delivery": delivery})
}

// loadAssignedDelivery fetches the delivery in the path and verifies the
// caller is its assigned driver. Writes the error response itself.
func loadAssignedDelivery(c *gin.Context, driverID uint) (*models.Delivery, *models.Order, bool) {
	var delivery models.Delivery
	if err := config.DB.First(&delivery, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
		return nil, nil, false
	}
	if delivery.DriverID == nil || *delivery.DriverID != driverID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned driver for this delivery"})
		return nil, nil, false
	}
	var order models.Order
	if err := config.DB.First(&order, delivery.OrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found for delivery"})
		return nil, nil, false
	}
	return &delivery, &order, true
}
