package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"cozy-corner-api/config"
	"cozy-corner-api/middleware"
	"cozy-corner-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PlaceOrderRequest struct {
	OrderType           models.OrderType     `json:"order_type" binding:"required"`
	DeliveryAddress     string               `json:"delivery_address"`
	SpecialInstructions string               `json:"special_instructions"`
	CouponCode          string               `json:"coupon_code"`
	PaymentMethod       models.PaymentMethod `json:"payment_method" binding:"required"`
	Items               []struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// PlaceOrder creates a new order with its PENDING payment (customer only).
// Item prices and names are snapshotted, the coupon discount (if any) is
// locked in, and a delivery address is required for DELIVERY orders.
func PlaceOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OrderType != models.TypeDelivery && req.OrderType != models.TypePickup {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_type must be DELIVERY or PICKUP"})
		return
	}
	if req.OrderType == models.TypeDelivery && strings.TrimSpace(req.DeliveryAddress) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_address is required for DELIVERY orders"})
		return
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method: " + string(req.PaymentMethod)})
		return
	}

	// Build order items from the current menu, snapshotting price and name
	var orderItems []models.OrderItem
	total := decimal.Zero
	for _, reqItem := range req.Items {
		var menuItem models.MenuItem
		if err := config.DB.First(&menuItem, reqItem.MenuItemID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item not found: " + strconv.Itoa(int(reqItem.MenuItemID))})
			return
		}
		if !menuItem.IsAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + menuItem.Name + "' is not available"})
			return
		}
		line := models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   reqItem.Quantity,
			UnitPrice:  menuItem.Price,
			Name:       menuItem.Name,
		}
		total = total.Add(line.LineTotal())
		orderItems = append(orderItems, line)
	}

	// Apply the coupon at checkout; redemption is counted when the
	// payment completes.
	now := time.Now()
	discount := decimal.Zero
	couponCode := ""
	if req.CouponCode != "" {
		// codes are stored upper-cased
		code := strings.ToUpper(strings.TrimSpace(req.CouponCode))
		var coupon models.Coupon
		if err := config.DB.Where("code = ?", code).First(&coupon).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown coupon code"})
			return
		}
		discount = coupon.CalculateDiscount(total, now)
		if discount.IsZero() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":        "Coupon not applicable to this order",
				"order_amount": total,
			})
			return
		}
		couponCode = coupon.Code
	}

	payable := total.Sub(discount)
	order := models.Order{
		CustomerID:          customerID,
		Status:              models.StatusPending,
		TotalPrice:          payable,
		DeliveryAddress:     req.DeliveryAddress,
		SpecialInstructions: req.SpecialInstructions,
		OrderType:           req.OrderType,
		CouponCode:          couponCode,
		DiscountAmount:      discount,
		Items:               orderItems,
	}
	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	gateway := "stripe"
	if req.PaymentMethod == models.MethodCashOnDelivery {
		gateway = "cash"
	}
	payment := models.Payment{
		OrderID: order.ID,
		Amount:  payable,
		Method:  req.PaymentMethod,
		Status:  models.PaymentPending,
		Gateway: gateway,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment record"})
		return
	}

	history := models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.StatusPending,
		ChangedBy: customerID,
		Note:      "Order placed by customer",
	}
	config.DB.Create(&history)

	config.DB.Preload("Items").Preload("Payment").First(&order, order.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Order placed successfully",
		"order":    order,
		"subtotal": total,
		"discount": discount,
	})
}

// GetMyOrders returns all orders for the logged-in customer
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items").Preload("Payment").Preload("Delivery").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns a single order's full detail with history
func GetOrderDetail(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.
		Preload("Items").
		Preload("Payment").
		Preload("Delivery").
		Preload("Delivery.Driver").
		Preload("StatusHistory").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels an order (customer can cancel PENDING or CONFIRMED)
func CancelOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	if err := TransitionOrder(config.DB, &order, models.StatusCancelled,
		models.RoleCustomer, customerID, "Order cancelled by customer", time.Now()); err != nil {
		respondTransitionError(c, &order, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}
