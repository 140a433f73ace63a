package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReady          OrderStatus = "READY"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderType distinguishes door delivery from counter pickup
type OrderType string

const (
	TypeDelivery OrderType = "DELIVERY"
	TypePickup   OrderType = "PICKUP"
)

// Order is the aggregate root: items live and die with it, and it owns
// at most one Payment and (for DELIVERY orders) at most one Delivery.
type Order struct {
	ID                    uint                 `json:"id" gorm:"primaryKey"`
	CustomerID            uint                 `json:"customer_id" gorm:"not null"`
	Customer              User                 `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Status                OrderStatus          `json:"status" gorm:"not null;default:'PENDING'"`
	TotalPrice            decimal.Decimal      `json:"total_price" gorm:"type:decimal(10,2);not null"`
	DeliveryAddress       string               `json:"delivery_address"`
	SpecialInstructions   string               `json:"special_instructions"`
	OrderType             OrderType            `json:"order_type" gorm:"not null;default:'DELIVERY'"`
	CouponCode            string               `json:"coupon_code,omitempty"`
	DiscountAmount        decimal.Decimal      `json:"discount_amount" gorm:"type:decimal(10,2);default:0"`
	EstimatedDeliveryTime *time.Time           `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time           `json:"actual_delivery_time"`
	Version               uint                 `json:"-" gorm:"not null;default:0"` // optimistic lock counter
	Items                 []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment               *Payment             `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
	Delivery              *Delivery            `json:"delivery,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory         []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// IsTerminal reports whether no further status change is permitted.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"` // snapshot at order time
	Name       string          `json:"name"`                                          // snapshot name
}

// LineTotal is quantity times the snapshotted unit price.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory tracks every status change, including admin overrides
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
