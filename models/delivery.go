package models

import (
	"fmt"
	"time"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryOnTheWay  DeliveryStatus = "ON_THE_WAY"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

// Delivery exists only for DELIVERY-type orders, one per order.
type Delivery struct {
	ID                    uint           `json:"id" gorm:"primaryKey"`
	OrderID               uint           `json:"order_id" gorm:"uniqueIndex;not null"`
	DriverID              *uint          `json:"driver_id"`
	Driver                *User          `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Status                DeliveryStatus `json:"status" gorm:"not null;default:'PENDING'"`
	PickupTime            *time.Time     `json:"pickup_time"`
	DeliveryTime          *time.Time     `json:"delivery_time"`
	EstimatedDeliveryTime *time.Time     `json:"estimated_delivery_time"`
	CurrentLatitude       *float64       `json:"current_latitude"`
	CurrentLongitude      *float64       `json:"current_longitude"`
	Notes                 string         `json:"notes"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// AssignDriver moves PENDING -> ASSIGNED. The driver must hold the
// DRIVER role and be active.
func (d *Delivery) AssignDriver(driver *User) error {
	if !driver.CanDrive() {
		return fmt.Errorf("%w: user %d", ErrInactiveDriver, driver.ID)
	}
	if d.Status != DeliveryPending {
		return fmt.Errorf("%w: delivery %s -> %s", ErrInvalidTransition, d.Status, DeliveryAssigned)
	}
	d.DriverID = &driver.ID
	d.Status = DeliveryAssigned
	return nil
}

// MarkPickedUp moves ASSIGNED -> PICKED_UP and stamps the pickup time.
func (d *Delivery) MarkPickedUp(now time.Time) error {
	if d.Status != DeliveryAssigned {
		return fmt.Errorf("%w: delivery %s -> %s", ErrInvalidTransition, d.Status, DeliveryPickedUp)
	}
	d.Status = DeliveryPickedUp
	t := now
	d.PickupTime = &t
	return nil
}

// MarkOnTheWay moves PICKED_UP -> ON_THE_WAY.
func (d *Delivery) MarkOnTheWay() error {
	if d.Status != DeliveryPickedUp {
		return fmt.Errorf("%w: delivery %s -> %s", ErrInvalidTransition, d.Status, DeliveryOnTheWay)
	}
	d.Status = DeliveryOnTheWay
	return nil
}

// MarkDelivered moves ON_THE_WAY -> DELIVERED and stamps the delivery time.
func (d *Delivery) MarkDelivered(now time.Time) error {
	if d.Status != DeliveryOnTheWay {
		return fmt.Errorf("%w: delivery %s -> %s", ErrInvalidTransition, d.Status, DeliveryDelivered)
	}
	d.Status = DeliveryDelivered
	t := now
	d.DeliveryTime = &t
	return nil
}

// MarkFailed records an unsuccessful delivery attempt with a note.
func (d *Delivery) MarkFailed(note string) error {
	switch d.Status {
	case DeliveryAssigned, DeliveryPickedUp, DeliveryOnTheWay:
		d.Status = DeliveryFailed
		if note != "" {
			d.Notes = note
		}
		return nil
	}
	return fmt.Errorf("%w: delivery %s -> %s", ErrInvalidTransition, d.Status, DeliveryFailed)
}

// InTransit reports whether GPS updates are meaningful for the current status.
func (d *Delivery) InTransit() bool {
	switch d.Status {
	case DeliveryAssigned, DeliveryPickedUp, DeliveryOnTheWay:
		return true
	}
	return false
}

// UpdateLocation records the driver's position. Updates outside the
// in-transit window are rejected: a position after DELIVERED or FAILED
// is meaningless.
func (d *Delivery) UpdateLocation(lat, lng float64) error {
	if !d.InTransit() {
		return fmt.Errorf("%w: status %s", ErrLocationNotInTransit, d.Status)
	}
	d.CurrentLatitude = &lat
	d.CurrentLongitude = &lng
	return nil
}
