package models

import "errors"

// Failure classes the handlers translate into HTTP status codes.
var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrConflict             = errors.New("concurrent modification detected")
	ErrCouponExhausted      = errors.New("coupon usage limit reached")
	ErrInactiveDriver       = errors.New("driver must be an active user with the driver role")
	ErrLocationNotInTransit = errors.New("location updates are only accepted while the delivery is in transit")
)
