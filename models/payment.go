package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCreditCard     PaymentMethod = "CREDIT_CARD"
	MethodDebitCard      PaymentMethod = "DEBIT_CARD"
	MethodPayPal         PaymentMethod = "PAYPAL"
	MethodGooglePay      PaymentMethod = "GOOGLE_PAY"
	MethodApplePay       PaymentMethod = "APPLE_PAY"
	MethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPayPal,
		MethodGooglePay, MethodApplePay, MethodCashOnDelivery:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment records the result reported back by the external gateway;
// it never talks to the payment network itself.
type Payment struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderID       uint            `json:"order_id" gorm:"uniqueIndex;not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Method        PaymentMethod   `json:"method" gorm:"not null"`
	Status        PaymentStatus   `json:"status" gorm:"not null;default:'PENDING'"`
	TransactionID string          `json:"transaction_id"`
	Gateway       string          `json:"gateway"` // "stripe", "paypal", "cash"
	CompletedAt   *time.Time      `json:"completed_at"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// paymentTransitions is the tightened graph: a failed payment cannot be
// completed or refunded, and a completed one cannot be re-opened.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

// SetStatus moves the payment to target, enforcing the transition graph.
// Setting the current status again is a no-op so gateway callback retries
// stay idempotent. COMPLETED stamps CompletedAt exactly once; FAILED
// requires a non-empty reason.
func (p *Payment) SetStatus(target PaymentStatus, reason string, now time.Time) error {
	if target == p.Status {
		return nil
	}
	allowed := false
	for _, next := range paymentTransitions[p.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, p.Status, target)
	}
	if target == PaymentFailed && strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: a failed payment requires a failure reason", ErrValidation)
	}

	p.Status = target
	switch target {
	case PaymentCompleted:
		if p.CompletedAt == nil {
			t := now
			p.CompletedAt = &t
		}
	case PaymentFailed:
		p.FailureReason = reason
	}
	return nil
}
