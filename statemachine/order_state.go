package statemachine

import (
	"fmt"

	"cozy-corner-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// validTransitions is the authoritative state machine definition.
// READY -> DELIVERED is the counter handover for PICKUP orders; the
// orchestration layer rejects it for DELIVERY orders.
var validTransitions = []Transition{
	// Kitchen flow, driven by staff
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: models.RoleAdmin},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: models.RoleAdmin},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: models.RoleAdmin},
	{From: models.StatusReady, To: models.StatusOutForDelivery, Actor: models.RoleAdmin},
	{From: models.StatusReady, To: models.StatusOutForDelivery, Actor: models.RoleDriver},
	{From: models.StatusReady, To: models.StatusDelivered, Actor: models.RoleAdmin},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: models.RoleDriver},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: models.RoleAdmin},
	// Customers may back out before the kitchen starts
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleCustomer},
	// Staff can cancel from any non-terminal state
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusOutForDelivery, To: models.StatusCancelled, Actor: models.RoleAdmin},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s is not allowed for role %s (valid next states: %s)",
		models.ErrInvalidTransition, from, to, actor, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none, terminal state"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
