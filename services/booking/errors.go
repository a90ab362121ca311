package booking

import (
	"fmt"
	"time"
)

// Typed, caller-recoverable conditions. Handlers map these to HTTP statuses;
// anything else that escapes the service layer is a store failure.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AccessDeniedError means the customer is bound to a different shop.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// BlockedError carries the instant the suspension lifts.
type BlockedError struct {
	Until time.Time
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("customer blocked until %s", e.Until.Format(time.RFC3339))
}

// ShopLockedError means the shop's subscription lapsed. Retriable later,
// distinct from access denial.
type ShopLockedError struct {
	ShopID string
}

func (e *ShopLockedError) Error() string {
	return fmt.Sprintf("shop %s subscription is not active", e.ShopID)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError means the requested slot was lost to a concurrent writer or
// is no longer available. Alternatives are the next free start times, capped
// at three, so the caller can re-render the choice immediately.
type ConflictError struct {
	Alternatives []string
}

func (e *ConflictError) Error() string {
	if len(e.Alternatives) == 0 {
		return "requested time is no longer available"
	}
	return fmt.Sprintf("requested time is no longer available, alternatives: %v", e.Alternatives)
}

// LeadTimeError means a cancel or reschedule came too close to the start.
type LeadTimeError struct {
	Hours int
}

func (e *LeadTimeError) Error() string {
	return fmt.Sprintf("changes require at least %dh before the booking start", e.Hours)
}
