package types

import (
	"fmt"
	"time"
)

// ValidationError reports malformed or out-of-range input. It is always
// recoverable by the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthorizationError reports a caller acting outside its permissions:
// wrong role, unverified, blocked, or not the owner of the record.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized: %s", e.Reason)
}

// NewAuthorizationError creates an authorization error.
func NewAuthorizationError(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

// NotFoundError reports that an id does not resolve to a live,
// non-deleted record.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// NewNotFoundError creates a not-found error for the given resource.
func NewNotFoundError(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a duplicate record or an illegal state
// transition. CurrentStatus carries the record's status at the time of
// the attempt so retries of terminal transitions see the live state
// rather than an error that implies data loss.
type ConflictError struct {
	Reason        string
	CurrentStatus string
}

func (e *ConflictError) Error() string {
	if e.CurrentStatus == "" {
		return fmt.Sprintf("conflict: %s", e.Reason)
	}
	return fmt.Sprintf("conflict: %s (current status: %s)", e.Reason, e.CurrentStatus)
}

// NewConflictError creates a conflict error.
func NewConflictError(reason, currentStatus string) *ConflictError {
	return &ConflictError{Reason: reason, CurrentStatus: currentStatus}
}

// ExpiredError reports an operation on an invitation past its window.
type ExpiredError struct {
	Resource  string
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("%s expired at %s", e.Resource, e.ExpiredAt.Format(time.RFC3339))
}

// NewExpiredError creates an expired error.
func NewExpiredError(resource string, expiredAt time.Time) *ExpiredError {
	return &ExpiredError{Resource: resource, ExpiredAt: expiredAt}
}

// RateLimitedError reports an admission limiter denial. RetryAfter is a
// hint for when the caller may try again.
type RateLimitedError struct {
	Policy     string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s, retry after %s", e.Policy, e.RetryAfter)
}

// DependencyError reports that a backing dependency (the store) is
// unavailable. It is the only class the caller should treat as
// transient and retriable.
type DependencyError struct {
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency unavailable: %v", e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
