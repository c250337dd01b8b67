/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers should match with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Request errors - invalid input, rejected before any mutation
  2. Lookup errors  - referenced employee/account does not exist
  3. Store errors   - persistence failures, wrapped with context

SEE ALSO:
  - engine.go:   Returns these from the public operations
  - api/handlers.go: Maps them to HTTP status codes
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRequest is returned for malformed input (non-positive
	// allocation amount, bad year). No mutation happens.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrEmployeeNotFound is returned when the referenced employee does
	// not exist in the directory.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrAccountNotFound is returned by read paths when no account row
	// exists for the requested (user, year).
	ErrAccountNotFound = errors.New("account not found")

	// ErrEntryNotFound is returned by stores when an update or delete
	// references an unknown entry ID.
	ErrEntryNotFound = errors.New("ledger entry not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidAmountError reports a non-positive allocation amount.
type InvalidAmountError struct {
	UserID string
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid allocation amount %s for user %s: must be positive", e.Amount, e.UserID)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidRequest }

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) || errors.Is(err, ErrAccountNotFound)
}
