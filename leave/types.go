/*
Package leave provides the leave balance ledger engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking
  employee paid-leave entitlements as a dated, bucketed ledger: quota
  calculation, earliest-expiry-first allocation, cross-year carry-over,
  and the idempotent annual expiry cleanup.

KEY CONCEPTS IN THIS FILE (types.go):
  - LedgerEntry: A signed, typed, expiry-tagged transaction against a
    user's leave balance
  - Account: The aggregate snapshot per (user, year)
  - Bucket: All entries sharing one expiry date; a pool of credit that
    lapses on that date if unused
  - Floating entry: An entry with no expiry date; represents overdraft
    debt (or debt-settlement credit) not tied to a bucket

DESIGN PRINCIPLES:
  1. Append-mostly: Entries are created, soft-deleted, never rewritten
     (the single exception is the per-year CARRY_OVER upsert)
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Auditability: Every entry carries remarks and a creation timestamp

SEE ALSO:
  - allocator.go: Earliest-expiry-first deduction
  - carryover.go: Cross-year balance calculation
  - cleanup.go:   Annual expiry finalization
  - store.go:     Persistence interfaces
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTRY TYPES
// =============================================================================

type EntryType string

const (
	EntryCarryOver        EntryType = "CARRY_OVER"        // Yearly balance rolled in from the prior year (upserted)
	EntryAnnual           EntryType = "ANNUAL"            // Regular leave usage (negative)
	EntryAdjustmentAdd    EntryType = "ADJUSTMENT_ADD"    // Manual or settlement credit (positive)
	EntryAdjustmentDeduct EntryType = "ADJUSTMENT_DEDUCT" // Manual or settlement debit (negative)
	EntryExpired          EntryType = "EXPIRED"           // Credit drained at bucket expiry (negative)
)

// =============================================================================
// LEDGER ENTRY - Signed transaction against a user's leave balance
// =============================================================================

// LedgerEntry is one signed transaction. Positive Days is credit, negative
// is debit. ExpiryDate identifies the bucket the entry belongs to; a nil
// ExpiryDate marks a floating entry, used exclusively for overdraft/debt
// tracking: the sum of a user's floating entries is their outstanding
// overdraft (negative) or unresolved settlement credit.
type LedgerEntry struct {
	ID         string
	UserID     string
	Days       decimal.Decimal
	Type       EntryType
	StartDate  Date
	EndDate    Date
	ExpiryDate *Date
	CreateTime time.Time
	Remarks    string
	Deleted    bool
}

// Floating reports whether the entry belongs to no expiry bucket.
func (e LedgerEntry) Floating() bool { return e.ExpiryDate == nil }

// =============================================================================
// ACCOUNT - Aggregate snapshot per (user, year)
// =============================================================================

// Account holds the yearly quota figures and the carry-over snapshot.
// Rows are keyed uniquely by (UserID, Year) and are restored rather than
// recreated when soft-deleted.
type Account struct {
	ID              int64
	UserID          string
	Year            int
	StandardQuota   decimal.Decimal // Seniority-tier full-year entitlement
	ActualQuota     decimal.Decimal // Pro-rated for days employed
	DaysEmployed    int
	SocialSeniority int
	LastYearBalance decimal.Decimal // May be negative: debt brought forward
	CurrentYearUsed decimal.Decimal // Derived, informational
	Deleted         bool
}

// =============================================================================
// EMPLOYEE - Directory record (external collaborator data)
// =============================================================================

type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "ACTIVE"
	StatusResigned EmployeeStatus = "RESIGNED"
)

// Employee is the slice of the HR directory this engine needs: hire dates
// feed pro-ration, first work date feeds seniority.
type Employee struct {
	ID            string
	Name          string
	EntryDate     *Date // Hire date at this company; nil = unknown
	FirstWorkDate *Date // First working day ever (social seniority)
	Status        EmployeeStatus
	CreatedAt     time.Time
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Days builds a decimal day count from a float literal (test/demo helper).
func Days(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }
