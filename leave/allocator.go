/*
allocator.go - Earliest-expiry-first leave deduction

PURPOSE:
  Consumes a requested number of leave days against the user's available
  expiry buckets, earliest bucket first, and records a floating overdraft
  entry for any shortfall. Overdraft is always permitted and always
  recorded; allocation never fails for lack of balance.

BUCKET ASSEMBLY:
  1. Net all non-floating entries per expiry date (usage entries are
     negative and share their bucket's expiry, so the net already
     reflects prior consumption).
  2. Implicit carry-over reconciliation: if Account.LastYearBalance
     exceeds the recorded CARRY_OVER sum (manual account edits never
     mirrored to the ledger), the difference is extra credit in the
     bucket expiring Dec 31 of the allocation year.
  3. The current year's quota always contributes a bucket expiring
     Dec 31 of year+1, valued at actualQuota plus that bucket's entry
     net (i.e. quota minus what was already used against it).
  4. Floating-debt recovery: if the user's floating entries sum to a
     net debt, that debt is subtracted from buckets in ascending expiry
     order before fresh allocation: credit already mortgaged by an
     overdraft cannot be spent twice.

CONSERVATION:
  The magnitudes of all entries created by one call sum exactly to the
  requested amount (bucket deductions plus overdraft, if any).

SEE ALSO:
  - engine.go:  Wraps this in account init / refresh and a transaction
  - cleanup.go: Settles the floating debt this may create
*/
package leave

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationRequest describes one deduction against a user's balance.
type AllocationRequest struct {
	UserID    string
	Amount    decimal.Decimal // Strictly positive
	StartDate Date
	EndDate   Date
	Type      EntryType // EntryAnnual or EntryAdjustmentDeduct
	Remarks   string
}

// allocate runs the bucket walk and returns the entries to persist.
// The caller provides the already-assembled inputs; persistence and
// transactionality live in the engine.
func allocate(req AllocationRequest, account Account, entries []LedgerEntry, now time.Time) ([]LedgerEntry, error) {
	if !req.Amount.IsPositive() {
		return nil, &InvalidAmountError{UserID: req.UserID, Amount: req.Amount}
	}

	year := req.StartDate.Year()
	buckets := assembleBuckets(year, account, entries)

	// Walk buckets earliest expiry first.
	remaining := req.Amount
	var created []LedgerEntry
	for _, exp := range sortedExpiries(buckets) {
		if !remaining.IsPositive() {
			break
		}
		available := buckets[exp]
		if !available.IsPositive() {
			continue
		}

		deduction := decimal.Min(remaining, available)
		expiry := exp
		created = append(created, LedgerEntry{
			ID:         uuid.NewString(),
			UserID:     req.UserID,
			Days:       deduction.Neg(),
			Type:       req.Type,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			ExpiryDate: &expiry,
			CreateTime: now,
			Remarks:    fmt.Sprintf("%s (from %s, expires %s)", req.Remarks, bucketLabel(exp, year), exp),
		})
		remaining = remaining.Sub(deduction)
	}

	// Shortfall becomes one floating overdraft entry. Never rejected.
	if remaining.IsPositive() {
		created = append(created, LedgerEntry{
			ID:         uuid.NewString(),
			UserID:     req.UserID,
			Days:       remaining.Neg(),
			Type:       req.Type,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			ExpiryDate: nil,
			CreateTime: now,
			Remarks:    fmt.Sprintf("%s (overdraft)", req.Remarks),
		})
	}

	return created, nil
}

// assembleBuckets builds the per-expiry available balances for a user.
func assembleBuckets(year int, account Account, entries []LedgerEntry) map[Date]decimal.Decimal {
	buckets := map[Date]decimal.Decimal{}
	floating := decimal.Zero
	recordedCarryOver := decimal.Zero

	for _, entry := range entries {
		if entry.Floating() {
			floating = floating.Add(entry.Days)
			continue
		}
		exp := *entry.ExpiryDate
		buckets[exp] = buckets[exp].Add(entry.Days)
		if entry.Type == EntryCarryOver {
			recordedCarryOver = recordedCarryOver.Add(entry.Days)
		}
	}

	// Implicit carry-over: manual edits to the account that were never
	// mirrored into a CARRY_OVER entry count as credit expiring with the
	// allocation year.
	if account.LastYearBalance.GreaterThan(recordedCarryOver) {
		implicit := account.LastYearBalance.Sub(recordedCarryOver)
		exp := EndOfYear(year)
		buckets[exp] = buckets[exp].Add(implicit)
	}

	// The current year's quota always contributes a bucket (two-year
	// validity: expires end of next year). Entry net for that expiry is
	// usage already charged against it.
	quotaExpiry := EndOfYear(year + 1)
	buckets[quotaExpiry] = buckets[quotaExpiry].Add(account.ActualQuota)

	// Floating net debt must be repaid before fresh credit is spent:
	// subtract it from buckets in ascending expiry order.
	if floating.IsNegative() {
		debt := floating.Abs()
		for _, exp := range sortedExpiries(buckets) {
			balance := buckets[exp]
			if !balance.IsPositive() {
				continue
			}
			offset := decimal.Min(balance, debt)
			buckets[exp] = balance.Sub(offset)
			debt = debt.Sub(offset)
			if !debt.IsPositive() {
				break
			}
		}
	}

	return buckets
}

// bucketLabel distinguishes carried-over credit (expires during the
// allocation year) from the current year's own quota.
func bucketLabel(expiry Date, year int) string {
	if expiry.Year() == year {
		return "carried-over quota"
	}
	return "current-year quota"
}
