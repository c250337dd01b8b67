/*
cleanup.go - Annual expiry finalization

PURPOSE:
  For a target year, finalizes the bucket expiring Dec 31 of that year
  for every account of that year: settles outstanding floating debt
  against the expiring credit (and, if needed, the current year's own
  quota), then drains any leftover credit into an EXPIRED entry. The job
  is idempotent: re-running it for an already-processed year creates no
  new entries.

ANCHOR LOGIC:
  The latest CARRY_OVER entry in the target bucket is a snapshot: its
  amount is the bucket's base balance and its creation time the anchor.
  Credits created before the anchor are already folded into the snapshot
  and are ignored; credits and usage after the anchor are counted. With
  no CARRY_OVER entry, the bucket is summed directly.

DEBT SETTLEMENT (tiered, only when the floating pool is net negative):
  Tier 1 pays from the remaining expiring balance, Tier 2 from the
  account's own quota ("protection balance", only when the target bucket
  year equals the account year). Each tier emits a transfer pair (a
  bucket debit and a floating credit of equal magnitude) so the global
  ledger sum is unchanged; only the EXPIRED entry reduces total credit.

BATCH SEMANTICS:
  Accounts are processed independently; one user's failure is logged and
  does not abort the others. Each user's mutations are one transaction.
*/
package leave

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CleanupResult aggregates a yearly cleanup run.
type CleanupResult struct {
	Year            int
	AccountsSeen    int
	AccountsExpired int
	Failed          int
	TotalExpired    decimal.Decimal
}

// userCleanup computes and returns the entries to persist for one user's
// target-bucket finalization. Pure given its inputs; the engine supplies
// the user's full entry list and wraps persistence in a transaction.
func userCleanup(account Account, entries []LedgerEntry, targetExpiry Date, now time.Time) []LedgerEntry {
	var (
		bucketCredits []LedgerEntry // CARRY_OVER / ADJUSTMENT_ADD in the target bucket
		bucketUsage   []LedgerEntry // ANNUAL / ADJUSTMENT_DEDUCT in the target bucket
		floatingNet   = decimal.Zero
		expiredAmount = decimal.Zero // already-finalized magnitude for this bucket
	)

	for _, entry := range entries {
		if entry.Floating() {
			// The floating pool is the user's global overdraft position.
			if entry.Type != EntryCarryOver {
				floatingNet = floatingNet.Add(entry.Days)
			}
			continue
		}
		switch entry.Type {
		case EntryExpired:
			// Idempotency guard: EXPIRED entries for this bucket are keyed
			// by their start date.
			if entry.StartDate.Equal(targetExpiry) {
				expiredAmount = expiredAmount.Add(entry.Days.Abs())
			}
		case EntryCarryOver, EntryAdjustmentAdd:
			if entry.ExpiryDate.Equal(targetExpiry) {
				bucketCredits = append(bucketCredits, entry)
			}
		case EntryAnnual, EntryAdjustmentDeduct:
			if entry.ExpiryDate.Equal(targetExpiry) {
				bucketUsage = append(bucketUsage, entry)
			}
		}
	}

	// 1. Base balance: latest CARRY_OVER snapshot plus post-anchor
	// credits, or a plain sum when no snapshot exists.
	var anchor *time.Time
	expiring := decimal.Zero
	recordedCarryOver := decimal.Zero
	var latestCarry *LedgerEntry
	for i := range bucketCredits {
		c := &bucketCredits[i]
		if c.Type != EntryCarryOver {
			continue
		}
		recordedCarryOver = recordedCarryOver.Add(c.Days)
		if latestCarry == nil || c.CreateTime.After(latestCarry.CreateTime) {
			latestCarry = c
		}
	}
	if latestCarry != nil {
		anchor = &latestCarry.CreateTime
		expiring = latestCarry.Days
		for _, c := range bucketCredits {
			if c.Type != EntryCarryOver && c.CreateTime.After(*anchor) {
				expiring = expiring.Add(c.Days)
			}
		}
	} else {
		for _, c := range bucketCredits {
			expiring = expiring.Add(c.Days)
		}
	}

	// 2. Implicit carry-over: account edits never mirrored to the ledger.
	if account.LastYearBalance.GreaterThan(recordedCarryOver) {
		expiring = expiring.Add(account.LastYearBalance.Sub(recordedCarryOver))
	}

	// 3. Subtract usage charged against this bucket (post-anchor only when
	// a snapshot exists).
	for _, u := range bucketUsage {
		if anchor != nil && !u.CreateTime.After(*anchor) {
			continue
		}
		expiring = expiring.Sub(u.Days.Abs())
	}

	// 4. Idempotency: anything already expired for this bucket only leaves
	// the delta to finalize.
	expiring = expiring.Sub(expiredAmount)

	var created []LedgerEntry

	// 5. Tiered debt settlement.
	if floatingNet.IsNegative() {
		debt := floatingNet.Abs()

		// Tier 1: pay from the expiring balance.
		if expiring.IsPositive() {
			offset := decimal.Min(expiring, debt)
			created = append(created, settlementPair(account.UserID, targetExpiry, targetExpiry, offset,
				fmt.Sprintf("overdraft settlement: consumed expiring credit (%s)", targetExpiry), now)...)
			debt = debt.Sub(offset)
			expiring = expiring.Sub(offset)
		}

		// Tier 2: pay from the protection balance, the account's own
		// quota, which expires end of next year and is otherwise shielded.
		if debt.IsPositive() && targetExpiry.Year() == account.Year && account.ActualQuota.IsPositive() {
			offset := decimal.Min(account.ActualQuota, debt)
			protectionExpiry := EndOfYear(targetExpiry.Year() + 1)
			created = append(created, settlementPair(account.UserID, targetExpiry, protectionExpiry, offset,
				fmt.Sprintf("overdraft settlement: consumed current-year quota (expires %s)", protectionExpiry), now)...)
		}
	}

	// 6. Final expiry of whatever credit is left in the bucket.
	if expiring.IsPositive() {
		expiry := targetExpiry
		created = append(created, LedgerEntry{
			ID:         uuid.NewString(),
			UserID:     account.UserID,
			Days:       expiring.Neg(),
			Type:       EntryExpired,
			StartDate:  targetExpiry,
			EndDate:    targetExpiry,
			ExpiryDate: &expiry,
			CreateTime: now,
			Remarks:    fmt.Sprintf("annual leave expired (expiry date: %s)", targetExpiry),
		})
	}

	return created
}

// settlementPair emits a bucket debit and an equal floating credit: a
// transfer, not a creation. The ledger sum is unchanged.
func settlementPair(userID string, targetExpiry, bucketExpiry Date, amount decimal.Decimal, debitRemarks string, now time.Time) []LedgerEntry {
	exp := bucketExpiry
	return []LedgerEntry{
		{
			ID:         uuid.NewString(),
			UserID:     userID,
			Days:       amount.Neg(),
			Type:       EntryAdjustmentDeduct,
			StartDate:  targetExpiry,
			EndDate:    targetExpiry,
			ExpiryDate: &exp,
			CreateTime: now,
			Remarks:    debitRemarks,
		},
		{
			ID:         uuid.NewString(),
			UserID:     userID,
			Days:       amount,
			Type:       EntryAdjustmentAdd,
			StartDate:  targetExpiry,
			EndDate:    targetExpiry,
			ExpiryDate: nil,
			CreateTime: now,
			Remarks:    fmt.Sprintf("overdraft settlement: offset outstanding debt (source: %s)", targetExpiry),
		},
	}
}
