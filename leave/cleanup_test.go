package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func cleanupAccount(quota, lastYearBalance string, year int) Account {
	return Account{
		UserID:          "u1",
		Year:            year,
		ActualQuota:     MustParseDecimal(quota),
		LastYearBalance: MustParseDecimal(lastYearBalance),
	}
}

func bucketEntry(entryType EntryType, days string, expiry Date, createTime time.Time) LedgerEntry {
	return LedgerEntry{
		ID:         "e-" + string(entryType) + "-" + days,
		UserID:     "u1",
		Days:       MustParseDecimal(days),
		Type:       entryType,
		StartDate:  NewDate(expiry.Year(), time.June, 1),
		EndDate:    NewDate(expiry.Year(), time.June, 1),
		ExpiryDate: &expiry,
		CreateTime: createTime,
	}
}

func floatingEntry(entryType EntryType, days string, createTime time.Time) LedgerEntry {
	return LedgerEntry{
		ID:         "f-" + string(entryType) + "-" + days,
		UserID:     "u1",
		Days:       MustParseDecimal(days),
		Type:       entryType,
		StartDate:  NewDate(2025, time.June, 1),
		EndDate:    NewDate(2025, time.June, 1),
		CreateTime: createTime,
	}
}

func entriesSum(entries []LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Days)
	}
	return total
}

var (
	t0 = time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)
	t1 = time.Date(2025, time.January, 2, 8, 0, 0, 0, time.UTC)
	t2 = time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
)

// =============================================================================
// EXPIRY FINALIZATION TESTS
// =============================================================================

func TestUserCleanup_NothingToExpire(t *testing.T) {
	account := cleanupAccount("5.0", "0", 2025)
	created := userCleanup(account, nil, EndOfYear(2025), time.Now())
	assert.Empty(t, created)
}

func TestUserCleanup_ExpiresLeftoverCredit(t *testing.T) {
	// GIVEN: A carry-over of 10 expiring end of 2025 and a floating
	//        overdraft of 1 day
	// WHEN: Finalizing the 2025 bucket
	// THEN: 1 day settles the debt via a transfer pair; 9 expire

	account := cleanupAccount("5.0", "10.0", 2025)
	target := EndOfYear(2025)
	entries := []LedgerEntry{
		bucketEntry(EntryCarryOver, "10.0", target, t0),
		floatingEntry(EntryAnnual, "-1.0", t1),
	}

	created := userCleanup(account, entries, target, time.Now())
	require.Len(t, created, 3)

	// Transfer pair: bucket debit + floating credit of equal magnitude.
	debit, credit, expired := created[0], created[1], created[2]
	assert.Equal(t, EntryAdjustmentDeduct, debit.Type)
	assert.True(t, debit.Days.Equal(MustParseDecimal("-1.0")))
	require.NotNil(t, debit.ExpiryDate)
	assert.True(t, debit.ExpiryDate.Equal(target))

	assert.Equal(t, EntryAdjustmentAdd, credit.Type)
	assert.True(t, credit.Days.Equal(MustParseDecimal("1.0")))
	assert.True(t, credit.Floating())

	assert.Equal(t, EntryExpired, expired.Type)
	assert.True(t, expired.Days.Equal(MustParseDecimal("-9.0")))
	assert.True(t, expired.StartDate.Equal(target), "EXPIRED entries are keyed by start date")

	// The pair is sum-neutral; only the EXPIRED entry reduces the ledger.
	assert.True(t, entriesSum(created).Equal(MustParseDecimal("-9.0")))
}

func TestUserCleanup_Idempotent(t *testing.T) {
	// GIVEN: The exact post-cleanup state of the scenario above
	// WHEN: Running the finalization again
	// THEN: Zero new entries

	account := cleanupAccount("5.0", "10.0", 2025)
	target := EndOfYear(2025)
	entries := []LedgerEntry{
		bucketEntry(EntryCarryOver, "10.0", target, t0),
		floatingEntry(EntryAnnual, "-1.0", t1),
	}

	first := userCleanup(account, entries, target, t2)
	entries = append(entries, first...)

	second := userCleanup(account, entries, target, time.Now())
	assert.Empty(t, second, "re-run must create no entries")
}

func TestUserCleanup_ImplicitCarryOver(t *testing.T) {
	// GIVEN: Account balance 4.0 with no CARRY_OVER entry recorded
	// THEN: The implicit credit still expires

	account := cleanupAccount("5.0", "4.0", 2025)
	target := EndOfYear(2025)

	created := userCleanup(account, nil, target, time.Now())
	require.Len(t, created, 1)
	assert.Equal(t, EntryExpired, created[0].Type)
	assert.True(t, created[0].Days.Equal(MustParseDecimal("-4.0")))
}

func TestUserCleanup_TierTwoConsumesProtectionBalance(t *testing.T) {
	// GIVEN: Floating debt of 5, only 2.0 expiring, account quota 10.0
	//        and the target bucket belongs to the account's own year
	// WHEN: Finalizing
	// THEN: Tier 1 settles 2.0 from the bucket, Tier 2 settles the
	//       remaining 3.0 from the quota (debit expires end of next year);
	//       nothing is left to expire

	account := cleanupAccount("10.0", "2.0", 2025)
	target := EndOfYear(2025)
	entries := []LedgerEntry{
		bucketEntry(EntryCarryOver, "2.0", target, t0),
		floatingEntry(EntryAnnual, "-5.0", t1),
	}

	created := userCleanup(account, entries, target, time.Now())
	require.Len(t, created, 4)

	tier2Debit := created[2]
	assert.Equal(t, EntryAdjustmentDeduct, tier2Debit.Type)
	assert.True(t, tier2Debit.Days.Equal(MustParseDecimal("-3.0")))
	require.NotNil(t, tier2Debit.ExpiryDate)
	assert.True(t, tier2Debit.ExpiryDate.Equal(EndOfYear(2026)))

	// Both pairs are transfers; the ledger sum is unchanged.
	assert.True(t, entriesSum(created).IsZero())

	for _, e := range created {
		assert.NotEqual(t, EntryExpired, e.Type)
	}
}

func TestUserCleanup_TierTwoSkippedForForeignYear(t *testing.T) {
	// GIVEN: Same debt, but the account is for 2026 while the target
	//        bucket expires end of 2025
	// THEN: The quota is protected; only Tier 1 runs

	account := cleanupAccount("10.0", "2.0", 2026)
	target := EndOfYear(2025)
	entries := []LedgerEntry{
		bucketEntry(EntryCarryOver, "2.0", target, t0),
		floatingEntry(EntryAnnual, "-5.0", t1),
	}

	created := userCleanup(account, entries, target, time.Now())
	require.Len(t, created, 2)
	assert.Equal(t, EntryAdjustmentDeduct, created[0].Type)
	assert.True(t, created[0].Days.Equal(MustParseDecimal("-2.0")))
}

func TestUserCleanup_AnchorIgnoresPreSnapshotActivity(t *testing.T) {
	// GIVEN: A CARRY_OVER snapshot of 5.0 at t1; an ADJUSTMENT_ADD of 2.0
	//        before the snapshot (already folded in), one of 1.0 after,
	//        and usage of 1.0 before the snapshot
	// WHEN: Finalizing
	// THEN: Base 5.0 + post-anchor 1.0 = 6.0 expires; pre-anchor activity
	//       is ignored

	account := cleanupAccount("5.0", "5.0", 2025)
	target := EndOfYear(2025)
	entries := []LedgerEntry{
		bucketEntry(EntryAdjustmentAdd, "2.0", target, t0),
		bucketEntry(EntryCarryOver, "5.0", target, t1),
		bucketEntry(EntryAdjustmentAdd, "1.0", target, t2),
		bucketEntry(EntryAnnual, "-1.0", target, t0),
	}

	created := userCleanup(account, entries, target, time.Now())
	require.Len(t, created, 1)
	assert.Equal(t, EntryExpired, created[0].Type)
	assert.True(t, created[0].Days.Equal(MustParseDecimal("-6.0")), "got %s", created[0].Days)
}

func TestUserCleanup_NoSnapshotSumsBucketDirectly(t *testing.T) {
	// GIVEN: No CARRY_OVER snapshot, just an ADJUSTMENT_ADD of 3.0 and
	//        usage of 1.0 in the target bucket
	// THEN: 2.0 expires

	account := cleanupAccount("5.0", "0", 2025)
	target := EndOfYear(2025)
	entries := []LedgerEntry{
		bucketEntry(EntryAdjustmentAdd, "3.0", target, t0),
		bucketEntry(EntryAnnual, "-1.0", target, t1),
	}

	created := userCleanup(account, entries, target, time.Now())
	require.Len(t, created, 1)
	assert.True(t, created[0].Days.Equal(MustParseDecimal("-2.0")))
}
