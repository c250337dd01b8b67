package leave

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func allocTestAccount(quota, lastYearBalance string) Account {
	return Account{
		UserID:          "u1",
		Year:            2025,
		ActualQuota:     MustParseDecimal(quota),
		LastYearBalance: MustParseDecimal(lastYearBalance),
	}
}

func allocRequest(amount string) AllocationRequest {
	return AllocationRequest{
		UserID:    "u1",
		Amount:    MustParseDecimal(amount),
		StartDate: NewDate(2025, time.July, 1),
		EndDate:   NewDate(2025, time.July, 4),
		Type:      EntryAnnual,
		Remarks:   "employee leave",
	}
}

func carryOverLedgerEntry(days string, year int) LedgerEntry {
	expiry := EndOfYear(year)
	return LedgerEntry{
		ID:         "carry-1",
		UserID:     "u1",
		Days:       MustParseDecimal(days),
		Type:       EntryCarryOver,
		StartDate:  StartOfYear(year),
		EndDate:    StartOfYear(year),
		ExpiryDate: &expiry,
		CreateTime: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func sumMagnitude(entries []LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Days.Abs())
	}
	return total
}

// =============================================================================
// BUCKET WALK TESTS
// =============================================================================

func TestAllocate_EarliestExpiryFirst(t *testing.T) {
	// GIVEN: Carried-over 3.0 expiring end of 2025 and quota 5.0 expiring
	//        end of 2026
	// WHEN: Taking 4 days
	// THEN: The carried bucket drains first (3.0), the quota covers the
	//       rest (1.0), both entries tagged with their bucket's expiry

	account := allocTestAccount("5.0", "3.0")
	entries := []LedgerEntry{carryOverLedgerEntry("3.0", 2025)}

	created, err := allocate(allocRequest("4.0"), account, entries, time.Now())
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.True(t, created[0].Days.Equal(MustParseDecimal("-3.0")), "got %s", created[0].Days)
	require.NotNil(t, created[0].ExpiryDate)
	assert.True(t, created[0].ExpiryDate.Equal(EndOfYear(2025)))

	assert.True(t, created[1].Days.Equal(MustParseDecimal("-1.0")), "got %s", created[1].Days)
	require.NotNil(t, created[1].ExpiryDate)
	assert.True(t, created[1].ExpiryDate.Equal(EndOfYear(2026)))
}

func TestAllocate_OverdraftIsFloating(t *testing.T) {
	// GIVEN: No balance at all
	// WHEN: Taking 3 days
	// THEN: One floating entry for the full amount; never rejected

	account := allocTestAccount("0", "0")

	created, err := allocate(allocRequest("3.0"), account, nil, time.Now())
	require.NoError(t, err)
	require.Len(t, created, 1)

	assert.True(t, created[0].Floating())
	assert.True(t, created[0].Days.Equal(MustParseDecimal("-3.0")))
	assert.Contains(t, created[0].Remarks, "overdraft")
}

func TestAllocate_Conservation(t *testing.T) {
	// The magnitudes of all created entries sum to the requested amount,
	// whether or not the balance covers it.

	account := allocTestAccount("5.0", "3.0")
	entries := []LedgerEntry{carryOverLedgerEntry("3.0", 2025)}

	created, err := allocate(allocRequest("12.0"), account, entries, time.Now())
	require.NoError(t, err)

	assert.True(t, sumMagnitude(created).Equal(MustParseDecimal("12.0")))
	last := created[len(created)-1]
	assert.True(t, last.Floating(), "shortfall must be the floating entry")
	assert.True(t, last.Days.Equal(MustParseDecimal("-4.0")))
}

func TestAllocate_ImplicitCarryOver(t *testing.T) {
	// GIVEN: Account says 3.0 carried but no CARRY_OVER entry exists
	//        (manual account edit never mirrored to the ledger)
	// THEN: The difference still counts as credit expiring with the year

	account := allocTestAccount("0", "3.0")

	created, err := allocate(allocRequest("2.0"), account, nil, time.Now())
	require.NoError(t, err)
	require.Len(t, created, 1)

	require.NotNil(t, created[0].ExpiryDate)
	assert.True(t, created[0].ExpiryDate.Equal(EndOfYear(2025)))
	assert.True(t, created[0].Days.Equal(MustParseDecimal("-2.0")))
}

func TestAllocate_FloatingDebtMortgagesCredit(t *testing.T) {
	// GIVEN: Quota 5.0 and an outstanding floating overdraft of 2.0
	// WHEN: Taking 4 days
	// THEN: Only 3.0 of quota is still spendable; 1.0 overdrafts

	account := allocTestAccount("5.0", "0")
	entries := []LedgerEntry{{
		ID:        "debt-1",
		UserID:    "u1",
		Days:      MustParseDecimal("-2.0"),
		Type:      EntryAnnual,
		StartDate: NewDate(2025, time.March, 1),
		EndDate:   NewDate(2025, time.March, 2),
	}}

	created, err := allocate(allocRequest("4.0"), account, entries, time.Now())
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.True(t, created[0].Days.Equal(MustParseDecimal("-3.0")))
	require.NotNil(t, created[0].ExpiryDate)
	assert.True(t, created[0].ExpiryDate.Equal(EndOfYear(2026)))

	assert.True(t, created[1].Floating())
	assert.True(t, created[1].Days.Equal(MustParseDecimal("-1.0")))
}

func TestAllocate_UsageReducesBucket(t *testing.T) {
	// GIVEN: Quota 5.0 with 2.0 already charged against its bucket
	// WHEN: Taking 4 days
	// THEN: 3.0 from the bucket, 1.0 floating

	expiry := EndOfYear(2026)
	account := allocTestAccount("5.0", "0")
	entries := []LedgerEntry{{
		ID:         "used-1",
		UserID:     "u1",
		Days:       MustParseDecimal("-2.0"),
		Type:       EntryAnnual,
		StartDate:  NewDate(2025, time.March, 1),
		EndDate:    NewDate(2025, time.March, 2),
		ExpiryDate: &expiry,
	}}

	created, err := allocate(allocRequest("4.0"), account, entries, time.Now())
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.True(t, created[0].Days.Equal(MustParseDecimal("-3.0")))
	assert.True(t, created[1].Floating())
}

func TestAllocate_RejectsNonPositiveAmount(t *testing.T) {
	account := allocTestAccount("5.0", "0")

	req := allocRequest("0")
	_, err := allocate(req, account, nil, time.Now())
	require.Error(t, err)

	var invalidErr *InvalidAmountError
	assert.ErrorAs(t, err, &invalidErr)
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	req = allocRequest("-1.0")
	_, err = allocate(req, account, nil, time.Now())
	assert.Error(t, err)
}
