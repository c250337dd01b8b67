package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildView_Totals(t *testing.T) {
	// GIVEN: Carried 3.0, quota 5.0, one CARRY_OVER mirror entry, 2 days
	//        of leave and a manual credit of 1.0
	// THEN: total = 3.0 + 5.0 + (-2.0 + 1.0) = 7.0, used = 2.0;
	//       the CARRY_OVER entry is excluded from the entry sum

	expiry := EndOfYear(2025)
	account := Account{
		UserID:          "u1",
		Year:            2025,
		StandardQuota:   MustParseDecimal("10.0"),
		ActualQuota:     MustParseDecimal("5.0"),
		LastYearBalance: MustParseDecimal("3.0"),
		SocialSeniority: 12,
		DaysEmployed:    365,
	}
	entries := []LedgerEntry{
		{Type: EntryCarryOver, Days: MustParseDecimal("3.0"), ExpiryDate: &expiry},
		{Type: EntryAnnual, Days: MustParseDecimal("-2.0"), StartDate: NewDate(2025, time.March, 3)},
		{Type: EntryAdjustmentAdd, Days: MustParseDecimal("1.0")},
	}

	view := buildView(account, entries)

	assert.True(t, view.TotalBalance.Equal(MustParseDecimal("7.0")), "got %s", view.TotalBalance)
	assert.True(t, view.CurrentYearUsed.Equal(MustParseDecimal("2.0")), "got %s", view.CurrentYearUsed)
	assert.Equal(t, 12, view.SocialSeniority)
	assert.Len(t, view.Entries, 3)
}

func TestBuildView_UsedCountsOnlyNegativeAnnual(t *testing.T) {
	// ADJUSTMENT_DEDUCT and EXPIRED reduce the total but are not "used"
	// leave; positive ANNUAL corrections do not subtract from usage.

	account := Account{UserID: "u1", Year: 2025}
	entries := []LedgerEntry{
		{Type: EntryAnnual, Days: MustParseDecimal("-2.0")},
		{Type: EntryAdjustmentDeduct, Days: MustParseDecimal("-1.0")},
		{Type: EntryExpired, Days: MustParseDecimal("-4.0")},
		{Type: EntryAnnual, Days: MustParseDecimal("0.5")},
	}

	view := buildView(account, entries)

	assert.True(t, view.CurrentYearUsed.Equal(MustParseDecimal("2.0")), "got %s", view.CurrentYearUsed)
	assert.True(t, view.TotalBalance.Equal(MustParseDecimal("-6.5")), "got %s", view.TotalBalance)
}

func TestBuildView_EmptyLedger(t *testing.T) {
	account := Account{
		UserID:          "u1",
		Year:            2025,
		ActualQuota:     MustParseDecimal("5.0"),
		LastYearBalance: MustParseDecimal("2.0"),
	}

	view := buildView(account, nil)
	assert.True(t, view.TotalBalance.Equal(MustParseDecimal("7.0")))
	assert.True(t, view.CurrentYearUsed.IsZero())
}
