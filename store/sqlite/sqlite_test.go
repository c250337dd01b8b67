package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-ledger/leave"
	"github.com/warp/leave-ledger/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEntry(id string, days string, expiry *leave.Date, createTime time.Time) leave.LedgerEntry {
	return leave.LedgerEntry{
		ID:         id,
		UserID:     "u1",
		Days:       leave.MustParseDecimal(days),
		Type:       leave.EntryAnnual,
		StartDate:  leave.NewDate(2025, time.July, 1),
		EndDate:    leave.NewDate(2025, time.July, 2),
		ExpiryDate: expiry,
		CreateTime: createTime,
		Remarks:    "test entry",
	}
}

// =============================================================================
// LEDGER ENTRY TESTS
// =============================================================================

func TestStore_EntryRoundTrip(t *testing.T) {
	// GIVEN: One bucketed and one floating entry
	// WHEN: Reading them back
	// THEN: Decimals, dates, and the nil expiry survive the round trip

	store := newTestStore(t)
	ctx := context.Background()

	expiry := leave.EndOfYear(2025)
	now := time.Now().UTC()
	require.NoError(t, store.InsertEntry(ctx, testEntry("e1", "-2.5", &expiry, now)))
	require.NoError(t, store.InsertEntry(ctx, testEntry("e2", "-1.0", nil, now.Add(time.Second))))

	entries, err := store.EntriesByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "e1", entries[0].ID)
	assert.True(t, entries[0].Days.Equal(leave.MustParseDecimal("-2.5")))
	require.NotNil(t, entries[0].ExpiryDate)
	assert.True(t, entries[0].ExpiryDate.Equal(expiry))
	assert.True(t, entries[0].StartDate.Equal(leave.NewDate(2025, time.July, 1)))
	assert.Equal(t, "test entry", entries[0].Remarks)

	assert.True(t, entries[1].Floating())
}

func TestStore_EntriesOrderedByCreateTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, store.InsertEntry(ctx, testEntry("late", "-1", nil, base.Add(time.Hour))))
	require.NoError(t, store.InsertEntry(ctx, testEntry("early", "-1", nil, base)))

	entries, err := store.EntriesByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "early", entries[0].ID)
	assert.Equal(t, "late", entries[1].ID)
}

func TestStore_SoftDeleteHidesEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertEntry(ctx, testEntry("e1", "-1", nil, time.Now())))
	require.NoError(t, store.SoftDeleteEntry(ctx, "e1"))

	entries, err := store.EntriesByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = store.SoftDeleteEntry(ctx, "missing")
	assert.True(t, errors.Is(err, leave.ErrEntryNotFound))
}

func TestStore_EntriesByYearBounds(t *testing.T) {
	// Entries are scoped by start date year, not creation time.

	store := newTestStore(t)
	ctx := context.Background()

	in := testEntry("in-2025", "-1", nil, time.Now())
	out := testEntry("in-2024", "-1", nil, time.Now())
	out.StartDate = leave.NewDate(2024, time.December, 31)
	out.EndDate = out.StartDate
	require.NoError(t, store.InsertEntry(ctx, in))
	require.NoError(t, store.InsertEntry(ctx, out))

	entries, err := store.EntriesByYear(ctx, "u1", 2025)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "in-2025", entries[0].ID)
}

func TestStore_CarryOverEntryUpdate(t *testing.T) {
	// The CARRY_OVER snapshot is looked up by (user, start date) and
	// rewritten in place.

	store := newTestStore(t)
	ctx := context.Background()

	jan1 := leave.StartOfYear(2026)
	expiry := leave.EndOfYear(2026)
	require.NoError(t, store.InsertEntry(ctx, leave.LedgerEntry{
		ID:         "carry-1",
		UserID:     "u1",
		Days:       leave.MustParseDecimal("3.0"),
		Type:       leave.EntryCarryOver,
		StartDate:  jan1,
		EndDate:    jan1,
		ExpiryDate: &expiry,
		CreateTime: time.Now(),
	}))

	carry, err := store.CarryOverEntry(ctx, "u1", jan1)
	require.NoError(t, err)
	require.NotNil(t, carry)

	carry.Days = leave.MustParseDecimal("4.5")
	require.NoError(t, store.UpdateEntry(ctx, *carry))

	updated, err := store.CarryOverEntry(ctx, "u1", jan1)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.Days.Equal(leave.MustParseDecimal("4.5")))

	missing, err := store.CarryOverEntry(ctx, "u1", leave.StartOfYear(2027))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// =============================================================================
// ACCOUNT TESTS
// =============================================================================

func TestStore_AccountUpsertAndRestore(t *testing.T) {
	// GIVEN: An account row that gets soft-deleted
	// WHEN: Upserting the same (user, year) again
	// THEN: The existing row is restored and updated, not duplicated

	store := newTestStore(t)
	ctx := context.Background()

	account := &leave.Account{
		UserID:          "u1",
		Year:            2025,
		StandardQuota:   leave.MustParseDecimal("10.0"),
		ActualQuota:     leave.MustParseDecimal("10.0"),
		LastYearBalance: leave.MustParseDecimal("2.0"),
		CurrentYearUsed: leave.MustParseDecimal("0"),
	}
	require.NoError(t, store.UpsertAccount(ctx, account))
	require.NotZero(t, account.ID)
	firstID := account.ID

	account.Deleted = true
	require.NoError(t, store.UpdateAccount(ctx, *account))

	hidden, err := store.AccountByUserYear(ctx, "u1", 2025)
	require.NoError(t, err)
	assert.Nil(t, hidden)

	visible, err := store.AccountByUserYearIncludeDeleted(ctx, "u1", 2025)
	require.NoError(t, err)
	require.NotNil(t, visible)
	assert.True(t, visible.Deleted)

	account.Deleted = false
	account.ActualQuota = leave.MustParseDecimal("5.0")
	require.NoError(t, store.UpsertAccount(ctx, account))
	assert.Equal(t, firstID, account.ID)

	restored, err := store.AccountByUserYear(ctx, "u1", 2025)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.True(t, restored.ActualQuota.Equal(leave.MustParseDecimal("5.0")))
	assert.True(t, restored.LastYearBalance.Equal(leave.MustParseDecimal("2.0")))
}

func TestStore_AccountsByYear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, userID := range []string{"u1", "u2"} {
		require.NoError(t, store.UpsertAccount(ctx, &leave.Account{
			UserID:          userID,
			Year:            2025,
			StandardQuota:   leave.MustParseDecimal("5.0"),
			ActualQuota:     leave.MustParseDecimal("5.0"),
			LastYearBalance: leave.MustParseDecimal("0"),
			CurrentYearUsed: leave.MustParseDecimal("0"),
		}))
	}

	accounts, err := store.AccountsByYear(ctx, 2025)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	none, err := store.AccountsByYear(ctx, 2024)
	require.NoError(t, err)
	assert.Empty(t, none)
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestStore_EmployeeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entryDate := leave.NewDate(2020, time.March, 1)
	firstWork := leave.NewDate(2015, time.June, 15)
	require.NoError(t, store.SaveEmployee(ctx, leave.Employee{
		ID:            "u1",
		Name:          "Test Employee",
		EntryDate:     &entryDate,
		FirstWorkDate: &firstWork,
		Status:        leave.StatusActive,
	}))

	emp, err := store.GetEmployee(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, emp)
	assert.Equal(t, "Test Employee", emp.Name)
	require.NotNil(t, emp.EntryDate)
	assert.True(t, emp.EntryDate.Equal(entryDate))
	require.NotNil(t, emp.FirstWorkDate)
	assert.True(t, emp.FirstWorkDate.Equal(firstWork))

	ghost, err := store.GetEmployee(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, ghost)
}

func TestStore_ListActiveExcludesResigned(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, leave.Employee{
		ID: "u1", Name: "Here", Status: leave.StatusActive,
	}))
	require.NoError(t, store.SaveEmployee(ctx, leave.Employee{
		ID: "u2", Name: "Gone", Status: leave.StatusResigned,
	}))

	active, err := store.ListActiveEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "u1", active[0].ID)
}

// =============================================================================
// TRANSACTION TESTS
// =============================================================================

func TestStore_WithTxRollsBackOnError(t *testing.T) {
	// GIVEN: A transaction that inserts an entry then fails
	// THEN: The entry is not persisted

	store := newTestStore(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := store.WithTx(ctx, func(s leave.Store) error {
		if err := s.InsertEntry(ctx, testEntry("e1", "-1", nil, time.Now())); err != nil {
			return err
		}
		return sentinel
	})
	assert.True(t, errors.Is(err, sentinel))

	entries, err := store.EntriesByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_WithTxCommitsAndReadsOwnWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(s leave.Store) error {
		if err := s.InsertEntry(ctx, testEntry("e1", "-1", nil, time.Now())); err != nil {
			return err
		}
		// Uncommitted write must be visible inside the transaction.
		entries, err := s.EntriesByUser(ctx, "u1")
		if err != nil {
			return err
		}
		assert.Len(t, entries, 1)
		return nil
	})
	require.NoError(t, err)

	entries, err := store.EntriesByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
