/*
engine.go - Public operations of the leave balance ledger

PURPOSE:
  The Engine exposes the engine's contract to callers (HTTP handlers,
  schedulers, CLIs): account initialization, allocation, expiry cleanup,
  and the read-only balance view. It owns transaction boundaries: every
  mutating operation runs inside one store transaction per user, all or
  nothing.

OPERATIONS:
  InitYearlyAccount  (Re)compute a user's account for a year, including
                     the cross-year carry-over upsert
  InitAllAccounts    Batch init for all active employees, per-user
                     failure isolation
  Allocate           Earliest-expiry-first deduction (see allocator.go)
  ApplyLeave         Allocate with days derived from the date range
  AddEntry           Manual adjustment; deductions route through the
                     allocator so expiry buckets stay consistent
  CleanupYear        Annual expiry finalization (see cleanup.go)
  AccountView        Reporting snapshot, refreshing current-year quota
  History            The year's ledger entries

CLOCK:
  "Today" drives pro-ration and the current-year refresh; it is
  injectable for tests and defaults to the wall clock.
*/
package leave

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

type Engine struct {
	store TxStore
	now   func() time.Time
}

type Option func(*Engine)

// WithClock overrides the engine's notion of "now" (tests, replays).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store TxStore, opts ...Option) *Engine {
	e := &Engine{store: store, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) today() Date { return DateOf(e.now()) }

func validYear(year int) bool { return year >= 1900 && year <= 3000 }

// =============================================================================
// ACCOUNT INITIALIZATION
// =============================================================================

// InitYearlyAccount (re)computes the account for (userID, year): quota
// figures from the directory, carry-over from the prior year's ledger.
// Safe to re-run; the CARRY_OVER entry is upserted, not duplicated.
func (e *Engine) InitYearlyAccount(ctx context.Context, userID string, year int) (*Account, error) {
	if !validYear(year) {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidRequest, year)
	}
	emp, err := e.store.GetEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, userID)
	}

	var account *Account
	err = e.store.WithTx(ctx, func(s Store) error {
		account, err = e.refreshAccount(ctx, s, *emp, year)
		return err
	})
	return account, err
}

// InitResult aggregates a batch initialization run.
type InitResult struct {
	Year      int
	Succeeded int
	Failed    int
}

// InitAllAccounts initializes the yearly account for every active
// employee. One user's failure is logged and does not abort the rest.
func (e *Engine) InitAllAccounts(ctx context.Context, year int) (InitResult, error) {
	result := InitResult{Year: year}
	if !validYear(year) {
		return result, fmt.Errorf("%w: year %d", ErrInvalidRequest, year)
	}

	employees, err := e.store.ListActiveEmployees(ctx)
	if err != nil {
		return result, err
	}
	for _, emp := range employees {
		if _, err := e.InitYearlyAccount(ctx, emp.ID, year); err != nil {
			result.Failed++
			log.Printf("leave: init account failed for user %s year %d: %v", emp.ID, year, err)
			continue
		}
		result.Succeeded++
	}
	log.Printf("leave: batch init for %d completed: %d succeeded, %d failed", year, result.Succeeded, result.Failed)
	return result, nil
}

// refreshAccount recomputes quota figures and the carry-over, then
// upserts the CARRY_OVER entry and the account row.
func (e *Engine) refreshAccount(ctx context.Context, s Store, emp Employee, year int) (*Account, error) {
	today := e.today()
	standard, actual, daysEmployed, seniority := QuotaForYear(emp, year, today)

	lastYearAccount, err := s.AccountByUserYear(ctx, emp.ID, year-1)
	if err != nil {
		return nil, err
	}

	carryOver := decimal.Zero
	if lastYearAccount != nil {
		lastYearEntries, err := s.EntriesByYear(ctx, emp.ID, year-1)
		if err != nil {
			return nil, err
		}
		carryOver = CarryOver(year, CarryOverInput{
			LastYearAccount: lastYearAccount,
			LastYearEntries: lastYearEntries,
		})
		if err := e.upsertCarryOverEntry(ctx, s, emp.ID, year, carryOver); err != nil {
			return nil, err
		}
	}

	existing, err := s.AccountByUserYearIncludeDeleted(ctx, emp.ID, year)
	if err != nil {
		return nil, err
	}

	account := Account{
		UserID:          emp.ID,
		Year:            year,
		StandardQuota:   standard,
		ActualQuota:     actual,
		DaysEmployed:    daysEmployed,
		SocialSeniority: seniority,
		LastYearBalance: carryOver,
		CurrentYearUsed: decimal.Zero,
	}
	if existing != nil {
		account.ID = existing.ID
		account.CurrentYearUsed = existing.CurrentYearUsed
		if lastYearAccount == nil {
			// Keep a manually edited balance when there is no prior-year
			// account to recompute it from.
			account.LastYearBalance = existing.LastYearBalance
		}
	}
	if err := s.UpsertAccount(ctx, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// upsertCarryOverEntry writes the per-year CARRY_OVER snapshot, keyed by
// (userID, Jan 1 of year), expiring Dec 31 of the same year.
func (e *Engine) upsertCarryOverEntry(ctx context.Context, s Store, userID string, year int, amount decimal.Decimal) error {
	startOfYear := StartOfYear(year)
	expiry := EndOfYear(year)
	remarks := fmt.Sprintf("carry-over of prior-year balance (expires %s)", expiry)

	existing, err := s.CarryOverEntry(ctx, userID, startOfYear)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Days = amount
		existing.ExpiryDate = &expiry
		existing.Remarks = remarks
		return s.UpdateEntry(ctx, *existing)
	}
	return s.InsertEntry(ctx, LedgerEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		Days:       amount,
		Type:       EntryCarryOver,
		StartDate:  startOfYear,
		EndDate:    startOfYear,
		ExpiryDate: &expiry,
		CreateTime: e.now(),
		Remarks:    remarks,
	})
}

// refreshCurrentYear re-derives daysEmployed/actualQuota against "today"
// when the account's year is the present year; quotas accrue as the year
// progresses.
func (e *Engine) refreshCurrentYear(ctx context.Context, s Store, account *Account, emp Employee) error {
	today := e.today()
	if account.Year != today.Year() {
		return nil
	}

	daysEmployed := DaysEmployed(emp.EntryDate, account.Year, today)
	actual := ProRatedQuota(account.StandardQuota, daysEmployed, DaysInYear(account.Year))

	if account.DaysEmployed == daysEmployed && account.ActualQuota.Equal(actual) {
		return nil
	}
	account.DaysEmployed = daysEmployed
	account.ActualQuota = actual
	return s.UpdateAccount(ctx, *account)
}

// =============================================================================
// ALLOCATION
// =============================================================================

// Allocate consumes req.Amount days against the user's buckets, earliest
// expiry first, recording a floating overdraft for any shortfall. Returns
// the entries created. Never fails for lack of balance.
func (e *Engine) Allocate(ctx context.Context, req AllocationRequest) ([]LedgerEntry, error) {
	if !req.Amount.IsPositive() {
		return nil, &InvalidAmountError{UserID: req.UserID, Amount: req.Amount}
	}
	if req.Type == "" {
		req.Type = EntryAnnual
	}
	if req.Remarks == "" {
		if req.Type == EntryAnnual {
			req.Remarks = "employee leave"
		} else {
			req.Remarks = "quota deduction"
		}
	}

	emp, err := e.store.GetEmployee(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, req.UserID)
	}

	year := req.StartDate.Year()
	var created []LedgerEntry
	err = e.store.WithTx(ctx, func(s Store) error {
		account, err := s.AccountByUserYear(ctx, req.UserID, year)
		if err != nil {
			return err
		}
		if account == nil {
			if account, err = e.refreshAccount(ctx, s, *emp, year); err != nil {
				return err
			}
		}
		if err := e.refreshCurrentYear(ctx, s, account, *emp); err != nil {
			return err
		}

		entries, err := s.EntriesByUser(ctx, req.UserID)
		if err != nil {
			return err
		}

		created, err = allocate(req, *account, entries, e.now())
		if err != nil {
			return err
		}
		for _, entry := range created {
			if err := s.InsertEntry(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ApplyLeave allocates one entry per the date range, deriving the day
// count from the span (inclusive).
func (e *Engine) ApplyLeave(ctx context.Context, userID string, startDate, endDate Date) ([]LedgerEntry, error) {
	days := DaysBetween(startDate, endDate) + 1
	return e.Allocate(ctx, AllocationRequest{
		UserID:    userID,
		Amount:    decimal.NewFromInt(int64(days)),
		StartDate: startDate,
		EndDate:   endDate,
		Type:      EntryAnnual,
		Remarks:   "employee leave",
	})
}

// AddEntry records a manual adjustment. Deduction types route through the
// allocator so their expiry buckets are assigned by priority; credits get
// an auto-set expiry (two-year validity) and the conventional sign.
func (e *Engine) AddEntry(ctx context.Context, entry LedgerEntry) ([]LedgerEntry, error) {
	abs := entry.Days.Abs()

	if entry.Type == EntryAnnual || entry.Type == EntryAdjustmentDeduct {
		return e.Allocate(ctx, AllocationRequest{
			UserID:    entry.UserID,
			Amount:    abs,
			StartDate: entry.StartDate,
			EndDate:   entry.EndDate,
			Type:      entry.Type,
			Remarks:   entry.Remarks,
		})
	}

	if entry.ExpiryDate == nil && entry.Type == EntryAdjustmentAdd && !entry.StartDate.IsZero() {
		expiry := EndOfYear(entry.StartDate.Year() + 1)
		entry.ExpiryDate = &expiry
	}
	if entry.Type == EntryExpired {
		entry.Days = abs.Neg()
	} else {
		entry.Days = abs
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreateTime.IsZero() {
		entry.CreateTime = e.now()
	}

	err := e.store.WithTx(ctx, func(s Store) error {
		return s.InsertEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return []LedgerEntry{entry}, nil
}

// =============================================================================
// EXPIRY CLEANUP
// =============================================================================

// CleanupYear finalizes the bucket expiring Dec 31 of `year` for every
// account of that year. Idempotent; per-user transactional; one user's
// failure does not abort the rest.
func (e *Engine) CleanupYear(ctx context.Context, year int) (CleanupResult, error) {
	result := CleanupResult{Year: year, TotalExpired: decimal.Zero}
	if !validYear(year) {
		return result, fmt.Errorf("%w: year %d", ErrInvalidRequest, year)
	}

	targetExpiry := EndOfYear(year)
	accounts, err := e.store.AccountsByYear(ctx, year)
	if err != nil {
		return result, err
	}

	for _, account := range accounts {
		result.AccountsSeen++
		account := account
		err := e.store.WithTx(ctx, func(s Store) error {
			entries, err := s.EntriesByUser(ctx, account.UserID)
			if err != nil {
				return err
			}
			created := userCleanup(account, entries, targetExpiry, e.now())
			for _, entry := range created {
				if err := s.InsertEntry(ctx, entry); err != nil {
					return err
				}
				if entry.Type == EntryExpired {
					result.AccountsExpired++
					result.TotalExpired = result.TotalExpired.Add(entry.Days.Abs())
				}
			}
			return nil
		})
		if err != nil {
			result.Failed++
			log.Printf("leave: cleanup failed for user %s year %d: %v", account.UserID, year, err)
		}
	}

	log.Printf("leave: expiry cleanup for %d completed: %d accounts seen, %d expired, %s days expired, %d failed",
		year, result.AccountsSeen, result.AccountsExpired, result.TotalExpired, result.Failed)
	return result, nil
}

// =============================================================================
// READ PATH
// =============================================================================

// AccountView builds the reporting snapshot for (userID, year). For the
// present year the quota figures are refreshed against today first.
func (e *Engine) AccountView(ctx context.Context, userID string, year int) (*AccountView, error) {
	emp, err := e.store.GetEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, userID)
	}

	var view AccountView
	err = e.store.WithTx(ctx, func(s Store) error {
		account, err := s.AccountByUserYear(ctx, userID, year)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("%w: user %s year %d", ErrAccountNotFound, userID, year)
		}
		if err := e.refreshCurrentYear(ctx, s, account, *emp); err != nil {
			return err
		}
		entries, err := s.EntriesByYear(ctx, userID, year)
		if err != nil {
			return err
		}
		view = buildView(*account, entries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// History returns the year's non-deleted entries for a user.
func (e *Engine) History(ctx context.Context, userID string, year int) ([]LedgerEntry, error) {
	return e.store.EntriesByYear(ctx, userID, year)
}
