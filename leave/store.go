/*
store.go - Persistence interfaces for the ledger and account snapshots

PURPOSE:
  Defines the interface between the engine and the database. Different
  implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  Store:   Ledger entries, account snapshots, employee directory reads
  TxStore: Store plus atomic multi-write transactions

APPEND-MOSTLY CONTRACT:
  Ledger entries are inserted and soft-deleted, never rewritten, with one
  exception: the per-year CARRY_OVER entry is upserted when an account is
  (re)initialized, because it is a snapshot, not an event.

ATOMICITY:
  Every public engine operation (allocate, per-user cleanup, account init)
  executes inside WithTx: either all entries and account changes of that
  call are persisted, or none are.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite store
  - leave/store/memory.go:  In-memory store for testing

SEE ALSO:
  - engine.go: Public operations built on these interfaces
*/
package leave

import "context"

// =============================================================================
// STORE - Ledger, accounts, and directory persistence
// =============================================================================

type Store interface {
	// InsertEntry persists a new ledger entry.
	InsertEntry(ctx context.Context, entry LedgerEntry) error

	// UpdateEntry rewrites an existing entry by ID. Only the CARRY_OVER
	// upsert uses this; everything else is append + soft delete.
	UpdateEntry(ctx context.Context, entry LedgerEntry) error

	// SoftDeleteEntry marks an entry deleted. Entries are never removed.
	SoftDeleteEntry(ctx context.Context, id string) error

	// EntriesByUser returns all non-deleted entries for a user, ordered
	// by creation time.
	EntriesByUser(ctx context.Context, userID string) ([]LedgerEntry, error)

	// EntriesByYear returns non-deleted entries whose start date falls in
	// the given year, ordered by creation time. Read path for history.
	EntriesByYear(ctx context.Context, userID string, year int) ([]LedgerEntry, error)

	// CarryOverEntry returns the CARRY_OVER entry keyed by user and start
	// date (Jan 1 of the target year), or nil if none exists.
	CarryOverEntry(ctx context.Context, userID string, startDate Date) (*LedgerEntry, error)

	// UpsertAccount inserts the account or updates the existing row for
	// (UserID, Year), restoring it if soft-deleted.
	UpsertAccount(ctx context.Context, account *Account) error

	// UpdateAccount rewrites quota fields of an existing account row.
	UpdateAccount(ctx context.Context, account Account) error

	// AccountByUserYear returns the non-deleted account for (user, year),
	// or nil if none exists.
	AccountByUserYear(ctx context.Context, userID string, year int) (*Account, error)

	// AccountByUserYearIncludeDeleted also matches soft-deleted rows; the
	// account upsert path uses it to restore instead of duplicate.
	AccountByUserYearIncludeDeleted(ctx context.Context, userID string, year int) (*Account, error)

	// AccountsByYear returns all non-deleted accounts for a year.
	AccountsByYear(ctx context.Context, year int) ([]Account, error)

	// GetEmployee returns the directory record, or nil if unknown.
	GetEmployee(ctx context.Context, id string) (*Employee, error)

	// ListActiveEmployees returns all non-resigned employees.
	ListActiveEmployees(ctx context.Context) ([]Employee, error)

	// SaveEmployee inserts or updates a directory record.
	SaveEmployee(ctx context.Context, emp Employee) error
}

// =============================================================================
// TRANSACTIONAL STORE - For atomic operations across multiple writes
// =============================================================================

// TxStore wraps Store with transaction support. Implementations must
// serialize concurrent transactions touching the same user; the engine
// relies on single-writer-per-user semantics.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, the transaction is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
