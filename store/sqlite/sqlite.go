/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements leave.Store and leave.TxStore using SQLite. In production, the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  ledger_entries: Append-mostly ledger of all balance changes
  leave_accounts: Yearly quota snapshots, unique per (user_id, year)
  employees:      Directory records feeding quota calculation

APPEND-MOSTLY ENFORCEMENT:
  Ledger entries are inserted and soft-deleted (deleted = 1), never removed.
  The single UPDATE path is the per-year CARRY_OVER snapshot upsert.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. WithTx holds the write lock for the
  whole transaction, so the engine gets single-writer semantics on top of
  SQLite's own locking. Transactional reads go through the *sql.Tx, never
  back through the locking public methods.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := leave.NewEngine(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - leave/store.go: Interface definitions
  - leave/engine.go: Operations built on this store
  - leave/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/leave-ledger/leave"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = time.RFC3339Nano
)

// Store implements leave.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite serializes writers anyway, and ":memory:"
	// databases exist per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Ledger entries (append-mostly)
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		days TEXT NOT NULL,
		entry_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		expiry_date TEXT,
		create_time TEXT NOT NULL,
		remarks TEXT,
		deleted INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_entries_user
		ON ledger_entries(user_id, deleted);

	-- Year-scoped history reads (hot path)
	CREATE INDEX IF NOT EXISTS idx_entries_user_start
		ON ledger_entries(user_id, start_date);

	-- Expiry cleanup scans buckets by expiry date
	CREATE INDEX IF NOT EXISTS idx_entries_user_expiry
		ON ledger_entries(user_id, expiry_date)
		WHERE expiry_date IS NOT NULL;

	-- Yearly account snapshots
	CREATE TABLE IF NOT EXISTS leave_accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		standard_quota TEXT NOT NULL,
		actual_quota TEXT NOT NULL,
		days_employed INTEGER NOT NULL,
		social_seniority INTEGER NOT NULL,
		last_year_balance TEXT NOT NULL,
		current_year_used TEXT NOT NULL,
		deleted INTEGER NOT NULL DEFAULT 0,
		UNIQUE(user_id, year)
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_year
		ON leave_accounts(year, deleted);

	-- Employees (directory)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		entry_date TEXT,
		first_work_date TEXT,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_status
		ON employees(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// dbtx is satisfied by both *sql.DB and *sql.Tx; every query helper takes
// it so the same code serves locked public methods and transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// LEDGER ENTRIES (leave.Store interface)
// =============================================================================

const entryColumns = `id, user_id, days, entry_type, start_date, end_date, expiry_date, create_time, remarks, deleted`

// InsertEntry adds an entry to the ledger.
func (s *Store) InsertEntry(ctx context.Context, entry leave.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertEntry(ctx, s.db, entry)
}

func insertEntry(ctx context.Context, db dbtx, entry leave.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries
		(id, user_id, days, entry_type, start_date, end_date, expiry_date, create_time, remarks, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Days.String(),
		string(entry.Type),
		entry.StartDate.String(),
		entry.EndDate.String(),
		nullDate(entry.ExpiryDate),
		entry.CreateTime.UTC().Format(timeFormat),
		entry.Remarks,
		boolToInt(entry.Deleted),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// UpdateEntry rewrites an existing entry by ID (CARRY_OVER upsert only).
func (s *Store) UpdateEntry(ctx context.Context, entry leave.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateEntry(ctx, s.db, entry)
}

func updateEntry(ctx context.Context, db dbtx, entry leave.LedgerEntry) error {
	query := `
		UPDATE ledger_entries
		SET days = ?, entry_type = ?, start_date = ?, end_date = ?, expiry_date = ?, remarks = ?, deleted = ?
		WHERE id = ?
	`

	res, err := db.ExecContext(ctx, query,
		entry.Days.String(),
		string(entry.Type),
		entry.StartDate.String(),
		entry.EndDate.String(),
		nullDate(entry.ExpiryDate),
		entry.Remarks,
		boolToInt(entry.Deleted),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return leave.ErrEntryNotFound
	}
	return nil
}

// SoftDeleteEntry marks an entry deleted; rows are never removed.
func (s *Store) SoftDeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return softDeleteEntry(ctx, s.db, id)
}

func softDeleteEntry(ctx context.Context, db dbtx, id string) error {
	res, err := db.ExecContext(ctx, "UPDATE ledger_entries SET deleted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete ledger entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return leave.ErrEntryNotFound
	}
	return nil
}

// EntriesByUser returns all non-deleted entries for a user.
func (s *Store) EntriesByUser(ctx context.Context, userID string) ([]leave.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entriesByUser(ctx, s.db, userID)
}

func entriesByUser(ctx context.Context, db dbtx, userID string) ([]leave.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE user_id = ? AND deleted = 0
		ORDER BY create_time ASC
	`
	return queryEntries(ctx, db, query, userID)
}

// EntriesByYear returns non-deleted entries whose start date falls in the year.
func (s *Store) EntriesByYear(ctx context.Context, userID string, year int) ([]leave.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entriesByYear(ctx, s.db, userID, year)
}

func entriesByYear(ctx context.Context, db dbtx, userID string, year int) ([]leave.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE user_id = ? AND deleted = 0 AND start_date >= ? AND start_date <= ?
		ORDER BY create_time ASC
	`
	return queryEntries(ctx, db, query, userID,
		leave.StartOfYear(year).String(), leave.EndOfYear(year).String())
}

// CarryOverEntry returns the CARRY_OVER entry keyed by user and start date.
func (s *Store) CarryOverEntry(ctx context.Context, userID string, startDate leave.Date) (*leave.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return carryOverEntry(ctx, s.db, userID, startDate)
}

func carryOverEntry(ctx context.Context, db dbtx, userID string, startDate leave.Date) (*leave.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE user_id = ? AND entry_type = ? AND start_date = ? AND deleted = 0
		LIMIT 1
	`
	entries, err := queryEntries(ctx, db, query, userID, string(leave.EntryCarryOver), startDate.String())
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func queryEntries(ctx context.Context, db dbtx, query string, args ...any) ([]leave.LedgerEntry, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []leave.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (leave.LedgerEntry, error) {
	var (
		entry      leave.LedgerEntry
		days       string
		entryType  string
		startDate  string
		endDate    string
		expiryDate sql.NullString
		createTime string
		remarks    sql.NullString
		deleted    int
	)

	err := rows.Scan(
		&entry.ID, &entry.UserID, &days, &entryType,
		&startDate, &endDate, &expiryDate, &createTime, &remarks, &deleted,
	)
	if err != nil {
		return entry, fmt.Errorf("failed to scan ledger entry: %w", err)
	}

	entry.Days = leave.MustParseDecimal(days)
	entry.Type = leave.EntryType(entryType)
	entry.StartDate, _ = leave.ParseDate(startDate)
	entry.EndDate, _ = leave.ParseDate(endDate)
	if expiryDate.Valid {
		d, _ := leave.ParseDate(expiryDate.String)
		entry.ExpiryDate = &d
	}
	entry.CreateTime, _ = time.Parse(timeFormat, createTime)
	entry.Remarks = remarks.String
	entry.Deleted = deleted != 0
	return entry, nil
}

// =============================================================================
// ACCOUNTS
// =============================================================================

const accountColumns = `id, user_id, year, standard_quota, actual_quota, days_employed, social_seniority, last_year_balance, current_year_used, deleted`

// UpsertAccount inserts or updates the row for (user_id, year), restoring
// it if soft-deleted. The row's ID is written back into account.
func (s *Store) UpsertAccount(ctx context.Context, account *leave.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertAccount(ctx, s.db, account)
}

func upsertAccount(ctx context.Context, db dbtx, account *leave.Account) error {
	query := `
		INSERT INTO leave_accounts
		(user_id, year, standard_quota, actual_quota, days_employed, social_seniority, last_year_balance, current_year_used, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT(user_id, year) DO UPDATE SET
			standard_quota = excluded.standard_quota,
			actual_quota = excluded.actual_quota,
			days_employed = excluded.days_employed,
			social_seniority = excluded.social_seniority,
			last_year_balance = excluded.last_year_balance,
			current_year_used = excluded.current_year_used,
			deleted = 0
	`

	_, err := db.ExecContext(ctx, query,
		account.UserID,
		account.Year,
		account.StandardQuota.String(),
		account.ActualQuota.String(),
		account.DaysEmployed,
		account.SocialSeniority,
		account.LastYearBalance.String(),
		account.CurrentYearUsed.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	account.Deleted = false
	return db.QueryRowContext(ctx,
		"SELECT id FROM leave_accounts WHERE user_id = ? AND year = ?",
		account.UserID, account.Year,
	).Scan(&account.ID)
}

// UpdateAccount rewrites an existing account row by ID.
func (s *Store) UpdateAccount(ctx context.Context, account leave.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateAccount(ctx, s.db, account)
}

func updateAccount(ctx context.Context, db dbtx, account leave.Account) error {
	query := `
		UPDATE leave_accounts
		SET standard_quota = ?, actual_quota = ?, days_employed = ?, social_seniority = ?,
		    last_year_balance = ?, current_year_used = ?, deleted = ?
		WHERE id = ?
	`

	res, err := db.ExecContext(ctx, query,
		account.StandardQuota.String(),
		account.ActualQuota.String(),
		account.DaysEmployed,
		account.SocialSeniority,
		account.LastYearBalance.String(),
		account.CurrentYearUsed.String(),
		boolToInt(account.Deleted),
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return leave.ErrAccountNotFound
	}
	return nil
}

// AccountByUserYear returns the non-deleted account for (user, year).
func (s *Store) AccountByUserYear(ctx context.Context, userID string, year int) (*leave.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return accountByUserYear(ctx, s.db, userID, year, false)
}

// AccountByUserYearIncludeDeleted also matches soft-deleted rows.
func (s *Store) AccountByUserYearIncludeDeleted(ctx context.Context, userID string, year int) (*leave.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return accountByUserYear(ctx, s.db, userID, year, true)
}

func accountByUserYear(ctx context.Context, db dbtx, userID string, year int, includeDeleted bool) (*leave.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM leave_accounts
		WHERE user_id = ? AND year = ?
	`
	if !includeDeleted {
		query += " AND deleted = 0"
	}

	accounts, err := queryAccounts(ctx, db, query, userID, year)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

// AccountsByYear returns all non-deleted accounts for a year.
func (s *Store) AccountsByYear(ctx context.Context, year int) ([]leave.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return accountsByYear(ctx, s.db, year)
}

func accountsByYear(ctx context.Context, db dbtx, year int) ([]leave.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM leave_accounts
		WHERE year = ? AND deleted = 0
		ORDER BY user_id ASC
	`
	return queryAccounts(ctx, db, query, year)
}

func queryAccounts(ctx context.Context, db dbtx, query string, args ...any) ([]leave.Account, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []leave.Account
	for rows.Next() {
		var (
			a               leave.Account
			standardQuota   string
			actualQuota     string
			lastYearBalance string
			currentYearUsed string
			deleted         int
		)
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Year, &standardQuota, &actualQuota,
			&a.DaysEmployed, &a.SocialSeniority, &lastYearBalance, &currentYearUsed, &deleted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.StandardQuota = leave.MustParseDecimal(standardQuota)
		a.ActualQuota = leave.MustParseDecimal(actualQuota)
		a.LastYearBalance = leave.MustParseDecimal(lastYearBalance)
		a.CurrentYearUsed = leave.MustParseDecimal(currentYearUsed)
		a.Deleted = deleted != 0
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or updates a directory record.
func (s *Store) SaveEmployee(ctx context.Context, emp leave.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveEmployee(ctx, s.db, emp)
}

func saveEmployee(ctx context.Context, db dbtx, emp leave.Employee) error {
	query := `
		INSERT INTO employees (id, name, entry_date, first_work_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			entry_date = excluded.entry_date,
			first_work_date = excluded.first_work_date,
			status = excluded.status
	`

	status := emp.Status
	if status == "" {
		status = leave.StatusActive
	}
	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, query,
		emp.ID,
		emp.Name,
		nullDate(emp.EntryDate),
		nullDate(emp.FirstWorkDate),
		string(status),
		createdAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves a directory record, or nil if unknown.
func (s *Store) GetEmployee(ctx context.Context, id string) (*leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getEmployee(ctx, s.db, id)
}

func getEmployee(ctx context.Context, db dbtx, id string) (*leave.Employee, error) {
	query := `
		SELECT id, name, entry_date, first_work_date, status, created_at
		FROM employees
		WHERE id = ?
	`
	employees, err := queryEmployees(ctx, db, query, id)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, nil
	}
	return &employees[0], nil
}

// ListActiveEmployees returns all non-resigned employees.
func (s *Store) ListActiveEmployees(ctx context.Context) ([]leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listActiveEmployees(ctx, s.db)
}

func listActiveEmployees(ctx context.Context, db dbtx) ([]leave.Employee, error) {
	query := `
		SELECT id, name, entry_date, first_work_date, status, created_at
		FROM employees
		WHERE status != ?
		ORDER BY id ASC
	`
	return queryEmployees(ctx, db, query, string(leave.StatusResigned))
}

func queryEmployees(ctx context.Context, db dbtx, query string, args ...any) ([]leave.Employee, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []leave.Employee
	for rows.Next() {
		var (
			emp           leave.Employee
			entryDate     sql.NullString
			firstWorkDate sql.NullString
			status        string
			createdAt     string
		)
		if err := rows.Scan(&emp.ID, &emp.Name, &entryDate, &firstWorkDate, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if entryDate.Valid {
			d, _ := leave.ParseDate(entryDate.String)
			emp.EntryDate = &d
		}
		if firstWorkDate.Valid {
			d, _ := leave.ParseDate(firstWorkDate.String)
			emp.FirstWorkDate = &d
		}
		emp.Status = leave.EmployeeStatus(status)
		emp.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// =============================================================================
// TRANSACTIONAL STORE (leave.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store leave.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// txStore routes every call through the open *sql.Tx. It must not call
// back into Store's public methods: WithTx already holds the write lock.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) InsertEntry(ctx context.Context, entry leave.LedgerEntry) error {
	return insertEntry(ctx, ts.tx, entry)
}

func (ts *txStore) UpdateEntry(ctx context.Context, entry leave.LedgerEntry) error {
	return updateEntry(ctx, ts.tx, entry)
}

func (ts *txStore) SoftDeleteEntry(ctx context.Context, id string) error {
	return softDeleteEntry(ctx, ts.tx, id)
}

func (ts *txStore) EntriesByUser(ctx context.Context, userID string) ([]leave.LedgerEntry, error) {
	return entriesByUser(ctx, ts.tx, userID)
}

func (ts *txStore) EntriesByYear(ctx context.Context, userID string, year int) ([]leave.LedgerEntry, error) {
	return entriesByYear(ctx, ts.tx, userID, year)
}

func (ts *txStore) CarryOverEntry(ctx context.Context, userID string, startDate leave.Date) (*leave.LedgerEntry, error) {
	return carryOverEntry(ctx, ts.tx, userID, startDate)
}

func (ts *txStore) UpsertAccount(ctx context.Context, account *leave.Account) error {
	return upsertAccount(ctx, ts.tx, account)
}

func (ts *txStore) UpdateAccount(ctx context.Context, account leave.Account) error {
	return updateAccount(ctx, ts.tx, account)
}

func (ts *txStore) AccountByUserYear(ctx context.Context, userID string, year int) (*leave.Account, error) {
	return accountByUserYear(ctx, ts.tx, userID, year, false)
}

func (ts *txStore) AccountByUserYearIncludeDeleted(ctx context.Context, userID string, year int) (*leave.Account, error) {
	return accountByUserYear(ctx, ts.tx, userID, year, true)
}

func (ts *txStore) AccountsByYear(ctx context.Context, year int) ([]leave.Account, error) {
	return accountsByYear(ctx, ts.tx, year)
}

func (ts *txStore) GetEmployee(ctx context.Context, id string) (*leave.Employee, error) {
	return getEmployee(ctx, ts.tx, id)
}

func (ts *txStore) ListActiveEmployees(ctx context.Context) ([]leave.Employee, error) {
	return listActiveEmployees(ctx, ts.tx)
}

func (ts *txStore) SaveEmployee(ctx context.Context, emp leave.Employee) error {
	return saveEmployee(ctx, ts.tx, emp)
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"ledger_entries", "leave_accounts", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullDate(d *leave.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
