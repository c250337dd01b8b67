// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/leave-ledger/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	entries       []leave.LedgerEntry
	accounts      []leave.Account
	employees     map[string]leave.Employee
	nextAccountID int64
}

func NewMemory() *Memory {
	return &Memory{
		employees:     make(map[string]leave.Employee),
		nextAccountID: 1,
	}
}

// =============================================================================
// LEDGER ENTRIES
// =============================================================================

func (m *Memory) InsertEntry(_ context.Context, entry leave.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertEntryLocked(entry)
}

func (m *Memory) insertEntryLocked(entry leave.LedgerEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *Memory) UpdateEntry(_ context.Context, entry leave.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateEntryLocked(entry)
}

func (m *Memory) updateEntryLocked(entry leave.LedgerEntry) error {
	for i := range m.entries {
		if m.entries[i].ID == entry.ID {
			m.entries[i] = entry
			return nil
		}
	}
	return leave.ErrEntryNotFound
}

func (m *Memory) SoftDeleteEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.softDeleteEntryLocked(id)
}

func (m *Memory) softDeleteEntryLocked(id string) error {
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].Deleted = true
			return nil
		}
	}
	return leave.ErrEntryNotFound
}

func (m *Memory) EntriesByUser(_ context.Context, userID string) ([]leave.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entriesByUserLocked(userID), nil
}

func (m *Memory) entriesByUserLocked(userID string) []leave.LedgerEntry {
	var result []leave.LedgerEntry
	for _, e := range m.entries {
		if e.UserID == userID && !e.Deleted {
			result = append(result, e)
		}
	}
	sortByCreateTime(result)
	return result
}

func (m *Memory) EntriesByYear(_ context.Context, userID string, year int) ([]leave.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entriesByYearLocked(userID, year), nil
}

func (m *Memory) entriesByYearLocked(userID string, year int) []leave.LedgerEntry {
	var result []leave.LedgerEntry
	for _, e := range m.entries {
		if e.UserID == userID && !e.Deleted && e.StartDate.Year() == year {
			result = append(result, e)
		}
	}
	sortByCreateTime(result)
	return result
}

func (m *Memory) CarryOverEntry(_ context.Context, userID string, startDate leave.Date) (*leave.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.carryOverEntryLocked(userID, startDate), nil
}

func (m *Memory) carryOverEntryLocked(userID string, startDate leave.Date) *leave.LedgerEntry {
	for _, e := range m.entries {
		if e.UserID == userID && !e.Deleted && e.Type == leave.EntryCarryOver && e.StartDate.Equal(startDate) {
			entry := e
			return &entry
		}
	}
	return nil
}

// Insertion order breaks CreateTime ties, matching the SQLite ordering.
func sortByCreateTime(entries []leave.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreateTime.Before(entries[j].CreateTime)
	})
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (m *Memory) UpsertAccount(_ context.Context, account *leave.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertAccountLocked(account)
}

func (m *Memory) upsertAccountLocked(account *leave.Account) error {
	for i := range m.accounts {
		if m.accounts[i].UserID == account.UserID && m.accounts[i].Year == account.Year {
			account.ID = m.accounts[i].ID
			account.Deleted = false
			m.accounts[i] = *account
			return nil
		}
	}
	account.ID = m.nextAccountID
	m.nextAccountID++
	account.Deleted = false
	m.accounts = append(m.accounts, *account)
	return nil
}

func (m *Memory) UpdateAccount(_ context.Context, account leave.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateAccountLocked(account)
}

func (m *Memory) updateAccountLocked(account leave.Account) error {
	for i := range m.accounts {
		if m.accounts[i].ID == account.ID {
			m.accounts[i] = account
			return nil
		}
	}
	return leave.ErrAccountNotFound
}

func (m *Memory) AccountByUserYear(_ context.Context, userID string, year int) (*leave.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accountByUserYearLocked(userID, year, false), nil
}

func (m *Memory) AccountByUserYearIncludeDeleted(_ context.Context, userID string, year int) (*leave.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accountByUserYearLocked(userID, year, true), nil
}

func (m *Memory) accountByUserYearLocked(userID string, year int, includeDeleted bool) *leave.Account {
	for _, a := range m.accounts {
		if a.UserID == userID && a.Year == year && (includeDeleted || !a.Deleted) {
			account := a
			return &account
		}
	}
	return nil
}

func (m *Memory) AccountsByYear(_ context.Context, year int) ([]leave.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accountsByYearLocked(year), nil
}

func (m *Memory) accountsByYearLocked(year int) []leave.Account {
	var result []leave.Account
	for _, a := range m.accounts {
		if a.Year == year && !a.Deleted {
			result = append(result, a)
		}
	}
	return result
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) GetEmployee(_ context.Context, id string) (*leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getEmployeeLocked(id), nil
}

func (m *Memory) getEmployeeLocked(id string) *leave.Employee {
	emp, ok := m.employees[id]
	if !ok {
		return nil
	}
	return &emp
}

func (m *Memory) ListActiveEmployees(_ context.Context) ([]leave.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listActiveEmployeesLocked(), nil
}

func (m *Memory) listActiveEmployeesLocked() []leave.Employee {
	var result []leave.Employee
	for _, emp := range m.employees {
		if emp.Status != leave.StatusResigned {
			result = append(result, emp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (m *Memory) SaveEmployee(_ context.Context, emp leave.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveEmployeeLocked(emp)
}

func (m *Memory) saveEmployeeLocked(emp leave.Employee) error {
	m.employees[emp.ID] = emp
	return nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(leave.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()

	txStore := &txMemoryView{parent: tm}

	if err := fn(txStore); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

func (tm *TxMemory) snapshot() memorySnapshot {
	entriesCopy := append([]leave.LedgerEntry{}, tm.entries...)
	accountsCopy := append([]leave.Account{}, tm.accounts...)
	employeesCopy := make(map[string]leave.Employee, len(tm.employees))
	for k, v := range tm.employees {
		employeesCopy[k] = v
	}
	return memorySnapshot{
		entries:       entriesCopy,
		accounts:      accountsCopy,
		employees:     employeesCopy,
		nextAccountID: tm.nextAccountID,
	}
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.entries = s.entries
	tm.accounts = s.accounts
	tm.employees = s.employees
	tm.nextAccountID = s.nextAccountID
}

type memorySnapshot struct {
	entries       []leave.LedgerEntry
	accounts      []leave.Account
	employees     map[string]leave.Employee
	nextAccountID int64
}

// txMemoryView bypasses the mutex: WithTx already holds the write lock.
type txMemoryView struct {
	parent *TxMemory
}

func (tv *txMemoryView) InsertEntry(_ context.Context, entry leave.LedgerEntry) error {
	return tv.parent.insertEntryLocked(entry)
}

func (tv *txMemoryView) UpdateEntry(_ context.Context, entry leave.LedgerEntry) error {
	return tv.parent.updateEntryLocked(entry)
}

func (tv *txMemoryView) SoftDeleteEntry(_ context.Context, id string) error {
	return tv.parent.softDeleteEntryLocked(id)
}

func (tv *txMemoryView) EntriesByUser(_ context.Context, userID string) ([]leave.LedgerEntry, error) {
	return tv.parent.entriesByUserLocked(userID), nil
}

func (tv *txMemoryView) EntriesByYear(_ context.Context, userID string, year int) ([]leave.LedgerEntry, error) {
	return tv.parent.entriesByYearLocked(userID, year), nil
}

func (tv *txMemoryView) CarryOverEntry(_ context.Context, userID string, startDate leave.Date) (*leave.LedgerEntry, error) {
	return tv.parent.carryOverEntryLocked(userID, startDate), nil
}

func (tv *txMemoryView) UpsertAccount(_ context.Context, account *leave.Account) error {
	return tv.parent.upsertAccountLocked(account)
}

func (tv *txMemoryView) UpdateAccount(_ context.Context, account leave.Account) error {
	return tv.parent.updateAccountLocked(account)
}

func (tv *txMemoryView) AccountByUserYear(_ context.Context, userID string, year int) (*leave.Account, error) {
	return tv.parent.accountByUserYearLocked(userID, year, false), nil
}

func (tv *txMemoryView) AccountByUserYearIncludeDeleted(_ context.Context, userID string, year int) (*leave.Account, error) {
	return tv.parent.accountByUserYearLocked(userID, year, true), nil
}

func (tv *txMemoryView) AccountsByYear(_ context.Context, year int) ([]leave.Account, error) {
	return tv.parent.accountsByYearLocked(year), nil
}

func (tv *txMemoryView) GetEmployee(_ context.Context, id string) (*leave.Employee, error) {
	return tv.parent.getEmployeeLocked(id), nil
}

func (tv *txMemoryView) ListActiveEmployees(_ context.Context) ([]leave.Employee, error) {
	return tv.parent.listActiveEmployeesLocked(), nil
}

func (tv *txMemoryView) SaveEmployee(_ context.Context, emp leave.Employee) error {
	return tv.parent.saveEmployeeLocked(emp)
}
