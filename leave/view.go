/*
view.go - Read-only balance reporting

PURPOSE:
  Builds the reporting snapshot for one (user, year): quota figures,
  carry-in balance, the year's ledger entries, derived usage, and the
  total balance. Reads the Account and Ledger, writes neither.

TOTAL BALANCE:
  totalBalance = lastYearBalance + actualQuota
               + sum(this year's entries excluding CARRY_OVER)
  CARRY_OVER entries are excluded because they are already reflected in
  lastYearBalance; usage entries are negative, so adding them reduces
  the total.
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// AccountView is the reporting snapshot for one user and year.
type AccountView struct {
	UserID          string
	Year            int
	SocialSeniority int
	StandardQuota   decimal.Decimal
	ActualQuota     decimal.Decimal
	DaysEmployed    int
	LastYearBalance decimal.Decimal
	CurrentYearUsed decimal.Decimal
	TotalBalance    decimal.Decimal
	Entries         []LedgerEntry
}

// buildView assembles the snapshot from an account and its year entries.
func buildView(account Account, entries []LedgerEntry) AccountView {
	used := decimal.Zero
	entriesSum := decimal.Zero
	for _, entry := range entries {
		if entry.Type == EntryAnnual && entry.Days.IsNegative() {
			used = used.Add(entry.Days.Abs())
		}
		if entry.Type != EntryCarryOver {
			entriesSum = entriesSum.Add(entry.Days)
		}
	}

	return AccountView{
		UserID:          account.UserID,
		Year:            account.Year,
		SocialSeniority: account.SocialSeniority,
		StandardQuota:   account.StandardQuota,
		ActualQuota:     account.ActualQuota,
		DaysEmployed:    account.DaysEmployed,
		LastYearBalance: account.LastYearBalance,
		CurrentYearUsed: used,
		TotalBalance:    account.LastYearBalance.Add(account.ActualQuota).Add(entriesSum),
		Entries:         entries,
	}
}
