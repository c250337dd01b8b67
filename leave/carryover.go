/*
carryover.go - Cross-year carry-over calculation

PURPOSE:
  Derives the balance an employee brings into year Y from year Y-1's
  account and ledger. The calculation replays Y-1 into expiry buckets,
  offsets any usage/debt against credit buckets earliest-expiry first,
  then keeps only the credit that has not lapsed by Jan 1 of Y.

BUCKET SETUP (for target year Y):
  - Y-1's actualQuota      -> bucket expiring Dec 31 of Y   (two-year validity)
  - Y-1's lastYearBalance  -> bucket expiring Dec 31 of Y-1 (its own carry-in)
  - every Y-1 ledger entry (except EXPIRED and CARRY_OVER) -> its own
    expiryDate bucket; floating entries pool separately

DEBT RULE:
  Negative bucket totals are aggregated into one debt figure and offset
  against credit buckets in ascending expiry order (floating credit last).
  Debt that survives the offset never expires: it is subtracted from the
  carried credit and rolls forward indefinitely.

SEE ALSO:
  - engine.go: Upserts the result as a CARRY_OVER entry and mirrors it
    into Account.LastYearBalance
*/
package leave

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CarryOverInput is everything the calculator needs about year Y-1.
type CarryOverInput struct {
	// LastYearAccount is the account for year Y-1; nil means no history,
	// carry-over is zero.
	LastYearAccount *Account

	// LastYearEntries are the ledger entries whose start date falls in
	// year Y-1 (any type; the calculator filters).
	LastYearEntries []LedgerEntry
}

// CarryOver computes the balance carried from year-1 into `year`.
// The result may be negative: debt rolls forward until offset.
func CarryOver(year int, input CarryOverInput) decimal.Decimal {
	if input.LastYearAccount == nil {
		return decimal.Zero
	}
	account := input.LastYearAccount
	lastYear := year - 1

	// 1. Seed buckets with last year's quota and its own carry-in.
	buckets := map[Date]decimal.Decimal{}
	floating := decimal.Zero

	quotaExpiry := EndOfYear(year) // two-year validity
	buckets[quotaExpiry] = buckets[quotaExpiry].Add(account.ActualQuota)

	carriedExpiry := EndOfYear(lastYear)
	buckets[carriedExpiry] = buckets[carriedExpiry].Add(account.LastYearBalance)

	// 2. Replay last year's entries into their buckets.
	for _, entry := range input.LastYearEntries {
		if entry.Type == EntryExpired || entry.Type == EntryCarryOver {
			continue
		}
		if entry.Floating() {
			floating = floating.Add(entry.Days)
			continue
		}
		exp := *entry.ExpiryDate
		buckets[exp] = buckets[exp].Add(entry.Days)
	}

	// 3. Aggregate negatives into one debt figure; keep positives.
	totalDebt := decimal.Zero
	credits := map[Date]decimal.Decimal{}
	for exp, val := range buckets {
		if val.IsNegative() {
			totalDebt = totalDebt.Add(val.Abs())
		} else {
			credits[exp] = val
		}
	}
	floatingCredit := floating
	if floating.IsNegative() {
		totalDebt = totalDebt.Add(floating.Abs())
		floatingCredit = decimal.Zero
	}

	// 4. Offset debt against credit buckets, earliest expiry first,
	// floating credit last.
	if totalDebt.IsPositive() {
		order := sortedExpiries(credits)
		for _, exp := range order {
			offset := decimal.Min(credits[exp], totalDebt)
			credits[exp] = credits[exp].Sub(offset)
			totalDebt = totalDebt.Sub(offset)
			if !totalDebt.IsPositive() {
				break
			}
		}
		if totalDebt.IsPositive() && floatingCredit.IsPositive() {
			offset := decimal.Min(floatingCredit, totalDebt)
			floatingCredit = floatingCredit.Sub(offset)
			totalDebt = totalDebt.Sub(offset)
		}
	}

	// 5. Carry everything not expired before Jan 1 of the target year;
	// subtract surviving debt.
	jan1 := StartOfYear(year)
	carried := floatingCredit
	for exp, credit := range credits {
		if exp.Before(jan1) {
			continue // lapsed
		}
		carried = carried.Add(credit)
	}
	return carried.Sub(totalDebt)
}

func sortedExpiries(buckets map[Date]decimal.Decimal) []Date {
	order := make([]Date, 0, len(buckets))
	for exp := range buckets {
		order = append(order, exp)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })
	return order
}
