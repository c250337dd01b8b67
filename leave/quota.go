/*
quota.go - Seniority quota and pro-ration arithmetic

PURPOSE:
  Pure functions mapping an employee's seniority and employment span to
  their yearly leave quota. No I/O, no state.

QUOTA RULE:
  Seniority < 10 years:  5.0 days/year
  10 <= seniority < 20: 10.0 days/year
  Seniority >= 20:      15.0 days/year

PRO-RATION:
  actualQuota = floorToHalf(standardQuota * daysEmployed / daysInYear)
  The intermediate division is done at 10 fractional digits, half-up,
  before the floor-to-half step. Future years count 0 days employed;
  the current year is capped at "today", so the result changes as the
  year progresses (callers re-run the calculation on read).
*/
package leave

import (
	"github.com/shopspring/decimal"
)

var (
	quotaTierLow  = MustParseDecimal("5.0")
	quotaTierMid  = MustParseDecimal("10.0")
	quotaTierHigh = MustParseDecimal("15.0")

	two = decimal.NewFromInt(2)
)

// StandardQuota returns the full-year entitlement for a seniority tier.
func StandardQuota(seniorityYears int) decimal.Decimal {
	switch {
	case seniorityYears < 10:
		return quotaTierLow
	case seniorityYears < 20:
		return quotaTierMid
	default:
		return quotaTierHigh
	}
}

// SeniorityYears returns whole years elapsed from firstWorkDate to today.
// A nil firstWorkDate means zero seniority.
func SeniorityYears(firstWorkDate *Date, today Date) int {
	if firstWorkDate == nil {
		return 0
	}
	years := today.Year() - firstWorkDate.Year()
	anniversary := NewDate(today.Year(), firstWorkDate.Month(), firstWorkDate.Day())
	if today.Before(anniversary) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// ProRatedQuota scales a standard quota by days employed in the year and
// rounds toward zero to the nearest half day.
func ProRatedQuota(standardQuota decimal.Decimal, daysEmployed, daysInYear int) decimal.Decimal {
	if daysInYear <= 0 {
		return decimal.Zero
	}
	raw := standardQuota.
		Mul(decimal.NewFromInt(int64(daysEmployed))).
		DivRound(decimal.NewFromInt(int64(daysInYear)), 10)
	return floorToHalf(raw)
}

// floorToHalf rounds toward zero to the nearest 0.5 (e.g. 4.9 -> 4.5).
func floorToHalf(d decimal.Decimal) decimal.Decimal {
	return d.Mul(two).Floor().Div(two)
}

// DaysEmployed counts the days an employee is employed within a year,
// inclusive of both ends. Future years are 0; the current year is capped
// at today. A nil entry date on a past or current year means the employee
// was there the whole span.
func DaysEmployed(entryDate *Date, year int, today Date) int {
	if year > today.Year() {
		return 0
	}

	start := StartOfYear(year)
	end := EndOfYear(year)
	if year == today.Year() {
		end = today
	}

	if entryDate == nil {
		return DaysBetween(start, end) + 1
	}
	if entryDate.After(end) {
		return 0
	}

	effectiveStart := start
	if entryDate.After(start) {
		effectiveStart = *entryDate
	}
	return DaysBetween(effectiveStart, end) + 1
}

// QuotaForYear computes both quota figures for an employee and year.
func QuotaForYear(emp Employee, year int, today Date) (standard, actual decimal.Decimal, daysEmployed, seniority int) {
	seniority = SeniorityYears(emp.FirstWorkDate, today)
	standard = StandardQuota(seniority)
	daysEmployed = DaysEmployed(emp.EntryDate, year, today)
	actual = ProRatedQuota(standard, daysEmployed, DaysInYear(year))
	return standard, actual, daysEmployed, seniority
}
