// Package datetime provides date utility functions for monthly projections.
package datetime

import (
	"time"

	"github.com/mgleason/proforma/pkg/constants"
)

const (
	// DateTimeLayout is the format expected in scenario files and is also the
	// output date format.
	DateTimeLayout = constants.DateTimeLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a scenario date in the standard layout.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateTimeLayout, dateStr)
}

// MonthlyDates returns the calendar date of every period from 0 through
// periods inclusive, each offset a whole number of months from start.
func MonthlyDates(start time.Time, periods int) []time.Time {
	dates := make([]time.Time, periods+1)
	for i := 0; i <= periods; i++ {
		dates[i] = OffsetMonths(start, i)
	}
	return dates
}

// OffsetMonths returns the date offset by the given number of months. A day
// past the end of the target month clamps to that month's last day, so a
// month-end acquisition date stays on month ends instead of spilling into
// the next month.
func OffsetMonths(date time.Time, months int) time.Time {
	first := time.Date(date.Year(), date.Month()+time.Month(months), 1,
		0, 0, 0, 0, date.Location())
	day := date.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, date.Location())
}

// DaysInPeriod returns the actual number of days between a period date and
// the next period date one month later. Feeds the actual/365 accrual.
func DaysInPeriod(date time.Time) int {
	return DaysBetween(date, OffsetMonths(date, 1))
}

// DaysBetween returns the number of whole days from first to second.
func DaysBetween(first, second time.Time) int {
	return int(second.Sub(first).Hours() / 24)
}

// YearFraction returns the actual/365 year fraction from first to second.
func YearFraction(first, second time.Time) float64 {
	return float64(DaysBetween(first, second)) / constants.DaysPerYear
}
