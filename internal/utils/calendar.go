package utils

import (
	"fmt"
	"time"

	"github.com/dsurfergithub/habitorbit/internal/constants"
)

const (
	// MatrixRows is the number of day rows in the annual grid
	MatrixRows = 31
	// MatrixColumns is the number of month columns in the annual grid
	MatrixColumns = 12
)

// MonthDayMatrix holds, for each day row and month column, the date at that position in a year.
// Cells for days that do not exist in a month (e.g. February 30) are nil.
type MonthDayMatrix [MatrixRows][MatrixColumns]*time.Time

// DayKey returns the canonical YYYY-MM-DD key for t.
// The key comes from the wall-clock components of t in its own location, so two instants that fall
// on the same local date always share a key. Convert t to the viewer's location before calling.
func DayKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseDayKey parses a YYYY-MM-DD key and returns midnight of that date in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DaysInMonth returns the number of days in the given month of year.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthDayMatrix returns the 31×12 day/month grid for year in loc.
func BuildMonthDayMatrix(year int, loc *time.Location) MonthDayMatrix {
	if loc == nil {
		loc = time.Local
	}
	var matrix MonthDayMatrix
	for m := 0; m < MatrixColumns; m++ {
		month := time.Month(m + 1)
		for d := 0; d < DaysInMonth(year, month); d++ {
			date := time.Date(year, month, d+1, 0, 0, 0, 0, loc)
			matrix[d][m] = &date
		}
	}
	return matrix
}

// DaysOfYear returns every date of year in chronological order (365 or 366 entries).
func DaysOfYear(year int, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	days := make([]time.Time, 0, 366)
	// AddDate keeps wall-clock midnight across DST changes
	for d := start; d.Year() == year; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int) bool {
	return DaysInMonth(year, time.February) == 29
}

// DaysBetween returns the number of calendar days from a to b, ignoring the time of day.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
