package domain

import (
	"fmt"
	"time"
)

// CashDateLayout is the external wire/display format for calendar dates.
// Two-digit years resolve to 20xx per Go reference-time semantics.
// Internally dates are plain time.Time values at UTC midnight; the string
// form exists only at the parsing/formatting boundary.
const CashDateLayout = "02/01/06"

// ParseCashDate parses a dd/mm/yy date string into a UTC calendar date.
func ParseCashDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(CashDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cash date %q (expected dd/mm/yy): %w", s, err)
	}
	return t, nil
}

// FormatCashDate renders a calendar date in the dd/mm/yy wire format.
func FormatCashDate(t time.Time) string {
	return t.Format(CashDateLayout)
}

// SameCalendarDate reports whether two instants fall on the same calendar date.
func SameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TruncateToDate strips any time-of-day component, keeping the UTC calendar date.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
