// Package fiscal maps calendar dates onto fiscal-year buckets.
//
// The fiscal year runs from 1 April through 31 March of the following
// calendar year and is labeled by its two constituent 2-digit years,
// e.g. "25-26" for April 2025 through March 2026.
package fiscal

import (
	"fmt"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
)

const startMonth = time.April

// Resolve returns the fiscal-year label for a calendar date.
func Resolve(date time.Time) string {
	year := date.Year()
	if date.Month() < startMonth {
		return label(year - 1)
	}
	return label(year)
}

// ResolveString resolves the label for a date in the dd/mm/yy wire format.
// Input that does not match the format is an explicit error, never a guess.
func ResolveString(s string) (string, error) {
	date, err := domain.ParseCashDate(s)
	if err != nil {
		return "", err
	}
	return Resolve(date), nil
}

// Current returns the fiscal-year label the given instant falls in.
func Current(now time.Time) string {
	return Resolve(now)
}

// Surrounding returns an inclusive ordered list of fiscal-year labels
// from `back` years before the current one through `ahead` years after it.
func Surrounding(now time.Time, back, ahead int) []string {
	startYear := now.Year()
	if now.Month() < startMonth {
		startYear--
	}
	labels := make([]string, 0, back+ahead+1)
	for y := startYear - back; y <= startYear+ahead; y++ {
		labels = append(labels, label(y))
	}
	return labels
}

// Expand renders a fiscal-year label as its full 4-digit date range,
// e.g. "25-26" -> "01/04/2025 - 31/03/2026".
func Expand(lbl string) (string, error) {
	var first, second int
	if _, err := fmt.Sscanf(lbl, "%2d-%2d", &first, &second); err != nil {
		return "", fmt.Errorf("invalid fiscal year label %q: %w", lbl, err)
	}
	if (first+1)%100 != second {
		return "", fmt.Errorf("invalid fiscal year label %q: years are not consecutive", lbl)
	}
	startYear := 2000 + first
	return fmt.Sprintf("01/04/%d - 31/03/%d", startYear, startYear+1), nil
}

// label builds the "YY-YY" label for the fiscal year starting in the given calendar year.
func label(startYear int) string {
	return fmt.Sprintf("%02d-%02d", startYear%100, (startYear+1)%100)
}
