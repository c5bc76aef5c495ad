package ledger

import (
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultDuplicateWindow bounds how far back the double-submission check
// looks. It compares stored creation timestamps against the supplied
// "now"; there is no wall-clock wait involved.
const DefaultDuplicateWindow = 5 * time.Second

var importAmountTolerance = decimal.RequireFromString("0.01")

// IsRecentDuplicate reports whether a record matching the candidate on
// every entered field was created within window of now. It is advisory
// only: callers ask the user for confirmation, they never reject outright.
func IsRecentDuplicate(candidate domain.CashRecord, recent []domain.CashRecord, now time.Time, window time.Duration) bool {
	if window <= 0 {
		window = DefaultDuplicateWindow
	}
	for _, r := range recent {
		if !fieldsMatch(candidate, r) {
			continue
		}
		age := now.Sub(r.CreatedAt)
		if age < 0 {
			age = -age
		}
		if age <= window {
			return true
		}
	}
	return false
}

// IsImportDuplicate reports whether the candidate matches any existing
// record on date, kind, category, notes and amount (within a 0.01
// tolerance), regardless of when the existing record was created. This
// stricter, time-independent equality stops the same CSV being imported twice.
func IsImportDuplicate(candidate domain.CashRecord, existing []domain.CashRecord) bool {
	for _, r := range existing {
		if !domain.SameCalendarDate(candidate.Date, r.Date) ||
			candidate.Kind != r.Kind ||
			candidate.Category != r.Category ||
			!optionalEqual(candidate.Notes, r.Notes) {
			continue
		}
		if candidate.Amount.Sub(r.Amount).Abs().LessThanOrEqual(importAmountTolerance) {
			return true
		}
	}
	return false
}

func fieldsMatch(a, b domain.CashRecord) bool {
	return domain.SameCalendarDate(a.Date, b.Date) &&
		a.Kind == b.Kind &&
		a.Amount.Equal(b.Amount) &&
		a.Category == b.Category &&
		optionalEqual(a.ReferenceNo, b.ReferenceNo) &&
		optionalEqual(a.Notes, b.Notes)
}

// optionalEqual treats absent as equal to absent, and empty as absent.
func optionalEqual(a, b *string) bool {
	av, bv := "", ""
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}
