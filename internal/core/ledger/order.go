// Package ledger holds the pure cash-book calculations: the canonical
// record ordering, running-balance arithmetic, date-bucketed report
// building and the duplicate-entry predicates. Everything here operates
// on data already fetched into memory and performs no I/O.
package ledger

import (
	"sort"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
)

// categoryPriority fixes the within-date ordering of the heads of account
// that the institution reports on. Unknown heads are equal-ranked and sort
// after every known one.
var categoryPriority = map[string]int{
	"Opening Balance": 0,
	"Grant-in-Aid":    1,
	"Fee Collection":  2,
	"Fine":            3,
	"Salary":          4,
}

const unknownCategoryRank = 1 << 10

func categoryRank(category string) int {
	if rank, ok := categoryPriority[category]; ok {
		return rank
	}
	return unknownCategoryRank
}

// Less is the single comparator every consumer (pagination, grouping,
// display) must use: calendar date ascending, then category priority,
// then creation time, then record ID so the order is reproducible from
// the same set regardless of input order.
func Less(a, b domain.CashRecord) bool {
	if !domain.SameCalendarDate(a.Date, b.Date) {
		return a.Date.Before(b.Date)
	}
	ra, rb := categoryRank(a.Category), categoryRank(b.Category)
	if ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.RecordID < b.RecordID
}

// Sort returns a copy of records in the canonical total order.
func Sort(records []domain.CashRecord) []domain.CashRecord {
	ordered := make([]domain.CashRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return Less(ordered[i], ordered[j])
	})
	return ordered
}
