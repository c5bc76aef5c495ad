package ledger_test

import (
	"testing"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func duplicateBase(createdAt time.Time) domain.CashRecord {
	r := rec("01/04/25", "RECEIPT", "Fee Collection", "100", createdAt)
	r.ReferenceNo = strPtr("RC-101")
	r.Notes = strPtr("term fees")
	return r
}

func TestIsRecentDuplicate(t *testing.T) {
	now := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	candidate := duplicateBase(now)

	tests := []struct {
		name   string
		mutate func(*domain.CashRecord)
		age    time.Duration
		want   bool
	}{
		{"exact match 2s old", func(r *domain.CashRecord) {}, 2 * time.Second, true},
		{"exact match 10s old", func(r *domain.CashRecord) {}, 10 * time.Second, false},
		{"different amount", func(r *domain.CashRecord) { r.Amount = decimal.NewFromInt(99) }, 2 * time.Second, false},
		{"different kind", func(r *domain.CashRecord) { r.Kind = domain.Payment }, 2 * time.Second, false},
		{"different category", func(r *domain.CashRecord) { r.Category = "Fine" }, 2 * time.Second, false},
		{"different reference", func(r *domain.CashRecord) { r.ReferenceNo = strPtr("RC-102") }, 2 * time.Second, false},
		{"different notes", func(r *domain.CashRecord) { r.Notes = strPtr("other") }, 2 * time.Second, false},
		{"different date", func(r *domain.CashRecord) { r.Date = r.Date.AddDate(0, 0, 1) }, 2 * time.Second, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := duplicateBase(now.Add(-tt.age))
			tt.mutate(&existing)
			got := ledger.IsRecentDuplicate(candidate, []domain.CashRecord{existing}, now, ledger.DefaultDuplicateWindow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsRecentDuplicate_AmountNumericEquality(t *testing.T) {
	now := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	candidate := duplicateBase(now)
	candidate.Amount = decimal.RequireFromString("100.00")

	existing := duplicateBase(now.Add(-time.Second))
	existing.Amount = decimal.RequireFromString("100")

	assert.True(t, ledger.IsRecentDuplicate(candidate, []domain.CashRecord{existing}, now, ledger.DefaultDuplicateWindow))
}

func TestIsRecentDuplicate_NilAndEmptyOptionalFieldsEqual(t *testing.T) {
	now := time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
	candidate := duplicateBase(now)
	candidate.Notes = nil

	existing := duplicateBase(now.Add(-time.Second))
	existing.Notes = strPtr("")

	assert.True(t, ledger.IsRecentDuplicate(candidate, []domain.CashRecord{existing}, now, ledger.DefaultDuplicateWindow))
}

func TestIsImportDuplicate(t *testing.T) {
	// Import equality ignores the time window and the reference number,
	// and tolerates a 0.01 amount difference.
	old := duplicateBase(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	old.ReferenceNo = strPtr("something-else")

	candidate := duplicateBase(time.Now())
	assert.True(t, ledger.IsImportDuplicate(candidate, []domain.CashRecord{old}))

	near := candidate
	near.Amount = decimal.RequireFromString("100.01")
	assert.True(t, ledger.IsImportDuplicate(near, []domain.CashRecord{old}))

	far := candidate
	far.Amount = decimal.RequireFromString("100.02")
	assert.False(t, ledger.IsImportDuplicate(far, []domain.CashRecord{old}))

	otherCategory := candidate
	otherCategory.Category = "Fine"
	assert.False(t, ledger.IsImportDuplicate(otherCategory, []domain.CashRecord{old}))
}
