package ledger

import (
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClosingBalanceAt returns the signed cumulative sum of all records at or
// before index, with ordered in oldest-first canonical order. For the last
// index this equals total receipts minus total payments.
func ClosingBalanceAt(ordered []domain.CashRecord, index int) decimal.Decimal {
	sum := decimal.Zero
	for i := 0; i <= index && i < len(ordered); i++ {
		sum = sum.Add(ordered[i].SignedAmount())
	}
	return sum
}

// RunningBalanceAt returns the sum of signed amounts from index through the
// end of the list: the balance that remains with everything at or after
// index still to occur. Used for the "remaining balance" column when
// records are displayed newest-first.
func RunningBalanceAt(ordered []domain.CashRecord, index int) decimal.Decimal {
	sum := decimal.Zero
	for i := index; i >= 0 && i < len(ordered); i++ {
		sum = sum.Add(ordered[i].SignedAmount())
	}
	return sum
}

// Totals returns the receipt and payment sums over a record set.
func Totals(records []domain.CashRecord) (receipts, payments decimal.Decimal) {
	receipts, payments = decimal.Zero, decimal.Zero
	for _, r := range records {
		if r.Kind == domain.Receipt {
			receipts = receipts.Add(r.Amount)
		} else {
			payments = payments.Add(r.Amount)
		}
	}
	return receipts, payments
}
