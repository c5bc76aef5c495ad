package ledger

import (
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateBucket groups one calendar date's records with the balances carried
// into and out of that date.
type DateBucket struct {
	Date     time.Time
	Receipts []domain.CashRecord
	Payments []domain.CashRecord

	OpeningBalance decimal.Decimal
	TotalReceipts  decimal.Decimal // this date's receipts only
	TotalPayments  decimal.Decimal
	ClosingBalance decimal.Decimal

	// DisplayTotalReceipts folds the opening balance into the receipts
	// total for the first bucket of a view, so the "Total" row balances
	// against the payment side. Later buckets show the opening balance as
	// a separate "By Opening Balance" line and keep the plain total here.
	DisplayTotalReceipts decimal.Decimal
	First                bool
}

// BuildDateBuckets groups an ordered record set by calendar date and chains
// opening/closing balances across the buckets. carriedIn is the balance
// accumulated by records excluded from this view (a prior page, or entries
// before a filtered window); the first bucket opens at that value.
//
// Splitting a set into contiguous ordered pages and calling this per page
// with carriedIn set to the true closing balance of all prior records
// yields bucket-by-bucket results identical to one pass over the full set.
func BuildDateBuckets(ordered []domain.CashRecord, carriedIn decimal.Decimal) []DateBucket {
	buckets := []DateBucket{}
	for _, rec := range ordered {
		if n := len(buckets); n == 0 || !domain.SameCalendarDate(buckets[n-1].Date, rec.Date) {
			buckets = append(buckets, DateBucket{Date: domain.TruncateToDate(rec.Date)})
		}
		b := &buckets[len(buckets)-1]
		if rec.Kind == domain.Receipt {
			b.Receipts = append(b.Receipts, rec)
			b.TotalReceipts = b.TotalReceipts.Add(rec.Amount)
		} else {
			b.Payments = append(b.Payments, rec)
			b.TotalPayments = b.TotalPayments.Add(rec.Amount)
		}
	}

	running := carriedIn
	for i := range buckets {
		b := &buckets[i]
		b.OpeningBalance = running
		b.ClosingBalance = b.OpeningBalance.Add(b.TotalReceipts).Sub(b.TotalPayments)
		b.First = i == 0
		if b.First {
			b.DisplayTotalReceipts = b.OpeningBalance.Add(b.TotalReceipts)
		} else {
			b.DisplayTotalReceipts = b.TotalReceipts
		}
		running = b.ClosingBalance
	}
	return buckets
}

// SideBySideRow aligns one receipt and one payment of the same date by row
// index; the shorter side is padded with nil cells.
type SideBySideRow struct {
	Receipt *domain.CashRecord
	Payment *domain.CashRecord
}

// SideBySideRows renders the bucket in the dense two-column cash-book shape.
func (b *DateBucket) SideBySideRows() []SideBySideRow {
	n := len(b.Receipts)
	if len(b.Payments) > n {
		n = len(b.Payments)
	}
	rows := make([]SideBySideRow, n)
	for i := 0; i < n; i++ {
		if i < len(b.Receipts) {
			rows[i].Receipt = &b.Receipts[i]
		}
		if i < len(b.Payments) {
			rows[i].Payment = &b.Payments[i]
		}
	}
	return rows
}

// FlatRows renders the buckets as plain chronological rows, receipts before
// payments within each date. Both shapes are views over the same bucket
// data; neither recomputes balances.
func FlatRows(buckets []DateBucket) []domain.CashRecord {
	rows := []domain.CashRecord{}
	for _, b := range buckets {
		rows = append(rows, b.Receipts...)
		rows = append(rows, b.Payments...)
	}
	return rows
}
