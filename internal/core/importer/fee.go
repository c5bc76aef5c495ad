// Package importer turns raw tabular fee and salary input into canonical
// cash records: many rows are aggregated into one record per group, with
// source-reference ranges preserved in the notes.
package importer

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/fiscal"
	"github.com/shopspring/decimal"
)

// ImportReference marks aggregated records whose group spans many original
// receipt numbers; the covered range lives in the notes instead.
const ImportReference = "BULK"

// FeeCategories is the fixed set of per-category amount columns in the
// fee-collection input format, in emission order.
var FeeCategories = []string{
	"Admission Fee",
	"Tuition Fee",
	"Exam Fee",
	"Sports Fee",
	"Library Fee",
	"Fine",
	"Other Fee",
}

// FeeRow is one raw row of the fee-collection format: one date and receipt
// number, with an amount per fee category.
type FeeRow struct {
	Date      time.Time
	ReceiptNo string
	Amounts   map[string]decimal.Decimal
}

type feeGroup struct {
	date     time.Time
	category string
	total    decimal.Decimal
	minRef   string
	maxRef   string
}

// AggregateFeeRows accumulates raw fee rows into one receipt record per
// (date, category) group with a strictly positive total. Zero or missing
// cells are excluded, not treated as zero-valued transactions. Each
// record's notes carry the minimum and maximum contributing receipt number.
func AggregateFeeRows(rows []FeeRow, segment domain.BookSegment) []domain.CashRecord {
	groups := map[string]*feeGroup{}
	var dates []time.Time

	for _, row := range rows {
		date := domain.TruncateToDate(row.Date)
		for _, category := range FeeCategories {
			amount, ok := row.Amounts[category]
			if !ok || amount.LessThanOrEqual(decimal.Zero) {
				continue
			}
			key := domain.FormatCashDate(date) + "|" + category
			g, ok := groups[key]
			if !ok {
				g = &feeGroup{date: date, category: category, minRef: row.ReceiptNo, maxRef: row.ReceiptNo}
				groups[key] = g
				if !containsDate(dates, date) {
					dates = append(dates, date)
				}
			}
			g.total = g.total.Add(amount)
			if refLess(row.ReceiptNo, g.minRef) {
				g.minRef = row.ReceiptNo
			}
			if refLess(g.maxRef, row.ReceiptNo) {
				g.maxRef = row.ReceiptNo
			}
		}
	}

	sortDates(dates)
	records := []domain.CashRecord{}
	for _, date := range dates {
		for _, category := range FeeCategories {
			g, ok := groups[domain.FormatCashDate(date)+"|"+category]
			if !ok {
				continue
			}
			records = append(records, newAggregateRecord(g.date, domain.Receipt, category, g.total, feeNotes(g), segment))
		}
	}
	return records
}

func feeNotes(g *feeGroup) string {
	if g.minRef == g.maxRef {
		return fmt.Sprintf("Receipt No. %s", g.minRef)
	}
	return fmt.Sprintf("Receipt No. %s to %s", g.minRef, g.maxRef)
}

func newAggregateRecord(date time.Time, kind domain.RecordKind, category string, amount decimal.Decimal, notes string, segment domain.BookSegment) domain.CashRecord {
	ref := ImportReference
	return domain.CashRecord{
		Date:        date,
		Kind:        kind,
		ReferenceNo: &ref,
		Amount:      amount,
		Category:    category,
		Notes:       &notes,
		FiscalYear:  fiscal.Resolve(date),
		Segment:     segment,
	}
}

// refLess orders receipt numbers numerically when both parse as integers,
// falling back to lexicographic comparison for alphanumeric series.
func refLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

func containsDate(dates []time.Time, d time.Time) bool {
	for _, x := range dates {
		if x.Equal(d) {
			return true
		}
	}
	return false
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
