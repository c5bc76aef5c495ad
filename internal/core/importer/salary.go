package importer

import (
	"fmt"
	"sort"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Salary emission categories. Downstream reports display entries in
// insertion order within a date bucket, so the order of these slices is
// part of the contract: the gross salary grant first, then each deduction
// recovery, then the mirrored payment-side entries.
const salaryGrantCategory = "Salary Grant"
const salaryPaidCategory = "Salary"

var deductionCategories = []string{
	"GPF Deduction",
	"Income Tax",
	"Profession Tax",
	"Other Deductions",
}

// SalaryRow is one raw row of the salary-deduction format: one employee's
// gross pay and deductions for a month.
type SalaryRow struct {
	Month           time.Month
	Year            int
	Employee        string
	Gross           decimal.Decimal
	GPF             decimal.Decimal
	IncomeTax       decimal.Decimal
	ProfessionTax   decimal.Decimal
	OtherDeductions decimal.Decimal
}

func (r SalaryRow) deduction(category string) decimal.Decimal {
	switch category {
	case "GPF Deduction":
		return r.GPF
	case "Income Tax":
		return r.IncomeTax
	case "Profession Tax":
		return r.ProfessionTax
	case "Other Deductions":
		return r.OtherDeductions
	}
	return decimal.Zero
}

type salaryGroup struct {
	year       int
	month      time.Month
	gross      decimal.Decimal
	deductions map[string]decimal.Decimal
}

// AggregateSalaryRows groups salary rows by (month, year) and emits, per
// group and in fixed order: a receipt for the gross salary drawn as grant,
// a receipt per non-zero deduction recovery, then the mirrored payments
// (gross salary disbursed, then each deduction remitted onward). Records
// are stamped on the first day of the month so a month's salary block
// sorts ahead of mid-month entries.
func AggregateSalaryRows(rows []SalaryRow, segment domain.BookSegment) []domain.CashRecord {
	groups := map[string]*salaryGroup{}
	var keys []string

	for _, row := range rows {
		key := fmt.Sprintf("%04d-%02d", row.Year, int(row.Month))
		g, ok := groups[key]
		if !ok {
			g = &salaryGroup{year: row.Year, month: row.Month, deductions: map[string]decimal.Decimal{}}
			groups[key] = g
			keys = append(keys, key)
		}
		g.gross = g.gross.Add(row.Gross)
		for _, category := range deductionCategories {
			g.deductions[category] = g.deductions[category].Add(row.deduction(category))
		}
	}

	sort.Strings(keys)
	records := []domain.CashRecord{}
	for _, key := range keys {
		g := groups[key]
		date := time.Date(g.year, g.month, 1, 0, 0, 0, 0, time.UTC)
		notes := fmt.Sprintf("Salary for %s %d", g.month.String(), g.year)

		if g.gross.GreaterThan(decimal.Zero) {
			records = append(records, newAggregateRecord(date, domain.Receipt, salaryGrantCategory, g.gross, notes, segment))
		}
		for _, category := range deductionCategories {
			if amt := g.deductions[category]; amt.GreaterThan(decimal.Zero) {
				records = append(records, newAggregateRecord(date, domain.Receipt, category, amt, notes, segment))
			}
		}
		if g.gross.GreaterThan(decimal.Zero) {
			records = append(records, newAggregateRecord(date, domain.Payment, salaryPaidCategory, g.gross, notes, segment))
		}
		for _, category := range deductionCategories {
			if amt := g.deductions[category]; amt.GreaterThan(decimal.Zero) {
				records = append(records, newAggregateRecord(date, domain.Payment, category, amt, notes, segment))
			}
		}
	}
	return records
}
