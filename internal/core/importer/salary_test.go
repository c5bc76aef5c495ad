package importer_test

import (
	"testing"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/importer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salaryRow(month time.Month, year int, employee string, gross, gpf, incomeTax, profTax, other string) importer.SalaryRow {
	return importer.SalaryRow{
		Month:           month,
		Year:            year,
		Employee:        employee,
		Gross:           decimal.RequireFromString(gross),
		GPF:             decimal.RequireFromString(gpf),
		IncomeTax:       decimal.RequireFromString(incomeTax),
		ProfessionTax:   decimal.RequireFromString(profTax),
		OtherDeductions: decimal.RequireFromString(other),
	}
}

func TestAggregateSalaryRows_EmissionOrder(t *testing.T) {
	rows := []importer.SalaryRow{
		salaryRow(time.April, 2025, "A", "1000", "100", "50", "20", "0"),
		salaryRow(time.April, 2025, "B", "2000", "200", "0", "20", "0"),
	}
	records := importer.AggregateSalaryRows(rows, domain.SegmentA)
	require.Len(t, records, 8)

	type entry struct {
		kind     domain.RecordKind
		category string
		amount   string
	}
	want := []entry{
		{domain.Receipt, "Salary Grant", "3000"},
		{domain.Receipt, "GPF Deduction", "300"},
		{domain.Receipt, "Income Tax", "50"},
		{domain.Receipt, "Profession Tax", "40"},
		{domain.Payment, "Salary", "3000"},
		{domain.Payment, "GPF Deduction", "300"},
		{domain.Payment, "Income Tax", "50"},
		{domain.Payment, "Profession Tax", "40"},
	}
	for i, w := range want {
		assert.Equal(t, w.kind, records[i].Kind, "index %d", i)
		assert.Equal(t, w.category, records[i].Category, "index %d", i)
		assert.Equal(t, w.amount, records[i].Amount.String(), "index %d", i)
	}
}

func TestAggregateSalaryRows_StampedFirstOfMonth(t *testing.T) {
	rows := []importer.SalaryRow{
		salaryRow(time.May, 2025, "A", "1000", "0", "0", "0", "0"),
	}
	records := importer.AggregateSalaryRows(rows, domain.SegmentA)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), r.Date)
		assert.Equal(t, "25-26", r.FiscalYear)
		assert.Equal(t, "Salary for May 2025", *r.Notes)
	}
}

func TestAggregateSalaryRows_MonthsAscending(t *testing.T) {
	rows := []importer.SalaryRow{
		salaryRow(time.May, 2025, "A", "1000", "0", "0", "0", "0"),
		salaryRow(time.April, 2025, "A", "1000", "0", "0", "0", "0"),
		salaryRow(time.January, 2026, "A", "1000", "0", "0", "0", "0"),
	}
	records := importer.AggregateSalaryRows(rows, domain.SegmentA)
	require.Len(t, records, 6)
	assert.Equal(t, time.April, records[0].Date.Month())
	assert.Equal(t, time.May, records[2].Date.Month())
	assert.Equal(t, time.January, records[4].Date.Month())
	assert.Equal(t, "25-26", records[4].FiscalYear)
}

func TestAggregateSalaryRows_ZeroDeductionsOmitted(t *testing.T) {
	rows := []importer.SalaryRow{
		salaryRow(time.April, 2025, "A", "1000", "0", "0", "0", "0"),
	}
	records := importer.AggregateSalaryRows(rows, domain.SegmentA)
	require.Len(t, records, 2)
	assert.Equal(t, "Salary Grant", records[0].Category)
	assert.Equal(t, "Salary", records[1].Category)
}
