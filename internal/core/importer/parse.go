package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Fee-collection CSV header: Date, Receipt No, then one column per entry
// of FeeCategories. Salary-deduction CSV header below. Both are fixed,
// versioned column sets; unknown layouts fail the whole parse, while
// individual malformed rows (wrong field count, unparseable date) are
// skipped so trailing blank rows in exported sheets don't abort an import.
var feeHeader = append([]string{"Date", "Receipt No"}, FeeCategories...)

var salaryHeader = []string{"Month", "Year", "Employee", "Gross", "GPF", "Income Tax", "Profession Tax", "Other Deductions"}

// ParseFeeCSV reads the fee-collection format into raw rows.
func ParseFeeCSV(r io.Reader) ([]FeeRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read fee CSV header: %w", err)
	}
	if err := checkHeader(header, feeHeader); err != nil {
		return nil, err
	}

	rows := []FeeRow{}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read fee CSV row: %w", err)
		}
		if len(fields) != len(feeHeader) {
			continue
		}
		date, err := domain.ParseCashDate(strings.TrimSpace(fields[0]))
		if err != nil {
			continue
		}
		row := FeeRow{
			Date:      date,
			ReceiptNo: strings.TrimSpace(fields[1]),
			Amounts:   map[string]decimal.Decimal{},
		}
		for i, category := range FeeCategories {
			amount, ok := parseAmountCell(fields[2+i])
			if ok {
				row.Amounts[category] = amount
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseSalaryCSV reads the salary-deduction format into raw rows.
func ParseSalaryCSV(r io.Reader) ([]SalaryRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read salary CSV header: %w", err)
	}
	if err := checkHeader(header, salaryHeader); err != nil {
		return nil, err
	}

	rows := []SalaryRow{}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read salary CSV row: %w", err)
		}
		if len(fields) != len(salaryHeader) {
			continue
		}
		month, ok := parseMonth(strings.TrimSpace(fields[0]))
		if !ok {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil || year < 1900 {
			continue
		}
		row := SalaryRow{
			Month:    month,
			Year:     year,
			Employee: strings.TrimSpace(fields[2]),
		}
		row.Gross, _ = parseAmountCell(fields[3])
		row.GPF, _ = parseAmountCell(fields[4])
		row.IncomeTax, _ = parseAmountCell(fields[5])
		row.ProfessionTax, _ = parseAmountCell(fields[6])
		row.OtherDeductions, _ = parseAmountCell(fields[7])
		rows = append(rows, row)
	}
	return rows, nil
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("unexpected CSV header: got %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return fmt.Errorf("unexpected CSV column %d: got %q, want %q", i, got[i], want[i])
		}
	}
	return nil
}

// parseAmountCell returns the cell's amount and whether it holds a usable
// positive value. Blank and zero cells report false.
func parseAmountCell(cell string) (decimal.Decimal, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(cell)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return amount, true
}

func parseMonth(s string) (time.Month, bool) {
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return time.Month(n), true
	}
	if t, err := time.Parse("January", s); err == nil {
		return t.Month(), true
	}
	if t, err := time.Parse("Jan", s); err == nil {
		return t.Month(), true
	}
	return 0, false
}
