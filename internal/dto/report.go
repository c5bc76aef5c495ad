package dto

import (
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/ledger"
	"github.com/shopspring/decimal"
)

// Report output shapes.
const (
	ShapeFlat       = "flat"
	ShapeSideBySide = "sidebyside"
)

// CashBookReportRequest carries the report filter and pagination
// parameters. Pages are counted from 1; PageSize 0 means no pagination.
type CashBookReportRequest struct {
	Segment    string `form:"segment" binding:"omitempty,oneof=a b both A B"`
	FiscalYear string `form:"fiscalYear"`
	Category   string `form:"category"`
	DateFrom   string `form:"dateFrom" binding:"omitempty,cashdate"`
	DateTo     string `form:"dateTo" binding:"omitempty,cashdate"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" binding:"omitempty,min=1,max=500"`
	Shape      string `form:"shape" binding:"omitempty,oneof=flat sidebyside"`
}

// SideBySideRowResponse aligns one receipt and one payment cell.
type SideBySideRowResponse struct {
	Receipt *RecordResponse `json:"receipt"`
	Payment *RecordResponse `json:"payment"`
}

// DateBucketResponse is one calendar date of the cash book report.
//
// TotalReceipts is the displayed total: for the first bucket of a view it
// includes the opening balance, so the total row balances against the
// payment side. Later buckets expose the opening balance as the separate
// ByOpeningBalance line instead.
type DateBucketResponse struct {
	Date             string                  `json:"date"`
	OpeningBalance   decimal.Decimal         `json:"openingBalance"`
	ByOpeningBalance *decimal.Decimal        `json:"byOpeningBalance,omitempty"`
	TotalReceipts    decimal.Decimal         `json:"totalReceipts"`
	TotalPayments    decimal.Decimal         `json:"totalPayments"`
	ClosingBalance   decimal.Decimal         `json:"closingBalance"`
	Receipts         []RecordResponse        `json:"receipts,omitempty"`
	Payments         []RecordResponse        `json:"payments,omitempty"`
	Rows             []SideBySideRowResponse `json:"rows,omitempty"`
}

// CashBookReport is the full report payload.
type CashBookReport struct {
	Buckets        []DateBucketResponse `json:"buckets"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	TotalReceipts  decimal.Decimal      `json:"totalReceipts"`
	TotalPayments  decimal.Decimal      `json:"totalPayments"`
	ClosingBalance decimal.Decimal      `json:"closingBalance"`
	Page           int                  `json:"page"`
	PageSize       int                  `json:"pageSize"`
	TotalRecords   int                  `json:"totalRecords"`
}

// FiscalYearResponse pairs a fiscal-year label with its expanded range.
type FiscalYearResponse struct {
	Label   string `json:"label"`
	Range   string `json:"range"`
	Current bool   `json:"current"`
}

// ToDateBucketResponse converts a ledger bucket to its wire shape in the
// requested output shape. Both shapes are views over the same bucket; the
// balances are copied verbatim, never recomputed.
func ToDateBucketResponse(b *ledger.DateBucket, shape string) DateBucketResponse {
	resp := DateBucketResponse{
		Date:           domain.FormatCashDate(b.Date),
		OpeningBalance: b.OpeningBalance,
		TotalReceipts:  b.DisplayTotalReceipts,
		TotalPayments:  b.TotalPayments,
		ClosingBalance: b.ClosingBalance,
	}
	if !b.First {
		opening := b.OpeningBalance
		resp.ByOpeningBalance = &opening
	}
	if shape == ShapeSideBySide {
		for _, row := range b.SideBySideRows() {
			out := SideBySideRowResponse{}
			if row.Receipt != nil {
				r := ToRecordResponse(row.Receipt)
				out.Receipt = &r
			}
			if row.Payment != nil {
				p := ToRecordResponse(row.Payment)
				out.Payment = &p
			}
			resp.Rows = append(resp.Rows, out)
		}
		return resp
	}
	resp.Receipts = ToRecordResponses(b.Receipts)
	resp.Payments = ToRecordResponses(b.Payments)
	return resp
}
