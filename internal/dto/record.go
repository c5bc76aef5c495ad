package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecordRequest is the payload for creating a single cash record.
// Dates travel as dd/mm/yy strings; the cashdate binding rule is
// registered at startup.
type CreateRecordRequest struct {
	Date        string          `json:"date" binding:"required,cashdate"`
	Kind        string          `json:"kind" binding:"required,oneof=RECEIPT PAYMENT"`
	ReferenceNo string          `json:"referenceNo" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	Notes       *string         `json:"notes"`
	Segment     string          `json:"segment" binding:"omitempty,oneof=A B"`

	// ConfirmDuplicate acknowledges a previous duplicate warning and lets
	// the write proceed anyway.
	ConfirmDuplicate bool `json:"confirmDuplicate"`
}

// UpdateRecordRequest is a partial update; only non-nil fields are applied.
// Kind is deliberately absent: a record never changes direction.
type UpdateRecordRequest struct {
	Date        *string          `json:"date" binding:"omitempty,cashdate"`
	ReferenceNo *string          `json:"referenceNo"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Notes       *string          `json:"notes"`
	Segment     *string          `json:"segment" binding:"omitempty,oneof=A B"`
}

// RecordResponse is the wire shape of a stored cash record.
type RecordResponse struct {
	RecordID    string          `json:"recordID"`
	Date        string          `json:"date"`
	Kind        string          `json:"kind"`
	ReferenceNo *string         `json:"referenceNo"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Notes       *string         `json:"notes"`
	FiscalYear  string          `json:"fiscalYear"`
	Segment     string          `json:"segment"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CreateRecordResponse wraps the created record together with the advisory
// duplicate flag. When DuplicateWarning is set and the record is nil, the
// caller is being asked to confirm, not being rejected.
type CreateRecordResponse struct {
	Record           *RecordResponse `json:"record,omitempty"`
	DuplicateWarning bool            `json:"duplicateWarning"`
}

// RecordWithBalance pairs a record with the running balance that remains
// with this and every later entry still to occur (newest-first display).
type RecordWithBalance struct {
	RecordResponse
	Balance decimal.Decimal `json:"balance"`
}

// ListRecordsResponse returns an ordered record listing with totals.
type ListRecordsResponse struct {
	Records       []RecordWithBalance `json:"records"`
	TotalReceipts decimal.Decimal     `json:"totalReceipts"`
	TotalPayments decimal.Decimal     `json:"totalPayments"`
	Balance       decimal.Decimal     `json:"balance"`
}

// ToRecordResponse converts a domain.CashRecord to its wire shape.
func ToRecordResponse(r *domain.CashRecord) RecordResponse {
	return RecordResponse{
		RecordID:    r.RecordID,
		Date:        domain.FormatCashDate(r.Date),
		Kind:        string(r.Kind),
		ReferenceNo: r.ReferenceNo,
		Amount:      r.Amount,
		Category:    r.Category,
		Notes:       r.Notes,
		FiscalYear:  r.FiscalYear,
		Segment:     string(r.Segment),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.LastUpdatedAt,
	}
}

// ToRecordResponses converts a slice of domain records.
func ToRecordResponses(records []domain.CashRecord) []RecordResponse {
	responses := make([]RecordResponse, len(records))
	for i := range records {
		responses[i] = ToRecordResponse(&records[i])
	}
	return responses
}

// ParseSegmentFilter maps the three-way API selector onto the two-variant
// storage enum: "a" and "b" filter one sub-ledger, "" and "both" mean no
// segment filter at all. This is the only place that mapping lives.
func ParseSegmentFilter(s string) (*domain.BookSegment, error) {
	switch strings.ToLower(s) {
	case "", "both":
		return nil, nil
	case "a":
		seg := domain.SegmentA
		return &seg, nil
	case "b":
		seg := domain.SegmentB
		return &seg, nil
	}
	return nil, fmt.Errorf("invalid segment selector %q", s)
}
