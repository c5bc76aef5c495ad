package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind indicates whether a cash record moves money in or out.
type RecordKind string

const (
	Receipt RecordKind = "RECEIPT"
	Payment RecordKind = "PAYMENT"
)

// ParseRecordKind maps a wire value onto a RecordKind.
func ParseRecordKind(s string) (RecordKind, error) {
	switch RecordKind(s) {
	case Receipt:
		return Receipt, nil
	case Payment:
		return Payment, nil
	}
	return "", fmt.Errorf("invalid record kind %q", s)
}

// BookSegment partitions the cash book into two independently reportable sub-ledgers.
type BookSegment string

const (
	SegmentA BookSegment = "A"
	SegmentB BookSegment = "B"
)

// DefaultSegment is used when a record is created without an explicit segment.
const DefaultSegment = SegmentA

// ParseBookSegment maps a wire value onto a BookSegment.
func ParseBookSegment(s string) (BookSegment, error) {
	switch BookSegment(s) {
	case SegmentA:
		return SegmentA, nil
	case SegmentB:
		return SegmentB, nil
	}
	return "", fmt.Errorf("invalid book segment %q", s)
}

// CashRecord is the canonical unit of the cash book: a single dated receipt
// or payment tagged with a head of account.
type CashRecord struct {
	RecordID    string          `json:"recordID"`    // Primary Key (UUID), assigned by the service
	Date        time.Time       `json:"date"`        // Plain calendar date (UTC midnight)
	Kind        RecordKind      `json:"kind"`        // RECEIPT or PAYMENT
	ReferenceNo *string         `json:"referenceNo"` // Cheque/receipt number; nullable at storage
	Amount      decimal.Decimal `json:"amount"`      // Strictly positive
	Category    string          `json:"category"`    // Head of account; grouping key for ledger views
	Notes       *string         `json:"notes"`       // Nullable free text
	FiscalYear  string          `json:"fiscalYear"`  // Derived from Date at write time, stored for filtering
	Segment     BookSegment     `json:"segment"`     // Sub-ledger partition tag
	AuditFields
}

// Validate checks the invariants every stored record must satisfy.
func (r *CashRecord) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if r.Kind != Receipt && r.Kind != Payment {
		return fmt.Errorf("invalid record kind %q", r.Kind)
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive, got %s", r.Amount.String())
	}
	if r.Category == "" {
		return fmt.Errorf("head of account is required")
	}
	if r.Segment != SegmentA && r.Segment != SegmentB {
		return fmt.Errorf("invalid book segment %q", r.Segment)
	}
	return nil
}

// SignedAmount returns the amount with the sign implied by the record kind:
// receipts add to the cash balance, payments subtract from it.
func (r *CashRecord) SignedAmount() decimal.Decimal {
	if r.Kind == Payment {
		return r.Amount.Neg()
	}
	return r.Amount
}
