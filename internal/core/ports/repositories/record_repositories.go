package repositories

import (
	"context"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
)

// RecordFilter narrows record queries and bulk deletes. Nil fields mean
// "no constraint". DateFrom/DateTo are inclusive calendar dates.
type RecordFilter struct {
	Segment    *domain.BookSegment
	FiscalYear *string
	Category   *string
	Kind       *domain.RecordKind
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     *string // matches category, notes or reference number
}

// RecordRepository is the record store the cash book runs against.
type RecordRepository interface {
	// SaveRecord inserts a single record.
	SaveRecord(ctx context.Context, record domain.CashRecord) error

	// SaveRecords inserts a batch inside one database transaction: either
	// every record is persisted or none is.
	SaveRecords(ctx context.Context, records []domain.CashRecord) error

	// FindRecordByID returns a record or apperrors.ErrNotFound.
	FindRecordByID(ctx context.Context, recordID string) (*domain.CashRecord, error)

	// UpdateRecord overwrites the mutable fields of an existing record.
	UpdateRecord(ctx context.Context, record domain.CashRecord) error

	// DeleteRecord removes a record permanently; apperrors.ErrNotFound if absent.
	DeleteRecord(ctx context.Context, recordID string) error

	// DeleteRecordsWhere removes every record matching the filter and
	// returns how many were deleted.
	DeleteRecordsWhere(ctx context.Context, filter RecordFilter) (int64, error)

	// ListRecords returns all records matching the filter. Callers apply
	// the canonical ledger ordering themselves.
	ListRecords(ctx context.Context, filter RecordFilter) ([]domain.CashRecord, error)
}
