package services

import (
	"context"
	"io"

	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/ports/repositories"
	"github.com/opencashbook/cashbook_backend/internal/dto"
)

// RecordService manages single cash records and bulk batches.
type RecordService interface {
	// CreateRecord validates and stores a record. When an equal record was
	// created within the duplicate window and the request does not confirm,
	// it returns (nil, true, nil): a soft ask-for-confirmation, not an error.
	CreateRecord(ctx context.Context, req dto.CreateRecordRequest) (*domain.CashRecord, bool, error)

	GetRecordByID(ctx context.Context, recordID string) (*domain.CashRecord, error)

	// ListRecords returns records matching the filter in canonical order.
	ListRecords(ctx context.Context, filter repositories.RecordFilter) ([]domain.CashRecord, error)

	// UpdateRecord applies a partial update, recomputing the fiscal year
	// whenever the date changes.
	UpdateRecord(ctx context.Context, recordID string, req dto.UpdateRecordRequest) (*domain.CashRecord, error)

	DeleteRecord(ctx context.Context, recordID string) error
	DeleteRecordsWhere(ctx context.Context, filter repositories.RecordFilter) (int64, error)

	// BulkImport validates each candidate independently, skips invalid ones
	// with indexed errors, and writes the valid subset atomically.
	BulkImport(ctx context.Context, candidates []dto.ImportCandidate) (*dto.BulkImportResult, error)
}

// ReportService builds cash book reports.
type ReportService interface {
	CashBook(ctx context.Context, req dto.CashBookReportRequest) (*dto.CashBookReport, error)
}

// ImportService ingests the tabular fee/salary formats.
type ImportService interface {
	ImportFees(ctx context.Context, csv io.Reader, segment domain.BookSegment) (*dto.BulkImportResult, error)
	ImportSalary(ctx context.Context, csv io.Reader, segment domain.BookSegment) (*dto.BulkImportResult, error)
}

// ReportInvalidator is implemented by the report layer so mutating record
// operations can drop stale cached reports.
type ReportInvalidator interface {
	InvalidateReports()
}
