package services

import (
	"context"
	"fmt"
	"io"

	"github.com/opencashbook/cashbook_backend/internal/apperrors"
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/importer"
	"github.com/opencashbook/cashbook_backend/internal/core/ledger"
	portsrepo "github.com/opencashbook/cashbook_backend/internal/core/ports/repositories"
	portssvc "github.com/opencashbook/cashbook_backend/internal/core/ports/services"
	"github.com/opencashbook/cashbook_backend/internal/dto"
)

// ImportService parses the fee and salary CSV formats, aggregates the raw
// rows into canonical records, drops records that already exist in the
// ledger, and hands the remainder to the bulk import orchestrator.
type ImportService struct {
	repo    portsrepo.RecordRepository
	records portssvc.RecordService
}

var _ portssvc.ImportService = (*ImportService)(nil)

// NewImportService creates a new ImportService.
func NewImportService(repo portsrepo.RecordRepository, records portssvc.RecordService) *ImportService {
	return &ImportService{repo: repo, records: records}
}

// ImportFees ingests the fee-collection CSV format into the given segment.
func (s *ImportService) ImportFees(ctx context.Context, csv io.Reader, segment domain.BookSegment) (*dto.BulkImportResult, error) {
	rows, err := importer.ParseFeeCSV(csv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return s.importAggregated(ctx, importer.AggregateFeeRows(rows, segment), segment)
}

// ImportSalary ingests the salary-deduction CSV format into the given segment.
func (s *ImportService) ImportSalary(ctx context.Context, csv io.Reader, segment domain.BookSegment) (*dto.BulkImportResult, error) {
	rows, err := importer.ParseSalaryCSV(csv)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return s.importAggregated(ctx, importer.AggregateSalaryRows(rows, segment), segment)
}

func (s *ImportService) importAggregated(ctx context.Context, aggregated []domain.CashRecord, segment domain.BookSegment) (*dto.BulkImportResult, error) {
	existing, err := s.repo.ListRecords(ctx, portsrepo.RecordFilter{Segment: &segment})
	if err != nil {
		return nil, fmt.Errorf("failed to load existing records: %w", err)
	}

	skipped := 0
	candidates := make([]dto.ImportCandidate, 0, len(aggregated))
	for _, record := range aggregated {
		// Time-independent duplicate check so re-uploading the same CSV
		// does not double the ledger.
		if ledger.IsImportDuplicate(record, existing) {
			skipped++
			continue
		}
		candidates = append(candidates, candidateFromRecord(record))
	}

	result, err := s.records.BulkImport(ctx, candidates)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped
	return result, nil
}

func candidateFromRecord(r domain.CashRecord) dto.ImportCandidate {
	return dto.ImportCandidate{
		Date:        domain.FormatCashDate(r.Date),
		Kind:        string(r.Kind),
		ReferenceNo: r.ReferenceNo,
		Amount:      r.Amount.String(),
		Category:    r.Category,
		Notes:       r.Notes,
		Segment:     string(r.Segment),
	}
}
