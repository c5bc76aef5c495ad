package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opencashbook/cashbook_backend/internal/apperrors"
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/fiscal"
	"github.com/opencashbook/cashbook_backend/internal/core/ledger"
	portsrepo "github.com/opencashbook/cashbook_backend/internal/core/ports/repositories"
	portssvc "github.com/opencashbook/cashbook_backend/internal/core/ports/services"
	"github.com/opencashbook/cashbook_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// RecordService implements cash record CRUD and bulk import on top of the
// record repository.
type RecordService struct {
	repo    portsrepo.RecordRepository
	reports portssvc.ReportInvalidator
	now     func() time.Time
}

var _ portssvc.RecordService = (*RecordService)(nil)

// NewRecordService creates a new RecordService. reports may be nil when no
// report cache is wired (e.g. in tests).
func NewRecordService(repo portsrepo.RecordRepository, reports portssvc.ReportInvalidator) *RecordService {
	return &RecordService{repo: repo, reports: reports, now: time.Now}
}

func (s *RecordService) invalidateReports() {
	if s.reports != nil {
		s.reports.InvalidateReports()
	}
}

// CreateRecord validates and stores a single record. If an identical record
// was created within the duplicate window and the request does not carry
// ConfirmDuplicate, it returns (nil, true, nil) so the caller can ask the
// user to confirm; the check never blocks a confirmed write.
func (s *RecordService) CreateRecord(ctx context.Context, req dto.CreateRecordRequest) (*domain.CashRecord, bool, error) {
	record, err := s.recordFromCreate(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if !req.ConfirmDuplicate {
		// Duplicate detection runs against one same-date query, not a live
		// query per field combination.
		from, to := record.Date, record.Date
		recent, err := s.repo.ListRecords(ctx, portsrepo.RecordFilter{
			Segment:  &record.Segment,
			DateFrom: &from,
			DateTo:   &to,
		})
		if err != nil {
			return nil, false, fmt.Errorf("failed to check for duplicates: %w", err)
		}
		if ledger.IsRecentDuplicate(*record, recent, s.now().UTC(), ledger.DefaultDuplicateWindow) {
			return nil, true, nil
		}
	}

	s.stampNew(record)
	if err := s.repo.SaveRecord(ctx, *record); err != nil {
		return nil, false, fmt.Errorf("failed to save record: %w", err)
	}
	s.invalidateReports()
	return record, false, nil
}

func (s *RecordService) GetRecordByID(ctx context.Context, recordID string) (*domain.CashRecord, error) {
	return s.repo.FindRecordByID(ctx, recordID)
}

// ListRecords returns the matching records in the canonical ledger order.
func (s *RecordService) ListRecords(ctx context.Context, filter portsrepo.RecordFilter) ([]domain.CashRecord, error) {
	records, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ledger.Sort(records), nil
}

// UpdateRecord applies the non-nil fields of the patch. Any change to the
// date recomputes the stored fiscal year; the kind is never mutated.
func (s *RecordService) UpdateRecord(ctx context.Context, recordID string, req dto.UpdateRecordRequest) (*domain.CashRecord, error) {
	record, err := s.repo.FindRecordByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		date, err := domain.ParseCashDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		record.Date = date
		record.FiscalYear = fiscal.Resolve(date)
	}
	if req.ReferenceNo != nil {
		record.ReferenceNo = req.ReferenceNo
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
	}
	if req.Category != nil {
		record.Category = *req.Category
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}
	if req.Segment != nil {
		segment, err := domain.ParseBookSegment(*req.Segment)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		record.Segment = segment
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	record.LastUpdatedAt = s.now().UTC()

	if err := s.repo.UpdateRecord(ctx, *record); err != nil {
		return nil, fmt.Errorf("failed to update record %s: %w", recordID, err)
	}
	s.invalidateReports()
	return record, nil
}

func (s *RecordService) DeleteRecord(ctx context.Context, recordID string) error {
	if err := s.repo.DeleteRecord(ctx, recordID); err != nil {
		return err
	}
	s.invalidateReports()
	return nil
}

func (s *RecordService) DeleteRecordsWhere(ctx context.Context, filter portsrepo.RecordFilter) (int64, error) {
	count, err := s.repo.DeleteRecordsWhere(ctx, filter)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.invalidateReports()
	}
	return count, nil
}

// BulkImport validates each candidate independently, records per-row errors
// without aborting the batch, and writes the valid subset inside a single
// store transaction. A store failure rolls back every write and surfaces as
// one error for the whole batch.
func (s *RecordService) BulkImport(ctx context.Context, candidates []dto.ImportCandidate) (*dto.BulkImportResult, error) {
	result := &dto.BulkImportResult{
		Results: []dto.RecordResponse{},
		Errors:  []dto.BulkImportError{},
	}

	valid := make([]domain.CashRecord, 0, len(candidates))
	for i, candidate := range candidates {
		record, err := s.recordFromCandidate(candidate)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.BulkImportError{Index: i, Error: err.Error()})
			continue
		}
		s.stampNew(record)
		valid = append(valid, *record)
	}

	if len(valid) > 0 {
		if err := s.repo.SaveRecords(ctx, valid); err != nil {
			return nil, fmt.Errorf("bulk import transaction failed: %w", err)
		}
		s.invalidateReports()
	}

	result.Imported = len(valid)
	result.Results = dto.ToRecordResponses(valid)
	return result, nil
}

// stampNew assigns identity and audit fields to a record about to be stored.
func (s *RecordService) stampNew(record *domain.CashRecord) {
	if record.RecordID == "" {
		record.RecordID = uuid.NewString()
	}
	now := s.now().UTC()
	record.CreatedAt = now
	record.LastUpdatedAt = now
}

func (s *RecordService) recordFromCreate(req dto.CreateRecordRequest) (*domain.CashRecord, error) {
	date, err := domain.ParseCashDate(req.Date)
	if err != nil {
		return nil, err
	}
	kind, err := domain.ParseRecordKind(req.Kind)
	if err != nil {
		return nil, err
	}
	segment := domain.DefaultSegment
	if req.Segment != "" {
		if segment, err = domain.ParseBookSegment(req.Segment); err != nil {
			return nil, err
		}
	}
	if req.ReferenceNo == "" {
		return nil, fmt.Errorf("reference number is required")
	}
	ref := req.ReferenceNo
	record := &domain.CashRecord{
		Date:        date,
		Kind:        kind,
		ReferenceNo: &ref,
		Amount:      req.Amount,
		Category:    req.Category,
		Notes:       req.Notes,
		FiscalYear:  fiscal.Resolve(date),
		Segment:     segment,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RecordService) recordFromCandidate(c dto.ImportCandidate) (*domain.CashRecord, error) {
	date, err := domain.ParseCashDate(c.Date)
	if err != nil {
		return nil, err
	}
	kind, err := domain.ParseRecordKind(c.Kind)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", c.Amount)
	}
	segment := domain.DefaultSegment
	if c.Segment != "" {
		if segment, err = domain.ParseBookSegment(c.Segment); err != nil {
			return nil, err
		}
	}
	record := &domain.CashRecord{
		Date:        date,
		Kind:        kind,
		ReferenceNo: c.ReferenceNo,
		Amount:      amount,
		Category:    c.Category,
		Notes:       c.Notes,
		FiscalYear:  fiscal.Resolve(date),
		Segment:     segment,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}
