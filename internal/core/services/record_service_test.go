package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/apperrors"
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/ports/repositories"
	"github.com/opencashbook/cashbook_backend/internal/core/services"
	"github.com/opencashbook/cashbook_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRecordRepository is a testify mock for repositories.RecordRepository.
type MockRecordRepository struct {
	mock.Mock
}

var _ repositories.RecordRepository = (*MockRecordRepository)(nil)

func (m *MockRecordRepository) SaveRecord(ctx context.Context, record domain.CashRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) SaveRecords(ctx context.Context, records []domain.CashRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.CashRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashRecord), args.Error(1)
}

func (m *MockRecordRepository) UpdateRecord(ctx context.Context, record domain.CashRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) DeleteRecord(ctx context.Context, recordID string) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}

func (m *MockRecordRepository) DeleteRecordsWhere(ctx context.Context, filter repositories.RecordFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) ListRecords(ctx context.Context, filter repositories.RecordFilter) ([]domain.CashRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashRecord), args.Error(1)
}

// MockReportInvalidator records report cache purges.
type MockReportInvalidator struct {
	mock.Mock
}

func (m *MockReportInvalidator) InvalidateReports() {
	m.Called()
}

func strPtr(s string) *string { return &s }

func validCreateRequest() dto.CreateRecordRequest {
	return dto.CreateRecordRequest{
		Date:        "01/04/25",
		Kind:        "RECEIPT",
		ReferenceNo: "RC-101",
		Amount:      decimal.NewFromInt(100),
		Category:    "Fee Collection",
	}
}

func TestCreateRecord(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockReports := new(MockReportInvalidator)
	service := services.NewRecordService(mockRepo, mockReports)

	mockRepo.On("ListRecords", mock.Anything, mock.Anything).Return([]domain.CashRecord{}, nil).Once()
	mockRepo.On("SaveRecord", mock.Anything, mock.Anything).Return(nil).Once()
	mockReports.On("InvalidateReports").Return().Once()

	record, duplicate, err := service.CreateRecord(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.False(t, duplicate)
	require.NotNil(t, record)
	assert.NotEmpty(t, record.RecordID)
	assert.Equal(t, "25-26", record.FiscalYear)
	assert.Equal(t, domain.DefaultSegment, record.Segment)
	assert.False(t, record.CreatedAt.IsZero())

	mockRepo.AssertExpectations(t)
	mockReports.AssertExpectations(t)
}

func TestCreateRecord_DuplicateWarning(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	service := services.NewRecordService(mockRepo, nil)

	req := validCreateRequest()
	date, _ := domain.ParseCashDate(req.Date)
	existing := domain.CashRecord{
		RecordID:    "existing",
		Date:        date,
		Kind:        domain.Receipt,
		ReferenceNo: strPtr(req.ReferenceNo),
		Amount:      req.Amount,
		Category:    req.Category,
		Segment:     domain.DefaultSegment,
		AuditFields: domain.AuditFields{CreatedAt: time.Now().UTC().Add(-time.Second)},
	}
	mockRepo.On("ListRecords", mock.Anything, mock.Anything).Return([]domain.CashRecord{existing}, nil).Once()

	record, duplicate, err := service.CreateRecord(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, duplicate)
	assert.Nil(t, record)

	mockRepo.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCreateRecord_ConfirmDuplicateSkipsCheck(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockReports := new(MockReportInvalidator)
	service := services.NewRecordService(mockRepo, mockReports)

	req := validCreateRequest()
	req.ConfirmDuplicate = true
	mockRepo.On("SaveRecord", mock.Anything, mock.Anything).Return(nil).Once()
	mockReports.On("InvalidateReports").Return().Once()

	record, duplicate, err := service.CreateRecord(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, duplicate)
	require.NotNil(t, record)

	mockRepo.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCreateRecord_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateRecordRequest)
	}{
		{"bad date", func(r *dto.CreateRecordRequest) { r.Date = "31/02/25" }},
		{"bad kind", func(r *dto.CreateRecordRequest) { r.Kind = "TRANSFER" }},
		{"missing reference", func(r *dto.CreateRecordRequest) { r.ReferenceNo = "" }},
		{"zero amount", func(r *dto.CreateRecordRequest) { r.Amount = decimal.Zero }},
		{"negative amount", func(r *dto.CreateRecordRequest) { r.Amount = decimal.NewFromInt(-5) }},
		{"missing category", func(r *dto.CreateRecordRequest) { r.Category = "" }},
		{"bad segment", func(r *dto.CreateRecordRequest) { r.Segment = "C" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRecordRepository)
			service := services.NewRecordService(mockRepo, nil)

			req := validCreateRequest()
			tt.mutate(&req)
			record, duplicate, err := service.CreateRecord(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.False(t, duplicate)
			assert.Nil(t, record)
			mockRepo.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateRecord_DateChangeRecomputesFiscalYear(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockReports := new(MockReportInvalidator)
	service := services.NewRecordService(mockRepo, mockReports)

	date, _ := domain.ParseCashDate("01/04/25")
	existing := &domain.CashRecord{
		RecordID:    "rec-1",
		Date:        date,
		Kind:        domain.Receipt,
		ReferenceNo: strPtr("RC-101"),
		Amount:      decimal.NewFromInt(100),
		Category:    "Fee Collection",
		FiscalYear:  "25-26",
		Segment:     domain.SegmentA,
	}
	mockRepo.On("FindRecordByID", mock.Anything, "rec-1").Return(existing, nil).Once()
	mockRepo.On("UpdateRecord", mock.Anything, mock.MatchedBy(func(r domain.CashRecord) bool {
		return r.FiscalYear == "26-27"
	})).Return(nil).Once()
	mockReports.On("InvalidateReports").Return().Once()

	updated, err := service.UpdateRecord(context.Background(), "rec-1", dto.UpdateRecordRequest{
		Date: strPtr("15/02/27"),
	})
	require.NoError(t, err)
	assert.Equal(t, "26-27", updated.FiscalYear)
	// Kind is never patched.
	assert.Equal(t, domain.Receipt, updated.Kind)

	mockRepo.AssertExpectations(t)
	mockReports.AssertExpectations(t)
}

func TestUpdateRecord_NotFound(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	service := services.NewRecordService(mockRepo, nil)

	mockRepo.On("FindRecordByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := service.UpdateRecord(context.Background(), "missing", dto.UpdateRecordRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBulkImport_PartialFailure(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockReports := new(MockReportInvalidator)
	service := services.NewRecordService(mockRepo, mockReports)

	candidates := []dto.ImportCandidate{
		{Date: "01/04/25", Kind: "RECEIPT", Amount: "100", Category: "Fee Collection"},
		{Date: "02/04/25", Kind: "RECEIPT", Amount: "50", Category: ""},
		{Date: "03/04/25", Kind: "PAYMENT", Amount: "25", Category: "Rent"},
	}
	mockRepo.On("SaveRecords", mock.Anything, mock.MatchedBy(func(records []domain.CashRecord) bool {
		return len(records) == 2
	})).Return(nil).Once()
	mockReports.On("InvalidateReports").Return().Once()

	result, err := service.BulkImport(context.Background(), candidates)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Len(t, result.Results, 2)

	mockRepo.AssertExpectations(t)
	mockReports.AssertExpectations(t)
}

func TestBulkImport_AllInvalid(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	service := services.NewRecordService(mockRepo, nil)

	result, err := service.BulkImport(context.Background(), []dto.ImportCandidate{
		{Date: "bad", Kind: "RECEIPT", Amount: "100", Category: "Fee Collection"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Failed)
	mockRepo.AssertNotCalled(t, "SaveRecords", mock.Anything, mock.Anything)
}

func TestBulkImport_StoreFailureAbortsBatch(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	service := services.NewRecordService(mockRepo, nil)

	mockRepo.On("SaveRecords", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	result, err := service.BulkImport(context.Background(), []dto.ImportCandidate{
		{Date: "01/04/25", Kind: "RECEIPT", Amount: "100", Category: "Fee Collection"},
	})
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestDeleteRecordsWhere_NoMatchSkipsInvalidation(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockReports := new(MockReportInvalidator)
	service := services.NewRecordService(mockRepo, mockReports)

	fy := "25-26"
	filter := repositories.RecordFilter{FiscalYear: &fy}
	mockRepo.On("DeleteRecordsWhere", mock.Anything, filter).Return(int64(0), nil).Once()

	count, err := service.DeleteRecordsWhere(context.Background(), filter)
	require.NoError(t, err)
	assert.Zero(t, count)
	mockReports.AssertNotCalled(t, "InvalidateReports")
}
