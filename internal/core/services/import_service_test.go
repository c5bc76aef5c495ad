package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/opencashbook/cashbook_backend/internal/apperrors"
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	"github.com/opencashbook/cashbook_backend/internal/core/importer"
	"github.com/opencashbook/cashbook_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const feeCSV = "Date,Receipt No,Admission Fee,Tuition Fee,Exam Fee,Sports Fee,Library Fee,Fine,Other Fee\n" +
	"01/04/25,101,,100,,,,,\n" +
	"01/04/25,102,,150,,,,,\n" +
	"02/04/25,103,,,80,,,,\n"

func newImportService(mockRepo *MockRecordRepository) *services.ImportService {
	records := services.NewRecordService(mockRepo, nil)
	return services.NewImportService(mockRepo, records)
}

func TestImportFees(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	service := newImportService(mockRepo)

	// Duplicate scan against the segment, then the transactional write.
	mockRepo.On("ListRecords", mock.Anything, mock.Anything).Return([]domain.CashRecord{}, nil).Once()
	mockRepo.On("SaveRecords", mock.Anything, mock.MatchedBy(func(records []domain.CashRecord) bool {
		return len(records) == 2
	})).Return(nil).Once()

	result, err := service.ImportFees(context.Background(), strings.NewReader(feeCSV), domain.SegmentA)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, result.Skipped)

	// Aggregated, not row-per-row: 101+102 collapse into one Tuition Fee
	// record of 250 carrying the receipt range.
	require.Len(t, result.Results, 2)
	tuition := result.Results[0]
	assert.Equal(t, "Tuition Fee", tuition.Category)
	assert.Equal(t, "250", tuition.Amount.String())
	require.NotNil(t, tuition.ReferenceNo)
	assert.Equal(t, importer.ImportReference, *tuition.ReferenceNo)
	require.NotNil(t, tuition.Notes)
	assert.Equal(t, "Receipt No. 101 to 102", *tuition.Notes)

	mockRepo.AssertExpectations(t)
}

func TestImportFees_ReuploadSkipsExisting(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	service := newImportService(mockRepo)

	date, _ := domain.ParseCashDate("01/04/25")
	notes := "Receipt No. 101 to 102"
	existing := domain.CashRecord{
		RecordID:    "stored",
		Date:        date,
		Kind:        domain.Receipt,
		Amount:      decimal.RequireFromString("250"),
		Category:    "Tuition Fee",
		Notes:       &notes,
		Segment:     domain.SegmentA,
		AuditFields: domain.AuditFields{CreatedAt: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}
	mockRepo.On("ListRecords", mock.Anything, mock.Anything).Return([]domain.CashRecord{existing}, nil).Once()
	mockRepo.On("SaveRecords", mock.Anything, mock.MatchedBy(func(records []domain.CashRecord) bool {
		return len(records) == 1 && records[0].Category == "Exam Fee"
	})).Return(nil).Once()

	result, err := service.ImportFees(context.Background(), strings.NewReader(feeCSV), domain.SegmentA)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	mockRepo.AssertExpectations(t)
}

func TestImportFees_BadHeader(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	service := newImportService(mockRepo)

	_, err := service.ImportFees(context.Background(), strings.NewReader("Date,Voucher\n"), domain.SegmentA)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mockRepo.AssertNotCalled(t, "ListRecords", mock.Anything, mock.Anything)
}

func TestImportSalary(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	service := newImportService(mockRepo)

	csv := "Month,Year,Employee,Gross,GPF,Income Tax,Profession Tax,Other Deductions\n" +
		"April,2025,Asha,30000,3000,,,\n" +
		"April,2025,Ravi,20000,2000,,,\n"

	mockRepo.On("ListRecords", mock.Anything, mock.Anything).Return([]domain.CashRecord{}, nil).Once()
	mockRepo.On("SaveRecords", mock.Anything, mock.MatchedBy(func(records []domain.CashRecord) bool {
		return len(records) == 4
	})).Return(nil).Once()

	result, err := service.ImportSalary(context.Background(), strings.NewReader(csv), domain.SegmentA)
	require.NoError(t, err)
	require.Equal(t, 4, result.Imported)

	// Salary Grant receipt, GPF recovery receipt, then the mirrored payments.
	assert.Equal(t, "Salary Grant", result.Results[0].Category)
	assert.Equal(t, "RECEIPT", result.Results[0].Kind)
	assert.Equal(t, "50000", result.Results[0].Amount.String())
	assert.Equal(t, "GPF Deduction", result.Results[1].Category)
	assert.Equal(t, "Salary", result.Results[2].Category)
	assert.Equal(t, "PAYMENT", result.Results[2].Kind)
	assert.Equal(t, "GPF Deduction", result.Results[3].Category)
	assert.Equal(t, "PAYMENT", result.Results[3].Kind)

	mockRepo.AssertExpectations(t)
}
