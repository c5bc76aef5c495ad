package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencashbook/cashbook_backend/internal/core/domain"
	portssvc "github.com/opencashbook/cashbook_backend/internal/core/ports/services"
	"github.com/opencashbook/cashbook_backend/internal/dto"
	"github.com/opencashbook/cashbook_backend/internal/middleware"
)

type ImportHandler struct {
	recordService portssvc.RecordService
	importService portssvc.ImportService
}

func NewImportHandler(recordService portssvc.RecordService, importService portssvc.ImportService) *ImportHandler {
	return &ImportHandler{recordService: recordService, importService: importService}
}

// BulkImportRecords godoc
// @Summary Bulk import canonical records
// @Description Validates each record independently; invalid rows are reported by index, valid rows are committed atomically.
// @Tags imports
// @Accept  json
// @Produce  json
// @Param   batch body dto.BulkImportRequest true "Batch"
// @Success 200 {object} dto.BulkImportResult
// @Router /imports/records [post]
func (h *ImportHandler) BulkImportRecords(c *gin.Context) {
	var req dto.BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.recordService.BulkImport(c.Request.Context(), req.Records)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromContext(c).Info("Bulk import completed",
		slog.Int("imported", result.Imported), slog.Int("failed", result.Failed))
	c.JSON(http.StatusOK, result)
}

// ImportFees godoc
// @Summary Import the fee-collection CSV
// @Description Aggregates raw fee rows by date and head of account, skipping rows already present in the ledger.
// @Tags imports
// @Accept  text/csv
// @Produce  json
// @Success 200 {object} dto.BulkImportResult
// @Router /imports/fees [post]
func (h *ImportHandler) ImportFees(c *gin.Context) {
	h.importCSV(c, h.importService.ImportFees)
}

// ImportSalary godoc
// @Summary Import the salary-deduction CSV
// @Description Aggregates salary rows by month into grant, deduction and payment entries in fixed order.
// @Tags imports
// @Accept  text/csv
// @Produce  json
// @Success 200 {object} dto.BulkImportResult
// @Router /imports/salary [post]
func (h *ImportHandler) ImportSalary(c *gin.Context) {
	h.importCSV(c, h.importService.ImportSalary)
}

func (h *ImportHandler) importCSV(c *gin.Context, ingest func(ctx context.Context, body io.Reader, segment domain.BookSegment) (*dto.BulkImportResult, error)) {
	segment := domain.DefaultSegment
	if s := c.Query("segment"); s != "" {
		parsed, err := domain.ParseBookSegment(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		segment = parsed
	}

	result, err := ingest(c.Request.Context(), c.Request.Body, segment)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromContext(c).Info("CSV import completed",
		slog.Int("imported", result.Imported), slog.Int("failed", result.Failed), slog.Int("skipped", result.Skipped))
	c.JSON(http.StatusOK, result)
}
