package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencashbook/cashbook_backend/internal/core/ledger"
	portssvc "github.com/opencashbook/cashbook_backend/internal/core/ports/services"
	"github.com/opencashbook/cashbook_backend/internal/dto"
	"github.com/opencashbook/cashbook_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type RecordHandler struct {
	recordService portssvc.RecordService
}

func NewRecordHandler(recordService portssvc.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// CreateRecord godoc
// @Summary Create a cash record
// @Description Creates a single receipt or payment. If an identical record was created moments ago, responds 409 with duplicateWarning so the caller can confirm.
// @Tags records
// @Accept  json
// @Produce  json
// @Param   record body dto.CreateRecordRequest true "Record"
// @Success 201 {object} dto.CreateRecordResponse
// @Failure 400 {object} map[string]string
// @Router /records [post]
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, duplicate, err := h.recordService.CreateRecord(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if duplicate {
		// Soft warning: ask for confirmation, never reject outright.
		c.JSON(http.StatusConflict, dto.CreateRecordResponse{DuplicateWarning: true})
		return
	}

	resp := dto.ToRecordResponse(record)
	c.JSON(http.StatusCreated, dto.CreateRecordResponse{Record: &resp})
}

// ListRecords godoc
// @Summary List cash records
// @Description Returns filtered records in canonical order, newest first, each with the running balance that remains from that entry onward.
// @Tags records
// @Produce  json
// @Success 200 {object} dto.ListRecordsResponse
// @Router /records [get]
func (h *RecordHandler) ListRecords(c *gin.Context) {
	var req dto.ListRecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ordered, err := h.recordService.ListRecords(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	balance := decimal.Zero
	// Walk oldest-first accumulating the closing balance, emit newest-first.
	rows := make([]dto.RecordWithBalance, len(ordered))
	for i := range ordered {
		balance = balance.Add(ordered[i].SignedAmount())
		rows[len(ordered)-1-i] = dto.RecordWithBalance{
			RecordResponse: dto.ToRecordResponse(&ordered[i]),
			Balance:        balance,
		}
	}
	resp := dto.ListRecordsResponse{Records: rows}
	receipts, payments := ledger.Totals(ordered)
	resp.TotalReceipts = receipts
	resp.TotalPayments = payments
	resp.Balance = receipts.Sub(payments)

	c.JSON(http.StatusOK, resp)
}

// GetRecord godoc
// @Summary Get a cash record
// @Tags records
// @Produce  json
// @Param   recordID path string true "Record ID"
// @Success 200 {object} dto.RecordResponse
// @Failure 404 {object} map[string]string
// @Router /records/{recordID} [get]
func (h *RecordHandler) GetRecord(c *gin.Context) {
	record, err := h.recordService.GetRecordByID(c.Request.Context(), c.Param("recordID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

// UpdateRecord godoc
// @Summary Update a cash record
// @Description Applies a partial update; changing the date recomputes the stored fiscal year.
// @Tags records
// @Accept  json
// @Produce  json
// @Param   recordID path string true "Record ID"
// @Param   record body dto.UpdateRecordRequest true "Patch"
// @Success 200 {object} dto.RecordResponse
// @Router /records/{recordID} [put]
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	var req dto.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.recordService.UpdateRecord(c.Request.Context(), c.Param("recordID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

// DeleteRecord godoc
// @Summary Delete a cash record
// @Tags records
// @Param   recordID path string true "Record ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /records/{recordID} [delete]
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	if err := h.recordService.DeleteRecord(c.Request.Context(), c.Param("recordID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteRecords godoc
// @Summary Bulk delete cash records by filter
// @Description Deletes every record matching the segment/fiscal-year filter. At least one filter is required.
// @Tags records
// @Produce  json
// @Success 200 {object} map[string]int64
// @Router /records [delete]
func (h *RecordHandler) DeleteRecords(c *gin.Context) {
	var req dto.ListRecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.recordService.DeleteRecordsWhere(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromContext(c).Info("Bulk delete completed", slog.Int64("deleted", count))
	c.JSON(http.StatusOK, gin.H{"deleted": count})
}
