package handlers

import (
	"encoding/csv"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/opencashbook/cashbook_backend/internal/core/ports/services"
	"github.com/opencashbook/cashbook_backend/internal/dto"
)

type ReportHandler struct {
	reportService portssvc.ReportService
}

func NewReportHandler(reportService portssvc.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CashBook godoc
// @Summary Date-bucketed cash book report
// @Description Groups filtered records by date with opening/closing balances chained across buckets and pages.
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.CashBookReport
// @Router /reports/cashbook [get]
func (h *ReportHandler) CashBook(c *gin.Context) {
	var req dto.CashBookReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.CashBook(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportCashBookCSV godoc
// @Summary Export the cash book report as CSV
// @Description Renders the bucket output verbatim; balances are copied from the report, never recomputed here.
// @Tags reports
// @Produce  text/csv
// @Success 200 {string} string
// @Router /reports/cashbook/export [get]
func (h *ReportHandler) ExportCashBookCSV(c *gin.Context) {
	var req dto.CashBookReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Shape = dto.ShapeFlat

	report, err := h.reportService.CashBook(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="cashbook.csv"`)
	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Date", "Head of Account", "Reference", "Receipt", "Payment", "Notes"})
	for _, bucket := range report.Buckets {
		if bucket.ByOpeningBalance != nil {
			_ = w.Write([]string{bucket.Date, "By Opening Balance", "", bucket.ByOpeningBalance.StringFixed(2), "", ""})
		}
		for _, rec := range bucket.Receipts {
			_ = w.Write(recordCSVRow(rec, true))
		}
		for _, rec := range bucket.Payments {
			_ = w.Write(recordCSVRow(rec, false))
		}
		_ = w.Write([]string{bucket.Date, "Total", "", bucket.TotalReceipts.StringFixed(2), bucket.TotalPayments.StringFixed(2), ""})
		_ = w.Write([]string{bucket.Date, "Closing Balance", "", "", "", bucket.ClosingBalance.StringFixed(2)})
	}
	w.Flush()
}

func recordCSVRow(rec dto.RecordResponse, receipt bool) []string {
	ref, notes := "", ""
	if rec.ReferenceNo != nil {
		ref = *rec.ReferenceNo
	}
	if rec.Notes != nil {
		notes = *rec.Notes
	}
	amount := rec.Amount.StringFixed(2)
	if receipt {
		return []string{rec.Date, rec.Category, ref, amount, "", notes}
	}
	return []string{rec.Date, rec.Category, ref, "", amount, notes}
}
