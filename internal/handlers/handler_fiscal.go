package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencashbook/cashbook_backend/internal/core/fiscal"
	"github.com/opencashbook/cashbook_backend/internal/dto"
)

type FiscalHandler struct{}

func NewFiscalHandler() *FiscalHandler {
	return &FiscalHandler{}
}

// ListFiscalYears godoc
// @Summary List fiscal years around the current one
// @Description Returns an inclusive ordered list of fiscal-year labels with their expanded date ranges, for selection UIs.
// @Tags fiscal-years
// @Produce  json
// @Param   back query int false "Years before the current one" default(5)
// @Param   ahead query int false "Years after the current one" default(1)
// @Success 200 {array} dto.FiscalYearResponse
// @Router /fiscal-years [get]
func (h *FiscalHandler) ListFiscalYears(c *gin.Context) {
	back := queryInt(c, "back", 5)
	ahead := queryInt(c, "ahead", 1)

	now := time.Now().UTC()
	current := fiscal.Current(now)
	labels := fiscal.Surrounding(now, back, ahead)

	out := make([]dto.FiscalYearResponse, 0, len(labels))
	for _, label := range labels {
		expanded, err := fiscal.Expand(label)
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, dto.FiscalYearResponse{
			Label:   label,
			Range:   expanded,
			Current: label == current,
		})
	}
	c.JSON(http.StatusOK, out)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if s := c.Query(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
