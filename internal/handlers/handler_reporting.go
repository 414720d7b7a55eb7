package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hostelhq/hostel_ledger/internal/core/ports/services"
	"github.com/hostelhq/hostel_ledger/internal/dto"
	"github.com/hostelhq/hostel_ledger/internal/middleware"
)

type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// registerReportingRoutes registers the revenue reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/revenue/monthly", h.getMonthlyRevenue)
	}
}

// getMonthlyRevenue godoc
// @Summary Monthly revenue rollup
// @Description Groups completed income by calendar month of occurrence. Payout-method rows are excluded.
// @Tags reports
// @Produce json
// @Param from query string false "Start date inclusive (YYYY-MM-DD)"
// @Param to query string false "End date inclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.MonthlyRevenueResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Security BearerAuth
// @Router /reports/revenue/monthly [get]
func (h *reportingHandler) getMonthlyRevenue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var from, to *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date. Use YYYY-MM-DD"})
			return
		}
		from = &parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date. Use YYYY-MM-DD"})
			return
		}
		// Inclusive through the end of the day.
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		to = &endOfDay
	}

	rows, err := h.reportingService.MonthlyRevenue(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to compute monthly revenue", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute monthly revenue"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMonthlyRevenueResponse(rows))
}
