package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillsync/internal/application/service"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/request"
	"github.com/sangkips/tillsync/internal/presentation/http/dto/response"
	"github.com/sangkips/tillsync/pkg/logger"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles dashboard and export requests
type ReportHandler struct {
	reportService *service.ReportService
	location      *time.Location
	log           logger.ZapLogger
}

// NewReportHandler creates a new report handler. Query dates are read in location.
func NewReportHandler(reportService *service.ReportService, location *time.Location, log logger.ZapLogger) *ReportHandler {
	if location == nil {
		location = time.Local
	}
	return &ReportHandler{reportService: reportService, location: location, log: log}
}

// Summary returns dashboard statistics over the local history
func (h *ReportHandler) Summary(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}
	response.OK(c, "Report generated successfully", h.reportService.Summary(c.Request.Context(), period))
}

// ExportSales streams the sales of the period as a spreadsheet
func (h *ReportHandler) ExportSales(c *gin.Context) {
	period, ok := h.period(c)
	if !ok {
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="sales.xlsx"`)
	if err := h.reportService.ExportSalesXLSX(c.Request.Context(), c.Writer, period); err != nil {
		h.log.Error("sales export failed", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (h *ReportHandler) period(c *gin.Context) (service.ReportPeriod, bool) {
	var req request.ReportPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters: dates must be YYYY-MM-DD")
		return service.ReportPeriod{}, false
	}

	var period service.ReportPeriod
	if req.From != "" {
		period.From, _ = time.ParseInLocation("2006-01-02", req.From, h.location)
	}
	if req.To != "" {
		to, _ := time.ParseInLocation("2006-01-02", req.To, h.location)
		period.To = to.AddDate(0, 0, 1)
	}
	return period, true
}
