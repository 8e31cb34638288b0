package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/munna98/cashdesk/internal/middleware"
)

// reportingHandler handles HTTP requests related to cash desk reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/dashboard", h.getDashboard)
		reportingGroup.GET("/commission", h.getCommissionReport)
		reportingGroup.GET("/register", h.getTransactionRegister)
		reportingGroup.GET("/reconcile", h.reconcile)
	}
}

// parseRange parses both ends of an inclusive reporting range.
func parseRange(p dto.DateRangeParams) (time.Time, time.Time, error) {
	from, err := dto.ParseDate(p.FromDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := dto.ParseDate(p.ToDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// getDashboard godoc
// @Summary Daily agent dashboard
// @Description Per-agent receipts, commission and payments for one day, with the agent's closing balance
// @Tags reports
// @Produce json
// @Param date query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var params dto.DashboardParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}
	date := domain.BusinessDate(time.Now())
	if params.Date != "" {
		parsed, err := dto.ParseDate(params.Date)
		if err != nil {
			badRequest(c, logger, "Invalid date", err)
			return
		}
		date = parsed
	}

	logger = logger.With(slog.String("date", dto.FormatDate(date)))
	dashboard, err := h.reportingService.GetDashboard(c.Request.Context(), date)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to generate dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardResponse(dashboard))
}

// getCommissionReport godoc
// @Summary Commission report
// @Description Sums commission payments by agent over a date range
// @Tags reports
// @Produce json
// @Param fromDate query string true "Start date (YYYY-MM-DD)"
// @Param toDate query string true "End date (YYYY-MM-DD)"
// @Param agentID query string false "Restrict to one agent account"
// @Success 200 {object} dto.CommissionReportResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/commission [get]
func (h *reportingHandler) getCommissionReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}
	from, to, err := parseRange(params)
	if err != nil {
		badRequest(c, logger, "Invalid date range", err)
		return
	}

	var agentID *string
	if v := c.Query("agentID"); v != "" {
		agentID = &v
	}

	report, err := h.reportingService.GetCommissionReport(c.Request.Context(), from, to, agentID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to generate commission report")
		return
	}
	c.JSON(http.StatusOK, dto.ToCommissionReportResponse(report))
}

// getTransactionRegister godoc
// @Summary Transaction register
// @Description Lists every posting in a date range with totals per type
// @Tags reports
// @Produce json
// @Param fromDate query string true "Start date (YYYY-MM-DD)"
// @Param toDate query string true "End date (YYYY-MM-DD)"
// @Param type query string false "receipt, payment or journalentry"
// @Success 200 {object} dto.TransactionRegisterResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/register [get]
func (h *reportingHandler) getTransactionRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var params dto.RegisterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}
	from, to, err := parseRange(params.DateRangeParams)
	if err != nil {
		badRequest(c, logger, "Invalid date range", err)
		return
	}

	var txnType *domain.TransactionType
	if params.Type != "" {
		t := domain.TransactionType(params.Type)
		txnType = &t
	}

	register, err := h.reportingService.GetTransactionRegister(c.Request.Context(), from, to, txnType)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to generate transaction register")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionRegisterResponse(register))
}

// reconcile godoc
// @Summary Reconcile the ledger
// @Description Replays every posting and compares the result against the bulk balance query
// @Tags reports
// @Produce json
// @Param asOf query string false "Reconcile up to this date (YYYY-MM-DD)"
// @Success 200 {object} domain.ReconciliationResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]interface{} "Ledger is inconsistent"
// @Failure 500 {object} map[string]string "Failed to reconcile"
// @Security BearerAuth
// @Router /reports/reconcile [get]
func (h *reportingHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	asOf, err := dto.ParseOptionalDate(c.Query("asOf"))
	if err != nil {
		badRequest(c, logger, "Invalid asOf date", err)
		return
	}

	result, err := h.reportingService.Reconcile(c.Request.Context(), asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrConsistency) && result != nil {
			logger.Error("Ledger failed reconciliation",
				slog.Int("issues", len(result.Issues)),
				slog.String("net", result.Net.String()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "result": result})
			return
		}
		handleServiceError(c, logger, err, "Failed to reconcile ledger")
		return
	}
	c.JSON(http.StatusOK, result)
}
