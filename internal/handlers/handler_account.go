package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/munna98/cashdesk/internal/core/domain"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/munna98/cashdesk/internal/middleware"
	"github.com/munna98/cashdesk/internal/utils/accounting"
)

// accountHandler handles HTTP requests related to accounts and their balances.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	balanceService   portssvc.BalanceSvc
	reportingService portssvc.ReportingService
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, bs portssvc.BalanceSvc, rs portssvc.ReportingService) *accountHandler {
	return &accountHandler{
		accountService:   as,
		balanceService:   bs,
		reportingService: rs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, balanceService portssvc.BalanceSvc, reportingService portssvc.ReportingService) {
	h := newAccountHandler(accountService, balanceService, reportingService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.GET("/:id/ledger", h.getLedgerStatement)
	}
	rg.GET("/balances", h.getBalances)
	rg.POST("/setup/bootstrap", h.bootstrap)
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a manual account (expense, income, liability or equity) and posts its opening balance
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Duplicate singleton or missing Opening Balance account"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}

	creatorUserID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("account_type", string(req.AccountType)))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves an account with its derived balance
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Retrieves accounts ordered by name, optionally filtered by type
// @Tags accounts
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Param   type query string false "Account type"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list accounts")
		return
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// updateAccount godoc
// @Summary Rename an account
// @Description Renames a manual account. Linked accounts follow their entity; Cash and Commission keep their names.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Account fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account cannot be renamed"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID), slog.String("user_id", userID))
	updated, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update account")
		return
	}

	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated))
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Derives the balance of an account from its postings, optionally as of a date
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   asOf query string false "Inclusive date (YYYY-MM-DD)"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to derive balance"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var params dto.BalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}
	asOf, err := dto.ParseOptionalDate(params.AsOf)
	if err != nil {
		badRequest(c, logger, "Invalid asOf date", err)
		return
	}

	balance, err := h.balanceService.DescribeBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		handleServiceError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to derive balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponse(*balance, h.balanceService.FormatBalance(*balance)))
}

// getBalances godoc
// @Summary Get balances of several accounts
// @Description Derives balances for a comma separated list of account IDs in one pass
// @Tags accounts
// @Produce  json
// @Param   ids query string true "Comma separated account IDs"
// @Param   asOf query string false "Inclusive date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListBalancesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to derive balances"
// @Security BearerAuth
// @Router /balances [get]
func (h *accountHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var params dto.BalancesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}
	asOf, err := dto.ParseOptionalDate(params.AsOf)
	if err != nil {
		badRequest(c, logger, "Invalid asOf date", err)
		return
	}

	var ids []string
	for _, id := range strings.Split(params.IDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	balances, err := h.balanceService.DescribeBalances(c.Request.Context(), ids, asOf)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to derive balances")
		return
	}

	res := dto.ListBalancesResponse{Balances: make([]dto.BalanceResponse, len(balances))}
	for i, b := range balances {
		res.Balances[i] = dto.ToBalanceResponse(b, h.balanceService.FormatBalance(b))
	}
	c.JSON(http.StatusOK, res)
}

// getLedgerStatement godoc
// @Summary Get an account statement
// @Description Lists an account's postings with running balance between two optional dates
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerStatementResponse
// @Failure 400 {object} map[string]string "Invalid dates"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build statement"
// @Security BearerAuth
// @Router /accounts/{id}/ledger [get]
func (h *accountHandler) getLedgerStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var params dto.LedgerStatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}
	start, err := dto.ParseOptionalDate(params.StartDate)
	if err != nil {
		badRequest(c, logger, "Invalid startDate", err)
		return
	}
	end, err := dto.ParseOptionalDate(params.EndDate)
	if err != nil {
		badRequest(c, logger, "Invalid endDate", err)
		return
	}

	logger = logger.With(slog.String("account_id", accountID))
	statement, err := h.reportingService.GetLedgerStatement(c.Request.Context(), accountID, start, end)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to build statement")
		return
	}

	display := h.balanceService.FormatBalance(accounting.DescribeBalance(statement.Account, statement.ClosingBalance))
	logger.Info("Ledger statement generated", slog.Int("entries", len(statement.Entries)))
	c.JSON(http.StatusOK, dto.ToLedgerStatementResponse(statement, display))
}

// bootstrap godoc
// @Summary Create the singleton accounts
// @Description Idempotently creates Cash and Commission, plus Opening Balance when requested
// @Tags setup
// @Produce  json
// @Param   withOpeningBalance query bool false "Also create the Opening Balance account"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to bootstrap accounts"
// @Security BearerAuth
// @Router /setup/bootstrap [post]
func (h *accountHandler) bootstrap(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.accountService.EnsureDefaultAccounts(ctx); err != nil {
		handleServiceError(c, logger, err, "Failed to bootstrap accounts")
		return
	}
	keys := []domain.WellKnownAccount{domain.WellKnownCash, domain.WellKnownCommission}
	if c.Query("withOpeningBalance") == "true" {
		if _, err := h.accountService.EnsureOpeningBalanceAccount(ctx); err != nil {
			handleServiceError(c, logger, err, "Failed to bootstrap accounts")
			return
		}
		keys = append(keys, domain.WellKnownOpeningBalance)
	}

	accounts := make([]domain.Account, 0, len(keys))
	for _, key := range keys {
		acc, err := h.accountService.ResolveWellKnown(ctx, key)
		if err != nil {
			handleServiceError(c, logger, err, "Failed to bootstrap accounts")
			return
		}
		accounts = append(accounts, *acc)
	}

	logger.Info("Singleton accounts ensured", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}
