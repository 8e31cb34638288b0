package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/munna98/cashdesk/internal/middleware"
)

// transactionHandler handles HTTP requests for receipts, payments and journal entries.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ls}
}

// registerTransactionRoutes registers routes related to ledger postings.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.postTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:id", h.getTransaction)
		txns.PUT("/:id", h.updateTransaction)
		txns.DELETE("/:id", h.deleteTransaction)
		txns.POST("/:id/cancel", h.cancelPayment)
	}
}

// postTransaction godoc
// @Summary Post a transaction
// @Description Posts a receipt, payment or journal entry. A receipt with commission also posts its commission payment.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.PostTransactionRequest true "Posting details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Commission account missing"
// @Failure 500 {object} map[string]string "Failed to post transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("type", string(req.Type)))
	txn, err := h.ledgerService.PostTransaction(c.Request.Context(), req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to post transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists postings in ledger order using token-based pagination
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   type query string false "receipt, payment or journalentry"
// @Param   accountID query string false "Only postings touching this account"
// @Param   fromDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param   toDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "Invalid query parameters", err)
		return
	}

	res, err := h.ledgerService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, res)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", c.Param("id")))
	if _, ok := requireUserID(c, logger); !ok {
		return
	}

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a receipt or payment
// @Description Edits a posting in place. A receipt's commission payment is created, updated or deleted to match.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Posting is managed by the ledger or cancelled"
// @Failure 500 {object} map[string]string "Failed to update transaction"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	transactionID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", transactionID))

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.UpdateTransaction(c.Request.Context(), transactionID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a posting. A receipt takes its commission payment with it.
// @Tags transactions
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Posting cannot be deleted"
// @Failure 500 {object} map[string]string "Failed to delete transaction"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	transactionID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", transactionID))
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), transactionID, userID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// cancelPayment godoc
// @Summary Cancel a payment
// @Description Posts a reversing payment linked to the original
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   cancellation body dto.CancelPaymentRequest true "Cancellation details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Not a payment"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment already cancelled"
// @Failure 500 {object} map[string]string "Failed to cancel payment"
// @Security BearerAuth
// @Router /transactions/{id}/cancel [post]
func (h *transactionHandler) cancelPayment(c *gin.Context) {
	paymentID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payment_id", paymentID))

	var req dto.CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	cancellation, err := h.ledgerService.CancelPayment(c.Request.Context(), paymentID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to cancel payment")
		return
	}

	logger.Info("Payment cancelled", slog.String("cancellation_number", cancellation.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(cancellation))
}
