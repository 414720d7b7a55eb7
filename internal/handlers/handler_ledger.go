package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostelhq/hostel_ledger/internal/apperrors"
	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portssvc "github.com/hostelhq/hostel_ledger/internal/core/ports/services"
	"github.com/hostelhq/hostel_ledger/internal/dto"
	"github.com/hostelhq/hostel_ledger/internal/middleware"
)

// ledgerHandler handles the ledger write path: income, refunds, payouts and
// settlement confirmations.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// registerLedgerRoutes registers the mutating ledger routes. The rate
// limiter guards the check-then-append critical sections.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, rateLimit gin.HandlerFunc) {
	h := newLedgerHandler(ledgerService)

	txns := rg.Group("/transactions")
	{
		txns.POST("/income", rateLimit, h.createIncome)
		txns.POST("/:transactionID/refund", rateLimit, h.requestRefund)
		txns.POST("/:transactionID/settlement", rateLimit, h.confirmSettlement)
	}
	rg.POST("/payouts", rateLimit, h.requestPayout)
}

// createIncome godoc
// @Summary Record a payment
// @Description Appends an income transaction to the ledger
// @Tags ledger
// @Accept json
// @Produce json
// @Param income body dto.CreateIncomeRequest true "Payment details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Malformed amount or request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /transactions/income [post]
func (h *ledgerHandler) createIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind income request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.CreateIncome(c.Request.Context(), req, creatorUserID)
	if err != nil {
		writeLedgerError(c, logger, err, "Failed to record income")
		return
	}

	logger.Info("Income recorded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*txn))
}

// requestRefund godoc
// @Summary Request a refund against a completed income transaction
// @Description Appends a refund mirror entry after over-refund and balance validation
// @Tags ledger
// @Accept json
// @Produce json
// @Param transactionID path string true "Original income transaction ID"
// @Param refund body dto.RefundRequest true "Refund details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Malformed amount or request"
// @Failure 404 {object} map[string]string "Original transaction not found"
// @Failure 422 {object} map[string]string "Over-refund or insufficient balance"
// @Security BearerAuth
// @Router /transactions/{transactionID}/refund [post]
func (h *ledgerHandler) requestRefund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	originalID := c.Param("transactionID")

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind refund request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	refund, err := h.ledgerService.RequestRefund(c.Request.Context(), originalID, req, creatorUserID)
	if err != nil {
		writeLedgerError(c, logger, err, "Failed to request refund")
		return
	}

	logger.Info("Refund recorded", slog.String("transaction_id", refund.TransactionID), slog.String("mirror_of", originalID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*refund))
}

// requestPayout godoc
// @Summary Request an owner payout
// @Description Appends a payout transaction after available-balance validation
// @Tags ledger
// @Accept json
// @Produce json
// @Param payout body dto.PayoutRequest true "Payout details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Malformed amount or request"
// @Failure 403 {object} map[string]string "Caller is not the owner"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /payouts [post]
func (h *ledgerHandler) requestPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind payout request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payout, err := h.ledgerService.RequestPayout(c.Request.Context(), req, creatorUserID)
	if err != nil {
		writeLedgerError(c, logger, err, "Failed to request payout")
		return
	}

	logger.Info("Payout recorded", slog.String("transaction_id", payout.TransactionID), slog.String("owner_id", req.OwnerID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(*payout))
}

// confirmSettlement godoc
// @Summary Confirm settlement of a pending transaction
// @Description Applies the pending -> completed/failed status transition
// @Tags ledger
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Param settlement body dto.SettlementRequest true "Settlement outcome"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 422 {object} map[string]string "Transaction is not pending"
// @Security BearerAuth
// @Router /transactions/{transactionID}/settlement [post]
func (h *ledgerHandler) confirmSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind settlement request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var outcome domain.TransactionStatus
	switch req.Outcome {
	case "completed":
		outcome = domain.StatusCompleted
	case "failed":
		outcome = domain.StatusFailed
	}

	txn, err := h.ledgerService.ConfirmSettlement(c.Request.Context(), transactionID, outcome, updaterUserID)
	if err != nil {
		writeLedgerError(c, logger, err, "Failed to confirm settlement")
		return
	}

	logger.Info("Settlement confirmed", slog.String("transaction_id", transactionID), slog.String("outcome", req.Outcome))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(*txn))
}

// writeLedgerError maps service errors onto HTTP responses. Invariant
// violations carry the offending amounts in the error text so the caller
// can present an actionable message.
func writeLedgerError(c *gin.Context, logger *slog.Logger, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrMalformedAmount), errors.Is(err, apperrors.ErrValidation):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrOverRefund),
		errors.Is(err, apperrors.ErrInsufficientBalance),
		errors.Is(err, apperrors.ErrInvalidTransition):
		logger.Warn(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(logMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
