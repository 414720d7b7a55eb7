package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	portssvc "github.com/hostelhq/hostel_ledger/internal/core/ports/services"
	"github.com/hostelhq/hostel_ledger/internal/dto"
	"github.com/hostelhq/hostel_ledger/internal/middleware"
	"github.com/hostelhq/hostel_ledger/internal/utils/pagination"
)

// transactionsHandler handles the ledger read path.
type transactionsHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newTransactionsHandler(ledgerService portssvc.LedgerSvcFacade) *transactionsHandler {
	return &transactionsHandler{ledgerService: ledgerService}
}

// registerTransactionRoutes registers the ledger listing/fetch routes.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionsHandler(ledgerService)

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
	}
}

// listTransactions godoc
// @Summary List ledger transactions
// @Description Returns a filtered, paginated page of ledger entries, newest-first
// @Tags ledger
// @Produce json
// @Param partyID query string false "Filter by payer/owner"
// @Param bookingID query string false "Filter by booking"
// @Param mirrorOf query string false "Filter refunds mirroring a transaction"
// @Param kind query string false "INCOME, REFUND or PAYOUT"
// @Param status query string false "PENDING, COMPLETED or FAILED"
// @Param method query string false "Payment channel tag"
// @Param from query string false "Occurred on or after (YYYY-MM-DD)"
// @Param to query string false "Occurred on or before (YYYY-MM-DD)"
// @Param page query int false "1-based page number"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionsHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind listing filters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}

	filter, err := buildTransactionFilter(req)
	if err != nil {
		logger.Warn("Invalid listing filters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := pagination.Clamp(req.Page, req.PageSize)
	items, total, err := h.ledgerService.ListTransactions(c.Request.Context(), filter, page.Limit(), page.Offset())
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(items, total, page.Number, page.Size))
}

// getTransaction godoc
// @Summary Fetch a single ledger transaction
// @Tags ledger
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionsHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		writeLedgerError(c, logger, err, "Failed to fetch transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(*txn))
}

// buildTransactionFilter converts the bound query parameters into a
// repository filter.
func buildTransactionFilter(req dto.ListTransactionsRequest) (portsrepo.TransactionFilter, error) {
	var filter portsrepo.TransactionFilter

	if req.PartyID != "" {
		filter.PartyID = &req.PartyID
	}
	if req.BookingID != "" {
		filter.BookingID = &req.BookingID
	}
	if req.MirrorOf != "" {
		filter.MirrorOf = &req.MirrorOf
	}
	if req.Kind != "" {
		kind := domain.TransactionKind(req.Kind)
		filter.Kind = &kind
	}
	if req.Status != "" {
		status := domain.TransactionStatus(req.Status)
		filter.Status = &status
	}
	if req.Method != "" {
		filter.Method = &req.Method
	}
	if req.From != "" {
		from, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return filter, err
		}
		// Inclusive through the end of the day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	return filter, nil
}
