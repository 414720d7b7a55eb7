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

// ownerHandler exposes owner-scoped reads: available balance and the
// server-side "which hostels are mine" capability.
type ownerHandler struct {
	balanceService   portssvc.BalanceSvcFacade
	ownershipService portssvc.OwnershipSvcFacade
}

func newOwnerHandler(balanceService portssvc.BalanceSvcFacade, ownershipService portssvc.OwnershipSvcFacade) *ownerHandler {
	return &ownerHandler{balanceService: balanceService, ownershipService: ownershipService}
}

// registerOwnerRoutes registers the owner-scoped read routes.
func registerOwnerRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade, ownershipService portssvc.OwnershipSvcFacade) {
	h := newOwnerHandler(balanceService, ownershipService)

	owners := rg.Group("/owners")
	{
		owners.GET("/me/hostels", h.getMyHostels)
		owners.GET("/:ownerID/balance", h.getBalance)
	}
}

// getBalance godoc
// @Summary Get an owner's available balance
// @Description Computes income minus payouts minus refunds from the transaction set
// @Tags owners
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Param asOf query string false "Balance as of this date (YYYY-MM-DD), default now"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Security BearerAuth
// @Router /owners/{ownerID}/balance [get]
func (h *ownerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	asOf := time.Now().UTC()
	if asOfStr := c.Query("asOf"); asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			logger.Warn("Invalid asOf date", slog.String("asOf", asOfStr))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		// Inclusive through the end of the day.
		asOf = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	available, err := h.balanceService.AvailableBalance(c.Request.Context(), ownerID, asOf)
	if err != nil {
		logger.Error("Failed to compute available balance", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute available balance"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{OwnerID: ownerID, AsOf: asOf, Available: available})
}

// getMyHostels godoc
// @Summary List the hostels owned by the authenticated caller
// @Tags owners
// @Produce json
// @Success 200 {array} dto.HostelResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /owners/me/hostels [get]
func (h *ownerHandler) getMyHostels(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	hostels, err := h.ownershipService.HostelsOwnedBy(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list owned hostels", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list hostels"})
		return
	}

	c.JSON(http.StatusOK, dto.ToHostelResponses(hostels))
}
