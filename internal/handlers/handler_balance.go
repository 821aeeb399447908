package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/SscSPs/cash_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type balanceHandler struct {
	balanceService portssvc.BankBalanceSvcFacade
}

func newBalanceHandler(bs portssvc.BankBalanceSvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: bs}
}

// RegisterBalanceRoutes registers the bank balance snapshot routes.
func RegisterBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BankBalanceSvcFacade) {
	h := newBalanceHandler(balanceService)

	balances := rg.Group("/balances")
	{
		balances.GET("", h.getBalances)
		balances.PUT("", h.saveBalances)
	}
}

// getBalances godoc
// @Summary Get bank balances
// @Description Returns the per-account balances and their total. Accounts read as zero before the first save.
// @Tags balances
// @Produce json
// @Success 200 {object} domain.BankBalanceSnapshot
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /balances [get]
func (h *balanceHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	snapshot, err := h.balanceService.GetBankBalances(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to load bank balances")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// saveBalances godoc
// @Summary Replace bank balances
// @Description Replaces the bank balance snapshot wholesale and recomputes the total
// @Tags balances
// @Accept json
// @Produce json
// @Param balances body dto.SaveBankBalancesRequest true "Balance per account"
// @Success 200 {object} domain.BankBalanceSnapshot
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /balances [put]
func (h *balanceHandler) saveBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SaveBankBalancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveBankBalances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.balanceService.SaveBankBalances(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to save bank balances")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
