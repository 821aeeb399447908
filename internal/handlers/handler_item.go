package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/SscSPs/cash_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// itemHandler handles edits of single payables.
type itemHandler struct {
	scheduleService portssvc.ScheduleSvcFacade
}

func newItemHandler(ss portssvc.ScheduleSvcFacade) *itemHandler {
	return &itemHandler{scheduleService: ss}
}

// RegisterItemRoutes registers item edit, renegotiation clearing and installment split routes.
func RegisterItemRoutes(rg *gin.RouterGroup, scheduleService portssvc.ScheduleSvcFacade) {
	h := newItemHandler(scheduleService)

	items := rg.Group("/items/:itemID")
	{
		items.PATCH("", h.updateItem)
		items.DELETE("/renegotiation", h.clearRenegotiation)
		items.POST("/installments", h.splitItem)
	}
}

// updateItem godoc
// @Summary Edit a payable
// @Description Updates renegotiated due date, priority, payment status, note or amount. A status change to or from PAID adjusts the primary bank balance.
// @Tags items
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID"
// @Param item body dto.UpdateItemRequest true "Fields to change"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 503 {object} map[string]string "Storage unavailable, changes kept in memory"
// @Security BearerAuth
// @Router /items/{itemID} [patch]
func (h *itemHandler) updateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("item_id", itemID))
	item, err := h.scheduleService.UpdateItem(c.Request.Context(), itemID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update item")
		return
	}

	logger.Info("Item updated")
	c.JSON(http.StatusOK, dto.ItemResponse{Item: *item})
}

// clearRenegotiation godoc
// @Summary Clear a renegotiation
// @Description Removes the renegotiated due date and the priority of a payable
// @Tags items
// @Produce json
// @Param itemID path string true "Item ID"
// @Success 200 {object} dto.ItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 503 {object} map[string]string "Storage unavailable, changes kept in memory"
// @Security BearerAuth
// @Router /items/{itemID}/renegotiation [delete]
func (h *itemHandler) clearRenegotiation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("item_id", c.Param("itemID")))

	item, err := h.scheduleService.ClearRenegotiation(c.Request.Context(), c.Param("itemID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to clear renegotiation")
		return
	}
	c.JSON(http.StatusOK, dto.ItemResponse{Item: *item})
}

// splitItem godoc
// @Summary Split a payable into installments
// @Description Rewrites the payable as installment 1 and appends installments 2..N. Either an explicit installment list or an equal split may be given.
// @Tags items
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID"
// @Param split body dto.SplitItemRequest true "Installment plan"
// @Success 201 {object} dto.SplitItemResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 503 {object} map[string]string "Storage unavailable, changes kept in memory"
// @Security BearerAuth
// @Router /items/{itemID}/installments [post]
func (h *itemHandler) splitItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID := c.Param("itemID")

	var req dto.SplitItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SplitItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("item_id", itemID))
	result, err := h.scheduleService.SplitItem(c.Request.Context(), itemID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to split item")
		return
	}

	logger.Info("Item split", slog.String("plan_id", result.Plan.PlanID), slog.Int("installments", result.Plan.InstallmentCount))
	c.JSON(http.StatusCreated, dto.ToSplitItemResponse(result))
}
