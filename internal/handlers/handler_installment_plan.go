package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/SscSPs/cash_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type installmentPlanHandler struct {
	planService portssvc.InstallmentPlanSvcFacade
}

func newInstallmentPlanHandler(ps portssvc.InstallmentPlanSvcFacade) *installmentPlanHandler {
	return &installmentPlanHandler{planService: ps}
}

// RegisterInstallmentPlanRoutes registers the installment audit log routes.
func RegisterInstallmentPlanRoutes(rg *gin.RouterGroup, planService portssvc.InstallmentPlanSvcFacade) {
	h := newInstallmentPlanHandler(planService)

	plans := rg.Group("/installment-plans")
	{
		plans.GET("", h.listPlans)
		plans.GET("/stats", h.getStats)
		plans.DELETE("/:planID", h.deletePlan)
	}
}

// listPlans godoc
// @Summary List installment plans
// @Description Lists recorded installment splits, newest first, with token based pagination
// @Tags installment-plans
// @Produce json
// @Param from query string false "Created on or after (YYYY-MM-DD)"
// @Param to query string false "Created on or before (YYYY-MM-DD)"
// @Param counterparty query string false "Counterparty name contains"
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListInstallmentPlansResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /installment-plans [get]
func (h *installmentPlanHandler) listPlans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInstallmentPlansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for installment plans", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.planService.ListInstallmentPlans(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list installment plans")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getStats godoc
// @Summary Installment plan statistics
// @Description Aggregates plan count, installment count and original versus renegotiated totals
// @Tags installment-plans
// @Produce json
// @Success 200 {object} domain.InstallmentPlanStats
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /installment-plans/stats [get]
func (h *installmentPlanHandler) getStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stats, err := h.planService.GetInstallmentPlanStats(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute installment plan stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// deletePlan godoc
// @Summary Delete an installment plan entry
// @Description Removes one entry from the installment audit log. The schedule is not changed.
// @Tags installment-plans
// @Param planID path string true "Plan ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Plan not found"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /installment-plans/{planID} [delete]
func (h *installmentPlanHandler) deletePlan(c *gin.Context) {
	planID := c.Param("planID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("plan_id", planID))

	if err := h.planService.DeleteInstallmentPlan(c.Request.Context(), planID); err != nil {
		respondWithError(c, logger, err, "Failed to delete installment plan")
		return
	}
	c.Status(http.StatusNoContent)
}
