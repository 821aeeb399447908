package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/SscSPs/cash_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// scheduleHandler serves the ordered schedule, its summary and the waterfall allocation.
type scheduleHandler struct {
	scheduleService portssvc.ScheduleSvcFacade
}

func newScheduleHandler(ss portssvc.ScheduleSvcFacade) *scheduleHandler {
	return &scheduleHandler{scheduleService: ss}
}

// RegisterScheduleRoutes registers the read side of the schedule and the snapshot retry route.
func RegisterScheduleRoutes(rg *gin.RouterGroup, scheduleService portssvc.ScheduleSvcFacade) {
	h := newScheduleHandler(scheduleService)

	schedule := rg.Group("/schedule")
	{
		schedule.GET("", h.getSchedule)
		schedule.GET("/summary", h.getSummary)
	}
	rg.GET("/allocation", h.getAllocation)
	rg.POST("/snapshot/save", h.saveSnapshot)
}

// getSchedule godoc
// @Summary Get the payment schedule
// @Description Returns the working set ordered by priority then effective due date, with running subtotals and per-priority groups
// @Tags schedule
// @Produce json
// @Param priority query int false "Only this priority tier" minimum(1) maximum(5)
// @Param prioritizedOnly query bool false "Hide unprioritized items"
// @Success 200 {object} domain.Schedule
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 503 {object} map[string]string "Stored snapshot unavailable"
// @Failure 500 {object} map[string]string "Failed to build schedule"
// @Security BearerAuth
// @Router /schedule [get]
func (h *scheduleHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ScheduleParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for schedule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	schedule, err := h.scheduleService.GetSchedule(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build schedule")
		return
	}

	logger.Debug("Schedule served", slog.Int("items", len(schedule.Items)))
	c.JSON(http.StatusOK, schedule)
}

// getSummary godoc
// @Summary Get schedule summary
// @Description Returns count, total, average and per-priority totals of the working set
// @Tags schedule
// @Produce json
// @Success 200 {object} domain.ScheduleSummary
// @Failure 503 {object} map[string]string "Stored snapshot unavailable"
// @Failure 500 {object} map[string]string "Failed to summarize schedule"
// @Security BearerAuth
// @Router /schedule/summary [get]
func (h *scheduleHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.scheduleService.GetSummary(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to summarize schedule")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getAllocation godoc
// @Summary Allocate the bank balance across priority tiers
// @Description Walks tiers 1 to 5 and then the unprioritized tier, subtracting each tier's total from the running balance
// @Tags schedule
// @Produce json
// @Param balance query string false "What-if starting balance; defaults to the stored bank balance total"
// @Success 200 {object} domain.AllocationTrace
// @Failure 400 {object} map[string]string "Invalid balance"
// @Failure 500 {object} map[string]string "Failed to allocate balance"
// @Security BearerAuth
// @Router /allocation [get]
func (h *scheduleHandler) getAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AllocationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for allocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	balance, err := params.BalanceOverride()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid balance: " + err.Error()})
		return
	}

	trace, err := h.scheduleService.GetAllocation(c.Request.Context(), balance)
	if err != nil {
		respondWithError(c, logger, err, "Failed to allocate balance")
		return
	}
	c.JSON(http.StatusOK, trace)
}

// saveSnapshot godoc
// @Summary Persist the in-memory working set
// @Description Retries writing the working set and any pending installment plans after a storage failure
// @Tags schedule
// @Success 204 "Saved"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security BearerAuth
// @Router /snapshot/save [post]
func (h *scheduleHandler) saveSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.scheduleService.SaveSnapshot(c.Request.Context()); err != nil {
		respondWithError(c, logger, err, "Failed to save snapshot")
		return
	}

	logger.Info("Snapshot saved on request")
	c.Status(http.StatusNoContent)
}
