package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/cash_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/cash_flow_app/internal/core/ports/services"
	"github.com/SscSPs/cash_flow_app/internal/dto"
	"github.com/SscSPs/cash_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// spreadsheetFormField is the multipart field carrying the payables workbook.
const spreadsheetFormField = "file"

type importHandler struct {
	scheduleService portssvc.ScheduleSvcFacade
}

func newImportHandler(ss portssvc.ScheduleSvcFacade) *importHandler {
	return &importHandler{scheduleService: ss}
}

// RegisterImportRoutes registers the refresh and change analysis routes.
func RegisterImportRoutes(rg *gin.RouterGroup, scheduleService portssvc.ScheduleSvcFacade) {
	h := newImportHandler(scheduleService)

	imports := rg.Group("/imports")
	{
		imports.POST("", h.importItems)
		imports.POST("/spreadsheet", h.importSpreadsheet)
		imports.POST("/diff", h.analyzeChanges)
	}
}

// importItems godoc
// @Summary Refresh the working set from imported records
// @Description Reconciles the imported records against the stored snapshot. Imports only refresh renegotiated due dates and priorities of matched records.
// @Tags imports
// @Accept json
// @Produce json
// @Param items body []domain.CashItem true "Imported payables"
// @Success 200 {object} dto.RefreshResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Import carried no records"
// @Failure 503 {object} map[string]string "Storage unavailable, changes kept in memory"
// @Security BearerAuth
// @Router /imports [post]
func (h *importHandler) importItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var items []domain.CashItem
	if err := c.ShouldBindJSON(&items); err != nil {
		logger.Warn("Failed to bind JSON for import", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received import", slog.Int("records", len(items)))
	resp, err := h.scheduleService.Refresh(c.Request.Context(), items)
	if err != nil {
		respondWithError(c, logger, err, "Failed to refresh schedule")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// importSpreadsheet godoc
// @Summary Refresh the working set from an ERP workbook
// @Description Reads the payables sheet of an xlsx workbook and reconciles it against the stored snapshot
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Payables workbook (.xlsx)"
// @Success 200 {object} dto.RefreshResponse
// @Failure 400 {object} map[string]string "Missing file"
// @Failure 422 {object} map[string]string "Workbook unreadable or empty"
// @Failure 503 {object} map[string]string "Storage unavailable, changes kept in memory"
// @Security BearerAuth
// @Router /imports/spreadsheet [post]
func (h *importHandler) importSpreadsheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	header, err := c.FormFile(spreadsheetFormField)
	if err != nil {
		logger.Warn("Spreadsheet upload missing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "A workbook is required in the '" + spreadsheetFormField + "' form field"})
		return
	}
	file, err := header.Open()
	if err != nil {
		logger.Error("Failed to open uploaded workbook", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	logger = logger.With(slog.String("filename", header.Filename), slog.Int64("size", header.Size))
	logger.Info("Received spreadsheet import")

	resp, err := h.scheduleService.ImportSpreadsheet(c.Request.Context(), file, header.Filename)
	if err != nil {
		respondWithError(c, logger, err, "Failed to import spreadsheet")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// analyzeChanges godoc
// @Summary Report override differences an import would apply
// @Description Compares renegotiated due dates and priorities of matched records without changing the working set
// @Tags imports
// @Accept json
// @Produce json
// @Param items body []domain.CashItem true "Imported payables"
// @Param save query bool false "Replace the stored change audit with the result"
// @Success 200 {object} dto.AnalyzeChangesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Import carried no records"
// @Security BearerAuth
// @Router /imports/diff [post]
func (h *importHandler) analyzeChanges(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AnalyzeChangesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	var items []domain.CashItem
	if err := c.ShouldBindJSON(&items); err != nil {
		logger.Warn("Failed to bind JSON for change analysis", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	changes, err := h.scheduleService.AnalyzeChanges(c.Request.Context(), items, params.Save)
	if err != nil {
		respondWithError(c, logger, err, "Failed to analyze changes")
		return
	}

	c.JSON(http.StatusOK, dto.AnalyzeChangesResponse{
		Changes: changes,
		Count:   len(changes),
		Saved:   params.Save,
	})
}
