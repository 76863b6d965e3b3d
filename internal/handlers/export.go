package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/knakagawa/task-tracker-api/internal/errors"
	"github.com/knakagawa/task-tracker-api/internal/middleware"
	"github.com/knakagawa/task-tracker-api/internal/services"
)

// The spreadsheet MIME type is intentional: browsers hand the plain-CSV
// payload straight to Excel/LibreOffice instead of rendering it.
const exportContentType = "application/vnd.ms-excel"

const exportFilename = "tasks_export.csv"

// ExportHandler handles the CSV export endpoint.
type ExportHandler struct {
	exportService *services.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ExportTasks streams the current user's tasks, filtered by creation date
// range and status, as a CSV file download.
func (h *ExportHandler) ExportTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.exportService.Export(userID, services.ExportInput{
		From:   c.Query("from"),
		To:     c.Query("to"),
		Status: c.Query("status"),
	})
	if err != nil {
		if respondValidationError(c, err) {
			return
		}
		apierrors.InternalError(c, "Failed to export tasks")
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteCSV(&buf, tasks); err != nil {
		apierrors.InternalError(c, "Failed to serialize tasks")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, exportContentType, buf.Bytes())
}
