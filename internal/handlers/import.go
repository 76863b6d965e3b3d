package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/knakagawa/task-tracker-api/internal/dto"
	apierrors "github.com/knakagawa/task-tracker-api/internal/errors"
	"github.com/knakagawa/task-tracker-api/internal/middleware"
	"github.com/knakagawa/task-tracker-api/internal/services"
)

// ImportHandler handles the bulk-import endpoint.
type ImportHandler struct {
	importService *services.ImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// BulkCreateTasks accepts either a multipart CSV upload (field "file") or
// a JSON body {"tasks": [...]}. Both are normalized to the same candidate
// shape; each candidate is validated independently and invalid ones are
// skipped. The response lists only the created tasks. Empty input is not
// an error and yields an empty list.
func (h *ImportHandler) BulkCreateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var candidates []services.TaskCandidate

	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			apierrors.BadRequest(c, "Failed to read uploaded file")
			return
		}
		defer f.Close()

		candidates, err = h.importService.ParseCSV(f)
		if err != nil {
			apierrors.BadRequest(c, "Invalid CSV file")
			return
		}
	} else if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		type BulkCreateRequest struct {
			Tasks []services.TaskCandidate `json:"tasks"`
		}

		var req BulkCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
		candidates = req.Tasks
	}

	created, err := h.importService.BulkCreate(userID, candidates)
	if err != nil {
		apierrors.InternalError(c, "Failed to import tasks")
		return
	}

	c.JSON(http.StatusOK, dto.BulkCreateResponse{
		Created: dto.ToTaskDTOs(created),
	})
}
