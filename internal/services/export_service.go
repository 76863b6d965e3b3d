package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/knakagawa/task-tracker-api/internal/models"
	"github.com/knakagawa/task-tracker-api/internal/repository"
)

// ExportTimeFormat is how creation timestamps are rendered in exports.
const ExportTimeFormat = "2006-01-02 15:04:05"

const exportDateFormat = "2006-01-02"

var exportHeader = []string{"Title", "Description", "Status", "Created At"}

// ExportService filters an owner's tasks and serializes them to CSV.
type ExportService struct {
	taskRepo repository.TaskRepository
}

// NewExportService creates a new ExportService
func NewExportService(taskRepo repository.TaskRepository) *ExportService {
	return &ExportService{
		taskRepo: taskRepo,
	}
}

// ExportInput holds the raw export filters as received from the query
// string. From and To are YYYY-MM-DD dates, both inclusive.
type ExportInput struct {
	From   string
	To     string
	Status string
}

// Export returns the owner's tasks matching the filters, newest first
func (s *ExportService) Export(ownerID uint64, input ExportInput) ([]models.Task, error) {
	filter := repository.ExportFilter{OwnerID: ownerID}

	if input.From != "" {
		from, err := time.Parse(exportDateFormat, input.From)
		if err != nil {
			return nil, newFieldError("from", "Invalid date, expected YYYY-MM-DD.")
		}
		filter.From = &from
	}
	if input.To != "" {
		to, err := time.Parse(exportDateFormat, input.To)
		if err != nil {
			return nil, newFieldError("to", "Invalid date, expected YYYY-MM-DD.")
		}
		filter.To = &to
	}
	if input.Status != "" && input.Status != StatusFilterAll {
		status := models.TaskStatus(input.Status)
		filter.Status = &status
	}

	tasks, err := s.taskRepo.FindForExport(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to export tasks: %w", err)
	}

	return tasks, nil
}

// WriteCSV writes the export header row followed by one row per task.
func (s *ExportService) WriteCSV(w io.Writer, tasks []models.Task) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, task := range tasks {
		row := []string{
			task.Title,
			task.Description,
			string(task.Status),
			task.CreatedAt.Format(ExportTimeFormat),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
