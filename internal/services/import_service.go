package services

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/knakagawa/task-tracker-api/internal/models"
	"github.com/knakagawa/task-tracker-api/internal/repository"
)

// ImportService turns CSV or JSON input into task records for one owner.
type ImportService struct {
	taskRepo repository.TaskRepository
}

// NewImportService creates a new ImportService
func NewImportService(taskRepo repository.TaskRepository) *ImportService {
	return &ImportService{
		taskRepo: taskRepo,
	}
}

// TaskCandidate is the normalized shape both import formats reduce to
// before validation.
type TaskCandidate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// ParseCSV reads header-keyed rows into task candidates. Column names are
// matched case-sensitively; missing title/description columns yield empty
// strings and a missing or empty status defaults to pending. Rows may
// have fewer fields than the header.
func (s *ImportService) ParseCSV(r io.Reader) ([]TaskCandidate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []TaskCandidate{}, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	var candidates []TaskCandidate
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		candidate := TaskCandidate{
			Title:       fieldValue(record, columns, "title"),
			Description: fieldValue(record, columns, "description"),
			Status:      fieldValue(record, columns, "status"),
		}
		if candidate.Status == "" {
			candidate.Status = string(models.TaskStatusPending)
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// BulkCreate validates each candidate independently and persists the valid
// ones for the owner. Invalid candidates are skipped without being
// reported; the returned slice holds only the created tasks, in processing
// order.
func (s *ImportService) BulkCreate(ownerID uint64, candidates []TaskCandidate) ([]models.Task, error) {
	created := make([]models.Task, 0, len(candidates))

	for _, candidate := range candidates {
		title, verr := normalizeTitle(candidate.Title)
		if verr != nil {
			continue
		}

		status, verr := normalizeStatus(candidate.Status)
		if verr != nil {
			continue
		}

		task := models.Task{
			Title:       title,
			Description: candidate.Description,
			Status:      status,
			OwnerID:     ownerID,
		}

		if err := s.taskRepo.Create(&task); err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}

		created = append(created, task)
	}

	return created, nil
}

func fieldValue(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
