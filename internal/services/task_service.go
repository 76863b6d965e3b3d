package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/knakagawa/task-tracker-api/internal/models"
	"github.com/knakagawa/task-tracker-api/internal/repository"
	"github.com/knakagawa/task-tracker-api/internal/utils"
)

var ErrTaskNotFound = errors.New("task not found")

// StatusFilterAll is the sentinel query value meaning "no status filter".
const StatusFilterAll = "all"

// TaskService handles task business logic. Every operation is scoped to
// the owner passed in; tasks belonging to other users are treated as
// missing.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	OwnerID    uint64
	Search     string
	Status     string
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID     uint64
	Title       string
	Description string
	Status      string
}

// UpdateTaskInput represents input for updating a task. Nil fields are
// left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
}

// ListTasks returns the owner's tasks matching the filters, newest first
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OwnerID:    input.OwnerID,
		Search:     input.Search,
		Pagination: input.Pagination,
	}

	if input.Status != "" && input.Status != StatusFilterAll {
		status := models.TaskStatus(input.Status)
		filter.Status = &status
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task owned by the given user
func (s *TaskService) GetTask(ownerID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(taskID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates the input and persists a new task for the owner
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title, verr := normalizeTitle(input.Title)
	if verr != nil {
		return nil, verr
	}

	status, verr := normalizeStatus(input.Status)
	if verr != nil {
		return nil, verr
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      status,
		OwnerID:     input.OwnerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies the provided fields to a task owned by the given user
func (s *TaskService) UpdateTask(ownerID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, verr := normalizeTitle(*input.Title)
		if verr != nil {
			return nil, verr
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		// The pending default applies at creation only; an explicit ""
		// on update is an invalid choice like any other.
		status := models.TaskStatus(*input.Status)
		if !models.ValidTaskStatus(status) {
			return nil, newFieldError("status", fmt.Sprintf("%q is not a valid choice.", *input.Status))
		}
		task.Status = status
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task owned by the given user
func (s *TaskService) DeleteTask(ownerID, taskID uint64) error {
	task, err := s.GetTask(ownerID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// Stats returns per-status counts over the owner's tasks
func (s *TaskService) Stats(ownerID uint64) (repository.StatusCounts, error) {
	counts, err := s.taskRepo.CountByStatus(ownerID)
	if err != nil {
		return repository.StatusCounts{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	return counts, nil
}

// normalizeTitle trims the title and requires it to be non-empty.
func normalizeTitle(title string) (string, *ValidationError) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", newFieldError("title", "This field may not be blank.")
	}
	return title, nil
}

// normalizeStatus defaults an empty status to pending and rejects values
// outside the closed status set.
func normalizeStatus(status string) (models.TaskStatus, *ValidationError) {
	if status == "" {
		return models.TaskStatusPending, nil
	}

	s := models.TaskStatus(status)
	if !models.ValidTaskStatus(s) {
		return "", newFieldError("status", fmt.Sprintf("%q is not a valid choice.", status))
	}

	return s, nil
}
