package repository

import (
	"time"

	"github.com/knakagawa/task-tracker-api/internal/models"
	"github.com/knakagawa/task-tracker-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByOwner finds a task by ID scoped to its owner
	FindByOwner(id, ownerID uint64) (*models.Task, error)

	// List retrieves an owner's tasks with filtering and pagination,
	// newest first
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// CountByStatus returns per-status counts for an owner's tasks
	CountByStatus(ownerID uint64) (StatusCounts, error)

	// FindForExport retrieves an owner's tasks matching the export
	// filter, newest first, without pagination
	FindForExport(filter ExportFilter) ([]models.Task, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID    uint64
	Search     string
	Status     *models.TaskStatus
	Pagination utils.PaginationParams
}

// ExportFilter holds filtering options for exporting tasks. From and To
// bound the creation date (date-only comparison, both inclusive).
type ExportFilter struct {
	OwnerID uint64
	From    *time.Time
	To      *time.Time
	Status  *models.TaskStatus
}

// StatusCounts holds per-status task counts for one owner
type StatusCounts struct {
	Total      int64
	Pending    int64
	Completed  int64
	InProgress int64
}
