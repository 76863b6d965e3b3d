package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/knakagawa/task-tracker-api/internal/database"
	"github.com/knakagawa/task-tracker-api/internal/models"
)

// likeEscaper neutralizes LIKE metacharacters so search terms match
// literally. "!" is the escape character declared in the query below;
// it avoids backslash quoting differences between drivers.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByOwner finds a task by ID scoped to its owner. A task belonging to
// a different owner is indistinguishable from a missing one.
func (r *GormTaskRepository) FindByOwner(id, ownerID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("owner_id = ?", ownerID).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves an owner's tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("owner_id = ?", filter.OwnerID)

	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!'", pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// CountByStatus returns per-status counts for an owner's tasks
func (r *GormTaskRepository) CountByStatus(ownerID uint64) (StatusCounts, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}

	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Find(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case models.TaskStatusPending:
			counts.Pending = row.Count
		case models.TaskStatusCompleted:
			counts.Completed = row.Count
		case models.TaskStatusInProgress:
			counts.InProgress = row.Count
		}
	}

	return counts, nil
}

// FindForExport retrieves an owner's tasks matching the export filter.
// Date bounds compare against DATE(created_at) so both ends are inclusive
// regardless of the time-of-day component.
func (r *GormTaskRepository) FindForExport(filter ExportFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("owner_id = ?", filter.OwnerID)

	if filter.From != nil {
		query = query.Where("DATE(created_at) >= ?", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		query = query.Where("DATE(created_at) <= ?", filter.To.Format("2006-01-02"))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}
