package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/knakagawa/task-tracker-api/internal/models"
)

// AddIndexes adds indexes for the hot list/export/stats filters.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		name    string
		columns string
		table   string
	}{
		{&models.Task{}, "idx_tasks_owner_status", "owner_id, status", "tasks"},
		{&models.Task{}, "idx_tasks_owner_created_at", "owner_id, created_at", "tasks"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
