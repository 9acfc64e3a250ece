package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Composite indexes backing the department-scoped queries. Listing orders by
// created_at, the activity feed by updated_at, and the dashboard groups by
// status within a department.
var scopedIndexes = []index{
	{"tasks", "idx_tasks_department_created", "department_id, created_at"},
	{"tasks", "idx_tasks_department_updated", "department_id, updated_at"},
	{"tasks", "idx_tasks_department_status", "department_id, status"},
	{"users", "idx_users_department_active", "department_id, is_active"},
}

// AddIndexes creates any missing composite index. It is safe to run on every start.
func AddIndexes(db *gorm.DB, log *logrus.Logger) error {
	migrator := db.Migrator()

	for _, idx := range scopedIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(logrus.Fields{
			"index":   idx.name,
			"table":   idx.table,
			"columns": idx.columns,
		}).Info("Created index")
	}

	return nil
}
