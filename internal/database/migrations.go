package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/project-tracker/internal/models"
	"gorm.io/gorm"
)

// Models lists the tables in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
	}
}

// secondaryIndexes are the lookup indexes the delete and list paths rely on.
// Tables created before an index was declared get it on the next migrate.
var secondaryIndexes = []struct {
	model interface{}
	name  string
}{
	{&models.Project{}, "idx_projects_created_by"},
	{&models.Task{}, "idx_tasks_project_id"},
	{&models.Task{}, "idx_tasks_assigned_to"},
	{&models.Task{}, "idx_tasks_created_by"},
}

// Migrate creates or updates the schema. It is idempotent.
func Migrate(db *gorm.DB) error {
	slog.Info("running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}

// AddIndexes creates every secondary index that does not exist yet.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range secondaryIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			slog.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name)
	}

	return nil
}
