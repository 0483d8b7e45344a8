package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/project-tracker/internal/database"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create checks the referenced project and assignee and inserts the task in
// one transaction
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Project{}, task.ProjectID, ErrProjectMissing); err != nil {
			return err
		}

		if task.AssignedTo != nil {
			if err := requireRow(tx, &models.User{}, *task.AssignedTo, ErrAssigneeMissing); err != nil {
				return err
			}
		}

		return tx.Omit(clause.Associations).Create(task).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List returns a page of tasks ordered by ID
func (r *GormTaskRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Scopes(database.Paginate(params)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProject returns a page of the project's tasks ordered by ID
func (r *GormTaskRepository) ListByProject(ctx context.Context, projectID uint64, params utils.PaginationParams) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Where("project_id = ?", projectID).
		Scopes(database.Paginate(params)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update loads the task, applies the change and saves it in one
// transaction. A newly set assignee must exist.
func (r *GormTaskRepository) Update(ctx context.Context, id uint64, apply func(*models.Task) error) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}

		previous := task.AssignedTo
		if err := apply(&task); err != nil {
			return err
		}

		if task.AssignedTo != nil && (previous == nil || *previous != *task.AssignedTo) {
			if err := requireRow(tx, &models.User{}, *task.AssignedTo, ErrAssigneeMissing); err != nil {
				return err
			}
		}

		return tx.Omit(clause.Associations).Save(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// requireRow returns missing when no row of model has the given ID.
func requireRow(tx *gorm.DB, model interface{}, id uint64, missing error) error {
	err := tx.Select("id").Take(model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing
	}
	return err
}
