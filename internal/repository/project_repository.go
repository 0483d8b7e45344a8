package repository

import (
	"context"

	"github.com/yukikurage/project-tracker/internal/database"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List returns a page of projects ordered by ID
func (r *GormProjectRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Scopes(database.Paginate(params)).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Update loads the project, applies the change and saves it atomically
func (r *GormProjectRepository) Update(ctx context.Context, id uint64, apply func(*models.Project) error) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}

		if err := apply(&project); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Save(&project).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes the project's tasks and then the project in one transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
