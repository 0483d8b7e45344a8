package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/project-tracker/internal/constants"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
	"github.com/yukikurage/project-tracker/internal/utils"
	"gorm.io/gorm"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description *string
	CreatorID   uint64
}

// UpdateProjectInput represents a partial project update. Nil fields are
// left untouched; ClearDescription removes the description.
type UpdateProjectInput struct {
	Name             *string
	Description      *string
	ClearDescription bool
}

// CreateProject creates a project owned by the creator
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name, err := projectName(input.Name)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		CreatedBy:   input.CreatorID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetProject(ctx, project.ID)
}

// GetProject returns a project with its creator
func (s *ProjectService) GetProject(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id, "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// ListProjects returns a page of projects
func (s *ProjectService) ListProjects(ctx context.Context, params utils.PaginationParams) ([]models.Project, error) {
	projects, err := s.projectRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProject applies the fields present in input
func (s *ProjectService) UpdateProject(ctx context.Context, id uint64, input UpdateProjectInput) (*models.Project, error) {
	var name string
	if input.Name != nil {
		var err error
		if name, err = projectName(*input.Name); err != nil {
			return nil, err
		}
	}

	_, err := s.projectRepo.Update(ctx, id, func(project *models.Project) error {
		if input.Name != nil {
			project.Name = name
		}
		if input.ClearDescription {
			project.Description = nil
		} else if input.Description != nil {
			project.Description = input.Description
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(ctx, id)
}

// DeleteProject deletes a project and all of its tasks
func (s *ProjectService) DeleteProject(ctx context.Context, id uint64) error {
	deleted, err := s.projectRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if !deleted {
		return ErrProjectNotFound
	}
	return nil
}

func projectName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrProjectNameRequired
	}
	if utf8.RuneCountInString(name) > constants.MaxProjectNameLength {
		return "", ErrProjectNameTooLong
	}
	return name, nil
}
