package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/utils"
)

// Lookups return gorm.ErrRecordNotFound when the row does not exist.
var (
	// ErrUsernameExists is returned when another user already holds the username.
	ErrUsernameExists = errors.New("user repository: username already exists")
	// ErrEmailExists is returned when another user already holds the email.
	ErrEmailExists = errors.New("user repository: email already exists")
	// ErrUserOwnsResources is returned when deleting a user who created projects or tasks.
	ErrUserOwnsResources = errors.New("user repository: user created projects or tasks")
	// ErrProjectMissing is returned when a task references a project that does not exist.
	ErrProjectMissing = errors.New("task repository: project does not exist")
	// ErrAssigneeMissing is returned when a task is assigned to a user that does not exist.
	ErrAssigneeMissing = errors.New("task repository: assignee does not exist")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a user, rejecting duplicate usernames and emails
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns a page of users ordered by ID
	List(ctx context.Context, params utils.PaginationParams) ([]models.User, error)

	// Delete removes a user and clears their task assignments. Users who
	// created a project or task cannot be deleted.
	Delete(ctx context.Context, id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)

	// List returns a page of projects ordered by ID
	List(ctx context.Context, params utils.PaginationParams) ([]models.Project, error)

	// Update loads the project, applies the change and saves it atomically
	Update(ctx context.Context, id uint64, apply func(*models.Project) error) (*models.Project, error)

	// Delete removes the project and all of its tasks. It reports false
	// when the project did not exist.
	Delete(ctx context.Context, id uint64) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task after checking its project and assignee exist
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List returns a page of tasks ordered by ID
	List(ctx context.Context, params utils.PaginationParams) ([]models.Task, error)

	// ListByProject returns a page of the project's tasks ordered by ID
	ListByProject(ctx context.Context, projectID uint64, params utils.PaginationParams) ([]models.Task, error)

	// Update loads the task, applies the change and saves it atomically
	Update(ctx context.Context, id uint64, apply func(*models.Task) error) (*models.Task, error)

	// Delete removes a task. It reports false when the task did not exist.
	Delete(ctx context.Context, id uint64) (bool, error)
}
