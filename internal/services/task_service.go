package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/project-tracker/internal/constants"
	"github.com/yukikurage/project-tracker/internal/models"
	"github.com/yukikurage/project-tracker/internal/repository"
	"github.com/yukikurage/project-tracker/internal/utils"
	"gorm.io/gorm"
)

// taskRelations are preloaded for single-task responses.
var taskRelations = []string{"Project", "Assignee", "Creator"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      models.TaskStatus
	DueDate     *time.Time
	ProjectID   uint64
	AssignedTo  *uint64
	CreatorID   uint64
}

// UpdateTaskInput represents a partial task update. Nil fields are left
// untouched; the Clear flags reset optional fields to null.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *models.TaskStatus
	DueDate          *time.Time
	ClearDueDate     bool
	AssignedTo       *uint64
	ClearAssignee    bool
}

// CreateTask validates the input and creates the task in its project
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title, err := taskTitle(input.Title)
	if err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.CreatorID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, translateTaskError(err, "create task")
	}

	return s.GetTask(ctx, task.ID)
}

// GetTask returns a task with its project, assignee and creator
func (s *TaskService) GetTask(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id, taskRelations...)
	if err != nil {
		return nil, translateTaskError(err, "find task")
	}

	return task, nil
}

// ListTasks returns a page of all tasks
func (s *TaskService) ListTasks(ctx context.Context, params utils.PaginationParams) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListProjectTasks returns a page of the project's tasks in creation order
func (s *TaskService) ListProjectTasks(ctx context.Context, projectID uint64, params utils.PaginationParams) ([]models.Task, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies the fields present in input
func (s *TaskService) UpdateTask(ctx context.Context, id uint64, input UpdateTaskInput) (*models.Task, error) {
	var title string
	if input.Title != nil {
		var err error
		if title, err = taskTitle(*input.Title); err != nil {
			return nil, err
		}
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	_, err := s.taskRepo.Update(ctx, id, func(task *models.Task) error {
		if input.Title != nil {
			task.Title = title
		}
		if input.ClearDescription {
			task.Description = nil
		} else if input.Description != nil {
			task.Description = input.Description
		}
		if input.Status != nil {
			task.Status = *input.Status
		}
		if input.ClearDueDate {
			task.DueDate = nil
		} else if input.DueDate != nil {
			task.DueDate = input.DueDate
		}
		if input.ClearAssignee {
			task.AssignedTo = nil
		} else if input.AssignedTo != nil {
			assignee := *input.AssignedTo
			task.AssignedTo = &assignee
		}
		return nil
	})
	if err != nil {
		return nil, translateTaskError(err, "update task")
	}

	return s.GetTask(ctx, id)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	deleted, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

func translateTaskError(err error, action string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrTaskNotFound
	case errors.Is(err, repository.ErrProjectMissing):
		return ErrProjectNotFound
	case errors.Is(err, repository.ErrAssigneeMissing):
		return ErrAssigneeNotFound
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

func taskTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
