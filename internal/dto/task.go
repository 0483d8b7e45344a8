package dto

import (
	"time"

	"github.com/yukikurage/project-tracker/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      models.TaskStatus `json:"status"`
	DueDate     *Date             `json:"due_date"`
	ProjectID   uint64            `json:"project_id"`
	AssignedTo  *uint64           `json:"assigned_to"`
	CreatedBy   uint64            `json:"created_by"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Project     *ProjectDTO       `json:"project,omitempty"`
	Assignee    *UserDTO          `json:"assignee,omitempty"`
	Creator     *UserDTO          `json:"creator,omitempty"`
}

// TaskCreateRequest is the body of POST /tasks/
type TaskCreateRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status"`
	DueDate     *Date              `json:"due_date"`
	ProjectID   uint64             `json:"project_id" binding:"required"`
	AssignedTo  *uint64            `json:"assigned_to"`
}

// TaskUpdateRequest carries a partial update. An explicit null clears
// description, due_date or assigned_to; the project cannot be changed.
type TaskUpdateRequest struct {
	Title       Optional[string]            `json:"title"`
	Description Optional[string]            `json:"description"`
	Status      Optional[models.TaskStatus] `json:"status"`
	DueDate     Optional[Date]              `json:"due_date"`
	AssignedTo  Optional[uint64]            `json:"assigned_to"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		ProjectID:   task.ProjectID,
		AssignedTo:  task.AssignedTo,
		CreatedBy:   task.CreatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.DueDate != nil {
		due := NewDate(*task.DueDate)
		dto.DueDate = &due
	}

	// Include relations if preloaded
	if task.Project.ID != 0 {
		project := ToProjectDTO(task.Project)
		dto.Project = &project
	}
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
