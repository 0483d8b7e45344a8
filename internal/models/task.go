package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
	TaskStatusBlocked    TaskStatus = "Blocked"
)

// TaskStatuses lists every status a task can hold. Any status may follow
// any other; there is no transition graph.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusDone,
	TaskStatusBlocked,
}

// Valid reports whether s is one of TaskStatuses.
func (s TaskStatus) Valid() bool {
	for _, status := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'To Do'" json:"status"`
	DueDate     *time.Time `gorm:"type:date" json:"due_date"`
	ProjectID   uint64     `gorm:"not null;index:idx_tasks_project_id" json:"project_id"`
	AssignedTo  *uint64    `gorm:"index:idx_tasks_assigned_to" json:"assigned_to"`
	CreatedBy   uint64     `gorm:"not null;index:idx_tasks_created_by" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations. Deleting the project removes the task, deleting the
	// assignee clears AssignedTo, and the creator cannot be deleted.
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"project,omitempty"`
	Assignee *User   `gorm:"foreignKey:AssignedTo;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"assignee,omitempty"`
	Creator  User    `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE" json:"creator,omitempty"`
}
