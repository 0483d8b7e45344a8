package models

import "time"

type Project struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedBy   uint64    `gorm:"not null;index:idx_projects_created_by" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Creator User `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:CASCADE" json:"creator,omitempty"`
}
