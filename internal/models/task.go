package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ValidPriority reports whether p is one of the known task priorities.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	CompanyID   uint64       `gorm:"not null;index" json:"company_id"`
	CreatorID   uint64       `gorm:"not null" json:"creator_id"`
	AssigneeID  uint64       `gorm:"not null;index" json:"assignee_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `gorm:"index" json:"due_date"`
	Progress    int          `gorm:"not null;default:0" json:"progress"`
	HoursWorked float64      `gorm:"not null;default:0" json:"hours_worked"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Company  Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Creator  User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignee User    `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}
