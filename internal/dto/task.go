package dto

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash never leaves
// the model's json:"-" field, and DTOs do not carry it at all.
type UserDTO struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// CompanyDTO represents a company in API responses
type CompanyDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	CompanyID   uint64              `json:"company_id"`
	CreatorID   uint64              `json:"creator_id"`
	AssigneeID  uint64              `json:"assignee_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	Progress    int                 `json:"progress"`
	HoursWorked float64             `json:"hours_worked"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Creator     *UserDTO            `json:"creator,omitempty"`
	Assignee    *UserDTO            `json:"assignee,omitempty"`
}

// AuthResponse is the payload returned by register and login
type AuthResponse struct {
	Token   string     `json:"token"`
	User    UserDTO    `json:"user"`
	Company CompanyDTO `json:"company"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}

// ToCompanyDTO converts a Company model to CompanyDTO
func ToCompanyDTO(company models.Company) CompanyDTO {
	return CompanyDTO{
		ID:   company.ID,
		Name: company.Name,
		Slug: company.Slug,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		CompanyID:   task.CompanyID,
		CreatorID:   task.CreatorID,
		AssigneeID:  task.AssigneeID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Progress:    task.Progress,
		HoursWorked: task.HoursWorked,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include creator and assignee if preloaded
	if task.Creator.ID != 0 {
		creator := ToUserDTO(task.Creator)
		dto.Creator = &creator
	}
	if task.Assignee.ID != 0 {
		assignee := ToUserDTO(task.Assignee)
		dto.Assignee = &assignee
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
