package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/policy"
	"github.com/taskboard/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskAccessDenied = errors.New("no permission to access this task")
	ErrAssignmentDenied = errors.New("only administrators can assign tasks to other users")
)

// TaskService handles task business logic. Every access decision delegates to
// the policy package and every query is scoped to the actor's company.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status   *models.TaskStatus
	Priority *models.TaskPriority
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	Progress    *int
	HoursWorked *float64
	AssigneeID  *uint64
}

// UpdateTaskInput represents input for partially updating a task. Only
// non-nil fields change.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	Progress    *int
	HoursWorked *float64
	AssigneeID  *uint64
}

// ListTasks returns the actor's visible tasks: the whole company for admins,
// own-assigned only for members. Optional equality filters on status and
// priority.
func (s *TaskService) ListTasks(actor *models.User, input ListTasksInput) ([]models.Task, error) {
	if input.Status != nil && !models.ValidStatus(*input.Status) {
		verr := apierrors.NewValidationError()
		verr.Add("status", "status must be one of pending, in_progress, done")
		return nil, verr
	}
	if input.Priority != nil && !models.ValidPriority(*input.Priority) {
		verr := apierrors.NewValidationError()
		verr.Add("priority", "priority must be one of low, medium, high")
		return nil, verr
	}

	filter := repository.TaskFilter{
		CompanyID: actor.CompanyID,
		Status:    input.Status,
		Priority:  input.Priority,
	}
	if !actor.IsAdmin() {
		filter.AssigneeID = &actor.ID
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task in the actor's company. A cross-company id surfaces
// as not-found, never forbidden.
func (s *TaskService) GetTask(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.findScopedTask(actor, taskID, "Assignee")
	if err != nil {
		return nil, err
	}

	return task, nil
}

// CreateTask creates a task in the actor's company, assigned to the actor
// unless an admin picks someone else.
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if verr := validateTaskFields(input.Title, true, input.Status, input.Priority, input.Progress, input.HoursWorked); verr != nil {
		return nil, verr
	}

	assigneeID := actor.ID
	if input.AssigneeID != nil {
		assigneeID = *input.AssigneeID
	}

	if !policy.CanAssign(actor, assigneeID) {
		return nil, ErrAssignmentDenied
	}

	assignee, err := s.resolveAssignee(actor, assigneeID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		CompanyID:   actor.CompanyID,
		CreatorID:   actor.ID,
		AssigneeID:  assignee.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}
	if input.Progress != nil {
		task.Progress = *input.Progress
	}
	if input.HoursWorked != nil {
		task.HoursWorked = *input.HoursWorked
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	task.Assignee = *assignee
	return task, nil
}

// UpdateTask applies a partial update to a task the actor may access.
// Reassignment re-runs the same checks as creation.
func (s *TaskService) UpdateTask(actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findScopedTask(actor, taskID)
	if err != nil {
		return nil, err
	}

	title := task.Title
	if input.Title != nil {
		title = *input.Title
	}
	status := models.TaskStatus("")
	if input.Status != nil {
		status = *input.Status
	}
	priority := models.TaskPriority("")
	if input.Priority != nil {
		priority = *input.Priority
	}
	if verr := validateTaskFields(title, true, status, priority, input.Progress, input.HoursWorked); verr != nil {
		return nil, verr
	}

	if input.AssigneeID != nil {
		if !policy.CanAssign(actor, *input.AssigneeID) {
			return nil, ErrAssignmentDenied
		}
		assignee, err := s.resolveAssignee(actor, *input.AssigneeID)
		if err != nil {
			return nil, err
		}
		task.AssigneeID = assignee.ID
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Progress != nil {
		task.Progress = *input.Progress
	}
	if input.HoursWorked != nil {
		task.HoursWorked = *input.HoursWorked
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.taskRepo.FindInCompany(task.ID, actor.CompanyID, "Assignee")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	return updated, nil
}

// DeleteTask hard deletes a task the actor may access.
func (s *TaskService) DeleteTask(actor *models.User, taskID uint64) error {
	task, err := s.findScopedTask(actor, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// findScopedTask loads a task within the actor's company and applies the
// access policy. The not-found check runs first so cross-tenant ids never
// reveal whether the row exists.
func (s *TaskService) findScopedTask(actor *models.User, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindInCompany(taskID, actor.CompanyID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanAccessTask(actor, task) {
		return nil, ErrTaskAccessDenied
	}

	return task, nil
}

// resolveAssignee looks up the target user constrained to the actor's
// company. A cross-company or nonexistent id is rejected as a validation
// error, never silently replaced.
func (s *TaskService) resolveAssignee(actor *models.User, assigneeID uint64) (*models.User, error) {
	assignee, err := s.userRepo.FindInCompany(assigneeID, actor.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			verr := apierrors.NewValidationError()
			verr.Add("assignee_id", "assignee must be an existing user in your company")
			return nil, verr
		}
		return nil, fmt.Errorf("failed to resolve assignee: %w", err)
	}
	return assignee, nil
}

func validateTaskFields(title string, titleRequired bool, status models.TaskStatus, priority models.TaskPriority, progress *int, hoursWorked *float64) *apierrors.ValidationError {
	verr := apierrors.NewValidationError()

	if titleRequired && strings.TrimSpace(title) == "" {
		verr.Add("title", "title is required")
	}
	if status != "" && !models.ValidStatus(status) {
		verr.Add("status", "status must be one of pending, in_progress, done")
	}
	if priority != "" && !models.ValidPriority(priority) {
		verr.Add("priority", "priority must be one of low, medium, high")
	}
	if progress != nil && (*progress < 0 || *progress > 100) {
		verr.Add("progress", "progress must be between 0 and 100")
	}
	if hoursWorked != nil && *hoursWorked < 0 {
		verr.Add("hours_worked", "hours worked cannot be negative")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
