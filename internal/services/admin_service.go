package services

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strings"

	"github.com/taskboard/taskboard-api/internal/auth"
	"github.com/taskboard/taskboard-api/internal/constants"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/policy"
	"github.com/taskboard/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

// AdminService computes company-wide views for administrators. Every
// operation is gated by policy.EnsureAdmin and scoped to the actor's company.
type AdminService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *AdminService {
	return &AdminService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// TeamMemberStats aggregates one user's assigned tasks.
type TeamMemberStats struct {
	User           models.User
	Total          int
	Completed      int
	CompletionRate int
	AvgProgress    int
}

// DashboardStats is the company overview served to admins.
type DashboardStats struct {
	TotalTasks int
	ByPriority map[models.TaskPriority]int
	ByStatus   map[models.TaskStatus]int
	Team       []TeamMemberStats
	Upcoming   []models.Task
}

// Dashboard loads all company tasks and users and aggregates them.
// Grouping maps only carry values that actually occur; team entries exist
// for every company user, with zeroed rates when nothing is assigned.
func (s *AdminService) Dashboard(actor *models.User) (*DashboardStats, error) {
	if err := policy.EnsureAdmin(actor); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{CompanyID: actor.CompanyID})
	if err != nil {
		return nil, fmt.Errorf("failed to load company tasks: %w", err)
	}

	users, err := s.userRepo.ListByCompany(actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company users: %w", err)
	}

	stats := &DashboardStats{
		TotalTasks: len(tasks),
		ByPriority: make(map[models.TaskPriority]int),
		ByStatus:   make(map[models.TaskStatus]int),
	}

	byAssignee := make(map[uint64][]models.Task)
	for _, task := range tasks {
		stats.ByPriority[task.Priority]++
		stats.ByStatus[task.Status]++
		byAssignee[task.AssigneeID] = append(byAssignee[task.AssigneeID], task)
	}

	stats.Team = make([]TeamMemberStats, 0, len(users))
	for _, user := range users {
		assigned := byAssignee[user.ID]
		entry := TeamMemberStats{
			User:  user,
			Total: len(assigned),
		}

		if entry.Total > 0 {
			progressSum := 0
			for _, task := range assigned {
				if task.Status == models.TaskStatusDone {
					entry.Completed++
				}
				progressSum += task.Progress
			}
			entry.CompletionRate = roundHalfUp(float64(entry.Completed) / float64(entry.Total) * 100)
			entry.AvgProgress = roundHalfUp(float64(progressSum) / float64(entry.Total))
		}

		stats.Team = append(stats.Team, entry)
	}

	stats.Upcoming = upcomingTasks(tasks, constants.UpcomingTaskLimit)

	return stats, nil
}

// ListTasks returns every company task with creator and assignee attached,
// ordered by due date ascending.
func (s *AdminService) ListTasks(actor *models.User) ([]models.Task, error) {
	if err := policy.EnsureAdmin(actor); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		CompanyID: actor.CompanyID,
		WithUsers: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list company tasks: %w", err)
	}

	return tasks, nil
}

// ListUsers returns every company user ordered by name.
func (s *AdminService) ListUsers(actor *models.User) ([]models.User, error) {
	if err := policy.EnsureAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByCompany(actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company users: %w", err)
	}

	return users, nil
}

// CreateUserInput represents input for creating a company user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

// CreateUser adds a user to the actor's company. The role defaults to member;
// explicitly creating further admins is permitted.
func (s *AdminService) CreateUser(actor *models.User, input CreateUserInput) (*models.User, error) {
	if err := policy.EnsureAdmin(actor); err != nil {
		return nil, err
	}

	if verr := validateCreateUserInput(input); verr != nil {
		return nil, verr
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}

	user := &models.User{
		CompanyID:    actor.CompanyID,
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// upcomingTasks returns the first limit tasks that have a due date, ordered
// by due date ascending with ties broken by id.
func upcomingTasks(tasks []models.Task, limit int) []models.Task {
	upcoming := make([]models.Task, 0, limit)
	for _, task := range tasks {
		if task.DueDate != nil {
			upcoming = append(upcoming, task)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].DueDate.Equal(*upcoming[j].DueDate) {
			return upcoming[i].ID < upcoming[j].ID
		}
		return upcoming[i].DueDate.Before(*upcoming[j].DueDate)
	})

	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// roundHalfUp rounds to the nearest integer, halves away from zero. All
// inputs here are non-negative so this is half-up.
func roundHalfUp(v float64) int {
	return int(math.Round(v))
}

func validateCreateUserInput(input CreateUserInput) *apierrors.ValidationError {
	verr := apierrors.NewValidationError()

	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "name is required")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		verr.Add("email", "a valid email address is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		verr.Add("password", fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}
	if input.Role != "" && !models.ValidRole(input.Role) {
		verr.Add("role", "role must be admin or member")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
