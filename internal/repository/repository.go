package repository

import (
	"github.com/taskboard/taskboard-api/internal/models"
)

// CompanyRepository defines the interface for company data access
type CompanyRepository interface {
	// Create creates a new company
	Create(company *models.Company) error

	// FindByID finds a company by ID
	FindByID(id uint64) (*models.Company, error)

	// FindBySlug finds a company by its slug
	FindBySlug(slug string) (*models.Company, error)

	// HasAdmin reports whether the company already has an admin user
	HasAdmin(companyID uint64) (bool, error)

	// Delete removes a company together with its users and tasks
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateCompanyAdmin creates the company (when it has no id yet) and its
	// admin user within a single transaction.
	CreateCompanyAdmin(user *models.User, company *models.Company) error

	// FindByID finds a user by ID with the company preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindInCompany finds a user by ID constrained to the given company.
	// Cross-company ids behave exactly like nonexistent ones.
	FindInCompany(id, companyID uint64) (*models.User, error)

	// ListByCompany lists a company's users ordered by name
	ListByCompany(companyID uint64) ([]models.User, error)

	// Delete removes a user together with the tasks assigned to them
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindInCompany finds a task by ID constrained to the given company,
	// with optional preloading
	FindInCompany(id, companyID uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, ordered by due date
	// ascending with nulls last, ties broken by id
	List(filter TaskFilter) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete hard deletes a task
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks. CompanyID is
// mandatory: no query ever runs unscoped.
type TaskFilter struct {
	CompanyID  uint64
	AssigneeID *uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	WithUsers  bool
}
