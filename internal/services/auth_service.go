package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/taskboard/taskboard-api/internal/auth"
	"github.com/taskboard/taskboard-api/internal/constants"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrCompanyHasAdmin      = errors.New("company already has an administrator")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration and credential checks.
type AuthService struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
	}
}

// RegisterInput represents the required information to register a company admin.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	CompanyName string
}

// Register creates the company (on first registration for its slug) and its
// admin user. A slug that already has an admin is rejected: additional users
// are created by that admin, never by open registration.
func (s *AuthService) Register(input RegisterInput) (*models.User, *models.Company, error) {
	if verr := validateRegisterInput(input); verr != nil {
		return nil, nil, verr
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	slug := utils.Slugify(input.CompanyName)

	company, err := s.companyRepo.FindBySlug(slug)
	switch {
	case err == nil:
		hasAdmin, err := s.companyRepo.HasAdmin(company.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check company admin: %w", err)
		}
		if hasAdmin {
			return nil, nil, ErrCompanyHasAdmin
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		company = &models.Company{
			Name: strings.TrimSpace(input.CompanyName),
			Slug: slug,
		}
	default:
		return nil, nil, fmt.Errorf("failed to find company: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	if err := s.userRepo.CreateCompanyAdmin(user, company); err != nil {
		return nil, nil, fmt.Errorf("failed to complete registration: %w", err)
	}

	user.Company = *company
	return user, company, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user with their company.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	company, err := s.companyRepo.FindByID(user.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	user.Company = *company

	return user, nil
}

// GetUser retrieves a user by ID with the company preloaded.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func validateRegisterInput(input RegisterInput) *apierrors.ValidationError {
	verr := apierrors.NewValidationError()

	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "name is required")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		verr.Add("email", "a valid email address is required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		verr.Add("password", fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	} else if len(input.Password) > constants.MaxBcryptPassword {
		verr.Add("password", fmt.Sprintf("password must be at most %d characters", constants.MaxBcryptPassword))
	}
	if utils.Slugify(input.CompanyName) == "" {
		verr.Add("company_name", "company name is required")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
