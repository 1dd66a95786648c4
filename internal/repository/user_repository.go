package repository

import (
	"errors"
	"fmt"

	"github.com/taskboard/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating the user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateCompany is returned when creating the company fails inside the registration transaction.
	ErrCreateCompany = errors.New("user repository: create company failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateCompanyAdmin creates the company (when new) and its admin user atomically.
func (r *GormUserRepository) CreateCompanyAdmin(user *models.User, company *models.Company) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if company.ID == 0 {
			if err := tx.Create(company).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateCompany, err)
			}
		}

		user.CompanyID = company.ID
		user.Role = models.RoleAdmin

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		return nil
	})
}

// FindByID finds a user by ID with the company preloaded
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Company").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindInCompany finds a user by ID constrained to the given company
func (r *GormUserRepository) FindInCompany(id, companyID uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Where("company_id = ?", companyID).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByCompany lists a company's users ordered by name
func (r *GormUserRepository) ListByCompany(companyID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user together with the tasks assigned to them in a transaction
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignee_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
