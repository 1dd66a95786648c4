package repository

import (
	"github.com/taskboard/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormCompanyRepository is a GORM implementation of CompanyRepository
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &GormCompanyRepository{db: db}
}

// Create creates a new company
func (r *GormCompanyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

// FindByID finds a company by ID
func (r *GormCompanyRepository) FindByID(id uint64) (*models.Company, error) {
	var company models.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// FindBySlug finds a company by its slug
func (r *GormCompanyRepository) FindBySlug(slug string) (*models.Company, error) {
	var company models.Company
	if err := r.db.Where("slug = ?", slug).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// HasAdmin reports whether the company already has an admin user
func (r *GormCompanyRepository) HasAdmin(companyID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("company_id = ? AND role = ?", companyID, models.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a company together with its users and tasks in a transaction
func (r *GormCompanyRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("company_id = ?", id).Delete(&models.User{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Company{}, id).Error
	})
}
