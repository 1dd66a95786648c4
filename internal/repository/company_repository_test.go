package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/taskboard-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepoTestEnv(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Task{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})

	return db
}

func seedCompany(t *testing.T, db *gorm.DB, name, slug string) *models.Company {
	t.Helper()
	company := &models.Company{Name: name, Slug: slug}
	require.NoError(t, db.Create(company).Error)
	return company
}

func seedUser(t *testing.T, db *gorm.DB, companyID uint64, name, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		CompanyID:    companyID,
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTask(t *testing.T, db *gorm.DB, companyID, creatorID, assigneeID uint64, title string) *models.Task {
	t.Helper()
	task := &models.Task{
		CompanyID:  companyID,
		CreatorID:  creatorID,
		AssigneeID: assigneeID,
		Title:      title,
		Status:     models.TaskStatusPending,
		Priority:   models.TaskPriorityMedium,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestCompanyRepository_FindBySlug(t *testing.T) {
	db := setupRepoTestEnv(t)
	repo := NewCompanyRepository(db)

	seedCompany(t, db, "Acme Corp", "acme-corp")

	company, err := repo.FindBySlug("acme-corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", company.Name)

	_, err = repo.FindBySlug("unknown")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCompanyRepository_HasAdmin(t *testing.T) {
	db := setupRepoTestEnv(t)
	repo := NewCompanyRepository(db)

	company := seedCompany(t, db, "Acme", "acme")

	hasAdmin, err := repo.HasAdmin(company.ID)
	require.NoError(t, err)
	assert.False(t, hasAdmin)

	seedUser(t, db, company.ID, "Member", "member@acme.example", models.RoleMember)
	hasAdmin, err = repo.HasAdmin(company.ID)
	require.NoError(t, err)
	assert.False(t, hasAdmin)

	seedUser(t, db, company.ID, "Admin", "admin@acme.example", models.RoleAdmin)
	hasAdmin, err = repo.HasAdmin(company.ID)
	require.NoError(t, err)
	assert.True(t, hasAdmin)
}

func TestCompanyRepository_DeleteCascadesUsersAndTasks(t *testing.T) {
	db := setupRepoTestEnv(t)
	repo := NewCompanyRepository(db)

	acme := seedCompany(t, db, "Acme", "acme")
	other := seedCompany(t, db, "Globex", "globex")

	admin := seedUser(t, db, acme.ID, "Admin", "admin@acme.example", models.RoleAdmin)
	seedTask(t, db, acme.ID, admin.ID, admin.ID, "Acme task")

	outsider := seedUser(t, db, other.ID, "Outsider", "out@globex.example", models.RoleAdmin)
	seedTask(t, db, other.ID, outsider.ID, outsider.ID, "Globex task")

	require.NoError(t, repo.Delete(acme.ID))

	var companies, users, tasks int64
	db.Model(&models.Company{}).Count(&companies)
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Task{}).Count(&tasks)

	assert.Equal(t, int64(1), companies)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), tasks)

	var remaining models.Task
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, other.ID, remaining.CompanyID)
}
