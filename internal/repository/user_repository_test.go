package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/taskboard-api/internal/models"
	"gorm.io/gorm"
)

func TestUserRepository_CreateCompanyAdmin_NewCompany(t *testing.T) {
	db := setupRepoTestEnv(t)
	repo := NewUserRepository(db)

	company := &models.Company{Name: "Acme", Slug: "acme"}
	user := &models.User{
		Name:         "Founder",
		Email:        "founder@acme.example",
		PasswordHash: "hashedpassword",
		Role:         models.RoleMember,
	}

	require.NoError(t, repo.CreateCompanyAdmin(user, company))

	assert.NotZero(t, company.ID)
	assert.Equal(t, company.ID, user.CompanyID)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUserRepository_CreateCompanyAdmin_ExistingCompany(t *testing.T) {
	db := setupRepoTestEnv(t)
	repo := NewUserRepository(db)

	company := seedCompany(t, db, "Acme", "acme")

	user := &models.User{
		Name:         "Late Admin",
		Email:        "late@acme.example",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, repo.CreateCompanyAdmin(user, company))

	var companies int64
	db.Model(&models.Company{}).Count(&companies)
	assert.Equal(t, int64(1), companies)
	assert.Equal(t, company.ID, user.CompanyID)
}

func TestUserRepository_CreateCompanyAdmin_DuplicateEmailRollsBack(t *testing.T) {
	db := setupRepoTestEnv(t)
	repo := NewUserRepository(db)

	existing := seedCompany(t, db, "Globex", "globex")
	seedUser(t, db, existing.ID, "Taken", "taken@globex.example", models.RoleAdmin)

	company := &models.Company{Name: "Acme", Slug: "acme"}
	user := &models.User{
		Name:         "Founder",
		Email:        "taken@globex.example",
		PasswordHash: "hashedpassword",
	}

	err := repo.CreateCompanyAdmin(user, company)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCreateUser))

	// The company insert must roll back with the failed user insert
	var companies int64
	db.Model(&models.Company{}).Count(&companies)
	assert.Equal(t, int64(1), companies)
}

func TestUserRepository_FindInCompany_ScopesToCompany(t *testing.T) {
	db := setupRepoTestEnv(t)
	repo := NewUserRepository(db)

	acme := seedCompany(t, db, "Acme", "acme")
	globex := seedCompany(t, db, "Globex", "globex")
	user := seedUser(t, db, acme.ID, "Worker", "worker@acme.example", models.RoleMember)

	found, err := repo.FindInCompany(user.ID, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	// A cross-tenant id behaves exactly like a nonexistent one
	_, err = repo.FindInCompany(user.ID, globex.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_ListByCompany_OrderedByName(t *testing.T) {
	db := setupRepoTestEnv(t)
	repo := NewUserRepository(db)

	acme := seedCompany(t, db, "Acme", "acme")
	globex := seedCompany(t, db, "Globex", "globex")

	seedUser(t, db, acme.ID, "Charlie", "charlie@acme.example", models.RoleMember)
	seedUser(t, db, acme.ID, "Alice", "alice@acme.example", models.RoleAdmin)
	seedUser(t, db, acme.ID, "Bob", "bob@acme.example", models.RoleMember)
	seedUser(t, db, globex.ID, "Aaron", "aaron@globex.example", models.RoleAdmin)

	users, err := repo.ListByCompany(acme.ID)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
	assert.Equal(t, "Charlie", users[2].Name)
}

func TestUserRepository_DeleteCascadesAssignedTasks(t *testing.T) {
	db := setupRepoTestEnv(t)
	repo := NewUserRepository(db)

	acme := seedCompany(t, db, "Acme", "acme")
	admin := seedUser(t, db, acme.ID, "Admin", "admin@acme.example", models.RoleAdmin)
	worker := seedUser(t, db, acme.ID, "Worker", "worker@acme.example", models.RoleMember)

	seedTask(t, db, acme.ID, admin.ID, worker.ID, "Assigned to worker")
	kept := seedTask(t, db, acme.ID, admin.ID, admin.ID, "Assigned to admin")

	require.NoError(t, repo.Delete(worker.ID))

	var users, tasks int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Task{}).Count(&tasks)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), tasks)

	var remaining models.Task
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, kept.ID, remaining.ID)
}
