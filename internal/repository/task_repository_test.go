package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/taskboard-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// newMockDB opens a gorm connection over sqlmock so tests can assert the
// shape of the generated SQL.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// The company filter must be part of the query itself, never applied after
// the fetch, so cross-tenant rows are never materialized.

func TestTaskRepository_List_QueryCarriesCompanyFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `tasks` WHERE tasks\\.company_id = \\?").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "title"}))

	_, err := repo.List(TaskFilter{CompanyID: 3})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_List_FiltersCombineWithCompanyScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	status := models.TaskStatusPending
	assignee := uint64(9)

	mock.ExpectQuery("SELECT (.+) FROM `tasks` WHERE tasks\\.company_id = \\? AND tasks\\.assignee_id = \\? AND tasks\\.status = \\?").
		WithArgs(uint64(3), assignee, string(status)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "title"}))

	_, err := repo.List(TaskFilter{
		CompanyID:  3,
		AssigneeID: &assignee,
		Status:     &status,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_List_OrdersDueDateNullsLast(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery("ORDER BY CASE WHEN tasks\\.due_date IS NULL THEN 1 ELSE 0 END, tasks\\.due_date ASC, tasks\\.id ASC").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "title"}))

	_, err := repo.List(TaskFilter{CompanyID: 3})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_FindInCompany_QueryCarriesCompanyFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows([]string{"id", "company_id", "title"}).
		AddRow(7, 3, "Write report")

	mock.ExpectQuery("SELECT (.+) FROM `tasks` WHERE tasks\\.company_id = \\? AND `tasks`\\.`id` = \\?").
		WithArgs(uint64(3), uint64(7)).
		WillReturnRows(rows)

	task, err := repo.FindInCompany(7, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), task.ID)
	assert.Equal(t, uint64(3), task.CompanyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
