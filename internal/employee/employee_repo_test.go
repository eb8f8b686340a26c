package employee_test

import (
	"context"
	"testing"

	"go-payroll/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepositoryTest(t *testing.T) (employee.Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Discard})
	assert.NoError(t, err)

	return employee.NewRepository(gormDB), mock
}

// The repository is the only place the payroll population is narrowed to
// active employees; inactive and terminated staff must never reach a run.
func TestEmployeeRepository_FindActiveByCompany_FiltersOnStatus(t *testing.T) {
	repo, mock := setupRepositoryTest(t)

	companyID := uuid.NewString()

	rows := sqlmock.NewRows([]string{"id", "company_id", "full_name", "email", "base_salary", "employment_status"}).
		AddRow(uuid.NewString(), companyID, "Ana Pratama", "ana@acme.test", "9000", employee.StatusActive).
		AddRow(uuid.NewString(), companyID, "Budi Santoso", "budi@acme.test", "7500", employee.StatusActive)

	mock.ExpectQuery(`SELECT .+ FROM "employees" WHERE company_id = .+ AND employment_status = .+`).
		WithArgs(companyID, employee.StatusActive).
		WillReturnRows(rows)

	actives, err := repo.FindActiveByCompany(context.Background(), companyID)

	assert.NoError(t, err)
	assert.Len(t, actives, 2)
	for _, emp := range actives {
		assert.Equal(t, employee.StatusActive, emp.EmploymentStatus)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_FindAllByCompany_ScopesToTenant(t *testing.T) {
	repo, mock := setupRepositoryTest(t)

	companyID := uuid.NewString()

	rows := sqlmock.NewRows([]string{"id", "company_id", "full_name", "employment_status"}).
		AddRow(uuid.NewString(), companyID, "Citra Dewi", employee.StatusInactive)

	mock.ExpectQuery(`SELECT .+ FROM "employees" WHERE company_id = .+`).
		WithArgs(companyID).
		WillReturnRows(rows)

	all, err := repo.FindAllByCompany(context.Background(), companyID)

	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
