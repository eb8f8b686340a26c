package employee_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	withTxFn              func(tx *sql.Tx) employee.Repository
	createFn              func(ctx context.Context, emp *employee.Employee) error
	findAllByCompanyFn    func(ctx context.Context, companyID string) ([]employee.Employee, error)
	findActiveByCompanyFn func(ctx context.Context, companyID string) ([]employee.Employee, error)
	findByIDAndCompanyFn  func(ctx context.Context, companyID string, id string) (*employee.Employee, error)
	updateFn              func(ctx context.Context, emp *employee.Employee) error
	deleteFn              func(ctx context.Context, companyID string, id string) error
	gradeExistsFn         func(ctx context.Context, companyID string, gradeID string) (bool, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, emp)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	if f.findActiveByCompanyFn != nil {
		return f.findActiveByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*employee.Employee, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, emp *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, emp)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, companyID string, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func (f *fakeEmployeeRepository) GradeExists(ctx context.Context, companyID string, gradeID string) (bool, error) {
	if f.gradeExistsFn != nil {
		return f.gradeExistsFn(ctx, companyID, gradeID)
	}
	return true, nil
}

type fakeGradeDirectory struct {
	findBaseSalaryFn func(ctx context.Context, companyID, gradeID string) (string, error)
}

func (f *fakeGradeDirectory) FindBaseSalary(ctx context.Context, companyID, gradeID string) (string, error) {
	if f.findBaseSalaryFn != nil {
		return f.findBaseSalaryFn(ctx, companyID, gradeID)
	}
	return "0", nil
}

type employeeServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *fakeEmployeeRepository
	grades  *fakeGradeDirectory
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	grades := &fakeGradeDirectory{}
	svc := employee.NewService(db, repo, grades)

	return &employeeServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, grades: grades}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestEmployeeService_Create_InheritsGradeSalary(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	gradeID := uuid.New().String()

	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.grades.findBaseSalaryFn = func(ctx context.Context, cid, gid string) (string, error) {
		assert.Equal(t, gradeID, gid)
		return "9500", nil
	}
	deps.repo.createFn = func(ctx context.Context, emp *employee.Employee) error {
		assert.Equal(t, "9500", emp.BaseSalary)
		assert.Equal(t, employee.StatusActive, emp.EmploymentStatus)
		return nil
	}

	resp, err := deps.service.Create(ctx, companyID, employee.CreateEmployeeRequest{
		FullName: "Ana Silva",
		Email:    "ana.silva@example.com",
		GradeID:  &gradeID,
	})

	assert.NoError(t, err)
	assert.Equal(t, "9500", resp.BaseSalary)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestEmployeeService_Create_OverrideBeatsGradeSalary(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	gradeID := uuid.New().String()

	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.grades.findBaseSalaryFn = func(ctx context.Context, cid, gid string) (string, error) {
		t.Fatal("grade salary must not be consulted when an override is set")
		return "", nil
	}

	resp, err := deps.service.Create(ctx, companyID, employee.CreateEmployeeRequest{
		FullName:   "Ben Okafor",
		Email:      "ben.okafor@example.com",
		GradeID:    &gradeID,
		BaseSalary: "12345.67",
	})

	assert.NoError(t, err)
	assert.Equal(t, "12345.67", resp.BaseSalary)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestEmployeeService_Create_UnknownGrade(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	gradeID := uuid.New().String()

	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	deps.repo.gradeExistsFn = func(ctx context.Context, cid, gid string) (bool, error) {
		return false, nil
	}

	_, err := deps.service.Create(ctx, companyID, employee.CreateEmployeeRequest{
		FullName: "Caro Diaz",
		Email:    "caro.diaz@example.com",
		GradeID:  &gradeID,
	})

	assert.ErrorIs(t, err, employeeerrors.ErrInvalidGradeID)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestEmployeeService_Create_RejectsNegativeSalary(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.Create(ctx, companyID, employee.CreateEmployeeRequest{
		FullName:   "Dan Lee",
		Email:      "dan.lee@example.com",
		BaseSalary: "-500",
	})

	assert.ErrorIs(t, err, employeeerrors.ErrInvalidBaseSalary)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestEmployeeService_Create_MalformedCompanyID(t *testing.T) {
	ctx := context.Background()

	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.Create(ctx, "not-a-uuid", employee.CreateEmployeeRequest{
		FullName:   "Eva Chen",
		Email:      "eva.chen@example.com",
		BaseSalary: "6000",
	})

	assert.ErrorIs(t, err, employeeerrors.ErrInvalidCompanyID)

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestEmployeeService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	deps.repo.createFn = func(ctx context.Context, emp *employee.Employee) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_company_email"}
	}

	_, err := deps.service.Create(ctx, companyID, employee.CreateEmployeeRequest{
		FullName: "Eve Chen",
		Email:    "eve.chen@example.com",
	})

	assert.ErrorIs(t, err, employeeerrors.ErrDuplicateEmail)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestEmployeeService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()

	deps := setupEmployeeServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GetByID(ctx, uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}
