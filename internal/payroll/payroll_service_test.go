package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/grade"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn                func(tx *sql.Tx) payroll.Repository
	createRunFn             func(ctx context.Context, run *payroll.PayrollRun) error
	findAllByCompanyFn      func(ctx context.Context, companyID string) ([]payroll.PayrollRun, error)
	findByIDAndCompanyFn    func(ctx context.Context, companyID string, id string) (*payroll.PayrollRun, error)
	updateRunFn             func(ctx context.Context, run *payroll.PayrollRun, expectedStatus string) error
	insertRecordsFn         func(ctx context.Context, records []payroll.PayrollRecord) error
	findRecordsByRunFn      func(ctx context.Context, companyID string, runID string) ([]payroll.PayrollRecord, error)
	findRecordsByEmployeeFn func(ctx context.Context, companyID string, employeeID string) ([]payroll.PayrollRecord, error)
	setRecordPayslipURLFn   func(ctx context.Context, recordID string, url string) error
	deleteRunFn             func(ctx context.Context, companyID string, id string) error
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) CreateRun(ctx context.Context, run *payroll.PayrollRun) error {
	if f.createRunFn != nil {
		return f.createRunFn(ctx, run)
	}
	return nil
}

func (f *fakePayrollRepository) FindAllByCompany(ctx context.Context, companyID string) ([]payroll.PayrollRun, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*payroll.PayrollRun, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) UpdateRun(ctx context.Context, run *payroll.PayrollRun, expectedStatus string) error {
	if f.updateRunFn != nil {
		return f.updateRunFn(ctx, run, expectedStatus)
	}
	return nil
}

func (f *fakePayrollRepository) InsertRecords(ctx context.Context, records []payroll.PayrollRecord) error {
	if f.insertRecordsFn != nil {
		return f.insertRecordsFn(ctx, records)
	}
	return nil
}

func (f *fakePayrollRepository) FindRecordsByRun(ctx context.Context, companyID string, runID string) ([]payroll.PayrollRecord, error) {
	if f.findRecordsByRunFn != nil {
		return f.findRecordsByRunFn(ctx, companyID, runID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindRecordsByEmployee(ctx context.Context, companyID string, employeeID string) ([]payroll.PayrollRecord, error) {
	if f.findRecordsByEmployeeFn != nil {
		return f.findRecordsByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) SetRecordPayslipURL(ctx context.Context, recordID string, url string) error {
	if f.setRecordPayslipURLFn != nil {
		return f.setRecordPayslipURLFn(ctx, recordID, url)
	}
	return nil
}

func (f *fakePayrollRepository) DeleteRun(ctx context.Context, companyID string, id string) error {
	if f.deleteRunFn != nil {
		return f.deleteRunFn(ctx, companyID, id)
	}
	return nil
}

type fakeEmployeeDirectory struct {
	findActiveByCompanyFn func(ctx context.Context, companyID string) ([]employee.Employee, error)
}

func (f *fakeEmployeeDirectory) FindActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	if f.findActiveByCompanyFn != nil {
		return f.findActiveByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

type fakeComponentResolver struct {
	findComponentsByGradeFn func(ctx context.Context, companyID string, gradeID string) ([]grade.SalaryComponent, error)
}

func (f *fakeComponentResolver) FindComponentsByGrade(ctx context.Context, companyID string, gradeID string) ([]grade.SalaryComponent, error) {
	if f.findComponentsByGradeFn != nil {
		return f.findComponentsByGradeFn(ctx, companyID, gradeID)
	}
	return nil, nil
}

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type payrollServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   payroll.Service
	repo      *fakePayrollRepository
	employees *fakeEmployeeDirectory
	resolver  *fakeComponentResolver
	outbox    *fakeOutboxRepository
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	employees := &fakeEmployeeDirectory{}
	resolver := &fakeComponentResolver{}
	outbox := &fakeOutboxRepository{}
	svc := payroll.NewServiceWithOutbox(db, repo, employees, resolver, outbox)

	return &payrollServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		employees: employees,
		resolver:  resolver,
		outbox:    outbox,
	}
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

func draftRun(companyID, id string) *payroll.PayrollRun {
	return &payroll.PayrollRun{
		ID:              uuid.MustParse(id),
		CompanyID:       uuid.MustParse(companyID),
		Month:           3,
		Year:            2026,
		Status:          payroll.StatusDraft,
		TotalGrossPay:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNetPay:     decimal.Zero,
	}
}

func activeEmployee(gradeID *uuid.UUID, baseSalary string) employee.Employee {
	return employee.Employee{
		ID:               uuid.New(),
		GradeID:          gradeID,
		BaseSalary:       baseSalary,
		EmploymentStatus: employee.StatusActive,
	}
}

func TestPayrollService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	resp, err := deps.service.Create(ctx, companyID, actorID, payroll.CreateRunRequest{Month: 3, Year: 2026})

	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusDraft, resp.Status)
	assert.Equal(t, 3, resp.Month)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, "0", resp.TotalNetPay)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Create_InvalidPeriod(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.Create(ctx, companyID, actorID, payroll.CreateRunRequest{Month: 13, Year: 2026})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidMonth)

	expectTx(t, deps.sqlMock, false)
	_, err = deps.service.Create(ctx, companyID, actorID, payroll.CreateRunRequest{Month: 6, Year: 0})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidYear)

	expectTx(t, deps.sqlMock, false)
	_, err = deps.service.Create(ctx, companyID, actorID, payroll.CreateRunRequest{Month: 6, Year: 1899})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidYear)

	expectTx(t, deps.sqlMock, false)
	_, err = deps.service.Create(ctx, companyID, actorID, payroll.CreateRunRequest{Month: 6, Year: 10000})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidYear)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Process(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	runID := uuid.New().String()
	gradeID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
		return draftRun(cid, id), nil
	}
	deps.employees.findActiveByCompanyFn = func(ctx context.Context, cid string) ([]employee.Employee, error) {
		return []employee.Employee{
			activeEmployee(&gradeID, "10000"),
			activeEmployee(&gradeID, "8000"),
			activeEmployee(nil, "5000"),
		}, nil
	}
	deps.resolver.findComponentsByGradeFn = func(ctx context.Context, cid, gid string) ([]grade.SalaryComponent, error) {
		assert.Equal(t, gradeID.String(), gid)
		return []grade.SalaryComponent{
			{ID: uuid.New(), Name: "Housing", Kind: grade.ComponentKindEarning, Amount: "1000"},
			{ID: uuid.New(), Name: "Pension", Kind: grade.ComponentKindDeduction, Amount: "500"},
		}, nil
	}

	var inserted []payroll.PayrollRecord
	deps.repo.insertRecordsFn = func(ctx context.Context, records []payroll.PayrollRecord) error {
		inserted = records
		return nil
	}

	var updated *payroll.PayrollRun
	deps.repo.updateRunFn = func(ctx context.Context, run *payroll.PayrollRun, expectedStatus string) error {
		assert.Equal(t, payroll.StatusDraft, expectedStatus)
		updated = run
		return nil
	}

	var published []kafka.OutboxEvent
	deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
		published = append(published, event)
		return nil
	}

	resp, err := deps.service.Process(ctx, companyID, actorID, runID)

	assert.NoError(t, err)
	assert.Equal(t, payroll.StatusProcessing, resp.Status)
	assert.Equal(t, 3, resp.EmployeeCount)
	// 11000 + 9000 + 5000 gross, 500 + 500 deductions
	assert.Equal(t, "25000", resp.TotalGrossPay)
	assert.Equal(t, "1000", resp.TotalDeductions)
	assert.Equal(t, "24000", resp.TotalNetPay)
	assert.Equal(t, actorID, *resp.ProcessedBy)
	assert.NotNil(t, resp.ProcessedAt)

	assert.Len(t, inserted, 3)
	assert.True(t, updated.TotalNetPay.Equal(decimal.RequireFromString("24000")))

	// graded employees carry their component lines, ungraded ones none
	graded := 0
	for _, rec := range inserted {
		if rec.GradeID != nil {
			graded++
			assert.Len(t, rec.Lines, 2)
		} else {
			assert.Empty(t, rec.Lines)
		}
	}
	assert.Equal(t, 2, graded)

	assert.Len(t, published, 1)
	assert.Equal(t, events.PayrollRunProcessedTopic, published[0].Topic)
	var event events.PayrollRunProcessedEvent
	assert.NoError(t, json.Unmarshal(published[0].Payload, &event))
	assert.Equal(t, 3, event.EmployeeCount)
	assert.Equal(t, "24000", event.TotalNetPay)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Process_OnlyDraft(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	runID := uuid.New().String()

	for _, status := range []string{payroll.StatusProcessing, payroll.StatusApproved, payroll.StatusPaid} {
		deps := setupPayrollServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
			run := draftRun(cid, id)
			run.Status = status
			return run, nil
		}

		_, err := deps.service.Process(ctx, companyID, actorID, runID)

		var appErr *apperror.AppError
		assert.Error(t, err)
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		deps.db.Close()
	}
}

func TestPayrollService_Process_RunNotFound(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)

	_, err := deps.service.Process(ctx, companyID, actorID, uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrRunNotFound)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Process_ConcurrentStatusChange(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	runID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, false)
	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
		return draftRun(cid, id), nil
	}
	deps.repo.updateRunFn = func(ctx context.Context, run *payroll.PayrollRun, expectedStatus string) error {
		return payroll.ErrNoRowsUpdated
	}

	_, err := deps.service.Process(ctx, companyID, actorID, runID)

	assert.ErrorIs(t, err, payrollerrors.ErrRunConcurrentlyModified)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Process_InvalidActor(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.Process(ctx, uuid.New().String(), "not-a-uuid", uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrInvalidActorID)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_ApproveAndMarkPaid(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	runID := uuid.New().String()

	t.Run("approve success", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
			run := draftRun(cid, id)
			run.Status = payroll.StatusProcessing
			return run, nil
		}

		var published []kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			published = append(published, event)
			return nil
		}

		resp, err := deps.service.Approve(ctx, companyID, actorID, runID)

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusApproved, resp.Status)
		assert.Equal(t, actorID, *resp.ApprovedBy)
		assert.NotNil(t, resp.ApprovedAt)
		assert.Len(t, published, 1)
		assert.Equal(t, events.PayrollPayslipsRequestedTopic, published[0].Topic)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approve rejects draft", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
			return draftRun(cid, id), nil
		}

		_, err := deps.service.Approve(ctx, companyID, actorID, runID)

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("mark paid success", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
			run := draftRun(cid, id)
			run.Status = payroll.StatusApproved
			return run, nil
		}

		resp, err := deps.service.MarkAsPaid(ctx, companyID, runID)

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.NotNil(t, resp.PaidAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("mark paid rejects processing", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
			run := draftRun(cid, id)
			run.Status = payroll.StatusProcessing
			return run, nil
		}

		_, err := deps.service.MarkAsPaid(ctx, companyID, runID)

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_Delete_OnlyDraft(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	runID := uuid.New().String()

	t.Run("draft is deleted", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
			return draftRun(cid, id), nil
		}

		deleted := false
		deps.repo.deleteRunFn = func(ctx context.Context, cid, id string) error {
			deleted = true
			return nil
		}

		assert.NoError(t, deps.service.Delete(ctx, companyID, runID))
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("processed run is kept", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
			run := draftRun(cid, id)
			run.Status = payroll.StatusProcessing
			return run, nil
		}

		err := deps.service.Delete(ctx, companyID, runID)

		assert.ErrorIs(t, err, payrollerrors.ErrDeleteOnlyDraft)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_GetRecords(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	runID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
		run := draftRun(cid, id)
		run.Status = payroll.StatusProcessing
		return run, nil
	}
	deps.repo.findRecordsByRunFn = func(ctx context.Context, cid, rid string) ([]payroll.PayrollRecord, error) {
		return []payroll.PayrollRecord{
			{
				ID:           uuid.New(),
				PayrollRunID: uuid.MustParse(rid),
				EmployeeID:   uuid.New(),
				BaseSalary:   decimal.RequireFromString("10000"),
				GrossPay:     decimal.RequireFromString("11000"),
				NetPay:       decimal.RequireFromString("10500"),
				Lines: []payroll.PayrollLine{
					{ID: uuid.New(), ComponentID: uuid.New(), Name: "Housing", Kind: grade.ComponentKindEarning, Amount: decimal.RequireFromString("1000")},
				},
			},
		}, nil
	}

	records, err := deps.service.GetRecords(ctx, companyID, runID)

	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "11000", records[0].GrossPay)
	assert.Len(t, records[0].Lines, 1)
	assert.Equal(t, "Housing", records[0].Lines[0].Name)
}

func TestPayrollService_GetRecords_RunNotFound(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GetRecords(ctx, uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrRunNotFound)
}

func TestPayrollService_GeneratePayslips_RequiresProcessedRun(t *testing.T) {
	ctx := context.Background()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
		return draftRun(cid, id), nil
	}

	_, err := deps.service.GeneratePayslips(ctx, uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotReady)
}

func TestPayrollService_GeneratePayslips(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	runID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	t.Setenv("PAYSLIP_STORAGE_DIR", t.TempDir())
	t.Setenv("PAYSLIP_PUBLIC_BASE_URL", "https://files.example.com/payslips")

	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
		run := draftRun(cid, id)
		run.Status = payroll.StatusApproved
		return run, nil
	}
	deps.repo.findRecordsByRunFn = func(ctx context.Context, cid, rid string) ([]payroll.PayrollRecord, error) {
		return []payroll.PayrollRecord{
			{ID: uuid.New(), PayrollRunID: uuid.MustParse(rid), EmployeeID: uuid.New(), NetPay: decimal.RequireFromString("9500")},
			{ID: uuid.New(), PayrollRunID: uuid.MustParse(rid), EmployeeID: uuid.New(), NetPay: decimal.RequireFromString("7200")},
		}, nil
	}

	urls := map[string]string{}
	deps.repo.setRecordPayslipURLFn = func(ctx context.Context, recordID, url string) error {
		urls[recordID] = url
		return nil
	}

	count, err := deps.service.GeneratePayslips(ctx, companyID, runID)

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, urls, 2)
	for _, url := range urls {
		assert.Contains(t, url, "https://files.example.com/payslips/")
	}
}

func TestPayrollService_GeneratePayslips_RecordDeletedMidway(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	runID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	t.Setenv("PAYSLIP_STORAGE_DIR", t.TempDir())

	deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*payroll.PayrollRun, error) {
		run := draftRun(cid, id)
		run.Status = payroll.StatusProcessing
		return run, nil
	}
	deps.repo.findRecordsByRunFn = func(ctx context.Context, cid, rid string) ([]payroll.PayrollRecord, error) {
		return []payroll.PayrollRecord{
			{ID: uuid.New(), PayrollRunID: uuid.MustParse(rid), EmployeeID: uuid.New(), NetPay: decimal.RequireFromString("9500")},
		}, nil
	}
	deps.repo.setRecordPayslipURLFn = func(ctx context.Context, recordID, url string) error {
		return gorm.ErrRecordNotFound
	}

	count, err := deps.service.GeneratePayslips(ctx, companyID, runID)

	assert.ErrorIs(t, err, payrollerrors.ErrRecordNotFound)
	assert.Equal(t, 0, count)
}
