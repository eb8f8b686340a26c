package payroll

import (
	"context"
	"database/sql"
	"errors"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

// ErrNoRowsUpdated signals a guarded update whose status precondition no
// longer held. The service maps it to a conflict for the caller.
var ErrNoRowsUpdated = errors.New("payroll run not updated: status changed concurrently")

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateRun(ctx context.Context, run *PayrollRun) error
	FindAllByCompany(ctx context.Context, companyID string) ([]PayrollRun, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollRun, error)
	// UpdateRun persists the run only when its stored status still matches
	// expectedStatus; ErrNoRowsUpdated otherwise.
	UpdateRun(ctx context.Context, run *PayrollRun, expectedStatus string) error
	InsertRecords(ctx context.Context, records []PayrollRecord) error
	FindRecordsByRun(ctx context.Context, companyID string, runID string) ([]PayrollRecord, error)
	FindRecordsByEmployee(ctx context.Context, companyID string, employeeID string) ([]PayrollRecord, error)
	SetRecordPayslipURL(ctx context.Context, recordID string, url string) error
	DeleteRun(ctx context.Context, companyID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Writes that must be transactional go through raw SQL on the tx; reads and
// non-batch queries stay on gorm.
func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		panic("payroll repository: underlying sql.DB unavailable: " + err.Error())
	}
	return sqlDB
}

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	query := `
        INSERT INTO payroll_runs (
            id, company_id, month, year, status,
            total_gross_pay, total_deductions, total_net_pay, employee_count
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := r.execer().ExecContext(
		ctx, query,
		run.ID, run.CompanyID, run.Month, run.Year, run.Status,
		run.TotalGrossPay, run.TotalDeductions, run.TotalNetPay, run.EmployeeCount,
	)
	return err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]PayrollRun, error) {
	var runs []PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("year DESC, month DESC, created_at DESC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) UpdateRun(ctx context.Context, run *PayrollRun, expectedStatus string) error {
	query := `
        UPDATE payroll_runs SET
            status = $1,
            total_gross_pay = $2,
            total_deductions = $3,
            total_net_pay = $4,
            employee_count = $5,
            processed_by = $6,
            approved_by = $7,
            processed_at = $8,
            approved_at = $9,
            paid_at = $10,
            updated_at = NOW()
        WHERE id = $11 AND company_id = $12 AND status = $13
    `

	res, err := r.execer().ExecContext(
		ctx, query,
		run.Status,
		run.TotalGrossPay, run.TotalDeductions, run.TotalNetPay, run.EmployeeCount,
		run.ProcessedBy, run.ApprovedBy,
		run.ProcessedAt, run.ApprovedAt, run.PaidAt,
		run.ID, run.CompanyID, expectedStatus,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoRowsUpdated
	}
	return nil
}

func (r *repository) InsertRecords(ctx context.Context, records []PayrollRecord) error {
	recordQuery := `
        INSERT INTO payroll_records (
            id, payroll_run_id, employee_id, grade_id,
            base_salary, gross_pay, total_earnings, total_deductions, net_pay,
            bank_name, bank_account_number, bank_account_name
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	lineQuery := `
        INSERT INTO payroll_lines (
            id, payroll_record_id, component_id, name, kind, amount, taxable
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	exec := r.execer()
	for i := range records {
		rec := &records[i]
		if _, err := exec.ExecContext(
			ctx, recordQuery,
			rec.ID, rec.PayrollRunID, rec.EmployeeID, rec.GradeID,
			rec.BaseSalary, rec.GrossPay, rec.TotalEarnings, rec.TotalDeductions, rec.NetPay,
			rec.BankName, rec.BankAccountNumber, rec.BankAccountName,
		); err != nil {
			return err
		}

		for j := range rec.Lines {
			line := &rec.Lines[j]
			if _, err := exec.ExecContext(
				ctx, lineQuery,
				line.ID, line.PayrollRecordID, line.ComponentID,
				line.Name, line.Kind, line.Amount, line.Taxable,
			); err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *repository) FindRecordsByRun(ctx context.Context, companyID string, runID string) ([]PayrollRecord, error) {
	var records []PayrollRecord
	err := r.db.WithContext(ctx).
		Joins("JOIN payroll_runs pr ON pr.id = payroll_records.payroll_run_id").
		Where("pr.company_id = ?", companyID).
		Where("payroll_records.payroll_run_id = ?", runID).
		Preload("Lines").
		Order("payroll_records.created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindRecordsByEmployee(ctx context.Context, companyID string, employeeID string) ([]PayrollRecord, error) {
	var records []PayrollRecord
	err := r.db.WithContext(ctx).
		Joins("JOIN payroll_runs pr ON pr.id = payroll_records.payroll_run_id").
		Where("pr.company_id = ?", companyID).
		Where("payroll_records.employee_id = ?", employeeID).
		Preload("Lines").
		Order("pr.year DESC, pr.month DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) SetRecordPayslipURL(ctx context.Context, recordID string, url string) error {
	res := r.db.WithContext(ctx).
		Model(&PayrollRecord{}).
		Where("id = ?", recordID).
		Update("payslip_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRun removes a run with its records and lines. The service only calls
// this for draft runs; processed history is never deleted.
func (r *repository) DeleteRun(ctx context.Context, companyID string, id string) error {
	exec := r.execer()

	if _, err := exec.ExecContext(ctx, `
        DELETE FROM payroll_lines
        WHERE payroll_record_id IN (
            SELECT id FROM payroll_records WHERE payroll_run_id = $1
        )`, id); err != nil {
		return err
	}

	if _, err := exec.ExecContext(ctx,
		`DELETE FROM payroll_records WHERE payroll_run_id = $1`, id); err != nil {
		return err
	}

	_, err := exec.ExecContext(ctx,
		`DELETE FROM payroll_runs WHERE id = $1 AND company_id = $2`, id, companyID)
	return err
}
