package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Run lifecycle. Transitions only ever move forward, one step at a time:
// draft -> processing -> approved -> paid.
const (
	StatusDraft      = "draft"
	StatusProcessing = "processing"
	StatusApproved   = "approved"
	StatusPaid       = "paid"
)

// PayrollRun is one payroll cycle for a tenant covering one month/year.
type PayrollRun struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_company_status"`
	Month     int       `gorm:"not null"`
	Year      int       `gorm:"not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'draft';index:idx_company_status"`

	TotalGrossPay   decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	TotalNetPay     decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	EmployeeCount   int             `gorm:"not null;default:0"`

	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt *time.Time
	ApprovedAt  *time.Time
	PaidAt      *time.Time `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Records []PayrollRecord `gorm:"foreignKey:PayrollRunID"`
}

// PayrollRecord is one employee's result within one run. Grade, salary and
// bank details are snapshots taken at processing time so later edits to the
// employee or grade never rewrite payroll history.
type PayrollRecord struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollRunID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_record_run_employee"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_record_run_employee;index"`
	GradeID      *uuid.UUID `gorm:"type:uuid"`

	BaseSalary      decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	GrossPay        decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	TotalEarnings   decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	NetPay          decimal.Decimal `gorm:"type:numeric;not null;default:0"`

	BankName          string `gorm:"type:varchar(120)"`
	BankAccountNumber string `gorm:"type:varchar(40)"`
	BankAccountName   string `gorm:"type:varchar(160)"`

	PayslipURL *string

	CreatedAt time.Time

	Lines []PayrollLine `gorm:"foreignKey:PayrollRecordID"`
}

// PayrollLine is one component's contribution inside a record. The component
// reference may go stale later; the line keeps its own snapshot.
type PayrollLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollRecordID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentID     uuid.UUID       `gorm:"type:uuid;not null"`
	Name            string          `gorm:"type:varchar(120);not null"`
	Kind            string          `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	Taxable         bool            `gorm:"not null;default:false"`
}
