package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"
)

type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	GradeID   *uuid.UUID `gorm:"type:uuid;index"`
	FullName  string     `gorm:"type:varchar(160);not null"`
	Email     string     `gorm:"type:varchar(160);uniqueIndex"`

	// Per-employee salary, may differ from the grade's band. Text view of a
	// numeric column; payroll parses it leniently at compute time.
	BaseSalary string `gorm:"type:numeric;not null;default:0"`

	EmploymentStatus string `gorm:"type:varchar(20);not null;default:'active';index"`

	// Carried into payroll records for payment processing.
	BankName          string `gorm:"type:varchar(120)"`
	BankAccountNumber string `gorm:"type:varchar(40)"`
	BankAccountName   string `gorm:"type:varchar(160)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
