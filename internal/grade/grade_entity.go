package grade

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ComponentKindEarning   = "earning"
	ComponentKindDeduction = "deduction"
)

// Grade is a compensation band shared by many employees.
type Grade struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code      string    `gorm:"type:varchar(40);not null"`
	Name      string    `gorm:"type:varchar(120);not null"`

	// Stored as text view of a numeric column; parsing happens at compute
	// time so one bad historical row never blocks a payroll run.
	BaseSalary string `gorm:"type:numeric;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// SalaryComponent is one named earning or deduction attached to a grade.
// Amount is always absolute; the sign lives in Kind.
type SalaryComponent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	GradeID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Kind      string    `gorm:"type:varchar(20);not null"`
	Amount    string    `gorm:"type:numeric;not null;default:0"`
	Taxable   bool      `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
