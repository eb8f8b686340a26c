package payroll

import (
	"strings"

	"go-payroll/internal/grade"

	"github.com/shopspring/decimal"
)

// Computation is one employee's pay for a single period.
type Computation struct {
	BaseSalary      decimal.Decimal
	GrossPay        decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// Compute derives an employee's pay from the stored base salary and the
// grade's components. Gross is earnings-only: deductions never reduce it,
// they only reduce net. Negative net is reported as-is, not clamped.
func Compute(baseSalary string, components []grade.SalaryComponent) Computation {
	base := parseAmount(baseSalary)

	gross := base
	earnings := base
	deductions := decimal.Zero

	for _, c := range components {
		amount := parseAmount(c.Amount)
		switch c.Kind {
		case grade.ComponentKindEarning:
			gross = gross.Add(amount)
			earnings = earnings.Add(amount)
		case grade.ComponentKindDeduction:
			deductions = deductions.Add(amount)
		}
	}

	return Computation{
		BaseSalary:      base,
		GrossPay:        gross,
		TotalEarnings:   earnings,
		TotalDeductions: deductions,
		NetPay:          gross.Sub(deductions),
	}
}

// parseAmount is deliberately lenient: a malformed or missing amount counts
// as zero so one bad row never blocks payroll for the whole company.
func parseAmount(v string) decimal.Decimal {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}
