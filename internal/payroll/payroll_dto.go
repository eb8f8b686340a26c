package payroll

type CreateRunRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

type RunResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	Status          string  `json:"status"`
	TotalGrossPay   string  `json:"total_gross_pay"`
	TotalDeductions string  `json:"total_deductions"`
	TotalNetPay     string  `json:"total_net_pay"`
	EmployeeCount   int     `json:"employee_count"`
	ProcessedBy     *string `json:"processed_by,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ProcessedAt     *string `json:"processed_at,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	PaidAt          *string `json:"paid_at,omitempty"`
}

type RecordResponse struct {
	ID                string         `json:"id"`
	PayrollRunID      string         `json:"payroll_run_id"`
	EmployeeID        string         `json:"employee_id"`
	GradeID           *string        `json:"grade_id,omitempty"`
	BaseSalary        string         `json:"base_salary"`
	GrossPay          string         `json:"gross_pay"`
	TotalEarnings     string         `json:"total_earnings"`
	TotalDeductions   string         `json:"total_deductions"`
	NetPay            string         `json:"net_pay"`
	BankName          string         `json:"bank_name,omitempty"`
	BankAccountNumber string         `json:"bank_account_number,omitempty"`
	BankAccountName   string         `json:"bank_account_name,omitempty"`
	PayslipURL        *string        `json:"payslip_url,omitempty"`
	Lines             []LineResponse `json:"lines"`
}

type LineResponse struct {
	ID          string `json:"id"`
	ComponentID string `json:"component_id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Taxable     bool   `json:"taxable"`
}
