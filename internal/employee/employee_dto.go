package employee

type CreateEmployeeRequest struct {
	FullName          string  `json:"full_name" binding:"required"`
	Email             string  `json:"email" binding:"required,email"`
	GradeID           *string `json:"grade_id" binding:"omitempty,uuid"`
	BaseSalary        string  `json:"base_salary"`
	EmploymentStatus  string  `json:"employment_status" binding:"omitempty,oneof=active inactive terminated"`
	BankName          string  `json:"bank_name"`
	BankAccountNumber string  `json:"bank_account_number"`
	BankAccountName   string  `json:"bank_account_name"`
}

type UpdateEmployeeRequest struct {
	FullName          string  `json:"full_name" binding:"required"`
	Email             string  `json:"email" binding:"required,email"`
	GradeID           *string `json:"grade_id" binding:"omitempty,uuid"`
	BaseSalary        string  `json:"base_salary" binding:"required"`
	EmploymentStatus  string  `json:"employment_status" binding:"required,oneof=active inactive terminated"`
	BankName          string  `json:"bank_name"`
	BankAccountNumber string  `json:"bank_account_number"`
	BankAccountName   string  `json:"bank_account_name"`
}

type EmployeeResponse struct {
	ID                string  `json:"id"`
	CompanyID         string  `json:"company_id"`
	GradeID           *string `json:"grade_id,omitempty"`
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	BaseSalary        string  `json:"base_salary"`
	EmploymentStatus  string  `json:"employment_status"`
	BankName          string  `json:"bank_name,omitempty"`
	BankAccountNumber string  `json:"bank_account_number,omitempty"`
	BankAccountName   string  `json:"bank_account_name,omitempty"`
}
