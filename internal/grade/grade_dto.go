package grade

type CreateGradeRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	BaseSalary string `json:"base_salary" binding:"required"`
}

type UpdateGradeRequest struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	BaseSalary string `json:"base_salary" binding:"required"`
}

type CreateComponentRequest struct {
	Name    string `json:"name" binding:"required"`
	Kind    string `json:"kind" binding:"required,oneof=earning deduction"`
	Amount  string `json:"amount" binding:"required"`
	Taxable bool   `json:"taxable"`
}

type UpdateComponentRequest struct {
	Name    string `json:"name" binding:"required"`
	Kind    string `json:"kind" binding:"required,oneof=earning deduction"`
	Amount  string `json:"amount" binding:"required"`
	Taxable bool   `json:"taxable"`
}

type GradeResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	BaseSalary string `json:"base_salary"`
}

type ComponentResponse struct {
	ID      string `json:"id"`
	GradeID string `json:"grade_id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Amount  string `json:"amount"`
	Taxable bool   `json:"taxable"`
}
