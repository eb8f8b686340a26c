package gradeerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrGradeNotFound = apperror.New(
		apperror.CodeNotFound,
		"grade not found",
		http.StatusNotFound,
	)
	ErrComponentNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary component not found",
		http.StatusNotFound,
	)
	ErrInvalidGradeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid grade id",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a non-negative decimal number",
		http.StatusBadRequest,
	)
	ErrInvalidBaseSalary = apperror.New(
		apperror.CodeInvalidInput,
		"base_salary must be a non-negative decimal number",
		http.StatusBadRequest,
	)
	ErrGradeInUse = apperror.New(
		apperror.CodeConflict,
		"grade is still referenced by employees or salary components",
		http.StatusConflict,
	)
	ErrDuplicateGradeCode = apperror.New(
		apperror.CodeConflict,
		"a grade with this code already exists",
		http.StatusConflict,
	)
)
