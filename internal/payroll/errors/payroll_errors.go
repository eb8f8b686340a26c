package payrollerrors

import (
	"fmt"
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll record not found",
		http.StatusNotFound,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"year must be a positive four-digit number",
		http.StatusBadRequest,
	)
	ErrRunLocked = apperror.New(
		apperror.CodeConflict,
		"payroll run is already being processed",
		http.StatusConflict,
	)
	ErrRunConcurrentlyModified = apperror.New(
		apperror.CodeConflict,
		"payroll run was modified by another request",
		http.StatusConflict,
	)
	ErrDeleteOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be deleted while status is draft",
		http.StatusConflict,
	)
	ErrDuplicateRecord = apperror.New(
		apperror.CodeConflict,
		"payroll record already exists for this employee in this run",
		http.StatusConflict,
	)
	ErrPayslipNotReady = apperror.New(
		apperror.CodeInvalidState,
		"payslips are only available once a run has been processed",
		http.StatusConflict,
	)
)

// InvalidTransition reports an operation that is not legal from the run's
// current status, naming both for diagnostics.
func InvalidTransition(currentStatus, operation string) *apperror.AppError {
	return apperror.New(
		apperror.CodeInvalidState,
		fmt.Sprintf("cannot %s a payroll run in status %s", operation, currentStatus),
		http.StatusConflict,
	)
}
