package employee

import (
	"context"
	"database/sql"
	"errors"

	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

// GradeDirectory is the slice of the grade domain this service needs: the
// band's base salary, used as the default when an employee has none set.
type GradeDirectory interface {
	FindBaseSalary(ctx context.Context, companyID, gradeID string) (string, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	grades GradeDirectory
}

func NewService(db *sql.DB, repo Repository, grades GradeDirectory) Service {
	return &service{db: db, repo: repo, grades: grades}
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	var gradeUUID *uuid.UUID
	if req.GradeID != nil && *req.GradeID != "" {
		parsed, err := uuid.Parse(*req.GradeID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidGradeID
		}

		exists, err := qtx.GradeExists(ctx, companyID, parsed.String())
		if err != nil {
			return EmployeeResponse{}, err
		}
		if !exists {
			return EmployeeResponse{}, employeeerrors.ErrInvalidGradeID
		}
		gradeUUID = &parsed
	}

	baseSalary := req.BaseSalary
	if baseSalary == "" && gradeUUID != nil && s.grades != nil {
		// Inherit the band default when no override is given.
		baseSalary, err = s.grades.FindBaseSalary(ctx, companyID, gradeUUID.String())
		if err != nil {
			return EmployeeResponse{}, err
		}
	}
	baseSalary, err = normalizeSalary(baseSalary)
	if err != nil {
		return EmployeeResponse{}, err
	}

	status := req.EmploymentStatus
	if status == "" {
		status = StatusActive
	}

	emp := &Employee{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		GradeID:           gradeUUID,
		FullName:          req.FullName,
		Email:             req.Email,
		BaseSalary:        baseSalary,
		EmploymentStatus:  status,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		BankAccountName:   req.BankAccountName,
	}

	if err := qtx.Create(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(emps), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (EmployeeResponse, error) {
	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*emp), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	var gradeUUID *uuid.UUID
	if req.GradeID != nil && *req.GradeID != "" {
		parsed, err := uuid.Parse(*req.GradeID)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidGradeID
		}

		exists, err := qtx.GradeExists(ctx, companyID, parsed.String())
		if err != nil {
			return EmployeeResponse{}, err
		}
		if !exists {
			return EmployeeResponse{}, employeeerrors.ErrInvalidGradeID
		}
		gradeUUID = &parsed
	}

	baseSalary, err := normalizeSalary(req.BaseSalary)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emp.GradeID = gradeUUID
	emp.FullName = req.FullName
	emp.Email = req.Email
	emp.BaseSalary = baseSalary
	emp.EmploymentStatus = req.EmploymentStatus
	emp.BankName = req.BankName
	emp.BankAccountNumber = req.BankAccountNumber
	emp.BankAccountName = req.BankAccountName

	if err := qtx.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByIDAndCompany(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

// normalizeSalary rejects malformed or negative salaries on the write path.
// Empty means "not set yet" and is stored as zero.
func normalizeSalary(v string) (string, error) {
	if v == "" {
		return "0", nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return "", employeeerrors.ErrInvalidBaseSalary
	}
	return d.String(), nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}
	return err
}

func mapToResponse(emp Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                emp.ID.String(),
		CompanyID:         emp.CompanyID.String(),
		FullName:          emp.FullName,
		Email:             emp.Email,
		BaseSalary:        emp.BaseSalary,
		EmploymentStatus:  emp.EmploymentStatus,
		BankName:          emp.BankName,
		BankAccountNumber: emp.BankAccountNumber,
		BankAccountName:   emp.BankAccountName,
	}

	if emp.GradeID != nil {
		v := emp.GradeID.String()
		resp.GradeID = &v
	}

	return resp
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(emps))
	for i, emp := range emps {
		res[i] = mapToResponse(emp)
	}
	return res
}
