package grade

import (
	"context"
	"database/sql"
	"errors"

	gradeerrors "go-payroll/internal/grade/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=grade_service.go -destination=mock/grade_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateGradeRequest) (GradeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]GradeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (GradeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateGradeRequest) (GradeResponse, error)
	Delete(ctx context.Context, companyID, id string) error

	CreateComponent(ctx context.Context, companyID, gradeID string, req CreateComponentRequest) (ComponentResponse, error)
	GetComponents(ctx context.Context, companyID, gradeID string) ([]ComponentResponse, error)
	UpdateComponent(ctx context.Context, companyID, id string, req UpdateComponentRequest) (ComponentResponse, error)
	DeleteComponent(ctx context.Context, companyID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// requireAmount accepts only well-formed non-negative decimals on the write
// path. Lenient parsing is reserved for reads during payroll computation.
func requireAmount(v string, invalid error) (string, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return "", invalid
	}
	if d.IsNegative() {
		return "", invalid
	}
	return d.String(), nil
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateGradeRequest,
) (GradeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return GradeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return GradeResponse{}, gradeerrors.ErrInvalidGradeID
	}

	baseSalary, err := requireAmount(req.BaseSalary, gradeerrors.ErrInvalidBaseSalary)
	if err != nil {
		return GradeResponse{}, err
	}

	grade := &Grade{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		Code:       req.Code,
		Name:       req.Name,
		BaseSalary: baseSalary,
	}

	if err := qtx.Create(ctx, grade); err != nil {
		return GradeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return GradeResponse{}, err
	}

	return mapToResponse(*grade), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]GradeResponse, error) {
	grades, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(grades), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (GradeResponse, error) {
	grade, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return GradeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*grade), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateGradeRequest,
) (GradeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return GradeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	grade, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return GradeResponse{}, mapRepositoryError(err)
	}

	baseSalary, err := requireAmount(req.BaseSalary, gradeerrors.ErrInvalidBaseSalary)
	if err != nil {
		return GradeResponse{}, err
	}

	grade.Code = req.Code
	grade.Name = req.Name
	grade.BaseSalary = baseSalary

	if err := qtx.Update(ctx, grade); err != nil {
		return GradeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return GradeResponse{}, err
	}

	return mapToResponse(*grade), nil
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

	refs, err := qtx.CountReferences(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if refs > 0 {
		return gradeerrors.ErrGradeInUse
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

func (s *service) CreateComponent(
	ctx context.Context,
	companyID, gradeID string,
	req CreateComponentRequest,
) (ComponentResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ComponentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	grade, err := qtx.FindByIDAndCompany(ctx, companyID, gradeID)
	if err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	amount, err := requireAmount(req.Amount, gradeerrors.ErrInvalidAmount)
	if err != nil {
		return ComponentResponse{}, err
	}

	component := &SalaryComponent{
		ID:        uuid.New(),
		CompanyID: grade.CompanyID,
		GradeID:   grade.ID,
		Name:      req.Name,
		Kind:      req.Kind,
		Amount:    amount,
		Taxable:   req.Taxable,
	}

	if err := qtx.CreateComponent(ctx, component); err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ComponentResponse{}, err
	}

	return mapComponentToResponse(*component), nil
}

func (s *service) GetComponents(
	ctx context.Context,
	companyID, gradeID string,
) ([]ComponentResponse, error) {
	components, err := s.repo.FindComponentsByGrade(ctx, companyID, gradeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]ComponentResponse, len(components))
	for i, c := range components {
		res[i] = mapComponentToResponse(c)
	}
	return res, nil
}

func (s *service) UpdateComponent(
	ctx context.Context,
	companyID, id string,
	req UpdateComponentRequest,
) (ComponentResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ComponentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	component, err := qtx.FindComponentByID(ctx, companyID, id)
	if err != nil {
		return ComponentResponse{}, mapComponentRepositoryError(err)
	}

	amount, err := requireAmount(req.Amount, gradeerrors.ErrInvalidAmount)
	if err != nil {
		return ComponentResponse{}, err
	}

	component.Name = req.Name
	component.Kind = req.Kind
	component.Amount = amount
	component.Taxable = req.Taxable

	if err := qtx.UpdateComponent(ctx, component); err != nil {
		return ComponentResponse{}, mapComponentRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ComponentResponse{}, err
	}

	return mapComponentToResponse(*component), nil
}

func (s *service) DeleteComponent(
	ctx context.Context,
	companyID, id string,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindComponentByID(ctx, companyID, id); err != nil {
		return mapComponentRepositoryError(err)
	}

	if err := qtx.DeleteComponent(ctx, companyID, id); err != nil {
		return mapComponentRepositoryError(err)
	}

	return tx.Commit()
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gradeerrors.ErrGradeNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return gradeerrors.ErrDuplicateGradeCode
	}
	return err
}

func mapComponentRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gradeerrors.ErrComponentNotFound
	}
	return err
}

func mapToResponse(grade Grade) GradeResponse {
	return GradeResponse{
		ID:         grade.ID.String(),
		CompanyID:  grade.CompanyID.String(),
		Code:       grade.Code,
		Name:       grade.Name,
		BaseSalary: grade.BaseSalary,
	}
}

func mapToListResponse(grades []Grade) []GradeResponse {
	res := make([]GradeResponse, len(grades))
	for i, grade := range grades {
		res[i] = mapToResponse(grade)
	}
	return res
}

func mapComponentToResponse(component SalaryComponent) ComponentResponse {
	return ComponentResponse{
		ID:      component.ID.String(),
		GradeID: component.GradeID.String(),
		Name:    component.Name,
		Kind:    component.Kind,
		Amount:  component.Amount,
		Taxable: component.Taxable,
	}
}
