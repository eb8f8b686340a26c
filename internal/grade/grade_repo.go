package grade

import (
	"context"
	"database/sql"
	"errors"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=grade_repo.go -destination=mock/grade_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, grade *Grade) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Grade, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Grade, error)
	Update(ctx context.Context, grade *Grade) error
	Delete(ctx context.Context, companyID string, id string) error
	CountReferences(ctx context.Context, companyID string, id string) (int64, error)

	FindBaseSalary(ctx context.Context, companyID string, gradeID string) (string, error)

	CreateComponent(ctx context.Context, component *SalaryComponent) error
	FindComponentsByGrade(ctx context.Context, companyID string, gradeID string) ([]SalaryComponent, error)
	FindComponentByID(ctx context.Context, companyID string, id string) (*SalaryComponent, error)
	UpdateComponent(ctx context.Context, component *SalaryComponent) error
	DeleteComponent(ctx context.Context, companyID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, grade *Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Grade, error) {
	var grades []Grade
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("code ASC").
		Find(&grades).Error
	return grades, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Grade, error) {
	var grade Grade
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&grade, "id = ?", id).Error
	return &grade, err
}

func (r *repository) Update(ctx context.Context, grade *Grade) error {
	return r.db.WithContext(ctx).Save(grade).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Grade{}, "id = ?", id).Error
}

// CountReferences reports how many live rows still point at the grade.
// Deleting a referenced grade is blocked at the service layer.
func (r *repository) CountReferences(ctx context.Context, companyID string, id string) (int64, error) {
	var employees int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Scopes(tenant.Scope(companyID)).
		Where("grade_id = ?", id).
		Where("deleted_at IS NULL").
		Count(&employees).Error
	if err != nil {
		return 0, err
	}

	var components int64
	err = r.db.WithContext(ctx).
		Model(&SalaryComponent{}).
		Scopes(tenant.Scope(companyID)).
		Where("grade_id = ?", id).
		Count(&components).Error
	if err != nil {
		return 0, err
	}

	return employees + components, nil
}

// FindBaseSalary returns the band's default salary, "0" when the grade is
// unknown. Used when creating an employee without an explicit override.
func (r *repository) FindBaseSalary(ctx context.Context, companyID string, gradeID string) (string, error) {
	var grade Grade
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&grade, "id = ?", gradeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "0", nil
	}
	if err != nil {
		return "", err
	}
	return grade.BaseSalary, nil
}

func (r *repository) CreateComponent(ctx context.Context, component *SalaryComponent) error {
	return r.db.WithContext(ctx).Create(component).Error
}

// FindComponentsByGrade returns the grade's components in creation order.
// An unknown grade id yields an empty slice, not an error: a grade deleted
// after employees referenced it must not crash payroll processing.
func (r *repository) FindComponentsByGrade(ctx context.Context, companyID string, gradeID string) ([]SalaryComponent, error) {
	var components []SalaryComponent
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("grade_id = ?", gradeID).
		Order("created_at ASC").
		Find(&components).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return components, err
}

func (r *repository) FindComponentByID(ctx context.Context, companyID string, id string) (*SalaryComponent, error) {
	var component SalaryComponent
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&component, "id = ?", id).Error
	return &component, err
}

func (r *repository) UpdateComponent(ctx context.Context, component *SalaryComponent) error {
	return r.db.WithContext(ctx).Save(component).Error
}

func (r *repository) DeleteComponent(ctx context.Context, companyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&SalaryComponent{}, "id = ?", id).Error
}
