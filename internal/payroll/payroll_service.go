package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/grade"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// processConcurrency bounds the per-employee fan-out during a run.
const processConcurrency = 8

const runLockTTL = 2 * time.Minute

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateRunRequest) (RunResponse, error)
	GetAll(ctx context.Context, companyID string) ([]RunResponse, error)
	GetByID(ctx context.Context, companyID, id string) (RunResponse, error)
	Process(ctx context.Context, companyID, actorID, id string) (RunResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (RunResponse, error)
	MarkAsPaid(ctx context.Context, companyID, id string) (RunResponse, error)
	GetRecords(ctx context.Context, companyID, runID string) ([]RecordResponse, error)
	GetRecordsForEmployee(ctx context.Context, companyID, employeeID string) ([]RecordResponse, error)
	GeneratePayslips(ctx context.Context, companyID, runID string) (int, error)
	Delete(ctx context.Context, companyID, id string) error
}

// EmployeeDirectory is the slice of the employee domain the aggregator
// needs: the tenant's active payroll population.
type EmployeeDirectory interface {
	FindActiveByCompany(ctx context.Context, companyID string) ([]employee.Employee, error)
}

// ComponentResolver returns a grade's salary components; empty for an
// unknown grade id.
type ComponentResolver interface {
	FindComponentsByGrade(ctx context.Context, companyID string, gradeID string) ([]grade.SalaryComponent, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  EmployeeDirectory
	components ComponentResolver
	outbox     kafka.OutboxRepository
	rdb        *redis.Client
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees EmployeeDirectory,
	components ComponentResolver,
) Service {
	return &service{db: db, repo: repo, employees: employees, components: components}
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees EmployeeDirectory,
	components ComponentResolver,
	outbox kafka.OutboxRepository,
	rdb ...*redis.Client,
) Service {
	svc := &service{db: db, repo: repo, employees: employees, components: components, outbox: outbox}
	if len(rdb) > 0 {
		svc.rdb = rdb[0]
	}
	return svc
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreateRunRequest,
) (RunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	if req.Month < 1 || req.Month > 12 {
		return RunResponse{}, payrollerrors.ErrInvalidMonth
	}
	if req.Year < 1900 || req.Year > 9999 {
		return RunResponse{}, payrollerrors.ErrInvalidYear
	}

	run := &PayrollRun{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		Month:           req.Month,
		Year:            req.Year,
		Status:          StatusDraft,
		TotalGrossPay:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNetPay:     decimal.Zero,
	}

	if err := qtx.CreateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	return mapToResponse(*run), nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]RunResponse, error) {
	runs, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(runs), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (RunResponse, error) {
	run, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RunResponse{}, mapRunError(err)
	}

	return mapToResponse(*run), nil
}

// Process runs payroll for every active employee of the tenant: resolve the
// grade's components, compute pay, snapshot a record with its lines, fold
// into run totals. Everything commits in one transaction so totals are never
// visible without the records that produced them.
func (s *service) Process(
	ctx context.Context,
	companyID, actorID, id string,
) (RunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	unlock, err := s.acquireRunLock(ctx, id)
	if err != nil {
		return RunResponse{}, err
	}
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RunResponse{}, mapRunError(err)
	}

	// Re-processing is rejected outright; a processed run keeps its records.
	if run.Status != StatusDraft {
		return RunResponse{}, payrollerrors.InvalidTransition(run.Status, "process")
	}

	actives, err := s.employees.FindActiveByCompany(ctx, companyID)
	if err != nil {
		return RunResponse{}, err
	}

	// Per-employee computation is independent, so it fans out; results land
	// in disjoint slots and persistence happens afterwards on the tx.
	records := make([]PayrollRecord, len(actives))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(processConcurrency)

	for i := range actives {
		i := i
		emp := actives[i]
		g.Go(func() error {
			var components []grade.SalaryComponent
			if emp.GradeID != nil {
				var err error
				components, err = s.components.FindComponentsByGrade(gctx, companyID, emp.GradeID.String())
				if err != nil {
					return err
				}
			}

			records[i] = buildRecord(run.ID, emp, components)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return RunResponse{}, err
	}

	totalGross := decimal.Zero
	totalDeductions := decimal.Zero
	totalNet := decimal.Zero
	for i := range records {
		totalGross = totalGross.Add(records[i].GrossPay)
		totalDeductions = totalDeductions.Add(records[i].TotalDeductions)
		totalNet = totalNet.Add(records[i].NetPay)
	}

	if err := qtx.InsertRecords(ctx, records); err != nil {
		return RunResponse{}, mapRecordInsertError(err)
	}

	now := time.Now().UTC()
	run.Status = StatusProcessing
	run.TotalGrossPay = totalGross
	run.TotalDeductions = totalDeductions
	run.TotalNetPay = totalNet
	run.EmployeeCount = len(records)
	run.ProcessedBy = &actorUUID
	run.ProcessedAt = &now

	if err := qtx.UpdateRun(ctx, run, StatusDraft); err != nil {
		return RunResponse{}, mapRunError(err)
	}

	if s.outbox != nil {
		if err := s.enqueueRunProcessed(ctx, tx, run, actorID); err != nil {
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	contextutil.GetLogger(ctx, nil).Info("payroll run processed",
		zap.String("run_id", run.ID.String()),
		zap.Int("employee_count", run.EmployeeCount),
		zap.String("total_net_pay", run.TotalNetPay.String()),
	)

	return mapToResponse(*run), nil
}

func (s *service) Approve(
	ctx context.Context,
	companyID, actorID, id string,
) (RunResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RunResponse{}, mapRunError(err)
	}

	if run.Status != StatusProcessing {
		return RunResponse{}, payrollerrors.InvalidTransition(run.Status, "approve")
	}

	now := time.Now().UTC()
	run.Status = StatusApproved
	run.ApprovedBy = &actorUUID
	run.ApprovedAt = &now

	if err := qtx.UpdateRun(ctx, run, StatusProcessing); err != nil {
		return RunResponse{}, mapRunError(err)
	}

	if s.outbox != nil {
		if err := s.enqueuePayslipsRequested(ctx, tx, run, actorID); err != nil {
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	contextutil.GetLogger(ctx, nil).Info("payroll run approved",
		zap.String("run_id", run.ID.String()),
	)

	return mapToResponse(*run), nil
}

func (s *service) MarkAsPaid(
	ctx context.Context,
	companyID, id string,
) (RunResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RunResponse{}, mapRunError(err)
	}

	if run.Status != StatusApproved {
		return RunResponse{}, payrollerrors.InvalidTransition(run.Status, "mark paid")
	}

	now := time.Now().UTC()
	run.Status = StatusPaid
	run.PaidAt = &now

	if err := qtx.UpdateRun(ctx, run, StatusApproved); err != nil {
		return RunResponse{}, mapRunError(err)
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	return mapToResponse(*run), nil
}

func (s *service) GetRecords(
	ctx context.Context,
	companyID, runID string,
) ([]RecordResponse, error) {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, runID); err != nil {
		return nil, mapRunError(err)
	}

	records, err := s.repo.FindRecordsByRun(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}

	return mapRecordsToResponse(records), nil
}

func (s *service) GetRecordsForEmployee(
	ctx context.Context,
	companyID, employeeID string,
) ([]RecordResponse, error) {
	records, err := s.repo.FindRecordsByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}

	return mapRecordsToResponse(records), nil
}

// GeneratePayslips renders one PDF per record of a processed run and stores
// the public URL back on the record. Safe to re-run; files are overwritten.
func (s *service) GeneratePayslips(
	ctx context.Context,
	companyID, runID string,
) (int, error) {
	run, err := s.repo.FindByIDAndCompany(ctx, companyID, runID)
	if err != nil {
		return 0, mapRunError(err)
	}

	if run.Status == StatusDraft {
		return 0, payrollerrors.ErrPayslipNotReady
	}

	records, err := s.repo.FindRecordsByRun(ctx, companyID, runID)
	if err != nil {
		return 0, err
	}

	generated := 0
	for i := range records {
		url, err := writeRecordPayslip(run, &records[i])
		if err != nil {
			return generated, err
		}
		if err := s.repo.SetRecordPayslipURL(ctx, records[i].ID.String(), url); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return generated, payrollerrors.ErrRecordNotFound
			}
			return generated, err
		}
		generated++
	}

	contextutil.GetLogger(ctx, nil).Info("payslips generated",
		zap.String("run_id", runID),
		zap.Int("count", generated),
	)

	return generated, nil
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

	run, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRunError(err)
	}

	// Processed runs are audit history and must never be deleted.
	if run.Status != StatusDraft {
		return payrollerrors.ErrDeleteOnlyDraft
	}

	if err := qtx.DeleteRun(ctx, companyID, id); err != nil {
		return err
	}

	return tx.Commit()
}

// acquireRunLock serializes Process calls against the same run across
// instances. Without redis the database status guard still protects the run.
func (s *service) acquireRunLock(ctx context.Context, runID string) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}

	key := "payroll:run:lock:" + runID
	ok, err := s.rdb.SetNX(ctx, key, "locked", runLockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, payrollerrors.ErrRunLocked
	}

	return func() {
		s.rdb.Del(context.Background(), key)
	}, nil
}

func buildRecord(runID uuid.UUID, emp employee.Employee, components []grade.SalaryComponent) PayrollRecord {
	calc := Compute(emp.BaseSalary, components)

	rec := PayrollRecord{
		ID:                uuid.New(),
		PayrollRunID:      runID,
		EmployeeID:        emp.ID,
		BaseSalary:        calc.BaseSalary,
		GrossPay:          calc.GrossPay,
		TotalEarnings:     calc.TotalEarnings,
		TotalDeductions:   calc.TotalDeductions,
		NetPay:            calc.NetPay,
		BankName:          emp.BankName,
		BankAccountNumber: emp.BankAccountNumber,
		BankAccountName:   emp.BankAccountName,
	}

	if emp.GradeID != nil {
		gradeID := *emp.GradeID
		rec.GradeID = &gradeID
	}

	rec.Lines = make([]PayrollLine, len(components))
	for i, c := range components {
		rec.Lines[i] = PayrollLine{
			ID:              uuid.New(),
			PayrollRecordID: rec.ID,
			ComponentID:     c.ID,
			Name:            c.Name,
			Kind:            c.Kind,
			Amount:          parseAmount(c.Amount),
			Taxable:         c.Taxable,
		}
	}

	return rec
}

func (s *service) enqueueRunProcessed(ctx context.Context, tx *sql.Tx, run *PayrollRun, actorID string) error {
	event := events.PayrollRunProcessedEvent{
		EventType:     "payroll_run_processed",
		RunID:         run.ID.String(),
		CompanyID:     run.CompanyID.String(),
		ProcessedBy:   actorID,
		EmployeeCount: run.EmployeeCount,
		TotalNetPay:   run.TotalNetPay.String(),
		OccurredAt:    time.Now().UTC(),
	}
	return s.enqueue(ctx, tx, run, events.PayrollRunProcessedTopic, event.EventType, event)
}

func (s *service) enqueuePayslipsRequested(ctx context.Context, tx *sql.Tx, run *PayrollRun, actorID string) error {
	event := events.PayrollPayslipsRequestedEvent{
		EventType:   "payroll_payslips_requested",
		RunID:       run.ID.String(),
		CompanyID:   run.CompanyID.String(),
		RequestedBy: actorID,
		OccurredAt:  time.Now().UTC(),
	}
	return s.enqueue(ctx, tx, run, events.PayrollPayslipsRequestedTopic, event.EventType, event)
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, run *PayrollRun, topic, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "payroll_run",
		AggregateID:   run.ID.String(),
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapRunError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrRunNotFound
	}
	if errors.Is(err, ErrNoRowsUpdated) {
		return payrollerrors.ErrRunConcurrentlyModified
	}
	return err
}

func mapToResponse(run PayrollRun) RunResponse {
	resp := RunResponse{
		ID:              run.ID.String(),
		CompanyID:       run.CompanyID.String(),
		Month:           run.Month,
		Year:            run.Year,
		Status:          run.Status,
		TotalGrossPay:   run.TotalGrossPay.String(),
		TotalDeductions: run.TotalDeductions.String(),
		TotalNetPay:     run.TotalNetPay.String(),
		EmployeeCount:   run.EmployeeCount,
	}

	if run.ProcessedBy != nil {
		v := run.ProcessedBy.String()
		resp.ProcessedBy = &v
	}
	if run.ApprovedBy != nil {
		v := run.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if run.ProcessedAt != nil {
		v := run.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &v
	}
	if run.ApprovedAt != nil {
		v := run.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if run.PaidAt != nil {
		v := run.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}

	return resp
}

func mapToListResponse(runs []PayrollRun) []RunResponse {
	resp := make([]RunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapToResponse(run)
	}
	return resp
}

func mapRecordsToResponse(records []PayrollRecord) []RecordResponse {
	resp := make([]RecordResponse, len(records))
	for i, rec := range records {
		r := RecordResponse{
			ID:                rec.ID.String(),
			PayrollRunID:      rec.PayrollRunID.String(),
			EmployeeID:        rec.EmployeeID.String(),
			BaseSalary:        rec.BaseSalary.String(),
			GrossPay:          rec.GrossPay.String(),
			TotalEarnings:     rec.TotalEarnings.String(),
			TotalDeductions:   rec.TotalDeductions.String(),
			NetPay:            rec.NetPay.String(),
			BankName:          rec.BankName,
			BankAccountNumber: rec.BankAccountNumber,
			BankAccountName:   rec.BankAccountName,
			PayslipURL:        rec.PayslipURL,
			Lines:             make([]LineResponse, len(rec.Lines)),
		}
		if rec.GradeID != nil {
			v := rec.GradeID.String()
			r.GradeID = &v
		}
		for j, line := range rec.Lines {
			r.Lines[j] = LineResponse{
				ID:          line.ID.String(),
				ComponentID: line.ComponentID.String(),
				Name:        line.Name,
				Kind:        line.Kind,
				Amount:      line.Amount.String(),
				Taxable:     line.Taxable,
			}
		}
		resp[i] = r
	}
	return resp
}
