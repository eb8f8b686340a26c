package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayrollPayslipsRequested renders payslips for every record of an
// approved run. Messages that fail to decode are committed and dropped;
// generation failures leave the message uncommitted for redelivery.
func ConsumePayrollPayslipsRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_payslips")
	log.Info("payroll payslips consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll payslips consumer stopped")
				return
			}
			log.Error("fetch payroll payslips message failed", zap.Error(err))
			continue
		}

		var event events.PayrollPayslipsRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll payslips event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		count, err := payrollService.GeneratePayslips(ctx, event.CompanyID, event.RunID)
		if err != nil {
			log.Error("generate payslips failed",
				zap.String("run_id", event.RunID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll payslips message failed", zap.Error(err))
			continue
		}

		log.Info("payslips generated",
			zap.String("run_id", event.RunID),
			zap.String("company_id", event.CompanyID),
			zap.Int("count", count),
		)
	}
}
