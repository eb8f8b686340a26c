package events

import "time"

const PayrollPayslipsRequestedTopic = "erp.payroll.payslips.requested.v1"

type PayrollPayslipsRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RunID       string    `json:"run_id"`
	CompanyID   string    `json:"company_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
