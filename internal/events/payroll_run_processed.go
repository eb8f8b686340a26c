package events

import "time"

const PayrollRunProcessedTopic = "erp.payroll.run.processed.v1"

type PayrollRunProcessedEvent struct {
	EventType     string    `json:"event_type"`
	RunID         string    `json:"run_id"`
	CompanyID     string    `json:"company_id"`
	ProcessedBy   string    `json:"processed_by"`
	EmployeeCount int       `json:"employee_count"`
	TotalNetPay   string    `json:"total_net_pay"`
	OccurredAt    time.Time `json:"occurred_at"`
}
