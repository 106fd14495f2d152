package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportRunStarted   EventType = "report_run_started"
	EventReportRunSucceeded EventType = "report_run_succeeded"
	EventReportRunFailed    EventType = "report_run_failed"
)

// Trigger records what initiated a report run.
type Trigger struct {
	Source  string `json:"source"`
	Subject string `json:"subject,omitempty"`
}

// Event represents a run lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RunID     string      `json:"run_id"`
	Trigger   Trigger     `json:"trigger"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportRunStartedPayload payload.
type ReportRunStartedPayload struct {
	ProjectID string `json:"project_id"`
	BoardID   string `json:"board_id"`
}

// ReportRunSucceededPayload payload.
type ReportRunSucceededPayload struct {
	ProjectID      string        `json:"project_id"`
	BoardID        string        `json:"board_id"`
	TicketCount    int           `json:"ticket_count"`
	ActiveCount    int           `json:"active_count"`
	CompletedCount int           `json:"completed_count"`
	RiskCount      int           `json:"risk_count"`
	Recipients     int           `json:"recipients"`
	Duration       time.Duration `json:"duration"`
}

// ReportRunFailedPayload payload.
type ReportRunFailedPayload struct {
	ProjectID string        `json:"project_id"`
	BoardID   string        `json:"board_id"`
	Code      string        `json:"code"`
	Reason    string        `json:"reason"`
	Duration  time.Duration `json:"duration"`
}
