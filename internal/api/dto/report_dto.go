package dto

// RunReportRequest payload. Every field is optional; blank fields fall
// back to the service configuration.
type RunReportRequest struct {
	BaseURL    string `json:"base_url"`
	Token      string `json:"token"`
	ProjectID  string `json:"project_id"`
	BoardID    string `json:"board_id"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	User       string `json:"user"`
	Passwd     string `json:"passwd"`
	Sender     string `json:"sender"`
	Recipients string `json:"recipients"`
}

// RunReportResponse summarizes a completed report run.
type RunReportResponse struct {
	RunID          string `json:"run_id"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	Engagement     string `json:"engagement"`
	TicketCount    int    `json:"ticket_count"`
	ActiveCount    int    `json:"active_count"`
	CompletedCount int    `json:"completed_count"`
	RiskCount      int    `json:"risk_count"`
	Recipients     int    `json:"recipients"`
	DurationMS     int64  `json:"duration_ms"`
}
