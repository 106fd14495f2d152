package domain

import "strings"

// TicketStatus enumerates workflow states for board tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusInReview   TicketStatus = "in_review"
	TicketStatusBlocked    TicketStatus = "blocked"
	TicketStatusDone       TicketStatus = "done"
)

// Statuses lists every known status in report order.
func Statuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusOpen,
		TicketStatusInProgress,
		TicketStatusInReview,
		TicketStatusBlocked,
		TicketStatusDone,
	}
}

// NormalizeStatus lower-cases a raw status value without validating it.
func NormalizeStatus(raw string) TicketStatus {
	return TicketStatus(strings.ToLower(strings.TrimSpace(raw)))
}

// ParseStatus normalizes a raw upstream status value. The enumeration is
// closed: values outside it report ok=false and the caller decides how to
// fail. Statuses never silently coerce.
func ParseStatus(raw string) (TicketStatus, bool) {
	status := NormalizeStatus(raw)
	switch status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusInReview,
		TicketStatusBlocked, TicketStatusDone:
		return status, true
	}
	return "", false
}

// Severity grades a ticket's impact.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// NormalizeSeverity lower-cases a raw severity value. Unlike status the set
// is open: unknown severities pass through normalized.
func NormalizeSeverity(raw string) Severity {
	return Severity(strings.ToLower(strings.TrimSpace(raw)))
}

// Assignee is the user a ticket is assigned to, if any.
type Assignee struct {
	ID   int64
	Name string
}

// Engagement identifies the client engagement a board belongs to.
type Engagement struct {
	ID   int64
	Name string
}

// Ticket is a read-only snapshot of a board ticket taken for one report run.
type Ticket struct {
	ID         int64
	Title      string
	Status     TicketStatus
	Type       string
	Assignee   *Assignee
	Severity   Severity
	StartDate  string
	Engagement *Engagement
}
