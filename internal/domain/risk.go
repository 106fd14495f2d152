package domain

// RiskPredicate decides which tickets the report flags as risks. The risks
// view overlays the status partition; it is not disjoint from it.
type RiskPredicate struct {
	Statuses   []TicketStatus
	Severities []Severity
}

// DefaultRiskPredicate flags blocked tickets and critical severities.
func DefaultRiskPredicate() RiskPredicate {
	return RiskPredicate{
		Statuses:   []TicketStatus{TicketStatusBlocked},
		Severities: []Severity{SeverityCritical},
	}
}

// Matches reports whether the ticket counts as a risk under this predicate.
func (p RiskPredicate) Matches(t Ticket) bool {
	for _, status := range p.Statuses {
		if t.Status == status {
			return true
		}
	}
	for _, severity := range p.Severities {
		if t.Severity == severity {
			return true
		}
	}
	return false
}
