package domain

import (
	"strings"
	"time"
)

// FieldChange records one field's old and new value in an audit entry.
type FieldChange struct {
	OldValue any
	NewValue any
}

// AuditLogEntry is an immutable audit trail record for a ticket.
type AuditLogEntry struct {
	TicketID  int64
	Action    string
	Changes   map[string]FieldChange
	CreatedAt time.Time
}

// DoneTransition reports whether the entry records an update that moved the
// ticket's status to done.
func (e AuditLogEntry) DoneTransition() bool {
	if !strings.EqualFold(strings.TrimSpace(e.Action), "update") {
		return false
	}
	change, ok := e.Changes["status"]
	if !ok {
		return false
	}
	next, ok := change.NewValue.(string)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(next), string(TicketStatusDone))
}
