package service

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/board-report/internal/domain"
	apperrors "github.com/spec-kit/board-report/pkg/util"
)

const defaultCompletionWindow = 5 * 24 * time.Hour

// SummaryService categorizes board tickets and detects recent completions.
type SummaryService struct {
	risks  domain.RiskPredicate
	window time.Duration
	logger *zap.Logger
}

// SummaryDependencies bundles configuration for the summary service.
type SummaryDependencies struct {
	Risks  domain.RiskPredicate
	Window time.Duration
	Logger *zap.Logger
}

// NewSummaryService constructs the service.
func NewSummaryService(deps SummaryDependencies) *SummaryService {
	window := deps.Window
	if window <= 0 {
		window = defaultCompletionWindow
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{
		risks:  deps.Risks,
		window: window,
		logger: logger,
	}
}

// Window returns the completion lookback duration.
func (s *SummaryService) Window() time.Duration {
	return s.window
}

// Categorize partitions tickets into status buckets sorted by start date.
// Every ticket lands in exactly one bucket; a status outside the enumeration
// fails the whole run instead of dropping the ticket silently.
func (s *SummaryService) Categorize(tickets []domain.Ticket) (*domain.TicketsSummary, error) {
	summary := &domain.TicketsSummary{}
	for _, ticket := range tickets {
		if !summary.Add(ticket) {
			return nil, apperrors.NewUnknownStatusError(string(ticket.Status), map[string]any{
				"ticket_id": ticket.ID,
				"title":     ticket.Title,
			})
		}
	}
	summary.SortBuckets()
	return summary, nil
}

// Risks filters tickets through the configured risk predicate. The overlay is
// evaluated over the full input, independently of the status partition.
func (s *SummaryService) Risks(tickets []domain.Ticket) []domain.Ticket {
	var out []domain.Ticket
	for _, ticket := range tickets {
		if s.risks.Matches(ticket) {
			out = append(out, ticket)
		}
	}
	return out
}

// RecentCompletions joins done-transitions against the done bucket. The scan
// keeps the latest transition per ticket regardless of entry order, drops
// timestamps outside [now-window, now], and orders results newest first.
func (s *SummaryService) RecentCompletions(entries []domain.AuditLogEntry, done []domain.Ticket, now time.Time) []domain.CompletedTicket {
	latest := make(map[int64]time.Time)
	for _, entry := range entries {
		if !entry.DoneTransition() {
			continue
		}
		if seen, ok := latest[entry.TicketID]; !ok || entry.CreatedAt.After(seen) {
			latest[entry.TicketID] = entry.CreatedAt
		}
	}

	windowStart := now.Add(-s.window)
	var out []domain.CompletedTicket
	for _, ticket := range done {
		completedAt, ok := latest[ticket.ID]
		if !ok {
			continue
		}
		if completedAt.Before(windowStart) || completedAt.After(now) {
			continue
		}
		out = append(out, domain.CompletedTicket{Ticket: ticket, CompletedAt: completedAt})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})

	s.logger.Debug("recent completions detected",
		zap.Int("transitions", len(latest)),
		zap.Int("completed", len(out)))
	return out
}
