package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/board-report/internal/carrier"
	"github.com/spec-kit/board-report/internal/config"
	"github.com/spec-kit/board-report/internal/domain"
	"github.com/spec-kit/board-report/internal/events"
	"github.com/spec-kit/board-report/internal/mailer"
	"github.com/spec-kit/board-report/internal/render"
	apperrors "github.com/spec-kit/board-report/pkg/util"
)

const reportSubject = "Project Status Update"

// CarrierClient is the slice of the carrier API the pipeline needs.
type CarrierClient interface {
	FetchTickets(ctx context.Context, projectID, boardID string) ([]domain.Ticket, error)
	FetchAuditLogs(ctx context.Context, projectID string, ticketIDs []int64, since time.Time) ([]domain.AuditLogEntry, error)
}

// CarrierFactory builds a carrier client for one run's credentials.
type CarrierFactory func(baseURL, token string) (CarrierClient, error)

// MailerFactory builds a mailer for one run's relay settings.
type MailerFactory func(cfg config.SMTPConfig) mailer.Mailer

// ReportService runs the fetch, compose and deliver pipeline.
type ReportService struct {
	summaries  *SummaryService
	renderer   *render.Renderer
	carrierCfg config.CarrierConfig
	smtpCfg    config.SMTPConfig
	newCarrier CarrierFactory
	newMailer  MailerFactory
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	Summaries  *SummaryService
	Renderer   *render.Renderer
	CarrierCfg config.CarrierConfig
	SMTPCfg    config.SMTPConfig
	NewCarrier CarrierFactory
	NewMailer  MailerFactory
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// RunInput carries one run's parameters. Empty fields fall back to the
// configured defaults.
type RunInput struct {
	BaseURL    string
	Token      string
	ProjectID  string
	BoardID    string
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	Sender     string
	Recipients string
	Trigger    events.Trigger
}

// RunResult summarizes a delivered report.
type RunResult struct {
	RunID          string
	Message        string
	Engagement     string
	TicketCount    int
	ActiveCount    int
	CompletedCount int
	RiskCount      int
	Recipients     int
	Duration       time.Duration
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	newCarrier := deps.NewCarrier
	if newCarrier == nil {
		newCarrier = func(baseURL, token string) (CarrierClient, error) {
			return carrier.NewClient(baseURL, token)
		}
	}
	newMailer := deps.NewMailer
	if newMailer == nil {
		newMailer = func(cfg config.SMTPConfig) mailer.Mailer {
			return mailer.NewSMTPMailer(cfg, logger)
		}
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		summaries:  deps.Summaries,
		renderer:   deps.Renderer,
		carrierCfg: deps.CarrierCfg,
		smtpCfg:    deps.SMTPCfg,
		newCarrier: newCarrier,
		newMailer:  newMailer,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// Run executes one report pipeline end to end. Any failure aborts the run
// before delivery; a partial report is never emailed.
func (s *ReportService) Run(ctx context.Context, input RunInput) (*RunResult, error) {
	runID := uuid.NewString()
	start := s.now()

	baseURL := firstNonEmpty(input.BaseURL, s.carrierCfg.BaseURL)
	token := firstNonEmpty(input.Token, s.carrierCfg.Token)
	projectID := firstNonEmpty(input.ProjectID, s.carrierCfg.ProjectID)
	boardID := firstNonEmpty(input.BoardID, s.carrierCfg.BoardID)

	fail := func(err error) (*RunResult, error) {
		domainErr := apperrors.ToDomainError(err)
		s.publishEvent(ctx, events.Event{
			Type:    events.EventReportRunFailed,
			RunID:   runID,
			Trigger: input.Trigger,
			Payload: events.ReportRunFailedPayload{
				ProjectID: projectID,
				BoardID:   boardID,
				Code:      domainErr.Code,
				Reason:    domainErr.Message,
				Duration:  s.now().Sub(start),
			},
		})
		s.logger.Error("report run failed",
			zap.String("run_id", runID),
			zap.String("code", domainErr.Code),
			zap.Error(domainErr))
		return nil, err
	}

	if projectID == "" {
		return fail(apperrors.NewValidationError("project_id is required", nil))
	}
	if boardID == "" {
		return fail(apperrors.NewValidationError("board_id is required", nil))
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventReportRunStarted,
		RunID:   runID,
		Trigger: input.Trigger,
		Payload: events.ReportRunStartedPayload{ProjectID: projectID, BoardID: boardID},
	})

	client, err := s.newCarrier(baseURL, token)
	if err != nil {
		return fail(err)
	}

	tickets, err := client.FetchTickets(ctx, projectID, boardID)
	if err != nil {
		return fail(err)
	}

	summary, err := s.summaries.Categorize(tickets)
	if err != nil {
		return fail(err)
	}
	risks := s.summaries.Risks(tickets)

	now := s.now()
	entries, err := client.FetchAuditLogs(ctx, projectID, ticketIDs(tickets), now.Add(-s.summaries.Window()))
	if err != nil {
		return fail(err)
	}
	completed := s.summaries.RecentCompletions(entries, summary.Done, now)

	html, err := s.renderer.RenderBoardSummary(render.Report{
		Engagement:  engagementName(tickets),
		GeneratedAt: now,
		Summary:     summary,
		Risks:       risks,
		Completed:   completed,
	})
	if err != nil {
		return fail(apperrors.NewInternalError(err))
	}

	smtpCfg := s.effectiveSMTP(input)
	if err := s.newMailer(smtpCfg).SendReport(ctx, reportSubject, html); err != nil {
		return fail(err)
	}

	result := &RunResult{
		RunID:          runID,
		Message:        "Email has been sent",
		Engagement:     engagementName(tickets),
		TicketCount:    summary.Total(),
		ActiveCount:    len(summary.Active()),
		CompletedCount: len(completed),
		RiskCount:      len(risks),
		Recipients:     len(smtpCfg.RecipientList()),
		Duration:       s.now().Sub(start),
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventReportRunSucceeded,
		RunID:   runID,
		Trigger: input.Trigger,
		Payload: events.ReportRunSucceededPayload{
			ProjectID:      projectID,
			BoardID:        boardID,
			TicketCount:    result.TicketCount,
			ActiveCount:    result.ActiveCount,
			CompletedCount: result.CompletedCount,
			RiskCount:      result.RiskCount,
			Recipients:     result.Recipients,
			Duration:       result.Duration,
		},
	})
	s.logger.Info("report run succeeded",
		zap.String("run_id", runID),
		zap.Int("tickets", result.TicketCount),
		zap.Int("completed", result.CompletedCount),
		zap.Int("risks", result.RiskCount),
		zap.Int("recipients", result.Recipients))
	return result, nil
}

func (s *ReportService) effectiveSMTP(input RunInput) config.SMTPConfig {
	cfg := s.smtpCfg
	cfg.Host = firstNonEmpty(input.SMTPHost, cfg.Host)
	if input.SMTPPort > 0 {
		cfg.Port = input.SMTPPort
	}
	cfg.User = firstNonEmpty(input.SMTPUser, cfg.User)
	cfg.Password = firstNonEmpty(input.SMTPPass, cfg.Password)
	cfg.Sender = firstNonEmpty(input.Sender, cfg.Sender)
	cfg.Recipients = firstNonEmpty(input.Recipients, cfg.Recipients)
	return cfg
}

func (s *ReportService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// engagementName takes the engagement from the first fetched ticket; an empty
// board reports N/A.
func engagementName(tickets []domain.Ticket) string {
	if len(tickets) == 0 || tickets[0].Engagement == nil {
		return "N/A"
	}
	return tickets[0].Engagement.Name
}

func ticketIDs(tickets []domain.Ticket) []int64 {
	ids := make([]int64, 0, len(tickets))
	for _, ticket := range tickets {
		ids = append(ids, ticket.ID)
	}
	return ids
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
