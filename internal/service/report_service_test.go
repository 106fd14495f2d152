package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/board-report/internal/config"
	"github.com/spec-kit/board-report/internal/domain"
	"github.com/spec-kit/board-report/internal/events"
	"github.com/spec-kit/board-report/internal/mailer"
	"github.com/spec-kit/board-report/internal/render"
	apperrors "github.com/spec-kit/board-report/pkg/util"
)

var testNow = time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)

func boardTickets() []domain.Ticket {
	return []domain.Ticket{
		{
			ID:         58,
			Title:      "Harden ingress",
			Status:     domain.TicketStatusInProgress,
			Severity:   domain.SeverityHigh,
			StartDate:  "2024-11-28",
			Assignee:   &domain.Assignee{ID: 4, Name: "Dana"},
			Engagement: &domain.Engagement{ID: 9, Name: "Acme Q4"},
		},
		{
			ID:        59,
			Title:     "Rotate keys",
			Status:    domain.TicketStatusDone,
			StartDate: "2024-11-25",
		},
		{
			ID:        60,
			Title:     "Vendor dependency",
			Status:    domain.TicketStatusBlocked,
			StartDate: "2024-11-20",
		},
	}
}

type reportHarness struct {
	svc        *ReportService
	carrier    *fakeCarrier
	mail       *fakeMailer
	dispatcher *recordingDispatcher
	carrierErr error
	lastURL    string
	lastToken  string
	smtpSeen   *config.SMTPConfig
}

func newReportHarness(t *testing.T, fc *fakeCarrier, fm *fakeMailer) *reportHarness {
	t.Helper()

	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	h := &reportHarness{carrier: fc, mail: fm, dispatcher: &recordingDispatcher{}}
	h.svc = NewReportService(ReportDependencies{
		Summaries: NewSummaryService(SummaryDependencies{
			Risks:  domain.DefaultRiskPredicate(),
			Window: 5 * 24 * time.Hour,
		}),
		Renderer: renderer,
		CarrierCfg: config.CarrierConfig{
			BaseURL:   "https://carrier.example.com",
			Token:     "env-token",
			ProjectID: "61",
			BoardID:   "8",
		},
		SMTPCfg: config.SMTPConfig{
			Host:       "smtp.example.com",
			Port:       465,
			User:       "reports",
			Password:   "secret",
			Sender:     "reports@example.com",
			Recipients: "lead@example.com,pm@example.com",
		},
		NewCarrier: func(baseURL, token string) (CarrierClient, error) {
			h.lastURL = baseURL
			h.lastToken = token
			if h.carrierErr != nil {
				return nil, h.carrierErr
			}
			return h.carrier, nil
		},
		NewMailer: func(cfg config.SMTPConfig) mailer.Mailer {
			h.smtpSeen = &cfg
			return h.mail
		},
		Dispatcher: h.dispatcher,
		Now:        func() time.Time { return testNow },
	})
	return h
}

func TestRunDeliversReport(t *testing.T) {
	fc := &fakeCarrier{
		Tickets: boardTickets(),
		Entries: []domain.AuditLogEntry{doneEntry(59, testNow.Add(-26*time.Hour))},
	}
	fm := &fakeMailer{}
	h := newReportHarness(t, fc, fm)

	result, err := h.svc.Run(context.Background(), RunInput{Trigger: events.Trigger{Source: "api"}})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "Email has been sent", result.Message)
	assert.Equal(t, "Acme Q4", result.Engagement)
	assert.Equal(t, 3, result.TicketCount)
	assert.Equal(t, 2, result.ActiveCount)
	assert.Equal(t, 1, result.CompletedCount)
	assert.Equal(t, 1, result.RiskCount)
	assert.Equal(t, 2, result.Recipients)

	// Configured defaults reach the carrier.
	assert.Equal(t, "https://carrier.example.com", h.lastURL)
	assert.Equal(t, "env-token", h.lastToken)
	assert.Equal(t, "61", fc.LastProjectID)
	assert.Equal(t, "8", fc.LastBoardID)
	assert.Equal(t, []int64{58, 59, 60}, fc.LastTicketIDs)
	assert.Equal(t, testNow.Add(-5*24*time.Hour), fc.LastSince)

	// One email, fixed subject, body carries the engagement.
	require.Len(t, fm.Sent, 1)
	assert.Equal(t, "Project Status Update", fm.Sent[0].Subject)
	assert.Contains(t, fm.Sent[0].Body, "Acme Q4")
	assert.Contains(t, fm.Sent[0].Body, "Rotate keys")

	assert.Equal(t,
		[]events.EventType{events.EventReportRunStarted, events.EventReportRunSucceeded},
		h.dispatcher.Types())
}

func TestRunEmptyBoard(t *testing.T) {
	fc := &fakeCarrier{}
	fm := &fakeMailer{}
	h := newReportHarness(t, fc, fm)

	result, err := h.svc.Run(context.Background(), RunInput{})
	require.NoError(t, err)

	assert.Equal(t, "N/A", result.Engagement)
	assert.Zero(t, result.TicketCount)
	assert.Zero(t, result.CompletedCount)

	// The empty report still goes out.
	require.Len(t, fm.Sent, 1)
	assert.Contains(t, fm.Sent[0].Body, "N/A")
}

func TestRunInputOverrides(t *testing.T) {
	fc := &fakeCarrier{Tickets: boardTickets()}
	fm := &fakeMailer{}
	h := newReportHarness(t, fc, fm)

	_, err := h.svc.Run(context.Background(), RunInput{
		BaseURL:    "https://other.example.com",
		Token:      "event-token",
		ProjectID:  "99",
		BoardID:    "3",
		SMTPHost:   "relay.example.com",
		SMTPPort:   2465,
		Sender:     "alerts@example.com",
		Recipients: "ops@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://other.example.com", h.lastURL)
	assert.Equal(t, "event-token", h.lastToken)
	assert.Equal(t, "99", fc.LastProjectID)
	assert.Equal(t, "3", fc.LastBoardID)

	require.NotNil(t, h.smtpSeen)
	assert.Equal(t, "relay.example.com", h.smtpSeen.Host)
	assert.Equal(t, 2465, h.smtpSeen.Port)
	assert.Equal(t, "alerts@example.com", h.smtpSeen.Sender)
	assert.Equal(t, []string{"ops@example.com"}, h.smtpSeen.RecipientList())
	// Credentials fall back to the configured defaults.
	assert.Equal(t, "reports", h.smtpSeen.User)
}

func TestRunValidation(t *testing.T) {
	t.Run("missing project aborts before any fetch", func(t *testing.T) {
		fc := &fakeCarrier{}
		fm := &fakeMailer{}
		h := newReportHarness(t, fc, fm)
		h.svc.carrierCfg.ProjectID = ""

		_, err := h.svc.Run(context.Background(), RunInput{})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.ErrorCode(err))
		assert.Zero(t, fc.FetchCount)
		assert.Empty(t, fm.Sent)
	})

	t.Run("missing carrier URL surfaces the constructor error", func(t *testing.T) {
		fc := &fakeCarrier{}
		fm := &fakeMailer{}
		h := newReportHarness(t, fc, fm)
		h.carrierErr = apperrors.NewValidationError("Carrier URL is required.", nil)

		_, err := h.svc.Run(context.Background(), RunInput{})
		require.Error(t, err)
		assert.Equal(t, "Carrier URL is required.", err.Error())
		assert.Empty(t, fm.Sent)
	})
}

func TestRunFailureTaxonomy(t *testing.T) {
	t.Run("fetch failures leave the mailer untouched", func(t *testing.T) {
		fc := &fakeCarrier{TicketsErr: apperrors.NewNetworkError("carrier request failed", nil)}
		fm := &fakeMailer{}
		h := newReportHarness(t, fc, fm)

		_, err := h.svc.Run(context.Background(), RunInput{})
		require.Error(t, err)
		assert.Equal(t, "NETWORK_ERROR", apperrors.ErrorCode(err))
		assert.Empty(t, fm.Sent)

		types := h.dispatcher.Types()
		require.Len(t, types, 2)
		assert.Equal(t, events.EventReportRunFailed, types[1])
	})

	t.Run("unknown status aborts before delivery", func(t *testing.T) {
		tickets := boardTickets()
		tickets[0].Status = "archived"
		fc := &fakeCarrier{Tickets: tickets}
		fm := &fakeMailer{}
		h := newReportHarness(t, fc, fm)

		_, err := h.svc.Run(context.Background(), RunInput{})
		require.Error(t, err)
		assert.Equal(t, "UNKNOWN_STATUS", apperrors.ErrorCode(err))
		assert.Zero(t, fc.AuditCount)
		assert.Empty(t, fm.Sent)
	})

	t.Run("audit failures abort the run", func(t *testing.T) {
		fc := &fakeCarrier{
			Tickets:  boardTickets(),
			AuditErr: apperrors.NewAuthError("carrier rejected the API token", nil),
		}
		fm := &fakeMailer{}
		h := newReportHarness(t, fc, fm)

		_, err := h.svc.Run(context.Background(), RunInput{})
		require.Error(t, err)
		assert.Equal(t, "AUTH_ERROR", apperrors.ErrorCode(err))
		assert.Empty(t, fm.Sent)
	})

	t.Run("delivery failures are reported as such", func(t *testing.T) {
		fc := &fakeCarrier{Tickets: boardTickets()}
		fm := &fakeMailer{Err: apperrors.NewDeliveryError("send report email", nil)}
		h := newReportHarness(t, fc, fm)

		result, err := h.svc.Run(context.Background(), RunInput{})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, "DELIVERY_ERROR", apperrors.ErrorCode(err))

		types := h.dispatcher.Types()
		require.Len(t, types, 2)
		assert.Equal(t, events.EventReportRunFailed, types[1])

		failed := h.dispatcher.Events[1]
		payload, ok := failed.Payload.(events.ReportRunFailedPayload)
		require.True(t, ok)
		assert.Equal(t, "DELIVERY_ERROR", payload.Code)
	})
}
