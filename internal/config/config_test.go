package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/board-report/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "board-report-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 120*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 465, cfg.SMTP.Port)
	assert.Equal(t, 5, cfg.Report.CompletionWindowDays)
	assert.Equal(t, []domain.TicketStatus{domain.TicketStatusBlocked}, cfg.Report.RiskStatuses)
	assert.Equal(t, []domain.Severity{domain.SeverityCritical}, cfg.Report.RiskSeverities)
	assert.Empty(t, cfg.Auth.TriggerSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SMTP_PORT", "2465")
	t.Setenv("SMTP_RECIPIENTS", "a@example.com, b@example.com ,")
	t.Setenv("REPORT_COMPLETION_WINDOW_DAYS", "14")
	t.Setenv("REPORT_RISK_STATUSES", "blocked, in_review")
	t.Setenv("REPORT_RISK_SEVERITIES", "HIGH,critical")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2465, cfg.SMTP.Port)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.SMTP.RecipientList())
	assert.Equal(t, 14*24*time.Hour, cfg.Report.CompletionWindow())
	assert.Equal(t,
		[]domain.TicketStatus{domain.TicketStatusBlocked, domain.TicketStatusInReview},
		cfg.Report.RiskStatuses)
	assert.Equal(t,
		[]domain.Severity{domain.SeverityHigh, domain.SeverityCritical},
		cfg.Report.RiskSeverities)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("malformed SMTP port", func(t *testing.T) {
		t.Setenv("SMTP_PORT", "not-a-port")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown risk status", func(t *testing.T) {
		t.Setenv("REPORT_RISK_STATUSES", "blocked,archived")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "archived")
	})
}

func TestRiskPredicateAssembly(t *testing.T) {
	report := ReportConfig{
		RiskStatuses:   []domain.TicketStatus{domain.TicketStatusBlocked},
		RiskSeverities: []domain.Severity{domain.SeverityCritical},
	}

	pred := report.RiskPredicate()
	assert.True(t, pred.Matches(domain.Ticket{Status: domain.TicketStatusBlocked}))
	assert.False(t, pred.Matches(domain.Ticket{Status: domain.TicketStatusOpen}))
}

func TestCompletionWindowFloor(t *testing.T) {
	assert.Equal(t, 5*24*time.Hour, ReportConfig{}.CompletionWindow())
	assert.Equal(t, 5*24*time.Hour, ReportConfig{CompletionWindowDays: -1}.CompletionWindow())
}
