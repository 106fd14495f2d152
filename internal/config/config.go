package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/board-report/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App     AppConfig
	Carrier CarrierConfig
	SMTP    SMTPConfig
	Report  ReportConfig
	Logger  LoggerConfig
	Auth    AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// CarrierConfig holds defaults for the upstream project-management API.
// Every field can be overridden per run request.
type CarrierConfig struct {
	BaseURL   string
	Token     string
	ProjectID string
	BoardID   string
}

// SMTPConfig holds mail relay connection values. The relay speaks TLS from
// the first byte (implicit TLS, typically port 465).
type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Sender     string
	Recipients string
}

// ReportConfig tunes report composition.
type ReportConfig struct {
	CompletionWindowDays int
	RiskStatuses         []domain.TicketStatus
	RiskSeverities       []domain.Severity
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines trigger authentication parameters. An empty secret
// disables bearer checks on the run endpoint.
type AuthConfig struct {
	TriggerSecret          string
	TriggerTokenTTLMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "465"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	riskStatuses, err := parseRiskStatuses(getEnv("REPORT_RISK_STATUSES", string(domain.TicketStatusBlocked)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "board-report-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 120),
		},
		Carrier: CarrierConfig{
			BaseURL:   os.Getenv("CARRIER_BASE_URL"),
			Token:     os.Getenv("CARRIER_TOKEN"),
			ProjectID: os.Getenv("CARRIER_PROJECT_ID"),
			BoardID:   os.Getenv("CARRIER_BOARD_ID"),
		},
		SMTP: SMTPConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       smtpPort,
			User:       os.Getenv("SMTP_USER"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			Sender:     os.Getenv("SMTP_SENDER"),
			Recipients: os.Getenv("SMTP_RECIPIENTS"),
		},
		Report: ReportConfig{
			CompletionWindowDays: getEnvAsInt("REPORT_COMPLETION_WINDOW_DAYS", 5),
			RiskStatuses:         riskStatuses,
			RiskSeverities:       parseRiskSeverities(getEnv("REPORT_RISK_SEVERITIES", string(domain.SeverityCritical))),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			TriggerSecret:          os.Getenv("AUTH_TRIGGER_SECRET"),
			TriggerTokenTTLMinutes: getEnvAsInt("AUTH_TRIGGER_TOKEN_TTL_MINUTES", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RecipientList splits the comma-separated recipients, trimming blanks.
func (s SMTPConfig) RecipientList() []string {
	parts := strings.Split(s.Recipients, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// CompletionWindow returns the recent-completion lookback duration.
func (r ReportConfig) CompletionWindow() time.Duration {
	days := r.CompletionWindowDays
	if days <= 0 {
		days = 5
	}
	return time.Duration(days) * 24 * time.Hour
}

// RiskPredicate assembles the configured risk overlay.
func (r ReportConfig) RiskPredicate() domain.RiskPredicate {
	return domain.RiskPredicate{
		Statuses:   r.RiskStatuses,
		Severities: r.RiskSeverities,
	}
}

// TriggerTokenTTL returns the lifetime for minted trigger tokens.
func (a AuthConfig) TriggerTokenTTL() time.Duration {
	return time.Duration(a.TriggerTokenTTLMinutes) * time.Minute
}

func parseRiskStatuses(raw string) ([]domain.TicketStatus, error) {
	var out []domain.TicketStatus
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		status, ok := domain.ParseStatus(part)
		if !ok {
			return nil, fmt.Errorf("invalid REPORT_RISK_STATUSES entry %q", part)
		}
		out = append(out, status)
	}
	return out, nil
}

func parseRiskSeverities(raw string) []domain.Severity {
	var out []domain.Severity
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, domain.NormalizeSeverity(part))
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
