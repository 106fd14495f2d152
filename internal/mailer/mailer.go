package mailer

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/spec-kit/board-report/internal/config"
	apperrors "github.com/spec-kit/board-report/pkg/util"
)

// Mailer delivers a composed report email.
type Mailer interface {
	SendReport(ctx context.Context, subject, htmlBody string) error
}

// SMTPMailer sends mail through a relay speaking TLS from the first byte.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer creates the mailer.
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// SendReport composes one message for every recipient and delivers it over a
// single SMTP exchange.
func (m *SMTPMailer) SendReport(ctx context.Context, subject, htmlBody string) error {
	recipients := m.cfg.RecipientList()
	if m.cfg.Host == "" || m.cfg.Sender == "" || len(recipients) == 0 {
		return apperrors.NewValidationError("Missing required SMTP settings", map[string]any{
			"host_set":   m.cfg.Host != "",
			"sender_set": m.cfg.Sender != "",
			"recipients": len(recipients),
		})
	}

	msg, err := composeMessage(m.cfg.Sender, recipients, subject, htmlBody)
	if err != nil {
		return apperrors.NewDeliveryError("compose report email", err)
	}

	client, err := newSMTPClient(m.cfg)
	if err != nil {
		return apperrors.NewDeliveryError("configure mail client", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return apperrors.NewDeliveryError("send report email", err)
	}

	m.logger.Info("report email sent",
		zap.String("subject", subject),
		zap.Int("recipients", len(recipients)))
	return nil
}

func composeMessage(sender string, recipients []string, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(sender); err != nil {
		return nil, err
	}
	if err := msg.To(recipients...); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetMessageIDWithValue(messageID(sender))
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

func messageID(sender string) string {
	domain := "localhost"
	if at := strings.LastIndex(sender, "@"); at >= 0 && at < len(sender)-1 {
		domain = sender[at+1:]
	}
	return uuid.NewString() + "@" + domain
}

func newSMTPClient(cfg config.SMTPConfig) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}
	return mail.NewClient(cfg.Host, opts...)
}
