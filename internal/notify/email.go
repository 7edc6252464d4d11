package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
)

// EmailConfig is the SMTP delivery configuration. Host, From, and at least
// one recipient are required to enable the sink; Username and Password are
// optional for unauthenticated relays.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string

	SubjectPrefix string
}

func (c EmailConfig) enabled() bool {
	return c.Host != "" && c.From != "" && len(c.To) > 0
}

// EmailNotifier sends the run summary over SMTP.
type EmailNotifier struct {
	cfg    EmailConfig
	logger *slog.Logger
}

// NewEmailNotifier creates the SMTP sink. With incomplete configuration
// Deliver becomes a no-op.
func NewEmailNotifier(cfg EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (e *EmailNotifier) Name() string { return "email" }

// Deliver sends the summary as a plain-text message. STARTTLS is used when
// the server offers it.
func (e *EmailNotifier) Deliver(ctx context.Context, results []domain.SiteResult) error {
	if !e.cfg.enabled() {
		return nil
	}

	s := BuildSummary(results, e.cfg.SubjectPrefix)

	msg := mail.NewMsg()
	if err := msg.From(e.cfg.From); err != nil {
		return fmt.Errorf("set mail sender: %w", err)
	}
	if err := msg.To(e.cfg.To...); err != nil {
		return fmt.Errorf("set mail recipients: %w", err)
	}
	msg.Subject(s.Subject)
	msg.SetBodyString(mail.TypeTextPlain, s.Body)

	opts := []mail.Option{
		mail.WithPort(e.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if e.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(e.cfg.Username),
			mail.WithPassword(e.cfg.Password),
		)
	}

	client, err := mail.NewClient(e.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send summary email: %w", err)
	}
	e.logger.Info("summary email sent", "recipients", len(e.cfg.To), "subject", s.Subject)
	return nil
}
