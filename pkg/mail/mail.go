// Package mail defines the outbound email port used for welcome and
// notification messages. Delivery is best-effort; callers must never fail a
// request because an email could not be sent.
package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Message is a single outbound email.
type Message struct {
	ToName    string
	ToEmail   string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Mailer delivers messages through a concrete provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures the mail provider.
type Config struct {
	Provider    string
	SendgridKey string
	FromName    string
	FromEmail   string
}

// New builds a Mailer from configuration. Unknown providers fall back to the
// console backend so local environments work without credentials.
func New(cfg Config, logger *zap.Logger) (Mailer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendgridKey == "" {
			return nil, fmt.Errorf("sendgrid provider requires MAIL_SENDGRID_KEY")
		}
		return NewSendgridMailer(cfg.SendgridKey, cfg.FromName, cfg.FromEmail), nil
	case "", "console":
		return NewConsoleMailer(logger), nil
	default:
		logger.Sugar().Warnw("unknown mail provider, using console", "provider", cfg.Provider)
		return NewConsoleMailer(logger), nil
	}
}
