package mail

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer logs messages instead of delivering them. Used in development
// and as the default when no provider is configured.
type ConsoleMailer struct {
	logger *zap.Logger
}

// NewConsoleMailer builds a console-backed mailer.
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

// Send writes the message to the application log.
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.logger.Sugar().Infow("email (console)",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"body", msg.PlainBody,
	)
	return nil
}
