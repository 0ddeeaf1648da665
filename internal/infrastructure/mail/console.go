package mail

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer writes messages to the log instead of sending them, used in development
type ConsoleMailer struct {
	logger *zap.Logger
}

var _ Mailer = &ConsoleMailer{}

// NewConsoleMailer .
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger}
}

// Send implement Mailer
func (cm *ConsoleMailer) Send(ctx context.Context, msg *Message) error {
	to := make([]string, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, addr.String())
	}
	cm.logger.Info("mail.send",
		zap.Strings("mail.to", to),
		zap.String("mail.subject", msg.Subject),
		zap.String("mail.body", msg.TextBody),
	)
	return nil
}
