// Package mailer delivers password reset notices. The only implementation
// writes them to the log; nothing leaves the process.
package mailer

import (
	"context"
	"time"

	"github.com/dmitrijs2005/commsshield/internal/logging"
)

// ResetSender sends the reset token to the account's address.
type ResetSender interface {
	SendPasswordReset(ctx context.Context, to, token string, expiry time.Time) error
}

// LogSender logs the message and always succeeds.
type LogSender struct {
	logger logging.Logger
}

// NewLogSender returns a sender that only logs.
func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "mailer")}
}

func (s *LogSender) SendPasswordReset(ctx context.Context, to, token string, expiry time.Time) error {
	s.logger.Info(ctx, "sending password reset email",
		"to", to,
		"subject", "Reset your password",
		"token", token,
		"expires_at", expiry.Format(time.RFC3339),
	)
	return nil
}
