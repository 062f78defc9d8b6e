package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier is used when SMTP is not configured: it records the
// notification in the log and reports success.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SignupMail logs the signup notification instead of sending it.
func (n *LogNotifier) SignupMail(ctx context.Context, email string) error {
	zerolog.Ctx(ctx).Info().Str("email", email).Msg("SMTP disabled, skipping signup mail")
	return nil
}

// ResetMail logs the reset notification instead of sending it.
func (n *LogNotifier) ResetMail(ctx context.Context, email string) error {
	zerolog.Ctx(ctx).Info().Str("email", email).Msg("SMTP disabled, skipping reset mail")
	return nil
}
