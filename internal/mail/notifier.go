// Package mail sends best-effort account notifications. Delivery failures
// must never affect the credential operation that triggered them; callers
// log and discard the returned error.
package mail

import "context"

// Notifier is the contract for signup and password-reset notifications.
type Notifier interface {
	// SignupMail sends a welcome notification after a successful signup.
	SignupMail(ctx context.Context, email string) error

	// ResetMail sends a notification after a password reset.
	ResetMail(ctx context.Context, email string) error
}
