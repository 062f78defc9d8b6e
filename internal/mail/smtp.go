package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/minhngo/authweb/config"
)

// SMTPNotifier delivers notifications over SMTP.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

// NewSMTPNotifier creates a notifier for the given SMTP settings.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// SignupMail sends a welcome notification after a successful signup.
func (n *SMTPNotifier) SignupMail(ctx context.Context, email string) error {
	return n.send(ctx, email, "Welcome",
		"Your account has been created. You can now log in with your username and password.")
}

// ResetMail sends a notification after a password reset.
func (n *SMTPNotifier) ResetMail(ctx context.Context, email string) error {
	return n.send(ctx, email, "Password reset",
		"The password for your account has been reset. If this was not you, contact support.")
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	opts := []gomail.Option{gomail.WithPort(n.cfg.Port)}
	if n.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(n.cfg.Username),
			gomail.WithPassword(n.cfg.Password),
		)
	}

	client, err := gomail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
