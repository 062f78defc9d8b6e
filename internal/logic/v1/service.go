package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhngo/authweb/internal/core/domain"
	"github.com/minhngo/authweb/internal/mail"
	"github.com/minhngo/authweb/middleware"
)

// AuthService implements the signup, login, and password-reset flows.
// It depends on the repository and notifier interfaces (injected via
// constructor) and MUST NOT access the database or SQL directly.
//
// Notification delivery is best-effort by design: a mail failure is
// logged and discarded, never surfaced, and never rolls back the
// committed credential change.
type AuthService struct {
	users    domain.UserRepository
	notifier mail.Notifier
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, notifier mail.Notifier) *AuthService {
	return &AuthService{
		users:    users,
		notifier: notifier,
	}
}

// Signup validates the signup request and creates the account.
// Checks run in order with the first failure winning: username taken,
// email taken, confirmation mismatch. Nothing is written unless all
// checks pass.
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.signup", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	// Existence pre-checks order the rejection messages; the store's
	// unique constraints remain the authority under concurrent signups.
	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", req.Username, err)
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("signup.success", false))
		return nil, fmt.Errorf("signup user %q: %w", req.Username, ErrUsernameExists)
	}

	existing, err = s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query email: %w", err)
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("signup.success", false))
		return nil, fmt.Errorf("signup user %q: %w", req.Username, ErrEmailInUse)
	}

	if req.Password != req.PasswordConfirmation {
		span.SetAttributes(attribute.Bool("signup.success", false))
		return nil, fmt.Errorf("signup user %q: %w", req.Username, ErrPasswordMismatch)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.users.Create(ctx, req.Username, req.Email, string(passwordHash))
	if err != nil {
		span.RecordError(err)
		// A concurrent signup can win the race after the pre-checks;
		// the constraint violation maps to the same rejections.
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return nil, fmt.Errorf("signup user %q: %w", req.Username, ErrUsernameExists)
		case errors.Is(err, domain.ErrEmailTaken):
			return nil, fmt.Errorf("signup user %q: %w", req.Username, ErrEmailInUse)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if req.SendEmail {
		s.notifySignup(ctx, req.Email)
	}

	user := &domain.User{
		ID:       userID,
		Username: req.Username,
		Email:    req.Email,
	}

	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Bool("signup.success", true),
	)
	span.AddEvent("user.registered")

	return user, nil
}

// Login verifies the supplied credentials. An unknown username and a
// wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	row, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", req.Username, err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", req.Username, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate user %q: %w", req.Username, ErrInvalidCredentials)
	}

	user := &domain.User{
		ID:       row.ID,
		Username: row.Username,
		Email:    row.Email,
	}

	span.SetAttributes(
		attribute.Int("user.id", user.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return user, nil
}

// ResetPassword replaces the user's password hash after verifying the
// current password. Checks run in order with the first failure winning:
// unknown user, wrong current password, confirmation mismatch.
func (s *AuthService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	ctx, span := middleware.StartSpan(ctx, "auth.reset_password", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", req.Username),
	))
	defer span.End()

	row, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("query user %q: %w", req.Username, err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("reset.success", false))
		return fmt.Errorf("reset password for %q: %w", req.Username, ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		span.SetAttributes(attribute.Bool("reset.success", false))
		return fmt.Errorf("reset password for %q: %w", req.Username, ErrWrongCurrentPassword)
	}

	if req.NewPassword != req.NewPasswordConfirmation {
		span.SetAttributes(attribute.Bool("reset.success", false))
		return fmt.Errorf("reset password for %q: %w", req.Username, ErrNewPasswordMismatch)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, row.ID, string(newHash)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("update password hash: %w", err)
	}

	if req.SendEmail && row.Email != "" {
		s.notifyReset(ctx, row.Email)
	}

	span.SetAttributes(
		attribute.Int("user.id", row.ID),
		attribute.Bool("reset.success", true),
	)
	span.AddEvent("password.reset")

	return nil
}

// SendResetNotification triggers a reset notification without touching
// the password. It deliberately reports nothing about whether the user
// exists; the only returned errors are store failures.
func (s *AuthService) SendResetNotification(ctx context.Context, username string, sendEmail bool) error {
	ctx, span := middleware.StartSpan(ctx, "auth.send_reset_notification", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("username", username),
	))
	defer span.End()

	if !sendEmail {
		return nil
	}

	row, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("query user %q: %w", username, err)
	}
	if row != nil && row.Email != "" {
		s.notifyReset(ctx, row.Email)
	}

	return nil
}

// notifySignup delivers the signup mail, swallowing any failure.
func (s *AuthService) notifySignup(ctx context.Context, email string) {
	if err := s.notifier.SignupMail(ctx, email); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("email", email).Msg("Signup mail failed")
	}
}

// notifyReset delivers the reset mail, swallowing any failure.
func (s *AuthService) notifyReset(ctx context.Context, email string) {
	if err := s.notifier.ResetMail(ctx, email); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("email", email).Msg("Reset mail failed")
	}
}
