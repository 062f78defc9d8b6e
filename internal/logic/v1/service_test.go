package v1

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhngo/authweb/internal/core/domain"
	"github.com/minhngo/authweb/internal/core/repository"
)

// recordingNotifier captures notification recipients.
type recordingNotifier struct {
	signup []string
	reset  []string
}

func (n *recordingNotifier) SignupMail(ctx context.Context, email string) error {
	n.signup = append(n.signup, email)
	return nil
}

func (n *recordingNotifier) ResetMail(ctx context.Context, email string) error {
	n.reset = append(n.reset, email)
	return nil
}

// failingNotifier fails every delivery.
type failingNotifier struct{}

func (failingNotifier) SignupMail(ctx context.Context, email string) error {
	return errors.New("smtp connection refused")
}

func (failingNotifier) ResetMail(ctx context.Context, email string) error {
	return errors.New("smtp connection refused")
}

func newService(t *testing.T) (*AuthService, *repository.MemoryUserRepository, *recordingNotifier) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	notifier := &recordingNotifier{}
	return NewAuthService(users, notifier), users, notifier
}

func signupReq(username, email, password string) domain.SignupRequest {
	return domain.SignupRequest{
		Username:             username,
		Email:                email,
		Password:             password,
		PasswordConfirmation: password,
	}
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores a bcrypt hash, not the plaintext", func(t *testing.T) {
		svc, users, _ := newService(t)

		user, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "a@x.com", user.Email)

		row, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.NotEqual(t, "pw1", row.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte("pw1")))
	})

	t.Run("duplicate username rejected regardless of other fields", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)

		_, err = svc.Signup(ctx, signupReq("alice", "different@x.com", "other"))
		assert.ErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)

		_, err = svc.Signup(ctx, signupReq("bob", "a@x.com", "pw2"))
		assert.ErrorIs(t, err, ErrEmailInUse)
	})

	t.Run("username check wins over email check", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)

		// Both fields collide; the username rejection must be reported.
		_, err = svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		assert.ErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("confirmation mismatch leaves no row behind", func(t *testing.T) {
		svc, users, _ := newService(t)

		_, err := svc.Signup(ctx, domain.SignupRequest{
			Username:             "alice",
			Email:                "a@x.com",
			Password:             "a",
			PasswordConfirmation: "b",
		})
		assert.ErrorIs(t, err, ErrPasswordMismatch)

		row, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("notification sent only when requested", func(t *testing.T) {
		svc, _, notifier := newService(t)

		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)
		assert.Empty(t, notifier.signup)

		req := signupReq("bob", "b@x.com", "pw2")
		req.SendEmail = true
		_, err = svc.Signup(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, []string{"b@x.com"}, notifier.signup)
	})

	t.Run("notifier failure never rolls back the signup", func(t *testing.T) {
		users := repository.NewMemoryUserRepository()
		svc := NewAuthService(users, failingNotifier{})

		req := signupReq("alice", "a@x.com", "pw1")
		req.SendEmail = true
		user, err := svc.Signup(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, user)

		row, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, row)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
	require.NoError(t, err)

	t.Run("correct password succeeds", func(t *testing.T) {
		user, err := svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "pw1"})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		_, wrongPwErr := svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "nope"})
		_, unknownErr := svc.Login(ctx, domain.LoginRequest{Username: "ghost", Password: "pw1"})

		assert.ErrorIs(t, wrongPwErr, ErrInvalidCredentials)
		assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	resetReq := func(username, current, next string) domain.ResetPasswordRequest {
		return domain.ResetPasswordRequest{
			Username:                username,
			CurrentPassword:         current,
			NewPassword:             next,
			NewPasswordConfirmation: next,
		}
	}

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newService(t)
		err := svc.ResetPassword(ctx, resetReq("ghost", "pw1", "pw2"))
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)

		err = svc.ResetPassword(ctx, resetReq("alice", "nope", "pw2"))
		assert.ErrorIs(t, err, ErrWrongCurrentPassword)
	})

	t.Run("new password confirmation mismatch", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)

		req := resetReq("alice", "pw1", "pw2")
		req.NewPasswordConfirmation = "pw3"
		err = svc.ResetPassword(ctx, req)
		assert.ErrorIs(t, err, ErrNewPasswordMismatch)

		// The mismatch must be detected before any mutation.
		_, err = svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "pw1"})
		assert.NoError(t, err)
	})

	t.Run("success rotates the credential", func(t *testing.T) {
		svc, _, notifier := newService(t)
		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)

		req := resetReq("alice", "pw1", "pw2")
		req.SendEmail = true
		require.NoError(t, svc.ResetPassword(ctx, req))

		_, err = svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "pw2"})
		assert.NoError(t, err)
		_, err = svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "pw1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		assert.Equal(t, []string{"a@x.com"}, notifier.reset)
	})

	t.Run("notifier failure does not undo the reset", func(t *testing.T) {
		users := repository.NewMemoryUserRepository()
		svc := NewAuthService(users, failingNotifier{})
		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)

		req := resetReq("alice", "pw1", "pw2")
		req.SendEmail = true
		require.NoError(t, svc.ResetPassword(ctx, req))

		_, err = svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "pw2"})
		assert.NoError(t, err)
	})
}

func TestSendResetNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("flag off sends nothing", func(t *testing.T) {
		svc, _, notifier := newService(t)
		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)

		require.NoError(t, svc.SendResetNotification(ctx, "alice", false))
		assert.Empty(t, notifier.reset)
	})

	t.Run("unknown user is silently ignored", func(t *testing.T) {
		svc, _, notifier := newService(t)

		require.NoError(t, svc.SendResetNotification(ctx, "ghost", true))
		assert.Empty(t, notifier.reset)
	})

	t.Run("known user receives the mail", func(t *testing.T) {
		svc, _, notifier := newService(t)
		_, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
		require.NoError(t, err)

		require.NoError(t, svc.SendResetNotification(ctx, "alice", true))
		assert.Equal(t, []string{"a@x.com"}, notifier.reset)
	})
}

// TestAccountLifecycle walks the full signup, login, reset sequence.
func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newService(t)

	user, err := svc.Signup(ctx, signupReq("alice", "a@x.com", "pw1"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	row, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "a@x.com", row.Email)

	logged, err := svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", logged.Username)

	_, err = svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ResetPassword(ctx, domain.ResetPasswordRequest{
		Username:                "alice",
		CurrentPassword:         "pw1",
		NewPassword:             "pw2",
		NewPasswordConfirmation: "pw2",
	}))

	_, err = svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "pw2"})
	assert.NoError(t, err)
	_, err = svc.Login(ctx, domain.LoginRequest{Username: "alice", Password: "pw1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
