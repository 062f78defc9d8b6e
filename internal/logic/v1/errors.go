// Package v1 provides the credential business logic for API version 1.
//
// Sentinel errors below represent the designed rejection outcomes of the
// signup, login, and reset flows. They are wrapped with context using
// fmt.Errorf("%w") when returned and dispatched with errors.Is in the
// web layer, which owns the user-facing message strings.
package v1

import "errors"

var (
	// ErrUsernameExists indicates the requested username is already registered.
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailInUse indicates the requested email is already registered.
	ErrEmailInUse = errors.New("email address already in use")

	// ErrPasswordMismatch indicates the signup password and its
	// confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidCredentials indicates an unknown username or a wrong
	// password. The two cases are deliberately indistinguishable so the
	// login response never reveals account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the reset target does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongCurrentPassword indicates the current password supplied to
	// the reset flow does not match the stored hash.
	ErrWrongCurrentPassword = errors.New("incorrect current password")

	// ErrNewPasswordMismatch indicates the new password and its
	// confirmation differ.
	ErrNewPasswordMismatch = errors.New("new passwords do not match")
)
