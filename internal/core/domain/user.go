package domain

import "time"

// UserRow represents a user record returned from the store.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// User is the public view of an account, without the password hash.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SignupRequest carries the signup form fields.
type SignupRequest struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
	SendEmail            bool
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Username string
	Password string
}

// ResetPasswordRequest carries the password-reset form fields.
type ResetPasswordRequest struct {
	Username                string
	CurrentPassword         string
	NewPassword             string
	NewPasswordConfirmation string
	SendEmail               bool
}
