// Package v1 serves the server-rendered auth pages: login, signup,
// password reset, and the standalone reset-mail trigger.
package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/minhngo/authweb/internal/core/domain"
	logicv1 "github.com/minhngo/authweb/internal/logic/v1"
	"github.com/minhngo/authweb/middleware"
)

// User-facing messages. Unknown-user and wrong-password login failures
// share one message so the response never reveals account existence.
const (
	msgUsernameExists       = "Username already exists"
	msgEmailInUse           = "Email address already in use"
	msgPasswordMismatch     = "Passwords do not match"
	msgBadCredentials       = "Incorrect username or password"
	msgUserNotFound         = "User not found"
	msgWrongCurrentPassword = "Incorrect current password"
	msgNewPasswordMismatch  = "New passwords do not match"
	msgInternal             = "Something went wrong, please try again"
)

// Handler groups the HTTP handlers for the auth pages.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth *logicv1.AuthService
}

// NewHandler creates a new Handler with the given AuthService.
func NewHandler(auth *logicv1.AuthService) *Handler {
	return &Handler{auth: auth}
}

// RegisterRoutes registers all auth page routes on the given engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.LoginPage)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/signup", h.SignupPage)
	r.POST("/signup", h.Signup)
	r.GET("/reset-password", h.ResetPage)
	r.POST("/reset-password", h.ResetPassword)
	r.POST("/send-reset-email", h.SendResetEmail)
	r.GET("/logout", h.Logout)
}

// LoginPage renders the login form.
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login verifies credentials. Success routes straight into the
// password-reset form with the username carried forward; no session or
// token is issued anywhere in this application.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	req := domain.LoginRequest{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	user, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, logicv1.ErrInvalidCredentials) {
			c.HTML(http.StatusOK, "login.html", gin.H{"Error": msgBadCredentials})
			return
		}
		logger.Error().Err(err).Msg("Login failed")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": msgInternal})
		return
	}

	logger.Info().Int("user_id", user.ID).Msg("Login successful")
	c.HTML(http.StatusOK, "reset.html", gin.H{"Username": user.Username})
}

// SignupPage renders the signup form.
func (h *Handler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{})
}

// Signup creates an account. Validation rejections re-render the signup
// form with the first failing check's message.
func (h *Handler) Signup(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	req := domain.SignupRequest{
		Username:             c.PostForm("username"),
		Email:                c.PostForm("email"),
		Password:             c.PostForm("password"),
		PasswordConfirmation: c.PostForm("password_confirmation"),
		SendEmail:            parseCheckbox(c.PostForm("send_email")),
	}

	user, err := h.auth.Signup(ctx, req)
	if err != nil {
		span.RecordError(err)

		var msg string
		switch {
		case errors.Is(err, logicv1.ErrUsernameExists):
			msg = msgUsernameExists
		case errors.Is(err, logicv1.ErrEmailInUse):
			msg = msgEmailInUse
		case errors.Is(err, logicv1.ErrPasswordMismatch):
			msg = msgPasswordMismatch
		default:
			logger.Error().Err(err).Str("username", req.Username).Msg("Signup failed")
			c.HTML(http.StatusInternalServerError, "signup.html", gin.H{"Error": msgInternal})
			return
		}
		c.HTML(http.StatusOK, "signup.html", gin.H{"Error": msg})
		return
	}

	logger.Info().Int("user_id", user.ID).Msg("Signup successful")
	c.HTML(http.StatusOK, "signup_success.html", gin.H{"SendEmail": req.SendEmail})
}

// ResetPage renders the password-reset form.
func (h *Handler) ResetPage(c *gin.Context) {
	c.HTML(http.StatusOK, "reset.html", gin.H{"Username": ""})
}

// ResetPassword rotates the password after verifying the current one.
func (h *Handler) ResetPassword(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	req := domain.ResetPasswordRequest{
		Username:                c.PostForm("username"),
		CurrentPassword:         c.PostForm("current_password"),
		NewPassword:             c.PostForm("new_password"),
		NewPasswordConfirmation: c.PostForm("new_password_confirmation"),
		SendEmail:               parseCheckbox(c.PostForm("send_email")),
	}

	if err := h.auth.ResetPassword(ctx, req); err != nil {
		span.RecordError(err)

		var msg string
		switch {
		case errors.Is(err, logicv1.ErrUserNotFound):
			msg = msgUserNotFound
		case errors.Is(err, logicv1.ErrWrongCurrentPassword):
			msg = msgWrongCurrentPassword
		case errors.Is(err, logicv1.ErrNewPasswordMismatch):
			msg = msgNewPasswordMismatch
		default:
			logger.Error().Err(err).Str("username", req.Username).Msg("Password reset failed")
			c.HTML(http.StatusInternalServerError, "reset.html", gin.H{"Error": msgInternal, "Username": req.Username})
			return
		}
		c.HTML(http.StatusOK, "reset.html", gin.H{"Error": msg, "Username": req.Username})
		return
	}

	logger.Info().Str("username", req.Username).Msg("Password reset successful")
	c.HTML(http.StatusOK, "reset_success.html", gin.H{"SendEmail": req.SendEmail})
}

// SendResetEmail triggers a reset notification and redirects home.
// The redirect is identical whether or not the user exists, so this
// endpoint reveals nothing about accounts.
func (h *Handler) SendResetEmail(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	username := c.PostForm("username")
	sendEmail := parseCheckbox(c.PostForm("send_email"))

	if err := h.auth.SendResetNotification(ctx, username, sendEmail); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Reset notification lookup failed")
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Logout redirects home. There is no session to tear down.
func (h *Handler) Logout(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// parseCheckbox interprets HTML checkbox and boolean form values.
func parseCheckbox(v string) bool {
	if v == "on" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
