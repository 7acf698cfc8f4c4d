package handlers

import (
	"context"

	"storerate/internal/middleware"
	"storerate/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ResetNotifier delivers password reset links. Delivery is best effort.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, reset services.PasswordReset) error
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	notifier    ResetNotifier
	validate    *Validator
	logger      *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, notifier ResetNotifier, validate *Validator, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		notifier:    notifier,
		validate:    validate,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes. Extra handlers, such
// as a rate limiter, run before every auth route.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, extra ...fiber.Handler) {
	authRoutes := router.Group("/auth", extra...)
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/forgot-password", h.HandleForgotPassword)
	authRoutes.Get("/verify-reset-token/:token", h.HandleVerifyResetToken)
	authRoutes.Post("/reset-password/:token", h.HandleResetPassword)

	requireAuth := middleware.AuthRequired(h.authService)
	authRoutes.Post("/change-password", requireAuth, h.HandleChangePassword)
	authRoutes.Post("/logout", requireAuth, h.HandleLogout)
}

// HandleSignup registers a new user.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req signupRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Signup(c.UserContext(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		return err
	}
	return created(c, "User registered successfully", result)
}

// HandleLogin authenticates a user and returns a JWT.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return ok(c, "Login successful", result)
}

func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if err := h.authService.ChangePassword(c.UserContext(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return ok(c, "Password changed successfully", nil)
}

// HandleForgotPassword answers the same way whether or not the email is
// registered.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}

	reset, err := h.authService.ForgotPassword(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	if reset != nil {
		if err := h.notifier.NotifyPasswordReset(context.Background(), *reset); err != nil {
			h.logger.WithError(err).WithField("email", reset.Email).Warn("password reset notification failed")
		}
	}
	return ok(c, "If email exists, reset link has been sent", nil)
}

func (h *AuthHandler) HandleVerifyResetToken(c *fiber.Ctx) error {
	if err := h.authService.VerifyResetToken(c.UserContext(), c.Params("token")); err != nil {
		return err
	}
	return ok(c, "Token is valid", nil)
}

func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := h.validate.bindBody(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.UserContext(), c.Params("token"), req.NewPassword); err != nil {
		return err
	}
	return ok(c, "Password has been reset successfully", nil)
}

// HandleLogout is stateless; clients drop their token.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return ok(c, "Logged out successfully", nil)
}
